package commands

import (
	"context"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/plaszyme/display"
	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/export"
	"github.com/teranos/plaszyme/logger"
	"github.com/teranos/plaszyme/sym"
)

// ExportCmd writes FASTA datasets from the corpus
var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: sym.Export + " Export FASTA datasets",
	Long: sym.Export + ` export: Export FASTA datasets from the corpus

Each dataset selects records by substrate tag, EC number prefix or
taxonomy and writes them to its own FASTA file. Sequences of 50 residues
or fewer are left out. A report of counts is written alongside.

Built-in datasets: comprehensive, pet, pe_pp, ec31, bacterial, fungal.
Add or override datasets with a TOML presets file:

  [datasets.pla]
  title = "PLA depolymerases"
  tags = ["PLA"]

Examples:
  plaszyme export --out datasets/
  plaszyme export --dataset pet --dataset ec31
  plaszyme export --presets datasets.toml --list`,
	RunE: runExport,
}

var (
	exportDatasets []string
	exportPresets  string
	exportOut      string
	exportDBPath   string
	exportList     bool
)

func init() {
	ExportCmd.Flags().StringSliceVarP(&exportDatasets, "dataset", "d", nil, "Datasets to export (default: all)")
	ExportCmd.Flags().StringVar(&exportPresets, "presets", "", "TOML file of additional dataset definitions")
	ExportCmd.Flags().StringVarP(&exportOut, "out", "o", "fasta_exports", "Output directory")
	ExportCmd.Flags().StringVar(&exportDBPath, "db-path", "", "Database path (overrides config)")
	ExportCmd.Flags().BoolVar(&exportList, "list", false, "List available datasets and exit")
	ExportCmd.Flags().BoolP("json", "j", false, "Output results as JSON")
}

func runExport(cmd *cobra.Command, args []string) error {
	all := export.Builtin()
	if exportPresets != "" {
		var err error
		if all, err = export.LoadPresets(exportPresets); err != nil {
			return err
		}
	}

	if exportList {
		data := pterm.TableData{{"Key", "Title", "File"}}
		for _, d := range all {
			data = append(data, []string{d.Key, d.Title, d.Filename})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}

	datasets, err := export.Select(all, exportDatasets)
	if err != nil {
		return err
	}

	database, err := openDatabase(exportDBPath)
	if err != nil {
		return err
	}
	defer database.Close()
	store := enzyme.NewStore(database, logger.Logger.Named("store"))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	results, err := export.ExportAll(ctx, exportOut, datasets, store)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), results)
	}

	data := pterm.TableData{{"Dataset", "File", "Matched", "Written"}}
	for _, r := range results {
		data = append(data, []string{r.Title, r.Filename, strconv.Itoa(r.Matched), strconv.Itoa(r.Written)})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	pterm.Success.Printf("Exported %d dataset(s) to %s\n", len(results), exportOut)
	return nil
}
