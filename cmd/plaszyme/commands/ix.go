package commands

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/plaszyme/display"
	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/errors"
	"github.com/teranos/plaszyme/ix"
	"github.com/teranos/plaszyme/logger"
	"github.com/teranos/plaszyme/sym"
)

// IxCmd groups the corpus import commands
var IxCmd = &cobra.Command{
	Use:   "ix",
	Short: sym.IX + " Import enzyme records",
	Long: sym.IX + ` ix: Import enzyme records into the corpus

Records are upserted by ID. Sequences are cleaned and validated the same
way search queries are; invalid records are skipped and reported.

FASTA headers: >ID Name [Organism] tags=PET;PBAT pdb=5XJH ec=3.1.1.101
CSV columns:   id, sequence, name, organism, taxonomy, ec_number, pdb_ids, substrates

Examples:
  plaszyme ix fasta enzymes.fasta
  plaszyme ix csv plaszyme_export.csv --dry-run
  plaszyme ix fasta - --json < enzymes.fasta`,
}

var ixFastaCmd = &cobra.Command{
	Use:   "fasta <file>",
	Short: "Import a FASTA file ('-' for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0], ix.ImportFASTA)
	},
}

var ixCsvCmd = &cobra.Command{
	Use:   "csv <file>",
	Short: "Import a CSV file with a header row ('-' for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0], ix.ImportCSV)
	},
}

var (
	ixDryRun    bool
	ixBatchSize int
	ixDBPath    string
)

func init() {
	for _, c := range []*cobra.Command{ixFastaCmd, ixCsvCmd} {
		c.Flags().BoolVar(&ixDryRun, "dry-run", false, "Parse and validate without writing")
		c.Flags().IntVar(&ixBatchSize, "batch-size", ix.DefaultBatchSize, "Records written per transaction")
		c.Flags().StringVar(&ixDBPath, "db-path", "", "Database path (overrides config)")
		c.Flags().BoolP("json", "j", false, "Emit progress and summary as JSON lines")
		IxCmd.AddCommand(c)
	}
}

type importFunc func(ctx context.Context, r io.Reader, sink ix.Sink, opts ix.Options) (*ix.Summary, error)

func runImport(cmd *cobra.Command, path string, importer importFunc) error {
	var in io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "failed to open %s", path)
		}
		defer f.Close()
		in = f
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	jsonOut := display.ShouldOutputJSON(cmd)

	var emitter ix.ProgressEmitter = ix.NewCLIEmitter(verbosity)
	if jsonOut {
		emitter = ix.NewJSONEmitter(cmd.OutOrStdout())
	}

	var sink ix.Sink
	if ixDryRun {
		sink = enzyme.NewMemorySource()
	} else {
		database, err := openDatabase(ixDBPath)
		if err != nil {
			return err
		}
		defer database.Close()
		sink = enzyme.NewStore(database, logger.Logger.Named("store"))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	summary, err := importer(ctx, in, sink, ix.Options{
		BatchSize: ixBatchSize,
		DryRun:    ixDryRun,
		Emitter:   emitter,
	})
	if err != nil {
		emitter.EmitError("import", err)
		return errors.Wrapf(err, "import of %s failed", path)
	}

	if !jsonOut {
		printSkips(summary)
	}
	return nil
}

func printSkips(summary *ix.Summary) {
	if summary.Skipped == 0 {
		return
	}
	pterm.Warning.Printf("Skipped %d record(s)\n", summary.Skipped)

	data := pterm.TableData{{"Line", "ID", "Reason"}}
	for _, s := range summary.Skips {
		line := ""
		if s.Line > 0 {
			line = strconv.Itoa(s.Line)
		}
		data = append(data, []string{line, s.ID, strings.TrimSpace(s.Reason)})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
