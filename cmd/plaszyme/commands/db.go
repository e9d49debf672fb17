package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/plaszyme/display"
	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/logger"
	"github.com/teranos/plaszyme/sym"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: sym.DB + " Corpus database",
	Long: sym.DB + ` db: Inspect the enzyme corpus database

Examples:
  plaszyme db stats               # Corpus statistics
  plaszyme db stats --json        # Same, as JSON`,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	Long:  "Display enzyme counts, 3D structure coverage, and plastic, host and EC number distributions",
	RunE:  runDbStats,
}

var dbPathFlag string

func init() {
	DbCmd.PersistentFlags().StringVar(&dbPathFlag, "db-path", "", "Database path (overrides config)")
	dbStatsCmd.Flags().BoolP("json", "j", false, "Output statistics as JSON")
	DbCmd.AddCommand(dbStatsCmd)
}

func runDbStats(cmd *cobra.Command, args []string) error {
	path, err := resolveDBPath(dbPathFlag)
	if err != nil {
		return err
	}
	database, err := openDatabase(path)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stats, err := enzyme.NewStore(database, logger.Logger.Named("store")).Stats(ctx)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), stats)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Corpus Statistics\n", sym.DB)
	fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(out, "Database Path: %s\n\n", path)
	return display.StatsTable(out, stats)
}
