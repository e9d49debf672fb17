package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/plaszyme/am"
	"github.com/teranos/plaszyme/cmd/plaszyme/commands"
	"github.com/teranos/plaszyme/errors"
	"github.com/teranos/plaszyme/logger"
)

var rootCmd = &cobra.Command{
	Use:   "plaszyme",
	Short: "plaszyme - plastic-degrading enzyme sequence search",
	Long: `plaszyme - search a corpus of plastic-degrading enzymes by protein sequence similarity.

Available commands:
  search  - Find enzymes similar to a protein sequence
  server  - Start the HTTP API server
  ix      - Import enzyme records from FASTA or CSV
  export  - Export FASTA datasets from the corpus
  db      - Show corpus statistics
  am      - Show and validate configuration ("I am")
  version - Show build information

Examples:
  plaszyme ix fasta enzymes.fasta        # Import a FASTA corpus
  plaszyme search MNFPRASRLMQAAVLGG...   # Search by sequence
  plaszyme search -f query.fasta --tag PET --threshold high
  plaszyme server                        # Serve the HTTP API`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.InitializeWithLevel(false, logger.VerbosityToLevel(verbosity)); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		if cfg, err := am.Load(); err == nil && cfg.Server.LogTheme != "" && os.Getenv("PLASZYME_LOG_THEME") == "" {
			logger.SetTheme(cfg.Server.LogTheme)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")

	rootCmd.AddCommand(commands.SearchCmd)
	rootCmd.AddCommand(commands.ServerCmd)
	rootCmd.AddCommand(commands.IxCmd)
	rootCmd.AddCommand(commands.ExportCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errors.UserMessage(err))
		os.Exit(1)
	}
}
