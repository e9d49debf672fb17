package commands

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/plaszyme/am"
	"github.com/teranos/plaszyme/display"
	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/errors"
	"github.com/teranos/plaszyme/ix"
	"github.com/teranos/plaszyme/logger"
	"github.com/teranos/plaszyme/rank"
	"github.com/teranos/plaszyme/search"
	"github.com/teranos/plaszyme/sym"
)

// SearchCmd runs a similarity search from the command line
var SearchCmd = &cobra.Command{
	Use:   "search [sequence]",
	Short: sym.Search + " Find enzymes similar to a protein sequence",
	Long: sym.Search + ` search: Find enzymes similar to a protein sequence

The query may be given as an argument, read from a file with --file, or
piped on stdin. FASTA headers and whitespace in the query are ignored.

Thresholds: low (>=5%), medium (>=15%), high (>=30%), very_high (>=50%).

Examples:
  plaszyme search MNFPRASRLMQAAVLGGLMAVSAAATAQTNPYARGPNPTAASLEASAGPFTVRSFTVSRPSGYGAGTVYYPTNAGGTVGAIAIVPGYTARQSSIKWWGPRLASHGFVVITIDTNSTLDQPSSRSSQQMAALRQVASLNGTSSSPIYGKVDTARMGVMGWSMGGGGSLISAANNPSLKAAAPQAPWDSSTNFSSVTVPTLIFACENDSIAPVNSSALPIYDSMSRNAKQFLEINGGSHSCANSGNSNQALIGKKGVAWMKRFMDNDTRYSTFACENPNSTRVSDFRTANCS
  plaszyme search -f query.fasta --tag PET --structure with_structure
  cat query.fasta | plaszyme search --threshold high --json
  plaszyme search -f query.fasta --fasta corpus.fasta   # search a FASTA file instead of the database`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

var (
	searchFile       string
	searchCorpus     string
	searchDBPath     string
	searchMaxResults int
	searchThreshold  string
	searchTag        string
	searchStructure  string
	searchAlignment  bool
)

func init() {
	SearchCmd.Flags().StringVarP(&searchFile, "file", "f", "", "Read the query sequence from a file ('-' for stdin)")
	SearchCmd.Flags().StringVar(&searchCorpus, "fasta", "", "Search the records of a FASTA file instead of the database")
	SearchCmd.Flags().StringVar(&searchDBPath, "db-path", "", "Database path (overrides config)")
	SearchCmd.Flags().IntVarP(&searchMaxResults, "max-results", "n", 0, "Maximum results (default from search.default_max_results)")
	SearchCmd.Flags().StringVarP(&searchThreshold, "threshold", "t", "", "Similarity tier: low, medium, high, very_high")
	SearchCmd.Flags().StringVar(&searchTag, "tag", "", "Only candidates carrying this substrate tag (e.g. PET)")
	SearchCmd.Flags().StringVar(&searchStructure, "structure", "", "Structure filter: all, with_structure, without_structure")
	SearchCmd.Flags().BoolVar(&searchAlignment, "alignment", false, "Print the alignment preview of each match")
	SearchCmd.Flags().BoolP("json", "j", false, "Output the search response as JSON")
}

// engineConfig maps the search section of am config onto an engine config.
func engineConfig(cfg *am.Config) search.Config {
	return search.Config{
		DefaultMaxResults: cfg.Search.DefaultMaxResults,
		MaxResultsCap:     cfg.Search.MaxResultsCap,
		DefaultTier:       rank.ParseTier(cfg.Search.DefaultThreshold),
		OverfetchFactor:   cfg.Search.OverfetchFactor,
		Workers:           cfg.Search.Workers,
	}
}

// searchTimeout returns the configured per-search deadline, zero for none.
func searchTimeout(cfg *am.Config) time.Duration {
	return time.Duration(cfg.Search.TimeoutSeconds) * time.Second
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	query, err := readQuery(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if d := searchTimeout(cfg); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	source, closeSource, err := openCandidateSource(ctx)
	if err != nil {
		return err
	}
	defer closeSource()

	engine := search.NewEngine(source, engineConfig(cfg), logger.Logger.Named("search"))

	jsonOut := display.ShouldOutputJSON(cmd)
	var spinner *pterm.SpinnerPrinter
	if !jsonOut {
		spinner, _ = pterm.DefaultSpinner.Start("Searching...")
	}

	resp, err := engine.Search(ctx, search.Request{
		Sequence:        query,
		MaxResults:      searchMaxResults,
		Threshold:       searchThreshold,
		TagFilter:       searchTag,
		StructureFilter: searchStructure,
	})
	if spinner != nil {
		_ = spinner.Stop()
	}

	if err != nil {
		if jsonOut {
			_ = display.OutputJSON(cmd.OutOrStdout(), search.Failure(err))
		}
		return errors.Wrap(err, "search failed")
	}

	if jsonOut {
		return display.OutputJSON(cmd.OutOrStdout(), resp)
	}
	return display.SearchTable(cmd.OutOrStdout(), resp, searchAlignment)
}

// readQuery takes the query from the argument, --file, or piped stdin.
func readQuery(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case len(args) == 1 && args[0] != "-":
		return args[0], nil
	case searchFile != "" && searchFile != "-":
		data, err := os.ReadFile(searchFile)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read query file %s", searchFile)
		}
		return string(data), nil
	}

	if f, ok := cmd.InOrStdin().(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return "", errors.WithHint(search.ErrEmptyInput, "pass a sequence, --file, or pipe one on stdin")
		}
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", errors.Wrap(err, "failed to read query from stdin")
	}
	return strings.TrimSpace(string(data)), nil
}

// openCandidateSource returns the FASTA-backed source when --fasta is set,
// and the database store otherwise.
func openCandidateSource(ctx context.Context) (search.CandidateSource, func(), error) {
	if searchCorpus != "" {
		f, err := os.Open(searchCorpus)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to open %s", searchCorpus)
		}
		defer f.Close()

		mem := enzyme.NewMemorySource()
		summary, err := ix.ImportFASTA(ctx, f, mem, ix.Options{})
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to load %s", searchCorpus)
		}
		logger.Infow("Loaded FASTA corpus",
			logger.FieldFile, searchCorpus,
			logger.FieldCount, summary.Imported,
			logger.FieldSkipped, summary.Skipped)
		return mem, func() {}, nil
	}

	database, err := openDatabase(searchDBPath)
	if err != nil {
		return nil, nil, err
	}
	return enzyme.NewStore(database, logger.Logger.Named("store")), func() { database.Close() }, nil
}
