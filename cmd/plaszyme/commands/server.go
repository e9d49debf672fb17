package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/plaszyme/am"
	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/errors"
	"github.com/teranos/plaszyme/logger"
	"github.com/teranos/plaszyme/search"
	"github.com/teranos/plaszyme/server"
	"github.com/teranos/plaszyme/substrate"
	"github.com/teranos/plaszyme/sym"
)

// ServerCmd starts the HTTP API server
var ServerCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"serve"},
	Short:   sym.Server + " Start the HTTP API server",
	Long: sym.Server + ` server: Serve sequence search over HTTP

Endpoints:
  POST /api/search              similarity search
  GET  /api/enzymes/{id}        enzyme detail with sequence properties
  GET  /api/stats               corpus statistics
  GET  /api/substrates[/{name}] plastic SMILES catalog
  GET  /health                  liveness and build info

Examples:
  plaszyme server
  plaszyme server --port 9000 -v
  plaszyme server --catalog plastics.csv --watch`,
	RunE: runServer,
}

var (
	serverPort    int
	serverDBPath  string
	serverCatalog string
	serverWatch   bool
)

func init() {
	ServerCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Port to listen on (default from server.port)")
	ServerCmd.Flags().StringVar(&serverDBPath, "db-path", "", "Database path (overrides config)")
	ServerCmd.Flags().StringVar(&serverCatalog, "catalog", "", "Substrate SMILES catalog CSV (overrides substrates.catalog_path)")
	ServerCmd.Flags().BoolVar(&serverWatch, "watch", false, "Reload the catalog when the file changes")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Server logs at Info unless asked for more
	if v, _ := cmd.Flags().GetCount("verbose"); v == 0 {
		if err := logger.InitializeWithLevel(false, logger.VerbosityToLevel(logger.VerbosityInfo)); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
	}

	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}
	if serverCatalog != "" {
		cfg.Substrates.CatalogPath = serverCatalog
	}
	if cmd.Flags().Changed("watch") {
		cfg.Substrates.Watch = serverWatch
	}

	database, err := openDatabase(serverDBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	store := enzyme.NewStore(database, logger.Logger.Named("store"))
	count, err := store.Count(context.Background())
	if err != nil {
		return err
	}
	if count == 0 {
		pterm.Warning.Println("The corpus is empty; import records with 'plaszyme ix' first")
	}

	catalog := substrate.NewCache(cfg.Substrates.CatalogPath)
	if cfg.Substrates.Watch {
		watcher, err := substrate.NewWatcher(catalog)
		if err != nil {
			return errors.Wrap(err, "failed to watch substrate catalog")
		}
		watcher.Start()
		defer watcher.Stop()
	}

	srv, err := server.New(server.Options{
		Engine:  search.NewEngine(store, engineConfig(cfg), logger.Logger.Named("search")),
		Enzymes: store,
		Stats:   store,
		Catalog: catalog,
		Records: store,
		Config:  cfg.Server,
		Timeout: searchTimeout(cfg),
		Logger:  logger.Logger.Named("server"),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infow("Starting server",
		"enzymes", count,
		"catalog", cfg.Substrates.CatalogPath,
		"requests_per_minute", cfg.Server.RequestsPerMinute,
	)
	return srv.ListenAndServe(ctx)
}
