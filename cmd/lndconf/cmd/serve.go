package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/api"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/events"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/preset"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the form over HTTP",
	Long: `Start the HTTP form API. Clients open editing sessions, read resolved
fields, submit edits and apply presets; session activity is streamed as
server-sent events.

Examples:
  # Start with defaults (localhost:8735)
  lndconf serve

  # Start on custom host and port
  lndconf serve --host 0.0.0.0 --port 3000

  # Disable CORS (for production behind a reverse proxy)
  lndconf serve --no-cors

  # Pick up preset files as they are added or edited
  lndconf serve --presets-dir ./presets --watch-presets`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveHost         string
	servePort         int
	serveNoCORS       bool
	serveWatchPresets bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "",
		"Host address to bind to (default from config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0,
		"Port to listen on (default from config)")
	serveCmd.Flags().BoolVar(&serveNoCORS, "no-cors", false,
		"Disable CORS headers")
	serveCmd.Flags().BoolVar(&serveWatchPresets, "watch-presets", false,
		"Reload the presets directory when its files change")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	cfg := web.ConfigFrom(appCfg.Server)
	if serveHost != "" {
		cfg.Host = serveHost
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveNoCORS {
		cfg.EnableCORS = false
	}

	eventBus := events.New(100)
	defer eventBus.Close()

	apiServer := api.NewServer(a.resolver, a.presets,
		api.WithLogger(logger.Logger),
		api.WithEventBus(eventBus),
		api.WithPlatform(a.platform),
		api.WithMaxSessions(appCfg.Server.MaxSessions),
	)
	server := web.New(cfg, apiServer, logger.Logger)

	if serveWatchPresets || appCfg.Presets.Watch {
		if appCfg.Presets.Dir == "" {
			return fmt.Errorf("--watch-presets requires --presets-dir")
		}
		watcher, err := preset.WatchDir(appCfg.Presets.Dir, preset.DefaultDebounce, logger.Logger,
			func() { reloadPresets(a, apiServer) })
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.ListenAndServe)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server...")
		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.Bool("cors", cfg.EnableCORS),
		slog.String("platform", a.platform),
	)
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// reloadPresets rebuilds the preset table after a file change. A broken file
// keeps the previous table.
func reloadPresets(a *app, apiServer *api.Server) {
	table, err := loadPresets(a.schema)
	if err != nil {
		logger.Warn("presets not reloaded", slog.String("error", err.Error()))
		return
	}
	apiServer.SetPresets(table)
}
