package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sysmap/sam/internal/server"
	"github.com/sysmap/sam/pkg/store"
	"github.com/sysmap/sam/pkg/ulm"
)

// newServeCmd creates the serve command that runs the HTTP API server.
func newServeCmd() *cobra.Command {
	var (
		listen string
		seed   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the SAM HTTP API server.

The server exposes the application catalog and the dependency graph under
/api/v1. Configuration comes from sam.toml, .env, and SAM_* environment
variables; --listen overrides the configured address.

With --seed the built-in demo catalog is loaded into an empty store at
startup, which makes the in-memory backend usable out of the box.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}
			// --verbose wins over the configured level.
			if logger.GetLevel() != charmlog.DebugLevel {
				if level, err := charmlog.ParseLevel(cfg.LogLevel); err == nil {
					logger.SetLevel(level)
				}
			}

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(context.Background()) }()

			if seed {
				seeded, err := store.Seed(ctx, st, false)
				if err != nil {
					return err
				}
				if seeded {
					logger.Info("seeded demo catalog")
				} else {
					logger.Debug("store already populated, seed skipped")
				}
			}

			c, err := openCache(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			svc := serviceFor(st, c, logger)

			var verifier server.Verifier
			if cfg.ULM.BaseURL != "" {
				verifier = ulm.New(ulm.Config{
					BaseURL:   cfg.ULM.BaseURL,
					AppSource: cfg.ULM.AppSource,
					Username:  cfg.ULM.Username,
					Password:  cfg.ULM.Password,
					Timeout:   cfg.ULM.Timeout.Std(),
				})
				logger.Info("token verification enabled", "ulm", cfg.ULM.BaseURL)
			} else {
				logger.Warn("no ULM configured, mutations are unauthenticated")
			}

			srv, err := server.NewFromConfig(cfg, svc, st, verifier, logger)
			if err != nil {
				return err
			}

			httpSrv := &http.Server{
				Addr:              cfg.Listen,
				Handler:           srv,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", cfg.Listen, "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := httpSrv.Shutdown(shutdownCtx); err != nil {
					return err
				}
				return ctx.Err()
			}
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&seed, "seed", false, "seed the demo catalog into an empty store at startup")

	return cmd
}
