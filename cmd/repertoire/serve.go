package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/repertoire/internal/database"
	"github.com/deppfellow/repertoire/internal/handler"
	"github.com/deppfellow/repertoire/internal/repository"
	"github.com/deppfellow/repertoire/internal/router"
	"github.com/deppfellow/repertoire/internal/server"
	"github.com/deppfellow/repertoire/internal/service"
	"github.com/spf13/cobra"
)

// DefaultContextTimeout bounds graceful shutdown.
const DefaultContextTimeout = 30 * time.Second

var flagSkipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if !flagSkipMigrate {
			if err := database.Migrate(ctx, &log, cfg); err != nil {
				return err
			}
		}

		srv, err := server.New(cfg, &log, loggerService)
		if err != nil {
			return err
		}

		repos := repository.NewRepositories(srv)
		services, err := service.NewService(srv, repos)
		if err != nil {
			return err
		}

		if cfg.Seed.Enabled {
			if err := runSeed(ctx, services.Seed); err != nil {
				return err
			}
		}

		handlers := handler.NewHandlers(srv, services)
		srv.SetupHTTPServer(router.NewRouter(srv, handlers))

		serveErr := make(chan error, 1)
		go func() {
			serveErr <- srv.Start()
		}()

		select {
		case err := <-serveErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}

		log.Info().Msg("server exited properly")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&flagSkipMigrate, "skip-migrate", false, "do not apply schema migrations on startup")
}
