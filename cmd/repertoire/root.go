package main

import (
	"fmt"

	"github.com/deppfellow/repertoire/internal/config"
	"github.com/deppfellow/repertoire/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Set by PersistentPreRunE for every subcommand.
var (
	cfg           *config.Config
	log           zerolog.Logger
	loggerService *logger.LoggerService
)

var rootCmd = &cobra.Command{
	Use:   "repertoire",
	Short: "Repertoire serves composers and their pieces over HTTP",
	Long: `Repertoire is a JSON API over a PostgreSQL catalogue of composers and
the pieces they wrote. Configuration is read from REPERTOIRE_* environment
variables (and a .env file when present).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		loggerService = logger.NewLoggerService(cfg.Observability)
		log = logger.NewLoggerWithService(cfg.Observability, loggerService)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		loggerService.Shutdown()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
