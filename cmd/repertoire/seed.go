package main

import (
	"context"
	"fmt"

	"github.com/deppfellow/repertoire/internal/database"
	"github.com/deppfellow/repertoire/internal/repository"
	"github.com/deppfellow/repertoire/internal/server"
	"github.com/deppfellow/repertoire/internal/service"
	"github.com/spf13/cobra"
)

var (
	flagComposersPath string
	flagPiecesPath    string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load composers and pieces from the seed JSON files",
	Long: `Seed inserts the composers and pieces from two JSON files. Composers
whose composer_id already exists are skipped, as are pieces of composers that
already have pieces, so running it twice changes nothing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagComposersPath != "" {
			cfg.Seed.ComposersPath = flagComposersPath
		}
		if flagPiecesPath != "" {
			cfg.Seed.PiecesPath = flagPiecesPath
		}

		ctx := cmd.Context()
		if err := database.Migrate(ctx, &log, cfg); err != nil {
			return err
		}

		srv, err := server.New(cfg, &log, loggerService)
		if err != nil {
			return err
		}
		defer srv.Shutdown(ctx)

		services, err := service.NewService(srv, repository.NewRepositories(srv))
		if err != nil {
			return err
		}

		return runSeed(ctx, services.Seed)
	},
}

func init() {
	seedCmd.Flags().StringVar(&flagComposersPath, "composers", "", "composers JSON file (default: REPERTOIRE_SEED.COMPOSERS_PATH)")
	seedCmd.Flags().StringVar(&flagPiecesPath, "pieces", "", "pieces JSON file (default: REPERTOIRE_SEED.PIECES_PATH)")
}

func runSeed(ctx context.Context, seeder *service.SeedService) error {
	composers, pieces, err := service.LoadSeedFiles(cfg.Seed.ComposersPath, cfg.Seed.PiecesPath)
	if err != nil {
		return err
	}

	if _, err := seeder.Seed(ctx, composers, pieces); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	return nil
}
