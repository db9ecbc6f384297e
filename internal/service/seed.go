package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/deppfellow/repertoire/internal/model"
	"github.com/deppfellow/repertoire/internal/repository"
	"github.com/deppfellow/repertoire/internal/server"
)

// SeedResult counts what a seeding run inserted and skipped.
type SeedResult struct {
	ComposersInserted int
	ComposersSkipped  int
	PiecesInserted    int
	PiecesSkipped     int
}

type SeedService struct {
	server *server.Server
	repos  repository.Transactor
}

func NewSeedService(s *server.Server, repos repository.Transactor) *SeedService {
	return &SeedService{server: s, repos: repos}
}

// LoadSeedFiles reads the composer and piece collections from disk.
func LoadSeedFiles(composersPath, piecesPath string) ([]model.SeedComposer, []model.SeedPiece, error) {
	var composers []model.SeedComposer
	if err := readJSON(composersPath, &composers); err != nil {
		return nil, nil, err
	}

	var pieces []model.SeedPiece
	if err := readJSON(piecesPath, &pieces); err != nil {
		return nil, nil, err
	}

	return composers, pieces, nil
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}
	return nil
}

// Seed inserts the records that are not stored yet, all in one transaction.
//
// A composer is skipped when its composer_id already exists. A piece is
// skipped when its composer already had pieces before this run started, so
// running Seed twice never duplicates rows. Any invalid record aborts the
// whole run.
func (s *SeedService) Seed(ctx context.Context, composers []model.SeedComposer, pieces []model.SeedPiece) (SeedResult, error) {
	for i := range composers {
		if err := composers[i].Validate(); err != nil {
			return SeedResult{}, fmt.Errorf("invalid composer record %d: %w", i, err)
		}
	}
	for i := range pieces {
		if err := pieces[i].Validate(); err != nil {
			return SeedResult{}, fmt.Errorf("invalid piece record %d: %w", i, err)
		}
	}

	var result SeedResult

	err := s.repos.WithinTransaction(ctx, func(store repository.Store) error {
		result = SeedResult{}

		for _, record := range composers {
			exists, err := store.Composers().Exists(ctx, record.ComposerID)
			if err != nil {
				return err
			}
			if exists {
				result.ComposersSkipped++
				continue
			}

			_, err = store.Composers().CreateWithID(ctx, model.Composer{
				ID:          record.ComposerID,
				Name:        record.Name,
				HomeCountry: record.HomeCountry,
			})
			if err != nil {
				return fmt.Errorf("failed to seed composer %d: %w", record.ComposerID, err)
			}
			result.ComposersInserted++
		}

		if result.ComposersInserted > 0 {
			if err := store.Composers().SyncIDSequence(ctx); err != nil {
				return err
			}
		}

		seeded, err := store.Pieces().ComposerIDsWithPieces(ctx)
		if err != nil {
			return err
		}

		for _, record := range pieces {
			if seeded[record.ComposerID] {
				result.PiecesSkipped++
				continue
			}

			if _, err := store.Pieces().Create(ctx, record.Piece()); err != nil {
				return fmt.Errorf("failed to seed piece %q: %w", record.Name, err)
			}
			result.PiecesInserted++
		}

		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	s.server.Logger.Info().
		Int("composers_inserted", result.ComposersInserted).
		Int("composers_skipped", result.ComposersSkipped).
		Int("pieces_inserted", result.PiecesInserted).
		Int("pieces_skipped", result.PiecesSkipped).
		Msg("seed data loaded")

	return result, nil
}
