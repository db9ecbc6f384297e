package service

import (
	"context"

	"github.com/deppfellow/repertoire/internal/model"
	"github.com/deppfellow/repertoire/internal/repository"
	"github.com/deppfellow/repertoire/internal/server"
)

type ComposerService struct {
	server *server.Server
	repos  repository.Transactor
}

func NewComposerService(s *server.Server, repos repository.Transactor) *ComposerService {
	return &ComposerService{server: s, repos: repos}
}

// List returns every composer with its pieces.
func (s *ComposerService) List(ctx context.Context) ([]model.Composer, error) {
	var composers []model.Composer

	err := s.repos.WithinTransaction(ctx, func(store repository.Store) error {
		var err error
		if composers, err = store.Composers().List(ctx); err != nil {
			return err
		}

		pieces, err := store.Pieces().List(ctx)
		if err != nil {
			return err
		}

		model.AttachPieces(composers, pieces)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if composers == nil {
		composers = []model.Composer{}
	}
	return composers, nil
}

func (s *ComposerService) Create(ctx context.Context, req *model.CreateComposerRequest) (*model.Composer, error) {
	var created *model.Composer

	err := s.repos.WithinTransaction(ctx, func(store repository.Store) error {
		var err error
		created, err = store.Composers().Create(ctx, req.Composer())
		return err
	})
	if err != nil {
		return nil, err
	}

	created.Pieces = []model.Piece{}

	s.server.Logger.Info().
		Int("composer_id", created.ID).
		Msg("composer created")

	return created, nil
}

// Update applies the supplied fields of req and returns the state before and
// after. A missing composer is a 404, never an insert.
func (s *ComposerService) Update(ctx context.Context, req *model.UpdateComposerRequest) (old, updated model.Composer, err error) {
	err = s.repos.WithinTransaction(ctx, func(store repository.Store) error {
		current, err := s.load(ctx, store, req.ID)
		if err != nil {
			return err
		}

		old = current.Snapshot()
		req.Apply(current)

		saved, err := store.Composers().Update(ctx, *current)
		if err != nil {
			return orNotFound(err, func() error { return composerNotFound(req.ID) })
		}

		saved.Pieces = current.Pieces
		updated = *saved
		return nil
	})
	if err != nil {
		return model.Composer{}, model.Composer{}, err
	}

	s.server.Logger.Info().
		Int("composer_id", req.ID).
		Msg("composer updated")

	return old, updated, nil
}

// Delete removes the composer and every piece that references it, and
// returns what was removed.
func (s *ComposerService) Delete(ctx context.Context, id int) (*model.Composer, error) {
	var deleted model.Composer

	err := s.repos.WithinTransaction(ctx, func(store repository.Store) error {
		current, err := s.load(ctx, store, id)
		if err != nil {
			return err
		}
		deleted = current.Snapshot()

		if _, err := store.Pieces().DeleteByComposer(ctx, id); err != nil {
			return err
		}

		if err := store.Composers().Delete(ctx, id); err != nil {
			return orNotFound(err, func() error { return composerNotFound(id) })
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.server.Logger.Info().
		Int("composer_id", id).
		Int("pieces_removed", len(deleted.Pieces)).
		Msg("composer deleted")

	return &deleted, nil
}

// load fetches a composer together with its pieces.
func (s *ComposerService) load(ctx context.Context, store repository.Store, id int) (*model.Composer, error) {
	composer, err := store.Composers().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, func() error { return composerNotFound(id) })
	}

	pieces, err := store.Pieces().ListByComposer(ctx, id)
	if err != nil {
		return nil, err
	}
	composer.Pieces = pieces
	if composer.Pieces == nil {
		composer.Pieces = []model.Piece{}
	}
	return composer, nil
}
