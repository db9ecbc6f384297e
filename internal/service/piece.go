package service

import (
	"context"

	"github.com/deppfellow/repertoire/internal/errs"
	"github.com/deppfellow/repertoire/internal/model"
	"github.com/deppfellow/repertoire/internal/repository"
	"github.com/deppfellow/repertoire/internal/server"
)

type PieceService struct {
	server *server.Server
	repos  repository.Transactor
}

func NewPieceService(s *server.Server, repos repository.Transactor) *PieceService {
	return &PieceService{server: s, repos: repos}
}

// List returns every piece, or only those of one composer when the request
// carries a filter. Filtering by an unknown composer is a 404.
func (s *PieceService) List(ctx context.Context, req *model.ListPiecesRequest) ([]model.Piece, error) {
	composerID, err := req.Filter()
	if err != nil {
		return nil, errs.NewBadRequestError(model.ComposerFilterMessage, true, nil,
			[]errs.FieldError{{Field: "composer_id", Error: "must be a number"}})
	}

	var pieces []model.Piece

	err = s.repos.WithinTransaction(ctx, func(store repository.Store) error {
		if composerID == nil {
			var err error
			pieces, err = store.Pieces().List(ctx)
			return err
		}

		exists, err := store.Composers().Exists(ctx, *composerID)
		if err != nil {
			return err
		}
		if !exists {
			return composerNotFound(*composerID)
		}

		pieces, err = store.Pieces().ListByComposer(ctx, *composerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if pieces == nil {
		pieces = []model.Piece{}
	}
	return pieces, nil
}

// Create checks the difficulty, then the composer, then inserts.
func (s *PieceService) Create(ctx context.Context, req *model.CreatePieceRequest) (*model.Piece, error) {
	piece := req.Piece()
	if err := checkDifficulty(piece.Difficulty); err != nil {
		return nil, err
	}

	var created *model.Piece

	err := s.repos.WithinTransaction(ctx, func(store repository.Store) error {
		exists, err := store.Composers().Exists(ctx, piece.ComposerID)
		if err != nil {
			return err
		}
		if !exists {
			return composerNotFound(piece.ComposerID)
		}

		created, err = store.Pieces().Create(ctx, piece)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.server.Logger.Info().
		Int("piece_id", created.ID).
		Int("composer_id", created.ComposerID).
		Msg("piece created")

	return created, nil
}

// Update looks the piece up by req.Target and applies the supplied fields.
//
// Order: lookup, difficulty, composer reference, then the write. Nothing is
// written unless every check passes.
func (s *PieceService) Update(ctx context.Context, req *model.UpdatePieceRequest) (old, updated model.Piece, err error) {
	err = s.repos.WithinTransaction(ctx, func(store repository.Store) error {
		current, err := store.Pieces().GetByName(ctx, req.Target)
		if err != nil {
			return orNotFound(err, func() error { return pieceNotFound(req.Target) })
		}

		if req.Difficulty != nil {
			if err := checkDifficulty(*req.Difficulty); err != nil {
				return err
			}
		}

		if req.ComposerID != nil {
			exists, err := store.Composers().Exists(ctx, *req.ComposerID)
			if err != nil {
				return err
			}
			if !exists {
				return unknownComposerReference(*req.ComposerID)
			}
		}

		old = current.Snapshot()
		req.Apply(current)

		saved, err := store.Pieces().Update(ctx, *current)
		if err != nil {
			return orNotFound(err, func() error { return pieceNotFound(req.Target) })
		}
		updated = *saved
		return nil
	})
	if err != nil {
		return model.Piece{}, model.Piece{}, err
	}

	s.server.Logger.Info().
		Int("piece_id", updated.ID).
		Msg("piece updated")

	return old, updated, nil
}

// Delete removes the piece found under name and returns it.
func (s *PieceService) Delete(ctx context.Context, name string) (*model.Piece, error) {
	var deleted model.Piece

	err := s.repos.WithinTransaction(ctx, func(store repository.Store) error {
		current, err := store.Pieces().GetByName(ctx, name)
		if err != nil {
			return orNotFound(err, func() error { return pieceNotFound(name) })
		}
		deleted = current.Snapshot()

		if err := store.Pieces().Delete(ctx, current.ID); err != nil {
			return orNotFound(err, func() error { return pieceNotFound(name) })
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.server.Logger.Info().
		Int("piece_id", deleted.ID).
		Msg("piece deleted")

	return &deleted, nil
}
