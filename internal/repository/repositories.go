package repository

import (
	"context"

	"github.com/deppfellow/repertoire/internal/database"
	"github.com/deppfellow/repertoire/internal/server"
	"github.com/jackc/pgx/v5"
)

// Repositories is the container the services depend on. It opens one
// transaction per unit of work and hands out stores bound to it.
type Repositories struct {
	db *database.Database
}

var _ Transactor = (*Repositories)(nil)

// NewRepositories constructs the repository container on top of s.DB.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{db: s.DB}
}

// WithinTransaction implements Transactor.
func (r *Repositories) WithinTransaction(ctx context.Context, fn func(store Store) error) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		return fn(NewStore(tx))
	})
}

type pgStore struct {
	composers *ComposerRepository
	pieces    *PieceRepository
}

// NewStore binds every store to db.
func NewStore(db DBTX) Store {
	return &pgStore{
		composers: NewComposerRepository(db),
		pieces:    NewPieceRepository(db),
	}
}

func (s *pgStore) Composers() ComposerStore { return s.composers }
func (s *pgStore) Pieces() PieceStore       { return s.pieces }
