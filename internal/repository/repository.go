// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update composers and pieces, abstracting SQL logic away from
// the service layer.
//
// Every store is bound to a DBTX, so the same code runs against the pool or
// inside the transaction opened by Repositories.WithinTransaction. Lookups
// that match nothing return an error wrapping pgx.ErrNoRows with a
// "table:<name>:" prefix that sqlerr.HandleError understands.
package repository

import (
	"context"

	"github.com/deppfellow/repertoire/internal/database"
	"github.com/deppfellow/repertoire/internal/model"
)

// DBTX is the query surface shared by the pool and a transaction.
type DBTX = database.DBTX

// ComposerStore persists composers. Returned composers never carry pieces;
// the service attaches them.
type ComposerStore interface {
	List(ctx context.Context) ([]model.Composer, error)
	GetByID(ctx context.Context, id int) (*model.Composer, error)
	Exists(ctx context.Context, id int) (bool, error)
	Create(ctx context.Context, composer model.Composer) (*model.Composer, error)
	// CreateWithID inserts a composer keeping the caller's id (used by seeding).
	CreateWithID(ctx context.Context, composer model.Composer) (*model.Composer, error)
	Update(ctx context.Context, composer model.Composer) (*model.Composer, error)
	Delete(ctx context.Context, id int) error
	// SyncIDSequence moves the identity sequence past explicitly inserted ids.
	SyncIDSequence(ctx context.Context) error
}

// PieceStore persists pieces.
type PieceStore interface {
	List(ctx context.Context) ([]model.Piece, error)
	ListByComposer(ctx context.Context, composerID int) ([]model.Piece, error)
	// GetByName returns the lowest-id piece with that name.
	GetByName(ctx context.Context, name string) (*model.Piece, error)
	Create(ctx context.Context, piece model.Piece) (*model.Piece, error)
	Update(ctx context.Context, piece model.Piece) (*model.Piece, error)
	Delete(ctx context.Context, id int) error
	DeleteByComposer(ctx context.Context, composerID int) (int64, error)
	ComposerIDsWithPieces(ctx context.Context) (map[int]bool, error)
}

// Store groups the stores that share one unit of work.
type Store interface {
	Composers() ComposerStore
	Pieces() PieceStore
}

// Transactor runs fn against a Store bound to a single transaction. The
// transaction commits only if fn returns nil.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(store Store) error) error
}
