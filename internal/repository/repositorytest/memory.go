// Package repositorytest provides an in-memory repository.Transactor for
// tests that exercise services and handlers without PostgreSQL.
//
// The memory store mirrors the schema: it assigns ids, enforces the piece
// foreign key, the difficulty check and non-empty names, cascades composer
// deletes, and reports violations as *pgconn.PgError with the same SQLSTATE
// and constraint names the database uses.
package repositorytest

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/deppfellow/repertoire/internal/model"
	"github.com/deppfellow/repertoire/internal/repository"
	"github.com/deppfellow/repertoire/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type state struct {
	composers      map[int]model.Composer
	pieces         map[int]model.Piece
	nextComposerID int
	nextPieceID    int
}

func (s state) clone() state {
	c := state{
		composers:      make(map[int]model.Composer, len(s.composers)),
		pieces:         make(map[int]model.Piece, len(s.pieces)),
		nextComposerID: s.nextComposerID,
		nextPieceID:    s.nextPieceID,
	}
	for id, composer := range s.composers {
		c.composers[id] = composer.Snapshot()
	}
	for id, piece := range s.pieces {
		c.pieces[id] = piece.Snapshot()
	}
	return c
}

// Memory is a transactional in-memory store. Transactions are serialized.
type Memory struct {
	mu    sync.Mutex
	state state

	// BeforeCommit, when set, runs after fn succeeds and before the new state
	// is published. A non-nil error discards the transaction, the same way a
	// deferred constraint failing at COMMIT would.
	BeforeCommit func() error
}

var _ repository.Transactor = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		state: state{
			composers:      map[int]model.Composer{},
			pieces:         map[int]model.Piece{},
			nextComposerID: 1,
			nextPieceID:    1,
		},
	}
}

// WithinTransaction implements repository.Transactor.
func (m *Memory) WithinTransaction(ctx context.Context, fn func(store repository.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	working := m.state.clone()
	if err := fn(&memStore{state: &working}); err != nil {
		return err
	}
	if m.BeforeCommit != nil {
		if err := m.BeforeCommit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
	}
	m.state = working
	return nil
}

// ComposerCount and PieceCount report committed rows.
func (m *Memory) ComposerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.composers)
}

func (m *Memory) PieceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.pieces)
}

type memStore struct {
	state *state
}

func (s *memStore) Composers() repository.ComposerStore { return composerStore{s.state} }
func (s *memStore) Pieces() repository.PieceStore       { return pieceStore{s.state} }

func checkViolation(table, constraint string) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23514",
		Message:        fmt.Sprintf("new row for relation %q violates check constraint %q", table, constraint),
		TableName:      table,
		ConstraintName: constraint,
	}
}

func foreignKeyViolation(composerID int) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23503",
		Message:        `insert or update on table "piece" violates foreign key constraint "piece_composer_id_fkey"`,
		Detail:         fmt.Sprintf("Key (composer_id)=(%d) is not present in table \"composer\".", composerID),
		TableName:      "piece",
		ColumnName:     "composer_id",
		ConstraintName: sqlerr.ConstraintPieceComposer,
	}
}

func notFound(table string) error {
	return fmt.Errorf("table:%s: %w", table, pgx.ErrNoRows)
}

// ----------------------------------------------------------------------------

type composerStore struct {
	s *state
}

func (c composerStore) checkRow(composer model.Composer) error {
	if composer.Name == "" {
		return checkViolation("composer", sqlerr.ConstraintComposerName)
	}
	if composer.HomeCountry == "" {
		return checkViolation("composer", sqlerr.ConstraintComposerCountry)
	}
	return nil
}

func (c composerStore) List(ctx context.Context) ([]model.Composer, error) {
	composers := make([]model.Composer, 0, len(c.s.composers))
	for _, id := range slices.Sorted(maps.Keys(c.s.composers)) {
		composers = append(composers, c.s.composers[id].Snapshot())
	}
	return composers, nil
}

func (c composerStore) GetByID(ctx context.Context, id int) (*model.Composer, error) {
	composer, ok := c.s.composers[id]
	if !ok {
		return nil, notFound("composer")
	}
	composer = composer.Snapshot()
	return &composer, nil
}

func (c composerStore) Exists(ctx context.Context, id int) (bool, error) {
	_, ok := c.s.composers[id]
	return ok, nil
}

func (c composerStore) Create(ctx context.Context, composer model.Composer) (*model.Composer, error) {
	composer.ID = c.s.nextComposerID
	c.s.nextComposerID++
	return c.insert(composer)
}

func (c composerStore) CreateWithID(ctx context.Context, composer model.Composer) (*model.Composer, error) {
	return c.insert(composer)
}

func (c composerStore) insert(composer model.Composer) (*model.Composer, error) {
	if err := c.checkRow(composer); err != nil {
		return nil, err
	}
	if _, ok := c.s.composers[composer.ID]; ok {
		return nil, &pgconn.PgError{
			Severity:       "ERROR",
			Code:           "23505",
			Message:        `duplicate key value violates unique constraint "composer_pkey"`,
			TableName:      "composer",
			ConstraintName: "composer_pkey",
		}
	}
	composer.Pieces = nil
	c.s.composers[composer.ID] = composer
	return &composer, nil
}

func (c composerStore) Update(ctx context.Context, composer model.Composer) (*model.Composer, error) {
	if _, ok := c.s.composers[composer.ID]; !ok {
		return nil, notFound("composer")
	}
	if err := c.checkRow(composer); err != nil {
		return nil, err
	}
	composer.Pieces = nil
	c.s.composers[composer.ID] = composer
	return &composer, nil
}

func (c composerStore) Delete(ctx context.Context, id int) error {
	if _, ok := c.s.composers[id]; !ok {
		return notFound("composer")
	}
	delete(c.s.composers, id)
	for pieceID, piece := range c.s.pieces {
		if piece.ComposerID == id {
			delete(c.s.pieces, pieceID)
		}
	}
	return nil
}

func (c composerStore) SyncIDSequence(ctx context.Context) error {
	next := 1
	for id := range c.s.composers {
		next = max(next, id+1)
	}
	c.s.nextComposerID = next
	return nil
}

// ----------------------------------------------------------------------------

type pieceStore struct {
	s *state
}

func (p pieceStore) checkRow(piece model.Piece) error {
	if piece.Name == "" {
		return checkViolation("piece", sqlerr.ConstraintPieceName)
	}
	if piece.Difficulty < model.MinDifficulty || piece.Difficulty > model.MaxDifficulty {
		return checkViolation("piece", sqlerr.ConstraintPieceDifficulty)
	}
	if _, ok := p.s.composers[piece.ComposerID]; !ok {
		return foreignKeyViolation(piece.ComposerID)
	}
	return nil
}

func (p pieceStore) sorted(keep func(model.Piece) bool) []model.Piece {
	pieces := []model.Piece{}
	for _, id := range slices.Sorted(maps.Keys(p.s.pieces)) {
		if piece := p.s.pieces[id]; keep(piece) {
			pieces = append(pieces, piece.Snapshot())
		}
	}
	return pieces
}

func (p pieceStore) List(ctx context.Context) ([]model.Piece, error) {
	return p.sorted(func(model.Piece) bool { return true }), nil
}

func (p pieceStore) ListByComposer(ctx context.Context, composerID int) ([]model.Piece, error) {
	return p.sorted(func(piece model.Piece) bool { return piece.ComposerID == composerID }), nil
}

func (p pieceStore) GetByName(ctx context.Context, name string) (*model.Piece, error) {
	matches := p.sorted(func(piece model.Piece) bool { return piece.Name == name })
	if len(matches) == 0 {
		return nil, notFound("piece")
	}
	return &matches[0], nil
}

func (p pieceStore) Create(ctx context.Context, piece model.Piece) (*model.Piece, error) {
	if err := p.checkRow(piece); err != nil {
		return nil, err
	}
	piece.ID = p.s.nextPieceID
	p.s.nextPieceID++
	p.s.pieces[piece.ID] = piece.Snapshot()
	return &piece, nil
}

func (p pieceStore) Update(ctx context.Context, piece model.Piece) (*model.Piece, error) {
	if _, ok := p.s.pieces[piece.ID]; !ok {
		return nil, notFound("piece")
	}
	if err := p.checkRow(piece); err != nil {
		return nil, err
	}
	p.s.pieces[piece.ID] = piece.Snapshot()
	return &piece, nil
}

func (p pieceStore) Delete(ctx context.Context, id int) error {
	if _, ok := p.s.pieces[id]; !ok {
		return notFound("piece")
	}
	delete(p.s.pieces, id)
	return nil
}

func (p pieceStore) DeleteByComposer(ctx context.Context, composerID int) (int64, error) {
	var n int64
	for id, piece := range p.s.pieces {
		if piece.ComposerID == composerID {
			delete(p.s.pieces, id)
			n++
		}
	}
	return n, nil
}

func (p pieceStore) ComposerIDsWithPieces(ctx context.Context) (map[int]bool, error) {
	set := map[int]bool{}
	for _, piece := range p.s.pieces {
		set[piece.ComposerID] = true
	}
	return set, nil
}
