package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/repertoire/internal/model"
	"github.com/jackc/pgx/v5"
)

type PieceRepository struct {
	db DBTX
}

func NewPieceRepository(db DBTX) *PieceRepository {
	return &PieceRepository{db: db}
}

const pieceColumns = `id, name, alt_name, difficulty, composer_id`

func (r *PieceRepository) collect(rows pgx.Rows) ([]model.Piece, error) {
	pieces, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Piece])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:piece: %w", err)
	}
	return pieces, nil
}

func (r *PieceRepository) collectOne(rows pgx.Rows) (*model.Piece, error) {
	piece, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Piece])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:piece: %w", err)
	}
	return &piece, nil
}

func (r *PieceRepository) List(ctx context.Context) ([]model.Piece, error) {
	rows, err := r.db.Query(ctx, `SELECT `+pieceColumns+` FROM piece ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list pieces query: %w", err)
	}
	return r.collect(rows)
}

func (r *PieceRepository) ListByComposer(ctx context.Context, composerID int) ([]model.Piece, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+pieceColumns+`
		FROM piece
		WHERE composer_id = $1
		ORDER BY id`, composerID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list pieces query for composer_id=%d: %w", composerID, err)
	}
	return r.collect(rows)
}

func (r *PieceRepository) GetByName(ctx context.Context, name string) (*model.Piece, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+pieceColumns+`
		FROM piece
		WHERE name = $1
		ORDER BY id
		LIMIT 1`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to execute get piece query for name=%q: %w", name, err)
	}
	return r.collectOne(rows)
}

func (r *PieceRepository) Create(ctx context.Context, piece model.Piece) (*model.Piece, error) {
	rows, err := r.db.Query(ctx, `
		INSERT INTO piece (name, alt_name, difficulty, composer_id)
		VALUES (@name, @alt_name, @difficulty, @composer_id)
		RETURNING `+pieceColumns, pgx.NamedArgs{
		"name":        piece.Name,
		"alt_name":    piece.AltName,
		"difficulty":  piece.Difficulty,
		"composer_id": piece.ComposerID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create piece query: %w", err)
	}
	return r.collectOne(rows)
}

func (r *PieceRepository) Update(ctx context.Context, piece model.Piece) (*model.Piece, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE piece
		SET name = @name,
			alt_name = @alt_name,
			difficulty = @difficulty,
			composer_id = @composer_id
		WHERE id = @id
		RETURNING `+pieceColumns, pgx.NamedArgs{
		"id":          piece.ID,
		"name":        piece.Name,
		"alt_name":    piece.AltName,
		"difficulty":  piece.Difficulty,
		"composer_id": piece.ComposerID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute update piece query for id=%d: %w", piece.ID, err)
	}
	return r.collectOne(rows)
}

func (r *PieceRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM piece WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to execute delete piece query for id=%d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table:piece: %w", pgx.ErrNoRows)
	}
	return nil
}

func (r *PieceRepository) DeleteByComposer(ctx context.Context, composerID int) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM piece WHERE composer_id = $1`, composerID)
	if err != nil {
		return 0, fmt.Errorf("failed to execute delete pieces query for composer_id=%d: %w", composerID, err)
	}
	return tag.RowsAffected(), nil
}

func (r *PieceRepository) ComposerIDsWithPieces(ctx context.Context) (map[int]bool, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT composer_id FROM piece`)
	if err != nil {
		return nil, fmt.Errorf("failed to execute composer ids query: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:piece: %w", err)
	}

	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
