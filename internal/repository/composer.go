package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/repertoire/internal/model"
	"github.com/jackc/pgx/v5"
)

type ComposerRepository struct {
	db DBTX
}

func NewComposerRepository(db DBTX) *ComposerRepository {
	return &ComposerRepository{db: db}
}

func (r *ComposerRepository) List(ctx context.Context) ([]model.Composer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, home_country
		FROM composer
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list composers query: %w", err)
	}

	composers, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Composer])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:composer: %w", err)
	}
	return composers, nil
}

func (r *ComposerRepository) GetByID(ctx context.Context, id int) (*model.Composer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, home_country
		FROM composer
		WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get composer query for id=%d: %w", id, err)
	}

	composer, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Composer])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:composer: %w", err)
	}
	return &composer, nil
}

func (r *ComposerRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM composer WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check composer id=%d: %w", id, err)
	}
	return exists, nil
}

func (r *ComposerRepository) Create(ctx context.Context, composer model.Composer) (*model.Composer, error) {
	rows, err := r.db.Query(ctx, `
		INSERT INTO composer (name, home_country)
		VALUES (@name, @home_country)
		RETURNING id, name, home_country`, pgx.NamedArgs{
		"name":         composer.Name,
		"home_country": composer.HomeCountry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create composer query: %w", err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Composer])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:composer: %w", err)
	}
	return &created, nil
}

func (r *ComposerRepository) CreateWithID(ctx context.Context, composer model.Composer) (*model.Composer, error) {
	rows, err := r.db.Query(ctx, `
		INSERT INTO composer (id, name, home_country)
		VALUES (@id, @name, @home_country)
		RETURNING id, name, home_country`, pgx.NamedArgs{
		"id":           composer.ID,
		"name":         composer.Name,
		"home_country": composer.HomeCountry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create composer query for id=%d: %w", composer.ID, err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Composer])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:composer: %w", err)
	}
	return &created, nil
}

func (r *ComposerRepository) Update(ctx context.Context, composer model.Composer) (*model.Composer, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE composer
		SET name = @name, home_country = @home_country
		WHERE id = @id
		RETURNING id, name, home_country`, pgx.NamedArgs{
		"id":           composer.ID,
		"name":         composer.Name,
		"home_country": composer.HomeCountry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute update composer query for id=%d: %w", composer.ID, err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Composer])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:composer: %w", err)
	}
	return &updated, nil
}

func (r *ComposerRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM composer WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to execute delete composer query for id=%d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table:composer: %w", pgx.ErrNoRows)
	}
	return nil
}

func (r *ComposerRepository) SyncIDSequence(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		SELECT setval(
			pg_get_serial_sequence('composer', 'id'),
			COALESCE((SELECT MAX(id) FROM composer), 0) + 1,
			false
		)`)
	if err != nil {
		return fmt.Errorf("failed to sync composer id sequence: %w", err)
	}
	return nil
}
