package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/repertoire/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	composerCols = []string{"id", "name", "home_country"}
	pieceCols    = []string{"id", "name", "alt_name", "difficulty", "composer_id"}
)

func strPtr(s string) *string { return &s }

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestComposerRepositoryList(t *testing.T) {
	mock := newMock(t)
	repo := NewComposerRepository(mock)

	mock.ExpectQuery(`SELECT id, name, home_country\s+FROM composer\s+ORDER BY id`).
		WillReturnRows(pgxmock.NewRows(composerCols).
			AddRow(1, "Chopin", "Poland").
			AddRow(2, "Bach", "Germany"))

	composers, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Composer{
		{ID: 1, Name: "Chopin", HomeCountry: "Poland"},
		{ID: 2, Name: "Bach", HomeCountry: "Germany"},
	}, composers)
}

func TestComposerRepositoryGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		repo := NewComposerRepository(mock)

		mock.ExpectQuery(`FROM composer\s+WHERE id =`).
			WithArgs(3).
			WillReturnRows(pgxmock.NewRows(composerCols).AddRow(3, "Debussy", "France"))

		composer, err := repo.GetByID(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, model.Composer{ID: 3, Name: "Debussy", HomeCountry: "France"}, *composer)
	})

	t.Run("missing row names the table", func(t *testing.T) {
		mock := newMock(t)
		repo := NewComposerRepository(mock)

		mock.ExpectQuery(`FROM composer\s+WHERE id =`).
			WithArgs(9).
			WillReturnRows(pgxmock.NewRows(composerCols))

		_, err := repo.GetByID(context.Background(), 9)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
		assert.ErrorContains(t, err, "table:composer:")
	})
}

func TestComposerRepositoryExists(t *testing.T) {
	mock := newMock(t)
	repo := NewComposerRepository(mock)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM composer WHERE id = \$1\)`).
		WithArgs(-1).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.Exists(context.Background(), -1)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestComposerRepositoryCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewComposerRepository(mock)

	mock.ExpectQuery(`INSERT INTO composer \(name, home_country\)`).
		WithArgs("Chopin", "Poland").
		WillReturnRows(pgxmock.NewRows(composerCols).AddRow(1, "Chopin", "Poland"))

	created, err := repo.Create(context.Background(), model.Composer{Name: "Chopin", HomeCountry: "Poland"})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
}

func TestComposerRepositoryCreateWithID(t *testing.T) {
	mock := newMock(t)
	repo := NewComposerRepository(mock)

	mock.ExpectQuery(`INSERT INTO composer \(id, name, home_country\)`).
		WithArgs(5, "Bach", "Germany").
		WillReturnRows(pgxmock.NewRows(composerCols).AddRow(5, "Bach", "Germany"))

	created, err := repo.CreateWithID(context.Background(), model.Composer{ID: 5, Name: "Bach", HomeCountry: "Germany"})
	require.NoError(t, err)
	assert.Equal(t, 5, created.ID)
}

func TestComposerRepositoryUpdate(t *testing.T) {
	mock := newMock(t)
	repo := NewComposerRepository(mock)

	mock.ExpectQuery(`UPDATE composer\s+SET name = .+, home_country = .+\s+WHERE id = .+\s+RETURNING id, name, home_country`).
		WithArgs("Frédéric Chopin", "Poland", 1).
		WillReturnRows(pgxmock.NewRows(composerCols).AddRow(1, "Frédéric Chopin", "Poland"))

	updated, err := repo.Update(context.Background(), model.Composer{ID: 1, Name: "Frédéric Chopin", HomeCountry: "Poland"})
	require.NoError(t, err)
	assert.Equal(t, "Frédéric Chopin", updated.Name)
}

func TestComposerRepositoryDelete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`DELETE FROM composer WHERE id = \$1`).
			WithArgs(1).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, NewComposerRepository(mock).Delete(context.Background(), 1))
	})

	t.Run("no row affected", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`DELETE FROM composer WHERE id = \$1`).
			WithArgs(4).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := NewComposerRepository(mock).Delete(context.Background(), 4)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
		assert.ErrorContains(t, err, "table:composer:")
	})

	t.Run("driver error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`DELETE FROM composer`).
			WithArgs(4).
			WillReturnError(errors.New("connection reset"))

		err := NewComposerRepository(mock).Delete(context.Background(), 4)
		assert.ErrorContains(t, err, "connection reset")
		assert.NotErrorIs(t, err, pgx.ErrNoRows)
	})
}

func TestComposerRepositorySyncIDSequence(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`SELECT setval\(\s*pg_get_serial_sequence\('composer', 'id'\),\s*COALESCE\(\(SELECT MAX\(id\) FROM composer\), 0\) \+ 1,\s*false\s*\)`).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	assert.NoError(t, NewComposerRepository(mock).SyncIDSequence(context.Background()))
}

func TestPieceRepositoryList(t *testing.T) {
	mock := newMock(t)
	repo := NewPieceRepository(mock)

	mock.ExpectQuery(`SELECT id, name, alt_name, difficulty, composer_id FROM piece ORDER BY id`).
		WillReturnRows(pgxmock.NewRows(pieceCols).
			AddRow(1, "Etude Op.10 No.1", strPtr("Waterfall"), 9, 1).
			AddRow(2, "Prelude in C major, BWV 846", nil, 3, 2))

	pieces, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, pieces, 2)
	require.NotNil(t, pieces[0].AltName)
	assert.Equal(t, "Waterfall", *pieces[0].AltName)
	assert.Nil(t, pieces[1].AltName)
	assert.Equal(t, 2, pieces[1].ComposerID)
}

func TestPieceRepositoryListByComposer(t *testing.T) {
	mock := newMock(t)
	repo := NewPieceRepository(mock)

	mock.ExpectQuery(`FROM piece\s+WHERE composer_id = \$1\s+ORDER BY id`).
		WithArgs(7).
		WillReturnRows(pgxmock.NewRows(pieceCols))

	pieces, err := repo.ListByComposer(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, pieces)
}

func TestPieceRepositoryGetByName(t *testing.T) {
	t.Run("lowest id wins", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPieceRepository(mock)

		mock.ExpectQuery(`FROM piece\s+WHERE name = \$1\s+ORDER BY id\s+LIMIT 1`).
			WithArgs("Etude").
			WillReturnRows(pgxmock.NewRows(pieceCols).AddRow(4, "Etude", nil, 5, 1))

		piece, err := repo.GetByName(context.Background(), "Etude")
		require.NoError(t, err)
		assert.Equal(t, 4, piece.ID)
	})

	t.Run("missing row names the table", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPieceRepository(mock)

		mock.ExpectQuery(`WHERE name = \$1`).
			WithArgs("Ballade No.1").
			WillReturnRows(pgxmock.NewRows(pieceCols))

		_, err := repo.GetByName(context.Background(), "Ballade No.1")
		assert.ErrorIs(t, err, pgx.ErrNoRows)
		assert.ErrorContains(t, err, "table:piece:")
	})
}

func TestPieceRepositoryCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewPieceRepository(mock)
	alt := strPtr("Waterfall")

	mock.ExpectQuery(`INSERT INTO piece \(name, alt_name, difficulty, composer_id\)`).
		WithArgs("Etude Op.10 No.1", alt, 9, 1).
		WillReturnRows(pgxmock.NewRows(pieceCols).AddRow(1, "Etude Op.10 No.1", alt, 9, 1))

	created, err := repo.Create(context.Background(), model.Piece{Name: "Etude Op.10 No.1", AltName: alt, Difficulty: 9, ComposerID: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "Waterfall", *created.AltName)
}

func TestPieceRepositoryUpdate(t *testing.T) {
	mock := newMock(t)
	repo := NewPieceRepository(mock)

	mock.ExpectQuery(`UPDATE piece\s+SET name = .+,\s+alt_name = .+,\s+difficulty = .+,\s+composer_id = .+\s+WHERE id = .+\s+RETURNING`).
		WithArgs("Etude", (*string)(nil), 10, 2, 4).
		WillReturnRows(pgxmock.NewRows(pieceCols).AddRow(4, "Etude", nil, 10, 2))

	updated, err := repo.Update(context.Background(), model.Piece{ID: 4, Name: "Etude", Difficulty: 10, ComposerID: 2})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Difficulty)
	assert.Equal(t, 2, updated.ComposerID)
}

func TestPieceRepositoryDelete(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM piece WHERE id = \$1`).
		WithArgs(8).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewPieceRepository(mock).Delete(context.Background(), 8)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.ErrorContains(t, err, "table:piece:")
}

func TestPieceRepositoryDeleteByComposer(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM piece WHERE composer_id = \$1`).
		WithArgs(1).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	n, err := NewPieceRepository(mock).DeleteByComposer(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestPieceRepositoryComposerIDsWithPieces(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT DISTINCT composer_id FROM piece`).
		WillReturnRows(pgxmock.NewRows([]string{"composer_id"}).AddRow(1).AddRow(3))

	set, err := NewPieceRepository(mock).ComposerIDsWithPieces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true, 3: true}, set)
}

func TestNewStoreBindsBothRepositories(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`DELETE FROM piece WHERE composer_id`).
		WithArgs(1).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	store := NewStore(mock)
	exists, err := store.Composers().Exists(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = store.Pieces().DeleteByComposer(context.Background(), 1)
	assert.NoError(t, err)
}
