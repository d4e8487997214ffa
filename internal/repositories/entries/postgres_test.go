package entries

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

var cols = []string{"id", "user_id", "title", "content", "entry_date", "tags", "ai_reflection", "created_at", "updated_at"}

func sampleRecord() *models.EntryRecord {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &models.EntryRecord{
		ID: "e-1", UserID: "u-1", Title: "Day 1", Content: "Felt okay",
		EntryDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Tags: `["calm"]`,
		CreatedAt: ts, UpdatedAt: ts,
	}
}

func TestPostgres_Create(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	e := sampleRecord()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+entries\s*\(id,\s*user_id,.*\)\s*VALUES\s*\(\$1,.*\$9\)$`).
		WithArgs(e.ID, e.UserID, e.Title, e.Content, e.EntryDate, e.Tags, e.Reflection, e.CreatedAt, e.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), e))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Create_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO entries`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db down")
}

func TestPostgres_Update(t *testing.T) {
	q := `(?s)^UPDATE\s+entries\s+SET\s+title\s*=\s*\$1,.*WHERE\s+id\s*=\s*\$7\s+AND\s+user_id\s*=\s*\$8$`

	t.Run("updated", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		e := sampleRecord()
		mock.ExpectExec(q).
			WithArgs(e.Title, e.Content, e.EntryDate, e.Tags, e.Reflection, e.UpdatedAt, e.ID, e.UserID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, repo.Update(context.Background(), e))
	})

	t.Run("no row", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.Update(context.Background(), sampleRecord()), common.ErrorNotFound)
	})

	t.Run("rows affected error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).WillReturnResult(sqlmock.NewErrorResult(errors.New("nope")))
		err := repo.Update(context.Background(), sampleRecord())
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestPostgres_GetByID(t *testing.T) {
	q := `(?s)^SELECT\s+id,\s*user_id,.*FROM\s+entries\s+WHERE\s+id\s*=\s*\$1$`

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		e := sampleRecord()
		mock.ExpectQuery(q).WithArgs("e-1").WillReturnRows(sqlmock.NewRows(cols).
			AddRow(e.ID, e.UserID, e.Title, e.Content, e.EntryDate, e.Tags, "nice", e.CreatedAt, e.UpdatedAt))

		got, err := repo.GetByID(context.Background(), "e-1")
		require.NoError(t, err)
		assert.Equal(t, "Day 1", got.Title)
		assert.Equal(t, sql.NullString{String: "nice", Valid: true}, got.Reflection)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WillReturnError(sql.ErrNoRows)
		_, err := repo.GetByID(context.Background(), "e-1")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestPostgres_ListByUser(t *testing.T) {
	q := `(?s)^SELECT\s+.*FROM\s+entries\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+entry_date\s+DESC,\s*updated_at\s+DESC$`

	t.Run("rows", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		e := sampleRecord()
		mock.ExpectQuery(q).WithArgs("u-1").WillReturnRows(sqlmock.NewRows(cols).
			AddRow("e-2", e.UserID, "Day 2", "ok", e.EntryDate.AddDate(0, 0, 1), "[]", nil, e.CreatedAt, e.UpdatedAt).
			AddRow(e.ID, e.UserID, e.Title, e.Content, e.EntryDate, e.Tags, nil, e.CreatedAt, e.UpdatedAt))

		got, err := repo.ListByUser(context.Background(), "u-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "e-2", got[0].ID)
		assert.False(t, got[1].Reflection.Valid)
	})

	t.Run("empty is not nil", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows(cols))
		got, err := repo.ListByUser(context.Background(), "u-1")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("row error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		e := sampleRecord()
		mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows(cols).
			AddRow(e.ID, e.UserID, e.Title, e.Content, e.EntryDate, e.Tags, nil, e.CreatedAt, e.UpdatedAt).
			RowError(0, errors.New("broken row")))
		_, err := repo.ListByUser(context.Background(), "u-1")
		assert.Error(t, err)
	})
}

func TestPostgres_Delete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+entries\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`).
		WithArgs("e-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "u-1", "e-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
