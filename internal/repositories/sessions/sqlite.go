package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/dbx"
	"github.com/dmitrijs2005/mindjournal/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, s *models.SessionRecord) error {
	query := `INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, dbx.FormatTime(s.CreatedAt), dbx.FormatTime(s.ExpiresAt)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.SessionRecord, error) {
	query := `SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = ?`

	s := &models.SessionRecord{}
	var created, expires string

	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.UserID, &created, &expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if s.CreatedAt, err = dbx.ParseTime(created); err != nil {
		return nil, fmt.Errorf("db error: created_at: %w", err)
	}
	if s.ExpiresAt, err = dbx.ParseTime(expires); err != nil {
		return nil, fmt.Errorf("db error: expires_at: %w", err)
	}

	return s, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
