package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/dbx"
	"github.com/dmitrijs2005/mindjournal/internal/models"
)

const sqliteDateLayout = "2006-01-02"

// SQLiteRepository keeps entry_date as YYYY-MM-DD text and timestamps as
// fixed-width text, so ORDER BY on the raw columns is chronological.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, e *models.EntryRecord) error {
	query :=
		`INSERT INTO entries (id, user_id, title, content, entry_date, tags, ai_reflection, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Title, e.Content, e.EntryDate.UTC().Format(sqliteDateLayout), e.Tags, e.Reflection,
		dbx.FormatTime(e.CreatedAt), dbx.FormatTime(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, e *models.EntryRecord) error {
	query :=
		`UPDATE entries
		 SET title = ?, content = ?, entry_date = ?, tags = ?, ai_reflection = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`

	res, err := r.db.ExecContext(ctx, query,
		e.Title, e.Content, e.EntryDate.UTC().Format(sqliteDateLayout), e.Tags, e.Reflection,
		dbx.FormatTime(e.UpdatedAt), e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.EntryRecord, error) {
	query :=
		`SELECT id, user_id, title, content, entry_date, tags, ai_reflection, created_at, updated_at
		 FROM entries WHERE id = ?`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]*models.EntryRecord, error) {
	query :=
		`SELECT id, user_id, title, content, entry_date, tags, ai_reflection, created_at, updated_at
		 FROM entries
		 WHERE user_id = ?
		 ORDER BY entry_date DESC, updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.EntryRecord, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.EntryRecord, error) {
	e := &models.EntryRecord{}
	var date, created, updated string

	if err := s.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &date, &e.Tags, &e.Reflection, &created, &updated); err != nil {
		return nil, err
	}

	var err error
	if e.EntryDate, err = time.Parse(sqliteDateLayout, date); err != nil {
		return nil, fmt.Errorf("entry_date: %w", err)
	}
	if e.CreatedAt, err = dbx.ParseTime(created); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	if e.UpdatedAt, err = dbx.ParseTime(updated); err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}

	return e, nil
}
