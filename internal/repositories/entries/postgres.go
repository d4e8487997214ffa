package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/dbx"
	"github.com/dmitrijs2005/mindjournal/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const pgColumns = `id, user_id, title, content, entry_date, tags, ai_reflection, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, e *models.EntryRecord) error {
	query :=
		`INSERT INTO entries (` + pgColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Title, e.Content, e.EntryDate, e.Tags, e.Reflection, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, e *models.EntryRecord) error {
	query :=
		`UPDATE entries
		 SET title = $1, content = $2, entry_date = $3, tags = $4, ai_reflection = $5, updated_at = $6
		 WHERE id = $7 AND user_id = $8`

	res, err := r.db.ExecContext(ctx, query,
		e.Title, e.Content, e.EntryDate, e.Tags, e.Reflection, e.UpdatedAt, e.ID, e.UserID)
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

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.EntryRecord, error) {
	query := `SELECT ` + pgColumns + ` FROM entries WHERE id = $1`

	e := &models.EntryRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.UserID, &e.Title, &e.Content, &e.EntryDate, &e.Tags, &e.Reflection, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.EntryRecord, error) {
	query :=
		`SELECT ` + pgColumns + ` FROM entries
		 WHERE user_id = $1
		 ORDER BY entry_date DESC, updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.EntryRecord, 0)
	for rows.Next() {
		e := &models.EntryRecord{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.EntryDate, &e.Tags, &e.Reflection, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM entries WHERE id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
