// Package subjects provides the PostgreSQL-backed repository for subject
// records.
package subjects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jkalnina/docshelf/internal/common"
	"github.com/jkalnina/docshelf/internal/dbx"
	"github.com/jkalnina/docshelf/internal/server/models"
)

// PostgresRepository implements subject storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a subject for its owner. The sort order is assigned inside
// the statement as max(existing)+1, or 1 when the owner has no subjects yet,
// so ordering stays append-only without a separate read.
func (r *PostgresRepository) Create(ctx context.Context, subject *models.Subject) (*models.Subject, error) {
	query := `
		INSERT INTO subjects (owner_id, title, icon, sort_order)
		SELECT $1, $2, $3, COALESCE(MAX(sort_order), 0) + 1
		FROM subjects WHERE owner_id = $1
		RETURNING id, sort_order, created_at
	`
	err := r.db.QueryRowContext(ctx, query, subject.OwnerID, subject.Title, subject.Icon).
		Scan(&subject.ID, &subject.SortOrder, &subject.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert subject: %w", err)
	}
	return subject, nil
}

// ListByOwner returns all subjects of ownerID ordered by sort_order
// ascending. An owner with no subjects gets an empty result, not an error.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Subject, error) {
	query := `
		SELECT id, owner_id, title, icon, sort_order, created_at FROM subjects
		WHERE owner_id = $1
		ORDER BY sort_order ASC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select subjects: %w", err)
	}
	defer rows.Close()

	var result []*models.Subject
	for rows.Next() {
		var item models.Subject
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Title, &item.Icon, &item.SortOrder, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns one subject scoped to (ownerID, id), or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Subject, error) {
	query := `
		SELECT id, owner_id, title, icon, sort_order, created_at FROM subjects
		WHERE owner_id = $1 AND id = $2
	`
	result := &models.Subject{}
	err := r.db.QueryRowContext(ctx, query, ownerID, id).
		Scan(&result.ID, &result.OwnerID, &result.Title, &result.Icon, &result.SortOrder, &result.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select subject: %w", err)
	}
	return result, nil
}

// Delete removes one subject scoped to (ownerID, id). Returns
// common.ErrNotFound when no row matched.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM subjects WHERE owner_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// DeleteAllByOwner removes every subject of ownerID. Deleting an owner with
// no subjects is not an error.
func (r *PostgresRepository) DeleteAllByOwner(ctx context.Context, ownerID string) error {
	query := `DELETE FROM subjects WHERE owner_id = $1`
	if _, err := r.db.ExecContext(ctx, query, ownerID); err != nil {
		return fmt.Errorf("failed to delete subjects: %w", err)
	}
	return nil
}
