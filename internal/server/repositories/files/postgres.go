// Package files provides the PostgreSQL-backed repository for file metadata
// records.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jkalnina/docshelf/internal/common"
	"github.com/jkalnina/docshelf/internal/dbx"
	"github.com/jkalnina/docshelf/internal/server/models"
)

// PostgresRepository implements file-metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a file row and fills in the generated id and creation time.
// The object_path unique constraint guards against a path collision silently
// pointing two rows at one blob.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query := `
		INSERT INTO files (owner_id, subject_id, category, title, object_path, mime_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		file.OwnerID, file.SubjectID, string(file.Category), file.Title,
		file.ObjectPath, file.MimeType, file.SizeBytes).
		Scan(&file.ID, &file.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert file: %w", err)
	}
	return file, nil
}

// ListByScope returns all file rows for (ownerID, subjectID, category)
// ordered by creation time descending. An empty result is the "no files yet"
// state, not an error.
func (r *PostgresRepository) ListByScope(ctx context.Context, ownerID, subjectID string, category models.Category) ([]*models.File, error) {
	query := `
		SELECT id, owner_id, subject_id, category, title, object_path, mime_type, size_bytes, created_at
		FROM files
		WHERE owner_id = $1 AND subject_id = $2 AND category = $3
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, subjectID, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		var item models.File
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.SubjectID, &item.Category,
			&item.Title, &item.ObjectPath, &item.MimeType, &item.SizeBytes, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns one file row scoped to (ownerID, id), or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, id string) (*models.File, error) {
	query := `
		SELECT id, owner_id, subject_id, category, title, object_path, mime_type, size_bytes, created_at
		FROM files
		WHERE owner_id = $1 AND id = $2
	`
	result := &models.File{}
	err := r.db.QueryRowContext(ctx, query, ownerID, id).
		Scan(&result.ID, &result.OwnerID, &result.SubjectID, &result.Category,
			&result.Title, &result.ObjectPath, &result.MimeType, &result.SizeBytes, &result.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select file: %w", err)
	}
	return result, nil
}

// UpdateTitle changes only the title of the row scoped to (ownerID, id).
// The object key is immutable once created, so no other column is touched.
func (r *PostgresRepository) UpdateTitle(ctx context.Context, ownerID, id, title string) error {
	query := `UPDATE files SET title = $3 WHERE owner_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, ownerID, id, title)
	if err != nil {
		return fmt.Errorf("failed to update file title: %w", err)
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

// Delete removes one file row scoped to (ownerID, id). Returns
// common.ErrNotFound when no row matched.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM files WHERE owner_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
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

// DeleteBySubject removes every file row under (ownerID, subjectID). Used by
// the subject-delete cascade; the corresponding blobs are left behind on
// purpose.
func (r *PostgresRepository) DeleteBySubject(ctx context.Context, ownerID, subjectID string) error {
	query := `DELETE FROM files WHERE owner_id = $1 AND subject_id = $2`
	if _, err := r.db.ExecContext(ctx, query, ownerID, subjectID); err != nil {
		return fmt.Errorf("failed to delete files by subject: %w", err)
	}
	return nil
}

// DeleteAllByOwner removes every file row of ownerID. Used by the
// delete-all cascade, with the same orphan-blob consequence.
func (r *PostgresRepository) DeleteAllByOwner(ctx context.Context, ownerID string) error {
	query := `DELETE FROM files WHERE owner_id = $1`
	if _, err := r.db.ExecContext(ctx, query, ownerID); err != nil {
		return fmt.Errorf("failed to delete files by owner: %w", err)
	}
	return nil
}
