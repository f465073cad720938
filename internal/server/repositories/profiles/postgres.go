// Package profiles provides the PostgreSQL-backed repository for the
// one-to-one owner profile records.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jkalnina/docshelf/internal/common"
	"github.com/jkalnina/docshelf/internal/dbx"
	"github.com/jkalnina/docshelf/internal/server/models"
)

// PostgresRepository implements profile storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the profile for ownerID, or common.ErrNotFound.
func (r *PostgresRepository) Get(ctx context.Context, ownerID string) (*models.Profile, error) {
	query := `
		SELECT owner_id, name, section, school, avatar_path FROM profiles
		WHERE owner_id = $1
	`
	result := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, ownerID).
		Scan(&result.OwnerID, &result.Name, &result.Section, &result.School, &result.AvatarPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select profile: %w", err)
	}
	return result, nil
}

// EnsureDefaults inserts an empty profile row for ownerID if none exists and
// returns the current row either way. Called on first sight of a new owner.
func (r *PostgresRepository) EnsureDefaults(ctx context.Context, ownerID string) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (owner_id) VALUES ($1)
		ON CONFLICT (owner_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}
	return r.Get(ctx, ownerID)
}

// Update overwrites the editable profile fields (name, section, school).
func (r *PostgresRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles SET name = $2, section = $3, school = $4
		WHERE owner_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, profile.OwnerID, profile.Name, profile.Section, profile.School)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
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

// UpdateAvatarPath records the avatar object key on the profile row.
func (r *PostgresRepository) UpdateAvatarPath(ctx context.Context, ownerID, avatarPath string) error {
	query := `UPDATE profiles SET avatar_path = $2 WHERE owner_id = $1`
	res, err := r.db.ExecContext(ctx, query, ownerID, avatarPath)
	if err != nil {
		return fmt.Errorf("failed to update avatar path: %w", err)
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
