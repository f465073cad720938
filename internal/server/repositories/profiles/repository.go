package profiles

import (
	"context"

	"github.com/jkalnina/docshelf/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, ownerID string) (*models.Profile, error)
	EnsureDefaults(ctx context.Context, ownerID string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	UpdateAvatarPath(ctx context.Context, ownerID, avatarPath string) error
}
