package subjects

import (
	"context"

	"github.com/jkalnina/docshelf/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, subject *models.Subject) (*models.Subject, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Subject, error)
	GetByID(ctx context.Context, ownerID, id string) (*models.Subject, error)
	Delete(ctx context.Context, ownerID, id string) error
	DeleteAllByOwner(ctx context.Context, ownerID string) error
}
