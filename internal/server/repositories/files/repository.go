package files

import (
	"context"

	"github.com/jkalnina/docshelf/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	ListByScope(ctx context.Context, ownerID, subjectID string, category models.Category) ([]*models.File, error)
	GetByID(ctx context.Context, ownerID, id string) (*models.File, error)
	UpdateTitle(ctx context.Context, ownerID, id, title string) error
	Delete(ctx context.Context, ownerID, id string) error
	DeleteBySubject(ctx context.Context, ownerID, subjectID string) error
	DeleteAllByOwner(ctx context.Context, ownerID string) error
}
