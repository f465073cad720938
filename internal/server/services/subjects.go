package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jkalnina/docshelf/internal/common"
	"github.com/jkalnina/docshelf/internal/dbx"
	"github.com/jkalnina/docshelf/internal/server/models"
	"github.com/jkalnina/docshelf/internal/server/notify"
	"github.com/jkalnina/docshelf/internal/server/repositories/repomanager"
)

// SubjectService is the subject catalog: CRUD and ordering over one owner's
// subjects. Deleting a subject cascades to its file rows in the metadata
// store only; the corresponding blobs are left behind as accepted orphans.
type SubjectService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sink        notify.Sink
}

func NewSubjectService(db *sql.DB, rm repomanager.RepositoryManager, sink notify.Sink) *SubjectService {
	return &SubjectService{
		db:          db,
		repomanager: rm,
		sink:        sink,
	}
}

// Create adds a subject at the end of the owner's display order. Ordering is
// append-only; there is no reordering operation.
func (s *SubjectService) Create(ctx context.Context, ownerID, title, icon string) (*models.Subject, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", common.ErrValidation)
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", common.ErrValidation)
	}

	subjectRepo := s.repomanager.Subjects(s.db)

	subject, err := subjectRepo.Create(ctx, &models.Subject{
		OwnerID: ownerID,
		Title:   title,
		Icon:    icon,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating subject: %w", err)
	}

	s.sink.Notify(ctx, ownerID, "subject created")
	return subject, nil
}

// List returns the owner's subjects ordered by sort order ascending. A fresh
// owner has zero subjects; nothing is seeded implicitly.
func (s *SubjectService) List(ctx context.Context, ownerID string) ([]*models.Subject, error) {
	subjectRepo := s.repomanager.Subjects(s.db)

	result, err := subjectRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	return result, nil
}

// Delete removes a subject and, first, every file row that references it.
// Both deletes run in one metadata-store transaction; the file blobs are not
// touched, which leaves an orphan blob per deleted file. Reclaiming them
// would need a sweep the design intentionally does not have.
func (s *SubjectService) Delete(ctx context.Context, ownerID, subjectID string) error {
	if ownerID == "" || subjectID == "" {
		return fmt.Errorf("%w: owner and subject are required", common.ErrValidation)
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Files(tx).DeleteBySubject(ctx, ownerID, subjectID); err != nil {
			return err
		}
		return s.repomanager.Subjects(tx).Delete(ctx, ownerID, subjectID)
	})
	if err != nil {
		return fmt.Errorf("error deleting subject: %w", err)
	}

	s.sink.Notify(ctx, ownerID, "subject deleted")
	return nil
}

// DeleteAll removes every subject of the owner with the same cascade
// semantics as Delete, and the same orphan-blob consequence at larger scale.
func (s *SubjectService) DeleteAll(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("%w: owner is required", common.ErrValidation)
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Files(tx).DeleteAllByOwner(ctx, ownerID); err != nil {
			return err
		}
		return s.repomanager.Subjects(tx).DeleteAllByOwner(ctx, ownerID)
	})
	if err != nil {
		return fmt.Errorf("error deleting subjects: %w", err)
	}

	s.sink.Notify(ctx, ownerID, "all subjects deleted")
	return nil
}

// defaultSubjects is the starter set used by SeedDefaults.
var defaultSubjects = []struct {
	Title string
	Icon  string
}{
	{"Instrument", "🎹"},
	{"Music Theory", "📘"},
	{"Ensemble", "🎻"},
}

// SeedDefaults creates a starter set of subjects for an owner that has none.
// It is an opt-in helper; no default flow calls it, and an owner who already
// has subjects is left untouched.
func (s *SubjectService) SeedDefaults(ctx context.Context, ownerID string) error {
	existing, err := s.List(ctx, ownerID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, d := range defaultSubjects {
		if _, err := s.Create(ctx, ownerID, d.Title, d.Icon); err != nil {
			return err
		}
	}
	return nil
}
