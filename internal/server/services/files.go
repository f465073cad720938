package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jkalnina/docshelf/internal/common"
	sc "github.com/jkalnina/docshelf/internal/server/config"
	"github.com/jkalnina/docshelf/internal/server/models"
	"github.com/jkalnina/docshelf/internal/server/notify"
	"github.com/jkalnina/docshelf/internal/server/objectstore"
	"github.com/jkalnina/docshelf/internal/server/pathnamer"
	"github.com/jkalnina/docshelf/internal/server/repositories/repomanager"
)

// Upload carries one incoming file: the client-reported name, MIME type and
// raw bytes. Content is stored as-is, never validated or transcoded.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// FileService is the file registry: CRUD over file metadata scoped to
// (owner, subject, category), orchestrating the two-store consistency
// protocol and issuing preview URLs.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       objectstore.Store
	sink        notify.Sink
	config      *sc.Config
}

func NewFileService(db *sql.DB, rm repomanager.RepositoryManager, store objectstore.Store, sink notify.Sink, config *sc.Config) *FileService {
	return &FileService{
		db:          db,
		repomanager: rm,
		store:       store,
		sink:        sink,
		config:      config,
	}
}

// Upload runs the upload protocol: derive a fresh object key, write the blob
// with overwrite disabled, then insert the metadata row. The blob write comes
// first: if it fails nothing is recorded, and if the row insert fails
// afterwards the blob stays behind as an accepted orphan.
func (s *FileService) Upload(ctx context.Context, ownerID, subjectID string, category models.Category, up Upload) (*models.File, error) {
	if ownerID == "" || subjectID == "" || !category.Valid() {
		return nil, fmt.Errorf("%w: owner, subject and category are required", common.ErrValidation)
	}
	if up.Name == "" {
		return nil, fmt.Errorf("%w: file name is required", common.ErrValidation)
	}

	path := pathnamer.Derive(ownerID, subjectID, string(category), up.Name)

	if err := s.store.Put(ctx, path, up.Data, up.ContentType, false); err != nil {
		s.sink.Notify(ctx, ownerID, "upload failed")
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	fileRepo := s.repomanager.Files(s.db)

	file, err := fileRepo.Create(ctx, &models.File{
		OwnerID:    ownerID,
		SubjectID:  subjectID,
		Category:   category,
		Title:      up.Name,
		ObjectPath: path,
		MimeType:   up.ContentType,
		SizeBytes:  int64(len(up.Data)),
	})
	if err != nil {
		// The blob at path is now an orphan. Documented failure mode;
		// not repaired here.
		s.sink.Notify(ctx, ownerID, "upload saved but record failed")
		return nil, fmt.Errorf("%w: %v", ErrUploadRecordFailed, err)
	}

	s.sink.Notify(ctx, ownerID, "file uploaded")
	return file, nil
}

// Rename updates only the title of the row scoped to (owner, id). The object
// key never changes, so the object store is not involved.
func (s *FileService) Rename(ctx context.Context, ownerID, fileID, newTitle string) error {
	if strings.TrimSpace(newTitle) == "" {
		return fmt.Errorf("%w: title must not be empty", common.ErrValidation)
	}

	fileRepo := s.repomanager.Files(s.db)

	if err := fileRepo.UpdateTitle(ctx, ownerID, fileID, newTitle); err != nil {
		return fmt.Errorf("error renaming file: %w", err)
	}

	s.sink.Notify(ctx, ownerID, "file renamed")
	return nil
}

// Delete runs the delete protocol: remove the blob first, then the row. If
// the blob delete fails the row is kept, so metadata stays consistent with
// storage. If the row delete fails after the blob is gone, the dangling row
// is surfaced distinctly so the caller knows storage succeeded.
func (s *FileService) Delete(ctx context.Context, ownerID, fileID string) error {
	fileRepo := s.repomanager.Files(s.db)

	file, err := fileRepo.GetByID(ctx, ownerID, fileID)
	if err != nil {
		return fmt.Errorf("error getting file: %w", err)
	}

	if err := s.store.Delete(ctx, []string{file.ObjectPath}); err != nil {
		s.sink.Notify(ctx, ownerID, "storage delete failed")
		return fmt.Errorf("%w: %v", ErrStorageDeleteFailed, err)
	}

	if err := fileRepo.Delete(ctx, ownerID, fileID); err != nil {
		s.sink.Notify(ctx, ownerID, "DB delete failed")
		return fmt.Errorf("%w: %v", ErrMetadataDeleteFailed, err)
	}

	s.sink.Notify(ctx, ownerID, "file deleted")
	return nil
}

// Preview issues a fresh signed URL for the file. Nothing is cached; every
// call re-signs.
func (s *FileService) Preview(ctx context.Context, ownerID, fileID string) (*models.Preview, error) {
	fileRepo := s.repomanager.Files(s.db)

	file, err := fileRepo.GetByID(ctx, ownerID, fileID)
	if err != nil {
		return nil, fmt.Errorf("error getting file: %w", err)
	}

	url, err := s.store.SignedURL(ctx, file.ObjectPath, s.config.PreviewURLTTL)
	if err != nil {
		s.sink.Notify(ctx, ownerID, "preview failed")
		return nil, fmt.Errorf("%w: %v", ErrPreviewFailed, err)
	}

	return &models.Preview{
		URL:      url,
		Title:    file.Title,
		MimeType: file.MimeType,
	}, nil
}

// List returns all files for the scoped triple, newest first. An empty
// result is the "no files yet" state.
func (s *FileService) List(ctx context.Context, ownerID, subjectID string, category models.Category) ([]*models.File, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", common.ErrValidation, category)
	}

	fileRepo := s.repomanager.Files(s.db)

	result, err := fileRepo.ListByScope(ctx, ownerID, subjectID, category)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	return result, nil
}
