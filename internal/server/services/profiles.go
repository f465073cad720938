package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jkalnina/docshelf/internal/common"
	sc "github.com/jkalnina/docshelf/internal/server/config"
	"github.com/jkalnina/docshelf/internal/server/models"
	"github.com/jkalnina/docshelf/internal/server/notify"
	"github.com/jkalnina/docshelf/internal/server/objectstore"
	"github.com/jkalnina/docshelf/internal/server/pathnamer"
	"github.com/jkalnina/docshelf/internal/server/repositories/repomanager"
)

// ProfileService handles the one-to-one owner profile and its avatar. The
// avatar shares the blob + signed-URL mechanism with files but always writes
// the fixed per-owner key with overwrite enabled.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       objectstore.Store
	sink        notify.Sink
	config      *sc.Config
}

func NewProfileService(db *sql.DB, rm repomanager.RepositoryManager, store objectstore.Store, sink notify.Sink, config *sc.Config) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: rm,
		store:       store,
		sink:        sink,
		config:      config,
	}
}

// Ensure returns the owner's profile, creating it with defaults on first
// sight of a new owner.
func (s *ProfileService) Ensure(ctx context.Context, ownerID string) (*models.Profile, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", common.ErrValidation)
	}

	profileRepo := s.repomanager.Profiles(s.db)

	profile, err := profileRepo.EnsureDefaults(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error ensuring profile: %w", err)
	}
	return profile, nil
}

// Update overwrites the editable profile fields. The row is ensured first so
// a brand-new owner can save a profile in one step.
func (s *ProfileService) Update(ctx context.Context, ownerID, name, section, school string) (*models.Profile, error) {
	if _, err := s.Ensure(ctx, ownerID); err != nil {
		return nil, err
	}

	profileRepo := s.repomanager.Profiles(s.db)

	profile := &models.Profile{
		OwnerID: ownerID,
		Name:    name,
		Section: section,
		School:  school,
	}
	if err := profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	s.sink.Notify(ctx, ownerID, "profile updated")
	return profileRepo.Get(ctx, ownerID)
}

// UploadAvatar overwrites the fixed avatar key in place, then records the key
// on the profile row. Displaying the new image needs a fresh signed URL; the
// previous URL simply ages out.
func (s *ProfileService) UploadAvatar(ctx context.Context, ownerID string, data []byte, contentType string) error {
	if ownerID == "" {
		return fmt.Errorf("%w: owner is required", common.ErrValidation)
	}

	path := pathnamer.AvatarPath(ownerID)

	if err := s.store.Put(ctx, path, data, contentType, true); err != nil {
		s.sink.Notify(ctx, ownerID, "avatar upload failed")
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	if _, err := s.Ensure(ctx, ownerID); err != nil {
		return err
	}

	profileRepo := s.repomanager.Profiles(s.db)

	if err := profileRepo.UpdateAvatarPath(ctx, ownerID, path); err != nil {
		s.sink.Notify(ctx, ownerID, "avatar saved but record failed")
		return fmt.Errorf("%w: %v", ErrUploadRecordFailed, err)
	}

	s.sink.Notify(ctx, ownerID, "avatar updated")
	return nil
}

// AvatarURL issues a fresh signed URL for the owner's avatar, or
// common.ErrNotFound when none was ever uploaded.
func (s *ProfileService) AvatarURL(ctx context.Context, ownerID string) (string, error) {
	profileRepo := s.repomanager.Profiles(s.db)

	profile, err := profileRepo.Get(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("error getting profile: %w", err)
	}
	if profile.AvatarPath == "" {
		return "", common.ErrNotFound
	}

	url, err := s.store.SignedURL(ctx, profile.AvatarPath, s.config.PreviewURLTTL)
	if err != nil {
		s.sink.Notify(ctx, ownerID, "preview failed")
		return "", fmt.Errorf("%w: %v", ErrPreviewFailed, err)
	}
	return url, nil
}
