package services

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jkalnina/docshelf/internal/common"
	"github.com/jkalnina/docshelf/internal/dbx"
	"github.com/jkalnina/docshelf/internal/server/config"
	"github.com/jkalnina/docshelf/internal/server/models"
	"github.com/jkalnina/docshelf/internal/server/objectstore"
	"github.com/jkalnina/docshelf/internal/server/repositories/files"
	"github.com/jkalnina/docshelf/internal/server/repositories/profiles"
	"github.com/jkalnina/docshelf/internal/server/repositories/subjects"
)

// -------- in-memory repository fakes --------

type fakeSubjectsRepo struct {
	subjects.Repository
	rows   []*models.Subject
	nextID int

	createErr error
	deleteErr error
}

func (f *fakeSubjectsRepo) Create(ctx context.Context, s *models.Subject) (*models.Subject, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	var max int64
	for _, r := range f.rows {
		if r.OwnerID == s.OwnerID && r.SortOrder > max {
			max = r.SortOrder
		}
	}
	f.nextID++
	s.ID = "subj-" + strconv.Itoa(f.nextID)
	s.SortOrder = max + 1
	s.CreatedAt = time.Now()
	f.rows = append(f.rows, s)
	return s, nil
}

func (f *fakeSubjectsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Subject, error) {
	var out []*models.Subject
	for _, r := range f.rows {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeSubjectsRepo) Delete(ctx context.Context, ownerID, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, r := range f.rows {
		if r.OwnerID == ownerID && r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeSubjectsRepo) DeleteAllByOwner(ctx context.Context, ownerID string) error {
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.OwnerID != ownerID {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

type fakeFilesRepo struct {
	files.Repository
	rows   []*models.File
	nextID int
	clock  int64

	createErr error
	deleteErr error
	updateErr error
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.File) (*models.File, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	f.clock++
	file.ID = "file-" + strconv.Itoa(f.nextID)
	file.CreatedAt = time.Unix(0, f.clock)
	f.rows = append(f.rows, file)
	return file, nil
}

func (f *fakeFilesRepo) ListByScope(ctx context.Context, ownerID, subjectID string, category models.Category) ([]*models.File, error) {
	var out []*models.File
	for _, r := range f.rows {
		if r.OwnerID == ownerID && r.SubjectID == subjectID && r.Category == category {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeFilesRepo) GetByID(ctx context.Context, ownerID, id string) (*models.File, error) {
	for _, r := range f.rows {
		if r.OwnerID == ownerID && r.ID == id {
			return r, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeFilesRepo) UpdateTitle(ctx context.Context, ownerID, id, title string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, r := range f.rows {
		if r.OwnerID == ownerID && r.ID == id {
			r.Title = title
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeFilesRepo) Delete(ctx context.Context, ownerID, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, r := range f.rows {
		if r.OwnerID == ownerID && r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeFilesRepo) DeleteBySubject(ctx context.Context, ownerID, subjectID string) error {
	kept := f.rows[:0]
	for _, r := range f.rows {
		if !(r.OwnerID == ownerID && r.SubjectID == subjectID) {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeFilesRepo) DeleteAllByOwner(ctx context.Context, ownerID string) error {
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.OwnerID != ownerID {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

type fakeProfilesRepo struct {
	profiles.Repository
	rows map[string]*models.Profile

	updateErr error
}

func (f *fakeProfilesRepo) ensureMap() {
	if f.rows == nil {
		f.rows = make(map[string]*models.Profile)
	}
}

func (f *fakeProfilesRepo) Get(ctx context.Context, ownerID string) (*models.Profile, error) {
	f.ensureMap()
	p, ok := f.rows[ownerID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfilesRepo) EnsureDefaults(ctx context.Context, ownerID string) (*models.Profile, error) {
	f.ensureMap()
	if _, ok := f.rows[ownerID]; !ok {
		f.rows[ownerID] = &models.Profile{OwnerID: ownerID}
	}
	return f.Get(ctx, ownerID)
}

func (f *fakeProfilesRepo) Update(ctx context.Context, profile *models.Profile) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.ensureMap()
	p, ok := f.rows[profile.OwnerID]
	if !ok {
		return common.ErrNotFound
	}
	p.Name, p.Section, p.School = profile.Name, profile.Section, profile.School
	return nil
}

func (f *fakeProfilesRepo) UpdateAvatarPath(ctx context.Context, ownerID, avatarPath string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.ensureMap()
	p, ok := f.rows[ownerID]
	if !ok {
		return common.ErrNotFound
	}
	p.AvatarPath = avatarPath
	return nil
}

type fakeRepoManager struct {
	s *fakeSubjectsRepo
	f *fakeFilesRepo
	p *fakeProfilesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		s: &fakeSubjectsRepo{},
		f: &fakeFilesRepo{},
		p: &fakeProfilesRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *fakeRepoManager) Subjects(db dbx.DBTX) subjects.Repository            { return m.s }
func (m *fakeRepoManager) Files(db dbx.DBTX) files.Repository                  { return m.f }
func (m *fakeRepoManager) Profiles(db dbx.DBTX) profiles.Repository            { return m.p }

// -------- object store with injectable failures --------

type flakyStore struct {
	*objectstore.MemoryStore
	putErr    error
	deleteErr error
	signErr   error
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: objectstore.NewMemoryStore()}
}

func (s *flakyStore) Put(ctx context.Context, key string, body []byte, contentType string, overwrite bool) error {
	if s.putErr != nil {
		return s.putErr
	}
	return s.MemoryStore.Put(ctx, key, body, contentType, overwrite)
}

func (s *flakyStore) Delete(ctx context.Context, keys []string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.MemoryStore.Delete(ctx, keys)
}

func (s *flakyStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	return s.MemoryStore.SignedURL(ctx, key, ttl)
}

// -------- helpers --------

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}
