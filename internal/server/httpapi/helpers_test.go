package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/jkalnina/docshelf/internal/logging"
	"github.com/jkalnina/docshelf/internal/server/auth"
	"github.com/jkalnina/docshelf/internal/server/models"
	"github.com/jkalnina/docshelf/internal/server/services"
	"github.com/stretchr/testify/require"
)

// ---- test logger ----

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// ---- fakes ----

type fakeSubjects struct {
	list []*models.Subject

	createErr error
	listErr   error
	deleteErr error
	seedErr   error

	createdTitle string
	createdIcon  string
	deletedID    string
	deleteAllFor string
	seededFor    string
}

func (f *fakeSubjects) Create(ctx context.Context, ownerID, title, icon string) (*models.Subject, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdTitle = title
	f.createdIcon = icon
	return &models.Subject{ID: "sub-1", OwnerID: ownerID, Title: title, Icon: icon, SortOrder: 1}, nil
}

func (f *fakeSubjects) List(ctx context.Context, ownerID string) ([]*models.Subject, error) {
	return f.list, f.listErr
}

func (f *fakeSubjects) Delete(ctx context.Context, ownerID, subjectID string) error {
	f.deletedID = subjectID
	return f.deleteErr
}

func (f *fakeSubjects) DeleteAll(ctx context.Context, ownerID string) error {
	f.deleteAllFor = ownerID
	return f.deleteErr
}

func (f *fakeSubjects) SeedDefaults(ctx context.Context, ownerID string) error {
	f.seededFor = ownerID
	return f.seedErr
}

type fakeFiles struct {
	list    []*models.File
	preview *models.Preview

	uploadErr  error
	renameErr  error
	deleteErr  error
	previewErr error
	listErr    error

	uploadedSubject  string
	uploadedCategory models.Category
	uploadedUpload   services.Upload
	renamedID        string
	renamedTitle     string
	deletedID        string
}

func (f *fakeFiles) Upload(ctx context.Context, ownerID, subjectID string, category models.Category, up services.Upload) (*models.File, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploadedSubject = subjectID
	f.uploadedCategory = category
	f.uploadedUpload = up
	return &models.File{
		ID: "file-1", OwnerID: ownerID, SubjectID: subjectID, Category: category,
		Title: up.Name, MimeType: up.ContentType, SizeBytes: int64(len(up.Data)),
	}, nil
}

func (f *fakeFiles) Rename(ctx context.Context, ownerID, fileID, newTitle string) error {
	f.renamedID = fileID
	f.renamedTitle = newTitle
	return f.renameErr
}

func (f *fakeFiles) Delete(ctx context.Context, ownerID, fileID string) error {
	f.deletedID = fileID
	return f.deleteErr
}

func (f *fakeFiles) Preview(ctx context.Context, ownerID, fileID string) (*models.Preview, error) {
	return f.preview, f.previewErr
}

func (f *fakeFiles) List(ctx context.Context, ownerID, subjectID string, category models.Category) ([]*models.File, error) {
	return f.list, f.listErr
}

type fakeProfiles struct {
	profile *models.Profile
	url     string

	ensureErr error
	updateErr error
	avatarErr error
	urlErr    error

	avatarData []byte
	avatarType string
}

func (f *fakeProfiles) Ensure(ctx context.Context, ownerID string) (*models.Profile, error) {
	return f.profile, f.ensureErr
}

func (f *fakeProfiles) Update(ctx context.Context, ownerID, name, section, school string) (*models.Profile, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.Profile{OwnerID: ownerID, Name: name, Section: section, School: school}, nil
}

func (f *fakeProfiles) UploadAvatar(ctx context.Context, ownerID string, data []byte, contentType string) error {
	f.avatarData = data
	f.avatarType = contentType
	return f.avatarErr
}

func (f *fakeProfiles) AvatarURL(ctx context.Context, ownerID string) (string, error) {
	return f.url, f.urlErr
}

// ---- helpers ----

const testSecret = "secret"

func newTestServer(ss subjectSvc, fs fileSvc, ps profileSvc) *Server {
	return &Server{
		address:   "127.0.0.1:0",
		logger:    nopLogger{},
		subjects:  ss,
		files:     fs,
		profiles:  ps,
		jwtSecret: []byte(testSecret),
		tokenTTL:  15 * time.Minute,
	}
}

func bearerFor(t *testing.T, ownerID string) string {
	t.Helper()
	token, err := auth.GenerateToken(ownerID, []byte(testSecret), time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, s *Server, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func doMultipart(t *testing.T, s *Server, target, token, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", token)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
