// Package httpapi exposes the data operations over HTTP. All domain rules
// live in the services; handlers only decode requests, call one operation,
// and encode the result.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jkalnina/docshelf/internal/logging"
	"github.com/jkalnina/docshelf/internal/server/models"
	"github.com/jkalnina/docshelf/internal/server/services"
)

type subjectSvc interface {
	Create(ctx context.Context, ownerID, title, icon string) (*models.Subject, error)
	List(ctx context.Context, ownerID string) ([]*models.Subject, error)
	Delete(ctx context.Context, ownerID, subjectID string) error
	DeleteAll(ctx context.Context, ownerID string) error
	SeedDefaults(ctx context.Context, ownerID string) error
}

type fileSvc interface {
	Upload(ctx context.Context, ownerID, subjectID string, category models.Category, up services.Upload) (*models.File, error)
	Rename(ctx context.Context, ownerID, fileID, newTitle string) error
	Delete(ctx context.Context, ownerID, fileID string) error
	Preview(ctx context.Context, ownerID, fileID string) (*models.Preview, error)
	List(ctx context.Context, ownerID, subjectID string, category models.Category) ([]*models.File, error)
}

type profileSvc interface {
	Ensure(ctx context.Context, ownerID string) (*models.Profile, error)
	Update(ctx context.Context, ownerID, name, section, school string) (*models.Profile, error)
	UploadAvatar(ctx context.Context, ownerID string, data []byte, contentType string) error
	AvatarURL(ctx context.Context, ownerID string) (string, error)
}

// Server serves the docshelf HTTP API.
type Server struct {
	address   string
	logger    logging.Logger
	subjects  subjectSvc
	files     fileSvc
	profiles  profileSvc
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewServer(address string, l logging.Logger, ss *services.SubjectService, fs *services.FileService, ps *services.ProfileService, secretKey string, tokenTTL time.Duration) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		subjects:  ss,
		files:     fs,
		profiles:  ps,
		jwtSecret: []byte(secretKey),
		tokenTTL:  tokenTTL,
	}
}

// Router builds the route table. Split out of Run so tests can drive the
// handlers through httptest without a listener.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/token", s.handleIssueToken).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.ownerTokenMiddleware)

	api.HandleFunc("/subjects", s.handleListSubjects).Methods(http.MethodGet)
	api.HandleFunc("/subjects", s.handleCreateSubject).Methods(http.MethodPost)
	api.HandleFunc("/subjects", s.handleDeleteAllSubjects).Methods(http.MethodDelete)
	api.HandleFunc("/subjects/seed", s.handleSeedSubjects).Methods(http.MethodPost)
	api.HandleFunc("/subjects/{id}", s.handleDeleteSubject).Methods(http.MethodDelete)
	api.HandleFunc("/subjects/{id}/files", s.handleListFiles).Methods(http.MethodGet)
	api.HandleFunc("/subjects/{id}/files", s.handleUploadFile).Methods(http.MethodPost)

	api.HandleFunc("/files/{id}", s.handleRenameFile).Methods(http.MethodPatch)
	api.HandleFunc("/files/{id}", s.handleDeleteFile).Methods(http.MethodDelete)
	api.HandleFunc("/files/{id}/preview", s.handlePreviewFile).Methods(http.MethodGet)

	api.HandleFunc("/profile", s.handleGetProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile", s.handleUpdateProfile).Methods(http.MethodPut)
	api.HandleFunc("/profile/avatar", s.handleUploadAvatar).Methods(http.MethodPost)
	api.HandleFunc("/profile/avatar", s.handleAvatarURL).Methods(http.MethodGet)

	return r
}

// Run starts the HTTP server and shuts it down gracefully when ctx is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
