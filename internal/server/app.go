// Package server initializes and runs the docshelf server: it opens the
// metadata store, runs migrations, connects the object store, wires the
// services and starts the HTTP API with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jkalnina/docshelf/internal/logging"
	"github.com/jkalnina/docshelf/internal/server/config"
	"github.com/jkalnina/docshelf/internal/server/httpapi"
	"github.com/jkalnina/docshelf/internal/server/notify"
	"github.com/jkalnina/docshelf/internal/server/objectstore"
	"github.com/jkalnina/docshelf/internal/server/repositories/repomanager"
	"github.com/jkalnina/docshelf/internal/server/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	subjectService *services.SubjectService
	fileService    *services.FileService
	profileService *services.ProfileService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := objectstore.NewS3Store(ctx, objectstore.S3Config{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		Bucket:       c.S3Bucket,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	sink := notify.NewLogSink(logger)

	ss := services.NewSubjectService(db, rm, sink)
	fs := services.NewFileService(db, rm, store, sink, c)
	ps := services.NewProfileService(db, rm, store, sink, c)

	return &App{
		config:         c,
		logger:         logger,
		subjectService: ss,
		fileService:    fs,
		profileService: ps,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(
		app.config.EndpointAddrHTTP,
		app.logger,
		app.subjectService,
		app.fileService,
		app.profileService,
		app.config.SecretKey,
		app.config.AccessTokenValidityDuration,
	)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
