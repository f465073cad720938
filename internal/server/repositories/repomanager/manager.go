package repomanager

import (
	"context"
	"database/sql"

	"github.com/jkalnina/docshelf/internal/dbx"
	"github.com/jkalnina/docshelf/internal/server/repositories/files"
	"github.com/jkalnina/docshelf/internal/server/repositories/profiles"
	"github.com/jkalnina/docshelf/internal/server/repositories/subjects"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Subjects(db dbx.DBTX) subjects.Repository
	Files(db dbx.DBTX) files.Repository
	Profiles(db dbx.DBTX) profiles.Repository
}
