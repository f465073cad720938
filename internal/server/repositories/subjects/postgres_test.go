package subjects

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jkalnina/docshelf/internal/common"
	"github.com/jkalnina/docshelf/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_AssignsNextSortOrder(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+subjects\b.*COALESCE\(MAX\(sort_order\),\s*0\)\s*\+\s*1.*RETURNING\s+id,\s*sort_order,\s*created_at\s*$`

	created := time.Now()
	mock.ExpectQuery(q).
		WithArgs("u1", "Math", "📘").
		WillReturnRows(sqlmock.NewRows([]string{"id", "sort_order", "created_at"}).
			AddRow("s1", int64(3), created))

	s, err := repo.Create(context.Background(), &models.Subject{OwnerID: "u1", Title: "Math", Icon: "📘"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID != "s1" || s.SortOrder != 3 {
		t.Fatalf("unexpected subject: %+v", s)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+subjects`).
		WithArgs("u1", "Math", "").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Subject{OwnerID: "u1", Title: "Math"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestListByOwner_OrderedBySortOrder(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+id,\s*owner_id,\s*title,\s*icon,\s*sort_order,\s*created_at\s+FROM\s+subjects.*ORDER\s+BY\s+sort_order\s+ASC\s*$`

	created := time.Now()
	mock.ExpectQuery(q).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "icon", "sort_order", "created_at"}).
			AddRow("s1", "u1", "Math", "📘", int64(1), created).
			AddRow("s2", "u1", "Violin", "🎻", int64(2), created))

	result, err := repo.ListByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 subjects, got %d", len(result))
	}
	if result[0].SortOrder != 1 || result[1].SortOrder != 2 {
		t.Fatalf("unexpected order: %+v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListByOwner_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,.*FROM\s+subjects`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "icon", "sort_order", "created_at"}))

	result, err := repo.ListByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("expected empty result, got %d", len(result))
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,.*FROM\s+subjects`).
		WithArgs("u1", "missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "u1", "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+subjects\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+id\s*=\s*\$2`).
		WithArgs("u1", "s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "u1", "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+subjects`).
		WithArgs("u1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "u1", "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAllByOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+subjects\s+WHERE\s+owner_id\s*=\s*\$1`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 5))

	if err := repo.DeleteAllByOwner(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
