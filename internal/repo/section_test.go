package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSectionRepo_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT s.id, s.name, s.description, s.created_at, COUNT\(i.id\)\s+FROM sections s\s+LEFT JOIN items i`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at", "count"}).
			AddRow(1, "Hardware", "nuts and bolts", now, 3).
			AddRow(2, "Electrical", "", now, 0))

	repo := NewSectionRepo(db)
	sections, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sections) != 2 || sections[0].ItemCount != 3 || sections[1].ItemCount != 0 {
		t.Errorf("unexpected sections: %+v", sections)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSectionRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM sections s\s+WHERE s.id = \$1`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at", "count"}))

	repo := NewSectionRepo(db)
	if _, err := repo.GetByID(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSectionRepo_CreateAndDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO sections \(name, description\)`).
		WithArgs("Tools", "hand tools").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at"}).
			AddRow(5, "Tools", "hand tools", time.Now()))
	mock.ExpectExec(`DELETE FROM sections WHERE id = \$1`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSectionRepo(db)
	s, err := repo.Create(context.Background(), "Tools", "hand tools")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ID != 5 || s.ItemCount != 0 {
		t.Errorf("unexpected section: %+v", s)
	}
	if err := repo.DeleteByID(context.Background(), 5); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
