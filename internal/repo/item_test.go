package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var itemCols = []string{"id", "section_id", "name", "available_count", "created_at", "updated_at"}

func TestItemRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO items \(section_id, name, available_count\)`).
		WithArgs(3, "bolts", 40).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(11, 3, "bolts", 40, now, now))

	repo := NewItemRepo(db)
	it, err := repo.Create(context.Background(), 3, "bolts", 40)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if it.ID != 11 || it.SectionID != 3 || it.AvailableCount != 40 {
		t.Errorf("unexpected item: %+v", it)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestItemRepo_Get_WrongSection(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM items WHERE id = \$1 AND section_id = \$2`).
		WithArgs(11, 4).
		WillReturnRows(sqlmock.NewRows(itemCols))

	repo := NewItemRepo(db)
	if _, err := repo.Get(context.Background(), 4, 11); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestItemRepo_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`UPDATE items\s+SET name = \$1, available_count = \$2, updated_at = now\(\)\s+WHERE id = \$3 AND section_id = \$4`).
		WithArgs("nuts", 7, 11, 3).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(11, 3, "nuts", 7, now, now))

	repo := NewItemRepo(db)
	it, err := repo.Update(context.Background(), 3, 11, "nuts", 7)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if it.Name != "nuts" || it.AvailableCount != 7 {
		t.Errorf("unexpected item: %+v", it)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestItemRepo_ListBelow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM items WHERE available_count < \$1 ORDER BY available_count, id`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(2, 1, "fuses", 0, now, now).
			AddRow(9, 2, "tape", 4, now, now))

	repo := NewItemRepo(db)
	items, err := repo.ListBelow(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListBelow: %v", err)
	}
	if len(items) != 2 || items[0].Name != "fuses" {
		t.Errorf("unexpected items: %+v", items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestItemRepo_Delete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM items WHERE id = \$1 AND section_id = \$2`).
		WithArgs(5, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewItemRepo(db)
	if err := repo.Delete(context.Background(), 1, 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
