package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucial707/stockroom/internal/models"
)

var (
	itemCols    = []string{"id", "section_id", "name", "available_count", "created_at", "updated_at"}
	sectionCols = []string{"id", "name", "description", "created_at", "count"}
	logCols     = []string{"id", "created_at", "updated_at"}
)

type memSummaryCache struct {
	summary     *models.Summary
	invalidated int
}

func (c *memSummaryCache) Get(context.Context) (*models.Summary, bool) {
	return c.summary, c.summary != nil
}

func (c *memSummaryCache) Set(_ context.Context, s *models.Summary) { c.summary = s }

func (c *memSummaryCache) Invalidate(context.Context) {
	c.summary = nil
	c.invalidated++
}

func newInventory(t *testing.T) (*InventoryService, sqlmock.Sqlmock, *memSummaryCache) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	cache := &memSummaryCache{}
	return NewInventoryService(db, cache, 5), mock, cache
}

func expectSection(mock sqlmock.Sqlmock, id int, name string) {
	mock.ExpectQuery(`FROM sections s\s+WHERE s.id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(sectionCols).AddRow(id, name, "", time.Now(), 1))
}

func expectLog(mock sqlmock.Sqlmock, actor, activity string, count int) {
	mock.ExpectQuery(`INSERT INTO activity_logs`).
		WithArgs(actor, activity, int64(count), actor, nil).
		WillReturnRows(sqlmock.NewRows(logCols).AddRow(1, time.Now(), time.Now()))
}

func TestInventoryService_CreateSection(t *testing.T) {
	svc, mock, cache := newInventory(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO sections`).
		WithArgs("Hardware", "nuts and bolts").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at"}).
			AddRow(1, "Hardware", "nuts and bolts", now))
	expectLog(mock, "alice", "Created Hardware section", 0)
	mock.ExpectCommit()

	section, err := svc.CreateSection(context.Background(), SectionInput{Name: " Hardware ", Description: "nuts and bolts"}, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, section.ID)
	assert.Equal(t, 1, cache.invalidated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_CreateSection_RequiresName(t *testing.T) {
	svc, mock, _ := newInventory(t)

	_, err := svc.CreateSection(context.Background(), SectionInput{Name: "  "}, "alice")
	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_DeleteSection_NotFound(t *testing.T) {
	svc, mock, cache := newInventory(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM sections s\s+WHERE s.id = \$1`).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := svc.DeleteSection(context.Background(), 42, "alice")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, cache.invalidated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_DeleteSection(t *testing.T) {
	svc, mock, _ := newInventory(t)

	mock.ExpectBegin()
	expectSection(mock, 1, "Hardware")
	mock.ExpectExec(`DELETE FROM sections`).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	expectLog(mock, "alice", "Deleted Hardware section", 0)
	mock.ExpectCommit()

	require.NoError(t, svc.DeleteSection(context.Background(), 1, "alice"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_CreateItem(t *testing.T) {
	svc, mock, _ := newInventory(t)
	now := time.Now()

	mock.ExpectBegin()
	expectSection(mock, 1, "Hardware")
	mock.ExpectQuery(`INSERT INTO items`).
		WithArgs(1, "bolts", 10).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(7, 1, "bolts", 10, now, now))
	expectLog(mock, "alice", "added 10 bolts into Hardware", 10)
	mock.ExpectCommit()

	item, err := svc.CreateItem(context.Background(), 1, ItemInput{Name: "bolts", AvailableCount: 10}, "alice")
	require.NoError(t, err)
	assert.Equal(t, 7, item.ID)
	assert.Equal(t, 10, item.AvailableCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_CreateItem_NegativeCount(t *testing.T) {
	svc, mock, _ := newInventory(t)

	_, err := svc.CreateItem(context.Background(), 1, ItemInput{Name: "bolts", AvailableCount: -1}, "alice")
	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_CreateItem_LogFailureRollsBack(t *testing.T) {
	svc, mock, cache := newInventory(t)
	now := time.Now()

	mock.ExpectBegin()
	expectSection(mock, 1, "Hardware")
	mock.ExpectQuery(`INSERT INTO items`).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(7, 1, "bolts", 10, now, now))
	mock.ExpectQuery(`INSERT INTO activity_logs`).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := svc.CreateItem(context.Background(), 1, ItemInput{Name: "bolts", AvailableCount: 10}, "alice")
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Zero(t, cache.invalidated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_AdjustItem_ClampsAtZero(t *testing.T) {
	svc, mock, _ := newInventory(t)
	now := time.Now()

	mock.ExpectBegin()
	expectSection(mock, 1, "Hardware")
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(7, 1, "bolts", 3, now, now))
	mock.ExpectQuery(`UPDATE items`).
		WithArgs("bolts", 0, 7, 1).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(7, 1, "bolts", 0, now, now))
	expectLog(mock, "bob", "removed 3 bolts from Hardware", 3)
	mock.ExpectCommit()

	item, err := svc.AdjustItem(context.Background(), 1, 7, -10, "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, item.AvailableCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_AdjustItem_NoChangeWritesNothing(t *testing.T) {
	svc, mock, _ := newInventory(t)
	now := time.Now()

	mock.ExpectBegin()
	expectSection(mock, 1, "Hardware")
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(7, 1, "bolts", 0, now, now))
	mock.ExpectCommit()

	item, err := svc.AdjustItem(context.Background(), 1, 7, -1, "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, item.AvailableCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_AdjustItem_ZeroDelta(t *testing.T) {
	svc, _, _ := newInventory(t)
	_, err := svc.AdjustItem(context.Background(), 1, 7, 0, "bob")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestInventoryService_UpdateItem_ItemInOtherSection(t *testing.T) {
	svc, mock, _ := newInventory(t)

	mock.ExpectBegin()
	expectSection(mock, 2, "Paint")
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(7, 2).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.UpdateItem(context.Background(), 2, 7, ItemInput{Name: "bolts", AvailableCount: 1}, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_DeleteItem(t *testing.T) {
	svc, mock, _ := newInventory(t)
	now := time.Now()

	mock.ExpectBegin()
	expectSection(mock, 1, "Hardware")
	mock.ExpectQuery(`SELECT .+ FROM items WHERE id = \$1 AND section_id = \$2`).
		WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(7, 1, "bolts", 4, now, now))
	mock.ExpectExec(`DELETE FROM items`).WithArgs(7, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	expectLog(mock, "alice", "deleted bolts from Hardware", 0)
	mock.ExpectCommit()

	require.NoError(t, svc.DeleteItem(context.Background(), 1, 7, "alice"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangeEntry(t *testing.T) {
	base := models.Item{Name: "bolts", AvailableCount: 5}
	tests := []struct {
		name     string
		after    models.Item
		activity string
		count    int
	}{
		{"increase", models.Item{Name: "bolts", AvailableCount: 8}, "added 3 bolts to Hardware", 3},
		{"decrease", models.Item{Name: "bolts", AvailableCount: 1}, "removed 4 bolts from Hardware", 4},
		{"rename", models.Item{Name: "screws", AvailableCount: 5}, "renamed bolts to screws in Hardware", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := changeEntry("alice", "Hardware", base, tt.after)
			require.NotNil(t, e)
			assert.Equal(t, tt.activity, e.Activity)
			assert.Equal(t, tt.count, *e.Count)
			assert.Equal(t, "alice", e.CreatedBy)
		})
	}
	assert.Nil(t, changeEntry("alice", "Hardware", base, base))
}

func TestInventoryService_LowStock_DefaultThreshold(t *testing.T) {
	svc, mock, _ := newInventory(t)
	now := time.Now()

	mock.ExpectQuery(`WHERE available_count < \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(2, 1, "washers", 0, now, now).
			AddRow(1, 1, "bolts", 4, now, now))

	items, err := svc.LowStock(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "washers", items[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_Summary_UsesCache(t *testing.T) {
	svc, mock, cache := newInventory(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sections`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM items$`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM activity_logs`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(40))
	mock.ExpectQuery(`WHERE available_count < \$1`).WithArgs(5).WillReturnRows(sqlmock.NewRows(itemCols))

	first, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Summary{Sections: 2, Items: 9, Employees: 3, Logs: 40, LowStock: []models.Item{}, Threshold: 5}, *first)
	require.NotNil(t, cache.summary)

	second, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}
