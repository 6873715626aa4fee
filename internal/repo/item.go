package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/stockroom/internal/models"
)

const itemColumns = `id, section_id, name, available_count, created_at, updated_at`

// ItemRepo persists stock-tracked items. Every lookup is scoped by section.
type ItemRepo struct {
	DB Querier
}

func NewItemRepo(db Querier) *ItemRepo {
	return &ItemRepo{DB: db}
}

func scanItem(row interface{ Scan(...any) error }) (models.Item, error) {
	var it models.Item
	err := row.Scan(&it.ID, &it.SectionID, &it.Name, &it.AvailableCount, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func scanItems(rows *sql.Rows) ([]models.Item, error) {
	defer rows.Close()
	items := []models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create inserts an item into sectionID.
func (r *ItemRepo) Create(ctx context.Context, sectionID int, name string, available int) (models.Item, error) {
	it, err := scanItem(r.DB.QueryRowContext(ctx,
		`INSERT INTO items (section_id, name, available_count)
		 VALUES ($1, $2, $3)
		 RETURNING `+itemColumns,
		sectionID, name, available,
	))
	return it, translate(err)
}

// Get returns the item only if it belongs to sectionID.
func (r *ItemRepo) Get(ctx context.Context, sectionID, itemID int) (models.Item, error) {
	it, err := scanItem(r.DB.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = $1 AND section_id = $2`,
		itemID, sectionID,
	))
	return it, translate(err)
}

// GetForUpdate is Get with a row lock; call it inside a transaction.
func (r *ItemRepo) GetForUpdate(ctx context.Context, sectionID, itemID int) (models.Item, error) {
	it, err := scanItem(r.DB.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = $1 AND section_id = $2 FOR UPDATE`,
		itemID, sectionID,
	))
	return it, translate(err)
}

// Update replaces the name and available count.
func (r *ItemRepo) Update(ctx context.Context, sectionID, itemID int, name string, available int) (models.Item, error) {
	it, err := scanItem(r.DB.QueryRowContext(ctx,
		`UPDATE items
		 SET name = $1, available_count = $2, updated_at = now()
		 WHERE id = $3 AND section_id = $4
		 RETURNING `+itemColumns,
		name, available, itemID, sectionID,
	))
	return it, translate(err)
}

// Delete removes the item from sectionID.
func (r *ItemRepo) Delete(ctx context.Context, sectionID, itemID int) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM items WHERE id = $1 AND section_id = $2`, itemID, sectionID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// List returns every item across all sections.
func (r *ItemRepo) List(ctx context.Context) ([]models.Item, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

// ListBySection returns the items of one section.
func (r *ItemRepo) ListBySection(ctx context.Context, sectionID int) ([]models.Item, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE section_id = $1 ORDER BY id`, sectionID)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

// ListBelow returns items whose available count is strictly below threshold, scarcest first.
func (r *ItemRepo) ListBelow(ctx context.Context, threshold int) ([]models.Item, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE available_count < $1 ORDER BY available_count, id`,
		threshold)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

// CountBelow counts items strictly below threshold.
func (r *ItemRepo) CountBelow(ctx context.Context, threshold int) (int, error) {
	return count(ctx, r.DB, `SELECT COUNT(*) FROM items WHERE available_count < $1`, threshold)
}

// Count returns the number of items.
func (r *ItemRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.DB, `SELECT COUNT(*) FROM items`)
}
