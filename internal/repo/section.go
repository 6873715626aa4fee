package repo

import (
	"context"

	"github.com/crucial707/stockroom/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type SectionRepo struct {
	DB Querier
}

func NewSectionRepo(db Querier) *SectionRepo {
	return &SectionRepo{DB: db}
}

// ========================
// CREATE SECTION
// ========================

func (r *SectionRepo) Create(ctx context.Context, name, description string) (models.Section, error) {
	var s models.Section
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO sections (name, description)
		 VALUES ($1, $2)
		 RETURNING id, name, description, created_at`,
		name, description,
	).Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt)
	return s, translate(err)
}

// ========================
// GET SECTION BY ID
// ========================

func (r *SectionRepo) GetByID(ctx context.Context, id int) (models.Section, error) {
	var s models.Section
	err := r.DB.QueryRowContext(ctx,
		`SELECT s.id, s.name, s.description, s.created_at,
		        (SELECT COUNT(*) FROM items i WHERE i.section_id = s.id)
		 FROM sections s
		 WHERE s.id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt, &s.ItemCount)
	return s, translate(err)
}

// ========================
// DELETE SECTION BY ID
// ========================

// DeleteByID removes the section; its items go with it (ON DELETE CASCADE).
func (r *SectionRepo) DeleteByID(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ========================
// LIST SECTIONS
// ========================

func (r *SectionRepo) List(ctx context.Context) ([]models.Section, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT s.id, s.name, s.description, s.created_at, COUNT(i.id)
		 FROM sections s
		 LEFT JOIN items i ON i.section_id = s.id
		 GROUP BY s.id
		 ORDER BY s.id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := []models.Section{}
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt, &s.ItemCount); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// Count returns the number of sections.
func (r *SectionRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.DB, `SELECT COUNT(*) FROM sections`)
}
