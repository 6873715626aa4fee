package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/stockroom/internal/models"
)

// LogRepo persists activity log entries. Rows are never updated.
type LogRepo struct {
	DB Querier
}

// NewLogRepo returns a new LogRepo.
func NewLogRepo(db Querier) *LogRepo {
	return &LogRepo{DB: db}
}

// Create inserts e and fills in its id and server-assigned timestamps.
func (r *LogRepo) Create(ctx context.Context, e *models.LogEntry) error {
	var cnt sql.NullInt64
	if e.Count != nil {
		cnt = sql.NullInt64{Int64: int64(*e.Count), Valid: true}
	}
	var updatedBy sql.NullString
	if e.UpdatedBy != nil {
		updatedBy = sql.NullString{String: *e.UpdatedBy, Valid: true}
	}

	return r.DB.QueryRowContext(ctx,
		`INSERT INTO activity_logs (username, activity, count, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		e.Username, e.Activity, cnt, e.CreatedBy, updatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// List returns every entry, newest first.
func (r *LogRepo) List(ctx context.Context) ([]models.LogEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, username, activity, count, created_by, updated_by, created_at, updated_at
		 FROM activity_logs
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.LogEntry{}
	for rows.Next() {
		var (
			e         models.LogEntry
			cnt       sql.NullInt64
			updatedBy sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Username, &e.Activity, &cnt, &e.CreatedBy, &updatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		if cnt.Valid {
			n := int(cnt.Int64)
			e.Count = &n
		}
		if updatedBy.Valid {
			s := updatedBy.String
			e.UpdatedBy = &s
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of entries.
func (r *LogRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.DB, `SELECT COUNT(*) FROM activity_logs`)
}
