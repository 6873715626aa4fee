package models

import "time"

// LogEntry is one row of the append-only activity log.
type LogEntry struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Activity  string    `json:"activity"`
	Count     *int      `json:"count"`
	CreatedBy string    `json:"createdBy"`
	UpdatedBy *string   `json:"updatedBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
