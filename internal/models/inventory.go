package models

import "time"

type Section struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ItemCount   int       `json:"itemCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Item struct {
	ID             int       `json:"itemId"`
	SectionID      int       `json:"sectionId"`
	Name           string    `json:"itemname"`
	AvailableCount int       `json:"availableCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Summary is the aggregate shown on the dashboard.
type Summary struct {
	Sections  int    `json:"sections"`
	Items     int    `json:"items"`
	Employees int    `json:"employees"`
	Logs      int    `json:"logs"`
	LowStock  []Item `json:"lowStock"`
	Threshold int    `json:"threshold"`
}
