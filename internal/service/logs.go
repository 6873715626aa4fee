package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/crucial707/stockroom/internal/models"
)

// LogStore is the persistence LogService needs.
type LogStore interface {
	Create(ctx context.Context, e *models.LogEntry) error
	List(ctx context.Context) ([]models.LogEntry, error)
}

// SummaryInvalidator drops cached dashboard aggregates after a write.
type SummaryInvalidator interface {
	Invalidate(ctx context.Context)
}

// CreateLogInput is the payload of POST /api/logs/create.
type CreateLogInput struct {
	Username  string  `json:"username" validate:"required"`
	Activity  string  `json:"activity" validate:"required"`
	Count     *int    `json:"count"`
	CreatedBy string  `json:"createdBy" validate:"required"`
	UpdatedBy *string `json:"updatedBy"`
}

type LogService struct {
	logs  LogStore
	cache SummaryInvalidator
}

// NewLogService builds a LogService; cache may be nil.
func NewLogService(logs LogStore, cache SummaryInvalidator) *LogService {
	return &LogService{logs: logs, cache: cache}
}

// Create appends an activity entry. Timestamps are assigned by the database.
func (s *LogService) Create(ctx context.Context, in CreateLogInput) (*models.LogEntry, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Activity = strings.TrimSpace(in.Activity)
	in.CreatedBy = strings.TrimSpace(in.CreatedBy)
	if err := check(in); err != nil {
		return nil, err
	}

	e := &models.LogEntry{
		Username:  in.Username,
		Activity:  in.Activity,
		Count:     in.Count,
		CreatedBy: in.CreatedBy,
		UpdatedBy: in.UpdatedBy,
	}
	if err := s.logs.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create log: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return e, nil
}

// List returns every entry, newest first.
func (s *LogService) List(ctx context.Context) ([]models.LogEntry, error) {
	return s.logs.List(ctx)
}
