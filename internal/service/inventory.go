package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/crucial707/stockroom/internal/models"
	"github.com/crucial707/stockroom/internal/repo"
)

// SummaryCache stores the dashboard summary between writes.
type SummaryCache interface {
	SummaryInvalidator
	Get(ctx context.Context) (*models.Summary, bool)
	Set(ctx context.Context, s *models.Summary)
}

// SectionInput is the payload of POST /api/sections.
type SectionInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
}

// ItemInput is the payload of POST and PUT on /api/items/section/...
type ItemInput struct {
	Name           string `json:"itemname" validate:"required,max=255"`
	AvailableCount int    `json:"availableCount" validate:"min=0"`
}

// InventoryService manages sections and items. Every mutation writes its
// activity log row in the same transaction.
type InventoryService struct {
	Sections  *repo.SectionRepo
	Items     *repo.ItemRepo
	Users     *repo.UserRepo
	Logs      *repo.LogRepo
	Ledger    *repo.Ledger
	Cache     SummaryCache
	Threshold int
}

// NewInventoryService wires the repos over db.
func NewInventoryService(db *sql.DB, cache SummaryCache, threshold int) *InventoryService {
	if threshold <= 0 {
		threshold = 5
	}
	return &InventoryService{
		Sections:  repo.NewSectionRepo(db),
		Items:     repo.NewItemRepo(db),
		Users:     repo.NewUserRepo(db),
		Logs:      repo.NewLogRepo(db),
		Ledger:    repo.NewLedger(db),
		Cache:     cache,
		Threshold: threshold,
	}
}

func activity(actor, text string, count int) *models.LogEntry {
	return &models.LogEntry{Username: actor, Activity: text, Count: &count, CreatedBy: actor}
}

func (s *InventoryService) invalidate(ctx context.Context) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx)
	}
}

func mapNotFound(err error, what string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return notFound(what)
	}
	return err
}

// ==========================
// Sections
// ==========================

func (s *InventoryService) ListSections(ctx context.Context) ([]models.Section, error) {
	return s.Sections.List(ctx)
}

func (s *InventoryService) CreateSection(ctx context.Context, in SectionInput, actor string) (models.Section, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := check(in); err != nil {
		return models.Section{}, err
	}

	var section models.Section
	err := s.Ledger.Run(ctx, func(tx repo.LedgerTx) error {
		var err error
		section, err = tx.Sections.Create(ctx, in.Name, in.Description)
		if err != nil {
			return fmt.Errorf("create section: %w", err)
		}
		return tx.Logs.Create(ctx, activity(actor, fmt.Sprintf("Created %s section", section.Name), 0))
	})
	if err != nil {
		return models.Section{}, err
	}
	s.invalidate(ctx)
	return section, nil
}

// DeleteSection removes a section together with its items.
func (s *InventoryService) DeleteSection(ctx context.Context, id int, actor string) error {
	err := s.Ledger.Run(ctx, func(tx repo.LedgerTx) error {
		section, err := tx.Sections.GetByID(ctx, id)
		if err != nil {
			return mapNotFound(err, "section")
		}
		if err := tx.Sections.DeleteByID(ctx, id); err != nil {
			return mapNotFound(err, "section")
		}
		return tx.Logs.Create(ctx, activity(actor, fmt.Sprintf("Deleted %s section", section.Name), 0))
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ==========================
// Items
// ==========================

func (s *InventoryService) ListItems(ctx context.Context) ([]models.Item, error) {
	return s.Items.List(ctx)
}

func (s *InventoryService) ListSectionItems(ctx context.Context, sectionID int) ([]models.Item, error) {
	if _, err := s.Sections.GetByID(ctx, sectionID); err != nil {
		return nil, mapNotFound(err, "section")
	}
	return s.Items.ListBySection(ctx, sectionID)
}

func (s *InventoryService) CreateItem(ctx context.Context, sectionID int, in ItemInput, actor string) (models.Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := check(in); err != nil {
		return models.Item{}, err
	}

	var item models.Item
	err := s.Ledger.Run(ctx, func(tx repo.LedgerTx) error {
		section, err := tx.Sections.GetByID(ctx, sectionID)
		if err != nil {
			return mapNotFound(err, "section")
		}
		item, err = tx.Items.Create(ctx, sectionID, in.Name, in.AvailableCount)
		if err != nil {
			return fmt.Errorf("create item: %w", err)
		}
		text := fmt.Sprintf("added %d %s into %s", in.AvailableCount, in.Name, section.Name)
		return tx.Logs.Create(ctx, activity(actor, text, in.AvailableCount))
	})
	if err != nil {
		return models.Item{}, err
	}
	s.invalidate(ctx)
	return item, nil
}

// UpdateItem replaces name and count. The activity row describes the stock
// change, or the rename when only the name changed.
func (s *InventoryService) UpdateItem(ctx context.Context, sectionID, itemID int, in ItemInput, actor string) (models.Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := check(in); err != nil {
		return models.Item{}, err
	}

	var item models.Item
	err := s.Ledger.Run(ctx, func(tx repo.LedgerTx) error {
		section, err := tx.Sections.GetByID(ctx, sectionID)
		if err != nil {
			return mapNotFound(err, "section")
		}
		before, err := tx.Items.GetForUpdate(ctx, sectionID, itemID)
		if err != nil {
			return mapNotFound(err, "item")
		}
		item, err = tx.Items.Update(ctx, sectionID, itemID, in.Name, in.AvailableCount)
		if err != nil {
			return mapNotFound(err, "item")
		}
		if entry := changeEntry(actor, section.Name, before, item); entry != nil {
			return tx.Logs.Create(ctx, entry)
		}
		return nil
	})
	if err != nil {
		return models.Item{}, err
	}
	s.invalidate(ctx)
	return item, nil
}

// AdjustItem adds delta to the available count, clamping at zero. A call
// that changes nothing writes no activity row.
func (s *InventoryService) AdjustItem(ctx context.Context, sectionID, itemID, delta int, actor string) (models.Item, error) {
	if delta == 0 {
		return models.Item{}, invalid("delta", "must not be zero")
	}

	var item models.Item
	err := s.Ledger.Run(ctx, func(tx repo.LedgerTx) error {
		section, err := tx.Sections.GetByID(ctx, sectionID)
		if err != nil {
			return mapNotFound(err, "section")
		}
		before, err := tx.Items.GetForUpdate(ctx, sectionID, itemID)
		if err != nil {
			return mapNotFound(err, "item")
		}
		next := before.AvailableCount + delta
		if next < 0 {
			next = 0
		}
		if next == before.AvailableCount {
			item = before
			return nil
		}
		item, err = tx.Items.Update(ctx, sectionID, itemID, before.Name, next)
		if err != nil {
			return mapNotFound(err, "item")
		}
		return tx.Logs.Create(ctx, changeEntry(actor, section.Name, before, item))
	})
	if err != nil {
		return models.Item{}, err
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *InventoryService) DeleteItem(ctx context.Context, sectionID, itemID int, actor string) error {
	err := s.Ledger.Run(ctx, func(tx repo.LedgerTx) error {
		section, err := tx.Sections.GetByID(ctx, sectionID)
		if err != nil {
			return mapNotFound(err, "section")
		}
		item, err := tx.Items.Get(ctx, sectionID, itemID)
		if err != nil {
			return mapNotFound(err, "item")
		}
		if err := tx.Items.Delete(ctx, sectionID, itemID); err != nil {
			return mapNotFound(err, "item")
		}
		return tx.Logs.Create(ctx, activity(actor, fmt.Sprintf("deleted %s from %s", item.Name, section.Name), 0))
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// changeEntry describes the difference between two versions of an item, or
// returns nil when nothing changed.
func changeEntry(actor, section string, before, after models.Item) *models.LogEntry {
	diff := after.AvailableCount - before.AvailableCount
	switch {
	case diff > 0:
		return activity(actor, fmt.Sprintf("added %d %s to %s", diff, after.Name, section), diff)
	case diff < 0:
		return activity(actor, fmt.Sprintf("removed %d %s from %s", -diff, after.Name, section), -diff)
	case before.Name != after.Name:
		return activity(actor, fmt.Sprintf("renamed %s to %s in %s", before.Name, after.Name, section), 0)
	}
	return nil
}

// ==========================
// Low stock and summary
// ==========================

// LowStock lists items strictly below threshold; threshold <= 0 uses the configured default.
func (s *InventoryService) LowStock(ctx context.Context, threshold int) ([]models.Item, error) {
	if threshold <= 0 {
		threshold = s.Threshold
	}
	return s.Items.ListBelow(ctx, threshold)
}

// CountLowStock counts items below the configured threshold.
func (s *InventoryService) CountLowStock(ctx context.Context) (int, error) {
	return s.Items.CountBelow(ctx, s.Threshold)
}

// Summary returns dashboard counts and the low-stock list, served from the cache when warm.
func (s *InventoryService) Summary(ctx context.Context) (*models.Summary, error) {
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx); ok {
			return cached, nil
		}
	}

	var (
		sum models.Summary
		err error
	)
	if sum.Sections, err = s.Sections.Count(ctx); err != nil {
		return nil, fmt.Errorf("count sections: %w", err)
	}
	if sum.Items, err = s.Items.Count(ctx); err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	if sum.Employees, err = s.Users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if sum.Logs, err = s.Logs.Count(ctx); err != nil {
		return nil, fmt.Errorf("count logs: %w", err)
	}
	if sum.LowStock, err = s.Items.ListBelow(ctx, s.Threshold); err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	sum.Threshold = s.Threshold

	if s.Cache != nil {
		s.Cache.Set(ctx, &sum)
	}
	return &sum, nil
}
