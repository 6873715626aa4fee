package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/crucial707/stockroom/internal/metrics"
)

// LowStockCounter counts items below the configured threshold.
type LowStockCounter interface {
	CountLowStock(ctx context.Context) (int, error)
}

// checkTimeout bounds one low-stock query.
const checkTimeout = 10 * time.Second

// Watcher periodically counts low-stock items, publishes the count as the
// low_stock_items gauge and logs a warning while it is non-zero.
type Watcher struct {
	counter LowStockCounter
	cron    *cron.Cron
}

// NewWatcher schedules a check on spec (standard cron or "@every 5m").
func NewWatcher(counter LowStockCounter, spec string) (*Watcher, error) {
	w := &Watcher{
		counter: counter,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
	if _, err := w.cron.AddFunc(spec, func() { w.Check(context.Background()) }); err != nil {
		return nil, fmt.Errorf("low stock schedule %q: %w", spec, err)
	}
	return w, nil
}

// Start runs one check right away and then follows the schedule until ctx is done.
func (w *Watcher) Start(ctx context.Context) {
	go w.Check(ctx)
	w.cron.Start()
	go func() {
		<-ctx.Done()
		<-w.cron.Stop().Done()
		slog.Info("low stock watcher stopped")
	}()
}

// Check performs a single count and reports it.
func (w *Watcher) Check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	n, err := w.counter.CountLowStock(ctx)
	if err != nil {
		slog.Error("low stock check failed", "error", err)
		return
	}
	metrics.SetLowStockItems(n)
	if n > 0 {
		slog.Warn("items below low stock threshold", "count", n)
	}
}
