package repo

import (
	"context"
	"database/sql"
	"fmt"
)

// LedgerTx exposes the inventory and log repos bound to one transaction.
type LedgerTx struct {
	Sections *SectionRepo
	Items    *ItemRepo
	Logs     *LogRepo
}

// Ledger runs an inventory mutation and its activity log row atomically.
type Ledger struct {
	DB *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{DB: db}
}

// Run calls fn inside a transaction. fn's error (or a panic) rolls back;
// otherwise the transaction commits.
func (l *Ledger) Run(ctx context.Context, fn func(tx LedgerTx) error) (err error) {
	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(LedgerTx{
		Sections: NewSectionRepo(tx),
		Items:    NewItemRepo(tx),
		Logs:     NewLogRepo(tx),
	}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
