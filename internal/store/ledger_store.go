package store

import (
	"context"
	"time"
)

// LedgerStore records every settlement's balance delta. The ledger is the
// replayable record the reconcile endpoint checks stored balances against.
type LedgerStore struct {
	db DB
}

type BalanceEntry struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	Amount        int64     `db:"amount"`
	EntryType     string    `db:"entry_type"`
	TransactionID string    `db:"transaction_id"`
	Description   string    `db:"description"`
	CreatedAt     time.Time `db:"created_at"`
}

type BalanceEntryInput struct {
	ID            string
	UserID        string
	Amount        int64
	EntryType     string
	TransactionID string
	Description   string
}

func NewLedgerStore(db DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) InsertEntry(ctx context.Context, tx Execer, entry BalanceEntryInput) error {
	query := `
		INSERT INTO balance_entries (id, user_id, amount, entry_type, transaction_id, description)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Amount, entry.EntryType, entry.TransactionID, entry.Description,
	)
	return err
}

func (s *LedgerStore) SumByUser(ctx context.Context, userID string) (int64, error) {
	var sum int64
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0)
		FROM balance_entries
		WHERE user_id = $1
	`, userID)
	return sum, err
}

func (s *LedgerStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]BalanceEntry, error) {
	var rows []BalanceEntry
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, amount, entry_type, transaction_id, description, created_at
		FROM balance_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
