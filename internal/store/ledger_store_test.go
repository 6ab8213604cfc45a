package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestLedgerStoreInsertEntry(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO balance_entries") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 6 || args[2] != int64(-100000) || args[3] != "withdraw" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewLedgerStore(stubDB{})
	err := store.InsertEntry(ctx, execer, BalanceEntryInput{
		ID:            "entry-1",
		UserID:        "user-1",
		Amount:        -100000,
		EntryType:     "withdraw",
		TransactionID: "tx-1",
		Description:   "Withdrawal approved",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLedgerStoreSumByUser(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "COALESCE(SUM(amount), 0)") {
				t.Fatalf("unexpected query: %s", query)
			}
			*(dest.(*int64)) = 400000
			return nil
		},
	})
	sum, err := store.SumByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != 400000 {
		t.Fatalf("expected 400000, got %d", sum)
	}
}
