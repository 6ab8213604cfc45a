package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestWithdrawTxStoreCreateFreezesFee(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO withdraw_transactions") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 7 {
				t.Fatalf("unexpected args: %#v", args)
			}
			if args[3] != int64(100000) || args[4] != int64(5000) || args[5] != int64(95000) {
				t.Fatalf("amount/fee/net mismatch: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewWithdrawTxStore(stubDB{})
	err := store.Create(ctx, execer, WithdrawTransactionInput{
		ID:        "tx-1",
		UserID:    "user-1",
		MethodID:  "method-1",
		Amount:    100000,
		Fee:       5000,
		NetAmount: 95000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWithdrawTxStoreResolveIsConditional(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "UPDATE withdraw_transactions") ||
				!strings.Contains(query, "status = 'pending'") {
				t.Fatalf("unexpected query: %s", query)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewWithdrawTxStore(stubDB{})
	rows, err := store.Resolve(ctx, execer, "tx-1", "approved", nil, "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row, got %d", rows)
	}
}

func TestWithdrawTxStoreListByUserStatusFilter(t *testing.T) {
	ctx := context.Background()
	store := NewWithdrawTxStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "t.user_id = $1") || !strings.Contains(query, "t.status = $2") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 4 || args[0] != "user-1" || args[1] != "pending" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return nil
		},
	})
	if _, err := store.ListByUser(ctx, "user-1", "pending", 50, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
