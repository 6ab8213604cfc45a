package store

import (
	"context"
	"fmt"
	"time"

	"github.com/bdeshop/khelaghor-sub001/internal/models"
)

type WithdrawTxStore struct {
	db DB
}

// WithdrawTransaction freezes the fee and net amount computed at creation
// time; later fee-rule changes on the method never touch them.
type WithdrawTransaction struct {
	ID          string           `db:"id"`
	UserID      string           `db:"user_id"`
	MethodID    string           `db:"method_id"`
	Amount      int64            `db:"amount"`
	Fee         int64            `db:"fee"`
	NetAmount   int64            `db:"net_amount"`
	UserInput   models.UserInput `db:"user_input"`
	Status      string           `db:"status"`
	AdminNote   *string          `db:"admin_note"`
	ProcessedBy *string          `db:"processed_by"`
	ProcessedAt *time.Time       `db:"processed_at"`
	CreatedAt   time.Time        `db:"created_at"`
}

type WithdrawTransactionDetail struct {
	WithdrawTransaction
	Username      string  `db:"username"`
	MethodNameEN  string  `db:"method_name_en"`
	MethodNameBN  string  `db:"method_name_bn"`
	ProcessedName *string `db:"processed_name"`
}

type WithdrawTransactionInput struct {
	ID        string
	UserID    string
	MethodID  string
	Amount    int64
	Fee       int64
	NetAmount int64
	UserInput models.UserInput
}

func NewWithdrawTxStore(db DB) *WithdrawTxStore {
	return &WithdrawTxStore{db: db}
}

func (s *WithdrawTxStore) Create(ctx context.Context, tx Execer, input WithdrawTransactionInput) error {
	query := `
		INSERT INTO withdraw_transactions (id, user_id, method_id, amount, fee, net_amount, user_input, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.MethodID, input.Amount, input.Fee, input.NetAmount, input.UserInput,
	)
	return err
}

func (s *WithdrawTxStore) GetForUpdate(ctx context.Context, tx Getter, transactionID string) (WithdrawTransaction, error) {
	var row WithdrawTransaction
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, method_id, amount, fee, net_amount, user_input, status, admin_note, processed_by, processed_at, created_at
		FROM withdraw_transactions
		WHERE id = $1
		FOR UPDATE
	`, transactionID)
	if err != nil {
		return WithdrawTransaction{}, err
	}
	return row, nil
}

// Resolve is the same compare-and-swap transition as for deposits.
func (s *WithdrawTxStore) Resolve(ctx context.Context, tx Execer, transactionID, status string, adminNote *string, adminID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE withdraw_transactions
		SET status = $1, admin_note = $2, processed_by = $3, processed_at = NOW()
		WHERE id = $4 AND status = 'pending'
	`, status, adminNote, adminID, transactionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const withdrawDetailColumns = `
	t.id, t.user_id, t.method_id, t.amount, t.fee, t.net_amount, t.user_input, t.status,
	t.admin_note, t.processed_by, t.processed_at, t.created_at,
	u.username, m.name_en AS method_name_en, m.name_bn AS method_name_bn,
	a.username AS processed_name
`

const withdrawDetailJoins = `
	FROM withdraw_transactions t
	JOIN users u ON u.id = t.user_id
	JOIN withdraw_methods m ON m.id = t.method_id
	LEFT JOIN admins a ON a.id = t.processed_by
`

func (s *WithdrawTxStore) GetDetail(ctx context.Context, transactionID string) (WithdrawTransactionDetail, error) {
	var row WithdrawTransactionDetail
	err := s.db.GetContext(ctx, &row,
		`SELECT `+withdrawDetailColumns+withdrawDetailJoins+` WHERE t.id = $1`,
		transactionID)
	if err != nil {
		return WithdrawTransactionDetail{}, err
	}
	return row, nil
}

func (s *WithdrawTxStore) ListByUser(ctx context.Context, userID, status string, limit, offset int) ([]WithdrawTransactionDetail, error) {
	query := `SELECT ` + withdrawDetailColumns + withdrawDetailJoins + ` WHERE t.user_id = $1`
	args := []any{userID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	query += fmt.Sprintf(" ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	var rows []WithdrawTransactionDetail
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *WithdrawTxStore) ListAll(ctx context.Context, filter TransactionFilter) ([]WithdrawTransactionDetail, error) {
	query := `SELECT ` + withdrawDetailColumns + withdrawDetailJoins + ` WHERE 1 = 1`
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(" AND t.user_id = $%d", len(args))
	}
	if filter.MethodID != "" {
		args = append(args, filter.MethodID)
		query += fmt.Sprintf(" AND t.method_id = $%d", len(args))
	}
	query += fmt.Sprintf(" ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)
	var rows []WithdrawTransactionDetail
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *WithdrawTxStore) Statistics(ctx context.Context) (TransactionStats, error) {
	var stats TransactionStats
	err := s.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) FILTER (WHERE status = 'pending') AS pending_count,
		       COUNT(*) FILTER (WHERE status = 'approved') AS approved_count,
		       COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled_count,
		       COALESCE(SUM(amount) FILTER (WHERE status = 'approved'), 0) AS approved_amount
		FROM withdraw_transactions
	`)
	return stats, err
}
