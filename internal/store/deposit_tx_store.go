package store

import (
	"context"
	"fmt"
	"time"

	"github.com/bdeshop/khelaghor-sub001/internal/models"
)

type DepositTxStore struct {
	db DB
}

type DepositTransaction struct {
	ID          string           `db:"id"`
	UserID      string           `db:"user_id"`
	MethodID    string           `db:"method_id"`
	Amount      int64            `db:"amount"`
	Reference   string           `db:"reference"`
	UserInput   models.UserInput `db:"user_input"`
	Status      string           `db:"status"`
	AdminNote   *string          `db:"admin_note"`
	ProcessedBy *string          `db:"processed_by"`
	ProcessedAt *time.Time       `db:"processed_at"`
	CreatedAt   time.Time        `db:"created_at"`
}

// DepositTransactionDetail is a transaction row expanded with the owner,
// method and resolving-admin display fields.
type DepositTransactionDetail struct {
	DepositTransaction
	Username      string  `db:"username"`
	MethodNameEN  string  `db:"method_name_en"`
	MethodNameBN  string  `db:"method_name_bn"`
	ProcessedName *string `db:"processed_name"`
}

type DepositTransactionInput struct {
	ID        string
	UserID    string
	MethodID  string
	Amount    int64
	Reference string
	UserInput models.UserInput
}

// TransactionFilter narrows admin listings. Zero values mean "no filter".
type TransactionFilter struct {
	Status   string
	UserID   string
	MethodID string
	Limit    int
	Offset   int
}

type TransactionStats struct {
	PendingCount   int64 `db:"pending_count"`
	ApprovedCount  int64 `db:"approved_count"`
	CancelledCount int64 `db:"cancelled_count"`
	ApprovedAmount int64 `db:"approved_amount"`
}

func NewDepositTxStore(db DB) *DepositTxStore {
	return &DepositTxStore{db: db}
}

func (s *DepositTxStore) Create(ctx context.Context, tx Execer, input DepositTransactionInput) error {
	query := `
		INSERT INTO deposit_transactions (id, user_id, method_id, amount, reference, user_input, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.MethodID, input.Amount, input.Reference, input.UserInput,
	)
	return err
}

func (s *DepositTxStore) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM deposit_transactions WHERE reference = $1)
	`, reference)
	return exists, err
}

// GetForUpdate locks the transaction row so concurrent resolutions
// serialize on it.
func (s *DepositTxStore) GetForUpdate(ctx context.Context, tx Getter, transactionID string) (DepositTransaction, error) {
	var row DepositTransaction
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, method_id, amount, reference, user_input, status, admin_note, processed_by, processed_at, created_at
		FROM deposit_transactions
		WHERE id = $1
		FOR UPDATE
	`, transactionID)
	if err != nil {
		return DepositTransaction{}, err
	}
	return row, nil
}

// Resolve flips a pending record to a terminal status. The status filter in
// the WHERE clause makes the transition a compare-and-swap: zero rows
// affected means the record was already resolved.
func (s *DepositTxStore) Resolve(ctx context.Context, tx Execer, transactionID, status string, adminNote *string, adminID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE deposit_transactions
		SET status = $1, admin_note = $2, processed_by = $3, processed_at = NOW()
		WHERE id = $4 AND status = 'pending'
	`, status, adminNote, adminID, transactionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const depositDetailColumns = `
	t.id, t.user_id, t.method_id, t.amount, t.reference, t.user_input, t.status,
	t.admin_note, t.processed_by, t.processed_at, t.created_at,
	u.username, m.name_en AS method_name_en, m.name_bn AS method_name_bn,
	a.username AS processed_name
`

const depositDetailJoins = `
	FROM deposit_transactions t
	JOIN users u ON u.id = t.user_id
	JOIN deposit_methods m ON m.id = t.method_id
	LEFT JOIN admins a ON a.id = t.processed_by
`

func (s *DepositTxStore) GetDetail(ctx context.Context, transactionID string) (DepositTransactionDetail, error) {
	var row DepositTransactionDetail
	err := s.db.GetContext(ctx, &row,
		`SELECT `+depositDetailColumns+depositDetailJoins+` WHERE t.id = $1`,
		transactionID)
	if err != nil {
		return DepositTransactionDetail{}, err
	}
	return row, nil
}

func (s *DepositTxStore) ListByUser(ctx context.Context, userID, status string, limit, offset int) ([]DepositTransactionDetail, error) {
	query := `SELECT ` + depositDetailColumns + depositDetailJoins + ` WHERE t.user_id = $1`
	args := []any{userID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	query += fmt.Sprintf(" ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	var rows []DepositTransactionDetail
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *DepositTxStore) ListAll(ctx context.Context, filter TransactionFilter) ([]DepositTransactionDetail, error) {
	query := `SELECT ` + depositDetailColumns + depositDetailJoins + ` WHERE 1 = 1`
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
	var rows []DepositTransactionDetail
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *DepositTxStore) Statistics(ctx context.Context) (TransactionStats, error) {
	var stats TransactionStats
	err := s.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) FILTER (WHERE status = 'pending') AS pending_count,
		       COUNT(*) FILTER (WHERE status = 'approved') AS approved_count,
		       COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled_count,
		       COALESCE(SUM(amount) FILTER (WHERE status = 'approved'), 0) AS approved_amount
		FROM deposit_transactions
	`)
	return stats, err
}
