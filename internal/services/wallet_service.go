package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bdeshop/khelaghor-sub001/internal/db"
	"github.com/bdeshop/khelaghor-sub001/internal/models"
	"github.com/bdeshop/khelaghor-sub001/internal/money"
	"github.com/bdeshop/khelaghor-sub001/internal/store"
	"github.com/bdeshop/khelaghor-sub001/internal/validator"
	"github.com/bdeshop/khelaghor-sub001/internal/websocket"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrMethodNotFound      = errors.New("payment method not found")
	ErrMethodInactive      = errors.New("payment method is inactive")
	ErrInvalidInput        = errors.New("invalid user input")
	ErrDuplicateReference  = errors.New("duplicate transaction reference")
	ErrBelowMinimum        = errors.New("amount below minimum withdrawal")
	ErrAboveMaximum        = errors.New("amount above maximum withdrawal")
	ErrFeeExceedsAmount    = errors.New("fee exceeds withdrawal amount")
	ErrInsufficientFunds   = errors.New("insufficient balance")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyResolved     = errors.New("transaction already resolved")
	ErrInvalidStatus       = errors.New("status must be approved or cancelled")
)

type UserStore interface {
	GetByID(ctx context.Context, userID string) (store.User, error)
	GetForUpdate(ctx context.Context, tx store.Getter, userID string) (store.User, error)
	AdjustBalance(ctx context.Context, tx store.Getter, userID string, delta int64) (int64, error)
}

type DepositMethodStore interface {
	GetByID(ctx context.Context, methodID string) (store.DepositMethod, error)
}

type WithdrawMethodStore interface {
	GetByID(ctx context.Context, methodID string) (store.WithdrawMethod, error)
}

type DepositTxStore interface {
	Create(ctx context.Context, tx store.Execer, input store.DepositTransactionInput) error
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	GetForUpdate(ctx context.Context, tx store.Getter, transactionID string) (store.DepositTransaction, error)
	Resolve(ctx context.Context, tx store.Execer, transactionID, status string, adminNote *string, adminID string) (int64, error)
	GetDetail(ctx context.Context, transactionID string) (store.DepositTransactionDetail, error)
}

type WithdrawTxStore interface {
	Create(ctx context.Context, tx store.Execer, input store.WithdrawTransactionInput) error
	GetForUpdate(ctx context.Context, tx store.Getter, transactionID string) (store.WithdrawTransaction, error)
	Resolve(ctx context.Context, tx store.Execer, transactionID, status string, adminNote *string, adminID string) (int64, error)
	GetDetail(ctx context.Context, transactionID string) (store.WithdrawTransactionDetail, error)
}

type LedgerStore interface {
	InsertEntry(ctx context.Context, tx store.Execer, entry store.BalanceEntryInput) error
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
}

// WalletService owns the deposit/withdraw workflow. It is the only writer
// of user balances outside registration, and every settlement applies the
// balance delta, the status transition, the ledger entry and the audit row
// inside one serializable database transaction.
type WalletService struct {
	txRunner        db.TxRunner
	users           UserStore
	depositMethods  DepositMethodStore
	withdrawMethods WithdrawMethodStore
	deposits        DepositTxStore
	withdraws       WithdrawTxStore
	ledger          LedgerStore
	audit           AuditStore
	hub             BalanceHub
}

func NewWalletService(txRunner db.TxRunner, users UserStore, depositMethods DepositMethodStore, withdrawMethods WithdrawMethodStore, deposits DepositTxStore, withdraws WithdrawTxStore, ledger LedgerStore, audit AuditStore, hub BalanceHub) *WalletService {
	return &WalletService{
		txRunner:        txRunner,
		users:           users,
		depositMethods:  depositMethods,
		withdrawMethods: withdrawMethods,
		deposits:        deposits,
		withdraws:       withdraws,
		ledger:          ledger,
		audit:           audit,
		hub:             hub,
	}
}

type CreateDepositRequest struct {
	UserID      string
	MethodID    string
	Reference   string
	AmountMinor int64
	UserInput   models.UserInput
}

func (s *WalletService) CreateDeposit(ctx context.Context, req CreateDepositRequest) (store.DepositTransactionDetail, error) {
	if req.AmountMinor <= 0 {
		return store.DepositTransactionDetail{}, ErrInvalidAmount
	}
	method, err := s.depositMethods.GetByID(ctx, req.MethodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.DepositTransactionDetail{}, ErrMethodNotFound
		}
		return store.DepositTransactionDetail{}, err
	}
	if method.Status != models.MethodActive {
		return store.DepositTransactionDetail{}, ErrMethodInactive
	}
	if err := validator.ValidateUserInput(method.Fields, req.UserInput); err != nil {
		return store.DepositTransactionDetail{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	exists, err := s.deposits.ReferenceExists(ctx, req.Reference)
	if err != nil {
		return store.DepositTransactionDetail{}, err
	}
	if exists {
		return store.DepositTransactionDetail{}, ErrDuplicateReference
	}

	transactionID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.deposits.Create(ctx, tx, store.DepositTransactionInput{
			ID:        transactionID,
			UserID:    req.UserID,
			MethodID:  req.MethodID,
			Amount:    req.AmountMinor,
			Reference: req.Reference,
			UserInput: req.UserInput,
		}); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"method_id": req.MethodID,
			"reference": req.Reference,
			"amount":    money.FormatMinor(req.AmountMinor),
		})
		return s.audit.Log(ctx, tx, req.UserID, "deposit_requested", "deposit_transaction", transactionID, string(data))
	})
	if err != nil {
		// racing submission of the same reference loses on the unique index
		if db.IsUniqueViolation(err, "") {
			return store.DepositTransactionDetail{}, ErrDuplicateReference
		}
		return store.DepositTransactionDetail{}, err
	}
	return s.deposits.GetDetail(ctx, transactionID)
}

type CreateWithdrawRequest struct {
	UserID      string
	MethodID    string
	AmountMinor int64
	UserInput   models.UserInput
}

func (s *WalletService) CreateWithdraw(ctx context.Context, req CreateWithdrawRequest) (store.WithdrawTransactionDetail, error) {
	if req.AmountMinor <= 0 {
		return store.WithdrawTransactionDetail{}, ErrInvalidAmount
	}
	method, err := s.withdrawMethods.GetByID(ctx, req.MethodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.WithdrawTransactionDetail{}, ErrMethodNotFound
		}
		return store.WithdrawTransactionDetail{}, err
	}
	if method.Status != models.MethodActive {
		return store.WithdrawTransactionDetail{}, ErrMethodInactive
	}
	if req.AmountMinor < method.MinWithdrawal {
		return store.WithdrawTransactionDetail{}, fmt.Errorf("%w: minimum is %s", ErrBelowMinimum, money.FormatMinor(method.MinWithdrawal))
	}
	if method.MaxWithdrawal > 0 && req.AmountMinor > method.MaxWithdrawal {
		return store.WithdrawTransactionDetail{}, fmt.Errorf("%w: maximum is %s", ErrAboveMaximum, money.FormatMinor(method.MaxWithdrawal))
	}
	if err := validator.ValidateUserInput(method.Fields, req.UserInput); err != nil {
		return store.WithdrawTransactionDetail{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	fee := withdrawalFee(req.AmountMinor, method)
	netAmount := req.AmountMinor - fee
	if netAmount <= 0 {
		return store.WithdrawTransactionDetail{}, ErrFeeExceedsAmount
	}

	// Advisory only: funds are not held between creation and resolution,
	// so approval re-checks sufficiency under a row lock.
	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return store.WithdrawTransactionDetail{}, err
	}
	if user.Balance < req.AmountMinor {
		return store.WithdrawTransactionDetail{}, ErrInsufficientFunds
	}

	transactionID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.withdraws.Create(ctx, tx, store.WithdrawTransactionInput{
			ID:        transactionID,
			UserID:    req.UserID,
			MethodID:  req.MethodID,
			Amount:    req.AmountMinor,
			Fee:       fee,
			NetAmount: netAmount,
			UserInput: req.UserInput,
		}); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"method_id":  req.MethodID,
			"amount":     money.FormatMinor(req.AmountMinor),
			"fee":        money.FormatMinor(fee),
			"net_amount": money.FormatMinor(netAmount),
		})
		return s.audit.Log(ctx, tx, req.UserID, "withdraw_requested", "withdraw_transaction", transactionID, string(data))
	})
	if err != nil {
		return store.WithdrawTransactionDetail{}, err
	}
	return s.withdraws.GetDetail(ctx, transactionID)
}

type ResolveRequest struct {
	TransactionID string
	AdminID       string
	Status        string
	AdminNote     *string
}

func (s *WalletService) ResolveDeposit(ctx context.Context, req ResolveRequest) (store.DepositTransactionDetail, error) {
	if !models.TerminalStatus(req.Status) {
		return store.DepositTransactionDetail{}, ErrInvalidStatus
	}
	var ownerID string
	var balanceAfter int64
	settled := false
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		record, err := s.deposits.GetForUpdate(ctx, tx, req.TransactionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTransactionNotFound
			}
			return err
		}
		if record.Status != models.StatusPending {
			return fmt.Errorf("%w: already %s", ErrAlreadyResolved, record.Status)
		}
		rows, err := s.deposits.Resolve(ctx, tx, req.TransactionID, req.Status, req.AdminNote, req.AdminID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("%w: already resolved", ErrAlreadyResolved)
		}
		ownerID = record.UserID
		if req.Status == models.StatusApproved {
			if _, err := s.users.GetForUpdate(ctx, tx, record.UserID); err != nil {
				return err
			}
			balanceAfter, err = s.users.AdjustBalance(ctx, tx, record.UserID, record.Amount)
			if err != nil {
				return err
			}
			if err := s.ledger.InsertEntry(ctx, tx, store.BalanceEntryInput{
				ID:            uuid.NewString(),
				UserID:        record.UserID,
				Amount:        record.Amount,
				EntryType:     "deposit",
				TransactionID: record.ID,
				Description:   "Deposit approved",
			}); err != nil {
				return err
			}
			settled = true
		}
		data, _ := json.Marshal(map[string]string{
			"status": req.Status,
			"amount": money.FormatMinor(record.Amount),
		})
		return s.audit.Log(ctx, tx, req.AdminID, "deposit_"+req.Status, "deposit_transaction", record.ID, string(data))
	})
	if err != nil {
		return store.DepositTransactionDetail{}, err
	}
	if settled {
		s.hub.BroadcastBalance(ownerID, websocket.BalanceUpdate{Balance: money.FormatMinor(balanceAfter)})
	}
	return s.deposits.GetDetail(ctx, req.TransactionID)
}

func (s *WalletService) ResolveWithdraw(ctx context.Context, req ResolveRequest) (store.WithdrawTransactionDetail, error) {
	if !models.TerminalStatus(req.Status) {
		return store.WithdrawTransactionDetail{}, ErrInvalidStatus
	}
	var ownerID string
	var balanceAfter int64
	settled := false
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		record, err := s.withdraws.GetForUpdate(ctx, tx, req.TransactionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTransactionNotFound
			}
			return err
		}
		if record.Status != models.StatusPending {
			return fmt.Errorf("%w: already %s", ErrAlreadyResolved, record.Status)
		}
		ownerID = record.UserID
		if req.Status == models.StatusApproved {
			user, err := s.users.GetForUpdate(ctx, tx, record.UserID)
			if err != nil {
				return err
			}
			// balance may have been spent since creation
			if user.Balance < record.Amount {
				return ErrInsufficientFunds
			}
		}
		rows, err := s.withdraws.Resolve(ctx, tx, req.TransactionID, req.Status, req.AdminNote, req.AdminID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("%w: already resolved", ErrAlreadyResolved)
		}
		if req.Status == models.StatusApproved {
			// the full amount is debited; the fee stays with the house
			balanceAfter, err = s.users.AdjustBalance(ctx, tx, record.UserID, -record.Amount)
			if err != nil {
				return err
			}
			if err := s.ledger.InsertEntry(ctx, tx, store.BalanceEntryInput{
				ID:            uuid.NewString(),
				UserID:        record.UserID,
				Amount:        -record.Amount,
				EntryType:     "withdraw",
				TransactionID: record.ID,
				Description:   "Withdrawal approved",
			}); err != nil {
				return err
			}
			settled = true
		}
		data, _ := json.Marshal(map[string]string{
			"status":     req.Status,
			"amount":     money.FormatMinor(record.Amount),
			"net_amount": money.FormatMinor(record.NetAmount),
		})
		return s.audit.Log(ctx, tx, req.AdminID, "withdraw_"+req.Status, "withdraw_transaction", record.ID, string(data))
	})
	if err != nil {
		return store.WithdrawTransactionDetail{}, err
	}
	if settled {
		s.hub.BroadcastBalance(ownerID, websocket.BalanceUpdate{Balance: money.FormatMinor(balanceAfter)})
	}
	return s.withdraws.GetDetail(ctx, req.TransactionID)
}

// withdrawalFee applies the method's fee rule. Fixed fees are stored in
// minor units; percentage fees are percent values of the amount.
func withdrawalFee(amountMinor int64, method store.WithdrawMethod) int64 {
	if method.FeeType == models.FeePercentage {
		return money.PercentOf(amountMinor, method.FeeValue)
	}
	return method.FeeValue.RoundBank(0).IntPart()
}
