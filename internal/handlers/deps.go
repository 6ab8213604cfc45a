package handlers

import (
	"context"

	"github.com/bdeshop/khelaghor-sub001/internal/services"
	"github.com/bdeshop/khelaghor-sub001/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, phone, passwordHash string) error
	GetByUsername(ctx context.Context, username string) (store.User, error)
	GetByID(ctx context.Context, userID string) (store.User, error)
	ListAll(ctx context.Context, limit, offset int) ([]store.User, error)
}

type AdminStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, passwordHash string, isSuper bool, createdBy *string) error
	GetByUsername(ctx context.Context, username string) (store.Admin, error)
	IsAdmin(ctx context.Context, adminID string) (bool, bool, error)
	List(ctx context.Context) ([]store.Admin, error)
}

type DepositMethodStore interface {
	Create(ctx context.Context, tx store.Execer, input store.DepositMethodInput) error
	Update(ctx context.Context, tx store.Execer, input store.DepositMethodInput) (int64, error)
	Delete(ctx context.Context, tx store.Execer, methodID string) (int64, error)
	GetByID(ctx context.Context, methodID string) (store.DepositMethod, error)
	ListAll(ctx context.Context) ([]store.DepositMethod, error)
	ListActive(ctx context.Context) ([]store.DepositMethod, error)
}

type WithdrawMethodStore interface {
	Create(ctx context.Context, tx store.Execer, input store.WithdrawMethodInput) error
	Update(ctx context.Context, tx store.Execer, input store.WithdrawMethodInput) (int64, error)
	Delete(ctx context.Context, tx store.Execer, methodID string) (int64, error)
	GetByID(ctx context.Context, methodID string) (store.WithdrawMethod, error)
	ListAll(ctx context.Context) ([]store.WithdrawMethod, error)
	ListActive(ctx context.Context) ([]store.WithdrawMethod, error)
}

type DepositTxStore interface {
	ListByUser(ctx context.Context, userID, status string, limit, offset int) ([]store.DepositTransactionDetail, error)
	ListAll(ctx context.Context, filter store.TransactionFilter) ([]store.DepositTransactionDetail, error)
	Statistics(ctx context.Context) (store.TransactionStats, error)
}

type WithdrawTxStore interface {
	ListByUser(ctx context.Context, userID, status string, limit, offset int) ([]store.WithdrawTransactionDetail, error)
	ListAll(ctx context.Context, filter store.TransactionFilter) ([]store.WithdrawTransactionDetail, error)
	Statistics(ctx context.Context) (store.TransactionStats, error)
}

type LedgerStore interface {
	SumByUser(ctx context.Context, userID string) (int64, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]store.BalanceEntry, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	List(ctx context.Context, limit, offset int) ([]store.AuditLog, error)
}

type WalletService interface {
	CreateDeposit(ctx context.Context, req services.CreateDepositRequest) (store.DepositTransactionDetail, error)
	CreateWithdraw(ctx context.Context, req services.CreateWithdrawRequest) (store.WithdrawTransactionDetail, error)
	ResolveDeposit(ctx context.Context, req services.ResolveRequest) (store.DepositTransactionDetail, error)
	ResolveWithdraw(ctx context.Context, req services.ResolveRequest) (store.WithdrawTransactionDetail, error)
}
