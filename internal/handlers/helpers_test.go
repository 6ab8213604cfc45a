package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/bdeshop/khelaghor-sub001/internal/auth"
	"github.com/bdeshop/khelaghor-sub001/internal/config"
	"github.com/bdeshop/khelaghor-sub001/internal/middleware"
	"github.com/bdeshop/khelaghor-sub001/internal/services"
	"github.com/bdeshop/khelaghor-sub001/internal/store"
	"github.com/bdeshop/khelaghor-sub001/internal/websocket"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubReconcileDB struct {
	selectFn func(ctx context.Context, dest any, query string, args ...any) error
}

func (s stubReconcileDB) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	if s.selectFn == nil {
		return nil
	}
	return s.selectFn(ctx, dest, query, args...)
}

type stubUserStore struct {
	createFn        func(ctx context.Context, tx store.Execer, id, username, phone, passwordHash string) error
	getByUsernameFn func(ctx context.Context, username string) (store.User, error)
	getByIDFn       func(ctx context.Context, userID string) (store.User, error)
	listAllFn       func(ctx context.Context, limit, offset int) ([]store.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, username, phone, passwordHash string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, phone, passwordHash)
}

func (s stubUserStore) GetByUsername(ctx context.Context, username string) (store.User, error) {
	if s.getByUsernameFn == nil {
		return store.User{}, nil
	}
	return s.getByUsernameFn(ctx, username)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (store.User, error) {
	if s.getByIDFn == nil {
		return store.User{ID: userID}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) ListAll(ctx context.Context, limit, offset int) ([]store.User, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, limit, offset)
}

type stubAdminStore struct {
	createFn        func(ctx context.Context, tx store.Execer, id, username, passwordHash string, isSuper bool, createdBy *string) error
	getByUsernameFn func(ctx context.Context, username string) (store.Admin, error)
	isAdminFn       func(ctx context.Context, adminID string) (bool, bool, error)
	listFn          func(ctx context.Context) ([]store.Admin, error)
}

func (s stubAdminStore) Create(ctx context.Context, tx store.Execer, id, username, passwordHash string, isSuper bool, createdBy *string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, passwordHash, isSuper, createdBy)
}

func (s stubAdminStore) GetByUsername(ctx context.Context, username string) (store.Admin, error) {
	if s.getByUsernameFn == nil {
		return store.Admin{}, nil
	}
	return s.getByUsernameFn(ctx, username)
}

func (s stubAdminStore) IsAdmin(ctx context.Context, adminID string) (bool, bool, error) {
	if s.isAdminFn == nil {
		return true, true, nil
	}
	return s.isAdminFn(ctx, adminID)
}

func (s stubAdminStore) List(ctx context.Context) ([]store.Admin, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

type stubDepositMethodStore struct {
	createFn     func(ctx context.Context, tx store.Execer, input store.DepositMethodInput) error
	updateFn     func(ctx context.Context, tx store.Execer, input store.DepositMethodInput) (int64, error)
	deleteFn     func(ctx context.Context, tx store.Execer, methodID string) (int64, error)
	getByIDFn    func(ctx context.Context, methodID string) (store.DepositMethod, error)
	listAllFn    func(ctx context.Context) ([]store.DepositMethod, error)
	listActiveFn func(ctx context.Context) ([]store.DepositMethod, error)
}

func (s stubDepositMethodStore) Create(ctx context.Context, tx store.Execer, input store.DepositMethodInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubDepositMethodStore) Update(ctx context.Context, tx store.Execer, input store.DepositMethodInput) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, input)
}

func (s stubDepositMethodStore) Delete(ctx context.Context, tx store.Execer, methodID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, methodID)
}

func (s stubDepositMethodStore) GetByID(ctx context.Context, methodID string) (store.DepositMethod, error) {
	if s.getByIDFn == nil {
		return store.DepositMethod{ID: methodID}, nil
	}
	return s.getByIDFn(ctx, methodID)
}

func (s stubDepositMethodStore) ListAll(ctx context.Context) ([]store.DepositMethod, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx)
}

func (s stubDepositMethodStore) ListActive(ctx context.Context) ([]store.DepositMethod, error) {
	if s.listActiveFn == nil {
		return nil, nil
	}
	return s.listActiveFn(ctx)
}

type stubWithdrawMethodStore struct {
	createFn     func(ctx context.Context, tx store.Execer, input store.WithdrawMethodInput) error
	updateFn     func(ctx context.Context, tx store.Execer, input store.WithdrawMethodInput) (int64, error)
	deleteFn     func(ctx context.Context, tx store.Execer, methodID string) (int64, error)
	getByIDFn    func(ctx context.Context, methodID string) (store.WithdrawMethod, error)
	listAllFn    func(ctx context.Context) ([]store.WithdrawMethod, error)
	listActiveFn func(ctx context.Context) ([]store.WithdrawMethod, error)
}

func (s stubWithdrawMethodStore) Create(ctx context.Context, tx store.Execer, input store.WithdrawMethodInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubWithdrawMethodStore) Update(ctx context.Context, tx store.Execer, input store.WithdrawMethodInput) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, input)
}

func (s stubWithdrawMethodStore) Delete(ctx context.Context, tx store.Execer, methodID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, methodID)
}

func (s stubWithdrawMethodStore) GetByID(ctx context.Context, methodID string) (store.WithdrawMethod, error) {
	if s.getByIDFn == nil {
		return store.WithdrawMethod{ID: methodID}, nil
	}
	return s.getByIDFn(ctx, methodID)
}

func (s stubWithdrawMethodStore) ListAll(ctx context.Context) ([]store.WithdrawMethod, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx)
}

func (s stubWithdrawMethodStore) ListActive(ctx context.Context) ([]store.WithdrawMethod, error) {
	if s.listActiveFn == nil {
		return nil, nil
	}
	return s.listActiveFn(ctx)
}

type stubDepositTxStore struct {
	listByUserFn func(ctx context.Context, userID, status string, limit, offset int) ([]store.DepositTransactionDetail, error)
	listAllFn    func(ctx context.Context, filter store.TransactionFilter) ([]store.DepositTransactionDetail, error)
	statisticsFn func(ctx context.Context) (store.TransactionStats, error)
}

func (s stubDepositTxStore) ListByUser(ctx context.Context, userID, status string, limit, offset int) ([]store.DepositTransactionDetail, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID, status, limit, offset)
}

func (s stubDepositTxStore) ListAll(ctx context.Context, filter store.TransactionFilter) ([]store.DepositTransactionDetail, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, filter)
}

func (s stubDepositTxStore) Statistics(ctx context.Context) (store.TransactionStats, error) {
	if s.statisticsFn == nil {
		return store.TransactionStats{}, nil
	}
	return s.statisticsFn(ctx)
}

type stubWithdrawTxStore struct {
	listByUserFn func(ctx context.Context, userID, status string, limit, offset int) ([]store.WithdrawTransactionDetail, error)
	listAllFn    func(ctx context.Context, filter store.TransactionFilter) ([]store.WithdrawTransactionDetail, error)
	statisticsFn func(ctx context.Context) (store.TransactionStats, error)
}

func (s stubWithdrawTxStore) ListByUser(ctx context.Context, userID, status string, limit, offset int) ([]store.WithdrawTransactionDetail, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID, status, limit, offset)
}

func (s stubWithdrawTxStore) ListAll(ctx context.Context, filter store.TransactionFilter) ([]store.WithdrawTransactionDetail, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, filter)
}

func (s stubWithdrawTxStore) Statistics(ctx context.Context) (store.TransactionStats, error) {
	if s.statisticsFn == nil {
		return store.TransactionStats{}, nil
	}
	return s.statisticsFn(ctx)
}

type stubLedgerStore struct {
	sumByUserFn  func(ctx context.Context, userID string) (int64, error)
	listByUserFn func(ctx context.Context, userID string, limit, offset int) ([]store.BalanceEntry, error)
}

func (s stubLedgerStore) SumByUser(ctx context.Context, userID string) (int64, error) {
	if s.sumByUserFn == nil {
		return 0, nil
	}
	return s.sumByUserFn(ctx, userID)
}

func (s stubLedgerStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]store.BalanceEntry, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID, limit, offset)
}

type stubAuditStore struct {
	logFn  func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	listFn func(ctx context.Context, limit, offset int) ([]store.AuditLog, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]store.AuditLog, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubWalletService struct {
	createDepositFn   func(ctx context.Context, req services.CreateDepositRequest) (store.DepositTransactionDetail, error)
	createWithdrawFn  func(ctx context.Context, req services.CreateWithdrawRequest) (store.WithdrawTransactionDetail, error)
	resolveDepositFn  func(ctx context.Context, req services.ResolveRequest) (store.DepositTransactionDetail, error)
	resolveWithdrawFn func(ctx context.Context, req services.ResolveRequest) (store.WithdrawTransactionDetail, error)
}

func (s stubWalletService) CreateDeposit(ctx context.Context, req services.CreateDepositRequest) (store.DepositTransactionDetail, error) {
	if s.createDepositFn == nil {
		return store.DepositTransactionDetail{}, nil
	}
	return s.createDepositFn(ctx, req)
}

func (s stubWalletService) CreateWithdraw(ctx context.Context, req services.CreateWithdrawRequest) (store.WithdrawTransactionDetail, error) {
	if s.createWithdrawFn == nil {
		return store.WithdrawTransactionDetail{}, nil
	}
	return s.createWithdrawFn(ctx, req)
}

func (s stubWalletService) ResolveDeposit(ctx context.Context, req services.ResolveRequest) (store.DepositTransactionDetail, error) {
	if s.resolveDepositFn == nil {
		return store.DepositTransactionDetail{}, nil
	}
	return s.resolveDepositFn(ctx, req)
}

func (s stubWalletService) ResolveWithdraw(ctx context.Context, req services.ResolveRequest) (store.WithdrawTransactionDetail, error) {
	if s.resolveWithdrawFn == nil {
		return store.WithdrawTransactionDetail{}, nil
	}
	return s.resolveWithdrawFn(ctx, req)
}

func newTestHandler(reconcileDB store.Selecter, users UserStore, admins AdminStore, depositMethods DepositMethodStore, withdrawMethods WithdrawMethodStore, deposits DepositTxStore, withdraws WithdrawTxStore, audit AuditStore, wallet WalletService) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
	}
	return New(reconcileDB, fakeTxRunner{}, cfg, zerolog.Nop(), users, admins, depositMethods, withdrawMethods, deposits, withdraws, stubLedgerStore{}, audit, wallet, websocket.NewHub())
}

func serveWithAuth(t *testing.T, handler http.HandlerFunc, req *http.Request, subjectID string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateToken("secret", subjectID, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	middleware.Auth("secret")(handler).ServeHTTP(rr, req)
	return rr
}

// serveWithAuthRouter sends the request through the full route tree so the
// admin middleware chain participates.
func serveWithAuthRouter(t *testing.T, handler *Handler, req *http.Request, subjectID string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateToken("secret", subjectID, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	return rr
}
