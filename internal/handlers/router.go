package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/bdeshop/khelaghor-sub001/internal/config"
	"github.com/bdeshop/khelaghor-sub001/internal/db"
	"github.com/bdeshop/khelaghor-sub001/internal/logger"
	"github.com/bdeshop/khelaghor-sub001/internal/middleware"
	"github.com/bdeshop/khelaghor-sub001/internal/store"
	"github.com/bdeshop/khelaghor-sub001/internal/websocket"
)

type Handler struct {
	reconcileDB     store.Selecter
	txRunner        db.TxRunner
	cfg             config.Config
	log             zerolog.Logger
	users           UserStore
	admins          AdminStore
	depositMethods  DepositMethodStore
	withdrawMethods WithdrawMethodStore
	deposits        DepositTxStore
	withdraws       WithdrawTxStore
	ledger          LedgerStore
	audit           AuditStore
	wallet          WalletService
	hub             *websocket.Hub
}

func New(reconcileDB store.Selecter, txRunner db.TxRunner, cfg config.Config, log zerolog.Logger, users UserStore, admins AdminStore, depositMethods DepositMethodStore, withdrawMethods WithdrawMethodStore, deposits DepositTxStore, withdraws WithdrawTxStore, ledger LedgerStore, audit AuditStore, wallet WalletService, hub *websocket.Hub) *Handler {
	return &Handler{
		reconcileDB:     reconcileDB,
		txRunner:        txRunner,
		cfg:             cfg,
		log:             log,
		users:           users,
		admins:          admins,
		depositMethods:  depositMethods,
		withdrawMethods: withdrawMethods,
		deposits:        deposits,
		withdraws:       withdraws,
		ledger:          ledger,
		audit:           audit,
		wallet:          wallet,
		hub:             hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(logger.RequestLogger(h.log))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})
	router.Post("/admin/auth/login", h.AdminLogin)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/balance-history", h.BalanceHistory)

	// active methods only; the admin registry exposes the full set
	router.Get("/deposit-methods", h.ListActiveDepositMethods)
	router.Get("/withdraw-methods", h.ListActiveWithdrawMethods)

	router.Route("/deposit-transactions", func(r chi.Router) {
		r.With(middleware.Auth(h.cfg.JWTSecret)).Post("/", h.CreateDeposit)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/my-transactions", h.MyDeposits)
		r.Route("/admin", func(ar chi.Router) {
			ar.Use(middleware.Auth(h.cfg.JWTSecret))
			ar.Use(middleware.RequireAdmin(h.admins))
			ar.Put("/{id}", h.ResolveDeposit)
			ar.Get("/all", h.AdminListDeposits)
			ar.Get("/statistics", h.DepositStatistics)
		})
	})

	router.Route("/withdraw-transactions", func(r chi.Router) {
		r.With(middleware.Auth(h.cfg.JWTSecret)).Post("/", h.CreateWithdraw)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/my-transactions", h.MyWithdraws)
		r.Route("/admin", func(ar chi.Router) {
			ar.Use(middleware.Auth(h.cfg.JWTSecret))
			ar.Use(middleware.RequireAdmin(h.admins))
			ar.Put("/{id}", h.ResolveWithdraw)
			ar.Get("/all", h.AdminListWithdraws)
			ar.Get("/statistics", h.WithdrawStatistics)
		})
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Use(middleware.RequireAdmin(h.admins))
		r.Route("/deposit-methods", func(mr chi.Router) {
			mr.Get("/", h.AdminListDepositMethods)
			mr.Post("/", h.CreateDepositMethod)
			mr.Put("/{id}", h.UpdateDepositMethod)
			mr.Delete("/{id}", h.DeleteDepositMethod)
		})
		r.Route("/withdraw-methods", func(mr chi.Router) {
			mr.Get("/", h.AdminListWithdrawMethods)
			mr.Post("/", h.CreateWithdrawMethod)
			mr.Put("/{id}", h.UpdateWithdrawMethod)
			mr.Delete("/{id}", h.DeleteWithdrawMethod)
		})
		r.Get("/users", h.AdminListUsers)
		r.Get("/audit", h.ListAuditLogs)
		r.Get("/reconcile", h.Reconcile)
		r.With(middleware.RequireSuperAdmin(h.admins)).Post("/admins", h.CreateAdmin)
		r.With(middleware.RequireSuperAdmin(h.admins)).Get("/admins", h.ListAdmins)
	})

	router.Get("/ws/balances", h.WSBalances)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
