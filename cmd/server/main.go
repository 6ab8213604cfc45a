package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bdeshop/khelaghor-sub001/internal/config"
	"github.com/bdeshop/khelaghor-sub001/internal/db"
	"github.com/bdeshop/khelaghor-sub001/internal/handlers"
	"github.com/bdeshop/khelaghor-sub001/internal/logger"
	"github.com/bdeshop/khelaghor-sub001/internal/services"
	"github.com/bdeshop/khelaghor-sub001/internal/store"
	"github.com/bdeshop/khelaghor-sub001/internal/websocket"
)

func main() {
	cfg := config.Load()
	log := logger.New("wallet-api", cfg.LogPretty)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer database.Close()

	users := store.NewUserStore(database)
	admins := store.NewAdminStore(database)
	depositMethods := store.NewDepositMethodStore(database)
	withdrawMethods := store.NewWithdrawMethodStore(database)
	deposits := store.NewDepositTxStore(database)
	withdraws := store.NewWithdrawTxStore(database)
	ledger := store.NewLedgerStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()
	wallet := services.NewWalletService(txRunner, users, depositMethods, withdrawMethods, deposits, withdraws, ledger, audit, hub)

	handler := handlers.New(database, txRunner, cfg, log, users, admins, depositMethods, withdrawMethods, deposits, withdraws, ledger, audit, wallet, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("wallet API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("server stopped")
}
