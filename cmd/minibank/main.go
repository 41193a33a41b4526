package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/minibank-ledger/internal/bank/service"
	"github.com/minibank-ledger/internal/config"
	"github.com/minibank-ledger/internal/console"
	"github.com/minibank-ledger/internal/data/memory"
	"github.com/minibank-ledger/internal/domain/account"
	"github.com/minibank-ledger/internal/domain/customer"
	"github.com/minibank-ledger/internal/domain/ledger"
	"github.com/minibank-ledger/internal/logger"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("minibank")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize in-memory stores
	customers := customer.NewRegistry()
	accounts := memory.NewAccountRepository(log)
	txLog := ledger.NewLog()

	// Initialize the interest sweep pool
	sweeper, err := service.NewPoolInterestSweeper(service.WorkerPoolConfig{Size: cfg.WorkerPool.Size}, log)
	if err != nil {
		log.Error("Failed to create worker pool", "error", err)
		os.Exit(1)
	}

	policy := account.OpeningPolicy{
		SavingsOpeningBalance: cfg.Bank.SavingsOpeningBalance,
		SavingsInterestRate:   cfg.Bank.SavingsInterestRate,
		SavingsMinimumBalance: cfg.Bank.SavingsMinimumBalance,
		CurrentOpeningBalance: cfg.Bank.CurrentOpeningBalance,
		CurrentOverdraftLimit: cfg.Bank.CurrentOverdraftLimit,
	}
	bank := service.NewBankService(customers, accounts, txLog, sweeper, policy, log)

	driver := console.New(bank, os.Stdin, os.Stdout, cfg.Console, log)
	log.Info("Console initialized", "env", cfg.Application.Env, "worker_pool_size", sweeper.Capacity(), "running_workers", sweeper.Running())

	// Run the console in a goroutine so a signal can interrupt a blocked read
	errChan := make(chan error, 1)
	go func() {
		errChan <- driver.Run(appCtx)
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var runErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case runErr = <-errChan:
		if runErr != nil {
			log.Error("Console stopped with error", "error", runErr)
		}
	}

	cancelAppCtx()

	// Shutdown the worker pool
	sweeper.Shutdown()

	log.Info("Shutdown completed",
		"customers", customers.Len(),
		"accounts", len(bank.ListAccounts()),
		"transactions", txLog.Len(),
	)
	if runErr != nil {
		os.Exit(1)
	}
}
