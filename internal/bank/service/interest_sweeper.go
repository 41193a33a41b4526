package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/minibank-ledger/internal/domain/account"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolConfig sizes the interest sweep pool
type WorkerPoolConfig struct {
	Size int
}

// PoolInterestSweeper implements the InterestSweeper interface on an ants pool.
// Each account is credited by its own task while holding the account lock.
type PoolInterestSweeper struct {
	pool   *ants.Pool
	logger *slog.Logger
}

// NewPoolInterestSweeper creates a sweeper backed by a pool of config.Size workers
func NewPoolInterestSweeper(config WorkerPoolConfig, logger *slog.Logger) (*PoolInterestSweeper, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &PoolInterestSweeper{
		pool:   pool,
		logger: logger,
	}, nil
}

// Sweep credits annual interest to every account and waits for all tasks.
// Cancellation stops further submissions; tasks already submitted finish.
func (s *PoolInterestSweeper) Sweep(ctx context.Context, accounts []account.InterestBearing) (int, error) {
	var (
		wg       sync.WaitGroup
		credited atomic.Int64
	)

	for _, acc := range accounts {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return int(credited.Load()), err
		}

		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()

			acc.Lock()
			interest := acc.ApplyAnnualInterest()
			balance := acc.Balance()
			acc.Unlock()

			credited.Add(1)
			s.logger.Debug("Interest credited",
				"account_number", acc.Number(),
				"interest", interest.String(),
				"new_bal", balance.String(),
			)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			s.logger.Error("Failed to submit interest task to worker pool",
				"account_number", acc.Number(),
				"error", err,
			)
			return int(credited.Load()), fmt.Errorf("submitting interest task for %s: %w", acc.Number(), err)
		}
	}

	wg.Wait()
	return int(credited.Load()), nil
}

// Shutdown gracefully shuts down the worker pool.
func (s *PoolInterestSweeper) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *PoolInterestSweeper) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *PoolInterestSweeper) Capacity() int {
	return s.pool.Cap()
}

var _ InterestSweeper = (*PoolInterestSweeper)(nil)
