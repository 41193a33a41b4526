// Package memory provides process-local implementations of the domain
// repositories. State lives only as long as the process.
package memory

import (
	"log/slog"
	"sync"

	"github.com/minibank-ledger/internal/domain/account"
)

// AccountRepository implements the account.Repository interface in memory.
// Accounts are kept in opening order and looked up with a linear scan.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts []account.Account
	logger   *slog.Logger
}

// NewAccountRepository creates an empty in-memory account repository
func NewAccountRepository(logger *slog.Logger) account.Repository {
	return &AccountRepository{
		logger: logger,
	}
}

// Create stores a new account. Account numbers are unique for the lifetime
// of the repository.
func (r *AccountRepository) Create(acc account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.find(acc.Number()); ok {
		r.logger.Warn("Duplicate account number", "account_number", acc.Number())
		return account.ErrDuplicateAccount{Number: acc.Number()}
	}

	r.accounts = append(r.accounts, acc)
	r.logger.Debug("Account stored", "account_number", acc.Number(), "owner_id", acc.OwnerID(), "variant", acc.Variant().String())
	return nil
}

// GetByNumber retrieves an account by its number
func (r *AccountRepository) GetByNumber(number string) (account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.find(number)
	if !ok {
		return nil, account.ErrAccountNotFound{Number: number}
	}
	return acc, nil
}

// List returns every account in opening order
func (r *AccountRepository) List() []account.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]account.Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// ListByOwner returns the accounts held by ownerID in opening order
func (r *AccountRepository) ListByOwner(ownerID string) []account.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []account.Account
	for _, acc := range r.accounts {
		if acc.OwnerID() == ownerID {
			out = append(out, acc)
		}
	}
	return out
}

func (r *AccountRepository) find(number string) (account.Account, bool) {
	for _, acc := range r.accounts {
		if acc.Number() == number {
			return acc, true
		}
	}
	return nil, false
}
