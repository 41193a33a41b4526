package account

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientFunds   = errors.New("insufficient funds for withdrawal")
	ErrBelowMinimumBalance = errors.New("withdrawal would leave balance below the minimum")
	ErrUnknownVariant      = errors.New("unknown account variant")
)

// Variant is the closed set of account kinds
type Variant int

const (
	VariantMinBalance Variant = iota + 1
	VariantOverdraft
)

func (v Variant) String() string {
	switch v {
	case VariantMinBalance:
		return "MinBalance"
	case VariantOverdraft:
		return "Overdraft"
	default:
		return "Unknown"
	}
}

// Tag is appended to the owner id to form the account number
func (v Variant) Tag() string {
	switch v {
	case VariantMinBalance:
		return "_SA_"
	case VariantOverdraft:
		return "_CA_"
	default:
		return ""
	}
}

// MarshalText renders the variant by name
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Valid reports whether v is one of the known variants
func (v Variant) Valid() bool {
	return v == VariantMinBalance || v == VariantOverdraft
}

// Account is the capability surface shared by every variant.
//
// Balance-reading and mutating methods do not lock; callers hold the
// account's lock (it implements sync.Locker) around any sequence that must be
// observed atomically.
type Account interface {
	sync.Locker
	Number() string
	OwnerID() string
	Variant() Variant
	Balance() decimal.Decimal
	Deposit(amount decimal.Decimal) error
	Withdraw(amount decimal.Decimal) error
	Snapshot() Snapshot
}

// InterestBearing is implemented by variants that accrue annual interest
type InterestBearing interface {
	Account
	// ApplyAnnualInterest credits one year of interest and returns the amount credited
	ApplyAnnualInterest() decimal.Decimal
}

// Snapshot is a read-only copy of an account's state. Fields that do not
// apply to the variant are zero.
type Snapshot struct {
	Number              string          `json:"account_number"`
	OwnerID             string          `json:"owner_id"`
	Variant             Variant         `json:"variant"`
	Balance             decimal.Decimal `json:"balance"`
	InterestRatePercent decimal.Decimal `json:"interest_rate_percent"`
	Floor               decimal.Decimal `json:"floor"`
	OverdraftLimit      decimal.Decimal `json:"overdraft_limit"`
}

// base holds the fields and behaviour common to all variants
type base struct {
	mu      sync.Mutex
	number  string
	ownerID string
	balance decimal.Decimal
}

func (b *base) Lock()   { b.mu.Lock() }
func (b *base) Unlock() { b.mu.Unlock() }

func (b *base) Number() string           { return b.number }
func (b *base) OwnerID() string          { return b.ownerID }
func (b *base) Balance() decimal.Decimal { return b.balance }

// Deposit adds the specified amount to the account balance
func (b *base) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	b.balance = b.balance.Add(amount)
	return nil
}

func (b *base) snapshot(v Variant) Snapshot {
	return Snapshot{
		Number:  b.number,
		OwnerID: b.ownerID,
		Variant: v,
		Balance: b.balance,
	}
}
