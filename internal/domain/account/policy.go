package account

import (
	"github.com/shopspring/decimal"
)

// OpeningPolicy fixes the parameters of newly opened accounts
type OpeningPolicy struct {
	SavingsOpeningBalance decimal.Decimal
	SavingsInterestRate   decimal.Decimal
	SavingsMinimumBalance decimal.Decimal
	CurrentOpeningBalance decimal.Decimal
	CurrentOverdraftLimit decimal.Decimal
}

// DefaultOpeningPolicy returns the standard terms: savings open at 2000 with
// 3% interest and a 500 floor, current accounts at 5000 with a 1000 overdraft.
func DefaultOpeningPolicy() OpeningPolicy {
	return OpeningPolicy{
		SavingsOpeningBalance: decimal.NewFromInt(2000),
		SavingsInterestRate:   decimal.RequireFromString("3.0"),
		SavingsMinimumBalance: decimal.NewFromInt(500),
		CurrentOpeningBalance: decimal.NewFromInt(5000),
		CurrentOverdraftLimit: decimal.NewFromInt(1000),
	}
}

// NumberFor derives the account number a customer gets for a variant
func NumberFor(ownerID string, v Variant) string {
	return ownerID + v.Tag()
}

// Open constructs a new account of the given variant for ownerID
func (p OpeningPolicy) Open(ownerID string, v Variant) (Account, error) {
	if !v.Valid() {
		return nil, ErrUnknownVariant
	}

	number := NumberFor(ownerID, v)
	if v == VariantMinBalance {
		return NewMinBalanceAccount(number, ownerID, p.SavingsOpeningBalance, p.SavingsInterestRate, p.SavingsMinimumBalance), nil
	}
	return NewOverdraftAccount(number, ownerID, p.CurrentOpeningBalance, p.CurrentOverdraftLimit), nil
}
