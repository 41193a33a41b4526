package account

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MinBalanceAccount is an interest-bearing account that must keep a floor balance
type MinBalanceAccount struct {
	base
	interestRatePercent decimal.Decimal
	floor               decimal.Decimal
}

// NewMinBalanceAccount creates a minimum-balance account
func NewMinBalanceAccount(number, ownerID string, openingBalance, interestRatePercent, floor decimal.Decimal) *MinBalanceAccount {
	return &MinBalanceAccount{
		base:                base{number: number, ownerID: ownerID, balance: openingBalance},
		interestRatePercent: interestRatePercent,
		floor:               floor,
	}
}

func (a *MinBalanceAccount) Variant() Variant { return VariantMinBalance }

func (a *MinBalanceAccount) InterestRatePercent() decimal.Decimal { return a.interestRatePercent }

func (a *MinBalanceAccount) Floor() decimal.Decimal { return a.floor }

// Withdraw subtracts amount unless it exceeds the balance or crosses the floor
func (a *MinBalanceAccount) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}
	if a.balance.Sub(amount).LessThan(a.floor) {
		return ErrBelowMinimumBalance
	}

	a.balance = a.balance.Sub(amount)
	return nil
}

// ApplyAnnualInterest credits balance * rate / 100
func (a *MinBalanceAccount) ApplyAnnualInterest() decimal.Decimal {
	interest := a.balance.Mul(a.interestRatePercent).Div(hundred)
	a.balance = a.balance.Add(interest)
	return interest
}

func (a *MinBalanceAccount) Snapshot() Snapshot {
	s := a.snapshot(VariantMinBalance)
	s.InterestRatePercent = a.interestRatePercent
	s.Floor = a.floor
	return s
}

// OverdraftAccount may go negative down to -OverdraftLimit
type OverdraftAccount struct {
	base
	overdraftLimit decimal.Decimal
}

// NewOverdraftAccount creates an overdraft-limited account
func NewOverdraftAccount(number, ownerID string, openingBalance, overdraftLimit decimal.Decimal) *OverdraftAccount {
	return &OverdraftAccount{
		base:           base{number: number, ownerID: ownerID, balance: openingBalance},
		overdraftLimit: overdraftLimit,
	}
}

func (a *OverdraftAccount) Variant() Variant { return VariantOverdraft }

func (a *OverdraftAccount) OverdraftLimit() decimal.Decimal { return a.overdraftLimit }

// Withdraw subtracts amount unless it exceeds balance plus the overdraft allowance
func (a *OverdraftAccount) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.balance.Add(a.overdraftLimit)) {
		return ErrInsufficientFunds
	}

	a.balance = a.balance.Sub(amount)
	return nil
}

func (a *OverdraftAccount) Snapshot() Snapshot {
	s := a.snapshot(VariantOverdraft)
	s.OverdraftLimit = a.overdraftLimit
	return s
}

var (
	_ InterestBearing = (*MinBalanceAccount)(nil)
	_ Account         = (*OverdraftAccount)(nil)
)
