package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/minibank-ledger/internal/domain/account"
	"github.com/minibank-ledger/internal/domain/customer"
	"github.com/minibank-ledger/internal/domain/ledger"
	"github.com/minibank-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BankService is the sole entry point drivers use to operate the ledger.
type BankService interface {
	CreateCustomer(ctx context.Context, name, email, phone string) string
	OpenAccount(ctx context.Context, customerID string, variant account.Variant) (string, error)
	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) error
	Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) error
	Transfer(ctx context.Context, fromAccountNumber, toAccountNumber string, amount decimal.Decimal) error
	ApplyInterestToAllSavings(ctx context.Context) (int, error)

	FindCustomer(customerID string) (customer.Customer, error)
	FindAccount(accountNumber string) (account.Snapshot, error)
	ListCustomers() []customer.Customer
	ListAccounts() []account.Snapshot
	AccountsOf(customerID string) ([]account.Snapshot, error)
	ListTransactions() []ledger.Transaction
	AccountTransactions(accountNumber string) ([]ledger.Transaction, error)
}

// CustomerRegistry creates and resolves customers
type CustomerRegistry interface {
	Create(name, email, phone string) customer.Customer
	Lookup(id string) (customer.Customer, error)
	List() []customer.Customer
}

// TransactionLog records completed ledger legs
type TransactionLog interface {
	Record(txType shared.TransactionType, amount decimal.Decimal, accountNumber string) ledger.Transaction
	RecordTransferLeg(txType shared.TransactionType, amount decimal.Decimal, accountNumber string, transferID uuid.UUID) ledger.Transaction
	List() []ledger.Transaction
	ByAccount(accountNumber string) []ledger.Transaction
}

// InterestSweeper credits annual interest to a set of accounts and reports
// how many were credited
type InterestSweeper interface {
	Sweep(ctx context.Context, accounts []account.InterestBearing) (int, error)
}
