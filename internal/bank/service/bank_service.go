package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/minibank-ledger/internal/domain/account"
	"github.com/minibank-ledger/internal/domain/customer"
	"github.com/minibank-ledger/internal/domain/ledger"
	"github.com/minibank-ledger/internal/domain/shared"
	"github.com/minibank-ledger/internal/platform/correlation"
	"github.com/shopspring/decimal"
)

// ErrSameAccount is returned when a transfer names the same account twice
var ErrSameAccount = errors.New("cannot transfer to the same account")

// BankServiceImpl implements the BankService interface
type BankServiceImpl struct {
	customers CustomerRegistry
	accounts  account.Repository
	txLog     TransactionLog
	sweeper   InterestSweeper
	policy    account.OpeningPolicy
	logger    *slog.Logger
}

// NewBankService creates a new bank service
func NewBankService(
	customers CustomerRegistry,
	accounts account.Repository,
	txLog TransactionLog,
	sweeper InterestSweeper,
	policy account.OpeningPolicy,
	logger *slog.Logger,
) *BankServiceImpl {
	return &BankServiceImpl{
		customers: customers,
		accounts:  accounts,
		txLog:     txLog,
		sweeper:   sweeper,
		policy:    policy,
		logger:    logger,
	}
}

func (s *BankServiceImpl) loggerFor(ctx context.Context) *slog.Logger {
	if id := correlation.FromContext(ctx); id != "" {
		return s.logger.With(correlation.Key, id)
	}
	return s.logger
}

// CreateCustomer registers a customer and returns the generated id
func (s *BankServiceImpl) CreateCustomer(ctx context.Context, name, email, phone string) string {
	c := s.customers.Create(name, email, phone)
	s.loggerFor(ctx).Info("Customer created", "customer_id", c.ID)
	return c.ID
}

// OpenAccount opens an account of the given variant for an existing customer
func (s *BankServiceImpl) OpenAccount(ctx context.Context, customerID string, variant account.Variant) (string, error) {
	logger := s.loggerFor(ctx)

	if _, err := s.customers.Lookup(customerID); err != nil {
		s.logRejection(logger, "open_account", err, "customer_id", customerID)
		return "", err
	}

	acc, err := s.policy.Open(customerID, variant)
	if err != nil {
		s.logRejection(logger, "open_account", err, "customer_id", customerID, "variant", int(variant))
		return "", err
	}

	if err := s.accounts.Create(acc); err != nil {
		s.logRejection(logger, "open_account", err, "customer_id", customerID, "account_number", acc.Number())
		return "", err
	}

	logger.Info("Account opened",
		"customer_id", customerID,
		"account_number", acc.Number(),
		"variant", variant.String(),
		"balance", acc.Balance().String(),
	)
	return acc.Number(), nil
}

// Deposit credits amount to an account and records a Deposit transaction
func (s *BankServiceImpl) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) error {
	logger := s.loggerFor(ctx)

	acc, err := s.accounts.GetByNumber(accountNumber)
	if err != nil {
		s.logRejection(logger, "deposit", err, "account_number", accountNumber)
		return err
	}
	if !amount.IsPositive() {
		s.logRejection(logger, "deposit", account.ErrInvalidAmount, "account_number", accountNumber, "amount", amount.String())
		return account.ErrInvalidAmount
	}

	acc.Lock()
	defer acc.Unlock()

	if err := acc.Deposit(amount); err != nil {
		s.logRejection(logger, "deposit", err, "account_number", accountNumber, "amount", amount.String())
		return fmt.Errorf("deposit to %s: %w", accountNumber, err)
	}
	tx := s.txLog.Record(shared.TransactionTypeDeposit, amount, accountNumber)

	logger.Info("Deposit recorded",
		"transaction_id", tx.ID,
		"account_number", accountNumber,
		"amount", amount.String(),
		"new_bal", acc.Balance().String(),
	)
	return nil
}

// Withdraw debits amount from an account under its variant policy and
// records a Withdraw transaction
func (s *BankServiceImpl) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) error {
	logger := s.loggerFor(ctx)

	acc, err := s.accounts.GetByNumber(accountNumber)
	if err != nil {
		s.logRejection(logger, "withdraw", err, "account_number", accountNumber)
		return err
	}
	if !amount.IsPositive() {
		s.logRejection(logger, "withdraw", account.ErrInvalidAmount, "account_number", accountNumber, "amount", amount.String())
		return account.ErrInvalidAmount
	}

	acc.Lock()
	defer acc.Unlock()

	if err := acc.Withdraw(amount); err != nil {
		s.logRejection(logger, "withdraw", err, "account_number", accountNumber, "amount", amount.String(), "bal", acc.Balance().String())
		return fmt.Errorf("withdraw from %s: %w", accountNumber, err)
	}
	tx := s.txLog.Record(shared.TransactionTypeWithdraw, amount, accountNumber)

	logger.Info("Withdrawal recorded",
		"transaction_id", tx.ID,
		"account_number", accountNumber,
		"amount", amount.String(),
		"new_bal", acc.Balance().String(),
	)
	return nil
}

// Transfer moves amount between two accounts as one unit. The source must
// keep a strictly positive balance; otherwise neither account is touched and
// nothing is recorded. On success a Withdraw leg and a Deposit leg sharing
// one transfer id are recorded, in that order.
func (s *BankServiceImpl) Transfer(ctx context.Context, fromAccountNumber, toAccountNumber string, amount decimal.Decimal) error {
	logger := s.loggerFor(ctx).With("from", fromAccountNumber, "to", toAccountNumber, "amount", amount.String())

	from, err := s.accounts.GetByNumber(fromAccountNumber)
	if err != nil {
		s.logRejection(logger, "transfer", err)
		return err
	}
	to, err := s.accounts.GetByNumber(toAccountNumber)
	if err != nil {
		s.logRejection(logger, "transfer", err)
		return err
	}
	if fromAccountNumber == toAccountNumber {
		s.logRejection(logger, "transfer", ErrSameAccount)
		return ErrSameAccount
	}
	if !amount.IsPositive() {
		s.logRejection(logger, "transfer", account.ErrInvalidAmount)
		return account.ErrInvalidAmount
	}

	unlock := lockPair(from, to)
	defer unlock()

	if !from.Balance().Sub(amount).IsPositive() {
		s.logRejection(logger, "transfer", account.ErrInsufficientFunds, "bal", from.Balance().String())
		return fmt.Errorf("transfer from %s: %w", fromAccountNumber, account.ErrInsufficientFunds)
	}

	if err := from.Withdraw(amount); err != nil {
		s.logRejection(logger, "transfer", err, "bal", from.Balance().String())
		return fmt.Errorf("transfer from %s: %w", fromAccountNumber, err)
	}
	if err := to.Deposit(amount); err != nil {
		// Restore the source so the transfer stays all-or-nothing
		if restoreErr := from.Deposit(amount); restoreErr != nil {
			logger.Error("Failed to restore source after rejected credit", "error", restoreErr)
		}
		s.logRejection(logger, "transfer", err)
		return fmt.Errorf("transfer to %s: %w", toAccountNumber, err)
	}

	transferID := uuid.New()
	out := s.txLog.RecordTransferLeg(shared.TransactionTypeWithdraw, amount, fromAccountNumber, transferID)
	in := s.txLog.RecordTransferLeg(shared.TransactionTypeDeposit, amount, toAccountNumber, transferID)

	logger.Info("Transfer recorded",
		"transfer_id", transferID.String(),
		"withdraw_tx", out.ID,
		"deposit_tx", in.ID,
		"from_bal", from.Balance().String(),
		"to_bal", to.Balance().String(),
	)
	return nil
}

// ApplyInterestToAllSavings credits annual interest to every interest-bearing
// account and returns how many were credited. Other variants are untouched.
func (s *BankServiceImpl) ApplyInterestToAllSavings(ctx context.Context) (int, error) {
	logger := s.loggerFor(ctx)

	var savings []account.InterestBearing
	for _, acc := range s.accounts.List() {
		if ib, ok := acc.(account.InterestBearing); ok {
			savings = append(savings, ib)
		}
	}

	credited, err := s.sweeper.Sweep(ctx, savings)
	if err != nil {
		logger.Error("Interest sweep incomplete", "credited", credited, "eligible", len(savings), "error", err)
		return credited, fmt.Errorf("applying interest: %w", err)
	}

	logger.Info("Interest applied", "credited", credited)
	return credited, nil
}

// FindCustomer resolves a customer by id
func (s *BankServiceImpl) FindCustomer(customerID string) (customer.Customer, error) {
	return s.customers.Lookup(customerID)
}

// FindAccount resolves an account by number and returns its current state
func (s *BankServiceImpl) FindAccount(accountNumber string) (account.Snapshot, error) {
	acc, err := s.accounts.GetByNumber(accountNumber)
	if err != nil {
		return account.Snapshot{}, err
	}
	return snapshotOf(acc), nil
}

// ListCustomers returns every customer in registration order
func (s *BankServiceImpl) ListCustomers() []customer.Customer {
	return s.customers.List()
}

// ListAccounts returns a snapshot of every account in opening order
func (s *BankServiceImpl) ListAccounts() []account.Snapshot {
	return snapshotsOf(s.accounts.List())
}

// AccountsOf returns snapshots of the accounts held by a customer
func (s *BankServiceImpl) AccountsOf(customerID string) ([]account.Snapshot, error) {
	if _, err := s.customers.Lookup(customerID); err != nil {
		return nil, err
	}
	return snapshotsOf(s.accounts.ListByOwner(customerID)), nil
}

// ListTransactions returns every recorded transaction in order
func (s *BankServiceImpl) ListTransactions() []ledger.Transaction {
	return s.txLog.List()
}

// AccountTransactions returns the transactions recorded against one account
func (s *BankServiceImpl) AccountTransactions(accountNumber string) ([]ledger.Transaction, error) {
	if _, err := s.accounts.GetByNumber(accountNumber); err != nil {
		return nil, err
	}
	return s.txLog.ByAccount(accountNumber), nil
}

// logRejection logs a refused operation with its failure category
func (s *BankServiceImpl) logRejection(logger *slog.Logger, op string, err error, args ...any) {
	reason := failureReasonFor(err)
	attrs := append([]any{"operation", op, "reason", string(reason), "error", err}, args...)
	if reason == shared.FailureReasonUnknownError {
		logger.Error("Operation failed", attrs...)
		return
	}
	logger.Warn("Operation rejected", attrs...)
}

func failureReasonFor(err error) shared.FailureReason {
	switch {
	case errors.Is(err, account.ErrAccountNotFound{}):
		return shared.FailureReasonAccountNotFound
	case errors.Is(err, customer.ErrCustomerNotFound{}):
		return shared.FailureReasonCustomerNotFound
	case errors.Is(err, account.ErrInvalidAmount):
		return shared.FailureReasonInvalidAmount
	case errors.Is(err, account.ErrInsufficientFunds):
		return shared.FailureReasonInsufficientFunds
	case errors.Is(err, account.ErrBelowMinimumBalance):
		return shared.FailureReasonBelowMinimumBalance
	case errors.Is(err, account.ErrDuplicateAccount{}):
		return shared.FailureReasonDuplicateAccount
	case errors.Is(err, ErrSameAccount):
		return shared.FailureReasonSameAccount
	case errors.Is(err, account.ErrUnknownVariant):
		return shared.FailureReasonUnknownVariant
	default:
		return shared.FailureReasonUnknownError
	}
}

// lockPair locks two distinct accounts in account-number order and returns
// the matching unlock.
func lockPair(a, b account.Account) func() {
	first, second := a, b
	if second.Number() < first.Number() {
		first, second = second, first
	}
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}

func snapshotOf(acc account.Account) account.Snapshot {
	acc.Lock()
	defer acc.Unlock()
	return acc.Snapshot()
}

func snapshotsOf(accounts []account.Account) []account.Snapshot {
	out := make([]account.Snapshot, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, snapshotOf(acc))
	}
	return out
}

var _ BankService = (*BankServiceImpl)(nil)
