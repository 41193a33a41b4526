package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/minibank-ledger/internal/data/memory"
	"github.com/minibank-ledger/internal/domain/account"
	"github.com/minibank-ledger/internal/domain/customer"
	"github.com/minibank-ledger/internal/domain/ledger"
	"github.com/minibank-ledger/internal/domain/shared"
	"github.com/minibank-ledger/internal/platform/correlation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testDay = time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *BankServiceImpl {
	t.Helper()
	logger := discardLogger()

	sweeper, err := NewPoolInterestSweeper(WorkerPoolConfig{Size: 2}, logger)
	require.NoError(t, err)
	t.Cleanup(sweeper.Shutdown)

	return NewBankService(
		customer.NewRegistry(),
		memory.NewAccountRepository(logger),
		ledger.NewLog(ledger.WithClock(func() time.Time { return testDay })),
		sweeper,
		account.DefaultOpeningPolicy(),
		logger,
	)
}

func mustOpen(t *testing.T, svc *BankServiceImpl, customerID string, v account.Variant) string {
	t.Helper()
	number, err := svc.OpenAccount(context.Background(), customerID, v)
	require.NoError(t, err)
	return number
}

func balanceOf(t *testing.T, svc *BankServiceImpl, number string) decimal.Decimal {
	t.Helper()
	snap, err := svc.FindAccount(number)
	require.NoError(t, err)
	return snap.Balance
}

func assertBalance(t *testing.T, svc *BankServiceImpl, number, want string) {
	t.Helper()
	got := balanceOf(t, svc, number)
	assert.True(t, d(want).Equal(got), "balance of %s = %s, want %s", number, got, want)
}

func TestBankService_CreateCustomer(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id := svc.CreateCustomer(ctx, "Alice", "a@x.com", "555")
	assert.Equal(t, "Alice0001", id)

	c, err := svc.FindCustomer(id)
	require.NoError(t, err)
	assert.Equal(t, customer.Customer{ID: "Alice0001", Name: "Alice", Email: "a@x.com", Phone: "555"}, c)

	t.Run("RepeatedNamesAreDistinct", func(t *testing.T) {
		first := svc.CreateCustomer(ctx, "Bob", "b@x.com", "1")
		second := svc.CreateCustomer(ctx, "Bob", "b@y.com", "2")
		assert.Equal(t, "Bob0002", first)
		assert.Equal(t, "Bob0003", second)
		assert.Len(t, svc.ListCustomers(), 3)
	})

	t.Run("UnknownCustomer", func(t *testing.T) {
		_, err := svc.FindCustomer("Nobody0001")
		assert.ErrorIs(t, err, customer.ErrCustomerNotFound{})
	})
}

func TestBankService_OpenAccount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := svc.CreateCustomer(ctx, "Alice", "a@x.com", "555")

	t.Run("MinBalance", func(t *testing.T) {
		number, err := svc.OpenAccount(ctx, alice, account.VariantMinBalance)
		require.NoError(t, err)
		assert.Equal(t, "Alice0001_SA_", number)

		snap, err := svc.FindAccount(number)
		require.NoError(t, err)
		assert.Equal(t, alice, snap.OwnerID)
		assert.Equal(t, account.VariantMinBalance, snap.Variant)
		assert.True(t, d("2000").Equal(snap.Balance))
		assert.True(t, d("3.0").Equal(snap.InterestRatePercent))
		assert.True(t, d("500").Equal(snap.Floor))
	})

	t.Run("Overdraft", func(t *testing.T) {
		number, err := svc.OpenAccount(ctx, alice, account.VariantOverdraft)
		require.NoError(t, err)
		assert.Equal(t, "Alice0001_CA_", number)

		snap, err := svc.FindAccount(number)
		require.NoError(t, err)
		assert.True(t, d("5000").Equal(snap.Balance))
		assert.True(t, d("1000").Equal(snap.OverdraftLimit))
	})

	t.Run("DuplicateVariantRejected", func(t *testing.T) {
		_, err := svc.OpenAccount(ctx, alice, account.VariantMinBalance)
		assert.ErrorIs(t, err, account.ErrDuplicateAccount{})
		assert.Len(t, svc.ListAccounts(), 2)
	})

	t.Run("UnknownCustomer", func(t *testing.T) {
		_, err := svc.OpenAccount(ctx, "Ghost0042", account.VariantMinBalance)
		assert.ErrorIs(t, err, customer.ErrCustomerNotFound{CustomerID: "Ghost0042"})
	})

	t.Run("UnknownVariant", func(t *testing.T) {
		_, err := svc.OpenAccount(ctx, alice, account.Variant(0))
		assert.ErrorIs(t, err, account.ErrUnknownVariant)
	})

	t.Run("AccountsOf", func(t *testing.T) {
		snaps, err := svc.AccountsOf(alice)
		require.NoError(t, err)
		require.Len(t, snaps, 2)
		assert.Equal(t, "Alice0001_SA_", snaps[0].Number)
		assert.Equal(t, "Alice0001_CA_", snaps[1].Number)

		_, err = svc.AccountsOf("Ghost0042")
		assert.ErrorIs(t, err, customer.ErrCustomerNotFound{})
	})

	assert.Empty(t, svc.ListTransactions(), "opening accounts records nothing")
}

func TestBankService_Deposit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := svc.CreateCustomer(ctx, "Alice", "a@x.com", "555")
	sa := mustOpen(t, svc, alice, account.VariantMinBalance)
	ca := mustOpen(t, svc, alice, account.VariantOverdraft)

	t.Run("RecordsOneTransaction", func(t *testing.T) {
		require.NoError(t, svc.Deposit(ctx, sa, d("150.25")))
		assertBalance(t, svc, sa, "2150.25")

		txs := svc.ListTransactions()
		require.Len(t, txs, 1)
		assert.Equal(t, "1", txs[0].ID)
		assert.Equal(t, shared.TransactionTypeDeposit, txs[0].Type)
		assert.True(t, d("150.25").Equal(txs[0].Amount))
		assert.Equal(t, sa, txs[0].AccountNumber)
		assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), txs[0].Timestamp)
		assert.False(t, txs[0].IsTransferLeg())
	})

	for _, number := range []string{sa, ca} {
		for _, amount := range []string{"0", "-5"} {
			t.Run("RejectsNonPositive/"+number+"/"+amount, func(t *testing.T) {
				before := balanceOf(t, svc, number)
				count := len(svc.ListTransactions())

				err := svc.Deposit(ctx, number, d(amount))

				assert.ErrorIs(t, err, account.ErrInvalidAmount)
				assert.True(t, before.Equal(balanceOf(t, svc, number)))
				assert.Len(t, svc.ListTransactions(), count)
			})
		}
	}

	t.Run("UnknownAccount", func(t *testing.T) {
		count := len(svc.ListTransactions())
		err := svc.Deposit(ctx, "Nope_SA_", d("10"))
		assert.ErrorIs(t, err, account.ErrAccountNotFound{Number: "Nope_SA_"})
		assert.Len(t, svc.ListTransactions(), count)
	})
}

func TestBankService_Withdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("MinBalanceFloor", func(t *testing.T) {
		svc := newTestService(t)
		sa := mustOpen(t, svc, svc.CreateCustomer(ctx, "Alice", "a@x.com", "555"), account.VariantMinBalance)

		err := svc.Withdraw(ctx, sa, d("1600"))
		assert.ErrorIs(t, err, account.ErrBelowMinimumBalance)
		assertBalance(t, svc, sa, "2000")
		assert.Empty(t, svc.ListTransactions())

		err = svc.Withdraw(ctx, sa, d("1501"))
		assert.ErrorIs(t, err, account.ErrBelowMinimumBalance)
		assertBalance(t, svc, sa, "2000")

		require.NoError(t, svc.Withdraw(ctx, sa, d("1500")))
		assertBalance(t, svc, sa, "500")

		txs := svc.ListTransactions()
		require.Len(t, txs, 1)
		assert.Equal(t, shared.TransactionTypeWithdraw, txs[0].Type)
		assert.True(t, d("1500").Equal(txs[0].Amount))
	})

	t.Run("MinBalanceMoreThanBalance", func(t *testing.T) {
		svc := newTestService(t)
		sa := mustOpen(t, svc, svc.CreateCustomer(ctx, "Alice", "a@x.com", "555"), account.VariantMinBalance)

		err := svc.Withdraw(ctx, sa, d("2500"))
		assert.ErrorIs(t, err, account.ErrInsufficientFunds)
		assert.Empty(t, svc.ListTransactions())
	})

	t.Run("OverdraftLimit", func(t *testing.T) {
		svc := newTestService(t)
		ca := mustOpen(t, svc, svc.CreateCustomer(ctx, "Alice", "a@x.com", "555"), account.VariantOverdraft)

		require.NoError(t, svc.Withdraw(ctx, ca, d("6000")))
		assertBalance(t, svc, ca, "-1000")

		err := svc.Withdraw(ctx, ca, d("1"))
		assert.ErrorIs(t, err, account.ErrInsufficientFunds)
		assertBalance(t, svc, ca, "-1000")
		assert.Len(t, svc.ListTransactions(), 1)
	})

	t.Run("OverdraftOneOverLimit", func(t *testing.T) {
		svc := newTestService(t)
		ca := mustOpen(t, svc, svc.CreateCustomer(ctx, "Alice", "a@x.com", "555"), account.VariantOverdraft)

		err := svc.Withdraw(ctx, ca, d("6001"))
		assert.ErrorIs(t, err, account.ErrInsufficientFunds)
		assertBalance(t, svc, ca, "5000")
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		svc := newTestService(t)
		ca := mustOpen(t, svc, svc.CreateCustomer(ctx, "Alice", "a@x.com", "555"), account.VariantOverdraft)

		assert.ErrorIs(t, svc.Withdraw(ctx, ca, d("0")), account.ErrInvalidAmount)
		assert.ErrorIs(t, svc.Withdraw(ctx, ca, d("-3")), account.ErrInvalidAmount)
		assert.Empty(t, svc.ListTransactions())
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		svc := newTestService(t)
		assert.ErrorIs(t, svc.Withdraw(ctx, "Nope_CA_", d("1")), account.ErrAccountNotFound{})
	})
}

func TestBankService_Transfer(t *testing.T) {
	ctx := context.Background()

	// setup returns an overdraft source drained to exactly 1000 and a savings destination
	setup := func(t *testing.T) (*BankServiceImpl, string, string) {
		svc := newTestService(t)
		alice := svc.CreateCustomer(ctx, "Alice", "a@x.com", "555")
		bob := svc.CreateCustomer(ctx, "Bob", "b@x.com", "556")
		src := mustOpen(t, svc, alice, account.VariantOverdraft)
		dst := mustOpen(t, svc, bob, account.VariantMinBalance)
		require.NoError(t, svc.Withdraw(ctx, src, d("4000")))
		assertBalance(t, svc, src, "1000")
		return svc, src, dst
	}

	t.Run("ExactlyEmptyingSourceRejected", func(t *testing.T) {
		svc, src, dst := setup(t)

		err := svc.Transfer(ctx, src, dst, d("1000"))

		assert.ErrorIs(t, err, account.ErrInsufficientFunds)
		assertBalance(t, svc, src, "1000")
		assertBalance(t, svc, dst, "2000")
		assert.Len(t, svc.ListTransactions(), 1)
	})

	t.Run("LeavingOneUnitSucceeds", func(t *testing.T) {
		svc, src, dst := setup(t)

		require.NoError(t, svc.Transfer(ctx, src, dst, d("999")))

		assertBalance(t, svc, src, "1")
		assertBalance(t, svc, dst, "2999")

		txs := svc.ListTransactions()
		require.Len(t, txs, 3)
		out, in := txs[1], txs[2]
		assert.Equal(t, shared.TransactionTypeWithdraw, out.Type)
		assert.Equal(t, src, out.AccountNumber)
		assert.Equal(t, shared.TransactionTypeDeposit, in.Type)
		assert.Equal(t, dst, in.AccountNumber)
		assert.True(t, d("999").Equal(out.Amount))
		assert.True(t, d("999").Equal(in.Amount))
		assert.NotEqual(t, uuid.Nil, out.TransferID)
		assert.Equal(t, out.TransferID, in.TransferID)
		assert.Equal(t, "2", out.ID)
		assert.Equal(t, "3", in.ID)
	})

	t.Run("VariantPolicyAbortsBeforeDestination", func(t *testing.T) {
		svc := newTestService(t)
		alice := svc.CreateCustomer(ctx, "Alice", "a@x.com", "555")
		src := mustOpen(t, svc, alice, account.VariantMinBalance)
		dst := mustOpen(t, svc, alice, account.VariantOverdraft)

		// 2000 - 1999 = 1 passes the positivity check but crosses the 500 floor
		err := svc.Transfer(ctx, src, dst, d("1999"))

		assert.ErrorIs(t, err, account.ErrBelowMinimumBalance)
		assertBalance(t, svc, src, "2000")
		assertBalance(t, svc, dst, "5000")
		assert.Empty(t, svc.ListTransactions())
	})

	t.Run("MissingAccount", func(t *testing.T) {
		svc, src, dst := setup(t)

		assert.ErrorIs(t, svc.Transfer(ctx, "Nope_SA_", dst, d("1")), account.ErrAccountNotFound{Number: "Nope_SA_"})
		assert.ErrorIs(t, svc.Transfer(ctx, src, "Nope_SA_", d("1")), account.ErrAccountNotFound{Number: "Nope_SA_"})
		assertBalance(t, svc, src, "1000")
		assert.Len(t, svc.ListTransactions(), 1)
	})

	t.Run("SameAccount", func(t *testing.T) {
		svc, src, _ := setup(t)
		assert.ErrorIs(t, svc.Transfer(ctx, src, src, d("1")), ErrSameAccount)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		svc, src, dst := setup(t)
		assert.ErrorIs(t, svc.Transfer(ctx, src, dst, d("0")), account.ErrInvalidAmount)
		assert.ErrorIs(t, svc.Transfer(ctx, src, dst, d("-10")), account.ErrInvalidAmount)
		assert.Len(t, svc.ListTransactions(), 1)
	})

	t.Run("AccountTransactions", func(t *testing.T) {
		svc, src, dst := setup(t)
		require.NoError(t, svc.Transfer(ctx, src, dst, d("10")))

		forDst, err := svc.AccountTransactions(dst)
		require.NoError(t, err)
		require.Len(t, forDst, 1)
		assert.Equal(t, shared.TransactionTypeDeposit, forDst[0].Type)

		_, err = svc.AccountTransactions("Nope_SA_")
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
	})
}

func TestBankService_ConcurrentTransfersConserveFunds(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := mustOpen(t, svc, svc.CreateCustomer(ctx, "Alice", "a@x.com", "1"), account.VariantOverdraft)
	b := mustOpen(t, svc, svc.CreateCustomer(ctx, "Bob", "b@x.com", "2"), account.VariantOverdraft)

	const n = 200
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.Transfer(ctx, a, b, d("1")))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.Transfer(ctx, b, a, d("1")))
		}()
	}
	wg.Wait()

	total := balanceOf(t, svc, a).Add(balanceOf(t, svc, b))
	assert.True(t, d("10000").Equal(total), "total %s", total)
	assert.Len(t, svc.ListTransactions(), 4*n)
}

func TestBankService_ApplyInterestToAllSavings(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := svc.CreateCustomer(ctx, "Alice", "a@x.com", "555")
	bob := svc.CreateCustomer(ctx, "Bob", "b@x.com", "556")
	saA := mustOpen(t, svc, alice, account.VariantMinBalance)
	caA := mustOpen(t, svc, alice, account.VariantOverdraft)
	saB := mustOpen(t, svc, bob, account.VariantMinBalance)
	require.NoError(t, svc.Deposit(ctx, saB, d("1000")))

	credited, err := svc.ApplyInterestToAllSavings(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, credited)
	assertBalance(t, svc, saA, "2060")
	assertBalance(t, svc, saB, "3090")
	assertBalance(t, svc, caA, "5000")
	assert.Len(t, svc.ListTransactions(), 1, "interest is not recorded as a transaction")
}

// MockInterestSweeper mocks the InterestSweeper interface
type MockInterestSweeper struct {
	mock.Mock
}

func (m *MockInterestSweeper) Sweep(ctx context.Context, accounts []account.InterestBearing) (int, error) {
	args := m.Called(ctx, accounts)
	return args.Int(0), args.Error(1)
}

func TestBankService_ApplyInterest_DelegatesOnlySavings(t *testing.T) {
	logger := discardLogger()
	mockSweeper := &MockInterestSweeper{}
	svc := NewBankService(
		customer.NewRegistry(),
		memory.NewAccountRepository(logger),
		ledger.NewLog(),
		mockSweeper,
		account.DefaultOpeningPolicy(),
		logger,
	)
	ctx := correlation.WithID(context.Background(), "corr-1")
	alice := svc.CreateCustomer(ctx, "Alice", "a@x.com", "555")
	mustOpen(t, svc, alice, account.VariantOverdraft)
	sa := mustOpen(t, svc, alice, account.VariantMinBalance)

	onlySavings := mock.MatchedBy(func(accs []account.InterestBearing) bool {
		return len(accs) == 1 && accs[0].Number() == sa
	})

	t.Run("Success", func(t *testing.T) {
		mockSweeper.On("Sweep", ctx, onlySavings).Return(1, nil).Once()

		credited, err := svc.ApplyInterestToAllSavings(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, credited)
	})

	t.Run("SweepError", func(t *testing.T) {
		sweepErr := errors.New("pool closed")
		mockSweeper.On("Sweep", ctx, onlySavings).Return(0, sweepErr).Once()

		credited, err := svc.ApplyInterestToAllSavings(ctx)

		assert.ErrorIs(t, err, sweepErr)
		assert.Equal(t, 0, credited)
	})

	mockSweeper.AssertExpectations(t)
}

func TestFailureReasonFor(t *testing.T) {
	tests := []struct {
		err      error
		expected shared.FailureReason
	}{
		{account.ErrAccountNotFound{Number: "x"}, shared.FailureReasonAccountNotFound},
		{customer.ErrCustomerNotFound{CustomerID: "x"}, shared.FailureReasonCustomerNotFound},
		{account.ErrInvalidAmount, shared.FailureReasonInvalidAmount},
		{account.ErrInsufficientFunds, shared.FailureReasonInsufficientFunds},
		{account.ErrBelowMinimumBalance, shared.FailureReasonBelowMinimumBalance},
		{account.ErrDuplicateAccount{Number: "x"}, shared.FailureReasonDuplicateAccount},
		{ErrSameAccount, shared.FailureReasonSameAccount},
		{account.ErrUnknownVariant, shared.FailureReasonUnknownVariant},
		{errors.New("boom"), shared.FailureReasonUnknownError},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, failureReasonFor(tt.err))
		})
	}
}
