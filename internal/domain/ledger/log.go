package ledger

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minibank-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Log is the append-only transaction log. Entries are numbered from 1 in
// the order they were recorded.
type Log struct {
	mu      sync.RWMutex
	entries []Transaction
	now     func() time.Time
}

// Option configures a Log
type Option func(*Log)

// WithClock overrides the time source used to stamp entries
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		l.now = now
	}
}

// NewLog creates an empty log
func NewLog(opts ...Option) *Log {
	l := &Log{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record appends a transaction for a completed mutation. It never fails.
// Callers must only record after the balance change has been applied.
func (l *Log) Record(txType shared.TransactionType, amount decimal.Decimal, accountNumber string) Transaction {
	return l.RecordTransferLeg(txType, amount, accountNumber, uuid.Nil)
}

// RecordTransferLeg appends one leg of the transfer identified by transferID
func (l *Log) RecordTransferLeg(txType shared.TransactionType, amount decimal.Decimal, accountNumber string, transferID uuid.UUID) Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := Transaction{
		ID:            strconv.Itoa(len(l.entries) + 1),
		Type:          txType,
		Amount:        amount,
		Timestamp:     truncateToDate(l.now()),
		AccountNumber: accountNumber,
		TransferID:    transferID,
	}
	l.entries = append(l.entries, t)
	return t
}

// List returns a copy of all entries in recording order
func (l *Log) List() []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

// ByAccount returns the entries recorded against accountNumber
func (l *Log) ByAccount(accountNumber string) []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Transaction
	for _, t := range l.entries {
		if t.AccountNumber == accountNumber {
			out = append(out, t)
		}
	}
	return out
}

// Len returns the number of recorded entries
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
