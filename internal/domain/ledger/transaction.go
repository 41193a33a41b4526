package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/minibank-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Transaction is one recorded leg of a ledger operation. It is never
// modified after it is appended.
type Transaction struct {
	ID            string                 `json:"transaction_id"`
	Type          shared.TransactionType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"`
	Timestamp     time.Time              `json:"timestamp"` // Calendar date, time of day is zero
	AccountNumber string                 `json:"account_number"`
	TransferID    uuid.UUID              `json:"transfer_id"` // Shared by both legs of a transfer, uuid.Nil otherwise
}

// IsTransferLeg reports whether the transaction belongs to a transfer
func (t Transaction) IsTransferLeg() bool {
	return t.TransferID != uuid.Nil
}
