package shared

// TransactionType defines possible ledger operations
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "Deposit"
	TransactionTypeWithdraw TransactionType = "Withdraw"
)

// FailureReason categorises rejected operations for logging
type FailureReason string

const (
	FailureReasonAccountNotFound     FailureReason = "ACCOUNT_NOT_FOUND"
	FailureReasonCustomerNotFound    FailureReason = "CUSTOMER_NOT_FOUND"
	FailureReasonInsufficientFunds   FailureReason = "INSUFFICIENT_FUNDS"
	FailureReasonBelowMinimumBalance FailureReason = "BELOW_MINIMUM_BALANCE"
	FailureReasonInvalidAmount       FailureReason = "INVALID_AMOUNT"
	FailureReasonDuplicateAccount    FailureReason = "DUPLICATE_ACCOUNT"
	FailureReasonSameAccount         FailureReason = "SAME_ACCOUNT"
	FailureReasonUnknownVariant      FailureReason = "UNKNOWN_VARIANT"
	FailureReasonUnknownError        FailureReason = "UNKNOWN_ERROR"
)
