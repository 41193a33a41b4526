package console

import (
	"errors"
	"fmt"
	"io"

	"github.com/minibank-ledger/internal/bank/service"
	"github.com/minibank-ledger/internal/domain/account"
	"github.com/minibank-ledger/internal/domain/customer"
	"github.com/minibank-ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func variantLabel(v account.Variant) string {
	switch v {
	case account.VariantMinBalance:
		return "Savings"
	case account.VariantOverdraft:
		return "Current"
	default:
		return v.String()
	}
}

func renderAccount(w io.Writer, snap account.Snapshot, owner customer.Customer, ownerErr error) {
	fmt.Fprintln(w, "\n===== Account Summary =====")
	fmt.Fprintf(w, "Account Number: %s\n", snap.Number)
	fmt.Fprintf(w, "Type: %s\n", variantLabel(snap.Variant))
	fmt.Fprintf(w, "Balance: %s\n", money(snap.Balance))
	switch snap.Variant {
	case account.VariantMinBalance:
		fmt.Fprintf(w, "Interest Rate: %s%%\n", snap.InterestRatePercent.StringFixed(2))
		fmt.Fprintf(w, "Minimum Balance: %s\n", money(snap.Floor))
	case account.VariantOverdraft:
		fmt.Fprintf(w, "Overdraft Limit: %s\n", money(snap.OverdraftLimit))
	}
	fmt.Fprintln(w, "----- Owner Information -----")
	if ownerErr != nil {
		fmt.Fprintf(w, "Customer ID: %s (not registered)\n", snap.OwnerID)
	} else {
		fmt.Fprintf(w, "Customer ID: %s\n", owner.ID)
		fmt.Fprintf(w, "Name: %s\n", owner.Name)
		fmt.Fprintf(w, "Email: %s\n", owner.Email)
		fmt.Fprintf(w, "Phone: %s\n", owner.Phone)
	}
	fmt.Fprintln(w, "=============================")
}

func renderTransaction(w io.Writer, tx ledger.Transaction) {
	fmt.Fprintln(w, "\n===== Transaction Details =====")
	fmt.Fprintf(w, "Transaction ID: %s\n", tx.ID)
	fmt.Fprintf(w, "Type: %s\n", tx.Type)
	fmt.Fprintf(w, "Amount: %s\n", money(tx.Amount))
	fmt.Fprintf(w, "Account Number: %s\n", tx.AccountNumber)
	fmt.Fprintf(w, "Timestamp: %s\n", tx.Timestamp.Format(dateLayout))
	if tx.IsTransferLeg() {
		fmt.Fprintf(w, "Transfer ID: %s\n", tx.TransferID)
	}
	fmt.Fprintln(w, "===============================")
}

// messageFor turns a core error into the line shown to the operator
func messageFor(err error) string {
	var notFound account.ErrAccountNotFound
	var duplicate account.ErrDuplicateAccount

	switch {
	case errors.As(err, &notFound):
		return "X Account not found for Account Number: " + notFound.Number
	case errors.Is(err, customer.ErrCustomerNotFound{}):
		return "Customer not found"
	case errors.As(err, &duplicate):
		return "X Account " + duplicate.Number + " already exists for this customer"
	case errors.Is(err, account.ErrInvalidAmount):
		return "X Invalid amount. Must be greater than 0."
	case errors.Is(err, account.ErrBelowMinimumBalance):
		return "X Cannot withdraw below minimum balance"
	case errors.Is(err, account.ErrInsufficientFunds):
		return "X Insufficient funds. Operation canceled."
	case errors.Is(err, service.ErrSameAccount):
		return "X Cannot transfer to the same account"
	case errors.Is(err, account.ErrUnknownVariant):
		return "WRONG OPTION"
	case errors.Is(err, errCommandPanicked):
		return "X Internal error, the command was not completed."
	case errors.Is(err, errTooManyAttempts):
		return "Too many invalid attempts, returning to menu."
	default:
		return "X Operation failed: " + err.Error()
	}
}
