// Package console implements the line-oriented menu driver for the ledger.
// It prompts, parses and renders; every business rule lives behind
// service.BankService.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/minibank-ledger/internal/bank/service"
	"github.com/minibank-ledger/internal/config"
	"github.com/minibank-ledger/internal/domain/account"
	"github.com/minibank-ledger/internal/platform/correlation"
	"github.com/shopspring/decimal"
)

var errTooManyAttempts = errors.New("too many invalid attempts")

const optionExit = 9

type command struct {
	option int
	label  string
	run    func(ctx context.Context) error
}

// Console reads commands from in and writes results to out
type Console struct {
	svc        service.BankService
	in         *bufio.Reader
	out        io.Writer
	prompt     string
	maxRetries int
	logger     *slog.Logger
	commands   []command
}

// New creates a console driving svc
func New(svc service.BankService, in io.Reader, out io.Writer, cfg config.ConsoleConfig, logger *slog.Logger) *Console {
	c := &Console{
		svc:        svc,
		in:         bufio.NewReader(in),
		out:        out,
		prompt:     cfg.Prompt,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
	if c.maxRetries <= 0 {
		c.maxRetries = 1
	}

	c.commands = []command{
		{1, "Create Customer", c.createCustomer},
		{2, "Open Account", c.openAccount},
		{3, "Deposit", c.deposit},
		{4, "Withdraw", c.withdraw},
		{5, "Transfer", c.transfer},
		{6, "Apply Interest", c.applyInterest},
		{7, "Display Accounts", c.displayAccounts},
		{8, "Show Transactions", c.showTransactions},
	}
	return c
}

// Run serves commands until the operator exits, input ends or ctx is done.
// Reaching the end of input is a normal exit.
func (c *Console) Run(ctx context.Context) error {
	c.logger.Info("Console started")
	defer c.logger.Info("Console stopped")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.printMenu()
		line, err := c.readLine(c.prompt)
		if err != nil {
			return ignoreEOF(err)
		}

		choice, err := strconv.Atoi(line)
		if err != nil {
			c.println("Invalid input! Please enter a number.")
			continue
		}
		if choice == optionExit {
			c.println("Exiting application...")
			return nil
		}

		cmd, ok := c.lookup(choice)
		if !ok {
			c.println("Invalid choice, please enter a number from 1 to 9.")
			continue
		}

		cmdCtx, id := correlation.NewContext(ctx)
		logger := c.logger.With(correlation.Key, id, "command", cmd.label)
		handler := logging(logger, recovery(logger, cmd.run))

		if err := handler(cmdCtx); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return err
			}
			c.println(messageFor(err))
		}
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Console) lookup(option int) (command, bool) {
	for _, cmd := range c.commands {
		if cmd.option == option {
			return cmd, true
		}
	}
	return command{}, false
}

func (c *Console) printMenu() {
	c.println("\n=== Welcome to MINIBANK ===")
	for _, cmd := range c.commands {
		c.printf("%d. %s\n", cmd.option, cmd.label)
	}
	c.printf("%d. Exit\n", optionExit)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// readLine prints prompt and returns the next trimmed input line. Lines have
// no length limit; oversized values are left to the field parsers to reject.
// A final line without a newline is still returned.
func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// verifyCustomer asks for a customer id and confirms it is registered
func (c *Console) verifyCustomer() (string, error) {
	customerID, err := c.readLine("\nEnter Customer ID: ")
	if err != nil {
		return "", err
	}
	if _, err := c.svc.FindCustomer(customerID); err != nil {
		return "", err
	}
	c.println("Customer Id verified")
	return customerID, nil
}

// readAmount re-prompts until the input parses as a decimal
func (c *Console) readAmount(prompt string) (decimal.Decimal, error) {
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		line, err := c.readLine(prompt)
		if err != nil {
			return decimal.Zero, err
		}
		amount, err := decimal.NewFromString(line)
		if err == nil {
			return amount, nil
		}
		c.println("Invalid amount! Please enter a number such as 150 or 99.50.")
	}
	return decimal.Zero, errTooManyAttempts
}

// readInt re-prompts until the input parses as an integer
func (c *Console) readInt(prompt string) (int, error) {
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		line, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		c.println("Invalid input! Please enter a number.")
	}
	return 0, errTooManyAttempts
}

func (c *Console) createCustomer(ctx context.Context) error {
	c.println("\nCreating a new Customer")

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		var form CustomerForm
		var err error
		if form.Name, err = c.readLine("Enter Customer Name: "); err != nil {
			return err
		}
		if form.Email, err = c.readLine("Enter Email: "); err != nil {
			return err
		}
		if form.Phone, err = c.readLine("Enter Customer Phone: "); err != nil {
			return err
		}

		if problems := ValidateForm(form); problems != nil {
			for _, p := range problems {
				c.printf("  %s: %s\n", p.Field, p.Message)
			}
			continue
		}

		id := c.svc.CreateCustomer(ctx, form.Name, form.Email, form.Phone)
		c.printf("Customer Created with ID: %s\n", id)
		return nil
	}
	return errTooManyAttempts
}

func (c *Console) openAccount(ctx context.Context) error {
	customerID, err := c.verifyCustomer()
	if err != nil {
		return err
	}

	choice, err := c.readInt("Select Account Type:\n1. Savings Account\n2. Current Account\nEnter Choice: ")
	if err != nil {
		return err
	}

	// menu options line up with account.Variant values; anything else is
	// rejected by the service as an unknown variant
	variant := account.Variant(choice)
	number, err := c.svc.OpenAccount(ctx, customerID, variant)
	if err != nil {
		return err
	}
	c.printf("%s Account created successfully. Account Number: %s\n", variantLabel(variant), number)
	return nil
}

func (c *Console) deposit(ctx context.Context) error {
	if _, err := c.verifyCustomer(); err != nil {
		return err
	}
	number, err := c.readLine("Enter Account Number: ")
	if err != nil {
		return err
	}
	amount, err := c.readAmount("Enter the amount to be deposited: ")
	if err != nil {
		return err
	}
	if err := c.svc.Deposit(ctx, number, amount); err != nil {
		return err
	}
	c.printf("* Successfully deposited %s into Account %s\n", money(amount), number)
	return nil
}

func (c *Console) withdraw(ctx context.Context) error {
	if _, err := c.verifyCustomer(); err != nil {
		return err
	}
	number, err := c.readLine("Enter Account Number: ")
	if err != nil {
		return err
	}
	amount, err := c.readAmount("Enter the amount to be withdrawn: ")
	if err != nil {
		return err
	}
	if err := c.svc.Withdraw(ctx, number, amount); err != nil {
		return err
	}
	c.printf("* Successfully withdrew %s from Account %s\n", money(amount), number)
	return nil
}

func (c *Console) transfer(ctx context.Context) error {
	from, err := c.readLine("\nEnter the from Account: ")
	if err != nil {
		return err
	}
	to, err := c.readLine("Enter the Receivers Account: ")
	if err != nil {
		return err
	}
	amount, err := c.readAmount("Enter the amount to transfer: ")
	if err != nil {
		return err
	}
	if err := c.svc.Transfer(ctx, from, to, amount); err != nil {
		return err
	}
	c.printf("* Transferred %s from %s to %s\n", money(amount), from, to)
	return nil
}

func (c *Console) applyInterest(ctx context.Context) error {
	credited, err := c.svc.ApplyInterestToAllSavings(ctx)
	if err != nil {
		return err
	}
	c.printf("Interest applied to %d savings account(s)\n", credited)
	return nil
}

func (c *Console) displayAccounts(_ context.Context) error {
	snaps := c.svc.ListAccounts()
	if len(snaps) == 0 {
		c.println("No accounts found.")
		return nil
	}
	c.println("Displaying all the accounts")
	for _, snap := range snaps {
		owner, err := c.svc.FindCustomer(snap.OwnerID)
		renderAccount(c.out, snap, owner, err)
	}
	return nil
}

func (c *Console) showTransactions(_ context.Context) error {
	txs := c.svc.ListTransactions()
	if len(txs) == 0 {
		c.println("No transactions recorded.")
		return nil
	}
	for _, tx := range txs {
		renderTransaction(c.out, tx)
	}
	return nil
}
