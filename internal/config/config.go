// Package config provides configuration structures and validation for the application.
// It handles environment-based configuration for the ledger core, the account
// opening policy, the interest sweep worker pool and the console driver.
package config

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Config holds the complete application configuration with settings for all components.
// Each field represents a subsystem's configuration and is validated during
// application startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Bank        BankConfig
	WorkerPool  WorkerPoolConfig
	Console     ConsoleConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// BankConfig contains the fixed parameters used when opening accounts
type BankConfig struct {
	SavingsOpeningBalance decimal.Decimal // Initial balance of a minimum-balance account
	SavingsInterestRate   decimal.Decimal // Annual rate in percent
	SavingsMinimumBalance decimal.Decimal // Floor a withdrawal may not cross
	CurrentOpeningBalance decimal.Decimal // Initial balance of an overdraft account
	CurrentOverdraftLimit decimal.Decimal // How far an overdraft account may go negative
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of workers used by the interest sweep
}

// ConsoleConfig contains settings for the interactive driver
type ConsoleConfig struct {
	Prompt     string
	MaxRetries int // Attempts allowed for a malformed field before the command is abandoned
}

// validate performs validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Bank config
	if !c.Bank.SavingsOpeningBalance.IsPositive() {
		validationErrors = append(validationErrors, "BANK_SAVINGS_OPENING_BALANCE must be greater than 0")
	}
	if c.Bank.SavingsInterestRate.IsNegative() {
		validationErrors = append(validationErrors, "BANK_SAVINGS_INTEREST_RATE must not be negative")
	}
	if c.Bank.SavingsMinimumBalance.IsNegative() {
		validationErrors = append(validationErrors, "BANK_SAVINGS_MINIMUM_BALANCE must not be negative")
	}
	if c.Bank.SavingsOpeningBalance.LessThan(c.Bank.SavingsMinimumBalance) {
		validationErrors = append(validationErrors, "BANK_SAVINGS_OPENING_BALANCE must not be below BANK_SAVINGS_MINIMUM_BALANCE")
	}
	if !c.Bank.CurrentOpeningBalance.IsPositive() {
		validationErrors = append(validationErrors, "BANK_CURRENT_OPENING_BALANCE must be greater than 0")
	}
	if c.Bank.CurrentOverdraftLimit.IsNegative() {
		validationErrors = append(validationErrors, "BANK_CURRENT_OVERDRAFT_LIMIT must not be negative")
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	// Validate Console config
	if c.Console.MaxRetries <= 0 {
		validationErrors = append(validationErrors, "CONSOLE_MAX_RETRIES must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
