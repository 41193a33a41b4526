package config

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// LoadConfigWithName loads configuration using the specified name, auto-detecting the file type
// This is useful when the configuration file extension is unknown or variable
func LoadConfigWithName(configName string) (*Config, error) {
	return loadConfig(configName, "")
}

// LoadConfigWithNameAndType loads configuration with explicit name and type specification
// Use this when you need to force a specific configuration format (e.g., "yaml", "json")
func LoadConfigWithNameAndType(configName, configType string) (*Config, error) {
	return loadConfig(configName, configType)
}

// LoadConfig loads configuration from a .env file using the provided base name
// This is the preferred method for loading environment-specific configurations
func LoadConfig(configName string) (*Config, error) {
	configFileName := fmt.Sprintf("%s.env", configName)
	return loadConfig(configFileName, "env")
}

// loadConfig handles configuration loading from files and environment variables.
// It implements a layered approach to configuration:
// 1. Load defaults
// 2. Override with config file values (if found)
// 3. Override with environment variables
// 4. Validate the final configuration
func loadConfig(configName, configType string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	if configType != "" {
		v.SetConfigType(configType)
	}

	// Add config paths in order of priority
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// The console owns stdout, so file-loading notes go to the caller through
	// the returned error only when the file exists but cannot be read.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file %q: %w", v.ConfigFileUsed(), err)
		}
	}

	v.AutomaticEnv()

	bank, err := bankConfig(v)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	config := &Config{
		Application: ApplicationConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Bank: bank,
		WorkerPool: WorkerPoolConfig{
			Size: v.GetInt("WORKER_POOL_SIZE"),
		},
		Console: ConsoleConfig{
			Prompt:     v.GetString("CONSOLE_PROMPT"),
			MaxRetries: v.GetInt("CONSOLE_MAX_RETRIES"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// bankConfig reads the monetary settings as exact decimals.
func bankConfig(v *viper.Viper) (BankConfig, error) {
	var cfg BankConfig
	fields := []struct {
		key string
		dst *decimal.Decimal
	}{
		{"BANK_SAVINGS_OPENING_BALANCE", &cfg.SavingsOpeningBalance},
		{"BANK_SAVINGS_INTEREST_RATE", &cfg.SavingsInterestRate},
		{"BANK_SAVINGS_MINIMUM_BALANCE", &cfg.SavingsMinimumBalance},
		{"BANK_CURRENT_OPENING_BALANCE", &cfg.CurrentOpeningBalance},
		{"BANK_CURRENT_OVERDRAFT_LIMIT", &cfg.CurrentOverdraftLimit},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(v.GetString(f.key))
		if err != nil {
			return BankConfig{}, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = d
	}
	return cfg, nil
}

// setDefaults initializes configuration with sensible default values.
// These values are used when no configuration file or environment variables are present.
func setDefaults(v *viper.Viper) {
	// Account opening policy
	v.SetDefault("BANK_SAVINGS_OPENING_BALANCE", "2000")
	v.SetDefault("BANK_SAVINGS_INTEREST_RATE", "3.0")
	v.SetDefault("BANK_SAVINGS_MINIMUM_BALANCE", "500")
	v.SetDefault("BANK_CURRENT_OPENING_BALANCE", "5000")
	v.SetDefault("BANK_CURRENT_OVERDRAFT_LIMIT", "1000")

	// Logging defaults - 'info' provides good balance of information vs noise
	v.SetDefault("LOG_LEVEL", "info")

	// Application defaults - development-friendly baseline configuration
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "minibank")

	// Worker Pool defaults
	v.SetDefault("WORKER_POOL_SIZE", 4)

	// Console defaults
	v.SetDefault("CONSOLE_PROMPT", "Please choose: ")
	v.SetDefault("CONSOLE_MAX_RETRIES", 3)
}
