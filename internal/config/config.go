package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Workers bounds the per-cell loan fan-out in the stress engine.
	Workers int `env:"WORKERS" envDefault:"8"`

	// Risk-appetite thresholds consumed by the recommendation rules.
	MaxAmplificationFactor float64 `env:"MAX_AMPLIFICATION_FACTOR" envDefault:"2.0"`
	MaxPortfolioLossRate   float64 `env:"MAX_PORTFOLIO_LOSS_RATE" envDefault:"0.02"`

	// Default Young-2004 pricing assumptions.
	CorrelationFactor      float64 `env:"PRICING_CORRELATION_FACTOR" envDefault:"0.5"`
	UncertaintyCoefficient float64 `env:"PRICING_UNCERTAINTY_COEFFICIENT" envDefault:"0.2"`
	ExpenseRatio           float64 `env:"PRICING_EXPENSE_RATIO" envDefault:"0.3"`
	ProfitMargin           float64 `env:"PRICING_PROFIT_MARGIN" envDefault:"0.1"`
	CapitalRequirement     float64 `env:"PRICING_CAPITAL_REQUIREMENT" envDefault:"0.08"`

	// States ineligible for the National Flood Insurance Program.
	NFIPExcludedStates []string `env:"NFIP_EXCLUDED_STATES" envSeparator:"," envDefault:""`
}

// Load reads configuration from environment variables, applying defaults
// where unset, and validates the combinations the engines depend on.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", cfg.ShutdownTimeout)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("WORKERS must be at least 1, got %d", cfg.Workers)
	}
	if cfg.ExpenseRatio+cfg.ProfitMargin >= 1 {
		return nil, fmt.Errorf("PRICING_EXPENSE_RATIO + PRICING_PROFIT_MARGIN must sum below 1, got %g", cfg.ExpenseRatio+cfg.ProfitMargin)
	}
	if cfg.MaxAmplificationFactor <= 0 {
		return nil, fmt.Errorf("MAX_AMPLIFICATION_FACTOR must be positive, got %g", cfg.MaxAmplificationFactor)
	}

	return cfg, nil
}
