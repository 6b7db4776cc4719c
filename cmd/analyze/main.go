// Command analyze runs a full portfolio analysis over materialized JSON
// inputs and writes the report as JSON. It is the offline counterpart to the
// HTTP adapter: same engines, no server.
//
// Usage:
//
//	go run ./cmd/analyze \
//	  -portfolio data/mock/portfolio_500.json \
//	  -out report.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/climate-risk-engine/internal/config"
	"github.com/couchcryptid/climate-risk-engine/internal/domain"
	"github.com/couchcryptid/climate-risk-engine/internal/engine"
	"github.com/couchcryptid/climate-risk-engine/internal/observability"
	"github.com/couchcryptid/climate-risk-engine/internal/premium"
	"github.com/couchcryptid/climate-risk-engine/internal/stress"
	"github.com/couchcryptid/climate-risk-engine/internal/synthetic"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	portfolioPath := flag.String("portfolio", "", "path to a portfolio JSON fixture (loans, hazards, scenarios)")
	out := flag.String("out", "", "output path for the report JSON (stdout if empty)")
	flag.Parse()

	if *portfolioPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -portfolio")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var portfolio synthetic.Portfolio
	if err := readJSON(*portfolioPath, &portfolio); err != nil {
		return fmt.Errorf("load portfolio: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, "text")
	metrics := observability.NewMetricsForTesting()

	eng := engine.New(
		stress.NewEngine(cfg.Workers),
		premium.NewEngine(cfg.NFIPExcludedStates),
		logger,
		metrics,
	)

	report, err := eng.Run(context.Background(), engine.Request{
		Loans:     portfolio.Loans,
		Hazards:   portfolio.Hazards,
		Scenarios: portfolio.Scenarios,
		Objective: domain.BusinessObjective{
			MaxAmplificationFactor: cfg.MaxAmplificationFactor,
			MaxPortfolioLossRate:   cfg.MaxPortfolioLossRate,
		},
		Pricing: premium.RiskParams{
			CorrelationFactor:      cfg.CorrelationFactor,
			UncertaintyCoefficient: cfg.UncertaintyCoefficient,
			ExpenseRatio:           cfg.ExpenseRatio,
			ProfitMargin:           cfg.ProfitMargin,
			CapitalRequirement:     cfg.CapitalRequirement,
		},
	})
	if err != nil {
		return fmt.Errorf("analysis: %w", err)
	}

	printSummary(report)

	if *out == "" {
		return json.NewEncoder(os.Stdout).Encode(report)
	}
	return writeJSON(*out, report)
}

func printSummary(report engine.Report) {
	fmt.Fprintln(os.Stderr, "=== Portfolio Climate Risk Report ===")
	for _, c := range report.PortfolioCurves {
		fmt.Fprintf(os.Stderr, "%s @ %d: EL=%.0f VaR95=%.0f TVaR99=%.0f MPL=%.0f\n",
			c.Scenario, c.Year, c.Metrics.ExpectedLoss, c.Metrics.VaR95, c.Metrics.TVaR99, c.Metrics.MaxProbableLoss)
	}
	for _, t := range report.StressTests {
		verdict := "PASS"
		if !t.PassStatus {
			verdict = "FAIL"
		}
		fmt.Fprintf(os.Stderr, "CCAR %s: %s (worst case %s, stressed tier-1 %.2f%%)\n",
			t.Timeframe, verdict, t.WorstCaseScenario, t.StressedTier1*100)
	}
	for _, r := range report.Recommendations {
		fmt.Fprintf(os.Stderr, "- %s\n", r)
	}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
