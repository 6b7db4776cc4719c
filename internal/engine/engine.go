// Package engine composes the exceedance, stress, and premium engines into a
// single portfolio analysis run.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
	"github.com/couchcryptid/climate-risk-engine/internal/exceedance"
	"github.com/couchcryptid/climate-risk-engine/internal/observability"
	"github.com/couchcryptid/climate-risk-engine/internal/premium"
	"github.com/couchcryptid/climate-risk-engine/internal/stress"
)

// Request carries the materialized inputs for one analysis run. The engine
// never fetches or stores data; loading is the caller's concern.
type Request struct {
	Loans     []domain.LoanRecord          `json:"loans"`
	Hazards   []domain.HazardRecord        `json:"hazards"`
	Scenarios []domain.ClimateScenarioData `json:"scenarios"`
	Objective domain.BusinessObjective     `json:"objective"`
	Pricing   premium.RiskParams           `json:"pricing"`
}

// Report is the full analysis output consumed by the presentation layer.
type Report struct {
	PortfolioCurves []domain.PortfolioExceedanceCurve `json:"portfolio_curves"`
	StressCells     []domain.RCPScenarioResult        `json:"stress_cells"`
	StressTests     []domain.CCARStressTest           `json:"stress_tests"`
	Sensitivities   []domain.Sensitivity              `json:"sensitivities"`
	Recommendations []string                          `json:"recommendations"`
	Premiums        []domain.InsurancePremium         `json:"premiums"`
	PremiumSummary  domain.PortfolioPremiumSummary    `json:"premium_summary"`
}

// curveYear is the horizon the portfolio exceedance curves are built at: far
// enough out for scenarios to separate, near enough to matter for pricing.
const curveYear = 2050

// Engine orchestrates a full analysis run.
type Engine struct {
	stress  *stress.Engine
	premium *premium.Engine
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates an Engine from its component engines and observability.
func New(stressEngine *stress.Engine, premiumEngine *premium.Engine, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		stress:  stressEngine,
		premium: premiumEngine,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once the engine has completed at least one
// analysis run.
func (e *Engine) CheckReadiness(_ context.Context) error {
	if !e.ready.Load() {
		return errors.New("engine has not completed an analysis run yet")
	}
	return nil
}

// Run executes the full analysis: portfolio exceedance curves per scenario,
// the 16-cell stress grid, CCAR verdicts, sensitivities, recommendations,
// and climate-aware premiums. Inputs are treated as immutable.
func (e *Engine) Run(ctx context.Context, req Request) (Report, error) {
	start := time.Now()

	if len(req.Loans) == 0 {
		e.metrics.AnalysisErrors.Inc()
		return Report{}, &domain.ConfigError{Field: "loans", Value: 0, Reason: "portfolio is empty"}
	}

	curves, err := e.portfolioCurves(req)
	if err != nil {
		e.metrics.AnalysisErrors.Inc()
		return Report{}, fmt.Errorf("exceedance curves: %w", err)
	}

	cells, err := e.stress.RunGrid(ctx, req.Loans, req.Scenarios)
	if err != nil {
		e.metrics.AnalysisErrors.Inc()
		return Report{}, fmt.Errorf("stress grid: %w", err)
	}
	tests := stress.BuildStressTests(cells)
	sensitivities := stress.Sensitivities(req.Loans, req.Scenarios, domain.RCP85, curveYear)
	recommendations := stress.Recommendations(tests, cells, sensitivities, req.Objective)

	premiums, summary, err := e.pricePortfolio(req, cells)
	if err != nil {
		e.metrics.AnalysisErrors.Inc()
		return Report{}, fmt.Errorf("premium pricing: %w", err)
	}

	e.metrics.AnalysesRun.Inc()
	e.metrics.LoansProcessed.Add(float64(len(req.Loans)))
	e.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	e.metrics.EngineReady.Set(1)
	e.ready.Store(true)

	e.logger.Info("analysis run complete",
		"loans", len(req.Loans),
		"hazards", len(req.Hazards),
		"stress_cells", len(cells),
		"recommendations", len(recommendations),
		"duration", time.Since(start),
	)

	return Report{
		PortfolioCurves: curves,
		StressCells:     cells,
		StressTests:     tests,
		Sensitivities:   sensitivities,
		Recommendations: recommendations,
		Premiums:        premiums,
		PremiumSummary:  summary,
	}, nil
}

// portfolioCurves builds one aggregate curve per RCP scenario at the curve
// horizon. Portfolios with no modeled hazards skip curve construction.
func (e *Engine) portfolioCurves(req Request) ([]domain.PortfolioExceedanceCurve, error) {
	if len(req.Hazards) == 0 {
		return nil, nil
	}

	out := make([]domain.PortfolioExceedanceCurve, 0, len(domain.Scenarios))
	for _, scenario := range domain.Scenarios {
		propertyCurves, err := exceedance.BuildPropertyCurves(req.Hazards, req.Loans, scenario, curveYear)
		if err != nil {
			return nil, err
		}
		if len(propertyCurves) == 0 {
			continue
		}
		aggregate, err := exceedance.AggregatePortfolio(propertyCurves, req.Loans, scenario, curveYear)
		if err != nil {
			return nil, err
		}
		out = append(out, aggregate)
	}
	return out, nil
}

// pricePortfolio prices every loan off its climate expected loss in the
// RCP 4.5 medium-term cell, a central planning scenario for premium setting.
func (e *Engine) pricePortfolio(req Request, cells []domain.RCPScenarioResult) ([]domain.InsurancePremium, domain.PortfolioPremiumSummary, error) {
	lossByLoan := make(map[string]float64, len(req.Loans))
	for _, c := range cells {
		if c.Scenario != domain.RCP45 || c.Timeframe != domain.TimeframeMedium2050 {
			continue
		}
		for _, m := range c.LoanMetrics {
			lossByLoan[m.LoanID] = m.ExpectedLossClimate
		}
	}

	premiums := make([]domain.InsurancePremium, 0, len(req.Loans))
	for _, loan := range req.Loans {
		expectedLoss, ok := lossByLoan[loan.ID]
		if !ok {
			expectedLoss = loan.Risk.ExpectedLoss
		}
		priced, err := e.premium.PriceLoan(loan, expectedLoss, req.Pricing)
		if err != nil {
			return nil, domain.PortfolioPremiumSummary{}, fmt.Errorf("loan %s: %w", loan.ID, err)
		}
		premiums = append(premiums, priced)
	}

	return premiums, premium.Summarize(premiums), nil
}
