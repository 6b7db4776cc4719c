package stress

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// Engine runs the scenario stress grid over a loan portfolio.
type Engine struct {
	workers int
}

// NewEngine creates a stress engine with the given per-cell worker count.
// A non-positive count falls back to serial execution.
func NewEngine(workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{workers: workers}
}

// RunGrid evaluates all 4 RCP scenarios across all 4 timeframes, producing
// one result per cell in deterministic (scenario, timeframe) order.
func (e *Engine) RunGrid(ctx context.Context, loans []domain.LoanRecord, scenarios []domain.ClimateScenarioData) ([]domain.RCPScenarioResult, error) {
	if len(loans) == 0 {
		return nil, &domain.ConfigError{Field: "loans", Value: 0, Reason: "portfolio is empty"}
	}

	byProperty := make(map[string]domain.ClimateScenarioData, len(scenarios))
	for _, s := range scenarios {
		byProperty[s.PropertyID] = s
	}

	results := make([]domain.RCPScenarioResult, 0, len(domain.Scenarios)*len(domain.Timeframes))
	for _, scenario := range domain.Scenarios {
		for _, tf := range domain.Timeframes {
			cell, err := e.runCell(ctx, loans, byProperty, scenario, tf)
			if err != nil {
				return nil, err
			}
			results = append(results, cell)
		}
	}
	return results, nil
}

// runCell adjusts every loan for one (scenario, timeframe) and rolls the
// metrics up. Loans fan out across workers writing to indexed slots, so the
// result order matches the input order regardless of scheduling.
func (e *Engine) runCell(ctx context.Context, loans []domain.LoanRecord, scenarios map[string]domain.ClimateScenarioData, scenario string, tf domain.Timeframe) (domain.RCPScenarioResult, error) {
	metrics := make([]domain.ClimateImpactedMetrics, len(loans))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, loan := range loans {
		i, loan := i, loan
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			metrics[i] = adjustOrFallback(loan, scenarios, scenario, tf.Year)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.RCPScenarioResult{}, err
	}

	return rollUp(loans, metrics, scenario, tf), nil
}

// adjustOrFallback applies the climate adjustment when the property has data
// for the scenario, otherwise returns baseline metrics unchanged.
func adjustOrFallback(loan domain.LoanRecord, scenarios map[string]domain.ClimateScenarioData, scenario string, year int) domain.ClimateImpactedMetrics {
	data, ok := scenarios[loan.PropertyID]
	if !ok {
		return BaselineMetrics(loan, scenario, year)
	}
	projection, ok := data.Projection(scenario)
	if !ok {
		return BaselineMetrics(loan, scenario, year)
	}
	return AdjustLoan(loan, scenario, projection, data.BaselineYear, year)
}

// rollUp aggregates per-loan metrics into the cell result.
func rollUp(loans []domain.LoanRecord, metrics []domain.ClimateImpactedMetrics, scenario string, tf domain.Timeframe) domain.RCPScenarioResult {
	var exposure, baselineEL, climateEL, pdSum, lgdSum float64
	for i, m := range metrics {
		exposure += loans[i].Outstanding
		baselineEL += m.ExpectedLossBaseline
		climateEL += m.ExpectedLossClimate
		pdSum += m.PDAdjusted
		lgdSum += m.LGDAdjusted
	}

	amplification := 1.0
	if baselineEL > 0 {
		amplification = climateEL / baselineEL
	}

	var95, tvar95 := orderStatisticTail(metrics)

	n := float64(len(metrics))
	return domain.RCPScenarioResult{
		Scenario:             scenario,
		Timeframe:            tf.Key,
		Year:                 tf.Year,
		TotalExposure:        exposure,
		BaselineExpectedLoss: baselineEL,
		ClimateExpectedLoss:  climateEL,
		AmplificationFactor:  amplification,
		VaR95:                var95,
		TVaR95:               tvar95,
		AvgStressedPD:        pdSum / n,
		AvgStressedLGD:       lgdSum / n,
		LoanMetrics:          metrics,
		StateBreakdown:       stateBreakdown(loans, metrics),
		Impact:               businessImpact(exposure, baselineEL, climateEL),
	}
}

// orderStatisticTail approximates VaR95/TVaR95 from per-loan climate losses:
// losses are sorted descending, VaR is the loss at index floor(N*0.05), and
// TVaR is the average over the top slice. Coarser than the curve-based VaR
// but adequate for cell-to-cell comparison.
func orderStatisticTail(metrics []domain.ClimateImpactedMetrics) (var95, tvar95 float64) {
	if len(metrics) == 0 {
		return 0, 0
	}

	losses := make([]float64, len(metrics))
	for i, m := range metrics {
		losses[i] = m.ExpectedLossClimate
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(losses)))

	idx := int(math.Floor(float64(len(losses)) * 0.05))
	if idx >= len(losses) {
		idx = len(losses) - 1
	}

	var sum float64
	for i := 0; i <= idx; i++ {
		sum += losses[i]
	}
	return losses[idx], sum / float64(idx+1)
}

// stateBreakdown groups loss deterioration by state, sorts by percentage loss
// increase descending, and assigns dense ranks starting at 1.
func stateBreakdown(loans []domain.LoanRecord, metrics []domain.ClimateImpactedMetrics) []domain.StateImpact {
	type acc struct {
		exposure, baseline, climate float64
	}
	byState := map[string]*acc{}
	for i, m := range metrics {
		state := loans[i].Address.State
		a, ok := byState[state]
		if !ok {
			a = &acc{}
			byState[state] = a
		}
		a.exposure += loans[i].Outstanding
		a.baseline += m.ExpectedLossBaseline
		a.climate += m.ExpectedLossClimate
	}

	impacts := make([]domain.StateImpact, 0, len(byState))
	for state, a := range byState {
		increase := 0.0
		if a.baseline > 0 {
			increase = (a.climate - a.baseline) / a.baseline * 100
		}
		impacts = append(impacts, domain.StateImpact{
			State:           state,
			Exposure:        a.exposure,
			BaselineLoss:    a.baseline,
			ClimateLoss:     a.climate,
			LossIncreasePct: increase,
		})
	}

	// Stable order: percentage descending, state key as tiebreak.
	sort.Slice(impacts, func(i, j int) bool {
		if impacts[i].LossIncreasePct != impacts[j].LossIncreasePct {
			return impacts[i].LossIncreasePct > impacts[j].LossIncreasePct
		}
		return impacts[i].State < impacts[j].State
	})

	rank := 0
	for i := range impacts {
		if i == 0 || impacts[i].LossIncreasePct != impacts[i-1].LossIncreasePct {
			rank++
		}
		impacts[i].Rank = rank
	}
	return impacts
}

// businessImpact translates a cell's loss increase into capital and P&L terms.
func businessImpact(exposure, baselineEL, climateEL float64) domain.BusinessImpact {
	lossIncrease := climateEL - baselineEL
	lossRate := 0.0
	if exposure > 0 {
		lossRate = lossIncrease / exposure
	}
	return domain.BusinessImpact{
		RegulatoryCapitalImpact:  lossIncrease * 0.08,
		ProvisionExpenseIncrease: lossIncrease,
		NIMImpactBps:             -lossRate * 100,
		ROEImpact:                -lossRate * 15,
	}
}
