package stress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

func ccarCell(scenario, timeframe string, year int, amplification, climateEL float64) domain.RCPScenarioResult {
	return domain.RCPScenarioResult{
		Scenario:             scenario,
		Timeframe:            timeframe,
		Year:                 year,
		BaselineExpectedLoss: climateEL / amplification,
		ClimateExpectedLoss:  climateEL,
		AmplificationFactor:  amplification,
	}
}

func TestBuildStressTests(t *testing.T) {
	t.Run("one verdict per regulatory window", func(t *testing.T) {
		cells := []domain.RCPScenarioResult{
			ccarCell(domain.RCP26, domain.TimeframeCCAR3yr, 2026, 1.05, 1e6),
			ccarCell(domain.RCP85, domain.TimeframeCCAR3yr, 2026, 1.20, 2e6),
			ccarCell(domain.RCP85, domain.TimeframeCCAR5yr, 2028, 1.30, 3e6),
			ccarCell(domain.RCP85, domain.TimeframeLong2100, 2100, 2.50, 9e6),
		}

		tests := BuildStressTests(cells)
		require.Len(t, tests, 2)
		assert.Equal(t, domain.TimeframeCCAR3yr, tests[0].Timeframe)
		assert.Equal(t, domain.TimeframeCCAR5yr, tests[1].Timeframe)
	})

	t.Run("worst case is the highest amplification, not the highest loss", func(t *testing.T) {
		cells := []domain.RCPScenarioResult{
			ccarCell(domain.RCP45, domain.TimeframeCCAR3yr, 2026, 1.50, 5e6),
			ccarCell(domain.RCP85, domain.TimeframeCCAR3yr, 2026, 1.80, 4e6),
		}

		tests := BuildStressTests(cells)
		require.Len(t, tests, 1)
		assert.Equal(t, domain.RCP85, tests[0].WorstCaseScenario)
		assert.Equal(t, 4e6, tests[0].StressLoss)
	})

	t.Run("missing window yields no test", func(t *testing.T) {
		cells := []domain.RCPScenarioResult{
			ccarCell(domain.RCP85, domain.TimeframeMedium2050, 2050, 2.0, 5e6),
		}
		assert.Empty(t, BuildStressTests(cells))
	})
}

func TestStressTestCapitalDecision(t *testing.T) {
	t.Run("landing exactly on the minimum fails", func(t *testing.T) {
		// A 93.75M stress loss erodes tier-1 by 0.075 to exactly the 4.5%
		// minimum; the pass condition is strict.
		worst := ccarCell(domain.RCP85, domain.TimeframeCCAR3yr, 2026, 1.5, 93_750_000)
		test := stressTest(domain.TimeframeCCAR3yr, worst)

		assert.InDelta(t, domain.Tier1Minimum, test.StressedTier1, 1e-12)
		assert.False(t, test.PassStatus)
		assert.Equal(t, 0.0, test.MarginAboveMinimum)
		assert.True(t, test.StrategicAdjustment)
		assert.Equal(t, 0.0, test.DividendCapacity)
	})

	t.Run("a basis point of headroom passes", func(t *testing.T) {
		worst := ccarCell(domain.RCP85, domain.TimeframeCCAR3yr, 2026, 1.5, 93_625_000)
		test := stressTest(domain.TimeframeCCAR3yr, worst)

		assert.InDelta(t, 0.0451, test.StressedTier1, 1e-9)
		assert.True(t, test.PassStatus)
		assert.InDelta(t, 0.0001, test.MarginAboveMinimum, 1e-9)
		assert.True(t, test.StrategicAdjustment, "still below the 6% strategic floor")
	})

	t.Run("modest loss keeps dividends and lending intact", func(t *testing.T) {
		worst := ccarCell(domain.RCP45, domain.TimeframeCCAR5yr, 2028, 1.2, 10_000_000)
		test := stressTest(domain.TimeframeCCAR5yr, worst)

		assert.InDelta(t, 0.112, test.StressedTier1, 1e-12)
		assert.InDelta(t, 0.102, test.StressedCET1, 1e-12)
		assert.True(t, test.PassStatus)
		assert.False(t, test.StrategicAdjustment)
		assert.InDelta(t, (0.112-0.08)*1e9, test.DividendCapacity, 1e-3)
		assert.InDelta(t, -10_000_000*12.5, test.LendingCapacityChange, 1e-6)
		assert.InDelta(t, 800_000, test.CapitalImpact, 1e-6)
	})
}

func TestRecommendations(t *testing.T) {
	passing := domain.CCARStressTest{Timeframe: domain.TimeframeCCAR3yr, PassStatus: true}
	failing := domain.CCARStressTest{
		Timeframe:         domain.TimeframeCCAR5yr,
		WorstCaseScenario: domain.RCP85,
		StressedTier1:     0.042,
		PassStatus:        false,
	}
	calmCells := []domain.RCPScenarioResult{
		ccarCell(domain.RCP45, domain.TimeframeCCAR3yr, 2026, 1.1, 1e6),
	}
	objective := domain.BusinessObjective{MaxAmplificationFactor: 2.0}

	t.Run("quiet portfolio yields no actions", func(t *testing.T) {
		recs := Recommendations([]domain.CCARStressTest{passing}, calmCells, nil, objective)
		assert.Empty(t, recs)
	})

	t.Run("failed test demands capital first", func(t *testing.T) {
		hotCells := []domain.RCPScenarioResult{
			ccarCell(domain.RCP85, domain.TimeframeLong2100, 2100, 2.4, 9e6),
		}
		sensitivities := []domain.Sensitivity{
			{Parameter: ParamPDBaseline, Bump: 0.10, Elasticity: 1.4},
			{Parameter: ParamInsuranceCost, Bump: 0.10, Elasticity: 0.3},
		}

		recs := Recommendations([]domain.CCARStressTest{passing, failing}, hotCells, sensitivities, objective)
		require.Len(t, recs, 3)
		assert.Contains(t, recs[0], "capital buffers")
		assert.Contains(t, recs[0], domain.TimeframeCCAR5yr)
		assert.Contains(t, recs[1], "Rebalance")
		assert.Contains(t, recs[2], ParamPDBaseline)
	})

	t.Run("zero ceiling disables the rebalancing rule", func(t *testing.T) {
		hotCells := []domain.RCPScenarioResult{
			ccarCell(domain.RCP85, domain.TimeframeLong2100, 2100, 5.0, 9e6),
		}
		recs := Recommendations(nil, hotCells, nil, domain.BusinessObjective{})
		assert.Empty(t, recs)
	})
}

func TestSensitivities(t *testing.T) {
	loans := []domain.LoanRecord{testLoan()}
	scenarios := []domain.ClimateScenarioData{{
		PropertyID:   "prop-1",
		BaselineYear: 2023,
		Scenarios:    map[string]domain.RCPProjection{domain.RCP85: severeProjection()},
	}}

	sensitivities := Sensitivities(loans, scenarios, domain.RCP85, 2050)
	require.Len(t, sensitivities, 4)

	byParam := map[string]domain.Sensitivity{}
	for _, s := range sensitivities {
		byParam[s.Parameter] = s
		assert.Equal(t, 0.10, s.Bump)
	}

	t.Run("PD and LGD move losses up", func(t *testing.T) {
		assert.Positive(t, byParam[ParamPDBaseline].Elasticity)
		assert.Positive(t, byParam[ParamLGDBaseline].Elasticity)
	})

	t.Run("higher property values cushion losses", func(t *testing.T) {
		assert.LessOrEqual(t, byParam[ParamPropertyValue].Elasticity, 0.0)
	})

	t.Run("no losses means zero elasticity", func(t *testing.T) {
		riskless := testLoan()
		riskless.Risk = domain.NewRiskMetrics(0, 0.30, 320000)
		out := Sensitivities([]domain.LoanRecord{riskless}, nil, domain.RCP85, 2050)
		for _, s := range out {
			assert.Equal(t, 0.0, s.Elasticity)
		}
	})
}
