package premium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

func testParams() RiskParams {
	return RiskParams{
		CorrelationFactor:      0.5,
		UncertaintyCoefficient: 0.2,
		ExpenseRatio:           0.3,
		ProfitMargin:           0.1,
	}
}

func testLoan() domain.LoanRecord {
	return domain.LoanRecord{
		ID:            "loan-1",
		PropertyValue: 500000,
		Address:       domain.Address{State: "FL"},
	}
}

func TestPriceLoan(t *testing.T) {
	engine := NewEngine(nil)

	t.Run("grosses up a loaded expected loss", func(t *testing.T) {
		// pv=500k: cov = 0.5 + 0.15 + 0.2 = 0.85. The loading is
		// cov^2 * 0.5 * 1.2 = 0.4335, so 1000 of expected loss grosses to
		// 1433.50 / 0.6.
		p, err := engine.PriceLoan(testLoan(), 1000, testParams())
		require.NoError(t, err)

		assert.InDelta(t, 0.85, p.CoefficientOfVariation, 1e-12)
		assert.InDelta(t, 0.4335, p.RiskLoading, 1e-12)
		assert.InDelta(t, 1433.50/0.6, p.GrossPremium, 1e-9)
		assert.Equal(t, 1000.0, p.ExpectedLoss)
	})

	t.Run("net of expenses and profit recovers the loaded loss", func(t *testing.T) {
		p, err := engine.PriceLoan(testLoan(), 1000, testParams())
		require.NoError(t, err)
		net := p.GrossPremium * (1 - p.ExpenseRatio - p.ProfitMargin)
		assert.InDelta(t, 1000*(1+p.RiskLoading), net, 1e-9)
	})

	t.Run("loading is clamped to its band", func(t *testing.T) {
		weak := testParams()
		weak.CorrelationFactor = 0.01
		p, err := engine.PriceLoan(testLoan(), 1000, weak)
		require.NoError(t, err)
		assert.Equal(t, 0.1, p.RiskLoading)

		strong := testParams()
		strong.CorrelationFactor = 10
		p, err = engine.PriceLoan(testLoan(), 1000, strong)
		require.NoError(t, err)
		assert.Equal(t, 1.0, p.RiskLoading)
	})

	t.Run("zero expected loss carries zero loading and premium", func(t *testing.T) {
		p, err := engine.PriceLoan(testLoan(), 0, testParams())
		require.NoError(t, err)
		assert.Equal(t, 0.0, p.RiskLoading)
		assert.Equal(t, 0.0, p.GrossPremium)
	})

	t.Run("expense plus profit at or above one is rejected", func(t *testing.T) {
		bad := testParams()
		bad.ExpenseRatio = 0.7
		bad.ProfitMargin = 0.3
		_, err := engine.PriceLoan(testLoan(), 1000, bad)
		var cfgErr *domain.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "expense_ratio+profit_margin", cfgErr.Field)
	})

	t.Run("negative ratios are rejected", func(t *testing.T) {
		bad := testParams()
		bad.ExpenseRatio = -0.1
		_, err := engine.PriceLoan(testLoan(), 1000, bad)
		var cfgErr *domain.ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func TestPremiumSplit(t *testing.T) {
	engine := NewEngine(nil)

	t.Run("defaults to 70/30 without baseline premiums", func(t *testing.T) {
		p, err := engine.PriceLoan(testLoan(), 1000, testParams())
		require.NoError(t, err)
		assert.InDelta(t, p.GrossPremium*0.70, p.HazardPremium, 1e-9)
		assert.InDelta(t, p.GrossPremium*0.30, p.FloodPremium, 1e-9)
	})

	t.Run("follows the loan's existing proportions", func(t *testing.T) {
		loan := testLoan()
		loan.Insurance = domain.InsuranceCoverage{HazardPremium: 900, FloodPremium: 300}
		p, err := engine.PriceLoan(loan, 1000, testParams())
		require.NoError(t, err)
		assert.InDelta(t, p.GrossPremium*0.75, p.HazardPremium, 1e-9)
		assert.InDelta(t, p.GrossPremium*0.25, p.FloodPremium, 1e-9)
		assert.InDelta(t, p.GrossPremium, p.HazardPremium+p.FloodPremium, 1e-9)
	})
}

func TestDeductiblesAndCoverage(t *testing.T) {
	engine := NewEngine(nil)

	t.Run("deductible schedules clamp at both ends", func(t *testing.T) {
		small := testLoan()
		small.PropertyValue = 40000
		p, err := engine.PriceLoan(small, 100, testParams())
		require.NoError(t, err)
		assert.Equal(t, 500.0, p.HazardDeductible)
		assert.Equal(t, 1000.0, p.FloodDeductible)

		large := testLoan()
		large.PropertyValue = 4_000_000
		p, err = engine.PriceLoan(large, 100, testParams())
		require.NoError(t, err)
		assert.Equal(t, 25000.0, p.HazardDeductible)
		assert.Equal(t, 10000.0, p.FloodDeductible)

		mid := testLoan() // 500k: 1% and 2% inside both bands
		p, err = engine.PriceLoan(mid, 100, testParams())
		require.NoError(t, err)
		assert.Equal(t, 5000.0, p.HazardDeductible)
		assert.Equal(t, 10000.0, p.FloodDeductible)
	})

	t.Run("coverage falls back to property value and the NFIP cap", func(t *testing.T) {
		p, err := engine.PriceLoan(testLoan(), 100, testParams())
		require.NoError(t, err)
		assert.Equal(t, 500000.0, p.HazardCoverage)
		assert.Equal(t, 250000.0, p.FloodCoverage)
	})

	t.Run("existing policies are carried forward", func(t *testing.T) {
		loan := testLoan()
		loan.Insurance = domain.InsuranceCoverage{HazardCoverage: 450000, FloodCoverage: 200000}
		p, err := engine.PriceLoan(loan, 100, testParams())
		require.NoError(t, err)
		assert.Equal(t, 450000.0, p.HazardCoverage)
		assert.Equal(t, 200000.0, p.FloodCoverage)
	})

	t.Run("coverage tier buckets by property value", func(t *testing.T) {
		for _, tc := range []struct {
			value float64
			tier  string
		}{
			{250000, "basic"},
			{300000, "extended"},
			{500000, "extended"},
			{750000, "comprehensive"},
		} {
			loan := testLoan()
			loan.PropertyValue = tc.value
			p, err := engine.PriceLoan(loan, 100, testParams())
			require.NoError(t, err)
			assert.Equal(t, tc.tier, p.CoverageTier, "value %.0f", tc.value)
		}
	})

	t.Run("NFIP exclusion list controls eligibility", func(t *testing.T) {
		engine := NewEngine([]string{"FL"})
		p, err := engine.PriceLoan(testLoan(), 100, testParams())
		require.NoError(t, err)
		assert.False(t, p.NFIPEligible)

		tx := testLoan()
		tx.Address.State = "TX"
		p, err = engine.PriceLoan(tx, 100, testParams())
		require.NoError(t, err)
		assert.True(t, p.NFIPEligible)
	})
}

func TestClimateAdjustedPremium(t *testing.T) {
	base := domain.InsurancePremium{
		LoanID:        "loan-1",
		HazardPremium: 1000,
		FloodPremium:  500,
		GrossPremium:  1500,
	}

	t.Run("no elapsed time leaves the premium unchanged", func(t *testing.T) {
		got, err := ClimateAdjustedPremium(base, domain.RCP85, 2023, 2023)
		require.NoError(t, err)
		assert.InDelta(t, base.HazardPremium, got.HazardPremium, 1e-12)
		assert.InDelta(t, base.FloodPremium, got.FloodPremium, 1e-12)
	})

	t.Run("full multipliers beyond the 30-year ramp", func(t *testing.T) {
		got, err := ClimateAdjustedPremium(base, domain.RCP85, 2023, 2100)
		require.NoError(t, err)

		// rcp_85: flood base 1.60; non-flood average (1.70+1.40+1.25+1.30)/4.
		assert.InDelta(t, 500*1.60, got.FloodPremium, 1e-9)
		assert.InDelta(t, 1000*1.4125, got.HazardPremium, 1e-9)
		assert.InDelta(t, got.HazardPremium+got.FloodPremium, got.GrossPremium, 1e-9)
	})

	t.Run("halfway through the ramp scales linearly", func(t *testing.T) {
		got, err := ClimateAdjustedPremium(base, domain.RCP85, 2023, 2038)
		require.NoError(t, err)
		assert.InDelta(t, 500*(1+0.60*0.5), got.FloodPremium, 1e-9)
	})

	t.Run("source premium is not mutated", func(t *testing.T) {
		before := base
		_, err := ClimateAdjustedPremium(base, domain.RCP85, 2023, 2100)
		require.NoError(t, err)
		assert.Equal(t, before, base)
	})

	t.Run("unknown scenario rejected", func(t *testing.T) {
		_, err := ClimateAdjustedPremium(base, "rcp_00", 2023, 2100)
		var cfgErr *domain.ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("rolls totals and averages up", func(t *testing.T) {
		premiums := []domain.InsurancePremium{
			{GrossPremium: 2000, HazardCoverage: 400000, FloodCoverage: 100000, ExpectedLoss: 1000, RiskLoading: 0.4},
			{GrossPremium: 1000, HazardCoverage: 200000, FloodCoverage: 50000, ExpectedLoss: 500, RiskLoading: 0.2},
		}

		s := Summarize(premiums)
		assert.Equal(t, 3000.0, s.TotalPremium)
		assert.Equal(t, 750000.0, s.TotalCoverage)
		assert.Equal(t, 1500.0, s.TotalExpectedLoss)
		assert.InDelta(t, 0.3, s.AverageRiskLoading, 1e-12)
		assert.InDelta(t, 750000.0/15000.0, s.CoverageAdequacyRatio, 1e-9)
		assert.InDelta(t, 0.5, s.ExpenseEfficiency, 1e-12)
	})

	t.Run("empty portfolio reports zeros", func(t *testing.T) {
		s := Summarize(nil)
		assert.Equal(t, domain.PortfolioPremiumSummary{}, s)
	})

	t.Run("zero expected loss skips the adequacy ratio", func(t *testing.T) {
		s := Summarize([]domain.InsurancePremium{{GrossPremium: 100}})
		assert.Equal(t, 0.0, s.CoverageAdequacyRatio)
		assert.Equal(t, 0.0, s.ExpenseEfficiency)
	})
}
