package premium

import (
	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// Summarize rolls priced policies up to portfolio level. Ratios with zero
// denominators report 0 rather than failing: an unpriced portfolio is a
// degenerate input, not an error.
func Summarize(premiums []domain.InsurancePremium) domain.PortfolioPremiumSummary {
	var totalPremium, totalCoverage, totalEL, loadingSum float64
	for _, p := range premiums {
		totalPremium += p.GrossPremium
		totalCoverage += p.HazardCoverage + p.FloodCoverage
		totalEL += p.ExpectedLoss
		loadingSum += p.RiskLoading
	}

	summary := domain.PortfolioPremiumSummary{
		TotalPremium:      totalPremium,
		TotalCoverage:     totalCoverage,
		TotalExpectedLoss: totalEL,
	}
	if n := len(premiums); n > 0 {
		summary.AverageRiskLoading = loadingSum / float64(n)
	}
	if totalEL > 0 {
		// Adequacy benchmarks coverage against a 10x expected-loss buffer.
		summary.CoverageAdequacyRatio = totalCoverage / (totalEL * 10)
	}
	if totalPremium > 0 {
		summary.ExpenseEfficiency = totalEL / totalPremium
	}
	return summary
}
