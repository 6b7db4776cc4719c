package stress

import (
	"math"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// Baseline capital position assumed for the stress tests. The tier-1 start
// point and the RWA normalizer are part of the output contract.
const (
	baselineTier1     = 0.12
	rwaNormalizer     = 1e8
	capitalChargeRate = 0.08
	lendingMultiplier = 12.5
	dividendBase      = 1e9
)

// BuildStressTests derives one CCAR verdict per regulatory window. Within
// each window the scenario with the highest amplification factor is the worst
// case; its climate expected loss drives the capital impact.
func BuildStressTests(cells []domain.RCPScenarioResult) []domain.CCARStressTest {
	tests := make([]domain.CCARStressTest, 0, 2)
	for _, timeframe := range []string{domain.TimeframeCCAR3yr, domain.TimeframeCCAR5yr} {
		if worst, ok := worstCase(cells, timeframe); ok {
			tests = append(tests, stressTest(timeframe, worst))
		}
	}
	return tests
}

// worstCase picks the cell with the highest amplification factor in a window.
func worstCase(cells []domain.RCPScenarioResult, timeframe string) (domain.RCPScenarioResult, bool) {
	var worst domain.RCPScenarioResult
	found := false
	for _, c := range cells {
		if c.Timeframe != timeframe {
			continue
		}
		if !found || c.AmplificationFactor > worst.AmplificationFactor {
			worst = c
			found = true
		}
	}
	return worst, found
}

// stressTest applies the capital decision procedure to a worst-case cell.
// Pass requires the stressed tier-1 ratio to be strictly above the 4.5%
// regulatory minimum; landing exactly on the minimum fails.
func stressTest(timeframe string, worst domain.RCPScenarioResult) domain.CCARStressTest {
	stressLoss := worst.ClimateExpectedLoss
	capitalImpact := stressLoss * capitalChargeRate

	tier1 := baselineTier1 - capitalImpact/rwaNormalizer
	cet1 := tier1 - 0.01
	leverage := 0.08 - 0.005

	return domain.CCARStressTest{
		Timeframe:             timeframe,
		WorstCaseScenario:     worst.Scenario,
		StressLoss:            stressLoss,
		CapitalImpact:         capitalImpact,
		StressedTier1:         tier1,
		StressedCET1:          cet1,
		StressedLeverage:      leverage,
		MarginAboveMinimum:    math.Max(0, tier1-domain.Tier1Minimum),
		PassStatus:            tier1 > domain.Tier1Minimum,
		DividendCapacity:      math.Max(0, (tier1-domain.Tier1WellCapitalized)*dividendBase),
		LendingCapacityChange: -stressLoss * lendingMultiplier,
		StrategicAdjustment:   tier1 < domain.Tier1StrategicFloor,
	}
}
