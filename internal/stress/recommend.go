package stress

import (
	"fmt"
	"math"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// Recommendations evaluates the rule set in fixed order and returns
// human-readable actions. Rules: (1) any failed stress test → capital buffer,
// (2) worst-case amplification above the risk-appetite ceiling → rebalancing,
// (3) any |elasticity| > 1 → hedging. No rule firing yields an empty list.
func Recommendations(tests []domain.CCARStressTest, cells []domain.RCPScenarioResult, sensitivities []domain.Sensitivity, objective domain.BusinessObjective) []string {
	var recs []string

	for _, t := range tests {
		if !t.PassStatus {
			recs = append(recs, fmt.Sprintf(
				"Increase capital buffers: %s stress test fails under %s with stressed tier-1 at %.2f%% (minimum %.2f%%)",
				t.Timeframe, t.WorstCaseScenario, t.StressedTier1*100, domain.Tier1Minimum*100))
		}
	}

	if objective.MaxAmplificationFactor > 0 {
		worst := worstAmplification(cells)
		if worst.AmplificationFactor > objective.MaxAmplificationFactor {
			recs = append(recs, fmt.Sprintf(
				"Rebalance portfolio geography: %s/%s amplifies expected loss %.2fx, above the %.2fx risk appetite ceiling",
				worst.Scenario, worst.Timeframe, worst.AmplificationFactor, objective.MaxAmplificationFactor))
		}
	}

	for _, s := range sensitivities {
		if math.Abs(s.Elasticity) > 1.0 {
			recs = append(recs, fmt.Sprintf(
				"Hedge %s exposure: expected loss elasticity %.2f exceeds 1.0",
				s.Parameter, s.Elasticity))
		}
	}

	return recs
}

func worstAmplification(cells []domain.RCPScenarioResult) domain.RCPScenarioResult {
	var worst domain.RCPScenarioResult
	for i, c := range cells {
		if i == 0 || c.AmplificationFactor > worst.AmplificationFactor {
			worst = c
		}
	}
	return worst
}
