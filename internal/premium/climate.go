package premium

import (
	"math"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// ClimateAdjustedPremium re-prices a policy for a scenario and analysis year.
// Both components are scaled by a time-ramped multiplier of the same form as
// the exceedance engine's climate multiplier: linear over the horizon, full
// effect by year 30. The flood component follows the flood multiplier; the
// hazard component follows the average of the four non-flood perils. The
// source premium is copied, never mutated.
func ClimateAdjustedPremium(base domain.InsurancePremium, scenario string, baselineYear, analysisYear int) (domain.InsurancePremium, error) {
	f := math.Min(1, float64(analysisYear-baselineYear)/30.0)
	if f < 0 {
		f = 0
	}

	floodBase, err := scenarioBaseMultiplier(scenario, domain.HazardFlood)
	if err != nil {
		return domain.InsurancePremium{}, err
	}

	var hazardSum float64
	nonFlood := []string{domain.HazardWildfire, domain.HazardHurricane, domain.HazardHail, domain.HazardTornado}
	for _, h := range nonFlood {
		m, err := scenarioBaseMultiplier(scenario, h)
		if err != nil {
			return domain.InsurancePremium{}, err
		}
		hazardSum += m
	}
	hazardBase := hazardSum / float64(len(nonFlood))

	floodMult := 1 + (floodBase-1)*f
	hazardMult := 1 + (hazardBase-1)*f

	adjusted := base
	adjusted.HazardPremium = base.HazardPremium * hazardMult
	adjusted.FloodPremium = base.FloodPremium * floodMult
	adjusted.GrossPremium = adjusted.HazardPremium + adjusted.FloodPremium
	return adjusted, nil
}

// scenarioBaseMultiplier reads the end-of-century multiplier for a scenario
// and hazard by evaluating the ramp at its endpoint.
func scenarioBaseMultiplier(scenario, hazard string) (float64, error) {
	return domain.ClimateMultiplier(scenario, hazard, 2100)
}
