package stress

import (
	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// sensitivityBump is the one-at-a-time fractional shock applied per parameter.
const sensitivityBump = 0.10

// Sensitivity parameter names.
const (
	ParamPDBaseline    = "pd_baseline"
	ParamLGDBaseline   = "lgd_baseline"
	ParamPropertyValue = "property_value"
	ParamInsuranceCost = "insurance_cost"
)

// Sensitivities measures the elasticity of portfolio climate expected loss to
// +10% bumps of each model input, evaluated at one reference (scenario, year)
// cell. Elasticity = (%ΔEL)/(%Δparameter); |elasticity| > 1 means losses move
// more than proportionally and flags a hedging candidate.
func Sensitivities(loans []domain.LoanRecord, scenarios []domain.ClimateScenarioData, scenario string, year int) []domain.Sensitivity {
	byProperty := make(map[string]domain.ClimateScenarioData, len(scenarios))
	for _, s := range scenarios {
		byProperty[s.PropertyID] = s
	}

	baseEL := portfolioClimateEL(loans, byProperty, scenario, year)

	params := []struct {
		name string
		bump func(domain.LoanRecord) domain.LoanRecord
	}{
		{ParamPDBaseline, bumpPD},
		{ParamLGDBaseline, bumpLGD},
		{ParamPropertyValue, bumpPropertyValue},
		{ParamInsuranceCost, bumpInsuranceCost},
	}

	out := make([]domain.Sensitivity, 0, len(params))
	for _, p := range params {
		bumped := make([]domain.LoanRecord, len(loans))
		for i, l := range loans {
			bumped[i] = p.bump(l)
		}
		bumpedEL := portfolioClimateEL(bumped, byProperty, scenario, year)

		elasticity := 0.0
		if baseEL > 0 {
			elasticity = (bumpedEL - baseEL) / baseEL / sensitivityBump
		}
		out = append(out, domain.Sensitivity{
			Parameter:  p.name,
			Bump:       sensitivityBump,
			Elasticity: elasticity,
		})
	}
	return out
}

func portfolioClimateEL(loans []domain.LoanRecord, scenarios map[string]domain.ClimateScenarioData, scenario string, year int) float64 {
	var total float64
	for _, loan := range loans {
		total += adjustOrFallback(loan, scenarios, scenario, year).ExpectedLossClimate
	}
	return total
}

// The bump constructors copy the loan and override the shocked fields,
// keeping derived quantities (LTV, expected loss) consistent.

func bumpPD(l domain.LoanRecord) domain.LoanRecord {
	l.Risk = domain.NewRiskMetrics(l.Risk.PDBaseline*(1+sensitivityBump), l.Risk.LGDBaseline, l.Risk.EAD)
	return l
}

func bumpLGD(l domain.LoanRecord) domain.LoanRecord {
	l.Risk = domain.NewRiskMetrics(l.Risk.PDBaseline, l.Risk.LGDBaseline*(1+sensitivityBump), l.Risk.EAD)
	return l
}

func bumpPropertyValue(l domain.LoanRecord) domain.LoanRecord {
	l.PropertyValue *= 1 + sensitivityBump
	if l.PropertyValue > 0 {
		l.LTV = l.Outstanding / l.PropertyValue
	}
	return l
}

func bumpInsuranceCost(l domain.LoanRecord) domain.LoanRecord {
	l.Insurance.HazardPremium *= 1 + sensitivityBump
	l.Insurance.FloodPremium *= 1 + sensitivityBump
	return l
}
