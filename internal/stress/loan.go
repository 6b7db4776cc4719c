// Package stress propagates RCP climate scenarios through loan-level credit
// parameters and rolls them up to portfolio stress results, CCAR capital
// verdicts, and rule-based recommendations.
//
// The grid is 4 scenarios x 4 timeframes = 16 cells. Loans without matching
// climate scenario data fall back to baseline metrics; that is the documented
// missing-data path, not an error.
package stress

import (
	"math"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// Weights of the physical perils driving property-value deterioration.
// Hail and tornado damage is insurable and episodic; flood, wildfire, and
// hurricane exposure is what moves collateral prices.
var valueImpactWeights = map[string]float64{
	domain.HazardFlood:     0.40,
	domain.HazardHurricane: 0.35,
	domain.HazardWildfire:  0.25,
}

const (
	valueChangeFloor     = -0.30
	insuranceIncreaseCap = 2.0
	pdCap                = 0.99
	lgdFloor             = 0.10
	lgdCeiling           = 0.95
	fullImpactYears      = 30.0
)

// AdjustLoan computes a loan's climate-adjusted risk metrics for one scenario
// projection and analysis year. The adjustment chain is: time ramp →
// property-value change → LTV/DTI → PD → LGD → EAD, with each stage feeding
// the next. The input loan is never modified.
func AdjustLoan(loan domain.LoanRecord, scenario string, projection domain.RCPProjection, baselineYear, analysisYear int) domain.ClimateImpactedMetrics {
	// Full climate impact is reached after 30 years.
	f := math.Min(1, float64(analysisYear-baselineYear)/fullImpactYears)
	if f < 0 {
		f = 0
	}

	valueChange := propertyValueChange(loan, projection, f)

	adjustedValue := loan.PropertyValue * (1 + valueChange)
	adjustedLTV := loan.LTV
	if adjustedValue > 0 {
		adjustedLTV = loan.Outstanding / adjustedValue
	}

	insuranceIncrease := insurancePremiumIncrease(loan.Address.State, projection, f)
	adjustedDTI := loan.DTI
	if loan.BorrowerIncome > 0 {
		// Monthly premium burden over monthly income.
		adjustedDTI += loan.Insurance.TotalPremium() * insuranceIncrease / loan.BorrowerIncome
	}

	pdAdj := climateAdjustedPD(loan.Risk.PDBaseline, adjustedLTV, adjustedDTI, projection, f)
	lgdAdj := climateAdjustedLGD(loan.Risk.LGDBaseline, adjustedLTV, valueChange, projection)
	eadAdj := loan.Risk.EAD * (1 + math.Max(0, adjustedLTV-0.9)*0.1)

	stressFactor := 1.0
	if loan.Risk.PDBaseline > 0 {
		stressFactor = pdAdj / loan.Risk.PDBaseline
	}

	return domain.ClimateImpactedMetrics{
		LoanID:               loan.ID,
		Scenario:             scenario,
		Year:                 analysisYear,
		PropertyValueChange:  valueChange,
		AdjustedLTV:          adjustedLTV,
		AdjustedDTI:          adjustedDTI,
		InsuranceIncrease:    insuranceIncrease,
		PDAdjusted:           pdAdj,
		LGDAdjusted:          lgdAdj,
		EADAdjusted:          eadAdj,
		ExpectedLossClimate:  pdAdj * lgdAdj * eadAdj,
		ExpectedLossBaseline: loan.Risk.ExpectedLoss,
		StressFactor:         stressFactor,
	}
}

// BaselineMetrics returns a loan's unmodified metrics in the climate-adjusted
// shape, used when the property has no scenario data.
func BaselineMetrics(loan domain.LoanRecord, scenario string, analysisYear int) domain.ClimateImpactedMetrics {
	return domain.ClimateImpactedMetrics{
		LoanID:               loan.ID,
		Scenario:             scenario,
		Year:                 analysisYear,
		PropertyValueChange:  0,
		AdjustedLTV:          loan.LTV,
		AdjustedDTI:          loan.DTI,
		InsuranceIncrease:    0,
		PDAdjusted:           loan.Risk.PDBaseline,
		LGDAdjusted:          loan.Risk.LGDBaseline,
		EADAdjusted:          loan.Risk.EAD,
		ExpectedLossClimate:  loan.Risk.ExpectedLoss,
		ExpectedLossBaseline: loan.Risk.ExpectedLoss,
		StressFactor:         1.0,
	}
}

// propertyValueChange is the weighted sum of per-hazard physical-risk impacts
// plus, for non-single-family collateral, a transition-risk term from
// temperature and precipitation change. Floored at -30%: beyond that the
// market treats the property as repriced, not worthless.
func propertyValueChange(loan domain.LoanRecord, projection domain.RCPProjection, f float64) float64 {
	var physical float64
	for hazard, weight := range valueImpactWeights {
		multiplier := projection.HazardMultipliers[hazard]
		excess := math.Max(0, multiplier-1)
		physical += domain.StateHazardMultiplier(loan.Address.State, hazard) * excess * weight
	}

	change := -physical * f

	if loan.LoanType != "single_family" {
		transition := (projection.TemperatureChange*0.01 + math.Abs(projection.PrecipitationChange)*0.001) * f
		change -= transition
	}

	return math.Max(valueChangeFloor, change)
}

// insurancePremiumIncrease scales the average hazard-multiplier excess by the
// state's overall risk multiplier and the time ramp, capped at +200%.
func insurancePremiumIncrease(state string, projection domain.RCPProjection, f float64) float64 {
	if len(projection.HazardMultipliers) == 0 {
		return 0
	}
	var excess float64
	for _, m := range projection.HazardMultipliers {
		excess += math.Max(0, m-1)
	}
	excess /= float64(len(projection.HazardMultipliers))

	return math.Min(insuranceIncreaseCap, excess*1.5*domain.StateRiskMultiplier(state)*f)
}

// climateAdjustedPD applies LTV and DTI stress with a multiplicative
// interaction term: a borrower who is both underwater and income-stretched
// defaults more than the sum of the two effects.
func climateAdjustedPD(pdBaseline, ltv, dti float64, projection domain.RCPProjection, f float64) float64 {
	ltvStress := math.Max(0, (ltv-0.8)*2)
	dtiStress := math.Max(0, (dti-0.43)*1.5)
	hazardStress := (projection.TemperatureChange*0.1 + projection.SeaLevelRise*0.2) * f

	combined := (ltvStress + dtiStress + hazardStress) * (1 + ltvStress*dtiStress*0.5)
	return math.Min(pdCap, pdBaseline*(1+combined))
}

// climateAdjustedLGD adds collateral-thinning and physical-exposure terms to
// the baseline LGD, clamped to [0.10, 0.95].
func climateAdjustedLGD(lgdBaseline, ltv, valueChange float64, projection domain.RCPProjection) float64 {
	lgd := lgdBaseline +
		math.Max(0, ltv-0.8)*0.5 +
		math.Abs(valueChange)*0.3 +
		projection.TemperatureChange*0.02 + projection.SeaLevelRise*0.05
	return domain.Clamp(lgd, lgdFloor, lgdCeiling)
}
