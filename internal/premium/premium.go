// Package premium prices hazard and flood insurance for mortgage collateral
// using the Young (2004) premium principle: expected loss is loaded for risk
// via the coefficient of variation, then grossed up for expenses and profit.
package premium

import (
	"math"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// RiskParams are the pricing assumptions supplied by the caller.
type RiskParams struct {
	CorrelationFactor      float64 `json:"correlation_factor"`
	UncertaintyCoefficient float64 `json:"uncertainty_coefficient"`
	ExpenseRatio           float64 `json:"expense_ratio"`
	ProfitMargin           float64 `json:"profit_margin"`
	CapitalRequirement     float64 `json:"capital_requirement"`
}

// Default premium split when the loan carries no baseline premiums to
// proportion against: 70% hazard, 30% flood.
const (
	defaultHazardShare = 0.70
	defaultFloodShare  = 0.30
)

// Deductible schedules: rate against property value, clamped to [min, max].
const (
	hazardDeductibleRate = 0.01
	hazardDeductibleMin  = 500.0
	hazardDeductibleMax  = 25000.0

	floodDeductibleRate = 0.02
	floodDeductibleMin  = 1000.0
	floodDeductibleMax  = 10000.0
)

// nfipFloodCoverageCap is the NFIP building coverage limit used when the loan
// has no existing flood policy to carry forward.
const nfipFloodCoverageCap = 250000.0

// Engine prices policies. The NFIP exclusion list is configuration: states in
// it are ineligible for the National Flood Insurance Program.
type Engine struct {
	nfipExcluded map[string]bool
}

// NewEngine creates a premium engine with the given NFIP-excluded states.
func NewEngine(nfipExcludedStates []string) *Engine {
	excluded := make(map[string]bool, len(nfipExcludedStates))
	for _, s := range nfipExcludedStates {
		excluded[s] = true
	}
	return &Engine{nfipExcluded: excluded}
}

// PriceLoan converts an expected annual loss into a gross premium for one
// loan. The expense ratio and profit margin must sum below 1; otherwise the
// gross-up denominator is non-positive and the call fails fast with a typed
// error instead of producing an infinite premium.
func (e *Engine) PriceLoan(loan domain.LoanRecord, expectedAnnualLoss float64, params RiskParams) (domain.InsurancePremium, error) {
	if err := validateParams(params); err != nil {
		return domain.InsurancePremium{}, err
	}

	cov := coefficientOfVariation(loan.PropertyValue, params.UncertaintyCoefficient)
	loading := riskLoading(expectedAnnualLoss, cov, params)
	loadedLoss := expectedAnnualLoss * (1 + loading)
	grossPremium := loadedLoss / (1 - params.ExpenseRatio - params.ProfitMargin)

	hazardShare, floodShare := premiumSplit(loan.Insurance)

	return domain.InsurancePremium{
		LoanID:                 loan.ID,
		HazardCoverage:         hazardCoverage(loan),
		FloodCoverage:          floodCoverage(loan),
		HazardPremium:          grossPremium * hazardShare,
		FloodPremium:           grossPremium * floodShare,
		GrossPremium:           grossPremium,
		HazardDeductible:       domain.Clamp(loan.PropertyValue*hazardDeductibleRate, hazardDeductibleMin, hazardDeductibleMax),
		FloodDeductible:        domain.Clamp(loan.PropertyValue*floodDeductibleRate, floodDeductibleMin, floodDeductibleMax),
		CoverageTier:           coverageTier(loan.PropertyValue),
		NFIPEligible:           !e.nfipExcluded[loan.Address.State],
		ExpectedLoss:           expectedAnnualLoss,
		CoefficientOfVariation: cov,
		RiskLoading:            loading,
		ExpenseRatio:           params.ExpenseRatio,
		ProfitMargin:           params.ProfitMargin,
	}, nil
}

func validateParams(params RiskParams) error {
	if params.ExpenseRatio < 0 {
		return &domain.ConfigError{Field: "expense_ratio", Value: params.ExpenseRatio, Reason: "must be non-negative"}
	}
	if params.ProfitMargin < 0 {
		return &domain.ConfigError{Field: "profit_margin", Value: params.ProfitMargin, Reason: "must be non-negative"}
	}
	if sum := params.ExpenseRatio + params.ProfitMargin; sum >= 1 {
		return &domain.ConfigError{
			Field: "expense_ratio+profit_margin", Value: sum,
			Reason: "must sum below 1 for the premium gross-up to be positive",
		}
	}
	return nil
}

// coefficientOfVariation grows with property value (larger properties carry
// more heterogeneous loss outcomes) and model uncertainty, capped at 2.0.
func coefficientOfVariation(propertyValue, uncertainty float64) float64 {
	return math.Min(2.0, 0.5+propertyValue/1e6*0.3+uncertainty)
}

// riskLoading is variance/EL² scaled by correlation and uncertainty, clamped
// to [0.1, 1.0]. Zero expected loss carries zero loading.
func riskLoading(expectedLoss, cov float64, params RiskParams) float64 {
	if expectedLoss <= 0 {
		return 0
	}
	variance := (expectedLoss * cov) * (expectedLoss * cov)
	basic := variance / (expectedLoss * expectedLoss)
	return domain.Clamp(basic*params.CorrelationFactor*(1+params.UncertaintyCoefficient), 0.1, 1.0)
}

// premiumSplit proportions the gross premium like the loan's existing
// hazard/flood premiums, falling back to 70/30 when there is no baseline.
func premiumSplit(cov domain.InsuranceCoverage) (hazardShare, floodShare float64) {
	total := cov.TotalPremium()
	if total <= 0 {
		return defaultHazardShare, defaultFloodShare
	}
	return cov.HazardPremium / total, cov.FloodPremium / total
}

func hazardCoverage(loan domain.LoanRecord) float64 {
	if loan.Insurance.HazardCoverage > 0 {
		return loan.Insurance.HazardCoverage
	}
	return loan.PropertyValue
}

func floodCoverage(loan domain.LoanRecord) float64 {
	if loan.Insurance.FloodCoverage > 0 {
		return loan.Insurance.FloodCoverage
	}
	return math.Min(nfipFloodCoverageCap, loan.PropertyValue)
}

// coverageTier buckets property value: <300k basic, <750k extended, else
// comprehensive.
func coverageTier(propertyValue float64) string {
	switch {
	case propertyValue < 300000:
		return "basic"
	case propertyValue < 750000:
		return "extended"
	default:
		return "comprehensive"
	}
}
