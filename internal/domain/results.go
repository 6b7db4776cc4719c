package domain

import "time"

// CurvePoint is one (return period, loss, probability) sample on an
// exceedance curve. Probability is exactly 1/ReturnPeriod.
type CurvePoint struct {
	ReturnPeriod int     `json:"return_period"`
	AnnualLoss   float64 `json:"annual_loss"`
	Probability  float64 `json:"probability"`
}

// ExceedanceCurve is a per-property, per-hazard loss-vs-probability curve
// under one scenario and analysis year. Derived, never mutated in place.
type ExceedanceCurve struct {
	PropertyID string       `json:"property_id"`
	HazardType string       `json:"hazard_type"`
	Scenario   string       `json:"scenario"`
	Year       int          `json:"year"`
	Points     []CurvePoint `json:"points"`
}

// ExceedanceMetrics are the tail-risk statistics of a portfolio curve.
type ExceedanceMetrics struct {
	VaR95           float64 `json:"var_95"`
	VaR99           float64 `json:"var_99"`
	TVaR95          float64 `json:"tvar_95"`
	TVaR99          float64 `json:"tvar_99"`
	ExpectedLoss    float64 `json:"expected_loss"`
	MaxProbableLoss float64 `json:"max_probable_loss"`
}

// ConcentrationRisk holds Herfindahl concentration indices over exposure
// shares, by state and by primary hazard type.
type ConcentrationRisk struct {
	GeographicIndex        float64 `json:"geographic_index"`
	HazardIndex            float64 `json:"hazard_index"`
	DiversificationBenefit float64 `json:"diversification_benefit"`
}

// AggregationDetail records how an independent loss sum was reduced by
// geographic diversification at one return period.
type AggregationDetail struct {
	ReturnPeriod           int     `json:"return_period"`
	IndependentSum         float64 `json:"independent_sum"`
	AggregateLoss          float64 `json:"aggregate_loss"`
	TailCorrelation        float64 `json:"tail_correlation"`
	DiversificationBenefit float64 `json:"diversification_benefit"`
}

// PortfolioExceedanceCurve is the portfolio-level aggregate curve for one
// scenario and year, with tail metrics and concentration indices.
type PortfolioExceedanceCurve struct {
	Scenario      string              `json:"scenario"`
	Year          int                 `json:"year"`
	Points        []CurvePoint        `json:"points"`
	Aggregation   []AggregationDetail `json:"aggregation"`
	Metrics       ExceedanceMetrics   `json:"metrics"`
	Concentration ConcentrationRisk   `json:"concentration"`
	ComputedAt    time.Time           `json:"computed_at"`
}

// ClimateImpactedMetrics is one loan's climate-adjusted risk parameters under
// one scenario and analysis year.
type ClimateImpactedMetrics struct {
	LoanID   string `json:"loan_id"`
	Scenario string `json:"scenario"`
	Year     int    `json:"year"`

	PropertyValueChange float64 `json:"property_value_change"` // fraction, floored at -0.30
	AdjustedLTV         float64 `json:"adjusted_ltv"`
	AdjustedDTI         float64 `json:"adjusted_dti"`
	InsuranceIncrease   float64 `json:"insurance_increase"` // fraction, capped at 2.0

	PDAdjusted           float64 `json:"pd_adjusted"`
	LGDAdjusted          float64 `json:"lgd_adjusted"`
	EADAdjusted          float64 `json:"ead_adjusted"`
	ExpectedLossClimate  float64 `json:"expected_loss_climate"`
	ExpectedLossBaseline float64 `json:"expected_loss_baseline"`
	StressFactor         float64 `json:"stress_factor"` // pd_adjusted / pd_baseline
}

// StateImpact is one state's loss deterioration within a scenario cell.
type StateImpact struct {
	State           string  `json:"state"`
	Exposure        float64 `json:"exposure"`
	BaselineLoss    float64 `json:"baseline_loss"`
	ClimateLoss     float64 `json:"climate_loss"`
	LossIncreasePct float64 `json:"loss_increase_pct"`
	Rank            int     `json:"rank"` // dense rank, 1 = worst
}

// BusinessImpact translates a cell's loss increase into P&L and capital terms.
type BusinessImpact struct {
	RegulatoryCapitalImpact  float64 `json:"regulatory_capital_impact"`
	ProvisionExpenseIncrease float64 `json:"provision_expense_increase"`
	NIMImpactBps             float64 `json:"nim_impact_bps"`
	ROEImpact                float64 `json:"roe_impact"`
}

// RCPScenarioResult is one (RCP, timeframe) cell of the stress grid.
type RCPScenarioResult struct {
	Scenario  string `json:"scenario"`
	Timeframe string `json:"timeframe"`
	Year      int    `json:"year"`

	TotalExposure        float64 `json:"total_exposure"`
	BaselineExpectedLoss float64 `json:"baseline_expected_loss"`
	ClimateExpectedLoss  float64 `json:"climate_expected_loss"`
	AmplificationFactor  float64 `json:"amplification_factor"`
	VaR95                float64 `json:"var_95"`
	TVaR95               float64 `json:"tvar_95"`
	AvgStressedPD        float64 `json:"avg_stressed_pd"`
	AvgStressedLGD       float64 `json:"avg_stressed_lgd"`

	LoanMetrics    []ClimateImpactedMetrics `json:"loan_metrics"`
	StateBreakdown []StateImpact            `json:"state_breakdown"`
	Impact         BusinessImpact           `json:"business_impact"`
}

// CCARStressTest is the capital-adequacy verdict for one regulatory window.
type CCARStressTest struct {
	Timeframe         string  `json:"timeframe"` // "ccar_3yr" or "ccar_5yr"
	WorstCaseScenario string  `json:"worst_case_scenario"`
	StressLoss        float64 `json:"stress_loss"`
	CapitalImpact     float64 `json:"capital_impact"`

	StressedTier1      float64 `json:"stressed_tier1_ratio"`
	StressedCET1       float64 `json:"stressed_cet1_ratio"`
	StressedLeverage   float64 `json:"stressed_leverage_ratio"`
	MarginAboveMinimum float64 `json:"margin_above_minimum"`
	PassStatus         bool    `json:"pass_status"`

	DividendCapacity      float64 `json:"dividend_capacity"`
	LendingCapacityChange float64 `json:"lending_capacity_change"`
	StrategicAdjustment   bool    `json:"strategic_adjustment"`
}

// Sensitivity is the elasticity of portfolio expected loss to a one-at-a-time
// bump of a single model parameter.
type Sensitivity struct {
	Parameter  string  `json:"parameter"`
	Bump       float64 `json:"bump"` // fractional bump applied, e.g. 0.10
	Elasticity float64 `json:"elasticity"`
}

// InsurancePremium is an actuarially priced policy for one loan, with the
// Young-2004 intermediate quantities retained for audit.
type InsurancePremium struct {
	LoanID string `json:"loan_id"`

	HazardCoverage float64 `json:"hazard_coverage"`
	FloodCoverage  float64 `json:"flood_coverage"`
	HazardPremium  float64 `json:"hazard_premium"`
	FloodPremium   float64 `json:"flood_premium"`
	GrossPremium   float64 `json:"gross_premium"`

	HazardDeductible float64 `json:"hazard_deductible"`
	FloodDeductible  float64 `json:"flood_deductible"`
	CoverageTier     string  `json:"coverage_tier"` // "basic", "extended", "comprehensive"
	NFIPEligible     bool    `json:"nfip_eligible"`

	ExpectedLoss           float64 `json:"expected_loss"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
	RiskLoading            float64 `json:"risk_loading"`
	ExpenseRatio           float64 `json:"expense_ratio"`
	ProfitMargin           float64 `json:"profit_margin"`
}

// PortfolioPremiumSummary is the premium engine's portfolio roll-up.
type PortfolioPremiumSummary struct {
	TotalPremium          float64 `json:"total_premium"`
	TotalCoverage         float64 `json:"total_coverage"`
	TotalExpectedLoss     float64 `json:"total_expected_loss"`
	AverageRiskLoading    float64 `json:"average_risk_loading"`
	CoverageAdequacyRatio float64 `json:"coverage_adequacy_ratio"`
	ExpenseEfficiency     float64 `json:"expense_efficiency"`
}
