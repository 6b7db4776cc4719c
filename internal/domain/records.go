package domain

// RiskMetrics holds the baseline credit parameters attached to a loan.
// ExpectedLoss must equal PDBaseline * LGDBaseline * EAD at creation.
type RiskMetrics struct {
	PDBaseline   float64 `json:"pd_baseline"`
	LGDBaseline  float64 `json:"lgd_baseline"`
	EAD          float64 `json:"ead"`
	ExpectedLoss float64 `json:"expected_loss"`
}

// InsuranceCoverage holds the loan's existing hazard and flood policies.
type InsuranceCoverage struct {
	HazardCoverage float64 `json:"hazard_coverage"`
	FloodCoverage  float64 `json:"flood_coverage"`
	HazardPremium  float64 `json:"hazard_premium"`
	FloodPremium   float64 `json:"flood_premium"`
}

// Address locates the collateral property.
type Address struct {
	State  string  `json:"state"`
	County string  `json:"county"`
	Zip    string  `json:"zip"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// LoanRecord is a single mortgage loan with its collateral property.
type LoanRecord struct {
	ID          string  `json:"id"`
	PropertyID  string  `json:"property_id"`
	LoanType    string  `json:"loan_type"` // "single_family", "multi_family", "condo", "commercial"
	TermMonths  int     `json:"term_months"`
	Rate        float64 `json:"rate"`
	LoanAmount  float64 `json:"loan_amount"`
	Outstanding float64 `json:"outstanding_balance"`

	PropertyValue float64 `json:"property_value"`
	LTV           float64 `json:"ltv"`
	CombinedLTV   float64 `json:"combined_ltv"`

	BorrowerIncome float64 `json:"borrower_income"`
	DTI            float64 `json:"dti"`
	CreditScore    int     `json:"credit_score"`

	Address   Address           `json:"address"`
	Risk      RiskMetrics       `json:"risk_metrics"`
	Insurance InsuranceCoverage `json:"insurance_coverage"`
}

// ConfidenceInterval is the catastrophe model's p5/p50/p95 band on the loss table.
type ConfidenceInterval struct {
	P5  float64 `json:"p5"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
}

// HazardRecord is a per-property, per-hazard loss table keyed by return period.
// Losses must be monotonically non-decreasing across ReturnPeriods order.
type HazardRecord struct {
	PropertyID string             `json:"property_id"`
	HazardType string             `json:"hazard_type"`
	Losses     map[int]float64    `json:"losses"` // return period → annual loss
	Confidence ConfidenceInterval `json:"confidence"`
}

// RCPProjection is one emissions pathway's projection for a property.
type RCPProjection struct {
	TemperatureChange   float64            `json:"temperature_change"`   // °C vs baseline
	PrecipitationChange float64            `json:"precipitation_change"` // fraction vs baseline
	SeaLevelRise        float64            `json:"sea_level_rise"`       // meters vs baseline
	HazardMultipliers   map[string]float64 `json:"hazard_multipliers"`   // hazard type → frequency multiplier
}

// ClimateScenarioData carries all RCP projections for one property.
type ClimateScenarioData struct {
	PropertyID      string                   `json:"property_id"`
	BaselineYear    int                      `json:"baseline_year"`
	ProjectionYears []int                    `json:"projection_years"`
	Scenarios       map[string]RCPProjection `json:"scenarios"` // RCP key → projection
}

// BusinessObjective holds the institution's risk-appetite thresholds, consumed
// by the recommendation rules.
type BusinessObjective struct {
	MaxAmplificationFactor float64 `json:"max_amplification_factor"`
	MaxPortfolioLossRate   float64 `json:"max_portfolio_loss_rate"`
}

// NewRiskMetrics builds baseline risk metrics with the expected-loss identity
// applied, so ExpectedLoss is always consistent with its factors.
func NewRiskMetrics(pd, lgd, ead float64) RiskMetrics {
	return RiskMetrics{
		PDBaseline:   pd,
		LGDBaseline:  lgd,
		EAD:          ead,
		ExpectedLoss: pd * lgd * ead,
	}
}

// TotalPremium returns the combined annual hazard and flood premium.
func (c InsuranceCoverage) TotalPremium() float64 {
	return c.HazardPremium + c.FloodPremium
}

// Projection returns the projection for an RCP key, reporting whether the
// property has data for that scenario. A missing scenario is the documented
// baseline-fallback path, not an error.
func (c ClimateScenarioData) Projection(scenario string) (RCPProjection, bool) {
	p, ok := c.Scenarios[scenario]
	return p, ok
}
