// Package synthetic produces statistically plausible loan portfolios with
// matching hazard and climate scenario records, for development and testing
// without a live hazard-data provider. All output is a pure function of the
// seed, so fixtures are reproducible across runs and machines.
package synthetic

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// Config controls portfolio generation.
type Config struct {
	Seed         int64
	Loans        int
	BaselineYear int
}

// Portfolio bundles the generated inputs for the three engines.
type Portfolio struct {
	Loans     []domain.LoanRecord          `json:"loans"`
	Hazards   []domain.HazardRecord        `json:"hazards"`
	Scenarios []domain.ClimateScenarioData `json:"scenarios"`
}

// stateWeights skews geography toward climate-exposed mortgage markets.
var stateWeights = []struct {
	state  string
	county string
	weight float64
}{
	{"TX", "Harris", 0.18},
	{"FL", "Miami-Dade", 0.16},
	{"CA", "Los Angeles", 0.15},
	{"LA", "Orleans", 0.08},
	{"OK", "Oklahoma", 0.07},
	{"NC", "Wake", 0.07},
	{"CO", "Denver", 0.06},
	{"KS", "Sedgwick", 0.05},
	{"NY", "Kings", 0.09},
	{"IL", "Cook", 0.09},
}

// hazardsByState lists the perils modeled for each state's properties.
var hazardsByState = map[string][]string{
	"TX": {domain.HazardFlood, domain.HazardHail, domain.HazardTornado, domain.HazardHurricane},
	"FL": {domain.HazardFlood, domain.HazardHurricane},
	"CA": {domain.HazardWildfire, domain.HazardFlood},
	"LA": {domain.HazardFlood, domain.HazardHurricane},
	"OK": {domain.HazardTornado, domain.HazardHail},
	"NC": {domain.HazardHurricane, domain.HazardFlood},
	"CO": {domain.HazardHail, domain.HazardWildfire},
	"KS": {domain.HazardTornado, domain.HazardHail},
	"NY": {domain.HazardFlood},
	"IL": {domain.HazardTornado, domain.HazardHail},
}

// Scenario-level projection anchors: end-of-century temperature change (°C),
// precipitation change (fraction), and sea level rise (m).
var scenarioAnchors = map[string]struct {
	temp, precip, slr float64
}{
	domain.RCP26: {1.0, 0.02, 0.30},
	domain.RCP45: {1.8, 0.05, 0.45},
	domain.RCP60: {2.5, 0.08, 0.60},
	domain.RCP85: {3.7, 0.12, 0.85},
}

// Generate builds a full synthetic portfolio from the config. The generator
// draws from a single seeded stream, so identical configs produce identical
// portfolios.
func Generate(cfg Config) (Portfolio, error) {
	if cfg.Loans <= 0 {
		return Portfolio{}, &domain.ConfigError{Field: "loans", Value: cfg.Loans, Reason: "portfolio size must be positive"}
	}
	if cfg.BaselineYear == 0 {
		cfg.BaselineYear = 2023
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	p := Portfolio{
		Loans:     make([]domain.LoanRecord, 0, cfg.Loans),
		Hazards:   make([]domain.HazardRecord, 0, cfg.Loans*2),
		Scenarios: make([]domain.ClimateScenarioData, 0, cfg.Loans),
	}

	for i := 0; i < cfg.Loans; i++ {
		loan := generateLoan(rng, i)
		p.Loans = append(p.Loans, loan)
		p.Hazards = append(p.Hazards, generateHazards(rng, loan)...)
		p.Scenarios = append(p.Scenarios, generateScenarioData(rng, loan.PropertyID, cfg.BaselineYear))
	}

	return p, nil
}

func generateLoan(rng *rand.Rand, seq int) domain.LoanRecord {
	geo := pickState(rng)

	propertyValue := math.Round(150000 + rng.Float64()*1350000)
	ltv := 0.50 + rng.Float64()*0.45
	loanAmount := math.Round(propertyValue * ltv)
	outstanding := math.Round(loanAmount * (0.70 + rng.Float64()*0.30))

	income := math.Round(60000 + rng.Float64()*240000)
	dti := 0.20 + rng.Float64()*0.30
	creditScore := 580 + rng.Intn(241)

	pd := pdFromCreditScore(creditScore, rng)
	lgd := 0.20 + rng.Float64()*0.25

	floodPremium := 0.0
	if hasFloodExposure(geo.state) {
		floodPremium = math.Round(propertyValue * (0.002 + rng.Float64()*0.002))
	}

	loanType := "single_family"
	if rng.Float64() < 0.25 {
		loanType = []string{"multi_family", "condo", "commercial"}[rng.Intn(3)]
	}

	return domain.LoanRecord{
		ID:          uuidFrom(rng),
		PropertyID:  fmt.Sprintf("prop-%06d", seq),
		LoanType:    loanType,
		TermMonths:  360,
		Rate:        0.03 + rng.Float64()*0.05,
		LoanAmount:  loanAmount,
		Outstanding: outstanding,

		PropertyValue: propertyValue,
		LTV:           outstanding / propertyValue,
		CombinedLTV:   math.Min(1.2, outstanding/propertyValue+rng.Float64()*0.05),

		BorrowerIncome: income,
		DTI:            dti,
		CreditScore:    creditScore,

		Address: domain.Address{
			State:  geo.state,
			County: geo.county,
			Zip:    fmt.Sprintf("%05d", 10000+rng.Intn(89999)),
			Lat:    25 + rng.Float64()*22,
			Lon:    -124 + rng.Float64()*57,
		},
		Risk: domain.NewRiskMetrics(pd, lgd, outstanding),
		Insurance: domain.InsuranceCoverage{
			HazardCoverage: propertyValue,
			FloodCoverage:  math.Min(250000, propertyValue),
			HazardPremium:  math.Round(propertyValue * (0.003 + rng.Float64()*0.002)),
			FloodPremium:   floodPremium,
		},
	}
}

// generateHazards builds monotone loss tables for each peril modeled in the
// property's state. Losses start near 0.1-1% of property value at the 10-year
// period and grow by a random factor per step, capped at the property value.
func generateHazards(rng *rand.Rand, loan domain.LoanRecord) []domain.HazardRecord {
	types := hazardsByState[loan.Address.State]
	records := make([]domain.HazardRecord, 0, len(types))

	for _, hazardType := range types {
		losses := make(map[int]float64, len(domain.ReturnPeriods))
		loss := loan.PropertyValue * (0.001 + rng.Float64()*0.009)
		for _, rp := range domain.ReturnPeriods {
			losses[rp] = math.Min(loan.PropertyValue, math.Round(loss))
			loss *= 1.5 + rng.Float64()
		}

		p50 := losses[100]
		records = append(records, domain.HazardRecord{
			PropertyID: loan.PropertyID,
			HazardType: hazardType,
			Losses:     losses,
			Confidence: domain.ConfidenceInterval{
				P5:  math.Round(p50 * 0.6),
				P50: p50,
				P95: math.Round(p50 * 1.5),
			},
		})
	}
	return records
}

func generateScenarioData(rng *rand.Rand, propertyID string, baselineYear int) domain.ClimateScenarioData {
	scenarios := make(map[string]domain.RCPProjection, len(domain.Scenarios))
	for _, key := range domain.Scenarios {
		anchor := scenarioAnchors[key]
		multipliers := make(map[string]float64, len(domain.HazardTypes))
		for _, hazard := range domain.HazardTypes {
			base, _ := domain.ClimateMultiplier(key, hazard, 2100)
			// Jitter the table value ±10% to mimic per-property model spread.
			multipliers[hazard] = base * (0.9 + rng.Float64()*0.2)
		}
		scenarios[key] = domain.RCPProjection{
			TemperatureChange:   anchor.temp * (0.85 + rng.Float64()*0.3),
			PrecipitationChange: anchor.precip * (0.85 + rng.Float64()*0.3),
			SeaLevelRise:        anchor.slr * (0.85 + rng.Float64()*0.3),
			HazardMultipliers:   multipliers,
		}
	}

	years := make([]int, 0, len(domain.Timeframes))
	for _, tf := range domain.Timeframes {
		years = append(years, tf.Year)
	}

	return domain.ClimateScenarioData{
		PropertyID:      propertyID,
		BaselineYear:    baselineYear,
		ProjectionYears: years,
		Scenarios:       scenarios,
	}
}

type geography struct {
	state  string
	county string
}

func pickState(rng *rand.Rand) geography {
	r := rng.Float64()
	var cum float64
	for _, sw := range stateWeights {
		cum += sw.weight
		if r <= cum {
			return geography{state: sw.state, county: sw.county}
		}
	}
	last := stateWeights[len(stateWeights)-1]
	return geography{state: last.state, county: last.county}
}

// pdFromCreditScore maps score bands to annual default probabilities with
// some idiosyncratic noise.
func pdFromCreditScore(score int, rng *rand.Rand) float64 {
	var base float64
	switch {
	case score >= 760:
		base = 0.005
	case score >= 700:
		base = 0.012
	case score >= 660:
		base = 0.025
	case score >= 620:
		base = 0.050
	default:
		base = 0.090
	}
	return base * (0.8 + rng.Float64()*0.4)
}

func hasFloodExposure(state string) bool {
	for _, h := range hazardsByState[state] {
		if h == domain.HazardFlood {
			return true
		}
	}
	return false
}

// uuidFrom derives a UUID from the seeded stream so loan IDs are reproducible.
func uuidFrom(rng *rand.Rand) string {
	var b [16]byte
	rng.Read(b[:]) //nolint:errcheck // math/rand Read never fails
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
