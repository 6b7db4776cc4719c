package domain

import "math"

// ReturnPeriods is the fixed return-period grid shared by every hazard loss
// table and exceedance curve. Order matters: curves are built in this order
// and probabilities decrease along it.
var ReturnPeriods = []int{10, 25, 50, 100, 250, 500, 1000}

// ExceedanceProbability returns the annual exceedance probability for a
// return period: exactly 1/R.
func ExceedanceProbability(returnPeriod int) float64 {
	return 1.0 / float64(returnPeriod)
}

// RCP scenario keys, ordered from lowest to highest forcing.
const (
	RCP26 = "rcp_26"
	RCP45 = "rcp_45"
	RCP60 = "rcp_60"
	RCP85 = "rcp_85"
)

// Scenarios lists the four emissions pathways in ascending forcing order.
var Scenarios = []string{RCP26, RCP45, RCP60, RCP85}

// Hazard types, the closed set the multiplier and damage tables enumerate.
const (
	HazardFlood     = "flood"
	HazardWildfire  = "wildfire"
	HazardHurricane = "hurricane"
	HazardHail      = "hail"
	HazardTornado   = "tornado"
)

// HazardTypes lists all five physical hazards.
var HazardTypes = []string{HazardFlood, HazardWildfire, HazardHurricane, HazardHail, HazardTornado}

// baseMultipliers is the end-of-century (2100) hazard frequency multiplier per
// scenario and hazard. Values between 2023 and 2100 are reached by linear ramp
// (see ClimateMultiplier). The table is part of the output contract.
var baseMultipliers = map[string]map[string]float64{
	RCP26: {HazardFlood: 1.10, HazardWildfire: 1.15, HazardHurricane: 1.05, HazardHail: 1.05, HazardTornado: 1.05},
	RCP45: {HazardFlood: 1.25, HazardWildfire: 1.30, HazardHurricane: 1.15, HazardHail: 1.10, HazardTornado: 1.10},
	RCP60: {HazardFlood: 1.40, HazardWildfire: 1.45, HazardHurricane: 1.25, HazardHail: 1.15, HazardTornado: 1.15},
	RCP85: {HazardFlood: 1.60, HazardWildfire: 1.70, HazardHurricane: 1.40, HazardHail: 1.25, HazardTornado: 1.30},
}

// multiplierBaseYear and multiplierEndYear bound the climate multiplier ramp.
const (
	multiplierBaseYear = 2023
	multiplierEndYear  = 2100
)

// ClimateMultiplier returns the hazard frequency multiplier for a scenario,
// hazard type, and analysis year. The base (2100) multiplier is ramped
// linearly from 1.0 at 2023; years outside the ramp are clamped.
// Unknown scenario or hazard keys are caller errors.
func ClimateMultiplier(scenario, hazardType string, year int) (float64, error) {
	byHazard, ok := baseMultipliers[scenario]
	if !ok {
		return 0, &ConfigError{Field: "scenario", Value: scenario, Reason: "unknown RCP scenario key"}
	}
	base, ok := byHazard[hazardType]
	if !ok {
		return 0, &ConfigError{Field: "hazard_type", Value: hazardType, Reason: "unknown hazard type"}
	}

	progress := float64(year-multiplierBaseYear) / float64(multiplierEndYear-multiplierBaseYear)
	progress = Clamp(progress, 0, 1)
	return 1 + (base-1)*progress, nil
}

// Timeframe pairs a stress-grid timeframe key with its analysis year.
type Timeframe struct {
	Key  string
	Year int
}

// Timeframe keys for the 4x4 stress grid.
const (
	TimeframeCCAR3yr    = "ccar_3yr"
	TimeframeCCAR5yr    = "ccar_5yr"
	TimeframeMedium2050 = "medium_term_2050"
	TimeframeLong2100   = "long_term_2100"
)

// Timeframes lists the four analysis horizons: the two regulatory stress
// windows and the medium/long climate horizons. Part of the output contract.
var Timeframes = []Timeframe{
	{Key: TimeframeCCAR3yr, Year: 2026},
	{Key: TimeframeCCAR5yr, Year: 2028},
	{Key: TimeframeMedium2050, Year: 2050},
	{Key: TimeframeLong2100, Year: 2100},
}

// damageFunction maps climate-adjusted hazard intensity to a property loss:
// loss = propertyValue * min(cap, intensity/propertyValue * slope).
type damageFunction struct {
	slope float64
	cap   float64
}

// damageFunctions per hazard type. Caps reflect the maximum plausible share
// of a property destroyed by each peril: flooding, wildfire, and hurricanes
// can be total losses; hail tops out at roof/exterior damage; tornadoes
// rarely level an entire insured structure footprint.
var damageFunctions = map[string]damageFunction{
	HazardFlood:     {slope: 2.0, cap: 1.0},
	HazardWildfire:  {slope: 2.5, cap: 1.0},
	HazardHurricane: {slope: 1.8, cap: 1.0},
	HazardHail:      {slope: 0.8, cap: 0.5},
	HazardTornado:   {slope: 1.5, cap: 0.8},
}

// PropertyLoss applies the hazard's damage function to a climate-adjusted
// loss intensity, capping the result at the hazard's maximum damage ratio.
func PropertyLoss(hazardType string, intensity, propertyValue float64) (float64, error) {
	df, ok := damageFunctions[hazardType]
	if !ok {
		return 0, &ConfigError{Field: "hazard_type", Value: hazardType, Reason: "unknown hazard type"}
	}
	if propertyValue <= 0 {
		return 0, nil
	}
	ratio := math.Min(df.cap, intensity/propertyValue*df.slope)
	return propertyValue * ratio, nil
}

// stateHazardMultipliers amplifies hazard impact for states with elevated
// exposure to a peril. States absent from the table carry 1.0 for all hazards.
var stateHazardMultipliers = map[string]map[string]float64{
	"FL": {HazardHurricane: 1.8, HazardFlood: 1.5},
	"LA": {HazardFlood: 1.8, HazardHurricane: 1.6},
	"TX": {HazardHail: 1.5, HazardTornado: 1.4, HazardHurricane: 1.3, HazardFlood: 1.2},
	"CA": {HazardWildfire: 1.9, HazardFlood: 1.1},
	"OK": {HazardTornado: 1.8, HazardHail: 1.6},
	"KS": {HazardTornado: 1.7, HazardHail: 1.5},
	"NC": {HazardHurricane: 1.5, HazardFlood: 1.3},
	"SC": {HazardHurricane: 1.5, HazardFlood: 1.3},
	"CO": {HazardHail: 1.6, HazardWildfire: 1.4},
	"AZ": {HazardWildfire: 1.5},
}

// StateHazardMultiplier returns the location risk multiplier for a state and
// hazard type, defaulting to 1.0 for combinations not in the table.
func StateHazardMultiplier(state, hazardType string) float64 {
	if m, ok := stateHazardMultipliers[state][hazardType]; ok {
		return m
	}
	return 1.0
}

// StateRiskMultiplier returns a state's overall location risk multiplier: the
// maximum across its per-hazard multipliers, 1.0 for states not in the table.
func StateRiskMultiplier(state string) float64 {
	max := 1.0
	for _, m := range stateHazardMultipliers[state] {
		if m > max {
			max = m
		}
	}
	return max
}

// Regulatory capital thresholds (fractions of risk-weighted assets).
const (
	Tier1Minimum         = 0.045
	Tier1StrategicFloor  = 0.06
	Tier1WellCapitalized = 0.08
)

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
