// Package domain models mortgage-portfolio climate risk data.
//
// # Data Sources
//
// Loan records follow the shape of a standard servicing extract: balances,
// rate, term, LTV/DTI, credit score, and a property address with coordinates.
// Hazard records are per-property loss tables from a catastrophe-model export,
// keyed by the seven standard return periods {10, 25, 50, 100, 250, 500, 1000}.
// Climate scenario data carries per-property RCP projections (temperature,
// precipitation, sea level, per-hazard frequency multipliers). In development
// all three are produced by the synthetic generator.
//
// # Conventions
//
// Return periods and exceedance probability:
//
//	A loss at return period R is exceeded with annual probability exactly 1/R.
//	Loss tables must be monotonically non-decreasing in R; curve construction
//	rejects tables that are not (see ErrNonMonotonicLosses).
//
// RCP scenario keys:
//
//	"rcp_26", "rcp_45", "rcp_60", "rcp_85". Unknown keys are caller errors,
//	not data to be defaulted; table lookups return *ConfigError.
//
// Hazard types:
//
//	"flood", "wildfire", "hurricane", "hail", "tornado". A closed set; the
//	multiplier and damage-function tables enumerate all five literally.
//
// Timeframes:
//
//	ccar_3yr → 2026, ccar_5yr → 2028 (regulatory stress windows),
//	medium_term_2050 → 2050, long_term_2100 → 2100.
//
// Credit parameters:
//
//	PD and LGD are probabilities in [0, 1]; EAD is a dollar amount.
//	ExpectedLoss == PD * LGD * EAD holds at record creation and for every
//	derived record.
//
// # Immutability
//
// Input records are never mutated. Every engine operation is a pure function
// returning new derived records; "adjusted" records are built by constructor
// functions that copy the source and override named fields.
package domain
