package domain

import (
	"errors"
	"fmt"
)

// ConfigError reports caller misuse: an unknown table key, a non-positive
// portfolio size, or pricing parameters outside their valid domain. It
// identifies the offending field so callers can fail fast instead of
// propagating NaN or Inf through a report.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// ErrNonMonotonicLosses rejects a hazard loss table where a longer return
// period maps to a smaller loss. VaR bracketing assumes probability decreases
// as loss increases; a non-monotonic table would make both the interpolation
// and its fallback ambiguous, so malformed curves are rejected on ingestion.
var ErrNonMonotonicLosses = errors.New("hazard loss table is not monotonically non-decreasing")

// ValidateHazardRecord checks that a hazard record covers the fixed return
// periods with a monotonically non-decreasing loss table.
func ValidateHazardRecord(h HazardRecord) error {
	prev := 0.0
	for i, rp := range ReturnPeriods {
		loss, ok := h.Losses[rp]
		if !ok {
			return &ConfigError{Field: "losses", Value: rp, Reason: "missing return period"}
		}
		if loss < 0 {
			return &ConfigError{Field: "losses", Value: rp, Reason: "negative loss"}
		}
		if i > 0 && loss < prev {
			return fmt.Errorf("property %s hazard %s at rp %d: %w", h.PropertyID, h.HazardType, rp, ErrNonMonotonicLosses)
		}
		prev = loss
	}
	return nil
}
