// Package exceedance builds loss exceedance curves and tail-risk metrics.
//
// A property curve maps each fixed return period to the climate-adjusted loss
// the property is expected to exceed with probability 1/R. Portfolio curves
// aggregate property losses under an approximate equicorrelation model, so
// rare (high return period) events diversify less than frequent ones.
package exceedance

import (
	"fmt"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// BuildPropertyCurve constructs the exceedance curve for one hazard record
// under a scenario and analysis year. The baseline loss at each return period
// is scaled by the climate multiplier, then passed through the hazard's
// damage function against the property value. The hazard record is validated
// for monotonicity; malformed tables are rejected rather than interpolated.
func BuildPropertyCurve(hazard domain.HazardRecord, propertyValue float64, scenario string, year int) (domain.ExceedanceCurve, error) {
	if err := domain.ValidateHazardRecord(hazard); err != nil {
		return domain.ExceedanceCurve{}, err
	}

	multiplier, err := domain.ClimateMultiplier(scenario, hazard.HazardType, year)
	if err != nil {
		return domain.ExceedanceCurve{}, err
	}

	points := make([]domain.CurvePoint, 0, len(domain.ReturnPeriods))
	for _, rp := range domain.ReturnPeriods {
		intensity := hazard.Losses[rp] * multiplier
		loss, err := domain.PropertyLoss(hazard.HazardType, intensity, propertyValue)
		if err != nil {
			return domain.ExceedanceCurve{}, fmt.Errorf("damage function at rp %d: %w", rp, err)
		}
		points = append(points, domain.CurvePoint{
			ReturnPeriod: rp,
			AnnualLoss:   loss,
			Probability:  domain.ExceedanceProbability(rp),
		})
	}

	return domain.ExceedanceCurve{
		PropertyID: hazard.PropertyID,
		HazardType: hazard.HazardType,
		Scenario:   scenario,
		Year:       year,
		Points:     points,
	}, nil
}

// BuildPropertyCurves constructs curves for every hazard record, resolving
// property values from the loan book. Hazard records whose property has no
// loan are skipped: a curve without collateral has no exposure to measure.
func BuildPropertyCurves(hazards []domain.HazardRecord, loans []domain.LoanRecord, scenario string, year int) ([]domain.ExceedanceCurve, error) {
	valueByProperty := make(map[string]float64, len(loans))
	for _, l := range loans {
		valueByProperty[l.PropertyID] = l.PropertyValue
	}

	curves := make([]domain.ExceedanceCurve, 0, len(hazards))
	for _, h := range hazards {
		pv, ok := valueByProperty[h.PropertyID]
		if !ok {
			continue
		}
		curve, err := BuildPropertyCurve(h, pv, scenario, year)
		if err != nil {
			return nil, fmt.Errorf("property %s hazard %s: %w", h.PropertyID, h.HazardType, err)
		}
		curves = append(curves, curve)
	}
	return curves, nil
}
