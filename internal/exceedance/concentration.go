package exceedance

import (
	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// Concentration computes Herfindahl indices over exposure shares by state and
// by primary hazard type. The primary hazard of a property is the hazard with
// the largest loss at its rarest curve point; each loan's exposure is
// attributed to its property's primary hazard.
func Concentration(curves []domain.ExceedanceCurve, loans []domain.LoanRecord) domain.ConcentrationRisk {
	byState := map[string]float64{}
	byHazard := map[string]float64{}
	primary := primaryHazards(curves)

	for _, l := range loans {
		byState[l.Address.State] += l.Outstanding
		hazard, ok := primary[l.PropertyID]
		if !ok {
			hazard = "unmodeled"
		}
		byHazard[hazard] += l.Outstanding
	}

	geo := Herfindahl(byState)
	haz := Herfindahl(byHazard)
	worst := geo
	if haz > worst {
		worst = haz
	}

	return domain.ConcentrationRisk{
		GeographicIndex:        geo,
		HazardIndex:            haz,
		DiversificationBenefit: 1 - worst,
	}
}

// Herfindahl returns the sum of squared exposure shares: 1/n for n equal
// categories, 1.0 for a single category, 0 for an empty or zero-exposure map.
func Herfindahl(exposures map[string]float64) float64 {
	var total float64
	for _, e := range exposures {
		total += e
	}
	if total == 0 {
		return 0
	}

	var index float64
	for _, e := range exposures {
		share := e / total
		index += share * share
	}
	return index
}

// primaryHazards maps each property to the hazard type with the largest loss
// at the rarest point of its curves.
func primaryHazards(curves []domain.ExceedanceCurve) map[string]string {
	type worst struct {
		hazard string
		loss   float64
	}
	best := map[string]worst{}
	for _, c := range curves {
		loss := maxProbableLoss(c.Points)
		if w, ok := best[c.PropertyID]; !ok || loss > w.loss {
			best[c.PropertyID] = worst{hazard: c.HazardType, loss: loss}
		}
	}

	out := make(map[string]string, len(best))
	for id, w := range best {
		out[id] = w.hazard
	}
	return out
}
