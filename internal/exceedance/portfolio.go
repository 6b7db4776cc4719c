package exceedance

import (
	"math"
	"sort"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// AggregatePortfolio combines property curves into a portfolio exceedance
// curve for one scenario and year. At each return period the per-property
// losses (hazards within a property summed first) form an independent sum,
// which is then reduced by the equicorrelation aggregation factor
// sqrt(1+(N-1)*t)/sqrt(N): full correlation keeps the sum, independence
// shrinks it toward sum/sqrt(N).
func AggregatePortfolio(curves []domain.ExceedanceCurve, loans []domain.LoanRecord, scenario string, year int) (domain.PortfolioExceedanceCurve, error) {
	properties := propertyIDs(curves)
	n := len(properties)
	if n == 0 {
		return domain.PortfolioExceedanceCurve{}, &domain.ConfigError{Field: "curves", Value: 0, Reason: "portfolio has no properties"}
	}

	states, counties := geographySpread(loans)

	points := make([]domain.CurvePoint, 0, len(domain.ReturnPeriods))
	details := make([]domain.AggregationDetail, 0, len(domain.ReturnPeriods))

	for _, rp := range domain.ReturnPeriods {
		independent := independentSum(curves, rp)
		t := tailCorrelation(rp, states, counties)
		factor := aggregationFactor(n, t)
		aggregate := independent * factor

		benefit := 0.0
		if independent > 0 {
			benefit = (independent - aggregate) / independent
		}

		points = append(points, domain.CurvePoint{
			ReturnPeriod: rp,
			AnnualLoss:   aggregate,
			Probability:  domain.ExceedanceProbability(rp),
		})
		details = append(details, domain.AggregationDetail{
			ReturnPeriod:           rp,
			IndependentSum:         independent,
			AggregateLoss:          aggregate,
			TailCorrelation:        t,
			DiversificationBenefit: benefit,
		})
	}

	return domain.PortfolioExceedanceCurve{
		Scenario:      scenario,
		Year:          year,
		Points:        points,
		Aggregation:   details,
		Metrics:       TailMetrics(points),
		Concentration: Concentration(curves, loans),
		ComputedAt:    domain.Now(),
	}, nil
}

// independentSum totals the loss at one return period across properties,
// summing multiple hazards within a property first.
func independentSum(curves []domain.ExceedanceCurve, returnPeriod int) float64 {
	var sum float64
	for _, c := range curves {
		for _, p := range c.Points {
			if p.ReturnPeriod == returnPeriod {
				sum += p.AnnualLoss
			}
		}
	}
	return sum
}

// tailCorrelation combines severity-driven geographic correlation with the
// portfolio's geographic spread. Rarer events are more systemic: a 1000-year
// event correlates losses across a whole region, a 10-year event is local.
func tailCorrelation(returnPeriod, states, counties int) float64 {
	geographic := math.Min(0.8, 0.2+float64(returnPeriod)/1000.0*0.6)
	diversification := math.Min(1, 1-float64(states)/50.0*0.3-float64(counties)/3000.0*0.2)
	return geographic * diversification
}

// aggregationFactor is the equicorrelated-portfolio variance reduction:
// sqrt(1+(N-1)*t)/sqrt(N). Approaches 1 as t→1 and 1/sqrt(N) as t→0.
func aggregationFactor(n int, t float64) float64 {
	return math.Sqrt(1+float64(n-1)*t) / math.Sqrt(float64(n))
}

func propertyIDs(curves []domain.ExceedanceCurve) []string {
	seen := make(map[string]struct{}, len(curves))
	for _, c := range curves {
		seen[c.PropertyID] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func geographySpread(loans []domain.LoanRecord) (states, counties int) {
	stateSet := map[string]struct{}{}
	countySet := map[string]struct{}{}
	for _, l := range loans {
		stateSet[l.Address.State] = struct{}{}
		countySet[l.Address.State+"/"+l.Address.County] = struct{}{}
	}
	return len(stateSet), len(countySet)
}
