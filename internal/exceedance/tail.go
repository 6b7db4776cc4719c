package exceedance

import (
	"sort"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// TailMetrics computes VaR, TVaR, expected loss, and max probable loss from a
// portfolio curve's points.
func TailMetrics(points []domain.CurvePoint) domain.ExceedanceMetrics {
	return domain.ExceedanceMetrics{
		VaR95:           ValueAtRisk(points, 0.05),
		VaR99:           ValueAtRisk(points, 0.01),
		TVaR95:          TailValueAtRisk(points, 0.05),
		TVaR99:          TailValueAtRisk(points, 0.01),
		ExpectedLoss:    ExpectedAnnualLoss(points),
		MaxProbableLoss: maxProbableLoss(points),
	}
}

// ValueAtRisk interpolates the loss exceeded with the given tail probability.
// Points are scanned loss-ascending (probability descending) for the adjacent
// pair bracketing p, and the loss is linearly interpolated by probability
// distance. When p is rarer than the rarest point, the maximum loss is
// returned: a defined fallback, not an error.
func ValueAtRisk(points []domain.CurvePoint, tailProbability float64) float64 {
	if len(points) == 0 {
		return 0
	}
	sorted := sortByLossAscending(points)

	for i := 0; i < len(sorted)-1; i++ {
		hi, lo := sorted[i], sorted[i+1] // hi: more frequent, smaller loss
		if hi.Probability >= tailProbability && tailProbability >= lo.Probability {
			span := hi.Probability - lo.Probability
			if span == 0 {
				return hi.AnnualLoss
			}
			weight := (hi.Probability - tailProbability) / span
			return hi.AnnualLoss + weight*(lo.AnnualLoss-hi.AnnualLoss)
		}
	}
	return sorted[len(sorted)-1].AnnualLoss
}

// TailValueAtRisk is the probability-weighted average loss over all points at
// least as rare as the tail probability, 0 when no point qualifies.
func TailValueAtRisk(points []domain.CurvePoint, tailProbability float64) float64 {
	var weighted, totalWeight float64
	for _, p := range points {
		if p.Probability <= tailProbability {
			weighted += p.Probability * p.AnnualLoss
			totalWeight += p.Probability
		}
	}
	if totalWeight == 0 {
		return 0
	}
	return weighted / totalWeight
}

// ExpectedAnnualLoss integrates loss over probability with the trapezoidal
// rule across return-period-ordered points.
func ExpectedAnnualLoss(points []domain.CurvePoint) float64 {
	ordered := sortByReturnPeriod(points)
	var el float64
	for i := 0; i < len(ordered)-1; i++ {
		a, b := ordered[i], ordered[i+1]
		el += (a.Probability - b.Probability) * (a.AnnualLoss + b.AnnualLoss) / 2
	}
	return el
}

// maxProbableLoss is the loss at the rarest point on the curve (the
// 1000-year event on the fixed grid).
func maxProbableLoss(points []domain.CurvePoint) float64 {
	if len(points) == 0 {
		return 0
	}
	ordered := sortByReturnPeriod(points)
	return ordered[len(ordered)-1].AnnualLoss
}

func sortByLossAscending(points []domain.CurvePoint) []domain.CurvePoint {
	sorted := make([]domain.CurvePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].AnnualLoss < sorted[j].AnnualLoss })
	return sorted
}

func sortByReturnPeriod(points []domain.CurvePoint) []domain.CurvePoint {
	sorted := make([]domain.CurvePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ReturnPeriod < sorted[j].ReturnPeriod })
	return sorted
}
