package exceedance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// testPoints is a well-formed portfolio curve: loss increases and probability
// decreases along the return-period grid.
func testPoints() []domain.CurvePoint {
	losses := map[int]float64{10: 100, 25: 200, 50: 300, 100: 400, 250: 500, 500: 600, 1000: 700}
	points := make([]domain.CurvePoint, 0, len(domain.ReturnPeriods))
	for _, rp := range domain.ReturnPeriods {
		points = append(points, domain.CurvePoint{
			ReturnPeriod: rp,
			AnnualLoss:   losses[rp],
			Probability:  domain.ExceedanceProbability(rp),
		})
	}
	return points
}

func TestValueAtRisk(t *testing.T) {
	points := testPoints()

	t.Run("interpolates inside a bracket", func(t *testing.T) {
		// p=0.05 sits between the 10yr (p=0.1, loss=100) and 25yr
		// (p=0.04, loss=200) points: 100 + (0.05/0.06)*100.
		got := ValueAtRisk(points, 0.05)
		assert.InDelta(t, 100+(0.1-0.05)/(0.1-0.04)*100, got, 1e-9)
	})

	t.Run("exact point probability", func(t *testing.T) {
		got := ValueAtRisk(points, 0.01)
		assert.InDelta(t, 400, got, 1e-9)
	})

	t.Run("falls back to max loss beyond the rarest point", func(t *testing.T) {
		got := ValueAtRisk(points, 0.0005)
		assert.Equal(t, 700.0, got)
	})

	t.Run("empty curve", func(t *testing.T) {
		assert.Equal(t, 0.0, ValueAtRisk(nil, 0.05))
	})
}

func TestTailValueAtRisk(t *testing.T) {
	points := testPoints()

	t.Run("probability-weighted tail average", func(t *testing.T) {
		// Points with p <= 0.05: the 25yr through 1000yr samples.
		num := 0.04*200 + 0.02*300 + 0.01*400 + 0.004*500 + 0.002*600 + 0.001*700
		den := 0.04 + 0.02 + 0.01 + 0.004 + 0.002 + 0.001
		assert.InDelta(t, num/den, TailValueAtRisk(points, 0.05), 1e-9)
	})

	t.Run("no qualifying points", func(t *testing.T) {
		assert.Equal(t, 0.0, TailValueAtRisk(points, 0.0001))
	})

	t.Run("tvar99 at least var99", func(t *testing.T) {
		assert.GreaterOrEqual(t, TailValueAtRisk(points, 0.01), ValueAtRisk(points, 0.01)-1e-9)
	})
}

func TestExpectedAnnualLoss(t *testing.T) {
	t.Run("trapezoidal integration", func(t *testing.T) {
		points := []domain.CurvePoint{
			{ReturnPeriod: 10, AnnualLoss: 100, Probability: 0.1},
			{ReturnPeriod: 25, AnnualLoss: 200, Probability: 0.04},
		}
		assert.InDelta(t, (0.1-0.04)*(100+200)/2, ExpectedAnnualLoss(points), 1e-12)
	})

	t.Run("order independent", func(t *testing.T) {
		points := testPoints()
		reversed := make([]domain.CurvePoint, len(points))
		for i, p := range points {
			reversed[len(points)-1-i] = p
		}
		assert.InDelta(t, ExpectedAnnualLoss(points), ExpectedAnnualLoss(reversed), 1e-12)
	})

	t.Run("single point integrates to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, ExpectedAnnualLoss(testPoints()[:1]))
	})
}

func TestTailMetrics(t *testing.T) {
	m := TailMetrics(testPoints())
	assert.Equal(t, 700.0, m.MaxProbableLoss)
	assert.Greater(t, m.VaR99, m.VaR95)
	assert.Greater(t, m.TVaR99, m.TVaR95)
	assert.Greater(t, m.ExpectedLoss, 0.0)
}

func TestHerfindahl(t *testing.T) {
	t.Run("equal categories give 1/n", func(t *testing.T) {
		exposures := map[string]float64{"TX": 100, "FL": 100, "CA": 100, "NY": 100}
		assert.InDelta(t, 0.25, Herfindahl(exposures), 1e-12)
	})

	t.Run("single category gives 1", func(t *testing.T) {
		assert.Equal(t, 1.0, Herfindahl(map[string]float64{"TX": 500}))
	})

	t.Run("empty map gives 0", func(t *testing.T) {
		assert.Equal(t, 0.0, Herfindahl(map[string]float64{}))
	})
}
