package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is the package-level time source used to stamp derived records
// (PortfolioExceedanceCurve.ComputedAt). Tests and the fixture generator
// freeze it via SetClock so outputs are byte-reproducible.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock.
func Now() time.Time { return clock.Now() }
