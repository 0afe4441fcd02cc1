// Package fsrs carries the slice of the FSRS memory model a statistics
// reader needs: the forgetting curve and the elapsed-time input it
// consumes. Scheduling itself is out of scope.
package fsrs

import (
	"math"

	"github.com/colstat/colstat/internal/timing"
)

// Factor and Decay are the fixed FSRS-4.5 forgetting-curve constants.
// They are properties of the model, not tunables: with these values
// retrievability is exactly 90% when elapsed time equals stability.
const (
	Factor = 19.0 / 81.0
	Decay  = -0.5
)

// Retrievability is the modeled probability of recalling a card after
// elapsedDays given its stability. NaN inputs propagate so absent memory
// state surfaces as an absent result, never a crash.
func Retrievability(elapsedDays, stability float64) float64 {
	return math.Pow(1+Factor*elapsedDays/stability, Decay)
}

// ElapsedDays measures how long a card has been waiting since its last
// review, in the units the forgetting curve consumes: whole days for
// day-granularity cards, fractional days for intraday ones. The reference
// instant is supplied by the caller; a last review in the reference's
// future clamps to zero.
func ElapsedDays(lastReviewSecs, referenceSecs int64, wholeDays bool) float64 {
	span := referenceSecs - lastReviewSecs
	if span < 0 {
		span = 0
	}
	if wholeDays {
		return float64(timing.DaysRoundToZero(span))
	}
	return float64(span) / 86400
}
