package stats

import (
	"fmt"
	"math"

	"github.com/colstat/colstat/internal/domain"
	"github.com/colstat/colstat/internal/fsrs"
	"github.com/colstat/colstat/internal/timing"
)

// MatureIntervalDays splits young from mature review cards. Three weeks is
// the threshold the application has always used.
const MatureIntervalDays = 21

// CardBucket is the display category a card lands in. Values follow the
// display order so sorting by bucket sorts the report rows.
type CardBucket int

const (
	BucketNew CardBucket = iota + 1
	BucketLearning
	BucketRelearning
	BucketYoung
	BucketMature
	BucketSuspended
	BucketBuried
)

func (b CardBucket) String() string {
	switch b {
	case BucketNew:
		return "1. New"
	case BucketLearning:
		return "2. Learning"
	case BucketRelearning:
		return "3. Relearning"
	case BucketYoung:
		return "4. Young"
	case BucketMature:
		return "5. Mature"
	case BucketSuspended:
		return "6. Suspended"
	case BucketBuried:
		return "7. Buried"
	default:
		return "unknown"
	}
}

// CardBucketFor maps a card's queue and type to its display bucket. Cards
// pulled out of scheduling keep their out-of-scheduling bucket; review
// cards under three weeks of interval form the synthetic young bucket.
func CardBucketFor(c domain.Card) (CardBucket, error) {
	switch {
	case c.Queue == domain.QueueSuspended:
		return BucketSuspended, nil
	case c.Queue.Buried():
		return BucketBuried, nil
	}
	if c.Type == domain.CardTypeReview && c.IntervalDays < MatureIntervalDays {
		return BucketYoung, nil
	}
	switch c.Type {
	case domain.CardTypeNew:
		return BucketNew, nil
	case domain.CardTypeLearn:
		return BucketLearning, nil
	case domain.CardTypeReview:
		return BucketMature, nil
	case domain.CardTypeRelearn:
		return BucketRelearning, nil
	default:
		return 0, fmt.Errorf("stats: unknown card type %d", int(c.Type))
	}
}

// CardFacts is one card row enriched with every derived column the report
// tables consume.
type CardFacts struct {
	Card   domain.Card
	Bucket CardBucket
	// Due is the resolved due encoding; DueDays its position on the
	// relative day axis (meaningful for scheduled cards, raw ordinal
	// passthrough for new ones, which the tables filter out).
	Due     domain.Due
	DueDays int64
	// StabilityRounded and ScaledDifficulty are NaN when the memory
	// state is absent. ScaledDifficulty rescales the [1,10] difficulty
	// to a percentage.
	StabilityRounded float64
	ScaledDifficulty float64
	// Retrievability is the supplied or derived recall probability, NaN
	// when neither is available.
	Retrievability float64

	EaseLabel           string
	DifficultyLabel     string
	RetrievabilityLabel string

	// AddedDays is the card's creation day on the relative day axis.
	AddedDays int64
}

// Card derives the statistics columns for one card. Errors are per-row:
// an unknown type or a negative stability flags this card without
// aborting the run.
func (cl *Classifier) Card(c domain.Card) (CardFacts, error) {
	bucket, err := CardBucketFor(c)
	if err != nil {
		return CardFacts{}, fmt.Errorf("card %d: %w", c.ID, err)
	}

	due := c.EffectiveDue()
	var dueDays int64
	switch due.Kind {
	case domain.DueAbsolute:
		dueDays = timing.DaysRoundToZero(due.Value - int64(cl.boundary.NextDayAt))
	default:
		dueDays = due.Value - int64(cl.boundary.DaysElapsed)
	}

	stability, err := timing.RoundAway(c.Memory.Stability)
	if err != nil {
		return CardFacts{}, fmt.Errorf("card %d: stability %v: %w", c.ID, c.Memory.Stability, err)
	}

	scaled := scaledDifficulty(c.Memory.Difficulty)
	retr := cl.cardRetrievability(c)

	return CardFacts{
		Card:                c,
		Bucket:              bucket,
		Due:                 due,
		DueDays:             dueDays,
		StabilityRounded:    stability,
		ScaledDifficulty:    scaled,
		Retrievability:      retr,
		EaseLabel:           EaseBucket(c.Factor),
		DifficultyLabel:     PercentBucket(scaled),
		RetrievabilityLabel: PercentBucket(retr * 100),
		AddedDays:           addedDays(c.ID, cl.boundary.NextDayAt),
	}, nil
}

// cardRetrievability prefers a value supplied with the card and otherwise
// derives one from the memory state and the last review instant.
func (cl *Classifier) cardRetrievability(c domain.Card) float64 {
	if !math.IsNaN(c.Retrievability) {
		return c.Retrievability
	}
	if !c.Memory.HasStability() {
		return math.NaN()
	}
	last, ok := cl.lastReview[c.ID]
	if !ok {
		return math.NaN()
	}
	elapsed := fsrs.ElapsedDays(last, cl.retrievabilityReference(), c.ScheduledInDays())
	return fsrs.Retrievability(elapsed, c.Memory.Stability)
}

// scaledDifficulty rescales the [1,10] FSRS difficulty to [0,100].
func scaledDifficulty(difficulty float64) float64 {
	return (difficulty - 1) * 100 / 9
}

// addedDays places the card's creation instant on the relative day axis.
func addedDays(cardID int64, nextDayAt timing.Timestamp) int64 {
	return int64(math.Ceil((float64(cardID)/1000 - float64(nextDayAt)) / 86400))
}
