// Package domain models the rows of a spaced-repetition collection the way
// the storage format defines them: cards, review-log entries, and the small
// closed enums both use. Values here are read-only snapshots; derived
// statistics live elsewhere.
package domain

// CardType is the lifecycle stage stored on a card.
type CardType int

const (
	CardTypeNew     CardType = 0
	CardTypeLearn   CardType = 1
	CardTypeReview  CardType = 2
	CardTypeRelearn CardType = 3
)

func (t CardType) String() string {
	switch t {
	case CardTypeNew:
		return "new"
	case CardTypeLearn:
		return "learning"
	case CardTypeReview:
		return "review"
	case CardTypeRelearn:
		return "relearning"
	default:
		return "unknown"
	}
}

// Queue is the scheduling queue a card currently sits in. Negative values
// mark cards pulled out of scheduling (suspended or buried).
type Queue int

const (
	QueueManuallyBuried Queue = -3
	QueueSiblingBuried  Queue = -2
	QueueSuspended      Queue = -1
	QueueNew            Queue = 0
	QueueLearn          Queue = 1
	QueueReview         Queue = 2
	QueueDayLearn       Queue = 3
	QueuePreview        Queue = 4
)

func (q Queue) String() string {
	switch q {
	case QueueManuallyBuried:
		return "manually buried"
	case QueueSiblingBuried:
		return "sibling buried"
	case QueueSuspended:
		return "suspended"
	case QueueNew:
		return "new"
	case QueueLearn:
		return "learning"
	case QueueReview:
		return "review"
	case QueueDayLearn:
		return "day learning"
	case QueuePreview:
		return "preview"
	default:
		return "unknown"
	}
}

// Buried reports whether the queue is either buried state. The two are
// pooled in every report.
func (q Queue) Buried() bool {
	return q == QueueManuallyBuried || q == QueueSiblingBuried
}

// Card is one row of the cards table. IDs are epoch milliseconds assigned
// at creation; ID is unique and joins reviews to their card.
type Card struct {
	ID             int64
	NoteID         int64
	DeckID         int64
	OriginalDeckID int64
	Type           CardType
	Queue          Queue

	// Due and OriginalDue carry either an absolute epoch time or an
	// ordinal day offset depending on the queue; EffectiveDue resolves
	// the ambiguity once.
	Due          int64
	OriginalDue  int64
	IntervalDays int64
	// Factor is the ease factor in permille (2500 = 250%). Zero means
	// the card has never had one.
	Factor int64

	// Memory holds the FSRS state when the collection tracks it.
	Memory MemoryState

	// Retrievability is a pre-computed recall probability supplied by
	// some exports. NaN means not supplied; it is then derived from
	// Memory and the review history.
	Retrievability float64
}

// InFilteredDeck reports whether the card is on loan to a filtered deck.
func (c Card) InFilteredDeck() bool {
	return c.OriginalDeckID != 0
}

// ScheduledInDays reports whether the card's position is tracked at day
// granularity rather than as an exact instant. Review and day-learning
// queues schedule in days, as do suspended and buried cards that were in
// review when pulled out.
func (c Card) ScheduledInDays() bool {
	if c.Queue == QueueReview || c.Queue == QueueDayLearn {
		return true
	}
	return c.Type == CardTypeReview && c.Queue < 0
}
