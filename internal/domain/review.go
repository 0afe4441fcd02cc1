package domain

// ReviewKind is the event type stored on a review-log row.
type ReviewKind int

const (
	ReviewKindLearn       ReviewKind = 0
	ReviewKindReview      ReviewKind = 1
	ReviewKindRelearn     ReviewKind = 2
	ReviewKindFiltered    ReviewKind = 3
	ReviewKindManual      ReviewKind = 4
	ReviewKindRescheduled ReviewKind = 5
)

func (k ReviewKind) String() string {
	switch k {
	case ReviewKindLearn:
		return "learning"
	case ReviewKindReview:
		return "review"
	case ReviewKindRelearn:
		return "relearning"
	case ReviewKindFiltered:
		return "filtered"
	case ReviewKindManual:
		return "manual"
	case ReviewKindRescheduled:
		return "rescheduled"
	default:
		return "unknown"
	}
}

// Review is one row of the review log: a single historical answer event.
// Rows are append-only history; the card row stays authoritative for the
// card's current state because scheduling can rewrite due and interval
// out-of-band.
type Review struct {
	// ID is the event's epoch-millisecond timestamp, monotonic per card.
	ID     int64
	CardID int64
	// Ease is the grade: 0 for manual/rescheduled entries with no grade,
	// 1 again, 2-4 graded success tiers.
	Ease int
	// Interval is the interval the event resulted in; LastInterval the
	// one before it. Both are signed: positive counts days, negative
	// counts seconds of a sub-day interval.
	Interval     int64
	LastInterval int64
	// Factor is the ease factor in permille at event time.
	Factor      int64
	TakenMillis int64
	Kind        ReviewKind
}

// Seconds is the event instant in epoch seconds.
func (r Review) Seconds() int64 {
	return r.ID / 1000
}
