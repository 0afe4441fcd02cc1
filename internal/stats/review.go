package stats

import (
	"time"

	"github.com/colstat/colstat/internal/domain"
	"github.com/colstat/colstat/internal/timing"
)

// ReviewCoarse is the coarse event category: all learning-flavored events
// pool together, review events split by maturity, bookkeeping events land
// in Other.
type ReviewCoarse int

const (
	CoarseLearning ReviewCoarse = 1
	CoarseYoung    ReviewCoarse = 2
	CoarseMature   ReviewCoarse = 3
	CoarseOther    ReviewCoarse = 9
)

func (c ReviewCoarse) String() string {
	switch c {
	case CoarseLearning:
		return "1. Learning (+ Filtered + Relearning)"
	case CoarseYoung:
		return "2. Young"
	case CoarseMature:
		return "3. Mature"
	default:
		return "Other"
	}
}

// ReviewFine is the fine event category: learning flavors stay separate
// and only genuine review events split by maturity.
type ReviewFine int

const (
	FineFiltered   ReviewFine = 1
	FineLearning   ReviewFine = 2
	FineRelearning ReviewFine = 3
	FineYoung      ReviewFine = 4
	FineMature     ReviewFine = 5
	FineOther      ReviewFine = 9
)

func (f ReviewFine) String() string {
	switch f {
	case FineFiltered:
		return "1. Filtered"
	case FineLearning:
		return "2. Learning"
	case FineRelearning:
		return "3. Relearning"
	case FineYoung:
		return "4. Young"
	case FineMature:
		return "5. Mature"
	default:
		return "Other"
	}
}

// ReviewKindLabel is the display label for a raw event kind, numbered so
// the rows of the daily summary sort in display order.
func ReviewKindLabel(k domain.ReviewKind) string {
	switch k {
	case domain.ReviewKindLearn:
		return "1. Learning"
	case domain.ReviewKindReview:
		return "2. Reviewing"
	case domain.ReviewKindRelearn:
		return "3. Relearning"
	case domain.ReviewKindFiltered:
		return "4. Filtered"
	case domain.ReviewKindManual:
		return "Manual"
	case domain.ReviewKindRescheduled:
		return "Rescheduled"
	default:
		return "Unknown"
	}
}

// ReviewFacts is one review-log row enriched with every derived column
// the report tables consume.
type ReviewFacts struct {
	Review domain.Review
	Coarse ReviewCoarse
	Fine   ReviewFine
	// RelativeDays situates the event on the day axis shared with card
	// due dates; today's not-yet-finished day is 0, yesterday -1.
	RelativeDays int64
	// AdjustedDate is the event's wall-clock date shifted back by the
	// rollover hour, at midnight in the classifier's location.
	AdjustedDate time.Time
	// Hour is the local hour of day the answer happened in.
	Hour int
	// TakenHours is the answer duration in hours.
	TakenHours float64
	// InRetentionPop marks events that count toward true-retention
	// percentages.
	InRetentionPop bool
	// GradedCorrect is nil for ungraded bookkeeping events, otherwise
	// whether the grade was a pass.
	GradedCorrect *bool
}

// Review derives the statistics columns for one review-log row.
func (cl *Classifier) Review(r domain.Review) ReviewFacts {
	secs := r.Seconds()
	return ReviewFacts{
		Review:         r,
		Coarse:         reviewCoarse(r.Kind, r.LastInterval),
		Fine:           reviewFine(r.Kind, r.LastInterval),
		RelativeDays:   timing.DaysRoundToZero(secs - int64(cl.boundary.NextDayAt)),
		AdjustedDate:   cl.adjustedDate(secs),
		Hour:           cl.hourOfDay(secs),
		TakenHours:     float64(r.TakenMillis) / 1000 / 3600,
		InRetentionPop: inRetentionPopulation(r),
		GradedCorrect:  gradedCorrect(r.Ease),
	}
}

func reviewCoarse(kind domain.ReviewKind, lastInterval int64) ReviewCoarse {
	switch kind {
	case domain.ReviewKindLearn, domain.ReviewKindRelearn, domain.ReviewKindFiltered:
		return CoarseLearning
	case domain.ReviewKindReview:
		if lastInterval < MatureIntervalDays {
			return CoarseYoung
		}
		return CoarseMature
	default:
		return CoarseOther
	}
}

func reviewFine(kind domain.ReviewKind, lastInterval int64) ReviewFine {
	switch kind {
	case domain.ReviewKindFiltered:
		return FineFiltered
	case domain.ReviewKindLearn:
		return FineLearning
	case domain.ReviewKindRelearn:
		return FineRelearning
	case domain.ReviewKindReview:
		if lastInterval < MatureIntervalDays {
			return FineYoung
		}
		return FineMature
	default:
		return FineOther
	}
}

// adjustedDate shifts the event back by the rollover hour before taking
// its calendar date, so answers before the rollover count toward the
// previous day.
func (cl *Classifier) adjustedDate(secs int64) time.Time {
	shifted := time.Unix(secs, 0).In(cl.loc).Add(-time.Duration(cl.opts.RolloverHour) * time.Hour)
	y, m, d := shifted.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, cl.loc)
}

// hourOfDay buckets the event into a local hour using the host offset.
func (cl *Classifier) hourOfDay(secs int64) int {
	local := secs - int64(cl.opts.HostSecondsWest)
	hour := (local / 3600) % 24
	if hour < 0 {
		hour += 24
	}
	return int(hour)
}

// inRetentionPopulation is the exact three-part eligibility gate for
// true-retention statistics: the event must carry a real grade, must not
// be a zero-factor filtered rehearsal, and must either be a genuine
// review or have crossed at least a day since the previous step. The
// interval leg is what keeps degenerate sub-day relearning steps out
// while genuine lapses still count.
func inRetentionPopulation(r domain.Review) bool {
	if r.Ease <= 0 {
		return false
	}
	if r.Kind == domain.ReviewKindFiltered && r.Factor == 0 {
		return false
	}
	return r.Kind == domain.ReviewKindReview ||
		r.LastInterval <= -86400 ||
		r.LastInterval >= 1
}

// gradedCorrect is nil when no grade was recorded; anything above Again
// counts as correct.
func gradedCorrect(ease int) *bool {
	if ease == 0 {
		return nil
	}
	v := ease > 1
	return &v
}
