package report

import (
	"io"
	"math"
	"strconv"

	"github.com/colstat/colstat/internal/domain"
	"github.com/colstat/colstat/internal/stats"
)

// Options control rendering of the full report.
type Options struct {
	// MaxRows caps the rows printed per table; 0 means no cap.
	MaxRows int
	// Year gates the calendar table to dates in this year and later.
	Year int
}

// Write renders every report table in display order, ending with the
// true-retention summary.
func Write(w io.Writer, cards []stats.CardFacts, reviews []stats.ReviewFacts, opts Options) error {
	for _, t := range Suite(cards, reviews, opts.Year) {
		if err := t.Render(w, opts.MaxRows); err != nil {
			return err
		}
	}
	return WriteRetention(w, reviews)
}

// Suite assembles the frequency and time tables from the classified rows,
// in the order the statistics view shows them. Manual and rescheduled
// log entries never count as answered reviews.
func Suite(cards []stats.CardFacts, reviews []stats.ReviewFacts, year int) []*Table {
	today := NewCount("Table 1a: Today", true, "Type")
	todayCorrect := NewCount("Table 1b: Today (all cards)", true, "Correct")
	todayMature := NewCount("Table 1c: Today (mature cards)", true, "Correct")
	futureDue := NewCount("Table 2: Future Due", true, "Days")
	calendar := NewCount("Table 3: Calendar (current year to date)", false, "Date")
	counts := NewCount("Table 4.1: Reviews (counts)", false, "Days")
	timeOverall := NewWeighted("Table 4.2: Reviews (time - overall)", "Time", PrintableTime, "Days")
	timeByType := NewWeighted("Table 4.3: Reviews (time - by type)", "Time", PrintableTime, "Days", "Type")
	cardCounts := NewCount("Table 5: Card Counts", true, "Category")
	intervals := NewCount("Table 6: Review Intervals", true, "Interval")
	ease := NewCount("Table 7: Card Ease (non-FSRS decks only)", false, "Ease")
	stability := NewCount("Table 8: Card Stability (FSRS decks only)", false, "Stability")
	difficulty := NewCount("Table 9: Card Difficulty (FSRS decks only)", false, "Difficulty")
	retrievability := NewCount("Table 10: Card Retrievability (FSRS decks only)", false, "Retrievability")
	hourly := NewCount("Table 11: Hourly Breakdown (counts)", false, "Hour")
	buttons := NewCount("Table 12: Answer Buttons", false, "Type", "Ease")
	added := NewCount("Table 13: Added", false, "Days")

	for _, f := range reviews {
		r := f.Review
		answered := r.Kind != domain.ReviewKindManual && r.Kind != domain.ReviewKindRescheduled
		if !answered {
			continue
		}

		if f.RelativeDays == 0 {
			today.Add(Key{A: TextPart(stats.ReviewKindLabel(r.Kind))})
			if f.GradedCorrect != nil {
				correct := TextPart(strconv.FormatBool(*f.GradedCorrect))
				todayCorrect.Add(Key{A: correct})
				if r.LastInterval >= stats.MatureIntervalDays {
					todayMature.Add(Key{A: correct})
				}
			}
		}
		if f.AdjustedDate.Year() >= year {
			calendar.Add(Key{A: TextPart(f.AdjustedDate.Format("2006-01-02"))})
		}
		if f.RelativeDays >= -30 {
			day := NumPart(f.RelativeDays)
			counts.Add(Key{A: day})
			timeOverall.AddWeight(Key{A: day}, f.TakenHours)
			timeByType.AddWeight(Key{A: day, B: TextPart(f.Fine.String())}, f.TakenHours)
		}
		if r.Kind != domain.ReviewKindFiltered {
			hourly.Add(Key{A: NumPart(int64(f.Hour))})
		}
		if r.Ease >= 1 && r.Ease <= 4 {
			buttons.Add(Key{A: TextPart(f.Coarse.String()), B: NumPart(int64(r.Ease))})
		}
	}

	for _, f := range cards {
		c := f.Card
		cardCounts.Add(Key{A: TextPart(f.Bucket.String())})

		scheduled := c.Type != domain.CardTypeNew && c.Queue != domain.QueueSuspended &&
			!(c.Queue.Buried() && f.DueDays <= 0)
		if scheduled && f.DueDays >= 0 && f.DueDays <= 30 {
			futureDue.Add(Key{A: NumPart(f.DueDays)})
		}

		if c.Type == domain.CardTypeReview || c.Type == domain.CardTypeRelearn {
			if c.IntervalDays <= 31 {
				intervals.Add(Key{A: NumPart(c.IntervalDays)})
			}
			ease.Add(Key{A: TextPart(f.EaseLabel)})
		}

		if !math.IsNaN(f.StabilityRounded) && f.StabilityRounded < 31 {
			stability.Add(Key{A: NumPart(int64(f.StabilityRounded))})
		}
		if !math.IsNaN(f.ScaledDifficulty) {
			difficulty.Add(Key{A: TextPart(f.DifficultyLabel)})
			retrievability.Add(Key{A: TextPart(f.RetrievabilityLabel)})
		}

		if f.AddedDays >= -31 && f.AddedDays <= 0 {
			added.Add(Key{A: NumPart(f.AddedDays)})
		}
	}

	return []*Table{
		today, todayCorrect, todayMature, futureDue, calendar,
		counts, timeOverall, timeByType, cardCounts, intervals,
		ease, stability, difficulty, retrievability, hourly,
		buttons, added,
	}
}
