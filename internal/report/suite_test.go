package report

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/colstat/colstat/internal/domain"
	"github.com/colstat/colstat/internal/stats"
)

func boolPtr(b bool) *bool { return &b }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testReviews() []stats.ReviewFacts {
	return []stats.ReviewFacts{
		{
			// Mature review answered today.
			Review:         domain.Review{Kind: domain.ReviewKindReview, Ease: 3, LastInterval: 30, TakenMillis: 1800000},
			Coarse:         stats.CoarseMature,
			Fine:           stats.FineMature,
			RelativeDays:   0,
			AdjustedDate:   date(2026, 3, 1),
			Hour:           10,
			TakenHours:     0.5,
			InRetentionPop: true,
			GradedCorrect:  boolPtr(true),
		},
		{
			// Learning step failed today; sub-day interval.
			Review:         domain.Review{Kind: domain.ReviewKindLearn, Ease: 1, LastInterval: -60, TakenMillis: 900000},
			Coarse:         stats.CoarseLearning,
			Fine:           stats.FineLearning,
			RelativeDays:   0,
			AdjustedDate:   date(2026, 3, 1),
			Hour:           23,
			TakenHours:     0.25,
			GradedCorrect:  boolPtr(false),
		},
		{
			// Manual bookkeeping entry, never an answered review.
			Review:       domain.Review{Kind: domain.ReviewKindManual, Ease: 0},
			Coarse:       stats.CoarseOther,
			Fine:         stats.FineOther,
			RelativeDays: 0,
			AdjustedDate: date(2026, 3, 1),
			Hour:         10,
		},
		{
			// Young review outside the 30-day window and the current year.
			Review:         domain.Review{Kind: domain.ReviewKindReview, Ease: 3, LastInterval: 10, TakenMillis: 3600000},
			Coarse:         stats.CoarseYoung,
			Fine:           stats.FineYoung,
			RelativeDays:   -40,
			AdjustedDate:   date(2025, 12, 20),
			Hour:           10,
			TakenHours:     1,
			InRetentionPop: true,
			GradedCorrect:  boolPtr(true),
		},
		{
			// Filtered rehearsal yesterday.
			Review:        domain.Review{Kind: domain.ReviewKindFiltered, Ease: 2, LastInterval: 3, TakenMillis: 360000},
			Coarse:        stats.CoarseLearning,
			Fine:          stats.FineFiltered,
			RelativeDays:  -1,
			AdjustedDate:  date(2026, 2, 28),
			Hour:          5,
			TakenHours:    0.1,
			GradedCorrect: boolPtr(true),
		},
	}
}

func testCards() []stats.CardFacts {
	return []stats.CardFacts{
		{
			// Mature review card due soon.
			Card: domain.Card{ID: 1, Type: domain.CardTypeReview, Queue: domain.QueueReview,
				IntervalDays: 25, Factor: 2500},
			Bucket:              stats.BucketMature,
			DueDays:             5,
			StabilityRounded:    12,
			ScaledDifficulty:    47.5,
			Retrievability:      0.9,
			EaseLabel:           "[250%, 260%)",
			DifficultyLabel:     "[45%, 50%)",
			RetrievabilityLabel: "[90%, 95%)",
			AddedDays:           -10,
		},
		{
			// New card added today; nothing scheduled yet.
			Card:             domain.Card{ID: 2, Type: domain.CardTypeNew, Queue: domain.QueueNew},
			Bucket:           stats.BucketNew,
			DueDays:          3,
			StabilityRounded: math.NaN(),
			ScaledDifficulty: math.NaN(),
			Retrievability:   math.NaN(),
			AddedDays:        0,
		},
		{
			// Suspended review card with a long interval.
			Card: domain.Card{ID: 3, Type: domain.CardTypeReview, Queue: domain.QueueSuspended,
				IntervalDays: 40, Factor: 2300},
			Bucket:           stats.BucketSuspended,
			DueDays:          2,
			StabilityRounded: math.NaN(),
			ScaledDifficulty: math.NaN(),
			Retrievability:   math.NaN(),
			EaseLabel:        "[230%, 240%)",
			AddedDays:        -50,
		},
		{
			// Buried card already due; hidden from the forecast.
			Card: domain.Card{ID: 4, Type: domain.CardTypeLearn, Queue: domain.QueueSiblingBuried},
			Bucket:           stats.BucketBuried,
			DueDays:          0,
			StabilityRounded: math.NaN(),
			ScaledDifficulty: math.NaN(),
			Retrievability:   math.NaN(),
			AddedDays:        -50,
		},
		{
			// Young review card due beyond the forecast window.
			Card: domain.Card{ID: 5, Type: domain.CardTypeReview, Queue: domain.QueueReview,
				IntervalDays: 10, Factor: 2100},
			Bucket:           stats.BucketYoung,
			DueDays:          35,
			StabilityRounded: math.NaN(),
			ScaledDifficulty: math.NaN(),
			Retrievability:   math.NaN(),
			EaseLabel:        "[210%, 220%)",
			AddedDays:        -50,
		},
	}
}

func suiteTable(t *testing.T, tables []*Table, title string) *Table {
	t.Helper()
	for _, table := range tables {
		if table.Title() == title {
			return table
		}
	}
	t.Fatalf("no table titled %q", title)
	return nil
}

func TestSuiteReviewTables(t *testing.T) {
	tables := Suite(testCards(), testReviews(), 2026)

	today := suiteTable(t, tables, "Table 1a: Today")
	if today.Count(Key{A: TextPart("2. Reviewing")}) != 1 {
		t.Errorf("today table missing the review event")
	}
	if today.Count(Key{A: TextPart("1. Learning")}) != 1 {
		t.Errorf("today table missing the learning event")
	}
	if today.Len() != 2 {
		t.Errorf("today table has %d rows, want 2", today.Len())
	}

	correct := suiteTable(t, tables, "Table 1b: Today (all cards)")
	if correct.Count(Key{A: TextPart("true")}) != 1 || correct.Count(Key{A: TextPart("false")}) != 1 {
		t.Errorf("today correctness table wrong")
	}

	mature := suiteTable(t, tables, "Table 1c: Today (mature cards)")
	if mature.Len() != 1 || mature.Count(Key{A: TextPart("true")}) != 1 {
		t.Errorf("mature correctness table should hold only the 30-day review")
	}

	calendar := suiteTable(t, tables, "Table 3: Calendar (current year to date)")
	if calendar.Count(Key{A: TextPart("2026-03-01")}) != 2 {
		t.Errorf("calendar should pool the two answers on 2026-03-01")
	}
	if calendar.Count(Key{A: TextPart("2025-12-20")}) != 0 {
		t.Errorf("calendar must exclude previous years")
	}

	counts := suiteTable(t, tables, "Table 4.1: Reviews (counts)")
	if counts.Count(Key{A: NumPart(0)}) != 2 || counts.Count(Key{A: NumPart(-1)}) != 1 {
		t.Errorf("review counts wrong")
	}
	if counts.Count(Key{A: NumPart(-40)}) != 0 {
		t.Errorf("review counts must stop 30 days back")
	}

	timeOverall := suiteTable(t, tables, "Table 4.2: Reviews (time - overall)")
	if got := timeOverall.Count(Key{A: NumPart(0)}); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("day-0 time = %v hours, want 0.75", got)
	}

	timeByType := suiteTable(t, tables, "Table 4.3: Reviews (time - by type)")
	if got := timeByType.Count(Key{A: NumPart(0), B: TextPart("5. Mature")}); got != 0.5 {
		t.Errorf("mature day-0 time = %v, want 0.5", got)
	}
	if got := timeByType.Count(Key{A: NumPart(-1), B: TextPart("1. Filtered")}); got != 0.1 {
		t.Errorf("filtered day -1 time = %v, want 0.1", got)
	}

	hourly := suiteTable(t, tables, "Table 11: Hourly Breakdown (counts)")
	if hourly.Count(Key{A: NumPart(10)}) != 2 {
		t.Errorf("hour 10 should hold the two genuine reviews")
	}
	if hourly.Count(Key{A: NumPart(5)}) != 0 {
		t.Errorf("hourly breakdown must exclude filtered rehearsals")
	}

	buttons := suiteTable(t, tables, "Table 12: Answer Buttons")
	if buttons.Count(Key{A: TextPart("3. Mature"), B: NumPart(3)}) != 1 {
		t.Errorf("buttons table missing mature ease 3")
	}
	if buttons.Count(Key{A: TextPart("2. Young"), B: NumPart(3)}) != 1 {
		t.Errorf("buttons table missing young ease 3")
	}
	if buttons.Count(Key{A: TextPart("1. Learning (+ Filtered + Relearning)"), B: NumPart(1)}) != 1 {
		t.Errorf("buttons table missing learning ease 1")
	}
}

func TestSuiteCardTables(t *testing.T) {
	tables := Suite(testCards(), testReviews(), 2026)

	cardCounts := suiteTable(t, tables, "Table 5: Card Counts")
	if cardCounts.Len() != 5 {
		t.Errorf("card counts has %d buckets, want 5", cardCounts.Len())
	}
	if cardCounts.Count(Key{A: TextPart("5. Mature")}) != 1 {
		t.Errorf("card counts missing the mature card")
	}

	futureDue := suiteTable(t, tables, "Table 2: Future Due")
	if futureDue.Len() != 1 || futureDue.Count(Key{A: NumPart(5)}) != 1 {
		t.Errorf("future due should hold only the scheduled mature card")
	}

	intervals := suiteTable(t, tables, "Table 6: Review Intervals")
	if intervals.Count(Key{A: NumPart(25)}) != 1 || intervals.Count(Key{A: NumPart(10)}) != 1 {
		t.Errorf("intervals table wrong")
	}
	if intervals.Count(Key{A: NumPart(40)}) != 0 {
		t.Errorf("intervals table must cap at 31 days")
	}

	ease := suiteTable(t, tables, "Table 7: Card Ease (non-FSRS decks only)")
	if ease.Len() != 3 {
		t.Errorf("ease table has %d rows, want the three review-type cards", ease.Len())
	}

	stability := suiteTable(t, tables, "Table 8: Card Stability (FSRS decks only)")
	if stability.Len() != 1 || stability.Count(Key{A: NumPart(12)}) != 1 {
		t.Errorf("stability table should hold one card at 12 days")
	}

	difficulty := suiteTable(t, tables, "Table 9: Card Difficulty (FSRS decks only)")
	if difficulty.Len() != 1 || difficulty.Count(Key{A: TextPart("[45%, 50%)")}) != 1 {
		t.Errorf("difficulty table should hold the one FSRS card")
	}

	retrievability := suiteTable(t, tables, "Table 10: Card Retrievability (FSRS decks only)")
	if retrievability.Len() != 1 || retrievability.Count(Key{A: TextPart("[90%, 95%)")}) != 1 {
		t.Errorf("retrievability table should hold the one FSRS card")
	}

	added := suiteTable(t, tables, "Table 13: Added")
	if added.Len() != 2 {
		t.Errorf("added table has %d rows, want the two cards inside the window", added.Len())
	}
	if added.Count(Key{A: NumPart(-10)}) != 1 || added.Count(Key{A: NumPart(0)}) != 1 {
		t.Errorf("added table wrong")
	}
}

func TestWriteRendersEveryTable(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, testCards(), testReviews(), Options{MaxRows: 60, Year: 2026})
	if err != nil {
		t.Fatalf("Write() returned an unexpected error: %v", err)
	}
	out := buf.String()

	for _, title := range []string{
		"Table 1a: Today",
		"Table 2: Future Due",
		"Table 4.3: Reviews (time - by type)",
		"Table 5: Card Counts",
		"Table 10: Card Retrievability (FSRS decks only)",
		"Table 14: True Retention",
	} {
		if !strings.Contains(out, title) {
			t.Errorf("output missing %q", title)
		}
	}

	if strings.Index(out, "Table 1a") > strings.Index(out, "Table 5") {
		t.Errorf("tables out of order")
	}
	if !strings.Contains(out, "30.00 minutes") {
		t.Errorf("output missing formatted review time:\n%s", out)
	}
}
