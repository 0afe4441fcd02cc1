package stats

import (
	"reflect"
	"testing"
	"time"

	"github.com/colstat/colstat/internal/domain"
	"github.com/colstat/colstat/internal/timing"
)

func TestReviewCategories(t *testing.T) {
	cl := NewClassifier(testBoundary, nil, Options{Location: time.UTC})

	testCases := []struct {
		name       string
		kind       domain.ReviewKind
		lastIvl    int64
		wantCoarse ReviewCoarse
		wantFine   ReviewFine
	}{
		{"learning", domain.ReviewKindLearn, 0, CoarseLearning, FineLearning},
		{"relearning", domain.ReviewKindRelearn, -600, CoarseLearning, FineRelearning},
		{"filtered", domain.ReviewKindFiltered, 3, CoarseLearning, FineFiltered},
		{"young review", domain.ReviewKindReview, 20, CoarseYoung, FineYoung},
		{"mature review", domain.ReviewKindReview, 21, CoarseMature, FineMature},
		{"review after sub day interval", domain.ReviewKindReview, -600, CoarseYoung, FineYoung},
		{"manual", domain.ReviewKindManual, 10, CoarseOther, FineOther},
		{"rescheduled", domain.ReviewKindRescheduled, 10, CoarseOther, FineOther},
		{"unknown kind", domain.ReviewKind(77), 10, CoarseOther, FineOther},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			facts := cl.Review(domain.Review{Kind: tc.kind, LastInterval: tc.lastIvl})
			if facts.Coarse != tc.wantCoarse {
				t.Errorf("Coarse = %v, want %v", facts.Coarse, tc.wantCoarse)
			}
			if facts.Fine != tc.wantFine {
				t.Errorf("Fine = %v, want %v", facts.Fine, tc.wantFine)
			}
		})
	}
}

func TestReviewRelativeDays(t *testing.T) {
	cl := NewClassifier(testBoundary, nil, Options{Location: time.UTC})

	testCases := []struct {
		name string
		secs int64
		want int64
	}{
		{"just before the rollover", int64(testBoundary.NextDayAt) - 1, 0},
		{"one day and a second before", int64(testBoundary.NextDayAt) - 86401, -1},
		{"a week back", int64(testBoundary.NextDayAt) - 7*86400, -7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			facts := cl.Review(domain.Review{ID: tc.secs * 1000, Kind: domain.ReviewKindReview})
			if facts.RelativeDays != tc.want {
				t.Errorf("RelativeDays = %d, want %d", facts.RelativeDays, tc.want)
			}
		})
	}
}

func TestReviewAdjustedDate(t *testing.T) {
	cl := NewClassifier(testBoundary, nil, Options{Location: time.UTC, RolloverHour: 4})

	testCases := []struct {
		name string
		at   time.Time
		want time.Time
	}{
		{
			name: "before the rollover belongs to the previous day",
			at:   time.Date(2023, time.November, 15, 2, 0, 0, 0, time.UTC),
			want: time.Date(2023, time.November, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "after the rollover keeps its date",
			at:   time.Date(2023, time.November, 15, 5, 0, 0, 0, time.UTC),
			want: time.Date(2023, time.November, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly at the rollover keeps its date",
			at:   time.Date(2023, time.November, 15, 4, 0, 0, 0, time.UTC),
			want: time.Date(2023, time.November, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			facts := cl.Review(domain.Review{ID: tc.at.Unix() * 1000, Kind: domain.ReviewKindReview})
			if !facts.AdjustedDate.Equal(tc.want) {
				t.Errorf("AdjustedDate = %v, want %v", facts.AdjustedDate, tc.want)
			}
		})
	}
}

func TestReviewHourOfDay(t *testing.T) {
	at := time.Date(2023, time.November, 15, 14, 30, 0, 0, time.UTC)

	testCases := []struct {
		name            string
		hostSecondsWest int
		want            int
	}{
		{"utc", 0, 14},
		{"five hours west", 5 * 3600, 9},
		{"one hour east", -3600, 15},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cl := NewClassifier(testBoundary, nil, Options{Location: time.UTC, HostSecondsWest: tc.hostSecondsWest})
			facts := cl.Review(domain.Review{ID: at.Unix() * 1000, Kind: domain.ReviewKindReview})
			if facts.Hour != tc.want {
				t.Errorf("Hour = %d, want %d", facts.Hour, tc.want)
			}
		})
	}
}

func TestReviewTakenHours(t *testing.T) {
	cl := NewClassifier(testBoundary, nil, Options{Location: time.UTC})

	facts := cl.Review(domain.Review{Kind: domain.ReviewKindReview, TakenMillis: 3_600_000})
	if facts.TakenHours != 1 {
		t.Errorf("TakenHours = %v, want 1", facts.TakenHours)
	}
	facts = cl.Review(domain.Review{Kind: domain.ReviewKindReview, TakenMillis: 90_000})
	if facts.TakenHours != 0.025 {
		t.Errorf("TakenHours = %v, want 0.025", facts.TakenHours)
	}
}

func TestRetentionPopulationGate(t *testing.T) {
	testCases := []struct {
		name   string
		review domain.Review
		want   bool
	}{
		{
			name:   "no grade never counts",
			review: domain.Review{Kind: domain.ReviewKindReview, Ease: 0, LastInterval: 100},
			want:   false,
		},
		{
			name:   "zero factor filtered rehearsal excluded regardless of grade",
			review: domain.Review{Kind: domain.ReviewKindFiltered, Ease: 3, Factor: 0, LastInterval: 100},
			want:   false,
		},
		{
			name:   "filtered with a factor and a day-scale gap counts",
			review: domain.Review{Kind: domain.ReviewKindFiltered, Ease: 3, Factor: 2500, LastInterval: -86400},
			want:   true,
		},
		{
			name:   "genuine review counts even with a zero interval",
			review: domain.Review{Kind: domain.ReviewKindReview, Ease: 1, LastInterval: 0},
			want:   true,
		},
		{
			name:   "sub day relearning step excluded",
			review: domain.Review{Kind: domain.ReviewKindRelearn, Ease: 3, Factor: 2500, LastInterval: -500},
			want:   false,
		},
		{
			name:   "relearning after a full day in seconds counts",
			review: domain.Review{Kind: domain.ReviewKindRelearn, Ease: 1, Factor: 2500, LastInterval: -86400},
			want:   true,
		},
		{
			name:   "relearning after a whole day counts",
			review: domain.Review{Kind: domain.ReviewKindRelearn, Ease: 3, Factor: 2500, LastInterval: 1},
			want:   true,
		},
		{
			name:   "same day learning step excluded",
			review: domain.Review{Kind: domain.ReviewKindLearn, Ease: 2, Factor: 2500, LastInterval: 0},
			want:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := inRetentionPopulation(tc.review); got != tc.want {
				t.Errorf("inRetentionPopulation(%+v) = %v, want %v", tc.review, got, tc.want)
			}
		})
	}
}

func TestGradedCorrect(t *testing.T) {
	cl := NewClassifier(testBoundary, nil, Options{Location: time.UTC})

	if facts := cl.Review(domain.Review{Kind: domain.ReviewKindManual, Ease: 0}); facts.GradedCorrect != nil {
		t.Errorf("GradedCorrect = %v, want nil for ease 0", *facts.GradedCorrect)
	}
	if facts := cl.Review(domain.Review{Kind: domain.ReviewKindReview, Ease: 1}); facts.GradedCorrect == nil || *facts.GradedCorrect {
		t.Error("GradedCorrect for ease 1 should be false")
	}
	for _, ease := range []int{2, 3, 4} {
		if facts := cl.Review(domain.Review{Kind: domain.ReviewKindReview, Ease: ease}); facts.GradedCorrect == nil || !*facts.GradedCorrect {
			t.Errorf("GradedCorrect for ease %d should be true", ease)
		}
	}
}

func TestReviewClassificationIdempotent(t *testing.T) {
	cl := NewClassifier(testBoundary, nil, Options{Location: time.UTC, RolloverHour: 4})
	review := domain.Review{
		ID:           int64(testBoundary.NextDayAt-3*86400) * 1000,
		CardID:       3,
		Ease:         3,
		Interval:     12,
		LastInterval: 6,
		Factor:       2400,
		TakenMillis:  7200,
		Kind:         domain.ReviewKindReview,
	}

	first := cl.Review(review)
	second := cl.Review(review)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("reclassification changed the result:\nfirst  %+v\nsecond %+v", first, second)
	}
}

// TestDayAfterCreationScenario drives the full chain: a collection created
// at the default rollover hour, queried twenty-five hours later, with one
// young review on the books.
func TestDayAfterCreationScenario(t *testing.T) {
	created := time.Date(2020, time.January, 1, 4, 0, 0, 0, time.UTC)
	now := timing.Timestamp(created.Add(25 * time.Hour).Unix())

	cfg := timing.Config{
		CreatedAt:        timing.Timestamp(created.Unix()),
		SchedulerVersion: timing.SchedulerV2,
		RolloverHour:     intPtr(4),
		CreationOffset:   intPtr(0),
		LocalOffset:      0,
	}
	boundary, err := timing.Today(cfg, now)
	if err != nil {
		t.Fatalf("Today() returned an unexpected error: %v", err)
	}
	if boundary.DaysElapsed != 1 {
		t.Fatalf("DaysElapsed = %d, want 1", boundary.DaysElapsed)
	}

	cl := NewClassifier(boundary, nil, Options{Location: time.UTC, RolloverHour: 4})
	facts := cl.Review(domain.Review{
		ID:           int64(now) * 1000,
		Kind:         domain.ReviewKindReview,
		LastInterval: 10,
		Ease:         3,
	})
	if facts.Coarse != CoarseYoung {
		t.Errorf("Coarse = %v, want %v", facts.Coarse, CoarseYoung)
	}
	if facts.GradedCorrect == nil || !*facts.GradedCorrect {
		t.Error("GradedCorrect should be true for ease 3")
	}
	if !facts.InRetentionPop {
		t.Error("a graded young review belongs to the retention population")
	}
}

func intPtr(v int) *int { return &v }
