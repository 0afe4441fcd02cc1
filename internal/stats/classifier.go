// Package stats derives the per-row statistics columns of a collection:
// which display category every card and review event belongs to, where it
// sits on the logical day axis, and the memory-model quantities the report
// tables aggregate. Every derivation is a pure function of one row plus
// the per-run day boundary; rows never read each other's results.
package stats

import (
	"time"

	"github.com/colstat/colstat/internal/domain"
	"github.com/colstat/colstat/internal/timing"
)

// Options bundles the per-run environment the classifiers need beyond the
// day boundary itself. Former process-global settings live here so a run
// carries its own configuration.
type Options struct {
	// RolloverHour shifts calendar-date grouping of reviews: an answer
	// at 02:00 with a rollover of 4 still belongs to the previous day.
	RolloverHour int
	// Location is the zone for wall-clock date grouping. Nil means the
	// host zone.
	Location *time.Location
	// HostSecondsWest is the host UTC offset applied to hour-of-day
	// grouping.
	HostSecondsWest int
	// CorrectedRetrievability measures elapsed time from the sampled
	// now. The default measures against the upcoming rollover instant,
	// matching the application's own statistics view.
	CorrectedRetrievability bool
}

// Classifier derives statistics columns under one day boundary. It is
// immutable after construction, so classifying the same row twice yields
// identical results.
type Classifier struct {
	boundary   timing.DayBoundary
	lastReview map[int64]int64
	opts       Options
	loc        *time.Location
}

// NewClassifier builds a classifier for one run. lastReview carries the
// most recent review instant per card (see LastReviewTimes) and may be nil
// when review history is unavailable.
func NewClassifier(boundary timing.DayBoundary, lastReview map[int64]int64, opts Options) *Classifier {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Classifier{
		boundary:   boundary,
		lastReview: lastReview,
		opts:       opts,
		loc:        loc,
	}
}

// LastReviewTimes indexes the most recent review instant per card, in
// epoch seconds.
func LastReviewTimes(reviews []domain.Review) map[int64]int64 {
	last := make(map[int64]int64)
	for _, r := range reviews {
		if secs := r.Seconds(); secs > last[r.CardID] {
			last[r.CardID] = secs
		}
	}
	return last
}

// retrievabilityReference is the instant elapsed days are measured
// against.
func (cl *Classifier) retrievabilityReference() int64 {
	if cl.opts.CorrectedRetrievability {
		return int64(cl.boundary.Now)
	}
	return int64(cl.boundary.NextDayAt)
}
