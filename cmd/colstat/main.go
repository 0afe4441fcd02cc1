// Command colstat prints the statistics of an Anki collection outside
// the application: the frequency tables of the built-in statistics view
// plus the true-retention summary, computed from either a flat card
// export or a read-only copy of the collection database.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/colstat/colstat/internal/collection"
	"github.com/colstat/colstat/internal/config"
	"github.com/colstat/colstat/internal/domain"
	"github.com/colstat/colstat/internal/export"
	"github.com/colstat/colstat/internal/logger"
	"github.com/colstat/colstat/internal/report"
	"github.com/colstat/colstat/internal/stats"
	"github.com/colstat/colstat/internal/timing"
)

var version = "dev"

func main() {
	flags := pflag.NewFlagSet("colstat", pflag.ContinueOnError)
	config.DefineFlags(flags)
	showVersion := flags.BoolP("version", "v", false, "print version and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *showVersion {
		fmt.Println("colstat", version)
		return
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		logger.Fatal("run failed", "err", err)
	}
}

// run executes one statistics pass. The wall clock is sampled exactly
// once here and threaded through every derivation, so cards classified
// early and late in the pass agree on what day it is.
func run(cfg *config.Config) error {
	hostNow := time.Now()
	now := timing.Timestamp(hostNow.Unix())

	var (
		cards     []domain.Card
		reviews   []domain.Review
		boundary  timing.DayBoundary
		rollover  int
		rowErrors []error
	)

	switch cfg.Mode {
	case config.ModeSQLite:
		col, err := collection.Open(cfg.Input)
		if err != nil {
			return err
		}
		defer col.Close()

		tc, err := col.Timing(hostNow)
		if err != nil {
			return err
		}
		logger.Info("timing configuration loaded",
			"scheduler", int(tc.SchedulerVersion),
			"rollover", tc.Rollover(),
			"local_offset_minutes_west", tc.LocalOffset,
			"local_offset_source", tc.LocalOffsetSource)
		if tc.LocalOffsetSource == timing.OffsetSourceSystem {
			logger.Info("collection stores no local offset; using the system timezone")
		}

		boundary, err = timing.Today(tc, now)
		if err != nil {
			return err
		}
		rollover = tc.Rollover()

		if cards, err = col.Cards(); err != nil {
			return err
		}
		if reviews, err = col.Reviews(); err != nil {
			return err
		}

	case config.ModeText:
		ex, err := export.ReadFile(cfg.Input)
		if err != nil {
			return err
		}
		cards, reviews, rowErrors = ex.Cards, ex.Reviews, ex.RowErrors
		rollover = ex.RolloverHour

		// The export carries the day index precomputed; only the next
		// rollover instant is reconstructed, from the host clock.
		boundary = timing.DayBoundary{
			Now:         now,
			DaysElapsed: ex.TodayDaysElapsed,
			NextDayAt:   timing.Timestamp(timing.NextDayStart(hostNow, ex.RolloverHour).Unix()),
		}

	default:
		return fmt.Errorf("unknown input mode %q", cfg.Mode)
	}

	logger.Info("collection loaded",
		"cards", len(cards),
		"reviews", len(reviews),
		"days_elapsed", boundary.DaysElapsed)

	classifier := stats.NewClassifier(boundary, stats.LastReviewTimes(reviews), stats.Options{
		RolloverHour:            rollover,
		HostSecondsWest:         timing.SystemOffsetSecondsWest(hostNow),
		CorrectedRetrievability: cfg.CorrectedRetrievability,
	})

	cardFacts := make([]stats.CardFacts, 0, len(cards))
	for _, c := range cards {
		facts, err := classifier.Card(c)
		if err != nil {
			rowErrors = append(rowErrors, err)
			continue
		}
		cardFacts = append(cardFacts, facts)
	}

	reviewFacts := make([]stats.ReviewFacts, 0, len(reviews))
	for _, r := range reviews {
		reviewFacts = append(reviewFacts, classifier.Review(r))
	}

	for _, e := range rowErrors {
		logger.Warn("skipped row", "err", e)
	}
	if len(rowErrors) > 0 {
		logger.Warn("some rows were skipped", "count", len(rowErrors))
	}

	return report.Write(os.Stdout, cardFacts, reviewFacts, report.Options{
		MaxRows: cfg.MaxRows,
		Year:    hostNow.Year(),
	})
}
