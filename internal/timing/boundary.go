package timing

import (
	"fmt"
	"time"
)

// SchedulerVersion selects which generation of the day-rollover algorithm
// a collection was created under. Only versions 1 and 2 have ever shipped;
// anything else in storage is a fatal configuration error.
type SchedulerVersion int

const (
	SchedulerV1 SchedulerVersion = 1
	SchedulerV2 SchedulerVersion = 2
)

// defaultRollover is the application default when a v2 collection has no
// rollover hour stored.
const defaultRollover = 4

// Config carries the per-collection inputs of the day-boundary model. It is
// read once per run and immutable afterwards.
type Config struct {
	// CreatedAt is the collection creation time in epoch seconds.
	CreatedAt Timestamp
	// SchedulerVersion is the stored schedVer value.
	SchedulerVersion SchedulerVersion
	// RolloverHour is the stored rollover hour (0-23). Nil means the
	// collection never stored one; v2 falls back to 4.
	RolloverHour *int
	// CreationOffset is the UTC offset in minutes west recorded when the
	// collection was created. Nil selects the legacy v2 algorithm, which
	// has to approximate with the current offset.
	CreationOffset *int
	// LocalOffset is the current UTC offset in minutes west.
	LocalOffset int
	// LocalOffsetSource records whether LocalOffset came from the
	// collection or from the host zone.
	LocalOffsetSource OffsetSource
}

// Rollover returns the effective rollover hour.
func (c Config) Rollover() int {
	if c.RolloverHour != nil {
		return *c.RolloverHour
	}
	return defaultRollover
}

// DayBoundary is the result of one day-boundary query: the sampled now, the
// number of logical days since collection creation, and the instant the
// next day starts. DaysElapsed can be negative when clock skew puts now
// before the reference point; that is data, not an error. NextDayAt is
// always strictly after Now.
type DayBoundary struct {
	Now         Timestamp
	DaysElapsed int32
	NextDayAt   Timestamp
}

// Today computes the day boundary for now under the algorithm the config
// selects. Results are never cached: now moves between calls in a
// long-running process, so callers sample once and reuse the value.
func Today(cfg Config, now Timestamp) (DayBoundary, error) {
	switch cfg.SchedulerVersion {
	case SchedulerV1:
		return timingV1(cfg.CreatedAt, now), nil
	case SchedulerV2:
		if cfg.CreationOffset != nil {
			return timingV2Current(cfg.CreatedAt, *cfg.CreationOffset, now, cfg.LocalOffset, cfg.Rollover()), nil
		}
		return timingV2Legacy(cfg.CreatedAt, cfg.Rollover(), now, cfg.LocalOffset), nil
	default:
		return DayBoundary{}, fmt.Errorf("%w: %d", ErrSchedulerVersion, cfg.SchedulerVersion)
	}
}

// timingV1 implements the oldest scheme: no rollover hour exists, so days
// tick over at the creation time-of-day.
func timingV1(created, now Timestamp) DayBoundary {
	days := DaysRoundToZero(int64(now - created))
	return DayBoundary{
		Now:         now,
		DaysElapsed: int32(days),
		NextDayAt:   created.AddSecs((days + 1) * secsInDay),
	}
}

// timingV2Legacy handles v2 collections that recorded a rollover hour but
// no creation-time offset. The creation instant is aligned to the rollover
// hour using the current offset; an approximation forced by the missing
// historical data.
func timingV2Legacy(created Timestamp, rolloverHour int, now Timestamp, minutesWest int) DayBoundary {
	aligned := rolloverInstant(created.Time(minutesWest), rolloverHour)
	ref := Timestamp(aligned.Unix())
	days := DaysRoundToZero(int64(now - ref))
	return DayBoundary{
		Now:         now,
		DaysElapsed: int32(days),
		NextDayAt:   ref.AddSecs((days + 1) * secsInDay),
	}
}

// timingV2Current is the offset-aware algorithm. Creation and now are
// converted to civil time with their own offsets; whether today's rollover
// instant has been reached decides if the current calendar day counts yet.
// The boundary is closed on the lower end: now exactly at the rollover
// instant means the rollover has passed.
func timingV2Current(created Timestamp, creationMinutesWest int, now Timestamp, currentMinutesWest int, rolloverHour int) DayBoundary {
	createdAt := created.Time(creationMinutesWest)
	nowAt := now.Time(currentMinutesWest)

	rolloverToday := rolloverInstant(nowAt, rolloverHour)
	rolloverPassed := !rolloverToday.After(nowAt)

	days := civilDaysBetween(createdAt, nowAt)
	if !rolloverPassed {
		days--
	}

	next := rolloverToday
	if rolloverPassed {
		next = rolloverToday.AddDate(0, 0, 1)
	}

	return DayBoundary{
		Now:         now,
		DaysElapsed: int32(days),
		NextDayAt:   Timestamp(next.Unix()),
	}
}

// rolloverInstant places t's calendar date at the rollover hour, keeping
// t's location.
func rolloverInstant(t time.Time, rolloverHour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), rolloverHour, 0, 0, 0, t.Location())
}

// civilDaysBetween counts whole calendar days from one civil date to
// another, each date taken in its own zone.
func civilDaysBetween(from, to time.Time) int64 {
	return civilDayNumber(to) - civilDayNumber(from)
}

func civilDayNumber(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / secsInDay
}

// NextDayStart is the export-mode helper: given a host-local now and a
// rollover hour, it returns the instant the next logical day begins. A
// rollover of zero means plain midnight.
func NextDayStart(now time.Time, rolloverHour int) time.Time {
	y, m, d := now.Date()
	if rolloverHour == 0 {
		return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	}
	if now.Hour() < rolloverHour {
		return time.Date(y, m, d, rolloverHour, 0, 0, 0, now.Location())
	}
	return time.Date(y, m, d+1, rolloverHour, 0, 0, 0, now.Location())
}
