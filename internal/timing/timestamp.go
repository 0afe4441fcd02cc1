// Package timing implements the day-boundary model of an Anki collection:
// epoch timestamps with explicit UTC offsets, the rounding rules the
// scheduler uses, and the three historical algorithms that decide when one
// logical day ends and the next begins.
package timing

import (
	"math"
	"time"
)

// Timestamp is a count of seconds since the Unix epoch.
type Timestamp int64

// FromFloat builds a Timestamp from fractional epoch seconds, flooring
// toward negative infinity. Timestamps are never rounded.
func FromFloat(secs float64) Timestamp {
	return Timestamp(math.Floor(secs))
}

// Now samples the current wall clock. Callers sample once per run and
// thread the value through every calculation.
func Now() Timestamp {
	return Timestamp(time.Now().Unix())
}

// AddSecs returns the timestamp shifted by secs.
func (t Timestamp) AddSecs(secs int64) Timestamp {
	return t + Timestamp(secs)
}

// Time converts the timestamp to civil time in a zone the given number of
// minutes west of UTC. The offset is always an explicit parameter; a
// recorded historical offset must never be replaced by the host's zone.
func (t Timestamp) Time(minutesWest int) time.Time {
	return time.Unix(int64(t), 0).In(ZoneMinutesWest(minutesWest))
}

// ZoneMinutesWest returns a fixed location for an offset given in minutes
// west of UTC (the sign convention the collection config stores).
func ZoneMinutesWest(minutesWest int) *time.Location {
	return time.FixedZone("", -minutesWest*60)
}

// SystemOffsetMinutesWest reports the host zone's offset at t in minutes
// west of UTC.
func SystemOffsetMinutesWest(t time.Time) int {
	_, east := t.Zone()
	return -east / 60
}

// SystemOffsetSecondsWest reports the host zone's offset at t in seconds
// west of UTC.
func SystemOffsetSecondsWest(t time.Time) int {
	_, east := t.Zone()
	return -east
}

// OffsetSource records where the run's local UTC offset came from. The
// stored collection value is preferred; the host zone is the fallback when
// the collection predates offset storage.
type OffsetSource int

const (
	OffsetSourceStored OffsetSource = iota
	OffsetSourceSystem
)

func (s OffsetSource) String() string {
	switch s {
	case OffsetSourceStored:
		return "collection config"
	case OffsetSourceSystem:
		return "system timezone"
	default:
		return "unknown"
	}
}
