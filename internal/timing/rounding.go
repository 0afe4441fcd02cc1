package timing

import "math"

const secsInDay = 86400

// DaysRoundToZero converts a signed second count to whole days, truncating
// toward zero: -86401 is -1 day, 86399 is 0 days, 86400 is 1 day. The
// scheduler's day arithmetic depends on this rounding, which is not the
// floor division most dynamic languages default to for negative inputs.
func DaysRoundToZero(secs int64) int64 {
	if secs < 0 {
		return -(-secs / secsInDay)
	}
	return secs / secsInDay
}

// RoundAway rounds a non-negative value half away from zero to the nearest
// integer. NaN passes through as the absent marker. A negative input is a
// contract violation and returns ErrNegativeValue: the quantities rounded
// here (memory stability) are defined to be non-negative, so a negative
// value indicates a data bug, not an empty cell.
func RoundAway(x float64) (float64, error) {
	if math.IsNaN(x) {
		return x, nil
	}
	if x < 0 {
		return 0, ErrNegativeValue
	}
	return math.Round(x), nil
}
