package stats

import (
	"fmt"
	"math"
)

// PercentBucket maps a percentage to its 5-point display bucket. Buckets
// are half-open "[x%, y%)" below 95; the top two merge into the closed
// "[95%, 100%]" so a perfect score has a home. NaN is the absent marker
// and maps to the empty label, never an error.
func PercentBucket(value float64) string {
	if math.IsNaN(value) {
		return ""
	}
	idx := int(value / 5)
	if idx >= 19 {
		return "[95%, 100%]"
	}
	return fmt.Sprintf("[%d%%, %d%%)", idx*5, (idx+1)*5)
}

// EaseBucket maps a permille ease factor to its 10-point display bucket.
// A factor of zero means the card has never been assigned an ease and maps
// to the empty label.
func EaseBucket(permille int64) string {
	if permille <= 0 {
		return ""
	}
	lo := 10 * (permille / 10 / 10)
	return fmt.Sprintf("[%d%%, %d%%)", lo, lo+10)
}
