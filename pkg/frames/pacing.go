package frames

import "time"

// waitRemaining computes how long to sleep before the next emission is
// due, given the interval and the timestamp of the previous emission.
// Returns zero when the interval has already elapsed; the player then
// emits immediately rather than skipping frames to catch up.
//
// last and now must come from time.Now so the comparison rides Go's
// monotonic clock reading and survives wall clock adjustments.
func waitRemaining(interval time.Duration, last, now time.Time) time.Duration {
	remaining := interval - now.Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}
