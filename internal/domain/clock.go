package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze time via SetClock.
// It stamps the run date used in output file names; production code uses the
// real clock and tests inject a fake for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// RunDate returns today's date in UTC as "YYYY-MM-DD", used to name output
// files.
func RunDate() string {
	return clock.Now().UTC().Format("2006-01-02")
}
