package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze the last_updated
// stamp via SetClock. Production code uses the real clock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for update stamps. Pass nil to reset to
// real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// nowISO returns the current UTC time in RFC 3339, the format the store's
// last_updated attribute carries.
func nowISO() string {
	return clock.Now().UTC().Format(time.RFC3339)
}
