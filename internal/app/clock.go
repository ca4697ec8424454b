package app

import "time"

// Clock supplies the current time. The offerable-date window and snapshot
// expiry both depend on "now", so it is injected rather than read ambiently.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock used in production wiring.
func SystemClock() Clock { return systemClock{} }
