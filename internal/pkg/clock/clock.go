package clock

import "time"

// Clocker is the time source every component reads from.
type Clocker interface {
	Now() time.Time
}

// System reads the wall clock.
//
// Readings are in UTC and truncated to microseconds, the finest precision the
// postgres and sqlite stores round-trip, so a value read back from a store
// compares equal to the one written.
type System struct{}

// New returns the wall clock.
func New() *System {
	return &System{}
}

func (*System) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
