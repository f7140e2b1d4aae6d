package pkg

import "time"

// EarliestTime returns the earlier of two optional instants, or nil when both are nil.
func EarliestTime(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.Before(*a):
		return b
	default:
		return a
	}
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// Clock returns the current instant. Services take one so tests can pin time.
type Clock func() time.Time

func NewClock() Clock {
	return time.Now
}
