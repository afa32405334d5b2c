// Package clock supplies wall-clock time to the event log.
//
// Event timestamps are wall time, not a logical clock: ordering of events
// is carried by the storage id, and the timestamp only records when the
// insert happened.
package clock

import "time"

// TimestampLayout renders UTC time as ISO-8601 with microseconds and a
// trailing Z, e.g. 2024-05-06T07:08:09.123456Z.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// System is the process wall clock.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time {
	return time.Now()
}

// Func adapts a plain function to Clock.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time {
	return f()
}

// Timestamp formats t in UTC using TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
