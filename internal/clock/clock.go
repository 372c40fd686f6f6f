// Package clock supplies "now" as a calendar timestamp so pricing stays pure.
package clock

import (
	"time"

	"cloud.google.com/go/civil"
)

// Clock reports the current wall-clock time
type Clock interface {
	Now() civil.DateTime
}

// System reads the real time in a fixed location
type System struct {
	Location *time.Location
}

// NewSystem returns a system clock for loc, or local time when loc is nil
func NewSystem(loc *time.Location) System {
	if loc == nil {
		loc = time.Local
	}
	return System{Location: loc}
}

func (s System) Now() civil.DateTime {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return civil.DateTimeOf(time.Now().In(loc))
}

// Fixed always reports the same instant. Set moves it.
type Fixed struct {
	At civil.DateTime
}

func (f *Fixed) Now() civil.DateTime {
	return f.At
}

// Set moves the clock to t
func (f *Fixed) Set(t civil.DateTime) {
	f.At = t
}

// Advance moves the clock forward by d
func (f *Fixed) Advance(d time.Duration) {
	f.At = civil.DateTimeOf(f.At.In(time.UTC).Add(d))
}
