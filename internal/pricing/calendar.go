package pricing

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// level is a calendar unit the calculator splits a range on. Each level
// recurses into the next finer one; levelLeaf is a single calendar day.
type level int

const (
	levelYear level = iota
	levelMonth
	levelDay
	levelLeaf
)

var (
	startOfDay = civil.Time{}
	endOfDay   = civil.Time{Hour: 23, Minute: 59, Second: 59}
)

func (l level) String() string {
	switch l {
	case levelYear:
		return "year"
	case levelMonth:
		return "month"
	case levelDay:
		return "day"
	default:
		return "leaf"
	}
}

// field returns the component of t this level compares
func (l level) field(t civil.DateTime) int {
	switch l {
	case levelYear:
		return t.Date.Year
	case levelMonth:
		return int(t.Date.Month)
	case levelDay:
		return t.Date.Day
	}
	panic(fmt.Sprintf("pricing: no field for %s level", l))
}

// lastInstant returns 23:59:59 of the last day of t's unit
func (l level) lastInstant(t civil.DateTime) civil.DateTime {
	d := t.Date
	switch l {
	case levelYear:
		d = civil.Date{Year: d.Year, Month: time.December, Day: 31}
	case levelMonth:
		d = civil.Date{Year: d.Year, Month: d.Month, Day: DaysInMonth(d.Year, d.Month)}
	}
	return civil.DateTime{Date: d, Time: endOfDay}
}

// firstInstant returns 00:00:00 of the first day of t's unit
func (l level) firstInstant(t civil.DateTime) civil.DateTime {
	d := t.Date
	switch l {
	case levelYear:
		d = civil.Date{Year: d.Year, Month: time.January, Day: 1}
	case levelMonth:
		d = civil.Date{Year: d.Year, Month: d.Month, Day: 1}
	}
	return civil.DateTime{Date: d, Time: startOfDay}
}

// wholeDays counts the days of the units strictly between start's unit and
// end's unit. start and end already share every coarser unit.
func (l level) wholeDays(start, end civil.DateTime) int {
	days := 0
	switch l {
	case levelYear:
		for y := start.Date.Year + 1; y < end.Date.Year; y++ {
			days += DaysInYear(y)
		}
	case levelMonth:
		for m := start.Date.Month + 1; m < end.Date.Month; m++ {
			days += DaysInMonth(start.Date.Year, m)
		}
	case levelDay:
		days = end.Date.Day - start.Date.Day - 1
	}
	return days
}

// IsLeapYear reports whether year has a February 29th
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInYear returns 366 for leap years and 365 otherwise
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	}
	return 31
}
