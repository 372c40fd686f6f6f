// Package pricing turns rental spans into money.
//
// A span is priced by splitting it on calendar units: the partial head and
// tail of a unit are priced one unit finer, the whole units in between are
// charged the daily cap for every day they contain, and only a single
// calendar day is priced per minute and clamped to the daily cap.
package pricing

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

var (
	ErrIncorrectDates = errors.New("rental start cannot be after rental end")
	ErrNegativePrice  = errors.New("calculator produced a negative price")
	ErrInvalidRates   = errors.New("per-minute rate and daily cap must be positive")
)

// Rates are the tariff a Calculator charges
type Rates struct {
	PerMinute decimal.Decimal
	DailyCap  decimal.Decimal
}

// DefaultRates returns 0.2 per minute capped at 20 per day
func DefaultRates() Rates {
	return Rates{
		PerMinute: decimal.RequireFromString("0.2"),
		DailyCap:  decimal.NewFromInt(20),
	}
}

// Validate returns ErrInvalidRates unless both rates are positive
func (r Rates) Validate() error {
	if !r.PerMinute.IsPositive() || !r.DailyCap.IsPositive() {
		return fmt.Errorf("%w: per minute %s, daily cap %s", ErrInvalidRates, r.PerMinute, r.DailyCap)
	}
	return nil
}

// Calculator prices rental spans. It holds no mutable state.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a calculator for the given rates
func NewCalculator(rates Rates) (*Calculator, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{rates: rates}, nil
}

// Rates returns the tariff the calculator was built with
func (c *Calculator) Rates() Rates {
	return c.rates
}

// CalculateRentalPrice prices the span [start, end]
func (c *Calculator) CalculateRentalPrice(start, end civil.DateTime) (decimal.Decimal, error) {
	if !start.IsValid() || !end.IsValid() {
		return decimal.Zero, fmt.Errorf("%w: invalid timestamp %s - %s", ErrIncorrectDates, start, end)
	}
	if end.Before(start) {
		return decimal.Zero, fmt.Errorf("%w: %s is before %s", ErrIncorrectDates, end, start)
	}
	return c.price(start, end, levelYear)
}

// CalculateIncompleteRentalPrice prices a rental that is still open as if it
// ended at now
func (c *Calculator) CalculateIncompleteRentalPrice(start, now civil.DateTime) (decimal.Decimal, error) {
	return c.CalculateRentalPrice(start, now)
}

func (c *Calculator) price(start, end civil.DateTime, l level) (decimal.Decimal, error) {
	if l == levelLeaf {
		return c.priceDay(start, end)
	}

	delta := l.field(end) - l.field(start)
	if delta < 0 {
		return decimal.Zero, fmt.Errorf("%w: %s of %s precedes %s", ErrIncorrectDates, l, end, start)
	}
	if delta == 0 {
		return c.price(start, end, l+1)
	}

	head, err := c.price(start, l.lastInstant(start), l+1)
	if err != nil {
		return decimal.Zero, err
	}
	whole := c.rates.DailyCap.Mul(decimal.NewFromInt(int64(l.wholeDays(start, end))))
	tail, err := c.price(l.firstInstant(end), end, l+1)
	if err != nil {
		return decimal.Zero, err
	}

	return nonNegative(decimal.Sum(head, whole, tail))
}

// priceDay prices a span inside one calendar day. An end of 23:59:59 is the
// day boundary, so the last minute counts.
func (c *Calculator) priceDay(start, end civil.DateTime) (decimal.Decimal, error) {
	minutes := minuteOfDay(end.Time) - minuteOfDay(start.Time)
	if end.Time.Hour == endOfDay.Hour && end.Time.Minute == endOfDay.Minute && end.Time.Second == endOfDay.Second {
		minutes++
	}

	price := c.rates.PerMinute.Mul(decimal.NewFromInt(int64(minutes)))
	return nonNegative(decimal.Min(price, c.rates.DailyCap))
}

func minuteOfDay(t civil.Time) int {
	return t.Hour*60 + t.Minute
}

func nonNegative(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNegativePrice, d)
	}
	return d, nil
}
