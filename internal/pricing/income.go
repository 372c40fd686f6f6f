package pricing

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/andy/scootrent/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrMissingTotalPrice = errors.New("completed rental has no total price")

// IncomeAggregator sums rental income over a snapshot of records. It never
// mutates the records it is given.
type IncomeAggregator struct {
	calc *Calculator
}

// NewIncomeAggregator creates an aggregator that prices open rentals with calc
func NewIncomeAggregator(calc *Calculator) *IncomeAggregator {
	return &IncomeAggregator{calc: calc}
}

// CalculateIncome sums the total price of completed rentals, limited to
// rentals that ended in year when year is not nil. With includeOpen, every
// open rental is priced as if it ended at now and added regardless of year.
func (a *IncomeAggregator) CalculateIncome(
	records []*domain.RentalRecord,
	year *int,
	includeOpen bool,
	now civil.DateTime,
) (decimal.Decimal, error) {
	income := decimal.Zero

	for _, r := range records {
		if r.IsOpen() {
			continue
		}
		if year != nil && r.EndTime.Date.Year != *year {
			continue
		}
		if r.TotalPrice == nil {
			return decimal.Zero, fmt.Errorf("%w: record %d", ErrMissingTotalPrice, r.RecordNumber)
		}
		income = income.Add(*r.TotalPrice)
	}

	if includeOpen {
		// TODO: decide with product whether open rentals should honor the year filter.
		for _, r := range records {
			if !r.IsOpen() {
				continue
			}
			price, err := a.calc.CalculateIncompleteRentalPrice(r.StartTime, now)
			if err != nil {
				return decimal.Zero, fmt.Errorf("failed to price open record %d: %w", r.RecordNumber, err)
			}
			income = income.Add(price)
		}
	}

	return income, nil
}

// IncomeByMonth returns completed income for year keyed by the month the
// rental ended. Every month is present.
func (a *IncomeAggregator) IncomeByMonth(records []*domain.RentalRecord, year int) (map[time.Month]decimal.Decimal, error) {
	income := make(map[time.Month]decimal.Decimal)
	for m := time.January; m <= time.December; m++ {
		income[m] = decimal.Zero
	}

	for _, r := range records {
		if r.IsOpen() || r.EndTime.Date.Year != year {
			continue
		}
		if r.TotalPrice == nil {
			return nil, fmt.Errorf("%w: record %d", ErrMissingTotalPrice, r.RecordNumber)
		}
		month := r.EndTime.Date.Month
		income[month] = income[month].Add(*r.TotalPrice)
	}

	return income, nil
}
