package pricing

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/andy/scootrent/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedRecord(t *testing.T, number uint32, start, end, total string) *domain.RentalRecord {
	t.Helper()
	r := domain.NewRentalRecord("1", at(t, start))
	r.RecordNumber = number
	require.NoError(t, r.Close(at(t, end), decimal.RequireFromString(total)))
	return r
}

func openRecord(t *testing.T, number uint32, start string) *domain.RentalRecord {
	t.Helper()
	r := domain.NewRentalRecord("2", at(t, start))
	r.RecordNumber = number
	return r
}

func intPtr(v int) *int {
	return &v
}

func TestCalculateIncome(t *testing.T) {
	agg := NewIncomeAggregator(newTestCalculator(t))
	now := at(t, "2024-06-15T12:00:00")

	records := []*domain.RentalRecord{
		closedRecord(t, 1, "2022-12-31T23:00:00", "2023-01-01T01:00:00", "20"),
		closedRecord(t, 2, "2023-05-01T10:00:00", "2023-05-01T10:10:00", "2"),
		closedRecord(t, 3, "2024-02-01T10:00:00", "2024-02-01T10:30:00", "6"),
		openRecord(t, 4, "2024-06-15T11:50:00"), // 10 minutes before now = 2
		openRecord(t, 5, "2021-01-01T00:00:00"), // started in an unrelated year
	}
	openSince2021, err := agg.calc.CalculateRentalPrice(at(t, "2021-01-01T00:00:00"), now)
	require.NoError(t, err)

	t.Run("Completed rentals in a year", func(t *testing.T) {
		income, err := agg.CalculateIncome(records, intPtr(2023), false, now)
		require.NoError(t, err)
		assertPrice(t, "22", income)
	})

	t.Run("Year is the year the rental ended", func(t *testing.T) {
		income, err := agg.CalculateIncome(records, intPtr(2022), false, now)
		require.NoError(t, err)
		assertPrice(t, "0", income)
	})

	t.Run("All completed rentals", func(t *testing.T) {
		income, err := agg.CalculateIncome(records, nil, false, now)
		require.NoError(t, err)
		assertPrice(t, "28", income)
	})

	t.Run("All rentals including open", func(t *testing.T) {
		income, err := agg.CalculateIncome(records, nil, true, now)
		require.NoError(t, err)
		want := decimal.NewFromInt(30).Add(openSince2021)
		assert.True(t, want.Equal(income), "want %s, got %s", want, income)
	})

	t.Run("Open rentals ignore the year filter", func(t *testing.T) {
		income, err := agg.CalculateIncome(records, intPtr(2023), true, now)
		require.NoError(t, err)
		want := decimal.NewFromInt(24).Add(openSince2021)
		assert.True(t, want.Equal(income), "want %s, got %s", want, income)
	})

	t.Run("Empty snapshot", func(t *testing.T) {
		income, err := agg.CalculateIncome(nil, nil, true, now)
		require.NoError(t, err)
		assert.True(t, income.IsZero())
	})
}

func TestCalculateIncome_DoesNotMutateRecords(t *testing.T) {
	agg := NewIncomeAggregator(newTestCalculator(t))
	open := openRecord(t, 1, "2024-06-15T11:00:00")

	_, err := agg.CalculateIncome([]*domain.RentalRecord{open}, nil, true, at(t, "2024-06-15T12:00:00"))
	require.NoError(t, err)
	assert.True(t, open.IsOpen())
	assert.Nil(t, open.TotalPrice)
}

func TestCalculateIncome_Errors(t *testing.T) {
	agg := NewIncomeAggregator(newTestCalculator(t))

	t.Run("Completed record without total", func(t *testing.T) {
		r := openRecord(t, 7, "2023-05-01T10:00:00")
		end := at(t, "2023-05-01T11:00:00")
		r.EndTime = &end

		_, err := agg.CalculateIncome([]*domain.RentalRecord{r}, nil, false, end)
		assert.ErrorIs(t, err, ErrMissingTotalPrice)
	})

	t.Run("Open record started after now", func(t *testing.T) {
		r := openRecord(t, 8, "2025-01-01T00:00:00")

		_, err := agg.CalculateIncome([]*domain.RentalRecord{r}, nil, true, at(t, "2024-01-01T00:00:00"))
		assert.ErrorIs(t, err, ErrIncorrectDates)
	})

	t.Run("Open record is skipped without includeOpen", func(t *testing.T) {
		r := openRecord(t, 9, "2025-01-01T00:00:00")

		income, err := agg.CalculateIncome([]*domain.RentalRecord{r}, nil, false, at(t, "2024-01-01T00:00:00"))
		require.NoError(t, err)
		assert.True(t, income.IsZero())
	})
}

func TestIncomeByMonth(t *testing.T) {
	agg := NewIncomeAggregator(newTestCalculator(t))

	records := []*domain.RentalRecord{
		closedRecord(t, 1, "2023-01-31T23:00:00", "2023-02-01T00:10:00", "14"),
		closedRecord(t, 2, "2023-02-10T10:00:00", "2023-02-10T10:10:00", "2"),
		closedRecord(t, 3, "2023-12-01T10:00:00", "2023-12-01T10:05:00", "1"),
		closedRecord(t, 4, "2024-02-01T10:00:00", "2024-02-01T10:05:00", "1"),
		openRecord(t, 5, "2023-03-01T10:00:00"),
	}

	byMonth, err := agg.IncomeByMonth(records, 2023)
	require.NoError(t, err)
	assert.Len(t, byMonth, 12)
	assertPrice(t, "16", byMonth[time.February])
	assertPrice(t, "1", byMonth[time.December])
	assertPrice(t, "0", byMonth[time.January])
	assertPrice(t, "0", byMonth[time.March])
}

func TestCalculateIncome_MatchesCalculatorForClosedRentals(t *testing.T) {
	calc := newTestCalculator(t)
	agg := NewIncomeAggregator(calc)

	start := civil.DateTime{Date: civil.Date{Year: 2023, Month: time.November, Day: 10}, Time: civil.Time{Hour: 23, Minute: 58}}
	end := civil.DateTime{Date: civil.Date{Year: 2023, Month: time.November, Day: 12}, Time: civil.Time{Minute: 2}}

	open := domain.NewRentalRecord("1", start)
	provisional, err := agg.CalculateIncome([]*domain.RentalRecord{open}, nil, true, end)
	require.NoError(t, err)

	price, err := calc.CalculateRentalPrice(start, end)
	require.NoError(t, err)
	require.NoError(t, open.Close(end, price))

	final, err := agg.CalculateIncome([]*domain.RentalRecord{open}, nil, false, end)
	require.NoError(t, err)
	assert.True(t, provisional.Equal(final))
	assertPrice(t, "20.8", final)
}
