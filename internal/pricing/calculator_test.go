package pricing

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, s string) civil.DateTime {
	t.Helper()
	dt, err := civil.ParseDateTime(s)
	require.NoError(t, err)
	return dt
}

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := NewCalculator(DefaultRates())
	require.NoError(t, err)
	return calc
}

func assertPrice(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestNewCalculator(t *testing.T) {
	t.Run("Default rates", func(t *testing.T) {
		calc, err := NewCalculator(DefaultRates())
		require.NoError(t, err)
		assertPrice(t, "0.2", calc.Rates().PerMinute)
		assertPrice(t, "20", calc.Rates().DailyCap)
	})

	t.Run("Zero per-minute rate", func(t *testing.T) {
		_, err := NewCalculator(Rates{PerMinute: decimal.Zero, DailyCap: decimal.NewFromInt(20)})
		assert.ErrorIs(t, err, ErrInvalidRates)
	})

	t.Run("Negative daily cap", func(t *testing.T) {
		_, err := NewCalculator(Rates{PerMinute: decimal.RequireFromString("0.2"), DailyCap: decimal.NewFromInt(-1)})
		assert.ErrorIs(t, err, ErrInvalidRates)
	})
}

func TestCalculateRentalPrice_SingleDay(t *testing.T) {
	calc := newTestCalculator(t)

	tests := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{"Zero length", "2023-11-10T10:00:00", "2023-11-10T10:00:00", "0"},
		{"Ten minutes", "2023-11-10T10:00:00", "2023-11-10T10:10:00", "2"},
		{"Seconds are ignored", "2023-11-10T10:00:30", "2023-11-10T10:10:59", "2"},
		{"200 minutes is capped", "2023-11-10T10:00:00", "2023-11-10T13:20:00", "20"},
		{"Exactly at the cap", "2023-11-10T10:00:00", "2023-11-10T11:40:00", "20"},
		{"End of day counts the last minute", "2023-11-10T23:58:00", "2023-11-10T23:59:59", "0.4"},
		{"Whole day", "2023-11-10T00:00:00", "2023-11-10T23:59:59", "20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := calc.CalculateRentalPrice(at(t, tt.start), at(t, tt.end))
			require.NoError(t, err)
			assertPrice(t, tt.want, price)
		})
	}
}

func TestCalculateRentalPrice_SingleDayUsesConfiguredRates(t *testing.T) {
	calc, err := NewCalculator(Rates{
		PerMinute: decimal.RequireFromString("0.5"),
		DailyCap:  decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	price, err := calc.CalculateRentalPrice(at(t, "2024-03-01T08:00:00"), at(t, "2024-03-01T09:30:00"))
	require.NoError(t, err)
	assertPrice(t, "45", price) // 90 minutes * 0.5

	price, err = calc.CalculateRentalPrice(at(t, "2024-03-01T08:00:00"), at(t, "2024-03-01T12:00:00"))
	require.NoError(t, err)
	assertPrice(t, "100", price) // 240 minutes * 0.5 = 120, capped
}

func TestCalculateRentalPrice_MultipleDays(t *testing.T) {
	calc := newTestCalculator(t)

	t.Run("Two partial days", func(t *testing.T) {
		// 2 minutes before midnight + 2 minutes after
		price, err := calc.CalculateRentalPrice(at(t, "2023-11-10T23:58:00"), at(t, "2023-11-11T00:02:00"))
		require.NoError(t, err)
		assertPrice(t, "0.8", price)
	})

	t.Run("One full day between", func(t *testing.T) {
		price, err := calc.CalculateRentalPrice(at(t, "2023-11-10T23:58:00"), at(t, "2023-11-12T00:02:00"))
		require.NoError(t, err)
		assertPrice(t, "20.8", price)
	})

	t.Run("Cap applies per day, not per rental", func(t *testing.T) {
		// 10:00-23:59:59 is capped at 20, 00:00-01:00 is 60 minutes = 12
		price, err := calc.CalculateRentalPrice(at(t, "2023-11-10T10:00:00"), at(t, "2023-11-11T01:00:00"))
		require.NoError(t, err)
		assertPrice(t, "32", price)
	})

	t.Run("Full days are flat regardless of rate", func(t *testing.T) {
		price, err := calc.CalculateRentalPrice(at(t, "2023-11-01T23:59:00"), at(t, "2023-11-06T00:00:00"))
		require.NoError(t, err)
		// head 23:59-23:59:59 = 1 minute, 4 full days, tail 0 minutes
		assertPrice(t, "80.2", price)
	})
}

func TestCalculateRentalPrice_MonthBoundaries(t *testing.T) {
	calc := newTestCalculator(t)

	t.Run("Across one month boundary", func(t *testing.T) {
		price, err := calc.CalculateRentalPrice(at(t, "2023-01-31T23:58:00"), at(t, "2023-02-01T00:02:00"))
		require.NoError(t, err)
		assertPrice(t, "0.8", price)
	})

	t.Run("Whole February in a leap year", func(t *testing.T) {
		price, err := calc.CalculateRentalPrice(at(t, "2024-01-31T23:59:00"), at(t, "2024-03-01T00:00:00"))
		require.NoError(t, err)
		// 0.2 head + 29 days of February
		assertPrice(t, "580.2", price)
	})

	t.Run("Whole February in a common year", func(t *testing.T) {
		price, err := calc.CalculateRentalPrice(at(t, "2023-01-31T23:59:00"), at(t, "2023-03-01T00:00:00"))
		require.NoError(t, err)
		assertPrice(t, "560.2", price)
	})

	t.Run("Whole months between", func(t *testing.T) {
		price, err := calc.CalculateRentalPrice(at(t, "2023-03-01T00:00:00"), at(t, "2023-06-01T00:00:00"))
		require.NoError(t, err)
		// March, April, May = 31 + 30 + 31 days
		assertPrice(t, "1840", price)
	})
}

func TestCalculateRentalPrice_YearBoundaries(t *testing.T) {
	calc := newTestCalculator(t)
	dailyCap := decimal.NewFromInt(20)

	t.Run("Full common year", func(t *testing.T) {
		price, err := calc.CalculateRentalPrice(at(t, "2022-01-01T00:00:00"), at(t, "2023-01-01T00:00:00"))
		require.NoError(t, err)
		assert.True(t, dailyCap.Mul(decimal.NewFromInt(365)).Equal(price), "got %s", price)
	})

	t.Run("Full leap year", func(t *testing.T) {
		price, err := calc.CalculateRentalPrice(at(t, "2020-01-01T00:00:00"), at(t, "2021-01-01T00:00:00"))
		require.NoError(t, err)
		assert.True(t, dailyCap.Mul(decimal.NewFromInt(366)).Equal(price), "got %s", price)
	})

	t.Run("Three years including a leap year", func(t *testing.T) {
		price, err := calc.CalculateRentalPrice(at(t, "2020-01-01T00:00:00"), at(t, "2023-01-01T00:00:00"))
		require.NoError(t, err)
		assert.True(t, dailyCap.Mul(decimal.NewFromInt(365*2+366)).Equal(price), "got %s", price)
	})

	t.Run("New year's eve", func(t *testing.T) {
		price, err := calc.CalculateRentalPrice(at(t, "2023-12-31T23:58:00"), at(t, "2024-01-01T00:02:00"))
		require.NoError(t, err)
		assertPrice(t, "0.8", price)
	})

	t.Run("Whole year between partial years", func(t *testing.T) {
		price, err := calc.CalculateRentalPrice(at(t, "2022-12-31T23:59:00"), at(t, "2024-01-01T00:01:00"))
		require.NoError(t, err)
		// 0.2 head + 365 days of 2023 + 0.2 tail
		assertPrice(t, "7300.4", price)
	})
}

func TestCalculateRentalPrice_IncorrectDates(t *testing.T) {
	calc := newTestCalculator(t)

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"Year before", "2023-05-10T10:00:00", "2022-05-10T10:00:00"},
		{"Month before", "2023-05-10T10:00:00", "2023-04-10T10:00:00"},
		{"Day before", "2023-05-10T10:00:00", "2023-05-09T10:00:00"},
		{"Earlier the same day", "2023-05-10T10:00:00", "2023-05-10T09:59:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := calc.CalculateRentalPrice(at(t, tt.start), at(t, tt.end))
			assert.ErrorIs(t, err, ErrIncorrectDates)
			assert.True(t, price.IsZero())
		})
	}

	t.Run("Invalid timestamp", func(t *testing.T) {
		_, err := calc.CalculateRentalPrice(civil.DateTime{}, at(t, "2023-05-10T10:00:00"))
		assert.ErrorIs(t, err, ErrIncorrectDates)
	})
}

func TestPrice_LevelOrderingViolation(t *testing.T) {
	calc := newTestCalculator(t)

	// Bypasses the range check to reach the per-level ordering check.
	_, err := calc.price(at(t, "2023-05-10T10:00:00"), at(t, "2023-04-20T10:00:00"), levelMonth)
	assert.ErrorIs(t, err, ErrIncorrectDates)
	assert.Contains(t, err.Error(), "month")

	_, err = calc.price(at(t, "2023-05-10T10:00:00"), at(t, "2023-05-09T10:00:00"), levelDay)
	assert.ErrorIs(t, err, ErrIncorrectDates)
}

func TestPriceDay_NegativeIsAnError(t *testing.T) {
	calc := newTestCalculator(t)

	_, err := calc.priceDay(at(t, "2023-05-10T10:00:00"), at(t, "2023-05-10T09:00:00"))
	assert.True(t, errors.Is(err, ErrNegativePrice))
}

func TestCalculateRentalPrice_Properties(t *testing.T) {
	calc := newTestCalculator(t)
	base := time.Date(2019, time.February, 27, 21, 13, 0, 0, time.UTC)

	// A spread of spans from minutes to years, crossing leap days.
	for i := 0; i < 200; i++ {
		start := base.Add(time.Duration(i*i*37) * time.Minute)
		end := start.Add(time.Duration(i*i*i*11) * time.Minute)

		s, e := civil.DateTimeOf(start), civil.DateTimeOf(end)
		first, err := calc.CalculateRentalPrice(s, e)
		require.NoError(t, err)
		assert.False(t, first.IsNegative(), "negative price for %s - %s", s, e)

		second, err := calc.CalculateRentalPrice(s, e)
		require.NoError(t, err)
		assert.True(t, first.Equal(second), "not idempotent for %s - %s", s, e)
	}
}

func TestCalculateIncompleteRentalPrice(t *testing.T) {
	calc := newTestCalculator(t)

	price, err := calc.CalculateIncompleteRentalPrice(at(t, "2023-11-10T10:00:00"), at(t, "2023-11-10T10:30:00"))
	require.NoError(t, err)
	assertPrice(t, "6", price)
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year     int
		month    time.Month
		expected int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.November, 30},
		{2024, time.December, 31},
		{2000, time.February, 29}, // divisible by 400
		{1900, time.February, 28}, // divisible by 100 but not 400
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysInMonth(tt.year, tt.month))
		})
	}

	assert.Equal(t, 366, DaysInYear(2020))
	assert.Equal(t, 365, DaysInYear(2021))
}
