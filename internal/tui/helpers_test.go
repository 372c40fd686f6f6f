package tui

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"0.8", "$0.80"},
		{"20.8", "$20.80"},
		{"7300.4", "$7,300.40"},
		{"1234567.891", "$1,234,567.89"},
		{"-12.5", "-$12.50"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0m", formatMinutes(0))
	assert.Equal(t, "45m", formatMinutes(45))
	assert.Equal(t, "2h", formatMinutes(120))
	assert.Equal(t, "1h 5m", formatMinutes(65))
}

func TestRentalMinutes(t *testing.T) {
	start, _ := civil.ParseDateTime("2023-11-10T23:58:00")
	end, _ := civil.ParseDateTime("2023-11-11T00:02:30")
	assert.Equal(t, 4, rentalMinutes(start, end))
	assert.Equal(t, 0, rentalMinutes(end, start))
}

func TestFormatTimestamp(t *testing.T) {
	ts, _ := civil.ParseDateTime("2024-02-29T07:05:09")
	assert.Equal(t, "2024-02-29 07:05", formatTimestamp(ts))
}

func TestTruncateStr(t *testing.T) {
	assert.Equal(t, "short", truncateStr("short", 10))
	assert.Equal(t, "3f2a...", truncateStr("3f2a9c1e-0000", 7))
	assert.Equal(t, "ab", truncateStr("abcdef", 2))
}
