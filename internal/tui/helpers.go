package tui

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// formatMinutes formats a minute count as "Xh Ym"
func formatMinutes(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// rentalMinutes returns the whole minutes between start and end
func rentalMinutes(start, end civil.DateTime) int {
	d := end.In(time.UTC).Sub(start.In(time.UTC))
	if d < 0 {
		return 0
	}
	return int(d.Minutes())
}

// formatMoney formats money as "$X,XXX.XX" with comma separators
func formatMoney(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	if negative {
		amount = amount.Neg()
	}

	s := amount.StringFixed(2)

	// Split at decimal point
	dotPos := len(s) - 3
	intPart := s[:dotPos]
	decPart := s[dotPos:]

	// Add commas to integer part
	result := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}

	prefix := "$"
	if negative {
		prefix = "-$"
	}
	return prefix + string(result) + decPart
}

// formatTimestamp renders a civil timestamp as "2006-01-02 15:04"
func formatTimestamp(t civil.DateTime) string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d",
		t.Date.Year, int(t.Date.Month), t.Date.Day, t.Time.Hour, t.Time.Minute)
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
