package cli

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
)

// parseTimestamp accepts "2006-01-02", "2006-01-02 15:04", "2006-01-02T15:04"
// and the same with seconds
func parseTimestamp(s string) (civil.DateTime, error) {
	v := strings.Replace(strings.TrimSpace(s), " ", "T", 1)
	switch len(v) {
	case len("2006-01-02"):
		v += "T00:00:00"
	case len("2006-01-02T15:04"):
		v += ":00"
	}

	dt, err := civil.ParseDateTime(v)
	if err != nil {
		return civil.DateTime{}, fmt.Errorf("invalid timestamp %q: expected YYYY-MM-DD[ HH:MM[:SS]]", s)
	}
	return dt, nil
}
