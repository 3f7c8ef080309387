package utils

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseTimestamp turns textual timestamps from raw query rows into UTC
// instants. Empty or unparseable input reports false; it never errors.
func ParseTimestamp(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
		return t.UTC(), true
	}
	// Postgres text output ("2024-01-02 15:04:05.123456+00") and the other
	// calendar formats a browser Date would accept.
	t, err := dateparse.ParseIn(text, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
