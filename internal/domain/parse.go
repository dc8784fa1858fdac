package domain

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. The upstream export is day-first.
var dateLayouts = []string{
	"02-01-2006 15:04",
	"02-01-2006 15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04",
}

// ParseDateTime parses a date_time cell in UTC. Unparseable input yields the
// zero time rather than an error, so a bad cell only drops the row from the
// yearly views.
func ParseDateTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
