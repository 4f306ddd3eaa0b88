package ingest

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimestampFormats is the fixed priority order tried against raw
// timestamp strings. The plain 24h form comes before the 12h AM/PM form so
// "01/15/2022 08:30" never half-matches the longer layout. Later entries
// cover the ISO-style vintages of the hourly ridership files.
var DefaultTimestampFormats = []string{
	"01/02/2006 15:04",
	"01/02/2006 03:04:05 PM",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
}

// ParseTimestamp tries each format in order and returns the first successful
// parse. Callers drop the record on error; an unknown format is never fatal
// for the load.
func ParseTimestamp(s string, formats []string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if len(formats) == 0 {
		formats = DefaultTimestampFormats
	}
	for _, layout := range formats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
