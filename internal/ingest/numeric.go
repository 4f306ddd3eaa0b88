package ingest

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCount normalizes a raw count field. Thousands separators are stripped
// ("12,345" -> 12345); an empty cell or the "-" placeholder the monthly
// reports use for unpublished figures becomes a missing-value marker instead
// of an error. Anything else that fails to parse is a per-record parse error.
func ParseCount(s string) (value float64, missing bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, true, nil
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("unparseable count %q", s)
	}
	return v, false, nil
}
