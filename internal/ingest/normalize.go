package ingest

import (
	"strings"
	"time"
)

// CanonicalRecord is one observation after column mapping and type coercion:
// the shape every ridership source variant is normalized into.
type CanonicalRecord struct {
	Timestamp time.Time
	Route     string
	Count     float64
}

// Aliases holds the known column-name candidates per canonical field, in
// priority order. The published ridership files renamed their columns across
// data vintages, so each field carries every spelling seen so far.
type Aliases struct {
	Timestamp []string `yaml:"timestamp"`
	Route     []string `yaml:"route"`
	Count     []string `yaml:"count"`
}

// DefaultBusAliases covers both hourly bus ridership vintages.
var DefaultBusAliases = Aliases{
	Timestamp: []string{"transit_timestamp", "Timestamp", "Hour", "Date", "Service Date", "Datetime", "DateTime"},
	Route:     []string{"Route", "Line", "Bus Line", "route_id", "bus_route"},
	Count:     []string{"Ridership", "ridership", "Rides", "Entries", "Total_Ridership", "Bus Ridership"},
}

// Stats counts what the normalizer did with the rows it saw.
type Stats struct {
	Rows    int // rows offered
	Kept    int // rows normalized successfully
	Dropped int // unparseable timestamp, count, or empty route
	Missing int // placeholder counts, excluded from aggregation
}

// Normalizer resolves a source's header against the alias table once, then
// coerces rows into CanonicalRecords.
type Normalizer struct {
	tsIdx    int
	routeIdx int
	countIdx int
	formats  []string
	stats    Stats
}

// NewNormalizer resolves the required columns. A field with no matching
// alias is a SchemaError naming that field; the caller aborts the source.
func NewNormalizer(source string, header []string, aliases Aliases, formats []string) (*Normalizer, error) {
	tsIdx := findColumn(header, aliases.Timestamp)
	if tsIdx < 0 {
		return nil, &SchemaError{Source: source, Field: "timestamp", Columns: header}
	}
	routeIdx := findColumn(header, aliases.Route)
	if routeIdx < 0 {
		return nil, &SchemaError{Source: source, Field: "route", Columns: header}
	}
	countIdx := findColumn(header, aliases.Count)
	if countIdx < 0 {
		return nil, &SchemaError{Source: source, Field: "count", Columns: header}
	}
	if len(formats) == 0 {
		formats = DefaultTimestampFormats
	}
	return &Normalizer{tsIdx: tsIdx, routeIdx: routeIdx, countIdx: countIdx, formats: formats}, nil
}

// Normalize coerces one raw row. ok is false for rows that carry no usable
// observation; they are counted, never fatal.
func (n *Normalizer) Normalize(row []string) (CanonicalRecord, bool) {
	n.stats.Rows++
	maxIdx := n.tsIdx
	if n.routeIdx > maxIdx {
		maxIdx = n.routeIdx
	}
	if n.countIdx > maxIdx {
		maxIdx = n.countIdx
	}
	if maxIdx >= len(row) {
		n.stats.Dropped++
		return CanonicalRecord{}, false
	}

	ts, err := ParseTimestamp(row[n.tsIdx], n.formats)
	if err != nil {
		n.stats.Dropped++
		return CanonicalRecord{}, false
	}

	route := strings.TrimSpace(row[n.routeIdx])
	if route == "" {
		n.stats.Dropped++
		return CanonicalRecord{}, false
	}

	count, missing, err := ParseCount(row[n.countIdx])
	if err != nil || count < 0 {
		n.stats.Dropped++
		return CanonicalRecord{}, false
	}
	if missing {
		n.stats.Missing++
		return CanonicalRecord{}, false
	}

	n.stats.Kept++
	return CanonicalRecord{Timestamp: ts, Route: route, Count: count}, true
}

// Stats returns the running counts.
func (n *Normalizer) Stats() Stats { return n.stats }

// findColumn returns the index of the first candidate present in the header,
// respecting candidate priority order, or -1.
func findColumn(header []string, candidates []string) int {
	for _, want := range candidates {
		for i, h := range header {
			if strings.TrimSpace(h) == want {
				return i
			}
		}
	}
	return -1
}
