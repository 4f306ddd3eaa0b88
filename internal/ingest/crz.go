package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/ek3433/ARISE2025-Dashboard/models"
)

// CRZ vehicle-entry column names. The toll file has kept a stable header
// since publication; only the presence of the derived columns varies.
const (
	colTollDate        = "Toll Date"
	colTollBlock       = "Toll 10 Minute Block"
	colHourOfDay       = "Hour of Day"
	colTollWeek        = "Toll Week"
	colTimePeriod      = "Time Period"
	colRegion          = "Detection Region"
	colGroup           = "Detection Group"
	colVehicleClass    = "Vehicle Class"
	colCRZEntries      = "CRZ Entries"
	colExcludedEntries = "Excluded Roadway Entries"
)

var crzTollDateFormats = []string{"01/02/2006", "2006-01-02"}
var crzBlockFormats = []string{"01/02/2006 03:04:05 PM", "01/02/2006 15:04"}

// CRZRecord is one toll observation after coercion.
type CRZRecord struct {
	TollDate       time.Time
	Hour           int
	Week           int
	TimePeriod     string
	Region         string
	VehicleClass   string
	DetectionGroup string
	Entries        float64
	Excluded       float64
}

// CRZNormalizer coerces rows of the vehicle-entry file. Dimension columns are
// optional and default to Unknown; the date and entry count are required.
type CRZNormalizer struct {
	idx   map[string]int
	stats Stats
}

// NewCRZNormalizer resolves the toll file's columns against the header.
func NewCRZNormalizer(source string, header []string) (*CRZNormalizer, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	if _, ok := idx[colTollDate]; !ok {
		return nil, &SchemaError{Source: source, Field: colTollDate, Columns: header}
	}
	if _, ok := idx[colCRZEntries]; !ok {
		return nil, &SchemaError{Source: source, Field: colCRZEntries, Columns: header}
	}
	return &CRZNormalizer{idx: idx}, nil
}

func (n *CRZNormalizer) field(row []string, col string) string {
	if i, ok := n.idx[col]; ok && i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// Normalize coerces one raw row; ok is false for dropped rows.
func (n *CRZNormalizer) Normalize(row []string) (CRZRecord, bool) {
	n.stats.Rows++

	date, err := ParseTimestamp(n.field(row, colTollDate), crzTollDateFormats)
	if err != nil {
		n.stats.Dropped++
		return CRZRecord{}, false
	}

	entries, missing, err := ParseCount(n.field(row, colCRZEntries))
	if err != nil || entries < 0 {
		n.stats.Dropped++
		return CRZRecord{}, false
	}
	if missing {
		n.stats.Missing++
		return CRZRecord{}, false
	}

	rec := CRZRecord{
		TollDate:       date,
		TimePeriod:     orUnknown(n.field(row, colTimePeriod)),
		Region:         orUnknown(n.field(row, colRegion)),
		VehicleClass:   orUnknown(n.field(row, colVehicleClass)),
		DetectionGroup: orUnknown(n.field(row, colGroup)),
		Entries:        entries,
	}

	// Hour of Day is published directly; older extracts only carry the
	// 10-minute block timestamp.
	if h, err := strconv.Atoi(n.field(row, colHourOfDay)); err == nil {
		rec.Hour = h
	} else if block, err := ParseTimestamp(n.field(row, colTollBlock), crzBlockFormats); err == nil {
		rec.Hour = block.Hour()
	}

	if w, err := strconv.Atoi(n.field(row, colTollWeek)); err == nil {
		rec.Week = w
	} else {
		_, rec.Week = date.ISOWeek()
	}

	// Excluded entries default to zero when absent or blank.
	if v, missing, err := ParseCount(n.field(row, colExcludedEntries)); err == nil && !missing {
		rec.Excluded = v
	}

	n.stats.Kept++
	return rec, true
}

// Stats returns the running counts.
func (n *CRZNormalizer) Stats() Stats { return n.stats }

func orUnknown(s string) string {
	if s == "" {
		return models.UnknownDimension
	}
	return s
}
