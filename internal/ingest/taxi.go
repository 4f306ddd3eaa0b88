package ingest

import (
	"strings"

	"github.com/ek3433/ARISE2025-Dashboard/models"
)

// Taxi monthly report columns.
const (
	colMonthYear    = "Month/Year"
	colLicenseClass = "License Class"
	colTripsPerDay  = "Trips Per Day"
)

var taxiMonthFormats = []string{"2006-01"}

// TaxiNormalizer coerces rows of the taxi monthly report. The report is
// already monthly, so normalization is coercion only: parse the YYYY-MM
// month, strip thousands separators, and keep the "-" placeholders as
// missing values instead of zeros.
type TaxiNormalizer struct {
	monthIdx int
	classIdx int
	tripsIdx int
	stats    Stats
}

// NewTaxiNormalizer resolves the report's columns against the header.
func NewTaxiNormalizer(source string, header []string) (*TaxiNormalizer, error) {
	monthIdx := findColumn(header, []string{colMonthYear})
	if monthIdx < 0 {
		return nil, &SchemaError{Source: source, Field: colMonthYear, Columns: header}
	}
	classIdx := findColumn(header, []string{colLicenseClass})
	if classIdx < 0 {
		return nil, &SchemaError{Source: source, Field: colLicenseClass, Columns: header}
	}
	tripsIdx := findColumn(header, []string{colTripsPerDay})
	if tripsIdx < 0 {
		return nil, &SchemaError{Source: source, Field: colTripsPerDay, Columns: header}
	}
	return &TaxiNormalizer{monthIdx: monthIdx, classIdx: classIdx, tripsIdx: tripsIdx}, nil
}

// Normalize coerces one raw row; ok is false for dropped rows.
func (n *TaxiNormalizer) Normalize(row []string) (models.TaxiMonthly, bool) {
	n.stats.Rows++
	maxIdx := n.monthIdx
	if n.classIdx > maxIdx {
		maxIdx = n.classIdx
	}
	if n.tripsIdx > maxIdx {
		maxIdx = n.tripsIdx
	}
	if maxIdx >= len(row) {
		n.stats.Dropped++
		return models.TaxiMonthly{}, false
	}

	month, err := ParseTimestamp(row[n.monthIdx], taxiMonthFormats)
	if err != nil {
		n.stats.Dropped++
		return models.TaxiMonthly{}, false
	}

	class := strings.TrimSpace(row[n.classIdx])
	if class == "" {
		n.stats.Dropped++
		return models.TaxiMonthly{}, false
	}

	rec := models.TaxiMonthly{
		LicenseClass: class,
		Year:         month.Year(),
		Month:        int(month.Month()),
	}
	trips, missing, err := ParseCount(row[n.tripsIdx])
	if err != nil {
		n.stats.Dropped++
		return models.TaxiMonthly{}, false
	}
	if missing {
		n.stats.Missing++
	} else {
		rec.TripsPerDay = &trips
	}

	n.stats.Kept++
	return rec, true
}

// Stats returns the running counts.
func (n *TaxiNormalizer) Stats() Stats { return n.stats }
