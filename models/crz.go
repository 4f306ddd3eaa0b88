package models

import "time"

// AggLevel selects which CRZ summary table a query reads.
type AggLevel string

const (
	AggHourly  AggLevel = "hourly"
	AggDaily   AggLevel = "daily"
	AggWeekly  AggLevel = "weekly"
	AggMonthly AggLevel = "monthly"
)

// ParseAggLevel maps a query-string value to an AggLevel, defaulting to daily.
func ParseAggLevel(s string) AggLevel {
	switch AggLevel(s) {
	case AggHourly, AggDaily, AggWeekly, AggMonthly:
		return AggLevel(s)
	default:
		return AggDaily
	}
}

// ValueType selects how entries are combined across filter dimensions.
type ValueType string

const (
	ValueSum  ValueType = "sum"
	ValueMean ValueType = "mean"
)

// ParseValueType maps a query-string value to a ValueType, defaulting to sum.
func ParseValueType(s string) ValueType {
	if ValueType(s) == ValueMean {
		return ValueMean
	}
	return ValueSum
}

// UnknownDimension is substituted for blank region/class/group/period values
// so filters never have to deal with empty strings.
const UnknownDimension = "Unknown"

// CRZHourly is one row of the hourly vehicle-entry summary.
type CRZHourly struct {
	TollDate       time.Time `db:"toll_date" json:"tollDate"`
	Hour           int       `db:"hour" json:"hour"`
	Region         string    `db:"region" json:"region"`
	VehicleClass   string    `db:"vehicle_class" json:"vehicleClass"`
	DetectionGroup string    `db:"detection_group" json:"detectionGroup"`
	Entries        float64   `db:"entries" json:"entries"`
}

// CRZDaily is one row of the daily vehicle-entry summary.
type CRZDaily struct {
	TollDate       time.Time `db:"toll_date" json:"tollDate"`
	Region         string    `db:"region" json:"region"`
	VehicleClass   string    `db:"vehicle_class" json:"vehicleClass"`
	DetectionGroup string    `db:"detection_group" json:"detectionGroup"`
	TimePeriod     string    `db:"time_period" json:"timePeriod"`
	Entries        float64   `db:"entries" json:"entries"`
}

// CRZWeekly is one row of the weekly vehicle-entry summary.
type CRZWeekly struct {
	Year           int     `db:"year" json:"year"`
	Week           int     `db:"week" json:"week"`
	Region         string  `db:"region" json:"region"`
	VehicleClass   string  `db:"vehicle_class" json:"vehicleClass"`
	DetectionGroup string  `db:"detection_group" json:"detectionGroup"`
	Entries        float64 `db:"entries" json:"entries"`
}

// CRZMonthly is one row of the monthly vehicle-entry summary.
type CRZMonthly struct {
	Year           int     `db:"year" json:"year"`
	Month          int     `db:"month" json:"month"`
	Region         string  `db:"region" json:"region"`
	VehicleClass   string  `db:"vehicle_class" json:"vehicleClass"`
	DetectionGroup string  `db:"detection_group" json:"detectionGroup"`
	Entries        float64 `db:"entries" json:"entries"`
}

// CRZExcluded is one row of the excluded-roadway daily totals.
type CRZExcluded struct {
	TollDate time.Time `db:"toll_date" json:"tollDate"`
	Entries  float64   `db:"excluded_entries" json:"excludedEntries"`
}

// CRZDimensions lists the distinct filter values present in the summary,
// used to populate the dashboard dropdowns.
type CRZDimensions struct {
	Regions         []string   `json:"regions"`
	VehicleClasses  []string   `json:"vehicleClasses"`
	DetectionGroups []string   `json:"detectionGroups"`
	MinDate         *time.Time `json:"minDate"`
	MaxDate         *time.Time `json:"maxDate"`
}

// CRZFilter describes one dashboard query over the vehicle-entry summaries.
// Empty dimension sets match everything, matching the dashboard behavior of
// treating a cleared dropdown as "all".
type CRZFilter struct {
	Level           AggLevel
	Regions         []string
	VehicleClasses  []string
	DetectionGroups []string
	Start           time.Time
	End             time.Time
	Value           ValueType
}

// CRZSeriesPoint is one bucket of a CRZ time series. Hourly buckets carry
// the hour; weekly and monthly buckets carry year plus week or month.
type CRZSeriesPoint struct {
	TollDate *time.Time `json:"tollDate,omitempty"`
	Hour     *int       `json:"hour,omitempty"`
	Year     *int       `json:"year,omitempty"`
	Week     *int       `json:"week,omitempty"`
	Month    *int       `json:"month,omitempty"`
	Value    float64    `json:"value"`
}
