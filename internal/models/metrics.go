package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"gorm.io/datatypes"
)

var periodPattern = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)

// Metric is one spreadsheet row: a name plus one value per day. An empty
// value means "no data", which is not the same as "0".
type Metric struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// MonthlyMetrics is the imported business-metrics table for one month.
// Period (YYYY-MM) is the natural key; an import replaces the whole record.
type MonthlyMetrics struct {
	OwnerID     string                      `gorm:"primaryKey;size:64" json:"-"`
	Period      string                      `gorm:"primaryKey;size:7" json:"period"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
	DateHeaders datatypes.JSONSlice[string] `json:"dateHeaders"`
	Metrics     datatypes.JSONSlice[Metric] `json:"metrics"`
}

// TableName keeps the table name aligned with the collection name.
func (MonthlyMetrics) TableName() string { return "monthly_metrics" }

// ParsePeriod validates a YYYY-MM period and returns its year and month.
func ParsePeriod(period string) (int, time.Month, error) {
	m := periodPattern.FindStringSubmatch(period)
	if m == nil {
		return 0, 0, fmt.Errorf("invalid period %q", period)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	return year, time.Month(month), nil
}

// DaysInMonth returns the number of days of the given month, leap years included.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
