package model

import (
	"time"
)

// Schema records which input columns were resolved for each audit role.
// An empty field means the role could not be resolved.
type Schema struct {
	Debit  string `json:"debit"`
	Credit string `json:"credit,omitempty"`
	Date   string `json:"date,omitempty"`
}

// HasCredit reports whether a credit column was resolved.
func (s Schema) HasCredit() bool {
	return s.Credit != ""
}

// HasDate reports whether a date column was resolved.
func (s Schema) HasDate() bool {
	return s.Date != ""
}

// AuditRun is the complete output of one audit: results plus statistics.
type AuditRun struct {
	CreatedAt      time.Time            `json:"created_at"`
	ID             string               `json:"id"`
	Source         string               `json:"source"`
	HolidaySet     string               `json:"holiday_set"`
	Schema         Schema               `json:"schema"`
	Results        []EvaluationResult   `json:"results"`
	Irregularities []IrregularityRecord `json:"irregularities"`
	Stats          AuditStatistics      `json:"stats"`
	Materiality    float64              `json:"materiality"`
	Duration       time.Duration        `json:"duration"`
}

// AuditRunSummary is the persisted header of an audit run, used for listings.
type AuditRunSummary struct {
	CreatedAt       time.Time `json:"created_at"`
	ID              string    `json:"id"`
	Source          string    `json:"source"`
	Materiality     float64   `json:"materiality"`
	TotalEntries    int       `json:"total_entries"`
	MaterialEntries int       `json:"material_entries"`
	CriticalEntries int       `json:"critical_entries"`
	Irregularities  int       `json:"irregularities"`
}
