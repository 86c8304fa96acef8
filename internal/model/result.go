package model

import (
	"time"
)

// EvaluationResult is the outcome of running every criterion against one entry.
type EvaluationResult struct {
	Date           *time.Time        `json:"date,omitempty"`
	Flags          map[string]int    `json:"flags"`   // Every catalog key, 0 or 1
	Details        map[string]string `json:"details"` // Matched keys only
	Ref            string            `json:"ref"`
	Summary        string            `json:"summary"`
	DebitAmount    float64           `json:"debit_amount"`
	CreditAmount   float64           `json:"credit_amount"`
	AuditAmount    float64           `json:"audit_amount"`
	AbsoluteAmount float64           `json:"absolute_amount"`
	EntryID        EntryID           `json:"entry_id"`
	TotalMatched   int               `json:"total_matched"`
	IsMaterial     bool              `json:"is_material"`
}

// Matched reports whether the criterion with the given key flagged this entry.
func (r EvaluationResult) Matched(key string) bool {
	return r.Flags[key] == 1
}

// IrregularityRecord marks a material entry that matched a high-risk criterion.
type IrregularityRecord struct {
	CriterionKey string    `json:"criterion_key"`
	Detail       string    `json:"detail"`
	Ref          string    `json:"ref"`
	RiskLevel    RiskLevel `json:"risk_level"`
	Amount       float64   `json:"amount"`
	EntryID      EntryID   `json:"entry_id"`
}

// CriterionStat is the corpus-wide tally for one criterion.
type CriterionStat struct {
	Description string    `json:"description"`
	Risk        RiskLevel `json:"risk"`
	Count       int       `json:"count"`
	Percent     float64   `json:"percent"`
}

// AuditStatistics summarizes a full set of evaluation results.
type AuditStatistics struct {
	Criteria             map[string]CriterionStat `json:"criteria"`
	Critical             []EvaluationResult       `json:"critical"`
	TotalEntries         int                      `json:"total_entries"`
	MaterialEntries      int                      `json:"material_entries"`
	MaterialPercent      float64                  `json:"material_percent"`
	MultiCriteriaEntries int                      `json:"multi_criteria_entries"`
	HighRiskEntries      int                      `json:"high_risk_entries"`
	CriticalEntries      int                      `json:"critical_entries"`
	TotalAmount          float64                  `json:"total_amount"`
	MaterialAmount       float64                  `json:"material_amount"`
}
