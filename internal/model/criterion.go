package model

import "strings"

// RiskLevel grades how serious a criterion match is.
type RiskLevel string

// Risk level constants.
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RuleKind selects how a criterion is evaluated.
type RuleKind string

// Rule kind constants.
const (
	RuleKeyword     RuleKind = "keyword"      // Substring search over text columns
	RuleCalendar    RuleKind = "calendar"     // Weekend or holiday posting date
	RuleRoundAmount RuleKind = "round_amount" // Exact multiples of a round figure
	RuleBalance     RuleKind = "balance"      // Debit and credit do not agree
)

// Criterion is one fixed audit heuristic.
type Criterion struct {
	Key         string    `json:"key"`
	Description string    `json:"description"`
	Risk        RiskLevel `json:"risk"`
	Kind        RuleKind  `json:"kind"`
	Keywords    []string  `json:"keywords,omitempty"`
	Columns     []string  `json:"columns,omitempty"`
}

// ShortName returns the key without its section prefix, e.g. "5.1_Payments" -> "Payments".
func (c Criterion) ShortName() string {
	if _, name, ok := strings.Cut(c.Key, "_"); ok {
		return name
	}
	return c.Key
}
