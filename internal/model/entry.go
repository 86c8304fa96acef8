// Package model defines the core data structures for the sift application.
package model

import (
	"math"
	"time"
)

// EntryID identifies a journal entry for the lifetime of an audit run.
// It is assigned once at load time and carried through every stage.
type EntryID int

// RawEntry represents a single journal entry line exactly as it was loaded.
type RawEntry struct {
	Values map[string]any // Column name to cell value; absent cells are not present
	Ref    string         // Human reference back to the source (file row, OFX FITID)
	ID     EntryID
}

// Value returns the cell stored under column and whether it holds a value.
// Empty strings and NaN are treated as absent, the same as a blank cell.
func (e RawEntry) Value(column string) (any, bool) {
	v, ok := e.Values[column]
	if !ok || v == nil {
		return nil, false
	}

	switch val := v.(type) {
	case string:
		if val == "" {
			return nil, false
		}
	case float64:
		if math.IsNaN(val) {
			return nil, false
		}
	}

	return v, true
}

// Table is a loaded dataset: named columns and the entries under them.
type Table struct {
	Source  string
	Columns []string
	Entries []RawEntry
}

// NormalizedEntry is a RawEntry with its derived audit amounts and date.
type NormalizedEntry struct {
	Date           *time.Time
	Raw            RawEntry
	DebitAmount    float64
	CreditAmount   float64
	AuditAmount    float64 // Debit minus credit, or debit alone without a credit column
	AbsoluteAmount float64
}
