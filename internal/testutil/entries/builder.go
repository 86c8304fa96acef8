// Package entries provides test infrastructure for building journal tables.
// It offers a fluent API for laying out rows under named columns, plus
// fixtures whose audit outcomes are known in advance.
//
// Example usage:
//
//	table := entries.NewBuilder(t, "Date", "Comment", "Debit", "Credit").
//		Row("2022-01-08", "Pago a proveedor", 5000, 0).
//		Row("2022-01-10", nil, 20000, 0).
//		Build()
package entries

import (
	"fmt"
	"testing"

	"github.com/Veraticus/journal-sift/internal/model"
)

// Builder lays out rows under a fixed set of columns.
type Builder struct {
	t       testing.TB
	source  string
	columns []string
	rows    [][]any
}

// NewBuilder starts a table with the given column headers.
func NewBuilder(t testing.TB, columns ...string) *Builder {
	t.Helper()
	return &Builder{
		t:       t,
		source:  "test-journal",
		columns: columns,
	}
}

// WithSource sets the source name recorded on the table.
func (b *Builder) WithSource(source string) *Builder {
	b.source = source
	return b
}

// Row appends one entry. Values line up with the columns; a nil value
// leaves that cell blank.
func (b *Builder) Row(values ...any) *Builder {
	b.t.Helper()
	if len(values) != len(b.columns) {
		b.t.Fatalf("row has %d values for %d columns", len(values), len(b.columns))
	}
	b.rows = append(b.rows, values)
	return b
}

// Repeat appends the same row n times.
func (b *Builder) Repeat(n int, values ...any) *Builder {
	b.t.Helper()
	for i := 0; i < n; i++ {
		b.Row(values...)
	}
	return b
}

// Build returns the table with entry IDs assigned in row order.
func (b *Builder) Build() *model.Table {
	table := &model.Table{
		Source:  b.source,
		Columns: append([]string(nil), b.columns...),
		Entries: make([]model.RawEntry, 0, len(b.rows)),
	}

	for i, row := range b.rows {
		values := make(map[string]any, len(row))
		for j, v := range row {
			if v != nil {
				values[b.columns[j]] = v
			}
		}
		table.Entries = append(table.Entries, model.RawEntry{
			ID:     model.EntryID(i),
			Ref:    fmt.Sprintf("%s:%d", b.source, i+2),
			Values: values,
		})
	}

	return table
}
