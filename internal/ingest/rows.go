package ingest

import (
	"fmt"
	"strings"

	"github.com/Veraticus/journal-sift/internal/model"
)

// normalizeHeaders trims header names, names blank headers by position and
// suffixes repeats with ".1", ".2" so every column is addressable.
func normalizeHeaders(raw []string) []string {
	columns := make([]string, len(raw))
	seen := make(map[string]int, len(raw))

	for i, h := range raw {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		base := name
		for seen[name] > 0 {
			name = fmt.Sprintf("%s.%d", base, seen[base])
			seen[base]++
		}
		seen[name]++
		columns[i] = name
	}

	return columns
}

// isBlankRow reports whether every cell is empty or whitespace.
func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// rowBuilder accumulates entries in row order.
type rowBuilder struct {
	table *model.Table
}

func newRowBuilder(source string, columns []string) *rowBuilder {
	return &rowBuilder{table: &model.Table{Source: source, Columns: columns}}
}

// add appends one entry. Cells beyond the header are dropped; empty cells
// are left out so they read as absent.
func (b *rowBuilder) add(line int, cells []any) {
	values := make(map[string]any, len(b.table.Columns))
	for i, v := range cells {
		if i >= len(b.table.Columns) {
			break
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		values[b.table.Columns[i]] = v
	}

	b.table.Entries = append(b.table.Entries, model.RawEntry{
		ID:     model.EntryID(len(b.table.Entries)),
		Ref:    fmt.Sprintf("%s:%d", b.table.Source, line),
		Values: values,
	})
}
