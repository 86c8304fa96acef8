package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/journal-sift/internal/common"
	"github.com/Veraticus/journal-sift/internal/model"
)

// CSVReader reads a delimited text export with a header line.
type CSVReader struct {
	Delimiter rune
}

// Read loads every non-blank record after the header. Cells stay strings;
// the audit normalizer coerces amounts and dates.
func (r *CSVReader) Read(ctx context.Context, in io.Reader, source string) (*model.Table, error) {
	br := bufio.NewReader(in)

	delimiter := r.Delimiter
	if delimiter == 0 {
		delimiter = sniffDelimiter(br)
	}

	cr := csv.NewReader(br)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s has no header line", common.ErrNoEntries, source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", source, err)
	}

	b := newRowBuilder(source, normalizeHeaders(header))
	for n := 0; ; n++ {
		if n%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}
		if isBlankRow(record) {
			continue
		}

		line, _ := cr.FieldPos(0)
		cells := make([]any, len(record))
		for i, v := range record {
			cells[i] = strings.TrimSpace(v)
		}
		b.add(line, cells)
	}

	return b.table, nil
}

// sniffDelimiter picks ';' or tab over ',' when the header line holds more
// of them. Spanish locale exports commonly use ';'.
func sniffDelimiter(br *bufio.Reader) rune {
	peek, _ := br.Peek(4096)
	line := string(peek)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	best, bestCount := ',', strings.Count(line, ",")
	for _, d := range []rune{';', '\t'} {
		if c := strings.Count(line, string(d)); c > bestCount {
			best, bestCount = d, c
		}
	}
	return best
}
