// Package ingest loads journal exports from spreadsheets, CSV files and
// OFX statements into tables of raw entries.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/journal-sift/internal/common"
	"github.com/Veraticus/journal-sift/internal/model"
	"github.com/Veraticus/journal-sift/internal/ofx"
)

// Format identifies a supported input file type.
type Format string

// Supported input formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatOFX  Format = "ofx"
)

// Options tunes how files are read.
type Options struct {
	Sheet     string // XLSX sheet name; first sheet when empty
	Delimiter rune   // CSV delimiter; detected from the header line when zero
}

// Reader turns an input stream into a table.
type Reader interface {
	Read(ctx context.Context, r io.Reader, source string) (*model.Table, error)
}

// DetectFormat picks the input format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".ofx", ".qfx":
		return FormatOFX, nil
	case ".xls":
		return "", fmt.Errorf("%w: legacy .xls workbooks must be saved as .xlsx", common.ErrUnsupportedFormat)
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}
}

// NewReader returns the reader for a format.
func NewReader(format Format, opts Options) (Reader, error) {
	switch format {
	case FormatXLSX:
		return &XLSXReader{Sheet: opts.Sheet}, nil
	case FormatCSV:
		return &CSVReader{Delimiter: opts.Delimiter}, nil
	case FormatOFX:
		return ofxReader{parser: ofx.NewParser()}, nil
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, format)
	}
}

// LoadFile reads the file at path with the reader its extension selects.
// The table source is the file's base name.
func LoadFile(ctx context.Context, path string, opts Options) (*model.Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	reader, err := NewReader(format, opts)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close input file", "path", path, "error", closeErr)
		}
	}()

	table, err := reader.Read(ctx, f, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded journal",
		"path", path,
		"format", format,
		"columns", len(table.Columns),
		"entries", len(table.Entries))

	return table, nil
}

type ofxReader struct {
	parser *ofx.Parser
}

func (r ofxReader) Read(ctx context.Context, in io.Reader, source string) (*model.Table, error) {
	return r.parser.ParseFile(ctx, in, source)
}
