// Package ledger reads a broker-exported transaction ledger into typed,
// date-ordered transactions.
package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// RowSource yields the raw rows of a ledger, header row first.
type RowSource interface {
	ReadRows(ctx context.Context) ([][]string, error)
}

// Rows is an in-memory RowSource.
type Rows [][]string

// ReadRows returns the rows unchanged.
func (r Rows) ReadRows(context.Context) ([][]string, error) {
	return r, nil
}

func (r Rows) String() string { return "memory" }

// CSVSource reads comma-separated rows from a reader.
type CSVSource struct {
	name string
	r    io.Reader
}

// NewCSVSource creates a RowSource over r. The name is reported as the snapshot source.
func NewCSVSource(name string, r io.Reader) *CSVSource {
	return &CSVSource{name: name, r: r}
}

// ReadRows reads every record. Rows may have differing field counts; short
// rows are padded by the loader.
func (s *CSVSource) ReadRows(ctx context.Context) ([][]string, error) {
	reader := csv.NewReader(s.r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		rows = append(rows, record)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

func (s *CSVSource) String() string { return s.name }

// FileSource reads a CSV ledger from a path on every call, so a reload picks
// up a replaced export.
type FileSource string

// ReadRows opens and reads the file.
func (f FileSource) ReadRows(ctx context.Context) ([][]string, error) {
	file, err := os.Open(string(f))
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer file.Close()
	return NewCSVSource(string(f), file).ReadRows(ctx)
}

func (f FileSource) String() string { return string(f) }
