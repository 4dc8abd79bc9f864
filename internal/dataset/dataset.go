// Package dataset reads a delimited text file into an in-memory table of
// named columns and infers a value kind for each column.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vvka-141/tabload/pkg/tabload"
)

// Cell is one source value. Null marks a missing value; Raw is then
// whatever text was in the file (possibly empty or an NA marker).
type Cell struct {
	Raw  string
	Null bool
}

// Column is one source column with its cells in row order.
type Column struct {
	Name  string
	Kind  tabload.ValueKind
	Cells []Cell
}

// NullCount returns the number of null cells.
func (c *Column) NullCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.Null {
			n++
		}
	}
	return n
}

// Dataset is the parsed source file. Every column holds RowCount cells.
// It is built once by Load and treated as read-only afterwards.
type Dataset struct {
	Path    string
	Columns []Column
}

// RowCount returns the number of data rows (header excluded).
func (d *Dataset) RowCount() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Cells)
}

// Row returns the i-th (0-based) row across all columns.
func (d *Dataset) Row(i int) []Cell {
	row := make([]Cell, len(d.Columns))
	for j := range d.Columns {
		row[j] = d.Columns[j].Cells[i]
	}
	return row
}

// ColumnNames returns the header names in file order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Options controls how the source file is parsed.
type Options struct {
	// Delimiter separates fields. Zero means tabload.DefaultDelimiter.
	Delimiter rune

	// NullMarkers replaces DefaultNullMarkers when non-nil.
	NullMarkers []string
}

// Load reads the file at path. Every failure is returned as a
// *tabload.LoadError of kind ErrorKindFile.
func Load(path string, opts Options) (*Dataset, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, tabload.NewFileError(err)
	}

	ds, err := Parse(bytes.NewReader(data), opts)
	if err != nil {
		return nil, tabload.NewFileError(fmt.Errorf("%s: %w", path, err))
	}
	ds.Path = path
	return ds, nil
}

// Parse reads delimited text from r. The first record is the header.
// Rows shorter than the header are padded with nulls; longer rows are an error.
func Parse(r io.Reader, opts Options) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	if reader.Comma == 0 {
		reader.Comma = tabload.DefaultDelimiter
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, tabload.ErrEmptySource
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	nulls := newNullSet(opts.NullMarkers)
	cols := make([]Column, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		cols[i].Name = name
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse row: %w", err)
		}
		if len(record) > len(cols) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(cols), len(record))
		}
		for i := range cols {
			if i >= len(record) {
				cols[i].Cells = append(cols[i].Cells, Cell{Null: true})
				continue
			}
			raw := record[i]
			cols[i].Cells = append(cols[i].Cells, Cell{Raw: raw, Null: nulls.contains(raw)})
		}
	}

	for i := range cols {
		cols[i].Kind = InferKind(cols[i].Cells)
	}

	return &Dataset{Columns: cols}, nil
}

func readSource(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to open source file: %s is a directory", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(newSanitizingReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	return data, nil
}
