// Package dataset loads experiment observations from CSV and Excel files and
// parses the compact sample notations accepted on the command line.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnknownColumn = errors.New("unknown column")

// Table is a header row plus string cells, as read from a file.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ReadTable reads a .csv or .xlsx file. An Excel path may end in #Sheet to
// select a sheet; otherwise the first sheet is read.
func ReadTable(path string) (*Table, error) {
	file, sheet, _ := strings.Cut(path, "#")

	switch strings.ToLower(filepath.Ext(file)) {
	case ".csv":
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return readExcel(file, sheet)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(file))
	}
}

// ReadCSV reads CSV data with a header row.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return newTable(rows)
}

func readExcel(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return newTable(rows)
}

func newTable(rows [][]string) (*Table, error) {
	if len(rows) < 2 {
		return nil, errors.New("file must have at least a header row and one data row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return &Table{Headers: headers, Rows: rows[1:]}, nil
}

func (t *Table) index(name string) (int, error) {
	for i, h := range t.Headers {
		if strings.EqualFold(h, name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w %q (have %s)", ErrUnknownColumn, name, strings.Join(t.Headers, ", "))
}

// Column returns the numeric values of a column. Blank cells are skipped.
func (t *Table) Column(name string) ([]float64, error) {
	idx, err := t.index(name)
	if err != nil {
		return nil, err
	}

	var values []float64
	for i, row := range t.Rows {
		if idx >= len(row) || strings.TrimSpace(row[idx]) == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d, column %q: %w", i+2, name, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// Group is the values of one arm, keyed by the arm column.
type Group struct {
	Arm    string
	Values []float64
}

// GroupBy splits valueColumn by armColumn. Groups appear in the order their
// arm is first seen; rows with a blank arm or value are skipped.
func (t *Table) GroupBy(armColumn, valueColumn string) ([]Group, error) {
	armIdx, err := t.index(armColumn)
	if err != nil {
		return nil, err
	}
	valueIdx, err := t.index(valueColumn)
	if err != nil {
		return nil, err
	}

	var groups []Group
	positions := make(map[string]int)
	for i, row := range t.Rows {
		if armIdx >= len(row) || valueIdx >= len(row) {
			continue
		}
		arm := strings.TrimSpace(row[armIdx])
		cell := strings.TrimSpace(row[valueIdx])
		if arm == "" || cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d, column %q: %w", i+2, valueColumn, err)
		}

		pos, ok := positions[arm]
		if !ok {
			pos = len(groups)
			positions[arm] = pos
			groups = append(groups, Group{Arm: arm})
		}
		groups[pos].Values = append(groups[pos].Values, v)
	}
	return groups, nil
}

// ParseFloats parses a comma-separated list such as "1.5,2,3".
func ParseFloats(s string) ([]float64, error) {
	var values []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", field, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// ParseCounts parses "successes/total", e.g. "850/10000".
func ParseCounts(s string) (successes, total int, err error) {
	a, b, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return 0, 0, fmt.Errorf("invalid counts %q: expected successes/total", s)
	}
	if successes, err = strconv.Atoi(strings.TrimSpace(a)); err != nil {
		return 0, 0, fmt.Errorf("invalid successes in %q: %w", s, err)
	}
	if total, err = strconv.Atoi(strings.TrimSpace(b)); err != nil {
		return 0, 0, fmt.Errorf("invalid total in %q: %w", s, err)
	}
	return successes, total, nil
}
