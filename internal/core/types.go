// Package core provides the header-detection and row-filtering logic.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"errors"
	"time"
)

// Cell is a single scalar read from a sheet.
// It holds one of: nil (empty), string, float64, bool or time.Time.
type Cell = any

// Row is an ordered sequence of cells.
type Row []Cell

// At returns the cell at zero-based index i, or nil when i is out of range.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// ErrStopScan can be returned from a ScanFunc to end a scan early.
// Sheet implementations treat it as a normal end of iteration.
var ErrStopScan = errors.New("stop scan")

// ScanFunc receives one row. num is the 1-based row number in the sheet.
type ScanFunc func(num int, row Row) error

// Sheet is a read-only, ordered sequence of rows.
type Sheet interface {
	// ScanRows calls fn for every row from first to last (1-based, inclusive).
	// last <= 0 scans to the end of the sheet.
	ScanRows(first, last int, fn ScanFunc) error
}

// Rows is an in-memory Sheet. Rows[0] is sheet row 1.
type Rows []Row

// ScanRows implements Sheet.
func (rs Rows) ScanRows(first, last int, fn ScanFunc) error {
	if first < 1 {
		first = 1
	}
	if last <= 0 || last > len(rs) {
		last = len(rs)
	}
	for num := first; num <= last; num++ {
		if err := fn(num, rs[num-1]); err != nil {
			if errors.Is(err, ErrStopScan) {
				return nil
			}
			return err
		}
	}
	return nil
}

// HeaderState is the result of opening a file: where the header is and what
// columns it holds. A filter run reads it and never modifies it.
type HeaderState struct {
	InputPath    string   `json:"inputPath"`
	HeaderRow    int      `json:"headerRow"`
	DataStartRow int      `json:"dataStartRow"`
	Columns      []string `json:"columns"`
}

// FilterRequest carries the user inputs of a single filter run.
type FilterRequest struct {
	OutputPath string `json:"outputPath"`
	Column     string `json:"column"`
	Value      string `json:"value"`
}

// FilterSpec is the filter column and value, with the value normalized once.
type FilterSpec struct {
	Column     string
	Raw        string
	Normalized string
}

// Projection is the filtered, column-restricted result of a scan.
// Every row in Rows has len(Header) cells.
type Projection struct {
	Header     []string // source spelling of the present required columns
	Rows       []Row
	Missing    []string // labels of required columns absent from the header
	DateColumn int      // index into Header of the date column, or -1
	Scanned    int      // data rows examined
}

// FilterResult summarizes a completed filter run.
type FilterResult struct {
	OutputPath string        `json:"outputPath"`
	Header     []string      `json:"header"`
	Matched    int           `json:"matched"`
	Scanned    int           `json:"scanned"`
	Missing    []string      `json:"missing,omitempty"`
	Duration   time.Duration `json:"duration"`
}
