package core

// header.go locates the header row of a sheet and indexes its column names.
//
// Real-world sheets often carry title banners, blank rows or merged captions
// above the header, so the header is guessed by scoring the first rows rather
// than assumed to be row 1.

import (
	"fmt"
	"strings"
)

// DefaultHeaderSearchLimit is the number of leading rows scanned for the header.
const DefaultHeaderSearchLimit = 25

// LocateHeader returns the 1-based row that most likely holds the header.
//
// Each of the first limit rows scores
//
//	nonEmpty + 2 * |distinct normalized values ∩ expected|
//
// Rows with no non-empty cell are skipped. The earliest row with the highest
// score wins. When every scanned row is empty, row 1 is returned.
func LocateHeader(sheet Sheet, limit int, expected map[string]struct{}) (int, error) {
	if limit <= 0 {
		limit = DefaultHeaderSearchLimit
	}

	bestRow, bestScore := 1, -1
	err := sheet.ScanRows(1, limit, func(num int, row Row) error {
		score := scoreHeaderRow(row, expected)
		if score > bestScore {
			bestScore = score
			bestRow = num
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("locate header: %w", err)
	}
	return bestRow, nil
}

// scoreHeaderRow scores a header candidate. Empty rows score -1 so they never
// beat the initial sentinel.
func scoreHeaderRow(row Row, expected map[string]struct{}) int {
	nonEmpty := 0
	distinct := make(map[string]struct{}, len(row))
	for _, c := range row {
		if isEmptyCell(c) {
			continue
		}
		nonEmpty++
		distinct[NormalizeDisplay(c)] = struct{}{}
	}
	if nonEmpty == 0 {
		return -1
	}

	hits := 0
	for v := range distinct {
		if _, ok := expected[v]; ok {
			hits++
		}
	}
	return nonEmpty + 2*hits
}

// HeaderMap maps normalized column names to zero-based column indexes.
// When a name appears more than once, the first column keeps it and later
// ones cannot be addressed by name.
type HeaderMap struct {
	index    map[string]int
	original map[string]string
	order    []string // keys in column order
}

// BuildHeaderMap indexes the non-empty cells of a header row.
func BuildHeaderMap(row Row) HeaderMap {
	hm := HeaderMap{
		index:    make(map[string]int, len(row)),
		original: make(map[string]string, len(row)),
	}
	for i, c := range row {
		name := headerText(c)
		if name == "" {
			continue
		}
		key := NormalizeDisplay(name)
		if _, seen := hm.index[key]; seen {
			continue
		}
		hm.index[key] = i
		hm.original[key] = name
		hm.order = append(hm.order, key)
	}
	return hm
}

// ReadHeaderMap reads row headerRow of sheet and indexes it.
func ReadHeaderMap(sheet Sheet, headerRow int) (HeaderMap, error) {
	row, err := readRow(sheet, headerRow)
	if err != nil {
		return HeaderMap{}, err
	}
	return BuildHeaderMap(row), nil
}

// Lookup resolves a column name, normalizing it first.
func (hm HeaderMap) Lookup(name string) (int, bool) {
	idx, ok := hm.index[NormalizeDisplay(name)]
	return idx, ok
}

// Original returns the header text as spelled in the file for a column name.
func (hm HeaderMap) Original(name string) (string, bool) {
	s, ok := hm.original[NormalizeDisplay(name)]
	return s, ok
}

// Columns returns the addressable column names in column order, as spelled
// in the file.
func (hm HeaderMap) Columns() []string {
	out := make([]string, len(hm.order))
	for i, key := range hm.order {
		out[i] = hm.original[key]
	}
	return out
}

// Len returns the number of addressable columns.
func (hm HeaderMap) Len() int {
	return len(hm.index)
}

// HeaderNames lists every non-empty trimmed header cell, duplicates included.
// This is what a column picker shows.
func HeaderNames(row Row) []string {
	var out []string
	for _, c := range row {
		if name := headerText(c); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// headerText is the trimmed text of a header cell.
func headerText(c Cell) string {
	if isEmptyCell(c) {
		return ""
	}
	return strings.TrimSpace(CellText(c))
}

// readRow returns a single row; rows past the end of the sheet are empty.
func readRow(sheet Sheet, num int) (Row, error) {
	var out Row
	err := sheet.ScanRows(num, num, func(_ int, row Row) error {
		out = row
		return ErrStopScan
	})
	if err != nil {
		return nil, fmt.Errorf("read row %d: %w", num, err)
	}
	return out, nil
}
