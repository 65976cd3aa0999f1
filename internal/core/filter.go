package core

import (
	"fmt"
	"strings"
)

// FilterParams are the inputs of FilterRows.
type FilterParams struct {
	DataStartRow int        // first data row, 1-based
	Header       HeaderMap  // index of the header row
	Columns      ColumnSet  // required output columns, in output order
	Normalizer   *Normalizer
	Column       string // filter column as displayed to the user
	Value        string // raw filter value as typed
}

// resolvedColumn is a required column found in the header.
type resolvedColumn struct {
	def      ColumnDef
	index    int    // source column index
	original string // source spelling
}

// FilterRows scans the data rows of sheet, keeps those whose filter column
// equals the filter value after normalization, and projects them onto the
// required columns present in the header.
//
// A missing filter column yields ErrFilterColumnNotFound and no required
// column at all yields ErrNoRequiredColumns; both fail before any data row is
// read. Required columns absent from the header are listed in
// Projection.Missing. Zero matches is a valid result.
func FilterRows(sheet Sheet, p FilterParams) (*Projection, error) {
	norm := p.Normalizer
	if norm == nil {
		norm = NewNormalizer()
	}

	filterIdx, ok := p.Header.Lookup(p.Column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFilterColumnNotFound, p.Column)
	}

	wanted, missing := resolveColumns(p.Header, p.Columns)
	if len(wanted) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRequiredColumns, strings.Join(p.Columns.Labels(), ", "))
	}

	spec := FilterSpec{
		Column:     p.Column,
		Raw:        p.Value,
		Normalized: norm.Compare(p.Value),
	}

	proj := &Projection{
		Header:     make([]string, len(wanted)),
		Missing:    missing,
		DateColumn: -1,
	}
	for i, w := range wanted {
		proj.Header[i] = w.original
		if w.def.Date && proj.DateColumn < 0 {
			proj.DateColumn = i
		}
	}

	start := p.DataStartRow
	if start < 1 {
		start = 1
	}

	err := sheet.ScanRows(start, 0, func(_ int, row Row) error {
		proj.Scanned++
		if norm.Compare(row.At(filterIdx)) != spec.Normalized {
			return nil
		}
		proj.Rows = append(proj.Rows, projectRow(row, wanted, norm))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan rows: %w", err)
	}

	return proj, nil
}

// resolveColumns splits the column set into present columns (in set order)
// and the labels of absent ones.
func resolveColumns(hm HeaderMap, cols ColumnSet) ([]resolvedColumn, []string) {
	var wanted []resolvedColumn
	var missing []string
	for _, def := range cols {
		idx, ok := hm.Lookup(def.Label)
		if !ok {
			missing = append(missing, def.Label)
			continue
		}
		original, _ := hm.Original(def.Label)
		wanted = append(wanted, resolvedColumn{def: def, index: idx, original: original})
	}
	return wanted, missing
}

// projectRow copies the wanted cells of row. Text in a date column that
// parses as a date is replaced by the date so output formatting applies.
func projectRow(row Row, wanted []resolvedColumn, norm *Normalizer) Row {
	out := make(Row, len(wanted))
	for i, w := range wanted {
		v := row.At(w.index)
		if w.def.Date {
			if s, ok := v.(string); ok {
				if t, ok := norm.ParseDate(s); ok {
					v = t
				}
			}
		}
		out[i] = v
	}
	return out
}
