// Package xlsx reads and writes .xlsx workbooks for the core filter.
//
// Reading exposes the active worksheet as a core.Sheet with typed cells.
// Writing builds the result workbook in memory and replaces the destination
// in one rename.
package xlsx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetfilter/internal/core"
)

// Workbook is an opened workbook. It reads the active worksheet.
type Workbook struct {
	f        *excelize.File
	sheet    string
	date1904 bool

	// style index -> whether its number format displays a date
	dateStyles map[int]bool
}

// Open opens the workbook at path for reading.
// Missing files yield core.ErrFileNotFound, files that are not workbooks
// core.ErrUnreadableWorkbook.
func Open(path string) (*Workbook, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open input: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", core.ErrUnreadableWorkbook, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("open input: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", core.ErrUnreadableWorkbook, err)
	}

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		if list := f.GetSheetList(); len(list) > 0 {
			sheet = list[0]
		}
	}
	if sheet == "" {
		f.Close()
		return nil, fmt.Errorf("%w: no worksheets", core.ErrUnreadableWorkbook)
	}

	wb := &Workbook{
		f:          f,
		sheet:      sheet,
		dateStyles: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb, nil
}

// SheetName returns the name of the worksheet being read.
func (w *Workbook) SheetName() string { return w.sheet }

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// ScanRows implements core.Sheet. Rows are numbered from 1; missing rows
// inside the range are passed as empty rows.
func (w *Workbook) ScanRows(first, last int, fn core.ScanFunc) (err error) {
	if first < 1 {
		first = 1
	}

	rows, err := w.f.Rows(w.sheet)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrUnreadableWorkbook, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	num := 0
	for rows.Next() {
		num++
		if num < first {
			continue
		}
		if last > 0 && num > last {
			break
		}

		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return fmt.Errorf("read row %d: %w", num, err)
		}
		row, err := w.typedRow(num, cols)
		if err != nil {
			return err
		}
		if err := fn(num, row); err != nil {
			if errors.Is(err, core.ErrStopScan) {
				return nil
			}
			return err
		}
	}
	return rows.Error()
}

// typedRow converts the raw text of one row into typed cells.
func (w *Workbook) typedRow(num int, raw []string) (core.Row, error) {
	row := make(core.Row, len(raw))
	for i, v := range raw {
		if v == "" {
			continue
		}
		ref, err := excelize.CoordinatesToCellName(i+1, num)
		if err != nil {
			return nil, err
		}
		cell, err := w.typedCell(ref, v)
		if err != nil {
			return nil, fmt.Errorf("cell %s: %w", ref, err)
		}
		row[i] = cell
	}
	return row, nil
}

func (w *Workbook) typedCell(ref, raw string) (core.Cell, error) {
	typ, err := w.f.GetCellType(w.sheet, ref)
	if err != nil {
		return nil, err
	}

	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeDate:
		if t, ok := parseISOCell(raw); ok {
			return t, nil
		}
		return raw, nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw, nil
		}
		isDate, err := w.isDateStyled(ref)
		if err != nil {
			return nil, err
		}
		if isDate {
			t, err := excelize.ExcelDateToTime(n, w.date1904)
			if err == nil {
				return t, nil
			}
		}
		return n, nil
	default:
		// shared and inline strings, cached formula text, error values
		return raw, nil
	}
}

func (w *Workbook) isDateStyled(ref string) (bool, error) {
	idx, err := w.f.GetCellStyle(w.sheet, ref)
	if err != nil {
		return false, err
	}
	if idx == 0 {
		return false, nil
	}
	if isDate, ok := w.dateStyles[idx]; ok {
		return isDate, nil
	}

	style, err := w.f.GetStyle(idx)
	if err != nil {
		return false, err
	}
	isDate := false
	if style.CustomNumFmt != nil {
		isDate = IsDateNumberFormat(*style.CustomNumFmt)
	} else {
		isDate = IsBuiltInDateFormat(style.NumFmt)
	}
	w.dateStyles[idx] = isDate
	return isDate, nil
}

// parseISOCell parses the ISO 8601 text of a cell stored with type "d".
func parseISOCell(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsBuiltInDateFormat reports whether a built-in number format id displays
// a date or time.
func IsBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

// IsDateNumberFormat reports whether a custom number format code displays a
// date or time. Quoted literals, escaped characters and bracketed sections
// such as colors or locales are ignored; elapsed-time brackets count.
func IsDateNumberFormat(code string) bool {
	code = strings.ToLower(code)
	for i := 0; i < len(code); i++ {
		switch c := code[i]; c {
		case '"':
			end := strings.IndexByte(code[i+1:], '"')
			if end < 0 {
				return false
			}
			i += end + 1
		case '\\', '_', '*':
			i++
		case '[':
			end := strings.IndexByte(code[i+1:], ']')
			if end < 0 {
				return false
			}
			switch inner := code[i+1 : i+1+end]; inner {
			case "h", "hh", "m", "mm", "s", "ss":
				return true
			}
			i += end + 1
		case 'd', 'm', 'y', 'h':
			return true
		}
	}
	return false
}
