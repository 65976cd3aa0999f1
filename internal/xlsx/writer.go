package xlsx

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetfilter/internal/core"
)

// DefaultSheetName is the name of the result worksheet.
const DefaultSheetName = "Результат"

// Extension is appended to output paths that lack it.
const Extension = ".xlsx"

// WriteOptions controls the layout of an output workbook.
type WriteOptions struct {
	SheetName  string          // defaults to DefaultSheetName
	DateColumn int             // index into header of the date column, -1 for none
	DateFormat core.DateFormat // display format of date cells in DateColumn
}

// NormalizeOutputPath trims path and appends .xlsx unless it already ends
// with it, in any letter case.
func NormalizeOutputPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasSuffix(strings.ToLower(path), Extension) {
		path += Extension
	}
	return path
}

// WriteOutput writes header and rows as a single-sheet workbook at path.
//
// The workbook is serialized in memory first and then moved over path, so
// a failure leaves any existing file at path untouched. A destination that
// is read-only or locked by another program yields core.ErrWritePermission.
func WriteOutput(path string, header []string, rows []core.Row, opts WriteOptions) error {
	buf, err := Build(header, rows, opts)
	if err != nil {
		return err
	}
	return replaceFile(path, buf)
}

// Build renders the workbook into a buffer.
func Build(header []string, rows []core.Row, opts WriteOptions) (*bytes.Buffer, error) {
	sheet := opts.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	dateStyle := 0
	if opts.DateColumn >= 0 && opts.DateColumn < len(header) {
		code := opts.DateFormat.ExcelNumberFormat()
		if opts.DateFormat.Pattern == "" {
			code = strings.ToLower(core.DefaultOutputDatePattern)
		}
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &code})
		if err != nil {
			return nil, fmt.Errorf("create date style: %w", err)
		}
		dateStyle = style
	}

	for i, row := range rows {
		num := i + 2
		cell, err := excelize.CoordinatesToCellName(1, num)
		if err != nil {
			return nil, err
		}
		vals := []any(row)
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return nil, fmt.Errorf("write row %d: %w", num, err)
		}

		if dateStyle == 0 {
			continue
		}
		if _, ok := row.At(opts.DateColumn).(time.Time); !ok {
			continue
		}
		ref, err := excelize.CoordinatesToCellName(opts.DateColumn+1, num)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, ref, ref, dateStyle); err != nil {
			return nil, fmt.Errorf("style %s: %w", ref, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf, nil
}

// replaceFile writes data to a temporary file next to path and renames it
// over path.
func replaceFile(path string, buf *bytes.Buffer) (err error) {
	if info, statErr := os.Stat(path); statErr == nil {
		if info.IsDir() {
			return fmt.Errorf("output %s is a directory", path)
		}
		if info.Mode().Perm()&0o200 == 0 {
			return fmt.Errorf("%w: %s is read-only", core.ErrWritePermission, path)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".sheetfilter-*"+Extension)
	if err != nil {
		return mapWriteError(path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return mapWriteError(path, err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return mapWriteError(path, err)
	}
	if err = tmp.Close(); err != nil {
		return mapWriteError(path, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return mapWriteError(path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return mapWriteError(path, err)
	}
	return nil
}

// mapWriteError classifies a failed write. Permission problems and sharing
// violations from a program holding the file open become ErrWritePermission.
func mapWriteError(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) ||
		strings.Contains(strings.ToLower(err.Error()), "being used by another process") {
		return fmt.Errorf("%w: %s: %v", core.ErrWritePermission, path, err)
	}
	return fmt.Errorf("write %s: %w", path, err)
}

// Writer implements core.Writer for .xlsx output.
type Writer struct {
	SheetName  string
	DateFormat core.DateFormat
}

// NewWriter creates a Writer. An empty pattern uses DD.MM.YYYY.
func NewWriter(sheetName, datePattern string) (*Writer, error) {
	if datePattern == "" {
		datePattern = core.DefaultOutputDatePattern
	}
	df, err := core.ParseDateFormat(datePattern)
	if err != nil {
		return nil, err
	}
	return &Writer{SheetName: sheetName, DateFormat: df}, nil
}

// Write normalizes path and writes p to it.
func (w *Writer) Write(path string, p *core.Projection) (string, error) {
	path = NormalizeOutputPath(path)
	err := WriteOutput(path, p.Header, p.Rows, WriteOptions{
		SheetName:  w.SheetName,
		DateColumn: p.DateColumn,
		DateFormat: w.DateFormat,
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// Opener implements core.Opener for .xlsx input.
type Opener struct{}

// Open opens path with Open.
func (Opener) Open(path string) (core.Workbook, error) {
	wb, err := Open(path)
	if err != nil {
		return nil, err
	}
	return wb, nil
}
