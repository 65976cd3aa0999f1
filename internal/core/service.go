package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Workbook is an opened spreadsheet. Close must be called on every path.
type Workbook interface {
	Sheet
	Close() error
}

// Opener opens the workbook at path.
type Opener interface {
	Open(path string) (Workbook, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(path string) (Workbook, error)

func (f OpenerFunc) Open(path string) (Workbook, error) { return f(path) }

// Writer persists a projection and returns the path actually written.
type Writer interface {
	Write(path string, p *Projection) (string, error)
}

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	Columns     ColumnSet
	Normalizer  *Normalizer
	SearchLimit int
}

// Service runs the two user operations: opening an input file to learn its
// columns, and filtering it into an output file. It holds no per-user state;
// callers keep the HeaderState and Journal of each session.
type Service struct {
	opener      Opener
	writer      Writer
	columns     ColumnSet
	norm        *Normalizer
	searchLimit int
}

// NewService creates a Service.
func NewService(opener Opener, writer Writer, opts Options) *Service {
	s := &Service{
		opener:      opener,
		writer:      writer,
		columns:     opts.Columns,
		norm:        opts.Normalizer,
		searchLimit: opts.SearchLimit,
	}
	if len(s.columns) == 0 {
		s.columns = DefaultColumns()
	}
	if s.norm == nil {
		s.norm = NewNormalizer()
	}
	if s.searchLimit <= 0 {
		s.searchLimit = DefaultHeaderSearchLimit
	}
	return s
}

// Columns returns the required output columns.
func (s *Service) Columns() ColumnSet { return s.columns }

// OpenFile opens the workbook at path, locates its header row and lists the
// header names. The returned state replaces any previous one; callers drop
// the previous state before opening, so a failed open leaves no file open.
// On failure the journal receives a line.
func (s *Service) OpenFile(ctx context.Context, journal *Journal, path string) (state *HeaderState, err error) {
	defer s.recoverPanic(journal, "open", msgReadFailed, &err)

	path = strings.TrimSpace(path)
	if path == "" {
		journal.Errorf(msgNoInputFile)
		return nil, fmt.Errorf("%w: input file", ErrMissingInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state, err = s.readHeader(path)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileNotFound):
			journal.Errorf(msgFileMissing)
		case errors.Is(err, ErrNoHeaders):
			journal.Errorf(msgNoHeaderRow)
		default:
			journal.Errorf(msgReadFailed, err)
		}
		slog.Warn("open file failed", "path", path, "error", err)
		return nil, err
	}

	journal.Infof(msgColumnsLoaded, state.HeaderRow, strings.Join(state.Columns, ", "))
	slog.Info("file opened",
		"path", path,
		"header_row", state.HeaderRow,
		"columns", len(state.Columns),
	)
	return state, nil
}

func (s *Service) readHeader(path string) (*HeaderState, error) {
	wb, err := s.opener.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	headerRow, err := LocateHeader(wb, s.searchLimit, s.columns.Expected())
	if err != nil {
		return nil, fmt.Errorf("locate header: %w", err)
	}

	row, err := readRow(wb, headerRow)
	if err != nil {
		return nil, fmt.Errorf("read header row %d: %w", headerRow, err)
	}
	names := HeaderNames(row)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: row %d", ErrNoHeaders, headerRow)
	}

	return &HeaderState{
		InputPath:    path,
		HeaderRow:    headerRow,
		DataStartRow: headerRow + 1,
		Columns:      names,
	}, nil
}

// RunFilter filters the input of state by req and writes the matching rows
// to req.OutputPath. A run with zero matches still writes a header-only file.
func (s *Service) RunFilter(ctx context.Context, journal *Journal, state *HeaderState, req FilterRequest) (result *FilterResult, err error) {
	defer s.recoverPanic(journal, "filter", msgFilterFailed, &err)

	start := time.Now()

	if err := s.validateRun(journal, state, req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	proj, err := s.project(state, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrFilterColumnNotFound):
			journal.Errorf(msgColumnNotFound, req.Column)
		case errors.Is(err, ErrNoRequiredColumns):
			journal.Errorf(msgNoRequiredColumns, strings.Join(s.columns.Labels(), ", "))
		case errors.Is(err, ErrFileNotFound):
			journal.Errorf(msgFileMissing)
		default:
			journal.Errorf(msgFilterFailed, err)
		}
		slog.Warn("filter failed", "path", state.InputPath, "column", req.Column, "error", err)
		return nil, err
	}

	if len(proj.Missing) > 0 {
		journal.Warnf(msgMissingColumns, strings.Join(proj.Missing, ", "))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	written, err := s.writer.Write(strings.TrimSpace(req.OutputPath), proj)
	if err != nil {
		if errors.Is(err, ErrWritePermission) {
			journal.Errorf(msgFileLocked)
		} else {
			journal.Errorf(msgFilterFailed, err)
		}
		slog.Warn("write output failed", "path", req.OutputPath, "error", err)
		return nil, err
	}

	if len(proj.Rows) == 0 {
		journal.Infof(msgNothingMatched, written)
	} else {
		journal.Infof(msgRowsSaved, len(proj.Rows), written)
	}

	result = &FilterResult{
		OutputPath: written,
		Header:     proj.Header,
		Matched:    len(proj.Rows),
		Scanned:    proj.Scanned,
		Missing:    proj.Missing,
		Duration:   time.Since(start),
	}
	slog.Info("filter completed",
		"input", state.InputPath,
		"output", written,
		"column", req.Column,
		"matched", result.Matched,
		"scanned", result.Scanned,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// validateRun checks the run inputs in the order the user fills them in.
func (s *Service) validateRun(journal *Journal, state *HeaderState, req FilterRequest) error {
	if state == nil || strings.TrimSpace(state.InputPath) == "" {
		journal.Errorf(msgNoInputFile)
		return fmt.Errorf("%w: input file", ErrMissingInput)
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		journal.Errorf(msgNoOutputPath)
		return fmt.Errorf("%w: output path", ErrMissingInput)
	}
	if strings.TrimSpace(req.Column) == "" {
		journal.Errorf(msgNoFilterColumn)
		return fmt.Errorf("%w: filter column", ErrMissingInput)
	}
	if state.HeaderRow < 1 {
		journal.Errorf(msgHeaderUnknown)
		return ErrHeaderNotLocated
	}
	return nil
}

func (s *Service) project(state *HeaderState, req FilterRequest) (*Projection, error) {
	wb, err := s.opener.Open(state.InputPath)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	hm, err := ReadHeaderMap(wb, state.HeaderRow)
	if err != nil {
		return nil, err
	}

	return FilterRows(wb, FilterParams{
		DataStartRow: state.DataStartRow,
		Header:       hm,
		Columns:      s.columns,
		Normalizer:   s.norm,
		Column:       req.Column,
		Value:        req.Value,
	})
}

// recoverPanic turns a panic in an operation into ErrUnexpected.
func (s *Service) recoverPanic(journal *Journal, op, key string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	slog.Error("panic in operation", "op", op, "panic", r)
	*err = fmt.Errorf("%w: %v", ErrUnexpected, r)
	if journal != nil {
		journal.Errorf(key, *err)
	}
}
