package core

import "errors"

// Error kinds returned by core operations. Callers test them with errors.Is;
// the returned errors wrap them with context such as the path or column name.
var (
	// ErrFileNotFound means the input path does not resolve to a file.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnreadableWorkbook means the input exists but is not a readable spreadsheet.
	ErrUnreadableWorkbook = errors.New("unreadable workbook")

	// ErrNoHeaders means the located header row has no non-empty cell.
	ErrNoHeaders = errors.New("no headers found")

	// ErrHeaderNotLocated means a filter was requested before a file was opened.
	ErrHeaderNotLocated = errors.New("header row not located")

	// ErrMissingInput means a required user input (path, column) is empty.
	ErrMissingInput = errors.New("missing input")

	// ErrFilterColumnNotFound means the selected filter column is not in the header.
	ErrFilterColumnNotFound = errors.New("filter column not found")

	// ErrNoRequiredColumns means none of the required output columns is in the header.
	ErrNoRequiredColumns = errors.New("no required columns found")

	// ErrWritePermission means the destination is locked or not writable.
	ErrWritePermission = errors.New("write permission denied")

	// ErrUnexpected wraps faults that no other kind describes, including
	// recovered panics.
	ErrUnexpected = errors.New("unexpected error")
)
