package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "wrapped file not found",
			err:         fmt.Errorf("open input: %w: /tmp/x.xlsx", ErrFileNotFound),
			wantCode:    "FILE001",
			wantMessage: "File not found",
		},
		{
			name:        "unreadable workbook",
			err:         fmt.Errorf("%w: bad zip", ErrUnreadableWorkbook),
			wantCode:    "FILE002",
			wantMessage: "The file is not a readable .xlsx spreadsheet",
		},
		{
			name:        "no headers",
			err:         fmt.Errorf("%w: row 1", ErrNoHeaders),
			wantCode:    "HDR001",
			wantMessage: "Could not recognize the header row",
		},
		{
			name:        "header not located",
			err:         ErrHeaderNotLocated,
			wantCode:    "HDR002",
			wantMessage: "The header row is not determined",
		},
		{
			name:        "missing input",
			err:         fmt.Errorf("%w: output path", ErrMissingInput),
			wantCode:    "REQ001",
			wantMessage: "A required field is empty",
		},
		{
			name:        "filter column not found",
			err:         fmt.Errorf("%w: %q", ErrFilterColumnNotFound, "Город"),
			wantCode:    "COL001",
			wantMessage: "The filter column was not found in the file",
		},
		{
			name:        "no required columns",
			err:         ErrNoRequiredColumns,
			wantCode:    "COL002",
			wantMessage: "None of the required columns were found",
		},
		{
			name:        "write permission",
			err:         fmt.Errorf("save: %w", ErrWritePermission),
			wantCode:    "OUT001",
			wantMessage: "Could not save: the output file is open in another program",
		},
		{
			name:        "run limiter saturated",
			err:         ErrTooManyRuns,
			wantCode:    "RUN001",
			wantMessage: "The server is busy with other filter runs",
		},
		{
			name:        "raw sharing violation falls back to pattern",
			err:         errors.New("open out.xlsx: The process cannot access the file because it is being used by another process."),
			wantCode:    "OUT001",
			wantMessage: "Could not save: the output file is open in another program",
		},
		{
			name:        "raw missing file falls back to pattern",
			err:         errors.New("open /tmp/in.xlsx: no such file or directory"),
			wantCode:    "FILE001",
			wantMessage: "File not found",
		},
		{
			name:        "raw permission denied",
			err:         errors.New("open /root/in.xlsx: PERMISSION DENIED"),
			wantCode:    "FILE003",
			wantMessage: "The input file cannot be read",
		},
		{
			name:        "unexpected error returns default",
			err:         fmt.Errorf("%w: index out of range", ErrUnexpected),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(fmt.Errorf("write: %w", ErrWritePermission))

	expected := "Could not save: the output file is open in another program (Code: OUT001). Close it in Excel/LibreOffice and retry, or choose another path"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known kind is user facing", ErrNoHeaders, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
