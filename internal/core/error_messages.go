package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code for faster diagnosis.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File not found: the input path does not exist
//	          Action: Check the path and select the file again
//	FILE002 - Unreadable workbook: the file is not a valid .xlsx spreadsheet
//	          Action: Open and re-save the file as .xlsx
//	FILE003 - Permission denied while reading the input
//	          Action: Check that the file can be opened by the current user
//
// # Header Errors (HDR001-HDR099)
//
//	HDR001 - No headers: the detected header row is empty
//	         Action: Make sure the column names are within the first rows
//	HDR002 - Header not located: no file has been opened yet
//	         Action: Select the input file again
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Missing input: input file, output path or filter column is empty
//	         Action: Fill in every field and retry
//
// # Column Errors (COL001-COL099)
//
//	COL001 - Filter column not found in the header
//	         Action: Pick a column from the list loaded from the file
//	COL002 - None of the required output columns exist in the file
//	         Action: Check the column names or the configured column set
//	COL003 - Some required columns are missing (warning, the run continues)
//
// # Output Errors (OUT001-OUT099)
//
//	OUT001 - Write permission: the output file is open in another program
//	         Action: Close the file in Excel/LibreOffice and retry, or pick another path
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Too many runs: every run slot stayed busy for the whole wait time
//	         Action: Wait a moment and retry
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: an unexpected error occurred
//	         Action: Check the application log for details
//
// # Matching
//
// Errors are matched with errors.Is against the kinds in errors.go first.
// Errors that do not wrap a known kind (for example raw os errors from a
// collaborator) fall back to case-insensitive substring patterns; the first
// match wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

var (
	msgFileNotFound = UserMessage{
		Message: "File not found",
		Action:  "Check the path and select the file again",
		Code:    "FILE001",
	}
	msgUnreadable = UserMessage{
		Message: "The file is not a readable .xlsx spreadsheet",
		Action:  "Open and re-save the file as .xlsx",
		Code:    "FILE002",
	}
	msgReadPermission = UserMessage{
		Message: "The input file cannot be read",
		Action:  "Check that the file can be opened by the current user",
		Code:    "FILE003",
	}
	msgNoHeaders = UserMessage{
		Message: "Could not recognize the header row",
		Action:  "Make sure the column names are within the first rows of the sheet",
		Code:    "HDR001",
	}
	msgHeaderNotLocated = UserMessage{
		Message: "The header row is not determined",
		Action:  "Select the input file again",
		Code:    "HDR002",
	}
	msgMissingInput = UserMessage{
		Message: "A required field is empty",
		Action:  "Fill in the input file, output path and filter column",
		Code:    "REQ001",
	}
	msgFilterColumn = UserMessage{
		Message: "The filter column was not found in the file",
		Action:  "Pick a column from the list loaded from the file",
		Code:    "COL001",
	}
	msgNoRequired = UserMessage{
		Message: "None of the required columns were found",
		Action:  "Check the column names or the configured column set",
		Code:    "COL002",
	}
	msgWritePermission = UserMessage{
		Message: "Could not save: the output file is open in another program",
		Action:  "Close it in Excel/LibreOffice and retry, or choose another path",
		Code:    "OUT001",
	}
	msgTooManyRuns = UserMessage{
		Message: "The server is busy with other filter runs",
		Action:  "Wait a moment and retry",
		Code:    "RUN001",
	}
)

// MissingColumnsWarning is the message for a partial set of required columns.
// It is a warning: the run continues with the present columns.
var MissingColumnsWarning = UserMessage{
	Message: "Some required columns are missing",
	Action:  "The output contains only the columns that were found",
	Code:    "COL003",
}

// kindMessages maps error kinds to user messages. Checked in order with errors.Is.
var kindMessages = []struct {
	kind error
	msg  UserMessage
}{
	{ErrFileNotFound, msgFileNotFound},
	{ErrUnreadableWorkbook, msgUnreadable},
	{ErrNoHeaders, msgNoHeaders},
	{ErrHeaderNotLocated, msgHeaderNotLocated},
	{ErrMissingInput, msgMissingInput},
	{ErrFilterColumnNotFound, msgFilterColumn},
	{ErrNoRequiredColumns, msgNoRequired},
	{ErrWritePermission, msgWritePermission},
	{ErrTooManyRuns, msgTooManyRuns},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is the fallback for errors that carry no kind.
// More specific patterns come first.
var errorPatterns = []errorPattern{
	{pattern: "being used by another process", msg: msgWritePermission},
	{pattern: "no such file or directory", msg: msgFileNotFound},
	{pattern: "cannot find the file", msg: msgFileNotFound},
	{pattern: "permission denied", msg: msgReadPermission},
	{pattern: "access is denied", msg: msgReadPermission},
	{pattern: "zip: not a valid zip file", msg: msgUnreadable},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the application log for details",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
// Known kinds are matched with errors.Is, then fallback patterns are tried.
// Unmatched errors get the ERR000 message; nil gets the zero value.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, km := range kindMessages {
		if errors.Is(err, km.kind) {
			return km.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
