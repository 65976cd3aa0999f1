// Package core finds the header row of a loosely formatted spreadsheet and
// filters its data rows into a fixed set of output columns.
//
// The package knows nothing about files or UIs. Spreadsheets come in through
// the [Sheet] interface and leave through a [Writer]; the xlsx package
// provides both for .xlsx workbooks.
//
// # Flow
//
//  1. [Service.OpenFile] scans the first rows of the sheet with
//     [LocateHeader] and returns a [HeaderState] listing the column names.
//  2. The user picks a column from that list and types a value.
//  3. [Service.RunFilter] rebuilds the [HeaderMap], keeps the rows whose
//     column matches the value ([FilterRows]) and hands the [Projection] to
//     the Writer.
//
// Both steps append localized lines to the session [Journal].
//
// # Matching
//
// Header names and cell values are compared after [NormalizeDisplay]: trimmed
// and Unicode case-folded. Dates compare as YYYY-MM-DD whether the cell holds
// a real date or text in one of the accepted formats, so "05.03.2021",
// "2021-03-05" and a native date cell all match each other.
//
// # Errors
//
// Operations return errors wrapping the kinds in errors.go. [MapError] turns
// any of them into a coded [UserMessage]:
//
//   - FILE001-FILE003: input file errors
//   - HDR001-HDR002: header detection
//   - REQ001: missing user input
//   - COL001-COL003: filter and output columns
//   - OUT001: output not writable
//   - RUN001: every run slot busy ([RunLimiter])
package core
