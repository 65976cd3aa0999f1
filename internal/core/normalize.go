package core

// normalize.go turns raw cell values into canonical strings for comparison.
//
// Two paths exist:
//   - NormalizeDisplay: trimmed, case-folded text (used for header names)
//   - Normalizer.Compare: like NormalizeDisplay, except that dates, native or
//     typed as text in one of the accepted formats, become YYYY-MM-DD
//
// The second path lets "01.03.2024" typed by a user match a cell holding the
// native date 2024-03-01 as well as the text "2024-03-01".

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
)

// isoDate is the canonical form of a calendar date.
const isoDate = "2006-01-02"

// DefaultDatePatterns are the accepted text date formats, in priority order.
var DefaultDatePatterns = []string{"DD.MM.YYYY", "YYYY-MM-DD", "DD/MM/YYYY"}

// DefaultOutputDatePattern is the display format of the date column in output files.
const DefaultOutputDatePattern = "DD.MM.YYYY"

// DateFormat is an accepted text date format such as "DD.MM.YYYY".
type DateFormat struct {
	Pattern string // as configured, e.g. "DD.MM.YYYY"
	layout  string // Go reference layout, e.g. "2.1.2006"
}

// ParseDateFormat compiles a pattern built from DD, MM and YYYY tokens joined
// by separators. Day and month accept one or two digits, the year four.
func ParseDateFormat(pattern string) (DateFormat, error) {
	p := strings.TrimSpace(pattern)
	if p == "" {
		return DateFormat{}, fmt.Errorf("empty date format")
	}

	var b strings.Builder
	seen := map[string]int{}
	for i := 0; i < len(p); {
		switch {
		case strings.HasPrefix(p[i:], "YYYY"):
			b.WriteString("2006")
			seen["YYYY"]++
			i += 4
		case strings.HasPrefix(p[i:], "DD"):
			b.WriteString("2")
			seen["DD"]++
			i += 2
		case strings.HasPrefix(p[i:], "MM"):
			b.WriteString("1")
			seen["MM"]++
			i += 2
		default:
			r := rune(p[i])
			if r > unicode.MaxASCII || unicode.IsLetter(r) || unicode.IsDigit(r) {
				return DateFormat{}, fmt.Errorf("invalid date format %q: unexpected %q", pattern, p[i:i+1])
			}
			b.WriteByte(p[i])
			i++
		}
	}

	for _, tok := range []string{"DD", "MM", "YYYY"} {
		if seen[tok] != 1 {
			return DateFormat{}, fmt.Errorf("invalid date format %q: %s must appear exactly once", pattern, tok)
		}
	}

	return DateFormat{Pattern: p, layout: b.String()}, nil
}

// ExcelNumberFormat returns the spreadsheet number format code for the pattern.
func (d DateFormat) ExcelNumberFormat() string {
	return strings.ToLower(d.Pattern)
}

// Normalizer normalizes cell values for equality comparison.
// It is safe for concurrent use.
type Normalizer struct {
	formats []DateFormat
}

// NewNormalizer creates a Normalizer that accepts the given date formats in
// order. With no formats, DefaultDatePatterns are used.
func NewNormalizer(formats ...DateFormat) *Normalizer {
	if len(formats) == 0 {
		formats = defaultDateFormats()
	}
	return &Normalizer{formats: formats}
}

// NewNormalizerFromPatterns compiles patterns and builds a Normalizer.
func NewNormalizerFromPatterns(patterns []string) (*Normalizer, error) {
	formats := make([]DateFormat, 0, len(patterns))
	for _, p := range patterns {
		df, err := ParseDateFormat(p)
		if err != nil {
			return nil, err
		}
		formats = append(formats, df)
	}
	return NewNormalizer(formats...), nil
}

func defaultDateFormats() []DateFormat {
	out := make([]DateFormat, 0, len(DefaultDatePatterns))
	for _, p := range DefaultDatePatterns {
		df, err := ParseDateFormat(p)
		if err != nil {
			panic(err)
		}
		out = append(out, df)
	}
	return out
}

// ParseDate parses trimmed text with the first matching accepted format.
func (n *Normalizer) ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, f := range n.formats {
		if t, err := time.Parse(f.layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Compare returns the comparison form of v: ISO calendar date for dates and
// date-like text, NormalizeDisplay otherwise.
func (n *Normalizer) Compare(v Cell) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format(isoDate)
	case string:
		if t, ok := n.ParseDate(x); ok {
			return t.Format(isoDate)
		}
	}
	return NormalizeDisplay(v)
}

// NormalizeDisplay returns v as trimmed, case-folded text. nil becomes "".
func NormalizeDisplay(v Cell) string {
	if v == nil {
		return ""
	}
	return cases.Fold().String(strings.TrimSpace(CellText(v)))
}

// CellText returns the plain string form of a cell, without normalization.
func CellText(v Cell) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(isoDate)
		}
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}

// isEmptyCell reports whether a cell counts as empty for header detection.
// Whitespace-only text is not empty.
func isEmptyCell(v Cell) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
