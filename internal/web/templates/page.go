// Package templates renders the HTML page of the web UI. Components are
// written in .templ files; run `templ generate` after editing them.
package templates

import (
	"fmt"
	"net/url"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/sheetfilter/internal/core"
)

// PageData is everything the session page shows.
type PageData struct {
	SessionID  string
	InputPath  string
	OutputPath string
	Column     string
	Value      string
	State      *core.HeaderState // nil while no file is open
	Required   []string          // labels of the required output columns
	Entries    []core.Entry
}

func sessionURL(id, action string) templ.SafeURL {
	return templ.SafeURL("/s/" + url.PathEscape(id) + "/" + action)
}

func headerSummary(st *core.HeaderState) string {
	return fmt.Sprintf("%s: header at row %d, %d columns", st.InputPath, st.HeaderRow, len(st.Columns))
}

func levelClass(l core.Level) string {
	switch l {
	case core.LevelWarn:
		return "warn"
	case core.LevelError:
		return "error"
	default:
		return "info"
	}
}
