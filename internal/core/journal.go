package core

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Level is the severity of a journal entry.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Entry is a single status line shown to the user.
type Entry struct {
	Time  time.Time `json:"time"`
	Level Level     `json:"level"`
	Text  string    `json:"text"`
}

// Journal is the append-only list of status lines of one user session.
// Lines are localized when appended. The core never clears it.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
	printer *message.Printer
	now     func() time.Time
}

// NewJournal creates an empty journal that renders lines in lang.
func NewJournal(lang language.Tag) *Journal {
	return &Journal{
		printer: message.NewPrinter(lang),
		now:     time.Now,
	}
}

// Append formats key with args in the journal language and records it.
func (j *Journal) Append(level Level, key string, args ...any) Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	e := Entry{
		Time:  j.now(),
		Level: level,
		Text:  j.printer.Sprintf(key, plainArgs(args)...),
	}
	j.entries = append(j.entries, e)
	return e
}

// plainArgs renders integers as bare digits. The printer would otherwise
// group them by locale ("1,234", "1 234").
func plainArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case int:
			out[i] = strconv.Itoa(v)
		case int64:
			out[i] = strconv.FormatInt(v, 10)
		default:
			out[i] = a
		}
	}
	return out
}

// Infof appends an info line.
func (j *Journal) Infof(key string, args ...any) Entry { return j.Append(LevelInfo, key, args...) }

// Warnf appends a warning line.
func (j *Journal) Warnf(key string, args ...any) Entry { return j.Append(LevelWarn, key, args...) }

// Errorf appends an error line.
func (j *Journal) Errorf(key string, args ...any) Entry { return j.Append(LevelError, key, args...) }

// Entries returns a copy of all entries in order.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Entry(nil), j.entries...)
}

// Since returns entries appended after the first n, for incremental polling.
func (j *Journal) Since(n int) []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	if n < 0 {
		n = 0
	}
	if n >= len(j.entries) {
		return nil
	}
	return append([]Entry(nil), j.entries[n:]...)
}

// Lines returns the text of all entries.
func (j *Journal) Lines() []string {
	entries := j.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}

// Len returns the number of entries.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// DefaultLocale is the journal language when none is configured.
var DefaultLocale = language.Russian

// ParseLocale resolves a configured locale. Only English and Russian have
// message catalogs.
func ParseLocale(s string) (language.Tag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultLocale, nil
	case "ru", "ru-ru", "russian":
		return language.Russian, nil
	case "en", "en-us", "en-gb", "english":
		return language.English, nil
	default:
		return language.Und, fmt.Errorf("unsupported locale %q (supported: ru, en)", s)
	}
}
