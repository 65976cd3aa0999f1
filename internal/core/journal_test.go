package core

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestJournal_AppendOnly(t *testing.T) {
	j := NewJournal(language.English)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	j.Infof(msgColumnsLoaded, 3, "ФИО, Отдел")
	j.Warnf(msgMissingColumns, "Зарплата")
	j.Errorf(msgFileMissing)

	entries := j.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{Time: fixed, Level: LevelInfo, Text: "OK: loaded columns from row 3: ФИО, Отдел"}, entries[0])
	assert.Equal(t, LevelWarn, entries[1].Level)
	assert.Equal(t, "Missing columns: Зарплата", entries[1].Text)
	assert.Equal(t, LevelError, entries[2].Level)

	entries[0].Text = "changed"
	assert.Equal(t, "OK: loaded columns from row 3: ФИО, Отдел", j.Lines()[0], "Entries returns a copy")

	assert.Len(t, j.Since(1), 2)
	assert.Nil(t, j.Since(3))
	assert.Len(t, j.Since(-1), 3)
}

func TestJournal_Russian(t *testing.T) {
	j := NewJournal(language.Russian)
	j.Infof(msgRowsSaved, 2, "out.xlsx")
	j.Errorf(msgFileLocked)

	assert.Equal(t, []string{
		"Сохранено 2 строк в файл: out.xlsx",
		"Не удалось сохранить: файл открыт в Excel/LibreOffice. Закройте его и повторите.",
	}, j.Lines())
}

func TestJournal_CountsWithoutGrouping(t *testing.T) {
	tests := []struct {
		lang language.Tag
		want string
	}{
		{language.English, "Saved 1234567 rows to file: big.xlsx"},
		{language.Russian, "Сохранено 1234567 строк в файл: big.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.lang.String(), func(t *testing.T) {
			j := NewJournal(tt.lang)
			j.Infof(msgRowsSaved, 1234567, "big.xlsx")
			j.Infof(msgColumnsLoaded, 10000, "A")

			lines := j.Lines()
			assert.Equal(t, tt.want, lines[0])
			assert.Contains(t, lines[1], " 10000: A")
		})
	}
}

func TestJournal_ConcurrentAppend(t *testing.T) {
	j := NewJournal(language.English)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.Infof(msgNoHeaderRow)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, j.Len())
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in      string
		want    language.Tag
		wantErr bool
	}{
		{"", language.Russian, false},
		{"ru", language.Russian, false},
		{" EN ", language.English, false},
		{"en-US", language.English, false},
		{"de", language.Und, true},
	}
	for _, tt := range tests {
		got, err := ParseLocale(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseLocale(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseLocale(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
