package core

import (
	"testing"
	"time"
)

func TestNormalizeDisplay(t *testing.T) {
	tests := []struct {
		name string
		in   Cell
		want string
	}{
		{"nil", nil, ""},
		{"empty string", "", ""},
		{"trims and folds", "  Бухгалтерия ", "бухгалтерия"},
		{"latin", "Sales Dept", "sales dept"},
		{"whole float", 50000.0, "50000"},
		{"fractional float", 50000.5, "50000.5"},
		{"bool", true, "true"},
		{"date", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "2024-03-01"},
		{"full fold", "STRASSE", "strasse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDisplay(tt.in); got != tt.want {
				t.Errorf("NormalizeDisplay(%#v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizer_Compare(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name string
		in   Cell
		want string
	}{
		{"nil", nil, ""},
		{"native date", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "2024-03-01"},
		{"native datetime drops time", time.Date(2024, 3, 1, 17, 45, 0, 0, time.UTC), "2024-03-01"},
		{"dotted text", "01.03.2024", "2024-03-01"},
		{"dotted text short parts", "1.3.2024", "2024-03-01"},
		{"iso text", "2024-03-01", "2024-03-01"},
		{"slashed text", "01/03/2024", "2024-03-01"},
		{"padded text", "  01.03.2024 ", "2024-03-01"},
		{"invalid day falls back", "31.02.2024", "31.02.2024"},
		{"two digit year falls back", "01.03.24", "01.03.24"},
		{"plain text", "Отдел Продаж", "отдел продаж"},
		{"number", 42.0, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Compare(tt.in); got != tt.want {
				t.Errorf("Compare(%#v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizer_CompareIdempotent(t *testing.T) {
	n := NewNormalizer()
	inputs := []Cell{
		"2024-03-01",
		"01.03.2024",
		"05/11/1999",
		time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC),
		"  Mixed Case ",
		"",
	}
	for _, in := range inputs {
		once := n.Compare(in)
		if twice := n.Compare(once); twice != once {
			t.Errorf("Compare(Compare(%#v)) = %q, want %q", in, twice, once)
		}
	}
}

func TestNormalizer_TextAndNativeDateAgree(t *testing.T) {
	n := NewNormalizer()
	for _, d := range []time.Time{
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC),
	} {
		text := d.Format("02.01.2006")
		if got, want := n.Compare(text), n.Compare(d); got != want {
			t.Errorf("Compare(%q) = %q, Compare(native) = %q", text, got, want)
		}
	}
}

func TestNormalizer_FormatPriority(t *testing.T) {
	// With month-first accepted before day-first, 01/03/2024 means January 3.
	mdy, err := NewNormalizerFromPatterns([]string{"MM/DD/YYYY", "DD/MM/YYYY"})
	if err != nil {
		t.Fatalf("NewNormalizerFromPatterns: %v", err)
	}
	if got := mdy.Compare("01/03/2024"); got != "2024-01-03" {
		t.Errorf("Compare = %q, want 2024-01-03", got)
	}

	dmy := NewNormalizer()
	if got := dmy.Compare("01/03/2024"); got != "2024-03-01" {
		t.Errorf("default Compare = %q, want 2024-03-01", got)
	}
}

func TestParseDateFormat(t *testing.T) {
	tests := []struct {
		pattern string
		wantErr bool
		excel   string
	}{
		{"DD.MM.YYYY", false, "dd.mm.yyyy"},
		{"YYYY-MM-DD", false, "yyyy-mm-dd"},
		{" DD/MM/YYYY ", false, "dd/mm/yyyy"},
		{"", true, ""},
		{"DD.MM", true, ""},
		{"DD.MM.YYYY.DD", true, ""},
		{"DD.MM.YY", true, ""},
		{"DD MMM YYYY", true, ""},
		{"DD.MM.YYYYг", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			df, err := ParseDateFormat(tt.pattern)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDateFormat(%q) = nil error, want error", tt.pattern)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateFormat(%q) error: %v", tt.pattern, err)
			}
			if got := df.ExcelNumberFormat(); got != tt.excel {
				t.Errorf("ExcelNumberFormat() = %q, want %q", got, tt.excel)
			}
		})
	}
}

func TestNormalizer_ParseDate(t *testing.T) {
	n := NewNormalizer()

	got, ok := n.ParseDate("15.06.2023")
	if !ok {
		t.Fatal("ParseDate(15.06.2023) failed")
	}
	if want := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("ParseDate = %v, want %v", got, want)
	}

	for _, s := range []string{"", "   ", "yesterday", "2023/06/15"} {
		if _, ok := n.ParseDate(s); ok {
			t.Errorf("ParseDate(%q) succeeded, want failure", s)
		}
	}
}
