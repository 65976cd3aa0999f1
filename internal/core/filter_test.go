package core

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hired = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// staffSheet has a banner, a blank row and the header at row 3.
func staffSheet() Rows {
	return Rows{
		{"Список сотрудников"},
		{},
		{"ФИО", "Должность", "Отдел", "Дата найма", "Зарплата", "Примечание"},
		{"Иванов И.И.", "Бухгалтер", "Бухгалтерия", hired, 50000.0, "x"},
		{"Петров П.П.", "Инженер", "ИТ", "15.06.2020", 70000.0},
		{"Сидорова А.А.", "Главбух", " бухгалтерия ", "01.03.2024", 90000.0},
		{"Козлов К.К.", "Курьер"},
		{"Орлова О.О.", "Кассир", "БУХГАЛТЕРИЯ", "2024-03-01", 45000.5},
	}
}

func filterParams(t *testing.T, sheet Sheet, headerRow int, column, value string) FilterParams {
	t.Helper()
	hm, err := ReadHeaderMap(sheet, headerRow)
	require.NoError(t, err)
	return FilterParams{
		DataStartRow: headerRow + 1,
		Header:       hm,
		Columns:      DefaultColumns(),
		Normalizer:   NewNormalizer(),
		Column:       column,
		Value:        value,
	}
}

func TestFilterRows_DepartmentMatch(t *testing.T) {
	sheet := staffSheet()
	proj, err := FilterRows(sheet, filterParams(t, sheet, 3, "Отдел", "Бухгалтерия"))
	require.NoError(t, err)

	want := []Row{
		{"Иванов И.И.", "Бухгалтер", "Бухгалтерия", hired, 50000.0},
		{"Сидорова А.А.", "Главбух", " бухгалтерия ", hired, 90000.0},
		{"Орлова О.О.", "Кассир", "БУХГАЛТЕРИЯ", hired, 45000.5},
	}
	if diff := cmp.Diff(want, proj.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"ФИО", "Должность", "Отдел", "Дата найма", "Зарплата"}, proj.Header)
	assert.Empty(t, proj.Missing)
	assert.Equal(t, 3, proj.DateColumn)
	assert.Equal(t, 5, proj.Scanned)
}

func TestFilterRows_DateMatchesNativeAndText(t *testing.T) {
	sheet := staffSheet()
	proj, err := FilterRows(sheet, filterParams(t, sheet, 3, "дата найма", "01.03.2024"))
	require.NoError(t, err)

	var names []string
	for _, r := range proj.Rows {
		names = append(names, r[0].(string))
	}
	assert.Equal(t, []string{"Иванов И.И.", "Сидорова А.А.", "Орлова О.О."}, names)
	for _, r := range proj.Rows {
		d, ok := r[3].(time.Time)
		require.True(t, ok, "text dates become dates in the date column")
		assert.True(t, d.Equal(hired), "got %v", d)
	}
}

func TestFilterRows_FilterColumnNotFound(t *testing.T) {
	sheet := staffSheet()
	_, err := FilterRows(sheet, filterParams(t, sheet, 3, "Город", "Москва"))
	require.ErrorIs(t, err, ErrFilterColumnNotFound)
	assert.Contains(t, err.Error(), "Город")
}

func TestFilterRows_NoRequiredColumns(t *testing.T) {
	sheet := Rows{
		{"Name", "City"},
		{"Ann", "Paris"},
	}
	_, err := FilterRows(sheet, filterParams(t, sheet, 1, "City", "Paris"))
	require.ErrorIs(t, err, ErrNoRequiredColumns)
}

func TestFilterRows_PartialColumns(t *testing.T) {
	sheet := Rows{
		{"Зарплата", "ФИО", "Город", "Отдел"},
		{100.0, "Ann", "Paris", "ИТ"},
		{200.0, "Bob", "Rome", "Склад"},
	}
	proj, err := FilterRows(sheet, filterParams(t, sheet, 1, "Город", "rome"))
	require.NoError(t, err)

	assert.Equal(t, []string{"ФИО", "Отдел", "Зарплата"}, proj.Header, "output follows column set order")
	assert.Equal(t, []string{"Должность", "Дата найма"}, proj.Missing)
	assert.Equal(t, -1, proj.DateColumn)
	if diff := cmp.Diff([]Row{{"Bob", "Склад", 200.0}}, proj.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterRows_NoMatches(t *testing.T) {
	sheet := staffSheet()
	proj, err := FilterRows(sheet, filterParams(t, sheet, 3, "Отдел", "Маркетинг"))
	require.NoError(t, err)
	assert.Empty(t, proj.Rows)
	assert.Len(t, proj.Header, 5)
	assert.Equal(t, 5, proj.Scanned)
}

func TestFilterRows_ShortRowsReadAsEmpty(t *testing.T) {
	sheet := staffSheet()
	proj, err := FilterRows(sheet, filterParams(t, sheet, 3, "Отдел", ""))
	require.NoError(t, err)

	require.Len(t, proj.Rows, 1)
	assert.Equal(t, Row{"Козлов К.К.", "Курьер", nil, nil, nil}, proj.Rows[0])
}

func TestFilterRows_UnparsedDateTextPassesThrough(t *testing.T) {
	sheet := Rows{
		{"ФИО", "Дата найма"},
		{"Ann", "в прошлом году"},
	}
	proj, err := FilterRows(sheet, filterParams(t, sheet, 1, "ФИО", "ann"))
	require.NoError(t, err)
	require.Len(t, proj.Rows, 1)
	assert.Equal(t, "в прошлом году", proj.Rows[0][1])
}

func TestFilterRows_PreservesOrderAndWidth(t *testing.T) {
	sheet := Rows{{"ФИО", "Отдел", "Зарплата"}}
	var want []string
	for i := 0; i < 50; i++ {
		dept := "A"
		if i%3 == 0 {
			dept = "B"
		}
		name := string(rune('a'+i%26)) + string(rune('0'+i/26))
		sheet = append(sheet, Row{name, dept, float64(i)})
		if dept == "B" {
			want = append(want, name)
		}
	}

	proj, err := FilterRows(sheet, filterParams(t, sheet, 1, "Отдел", "b"))
	require.NoError(t, err)

	var got []string
	for _, r := range proj.Rows {
		require.Len(t, r, len(proj.Header))
		got = append(got, r[0].(string))
	}
	assert.Equal(t, want, got)
}

func TestFilterRows_DuplicateFilterColumnUsesFirst(t *testing.T) {
	sheet := Rows{
		{"ФИО", "Отдел", "отдел"},
		{"Ann", "ИТ", "Склад"},
		{"Bob", "Склад", "ИТ"},
	}
	proj, err := FilterRows(sheet, filterParams(t, sheet, 1, "ОТДЕЛ", "ИТ"))
	require.NoError(t, err)
	require.Len(t, proj.Rows, 1)
	assert.Equal(t, "Ann", proj.Rows[0][0])
}
