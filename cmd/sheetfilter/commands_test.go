package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetfilter/internal/core"
)

func writeStaff(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := map[string][]any{
		"A2": {"ФИО", "Должность", "Отдел", "Дата найма", "Зарплата"},
		"A3": {"Иванов И.И.", "Бухгалтер", "Бухгалтерия", "01.03.2024", 50000},
		"A4": {"Петров П.П.", "Инженер", "ИТ", "15.06.2020", 70000},
	}
	for cell, vals := range rows {
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &vals))
	}
	path := filepath.Join(t.TempDir(), "staff.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// execute runs the CLI with English status lines and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	env := map[string]string{"FILTER_LOCALE": "en", "LOG_LEVEL": "error"}
	cmd := newRootCmd(func(k string) string { return env[k] })

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err != nil {
		reportError(cmd.ErrOrStderr(), err)
	}
	return stdout.String(), stderr.String(), err
}

func TestColumns(t *testing.T) {
	in := writeStaff(t)

	out, _, err := execute(t, "columns", "--in", in)
	require.NoError(t, err)
	assert.Equal(t, "OK: loaded columns from row 2: ФИО, Должность, Отдел, Дата найма, Зарплата\n", out)
}

func TestColumns_JSON(t *testing.T) {
	in := writeStaff(t)

	out, _, err := execute(t, "columns", "--json", "--in", in)
	require.NoError(t, err)

	var state core.HeaderState
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.Equal(t, 2, state.HeaderRow)
	assert.Equal(t, 3, state.DataStartRow)
	assert.Len(t, state.Columns, 5)
}

func TestRun(t *testing.T) {
	in := writeStaff(t)
	dest := filepath.Join(filepath.Dir(in), "it")

	out, _, err := execute(t, "run", "--in", in, "--out", dest, "--column", "Отдел", "--value", "ит")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Saved 1 rows to file: "+dest+".xlsx", lines[1])

	_, err = os.Stat(dest + ".xlsx")
	assert.NoError(t, err)
}

func TestRun_ColumnsFileOverride(t *testing.T) {
	in := writeStaff(t)
	cols := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(cols, []byte("columns:\n  - role: full_name\n    label: ФИО\n  - role: phone\n    label: Телефон\n"), 0o644))

	out, _, err := execute(t, "run", "--columns-file", cols, "--json",
		"--in", in, "--out", filepath.Join(t.TempDir(), "r.xlsx"), "--column", "Отдел", "--value", "ИТ")
	require.NoError(t, err)

	var res core.FilterResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"ФИО"}, res.Header)
	assert.Equal(t, []string{"Телефон"}, res.Missing)
	assert.Equal(t, 1, res.Matched)
}

func TestRun_Failures(t *testing.T) {
	in := writeStaff(t)

	t.Run("missing input", func(t *testing.T) {
		out, stderr, err := execute(t, "run", "--in", filepath.Join(t.TempDir(), "nope.xlsx"),
			"--out", "x.xlsx", "--column", "Отдел")
		assert.ErrorIs(t, err, core.ErrFileNotFound)
		assert.Equal(t, "File not found. Check the path.\n", out)
		assert.Equal(t, "sheetfilter: File not found (Code: FILE001). Check the path and select the file again\n", stderr)
	})

	t.Run("unknown column", func(t *testing.T) {
		out, _, err := execute(t, "run", "--in", in, "--out", filepath.Join(t.TempDir(), "x"), "--column", "Город")
		assert.ErrorIs(t, err, core.ErrFilterColumnNotFound)
		assert.Contains(t, out, "Column not found in file: Город")
	})

	t.Run("bad locale", func(t *testing.T) {
		_, stderr, err := execute(t, "columns", "--locale", "de", "--in", in)
		assert.Error(t, err)
		assert.Contains(t, stderr, "unsupported locale")
	})

	t.Run("required flag", func(t *testing.T) {
		_, _, err := execute(t, "run", "--in", in)
		assert.Error(t, err)
	})
}
