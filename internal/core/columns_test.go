package core

import (
	"strings"
	"testing"
)

func TestDefaultColumns(t *testing.T) {
	cols := DefaultColumns()
	if err := cols.Validate(); err != nil {
		t.Fatalf("default columns invalid: %v", err)
	}

	want := []string{"ФИО", "Должность", "Отдел", "Дата найма", "Зарплата"}
	got := cols.Labels()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Labels() = %v, want %v", got, want)
	}

	expected := cols.Expected()
	for _, key := range []string{"фио", "должность", "отдел", "дата найма", "зарплата"} {
		if _, ok := expected[key]; !ok {
			t.Errorf("Expected() missing %q", key)
		}
	}
}

func TestColumnSet_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cols    ColumnSet
		wantErr string
	}{
		{"empty", ColumnSet{}, "empty"},
		{"missing role", ColumnSet{{Label: "A"}}, "role is required"},
		{"missing label", ColumnSet{{Role: "a", Label: "  "}}, "label is required"},
		{"duplicate role", ColumnSet{{Role: "a", Label: "A"}, {Role: "a", Label: "B"}}, "duplicate role"},
		{"duplicate label after folding", ColumnSet{{Role: "a", Label: "Name"}, {Role: "b", Label: " NAME "}}, "duplicate label"},
		{"two date columns", ColumnSet{{Role: "a", Label: "A", Date: true}, {Role: "b", Label: "B", Date: true}}, "at most one"},
		{"valid", ColumnSet{{Role: "a", Label: "A"}, {Role: "b", Label: "B", Date: true}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cols.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
