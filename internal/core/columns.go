package core

import (
	"fmt"
	"strings"
)

// Role identifies the business meaning of an output column, independent of
// the header text a particular workbook uses for it.
type Role string

const (
	RoleFullName   Role = "full_name"
	RoleTitle      Role = "title"
	RoleDepartment Role = "department"
	RoleHireDate   Role = "hire_date"
	RoleSalary     Role = "salary"
)

// ColumnDef maps a role to the header label expected in source files.
type ColumnDef struct {
	Role  Role   `yaml:"role" json:"role"`
	Label string `yaml:"label" json:"label"`
	Date  bool   `yaml:"date" json:"date"` // text dates are parsed and formatted on output
}

// ColumnSet is the ordered list of required output columns.
// Order is significant: output columns follow it.
type ColumnSet []ColumnDef

// DefaultColumns returns the reference deployment's required columns.
func DefaultColumns() ColumnSet {
	return ColumnSet{
		{Role: RoleFullName, Label: "ФИО"},
		{Role: RoleTitle, Label: "Должность"},
		{Role: RoleDepartment, Label: "Отдел"},
		{Role: RoleHireDate, Label: "Дата найма", Date: true},
		{Role: RoleSalary, Label: "Зарплата"},
	}
}

// Labels returns the configured labels in order.
func (cs ColumnSet) Labels() []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Label
	}
	return out
}

// Expected returns the set of normalized labels, used to score header rows.
func (cs ColumnSet) Expected() map[string]struct{} {
	out := make(map[string]struct{}, len(cs))
	for _, c := range cs {
		out[NormalizeDisplay(c.Label)] = struct{}{}
	}
	return out
}

// Validate checks that the set is usable: at least one column, non-empty
// labels, and no two columns sharing a role or a normalized label.
func (cs ColumnSet) Validate() error {
	if len(cs) == 0 {
		return fmt.Errorf("column set is empty")
	}

	var errs []string
	roles := make(map[Role]bool, len(cs))
	labels := make(map[string]bool, len(cs))
	dates := 0
	for i, c := range cs {
		if c.Role == "" {
			errs = append(errs, fmt.Sprintf("column %d: role is required", i+1))
		} else if roles[c.Role] {
			errs = append(errs, fmt.Sprintf("column %d: duplicate role %q", i+1, c.Role))
		}
		roles[c.Role] = true

		key := NormalizeDisplay(c.Label)
		if key == "" {
			errs = append(errs, fmt.Sprintf("column %d: label is required", i+1))
		} else if labels[key] {
			errs = append(errs, fmt.Sprintf("column %d: duplicate label %q", i+1, c.Label))
		}
		labels[key] = true

		if c.Date {
			dates++
		}
	}
	if dates > 1 {
		errs = append(errs, "at most one column can be marked as date")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid column set: %s", strings.Join(errs, "; "))
	}
	return nil
}
