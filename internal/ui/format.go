package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gravitrone/roster/internal/engine"
	"github.com/gravitrone/roster/internal/ui/components"
)

var fieldLabels = map[string]string{
	engine.FieldFirstName:   "First name",
	engine.FieldLastName:    "Last name",
	engine.FieldBirthDate:   "Birth date",
	engine.FieldDepartment:  "Department",
	engine.FieldEmail:       "Email",
	engine.FieldPhoneNumber: "Phone",
	engine.FieldHireDate:    "Hire date",
	engine.FieldBio:         "Bio",
}

func fieldLabel(name string) string {
	if label, ok := fieldLabels[name]; ok {
		return label
	}
	return name
}

// detailFieldOrder lists editable fields first, then anything else the server sent.
func detailFieldOrder(f engine.Fields) []string {
	order := slices.Clone(engine.EditableFields)
	for _, k := range f.Keys() {
		if !slices.Contains(order, k) {
			order = append(order, k)
		}
	}
	return order
}

func formatRow(r engine.Record, width int) string {
	line := fmt.Sprintf("#%-5s %s", r.ID, r.DisplayName())
	if dept := r.Get(engine.FieldDepartment); dept != "" {
		line += " · " + dept
	}
	return components.ClampTextWidth(line, width)
}

func detailRows(r engine.Record) []components.TableRow {
	rows := []components.TableRow{{Label: "ID", Value: r.ID}}
	for _, name := range detailFieldOrder(r.Fields) {
		value := r.Get(name)
		if strings.TrimSpace(value) == "" {
			value = "N/A"
		}
		rows = append(rows, components.TableRow{Label: fieldLabel(name), Value: value})
	}
	return rows
}
