package engine

import (
	"maps"
	"sort"
)

// --- Field Names ---

const (
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldBirthDate   = "birthDate"
	FieldDepartment  = "department"
	FieldEmail       = "email"
	FieldPhoneNumber = "phoneNumber"
	FieldHireDate    = "hireDate"
	FieldBio         = "bio"
)

// EditableFields lists the fields the edit form exposes, in display order.
var EditableFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldBirthDate,
	FieldDepartment,
	FieldEmail,
	FieldPhoneNumber,
	FieldHireDate,
	FieldBio,
}

// Fields maps field names to string values. Dates use the YYYY-MM-DD form.
type Fields map[string]string

// Clone returns an independent copy.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	maps.Copy(out, f)
	return out
}

// Keys returns the field names in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Record is a single remote entity. ID never changes once assigned.
type Record struct {
	ID     string
	Fields Fields
}

// Get returns a field value, or "" when unset.
func (r Record) Get(name string) string {
	return r.Fields[name]
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	return Record{ID: r.ID, Fields: r.Fields.Clone()}
}

// DisplayName joins first and last name.
func (r Record) DisplayName() string {
	first, last := r.Get(FieldFirstName), r.Get(FieldLastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}
