package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when no employee has the requested id.
var ErrNotFound = errors.New("employee not found")

// Employee is one directory row: core columns plus a profile blob.
type Employee struct {
	ID        int64
	FirstName string
	LastName  string
	BirthDate string
	Profile   Profile
}

// Profile holds the extended fields stored as a JSON blob.
type Profile struct {
	Department  string `json:"department,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	HireDate    string `json:"hireDate,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

// MarshalJSON flattens the profile next to the core fields.
func (e Employee) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        int64  `json:"id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		BirthDate string `json:"birthDate"`
		Profile
	}{e.ID, e.FirstName, e.LastName, e.BirthDate, e.Profile})
}

// Update is a partial update of an employee. Nil means unchanged. Core
// columns and profile keys are both writable; only the core is echoed back.
type Update struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	BirthDate *string `json:"birthDate"`

	Department  *string `json:"department"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
	HireDate    *string `json:"hireDate"`
	Bio         *string `json:"bio"`
}

// Empty reports whether the update touches nothing.
func (u Update) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.BirthDate == nil && !u.touchesProfile()
}

func (u Update) touchesProfile() bool {
	return u.Department != nil || u.Email != nil || u.PhoneNumber != nil || u.HireDate != nil || u.Bio != nil
}

// applyProfile overwrites the profile keys that u sets.
func (u Update) applyProfile(p *Profile) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Department, u.Department)
	set(&p.Email, u.Email)
	set(&p.PhoneNumber, u.PhoneNumber)
	set(&p.HireDate, u.HireDate)
	set(&p.Bio, u.Bio)
}

// Validate rejects values the employee table cannot hold.
func (u Update) Validate() error {
	if u.FirstName != nil && strings.TrimSpace(*u.FirstName) == "" {
		return fmt.Errorf("firstName must not be empty")
	}
	if err := validDate("birthDate", u.BirthDate); err != nil {
		return err
	}
	return validDate("hireDate", u.HireDate)
}

func validDate(name string, v *string) error {
	if v == nil || *v == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, *v); err != nil {
		return fmt.Errorf("%s must be YYYY-MM-DD, got %q", name, *v)
	}
	return nil
}

// coreView is what the update endpoint echoes back.
type coreView struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	BirthDate string `json:"birthDate"`
}

func (e Employee) core() coreView {
	return coreView{ID: e.ID, FirstName: e.FirstName, LastName: e.LastName, BirthDate: e.BirthDate}
}
