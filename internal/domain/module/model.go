package module

import (
	"errors"
	"strings"
	"time"
)

// MaxNameLength bounds the module name.
const MaxNameLength = 200

// Domain errors
var (
	ErrEmptyName     = errors.New("module name is required")
	ErrNameTooLong   = errors.New("module name cannot exceed 200 characters")
	ErrEmptyCourseID = errors.New("course is required")
)

// Module belongs to exactly one course and is the unit of access control.
type Module struct {
	ID        string
	CourseID  string
	Name      string
	IsPaid    bool
	CreatedAt time.Time
}

// Normalize trims user-entered fields in place.
func (m *Module) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.CourseID = strings.TrimSpace(m.CourseID)
}

// Validate checks if the Module has valid data.
// PRE: Module struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Module) Validate() error {
	if err := m.ValidateFields(); err != nil {
		return err
	}
	if strings.TrimSpace(m.CourseID) == "" {
		return ErrEmptyCourseID
	}
	return nil
}

// ValidateFields checks the admin-editable fields only; the parent course is not inspected.
func (m *Module) ValidateFields() error {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// ParsePaidFlag interprets an HTML checkbox value.
// Only the literal "on" sent by a checked box counts as paid.
func ParsePaidFlag(v string) bool {
	return v == "on"
}
