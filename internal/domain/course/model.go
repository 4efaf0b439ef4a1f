package course

import (
	"errors"
	"strings"
	"time"
)

// MaxNameLength bounds the course name.
const MaxNameLength = 200

// Domain errors
var (
	ErrEmptyName   = errors.New("course name is required")
	ErrNameTooLong = errors.New("course name cannot exceed 200 characters")
)

// Course is the top-level grouping of modules.
type Course struct {
	ID           string
	Name         string
	PreviewImage string // empty when no preview image is set
	CreatedAt    time.Time
}

// Normalize trims user-entered fields in place.
// POST: Name and PreviewImage carry no surrounding whitespace
func (c *Course) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.PreviewImage = strings.TrimSpace(c.PreviewImage)
}

// Validate checks if the Course has valid data.
// PRE: Course struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Course) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// HasPreviewImage reports whether a preview image URL is set.
// INVARIANT: Course fields are not mutated
func (c Course) HasPreviewImage() bool {
	return c.PreviewImage != ""
}
