package lesson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// MaxNameLength bounds the lesson name.
const MaxNameLength = 200

// Domain errors
var (
	ErrEmptyName          = errors.New("lesson name is required")
	ErrNameTooLong        = errors.New("lesson name cannot exceed 200 characters")
	ErrEmptyModuleID      = errors.New("module is required")
	ErrInvalidAttachments = errors.New("invalid attachments")
	ErrInvalidQA          = errors.New("invalid questions and answers")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Attachment is a downloadable file linked from a lesson.
type Attachment struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required"`
}

// QAItem is a single question/answer pair shown under a lesson.
type QAItem struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// Lesson is the leaf content unit of a module.
type Lesson struct {
	ID          string
	ModuleID    string
	Name        string
	Description string // Markdown; empty when unset
	VideoURL    string // empty when unset
	Attachments []Attachment
	QA          []QAItem
	CreatedAt   time.Time
}

// Normalize trims user-entered fields in place.
func (l *Lesson) Normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.ModuleID = strings.TrimSpace(l.ModuleID)
	l.VideoURL = strings.TrimSpace(l.VideoURL)
	if strings.TrimSpace(l.Description) == "" {
		l.Description = ""
	}
}

// Validate checks if the Lesson has valid data.
// PRE: Lesson struct is populated
// POST: Returns nil if valid, error otherwise
func (l *Lesson) Validate() error {
	if err := l.ValidateFields(); err != nil {
		return err
	}
	if strings.TrimSpace(l.ModuleID) == "" {
		return ErrEmptyModuleID
	}
	return nil
}

// ValidateFields checks the admin-editable fields only; the parent module is not inspected.
func (l *Lesson) ValidateFields() error {
	name := strings.TrimSpace(l.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	for i, a := range l.Attachments {
		if err := validate.Struct(a); err != nil {
			return fmt.Errorf("%w: item %d needs a name and a url", ErrInvalidAttachments, i+1)
		}
	}
	for i, q := range l.QA {
		if err := validate.Struct(q); err != nil {
			return fmt.Errorf("%w: item %d needs a question and an answer", ErrInvalidQA, i+1)
		}
	}
	return nil
}

// ParseAttachments decodes the attachments form field.
// PRE: raw is the submitted field value, possibly blank
// POST: Returns nil for blank input; otherwise every element has a non-empty name and url
func ParseAttachments(raw string) ([]Attachment, error) {
	var items []Attachment
	if err := decodeArray(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAttachments, err)
	}
	for i, a := range items {
		if err := validate.Struct(a); err != nil {
			return nil, fmt.Errorf("%w: item %d needs a name and a url", ErrInvalidAttachments, i+1)
		}
	}
	return items, nil
}

// ParseQA decodes the questions-and-answers form field.
// PRE: raw is the submitted field value, possibly blank
// POST: Returns nil for blank input; otherwise every element has a non-empty question and answer
func ParseQA(raw string) ([]QAItem, error) {
	var items []QAItem
	if err := decodeArray(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQA, err)
	}
	for i, q := range items {
		if err := validate.Struct(q); err != nil {
			return nil, fmt.Errorf("%w: item %d needs a question and an answer", ErrInvalidQA, i+1)
		}
	}
	return items, nil
}

// decodeArray unmarshals a JSON array into dst. Blank input leaves dst untouched.
func decodeArray(raw string, dst any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if !strings.HasPrefix(raw, "[") {
		return errors.New("must be a JSON array")
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return errors.New("malformed JSON")
	}
	return nil
}
