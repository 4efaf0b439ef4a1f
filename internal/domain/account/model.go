package account

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength = 254
	MinPassword    = 12
)

// MetadataAdminKey is the legacy account metadata key that may mark an admin.
const MetadataAdminKey = "is_admin"

// Domain errors
var (
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 12 characters")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrInvalidProfile   = errors.New("invalid profile")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Account holds login credentials and legacy metadata.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	FailedLogins int
	LockedUntil  time.Time
	Metadata     map[string]any
}

// Profile is the public record of a user. Its ID equals the account ID.
type Profile struct {
	ID         string
	Email      string
	FullName   string `validate:"required,max=120"`
	Occupation string `validate:"max=120"`
	BirthDate  string `validate:"omitempty,datetime=2006-01-02"`
	Phone      string `validate:"max=40"`
	IsAdmin    *bool  // nil when the admin flag was never set
	CreatedAt  time.Time
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Email) == "" {
		return ErrEmptyEmail
	}
	if len(a.Email) > MaxEmailLength {
		return errors.New("email cannot exceed 254 characters")
	}
	if !strings.Contains(a.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt with cost 12.
// PRE: plaintext is non-empty and >= 12 characters
// POST: PasswordHash is set to bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPassword {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked returns true if the account is currently locked out.
// INVARIANT: Account fields are not mutated
func (a *Account) IsLocked() bool {
	if a.LockedUntil.IsZero() {
		return false
	}
	return time.Now().Before(a.LockedUntil)
}

// RecordFailedLogin increments the failed login counter and locks the account after 5 failures.
// PRE: Account exists
// POST: FailedLogins incremented; LockedUntil set if >= 5 failures
func (a *Account) RecordFailedLogin() {
	a.FailedLogins++
	if a.FailedLogins >= 5 {
		a.LockedUntil = time.Now().Add(15 * time.Minute)
	}
}

// ResetFailedLogins clears the failed login counter and lock.
// PRE: Account exists
// POST: FailedLogins is 0, LockedUntil is zero
func (a *Account) ResetFailedLogins() {
	a.FailedLogins = 0
	a.LockedUntil = time.Time{}
}

// MetadataClaimsAdmin reports whether account metadata marks the holder as admin.
// Both the boolean true and the string "true" count.
func MetadataClaimsAdmin(md map[string]any) bool {
	switch v := md[MetadataAdminKey].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// Normalize trims user-entered fields in place.
func (p *Profile) Normalize() {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Occupation = strings.TrimSpace(p.Occupation)
	p.BirthDate = strings.TrimSpace(p.BirthDate)
	p.Phone = strings.TrimSpace(p.Phone)
}

// Validate checks the profile fields.
// PRE: Profile struct is populated
// POST: Returns nil if valid, otherwise an error wrapping ErrInvalidProfile naming the first bad field
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalidProfile, describeField(fieldErrs[0]))
		}
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return nil
}

// DisplayName returns the name shown in admin listings.
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

// AdminFlag returns the profile's admin flag and whether it is set.
func (p Profile) AdminFlag() (bool, bool) {
	if p.IsAdmin == nil {
		return false, false
	}
	return *p.IsAdmin, true
}

func describeField(fe validator.FieldError) string {
	label := map[string]string{
		"FullName":   "full name",
		"Occupation": "occupation",
		"BirthDate":  "birth date",
		"Phone":      "phone",
	}[fe.Field()]
	if label == "" {
		label = strings.ToLower(fe.Field())
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return label + " is too long"
	case "datetime":
		return label + " must be a date (YYYY-MM-DD)"
	}
	return label + " is invalid"
}
