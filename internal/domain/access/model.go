package access

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyUserID   = errors.New("user is required")
	ErrEmptyModuleID = errors.New("module is required")
)

// Grant records that a user may view a module's lessons.
// At most one grant exists per (UserID, ModuleID).
type Grant struct {
	ID        string
	UserID    string
	ModuleID  string
	CreatedAt time.Time
}

// Validate checks if the Grant has valid data.
// PRE: Grant struct is populated
// POST: Returns nil if valid, error otherwise
func (g *Grant) Validate() error {
	if strings.TrimSpace(g.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(g.ModuleID) == "" {
		return ErrEmptyModuleID
	}
	return nil
}

// Set is the collection of module ids a user holds grants for.
type Set map[string]struct{}

// NewSet builds a Set from module ids.
func NewSet(moduleIDs []string) Set {
	s := make(Set, len(moduleIDs))
	for _, id := range moduleIDs {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether the set contains moduleID.
func (s Set) Has(moduleID string) bool {
	_, ok := s[moduleID]
	return ok
}
