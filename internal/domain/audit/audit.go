// Package audit models the administrative audit trail: who changed which
// content or whose module access, and when.
package audit

import (
	"errors"
	"strings"
	"time"
)

// Category groups audit events by the area they touch.
type Category string

const (
	CategoryContent Category = "content"
	CategoryAccess  Category = "access"
)

// Action is the change that occurred.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionGrant  Action = "grant"
	ActionRevoke Action = "revoke"
)

// Resource types recorded on events.
const (
	ResourceCourse = "course"
	ResourceModule = "module"
	ResourceLesson = "lesson"
)

// Domain errors
var (
	ErrEmptyActor    = errors.New("audit event needs an actor")
	ErrEmptyCategory = errors.New("audit event needs a category")
	ErrEmptyAction   = errors.New("audit event needs an action")
)

// Event is a single audit trail entry.
// SubjectID is the user an access change applies to; empty for content events.
type Event struct {
	ID           string
	OccurredAt   time.Time
	Category     Category
	Action       Action
	ActorID      string
	ResourceType string
	ResourceID   string
	SubjectID    string
	Description  string
	IPAddress    string
}

// NewEvent starts an event for actorID.
// PRE: actorID is the signed-in administrator
// POST: Returns an Event with category and action set; ID and time are assigned by the recorder
func NewEvent(actorID string, category Category, action Action) Event {
	return Event{
		Category: category,
		Action:   action,
		ActorID:  actorID,
	}
}

// WithResource sets the changed resource.
func (e Event) WithResource(resourceType, resourceID string) Event {
	e.ResourceType = resourceType
	e.ResourceID = resourceID
	return e
}

// WithSubject sets the user an access change applies to.
func (e Event) WithSubject(userID string) Event {
	e.SubjectID = userID
	return e
}

// WithDescription sets a human-readable summary.
func (e Event) WithDescription(desc string) Event {
	e.Description = strings.TrimSpace(desc)
	return e
}

// WithIP records the client address.
func (e Event) WithIP(addr string) Event {
	e.IPAddress = addr
	return e
}

// Validate checks if the Event has valid data.
// PRE: Event struct is populated
// POST: Returns nil if valid, error otherwise
func (e Event) Validate() error {
	if strings.TrimSpace(e.ActorID) == "" {
		return ErrEmptyActor
	}
	if e.Category == "" {
		return ErrEmptyCategory
	}
	if e.Action == "" {
		return ErrEmptyAction
	}
	return nil
}

// Summary renders the event as one line for the audit page.
func (e Event) Summary() string {
	if e.Description != "" {
		return e.Description
	}
	return string(e.Action) + " " + e.ResourceType + " " + e.ResourceID
}
