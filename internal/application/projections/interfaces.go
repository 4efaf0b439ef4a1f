package projections

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Lautaro124/curso/internal/domain/account"
	"github.com/Lautaro124/curso/internal/domain/course"
	"github.com/Lautaro124/curso/internal/domain/lesson"
	"github.com/Lautaro124/curso/internal/domain/module"
)

// ErrNotFound is returned when an entity is absent or the viewer has no grant for it.
// Read paths do not distinguish the two.
var ErrNotFound = errors.New("not found")

// CourseReader interface for course queries.
type CourseReader interface {
	GetByID(ctx context.Context, id string) (course.Course, error)
	List(ctx context.Context) ([]course.Course, error)
}

// ModuleReader interface for module queries.
type ModuleReader interface {
	GetByID(ctx context.Context, id string) (module.Module, error)
	List(ctx context.Context) ([]module.Module, error)
}

// LessonReader interface for lesson queries.
type LessonReader interface {
	GetByID(ctx context.Context, id string) (lesson.Lesson, error)
	List(ctx context.Context) ([]lesson.Lesson, error)
	ListByModule(ctx context.Context, moduleID string) ([]lesson.Lesson, error)
}

// GrantReader interface for access grant queries.
type GrantReader interface {
	Exists(ctx context.Context, userID, moduleID string) (bool, error)
	ListModuleIDs(ctx context.Context, userID string) ([]string, error)
}

// ProfileReader interface for profile queries.
type ProfileReader interface {
	GetProfile(ctx context.Context, id string) (account.Profile, error)
	ListProfiles(ctx context.Context) ([]account.Profile, error)
}

// ModuleSummary is a module as listed under its course.
type ModuleSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsPaid bool   `json:"is_paid"`
}

// LessonRef identifies a lesson for links.
type LessonRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// notFound maps a store miss to ErrNotFound and passes other failures through.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// modulesByCourse groups modules by course id, keeping store order.
func modulesByCourse(modules []module.Module) map[string][]module.Module {
	grouped := make(map[string][]module.Module)
	for _, m := range modules {
		grouped[m.CourseID] = append(grouped[m.CourseID], m)
	}
	return grouped
}

func summarize(m module.Module) ModuleSummary {
	return ModuleSummary{ID: m.ID, Name: m.Name, IsPaid: m.IsPaid}
}
