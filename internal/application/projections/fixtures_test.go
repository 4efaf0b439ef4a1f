package projections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Lautaro124/curso/internal/domain/account"
	"github.com/Lautaro124/curso/internal/domain/course"
	"github.com/Lautaro124/curso/internal/domain/lesson"
	"github.com/Lautaro124/curso/internal/domain/module"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// catalogFixture implements every reader interface over in-memory slices.
type catalogFixture struct {
	courses  []course.Course
	modules  []module.Module
	lessons  []lesson.Lesson
	grants   map[string][]string // user id -> module ids
	profiles []account.Profile

	listByModuleErr error
	grantErr        error
}

func (f *catalogFixture) course(id, name string, age time.Duration) {
	f.courses = append(f.courses, course.Course{ID: id, Name: name, CreatedAt: baseTime.Add(-age)})
}

func (f *catalogFixture) module(id, courseID, name string, paid bool) {
	f.modules = append(f.modules, module.Module{ID: id, CourseID: courseID, Name: name, IsPaid: paid, CreatedAt: baseTime.Add(time.Duration(len(f.modules)) * time.Minute)})
}

func (f *catalogFixture) lesson(id, moduleID, name string) {
	f.lessons = append(f.lessons, lesson.Lesson{ID: id, ModuleID: moduleID, Name: name, CreatedAt: baseTime.Add(time.Duration(len(f.lessons)) * time.Minute)})
}

func (f *catalogFixture) grant(userID, moduleID string) {
	if f.grants == nil {
		f.grants = map[string][]string{}
	}
	f.grants[userID] = append(f.grants[userID], moduleID)
}

// Courses

func (f *catalogFixture) coursesReader() CourseReader { return fixtureCourses{f} }

type fixtureCourses struct{ f *catalogFixture }

func (r fixtureCourses) GetByID(_ context.Context, id string) (course.Course, error) {
	for _, c := range r.f.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return course.Course{}, fmt.Errorf("course not found: %w", sql.ErrNoRows)
}

func (r fixtureCourses) List(_ context.Context) ([]course.Course, error) {
	out := append([]course.Course(nil), r.f.courses...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Modules

func (f *catalogFixture) GetByID(_ context.Context, id string) (module.Module, error) {
	for _, m := range f.modules {
		if m.ID == id {
			return m, nil
		}
	}
	return module.Module{}, fmt.Errorf("module not found: %w", sql.ErrNoRows)
}

func (f *catalogFixture) List(_ context.Context) ([]module.Module, error) {
	return f.modules, nil
}

// Lessons

func (f *catalogFixture) lessonsReader() LessonReader { return fixtureLessons{f} }

type fixtureLessons struct{ f *catalogFixture }

func (r fixtureLessons) GetByID(_ context.Context, id string) (lesson.Lesson, error) {
	for _, l := range r.f.lessons {
		if l.ID == id {
			return l, nil
		}
	}
	return lesson.Lesson{}, fmt.Errorf("lesson not found: %w", sql.ErrNoRows)
}

func (r fixtureLessons) List(_ context.Context) ([]lesson.Lesson, error) {
	return r.f.lessons, nil
}

func (r fixtureLessons) ListByModule(_ context.Context, moduleID string) ([]lesson.Lesson, error) {
	if r.f.listByModuleErr != nil {
		return nil, r.f.listByModuleErr
	}
	var out []lesson.Lesson
	for _, l := range r.f.lessons {
		if l.ModuleID == moduleID {
			out = append(out, l)
		}
	}
	return out, nil
}

// Grants

func (f *catalogFixture) Exists(_ context.Context, userID, moduleID string) (bool, error) {
	if f.grantErr != nil {
		return false, f.grantErr
	}
	for _, id := range f.grants[userID] {
		if id == moduleID {
			return true, nil
		}
	}
	return false, nil
}

func (f *catalogFixture) ListModuleIDs(_ context.Context, userID string) ([]string, error) {
	if f.grantErr != nil {
		return nil, f.grantErr
	}
	return f.grants[userID], nil
}

// Profiles

func (f *catalogFixture) GetProfile(_ context.Context, id string) (account.Profile, error) {
	for _, p := range f.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return account.Profile{}, fmt.Errorf("profile not found: %w", sql.ErrNoRows)
}

func (f *catalogFixture) ListProfiles(_ context.Context) ([]account.Profile, error) {
	return f.profiles, nil
}

var errStore = errors.New("store unavailable")

// newSchoolFixture builds two courses: "go" (newest, two modules, three lessons in m-basics)
// and "sql" with no modules. Student s1 holds a grant for m-basics only.
func newSchoolFixture() *catalogFixture {
	f := &catalogFixture{}
	f.course("sql", "SQL", 2*time.Hour)
	f.course("go", "Go", time.Hour)
	f.module("m-basics", "go", "Basics", false)
	f.module("m-adv", "go", "Advanced", true)
	f.lesson("l1", "m-basics", "One")
	f.lesson("l2", "m-basics", "Two")
	f.lesson("l3", "m-basics", "Three")
	f.lesson("x1", "m-adv", "Locked")
	f.grant("s1", "m-basics")
	return f
}
