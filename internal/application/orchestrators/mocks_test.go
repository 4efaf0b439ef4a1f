package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Lautaro124/curso/internal/domain/access"
	"github.com/Lautaro124/curso/internal/domain/account"
	"github.com/Lautaro124/curso/internal/domain/course"
	"github.com/Lautaro124/curso/internal/domain/lesson"
	"github.com/Lautaro124/curso/internal/domain/module"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

func boolPtr(b bool) *bool { return &b }

// adminActor and studentActor are resolved through mockProfiles.
var (
	adminActor   = Actor{ID: "admin-1"}
	studentActor = Actor{ID: "student-1"}
)

// mockProfiles implements ProfileReader.
type mockProfiles struct {
	profiles map[string]account.Profile
	err      error
}

func newMockProfiles() *mockProfiles {
	return &mockProfiles{profiles: map[string]account.Profile{
		adminActor.ID:   {ID: adminActor.ID, IsAdmin: boolPtr(true)},
		studentActor.ID: {ID: studentActor.ID, IsAdmin: boolPtr(false)},
	}}
}

func (m *mockProfiles) GetProfile(_ context.Context, id string) (account.Profile, error) {
	if m.err != nil {
		return account.Profile{}, m.err
	}
	p, ok := m.profiles[id]
	if !ok {
		return account.Profile{}, fmt.Errorf("profile not found: %w", sql.ErrNoRows)
	}
	return p, nil
}

// mockCourses implements CourseStore.
type mockCourses struct {
	courses   map[string]course.Course
	updateErr error
	updates   int
}

func newMockCourses(cs ...course.Course) *mockCourses {
	m := &mockCourses{courses: map[string]course.Course{}}
	for _, c := range cs {
		m.courses[c.ID] = c
	}
	return m
}

func (m *mockCourses) GetByID(_ context.Context, id string) (course.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return course.Course{}, fmt.Errorf("course not found: %w", sql.ErrNoRows)
	}
	return c, nil
}

func (m *mockCourses) Insert(_ context.Context, c course.Course) error {
	m.courses[c.ID] = c
	return nil
}

func (m *mockCourses) Update(_ context.Context, c course.Course) error {
	m.updates++
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.courses[c.ID]; !ok {
		return fmt.Errorf("course not found: %w", sql.ErrNoRows)
	}
	m.courses[c.ID] = c
	return nil
}

// mockModules implements ModuleStore.
type mockModules struct {
	modules map[string]module.Module
}

func newMockModules(ms ...module.Module) *mockModules {
	m := &mockModules{modules: map[string]module.Module{}}
	for _, x := range ms {
		m.modules[x.ID] = x
	}
	return m
}

func (m *mockModules) GetByID(_ context.Context, id string) (module.Module, error) {
	x, ok := m.modules[id]
	if !ok {
		return module.Module{}, fmt.Errorf("module not found: %w", sql.ErrNoRows)
	}
	return x, nil
}

func (m *mockModules) Insert(_ context.Context, x module.Module) error {
	m.modules[x.ID] = x
	return nil
}

func (m *mockModules) Update(_ context.Context, x module.Module) error {
	if _, ok := m.modules[x.ID]; !ok {
		return fmt.Errorf("module not found: %w", sql.ErrNoRows)
	}
	m.modules[x.ID] = x
	return nil
}

// mockLessons implements LessonStore.
type mockLessons struct {
	lessons map[string]lesson.Lesson
}

func newMockLessons(ls ...lesson.Lesson) *mockLessons {
	m := &mockLessons{lessons: map[string]lesson.Lesson{}}
	for _, l := range ls {
		m.lessons[l.ID] = l
	}
	return m
}

func (m *mockLessons) GetByID(_ context.Context, id string) (lesson.Lesson, error) {
	l, ok := m.lessons[id]
	if !ok {
		return lesson.Lesson{}, fmt.Errorf("lesson not found: %w", sql.ErrNoRows)
	}
	return l, nil
}

func (m *mockLessons) Insert(_ context.Context, l lesson.Lesson) error {
	m.lessons[l.ID] = l
	return nil
}

func (m *mockLessons) Update(_ context.Context, l lesson.Lesson) error {
	if _, ok := m.lessons[l.ID]; !ok {
		return fmt.Errorf("lesson not found: %w", sql.ErrNoRows)
	}
	m.lessons[l.ID] = l
	return nil
}

// mockGrants implements GrantStore with the same uniqueness and module reference rules as the table.
type mockGrants struct {
	grants  map[[2]string]access.Grant
	missing map[string]bool // module ids that fail the foreign key
}

func newMockGrants() *mockGrants {
	return &mockGrants{grants: map[[2]string]access.Grant{}}
}

func (m *mockGrants) Insert(_ context.Context, g access.Grant) error {
	if m.missing[g.ModuleID] {
		return errors.New("FOREIGN KEY constraint failed")
	}
	key := [2]string{g.UserID, g.ModuleID}
	if _, ok := m.grants[key]; ok {
		return errors.New("UNIQUE constraint failed: user_module.user_id, user_module.module_id")
	}
	m.grants[key] = g
	return nil
}

func (m *mockGrants) Delete(_ context.Context, userID, moduleID string) error {
	delete(m.grants, [2]string{userID, moduleID})
	return nil
}

func (m *mockGrants) has(userID, moduleID string) bool {
	_, ok := m.grants[[2]string{userID, moduleID}]
	return ok
}
