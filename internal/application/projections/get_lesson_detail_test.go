package projections

import (
	"context"
	"errors"
	"testing"

	"github.com/Lautaro124/curso/internal/domain/account"
	"github.com/Lautaro124/curso/internal/domain/lesson"
)

func adminProfile(isAdmin bool) account.Profile {
	return account.Profile{ID: "admin", FullName: "Admin", IsAdmin: &isAdmin}
}

func lessonDeps(f *catalogFixture) GetLessonDetailDeps {
	return GetLessonDetailDeps{Courses: f.coursesReader(), Modules: f, Lessons: f.lessonsReader(), Grants: f}
}

// TestQueryGetLessonDetail verifies breadcrumbs and attachment data for a granted lesson.
func TestQueryGetLessonDetail(t *testing.T) {
	f := newSchoolFixture()
	f.lessons[0].Attachments = []lesson.Attachment{{Name: "doc", URL: "https://x/doc.pdf"}}

	d, err := QueryGetLessonDetail(context.Background(), GetLessonDetailQuery{LessonID: "l1", UserID: "s1"}, lessonDeps(f))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ModuleName != "Basics" || d.CourseName != "Go" || d.Lesson.Name != "One" {
		t.Errorf("detail = %+v", d)
	}
	if len(d.Lesson.Attachments) != 1 || d.Lesson.Attachments[0].URL != "https://x/doc.pdf" {
		t.Errorf("Attachments = %+v", d.Lesson.Attachments)
	}

	for _, id := range []string{"x1", "missing"} {
		if _, err := QueryGetLessonDetail(context.Background(), GetLessonDetailQuery{LessonID: id, UserID: "s1"}, lessonDeps(f)); !errors.Is(err, ErrNotFound) {
			t.Errorf("lesson %s err = %v, want ErrNotFound", id, err)
		}
	}
}

// TestQueryGetLessonNavigation walks L1..Ln and checks both neighbours.
func TestQueryGetLessonNavigation(t *testing.T) {
	f := newSchoolFixture()
	tests := []struct {
		lessonID string
		prev     string
		next     string
	}{
		{"l1", "", "l2"},
		{"l2", "l1", "l3"},
		{"l3", "l2", ""},
	}
	for _, tt := range tests {
		t.Run(tt.lessonID, func(t *testing.T) {
			nav := QueryGetLessonNavigation(context.Background(), GetLessonDetailQuery{LessonID: tt.lessonID, UserID: "s1"}, lessonDeps(f))
			if got := refID(nav.Previous); got != tt.prev {
				t.Errorf("Previous = %q, want %q", got, tt.prev)
			}
			if got := refID(nav.Next); got != tt.next {
				t.Errorf("Next = %q, want %q", got, tt.next)
			}
		})
	}
}

// TestQueryGetLessonNavigation_FailsClosed verifies every failure yields no links.
func TestQueryGetLessonNavigation_FailsClosed(t *testing.T) {
	tests := []struct {
		name   string
		query  GetLessonDetailQuery
		mutate func(*catalogFixture)
	}{
		{"missing lesson", GetLessonDetailQuery{LessonID: "nope", UserID: "s1"}, nil},
		{"no grant", GetLessonDetailQuery{LessonID: "l2", UserID: "stranger"}, nil},
		{"sibling list fails", GetLessonDetailQuery{LessonID: "l2", UserID: "s1"}, func(f *catalogFixture) { f.listByModuleErr = errStore }},
		{"grant lookup fails", GetLessonDetailQuery{LessonID: "l2", UserID: "s1"}, func(f *catalogFixture) { f.grantErr = errStore }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSchoolFixture()
			if tt.mutate != nil {
				tt.mutate(f)
			}
			nav := QueryGetLessonNavigation(context.Background(), tt.query, lessonDeps(f))
			if nav.Previous != nil || nav.Next != nil {
				t.Errorf("nav = %+v, want empty", nav)
			}
		})
	}
}

// TestQueryGetLessonNavigation_NotAmongSiblings verifies a lesson missing from its own module list yields no links.
func TestQueryGetLessonNavigation_NotAmongSiblings(t *testing.T) {
	f := newSchoolFixture()
	deps := lessonDeps(f)
	deps.Lessons = orphanLessons{LessonReader: f.lessonsReader()}
	nav := QueryGetLessonNavigation(context.Background(), GetLessonDetailQuery{LessonID: "l2", UserID: "s1"}, deps)
	if nav.Previous != nil || nav.Next != nil {
		t.Errorf("nav = %+v, want empty", nav)
	}
}

// orphanLessons hides the requested lesson from its sibling list.
type orphanLessons struct {
	LessonReader
}

func (o orphanLessons) ListByModule(ctx context.Context, moduleID string) ([]lesson.Lesson, error) {
	all, err := o.LessonReader.ListByModule(ctx, moduleID)
	var out []lesson.Lesson
	for _, l := range all {
		if l.ID != "l2" {
			out = append(out, l)
		}
	}
	return out, err
}

func refID(r *LessonRef) string {
	if r == nil {
		return ""
	}
	return r.ID
}
