package projections

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/Lautaro124/curso/internal/application/listutil"
	"github.com/Lautaro124/curso/internal/domain/account"
)

// TestQueryGetCourseCatalog verifies the full tree for the management list.
func TestQueryGetCourseCatalog(t *testing.T) {
	f := newSchoolFixture()
	catalog, err := QueryGetCourseCatalog(context.Background(), GetCourseCatalogDeps{
		Courses: f.coursesReader(), Modules: f, Lessons: f.lessonsReader(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(catalog) != 2 || catalog[0].Course.ID != "go" {
		t.Fatalf("catalog = %+v", catalog)
	}
	if len(catalog[0].Modules) != 2 || len(catalog[0].Modules[0].Lessons) != 3 || len(catalog[0].Modules[1].Lessons) != 1 {
		t.Errorf("go modules = %+v", catalog[0].Modules)
	}
	if len(catalog[1].Modules) != 0 {
		t.Errorf("sql modules = %+v", catalog[1].Modules)
	}
}

// TestQueryGetUserModules verifies grant flags per module and the missing-user case.
func TestQueryGetUserModules(t *testing.T) {
	f := newSchoolFixture()
	f.profiles = []account.Profile{{ID: "s1", Email: "s1@example.com", FullName: "Student"}}
	deps := GetUserModulesDeps{Profiles: f, Courses: f.coursesReader(), Modules: f, Grants: f}

	um, err := QueryGetUserModules(context.Background(), GetUserModulesQuery{UserID: "s1"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if um.User.FullName != "Student" || len(um.Courses) != 2 {
		t.Fatalf("result = %+v", um)
	}
	flags := map[string]bool{}
	for _, m := range um.Courses[0].Modules {
		flags[m.ID] = m.Enabled
	}
	if !flags["m-basics"] || flags["m-adv"] {
		t.Errorf("flags = %v", flags)
	}

	if _, err := QueryGetUserModules(context.Background(), GetUserModulesQuery{UserID: "ghost"}, deps); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user err = %v", err)
	}
}

// TestQueryListUsers verifies display names, admin flags, search, sort and paging.
func TestQueryListUsers(t *testing.T) {
	isAdmin := true
	f := &catalogFixture{profiles: []account.Profile{
		{ID: "b", Email: "b@example.com", CreatedAt: baseTime},
		{ID: "a", Email: "a@example.com", FullName: "Ana", IsAdmin: &isAdmin, CreatedAt: baseTime.Add(time.Hour)},
		{ID: "c", Email: "c@example.com", FullName: "Carla", Occupation: "Diseñadora", CreatedAt: baseTime.Add(2 * time.Hour)},
	}}
	deps := ListUsersDeps{Profiles: f}
	list := func(t *testing.T, q url.Values) UserList {
		t.Helper()
		res, err := QueryListUsers(context.Background(), ListUsersQuery{listutil.ParseListParams(q, UserSortColumns)}, deps)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	ids := func(l UserList) string {
		var out string
		for _, u := range l.Users {
			out += u.ID
		}
		return out
	}

	all := list(t, url.Values{})
	if ids(all) != "cab" {
		t.Fatalf("default order = %q, want newest first", ids(all))
	}
	if !all.Users[1].IsAdmin || all.Users[1].DisplayName != "Ana" {
		t.Errorf("ana = %+v", all.Users[1])
	}
	if all.Users[2].IsAdmin || all.Users[2].DisplayName != "b@example.com" {
		t.Errorf("unnamed user = %+v", all.Users[2])
	}

	tests := []struct {
		name string
		q    url.Values
		want string
	}{
		{"search by name", url.Values{"q": {"CARLA"}}, "c"},
		{"search by email", url.Values{"q": {"b@"}}, "b"},
		{"search by occupation", url.Values{"q": {"diseñ"}}, "c"},
		{"no match", url.Values{"q": {"zzz"}}, ""},
		{"sort by email", url.Values{"sort": {"email"}}, "abc"},
		{"sort by name desc", url.Values{"sort": {"name"}, "dir": {"desc"}}, "cba"},
		{"sort by created", url.Values{"sort": {"created"}}, "bac"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(list(t, tt.q)); got != tt.want {
				t.Errorf("ids = %q, want %q", got, tt.want)
			}
		})
	}

	paged := list(t, url.Values{"per_page": {"10"}, "page": {"2"}})
	if paged.Page.Page != 1 || paged.Page.Total != 3 || len(paged.Users) != 3 {
		t.Errorf("page beyond range = %+v", paged.Page)
	}
}
