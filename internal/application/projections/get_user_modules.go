package projections

import (
	"context"

	"github.com/Lautaro124/curso/internal/domain/access"
	"github.com/Lautaro124/curso/internal/domain/account"
)

// GetUserModulesQuery carries input for the per-user access projection.
type GetUserModulesQuery struct {
	UserID string
}

// GetUserModulesDeps holds dependencies for the per-user access projection.
type GetUserModulesDeps struct {
	Profiles ProfileReader
	Courses  CourseReader
	Modules  ModuleReader
	Grants   GrantReader
}

// UserModules is the admin view of one user's module grants.
type UserModules struct {
	User    account.Profile
	Courses []UserCourseAccess
}

// UserCourseAccess lists a course's modules with the user's grant state.
type UserCourseAccess struct {
	ID      string
	Name    string
	Modules []ModuleAccess
}

// ModuleAccess is a module flagged with whether the user holds a grant.
type ModuleAccess struct {
	ModuleSummary
	Enabled bool
}

// QueryGetUserModules returns every course and module flagged for one user.
// PRE: UserID is non-empty
// POST: ErrNotFound when the user has no profile
func QueryGetUserModules(ctx context.Context, query GetUserModulesQuery, deps GetUserModulesDeps) (UserModules, error) {
	profile, err := deps.Profiles.GetProfile(ctx, query.UserID)
	if err != nil {
		return UserModules{}, notFound(err)
	}
	courses, err := deps.Courses.List(ctx)
	if err != nil {
		return UserModules{}, err
	}
	modules, err := deps.Modules.List(ctx)
	if err != nil {
		return UserModules{}, err
	}
	granted, err := deps.Grants.ListModuleIDs(ctx, query.UserID)
	if err != nil {
		return UserModules{}, err
	}
	grants := access.NewSet(granted)
	byCourse := modulesByCourse(modules)

	result := UserModules{User: profile, Courses: make([]UserCourseAccess, 0, len(courses))}
	for _, c := range courses {
		uc := UserCourseAccess{ID: c.ID, Name: c.Name}
		for _, m := range byCourse[c.ID] {
			uc.Modules = append(uc.Modules, ModuleAccess{ModuleSummary: summarize(m), Enabled: grants.Has(m.ID)})
		}
		result.Courses = append(result.Courses, uc)
	}
	return result, nil
}
