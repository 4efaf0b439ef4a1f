package projections

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/Lautaro124/curso/internal/application/listutil"
)

// UserSortColumns are the columns the admin user list can be ordered by.
var UserSortColumns = []string{"name", "email", "created"}

// ListUsersQuery carries search, sort and page parameters.
type ListUsersQuery struct {
	listutil.ListParams
}

// ListUsersDeps holds dependencies for the user list projection.
type ListUsersDeps struct {
	Profiles ProfileReader
}

// UserSummary is one row of the admin user list.
type UserSummary struct {
	ID          string
	Email       string
	DisplayName string
	Occupation  string
	IsAdmin     bool
	CreatedAt   time.Time
}

// UserList is one page of the admin user list.
type UserList struct {
	Users  []UserSummary
	Page   listutil.PageInfo
	Params listutil.ListParams
}

// QueryListUsers returns the page of users matching the search.
// PRE: query.Search is lower-cased
// POST: Default order is newest first; the search matches name, email or occupation
func QueryListUsers(ctx context.Context, query ListUsersQuery, deps ListUsersDeps) (UserList, error) {
	profiles, err := deps.Profiles.ListProfiles(ctx)
	if err != nil {
		return UserList{}, err
	}
	users := make([]UserSummary, 0, len(profiles))
	for _, p := range profiles {
		isAdmin, _ := p.AdminFlag()
		u := UserSummary{
			ID:          p.ID,
			Email:       p.Email,
			DisplayName: p.DisplayName(),
			Occupation:  p.Occupation,
			IsAdmin:     isAdmin,
			CreatedAt:   p.CreatedAt,
		}
		if query.Search != "" && !u.matches(query.Search) {
			continue
		}
		users = append(users, u)
	}

	sortUsers(users, query.SortParams)
	pageRows, info := listutil.Paginate(users, query.PageParams)
	return UserList{Users: pageRows, Page: info, Params: query.ListParams}, nil
}

func (u UserSummary) matches(search string) bool {
	for _, field := range []string{u.DisplayName, u.Email, u.Occupation} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func sortUsers(users []UserSummary, s listutil.SortParams) {
	var byCol func(a, b UserSummary) int
	switch s.Sort {
	case "name":
		byCol = func(a, b UserSummary) int {
			return cmp.Compare(strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName))
		}
	case "email":
		byCol = func(a, b UserSummary) int { return cmp.Compare(a.Email, b.Email) }
	case "created":
		byCol = func(a, b UserSummary) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		slices.SortStableFunc(users, func(a, b UserSummary) int { return b.CreatedAt.Compare(a.CreatedAt) })
		return
	}
	if s.Dir == "desc" {
		slices.SortStableFunc(users, func(a, b UserSummary) int { return byCol(b, a) })
		return
	}
	slices.SortStableFunc(users, byCol)
}
