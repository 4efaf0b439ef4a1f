package account

import (
	"context"

	domain "github.com/Lautaro124/curso/internal/domain/account"
)

// Store persists Account and Profile state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Count(ctx context.Context) (int, error)
	Register(ctx context.Context, acct domain.Account, profile domain.Profile) error
	GetProfile(ctx context.Context, id string) (domain.Profile, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
}
