package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Lautaro124/curso/internal/adapters/storage"
	"github.com/Lautaro124/curso/internal/domain/account"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Register(ctx context.Context, a account.Account, p account.Profile) error
	Count(ctx context.Context) (int, error)
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Email      string
	Password   string
	FullName   string
	Occupation string
	BirthDate  string
	Phone      string
	IsAdmin    *bool // nil leaves the profile flag unset
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
	GenerateID   func() string
	Now          func() time.Time
}

var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ExecuteCreateAccount creates an account and its profile together.
// PRE: Valid email, password >= 12 chars, non-empty full name
// POST: Account and profile persisted atomically
// INVARIANT: Email must be unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (account.Account, error) {
	now := deps.Now()
	acct := account.Account{
		ID:        deps.GenerateID(),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		CreatedAt: now,
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, invalid(err)
	}
	if err := acct.SetPassword(input.Password); err != nil {
		if errors.Is(err, account.ErrEmptyPassword) || errors.Is(err, account.ErrPasswordTooShort) {
			return account.Account{}, invalid(err)
		}
		return account.Account{}, err
	}

	profile := account.Profile{
		ID:         acct.ID,
		Email:      acct.Email,
		FullName:   input.FullName,
		Occupation: input.Occupation,
		BirthDate:  input.BirthDate,
		Phone:      input.Phone,
		IsAdmin:    input.IsAdmin,
		CreatedAt:  now,
	}
	profile.Normalize()
	if err := profile.Validate(); err != nil {
		return account.Account{}, invalid(err)
	}

	if _, err := deps.AccountStore.GetByEmail(ctx, acct.Email); err == nil {
		return account.Account{}, invalid(ErrEmailAlreadyExists)
	}
	if err := deps.AccountStore.Register(ctx, acct, profile); err != nil {
		if storage.IsUniqueViolation(err) {
			return account.Account{}, invalid(ErrEmailAlreadyExists)
		}
		return account.Account{}, err
	}

	slog.Info("auth_event", "event", "account_created", "email", acct.Email)
	return acct, nil
}

// ExecuteSeedAdmin creates the configured administrator if no accounts exist.
// PRE: Database is migrated
// POST: Admin account with profile is_admin = true created if count == 0
func ExecuteSeedAdmin(ctx context.Context, deps CreateAccountDeps, email, password string) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	isAdmin := true
	if _, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Email:    email,
		Password: password,
		FullName: "Administrator",
		IsAdmin:  &isAdmin,
	}, deps); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "email", email)
	return nil
}
