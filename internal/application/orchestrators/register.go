package orchestrators

import (
	"context"
	"log/slog"

	"github.com/Lautaro124/curso/internal/adapters/email"
	"github.com/Lautaro124/curso/internal/domain/account"
)

// RegisterDeps holds dependencies for Register.
type RegisterDeps struct {
	CreateAccountDeps
	Mailer  email.Sender // optional
	SiteURL string
}

// ExecuteRegister signs up a new student and sends a welcome e-mail.
// PRE: input carries the sign-up form fields
// POST: Account and profile created with the admin flag unset; a failed e-mail is logged, not returned
func ExecuteRegister(ctx context.Context, input CreateAccountInput, deps RegisterDeps) (account.Account, error) {
	input.IsAdmin = nil
	acct, err := ExecuteCreateAccount(ctx, input, deps.CreateAccountDeps)
	if err != nil {
		return account.Account{}, err
	}

	if deps.Mailer != nil {
		req, err := email.Welcome(acct.Email, input.FullName, deps.SiteURL)
		if err == nil {
			_, err = deps.Mailer.Send(ctx, req)
		}
		if err != nil {
			slog.Warn("email_event", "event", "welcome_failed", "account_id", acct.ID, "error", err)
		}
	}
	return acct, nil
}
