package access

import (
	"context"

	domain "github.com/Lautaro124/curso/internal/domain/access"
)

// Store persists module access grants.
type Store interface {
	Insert(ctx context.Context, grant domain.Grant) error
	Delete(ctx context.Context, userID, moduleID string) error
	Exists(ctx context.Context, userID, moduleID string) (bool, error)
	ListModuleIDs(ctx context.Context, userID string) ([]string, error)
}
