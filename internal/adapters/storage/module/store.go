package module

import (
	"context"

	domain "github.com/Lautaro124/curso/internal/domain/module"
)

// Store persists Module state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Module, error)
	Insert(ctx context.Context, value domain.Module) error
	Update(ctx context.Context, value domain.Module) error
	List(ctx context.Context) ([]domain.Module, error)
	ListByCourse(ctx context.Context, courseID string) ([]domain.Module, error)
}
