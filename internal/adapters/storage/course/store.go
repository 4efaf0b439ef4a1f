package course

import (
	"context"

	domain "github.com/Lautaro124/curso/internal/domain/course"
)

// Store persists Course state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Course, error)
	Insert(ctx context.Context, value domain.Course) error
	Update(ctx context.Context, value domain.Course) error
	List(ctx context.Context) ([]domain.Course, error)
}
