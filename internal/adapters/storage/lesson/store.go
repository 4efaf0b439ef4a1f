package lesson

import (
	"context"

	domain "github.com/Lautaro124/curso/internal/domain/lesson"
)

// Store persists Lesson state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Lesson, error)
	Insert(ctx context.Context, value domain.Lesson) error
	Update(ctx context.Context, value domain.Lesson) error
	List(ctx context.Context) ([]domain.Lesson, error)
	ListByModule(ctx context.Context, moduleID string) ([]domain.Lesson, error)
}
