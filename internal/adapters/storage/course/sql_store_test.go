package course

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Lautaro124/curso/internal/adapters/storage/storagetest"
	domain "github.com/Lautaro124/curso/internal/domain/course"
)

// TestSQLStore_InsertGetUpdate exercises the full course lifecycle.
func TestSQLStore_InsertGetUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewSQLStore(storagetest.OpenDB(t))

	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	if err := store.Insert(ctx, domain.Course{ID: "c1", Name: "Go", CreatedAt: created}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := store.GetByID(ctx, "c1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Go" || got.PreviewImage != "" || !got.CreatedAt.Equal(created) {
		t.Errorf("got %+v", got)
	}

	got.Name = "Go in practice"
	got.PreviewImage = "https://cdn.example/go.png"
	if err := store.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = store.GetByID(ctx, "c1")
	if got.Name != "Go in practice" || got.PreviewImage != "https://cdn.example/go.png" {
		t.Errorf("after update %+v", got)
	}
}

// TestSQLStore_NotFound verifies missing rows wrap sql.ErrNoRows.
func TestSQLStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := NewSQLStore(storagetest.OpenDB(t))

	if _, err := store.GetByID(ctx, "nope"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByID err = %v, want sql.ErrNoRows", err)
	}
	if err := store.Update(ctx, domain.Course{ID: "nope", Name: "x"}); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Update err = %v, want sql.ErrNoRows", err)
	}
}

// TestSQLStore_ListNewestFirst verifies ordering by creation time.
func TestSQLStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewSQLStore(storagetest.OpenDB(t))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		if err := store.Insert(ctx, domain.Course{ID: id, Name: id, CreatedAt: base.Add(time.Duration(i) * time.Millisecond)}); err != nil {
			t.Fatal(err)
		}
	}
	list, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].ID != "new" || list[2].ID != "old" {
		t.Errorf("order = %v", []string{list[0].ID, list[1].ID, list[2].ID})
	}
}
