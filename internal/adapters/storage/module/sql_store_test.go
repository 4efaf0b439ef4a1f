package module

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Lautaro124/curso/internal/adapters/storage"
	"github.com/Lautaro124/curso/internal/adapters/storage/storagetest"
	domain "github.com/Lautaro124/curso/internal/domain/module"
)

func seedCourse(t *testing.T, db storage.SQLDB, id string) {
	t.Helper()
	storagetest.MustExec(t, db, "INSERT INTO course (id, name, created_at) VALUES (?, ?, ?)", id, id, storage.FormatTime(time.Now()))
}

// TestSQLStore_InsertGetUpdate exercises the module lifecycle including the paid flag.
func TestSQLStore_InsertGetUpdate(t *testing.T) {
	ctx := context.Background()
	db := storagetest.OpenDB(t)
	seedCourse(t, db, "c1")
	store := NewSQLStore(db)

	if err := store.Insert(ctx, domain.Module{ID: "m1", CourseID: "c1", Name: "Basics", IsPaid: true, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, err := store.GetByID(ctx, "m1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.IsPaid || got.CourseID != "c1" {
		t.Errorf("got %+v", got)
	}

	got.IsPaid = false
	got.Name = "Basics II"
	if err := store.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = store.GetByID(ctx, "m1")
	if got.IsPaid || got.Name != "Basics II" {
		t.Errorf("after update %+v", got)
	}

	if err := store.Update(ctx, domain.Module{ID: "missing", Name: "x"}); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Update missing err = %v, want sql.ErrNoRows", err)
	}
}

// TestSQLStore_InsertRequiresCourse verifies the foreign key to course.
func TestSQLStore_InsertRequiresCourse(t *testing.T) {
	store := NewSQLStore(storagetest.OpenDB(t))
	err := store.Insert(context.Background(), domain.Module{ID: "m1", CourseID: "ghost", Name: "x", CreatedAt: time.Now()})
	if !storage.IsForeignKeyViolation(err) {
		t.Errorf("err = %v, want foreign key violation", err)
	}
}

// TestSQLStore_ListByCourse verifies filtering and creation order.
func TestSQLStore_ListByCourse(t *testing.T) {
	ctx := context.Background()
	db := storagetest.OpenDB(t)
	seedCourse(t, db, "c1")
	seedCourse(t, db, "c2")
	store := NewSQLStore(db)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fixtures := []domain.Module{
		{ID: "b", CourseID: "c1", Name: "second", CreatedAt: base.Add(time.Second)},
		{ID: "a", CourseID: "c1", Name: "first", CreatedAt: base},
		{ID: "z", CourseID: "c2", Name: "other", CreatedAt: base},
	}
	for _, m := range fixtures {
		if err := store.Insert(ctx, m); err != nil {
			t.Fatal(err)
		}
	}

	list, err := store.ListByCourse(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Errorf("ListByCourse = %+v", list)
	}
	all, _ := store.List(ctx)
	if len(all) != 3 {
		t.Errorf("List len = %d, want 3", len(all))
	}
}
