package lesson

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Lautaro124/curso/internal/adapters/storage"
	"github.com/Lautaro124/curso/internal/adapters/storage/storagetest"
	domain "github.com/Lautaro124/curso/internal/domain/lesson"
)

func seedModule(t *testing.T, db storage.SQLDB, id string) {
	t.Helper()
	now := storage.FormatTime(time.Now())
	storagetest.MustExec(t, db, "INSERT INTO course (id, name, created_at) VALUES (?, ?, ?)", "c-"+id, "course", now)
	storagetest.MustExec(t, db, "INSERT INTO module (id, course_id, name, is_paid, created_at) VALUES (?, ?, ?, ?, ?)", id, "c-"+id, "module", false, now)
}

// TestSQLStore_RoundTripsLists verifies attachments and Q&A survive storage.
func TestSQLStore_RoundTripsLists(t *testing.T) {
	ctx := context.Background()
	db := storagetest.OpenDB(t)
	seedModule(t, db, "m1")
	store := NewSQLStore(db)

	in := domain.Lesson{
		ID:          "l1",
		ModuleID:    "m1",
		Name:        "Intro",
		Description: "# Welcome",
		VideoURL:    "https://youtu.be/abc",
		Attachments: []domain.Attachment{{Name: "slides.pdf", URL: "/uploads/slides.pdf"}},
		QA:          []domain.QAItem{{Question: "Why?", Answer: "Because."}},
		CreatedAt:   time.Now(),
	}
	if err := store.Insert(ctx, in); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, err := store.GetByID(ctx, "l1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Description != in.Description || got.VideoURL != in.VideoURL {
		t.Errorf("got %+v", got)
	}
	if len(got.Attachments) != 1 || got.Attachments[0] != in.Attachments[0] {
		t.Errorf("Attachments = %+v", got.Attachments)
	}
	if len(got.QA) != 1 || got.QA[0] != in.QA[0] {
		t.Errorf("QA = %+v", got.QA)
	}
}

// TestSQLStore_EmptyListsStoredAsNull verifies optional fields read back empty.
func TestSQLStore_EmptyListsStoredAsNull(t *testing.T) {
	ctx := context.Background()
	db := storagetest.OpenDB(t)
	seedModule(t, db, "m1")
	store := NewSQLStore(db)

	if err := store.Insert(ctx, domain.Lesson{ID: "l1", ModuleID: "m1", Name: "Bare", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	var attachments sql.NullString
	if err := db.QueryRowContext(ctx, "SELECT attachments FROM lesson WHERE id = ?", "l1").Scan(&attachments); err != nil {
		t.Fatal(err)
	}
	if attachments.Valid {
		t.Errorf("attachments = %q, want NULL", attachments.String)
	}
	got, _ := store.GetByID(ctx, "l1")
	if got.Attachments != nil || got.QA != nil || got.Description != "" || got.VideoURL != "" {
		t.Errorf("got %+v, want empty optional fields", got)
	}
}

// TestSQLStore_Update verifies edits replace lists and clear optional fields.
func TestSQLStore_Update(t *testing.T) {
	ctx := context.Background()
	db := storagetest.OpenDB(t)
	seedModule(t, db, "m1")
	store := NewSQLStore(db)

	l := domain.Lesson{ID: "l1", ModuleID: "m1", Name: "v1", VideoURL: "https://vimeo.com/1",
		QA: []domain.QAItem{{Question: "q", Answer: "a"}}, CreatedAt: time.Now()}
	if err := store.Insert(ctx, l); err != nil {
		t.Fatal(err)
	}
	l.Name = "v2"
	l.VideoURL = ""
	l.QA = nil
	if err := store.Update(ctx, l); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := store.GetByID(ctx, "l1")
	if got.Name != "v2" || got.VideoURL != "" || got.QA != nil {
		t.Errorf("after update %+v", got)
	}
	if err := store.Update(ctx, domain.Lesson{ID: "ghost", Name: "x"}); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Update missing err = %v", err)
	}
}

// TestSQLStore_ListByModuleOrder verifies creation order with id tie-break.
func TestSQLStore_ListByModuleOrder(t *testing.T) {
	ctx := context.Background()
	db := storagetest.OpenDB(t)
	seedModule(t, db, "m1")
	seedModule(t, db, "m2")
	store := NewSQLStore(db)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, l := range []domain.Lesson{
		{ID: "c", ModuleID: "m1", Name: "third", CreatedAt: base.Add(time.Minute)},
		{ID: "b", ModuleID: "m1", Name: "tie-b", CreatedAt: base},
		{ID: "a", ModuleID: "m1", Name: "tie-a", CreatedAt: base},
		{ID: "x", ModuleID: "m2", Name: "elsewhere", CreatedAt: base},
	} {
		if err := store.Insert(ctx, l); err != nil {
			t.Fatal(err)
		}
	}

	list, err := store.ListByModule(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, l := range list {
		ids = append(ids, l.ID)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("order = %v, want [a b c]", ids)
	}
}
