package docstore_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"bazaar/internal/docstore"
)

type note struct {
	ID     string   `json:"_id"`
	Owner  string   `json:"owner"`
	Pinned bool     `json:"pinned"`
	Tags   []string `json:"tags"`
	Score  float64  `json:"score"`
}

func memStore(t *testing.T) docstore.Store {
	t.Helper()
	s, err := docstore.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func exerciseStore(t *testing.T, s docstore.Store) {
	ctx := context.Background()
	notes := docstore.NewCollection[note](s, "notes")

	if _, err := notes.Get(ctx, "missing"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	a := &note{ID: "a", Owner: "u1", Pinned: true, Tags: []string{"x", "y"}, Score: 4.5}
	if err := notes.Create(ctx, a.ID, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := notes.Create(ctx, a.ID, a); !errors.Is(err, docstore.ErrExists) {
		t.Fatalf("expected ErrExists on duplicate create, got %v", err)
	}
	b := &note{ID: "b", Owner: "u2", Tags: []string{"y"}}
	if err := notes.Put(ctx, b.ID, b); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := notes.Get(ctx, "a")
	if err != nil || got.Owner != "u1" || got.Score != 4.5 || len(got.Tags) != 2 {
		t.Fatalf("get a: %+v err=%v", got, err)
	}

	byOwner, err := notes.Find(ctx, docstore.Eq("owner", "u2"))
	if err != nil || len(byOwner) != 1 || byOwner[0].ID != "b" {
		t.Fatalf("find by owner: %+v err=%v", byOwner, err)
	}
	pinned, err := notes.Find(ctx, docstore.Eq("pinned", true))
	if err != nil || len(pinned) != 1 || pinned[0].ID != "a" {
		t.Fatalf("find pinned: %+v err=%v", pinned, err)
	}
	tagged, err := notes.Find(ctx, docstore.Contains("tags", "y"))
	if err != nil || len(tagged) != 2 {
		t.Fatalf("find contains: %+v err=%v", tagged, err)
	}
	both, err := notes.Find(ctx, docstore.Contains("tags", "x"), docstore.Eq("owner", "u1"))
	if err != nil || len(both) != 1 {
		t.Fatalf("find anded: %+v err=%v", both, err)
	}
	none, err := notes.Find(ctx, docstore.Eq("owner", "nobody"))
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v err=%v", none, err)
	}

	b.Owner = "u1"
	if err := notes.Put(ctx, b.ID, b); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	n, err := notes.Count(ctx, docstore.Eq("owner", "u1"))
	if err != nil || n != 2 {
		t.Fatalf("count after overwrite = %d err=%v", n, err)
	}

	if err := notes.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := notes.Delete(ctx, "a"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
	if _, err := notes.FindOne(ctx, docstore.Eq("owner", "u2")); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("FindOne expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, memStore(t))
}

func TestRejectsUnsafeNames(t *testing.T) {
	s := memStore(t)
	ctx := context.Background()
	var out []note
	if err := s.Find(ctx, "notes; DROP TABLE x", &out); err == nil {
		t.Fatal("expected invalid collection error")
	}
	if err := s.Find(ctx, "notes", &out, docstore.Eq("owner') OR 1=1 --", "x")); err == nil {
		t.Fatal("expected invalid field error")
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()
	m, err := docstore.OpenMongo(ctx, uri, fmt.Sprintf("bazaar_test_%d", time.Now().UnixNano()))
	if err != nil {
		t.Fatalf("open mongo: %v", err)
	}
	defer m.Close(ctx)
	exerciseStore(t, m)
}
