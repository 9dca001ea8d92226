package repo

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/crucial707/itemvault/internal/models"
	"github.com/crucial707/itemvault/internal/storage"
)

func newItemRepo(t *testing.T) *ItemRepo {
	t.Helper()
	return NewItemRepo(storage.NewFileStore(filepath.Join(t.TempDir(), "items.json")))
}

func TestItemRepo_InsertThenList(t *testing.T) {
	repo := newItemRepo(t)

	if _, err := repo.Insert(models.Item{"id": "1", "name": "x"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	items, err := repo.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0]["id"] != "1" || items[0]["name"] != "x" {
		t.Errorf("unexpected item: %v", items[0])
	}
}

func TestItemRepo_Insert_MissingID(t *testing.T) {
	repo := newItemRepo(t)

	if _, err := repo.Insert(models.Item{"name": "x"}); !errors.Is(err, ErrMissingID) {
		t.Errorf("Insert without id: got %v, want ErrMissingID", err)
	}

	items, _ := repo.List()
	if len(items) != 0 {
		t.Errorf("rejected insert must not persist, got %v", items)
	}
}

// Duplicate ids are allowed: both rows persist and update only touches the
// first. Pinned here so nobody "fixes" it silently.
func TestItemRepo_Insert_DuplicateIDsAllowed(t *testing.T) {
	repo := newItemRepo(t)

	if _, err := repo.Insert(models.Item{"id": "1", "name": "first"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := repo.Insert(models.Item{"id": "1", "name": "second"}); err != nil {
		t.Fatalf("duplicate Insert: %v", err)
	}

	items, _ := repo.List()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	if _, err := repo.Update("1", models.Item{"name": "patched"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	items, _ = repo.List()
	if items[0]["name"] != "patched" || items[1]["name"] != "second" {
		t.Errorf("update must touch only the first match: %v", items)
	}
}

func TestItemRepo_Update_ShallowMerge(t *testing.T) {
	repo := newItemRepo(t)

	if _, err := repo.Insert(models.Item{"id": "1", "name": "x", "color": "red"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	merged, err := repo.Update("1", models.Item{"name": "y"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if merged["name"] != "y" || merged["color"] != "red" || merged["id"] != "1" {
		t.Errorf("unexpected merge result: %v", merged)
	}

	items, _ := repo.List()
	if items[0]["name"] != "y" || items[0]["color"] != "red" {
		t.Errorf("merge not persisted: %v", items[0])
	}
}

func TestItemRepo_Update_NotFound(t *testing.T) {
	repo := newItemRepo(t)

	if _, err := repo.Update("missing", models.Item{"name": "y"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing: got %v, want ErrNotFound", err)
	}
}

// A numeric id and its string form address the same item.
func TestItemRepo_LooseIDEquality(t *testing.T) {
	repo := newItemRepo(t)

	if _, err := repo.Insert(models.Item{"id": json.Number("42"), "name": "widget"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	merged, err := repo.Update("42", models.Item{"name": "gizmo"})
	if err != nil {
		t.Fatalf("Update by string id: %v", err)
	}
	if merged["name"] != "gizmo" {
		t.Errorf("unexpected merge result: %v", merged)
	}
	// The stored id keeps its numeric representation.
	if merged["id"] != json.Number("42") {
		t.Errorf("id representation changed: %#v", merged["id"])
	}

	if err := repo.Delete("42"); err != nil {
		t.Fatalf("Delete by string id: %v", err)
	}
	items, _ := repo.List()
	if len(items) != 0 {
		t.Errorf("item not deleted: %v", items)
	}
}

func TestItemRepo_Delete_RemovesAllMatches(t *testing.T) {
	repo := newItemRepo(t)

	for _, it := range []models.Item{
		{"id": "1", "name": "a"},
		{"id": "2", "name": "b"},
		{"id": "1", "name": "c"},
	} {
		if _, err := repo.Insert(it); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	if err := repo.Delete("1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	items, _ := repo.List()
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if id, _ := items[0].ID(); id != "2" {
		t.Errorf("wrong item survived: %v", items[0])
	}
}

func TestItemRepo_Delete_NotFoundLeavesCollectionUnchanged(t *testing.T) {
	repo := newItemRepo(t)

	if _, err := repo.Insert(models.Item{"id": "1", "name": "a"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := repo.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete missing: got %v, want ErrNotFound", err)
	}

	items, _ := repo.List()
	if len(items) != 1 {
		t.Errorf("collection changed on failed delete: %v", items)
	}
}

func TestItemRepo_ListPreservesInsertionOrder(t *testing.T) {
	repo := newItemRepo(t)

	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		if _, err := repo.Insert(models.Item{"id": id}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	items, err := repo.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i, want := range ids {
		if got, _ := items[i].ID(); got != want {
			t.Errorf("position %d: got %q, want %q", i, got, want)
		}
	}
}
