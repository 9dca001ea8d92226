package repo

import (
	"github.com/crucial707/itemvault/internal/metrics"
	"github.com/crucial707/itemvault/internal/models"
	"github.com/crucial707/itemvault/internal/storage"
)

// ==========================
// ItemRepo
// ==========================

// ItemRepo is the ordered item collection. Every mutation loads the full
// snapshot, edits it in memory, and saves it back wholesale. Ids match by
// canonical string form, so numeric and string ids are interchangeable.
//
// Insert does not reject duplicate ids: both rows persist, Update only ever
// touches the first match, Delete removes every match. That mirrors the
// long-standing observable behavior and is pinned by tests.
type ItemRepo struct {
	Store storage.Snapshot
}

func NewItemRepo(store storage.Snapshot) *ItemRepo {
	return &ItemRepo{Store: store}
}

// ==========================
// List
// ==========================

// List returns the current collection snapshot in insertion order.
func (r *ItemRepo) List() ([]models.Item, error) {
	var items []models.Item
	if err := r.Store.Load(&items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

// ==========================
// Insert
// ==========================

// Insert appends the item and persists the collection. Returns ErrMissingID
// when the item carries no id.
func (r *ItemRepo) Insert(item models.Item) (models.Item, error) {
	if _, ok := item.ID(); !ok {
		return nil, ErrMissingID
	}

	var items []models.Item
	if err := r.Store.Load(&items); err != nil {
		return nil, err
	}

	items = append(items, item)

	if err := r.Store.Save(items); err != nil {
		return nil, err
	}
	metrics.IncSnapshotSave("items")

	return item, nil
}

// ==========================
// Update
// ==========================

// Update shallow-merges patch into the first item whose id matches: patch
// fields overwrite, the rest are preserved. Returns the merged item, or
// ErrNotFound when no id matches.
func (r *ItemRepo) Update(id string, patch models.Item) (models.Item, error) {
	var items []models.Item
	if err := r.Store.Load(&items); err != nil {
		return nil, err
	}

	idx := -1
	for i := range items {
		if itemID, ok := items[i].ID(); ok && itemID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	merged := items[idx].Merge(patch)
	items[idx] = merged

	if err := r.Store.Save(items); err != nil {
		return nil, err
	}
	metrics.IncSnapshotSave("items")

	return merged, nil
}

// ==========================
// Delete
// ==========================

// Delete removes every item whose id matches and persists the collection.
// Returns ErrNotFound when nothing matched; the snapshot is left untouched
// in that case.
func (r *ItemRepo) Delete(id string) error {
	var items []models.Item
	if err := r.Store.Load(&items); err != nil {
		return err
	}

	kept := items[:0]
	for _, it := range items {
		if itemID, ok := it.ID(); ok && itemID == id {
			continue
		}
		kept = append(kept, it)
	}
	if len(kept) == len(items) {
		return ErrNotFound
	}

	if err := r.Store.Save(kept); err != nil {
		return err
	}
	metrics.IncSnapshotSave("items")

	return nil
}
