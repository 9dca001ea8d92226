package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crucial707/itemvault/internal/models"
	"github.com/crucial707/itemvault/internal/repo"
)

type ItemHandler struct {
	Repo *repo.ItemRepo
}

// decodeItem decodes a request body into an Item with UseNumber so numeric
// ids keep their exact representation.
func decodeItem(r *http.Request) (models.Item, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var item models.Item
	if err := dec.Decode(&item); err != nil {
		return nil, err
	}
	return item, nil
}

//
// ==========================
// List Items
// ==========================
//

func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List()
	if err != nil {
		slog.Error("list items failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

//
// ==========================
// Create Item
// ==========================
//

func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	item, err := decodeItem(r)
	if err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	created, err := h.Repo.Insert(item)
	if err != nil {
		if errors.Is(err, repo.ErrMissingID) {
			JSONError(w, "missing id", http.StatusBadRequest)
			return
		}
		slog.Error("create item failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

//
// ==========================
// Update Item
// ==========================
//

func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	patch, err := decodeItem(r)
	if err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	merged, err := h.Repo.Update(id, patch)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "not found", http.StatusNotFound)
			return
		}
		slog.Error("update item failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(merged)
}

//
// ==========================
// Delete Item
// ==========================
//

func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Repo.Delete(id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "not found", http.StatusNotFound)
			return
		}
		slog.Error("delete item failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
