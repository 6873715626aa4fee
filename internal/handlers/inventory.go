package handlers

import (
	"net/http"
	"strconv"

	"github.com/crucial707/stockroom/internal/middleware"
	"github.com/crucial707/stockroom/internal/service"
)

// ==========================
// InventoryHandler
// ==========================
type InventoryHandler struct {
	Inventory *service.InventoryService
}

// actor is the username recorded in the activity log for a mutation.
func actor(r *http.Request) string {
	if u := middleware.UserFrom(r.Context()); u != nil {
		return u.Username
	}
	return ""
}

// ==========================
// Sections
// ==========================

func (h *InventoryHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.Inventory.ListSections(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

func (h *InventoryHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var input service.SectionInput
	if !decode(w, r, &input) {
		return
	}
	section, err := h.Inventory.CreateSection(r.Context(), input, actor(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, section)
}

func (h *InventoryHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Inventory.DeleteSection(r.Context(), id, actor(r)); err != nil {
		serviceError(w, r, err)
		return
	}
	message(w, http.StatusOK, "Section deleted successfully")
}

// ==========================
// Items
// ==========================

func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Inventory.ListItems(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) ListSectionItems(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(w, r, "sectionId")
	if !ok {
		return
	}
	items, err := h.Inventory.ListSectionItems(r.Context(), sectionID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(w, r, "sectionId")
	if !ok {
		return
	}
	var input service.ItemInput
	if !decode(w, r, &input) {
		return
	}
	item, err := h.Inventory.CreateItem(r.Context(), sectionID, input, actor(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(w, r, "sectionId")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	var input service.ItemInput
	if !decode(w, r, &input) {
		return
	}
	item, err := h.Inventory.UpdateItem(r.Context(), sectionID, itemID, input, actor(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// AdjustItem applies {"delta": n} to the available count, never going below zero.
func (h *InventoryHandler) AdjustItem(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(w, r, "sectionId")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	var input struct {
		Delta int `json:"delta"`
	}
	if !decode(w, r, &input) {
		return
	}
	item, err := h.Inventory.AdjustItem(r.Context(), sectionID, itemID, input.Delta, actor(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(w, r, "sectionId")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	if err := h.Inventory.DeleteItem(r.Context(), sectionID, itemID, actor(r)); err != nil {
		serviceError(w, r, err)
		return
	}
	message(w, http.StatusOK, "Item deleted successfully")
}

// ==========================
// Low stock and dashboard
// ==========================

// LowStock accepts an optional ?threshold=; without it the configured default applies.
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold := 0
	if v := r.URL.Query().Get("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			JSONValidationError(w, "validation failed",
				map[string]string{"threshold": "must be a positive integer"}, http.StatusBadRequest)
			return
		}
		threshold = n
	}
	items, err := h.Inventory.LowStock(r.Context(), threshold)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Inventory.Summary(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
