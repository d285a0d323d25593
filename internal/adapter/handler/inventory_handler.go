package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zaiko-app/zaiko/internal/core/domain"
	"github.com/zaiko-app/zaiko/internal/core/service"
)

type InventoryHandler struct {
	inventory *service.InventoryService
}

func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	rows, err := h.inventory.ListInventory(r.Context(), scope.TeamID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	row, err := h.inventory.GetInventory(r.Context(), scope.TeamID, chi.URLParam(r, "item_code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *InventoryHandler) Transaction(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	sequence, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, domain.NewValidationError("id", "must be an integer"))
		return
	}
	entry, err := h.inventory.Transaction(r.Context(), scope.TeamID, sequence)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *InventoryHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	entries, err := h.inventory.Transactions(r.Context(), scope.TeamID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *InventoryHandler) TransactionsByItem(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	since, ok := sinceParam(w, r)
	if !ok {
		return
	}
	entries, err := h.inventory.TransactionsByItem(r.Context(), scope.TeamID, chi.URLParam(r, "item_code"), since)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// TransactionsBySupplier serves both the supplier-wide and the
// supplier-plus-item listings; the item_code parameter is absent on the
// former route.
func (h *InventoryHandler) TransactionsBySupplier(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	since, ok := sinceParam(w, r)
	if !ok {
		return
	}
	entries, err := h.inventory.TransactionsBySupplier(r.Context(), scope.TeamID,
		chi.URLParam(r, "supplier_code"), chi.URLParam(r, "item_code"), since)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func sinceParam(w http.ResponseWriter, r *http.Request) (*time.Time, bool) {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeError(w, domain.NewValidationError("since", "must be RFC3339"))
		return nil, false
	}
	return &parsed, true
}
