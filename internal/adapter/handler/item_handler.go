package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/zaiko-app/zaiko/internal/core/domain"
	"github.com/zaiko-app/zaiko/internal/core/service"
)

type ItemHandler struct {
	items *service.ItemService
}

func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

type createItemRequest struct {
	ItemName  string           `json:"item_name"`
	ItemPrice *decimal.Decimal `json:"item_price"`
}

type updateItemRequest struct {
	ItemName  *string          `json:"item_name"`
	ItemPrice *decimal.Decimal `json:"item_price"`
	Quantity  *int64           `json:"quantity"`
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid json"))
		return
	}
	var price decimal.NullDecimal
	if req.ItemPrice != nil {
		price = decimal.NullDecimal{Decimal: *req.ItemPrice, Valid: true}
	}
	item, err := h.items.Create(r.Context(), scope.TeamID, req.ItemName, price, scope.Principal.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	item, err := h.items.Get(r.Context(), scope.TeamID, chi.URLParam(r, "item_code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	items, err := h.items.List(r.Context(), scope.TeamID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid json"))
		return
	}
	item, err := h.items.Update(r.Context(), scope.TeamID, chi.URLParam(r, "item_code"), service.UpdateRequest{
		Name:     req.ItemName,
		Price:    req.ItemPrice,
		Quantity: req.Quantity,
	}, scope.Principal.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	if err := h.items.Delete(r.Context(), scope.TeamID, chi.URLParam(r, "item_code")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
