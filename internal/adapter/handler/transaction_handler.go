package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/zaiko-app/zaiko/internal/core/domain"
	"github.com/zaiko-app/zaiko/internal/core/service"
)

type TransactionHandler struct {
	coordinator *service.Coordinator
}

func NewTransactionHandler(coordinator *service.Coordinator) *TransactionHandler {
	return &TransactionHandler{coordinator: coordinator}
}

type applyRequest struct {
	ItemCode     string           `json:"item_code"`
	Action       string           `json:"action"`
	Quantity     int64            `json:"quantity"`
	Price        *decimal.Decimal `json:"price"`
	SupplierCode string           `json:"supplier_code"`
}

type amendRequest struct {
	ID       int64            `json:"id"`
	Quantity int64            `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
}

func (h *TransactionHandler) Apply(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid json"))
		return
	}
	action, err := domain.ParseAction(req.Action)
	if err != nil {
		writeError(w, err)
		return
	}
	var price decimal.NullDecimal
	if req.Price != nil {
		price = decimal.NullDecimal{Decimal: *req.Price, Valid: true}
	}
	entry, err := h.coordinator.Apply(r.Context(), service.ApplyRequest{
		TeamID:      scope.TeamID,
		ItemCode:    req.ItemCode,
		Action:      action,
		Quantity:    req.Quantity,
		Price:       price,
		SupplierRef: req.SupplierCode,
		Actor:       scope.Principal.Name,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *TransactionHandler) Amend(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	var req amendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid json"))
		return
	}
	var price decimal.NullDecimal
	if req.Price != nil {
		price = decimal.NullDecimal{Decimal: *req.Price, Valid: true}
	}
	entry, err := h.coordinator.Amend(r.Context(), scope.TeamID, req.ID, req.Quantity, price, scope.Principal.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *TransactionHandler) Retract(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	sequence, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, domain.NewValidationError("id", "must be an integer"))
		return
	}
	if err := h.coordinator.Retract(r.Context(), scope.TeamID, sequence, scope.Principal.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "retracted"})
}
