package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zaiko-app/zaiko/internal/core/service"
)

type SupplierHandler struct {
	directory *service.SupplierDirectory
}

func NewSupplierHandler(directory *service.SupplierDirectory) *SupplierHandler {
	return &SupplierHandler{directory: directory}
}

func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	suppliers, err := h.directory.List(r.Context(), scope.TeamID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suppliers)
}

func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope := scopeFrom(r.Context())
	supplier, err := h.directory.Get(r.Context(), scope.TeamID, chi.URLParam(r, "supplier_code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, supplier)
}
