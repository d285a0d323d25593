package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/zaiko-app/zaiko/internal/core/domain"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps domain sentinels to stable client-facing codes. An
// unrecognized error is logged and surfaced as a generic server fault.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeErrorCode(w, http.StatusBadRequest, "validation_error", ve.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		writeErrorCode(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		writeErrorCode(w, http.StatusForbidden, "forbidden", "not a member of the requested team")
	case errors.Is(err, domain.ErrInvalidTenant):
		writeErrorCode(w, http.StatusBadRequest, "invalid_tenant", "invalid team id")
	case errors.Is(err, domain.ErrNoTenantMembership):
		writeErrorCode(w, http.StatusBadRequest, "no_tenant_membership", "account belongs to no team")
	case errors.Is(err, domain.ErrItemNotFound):
		writeErrorCode(w, http.StatusNotFound, "item_not_found", "item not found")
	case errors.Is(err, domain.ErrDuplicateItem):
		writeErrorCode(w, http.StatusConflict, "duplicate_item", "an item with this name already exists")
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeErrorCode(w, http.StatusConflict, "duplicate_email", "email already registered")
	case errors.Is(err, domain.ErrTransactionNotFound):
		writeErrorCode(w, http.StatusNotFound, "transaction_not_found", "transaction not found")
	case errors.Is(err, domain.ErrInsufficientStock):
		writeErrorCode(w, http.StatusConflict, "insufficient_stock", "insufficient stock")
	case errors.Is(err, domain.ErrConflict):
		writeErrorCode(w, http.StatusConflict, "conflict", "concurrent update, retry")
	default:
		log.Printf("internal error: %v", err)
		writeErrorCode(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}
