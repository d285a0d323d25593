package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionIn  Action = "IN"
	ActionOut Action = "OUT"
)

// ParseAction validates a wire-level action string.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionIn, ActionOut:
		return Action(s), nil
	}
	return "", NewValidationError("action", "must be IN or OUT")
}

type EntryStatus string

const (
	StatusCommitted EntryStatus = "committed"
	StatusRetracted EntryStatus = "retracted"
)

// LedgerEntry is one committed quantity-changing event. Sequence is
// assigned by the store, increases monotonically and is never reused.
// Quantity is a non-negative magnitude; Action carries the sign.
type LedgerEntry struct {
	Sequence    int64               `db:"sequence" json:"id"`
	TeamID      int64               `db:"team_id" json:"team_id"`
	ItemCode    string              `db:"item_code" json:"item_code"`
	Action      Action              `db:"action" json:"action"`
	Quantity    int64               `db:"quantity" json:"quantity"`
	Price       decimal.NullDecimal `db:"price" json:"price"`
	SupplierRef string              `db:"supplier_ref" json:"supplier_code,omitempty"`
	Status      EntryStatus         `db:"status" json:"status"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updated_at"`
	UpdatedBy   string              `db:"updated_by" json:"updated_by"`
}

// Signed is the entry's effect on the snapshot: positive for IN,
// negative for OUT.
func (e LedgerEntry) Signed() int64 {
	return SignedQuantity(e.Action, e.Quantity)
}

func SignedQuantity(action Action, quantity int64) int64 {
	if action == ActionOut {
		return -quantity
	}
	return quantity
}

// SumSigned folds the committed entries of a ledger slice into one
// signed delta. Retracted entries contribute nothing.
func SumSigned(entries []LedgerEntry) int64 {
	var total int64
	for _, e := range entries {
		if e.Status == StatusCommitted {
			total += e.Signed()
		}
	}
	return total
}
