package domain

import "time"

// Supplier is read-only master data consumed for ledger annotation.
type Supplier struct {
	TeamID       int64     `db:"team_id" json:"team_id"`
	SupplierCode string    `db:"supplier_code" json:"supplier_code"`
	SupplierName string    `db:"supplier_name" json:"supplier_name"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
	UpdatedBy    string    `db:"updated_by" json:"updated_by"`
}
