package service

import (
	"context"
	"fmt"

	"github.com/zaiko-app/zaiko/internal/core/domain"
	"github.com/zaiko-app/zaiko/internal/port"
)

// SupplierDirectory exposes read-only supplier master data used to
// annotate ledger entries.
type SupplierDirectory struct {
	suppliers port.SupplierRepository
}

func NewSupplierDirectory(suppliers port.SupplierRepository) *SupplierDirectory {
	return &SupplierDirectory{suppliers: suppliers}
}

func (d *SupplierDirectory) List(ctx context.Context, teamID int64) ([]domain.Supplier, error) {
	suppliers, err := d.suppliers.ListSuppliers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return suppliers, nil
}

func (d *SupplierDirectory) Get(ctx context.Context, teamID int64, supplierCode string) (*domain.Supplier, error) {
	supplier, err := d.suppliers.GetSupplier(ctx, teamID, supplierCode)
	if err != nil {
		return nil, fmt.Errorf("lookup supplier: %w", err)
	}
	if supplier == nil {
		return nil, domain.NewValidationError("supplier_code", "unknown supplier")
	}
	return supplier, nil
}
