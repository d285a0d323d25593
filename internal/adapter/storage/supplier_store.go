package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zaiko-app/zaiko/internal/core/domain"
)

func (s *SQLStore) ListSuppliers(ctx context.Context, teamID int64) ([]domain.Supplier, error) {
	suppliers := []domain.Supplier{}
	err := s.db.SelectContext(ctx, &suppliers, `
		SELECT team_id, supplier_code, supplier_name, updated_at, updated_by
		FROM supplier WHERE team_id = ?
		ORDER BY supplier_name ASC`, teamID)
	if err != nil {
		return nil, fmt.Errorf("query suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *SQLStore) GetSupplier(ctx context.Context, teamID int64, supplierCode string) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := s.db.GetContext(ctx, &supplier, `
		SELECT team_id, supplier_code, supplier_name, updated_at, updated_by
		FROM supplier WHERE team_id = ? AND supplier_code = ?`,
		teamID, supplierCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query supplier: %w", err)
	}
	return &supplier, nil
}
