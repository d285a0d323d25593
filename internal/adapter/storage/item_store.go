package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zaiko-app/zaiko/internal/core/domain"
)

func (s *SQLStore) GetItem(ctx context.Context, teamID int64, itemCode string) (*domain.Item, error) {
	var item domain.Item
	err := s.db.GetContext(ctx, &item, `
		SELECT team_id, item_code, item_name, item_price, quantity, fold_cursor, version, updated_at, updated_by
		FROM item WHERE team_id = ? AND item_code = ?`,
		teamID, itemCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	return &item, nil
}

func (s *SQLStore) CreateItem(ctx context.Context, item domain.Item) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO item (team_id, item_code, item_name, item_price, quantity, fold_cursor, version, updated_at, updated_by)
		VALUES (?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		item.TeamID, item.ItemCode, item.ItemName, item.ItemPrice, item.Quantity,
		item.UpdatedAt, item.UpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateItem
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (s *SQLStore) UpdateItemMeta(ctx context.Context, item domain.Item) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE item
		SET item_name = ?, item_price = ?, version = version + 1, updated_at = ?, updated_by = ?
		WHERE team_id = ? AND item_code = ? AND version = ?`,
		item.ItemName, item.ItemPrice, item.UpdatedAt, item.UpdatedBy,
		item.TeamID, item.ItemCode, item.Version)
	if err != nil {
		return fmt.Errorf("update item meta: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (s *SQLStore) DeleteItem(ctx context.Context, teamID int64, itemCode string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM ledger_entry WHERE team_id = ? AND item_code = ?`,
		teamID, itemCode); err != nil {
		return fmt.Errorf("delete ledger: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		DELETE FROM item WHERE team_id = ? AND item_code = ?`,
		teamID, itemCode)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrItemNotFound
	}

	return tx.Commit()
}

func (s *SQLStore) ListItems(ctx context.Context, teamID int64) ([]domain.Item, error) {
	items := []domain.Item{}
	err := s.db.SelectContext(ctx, &items, `
		SELECT team_id, item_code, item_name, item_price, quantity, fold_cursor, version, updated_at, updated_by
		FROM item WHERE team_id = ? ORDER BY updated_at DESC`,
		teamID)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	return items, nil
}

// ListInventory derives every item's stock as snapshot plus the signed
// committed tail past the fold cursor, with the most recent activity on
// either the item row or its ledger. Takes no row locks. The computed
// last_activity column goes through exprTime because sqlite strips the
// decl type from expression results.
func (s *SQLStore) ListInventory(ctx context.Context, teamID int64) ([]domain.InventoryRow, error) {
	var scanned []struct {
		ItemCode     string   `db:"item_code"`
		ItemName     string   `db:"item_name"`
		Stock        int64    `db:"stock"`
		LastActivity exprTime `db:"last_activity"`
	}
	err := s.db.SelectContext(ctx, &scanned, `
		SELECT i.item_code, i.item_name,
		       i.quantity + COALESCE(SUM(CASE
		           WHEN l.sequence > i.fold_cursor AND l.status = 'committed'
		           THEN CASE WHEN l.action = 'IN' THEN l.quantity ELSE -l.quantity END
		           ELSE 0 END), 0) AS stock,
		       CASE WHEN MAX(l.updated_at) IS NULL OR MAX(l.updated_at) < i.updated_at
		            THEN i.updated_at ELSE MAX(l.updated_at) END AS last_activity
		FROM item i
		LEFT JOIN ledger_entry l ON l.team_id = i.team_id AND l.item_code = i.item_code
		WHERE i.team_id = ?
		GROUP BY i.item_code, i.item_name, i.quantity, i.fold_cursor, i.updated_at
		ORDER BY last_activity DESC`,
		teamID)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	rows := make([]domain.InventoryRow, len(scanned))
	for i, r := range scanned {
		rows[i] = domain.InventoryRow{
			ItemCode:     r.ItemCode,
			ItemName:     r.ItemName,
			Stock:        r.Stock,
			LastActivity: r.LastActivity.Time,
		}
	}
	return rows, nil
}
