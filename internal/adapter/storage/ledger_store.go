package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/zaiko-app/zaiko/internal/core/domain"
)

func (s *SQLStore) GetEntry(ctx context.Context, teamID, sequence int64) (*domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	err := s.db.GetContext(ctx, &entry, `
		SELECT sequence, team_id, item_code, action, quantity, price, supplier_ref, status, updated_at, updated_by
		FROM ledger_entry WHERE team_id = ? AND sequence = ?`,
		teamID, sequence)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query entry: %w", err)
	}
	return &entry, nil
}

func (s *SQLStore) EntriesSince(ctx context.Context, teamID int64, itemCode string, cursor int64) ([]domain.LedgerEntry, error) {
	entries := []domain.LedgerEntry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT sequence, team_id, item_code, action, quantity, price, supplier_ref, status, updated_at, updated_by
		FROM ledger_entry
		WHERE team_id = ? AND item_code = ? AND sequence > ?
		ORDER BY sequence ASC`,
		teamID, itemCode, cursor)
	if err != nil {
		return nil, fmt.Errorf("query entries since %d: %w", cursor, err)
	}
	return entries, nil
}

func (s *SQLStore) ListEntries(ctx context.Context, teamID int64) ([]domain.LedgerEntry, error) {
	entries := []domain.LedgerEntry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT sequence, team_id, item_code, action, quantity, price, supplier_ref, status, updated_at, updated_by
		FROM ledger_entry WHERE team_id = ?
		ORDER BY updated_at DESC, sequence DESC`,
		teamID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	return entries, nil
}

func (s *SQLStore) ListEntriesByItem(ctx context.Context, teamID int64, itemCode string, since *time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT sequence, team_id, item_code, action, quantity, price, supplier_ref, status, updated_at, updated_by
		FROM ledger_entry WHERE team_id = ? AND item_code = ?`
	args := []any{teamID, itemCode}
	if since != nil {
		query += ` AND updated_at >= ?`
		args = append(args, *since)
	}
	query += ` ORDER BY updated_at DESC, sequence DESC`

	entries := []domain.LedgerEntry{}
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("query entries by item: %w", err)
	}
	return entries, nil
}

func (s *SQLStore) ListEntriesBySupplier(ctx context.Context, teamID int64, supplierRef, itemCode string, since *time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT sequence, team_id, item_code, action, quantity, price, supplier_ref, status, updated_at, updated_by
		FROM ledger_entry WHERE team_id = ? AND supplier_ref = ?`
	args := []any{teamID, supplierRef}
	if itemCode != "" {
		query += ` AND item_code = ?`
		args = append(args, itemCode)
	}
	if since != nil {
		query += ` AND updated_at >= ?`
		args = append(args, *since)
	}
	query += ` ORDER BY updated_at DESC, sequence DESC`

	entries := []domain.LedgerEntry{}
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("query entries by supplier: %w", err)
	}
	return entries, nil
}

// ApplyEntry appends the entry and folds it into the snapshot in one
// transaction. The snapshot update is conditional on the version read by
// the coordinator; a stale version aborts the whole unit with
// domain.ErrConflict, discarding the appended entry.
func (s *SQLStore) ApplyEntry(ctx context.Context, item domain.Item, entry domain.LedgerEntry) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_entry (team_id, item_code, action, quantity, price, supplier_ref, status, updated_at, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.TeamID, entry.ItemCode, entry.Action, entry.Quantity, entry.Price,
		entry.SupplierRef, entry.Status, entry.UpdatedAt, entry.UpdatedBy)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	sequence, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("entry sequence: %w", err)
	}

	if err := s.updateSnapshot(ctx, tx, item, sequence); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return sequence, nil
}

// AmendEntry rewrites a committed entry in place and adjusts the
// snapshot in the same transaction. The fold cursor does not move: no
// new sequence was assigned.
func (s *SQLStore) AmendEntry(ctx context.Context, item domain.Item, entry domain.LedgerEntry) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE ledger_entry
		SET quantity = ?, price = ?, updated_at = ?, updated_by = ?
		WHERE team_id = ? AND sequence = ? AND status = ?`,
		entry.Quantity, entry.Price, entry.UpdatedAt, entry.UpdatedBy,
		entry.TeamID, entry.Sequence, domain.StatusCommitted)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTransactionNotFound
	}

	if err := s.updateSnapshot(ctx, tx, item, item.FoldCursor); err != nil {
		return err
	}
	return tx.Commit()
}

// RetractEntry tombstones a committed entry and reverses its effect on
// the snapshot in the same transaction. A retracted entry never
// transitions back.
func (s *SQLStore) RetractEntry(ctx context.Context, item domain.Item, entry domain.LedgerEntry) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE ledger_entry
		SET status = ?, updated_at = ?, updated_by = ?
		WHERE team_id = ? AND sequence = ? AND status = ?`,
		domain.StatusRetracted, entry.UpdatedAt, entry.UpdatedBy,
		entry.TeamID, entry.Sequence, domain.StatusCommitted)
	if err != nil {
		return fmt.Errorf("retract entry: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTransactionNotFound
	}

	if err := s.updateSnapshot(ctx, tx, item, item.FoldCursor); err != nil {
		return err
	}
	return tx.Commit()
}

// updateSnapshot rewrites the item snapshot with the optimistic version
// check shared by all coordinator writes.
func (s *SQLStore) updateSnapshot(ctx context.Context, tx *sqlx.Tx, item domain.Item, foldCursor int64) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE item
		SET quantity = ?, fold_cursor = ?, version = version + 1, updated_at = ?, updated_by = ?
		WHERE team_id = ? AND item_code = ? AND version = ?`,
		item.Quantity, foldCursor, item.UpdatedAt, item.UpdatedBy,
		item.TeamID, item.ItemCode, item.Version)
	if err != nil {
		return fmt.Errorf("update snapshot: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrConflict
	}
	return nil
}
