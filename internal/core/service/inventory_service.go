package service

import (
	"context"
	"fmt"
	"time"

	"github.com/zaiko-app/zaiko/internal/core/domain"
	"github.com/zaiko-app/zaiko/internal/port"
)

// InventoryService derives current stock and activity ordering from the
// snapshot and the ledger. It only ever reads; writing goes through the
// Coordinator.
type InventoryService struct {
	items  port.ItemRepository
	ledger port.LedgerRepository
	cache  port.CacheRepository
}

func NewInventoryService(items port.ItemRepository, ledger port.LedgerRepository) *InventoryService {
	return &InventoryService{items: items, ledger: ledger}
}

// WithCache registers a read-through stock cache. Entries are dropped by
// the Coordinator on every commit, so a hit is never stale across a
// mutation boundary.
func (s *InventoryService) WithCache(cache port.CacheRepository) *InventoryService {
	s.cache = cache
	return s
}

// StockOf derives an item's current stock: the folded snapshot plus the
// signed sum of the ledger tail past the fold cursor. The coordinator
// folds synchronously, so the tail is normally empty; summing it anyway
// keeps the answer equal to replaying the full ledger from zero.
func (s *InventoryService) StockOf(ctx context.Context, teamID int64, itemCode string) (int64, error) {
	if s.cache != nil {
		if stock, ok, err := s.cache.GetStock(ctx, teamID, itemCode); err == nil && ok {
			return stock, nil
		}
	}

	item, err := s.items.GetItem(ctx, teamID, itemCode)
	if err != nil {
		return 0, fmt.Errorf("lookup item: %w", err)
	}
	if item == nil {
		return 0, domain.ErrItemNotFound
	}

	tail, err := s.ledger.EntriesSince(ctx, teamID, itemCode, item.FoldCursor)
	if err != nil {
		return 0, fmt.Errorf("ledger tail: %w", err)
	}
	stock := item.Quantity + domain.SumSigned(tail)

	if s.cache != nil {
		if err := s.cache.SetStock(ctx, teamID, itemCode, stock); err != nil {
			// A failed cache fill only costs the next read a recompute.
			return stock, nil
		}
	}
	return stock, nil
}

// GetInventory returns the listing row for a single item.
func (s *InventoryService) GetInventory(ctx context.Context, teamID int64, itemCode string) (*domain.InventoryRow, error) {
	item, err := s.items.GetItem(ctx, teamID, itemCode)
	if err != nil {
		return nil, fmt.Errorf("lookup item: %w", err)
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	stock, err := s.StockOf(ctx, teamID, itemCode)
	if err != nil {
		return nil, err
	}
	last := item.UpdatedAt
	entries, err := s.ledger.EntriesSince(ctx, teamID, itemCode, 0)
	if err != nil {
		return nil, fmt.Errorf("ledger scan: %w", err)
	}
	for _, e := range entries {
		if e.UpdatedAt.After(last) {
			last = e.UpdatedAt
		}
	}
	return &domain.InventoryRow{
		ItemCode:     item.ItemCode,
		ItemName:     item.ItemName,
		Stock:        stock,
		LastActivity: last,
	}, nil
}

// ListInventory returns every item of the tenant with derived stock,
// ordered by last activity descending. The query takes no row locks and
// may overlap coordinator commits; it sees either side of a commit but
// never a mix.
func (s *InventoryService) ListInventory(ctx context.Context, teamID int64) ([]domain.InventoryRow, error) {
	rows, err := s.items.ListInventory(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return rows, nil
}

// Transaction returns a single ledger entry within the tenant's scope.
func (s *InventoryService) Transaction(ctx context.Context, teamID, sequence int64) (*domain.LedgerEntry, error) {
	entry, err := s.ledger.GetEntry(ctx, teamID, sequence)
	if err != nil {
		return nil, fmt.Errorf("lookup entry: %w", err)
	}
	if entry == nil {
		return nil, domain.ErrTransactionNotFound
	}
	return entry, nil
}

// Transactions returns the tenant's ledger, newest first.
func (s *InventoryService) Transactions(ctx context.Context, teamID int64) ([]domain.LedgerEntry, error) {
	entries, err := s.ledger.ListEntries(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// TransactionsByItem returns an item's ledger, newest first, optionally
// limited to entries at or after since.
func (s *InventoryService) TransactionsByItem(ctx context.Context, teamID int64, itemCode string, since *time.Time) ([]domain.LedgerEntry, error) {
	item, err := s.items.GetItem(ctx, teamID, itemCode)
	if err != nil {
		return nil, fmt.Errorf("lookup item: %w", err)
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	entries, err := s.ledger.ListEntriesByItem(ctx, teamID, itemCode, since)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// TransactionsBySupplier returns entries annotated with the supplier,
// newest first, optionally narrowed to one item and a start time.
func (s *InventoryService) TransactionsBySupplier(ctx context.Context, teamID int64, supplierRef, itemCode string, since *time.Time) ([]domain.LedgerEntry, error) {
	entries, err := s.ledger.ListEntriesBySupplier(ctx, teamID, supplierRef, itemCode, since)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}
