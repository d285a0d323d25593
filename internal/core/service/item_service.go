package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zaiko-app/zaiko/internal/core/domain"
	"github.com/zaiko-app/zaiko/internal/port"
)

// ItemService owns item master data. Quantity never changes here: an
// update that asks for a different quantity is routed through the
// Coordinator as a correcting ledger entry.
type ItemService struct {
	items       port.ItemRepository
	coordinator *Coordinator
}

func NewItemService(items port.ItemRepository, coordinator *Coordinator) *ItemService {
	return &ItemService{items: items, coordinator: coordinator}
}

// Create registers an item with quantity zero. The code is derived from
// (team, name), so a second create with the same name fails with
// domain.ErrDuplicateItem.
func (s *ItemService) Create(ctx context.Context, teamID int64, name string, price decimal.NullDecimal, actor string) (*domain.Item, error) {
	if name == "" {
		return nil, domain.NewValidationError("item_name", "required")
	}
	item := domain.Item{
		TeamID:    teamID,
		ItemCode:  domain.NewItemCode(teamID, name),
		ItemName:  name,
		ItemPrice: price,
		Quantity:  0,
		UpdatedAt: time.Now(),
		UpdatedBy: actor,
	}
	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *ItemService) Get(ctx context.Context, teamID int64, itemCode string) (*domain.Item, error) {
	item, err := s.items.GetItem(ctx, teamID, itemCode)
	if err != nil {
		return nil, fmt.Errorf("lookup item: %w", err)
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (s *ItemService) List(ctx context.Context, teamID int64) ([]domain.Item, error) {
	items, err := s.items.ListItems(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// UpdateRequest carries the mutable item fields. Nil means unchanged.
// Quantity is a reconciliation target, not a direct overwrite.
type UpdateRequest struct {
	Name     *string
	Price    *decimal.Decimal
	Quantity *int64
}

// Update rewrites metadata and, when the request names a quantity that
// differs from the snapshot, emits a correcting ledger entry for the
// difference so stock stays exactly explainable by ledger history.
func (s *ItemService) Update(ctx context.Context, teamID int64, itemCode string, req UpdateRequest, actor string) (*domain.Item, error) {
	item, err := s.items.GetItem(ctx, teamID, itemCode)
	if err != nil {
		return nil, fmt.Errorf("lookup item: %w", err)
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}

	if req.Name != nil || req.Price != nil {
		next := *item
		if req.Name != nil {
			if *req.Name == "" {
				return nil, domain.NewValidationError("item_name", "required")
			}
			next.ItemName = *req.Name
		}
		if req.Price != nil {
			next.ItemPrice = decimal.NullDecimal{Decimal: *req.Price, Valid: true}
		}
		next.UpdatedAt = time.Now()
		next.UpdatedBy = actor
		if err := s.items.UpdateItemMeta(ctx, next); err != nil {
			return nil, err
		}
	}

	if req.Quantity != nil {
		if _, err := s.coordinator.CorrectQuantity(ctx, teamID, itemCode, *req.Quantity, actor); err != nil {
			return nil, err
		}
	}

	updated, err := s.items.GetItem(ctx, teamID, itemCode)
	if err != nil {
		return nil, fmt.Errorf("reload item: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrItemNotFound
	}
	return updated, nil
}

// Delete removes the item and cascades its ledger. Routed through the
// coordinator so the cached stock is dropped with the item.
func (s *ItemService) Delete(ctx context.Context, teamID int64, itemCode string) error {
	return s.coordinator.DeleteItem(ctx, teamID, itemCode)
}
