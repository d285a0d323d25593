package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zaiko-app/zaiko/internal/core/domain"
	"github.com/zaiko-app/zaiko/internal/port"
)

const (
	maxWriteAttempts = 3
	retryBaseDelay   = 25 * time.Millisecond
)

// Coordinator is the only writer allowed to touch the snapshot and the
// ledger, and it always touches them together: every mutation is one
// repository call that commits or aborts as a unit. Version conflicts
// are retried a few times with backoff before surfacing as
// domain.ErrConflict.
type Coordinator struct {
	items     port.ItemRepository
	ledger    port.LedgerRepository
	suppliers port.SupplierRepository
	cache     port.CacheRepository
	publisher port.EventPublisher
}

func NewCoordinator(items port.ItemRepository, ledger port.LedgerRepository, suppliers port.SupplierRepository) *Coordinator {
	return &Coordinator{items: items, ledger: ledger, suppliers: suppliers}
}

// WithCache registers a stock cache that is invalidated synchronously
// with every successful commit.
func (c *Coordinator) WithCache(cache port.CacheRepository) *Coordinator {
	c.cache = cache
	return c
}

// WithPublisher registers a publisher for committed mutations.
func (c *Coordinator) WithPublisher(p port.EventPublisher) *Coordinator {
	c.publisher = p
	return c
}

// ApplyRequest is one quantity-changing event to append.
type ApplyRequest struct {
	TeamID      int64
	ItemCode    string
	Action      domain.Action
	Quantity    int64
	Price       decimal.NullDecimal
	SupplierRef string
	Actor       string
}

// Apply appends a ledger entry and folds it into the item snapshot.
// OUT beyond current stock fails with domain.ErrInsufficientStock and
// writes nothing.
func (c *Coordinator) Apply(ctx context.Context, req ApplyRequest) (*domain.LedgerEntry, error) {
	if req.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "must be positive")
	}
	if req.Action != domain.ActionIn && req.Action != domain.ActionOut {
		return nil, domain.NewValidationError("action", "must be IN or OUT")
	}
	if req.SupplierRef != "" {
		sup, err := c.suppliers.GetSupplier(ctx, req.TeamID, req.SupplierRef)
		if err != nil {
			return nil, fmt.Errorf("lookup supplier: %w", err)
		}
		if sup == nil {
			return nil, domain.NewValidationError("supplier_code", "unknown supplier")
		}
	}

	var committed *domain.LedgerEntry
	err := c.withRetry(ctx, func() error {
		item, err := c.items.GetItem(ctx, req.TeamID, req.ItemCode)
		if err != nil {
			return fmt.Errorf("lookup item: %w", err)
		}
		if item == nil {
			return domain.ErrItemNotFound
		}

		delta := domain.SignedQuantity(req.Action, req.Quantity)
		after := item.Quantity + delta
		if req.Action == domain.ActionOut && after < 0 {
			return domain.ErrInsufficientStock
		}

		now := time.Now()
		entry := domain.LedgerEntry{
			TeamID:      req.TeamID,
			ItemCode:    req.ItemCode,
			Action:      req.Action,
			Quantity:    req.Quantity,
			Price:       req.Price,
			SupplierRef: req.SupplierRef,
			Status:      domain.StatusCommitted,
			UpdatedAt:   now,
			UpdatedBy:   req.Actor,
		}
		next := *item
		next.Quantity = after
		next.UpdatedAt = now
		next.UpdatedBy = req.Actor

		seq, err := c.ledger.ApplyEntry(ctx, next, entry)
		if err != nil {
			return err
		}
		entry.Sequence = seq
		committed = &entry

		c.afterCommit(req.TeamID, req.ItemCode, domain.LedgerEvent{
			Type:       domain.EventApplied,
			TeamID:     req.TeamID,
			ItemCode:   req.ItemCode,
			Sequence:   seq,
			Action:     req.Action,
			Quantity:   req.Quantity,
			Stock:      after,
			Actor:      req.Actor,
			OccurredAt: now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}

// Amend rewrites a committed entry's quantity and applies the resulting
// delta to the item snapshot, re-validating the OUT non-negative
// constraint against the adjusted total.
func (c *Coordinator) Amend(ctx context.Context, teamID, sequence, newQuantity int64, price decimal.NullDecimal, actor string) (*domain.LedgerEntry, error) {
	if newQuantity <= 0 {
		return nil, domain.NewValidationError("quantity", "must be positive")
	}

	var amended *domain.LedgerEntry
	err := c.withRetry(ctx, func() error {
		entry, err := c.ledger.GetEntry(ctx, teamID, sequence)
		if err != nil {
			return fmt.Errorf("lookup entry: %w", err)
		}
		if entry == nil || entry.Status != domain.StatusCommitted {
			return domain.ErrTransactionNotFound
		}

		item, err := c.items.GetItem(ctx, teamID, entry.ItemCode)
		if err != nil {
			return fmt.Errorf("lookup item: %w", err)
		}
		if item == nil {
			return domain.ErrItemNotFound
		}

		delta := domain.SignedQuantity(entry.Action, newQuantity) - entry.Signed()
		after := item.Quantity + delta
		if after < 0 {
			return domain.ErrInsufficientStock
		}

		now := time.Now()
		next := *item
		next.Quantity = after
		next.UpdatedAt = now
		next.UpdatedBy = actor

		updated := *entry
		updated.Quantity = newQuantity
		if price.Valid {
			updated.Price = price
		}
		updated.UpdatedAt = now
		updated.UpdatedBy = actor

		if err := c.ledger.AmendEntry(ctx, next, updated); err != nil {
			return err
		}
		amended = &updated

		c.afterCommit(teamID, entry.ItemCode, domain.LedgerEvent{
			Type:       domain.EventAmended,
			TeamID:     teamID,
			ItemCode:   entry.ItemCode,
			Sequence:   sequence,
			Action:     entry.Action,
			Quantity:   newQuantity,
			Stock:      after,
			Actor:      actor,
			OccurredAt: now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return amended, nil
}

// Retract tombstones an entry and reverses its signed effect on the
// snapshot, restoring stock to exactly its pre-apply value. The
// reversal is unconditional: retracting an IN may drive stock negative,
// which the ledger then explains.
func (c *Coordinator) Retract(ctx context.Context, teamID, sequence int64, actor string) error {
	return c.withRetry(ctx, func() error {
		entry, err := c.ledger.GetEntry(ctx, teamID, sequence)
		if err != nil {
			return fmt.Errorf("lookup entry: %w", err)
		}
		if entry == nil || entry.Status != domain.StatusCommitted {
			return domain.ErrTransactionNotFound
		}

		item, err := c.items.GetItem(ctx, teamID, entry.ItemCode)
		if err != nil {
			return fmt.Errorf("lookup item: %w", err)
		}
		if item == nil {
			return domain.ErrItemNotFound
		}

		now := time.Now()
		after := item.Quantity - entry.Signed()
		next := *item
		next.Quantity = after
		next.UpdatedAt = now
		next.UpdatedBy = actor

		updated := *entry
		updated.Status = domain.StatusRetracted
		updated.UpdatedAt = now
		updated.UpdatedBy = actor

		if err := c.ledger.RetractEntry(ctx, next, updated); err != nil {
			return err
		}

		c.afterCommit(teamID, entry.ItemCode, domain.LedgerEvent{
			Type:       domain.EventRetracted,
			TeamID:     teamID,
			ItemCode:   entry.ItemCode,
			Sequence:   sequence,
			Action:     entry.Action,
			Quantity:   entry.Quantity,
			Stock:      after,
			Actor:      actor,
			OccurredAt: now,
		})
		return nil
	})
}

// CorrectQuantity reconciles the snapshot to a target value by emitting
// a correcting ledger entry for the difference, so the ledger keeps
// explaining the snapshot. The diff is recomputed from a fresh read on
// every attempt, so a concurrent write cannot strand the final stock
// away from the target. A target equal to current stock is a no-op.
func (c *Coordinator) CorrectQuantity(ctx context.Context, teamID int64, itemCode string, target int64, actor string) (*domain.LedgerEntry, error) {
	if target < 0 {
		return nil, domain.NewValidationError("quantity", "must not be negative")
	}

	var committed *domain.LedgerEntry
	err := c.withRetry(ctx, func() error {
		committed = nil
		item, err := c.items.GetItem(ctx, teamID, itemCode)
		if err != nil {
			return fmt.Errorf("lookup item: %w", err)
		}
		if item == nil {
			return domain.ErrItemNotFound
		}

		diff := target - item.Quantity
		if diff == 0 {
			return nil
		}
		action := domain.ActionIn
		if diff < 0 {
			action = domain.ActionOut
			diff = -diff
		}

		now := time.Now()
		entry := domain.LedgerEntry{
			TeamID:    teamID,
			ItemCode:  itemCode,
			Action:    action,
			Quantity:  diff,
			Status:    domain.StatusCommitted,
			UpdatedAt: now,
			UpdatedBy: actor,
		}
		next := *item
		next.Quantity = target
		next.UpdatedAt = now
		next.UpdatedBy = actor

		seq, err := c.ledger.ApplyEntry(ctx, next, entry)
		if err != nil {
			return err
		}
		entry.Sequence = seq
		committed = &entry

		c.afterCommit(teamID, itemCode, domain.LedgerEvent{
			Type:       domain.EventApplied,
			TeamID:     teamID,
			ItemCode:   itemCode,
			Sequence:   seq,
			Action:     action,
			Quantity:   diff,
			Stock:      target,
			Actor:      actor,
			OccurredAt: now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}

// DeleteItem removes the item and its ledger, then drops the cached
// stock. Without the drop a recreated item with the same derived code
// would inherit the dead value until the cache TTL expires.
func (c *Coordinator) DeleteItem(ctx context.Context, teamID int64, itemCode string) error {
	if err := c.items.DeleteItem(ctx, teamID, itemCode); err != nil {
		return err
	}
	dctx, cancel := context.WithTimeout(context.Background(), afterCommitTimeout)
	defer cancel()
	c.invalidate(dctx, teamID, itemCode)
	return nil
}

// withRetry runs fn and retries version conflicts with jittered backoff
// before surfacing domain.ErrConflict to the caller.
func (c *Coordinator) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * retryBaseDelay
			delay += time.Duration(rand.Int63n(int64(retryBaseDelay)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		err = fn()
		if err == nil || !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}
	return err
}

const afterCommitTimeout = 5 * time.Second

// afterCommit runs the post-commit obligations: synchronous cache
// invalidation for the mutated item, then event publication.
func (c *Coordinator) afterCommit(teamID int64, itemCode string, event domain.LedgerEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), afterCommitTimeout)
	defer cancel()

	c.invalidate(ctx, teamID, itemCode)
	if c.publisher != nil {
		if err := c.publisher.Publish(ctx, event); err != nil {
			log.Printf("publish %s for team %d item %s: %v", event.Type, teamID, itemCode, err)
		}
	}
}

// invalidate drops the cached stock for one item. A fault is logged
// loudly because a stale entry would survive a mutation boundary.
func (c *Coordinator) invalidate(ctx context.Context, teamID int64, itemCode string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.InvalidateStock(ctx, teamID, itemCode); err != nil {
		log.Printf("CRITICAL: stock cache invalidation failed for team %d item %s: %v", teamID, itemCode, err)
	}
}
