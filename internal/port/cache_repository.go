package port

import "context"

type CacheRepository interface {
	// GetStock returns the cached stock for an item and whether the
	// cache held a value.
	GetStock(ctx context.Context, teamID int64, itemCode string) (int64, bool, error)

	// SetStock caches the derived stock for an item.
	SetStock(ctx context.Context, teamID int64, itemCode string, stock int64) error

	// InvalidateStock drops the item's cached stock. The coordinator
	// calls this synchronously with every successful commit so a read
	// after a mutation never sees the pre-commit value.
	InvalidateStock(ctx context.Context, teamID int64, itemCode string) error
}
