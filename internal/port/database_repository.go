package port

import (
	"context"
	"time"

	"github.com/zaiko-app/zaiko/internal/core/domain"
)

type AccountRepository interface {
	// GetAccountByEmail returns nil without error when no account matches.
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)

	// GetAccountByID returns nil without error when no account matches.
	GetAccountByID(ctx context.Context, id int64) (*domain.Account, error)

	// CreateAccount persists a new account and fills in its ID.
	CreateAccount(ctx context.Context, account *domain.Account) error
}

type TeamRepository interface {
	// CreateTeam persists a team and its first membership in one unit.
	CreateTeam(ctx context.Context, team *domain.Team, owner *domain.Membership) error

	GetTeam(ctx context.Context, teamID int64) (*domain.Team, error)

	// ListMemberships returns the account's memberships ordered by
	// membership id ascending.
	ListMemberships(ctx context.Context, accountID int64) ([]domain.Membership, error)

	// GetMembership returns nil without error when the account does not
	// belong to the team.
	GetMembership(ctx context.Context, accountID, teamID int64) (*domain.Membership, error)

	AddMembership(ctx context.Context, m *domain.Membership) error

	ListTeamsByAccount(ctx context.Context, accountID int64) ([]domain.Team, error)
}

type ItemRepository interface {
	// GetItem returns nil without error when the item does not exist in
	// the tenant's scope.
	GetItem(ctx context.Context, teamID int64, itemCode string) (*domain.Item, error)

	// CreateItem fails with domain.ErrDuplicateItem when the derived
	// code already exists for the team.
	CreateItem(ctx context.Context, item domain.Item) error

	// UpdateItemMeta rewrites name and price with a version check,
	// failing with domain.ErrConflict on a stale version. It never
	// touches quantity or fold_cursor.
	UpdateItemMeta(ctx context.Context, item domain.Item) error

	// DeleteItem removes the item and cascades its ledger.
	DeleteItem(ctx context.Context, teamID int64, itemCode string) error

	ListItems(ctx context.Context, teamID int64) ([]domain.Item, error)

	// ListInventory derives (item, stock, lastActivity) rows ordered by
	// lastActivity descending. Read-only and lock-free.
	ListInventory(ctx context.Context, teamID int64) ([]domain.InventoryRow, error)
}

type LedgerRepository interface {
	// GetEntry returns nil without error when the sequence does not
	// exist within the tenant's scope.
	GetEntry(ctx context.Context, teamID, sequence int64) (*domain.LedgerEntry, error)

	// EntriesSince returns committed and retracted entries with
	// sequence > cursor, ascending by sequence.
	EntriesSince(ctx context.Context, teamID int64, itemCode string, cursor int64) ([]domain.LedgerEntry, error)

	ListEntries(ctx context.Context, teamID int64) ([]domain.LedgerEntry, error)

	ListEntriesByItem(ctx context.Context, teamID int64, itemCode string, since *time.Time) ([]domain.LedgerEntry, error)

	// ListEntriesBySupplier filters by supplier annotation; an empty
	// itemCode matches every item.
	ListEntriesBySupplier(ctx context.Context, teamID int64, supplierRef, itemCode string, since *time.Time) ([]domain.LedgerEntry, error)

	// ApplyEntry appends the entry and rewrites the item snapshot in one
	// transaction. The item carries the post-apply quantity and the
	// version observed at read time; a stale version fails with
	// domain.ErrConflict and nothing is written. Returns the assigned
	// sequence.
	ApplyEntry(ctx context.Context, item domain.Item, entry domain.LedgerEntry) (int64, error)

	// AmendEntry rewrites the entry's quantity/price/audit fields and
	// the item snapshot in one transaction, with the same version
	// semantics as ApplyEntry. A retracted or missing entry fails with
	// domain.ErrTransactionNotFound.
	AmendEntry(ctx context.Context, item domain.Item, entry domain.LedgerEntry) error

	// RetractEntry tombstones the entry and rewrites the item snapshot
	// in one transaction, with the same version semantics as ApplyEntry.
	RetractEntry(ctx context.Context, item domain.Item, entry domain.LedgerEntry) error
}

type SupplierRepository interface {
	ListSuppliers(ctx context.Context, teamID int64) ([]domain.Supplier, error)

	// GetSupplier returns nil without error when no supplier matches.
	GetSupplier(ctx context.Context, teamID int64, supplierCode string) (*domain.Supplier, error)
}
