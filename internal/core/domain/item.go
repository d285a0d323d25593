package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is the mutable per-item snapshot. Quantity reflects every ledger
// entry up to and including FoldCursor; entries past the cursor are the
// unfolded tail. Version backs the optimistic write check on the row.
type Item struct {
	TeamID     int64               `db:"team_id" json:"team_id"`
	ItemCode   string              `db:"item_code" json:"item_code"`
	ItemName   string              `db:"item_name" json:"item_name"`
	ItemPrice  decimal.NullDecimal `db:"item_price" json:"item_price"`
	Quantity   int64               `db:"quantity" json:"quantity"`
	FoldCursor int64               `db:"fold_cursor" json:"-"`
	Version    int64               `db:"version" json:"-"`
	UpdatedAt  time.Time           `db:"updated_at" json:"updated_at"`
	UpdatedBy  string              `db:"updated_by" json:"updated_by"`
}

// InventoryRow is one line of the stock listing: the derived current
// stock plus the most recent activity on either the item row or its
// ledger.
type InventoryRow struct {
	ItemCode     string    `db:"item_code" json:"item_code"`
	ItemName     string    `db:"item_name" json:"item_name"`
	Stock        int64     `db:"stock" json:"current_stock"`
	LastActivity time.Time `db:"last_activity" json:"updated_at"`
}

// NewItemCode derives the item code deterministically from the team and
// the item name, so creating the same name twice within a team collides
// instead of silently duplicating.
func NewItemCode(teamID int64, itemName string) string {
	seed := fmt.Sprintf("team-%d-item-%s", teamID, itemName)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()[:8]
}
