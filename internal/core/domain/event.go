package domain

import "time"

type EventType string

const (
	EventApplied   EventType = "ledger.applied"
	EventAmended   EventType = "ledger.amended"
	EventRetracted EventType = "ledger.retracted"
)

// LedgerEvent describes one committed coordinator mutation, published
// after the commit for downstream consumers. Stock is the snapshot
// quantity after the commit.
type LedgerEvent struct {
	Type       EventType `json:"type"`
	TeamID     int64     `json:"team_id"`
	ItemCode   string    `json:"item_code"`
	Sequence   int64     `json:"sequence"`
	Action     Action    `json:"action"`
	Quantity   int64     `json:"quantity"`
	Stock      int64     `json:"stock"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}
