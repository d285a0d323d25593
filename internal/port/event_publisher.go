package port

import (
	"context"

	"github.com/zaiko-app/zaiko/internal/core/domain"
)

type EventPublisher interface {
	// Publish emits a committed ledger mutation for downstream
	// consumers. Publish failures never unwind the commit.
	Publish(ctx context.Context, event domain.LedgerEvent) error
}
