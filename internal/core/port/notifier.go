package port

import (
	"context"

	"github.com/sberbits/exchange/internal/core/domain"
)

// Notifier delivers an order event over one side channel (admin chat,
// email). Implementations fail independently.
type Notifier interface {
	Deliver(ctx context.Context, event domain.OrderEvent) error
}

// EventDispatcher fans an order event out to every registered notifier.
// Best-effort: failures are logged, never propagated.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event domain.OrderEvent)
}
