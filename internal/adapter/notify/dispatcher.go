// Package notify implements the best-effort side channels fired after every
// order mutation: the administrator chat message and the user email.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/sberbits/exchange/internal/core/domain"
	"github.com/sberbits/exchange/internal/core/port"
)

type Dispatcher struct {
	notifiers []port.Notifier
	logger    *zap.Logger
}

func NewDispatcher(logger *zap.Logger, notifiers ...port.Notifier) *Dispatcher {
	return &Dispatcher{
		notifiers: notifiers,
		logger:    logger,
	}
}

// Dispatch delivers the event over every channel. Each channel fails
// independently; failures are logged and swallowed so the already-committed
// order mutation is never rolled back or blocked.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.OrderEvent) {
	for _, n := range d.notifiers {
		if err := n.Deliver(ctx, event); err != nil {
			d.logger.Warn("notification delivery failed",
				zap.String("event", string(event.Kind)),
				zap.String("order", event.Order.ID),
				zap.Error(err))
		}
	}
}
