package port

import (
	"context"

	"github.com/sberbits/exchange/internal/core/domain"
)

type ExchangeService interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)

	ConfirmByUser(ctx context.Context, id string) (*domain.Order, error)
	CancelByUser(ctx context.Context, id string) (*domain.Order, error)

	// ConfirmByAdmin marks the order paid on behalf of the administrator.
	// A non-empty paymentLink replaces the order's payment details.
	ConfirmByAdmin(ctx context.Context, id string, paymentLink string) (*domain.Order, error)
	CancelByAdmin(ctx context.Context, id string) (*domain.Order, error)
}
