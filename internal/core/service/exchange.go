package service

import (
	"context"
	"strings"
	"time"

	"github.com/govalues/decimal"
	"go.uber.org/zap"

	"github.com/sberbits/exchange/internal/core/domain"
	"github.com/sberbits/exchange/internal/core/port"
)

// Service drives the order lifecycle: quoting, creation and status
// transitions. Every committed mutation emits an event for the notification
// channels; dispatch failures never reach the caller.
type Service struct {
	store  port.OrderStore
	rates  port.RateTable
	events port.EventDispatcher
	// paymentDetails is the fixed payment instruction attached to new
	// orders until the administrator replaces it.
	paymentDetails string
	logger         *zap.Logger
}

func NewService(store port.OrderStore, rates port.RateTable,
	events port.EventDispatcher, paymentDetails string, logger *zap.Logger) (*Service, error) {
	return &Service{
		store:          store,
		rates:          rates,
		events:         events,
		paymentDetails: paymentDetails,
		logger:         logger,
	}, nil
}

// splitTicker parses a compound currency code that may carry a network
// suffix: "USDT-TRC20" → ticker "USDT", display "USDT TRC20".
func splitTicker(code string) (ticker, display string) {
	ticker, network, found := strings.Cut(code, "-")
	if found {
		return ticker, ticker + " " + network
	}
	return ticker, ticker
}

func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	amount, err := decimal.Parse(req.Amount)
	if err != nil || amount.Sign() <= 0 {
		return nil, domain.ErrBadRequest
	}
	if req.WalletAddress == "" || req.FromCurrency == "" || req.ToCurrency == "" {
		return nil, domain.ErrBadRequest
	}

	ticker, display := splitTicker(req.ToCurrency)
	toAmount := s.rates.Quote(amount, ticker)
	if toAmount == "0" {
		// Unknown ticker is not an error at creation time: the order is
		// taken with a zero payout and sorted out by the administrator.
		s.logger.Warn("no rate for currency, quoting zero", zap.String("currency", ticker))
	}

	now := time.Now()
	order := domain.Order{
		ID:               s.store.NextID(),
		Status:           domain.OrderStatusAwaitingPayment,
		FromAmount:       req.Amount,
		FromCurrency:     req.FromCurrency,
		FromAccount:      req.FromAccount,
		ToAmount:         toAmount,
		ToCurrency:       display,
		ToAccount:        req.WalletAddress,
		PaymentDetails:   s.paymentDetails,
		Email:            req.Email,
		CreatedAt:        domain.DateStamp(now),
		LastStatusUpdate: domain.TimeStamp(now),
	}

	s.store.Save(order)
	s.events.Dispatch(ctx, domain.OrderEvent{Kind: domain.EventOrderCreated, Order: order})

	return &order, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) ConfirmByUser(ctx context.Context, id string) (*domain.Order, error) {
	return s.transition(ctx, id, domain.EventPaymentReported, func(o domain.Order) domain.Order {
		o.Status = domain.OrderStatusUnderReview
		return o
	})
}

// CancelByUser is allowed from any state, including an already paid order.
// That mirrors the user-facing contract; the admin reviews cancellations of
// paid orders manually.
func (s *Service) CancelByUser(ctx context.Context, id string) (*domain.Order, error) {
	return s.transition(ctx, id, domain.EventCanceledByUser, func(o domain.Order) domain.Order {
		o.Status = domain.OrderStatusCanceledByUser
		return o
	})
}

func (s *Service) ConfirmByAdmin(ctx context.Context, id string, paymentLink string) (*domain.Order, error) {
	return s.transition(ctx, id, domain.EventConfirmedByAdmin, func(o domain.Order) domain.Order {
		o.Status = domain.OrderStatusUnderReview
		if paymentLink != "" {
			o.PaymentDetails = paymentLink
		}
		return o
	})
}

func (s *Service) CancelByAdmin(ctx context.Context, id string) (*domain.Order, error) {
	return s.transition(ctx, id, domain.EventCanceledByAdmin, func(o domain.Order) domain.Order {
		o.Status = domain.OrderStatusCanceledByAdmin
		return o
	})
}

// transition builds a fresh order value from the stored one, stamps it and
// saves it whole. The event is dispatched only after the store write.
func (s *Service) transition(ctx context.Context, id string, kind domain.EventKind,
	mutate func(domain.Order) domain.Order) (*domain.Order, error) {
	order, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	updated := mutate(order)
	updated.LastStatusUpdate = domain.TimeStamp(time.Now())

	s.store.Save(updated)
	s.events.Dispatch(ctx, domain.OrderEvent{Kind: kind, Order: updated})

	return &updated, nil
}
