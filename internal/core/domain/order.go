package domain

import "time"

type OrderStatus string

const (
	OrderStatusAwaitingPayment OrderStatus = "AWAITING_PAYMENT"
	OrderStatusUnderReview     OrderStatus = "UNDER_REVIEW"
	OrderStatusCanceledByUser  OrderStatus = "CANCELED_BY_USER"
	OrderStatusCanceledByAdmin OrderStatus = "CANCELED_BY_ADMIN"
)

// Paid reports whether payment for the order was reported (by the user or
// by the administrator) and the order waits for settlement.
func (s OrderStatus) Paid() bool {
	return s == OrderStatusUnderReview
}

func (s OrderStatus) Canceled() bool {
	return s == OrderStatusCanceledByUser || s == OrderStatusCanceledByAdmin
}

// Message returns the human-readable status line shown to users and to the
// administrator. Machine state and display text are kept separate so
// filtering never depends on wording.
func (s OrderStatus) Message() string {
	switch s {
	case OrderStatusAwaitingPayment:
		return "Принята, ожидает оплаты клиентом"
	case OrderStatusUnderReview:
		return "Заявка оплачена — идет проверка платежа и обработка заявки"
	case OrderStatusCanceledByUser:
		return "Заявка отменена пользователем"
	case OrderStatusCanceledByAdmin:
		return "Заявка отменена администратором"
	}
	return string(s)
}

// Order is one user request to convert an amount of rubles into a
// cryptocurrency. Mutations are whole-value replacements keyed by ID.
type Order struct {
	ID           string
	Status       OrderStatus
	FromAmount   string
	FromCurrency string
	// FromAccount is the optional sender account reference.
	FromAccount string
	ToAmount    string
	// ToCurrency is the crypto ticker, optionally annotated with a network
	// label ("USDT TRC20").
	ToCurrency string
	// ToAccount is the user-supplied wallet address. Never validated.
	ToAccount string
	// PaymentDetails holds the payment instructions shown to the user. The
	// administrator may overwrite it with a proof-of-payment link.
	PaymentDetails string
	Email          string
	// CreatedAt and LastStatusUpdate are locale-formatted display stamps,
	// not canonical instants.
	CreatedAt        string
	LastStatusUpdate string
}

type CreateOrderRequest struct {
	FromCurrency  string
	ToCurrency    string
	Amount        string
	Email         string
	WalletAddress string
	FromAccount   string
}

// DateStamp renders a creation date the way the order pages display it.
func DateStamp(t time.Time) string {
	return t.Format("02.01.2006")
}

// TimeStamp renders a status-change stamp with minute precision.
func TimeStamp(t time.Time) string {
	return t.Format("02.01.2006, 15:04")
}
