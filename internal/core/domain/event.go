package domain

type EventKind string

const (
	EventOrderCreated     EventKind = "ORDER_CREATED"
	EventPaymentReported  EventKind = "PAYMENT_REPORTED"
	EventConfirmedByAdmin EventKind = "CONFIRMED_BY_ADMIN"
	EventCanceledByUser   EventKind = "CANCELED_BY_USER"
	EventCanceledByAdmin  EventKind = "CANCELED_BY_ADMIN"
)

// OrderEvent is emitted by the lifecycle service after every committed
// order mutation. Notifiers consume it best-effort: delivery failures never
// reach the caller and never roll back the store write.
type OrderEvent struct {
	Kind  EventKind
	Order Order
}
