package port

import "github.com/sberbits/exchange/internal/core/domain"

// OrderStore is a keyed upsert collection of exchange orders. Save fully
// overwrites by id, last write wins. All returns a snapshot in creation
// order; consumers that need recency reverse it themselves.
type OrderStore interface {
	Save(order domain.Order)
	Get(id string) (domain.Order, error)
	Has(id string) bool
	All() []domain.Order
	ListBy(fn func(domain.Order) bool) []domain.Order

	// NextID mints a fresh collision-resistant order id.
	NextID() string
}
