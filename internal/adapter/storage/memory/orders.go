// Package memory holds the process-local stores. The service is explicitly
// single-instance with no durability: orders live for the lifetime of the
// process and cancellation is a status value, not a removal.
package memory

import (
	"strconv"
	"sync"
	"time"

	"github.com/sberbits/exchange/internal/core/domain"
)

type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	// keys preserves creation order so listings can show newest first.
	keys   []string
	lastID int64
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[string]domain.Order),
	}
}

// Save inserts or fully overwrites the order by id. Last write wins;
// concurrent mutation of the same id carries no conflict detection.
func (s *OrderStore) Save(order domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; !ok {
		s.keys = append(s.keys, order.ID)
	}
	s.orders[order.ID] = order
}

func (s *OrderStore) Get(id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderStore) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.orders[id]
	return ok
}

func (s *OrderStore) All() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.Order, 0, len(s.keys))
	for _, id := range s.keys {
		list = append(list, s.orders[id])
	}
	return list
}

func (s *OrderStore) ListBy(fn func(domain.Order) bool) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []domain.Order
	for _, id := range s.keys {
		if o := s.orders[id]; fn(o) {
			list = append(list, o)
		}
	}
	return list
}

// NextID mints a numeric order id from the current unix-millisecond clock,
// bumped monotonically when two creations land in the same millisecond.
// Ids stay numeric so the bot's bare-number lookup keeps working.
func (s *OrderStore) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}
