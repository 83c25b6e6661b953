package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sberbits/exchange/internal/adapter/storage/memory"
	"github.com/sberbits/exchange/internal/core/domain"
)

func TestSaveAndGet(t *testing.T) {
	store := memory.NewOrderStore()

	order := domain.Order{ID: "100", Status: domain.OrderStatusAwaitingPayment}
	store.Save(order)

	got, err := store.Get("100")
	require.NoError(t, err)
	assert.Equal(t, order, got)
	assert.True(t, store.Has("100"))
}

func TestGetNotFound(t *testing.T) {
	store := memory.NewOrderStore()

	_, err := store.Get("100")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.False(t, store.Has("100"))
}

func TestSaveOverwrites(t *testing.T) {
	store := memory.NewOrderStore()

	store.Save(domain.Order{ID: "100", Status: domain.OrderStatusAwaitingPayment})
	store.Save(domain.Order{ID: "100", Status: domain.OrderStatusUnderReview})

	got, err := store.Get("100")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusUnderReview, got.Status)
	assert.Len(t, store.All(), 1)
}

func TestAllKeepsCreationOrder(t *testing.T) {
	store := memory.NewOrderStore()

	for _, id := range []string{"3", "1", "2"} {
		store.Save(domain.Order{ID: id})
	}

	list := store.All()
	require.Len(t, list, 3)
	assert.Equal(t, "3", list[0].ID)
	assert.Equal(t, "1", list[1].ID)
	assert.Equal(t, "2", list[2].ID)
}

func TestListBy(t *testing.T) {
	store := memory.NewOrderStore()

	store.Save(domain.Order{ID: "1", Status: domain.OrderStatusAwaitingPayment})
	store.Save(domain.Order{ID: "2", Status: domain.OrderStatusCanceledByUser})
	store.Save(domain.Order{ID: "3", Status: domain.OrderStatusUnderReview})

	active := store.ListBy(func(o domain.Order) bool { return !o.Status.Canceled() })
	require.Len(t, active, 2)
	assert.Equal(t, "1", active[0].ID)
	assert.Equal(t, "3", active[1].ID)

	canceled := store.ListBy(func(o domain.Order) bool { return o.Status.Canceled() })
	require.Len(t, canceled, 1)
	assert.Equal(t, "2", canceled[0].ID)
}

func TestNextIDUnique(t *testing.T) {
	store := memory.NewOrderStore()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := store.NextID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
