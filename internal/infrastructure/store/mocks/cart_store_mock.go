// Package mocks provides in-memory store implementations for tests.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/abc-retail-cloud/internal/domain/cart"
)

// MockCartStore is an in-memory implementation of cart.Store.
type MockCartStore struct {
	mu     sync.Mutex
	nextID int64
	carts  map[int64]*cart.Cart // by cart id
	byUser map[int64]int64      // user id -> cart id
	items  map[int64]*cart.Item // by item id

	// Error injection for tests.
	GetOrCreateErr error
	UpsertErr      error
}

func NewMockCartStore() *MockCartStore {
	return &MockCartStore{
		carts:  make(map[int64]*cart.Cart),
		byUser: make(map[int64]int64),
		items:  make(map[int64]*cart.Item),
	}
}

func (m *MockCartStore) nextIDLocked() int64 {
	m.nextID++
	return m.nextID
}

func (m *MockCartStore) GetOrCreate(ctx context.Context, userID int64) (*cart.Cart, error) {
	if m.GetOrCreateErr != nil {
		return nil, m.GetOrCreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.byUser[userID]; ok {
		c := *m.carts[id]
		return &c, nil
	}

	now := time.Now().UTC()
	c := &cart.Cart{ID: m.nextIDLocked(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	m.carts[c.ID] = c
	m.byUser[userID] = c.ID
	out := *c
	return &out, nil
}

func (m *MockCartStore) UpsertItem(ctx context.Context, cartID int64, productID, productName string, unitPrice int64, quantity int) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, it := range m.items {
		if it.CartID == cartID && it.ProductID == productID {
			it.Quantity += quantity
			return nil
		}
	}

	id := m.nextIDLocked()
	m.items[id] = &cart.Item{
		ID:          id,
		CartID:      cartID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		AddedAt:     time.Now().UTC(),
	}
	if c, ok := m.carts[cartID]; ok {
		c.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (m *MockCartStore) SetItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[itemID]
	if !ok {
		return cart.ErrItemNotFound
	}
	it.Quantity = quantity
	return nil
}

func (m *MockCartStore) DeleteItem(ctx context.Context, itemID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[itemID]; !ok {
		return cart.ErrItemNotFound
	}
	delete(m.items, itemID)
	return nil
}

func (m *MockCartStore) ItemsByCart(ctx context.Context, cartID int64) ([]cart.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []cart.Item
	for _, it := range m.items {
		if it.CartID == cartID {
			items = append(items, *it)
		}
	}
	// Most recently added first; ids are monotonic.
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func (m *MockCartStore) ClearItems(ctx context.Context, cartID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, it := range m.items {
		if it.CartID == cartID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *MockCartStore) Total(ctx context.Context, cartID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, it := range m.items {
		if it.CartID == cartID {
			total += it.LineTotal()
		}
	}
	return total, nil
}

func (m *MockCartStore) ItemCount(ctx context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cartID, ok := m.byUser[userID]
	if !ok {
		return 0, nil
	}
	var count int
	for _, it := range m.items {
		if it.CartID == cartID {
			count += it.Quantity
		}
	}
	return count, nil
}
