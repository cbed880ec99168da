package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/abc-retail-cloud/internal/domain/customer"
)

// MockCustomerStore is an in-memory implementation of customer.Store.
type MockCustomerStore struct {
	mu        sync.Mutex
	customers map[string]*customer.Customer
}

func NewMockCustomerStore() *MockCustomerStore {
	return &MockCustomerStore{customers: make(map[string]*customer.Customer)}
}

func (m *MockCustomerStore) Get(ctx context.Context, id string) (*customer.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, customer.ErrCustomerNotFound
	}
	out := *c
	return &out, nil
}

func (m *MockCustomerStore) List(ctx context.Context) ([]customer.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []customer.Customer
	for _, c := range m.customers {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockCustomerStore) Put(ctx context.Context, c *customer.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	stored := *c
	m.customers[c.ID] = &stored
	return nil
}

func (m *MockCustomerStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.customers, id)
	return nil
}
