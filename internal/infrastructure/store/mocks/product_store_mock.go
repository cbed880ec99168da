package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/abc-retail-cloud/internal/domain/catalog"
)

// MockProductStore is an in-memory implementation of catalog.Store with
// the same version guard as the DynamoDB store.
type MockProductStore struct {
	mu       sync.Mutex
	products map[string]*catalog.Product

	GetErr    error
	UpdateErr error

	UpdateCalls []string // product ids, in call order
}

func NewMockProductStore() *MockProductStore {
	return &MockProductStore{products: make(map[string]*catalog.Product)}
}

// Seed inserts a product directly, bypassing the version guard.
func (m *MockProductStore) Seed(p catalog.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Version == 0 {
		p.Version = 1
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m.products[p.ID] = &p
}

func (m *MockProductStore) Get(ctx context.Context, id string) (*catalog.Product, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	out := *p
	return &out, nil
}

func (m *MockProductStore) List(ctx context.Context) ([]catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalog.Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockProductStore) Put(ctx context.Context, p *catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Version = 1
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	stored := *p
	m.products[p.ID] = &stored
	return nil
}

func (m *MockProductStore) Update(ctx context.Context, p *catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls = append(m.UpdateCalls, p.ID)

	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	cur, ok := m.products[p.ID]
	if !ok {
		return catalog.ErrProductNotFound
	}
	if cur.Version != p.Version {
		return catalog.ErrVersionConflict
	}
	p.Version++
	stored := *p
	m.products[p.ID] = &stored
	return nil
}

func (m *MockProductStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}
