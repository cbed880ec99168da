package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/abc-retail-cloud/internal/domain/order"
)

// MockOrderStore is an in-memory implementation of order.Store. Create
// mirrors the all-or-nothing transaction of the real store: when
// FailItemInsert is set, nothing is written and the cart is untouched.
type MockOrderStore struct {
	mu         sync.Mutex
	nextID     int64
	nextItemID int64
	orders     map[int64]*order.Order

	Carts *MockCartStore // cart lines cleared on successful Create

	CreateErr      error
	FailItemInsert error // injected mid-transaction failure
	SetStatusErr   error

	CreateCalls    int
	SetStatusCalls []order.Status
}

func NewMockOrderStore(carts *MockCartStore) *MockOrderStore {
	return &MockOrderStore{
		orders: make(map[int64]*order.Order),
		Carts:  carts,
	}
}

func (m *MockOrderStore) Create(ctx context.Context, o *order.Order, cartID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++

	if m.CreateErr != nil {
		return m.CreateErr
	}
	if m.FailItemInsert != nil {
		return m.FailItemInsert
	}

	m.nextID++
	o.ID = m.nextID
	for i := range o.Items {
		m.nextItemID++
		o.Items[i].ID = m.nextItemID
		o.Items[i].OrderID = o.ID
	}
	stored := *o
	stored.Items = append([]order.Item(nil), o.Items...)
	m.orders[o.ID] = &stored

	if m.Carts != nil {
		if err := m.Carts.ClearItems(ctx, cartID); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockOrderStore) ByID(ctx context.Context, orderID int64) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	out := *o
	out.Items = append([]order.Item(nil), o.Items...)
	return &out, nil
}

func (m *MockOrderStore) ByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	return m.list(func(o *order.Order) bool { return o.UserID == userID })
}

func (m *MockOrderStore) All(ctx context.Context) ([]order.Order, error) {
	return m.list(func(*order.Order) bool { return true })
}

func (m *MockOrderStore) ByStatus(ctx context.Context, status order.Status) ([]order.Order, error) {
	return m.list(func(o *order.Order) bool { return o.Status == status })
}

func (m *MockOrderStore) list(keep func(*order.Order) bool) ([]order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []order.Order
	for _, o := range m.orders {
		if keep(o) {
			c := *o
			c.Items = nil
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockOrderStore) SetStatus(ctx context.Context, orderID int64, status order.Status, processedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetStatusCalls = append(m.SetStatusCalls, status)

	if m.SetStatusErr != nil {
		return m.SetStatusErr
	}
	o, ok := m.orders[orderID]
	if !ok {
		return order.ErrOrderNotFound
	}
	o.Status = status
	if processedAt != nil && o.ProcessedAt == nil {
		t := *processedAt
		o.ProcessedAt = &t
	}
	return nil
}

func (m *MockOrderStore) TotalRevenue(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, o := range m.orders {
		if o.Status.Fulfilled() {
			total += o.Total
		}
	}
	return total, nil
}

func (m *MockOrderStore) CountByStatus(ctx context.Context, status order.Status) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int
	for _, o := range m.orders {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}
