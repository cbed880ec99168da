package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/example/abc-retail-cloud/internal/domain/user"
)

// MockUserStore is an in-memory implementation of user.Store.
type MockUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*user.User

	InsertErr error
}

func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[int64]*user.User)}
}

func (m *MockUserStore) Insert(ctx context.Context, u *user.User) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.ErrEmailTaken
		}
	}
	m.nextID++
	u.ID = m.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m *MockUserStore) ByID(ctx context.Context, id int64) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (m *MockUserStore) ByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, user.ErrUserNotFound
}
