package users

import (
	"context"
	"sync"
	"time"

	"github.com/maazahmad/spendtrace/internal/domain"
)

// Memory is an in-memory Store used by tests and local runs without Postgres.
type Memory struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewMemory() *Memory {
	return &Memory{users: make(map[string]domain.User)}
}

// FindByHandle implements Store.
func (m *Memory) FindByHandle(ctx context.Context, phoneNumber string) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[phoneNumber]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

// Save implements Store.
func (m *Memory) Save(ctx context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.users[user.PhoneNumber] = user
	return nil
}

// FindAll implements Store.
func (m *Memory) FindAll(ctx context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, nil
}

var _ Store = (*Memory)(nil)
