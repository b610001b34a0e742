package memory

import (
	"context"
	"sync"

	"github.com/example/ec-shop-core/internal/auth"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]auth.User // keyed by email
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]auth.User)}
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Create(_ context.Context, u auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[u.Email] = u
	return nil
}
