package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/flicky/go-shop/internal/model"
)

var ErrUsernameTaken = errors.New("username taken")

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	List(ctx context.Context) ([]*model.User, error)
}

type memUserRepo struct {
	mu    sync.RWMutex
	users []*model.User
	byID  map[string]*model.User
}

func NewUserRepository() UserRepository {
	return &memUserRepo{byID: make(map[string]*model.User)}
}

// Create stores user if no stored user has the same username. A user without
// an id is assigned "user<N+1>", N being the number of stored users.
func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	username := user.Username()
	for _, u := range r.users {
		if u.Username() == username {
			return ErrUsernameTaken
		}
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user%d", len(r.users)+1)
	}
	if _, ok := r.byID[user.ID]; ok {
		return fmt.Errorf("create user: duplicate id %s", user.ID)
	}
	r.users = append(r.users, user)
	r.byID[user.ID] = user
	return nil
}

// List returns users in registration order.
func (r *memUserRepo) List(_ context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*model.User(nil), r.users...), nil
}
