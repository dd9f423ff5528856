package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/go-shop/internal/model"
)

func TestUserRepo_CreateAssignsSequentialIDs(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	admin := model.NewUser("admin", nil, model.RoleAdmin)
	admin.ID = "admin"
	require.NoError(t, repo.Create(ctx, admin))

	alice := model.NewUser("alice", nil, model.RoleCustomer)
	require.NoError(t, repo.Create(ctx, alice))
	assert.Equal(t, "user2", alice.ID)

	bob := model.NewUser("bob", nil, model.RoleCustomer)
	require.NoError(t, repo.Create(ctx, bob))
	assert.Equal(t, "user3", bob.ID)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*model.User{admin, alice, bob}, users)
}

func TestUserRepo_DuplicateUsername(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, model.NewUser("alice", nil, model.RoleCustomer)))
	err := repo.Create(ctx, model.NewUser("alice", nil, model.RoleCustomer))
	assert.ErrorIs(t, err, ErrUsernameTaken)

	users, _ := repo.List(ctx)
	assert.Len(t, users, 1)
}

func TestUserRepo_DuplicateID(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	first := model.NewUser("root", nil, model.RoleAdmin)
	first.ID = "admin"
	require.NoError(t, repo.Create(ctx, first))

	second := model.NewUser("other", nil, model.RoleAdmin)
	second.ID = "admin"
	assert.Error(t, repo.Create(ctx, second))

	users, _ := repo.List(ctx)
	assert.Len(t, users, 1)
}

func TestUserRepo_ConcurrentRegistration(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("user-%d", i%10)
			if repo.Create(ctx, model.NewUser(name, nil, model.RoleCustomer)) == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, created)
	users, _ := repo.List(ctx)
	ids := make(map[string]bool)
	for _, u := range users {
		ids[u.ID] = true
	}
	assert.Len(t, ids, 10)
}
