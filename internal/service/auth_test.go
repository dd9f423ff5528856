package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShop_Register(t *testing.T) {
	shop, _ := newTestShop(t)
	ctx := context.Background()

	user, err := shop.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "user2", user.ID)
	assert.False(t, user.IsAdmin())

	_, err = shop.Register(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestShop_Register_Validation(t *testing.T) {
	shop, _ := newTestShop(t)
	ctx := context.Background()

	_, err := shop.Register(ctx, " ", "pw")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = shop.Register(ctx, "bob", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestShop_Login(t *testing.T) {
	shop, _ := newTestShop(t)
	ctx := context.Background()
	_, err := shop.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	sess, err := shop.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.User.Username())
}

func TestShop_Login_WrongPassword(t *testing.T) {
	shop, _ := newTestShop(t)
	ctx := context.Background()
	_, err := shop.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = shop.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = shop.Login(ctx, "nobody", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestShop_Login_FirstMatchWinsAfterRename(t *testing.T) {
	shop, _ := newTestShop(t)
	ctx := context.Background()
	alice := registerAndLogin(t, shop, "alice", "pw")
	bob := registerAndLogin(t, shop, "bob", "pw")

	require.NoError(t, shop.RenameSelf(ctx, bob, "alice"))

	sess, err := shop.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Same(t, alice.User, sess.User)
}

func TestShop_RenameSelf(t *testing.T) {
	shop, _ := newTestShop(t)
	ctx := context.Background()
	sess := registerAndLogin(t, shop, "alice", "pw")

	require.NoError(t, shop.RenameSelf(ctx, sess, "alicia"))
	assert.Equal(t, "alicia", sess.User.Username())
	assert.ErrorIs(t, shop.RenameSelf(ctx, sess, ""), ErrValidation)

	_, err := shop.Login(ctx, "alicia", "pw")
	assert.NoError(t, err)
}

func TestShop_ChangePassword(t *testing.T) {
	shop, _ := newTestShop(t)
	ctx := context.Background()
	sess := registerAndLogin(t, shop, "alice", "old")

	err := shop.ChangePassword(ctx, sess, "wrong", "new")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, shop.ChangePassword(ctx, sess, "old", "new"))
	_, err = shop.Login(ctx, "alice", "old")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = shop.Login(ctx, "alice", "new")
	assert.NoError(t, err)
}
