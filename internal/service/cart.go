package service

import (
	"context"
	"errors"

	"github.com/flicky/go-shop/internal/model"
)

var ErrCartItemNotFound = errors.New("cart item not found")

func (s *Shop) Cart(_ context.Context, sess *model.Session) *model.Cart {
	return sess.User.Cart
}

func (s *Shop) AddToCart(ctx context.Context, sess *model.Session, productID string, quantity int) error {
	p, err := s.Product(ctx, productID)
	if err != nil {
		return err
	}
	return sess.User.Cart.Add(p, quantity)
}

func (s *Shop) RemoveFromCart(ctx context.Context, sess *model.Session, productID string, quantity int) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity
	}
	p, err := s.Product(ctx, productID)
	if err != nil {
		return err
	}
	cart := sess.User.Cart
	if cart.Quantity(p) == 0 {
		return ErrCartItemNotFound
	}
	cart.Remove(p, quantity)
	return nil
}
