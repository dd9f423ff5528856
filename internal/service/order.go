package service

import (
	"context"
	"errors"

	"github.com/flicky/go-shop/internal/model"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// PlaceOrder turns the caller's cart into a new order and empties the cart.
func (s *Shop) PlaceOrder(ctx context.Context, sess *model.Session) (*model.Order, error) {
	items := sess.User.Cart.Checkout()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := model.NewOrder(s.cfg.NewOrderID(), sess.User.ID, items, s.cfg.Now())
	sess.User.AddOrderToHistory(order)

	s.log.Info("order placed",
		"order_id", order.ID(),
		"user_id", sess.User.ID,
		"items", len(items),
		"total", order.TotalPrice().StringFixed(2),
	)
	s.publish(ctx, model.EventOrderPlaced, order)
	return order, nil
}

func (s *Shop) Orders(_ context.Context, sess *model.Session) []*model.Order {
	return sess.User.OrderHistory()
}

func (s *Shop) Order(_ context.Context, sess *model.Session, orderID string) (*model.Order, error) {
	o, ok := sess.User.OrderByID(orderID)
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// ReturnOrder returns one of the caller's delivered orders.
func (s *Shop) ReturnOrder(ctx context.Context, sess *model.Session, orderID string) (*model.Order, error) {
	o, err := s.Order(ctx, sess, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.Return(); err != nil {
		return nil, err
	}
	s.log.Info("order returned", "order_id", o.ID(), "user_id", sess.User.ID)
	s.publish(ctx, model.EventOrderStatusChanged, o)
	return o, nil
}
