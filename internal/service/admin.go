package service

import (
	"context"
	"fmt"

	"github.com/flicky/go-shop/internal/model"
)

func (s *Shop) Users(ctx context.Context, sess *model.Session) ([]*model.User, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// AllOrders lists every order, grouped by user in registration order and
// then in placement order.
func (s *Shop) AllOrders(ctx context.Context, sess *model.Session) ([]*model.Order, error) {
	users, err := s.Users(ctx, sess)
	if err != nil {
		return nil, err
	}
	var orders []*model.Order
	for _, u := range users {
		orders = append(orders, u.OrderHistory()...)
	}
	return orders, nil
}

func (s *Shop) SetOrderStatus(ctx context.Context, sess *model.Session, orderID string, status model.OrderStatus) (*model.Order, error) {
	users, err := s.Users(ctx, sess)
	if err != nil {
		return nil, err
	}
	var order *model.Order
	for _, u := range users {
		if o, ok := u.OrderByID(orderID); ok {
			order = o
			break
		}
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	from, ok := order.Transition(status, s.cfg.StatusPolicy)
	if !ok {
		return nil, fmt.Errorf("%s -> %s: %w", from, status, ErrInvalidTransition)
	}
	s.log.Info("order status changed",
		"order_id", order.ID(),
		"from", string(from),
		"to", string(status),
		"admin_id", sess.User.ID,
	)
	s.publish(ctx, model.EventOrderStatusChanged, order)
	return order, nil
}
