package model

import (
	"fmt"
	"strings"
)

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "NEW"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusReturned   OrderStatus = "RETURNED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var orderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusReturned,
	OrderStatusCancelled,
}

func OrderStatuses() []OrderStatus {
	return append([]OrderStatus(nil), orderStatuses...)
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	want := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range orderStatuses {
		if st == want {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// StatusPolicy decides whether an order may move from one status to another.
type StatusPolicy interface {
	Allows(from, to OrderStatus) bool
}

type anyTransition struct{}

func (anyTransition) Allows(_, _ OrderStatus) bool { return true }

// AnyTransition permits every status change.
var AnyTransition StatusPolicy = anyTransition{}

type forwardOnly struct{}

var forwardEdges = map[OrderStatus][]OrderStatus{
	OrderStatusNew:        {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusReturned},
}

func (forwardOnly) Allows(from, to OrderStatus) bool {
	for _, next := range forwardEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ForwardOnly follows NEW -> PROCESSING -> SHIPPED -> DELIVERED -> RETURNED,
// with cancellation possible until the order ships.
var ForwardOnly StatusPolicy = forwardOnly{}

func ParseStatusPolicy(name string) (StatusPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "any":
		return AnyTransition, nil
	case "forward":
		return ForwardOnly, nil
	default:
		return nil, fmt.Errorf("unknown status policy %q", name)
	}
}
