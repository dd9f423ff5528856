package model

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a frozen copy of a cart. Only its status changes after creation.
type Order struct {
	id        string
	userID    string
	items     []CartItem
	createdAt time.Time

	mu     sync.RWMutex
	status OrderStatus
}

func NewOrder(id, userID string, items []CartItem, createdAt time.Time) *Order {
	return &Order{
		id:        id,
		userID:    userID,
		items:     append([]CartItem(nil), items...),
		createdAt: createdAt,
		status:    OrderStatusNew,
	}
}

func (o *Order) ID() string           { return o.id }
func (o *Order) UserID() string       { return o.userID }
func (o *Order) CreatedAt() time.Time { return o.createdAt }

func (o *Order) Items() []CartItem {
	return append([]CartItem(nil), o.items...)
}

func (o *Order) TotalPrice() decimal.Decimal {
	return sumItems(o.items)
}

func (o *Order) Status() OrderStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.status
}

// UpdateStatus sets the status without consulting any transition rules.
func (o *Order) UpdateStatus(s OrderStatus) {
	o.mu.Lock()
	o.status = s
	o.mu.Unlock()
}

// Return marks a delivered order as returned.
func (o *Order) Return() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != OrderStatusDelivered {
		return ErrOrderNotReturnable
	}
	o.status = OrderStatusReturned
	return nil
}

// Transition moves the order to status when policy allows it from the
// current status. It reports the previous status and whether the move
// happened.
func (o *Order) Transition(to OrderStatus, policy StatusPolicy) (OrderStatus, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	from := o.status
	if !policy.Allows(from, to) {
		return from, false
	}
	o.status = to
	return from, true
}
