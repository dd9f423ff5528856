package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderEvent struct {
	EventID    uuid.UUID       `json:"event_id"`
	Type       string          `json:"type"`
	OrderID    string          `json:"order_id"`
	UserID     string          `json:"user_id"`
	Status     OrderStatus     `json:"status"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewOrderEvent(eventType string, o *Order, at time.Time) OrderEvent {
	return OrderEvent{
		EventID:    uuid.New(),
		Type:       eventType,
		OrderID:    o.ID(),
		UserID:     o.UserID(),
		Status:     o.Status(),
		Total:      o.TotalPrice(),
		OccurredAt: at,
	}
}
