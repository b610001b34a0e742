package order

import (
	"context"
	"time"
)

// Event types published after successful order writes.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderCreated struct {
	EventType   string    `json:"event_type"`
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	TotalAmount int       `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type OrderStatusChanged struct {
	EventType string    `json:"event_type"`
	OrderID   string    `json:"order_id"`
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

// EventPublisher delivers order events to downstream consumers. A nil
// publisher disables publishing; a publish failure never fails the usecase.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}
