// Package order owns the order model, its lifecycle state machine, and the
// order usecases. Order items are point-in-time snapshots of cart lines and
// never track later product changes; an order is never deleted.
package order

import (
	"context"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// transitions is the directed graph of legal status changes. delivered and
// cancelled are terminal. Both the status usecase and any UI affordance must
// query this table, never re-derive it.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition reports whether from → to is a legal status change.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal targets from a status, for callers that
// render transition affordances.
func NextStatuses(from Status) []Status {
	next := transitions[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// Item is an immutable snapshot of a cart line at order creation time.
type Item struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       int    `json:"price"`
	ImageURL    string `json:"image_url,omitempty"`
	Quantity    int    `json:"quantity"`
}

type Order struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Items       []Item    `json:"items"`
	TotalAmount int       `json:"total_amount"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter narrows order listings. An empty UserID means all users.
type Filter struct {
	UserID string
	Status Status
}

// Repository is the only storage contact point for orders. FindByID returns
// (nil, nil) when the order does not exist; UpdateStatus returns the updated
// order, or (nil, nil) when the id is unknown.
type Repository interface {
	FindAll(ctx context.Context, filter Filter, offset, limit int) ([]Order, error)
	FindByID(ctx context.Context, id string) (*Order, error)
	Create(ctx context.Context, o Order) error
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
	Count(ctx context.Context, filter Filter) (int, error)
}

// CartLine is the slice of cart data order creation snapshots.
type CartLine struct {
	ProductID   string
	ProductName string
	Price       int
	ImageURL    string
	Quantity    int
}

// CartSnapshot is the minimal cart projection order creation reads.
type CartSnapshot struct {
	Items    []CartLine
	Subtotal int
}

// CartFetcher reads and clears the user's cart without depending on the full
// cart repository. GetByUserID returns (nil, nil) when the user has no cart.
type CartFetcher interface {
	GetByUserID(ctx context.Context, userID string) (*CartSnapshot, error)
	Clear(ctx context.Context, userID string) error
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// List is the paged listing result.
type List struct {
	Items      []Order    `json:"items"`
	Pagination Pagination `json:"pagination"`
}
