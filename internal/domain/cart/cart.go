// Package cart owns the shopping cart model, its aggregation invariant, and
// the cart usecases. Exactly one cart exists per user; it is created lazily
// on first access and cleared, never deleted, when converted into an order.
package cart

import (
	"context"
	"time"
)

type Item struct {
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Price       int       `json:"price"`
	ImageURL    string    `json:"image_url,omitempty"`
	Quantity    int       `json:"quantity"`
	AddedAt     time.Time `json:"added_at"`
}

type Cart struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Items     []Item    `json:"items"`
	Subtotal  int       `json:"subtotal"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Totals are the derived aggregates kept consistent with the item list.
type Totals struct {
	Subtotal  int
	ItemCount int
}

// Recompute derives the cart totals from the full item list. It is re-run
// after every mutation rather than patched incrementally, so partial updates
// can never drift the aggregates.
func Recompute(items []Item) Totals {
	var t Totals
	for _, item := range items {
		t.Subtotal += item.Price * item.Quantity
		t.ItemCount += item.Quantity
	}
	return t
}

// ApplyTotals recomputes and stores the derived aggregates on the cart.
func (c *Cart) ApplyTotals() {
	t := Recompute(c.Items)
	c.Subtotal = t.Subtotal
	c.ItemCount = t.ItemCount
}

// FindItem returns the line for productID, or nil.
func (c *Cart) FindItem(productID string) *Item {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Repository is the only storage contact point for carts. FindByUserID
// returns (nil, nil) when the user has no cart yet. Mutators return the
// updated cart with totals already persisted via Recompute, and (nil, nil)
// when the targeted line does not exist.
type Repository interface {
	FindByUserID(ctx context.Context, userID string) (*Cart, error)
	Create(ctx context.Context, userID string) (*Cart, error)
	AddItem(ctx context.Context, userID string, item Item) (*Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*Cart, error)
	Clear(ctx context.Context, userID string) (*Cart, error)
}

// ProductInfo is the minimal product projection the cart needs, so this
// package does not depend on the full catalog repository.
type ProductInfo struct {
	ID        string
	Name      string
	Price     int
	ImageURL  string
	Published bool
}

// ProductFetcher resolves products for cart mutations. FindByID returns
// (nil, nil) when the product does not exist.
type ProductFetcher interface {
	FindByID(ctx context.Context, id string) (*ProductInfo, error)
}
