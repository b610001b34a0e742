package memory

import (
	"context"
	"sync"
	"time"

	"github.com/example/ec-shop-core/internal/domain/cart"
)

// CartRepository keeps one cart per user. Mutators persist totals derived
// with cart.Recompute so stored aggregates always match the item list.
type CartRepository struct {
	mu    sync.Mutex
	carts map[string]cart.Cart
}

func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[string]cart.Cart)}
}

func clone(c cart.Cart) *cart.Cart {
	c.Items = append([]cart.Item(nil), c.Items...)
	return &c
}

func (r *CartRepository) FindByUserID(_ context.Context, userID string) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	return clone(c), nil
}

func (r *CartRepository) Create(_ context.Context, userID string) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	c := cart.Cart{
		ID:        "cart-" + userID,
		UserID:    userID,
		Items:     []cart.Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.carts[userID] = c
	return clone(c), nil
}

func (r *CartRepository) AddItem(_ context.Context, userID string, item cart.Item) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	c.Items = append(append([]cart.Item(nil), c.Items...), item)
	return r.store(userID, c), nil
}

func (r *CartRepository) UpdateItemQuantity(_ context.Context, userID, productID string, quantity int) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	items := append([]cart.Item(nil), c.Items...)
	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}
	c.Items = items
	return r.store(userID, c), nil
}

func (r *CartRepository) RemoveItem(_ context.Context, userID, productID string) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	items := make([]cart.Item, 0, len(c.Items))
	found := false
	for _, item := range c.Items {
		if item.ProductID == productID {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		return nil, nil
	}
	c.Items = items
	return r.store(userID, c), nil
}

func (r *CartRepository) Clear(_ context.Context, userID string) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	c.Items = []cart.Item{}
	return r.store(userID, c), nil
}

// store recomputes totals, persists and returns a copy. Callers hold the lock.
func (r *CartRepository) store(userID string, c cart.Cart) *cart.Cart {
	c.ApplyTotals()
	c.UpdatedAt = time.Now()
	r.carts[userID] = c
	return clone(c)
}
