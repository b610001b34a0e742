// Package redis implements the cart repository over Redis: one JSON document
// per user under cart:<userID>. Carts are long-lived, so no TTL is set.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/ec-shop-core/internal/domain/cart"
)

type CartRepository struct {
	client *redis.Client
}

func NewCartRepository(client *redis.Client) *CartRepository {
	return &CartRepository{client: client}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

func (r *CartRepository) load(ctx context.Context, userID string) (*cart.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return &c, nil
}

func (r *CartRepository) save(ctx context.Context, c *cart.Cart) error {
	c.ApplyTotals()
	c.UpdatedAt = time.Now()

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(c.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

func (r *CartRepository) FindByUserID(ctx context.Context, userID string) (*cart.Cart, error) {
	return r.load(ctx, userID)
}

func (r *CartRepository) Create(ctx context.Context, userID string) (*cart.Cart, error) {
	now := time.Now()
	c := &cart.Cart{
		ID:        "cart-" + userID,
		UserID:    userID,
		Items:     []cart.Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CartRepository) AddItem(ctx context.Context, userID string, item cart.Item) (*cart.Cart, error) {
	c, err := r.load(ctx, userID)
	if err != nil || c == nil {
		return nil, err
	}
	c.Items = append(c.Items, item)
	if err := r.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) (*cart.Cart, error) {
	c, err := r.load(ctx, userID)
	if err != nil || c == nil {
		return nil, err
	}
	line := c.FindItem(productID)
	if line == nil {
		return nil, nil
	}
	line.Quantity = quantity
	if err := r.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, userID, productID string) (*cart.Cart, error) {
	c, err := r.load(ctx, userID)
	if err != nil || c == nil {
		return nil, err
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
	if err := r.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CartRepository) Clear(ctx context.Context, userID string) (*cart.Cart, error) {
	c, err := r.load(ctx, userID)
	if err != nil || c == nil {
		return nil, err
	}
	c.Items = []cart.Item{}
	if err := r.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
