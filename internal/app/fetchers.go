package app

import (
	"context"

	"github.com/example/ec-shop-core/internal/domain/cart"
	"github.com/example/ec-shop-core/internal/domain/catalog"
	"github.com/example/ec-shop-core/internal/domain/order"
)

// productFetcher adapts the catalog repository to the projection the cart
// service works with.
type productFetcher struct {
	products catalog.Repository
}

func (f *productFetcher) FindByID(ctx context.Context, id string) (*cart.ProductInfo, error) {
	p, err := f.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return &cart.ProductInfo{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		Published: p.Status == catalog.StatusPublished,
	}, nil
}

// cartFetcher adapts the cart repository to the snapshot order creation
// reads and clears.
type cartFetcher struct {
	carts cart.Repository
}

func (f *cartFetcher) GetByUserID(ctx context.Context, userID string) (*order.CartSnapshot, error) {
	c, err := f.carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}

	snapshot := &order.CartSnapshot{
		Items:    make([]order.CartLine, 0, len(c.Items)),
		Subtotal: c.Subtotal,
	}
	for _, item := range c.Items {
		snapshot.Items = append(snapshot.Items, order.CartLine{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			ImageURL:    item.ImageURL,
			Quantity:    item.Quantity,
		})
	}
	return snapshot, nil
}

func (f *cartFetcher) Clear(ctx context.Context, userID string) error {
	_, err := f.carts.Clear(ctx, userID)
	return err
}
