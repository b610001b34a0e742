package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ec-shop-core/internal/domain/cart"
)

func TestCartRepository_TotalsPersisted(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, "u-1")
	require.NoError(t, err)

	c, err := repo.AddItem(ctx, "u-1", cart.Item{
		ProductID: "P1", ProductName: "Mug", Price: 1000, Quantity: 2, AddedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, 2000, c.Subtotal)
	assert.Equal(t, 2, c.ItemCount)

	// Re-read to confirm totals were stored, not just returned.
	c, err = repo.FindByUserID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2000, c.Subtotal)
	assert.Equal(t, 2, c.ItemCount)
}

func TestCartRepository_MissingLine(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, "u-1")
	require.NoError(t, err)

	c, err := repo.UpdateItemQuantity(ctx, "u-1", "nope", 3)
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = repo.RemoveItem(ctx, "u-1", "nope")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCartRepository_ClearKeepsCart(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, "u-1")
	require.NoError(t, err)
	_, err = repo.AddItem(ctx, "u-1", cart.Item{ProductID: "P1", Price: 100, Quantity: 1})
	require.NoError(t, err)

	c, err := repo.Clear(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, c, "clearing empties the cart, it does not delete it")
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.Subtotal)
	assert.Equal(t, 0, c.ItemCount)
}

func TestCartRepository_ReturnsCopies(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, "u-1")
	require.NoError(t, err)
	c1, err := repo.AddItem(ctx, "u-1", cart.Item{ProductID: "P1", Price: 100, Quantity: 1})
	require.NoError(t, err)

	// Mutating a returned cart must not leak into the store.
	c1.Items[0].Quantity = 99

	c2, err := repo.FindByUserID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 1, c2.Items[0].Quantity)
}
