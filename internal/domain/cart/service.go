package cart

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/ec-shop-core/internal/apperr"
	"github.com/example/ec-shop-core/internal/authz"
	"github.com/example/ec-shop-core/internal/schema"
)

// Service implements the cart usecases.
type Service struct {
	repo     Repository
	products ProductFetcher
	logger   logrus.FieldLogger
}

func NewService(repo Repository, products ProductFetcher, logger logrus.FieldLogger) *Service {
	return &Service{repo: repo, products: products, logger: logger}
}

// Get returns the caller's cart. Creating an empty cart on first access is a
// documented side effect of this call, not an accident: every user has
// exactly one cart from the moment they first look at it.
func (s *Service) Get(ctx context.Context, sess *authz.Session) (*Cart, error) {
	if err := authz.Require(sess, authz.RoleBuyer); err != nil {
		return nil, err
	}
	return s.loadOrCreate(ctx, sess.UserID)
}

func (s *Service) loadOrCreate(ctx context.Context, userID string) (*Cart, error) {
	c, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("find cart", err)
	}
	if c != nil {
		return c, nil
	}

	c, err = s.repo.Create(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("create cart", err)
	}
	s.logger.WithField("user_id", userID).Debug("cart created on first access")
	return c, nil
}

var addItemSchema = schema.New(
	schema.String("product_id").Required(),
	schema.Int("quantity").Default(1).Min(1),
)

type addItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// AddItem puts a product into the caller's cart. Adding a product already in
// the cart increments the existing line instead of duplicating it.
func (s *Service) AddItem(ctx context.Context, sess *authz.Session, raw any) (*Cart, error) {
	if err := authz.Require(sess, authz.RoleBuyer); err != nil {
		return nil, err
	}

	in, err := schema.Parse[addItemInput](addItemSchema, raw)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, apperr.Internal("fetch product", err)
	}
	if product == nil || !product.Published {
		return nil, apperr.NotFound("product not found")
	}

	c, err := s.loadOrCreate(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	var updated *Cart
	if line := c.FindItem(in.ProductID); line != nil {
		updated, err = s.repo.UpdateItemQuantity(ctx, sess.UserID, in.ProductID, line.Quantity+in.Quantity)
	} else {
		updated, err = s.repo.AddItem(ctx, sess.UserID, Item{
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       product.Price,
			ImageURL:    product.ImageURL,
			Quantity:    in.Quantity,
			AddedAt:     time.Now(),
		})
	}
	if err != nil {
		return nil, apperr.Internal("add cart item", err)
	}

	updated.ApplyTotals()
	return updated, nil
}

var updateItemSchema = schema.New(
	schema.String("product_id").Required(),
	schema.Int("quantity").Required().Min(1),
)

type updateItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// UpdateItem sets the quantity of an existing cart line.
func (s *Service) UpdateItem(ctx context.Context, sess *authz.Session, raw any) (*Cart, error) {
	if err := authz.Require(sess, authz.RoleBuyer); err != nil {
		return nil, err
	}

	in, err := schema.Parse[updateItemInput](updateItemSchema, raw)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateItemQuantity(ctx, sess.UserID, in.ProductID, in.Quantity)
	if err != nil {
		return nil, apperr.Internal("update cart item", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("cart item not found")
	}

	updated.ApplyTotals()
	return updated, nil
}

var removeItemSchema = schema.New(
	schema.String("product_id").Required(),
)

type removeItemInput struct {
	ProductID string `json:"product_id"`
}

// RemoveItem deletes a line from the caller's cart.
func (s *Service) RemoveItem(ctx context.Context, sess *authz.Session, raw any) (*Cart, error) {
	if err := authz.Require(sess, authz.RoleBuyer); err != nil {
		return nil, err
	}

	in, err := schema.Parse[removeItemInput](removeItemSchema, raw)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.RemoveItem(ctx, sess.UserID, in.ProductID)
	if err != nil {
		return nil, apperr.Internal("remove cart item", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("cart item not found")
	}

	updated.ApplyTotals()
	return updated, nil
}
