package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/ec-shop-core/internal/apperr"
	"github.com/example/ec-shop-core/internal/authz"
	"github.com/example/ec-shop-core/internal/schema"
)

// Service implements the catalog usecases. Every operation follows the same
// order: authorize, validate, domain logic against the repository.
type Service struct {
	repo   Repository
	logger logrus.FieldLogger
}

func NewService(repo Repository, logger logrus.FieldLogger) *Service {
	return &Service{repo: repo, logger: logger}
}

var listSchema = schema.New(
	schema.Int("page").Default(1).Min(1),
	schema.Int("limit").Default(20).Clamp(1, 100),
	schema.Enum("status", "draft", "published", "archived"),
	schema.String("q").MaxLen(200),
)

type listInput struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Status string `json:"status"`
	Query  string `json:"q"`
}

// List returns a page of products. Not authorization-gated; non-admin
// sessions are silently constrained to published products regardless of the
// requested status filter.
func (s *Service) List(ctx context.Context, sess *authz.Session, raw any) (*List, error) {
	in, err := schema.Parse[listInput](listSchema, raw)
	if err != nil {
		return nil, err
	}

	filter := Filter{Status: Status(in.Status), Query: in.Query}
	if !authz.IsAdmin(sess) {
		filter.Status = StatusPublished
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("count products", err)
	}

	offset := (in.Page - 1) * in.Limit
	items, err := s.repo.FindAll(ctx, filter, offset, in.Limit)
	if err != nil {
		return nil, apperr.Internal("list products", err)
	}

	return &List{
		Items: items,
		Pagination: Pagination{
			Page:       in.Page,
			Limit:      in.Limit,
			Total:      total,
			TotalPages: totalPages(total, in.Limit),
		},
	}, nil
}

var idSchema = schema.New(
	schema.String("id").Required(),
)

type idInput struct {
	ID string `json:"id"`
}

// GetByID returns a single product. Public; a non-published product requested
// by a non-admin yields NotFound rather than Forbidden, so unpublished
// inventory cannot be probed.
func (s *Service) GetByID(ctx context.Context, sess *authz.Session, raw any) (*Product, error) {
	in, err := schema.Parse[idInput](idSchema, raw)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, apperr.Internal("find product", err)
	}
	if p == nil {
		return nil, apperr.NotFound("product not found")
	}
	if p.Status != StatusPublished && !authz.IsAdmin(sess) {
		return nil, apperr.NotFound("product not found")
	}
	return p, nil
}

var createSchema = schema.New(
	schema.String("name").Required().MinLen(1).MaxLen(200),
	schema.Int("price").Required().Min(0),
	schema.String("description").MaxLen(2000),
	schema.String("image_url").MaxLen(500),
	schema.Enum("status", "draft", "published", "archived").Default("draft"),
)

type createInput struct {
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Status      string `json:"status"`
}

// Create registers a new product. Admin only.
func (s *Service) Create(ctx context.Context, sess *authz.Session, raw any) (*Product, error) {
	if err := authz.Require(sess, authz.RoleAdmin); err != nil {
		return nil, err
	}

	in, err := schema.Parse[createInput](createSchema, raw)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Status:      Status(in.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperr.Internal("create product", err)
	}

	s.logger.WithFields(logrus.Fields{"product_id": p.ID, "status": p.Status}).
		Info("product created")
	return &p, nil
}

var updateSchema = schema.New(
	schema.String("id").Required(),
	schema.String("name").MinLen(1).MaxLen(200),
	schema.Int("price").Min(0),
	schema.String("description").MaxLen(2000),
	schema.String("image_url").MaxLen(500),
)

type updateInput struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Price       *int    `json:"price"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// Update modifies the provided fields of an existing product. Admin only.
func (s *Service) Update(ctx context.Context, sess *authz.Session, raw any) (*Product, error) {
	if err := authz.Require(sess, authz.RoleAdmin); err != nil {
		return nil, err
	}

	in, err := schema.Parse[updateInput](updateSchema, raw)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, apperr.Internal("find product", err)
	}
	if p == nil {
		return nil, apperr.NotFound("product not found")
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, *p); err != nil {
		return nil, apperr.Internal("update product", err)
	}
	return p, nil
}

var statusSchema = schema.New(
	schema.String("id").Required(),
	schema.Enum("status", "draft", "published", "archived").Required(),
)

type statusInput struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// UpdateStatus moves a product through its lifecycle. Admin only.
func (s *Service) UpdateStatus(ctx context.Context, sess *authz.Session, raw any) (*Product, error) {
	if err := authz.Require(sess, authz.RoleAdmin); err != nil {
		return nil, err
	}

	in, err := schema.Parse[statusInput](statusSchema, raw)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, apperr.Internal("find product", err)
	}
	if p == nil {
		return nil, apperr.NotFound("product not found")
	}

	p.Status = Status(in.Status)
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, *p); err != nil {
		return nil, apperr.Internal("update product status", err)
	}

	s.logger.WithFields(logrus.Fields{"product_id": p.ID, "status": p.Status}).
		Info("product status changed")
	return p, nil
}

// Delete removes a product from the catalog. Admin only.
func (s *Service) Delete(ctx context.Context, sess *authz.Session, raw any) error {
	if err := authz.Require(sess, authz.RoleAdmin); err != nil {
		return err
	}

	in, err := schema.Parse[idInput](idSchema, raw)
	if err != nil {
		return err
	}

	p, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return apperr.Internal("find product", err)
	}
	if p == nil {
		return apperr.NotFound("product not found")
	}

	if err := s.repo.Delete(ctx, in.ID); err != nil {
		return apperr.Internal("delete product", err)
	}

	s.logger.WithField("product_id", in.ID).Info("product deleted")
	return nil
}

func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
