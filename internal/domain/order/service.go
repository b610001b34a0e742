package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/ec-shop-core/internal/apperr"
	"github.com/example/ec-shop-core/internal/authz"
	"github.com/example/ec-shop-core/internal/schema"
)

// Service implements the order usecases.
type Service struct {
	repo      Repository
	carts     CartFetcher
	publisher EventPublisher
	logger    logrus.FieldLogger
}

func NewService(repo Repository, carts CartFetcher, publisher EventPublisher, logger logrus.FieldLogger) *Service {
	return &Service{repo: repo, carts: carts, publisher: publisher, logger: logger}
}

// Create converts the caller's cart into an order: snapshot the cart lines,
// write the order with status pending, then clear the cart. The clear runs
// only after the order write succeeds; if it fails the order stands and the
// stale cart is logged.
func (s *Service) Create(ctx context.Context, sess *authz.Session) (*Order, error) {
	if err := authz.Require(sess, authz.RoleBuyer); err != nil {
		return nil, err
	}

	snapshot, err := s.carts.GetByUserID(ctx, sess.UserID)
	if err != nil {
		return nil, apperr.Internal("fetch cart", err)
	}
	if snapshot == nil || len(snapshot.Items) == 0 {
		return nil, apperr.Conflict("cart is empty")
	}

	items := make([]Item, 0, len(snapshot.Items))
	total := 0
	count := 0
	for _, line := range snapshot.Items {
		items = append(items, Item{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Price:       line.Price,
			ImageURL:    line.ImageURL,
			Quantity:    line.Quantity,
		})
		total += line.Price * line.Quantity
		count += line.Quantity
	}

	now := time.Now()
	o := Order{
		ID:          uuid.New().String(),
		UserID:      sess.UserID,
		Items:       items,
		TotalAmount: total,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, apperr.Internal("create order", err)
	}

	if err := s.carts.Clear(ctx, sess.UserID); err != nil {
		s.logger.WithFields(logrus.Fields{"order_id": o.ID, "user_id": sess.UserID}).
			WithError(err).Warn("cart clear failed after order creation")
	}

	s.publish(ctx, o.ID, OrderCreated{
		EventType:   EventOrderCreated,
		OrderID:     o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		ItemCount:   count,
		CreatedAt:   o.CreatedAt,
	})

	s.logger.WithFields(logrus.Fields{"order_id": o.ID, "total": o.TotalAmount}).
		Info("order created")
	return &o, nil
}

var updateStatusSchema = schema.New(
	schema.String("id").Required(),
	schema.Enum("status", "pending", "confirmed", "shipped", "delivered", "cancelled").Required(),
)

type updateStatusInput struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// UpdateStatus moves an order through the lifecycle state machine. Admin
// only. Transitions not present in the table are rejected.
func (s *Service) UpdateStatus(ctx context.Context, sess *authz.Session, raw any) (*Order, error) {
	if err := authz.Require(sess, authz.RoleAdmin); err != nil {
		return nil, err
	}

	in, err := schema.Parse[updateStatusInput](updateStatusSchema, raw)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, apperr.Internal("find order", err)
	}
	if o == nil {
		return nil, apperr.NotFound("order not found")
	}

	target := Status(in.Status)
	if !CanTransition(o.Status, target) {
		return nil, apperr.Conflict(fmt.Sprintf(
			"invalid status transition from %s to %s", o.Status, target))
	}

	updated, err := s.repo.UpdateStatus(ctx, o.ID, target)
	if err != nil {
		return nil, apperr.Internal("update order status", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("order not found")
	}

	s.publish(ctx, o.ID, OrderStatusChanged{
		EventType: EventOrderStatusChanged,
		OrderID:   o.ID,
		From:      o.Status,
		To:        target,
		ChangedAt: updated.UpdatedAt,
	})

	s.logger.WithFields(logrus.Fields{"order_id": o.ID, "from": o.Status, "to": target}).
		Info("order status changed")
	return updated, nil
}

var listSchema = schema.New(
	schema.Int("page").Default(1).Min(1),
	schema.Int("limit").Default(20).Clamp(1, 100),
	schema.String("user_id"),
	schema.Enum("status", "pending", "confirmed", "shipped", "delivered", "cancelled"),
)

type listInput struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// List returns a page of orders. Non-admin sessions are implicitly scoped to
// their own orders; admins may filter by user or omit the filter to see all.
func (s *Service) List(ctx context.Context, sess *authz.Session, raw any) (*List, error) {
	if err := authz.Require(sess, authz.RoleBuyer); err != nil {
		return nil, err
	}

	in, err := schema.Parse[listInput](listSchema, raw)
	if err != nil {
		return nil, err
	}

	filter := Filter{UserID: in.UserID, Status: Status(in.Status)}
	if !authz.IsAdmin(sess) {
		filter.UserID = sess.UserID
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("count orders", err)
	}

	offset := (in.Page - 1) * in.Limit
	items, err := s.repo.FindAll(ctx, filter, offset, in.Limit)
	if err != nil {
		return nil, apperr.Internal("list orders", err)
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

// GetByID returns a single order. A buyer requesting another user's order
// receives NotFound, never Forbidden, so order ids cannot be probed.
func (s *Service) GetByID(ctx context.Context, sess *authz.Session, raw any) (*Order, error) {
	if err := authz.Require(sess, authz.RoleBuyer); err != nil {
		return nil, err
	}

	in, err := schema.Parse[idInput](idSchema, raw)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, apperr.Internal("find order", err)
	}
	if o == nil {
		return nil, apperr.NotFound("order not found")
	}
	if o.UserID != sess.UserID && !authz.IsAdmin(sess) {
		return nil, apperr.NotFound("order not found")
	}
	return o, nil
}

func (s *Service) publish(ctx context.Context, key string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.WithField("order_id", key).WithError(err).Warn("event publish failed")
	}
}

func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
