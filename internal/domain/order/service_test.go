package order

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ec-shop-core/internal/apperr"
	"github.com/example/ec-shop-core/internal/authz"
)

// fakeRepo is an in-memory Repository.
type fakeRepo struct {
	orders map[string]Order
}

func newFakeRepo() *fakeRepo { return &fakeRepo{orders: make(map[string]Order)} }

func (r *fakeRepo) matching(filter Filter) []Order {
	var out []Order
	for _, o := range r.orders {
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeRepo) FindAll(_ context.Context, filter Filter, offset, limit int) ([]Order, error) {
	items := r.matching(filter)
	if offset >= len(items) {
		return nil, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *fakeRepo) Create(_ context.Context, o Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) (*Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	r.orders[id] = o
	return &o, nil
}

func (r *fakeRepo) Count(_ context.Context, filter Filter) (int, error) {
	return len(r.matching(filter)), nil
}

// fakeCarts is an in-memory CartFetcher that can fail Clear on demand.
type fakeCarts struct {
	carts      map[string]*CartSnapshot
	clearCalls []string
	clearErr   error
}

func newFakeCarts() *fakeCarts { return &fakeCarts{carts: make(map[string]*CartSnapshot)} }

func (f *fakeCarts) GetByUserID(_ context.Context, userID string) (*CartSnapshot, error) {
	return f.carts[userID], nil
}

func (f *fakeCarts) Clear(_ context.Context, userID string) error {
	f.clearCalls = append(f.clearCalls, userID)
	if f.clearErr != nil {
		return f.clearErr
	}
	delete(f.carts, userID)
	return nil
}

// fakePublisher records published events.
type fakePublisher struct {
	events []any
}

func (p *fakePublisher) Publish(_ context.Context, _ string, event any) error {
	p.events = append(p.events, event)
	return nil
}

func newTestService() (*Service, *fakeRepo, *fakeCarts, *fakePublisher) {
	repo := newFakeRepo()
	carts := newFakeCarts()
	pub := &fakePublisher{}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewService(repo, carts, pub, logger), repo, carts, pub
}

func buyer() *authz.Session  { return &authz.Session{UserID: "u-1", Role: authz.RoleBuyer} }
func admin() *authz.Session  { return &authz.Session{UserID: "a-1", Role: authz.RoleAdmin} }
func buyer2() *authz.Session { return &authz.Session{UserID: "u-2", Role: authz.RoleBuyer} }

func seedCart(carts *fakeCarts, userID string) {
	carts.carts[userID] = &CartSnapshot{
		Items: []CartLine{
			{ProductID: "P1", ProductName: "Mug", Price: 1000, Quantity: 3},
			{ProductID: "P2", ProductName: "Poster", Price: 500, Quantity: 1},
		},
		Subtotal: 3500,
	}
}

// ============================================
// Transition Table Tests
// ============================================

func TestCanTransition_Table(t *testing.T) {
	all := []Status{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}
	legal := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusShipped, StatusCancelled},
		StatusShipped:   {StatusDelivered},
		StatusDelivered: {},
		StatusCancelled: {},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, ok := range legal[from] {
				if ok == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestNextStatuses(t *testing.T) {
	assert.ElementsMatch(t, []Status{StatusConfirmed, StatusCancelled}, NextStatuses(StatusPending))
	assert.Empty(t, NextStatuses(StatusDelivered))
	assert.Empty(t, NextStatuses(StatusCancelled))
}

// ============================================
// Create Tests
// ============================================

func TestCreate_SnapshotsCartAndClears(t *testing.T) {
	svc, repo, carts, pub := newTestService()
	seedCart(carts, "u-1")

	o, err := svc.Create(context.Background(), buyer())

	require.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 3500, o.TotalAmount)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Mug", o.Items[0].ProductName)

	// Cart cleared only after the order write.
	assert.Equal(t, []string{"u-1"}, carts.clearCalls)
	assert.NotContains(t, carts.carts, "u-1")
	assert.Contains(t, repo.orders, o.ID)

	require.Len(t, pub.events, 1)
	created, ok := pub.events[0].(OrderCreated)
	require.True(t, ok)
	assert.Equal(t, o.ID, created.OrderID)
	assert.Equal(t, 4, created.ItemCount)
}

func TestCreate_EmptyCart(t *testing.T) {
	svc, repo, carts, _ := newTestService()
	carts.carts["u-1"] = &CartSnapshot{Items: []CartLine{}}

	_, err := svc.Create(context.Background(), buyer())

	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Equal(t, 400, apperr.KindConflict.HTTPStatus())
	assert.Empty(t, repo.orders)
	assert.Empty(t, carts.clearCalls, "empty cart is never cleared")
}

func TestCreate_NoCart(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Create(context.Background(), buyer())

	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestCreate_ClearFailureKeepsOrder(t *testing.T) {
	svc, repo, carts, _ := newTestService()
	seedCart(carts, "u-1")
	carts.clearErr = errors.New("store unavailable")

	o, err := svc.Create(context.Background(), buyer())

	// The order is durable; a failed clear is logged, not surfaced.
	require.NoError(t, err)
	assert.Contains(t, repo.orders, o.ID)
}

func TestCreate_SnapshotImmuneToLaterCartChanges(t *testing.T) {
	svc, _, carts, _ := newTestService()
	seedCart(carts, "u-1")

	o, err := svc.Create(context.Background(), buyer())
	require.NoError(t, err)

	// Mutating the snapshot source afterwards must not affect the order.
	seedCart(carts, "u-1")
	carts.carts["u-1"].Items[0].Price = 9999

	got, err := svc.GetByID(context.Background(), buyer(), map[string]any{"id": o.ID})
	require.NoError(t, err)
	assert.Equal(t, 3500, got.TotalAmount)
	assert.Equal(t, 1000, got.Items[0].Price)
}

func TestCreate_RequiresSession(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Create(context.Background(), nil)

	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

// ============================================
// UpdateStatus Tests
// ============================================

func seedOrder(repo *fakeRepo, id, userID string, status Status) {
	repo.orders[id] = Order{ID: id, UserID: userID, Status: status, TotalAmount: 100,
		Items: []Item{{ProductID: "P1", Price: 100, Quantity: 1}}}
}

func TestUpdateStatus_LegalTransition(t *testing.T) {
	svc, repo, _, pub := newTestService()
	seedOrder(repo, "o-1", "u-1", StatusPending)

	o, err := svc.UpdateStatus(context.Background(), admin(), map[string]any{
		"id":     "o-1",
		"status": "confirmed",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, o.Status)

	require.Len(t, pub.events, 1)
	changed, ok := pub.events[0].(OrderStatusChanged)
	require.True(t, ok)
	assert.Equal(t, StatusPending, changed.From)
	assert.Equal(t, StatusConfirmed, changed.To)
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	svc, repo, _, pub := newTestService()
	seedOrder(repo, "o-1", "u-1", StatusPending)

	_, err := svc.UpdateStatus(context.Background(), admin(), map[string]any{
		"id":     "o-1",
		"status": "delivered",
	})

	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Equal(t, StatusPending, repo.orders["o-1"].Status)
	assert.Empty(t, pub.events)
}

func TestUpdateStatus_TerminalStates(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedOrder(repo, "o-1", "u-1", StatusDelivered)
	seedOrder(repo, "o-2", "u-1", StatusCancelled)

	for _, id := range []string{"o-1", "o-2"} {
		_, err := svc.UpdateStatus(context.Background(), admin(), map[string]any{
			"id":     id,
			"status": "pending",
		})
		assert.True(t, apperr.IsKind(err, apperr.KindConflict), "order %s", id)
	}
}

func TestUpdateStatus_RequiresAdmin(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedOrder(repo, "o-1", "u-1", StatusPending)

	_, err := svc.UpdateStatus(context.Background(), buyer(), map[string]any{
		"id":     "o-1",
		"status": "confirmed",
	})

	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.UpdateStatus(context.Background(), admin(), map[string]any{
		"id":     "nope",
		"status": "confirmed",
	})

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateStatus_InvalidStatusValue(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.UpdateStatus(context.Background(), admin(), map[string]any{
		"id":     "o-1",
		"status": "teleported",
	})

	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

// ============================================
// List / GetByID Tests
// ============================================

func TestList_BuyerScopedToOwnOrders(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedOrder(repo, "o-1", "u-1", StatusPending)
	seedOrder(repo, "o-2", "u-2", StatusPending)

	// Requesting another user's orders is silently overridden.
	out, err := svc.List(context.Background(), buyer(), map[string]any{"user_id": "u-2"})

	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "o-1", out.Items[0].ID)
}

func TestList_AdminMayFilterOrSeeAll(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedOrder(repo, "o-1", "u-1", StatusPending)
	seedOrder(repo, "o-2", "u-2", StatusPending)

	out, err := svc.List(context.Background(), admin(), nil)
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)

	out, err = svc.List(context.Background(), admin(), map[string]any{"user_id": "u-2"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "o-2", out.Items[0].ID)
}

func TestList_Pagination(t *testing.T) {
	svc, repo, _, _ := newTestService()
	for _, id := range []string{"o-1", "o-2", "o-3"} {
		seedOrder(repo, id, "u-1", StatusPending)
	}

	out, err := svc.List(context.Background(), buyer(), map[string]any{"page": "2", "limit": "2"})

	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, 3, out.Pagination.Total)
	assert.Equal(t, 2, out.Pagination.TotalPages)
}

func TestGetByID_Owner(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedOrder(repo, "o-1", "u-1", StatusPending)

	o, err := svc.GetByID(context.Background(), buyer(), map[string]any{"id": "o-1"})

	require.NoError(t, err)
	assert.Equal(t, "o-1", o.ID)
}

func TestGetByID_ForeignOrderHidden(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedOrder(repo, "o-1", "u-1", StatusPending)

	// NotFound, never Forbidden.
	_, err := svc.GetByID(context.Background(), buyer2(), map[string]any{"id": "o-1"})

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestGetByID_AdminSeesAll(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedOrder(repo, "o-1", "u-1", StatusPending)

	o, err := svc.GetByID(context.Background(), admin(), map[string]any{"id": "o-1"})

	require.NoError(t, err)
	assert.Equal(t, "u-1", o.UserID)
}
