package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/inventory"
	"github.com/loomworks/backend/internal/domain/notification"
	"github.com/loomworks/backend/internal/domain/procurement"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeNotificationRepo struct {
	notifications map[uuid.UUID]notification.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[uuid.UUID]notification.Notification)}
}

func (r *fakeNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (*notification.Notification, error) {
	if n, ok := r.notifications[id]; ok {
		return &n, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeNotificationRepo) FindAll(_ context.Context, _ shared.Filter) ([]notification.Notification, error) {
	out := make([]notification.Notification, 0, len(r.notifications))
	for _, n := range r.notifications {
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeNotificationRepo) FindPending(_ context.Context, _ shared.Filter) ([]notification.Notification, error) {
	var out []notification.Notification
	for _, n := range r.notifications {
		if n.Status == notification.StatusPending {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) FindByKind(_ context.Context, kind notification.Kind, _ shared.Filter) ([]notification.Notification, error) {
	var out []notification.Notification
	for _, n := range r.notifications {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) Save(_ context.Context, n *notification.Notification) error {
	r.notifications[n.ID] = *n
	return nil
}

func (r *fakeNotificationRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.notifications)), nil
}

func (r *fakeNotificationRepo) single(t *testing.T) notification.Notification {
	require.Len(t, r.notifications, 1)
	for _, n := range r.notifications {
		return n
	}
	return notification.Notification{}
}

func TestShortageHandler_RecordsMaterialShortage(t *testing.T) {
	repo := newFakeNotificationRepo()
	handler := NewShortageHandler(zap.NewNop(), repo)

	event := procurement.NewShortageDetectedEvent(procurement.Shortage{
		MaterialID:    uuid.New(),
		MaterialName:  "Blue Dye",
		Unit:          "kg",
		Requested:     decimal.NewFromInt(10),
		Available:     decimal.NewFromInt(3),
		Shortage:      decimal.NewFromInt(7),
		EstimatedCost: valueobject.NewMoneyINRFromFloat(840),
	})
	require.NoError(t, handler.Handle(context.Background(), event))

	n := repo.single(t)
	assert.Equal(t, notification.KindMaterialShortage, n.Kind)
	assert.Equal(t, notification.StatusPending, n.Status)
	assert.Contains(t, n.Title, "Blue Dye")
	assert.Equal(t, "7", n.Payload["shortage"])
}

func TestStockLevelHandler_IgnoresHealthyBuckets(t *testing.T) {
	repo := newFakeNotificationRepo()
	handler := NewStockLevelHandler(zap.NewNop(), repo)

	m, err := inventory.NewRawMaterial("Cotton Yarn", "", "", "", "", "rolls",
		decimal.NewFromInt(100), decimal.NewFromInt(5), decimal.Zero, valueobject.NewMoneyINRFromFloat(120))
	require.NoError(t, err)
	m.ClearDomainEvents()

	require.NoError(t, m.Consume(decimal.NewFromInt(10)))
	for _, event := range m.GetDomainEvents() {
		require.NoError(t, handler.Handle(context.Background(), event))
	}

	assert.Empty(t, repo.notifications, "an in-stock transition must not notify")
}

func TestStockLevelHandler_RecordsLowStockTransition(t *testing.T) {
	repo := newFakeNotificationRepo()
	handler := NewStockLevelHandler(zap.NewNop(), repo)

	m, err := inventory.NewRawMaterial("Cotton Yarn", "", "", "", "", "rolls",
		decimal.NewFromInt(10), decimal.NewFromInt(5), decimal.Zero, valueobject.NewMoneyINRFromFloat(120))
	require.NoError(t, err)
	m.ClearDomainEvents()

	require.NoError(t, m.Consume(decimal.NewFromInt(7)))
	for _, event := range m.GetDomainEvents() {
		require.NoError(t, handler.Handle(context.Background(), event))
	}

	n := repo.single(t)
	assert.Equal(t, notification.KindStockUpdate, n.Kind)
	assert.Contains(t, n.Title, "low-stock")
	assert.Equal(t, "3", n.Payload["new_stock"])
}

func TestService_ResolveIsTerminal(t *testing.T) {
	repo := newFakeNotificationRepo()
	service := NewService(repo)

	n, err := notification.NewNotification(notification.KindStockUpdate, "Cotton Yarn is low-stock", "", nil)
	require.NoError(t, err)
	repo.notifications[n.ID] = *n

	resolved, err := service.Resolve(context.Background(), n.ID, ResolveRequest{ResolvedBy: "ramesh"})
	require.NoError(t, err)
	assert.Equal(t, "resolved", resolved.Status)
	assert.Equal(t, "ramesh", resolved.ResolvedBy)

	_, err = service.Resolve(context.Background(), n.ID, ResolveRequest{ResolvedBy: "ramesh"})
	require.Error(t, err)
	assert.Equal(t, "ALREADY_RESOLVED", err.(*shared.DomainError).Code)
}

func TestService_ListPendingOnly(t *testing.T) {
	repo := newFakeNotificationRepo()
	service := NewService(repo)

	pending, err := notification.NewNotification(notification.KindMaterialShortage, "Blue Dye shortage", "", nil)
	require.NoError(t, err)
	repo.notifications[pending.ID] = *pending

	resolved, err := notification.NewNotification(notification.KindStockUpdate, "Cotton Yarn is low-stock", "", nil)
	require.NoError(t, err)
	require.NoError(t, resolved.Resolve("priya"))
	repo.notifications[resolved.ID] = *resolved

	out, _, err := service.List(context.Background(), ListFilter{PendingOnly: true})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Blue Dye shortage", out[0].Title)
}
