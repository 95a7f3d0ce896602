package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/notification"
	"github.com/loomworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindAll finds all notifications
func (r *GormNotificationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]notification.Notification, error) {
	var notifications []notification.Notification
	query := applyFilter(r.db.WithContext(ctx).Model(&notification.Notification{}), filter, NotificationSortFields)

	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindPending finds notifications that have not been resolved yet
func (r *GormNotificationRepository) FindPending(ctx context.Context, filter shared.Filter) ([]notification.Notification, error) {
	var notifications []notification.Notification
	query := applyFilter(
		r.db.WithContext(ctx).Model(&notification.Notification{}).
			Where("resolved_at IS NULL"),
		filter, NotificationSortFields,
	)

	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindByKind finds notifications of a given kind
func (r *GormNotificationRepository) FindByKind(ctx context.Context, kind notification.Kind, filter shared.Filter) ([]notification.Notification, error) {
	var notifications []notification.Notification
	query := applyFilter(
		r.db.WithContext(ctx).Model(&notification.Notification{}).
			Where("kind = ?", kind),
		filter, NotificationSortFields,
	)

	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// Save persists a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// Count counts notifications matching the filter
func (r *GormNotificationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&notification.Notification{})
	if kind, ok := filter.Filters["kind"]; ok {
		query = query.Where("kind = ?", kind)
	}
	if pending, ok := filter.Filters["pending"]; ok && pending == true {
		query = query.Where("resolved_at IS NULL")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormNotificationRepository implements Repository
var _ notification.Repository = (*GormNotificationRepository)(nil)
