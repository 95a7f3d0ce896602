package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
)

// Repository defines persistence operations for notifications
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Notification, error)
	FindPending(ctx context.Context, filter shared.Filter) ([]Notification, error)
	FindByKind(ctx context.Context, kind Kind, filter shared.Filter) ([]Notification, error)
	Save(ctx context.Context, n *Notification) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
