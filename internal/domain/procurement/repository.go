package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
)

// OrderRepository defines persistence operations for procurement orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)
	Save(ctx context.Context, order *Order) error
	// SaveWithLock persists the order only when its version has not moved,
	// returning shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, order *Order) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
