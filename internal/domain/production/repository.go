package production

import (
	"context"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
)

// BatchRepository defines persistence operations for production batches
type BatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)
	FindByBatchNumber(ctx context.Context, batchNumber string) (*Batch, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Batch, error)
	FindByStatus(ctx context.Context, status BatchStatus, filter shared.Filter) ([]Batch, error)
	Save(ctx context.Context, batch *Batch) error
	// SaveWithLock persists the batch only when its version has not moved,
	// returning shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, batch *Batch) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// FlowRepository defines persistence operations for production flows.
// A flow is keyed 1:1 by its batch.
type FlowRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Flow, error)
	FindByBatchID(ctx context.Context, batchID uuid.UUID) (*Flow, error)
	Save(ctx context.Context, flow *Flow) error
	// SaveWithLock enforces one logical writer per flow: a write is rejected
	// with shared.ErrConcurrencyConflict when the flow's version has moved.
	SaveWithLock(ctx context.Context, flow *Flow) error
}

// IndividualUnitRepository defines persistence operations for individual units
type IndividualUnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*IndividualUnit, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]IndividualUnit, error)
	FindByCustomID(ctx context.Context, customID string) (*IndividualUnit, error)
	FindByBatchID(ctx context.Context, batchID uuid.UUID) ([]IndividualUnit, error)
	FindAvailableByProduct(ctx context.Context, productID uuid.UUID) ([]IndividualUnit, error)
	// MaxSequence returns the highest allocated sequence for the prefix
	// across all batches, or 0 when none exists. Custom IDs are unique
	// globally, not per batch.
	MaxSequence(ctx context.Context, prefix string) (int64, error)
	Save(ctx context.Context, unit *IndividualUnit) error
	SaveAll(ctx context.Context, units []*IndividualUnit) error
}

// RecipeRepository defines persistence operations for recipes
type RecipeRepository interface {
	// FindByProductID returns the product's recipe, or shared.ErrNotFound
	FindByProductID(ctx context.Context, productID uuid.UUID) (*Recipe, error)
	Save(ctx context.Context, recipe *Recipe) error
}
