package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
)

// FlexibleMatchKey identifies a lot for restock deliveries: brand, category,
// quality and cost are allowed to drift between restocks of a known lot.
type FlexibleMatchKey struct {
	Name     string
	Supplier string
	Unit     string
}

// StrictMatchKey identifies a lot for non-restock deliveries. Every field must
// match exactly; a single differing field means a distinct product
// specification and therefore a new lot.
type StrictMatchKey struct {
	Name         string
	Brand        string
	Category     string
	Supplier     string
	QualityGrade string
	Unit         string
}

// RawMaterialRepository defines persistence operations for raw-material lots
type RawMaterialRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RawMaterial, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]RawMaterial, error)
	FindByStatus(ctx context.Context, status StockStatus, filter shared.Filter) ([]RawMaterial, error)
	// FindFlexibleMatch returns the lot matching (name, supplier, unit),
	// or shared.ErrNotFound when no such lot exists.
	FindFlexibleMatch(ctx context.Context, key FlexibleMatchKey) (*RawMaterial, error)
	// FindStrictMatch returns the lot matching the full six-field tuple,
	// or shared.ErrNotFound when no such lot exists.
	FindStrictMatch(ctx context.Context, key StrictMatchKey) (*RawMaterial, error)
	Save(ctx context.Context, material *RawMaterial) error
	// SaveWithLock persists the lot only when its version has not moved,
	// returning shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, material *RawMaterial) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
