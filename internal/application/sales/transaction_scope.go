package sales

import (
	"context"

	"github.com/loomworks/backend/internal/domain/catalog"
	"github.com/loomworks/backend/internal/domain/inventory"
	"github.com/loomworks/backend/internal/domain/production"
	"github.com/loomworks/backend/internal/domain/sales"
)

// TransactionalRepositories exposes the repositories a dispatch touches,
// all scoped to one database transaction
type TransactionalRepositories interface {
	Orders() sales.OrderRepository
	Products() catalog.ProductRepository
	Materials() inventory.RawMaterialRepository
	Units() production.IndividualUnitRepository
}

// TransactionScope runs a function atomically: either every repository write
// inside commits, or none do. Dispatch deducts stock across the full item
// list in one pass and a partial deduction must never be persisted.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
