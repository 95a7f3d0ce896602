package production

import (
	"context"

	"github.com/loomworks/backend/internal/domain/catalog"
	"github.com/loomworks/backend/internal/domain/inventory"
	"github.com/loomworks/backend/internal/domain/production"
)

// TransactionalRepositories exposes the repositories a production operation
// touches, all scoped to one database transaction
type TransactionalRepositories interface {
	Batches() production.BatchRepository
	Flows() production.FlowRepository
	Materials() inventory.RawMaterialRepository
	Products() catalog.ProductRepository
	Units() production.IndividualUnitRepository
	Recipes() production.RecipeRepository
}

// TransactionScope runs a function atomically. Material selection deducts
// stock and records consumption in one pass; flow completion creates units,
// credits finished goods and completes the batch in one pass. Either all of
// it commits or none does.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
