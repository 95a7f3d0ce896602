package persistence

import (
	"context"

	approd "github.com/loomworks/backend/internal/application/production"
	"github.com/loomworks/backend/internal/domain/catalog"
	"github.com/loomworks/backend/internal/domain/inventory"
	"github.com/loomworks/backend/internal/domain/production"
	"gorm.io/gorm"
)

// GormProductionTransactionScope implements the production TransactionScope
// using GORM transactions. Material selection and flow completion each span
// several aggregates and must commit or roll back as one.
type GormProductionTransactionScope struct {
	db *gorm.DB
}

// NewGormProductionTransactionScope creates a new GormProductionTransactionScope.
func NewGormProductionTransactionScope(db *gorm.DB) *GormProductionTransactionScope {
	return &GormProductionTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
func (s *GormProductionTransactionScope) Execute(ctx context.Context, fn func(repos approd.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&productionTxRepositories{tx: tx})
	})
}

// productionTxRepositories provides repositories scoped to one transaction.
type productionTxRepositories struct {
	tx *gorm.DB
}

func (r *productionTxRepositories) Batches() production.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

func (r *productionTxRepositories) Flows() production.FlowRepository {
	return NewGormFlowRepository(r.tx)
}

func (r *productionTxRepositories) Materials() inventory.RawMaterialRepository {
	return NewGormRawMaterialRepository(r.tx)
}

func (r *productionTxRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *productionTxRepositories) Units() production.IndividualUnitRepository {
	return NewGormIndividualUnitRepository(r.tx)
}

func (r *productionTxRepositories) Recipes() production.RecipeRepository {
	return NewGormRecipeRepository(r.tx)
}

// Ensure the implementations satisfy the application interfaces
var _ approd.TransactionScope = (*GormProductionTransactionScope)(nil)
var _ approd.TransactionalRepositories = (*productionTxRepositories)(nil)
