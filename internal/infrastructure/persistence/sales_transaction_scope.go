package persistence

import (
	"context"

	appsales "github.com/loomworks/backend/internal/application/sales"
	"github.com/loomworks/backend/internal/domain/catalog"
	"github.com/loomworks/backend/internal/domain/inventory"
	"github.com/loomworks/backend/internal/domain/production"
	"github.com/loomworks/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormSalesTransactionScope implements the sales TransactionScope using GORM
// transactions. Dispatch deducts stock across the full item list in one pass
// and a partial deduction must never be persisted.
type GormSalesTransactionScope struct {
	db *gorm.DB
}

// NewGormSalesTransactionScope creates a new GormSalesTransactionScope.
func NewGormSalesTransactionScope(db *gorm.DB) *GormSalesTransactionScope {
	return &GormSalesTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
func (s *GormSalesTransactionScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&salesTxRepositories{tx: tx})
	})
}

// salesTxRepositories provides repositories scoped to one transaction.
type salesTxRepositories struct {
	tx *gorm.DB
}

func (r *salesTxRepositories) Orders() sales.OrderRepository {
	return NewGormSalesOrderRepository(r.tx)
}

func (r *salesTxRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *salesTxRepositories) Materials() inventory.RawMaterialRepository {
	return NewGormRawMaterialRepository(r.tx)
}

func (r *salesTxRepositories) Units() production.IndividualUnitRepository {
	return NewGormIndividualUnitRepository(r.tx)
}

// Ensure the implementations satisfy the application interfaces
var _ appsales.TransactionScope = (*GormSalesTransactionScope)(nil)
var _ appsales.TransactionalRepositories = (*salesTxRepositories)(nil)
