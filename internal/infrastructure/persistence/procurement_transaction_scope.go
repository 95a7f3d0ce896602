package persistence

import (
	"context"

	approc "github.com/loomworks/backend/internal/application/procurement"
	"github.com/loomworks/backend/internal/domain/inventory"
	"github.com/loomworks/backend/internal/domain/procurement"
	"gorm.io/gorm"
)

// GormProcurementTransactionScope implements the procurement TransactionScope
// using GORM transactions. Marking an order delivered and reconciling it into
// inventory share one transaction.
type GormProcurementTransactionScope struct {
	db *gorm.DB
}

// NewGormProcurementTransactionScope creates a new GormProcurementTransactionScope.
func NewGormProcurementTransactionScope(db *gorm.DB) *GormProcurementTransactionScope {
	return &GormProcurementTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
func (s *GormProcurementTransactionScope) Execute(ctx context.Context, fn func(repos approc.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&procurementTxRepositories{tx: tx})
	})
}

// procurementTxRepositories provides repositories scoped to one transaction.
type procurementTxRepositories struct {
	tx *gorm.DB
}

func (r *procurementTxRepositories) Orders() procurement.OrderRepository {
	return NewGormProcurementOrderRepository(r.tx)
}

func (r *procurementTxRepositories) Materials() inventory.RawMaterialRepository {
	return NewGormRawMaterialRepository(r.tx)
}

// Ensure the implementations satisfy the application interfaces
var _ approc.TransactionScope = (*GormProcurementTransactionScope)(nil)
var _ approc.TransactionalRepositories = (*procurementTxRepositories)(nil)
