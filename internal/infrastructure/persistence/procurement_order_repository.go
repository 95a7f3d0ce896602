package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/procurement"
	"github.com/loomworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProcurementOrderRepository implements procurement.OrderRepository using GORM
type GormProcurementOrderRepository struct {
	db *gorm.DB
}

// NewGormProcurementOrderRepository creates a new GormProcurementOrderRepository
func NewGormProcurementOrderRepository(db *gorm.DB) *GormProcurementOrderRepository {
	return &GormProcurementOrderRepository{db: db}
}

// FindByID finds a procurement order by its ID
func (r *GormProcurementOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Order, error) {
	var order procurement.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds all procurement orders
func (r *GormProcurementOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.Order, error) {
	var orders []procurement.Order
	query := r.db.WithContext(ctx).Model(&procurement.Order{})
	query = r.applySearch(query, filter.Search)
	query = applyFilter(query, filter, ProcurementOrderSortFields)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds procurement orders in a given status
func (r *GormProcurementOrderRepository) FindByStatus(ctx context.Context, status procurement.OrderStatus, filter shared.Filter) ([]procurement.Order, error) {
	var orders []procurement.Order
	query := r.db.WithContext(ctx).Model(&procurement.Order{}).
		Where("status = ?", status)
	query = r.applySearch(query, filter.Search)
	query = applyFilter(query, filter, ProcurementOrderSortFields)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save persists a procurement order
func (r *GormProcurementOrderRepository) Save(ctx context.Context, order *procurement.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormProcurementOrderRepository) SaveWithLock(ctx context.Context, order *procurement.Order) error {
	return saveWithVersionCheck(r.db.WithContext(ctx), order)
}

// Count counts procurement orders matching the filter
func (r *GormProcurementOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&procurement.Order{})
	query = r.applySearch(query, filter.Search)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applySearch narrows the query to orders whose material or supplier contains the term
func (r *GormProcurementOrderRepository) applySearch(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	pattern := "%" + search + "%"
	return query.Where("material_name LIKE ? OR supplier LIKE ?", pattern, pattern)
}

// Ensure GormProcurementOrderRepository implements OrderRepository
var _ procurement.OrderRepository = (*GormProcurementOrderRepository)(nil)
