package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/sales"
	"github.com/loomworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSalesOrderRepository implements sales.OrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds a sales order by its ID
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	var order sales.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds a sales order by its unique order number
func (r *GormSalesOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*sales.Order, error) {
	var order sales.Order
	if err := r.db.WithContext(ctx).First(&order, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds all sales orders
func (r *GormSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Order, error) {
	var orders []sales.Order
	query := r.db.WithContext(ctx).Model(&sales.Order{})
	query = r.applySearch(query, filter.Search)
	query = applyFilter(query, filter, SalesOrderSortFields)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds sales orders in a given status
func (r *GormSalesOrderRepository) FindByStatus(ctx context.Context, status sales.OrderStatus, filter shared.Filter) ([]sales.Order, error) {
	var orders []sales.Order
	query := r.db.WithContext(ctx).Model(&sales.Order{}).
		Where("status = ?", status)
	query = r.applySearch(query, filter.Search)
	query = applyFilter(query, filter, SalesOrderSortFields)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save persists a sales order
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *sales.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormSalesOrderRepository) SaveWithLock(ctx context.Context, order *sales.Order) error {
	return saveWithVersionCheck(r.db.WithContext(ctx), order)
}

// Count counts sales orders matching the filter
func (r *GormSalesOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&sales.Order{})
	query = r.applySearch(query, filter.Search)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applySearch narrows the query to orders whose number or customer contains the term
func (r *GormSalesOrderRepository) applySearch(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	pattern := "%" + search + "%"
	return query.Where("order_number LIKE ? OR customer_name LIKE ?", pattern, pattern)
}

// Ensure GormSalesOrderRepository implements OrderRepository
var _ sales.OrderRepository = (*GormSalesOrderRepository)(nil)
