package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/production"
	"github.com/loomworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBatchRepository implements production.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a production batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.Batch, error) {
	var batch production.Batch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByBatchNumber finds a production batch by its unique batch number
func (r *GormBatchRepository) FindByBatchNumber(ctx context.Context, batchNumber string) (*production.Batch, error) {
	var batch production.Batch
	if err := r.db.WithContext(ctx).First(&batch, "batch_number = ?", batchNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindAll finds all production batches
func (r *GormBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.Batch, error) {
	var batches []production.Batch
	query := applyFilter(r.db.WithContext(ctx).Model(&production.Batch{}), filter, BatchSortFields)

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByStatus finds production batches in a given status
func (r *GormBatchRepository) FindByStatus(ctx context.Context, status production.BatchStatus, filter shared.Filter) ([]production.Batch, error) {
	var batches []production.Batch
	query := applyFilter(
		r.db.WithContext(ctx).Model(&production.Batch{}).
			Where("status = ?", status),
		filter, BatchSortFields,
	)

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Save persists a production batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *production.Batch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormBatchRepository) SaveWithLock(ctx context.Context, batch *production.Batch) error {
	return saveWithVersionCheck(r.db.WithContext(ctx), batch)
}

// Count counts production batches matching the filter
func (r *GormBatchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&production.Batch{})
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormBatchRepository implements BatchRepository
var _ production.BatchRepository = (*GormBatchRepository)(nil)
