package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/production"
	"github.com/loomworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormFlowRepository implements production.FlowRepository using GORM
type GormFlowRepository struct {
	db *gorm.DB
}

// NewGormFlowRepository creates a new GormFlowRepository
func NewGormFlowRepository(db *gorm.DB) *GormFlowRepository {
	return &GormFlowRepository{db: db}
}

// FindByID finds a production flow by its ID
func (r *GormFlowRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.Flow, error) {
	var flow production.Flow
	if err := r.db.WithContext(ctx).First(&flow, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &flow, nil
}

// FindByBatchID finds the flow belonging to a batch. Flows are keyed 1:1 by
// their batch.
func (r *GormFlowRepository) FindByBatchID(ctx context.Context, batchID uuid.UUID) (*production.Flow, error) {
	var flow production.Flow
	if err := r.db.WithContext(ctx).First(&flow, "batch_id = ?", batchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &flow, nil
}

// Save persists a production flow
func (r *GormFlowRepository) Save(ctx context.Context, flow *production.Flow) error {
	return r.db.WithContext(ctx).Save(flow).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormFlowRepository) SaveWithLock(ctx context.Context, flow *production.Flow) error {
	return saveWithVersionCheck(r.db.WithContext(ctx), flow)
}

// Ensure GormFlowRepository implements FlowRepository
var _ production.FlowRepository = (*GormFlowRepository)(nil)
