package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/production"
	"github.com/loomworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormIndividualUnitRepository implements production.IndividualUnitRepository using GORM
type GormIndividualUnitRepository struct {
	db *gorm.DB
}

// NewGormIndividualUnitRepository creates a new GormIndividualUnitRepository
func NewGormIndividualUnitRepository(db *gorm.DB) *GormIndividualUnitRepository {
	return &GormIndividualUnitRepository{db: db}
}

// FindByID finds an individual unit by its ID
func (r *GormIndividualUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.IndividualUnit, error) {
	var unit production.IndividualUnit
	if err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindByIDs finds multiple individual units by their IDs
func (r *GormIndividualUnitRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]production.IndividualUnit, error) {
	if len(ids) == 0 {
		return []production.IndividualUnit{}, nil
	}
	var units []production.IndividualUnit
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindByCustomID finds an individual unit by its custom identifier
func (r *GormIndividualUnitRepository) FindByCustomID(ctx context.Context, customID string) (*production.IndividualUnit, error) {
	var unit production.IndividualUnit
	if err := r.db.WithContext(ctx).First(&unit, "custom_id = ?", customID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindByBatchID finds all units produced by a batch
func (r *GormIndividualUnitRepository) FindByBatchID(ctx context.Context, batchID uuid.UUID) ([]production.IndividualUnit, error) {
	var units []production.IndividualUnit
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("sequence ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindAvailableByProduct finds unsold units of a product
func (r *GormIndividualUnitRepository) FindAvailableByProduct(ctx context.Context, productID uuid.UUID) ([]production.IndividualUnit, error) {
	var units []production.IndividualUnit
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND status = ?", productID, production.UnitStatusAvailable).
		Order("sequence ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// MaxSequence returns the highest allocated sequence for the prefix across
// all batches, or 0 when none exists. Custom IDs are unique globally, not
// per batch.
func (r *GormIndividualUnitRepository) MaxSequence(ctx context.Context, prefix string) (int64, error) {
	var max *int64
	if err := r.db.WithContext(ctx).
		Model(&production.IndividualUnit{}).
		Where("custom_id LIKE ?", prefix+"-%").
		Select("MAX(sequence)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// Save persists an individual unit
func (r *GormIndividualUnitRepository) Save(ctx context.Context, unit *production.IndividualUnit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

// SaveAll persists a set of individual units in one statement
func (r *GormIndividualUnitRepository) SaveAll(ctx context.Context, units []*production.IndividualUnit) error {
	if len(units) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(units).Error
}

// Ensure GormIndividualUnitRepository implements IndividualUnitRepository
var _ production.IndividualUnitRepository = (*GormIndividualUnitRepository)(nil)
