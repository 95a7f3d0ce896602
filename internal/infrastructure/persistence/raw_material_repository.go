package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/inventory"
	"github.com/loomworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormRawMaterialRepository implements inventory.RawMaterialRepository using GORM
type GormRawMaterialRepository struct {
	db *gorm.DB
}

// NewGormRawMaterialRepository creates a new GormRawMaterialRepository
func NewGormRawMaterialRepository(db *gorm.DB) *GormRawMaterialRepository {
	return &GormRawMaterialRepository{db: db}
}

// FindByID finds a raw-material lot by its ID
func (r *GormRawMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.RawMaterial, error) {
	var material inventory.RawMaterial
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindAll finds all raw-material lots
func (r *GormRawMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.RawMaterial, error) {
	var materials []inventory.RawMaterial
	query := r.db.WithContext(ctx).Model(&inventory.RawMaterial{})
	query = r.applySearch(query, filter.Search)
	query = applyFilter(query, filter, MaterialSortFields)

	if err := query.Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// FindByStatus finds lots in a given stock-status bucket
func (r *GormRawMaterialRepository) FindByStatus(ctx context.Context, status inventory.StockStatus, filter shared.Filter) ([]inventory.RawMaterial, error) {
	var materials []inventory.RawMaterial
	query := r.db.WithContext(ctx).Model(&inventory.RawMaterial{}).
		Where("status = ?", status)
	query = r.applySearch(query, filter.Search)
	query = applyFilter(query, filter, MaterialSortFields)

	if err := query.Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// FindFlexibleMatch finds the lot for a restock delivery. Brand, category,
// quality and cost may drift between restocks, so only name, supplier and
// unit participate in the match.
func (r *GormRawMaterialRepository) FindFlexibleMatch(ctx context.Context, key inventory.FlexibleMatchKey) (*inventory.RawMaterial, error) {
	var material inventory.RawMaterial
	if err := r.db.WithContext(ctx).
		Where("name = ? AND supplier = ? AND unit = ?", key.Name, key.Supplier, key.Unit).
		First(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindStrictMatch finds the lot matching the full six-field specification.
// A single differing field means a distinct lot.
func (r *GormRawMaterialRepository) FindStrictMatch(ctx context.Context, key inventory.StrictMatchKey) (*inventory.RawMaterial, error) {
	var material inventory.RawMaterial
	if err := r.db.WithContext(ctx).
		Where("name = ? AND brand = ? AND category = ? AND supplier = ? AND quality_grade = ? AND unit = ?",
			key.Name, key.Brand, key.Category, key.Supplier, key.QualityGrade, key.Unit).
		First(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// Save persists a raw-material lot
func (r *GormRawMaterialRepository) Save(ctx context.Context, material *inventory.RawMaterial) error {
	return r.db.WithContext(ctx).Save(material).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormRawMaterialRepository) SaveWithLock(ctx context.Context, material *inventory.RawMaterial) error {
	return saveWithVersionCheck(r.db.WithContext(ctx), material)
}

// Count counts raw-material lots matching the filter
func (r *GormRawMaterialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.RawMaterial{})
	query = r.applySearch(query, filter.Search)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applySearch narrows the query to lots whose name or supplier contains the term
func (r *GormRawMaterialRepository) applySearch(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	pattern := "%" + search + "%"
	return query.Where("name LIKE ? OR supplier LIKE ?", pattern, pattern)
}

// Ensure GormRawMaterialRepository implements RawMaterialRepository
var _ inventory.RawMaterialRepository = (*GormRawMaterialRepository)(nil)
