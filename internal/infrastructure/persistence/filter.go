package persistence

import (
	"github.com/loomworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter applies pagination and ordering to a query. The sort field is
// validated against the whitelist so user input never reaches the ORDER BY
// clause unchecked.
func applyFilter(query *gorm.DB, filter shared.Filter, allowedSort map[string]bool) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, allowedSort, "created_at")
	dir := ValidateSortOrder(filter.OrderDir)
	return query.Order(field + " " + dir)
}

// saveWithVersionCheck persists an aggregate only when the stored row still
// carries the version the aggregate was loaded at. The comparison uses the
// load-time version rather than Version-1, so a single save may carry any
// number of mutator bumps, including none at all.
func saveWithVersionCheck(tx *gorm.DB, entity shared.AggregateRoot) error {
	result := tx.Model(entity).
		Where("version = ?", entity.LoadedVersion()).
		Select("*").
		Omit("created_at").
		Updates(entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
