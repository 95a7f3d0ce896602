package persistence

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/loomworks/backend/internal/domain/production"
)

// HealDuplicateBatchNumbers removes production batches that share a batch
// number with an earlier row, keeping the oldest. Duplicates can only exist
// in data written before the unique index on batch_number; the sweep must
// run before AutoMigrate so the index creation does not fail on them.
func HealDuplicateBatchNumbers(db *gorm.DB, log *zap.Logger) (int64, error) {
	if !db.Migrator().HasTable("production_batches") {
		return 0, nil
	}

	var duplicated []string
	err := db.Table("production_batches").
		Select("batch_number").
		Group("batch_number").
		Having("COUNT(*) > 1").
		Pluck("batch_number", &duplicated).Error
	if err != nil {
		return 0, err
	}

	var removed int64
	for _, batchNumber := range duplicated {
		var ids []uuid.UUID
		err := db.Table("production_batches").
			Where("batch_number = ?", batchNumber).
			Order("created_at ASC, id ASC").
			Pluck("id", &ids).Error
		if err != nil {
			return removed, err
		}
		if len(ids) < 2 {
			continue
		}

		dropped := ids[1:]
		result := db.Where("id IN ?", dropped).Delete(&production.Batch{})
		if result.Error != nil {
			return removed, result.Error
		}
		removed += result.RowsAffected

		log.Warn("Removed duplicate production batches",
			zap.String("batch_number", batchNumber),
			zap.Int("dropped", len(dropped)),
		)
	}

	return removed, nil
}
