package persistence

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// legacyBatch mirrors the production_batches table as written before the
// unique index on batch_number existed.
type legacyBatch struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchNumber string    `gorm:"type:varchar(50);not null"`
	ProductID   uuid.UUID `gorm:"type:uuid"`
	Status      string    `gorm:"type:varchar(20)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (legacyBatch) TableName() string {
	return "production_batches"
}

func setupLegacyBatchDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&legacyBatch{}))
	return db
}

func TestHealDuplicateBatchNumbers_KeepsOldest(t *testing.T) {
	db := setupLegacyBatchDB(t)

	oldest := legacyBatch{
		ID: uuid.New(), BatchNumber: "BAT-2024-001", Status: "completed",
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	newer := legacyBatch{
		ID: uuid.New(), BatchNumber: "BAT-2024-001", Status: "planning",
		CreatedAt: time.Now().Add(-1 * time.Hour),
	}
	unrelated := legacyBatch{
		ID: uuid.New(), BatchNumber: "BAT-2024-002", Status: "active",
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, db.Create(&oldest).Error)
	require.NoError(t, db.Create(&newer).Error)
	require.NoError(t, db.Create(&unrelated).Error)

	removed, err := HealDuplicateBatchNumbers(db, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var survivors []legacyBatch
	require.NoError(t, db.Order("batch_number").Find(&survivors).Error)
	require.Len(t, survivors, 2)
	assert.Equal(t, oldest.ID, survivors[0].ID)
	assert.Equal(t, unrelated.ID, survivors[1].ID)
}

func TestHealDuplicateBatchNumbers_NoDuplicates(t *testing.T) {
	db := setupLegacyBatchDB(t)

	require.NoError(t, db.Create(&legacyBatch{
		ID: uuid.New(), BatchNumber: "BAT-2024-001", CreatedAt: time.Now(),
	}).Error)

	removed, err := HealDuplicateBatchNumbers(db, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestHealDuplicateBatchNumbers_MissingTable(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	removed, err := HealDuplicateBatchNumbers(db, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
