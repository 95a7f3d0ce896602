package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/backend/internal/domain/production"
)

func seedUnit(t *testing.T, repo *GormIndividualUnitRepository, batchID, productID uuid.UUID, customID string, sequence int64) *production.IndividualUnit {
	t.Helper()
	unit, err := production.NewIndividualUnit(batchID, productID, customID, sequence, production.UnitDraft{
		CustomID:       customID,
		FinalWeight:    "450g",
		FinalThickness: "4mm",
		FinalWidth:     "70cm",
		FinalHeight:    "140cm",
		QualityGrade:   "A",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), unit))
	return unit
}

func TestGormIndividualUnitRepository_FindByCustomID(t *testing.T) {
	repo := NewGormIndividualUnitRepository(setupTestDB(t))

	batchID, productID := uuid.New(), uuid.New()
	seedUnit(t, repo, batchID, productID, "CBT-0001", 1)

	found, err := repo.FindByCustomID(context.Background(), "CBT-0001")
	require.NoError(t, err)
	assert.Equal(t, batchID, found.BatchID)
	assert.Equal(t, int64(1), found.Sequence)
}

func TestGormIndividualUnitRepository_MaxSequenceSpansBatches(t *testing.T) {
	repo := NewGormIndividualUnitRepository(setupTestDB(t))
	ctx := context.Background()

	productID := uuid.New()
	seedUnit(t, repo, uuid.New(), productID, "CBT-0001", 1)
	seedUnit(t, repo, uuid.New(), productID, "CBT-0007", 7)
	// a different prefix never influences the sequence
	seedUnit(t, repo, uuid.New(), uuid.New(), "WSC-0042", 42)

	max, err := repo.MaxSequence(ctx, "CBT")
	require.NoError(t, err)
	assert.Equal(t, int64(7), max)

	max, err = repo.MaxSequence(ctx, "XYZ")
	require.NoError(t, err)
	assert.Equal(t, int64(0), max)
}

func TestGormIndividualUnitRepository_FindAvailableByProduct(t *testing.T) {
	repo := NewGormIndividualUnitRepository(setupTestDB(t))
	ctx := context.Background()

	productID := uuid.New()
	batchID := uuid.New()
	seedUnit(t, repo, batchID, productID, "CBT-0002", 2)
	sold := seedUnit(t, repo, batchID, productID, "CBT-0001", 1)

	require.NoError(t, sold.MarkSold(uuid.New(), "Asha Traders"))
	sold.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, sold))

	available, err := repo.FindAvailableByProduct(ctx, productID)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "CBT-0002", available[0].CustomID)
}

func TestGormIndividualUnitRepository_SaveAll(t *testing.T) {
	repo := NewGormIndividualUnitRepository(setupTestDB(t))
	ctx := context.Background()

	batchID, productID := uuid.New(), uuid.New()
	var units []*production.IndividualUnit
	for i, customID := range []string{"CBT-0001", "CBT-0002", "CBT-0003"} {
		unit, err := production.NewIndividualUnit(batchID, productID, customID, int64(i+1), production.UnitDraft{
			CustomID:       customID,
			FinalWeight:    "450g",
			FinalThickness: "4mm",
			FinalWidth:     "70cm",
			FinalHeight:    "140cm",
			QualityGrade:   "A",
		})
		require.NoError(t, err)
		units = append(units, unit)
	}
	require.NoError(t, repo.SaveAll(ctx, units))

	found, err := repo.FindByBatchID(ctx, batchID)
	require.NoError(t, err)
	require.Len(t, found, 3)
	// FindByBatchID returns units in sequence order
	assert.Equal(t, "CBT-0001", found[0].CustomID)
	assert.Equal(t, "CBT-0003", found[2].CustomID)
}
