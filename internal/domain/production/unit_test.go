package production

import (
	"testing"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCustomID(t *testing.T) {
	assert.Equal(t, "CBT-0001", FormatCustomID("CBT", 1))
	assert.Equal(t, "CBT-0042", FormatCustomID("CBT", 42))
	assert.Equal(t, "S-12345", FormatCustomID("S", 12345))
}

func TestNewIndividualUnit(t *testing.T) {
	u, err := NewIndividualUnit(uuid.New(), uuid.New(), "CBT-0001", 1, completeDraft("CBT-0001"))
	require.NoError(t, err)

	assert.Equal(t, UnitStatusAvailable, u.Status)
	assert.Equal(t, "CBT-0001", u.CustomID)
	assert.Equal(t, "450g", u.FinalWeight)
	assert.True(t, u.IsAvailable())
}

func TestNewIndividualUnit_RejectsIncompleteDraft(t *testing.T) {
	draft := completeDraft("CBT-0001")
	draft.QualityGrade = ""

	_, err := NewIndividualUnit(uuid.New(), uuid.New(), "CBT-0001", 1, draft)
	require.Error(t, err)
	assert.Equal(t, "MISSING_FINISH_FIELDS", err.(*shared.DomainError).Code)
	assert.Contains(t, err.(*shared.DomainError).Details, "qualityGrade")
}

func TestIndividualUnit_MarkSold(t *testing.T) {
	u, err := NewIndividualUnit(uuid.New(), uuid.New(), "CBT-0001", 1, completeDraft("CBT-0001"))
	require.NoError(t, err)

	orderID := uuid.New()
	require.NoError(t, u.MarkSold(orderID, "Meera Traders"))

	assert.Equal(t, UnitStatusSold, u.Status)
	assert.Equal(t, orderID, *u.SoldOrderID)
	assert.Equal(t, "Meera Traders", u.SoldCustomer)
	require.NotNil(t, u.SoldAt)

	err = u.MarkSold(uuid.New(), "Other Buyer")
	require.Error(t, err)
	assert.Equal(t, "UNIT_NOT_AVAILABLE", err.(*shared.DomainError).Code)
}

func TestIndividualUnit_MarkDamaged(t *testing.T) {
	u, err := NewIndividualUnit(uuid.New(), uuid.New(), "CBT-0001", 1, completeDraft("CBT-0001"))
	require.NoError(t, err)

	require.NoError(t, u.MarkDamaged("water stain on edge"))
	assert.Equal(t, UnitStatusDamaged, u.Status)
	assert.False(t, u.IsAvailable())

	assert.Error(t, u.MarkSold(uuid.New(), "x"), "a damaged unit cannot be sold")
}
