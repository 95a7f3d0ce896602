package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/inventory"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMaterialRepo struct {
	materials map[uuid.UUID]inventory.RawMaterial
}

func newFakeMaterialRepo() *fakeMaterialRepo {
	return &fakeMaterialRepo{materials: make(map[uuid.UUID]inventory.RawMaterial)}
}

func (r *fakeMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.RawMaterial, error) {
	if m, ok := r.materials[id]; ok {
		return &m, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMaterialRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.RawMaterial, error) {
	out := make([]inventory.RawMaterial, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMaterialRepo) FindByStatus(_ context.Context, status inventory.StockStatus, _ shared.Filter) ([]inventory.RawMaterial, error) {
	var out []inventory.RawMaterial
	for _, m := range r.materials {
		if m.Status == status {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMaterialRepo) FindFlexibleMatch(_ context.Context, key inventory.FlexibleMatchKey) (*inventory.RawMaterial, error) {
	for _, m := range r.materials {
		if m.Name == key.Name && m.Supplier == key.Supplier && m.Unit == key.Unit {
			return &m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMaterialRepo) FindStrictMatch(_ context.Context, key inventory.StrictMatchKey) (*inventory.RawMaterial, error) {
	for _, m := range r.materials {
		if m.Name == key.Name && m.Brand == key.Brand && m.Category == key.Category &&
			m.Supplier == key.Supplier && m.QualityGrade == key.QualityGrade && m.Unit == key.Unit {
			return &m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMaterialRepo) Save(_ context.Context, m *inventory.RawMaterial) error {
	r.materials[m.ID] = *m
	return nil
}

func (r *fakeMaterialRepo) SaveWithLock(_ context.Context, m *inventory.RawMaterial) error {
	r.materials[m.ID] = *m
	return nil
}

func (r *fakeMaterialRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.materials)), nil
}

func newMaterialService() (*MaterialService, *fakeMaterialRepo) {
	repo := newFakeMaterialRepo()
	return NewMaterialService(repo), repo
}

func TestMaterialService_CreateDerivesStatus(t *testing.T) {
	service, repo := newMaterialService()

	resp, err := service.Create(context.Background(), CreateMaterialRequest{
		Name:         "Cotton Yarn",
		Supplier:     "ABC Textiles",
		Unit:         "rolls",
		InitialStock: decimal.NewFromInt(3),
		MinThreshold: decimal.NewFromInt(5),
		CostPerUnit:  decimal.NewFromInt(120),
	})
	require.NoError(t, err)

	assert.Equal(t, "low-stock", resp.Status)
	assert.True(t, resp.StockValue.Equal(decimal.NewFromInt(360)))
	assert.Len(t, repo.materials, 1)
}

func TestMaterialService_SetThresholdsRederivesStatus(t *testing.T) {
	service, _ := newMaterialService()

	resp, err := service.Create(context.Background(), CreateMaterialRequest{
		Name:         "Cotton Yarn",
		Unit:         "rolls",
		InitialStock: decimal.NewFromInt(50),
		MinThreshold: decimal.NewFromInt(5),
		CostPerUnit:  decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	assert.Equal(t, "in-stock", resp.Status)

	updated, err := service.SetThresholds(context.Background(), resp.ID, SetThresholdsRequest{
		MinThreshold: decimal.NewFromInt(60),
	})
	require.NoError(t, err)
	assert.Equal(t, "low-stock", updated.Status)
}

func TestMaterialService_SetThresholdsRejectsCapacityBelowMinimum(t *testing.T) {
	service, _ := newMaterialService()

	resp, err := service.Create(context.Background(), CreateMaterialRequest{
		Name: "Cotton Yarn", Unit: "rolls",
		InitialStock: decimal.NewFromInt(50),
		CostPerUnit:  decimal.NewFromInt(120),
	})
	require.NoError(t, err)

	_, err = service.SetThresholds(context.Background(), resp.ID, SetThresholdsRequest{
		MinThreshold: decimal.NewFromInt(20),
		MaxCapacity:  decimal.NewFromInt(10),
	})
	require.Error(t, err)
	assert.Equal(t, "INVALID_THRESHOLD", err.(*shared.DomainError).Code)
}

func TestMaterialService_ListFiltersByStatus(t *testing.T) {
	service, _ := newMaterialService()

	_, err := service.Create(context.Background(), CreateMaterialRequest{
		Name: "Cotton Yarn", Unit: "rolls",
		InitialStock: decimal.NewFromInt(50), MinThreshold: decimal.NewFromInt(5),
		CostPerUnit: decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), CreateMaterialRequest{
		Name: "Blue Dye", Unit: "kg",
		InitialStock: decimal.NewFromInt(2), MinThreshold: decimal.NewFromInt(5),
		CostPerUnit: decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	status := inventory.StockStatusLowStock
	low, _, err := service.List(context.Background(), MaterialListFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Blue Dye", low[0].Name)
}

func TestMaterialService_UpdateDetails(t *testing.T) {
	service, repo := newMaterialService()

	resp, err := service.Create(context.Background(), CreateMaterialRequest{
		Name: "Cotton Yarn", Brand: "SuperSpin", Unit: "rolls",
		InitialStock: decimal.NewFromInt(50),
		CostPerUnit:  decimal.NewFromInt(120),
	})
	require.NoError(t, err)

	updated, err := service.UpdateDetails(context.Background(), resp.ID, UpdateDetailsRequest{
		Brand:        "FineSpin",
		Category:     "Yarn",
		Supplier:     "XYZ Mills",
		QualityGrade: "Premium",
	})
	require.NoError(t, err)

	assert.Equal(t, "FineSpin", updated.Brand)
	assert.Equal(t, "XYZ Mills", repo.materials[resp.ID].Supplier)
}
