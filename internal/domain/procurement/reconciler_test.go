package procurement

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/inventory"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMaterialRepo is an in-memory RawMaterialRepository for reconciler tests
type fakeMaterialRepo struct {
	materials map[uuid.UUID]*inventory.RawMaterial
}

func newFakeMaterialRepo() *fakeMaterialRepo {
	return &fakeMaterialRepo{materials: make(map[uuid.UUID]*inventory.RawMaterial)}
}

func (r *fakeMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.RawMaterial, error) {
	if m, ok := r.materials[id]; ok {
		return m, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMaterialRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.RawMaterial, error) {
	out := make([]inventory.RawMaterial, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeMaterialRepo) FindByStatus(_ context.Context, status inventory.StockStatus, _ shared.Filter) ([]inventory.RawMaterial, error) {
	var out []inventory.RawMaterial
	for _, m := range r.materials {
		if m.Status == status {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMaterialRepo) FindFlexibleMatch(_ context.Context, key inventory.FlexibleMatchKey) (*inventory.RawMaterial, error) {
	for _, m := range r.materials {
		if m.Name == key.Name && m.Supplier == key.Supplier && m.Unit == key.Unit {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMaterialRepo) FindStrictMatch(_ context.Context, key inventory.StrictMatchKey) (*inventory.RawMaterial, error) {
	for _, m := range r.materials {
		if m.Name == key.Name && m.Brand == key.Brand && m.Category == key.Category &&
			m.Supplier == key.Supplier && m.QualityGrade == key.QualityGrade && m.Unit == key.Unit {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMaterialRepo) Save(_ context.Context, m *inventory.RawMaterial) error {
	r.materials[m.ID] = m
	return nil
}

func (r *fakeMaterialRepo) SaveWithLock(_ context.Context, m *inventory.RawMaterial) error {
	r.materials[m.ID] = m
	return nil
}

func (r *fakeMaterialRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.materials)), nil
}

func seedCottonYarn(t *testing.T, repo *fakeMaterialRepo) *inventory.RawMaterial {
	m, err := inventory.NewRawMaterial(
		"Cotton Yarn", "SuperSpin", "Yarn", "ABC Textiles", "Premium", "rolls",
		decimal.NewFromInt(100), decimal.NewFromInt(10), decimal.Zero,
		valueobject.NewMoneyINRFromFloat(120.50),
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), m))
	return m
}

func deliveredOrder(t *testing.T, supplier string, quantity float64, cost float64, isRestock bool) *Order {
	o, err := NewOrder(
		"Cotton Yarn", "SuperSpin", "Yarn", supplier, "Premium", "rolls",
		decimal.NewFromFloat(quantity), valueobject.NewMoneyINRFromFloat(cost), isRestock, "purchaser",
	)
	require.NoError(t, err)
	require.NoError(t, o.MarkDelivered())
	return o
}

// ============================================
// Reconcile Tests
// ============================================

func TestReconciler_RestockMatchesOnNameSupplierUnit(t *testing.T) {
	repo := newFakeMaterialRepo()
	existing := seedCottonYarn(t, repo)
	reconciler := NewReconciler(repo)

	// Different brand and a new price must not block a restock match.
	order, err := NewOrder(
		"Cotton Yarn", "MegaSpin", "Yarn", "ABC Textiles", "Standard", "rolls",
		decimal.NewFromInt(40), valueobject.NewMoneyINRFromFloat(135.00), true, "purchaser",
	)
	require.NoError(t, err)
	require.NoError(t, order.MarkDelivered())

	result, err := reconciler.Reconcile(context.Background(), order)
	require.NoError(t, err)

	assert.False(t, result.CreatedLot)
	assert.Equal(t, MatchPolicyFlexible, result.Policy)
	assert.Equal(t, existing.ID, result.Material.ID)
	assert.True(t, result.Material.CurrentStock.Equal(decimal.NewFromInt(140)))
	assert.True(t, result.Material.CostPerUnit.Equal(decimal.NewFromFloat(135.00)))

	count, _ := repo.Count(context.Background(), shared.Filter{})
	assert.Equal(t, int64(1), count, "a restock must not create a second lot")
}

func TestReconciler_StrictMismatchCreatesNewLot(t *testing.T) {
	repo := newFakeMaterialRepo()
	existing := seedCottonYarn(t, repo)
	reconciler := NewReconciler(repo)

	// Same name, different supplier, non-restock: a distinct specification.
	order := deliveredOrder(t, "XYZ Textiles", 25, 110.00, false)

	result, err := reconciler.Reconcile(context.Background(), order)
	require.NoError(t, err)

	assert.True(t, result.CreatedLot)
	assert.Equal(t, MatchPolicyStrict, result.Policy)
	assert.NotEqual(t, existing.ID, result.Material.ID)
	assert.True(t, result.Material.CurrentStock.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, inventory.StockStatusInStock, result.Material.Status)

	count, _ := repo.Count(context.Background(), shared.Filter{})
	assert.Equal(t, int64(2), count)
}

func TestReconciler_StrictExactMatchRestocks(t *testing.T) {
	repo := newFakeMaterialRepo()
	existing := seedCottonYarn(t, repo)
	reconciler := NewReconciler(repo)

	order := deliveredOrder(t, "ABC Textiles", 30, 125.00, false)

	result, err := reconciler.Reconcile(context.Background(), order)
	require.NoError(t, err)

	assert.False(t, result.CreatedLot)
	assert.Equal(t, existing.ID, result.Material.ID)
	assert.True(t, result.Material.CurrentStock.Equal(decimal.NewFromInt(130)))
}

func TestReconciler_IsIdempotentPerOrder(t *testing.T) {
	repo := newFakeMaterialRepo()
	seedCottonYarn(t, repo)
	reconciler := NewReconciler(repo)

	order := deliveredOrder(t, "ABC Textiles", 40, 120.50, true)

	first, err := reconciler.Reconcile(context.Background(), order)
	require.NoError(t, err)
	require.True(t, order.IsReconciled())

	_, err = reconciler.Reconcile(context.Background(), order)
	require.Error(t, err)
	assert.Equal(t, shared.ErrAlreadyReconciled, err)

	assert.True(t, first.Material.CurrentStock.Equal(decimal.NewFromInt(140)), "stock must not be double-credited")
}

func TestReconciler_RejectsUndeliveredOrder(t *testing.T) {
	repo := newFakeMaterialRepo()
	reconciler := NewReconciler(repo)

	order, err := NewOrder(
		"Cotton Yarn", "", "", "ABC Textiles", "", "rolls",
		decimal.NewFromInt(10), valueobject.NewMoneyINRFromFloat(100), true, "purchaser",
	)
	require.NoError(t, err)

	_, err = reconciler.Reconcile(context.Background(), order)
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", err.(*shared.DomainError).Code)
}

// ============================================
// PlanConsumption Tests
// ============================================

func TestPlanConsumption_SplitsCommitsAndShortages(t *testing.T) {
	repo := newFakeMaterialRepo()
	yarn := seedCottonYarn(t, repo)

	dye, err := inventory.NewRawMaterial(
		"Reactive Dye", "ColorFast", "Dye", "DyeWorks", "A", "kg",
		decimal.NewFromInt(5), decimal.NewFromInt(2), decimal.Zero,
		valueobject.NewMoneyINRFromFloat(200),
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), dye))

	lookup := func(id uuid.UUID) (*inventory.RawMaterial, bool) {
		m, ok := repo.materials[id]
		return m, ok
	}

	plan := PlanConsumption([]ConsumptionRequest{
		{MaterialID: yarn.ID, Quantity: decimal.NewFromInt(50)},
		{MaterialID: dye.ID, Quantity: decimal.NewFromInt(8)},
	}, lookup)

	require.Len(t, plan.Commits, 1)
	assert.Equal(t, yarn.ID, plan.Commits[0].Material.ID)

	require.True(t, plan.HasShortages())
	require.Len(t, plan.Shortages, 1)
	shortage := plan.Shortages[0]
	assert.Equal(t, dye.ID, shortage.MaterialID)
	assert.True(t, shortage.Shortage.Equal(decimal.NewFromInt(3)))
	assert.True(t, shortage.EstimatedCost.Amount().Equal(decimal.NewFromInt(600)))
}

func TestPlanConsumption_UnknownMaterialBecomesFullShortage(t *testing.T) {
	lookup := func(uuid.UUID) (*inventory.RawMaterial, bool) { return nil, false }
	ghostID := uuid.New()

	plan := PlanConsumption([]ConsumptionRequest{
		{MaterialID: ghostID, Quantity: decimal.NewFromInt(12)},
	}, lookup)

	assert.Empty(t, plan.Commits)
	require.Len(t, plan.Shortages, 1)
	assert.True(t, plan.Shortages[0].Shortage.Equal(decimal.NewFromInt(12)))
	assert.True(t, plan.Shortages[0].Available.IsZero())
}

func TestPlanConsumption_ExactCoverCommits(t *testing.T) {
	repo := newFakeMaterialRepo()
	yarn := seedCottonYarn(t, repo)

	lookup := func(id uuid.UUID) (*inventory.RawMaterial, bool) {
		m, ok := repo.materials[id]
		return m, ok
	}

	plan := PlanConsumption([]ConsumptionRequest{
		{MaterialID: yarn.ID, Quantity: decimal.NewFromInt(100)},
	}, lookup)

	assert.Len(t, plan.Commits, 1)
	assert.False(t, plan.HasShortages())
}
