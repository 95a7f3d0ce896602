package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	approcure "github.com/loomworks/backend/internal/application/procurement"
	approd "github.com/loomworks/backend/internal/application/production"
	appsales "github.com/loomworks/backend/internal/application/sales"
	"github.com/loomworks/backend/internal/domain/catalog"
	"github.com/loomworks/backend/internal/domain/production"
	"github.com/loomworks/backend/internal/domain/sales"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/domain/shared/valueobject"
	"gorm.io/gorm"
)

// The services in these tests run against real repositories and real GORM
// transactions, so every locked save goes through the version predicate
// instead of a fake.

func newProductionService(db *gorm.DB) *approd.Service {
	return approd.NewService(
		NewGormBatchRepository(db),
		NewGormFlowRepository(db),
		NewGormRecipeRepository(db),
		NewGormRawMaterialRepository(db),
		NewGormProductRepository(db),
		NewGormIndividualUnitRepository(db),
		NewGormProductionTransactionScope(db),
	)
}

func newSalesService(db *gorm.DB) *appsales.OrderService {
	return appsales.NewOrderService(
		NewGormSalesOrderRepository(db),
		NewGormProductRepository(db),
		NewGormSalesTransactionScope(db),
	)
}

func newProcurementService(db *gorm.DB) *approcure.OrderService {
	return approcure.NewOrderService(
		NewGormProcurementOrderRepository(db),
		NewGormProcurementTransactionScope(db),
	)
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock int64, tracksUnits bool) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(
		"PRD-"+name[:3], name, "piece",
		valueobject.NewMoneyINRFromFloat(450), decimal.NewFromInt(12), tracksUnits,
	)
	require.NoError(t, err)
	if stock > 0 {
		require.NoError(t, product.AddStock(decimal.NewFromInt(stock)))
	}
	product.ClearDomainEvents()
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), product))
	return product
}

func TestProductionServiceOnGorm_SelectMaterialsCommitsConsumption(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductionService(db)
	ctx := context.Background()

	product := seedProduct(t, db, "Cotton Bath Towel", 0, false)
	materials := NewGormRawMaterialRepository(db)
	yarn := seedMaterial(t, materials, "Cotton Yarn", "Mills Co", 100)
	dye := seedMaterial(t, materials, "Blue Dye", "Dye Works", 50)

	batch, err := svc.CreateBatch(ctx, approd.CreateBatchRequest{
		ProductID:      product.ID,
		TargetQuantity: decimal.NewFromInt(40),
		StartedBy:      "Ravi",
	})
	require.NoError(t, err)

	// Consuming stock, activating the batch and completing the flow step all
	// land in one transaction of locked saves.
	selection, err := svc.SelectMaterials(ctx, batch.ID, approd.SelectMaterialsRequest{
		Lines: []approd.SelectionLineRequest{
			{MaterialID: yarn.ID, Quantity: decimal.NewFromInt(60)},
			{MaterialID: dye.ID, Quantity: decimal.NewFromInt(10)},
		},
		SelectedBy: "Ravi",
	})
	require.NoError(t, err)
	assert.Len(t, selection.Committed, 2)
	assert.Empty(t, selection.Shortages)

	stored, err := NewGormBatchRepository(db).FindByID(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, production.BatchStatusActive, stored.Status)
	assert.Len(t, stored.MaterialsConsumed, 2)

	yarnNow, err := materials.FindByID(ctx, yarn.ID)
	require.NoError(t, err)
	assert.True(t, yarnNow.CurrentStock.Equal(decimal.NewFromInt(40)))

	recipe, err := NewGormRecipeRepository(db).FindByProductID(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, recipe.Lines, 2)
}

func TestProductionServiceOnGorm_ShortageOnlySelectionLeavesEverythingUntouched(t *testing.T) {
	db := setupTestDB(t)
	svc := newProductionService(db)
	ctx := context.Background()

	product := seedProduct(t, db, "Cotton Bath Towel", 0, false)
	materials := NewGormRawMaterialRepository(db)
	yarn := seedMaterial(t, materials, "Cotton Yarn", "Mills Co", 20)

	batch, err := svc.CreateBatch(ctx, approd.CreateBatchRequest{
		ProductID:      product.ID,
		TargetQuantity: decimal.NewFromInt(40),
		StartedBy:      "Ravi",
	})
	require.NoError(t, err)

	// Oversubscribed lines become shortages, never errors. Nothing is
	// consumed and the batch save carries no version bump at all.
	selection, err := svc.SelectMaterials(ctx, batch.ID, approd.SelectMaterialsRequest{
		Lines: []approd.SelectionLineRequest{
			{MaterialID: yarn.ID, Quantity: decimal.NewFromInt(500)},
		},
		SelectedBy: "Ravi",
	})
	require.NoError(t, err)
	assert.Empty(t, selection.Committed)
	require.Len(t, selection.Shortages, 1)
	assert.True(t, selection.Shortages[0].Shortage.Equal(decimal.NewFromInt(480)))

	stored, err := NewGormBatchRepository(db).FindByID(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, production.BatchStatusPlanning, stored.Status)
	assert.Empty(t, stored.MaterialsConsumed)

	yarnNow, err := materials.FindByID(ctx, yarn.ID)
	require.NoError(t, err)
	assert.True(t, yarnNow.CurrentStock.Equal(decimal.NewFromInt(20)))
}

func TestProcurementServiceOnGorm_DeliverCreditsExistingLot(t *testing.T) {
	db := setupTestDB(t)
	svc := newProcurementService(db)
	ctx := context.Background()

	materials := NewGormRawMaterialRepository(db)
	lot := seedMaterial(t, materials, "Cotton Yarn", "Mills Co", 100)

	order, err := svc.Create(ctx, approcure.CreateOrderRequest{
		MaterialName: "Cotton Yarn",
		Brand:        "Acme Premium",
		Category:     "yarn",
		Supplier:     "Mills Co",
		QualityGrade: "A+",
		Unit:         "kg",
		Quantity:     decimal.NewFromInt(50),
		CostPerUnit:  decimal.NewFromFloat(130),
		IsRestock:    true,
		PlacedBy:     "Meera",
	})
	require.NoError(t, err)
	_, err = svc.MarkInTransit(ctx, order.ID)
	require.NoError(t, err)

	// A restock delivery credits the flexible-match lot and refreshes its
	// descriptive fields, then marks the order delivered and reconciled.
	delivery, err := svc.Deliver(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, delivery.CreatedLot)
	assert.Equal(t, lot.ID, delivery.MaterialID)

	lotNow, err := materials.FindByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.True(t, lotNow.CurrentStock.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "Acme Premium", lotNow.Brand)
	assert.Equal(t, "A+", lotNow.QualityGrade)
}

func TestProcurementServiceOnGorm_DeliverTwiceDoesNotDoubleCredit(t *testing.T) {
	db := setupTestDB(t)
	svc := newProcurementService(db)
	ctx := context.Background()

	materials := NewGormRawMaterialRepository(db)
	lot := seedMaterial(t, materials, "Cotton Yarn", "Mills Co", 100)

	order, err := svc.Create(ctx, approcure.CreateOrderRequest{
		MaterialName: "Cotton Yarn",
		Supplier:     "Mills Co",
		Unit:         "kg",
		Quantity:     decimal.NewFromInt(50),
		CostPerUnit:  decimal.NewFromFloat(130),
		IsRestock:    true,
		PlacedBy:     "Meera",
	})
	require.NoError(t, err)
	_, err = svc.MarkInTransit(ctx, order.ID)
	require.NoError(t, err)
	_, err = svc.Deliver(ctx, order.ID)
	require.NoError(t, err)

	_, err = svc.Deliver(ctx, order.ID)
	require.Error(t, err)

	lotNow, err := materials.FindByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.True(t, lotNow.CurrentStock.Equal(decimal.NewFromInt(150)))
}

func TestSalesServiceOnGorm_DispatchDeductsStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newSalesService(db)
	ctx := context.Background()

	product := seedProduct(t, db, "Cotton Bath Towel", 20, false)

	order, err := svc.Create(ctx, appsales.CreateOrderRequest{
		CustomerName:    "Meera Traders",
		CustomerContact: "+91-98765-43210",
		Items: []appsales.CreateOrderItemRequest{
			{ProductID: product.ID, ProductType: sales.ProductTypeProduct, Quantity: decimal.NewFromInt(6)},
		},
	})
	require.NoError(t, err)
	_, err = svc.Accept(ctx, order.ID)
	require.NoError(t, err)

	dispatched, err := svc.Dispatch(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(sales.OrderStatusDispatched), dispatched.Status)

	productNow, err := NewGormProductRepository(db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, productNow.OnHand.Equal(decimal.NewFromInt(14)))
}

func TestSalesServiceOnGorm_DispatchGuardRejectionLeavesStockUntouched(t *testing.T) {
	db := setupTestDB(t)
	svc := newSalesService(db)
	ctx := context.Background()

	// Unit-tracked towels need selected units before dispatch; none were.
	product := seedProduct(t, db, "Cotton Bath Towel", 20, true)

	order, err := svc.Create(ctx, appsales.CreateOrderRequest{
		CustomerName:    "Meera Traders",
		CustomerContact: "+91-98765-43210",
		Items: []appsales.CreateOrderItemRequest{
			{ProductID: product.ID, ProductType: sales.ProductTypeProduct, Quantity: decimal.NewFromInt(6)},
		},
	})
	require.NoError(t, err)
	_, err = svc.Accept(ctx, order.ID)
	require.NoError(t, err)

	_, err = svc.Dispatch(ctx, order.ID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.ErrInsufficientSelection.Code, domainErr.Code)

	productNow, err := NewGormProductRepository(db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, productNow.OnHand.Equal(decimal.NewFromInt(20)))

	orderNow, err := NewGormSalesOrderRepository(db).FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, sales.OrderStatusAccepted, orderNow.Status)
}
