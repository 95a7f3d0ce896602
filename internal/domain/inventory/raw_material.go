package inventory

import (
	"time"

	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// StockStatus is the derived availability bucket of a raw material.
// It is never stored independently of the stock level: every mutation
// recomputes it through BucketFor.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in-stock"
	StockStatusLowStock   StockStatus = "low-stock"
	StockStatusOutOfStock StockStatus = "out-of-stock"
	StockStatusOverstock  StockStatus = "overstock"
)

// IsValid checks if the status is a valid StockStatus
func (s StockStatus) IsValid() bool {
	switch s {
	case StockStatusInStock, StockStatusLowStock, StockStatusOutOfStock, StockStatusOverstock:
		return true
	}
	return false
}

// String returns the string representation of StockStatus
func (s StockStatus) String() string {
	return string(s)
}

// BucketFor derives the stock status bucket from a stock level and its
// thresholds. Out-of-stock wins over low-stock, overstock only applies when a
// maximum capacity is configured.
func BucketFor(stock, minThreshold, maxCapacity decimal.Decimal) StockStatus {
	switch {
	case stock.LessThanOrEqual(decimal.Zero):
		return StockStatusOutOfStock
	case stock.LessThanOrEqual(minThreshold):
		return StockStatusLowStock
	case maxCapacity.GreaterThan(decimal.Zero) && stock.GreaterThan(maxCapacity):
		return StockStatusOverstock
	}
	return StockStatusInStock
}

// RawMaterial is the aggregate root for a single raw-material lot.
// Lots are never deleted: a depleted lot stays around with zero stock so the
// procurement history remains traceable.
type RawMaterial struct {
	shared.BaseAggregateRoot
	Name         string          `gorm:"size:200;not null;index"`
	Brand        string          `gorm:"size:200"`
	Category     string          `gorm:"size:100;index"`
	Supplier     string          `gorm:"size:200;index"`
	QualityGrade string          `gorm:"size:50"`
	Unit         string          `gorm:"size:20;not null"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinThreshold decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MaxCapacity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CostPerUnit  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status       StockStatus     `gorm:"size:20;not null;index"`
}

// TableName returns the table name for GORM
func (RawMaterial) TableName() string {
	return "raw_materials"
}

// NewRawMaterial creates a new raw-material lot
func NewRawMaterial(name, brand, category, supplier, qualityGrade, unit string, initialStock, minThreshold, maxCapacity decimal.Decimal, costPerUnit valueobject.Money) (*RawMaterial, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Material name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if initialStock.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Initial stock cannot be negative")
	}
	if minThreshold.IsNegative() {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Minimum threshold cannot be negative")
	}
	if maxCapacity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Maximum capacity cannot be negative")
	}
	if costPerUnit.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Cost per unit cannot be negative")
	}

	m := &RawMaterial{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Brand:             brand,
		Category:          category,
		Supplier:          supplier,
		QualityGrade:      qualityGrade,
		Unit:              unit,
		CurrentStock:      initialStock,
		MinThreshold:      minThreshold,
		MaxCapacity:       maxCapacity,
		CostPerUnit:       costPerUnit.Amount(),
	}
	m.refreshStatus()

	m.AddDomainEvent(NewRawMaterialCreatedEvent(m))

	return m, nil
}

// Receive credits delivered stock to the lot. The cost per unit is overwritten
// with the latest procurement cost: price drift across restocks is expected
// and the newest price is authoritative.
func (m *RawMaterial) Receive(quantity decimal.Decimal, costPerUnit valueobject.Money) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	if costPerUnit.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost per unit cannot be negative")
	}

	oldStock := m.CurrentStock
	m.CurrentStock = m.CurrentStock.Add(quantity)
	m.CostPerUnit = costPerUnit.Amount()
	m.refreshStatus()
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	m.AddDomainEvent(NewRawMaterialStockChangedEvent(m, oldStock))

	return nil
}

// Consume deducts stock for production or a raw-material order line.
// The stock level can never go negative.
func (m *RawMaterial) Consume(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Consumed quantity must be positive")
	}
	if m.CurrentStock.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	oldStock := m.CurrentStock
	m.CurrentStock = m.CurrentStock.Sub(quantity)
	m.refreshStatus()
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	m.AddDomainEvent(NewRawMaterialStockChangedEvent(m, oldStock))

	return nil
}

// SetThresholds updates the alert thresholds and re-derives the status bucket
func (m *RawMaterial) SetThresholds(minThreshold, maxCapacity decimal.Decimal) error {
	if minThreshold.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Minimum threshold cannot be negative")
	}
	if maxCapacity.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Maximum capacity cannot be negative")
	}
	if maxCapacity.GreaterThan(decimal.Zero) && maxCapacity.LessThan(minThreshold) {
		return shared.NewDomainError("INVALID_THRESHOLD", "Maximum capacity cannot be below minimum threshold")
	}

	m.MinThreshold = minThreshold
	m.MaxCapacity = maxCapacity
	m.refreshStatus()
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// UpdateDetails updates the descriptive fields of the lot
func (m *RawMaterial) UpdateDetails(brand, category, supplier, qualityGrade string) {
	m.Brand = brand
	m.Category = category
	m.Supplier = supplier
	m.QualityGrade = qualityGrade
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}

// refreshStatus re-derives the status bucket from the current stock level
func (m *RawMaterial) refreshStatus() {
	m.Status = BucketFor(m.CurrentStock, m.MinThreshold, m.MaxCapacity)
}

// CanCover returns true if the current stock covers the requested quantity
func (m *RawMaterial) CanCover(quantity decimal.Decimal) bool {
	return m.CurrentStock.GreaterThanOrEqual(quantity)
}

// Shortfall returns how much of the requested quantity the current stock
// cannot cover, or zero when stock suffices.
func (m *RawMaterial) Shortfall(quantity decimal.Decimal) decimal.Decimal {
	if m.CanCover(quantity) {
		return decimal.Zero
	}
	return quantity.Sub(m.CurrentStock)
}

// IsOutOfStock returns true if the lot has no stock left
func (m *RawMaterial) IsOutOfStock() bool {
	return m.Status == StockStatusOutOfStock
}

// GetCostPerUnitMoney returns the cost per unit as a Money value object
func (m *RawMaterial) GetCostPerUnitMoney() valueobject.Money {
	return valueobject.NewMoneyINR(m.CostPerUnit)
}

// StockValue returns the total value of the lot (stock * cost per unit)
func (m *RawMaterial) StockValue() valueobject.Money {
	return valueobject.NewMoneyINR(m.CurrentStock.Mul(m.CostPerUnit))
}
