package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a procurement order
type OrderStatus string

const (
	OrderStatusOrdered   OrderStatus = "ordered"
	OrderStatusInTransit OrderStatus = "in-transit"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusOrdered, OrderStatusInTransit, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusOrdered:
		return target == OrderStatusInTransit || target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusInTransit:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Order represents a procurement order for a raw material. A single order
// covers one material line; multi-line purchases are placed as separate orders.
type Order struct {
	shared.BaseAggregateRoot
	MaterialName string          `gorm:"type:varchar(200);not null;index" json:"material_name"`
	Brand        string          `gorm:"type:varchar(100)" json:"brand"`
	Category     string          `gorm:"type:varchar(100)" json:"category"`
	Supplier     string          `gorm:"type:varchar(200);not null" json:"supplier"`
	QualityGrade string          `gorm:"type:varchar(50)" json:"quality_grade"`
	Unit         string          `gorm:"type:varchar(20);not null" json:"unit"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	CostPerUnit  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"cost_per_unit"`
	Status       OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	// IsRestock is fixed at creation time: the purchaser declares whether
	// this delivery replenishes a known lot or introduces a new material.
	// It selects the match policy used at reconciliation.
	IsRestock       bool       `gorm:"not null" json:"is_restock"`
	ExpectedAt      *time.Time `gorm:"type:timestamptz" json:"expected_at,omitempty"`
	DeliveredAt     *time.Time `gorm:"type:timestamptz" json:"delivered_at,omitempty"`
	ReconciledAt    *time.Time `gorm:"type:timestamptz" json:"reconciled_at,omitempty"`
	ReconciledLotID *uuid.UUID `gorm:"type:uuid" json:"reconciled_lot_id,omitempty"`
	PlacedBy        string     `gorm:"type:varchar(100)" json:"placed_by"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "procurement_orders"
}

// NewOrder creates a new procurement order in the ordered status
func NewOrder(materialName, brand, category, supplier, qualityGrade, unit string, quantity decimal.Decimal, costPerUnit valueobject.Money, isRestock bool, placedBy string) (*Order, error) {
	if materialName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Material name cannot be empty")
	}
	if supplier == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if costPerUnit.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Cost per unit cannot be negative")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MaterialName:      materialName,
		Brand:             brand,
		Category:          category,
		Supplier:          supplier,
		QualityGrade:      qualityGrade,
		Unit:              unit,
		Quantity:          quantity,
		CostPerUnit:       costPerUnit.Amount(),
		Status:            OrderStatusOrdered,
		IsRestock:         isRestock,
		PlacedBy:          placedBy,
	}

	o.AddDomainEvent(NewOrderPlacedEvent(o))

	return o, nil
}

// MarkInTransit moves the order to the in-transit status
func (o *Order) MarkInTransit() error {
	return o.transitionTo(OrderStatusInTransit)
}

// MarkDelivered moves the order to the delivered status. Delivery is the
// trigger for inventory reconciliation, which happens separately so that the
// stock mutation and the status change share one transaction.
func (o *Order) MarkDelivered() error {
	if err := o.transitionTo(OrderStatusDelivered); err != nil {
		return err
	}
	now := time.Now()
	o.DeliveredAt = &now
	o.AddDomainEvent(NewOrderDeliveredEvent(o))
	return nil
}

// Cancel moves the order to the cancelled status
func (o *Order) Cancel() error {
	return o.transitionTo(OrderStatusCancelled)
}

func (o *Order) transitionTo(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot transition procurement order from "+o.Status.String()+" to "+target.String())
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// MatchPolicy returns the lot-matching policy implied by the restock flag
func (o *Order) MatchPolicy() MatchPolicy {
	return PolicyFor(o.IsRestock)
}

// IsReconciled reports whether this order has already credited inventory
func (o *Order) IsReconciled() bool {
	return o.ReconciledAt != nil
}

// MarkReconciled records that this order credited the given lot. An order
// reconciles inventory exactly once; a second attempt is rejected.
func (o *Order) MarkReconciled(lotID uuid.UUID) error {
	if o.Status != OrderStatusDelivered {
		return shared.NewDomainError("INVALID_STATE", "Only delivered orders can be reconciled")
	}
	if o.IsReconciled() {
		return shared.ErrAlreadyReconciled
	}
	now := time.Now()
	o.ReconciledAt = &now
	o.ReconciledLotID = &lotID
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// CostPerUnitMoney returns the unit cost as money
func (o *Order) CostPerUnitMoney() valueobject.Money {
	return valueobject.NewMoneyINR(o.CostPerUnit)
}

// TotalCost returns quantity times cost per unit
func (o *Order) TotalCost() valueobject.Money {
	return valueobject.NewMoneyINR(o.Quantity.Mul(o.CostPerUnit))
}
