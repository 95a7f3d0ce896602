package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a sales order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusAccepted   OrderStatus = "accepted"
	OrderStatusDispatched OrderStatus = "dispatched"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusDispatched, OrderStatusDelivered, OrderStatusCancelled:
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
	case OrderStatusPending:
		return target == OrderStatusAccepted || target == OrderStatusCancelled
	case OrderStatusAccepted:
		return target == OrderStatusDispatched || target == OrderStatusCancelled
	case OrderStatusDispatched:
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

// WorkflowStep mirrors the status for the fulfilment board display
func (s OrderStatus) WorkflowStep() string {
	switch s {
	case OrderStatusPending:
		return "order_placed"
	case OrderStatusAccepted:
		return "ready_for_dispatch"
	case OrderStatusDispatched:
		return "in_transit"
	case OrderStatusDelivered:
		return "completed"
	case OrderStatusCancelled:
		return "cancelled"
	}
	return ""
}

// ProductType distinguishes finished goods from raw-material order lines
type ProductType string

const (
	ProductTypeProduct     ProductType = "product"
	ProductTypeRawMaterial ProductType = "raw_material"
)

// IsValid checks if the type is a valid ProductType
func (t ProductType) IsValid() bool {
	return t == ProductTypeProduct || t == ProductTypeRawMaterial
}

// OrderItem is one line of a sales order. For finished goods that track
// individual units, SelectedUnitIDs carries the units picked for dispatch.
type OrderItem struct {
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductType     ProductType     `json:"product_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	GSTRate         decimal.Decimal `json:"gst_rate"`
	SelectedUnitIDs []uuid.UUID     `json:"selected_unit_ids,omitempty"`
}

// LineSubtotal returns quantity times unit price
func (i OrderItem) LineSubtotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// LineGST returns the GST portion of the line
func (i OrderItem) LineGST() decimal.Decimal {
	return i.LineSubtotal().Mul(i.GSTRate).Div(decimal.NewFromInt(100)).Round(2)
}

// Order is a customer sales order moving through
// pending, accepted, dispatched, delivered (or cancelled). The financial
// fields are always recomputed from the items and payments; outstanding is
// never mutated independently.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber       string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"order_number"`
	CustomerName      string          `gorm:"type:varchar(200);not null" json:"customer_name"`
	CustomerContact   string          `gorm:"type:varchar(100)" json:"customer_contact"`
	Items             []OrderItem     `gorm:"type:jsonb;serializer:json" json:"items"`
	Status            OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	WorkflowStep      string          `gorm:"type:varchar(30);not null" json:"workflow_step"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	GSTAmount         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"gst_amount"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	PaidAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"paid_amount"`
	OutstandingAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"outstanding_amount"`
	DispatchedAt      *time.Time      `gorm:"type:timestamptz" json:"dispatched_at,omitempty"`
	DeliveredAt       *time.Time      `gorm:"type:timestamptz" json:"delivered_at,omitempty"`
	CancelledAt       *time.Time      `gorm:"type:timestamptz" json:"cancelled_at,omitempty"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "sales_orders"
}

// NewOrder creates a new sales order in the pending status
func NewOrder(orderNumber, customerName, customerContact string, items []OrderItem) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must have at least one item")
	}
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Order item product ID cannot be empty")
		}
		if !item.ProductType.IsValid() {
			return nil, shared.NewDomainError("INVALID_PRODUCT_TYPE", "Order item product type must be product or raw_material")
		}
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Order item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Order item unit price cannot be negative")
		}
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerName:      customerName,
		CustomerContact:   customerContact,
		Items:             items,
		Status:            OrderStatusPending,
		WorkflowStep:      OrderStatusPending.WorkflowStep(),
		PaidAmount:        decimal.Zero,
	}
	o.recalculateTotals()

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// SelectUnits records which individual units fulfil the given product line.
// Only legal before dispatch.
func (o *Order) SelectUnits(productID uuid.UUID, unitIDs []uuid.UUID) error {
	if o.Status != OrderStatusPending && o.Status != OrderStatusAccepted {
		return shared.NewDomainError("INVALID_STATE", "Units can only be selected before dispatch")
	}

	for i := range o.Items {
		if o.Items[i].ProductID == productID && o.Items[i].ProductType == ProductTypeProduct {
			o.Items[i].SelectedUnitIDs = unitIDs
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order has no product line for the given product")
}

// RecordPayment credits a payment against the order
func (o *Order) RecordPayment(amount valueobject.Money) error {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if o.Status == OrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot record a payment on a cancelled order")
	}
	if o.PaidAmount.Add(amount.Amount()).GreaterThan(o.TotalAmount) {
		return shared.NewDomainError("OVERPAYMENT", "Payment would exceed the order total")
	}

	o.PaidAmount = o.PaidAmount.Add(amount.Amount())
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Accept moves the order to accepted. Acceptance is a commercial decision
// and carries no stock precondition.
func (o *Order) Accept() error {
	if err := o.transitionTo(OrderStatusAccepted); err != nil {
		return err
	}
	o.AddDomainEvent(NewOrderAcceptedEvent(o))
	return nil
}

// MarkDispatched moves the order to dispatched. The caller has already
// passed the dispatch guard and deducted stock in the same transaction.
func (o *Order) MarkDispatched() error {
	if err := o.transitionTo(OrderStatusDispatched); err != nil {
		return err
	}
	now := time.Now()
	o.DispatchedAt = &now
	o.AddDomainEvent(NewOrderDispatchedEvent(o))
	return nil
}

// Deliver moves the order to delivered. The outstanding balance must be
// settled; stock was already deducted at dispatch.
func (o *Order) Deliver() error {
	if o.Status == OrderStatusDispatched && !o.OutstandingAmount.IsZero() {
		return shared.ErrPaymentOutstanding
	}
	if err := o.transitionTo(OrderStatusDelivered); err != nil {
		return err
	}
	now := time.Now()
	o.DeliveredAt = &now
	o.AddDomainEvent(NewOrderDeliveredEvent(o))
	return nil
}

// Cancel moves the order to cancelled from any non-terminal status. Stock
// already deducted at dispatch is not credited back: units may have
// physically shipped, and an automatic reversal could corrupt the counts.
func (o *Order) Cancel() error {
	if err := o.transitionTo(OrderStatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	o.CancelledAt = &now
	return nil
}

func (o *Order) transitionTo(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot transition order from "+o.Status.String()+" to "+target.String())
	}
	o.Status = target
	o.WorkflowStep = target.WorkflowStep()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// recalculateTotals re-derives every financial field from the items and the
// paid amount, so outstanding can never drift
func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	gst := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineSubtotal())
		gst = gst.Add(item.LineGST())
	}

	o.Subtotal = subtotal
	o.GSTAmount = gst
	o.TotalAmount = subtotal.Add(gst)
	o.OutstandingAmount = o.TotalAmount.Sub(o.PaidAmount)
}

// IsFullyPaid returns true when no balance is outstanding
func (o *Order) IsFullyPaid() bool {
	return o.OutstandingAmount.IsZero()
}

// TotalAmountMoney returns the order total as money
func (o *Order) TotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(o.TotalAmount)
}

// OutstandingAmountMoney returns the unpaid balance as money
func (o *Order) OutstandingAmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(o.OutstandingAmount)
}
