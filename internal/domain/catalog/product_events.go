package catalog

import (
	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the catalog context
const (
	EventTypeProductCreated      = "catalog.product.created"
	EventTypeProductStockChanged = "catalog.product.stock_changed"
)

// ProductCreatedEvent is emitted when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	ProductCode string    `json:"product_code"`
	ProductName string    `json:"product_name"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, "Product", p.ID),
		ProductID:       p.ID,
		ProductCode:     p.Code,
		ProductName:     p.Name,
	}
}

// ProductStockChangedEvent is emitted on every finished-goods stock mutation
type ProductStockChangedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	OldOnHand   decimal.Decimal `json:"old_on_hand"`
	NewOnHand   decimal.Decimal `json:"new_on_hand"`
}

// NewProductStockChangedEvent creates a new ProductStockChangedEvent
func NewProductStockChangedEvent(p *Product, oldOnHand decimal.Decimal) *ProductStockChangedEvent {
	return &ProductStockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStockChanged, "Product", p.ID),
		ProductID:       p.ID,
		ProductName:     p.Name,
		OldOnHand:       oldOnHand,
		NewOnHand:       p.OnHand,
	}
}
