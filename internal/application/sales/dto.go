package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// CreateOrderItemRequest is one line of an order creation request
type CreateOrderItemRequest struct {
	ProductID   uuid.UUID         `json:"product_id" binding:"required"`
	ProductType sales.ProductType `json:"product_type" binding:"required,oneof=product raw_material"`
	Quantity    decimal.Decimal   `json:"quantity" binding:"required"`
}

// CreateOrderRequest is the request to place a sales order
type CreateOrderRequest struct {
	CustomerName    string                   `json:"customer_name" binding:"required,max=200"`
	CustomerContact string                   `json:"customer_contact" binding:"max=100"`
	Items           []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SelectUnitsRequest picks individual units for a product line
type SelectUnitsRequest struct {
	ProductID uuid.UUID   `json:"product_id" binding:"required"`
	UnitIDs   []uuid.UUID `json:"unit_ids" binding:"required"`
}

// RecordPaymentRequest credits a payment against an order
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// OrderItemResponse is one order line in API responses
type OrderItemResponse struct {
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductType     string          `json:"product_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	GSTRate         decimal.Decimal `json:"gst_rate"`
	SelectedUnitIDs []uuid.UUID     `json:"selected_unit_ids,omitempty"`
}

// OrderResponse is the API representation of a sales order
type OrderResponse struct {
	ID                uuid.UUID           `json:"id"`
	OrderNumber       string              `json:"order_number"`
	CustomerName      string              `json:"customer_name"`
	CustomerContact   string              `json:"customer_contact,omitempty"`
	Items             []OrderItemResponse `json:"items"`
	Status            string              `json:"status"`
	WorkflowStep      string              `json:"workflow_step"`
	Subtotal          decimal.Decimal     `json:"subtotal"`
	GSTAmount         decimal.Decimal     `json:"gst_amount"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	PaidAmount        decimal.Decimal     `json:"paid_amount"`
	OutstandingAmount decimal.Decimal     `json:"outstanding_amount"`
	DispatchedAt      *time.Time          `json:"dispatched_at,omitempty"`
	DeliveredAt       *time.Time          `json:"delivered_at,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// OrderListFilter filters order listings
type OrderListFilter struct {
	Page     int                `form:"page"`
	PageSize int                `form:"page_size"`
	Status   *sales.OrderStatus `form:"status"`
	Search   string             `form:"search"`
}

// ToOrderResponse converts a domain order to its API representation
func ToOrderResponse(o *sales.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductType:     string(item.ProductType),
			Quantity:        item.Quantity,
			Unit:            item.Unit,
			UnitPrice:       item.UnitPrice,
			GSTRate:         item.GSTRate,
			SelectedUnitIDs: item.SelectedUnitIDs,
		}
	}

	return OrderResponse{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		CustomerName:      o.CustomerName,
		CustomerContact:   o.CustomerContact,
		Items:             items,
		Status:            o.Status.String(),
		WorkflowStep:      o.WorkflowStep,
		Subtotal:          o.Subtotal,
		GSTAmount:         o.GSTAmount,
		TotalAmount:       o.TotalAmount,
		PaidAmount:        o.PaidAmount,
		OutstandingAmount: o.OutstandingAmount,
		DispatchedAt:      o.DispatchedAt,
		DeliveredAt:       o.DeliveredAt,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}
