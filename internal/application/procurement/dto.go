package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/procurement"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the request to place a procurement order
type CreateOrderRequest struct {
	MaterialName string          `json:"material_name" binding:"required,max=200"`
	Brand        string          `json:"brand" binding:"max=100"`
	Category     string          `json:"category" binding:"max=100"`
	Supplier     string          `json:"supplier" binding:"required,max=200"`
	QualityGrade string          `json:"quality_grade" binding:"max=50"`
	Unit         string          `json:"unit" binding:"required,max=20"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit" binding:"required"`
	IsRestock    bool            `json:"is_restock"`
	PlacedBy     string          `json:"placed_by" binding:"max=100"`
}

// OrderResponse is the API representation of a procurement order
type OrderResponse struct {
	ID              uuid.UUID       `json:"id"`
	MaterialName    string          `json:"material_name"`
	Brand           string          `json:"brand,omitempty"`
	Category        string          `json:"category,omitempty"`
	Supplier        string          `json:"supplier"`
	QualityGrade    string          `json:"quality_grade,omitempty"`
	Unit            string          `json:"unit"`
	Quantity        decimal.Decimal `json:"quantity"`
	CostPerUnit     decimal.Decimal `json:"cost_per_unit"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	Status          string          `json:"status"`
	IsRestock       bool            `json:"is_restock"`
	MatchPolicy     string          `json:"match_policy"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	ReconciledAt    *time.Time      `json:"reconciled_at,omitempty"`
	ReconciledLotID *uuid.UUID      `json:"reconciled_lot_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// DeliveryResponse reports what a delivery did to inventory
type DeliveryResponse struct {
	Order      OrderResponse `json:"order"`
	MaterialID uuid.UUID     `json:"material_id"`
	CreatedLot bool          `json:"created_lot"`
}

// OrderListFilter filters procurement order listings
type OrderListFilter struct {
	Page     int                      `form:"page"`
	PageSize int                      `form:"page_size"`
	Status   *procurement.OrderStatus `form:"status"`
	Search   string                   `form:"search"`
}

// ToOrderResponse converts a domain order to its API representation
func ToOrderResponse(o *procurement.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		MaterialName:    o.MaterialName,
		Brand:           o.Brand,
		Category:        o.Category,
		Supplier:        o.Supplier,
		QualityGrade:    o.QualityGrade,
		Unit:            o.Unit,
		Quantity:        o.Quantity,
		CostPerUnit:     o.CostPerUnit,
		TotalCost:       o.TotalCost().Amount(),
		Status:          o.Status.String(),
		IsRestock:       o.IsRestock,
		MatchPolicy:     o.MatchPolicy().String(),
		DeliveredAt:     o.DeliveredAt,
		ReconciledAt:    o.ReconciledAt,
		ReconciledLotID: o.ReconciledLotID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
