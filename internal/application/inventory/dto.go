package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// CreateMaterialRequest registers a raw-material lot directly, outside the
// procurement pipeline
type CreateMaterialRequest struct {
	Name         string          `json:"name" binding:"required,max=200"`
	Brand        string          `json:"brand" binding:"max=200"`
	Category     string          `json:"category" binding:"max=100"`
	Supplier     string          `json:"supplier" binding:"max=200"`
	QualityGrade string          `json:"quality_grade" binding:"max=50"`
	Unit         string          `json:"unit" binding:"required,max=20"`
	InitialStock decimal.Decimal `json:"initial_stock"`
	MinThreshold decimal.Decimal `json:"min_threshold"`
	MaxCapacity  decimal.Decimal `json:"max_capacity"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
}

// SetThresholdsRequest updates a lot's alert thresholds
type SetThresholdsRequest struct {
	MinThreshold decimal.Decimal `json:"min_threshold"`
	MaxCapacity  decimal.Decimal `json:"max_capacity"`
}

// UpdateDetailsRequest updates a lot's descriptive fields
type UpdateDetailsRequest struct {
	Brand        string `json:"brand" binding:"max=200"`
	Category     string `json:"category" binding:"max=100"`
	Supplier     string `json:"supplier" binding:"max=200"`
	QualityGrade string `json:"quality_grade" binding:"max=50"`
}

// MaterialListFilter narrows material listings
type MaterialListFilter struct {
	Status   *inventory.StockStatus `form:"status"`
	Search   string                 `form:"search"`
	Page     int                    `form:"page"`
	PageSize int                    `form:"page_size"`
}

// MaterialResponse is the API representation of a raw-material lot
type MaterialResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	Category     string          `json:"category"`
	Supplier     string          `json:"supplier"`
	QualityGrade string          `json:"quality_grade"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinThreshold decimal.Decimal `json:"min_threshold"`
	MaxCapacity  decimal.Decimal `json:"max_capacity"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	StockValue   decimal.Decimal `json:"stock_value"`
	Status       string          `json:"status"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToMaterialResponse converts a domain material to its API representation
func ToMaterialResponse(m *inventory.RawMaterial) MaterialResponse {
	return MaterialResponse{
		ID:           m.ID,
		Name:         m.Name,
		Brand:        m.Brand,
		Category:     m.Category,
		Supplier:     m.Supplier,
		QualityGrade: m.QualityGrade,
		Unit:         m.Unit,
		CurrentStock: m.CurrentStock,
		MinThreshold: m.MinThreshold,
		MaxCapacity:  m.MaxCapacity,
		CostPerUnit:  m.CostPerUnit,
		StockValue:   m.StockValue().Amount(),
		Status:       m.Status.String(),
		UpdatedAt:    m.UpdatedAt,
	}
}
