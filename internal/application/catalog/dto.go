package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loomworks/backend/internal/domain/catalog"
)

// CreateProductRequest is the request to register a finished good
type CreateProductRequest struct {
	Code                  string          `json:"code" binding:"required,min=2,max=50"`
	Name                  string          `json:"name" binding:"required,min=2,max=200"`
	Description           string          `json:"description"`
	Unit                  string          `json:"unit" binding:"required"`
	SellingPrice          decimal.Decimal `json:"selling_price"`
	GSTRate               decimal.Decimal `json:"gst_rate"`
	TracksIndividualUnits bool            `json:"tracks_individual_units"`
}

// UpdateProductRequest is the request to update a product's descriptive fields
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=200"`
	Description string `json:"description"`
}

// SetSellingPriceRequest is the request to change a product's selling price
type SetSellingPriceRequest struct {
	SellingPrice decimal.Decimal `json:"selling_price" binding:"required"`
}

// AdjustStockRequest is the request to correct the bulk on-hand quantity
type AdjustStockRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ProductListFilter narrows and paginates product listings
type ProductListFilter struct {
	Status   *catalog.ProductStatus `form:"status"`
	Search   string                 `form:"search"`
	Page     int                    `form:"page"`
	PageSize int                    `form:"page_size"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID                    uuid.UUID       `json:"id"`
	Code                  string          `json:"code"`
	Name                  string          `json:"name"`
	Description           string          `json:"description,omitempty"`
	Unit                  string          `json:"unit"`
	SellingPrice          decimal.Decimal `json:"selling_price"`
	GSTRate               decimal.Decimal `json:"gst_rate"`
	OnHand                decimal.Decimal `json:"on_hand"`
	TracksIndividualUnits bool            `json:"tracks_individual_units"`
	Status                string          `json:"status"`
	UnitIDPrefix          string          `json:"unit_id_prefix,omitempty"`
}

// ToProductResponse converts a domain product to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	response := ProductResponse{
		ID:                    p.ID,
		Code:                  p.Code,
		Name:                  p.Name,
		Description:           p.Description,
		Unit:                  p.Unit,
		SellingPrice:          p.SellingPrice,
		GSTRate:               p.GSTRate,
		OnHand:                p.OnHand,
		TracksIndividualUnits: p.TracksIndividualUnits,
		Status:                string(p.Status),
	}
	if p.TracksIndividualUnits {
		response.UnitIDPrefix = p.UnitIDPrefix()
	}
	return response
}
