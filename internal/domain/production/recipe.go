package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RecipeLine is one material line of a product's bill of materials
type RecipeLine struct {
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
}

// Recipe is the last-used bill of materials for a product. At most one
// recipe exists per product; every production run overwrites the lines
// wholesale, because the latest run is the authoritative BOM.
type Recipe struct {
	shared.BaseAggregateRoot
	ProductID   uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex" json:"product_id"`
	ProductName string       `gorm:"type:varchar(200);not null" json:"product_name"`
	Lines       []RecipeLine `gorm:"type:jsonb;serializer:json" json:"lines"`
	CreatedBy   string       `gorm:"type:varchar(100)" json:"created_by"`
	UpdatedBy   string       `gorm:"type:varchar(100)" json:"updated_by"`
}

// TableName returns the table name for GORM
func (Recipe) TableName() string {
	return "recipes"
}

// NewRecipe creates the first recipe for a product
func NewRecipe(productID uuid.UUID, productName string, lines []RecipeLine, createdBy string) (*Recipe, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_RECIPE", "Recipe must have at least one material line")
	}

	return &Recipe{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		ProductName:       productName,
		Lines:             lines,
		CreatedBy:         createdBy,
		UpdatedBy:         createdBy,
	}, nil
}

// Overwrite replaces the lines with the latest run's selection. The original
// CreatedAt and CreatedBy survive overwrites.
func (r *Recipe) Overwrite(lines []RecipeLine, updatedBy string) error {
	if len(lines) == 0 {
		return shared.NewDomainError("EMPTY_RECIPE", "Recipe must have at least one material line")
	}

	r.Lines = lines
	r.UpdatedBy = updatedBy
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// LinesFromConsumption derives recipe lines from a batch's committed
// consumption, so the next run for the product starts pre-filled
func LinesFromConsumption(consumed []MaterialConsumption) []RecipeLine {
	lines := make([]RecipeLine, 0, len(consumed))
	for _, c := range consumed {
		lines = append(lines, RecipeLine{
			MaterialID:   c.MaterialID,
			MaterialName: c.MaterialName,
			Quantity:     c.Quantity,
			Unit:         c.Unit,
			CostPerUnit:  c.CostPerUnit,
		})
	}
	return lines
}
