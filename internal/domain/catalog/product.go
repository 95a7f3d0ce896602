package catalog

import (
	"strings"
	"time"

	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Product represents a finished good in the catalog. OnHand is the bulk
// finished-goods quantity; products that track individual units additionally
// carry one unit record per physical item, and OnHand mirrors the count of
// available units.
type Product struct {
	shared.BaseAggregateRoot
	Code         string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name         string          `gorm:"type:varchar(200);not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Unit         string          `gorm:"type:varchar(20);not null" json:"unit"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"selling_price"`
	GSTRate      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"gst_rate"`
	OnHand       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"on_hand"`
	// TracksIndividualUnits decides the dispatch guard: when true, an order
	// line must select enough individual units; when false, quantity alone
	// suffices.
	TracksIndividualUnits bool          `gorm:"not null;default:false" json:"tracks_individual_units"`
	Status                ProductStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name, unit string, sellingPrice valueobject.Money, gstRate decimal.Decimal, tracksIndividualUnits bool) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if sellingPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}
	if gstRate.IsNegative() || gstRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_GST_RATE", "GST rate must be between 0 and 100")
	}

	product := &Product{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		Code:                  strings.ToUpper(code),
		Name:                  name,
		Unit:                  unit,
		SellingPrice:          sellingPrice.Amount(),
		GSTRate:               gstRate,
		OnHand:                decimal.Zero,
		TracksIndividualUnits: tracksIndividualUnits,
		Status:                ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetSellingPrice updates the selling price
func (p *Product) SetSellingPrice(price valueobject.Money) error {
	if price.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}
	p.SellingPrice = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// AddStock credits finished goods, typically on production batch completion
func (p *Product) AddStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Added quantity must be positive")
	}

	oldOnHand := p.OnHand
	p.OnHand = p.OnHand.Add(quantity)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p, oldOnHand))

	return nil
}

// DeductStock debits finished goods on order dispatch. The on-hand quantity
// can never go negative.
func (p *Product) DeductStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deducted quantity must be positive")
	}
	if p.OnHand.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	oldOnHand := p.OnHand
	p.OnHand = p.OnHand.Sub(quantity)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p, oldOnHand))

	return nil
}

// Discontinue marks the product as no longer orderable
func (p *Product) Discontinue() {
	p.Status = ProductStatusDiscontinued
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsActive returns true when the product can still be ordered
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// SellingPriceMoney returns the selling price as money
func (p *Product) SellingPriceMoney() valueobject.Money {
	return valueobject.NewMoneyINR(p.SellingPrice)
}

// UnitIDPrefix derives the custom-ID prefix for individual units of this
// product: the first letter of each word in the product name, upper-cased.
// "Cotton Bath Towel" yields "CBT".
func (p *Product) UnitIDPrefix() string {
	var b strings.Builder
	for _, word := range strings.Fields(p.Name) {
		b.WriteString(strings.ToUpper(word[:1]))
	}
	if b.Len() == 0 {
		return "U"
	}
	return b.String()
}

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
