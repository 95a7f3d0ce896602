package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/loomworks/backend/internal/domain/catalog"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/domain/shared/valueobject"
)

// ProductService handles finished-goods catalog operations. Stock on hand is
// credited by production completion and debited by dispatch; the service only
// exposes a manual adjustment for corrections.
type ProductService struct {
	products       catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(products catalog.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new product. Codes are unique across the catalog.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if _, err := s.products.FindByCode(ctx, req.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	product, err := catalog.NewProduct(
		req.Code, req.Name, req.Unit,
		valueobject.NewMoneyINR(req.SellingPrice), req.GSTRate,
		req.TracksIndividualUnits,
	)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetByCode retrieves a product by its unique code
func (s *ProductService) GetByCode(ctx context.Context, code string) (*ProductResponse, error) {
	product, err := s.products.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}

	products, err := s.products.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.products.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// Update changes a product's descriptive fields
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	return s.mutate(ctx, productID, func(product *catalog.Product) error {
		return product.Update(req.Name, req.Description)
	})
}

// SetSellingPrice changes a product's selling price
func (s *ProductService) SetSellingPrice(ctx context.Context, productID uuid.UUID, req SetSellingPriceRequest) (*ProductResponse, error) {
	return s.mutate(ctx, productID, func(product *catalog.Product) error {
		return product.SetSellingPrice(valueobject.NewMoneyINR(req.SellingPrice))
	})
}

// AdjustStock corrects the bulk on-hand quantity. Positive quantities add,
// negative quantities deduct.
func (s *ProductService) AdjustStock(ctx context.Context, productID uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	return s.mutate(ctx, productID, func(product *catalog.Product) error {
		if req.Quantity.IsNegative() {
			return product.DeductStock(req.Quantity.Neg())
		}
		return product.AddStock(req.Quantity)
	})
}

// Discontinue retires a product. Discontinued products refuse new production
// batches and new order lines but keep their history.
func (s *ProductService) Discontinue(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, productID, func(product *catalog.Product) error {
		product.Discontinue()
		return nil
	})
}

func (s *ProductService) mutate(ctx context.Context, productID uuid.UUID, fn func(product *catalog.Product) error) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := fn(product); err != nil {
		return nil, err
	}
	if err := s.products.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)
	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range product.GetDomainEvents() {
		// Best effort: notification fan-out must never fail the operation.
		_ = s.eventPublisher.Publish(ctx, event)
	}
	product.ClearDomainEvents()
}
