package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/catalog"
	"github.com/loomworks/backend/internal/domain/production"
	"github.com/loomworks/backend/internal/domain/sales"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/domain/shared/valueobject"
	"github.com/loomworks/backend/internal/infrastructure/telemetry"
)

// OrderService handles sales order business operations
type OrderService struct {
	orders         sales.OrderRepository
	products       catalog.ProductRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(orders sales.OrderRepository, products catalog.ProductRepository, txScope TransactionScope) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		txScope:  txScope,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create places a new sales order. Prices, units and names are resolved from
// the catalog and inventory so the order carries a snapshot of them.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	var created *sales.Order

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		items := make([]sales.OrderItem, 0, len(req.Items))
		for _, line := range req.Items {
			item, err := s.resolveItem(ctx, repos, line)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		count, err := repos.Orders().Count(ctx, shared.Filter{})
		if err != nil {
			return err
		}
		orderNumber := fmt.Sprintf("SO-%s-%04d", time.Now().Format("20060102"), count+1)

		order, err := sales.NewOrder(orderNumber, req.CustomerName, req.CustomerContact, items)
		if err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, created)
	response := ToOrderResponse(created)
	return &response, nil
}

func (s *OrderService) resolveItem(ctx context.Context, repos TransactionalRepositories, line CreateOrderItemRequest) (sales.OrderItem, error) {
	switch line.ProductType {
	case sales.ProductTypeProduct:
		product, err := repos.Products().FindByID(ctx, line.ProductID)
		if err != nil {
			return sales.OrderItem{}, err
		}
		if !product.IsActive() {
			return sales.OrderItem{}, shared.NewDomainError("PRODUCT_DISCONTINUED", "Product "+product.Name+" is discontinued")
		}
		return sales.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductType: sales.ProductTypeProduct,
			Quantity:    line.Quantity,
			Unit:        product.Unit,
			UnitPrice:   product.SellingPrice,
			GSTRate:     product.GSTRate,
		}, nil
	case sales.ProductTypeRawMaterial:
		material, err := repos.Materials().FindByID(ctx, line.ProductID)
		if err != nil {
			return sales.OrderItem{}, err
		}
		return sales.OrderItem{
			ProductID:   material.ID,
			ProductName: material.Name,
			ProductType: sales.ProductTypeRawMaterial,
			Quantity:    line.Quantity,
			Unit:        material.Unit,
			UnitPrice:   material.CostPerUnit,
		}, nil
	}
	return sales.OrderItem{}, shared.NewDomainError("INVALID_PRODUCT_TYPE", "Order item product type must be product or raw_material")
}

// GetByID retrieves a sales order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves sales orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search

	var (
		orders []sales.Order
		err    error
	)
	if filter.Status != nil {
		orders, err = s.orders.FindByStatus(ctx, *filter.Status, domainFilter)
	} else {
		orders, err = s.orders.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orders.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// Accept moves a pending order to accepted
func (s *OrderService) Accept(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *sales.Order) error {
		return order.Accept()
	})
}

// SelectUnits records which individual units fulfil a product line
func (s *OrderService) SelectUnits(ctx context.Context, orderID uuid.UUID, req SelectUnitsRequest) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *sales.Order) error {
		return order.SelectUnits(req.ProductID, req.UnitIDs)
	})
}

// RecordPayment credits a payment against the order
func (s *OrderService) RecordPayment(ctx context.Context, orderID uuid.UUID, req RecordPaymentRequest) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *sales.Order) error {
		return order.RecordPayment(valueobject.NewMoneyINR(req.Amount))
	})
}

// Dispatch runs the dispatch guard and, when it passes, deducts stock for
// every item, flips the selected units to sold and marks the order
// dispatched. The whole pass is one transaction: if any single item fails,
// nothing is persisted.
func (s *OrderService) Dispatch(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "dispatch")
	defer span.End()
	telemetry.SetAttributes(span, "order_id", orderID.String())

	var dispatched *sales.Order

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		products, err := s.loadProducts(ctx, repos, order)
		if err != nil {
			return err
		}

		if err := sales.GuardDispatch(order, func(productID uuid.UUID) sales.DispatchRequirement {
			if p, ok := products[productID]; ok {
				return sales.DispatchRequirement{TracksIndividualUnits: p.TracksIndividualUnits}
			}
			return sales.DispatchRequirement{}
		}); err != nil {
			return err
		}

		for _, item := range order.Items {
			switch item.ProductType {
			case sales.ProductTypeProduct:
				product, ok := products[item.ProductID]
				if !ok {
					return shared.ErrNotFound
				}
				if err := product.DeductStock(item.Quantity); err != nil {
					return err
				}
			case sales.ProductTypeRawMaterial:
				material, err := repos.Materials().FindByID(ctx, item.ProductID)
				if err != nil {
					return err
				}
				if err := material.Consume(item.Quantity); err != nil {
					return err
				}
				if err := repos.Materials().SaveWithLock(ctx, material); err != nil {
					return err
				}
			}
		}

		if err := s.sellSelectedUnits(ctx, repos, order); err != nil {
			return err
		}

		for _, product := range products {
			if err := repos.Products().SaveWithLock(ctx, product); err != nil {
				return err
			}
		}

		if err := order.MarkDispatched(); err != nil {
			return err
		}
		if err := repos.Orders().SaveWithLock(ctx, order); err != nil {
			return err
		}

		dispatched = order
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, dispatched)
	response := ToOrderResponse(dispatched)
	return &response, nil
}

func (s *OrderService) loadProducts(ctx context.Context, repos TransactionalRepositories, order *sales.Order) (map[uuid.UUID]*catalog.Product, error) {
	var ids []uuid.UUID
	for _, item := range order.Items {
		if item.ProductType == sales.ProductTypeProduct {
			ids = append(ids, item.ProductID)
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*catalog.Product{}, nil
	}

	products, err := repos.Products().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, shared.ErrNotFound
		}
	}
	return byID, nil
}

func (s *OrderService) sellSelectedUnits(ctx context.Context, repos TransactionalRepositories, order *sales.Order) error {
	var unitIDs []uuid.UUID
	for _, item := range order.Items {
		unitIDs = append(unitIDs, item.SelectedUnitIDs...)
	}
	if len(unitIDs) == 0 {
		return nil
	}

	units, err := repos.Units().FindByIDs(ctx, unitIDs)
	if err != nil {
		return err
	}
	if len(units) != len(unitIDs) {
		return shared.NewDomainError("UNIT_NOT_FOUND", "One or more selected units do not exist")
	}

	toSave := make([]*production.IndividualUnit, 0, len(units))
	for i := range units {
		if err := units[i].MarkSold(order.ID, order.CustomerName); err != nil {
			return err
		}
		toSave = append(toSave, &units[i])
	}
	return repos.Units().SaveAll(ctx, toSave)
}

// Deliver marks a fully paid dispatched order delivered
func (s *OrderService) Deliver(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *sales.Order) error {
		return order.Deliver()
	})
}

// Cancel cancels a non-terminal order. Stock already deducted at dispatch
// stays deducted.
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *sales.Order) error {
		return order.Cancel()
	})
}

func (s *OrderService) mutate(ctx context.Context, orderID uuid.UUID, fn func(order *sales.Order) error) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := fn(order); err != nil {
		return nil, err
	}
	if err := s.orders.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	response := ToOrderResponse(order)
	return &response, nil
}

func (s *OrderService) publishEvents(ctx context.Context, order *sales.Order) {
	if s.eventPublisher == nil || order == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		// Best effort: notification fan-out must never fail the operation.
		_ = s.eventPublisher.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}
