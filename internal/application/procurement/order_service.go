package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/procurement"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/domain/shared/valueobject"
)

// OrderService handles procurement order business operations
type OrderService struct {
	orders         procurement.OrderRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(orders procurement.OrderRepository, txScope TransactionScope) *OrderService {
	return &OrderService{
		orders:  orders,
		txScope: txScope,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create places a new procurement order
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	order, err := procurement.NewOrder(
		req.MaterialName, req.Brand, req.Category, req.Supplier, req.QualityGrade, req.Unit,
		req.Quantity, valueobject.NewMoneyINR(req.CostPerUnit), req.IsRestock, req.PlacedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a procurement order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves procurement orders with filtering and pagination
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
		orders []procurement.Order
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

// MarkInTransit moves an order to in-transit
func (s *OrderService) MarkInTransit(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.MarkInTransit(); err != nil {
		return nil, err
	}
	if err := s.orders.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel cancels an undelivered order
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orders.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Deliver marks the order delivered and reconciles it into inventory in one
// transaction. Delivery is the single reconciliation trigger and each order
// reconciles exactly once; a rolled-back reconciliation also rolls back the
// status change.
func (s *OrderService) Deliver(ctx context.Context, orderID uuid.UUID) (*DeliveryResponse, error) {
	var (
		delivered *procurement.Order
		result    *procurement.ReconcileResult
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.MarkDelivered(); err != nil {
			return err
		}

		reconciler := procurement.NewReconciler(repos.Materials())
		result, err = reconciler.Reconcile(ctx, order)
		if err != nil {
			return err
		}

		if err := repos.Orders().SaveWithLock(ctx, order); err != nil {
			return err
		}

		delivered = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, delivered)
	if result.Material != nil {
		s.publishMaterialEvents(ctx, result)
	}

	return &DeliveryResponse{
		Order:      ToOrderResponse(delivered),
		MaterialID: result.Material.ID,
		CreatedLot: result.CreatedLot,
	}, nil
}

func (s *OrderService) publishEvents(ctx context.Context, order *procurement.Order) {
	if s.eventPublisher == nil || order == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}

func (s *OrderService) publishMaterialEvents(ctx context.Context, result *procurement.ReconcileResult) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range result.Material.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	result.Material.ClearDomainEvents()
}
