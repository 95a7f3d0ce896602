package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	procurementapp "github.com/loomworks/backend/internal/application/procurement"
)

// ProcurementHandler handles procurement order API endpoints
type ProcurementHandler struct {
	BaseHandler
	orderService *procurementapp.OrderService
}

// NewProcurementHandler creates a new ProcurementHandler
func NewProcurementHandler(orderService *procurementapp.OrderService) *ProcurementHandler {
	return &ProcurementHandler{
		orderService: orderService,
	}
}

// Create godoc
// @ID           createProcurementOrder
// @Summary      Place a procurement order
// @Description  Places an order for raw material with a supplier
// @Tags         procurement
// @Accept       json
// @Produce      json
// @Param        request body procurementapp.CreateOrderRequest true "Order details"
// @Success      201 {object} APIResponse[procurementapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /procurement/orders [post]
func (h *ProcurementHandler) Create(c *gin.Context) {
	var req procurementapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID godoc
// @ID           getProcurementOrderById
// @Summary      Get a procurement order by ID
// @Tags         procurement
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[procurementapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /procurement/orders/{id} [get]
func (h *ProcurementHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List godoc
// @ID           listProcurementOrders
// @Summary      List procurement orders
// @Tags         procurement
// @Produce      json
// @Param        status query string false "Status filter" Enums(ordered, in-transit, delivered, cancelled)
// @Param        search query string false "Search by material name or supplier"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]procurementapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /procurement/orders [get]
func (h *ProcurementHandler) List(c *gin.Context) {
	var filter procurementapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// MarkInTransit godoc
// @ID           markProcurementOrderInTransit
// @Summary      Mark a procurement order as in transit
// @Tags         procurement
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[procurementapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /procurement/orders/{id}/in-transit [post]
func (h *ProcurementHandler) MarkInTransit(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.MarkInTransit(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Deliver godoc
// @ID           deliverProcurementOrder
// @Summary      Record a delivery and reconcile it into inventory
// @Description  Marks the order delivered and merges the quantity into a matching lot, or creates a new lot
// @Tags         procurement
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[procurementapp.DeliveryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /procurement/orders/{id}/deliver [post]
func (h *ProcurementHandler) Deliver(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	result, err := h.orderService.Deliver(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel godoc
// @ID           cancelProcurementOrder
// @Summary      Cancel a procurement order
// @Description  Cancels an order that has not yet been delivered
// @Tags         procurement
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[procurementapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /procurement/orders/{id}/cancel [post]
func (h *ProcurementHandler) Cancel(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
