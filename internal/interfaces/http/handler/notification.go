package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	notificationapp "github.com/loomworks/backend/internal/application/notification"
)

// NotificationHandler handles operational notification API endpoints
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.Service) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GetByID godoc
// @ID           getNotificationById
// @Summary      Get a notification by ID
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID" format(uuid)
// @Success      200 {object} APIResponse[notificationapp.Response]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /notifications/{id} [get]
func (h *NotificationHandler) GetByID(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid notification ID format")
		return
	}

	notification, err := h.notificationService.GetByID(c.Request.Context(), notificationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, notification)
}

// List godoc
// @ID           listNotifications
// @Summary      List notifications
// @Description  Retrieve a paginated list of operational notifications, optionally filtered by kind or pending state
// @Tags         notifications
// @Produce      json
// @Param        kind query string false "Kind filter" Enums(material_shortage, stock_update)
// @Param        pending_only query bool false "Only unresolved notifications"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]notificationapp.Response]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	var filter notificationapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	notifications, total, err := h.notificationService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, notifications, total, page, pageSize)
}

// Resolve godoc
// @ID           resolveNotification
// @Summary      Resolve a notification
// @Description  Marks a pending notification as handled
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        id path string true "Notification ID" format(uuid)
// @Param        request body notificationapp.ResolveRequest true "Resolution details"
// @Success      200 {object} APIResponse[notificationapp.Response]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /notifications/{id}/resolve [post]
func (h *NotificationHandler) Resolve(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid notification ID format")
		return
	}

	var req notificationapp.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	notification, err := h.notificationService.Resolve(c.Request.Context(), notificationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, notification)
}
