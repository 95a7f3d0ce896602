package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/loomworks/backend/internal/application/inventory"
)

// MaterialHandler handles raw-material inventory API endpoints
type MaterialHandler struct {
	BaseHandler
	materialService *inventoryapp.MaterialService
}

// NewMaterialHandler creates a new MaterialHandler
func NewMaterialHandler(materialService *inventoryapp.MaterialService) *MaterialHandler {
	return &MaterialHandler{
		materialService: materialService,
	}
}

// Create godoc
// @ID           createMaterial
// @Summary      Register a raw-material lot
// @Description  Registers a raw-material lot directly, outside the procurement pipeline
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.CreateMaterialRequest true "Material details"
// @Success      201 {object} APIResponse[inventoryapp.MaterialResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/materials [post]
func (h *MaterialHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	material, err := h.materialService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, material)
}

// GetByID godoc
// @ID           getMaterialById
// @Summary      Get a raw-material lot by ID
// @Tags         materials
// @Produce      json
// @Param        id path string true "Material ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.MaterialResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/materials/{id} [get]
func (h *MaterialHandler) GetByID(c *gin.Context) {
	materialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	material, err := h.materialService.GetByID(c.Request.Context(), materialID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, material)
}

// List godoc
// @ID           listMaterials
// @Summary      List raw-material lots
// @Description  Retrieve a paginated list of raw-material lots with optional stock-status filtering
// @Tags         materials
// @Produce      json
// @Param        status query string false "Stock status filter" Enums(in-stock, low-stock, out-of-stock, overstock)
// @Param        search query string false "Search by name or supplier"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]inventoryapp.MaterialResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	var filter inventoryapp.MaterialListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	materials, total, err := h.materialService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, materials, total, page, pageSize)
}

// SetThresholds godoc
// @ID           setMaterialThresholds
// @Summary      Set stock alert thresholds
// @Description  Updates the minimum threshold and maximum capacity of a lot
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        id path string true "Material ID" format(uuid)
// @Param        request body inventoryapp.SetThresholdsRequest true "Thresholds"
// @Success      200 {object} APIResponse[inventoryapp.MaterialResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/materials/{id}/thresholds [put]
func (h *MaterialHandler) SetThresholds(c *gin.Context) {
	materialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	var req inventoryapp.SetThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	material, err := h.materialService.SetThresholds(c.Request.Context(), materialID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, material)
}

// UpdateDetails godoc
// @ID           updateMaterialDetails
// @Summary      Update descriptive fields of a lot
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        id path string true "Material ID" format(uuid)
// @Param        request body inventoryapp.UpdateDetailsRequest true "Details"
// @Success      200 {object} APIResponse[inventoryapp.MaterialResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/materials/{id} [put]
func (h *MaterialHandler) UpdateDetails(c *gin.Context) {
	materialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid material ID format")
		return
	}

	var req inventoryapp.UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	material, err := h.materialService.UpdateDetails(c.Request.Context(), materialID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, material)
}
