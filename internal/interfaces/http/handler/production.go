package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	productionapp "github.com/loomworks/backend/internal/application/production"
	"github.com/loomworks/backend/internal/domain/production"
	"github.com/loomworks/backend/internal/domain/shared"
)

// ProductionHandler handles production batch and flow API endpoints
type ProductionHandler struct {
	BaseHandler
	productionService *productionapp.Service
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(productionService *productionapp.Service) *ProductionHandler {
	return &ProductionHandler{
		productionService: productionService,
	}
}

// PrepareUnitDraftsRequest sizes the draft grid for individual finalization
// @Description Request body for preparing unit draft rows
type PrepareUnitDraftsRequest struct {
	Count int `json:"count" binding:"required,min=1" example:"10"`
}

// CreateBatch godoc
// @ID           createProductionBatch
// @Summary      Start a production batch
// @Description  Creates a batch in planning and its step flow for the given product
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        request body productionapp.CreateBatchRequest true "Batch details"
// @Success      201 {object} APIResponse[productionapp.BatchResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /production/batches [post]
func (h *ProductionHandler) CreateBatch(c *gin.Context) {
	var req productionapp.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	batch, err := h.productionService.CreateBatch(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, batch)
}

// GetBatch godoc
// @ID           getProductionBatchById
// @Summary      Get a production batch by ID
// @Tags         production
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Success      200 {object} APIResponse[productionapp.BatchResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /production/batches/{id} [get]
func (h *ProductionHandler) GetBatch(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	batch, err := h.productionService.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batch)
}

// ListBatches godoc
// @ID           listProductionBatches
// @Summary      List production batches
// @Tags         production
// @Produce      json
// @Param        status query string false "Status filter" Enums(planning, active, completed)
// @Param        search query string false "Search by batch number"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]productionapp.BatchResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /production/batches [get]
func (h *ProductionHandler) ListBatches(c *gin.Context) {
	filter := shared.DefaultFilter()
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil && size > 0 {
		filter.PageSize = size
	}
	filter.Search = c.Query("search")

	var status *production.BatchStatus
	if raw := c.Query("status"); raw != "" {
		s := production.BatchStatus(raw)
		status = &s
	}

	batches, total, err := h.productionService.ListBatches(c.Request.Context(), status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, batches, total, filter.Page, filter.PageSize)
}

// GetFlow godoc
// @ID           getProductionFlow
// @Summary      Get the step flow of a batch
// @Tags         production
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Success      200 {object} APIResponse[productionapp.FlowResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /production/batches/{id}/flow [get]
func (h *ProductionHandler) GetFlow(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	flow, err := h.productionService.GetFlow(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, flow)
}

// RecipePrefill godoc
// @ID           getRecipePrefill
// @Summary      Get the remembered material selection for a product
// @Description  Returns the last confirmed selection recipe, with per-line availability against current stock
// @Tags         production
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[[]productionapp.RecipeLinePrefill]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /production/recipes/{product_id}/prefill [get]
func (h *ProductionHandler) RecipePrefill(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	lines, err := h.productionService.RecipePrefill(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lines)
}

// SelectMaterials godoc
// @ID           selectBatchMaterials
// @Summary      Confirm material selection for a batch
// @Description  Atomically deducts the selected quantities from inventory, records consumption, activates the batch and saves the selection as the product's recipe
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Param        request body productionapp.SelectMaterialsRequest true "Selected lots and quantities"
// @Success      200 {object} APIResponse[productionapp.SelectionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /production/batches/{id}/materials [post]
func (h *ProductionHandler) SelectMaterials(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	var req productionapp.SelectMaterialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.productionService.SelectMaterials(c.Request.Context(), batchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AddMachineStep godoc
// @ID           addMachineStep
// @Summary      Add a machine step to a batch flow
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Param        request body productionapp.AddMachineStepRequest true "Machine step details"
// @Success      200 {object} APIResponse[productionapp.FlowResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /production/batches/{id}/steps/machine [post]
func (h *ProductionHandler) AddMachineStep(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	var req productionapp.AddMachineStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	flow, err := h.productionService.AddMachineStep(c.Request.Context(), batchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, flow)
}

// AdvanceStep godoc
// @ID           advanceFlowStep
// @Summary      Advance the current step of a batch flow
// @Description  Moves the current step to in_progress or completed; completing a step advances the flow
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Param        request body productionapp.AdvanceStepRequest true "Target step status"
// @Success      200 {object} APIResponse[productionapp.FlowResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /production/batches/{id}/steps/advance [post]
func (h *ProductionHandler) AdvanceStep(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	var req productionapp.AdvanceStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	flow, err := h.productionService.AdvanceStep(c.Request.Context(), batchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, flow)
}

// EnterWasteTracking godoc
// @ID           enterWasteTracking
// @Summary      Enter the waste tracking stage
// @Tags         production
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Success      200 {object} APIResponse[productionapp.FlowResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /production/batches/{id}/waste/enter [post]
func (h *ProductionHandler) EnterWasteTracking(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	flow, err := h.productionService.EnterWasteTracking(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, flow)
}

// RecordWaste godoc
// @ID           recordBatchWaste
// @Summary      Record generated waste for a batch
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Param        request body productionapp.RecordWasteRequest true "Waste entry"
// @Success      200 {object} APIResponse[productionapp.BatchResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /production/batches/{id}/waste [post]
func (h *ProductionHandler) RecordWaste(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	var req productionapp.RecordWasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	batch, err := h.productionService.RecordWaste(c.Request.Context(), batchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batch)
}

// EnterIndividualFinalization godoc
// @ID           enterIndividualFinalization
// @Summary      Enter the individual finalization stage
// @Tags         production
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Success      200 {object} APIResponse[productionapp.FlowResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /production/batches/{id}/units/enter [post]
func (h *ProductionHandler) EnterIndividualFinalization(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	flow, err := h.productionService.EnterIndividualFinalization(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, flow)
}

// PrepareUnitDrafts godoc
// @ID           prepareUnitDrafts
// @Summary      Prepare unit draft rows with suggested custom IDs
// @Description  Sizes the draft grid and seeds each row with the next free custom ID for the product
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Param        request body PrepareUnitDraftsRequest true "Number of drafts"
// @Success      200 {object} APIResponse[productionapp.FlowResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /production/batches/{id}/units/prepare [post]
func (h *ProductionHandler) PrepareUnitDrafts(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	var req PrepareUnitDraftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	flow, err := h.productionService.PrepareUnitDrafts(c.Request.Context(), batchID, req.Count)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, flow)
}

// SetUnitDrafts godoc
// @ID           setUnitDrafts
// @Summary      Replace the unit drafts of a batch
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Param        request body productionapp.SetUnitDraftsRequest true "Unit drafts"
// @Success      200 {object} APIResponse[productionapp.FlowResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /production/batches/{id}/units/drafts [put]
func (h *ProductionHandler) SetUnitDrafts(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	var req productionapp.SetUnitDraftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	flow, err := h.productionService.SetUnitDrafts(c.Request.Context(), batchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, flow)
}

// CompleteFlow godoc
// @ID           completeProductionFlow
// @Summary      Complete a production flow
// @Description  Materializes unit drafts into sellable individual units, adds them to product stock and completes the batch
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Param        request body productionapp.CompleteFlowRequest true "Completion details"
// @Success      200 {object} APIResponse[productionapp.CompletionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /production/batches/{id}/complete [post]
func (h *ProductionHandler) CompleteFlow(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	var req productionapp.CompleteFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.productionService.CompleteFlow(c.Request.Context(), batchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
