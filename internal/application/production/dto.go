package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/production"
	"github.com/shopspring/decimal"
)

// CreateBatchRequest starts a new production run
type CreateBatchRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	TargetQuantity decimal.Decimal `json:"target_quantity" binding:"required"`
	StartedBy      string          `json:"started_by" binding:"max=100"`
}

// SelectionLineRequest is one material line the planner wants to consume
type SelectionLineRequest struct {
	MaterialID uuid.UUID       `json:"material_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
}

// SelectMaterialsRequest commits material consumption for a batch
type SelectMaterialsRequest struct {
	Lines      []SelectionLineRequest `json:"lines" binding:"required,min=1,dive"`
	SelectedBy string                 `json:"selected_by" binding:"max=100"`
}

// AddMachineStepRequest inserts a machine operation into the flow
type AddMachineStepRequest struct {
	MachineRef string `json:"machine_ref" binding:"required,max=100"`
	Inspector  string `json:"inspector" binding:"max=100"`
}

// AdvanceStepRequest moves the current machine operation forward
type AdvanceStepRequest struct {
	Status    production.StepStatus `json:"status" binding:"required,oneof=in_progress completed"`
	Inspector string                `json:"inspector" binding:"max=100"`
	Notes     string                `json:"notes" binding:"max=500"`
}

// RecordWasteRequest records one waste line on the batch
type RecordWasteRequest struct {
	MaterialID  *uuid.UUID      `json:"material_id,omitempty"`
	Description string          `json:"description" binding:"required,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Unit        string          `json:"unit" binding:"required,max=20"`
	Reason      string          `json:"reason" binding:"max=200"`
}

// UnitDraftRequest carries the finish measurements for one unit
type UnitDraftRequest struct {
	CustomID       string `json:"custom_id" binding:"required,max=50"`
	FinalWeight    string `json:"final_weight" binding:"max=50"`
	FinalThickness string `json:"final_thickness" binding:"max=50"`
	FinalWidth     string `json:"final_width" binding:"max=50"`
	FinalHeight    string `json:"final_height" binding:"max=50"`
	QualityGrade   string `json:"quality_grade" binding:"max=50"`
	Notes          string `json:"notes" binding:"max=500"`
}

// SetUnitDraftsRequest replaces the finalization drafts wholesale
type SetUnitDraftsRequest struct {
	Drafts []UnitDraftRequest `json:"drafts" binding:"required,min=1,dive"`
}

// CompleteFlowRequest finishes the production run
type CompleteFlowRequest struct {
	Inspector string `json:"inspector" binding:"max=100"`
}

// StepResponse is one flow step in API responses
type StepResponse struct {
	StepNumber   int        `json:"step_number"`
	Kind         string     `json:"kind"`
	Status       string     `json:"status"`
	MachineRef   string     `json:"machine_ref,omitempty"`
	Inspector    string     `json:"inspector,omitempty"`
	QualityNotes string     `json:"quality_notes,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// FlowResponse is the API representation of a production flow
type FlowResponse struct {
	ID               uuid.UUID              `json:"id"`
	BatchID          uuid.UUID              `json:"batch_id"`
	Status           string                 `json:"status"`
	Steps            []StepResponse         `json:"steps"`
	CurrentStepIndex int                    `json:"current_step_index"`
	UnitDrafts       []production.UnitDraft `json:"unit_drafts,omitempty"`
}

// ConsumptionResponse is one committed material line
type ConsumptionResponse struct {
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
}

// ShortageResponse is one oversubscribed material line
type ShortageResponse struct {
	MaterialID    uuid.UUID       `json:"material_id"`
	MaterialName  string          `json:"material_name"`
	Requested     decimal.Decimal `json:"requested"`
	Available     decimal.Decimal `json:"available"`
	Shortage      decimal.Decimal `json:"shortage"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

// SelectionResponse reports what a material selection committed and flagged
type SelectionResponse struct {
	Batch     BatchResponse         `json:"batch"`
	Committed []ConsumptionResponse `json:"committed"`
	Shortages []ShortageResponse    `json:"shortages"`
}

// BatchResponse is the API representation of a production batch
type BatchResponse struct {
	ID                uuid.UUID                        `json:"id"`
	BatchNumber       string                           `json:"batch_number"`
	ProductID         uuid.UUID                        `json:"product_id"`
	ProductName       string                           `json:"product_name"`
	TargetQuantity    decimal.Decimal                  `json:"target_quantity"`
	Status            string                           `json:"status"`
	MaterialsConsumed []production.MaterialConsumption `json:"materials_consumed"`
	WasteGenerated    []production.WasteItem           `json:"waste_generated"`
	CompletedAt       *time.Time                       `json:"completed_at,omitempty"`
	CreatedAt         time.Time                        `json:"created_at"`
}

// RecipeLinePrefill is a recipe line annotated with current availability.
// Materials that left inventory since the last run are flagged rather than
// silently dropped.
type RecipeLinePrefill struct {
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	Available    bool            `json:"available"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}

// UnitResponse is the API representation of an individual unit
type UnitResponse struct {
	ID           uuid.UUID `json:"id"`
	BatchID      uuid.UUID `json:"batch_id"`
	ProductID    uuid.UUID `json:"product_id"`
	CustomID     string    `json:"custom_id"`
	QualityGrade string    `json:"quality_grade"`
	Status       string    `json:"status"`
}

// CompletionResponse reports what flow completion produced
type CompletionResponse struct {
	Batch BatchResponse  `json:"batch"`
	Flow  FlowResponse   `json:"flow"`
	Units []UnitResponse `json:"units"`
}

// ToBatchResponse converts a domain batch to its API representation
func ToBatchResponse(b *production.Batch) BatchResponse {
	return BatchResponse{
		ID:                b.ID,
		BatchNumber:       b.BatchNumber,
		ProductID:         b.ProductID,
		ProductName:       b.ProductName,
		TargetQuantity:    b.TargetQuantity,
		Status:            b.Status.String(),
		MaterialsConsumed: b.MaterialsConsumed,
		WasteGenerated:    b.WasteGenerated,
		CompletedAt:       b.CompletedAt,
		CreatedAt:         b.CreatedAt,
	}
}

// ToFlowResponse converts a domain flow to its API representation
func ToFlowResponse(f *production.Flow) FlowResponse {
	steps := make([]StepResponse, len(f.Steps))
	for i, s := range f.Steps {
		steps[i] = StepResponse{
			StepNumber:   s.StepNumber,
			Kind:         s.Kind.String(),
			Status:       s.Status.String(),
			MachineRef:   s.MachineRef,
			Inspector:    s.Inspector,
			QualityNotes: s.QualityNotes,
			StartedAt:    s.StartedAt,
			CompletedAt:  s.CompletedAt,
		}
	}
	return FlowResponse{
		ID:               f.ID,
		BatchID:          f.BatchID,
		Status:           f.Status.String(),
		Steps:            steps,
		CurrentStepIndex: f.CurrentStepIndex,
		UnitDrafts:       f.UnitDrafts,
	}
}

// ToUnitResponse converts a domain unit to its API representation
func ToUnitResponse(u *production.IndividualUnit) UnitResponse {
	return UnitResponse{
		ID:           u.ID,
		BatchID:      u.BatchID,
		ProductID:    u.ProductID,
		CustomID:     u.CustomID,
		QualityGrade: u.QualityGrade,
		Status:       u.Status.String(),
	}
}
