package production

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/catalog"
	"github.com/loomworks/backend/internal/domain/inventory"
	"github.com/loomworks/backend/internal/domain/procurement"
	"github.com/loomworks/backend/internal/domain/production"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
)

// Service drives a batch and its flow through the production lifecycle:
// planning, material selection, machine operations, waste tracking and
// individual finalization.
type Service struct {
	batches        production.BatchRepository
	flows          production.FlowRepository
	recipes        production.RecipeRepository
	materials      inventory.RawMaterialRepository
	products       catalog.ProductRepository
	units          production.IndividualUnitRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewService creates a new production Service
func NewService(
	batches production.BatchRepository,
	flows production.FlowRepository,
	recipes production.RecipeRepository,
	materials inventory.RawMaterialRepository,
	products catalog.ProductRepository,
	units production.IndividualUnitRepository,
	txScope TransactionScope,
) *Service {
	return &Service{
		batches:   batches,
		flows:     flows,
		recipes:   recipes,
		materials: materials,
		products:  products,
		units:     units,
		txScope:   txScope,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateBatch plans a new production run and creates its flow in the same
// transaction. The flow starts as [material_selection, testing_individual];
// machine steps are inserted later by the operator.
func (s *Service) CreateBatch(ctx context.Context, req CreateBatchRequest) (*BatchResponse, error) {
	var (
		created     *production.Batch
		createdFlow *production.Flow
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if !product.IsActive() {
			return shared.NewDomainError("PRODUCT_DISCONTINUED", "Product "+product.Name+" is discontinued")
		}

		count, err := repos.Batches().Count(ctx, shared.Filter{})
		if err != nil {
			return err
		}
		batchNumber := fmt.Sprintf("PB-%s-%04d", time.Now().Format("20060102"), count+1)

		batch, err := production.NewBatch(batchNumber, product.ID, product.Name, req.TargetQuantity, req.StartedBy)
		if err != nil {
			return err
		}
		flow, err := production.NewFlow(batch)
		if err != nil {
			return err
		}

		if err := repos.Batches().Save(ctx, batch); err != nil {
			return err
		}
		if err := repos.Flows().Save(ctx, flow); err != nil {
			return err
		}

		created = batch
		createdFlow = flow
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, created, createdFlow)
	response := ToBatchResponse(created)
	return &response, nil
}

// GetBatch retrieves a batch by ID
func (s *Service) GetBatch(ctx context.Context, batchID uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	response := ToBatchResponse(batch)
	return &response, nil
}

// ListBatches retrieves batches with filtering and pagination
func (s *Service) ListBatches(ctx context.Context, status *production.BatchStatus, filter shared.Filter) ([]BatchResponse, int64, error) {
	var (
		batches []production.Batch
		err     error
	)
	if status != nil {
		batches, err = s.batches.FindByStatus(ctx, *status, filter)
	} else {
		batches, err = s.batches.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.batches.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BatchResponse, len(batches))
	for i := range batches {
		responses[i] = ToBatchResponse(&batches[i])
	}
	return responses, total, nil
}

// GetFlow retrieves the flow of a batch
func (s *Service) GetFlow(ctx context.Context, batchID uuid.UUID) (*FlowResponse, error) {
	flow, err := s.flows.FindByBatchID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	response := ToFlowResponse(flow)
	return &response, nil
}

// RecipePrefill returns the product's last-used bill of materials, each line
// annotated with whether the material still exists and how much stock it has.
// A product without a recipe yields an empty prefill, not an error.
func (s *Service) RecipePrefill(ctx context.Context, productID uuid.UUID) ([]RecipeLinePrefill, error) {
	recipe, err := s.recipes.FindByProductID(ctx, productID)
	if errors.Is(err, shared.ErrNotFound) {
		return []RecipeLinePrefill{}, nil
	}
	if err != nil {
		return nil, err
	}

	prefill := make([]RecipeLinePrefill, 0, len(recipe.Lines))
	for _, line := range recipe.Lines {
		entry := RecipeLinePrefill{
			MaterialID:   line.MaterialID,
			MaterialName: line.MaterialName,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
			CostPerUnit:  line.CostPerUnit,
			CurrentStock: decimal.Zero,
		}
		material, err := s.materials.FindByID(ctx, line.MaterialID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			// Recipe line survives even when the lot is gone; the planner
			// sees it flagged instead of losing it.
		case err != nil:
			return nil, err
		default:
			entry.Available = !material.IsOutOfStock()
			entry.CurrentStock = material.CurrentStock
			entry.CostPerUnit = material.CostPerUnit
		}
		prefill = append(prefill, entry)
	}
	return prefill, nil
}

// SelectMaterials commits material consumption for a batch. Lines that stock
// fully covers are deducted and recorded; oversubscribed lines become
// shortages that are reported back and fanned out as events, never errors.
// A successful selection activates a planning batch and completes the flow's
// selection step. The committed lines also overwrite the product's recipe.
func (s *Service) SelectMaterials(ctx context.Context, batchID uuid.UUID, req SelectMaterialsRequest) (*SelectionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "production", "select_materials")
	defer span.End()
	telemetry.SetAttributes(span,
		"batch_id", batchID.String(),
		"lines", len(req.Lines),
	)

	var (
		batch     *production.Batch
		shortages []procurement.Shortage
		committed []ConsumptionResponse
		touched   []eventSource
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		batch, err = repos.Batches().FindByID(ctx, batchID)
		if err != nil {
			return err
		}
		flow, err := repos.Flows().FindByBatchID(ctx, batchID)
		if err != nil {
			return err
		}

		lookup, err := s.loadMaterials(ctx, repos, req.Lines)
		if err != nil {
			return err
		}

		requests := make([]procurement.ConsumptionRequest, len(req.Lines))
		for i, line := range req.Lines {
			requests[i] = procurement.ConsumptionRequest{MaterialID: line.MaterialID, Quantity: line.Quantity}
		}

		plan := procurement.PlanConsumption(requests, func(id uuid.UUID) (*inventory.RawMaterial, bool) {
			m, ok := lookup[id]
			return m, ok
		})
		shortages = plan.Shortages

		now := time.Now()
		lines := make([]production.MaterialConsumption, 0, len(plan.Commits))
		for _, commit := range plan.Commits {
			cost := commit.Material.CostPerUnit
			if err := commit.Material.Consume(commit.Quantity); err != nil {
				return err
			}
			if err := repos.Materials().SaveWithLock(ctx, commit.Material); err != nil {
				return err
			}
			lines = append(lines, production.MaterialConsumption{
				MaterialID:   commit.Material.ID,
				MaterialName: commit.Material.Name,
				Quantity:     commit.Quantity,
				Unit:         commit.Material.Unit,
				CostPerUnit:  cost,
				ConsumedAt:   now,
			})
			committed = append(committed, ConsumptionResponse{
				MaterialID:   commit.Material.ID,
				MaterialName: commit.Material.Name,
				Quantity:     commit.Quantity,
				Unit:         commit.Material.Unit,
			})
			touched = append(touched, commit.Material)
		}

		if err := batch.RecordConsumption(lines); err != nil {
			return err
		}
		if len(lines) > 0 {
			if batch.Status == production.BatchStatusPlanning {
				if err := batch.Activate(); err != nil {
					return err
				}
			}
			if err := flow.CompleteMaterialSelection(); err != nil {
				return err
			}
			if err := s.upsertRecipe(ctx, repos, batch, req.SelectedBy); err != nil {
				return err
			}
		}

		if err := repos.Batches().SaveWithLock(ctx, batch); err != nil {
			return err
		}
		if err := repos.Flows().SaveWithLock(ctx, flow); err != nil {
			return err
		}

		touched = append(touched, batch, flow)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		"committed", len(committed),
		"shortages", len(shortages),
	)

	s.publishEvents(ctx, touched...)
	s.publishShortages(ctx, shortages)

	response := &SelectionResponse{
		Batch:     ToBatchResponse(batch),
		Committed: committed,
		Shortages: make([]ShortageResponse, len(shortages)),
	}
	for i, sh := range shortages {
		response.Shortages[i] = ShortageResponse{
			MaterialID:    sh.MaterialID,
			MaterialName:  sh.MaterialName,
			Requested:     sh.Requested,
			Available:     sh.Available,
			Shortage:      sh.Shortage,
			EstimatedCost: sh.EstimatedCost.Amount(),
		}
	}
	return response, nil
}

func (s *Service) loadMaterials(ctx context.Context, repos TransactionalRepositories, lines []SelectionLineRequest) (map[uuid.UUID]*inventory.RawMaterial, error) {
	lookup := make(map[uuid.UUID]*inventory.RawMaterial, len(lines))
	for _, line := range lines {
		if _, ok := lookup[line.MaterialID]; ok {
			continue
		}
		material, err := repos.Materials().FindByID(ctx, line.MaterialID)
		if errors.Is(err, shared.ErrNotFound) {
			// Unknown materials surface as full-quantity shortages.
			continue
		}
		if err != nil {
			return nil, err
		}
		lookup[line.MaterialID] = material
	}
	return lookup, nil
}

// upsertRecipe overwrites the product's recipe with the batch's full committed
// consumption. The latest run is the authoritative bill of materials.
func (s *Service) upsertRecipe(ctx context.Context, repos TransactionalRepositories, batch *production.Batch, selectedBy string) error {
	lines := production.LinesFromConsumption(batch.MaterialsConsumed)

	recipe, err := repos.Recipes().FindByProductID(ctx, batch.ProductID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		recipe, err = production.NewRecipe(batch.ProductID, batch.ProductName, lines, selectedBy)
		if err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err := recipe.Overwrite(lines, selectedBy); err != nil {
			return err
		}
	}
	return repos.Recipes().Save(ctx, recipe)
}

// AddMachineStep inserts a machine operation before the terminal section
func (s *Service) AddMachineStep(ctx context.Context, batchID uuid.UUID, req AddMachineStepRequest) (*FlowResponse, error) {
	return s.mutateFlow(ctx, batchID, func(flow *production.Flow) error {
		return flow.AddMachineStep(req.MachineRef, req.Inspector)
	})
}

// AdvanceStep moves the current machine operation forward
func (s *Service) AdvanceStep(ctx context.Context, batchID uuid.UUID, req AdvanceStepRequest) (*FlowResponse, error) {
	return s.mutateFlow(ctx, batchID, func(flow *production.Flow) error {
		return flow.AdvanceCurrentStep(req.Status, req.Inspector, req.Notes)
	})
}

// EnterWasteTracking navigates the flow to its wastage step
func (s *Service) EnterWasteTracking(ctx context.Context, batchID uuid.UUID) (*FlowResponse, error) {
	return s.mutateFlow(ctx, batchID, func(flow *production.Flow) error {
		return flow.EnterWasteTracking()
	})
}

// RecordWaste appends a waste line to the batch
func (s *Service) RecordWaste(ctx context.Context, batchID uuid.UUID, req RecordWasteRequest) (*BatchResponse, error) {
	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	if err := batch.RecordWaste(production.WasteItem{
		MaterialID:  req.MaterialID,
		Description: req.Description,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Reason:      req.Reason,
	}); err != nil {
		return nil, err
	}
	if err := s.batches.SaveWithLock(ctx, batch); err != nil {
		return nil, err
	}

	response := ToBatchResponse(batch)
	return &response, nil
}

// EnterIndividualFinalization navigates the flow to the terminal testing step
func (s *Service) EnterIndividualFinalization(ctx context.Context, batchID uuid.UUID) (*FlowResponse, error) {
	return s.mutateFlow(ctx, batchID, func(flow *production.Flow) error {
		return flow.EnterIndividualFinalization()
	})
}

// PrepareUnitDrafts allocates custom IDs for the requested number of units
// and seeds the flow's drafts with them. Sequences continue from the highest
// one ever allocated for the product's prefix, across all batches, so IDs
// never collide.
func (s *Service) PrepareUnitDrafts(ctx context.Context, batchID uuid.UUID, count int) (*FlowResponse, error) {
	if count <= 0 {
		return nil, shared.NewDomainError("INVALID_COUNT", "Unit count must be positive")
	}

	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, batch.ProductID)
	if err != nil {
		return nil, err
	}
	flow, err := s.flows.FindByBatchID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	prefix := product.UnitIDPrefix()
	maxSeq, err := s.units.MaxSequence(ctx, prefix)
	if err != nil {
		return nil, err
	}

	drafts := make([]production.UnitDraft, count)
	for i := range drafts {
		drafts[i] = production.UnitDraft{CustomID: production.FormatCustomID(prefix, maxSeq+int64(i)+1)}
	}
	if err := flow.SetUnitDrafts(drafts); err != nil {
		return nil, err
	}
	if err := s.flows.SaveWithLock(ctx, flow); err != nil {
		return nil, err
	}

	response := ToFlowResponse(flow)
	return &response, nil
}

// SetUnitDrafts replaces the flow's finalization drafts with the operator's
// measurements
func (s *Service) SetUnitDrafts(ctx context.Context, batchID uuid.UUID, req SetUnitDraftsRequest) (*FlowResponse, error) {
	drafts := make([]production.UnitDraft, len(req.Drafts))
	for i, d := range req.Drafts {
		drafts[i] = production.UnitDraft{
			CustomID:       d.CustomID,
			FinalWeight:    d.FinalWeight,
			FinalThickness: d.FinalThickness,
			FinalWidth:     d.FinalWidth,
			FinalHeight:    d.FinalHeight,
			QualityGrade:   d.QualityGrade,
			Notes:          d.Notes,
		}
	}
	return s.mutateFlow(ctx, batchID, func(flow *production.Flow) error {
		return flow.SetUnitDrafts(drafts)
	})
}

// CompleteFlow validates every draft, materializes the individual units,
// credits finished goods and completes the batch, all in one transaction.
// Validation failures report every missing field across every unit at once.
func (s *Service) CompleteFlow(ctx context.Context, batchID uuid.UUID, req CompleteFlowRequest) (*CompletionResponse, error) {
	var (
		batch           *production.Batch
		flow            *production.Flow
		units           []*production.IndividualUnit
		finishedProduct *catalog.Product
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		batch, err = repos.Batches().FindByID(ctx, batchID)
		if err != nil {
			return err
		}
		flow, err = repos.Flows().FindByBatchID(ctx, batchID)
		if err != nil {
			return err
		}
		product, err := repos.Products().FindByID(ctx, batch.ProductID)
		if err != nil {
			return err
		}

		if err := flow.Complete(req.Inspector); err != nil {
			return err
		}

		units, err = s.materializeUnits(ctx, repos, batch, product, flow.UnitDrafts)
		if err != nil {
			return err
		}
		if err := repos.Units().SaveAll(ctx, units); err != nil {
			return err
		}

		if err := product.AddStock(decimal.NewFromInt(int64(len(units)))); err != nil {
			return err
		}
		if err := batch.Complete(); err != nil {
			return err
		}

		if err := repos.Flows().SaveWithLock(ctx, flow); err != nil {
			return err
		}
		if err := repos.Batches().SaveWithLock(ctx, batch); err != nil {
			return err
		}
		if err := repos.Products().SaveWithLock(ctx, product); err != nil {
			return err
		}

		finishedProduct = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, batch, flow, finishedProduct)

	response := &CompletionResponse{
		Batch: ToBatchResponse(batch),
		Flow:  ToFlowResponse(flow),
		Units: make([]UnitResponse, len(units)),
	}
	for i, u := range units {
		response.Units[i] = ToUnitResponse(u)
	}
	return response, nil
}

// materializeUnits turns validated drafts into unit records. The sequence is
// parsed back out of each custom ID; drafts with hand-edited IDs fall back to
// fresh sequences after the current maximum.
func (s *Service) materializeUnits(ctx context.Context, repos TransactionalRepositories, batch *production.Batch, product *catalog.Product, drafts []production.UnitDraft) ([]*production.IndividualUnit, error) {
	prefix := product.UnitIDPrefix()
	maxSeq, err := repos.Units().MaxSequence(ctx, prefix)
	if err != nil {
		return nil, err
	}

	units := make([]*production.IndividualUnit, 0, len(drafts))
	for _, draft := range drafts {
		seq, ok := sequenceFromCustomID(draft.CustomID)
		if !ok {
			maxSeq++
			seq = maxSeq
		}
		unit, err := production.NewIndividualUnit(batch.ID, batch.ProductID, draft.CustomID, seq, draft)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

func sequenceFromCustomID(customID string) (int64, bool) {
	idx := strings.LastIndex(customID, "-")
	if idx < 0 || idx == len(customID)-1 {
		return 0, false
	}
	seq, err := strconv.ParseInt(customID[idx+1:], 10, 64)
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}

func (s *Service) mutateFlow(ctx context.Context, batchID uuid.UUID, fn func(flow *production.Flow) error) (*FlowResponse, error) {
	flow, err := s.flows.FindByBatchID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if err := fn(flow); err != nil {
		return nil, err
	}
	if err := s.flows.SaveWithLock(ctx, flow); err != nil {
		return nil, err
	}

	response := ToFlowResponse(flow)
	return &response, nil
}

// eventSource is any aggregate that accumulated domain events
type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// publishEvents drains the aggregates' pending events after the surrounding
// transaction committed
func (s *Service) publishEvents(ctx context.Context, aggregates ...eventSource) {
	if s.eventPublisher == nil {
		return
	}
	for _, agg := range aggregates {
		for _, event := range agg.GetDomainEvents() {
			// Best effort: notification fan-out must never fail the operation.
			_ = s.eventPublisher.Publish(ctx, event)
		}
		agg.ClearDomainEvents()
	}
}

func (s *Service) publishShortages(ctx context.Context, shortages []procurement.Shortage) {
	if s.eventPublisher == nil {
		return
	}
	for _, shortage := range shortages {
		_ = s.eventPublisher.Publish(ctx, procurement.NewShortageDetectedEvent(shortage))
	}
}
