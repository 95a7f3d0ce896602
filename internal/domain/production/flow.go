package production

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
)

// StepKind identifies what a flow step does
type StepKind string

const (
	StepKindMaterialSelection StepKind = "material_selection"
	StepKindMachineOperation  StepKind = "machine_operation"
	StepKindWastageTracking   StepKind = "wastage_tracking"
	StepKindTestingIndividual StepKind = "testing_individual"
)

// IsValid checks if the kind is a valid StepKind
func (k StepKind) IsValid() bool {
	switch k {
	case StepKindMaterialSelection, StepKindMachineOperation, StepKindWastageTracking, StepKindTestingIndividual:
		return true
	}
	return false
}

// String returns the string representation of StepKind
func (k StepKind) String() string {
	return string(k)
}

// InTerminalSection reports whether the kind belongs to the tail of the flow.
// Machine operations are always inserted before the first such step.
func (k StepKind) InTerminalSection() bool {
	return k == StepKindWastageTracking || k == StepKindTestingIndividual
}

// StepStatus represents the status of a single flow step
type StepStatus string

const (
	StepStatusPending    StepStatus = "pending"
	StepStatusInProgress StepStatus = "in_progress"
	StepStatusCompleted  StepStatus = "completed"
)

// IsValid checks if the status is a valid StepStatus
func (s StepStatus) IsValid() bool {
	switch s {
	case StepStatusPending, StepStatusInProgress, StepStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of StepStatus
func (s StepStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the step status can transition to the target
func (s StepStatus) CanTransitionTo(target StepStatus) bool {
	switch s {
	case StepStatusPending:
		return target == StepStatusInProgress
	case StepStatusInProgress:
		return target == StepStatusCompleted
	}
	return false
}

// Step is one entry in a flow's ordered step list. StepNumber is derived
// from position and recomputed after every insertion.
type Step struct {
	StepNumber   int        `json:"step_number"`
	Kind         StepKind   `json:"kind"`
	Status       StepStatus `json:"status"`
	MachineRef   string     `json:"machine_ref,omitempty"`
	Inspector    string     `json:"inspector,omitempty"`
	QualityNotes string     `json:"quality_notes,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// UnitDraft holds the finish measurements entered for one individual unit
// during finalization. Drafts become IndividualUnit records when the flow
// completes.
type UnitDraft struct {
	CustomID       string `json:"custom_id"`
	FinalWeight    string `json:"final_weight"`
	FinalThickness string `json:"final_thickness"`
	FinalWidth     string `json:"final_width"`
	FinalHeight    string `json:"final_height"`
	QualityGrade   string `json:"quality_grade"`
	Notes          string `json:"notes,omitempty"`
}

// MissingFinishFields lists the required finish fields this draft lacks.
// Notes is optional.
func (d UnitDraft) MissingFinishFields() []string {
	var missing []string
	if d.FinalWeight == "" {
		missing = append(missing, "finalWeight")
	}
	if d.FinalThickness == "" {
		missing = append(missing, "finalThickness")
	}
	if d.FinalWidth == "" {
		missing = append(missing, "finalWidth")
	}
	if d.FinalHeight == "" {
		missing = append(missing, "finalHeight")
	}
	if d.QualityGrade == "" {
		missing = append(missing, "qualityGrade")
	}
	return missing
}

// FlowStatus represents the overall status of a production flow
type FlowStatus string

const (
	FlowStatusNotStarted FlowStatus = "not_started"
	FlowStatusInProgress FlowStatus = "in_progress"
	FlowStatusCompleted  FlowStatus = "completed"
)

// String returns the string representation of FlowStatus
func (s FlowStatus) String() string {
	return string(s)
}

// Flow is the per-batch step sequence. The sequence is dynamic: the operator
// inserts machine operations at runtime, so the flow length is unbounded and
// only the first (material_selection) and last (testing_individual) steps are
// fixed. Exactly one wastage_tracking step may sit just before the last one.
type Flow struct {
	shared.BaseAggregateRoot
	BatchID          uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"batch_id"`
	Status           FlowStatus  `gorm:"type:varchar(20);not null" json:"status"`
	Steps            []Step      `gorm:"type:jsonb;serializer:json" json:"steps"`
	CurrentStepIndex int         `gorm:"not null;default:0" json:"current_step_index"`
	UnitDrafts       []UnitDraft `gorm:"type:jsonb;serializer:json" json:"unit_drafts"`
}

// TableName returns the table name for GORM
func (Flow) TableName() string {
	return "production_flows"
}

// NewFlow creates the flow for a batch. The sequence starts as
// [material_selection, testing_individual]; when the batch already consumed
// materials during planning, the selection step is born completed and the
// flow opens in progress.
func NewFlow(batch *Batch) (*Flow, error) {
	if batch == nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch cannot be nil")
	}

	f := &Flow{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BatchID:           batch.ID,
		Status:            FlowStatusNotStarted,
		CurrentStepIndex:  0,
		UnitDrafts:        []UnitDraft{},
	}

	selection := Step{Kind: StepKindMaterialSelection, Status: StepStatusPending}
	if batch.HasConsumedMaterials() {
		now := time.Now()
		selection.Status = StepStatusCompleted
		selection.CompletedAt = &now
		f.Status = FlowStatusInProgress
	}

	f.Steps = []Step{
		selection,
		{Kind: StepKindTestingIndividual, Status: StepStatusPending},
	}
	f.renumber()

	f.AddDomainEvent(NewFlowStartedEvent(f))

	return f, nil
}

// CurrentStep returns the step the flow currently points at
func (f *Flow) CurrentStep() *Step {
	return &f.Steps[f.CurrentStepIndex]
}

// StepOfKind returns the index of the first step of the given kind, or -1
func (f *Flow) StepOfKind(kind StepKind) int {
	for i := range f.Steps {
		if f.Steps[i].Kind == kind {
			return i
		}
	}
	return -1
}

// CompleteMaterialSelection marks the selection step completed after the
// batch committed its material lines
func (f *Flow) CompleteMaterialSelection() error {
	if f.Status == FlowStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Flow is already completed")
	}

	idx := f.StepOfKind(StepKindMaterialSelection)
	step := &f.Steps[idx]
	if step.Status == StepStatusCompleted {
		return nil
	}

	now := time.Now()
	step.Status = StepStatusCompleted
	step.CompletedAt = &now
	f.Status = FlowStatusInProgress
	f.UpdatedAt = now
	f.IncrementVersion()

	return nil
}

// AddMachineStep inserts a machine operation immediately before the terminal
// section and makes it the current step. This is how the flow grows at
// runtime: the operator decides after each operation whether another machine
// pass is needed.
func (f *Flow) AddMachineStep(machineRef, inspector string) error {
	if f.Status == FlowStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Cannot add a step to a completed flow")
	}
	if machineRef == "" {
		return shared.NewDomainError("INVALID_MACHINE", "Machine reference cannot be empty")
	}

	step := Step{
		Kind:       StepKindMachineOperation,
		Status:     StepStatusPending,
		MachineRef: machineRef,
		Inspector:  inspector,
	}

	idx := f.insertBeforeTerminalSection(step)
	f.CurrentStepIndex = idx
	f.Status = FlowStatusInProgress
	f.UpdatedAt = time.Now()
	f.IncrementVersion()

	return nil
}

// AdvanceCurrentStep moves the current machine operation through
// pending, in_progress, completed. Reaching completed does not advance the
// current index: whether to add another machine step or proceed to waste
// tracking is the operator's call, not the engine's.
func (f *Flow) AdvanceCurrentStep(target StepStatus, inspector, notes string) error {
	if f.Status == FlowStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Flow is already completed")
	}

	step := f.CurrentStep()
	if step.Kind != StepKindMachineOperation {
		return shared.NewDomainError("INVALID_STEP_KIND", "Only machine operations advance through step statuses")
	}
	if !step.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STEP_TRANSITION",
			"Cannot move step from "+step.Status.String()+" to "+target.String())
	}

	now := time.Now()
	step.Status = target
	if inspector != "" {
		step.Inspector = inspector
	}
	if notes != "" {
		step.QualityNotes = notes
	}
	switch target {
	case StepStatusInProgress:
		step.StartedAt = &now
	case StepStatusCompleted:
		step.CompletedAt = &now
	}

	f.UpdatedAt = now
	f.IncrementVersion()

	return nil
}

// EnterWasteTracking navigates to the wastage step, appending it just before
// the terminal step when it does not exist yet. Idempotent.
func (f *Flow) EnterWasteTracking() error {
	if f.Status == FlowStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Flow is already completed")
	}

	idx := f.StepOfKind(StepKindWastageTracking)
	if idx < 0 {
		idx = f.insertBeforeTerminalSection(Step{
			Kind:   StepKindWastageTracking,
			Status: StepStatusPending,
		})
	}

	now := time.Now()
	step := &f.Steps[idx]
	if step.Status == StepStatusPending {
		step.Status = StepStatusInProgress
		step.StartedAt = &now
	}

	f.CurrentStepIndex = idx
	f.Status = FlowStatusInProgress
	f.UpdatedAt = now
	f.IncrementVersion()

	return nil
}

// EnterIndividualFinalization navigates to the terminal testing step and
// closes the wastage step if one was open. Idempotent.
func (f *Flow) EnterIndividualFinalization() error {
	if f.Status == FlowStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Flow is already completed")
	}

	now := time.Now()
	if wasteIdx := f.StepOfKind(StepKindWastageTracking); wasteIdx >= 0 {
		waste := &f.Steps[wasteIdx]
		if waste.Status == StepStatusInProgress {
			waste.Status = StepStatusCompleted
			waste.CompletedAt = &now
		}
	}

	idx := f.StepOfKind(StepKindTestingIndividual)
	step := &f.Steps[idx]
	if step.Status == StepStatusPending {
		step.Status = StepStatusInProgress
		step.StartedAt = &now
	}

	f.CurrentStepIndex = idx
	f.Status = FlowStatusInProgress
	f.UpdatedAt = now
	f.IncrementVersion()

	return nil
}

// SetUnitDrafts replaces the finalization drafts. Only legal while the flow
// points at the testing step.
func (f *Flow) SetUnitDrafts(drafts []UnitDraft) error {
	if f.Status == FlowStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Flow is already completed")
	}
	if f.CurrentStep().Kind != StepKindTestingIndividual {
		return shared.NewDomainError("INVALID_STATE", "Unit drafts can only be edited during individual finalization")
	}

	f.UnitDrafts = drafts
	f.UpdatedAt = time.Now()
	f.IncrementVersion()

	return nil
}

// Complete validates every unit draft and marks the flow completed. Missing
// finish fields are collected across all units and reported together, so the
// operator can fix everything in one pass instead of replaying fail-fast
// errors unit by unit.
func (f *Flow) Complete(inspector string) error {
	if f.Status == FlowStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Flow is already completed")
	}
	if f.CurrentStep().Kind != StepKindTestingIndividual {
		return shared.NewDomainError("INVALID_STATE", "Flow can only complete from the individual finalization step")
	}
	if len(f.UnitDrafts) == 0 {
		return shared.NewDomainError("NO_UNITS", "At least one individual unit is required to complete the flow")
	}

	var violations []string
	for _, draft := range f.UnitDrafts {
		if missing := draft.MissingFinishFields(); len(missing) > 0 {
			for _, field := range missing {
				violations = append(violations, fmt.Sprintf("unit %s: missing %s", draft.CustomID, field))
			}
		}
	}
	if len(violations) > 0 {
		return shared.NewDomainErrorWithDetails("MISSING_FINISH_FIELDS",
			"Individual units are missing required finish fields", violations)
	}

	now := time.Now()
	step := f.CurrentStep()
	step.Status = StepStatusCompleted
	step.CompletedAt = &now
	if inspector != "" {
		step.Inspector = inspector
	}

	f.Status = FlowStatusCompleted
	f.UpdatedAt = now
	f.IncrementVersion()

	f.AddDomainEvent(NewFlowCompletedEvent(f))

	return nil
}

// insertBeforeTerminalSection splices the step in before the first
// wastage_tracking or testing_individual step and returns its index.
// Renumbering is a derived pass over the final order, never index
// arithmetic at call sites.
func (f *Flow) insertBeforeTerminalSection(step Step) int {
	idx := len(f.Steps)
	for i := range f.Steps {
		if f.Steps[i].Kind.InTerminalSection() {
			idx = i
			break
		}
	}

	f.Steps = append(f.Steps, Step{})
	copy(f.Steps[idx+1:], f.Steps[idx:])
	f.Steps[idx] = step
	f.renumber()

	return idx
}

func (f *Flow) renumber() {
	for i := range f.Steps {
		f.Steps[i].StepNumber = i + 1
	}
}

// StepKinds returns the kinds in order, mainly for assertions and display
func (f *Flow) StepKinds() []StepKind {
	kinds := make([]StepKind, len(f.Steps))
	for i, s := range f.Steps {
		kinds[i] = s.Kind
	}
	return kinds
}
