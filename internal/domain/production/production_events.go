package production

import (
	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the production context
const (
	EventTypeBatchCreated   = "production.batch.created"
	EventTypeBatchActivated = "production.batch.activated"
	EventTypeBatchCompleted = "production.batch.completed"
	EventTypeFlowStarted    = "production.flow.started"
	EventTypeFlowCompleted  = "production.flow.completed"
)

// BatchCreatedEvent is emitted when a production batch is planned
type BatchCreatedEvent struct {
	shared.BaseDomainEvent
	BatchID        uuid.UUID       `json:"batch_id"`
	BatchNumber    string          `json:"batch_number"`
	ProductID      uuid.UUID       `json:"product_id"`
	TargetQuantity decimal.Decimal `json:"target_quantity"`
}

// NewBatchCreatedEvent creates a new BatchCreatedEvent
func NewBatchCreatedEvent(b *Batch) *BatchCreatedEvent {
	return &BatchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchCreated, "ProductionBatch", b.ID),
		BatchID:         b.ID,
		BatchNumber:     b.BatchNumber,
		ProductID:       b.ProductID,
		TargetQuantity:  b.TargetQuantity,
	}
}

// BatchActivatedEvent is emitted when a batch leaves planning
type BatchActivatedEvent struct {
	shared.BaseDomainEvent
	BatchID     uuid.UUID `json:"batch_id"`
	BatchNumber string    `json:"batch_number"`
}

// NewBatchActivatedEvent creates a new BatchActivatedEvent
func NewBatchActivatedEvent(b *Batch) *BatchActivatedEvent {
	return &BatchActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchActivated, "ProductionBatch", b.ID),
		BatchID:         b.ID,
		BatchNumber:     b.BatchNumber,
	}
}

// BatchCompletedEvent is emitted when a batch finishes production
type BatchCompletedEvent struct {
	shared.BaseDomainEvent
	BatchID     uuid.UUID `json:"batch_id"`
	BatchNumber string    `json:"batch_number"`
	ProductID   uuid.UUID `json:"product_id"`
}

// NewBatchCompletedEvent creates a new BatchCompletedEvent
func NewBatchCompletedEvent(b *Batch) *BatchCompletedEvent {
	return &BatchCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchCompleted, "ProductionBatch", b.ID),
		BatchID:         b.ID,
		BatchNumber:     b.BatchNumber,
		ProductID:       b.ProductID,
	}
}

// FlowStartedEvent is emitted when a batch gets its flow
type FlowStartedEvent struct {
	shared.BaseDomainEvent
	FlowID  uuid.UUID `json:"flow_id"`
	BatchID uuid.UUID `json:"batch_id"`
}

// NewFlowStartedEvent creates a new FlowStartedEvent
func NewFlowStartedEvent(f *Flow) *FlowStartedEvent {
	return &FlowStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFlowStarted, "ProductionFlow", f.ID),
		FlowID:          f.ID,
		BatchID:         f.BatchID,
	}
}

// FlowCompletedEvent is emitted when the terminal step passes validation.
// Subscribers create the individual units and credit finished goods.
type FlowCompletedEvent struct {
	shared.BaseDomainEvent
	FlowID    uuid.UUID `json:"flow_id"`
	BatchID   uuid.UUID `json:"batch_id"`
	UnitCount int       `json:"unit_count"`
}

// NewFlowCompletedEvent creates a new FlowCompletedEvent
func NewFlowCompletedEvent(f *Flow) *FlowCompletedEvent {
	return &FlowCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFlowCompleted, "ProductionFlow", f.ID),
		FlowID:          f.ID,
		BatchID:         f.BatchID,
		UnitCount:       len(f.UnitDrafts),
	}
}
