package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BatchStatus represents the status of a production batch
type BatchStatus string

const (
	BatchStatusPlanning  BatchStatus = "planning"
	BatchStatusActive    BatchStatus = "active"
	BatchStatusCompleted BatchStatus = "completed"
)

// IsValid checks if the status is a valid BatchStatus
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusPlanning, BatchStatusActive, BatchStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of BatchStatus
func (s BatchStatus) String() string {
	return string(s)
}

// MaterialConsumption is one committed material line of a batch
type MaterialConsumption struct {
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	ConsumedAt   time.Time       `json:"consumed_at"`
}

// WasteItem is one recorded waste line of a batch
type WasteItem struct {
	MaterialID  *uuid.UUID      `json:"material_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Reason      string          `json:"reason"`
	RecordedAt  time.Time       `json:"recorded_at"`
}

// Batch represents one production run of a product. Its step-by-step
// progress lives on the associated Flow; the batch itself tracks what was
// consumed and wasted, and the overall planning/active/completed status.
type Batch struct {
	shared.BaseAggregateRoot
	BatchNumber       string                `gorm:"type:varchar(50);not null;uniqueIndex" json:"batch_number"`
	ProductID         uuid.UUID             `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName       string                `gorm:"type:varchar(200);not null" json:"product_name"`
	TargetQuantity    decimal.Decimal       `gorm:"type:decimal(18,4);not null" json:"target_quantity"`
	Status            BatchStatus           `gorm:"type:varchar(20);not null;index" json:"status"`
	MaterialsConsumed []MaterialConsumption `gorm:"type:jsonb;serializer:json" json:"materials_consumed"`
	WasteGenerated    []WasteItem           `gorm:"type:jsonb;serializer:json" json:"waste_generated"`
	StartedBy         string                `gorm:"type:varchar(100)" json:"started_by"`
	CompletedAt       *time.Time            `gorm:"type:timestamptz" json:"completed_at,omitempty"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "production_batches"
}

// NewBatch creates a new production batch in the planning status
func NewBatch(batchNumber string, productID uuid.UUID, productName string, targetQuantity decimal.Decimal, startedBy string) (*Batch, error) {
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if targetQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Target quantity must be positive")
	}

	b := &Batch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BatchNumber:       batchNumber,
		ProductID:         productID,
		ProductName:       productName,
		TargetQuantity:    targetQuantity,
		Status:            BatchStatusPlanning,
		MaterialsConsumed: []MaterialConsumption{},
		WasteGenerated:    []WasteItem{},
		StartedBy:         startedBy,
	}

	b.AddDomainEvent(NewBatchCreatedEvent(b))

	return b, nil
}

// HasConsumedMaterials reports whether any material line has been committed
func (b *Batch) HasConsumedMaterials() bool {
	return len(b.MaterialsConsumed) > 0
}

// RecordConsumption appends committed material lines. The caller has already
// deducted the corresponding raw-material stock in the same transaction.
func (b *Batch) RecordConsumption(lines []MaterialConsumption) error {
	if b.Status == BatchStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Cannot consume materials on a completed batch")
	}
	if len(lines) == 0 {
		return nil
	}

	b.MaterialsConsumed = append(b.MaterialsConsumed, lines...)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Activate moves the batch from planning to active. At least one material
// must have been consumed first.
func (b *Batch) Activate() error {
	if b.Status != BatchStatusPlanning {
		return shared.NewDomainError("INVALID_STATE", "Only a planning batch can be activated")
	}
	if !b.HasConsumedMaterials() {
		return shared.NewDomainError("NO_MATERIALS_CONSUMED", "Batch cannot start before any material is consumed")
	}

	b.Status = BatchStatusActive
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBatchActivatedEvent(b))

	return nil
}

// RecordWaste appends a waste line
func (b *Batch) RecordWaste(item WasteItem) error {
	if b.Status != BatchStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Waste can only be recorded on an active batch")
	}
	if item.Quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Waste quantity must be positive")
	}

	item.RecordedAt = time.Now()
	b.WasteGenerated = append(b.WasteGenerated, item)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Complete marks the batch completed. The flow engine calls this only after
// every individual unit passed finish-field validation.
func (b *Batch) Complete() error {
	if b.Status != BatchStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only an active batch can be completed")
	}

	now := time.Now()
	b.Status = BatchStatusCompleted
	b.CompletedAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBatchCompletedEvent(b))

	return nil
}

// ConsumedValue returns the total cost of all consumed material lines
func (b *Batch) ConsumedValue() valueobject.Money {
	total := decimal.Zero
	for _, line := range b.MaterialsConsumed {
		total = total.Add(line.Quantity.Mul(line.CostPerUnit))
	}
	return valueobject.NewMoneyINR(total)
}
