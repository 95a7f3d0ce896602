package production

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
)

// UnitStatus represents the status of an individual unit
type UnitStatus string

const (
	UnitStatusAvailable UnitStatus = "available"
	UnitStatusSold      UnitStatus = "sold"
	UnitStatusDamaged   UnitStatus = "damaged"
)

// IsValid checks if the status is a valid UnitStatus
func (s UnitStatus) IsValid() bool {
	switch s {
	case UnitStatusAvailable, UnitStatusSold, UnitStatusDamaged:
		return true
	}
	return false
}

// String returns the string representation of UnitStatus
func (s UnitStatus) String() string {
	return string(s)
}

// FormatCustomID renders a unit custom ID from a product prefix and a
// sequence number: "CBT" and 7 yield "CBT-0007". Sequences are allocated
// across all batches of a product, so the ID is globally unique.
func FormatCustomID(prefix string, sequence int64) string {
	return fmt.Sprintf("%s-%04d", prefix, sequence)
}

// IndividualUnit is one physically distinct produced item with its own
// custom ID and finish measurements. Units are created only at flow
// completion and flip to sold only through order dispatch.
type IndividualUnit struct {
	shared.BaseAggregateRoot
	BatchID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"batch_id"`
	ProductID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	CustomID       string     `gorm:"type:varchar(50);not null;uniqueIndex" json:"custom_id"`
	Sequence       int64      `gorm:"not null" json:"sequence"`
	FinalWeight    string     `gorm:"type:varchar(50);not null" json:"final_weight"`
	FinalThickness string     `gorm:"type:varchar(50);not null" json:"final_thickness"`
	FinalWidth     string     `gorm:"type:varchar(50);not null" json:"final_width"`
	FinalHeight    string     `gorm:"type:varchar(50);not null" json:"final_height"`
	QualityGrade   string     `gorm:"type:varchar(50);not null" json:"quality_grade"`
	Notes          string     `gorm:"type:text" json:"notes,omitempty"`
	Status         UnitStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	SoldOrderID    *uuid.UUID `gorm:"type:uuid" json:"sold_order_id,omitempty"`
	SoldCustomer   string     `gorm:"type:varchar(200)" json:"sold_customer,omitempty"`
	SoldAt         *time.Time `gorm:"type:timestamptz" json:"sold_at,omitempty"`
}

// TableName returns the table name for GORM
func (IndividualUnit) TableName() string {
	return "individual_units"
}

// NewIndividualUnit materializes a validated finalization draft into a unit
func NewIndividualUnit(batchID, productID uuid.UUID, customID string, sequence int64, draft UnitDraft) (*IndividualUnit, error) {
	if batchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if customID == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOM_ID", "Custom ID cannot be empty")
	}
	if missing := draft.MissingFinishFields(); len(missing) > 0 {
		return nil, shared.NewDomainErrorWithDetails("MISSING_FINISH_FIELDS",
			"Unit draft is missing required finish fields", missing)
	}

	return &IndividualUnit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BatchID:           batchID,
		ProductID:         productID,
		CustomID:          customID,
		Sequence:          sequence,
		FinalWeight:       draft.FinalWeight,
		FinalThickness:    draft.FinalThickness,
		FinalWidth:        draft.FinalWidth,
		FinalHeight:       draft.FinalHeight,
		QualityGrade:      draft.QualityGrade,
		Notes:             draft.Notes,
		Status:            UnitStatusAvailable,
	}, nil
}

// IsAvailable returns true when the unit can still be selected for an order
func (u *IndividualUnit) IsAvailable() bool {
	return u.Status == UnitStatusAvailable
}

// MarkSold flips the unit to sold with a back-reference to the dispatching
// order. Only available units can be sold.
func (u *IndividualUnit) MarkSold(orderID uuid.UUID, customer string) error {
	if u.Status != UnitStatusAvailable {
		return shared.NewDomainError("UNIT_NOT_AVAILABLE",
			"Unit "+u.CustomID+" is "+u.Status.String()+" and cannot be sold")
	}

	now := time.Now()
	u.Status = UnitStatusSold
	u.SoldOrderID = &orderID
	u.SoldCustomer = customer
	u.SoldAt = &now
	u.UpdatedAt = now
	u.IncrementVersion()

	return nil
}

// MarkDamaged removes the unit from the sellable pool
func (u *IndividualUnit) MarkDamaged(notes string) error {
	if u.Status == UnitStatusSold {
		return shared.NewDomainError("INVALID_STATE", "A sold unit cannot be marked damaged")
	}

	u.Status = UnitStatusDamaged
	if notes != "" {
		u.Notes = notes
	}
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}
