package notification

import (
	"time"

	"github.com/loomworks/backend/internal/domain/shared"
)

// Kind classifies what a notification is about
type Kind string

const (
	KindMaterialShortage Kind = "material_shortage"
	KindStockUpdate      Kind = "stock_update"
)

// IsValid checks if the kind is a valid Kind
func (k Kind) IsValid() bool {
	return k == KindMaterialShortage || k == KindStockUpdate
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// Status represents the lifecycle of a notification
type Status string

const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
)

// Notification is a persisted record routed to inventory management.
// Emission is fire-and-forget: the state transition that produced a
// notification never waits on it and never rolls back because of it.
type Notification struct {
	shared.BaseAggregateRoot
	Kind       Kind           `gorm:"type:varchar(30);not null;index" json:"kind"`
	Title      string         `gorm:"type:varchar(200);not null" json:"title"`
	Message    string         `gorm:"type:text;not null" json:"message"`
	Payload    map[string]any `gorm:"type:jsonb;serializer:json" json:"payload,omitempty"`
	Status     Status         `gorm:"type:varchar(20);not null;index" json:"status"`
	ResolvedAt *time.Time     `gorm:"type:timestamptz" json:"resolved_at,omitempty"`
	ResolvedBy string         `gorm:"type:varchar(100)" json:"resolved_by,omitempty"`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates a pending notification
func NewNotification(kind Kind, title, message string, payload map[string]any) (*Notification, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown notification kind")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title cannot be empty")
	}

	return &Notification{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		Title:             title,
		Message:           message,
		Payload:           payload,
		Status:            StatusPending,
	}, nil
}

// Resolve marks the notification handled
func (n *Notification) Resolve(resolvedBy string) error {
	if n.Status == StatusResolved {
		return shared.NewDomainError("ALREADY_RESOLVED", "Notification is already resolved")
	}

	now := time.Now()
	n.Status = StatusResolved
	n.ResolvedAt = &now
	n.ResolvedBy = resolvedBy
	n.UpdatedAt = now
	n.IncrementVersion()

	return nil
}
