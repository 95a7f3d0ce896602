package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/notification"
)

// ResolveRequest marks a notification handled
type ResolveRequest struct {
	ResolvedBy string `json:"resolved_by" binding:"max=100"`
}

// ListFilter narrows notification listings
type ListFilter struct {
	Kind        *notification.Kind `form:"kind"`
	PendingOnly bool               `form:"pending_only"`
	Page        int                `form:"page"`
	PageSize    int                `form:"page_size"`
}

// Response is the API representation of a notification
type Response struct {
	ID         uuid.UUID      `json:"id"`
	Kind       string         `json:"kind"`
	Title      string         `json:"title"`
	Message    string         `json:"message"`
	Payload    map[string]any `json:"payload,omitempty"`
	Status     string         `json:"status"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
	ResolvedBy string         `json:"resolved_by,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ToResponse converts a domain notification to its API representation
func ToResponse(n *notification.Notification) Response {
	return Response{
		ID:         n.ID,
		Kind:       n.Kind.String(),
		Title:      n.Title,
		Message:    n.Message,
		Payload:    n.Payload,
		Status:     string(n.Status),
		ResolvedAt: n.ResolvedAt,
		ResolvedBy: n.ResolvedBy,
		CreatedAt:  n.CreatedAt,
	}
}
