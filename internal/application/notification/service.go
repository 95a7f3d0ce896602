package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/notification"
	"github.com/loomworks/backend/internal/domain/shared"
)

// Service lists and resolves notifications for inventory management.
// Creation happens through the event handlers, never through the API.
type Service struct {
	notifications notification.Repository
}

// NewService creates a new notification Service
func NewService(notifications notification.Repository) *Service {
	return &Service{notifications: notifications}
}

// GetByID retrieves a notification by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Response, error) {
	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToResponse(n)
	return &response, nil
}

// List retrieves notifications with filtering and pagination
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Response, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	var (
		notifications []notification.Notification
		err           error
	)
	switch {
	case filter.Kind != nil:
		notifications, err = s.notifications.FindByKind(ctx, *filter.Kind, domainFilter)
	case filter.PendingOnly:
		notifications, err = s.notifications.FindPending(ctx, domainFilter)
	default:
		notifications, err = s.notifications.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.notifications.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]Response, len(notifications))
	for i := range notifications {
		responses[i] = ToResponse(&notifications[i])
	}
	return responses, total, nil
}

// Resolve marks a notification handled
func (s *Service) Resolve(ctx context.Context, id uuid.UUID, req ResolveRequest) (*Response, error) {
	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := n.Resolve(req.ResolvedBy); err != nil {
		return nil, err
	}
	if err := s.notifications.Save(ctx, n); err != nil {
		return nil, err
	}

	response := ToResponse(n)
	return &response, nil
}
