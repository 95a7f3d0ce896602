package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/inventory"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/domain/shared/valueobject"
)

// MaterialService handles raw-material inventory operations. Stock mutations
// arrive through procurement reconciliation, production consumption and
// raw-material order dispatch; this service covers direct lot management.
type MaterialService struct {
	materials      inventory.RawMaterialRepository
	eventPublisher shared.EventPublisher
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(materials inventory.RawMaterialRepository) *MaterialService {
	return &MaterialService{materials: materials}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *MaterialService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a raw-material lot directly, bypassing procurement.
// Typical for opening balances when the system is first seeded.
func (s *MaterialService) Create(ctx context.Context, req CreateMaterialRequest) (*MaterialResponse, error) {
	material, err := inventory.NewRawMaterial(
		req.Name, req.Brand, req.Category, req.Supplier, req.QualityGrade, req.Unit,
		req.InitialStock, req.MinThreshold, req.MaxCapacity,
		valueobject.NewMoneyINR(req.CostPerUnit),
	)
	if err != nil {
		return nil, err
	}
	if err := s.materials.Save(ctx, material); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, material)
	response := ToMaterialResponse(material)
	return &response, nil
}

// GetByID retrieves a raw-material lot by ID
func (s *MaterialService) GetByID(ctx context.Context, materialID uuid.UUID) (*MaterialResponse, error) {
	material, err := s.materials.FindByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	response := ToMaterialResponse(material)
	return &response, nil
}

// List retrieves raw-material lots with filtering and pagination
func (s *MaterialService) List(ctx context.Context, filter MaterialListFilter) ([]MaterialResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search

	var (
		materials []inventory.RawMaterial
		err       error
	)
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
		materials, err = s.materials.FindByStatus(ctx, *filter.Status, domainFilter)
	} else {
		materials, err = s.materials.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.materials.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]MaterialResponse, len(materials))
	for i := range materials {
		responses[i] = ToMaterialResponse(&materials[i])
	}
	return responses, total, nil
}

// SetThresholds updates a lot's alert thresholds and re-derives its status
func (s *MaterialService) SetThresholds(ctx context.Context, materialID uuid.UUID, req SetThresholdsRequest) (*MaterialResponse, error) {
	return s.mutate(ctx, materialID, func(material *inventory.RawMaterial) error {
		return material.SetThresholds(req.MinThreshold, req.MaxCapacity)
	})
}

// UpdateDetails updates a lot's descriptive fields
func (s *MaterialService) UpdateDetails(ctx context.Context, materialID uuid.UUID, req UpdateDetailsRequest) (*MaterialResponse, error) {
	return s.mutate(ctx, materialID, func(material *inventory.RawMaterial) error {
		material.UpdateDetails(req.Brand, req.Category, req.Supplier, req.QualityGrade)
		return nil
	})
}

func (s *MaterialService) mutate(ctx context.Context, materialID uuid.UUID, fn func(material *inventory.RawMaterial) error) (*MaterialResponse, error) {
	material, err := s.materials.FindByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if err := fn(material); err != nil {
		return nil, err
	}
	if err := s.materials.SaveWithLock(ctx, material); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, material)
	response := ToMaterialResponse(material)
	return &response, nil
}

func (s *MaterialService) publishEvents(ctx context.Context, material *inventory.RawMaterial) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range material.GetDomainEvents() {
		// Best effort: notification fan-out must never fail the operation.
		_ = s.eventPublisher.Publish(ctx, event)
	}
	material.ClearDomainEvents()
}
