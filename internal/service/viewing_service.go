package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"github.com/meridian-realty/dashboard-api/internal/mapper"
	"github.com/meridian-realty/dashboard-api/internal/repository"
	"go.uber.org/zap"
)

type ViewingService struct {
	viewingRepo  *repository.ViewingRepository
	leadRepo     *repository.LeadRepository
	propertyRepo *repository.PropertyRepository
	logger       *zap.Logger
}

func NewViewingService(
	viewingRepo *repository.ViewingRepository,
	leadRepo *repository.LeadRepository,
	propertyRepo *repository.PropertyRepository,
	logger *zap.Logger,
) *ViewingService {
	return &ViewingService{
		viewingRepo:  viewingRepo,
		leadRepo:     leadRepo,
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

// Create schedules a viewing. Lead and property, when given, must belong to
// the same agency as the viewing.
func (s *ViewingService) Create(ctx context.Context, req *domain.CreateViewingRequest) (*domain.ViewingDTO, error) {
	agencyID, err := resolveAgency(ctx, req.AgencyID)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.ViewingStatusScheduled
	}

	viewing := &domain.Viewing{
		AgencyID:    agencyID,
		ScheduledAt: req.ScheduledAt.UTC(),
		Status:      status,
		Notes:       req.Notes,
	}

	if req.LeadID != nil {
		lead, err := s.leadRepo.GetByID(ctx, *req.LeadID)
		if err != nil {
			return nil, notFoundOr("lead", err)
		}
		if lead.AgencyID != agencyID {
			return nil, fmt.Errorf("lead belongs to another agency: %w", ErrInvalidInput)
		}
		viewing.LeadID = &lead.ID
		viewing.Lead = lead
	}

	if req.PropertyID != nil {
		property, err := s.propertyRepo.GetByID(ctx, *req.PropertyID)
		if err != nil {
			return nil, notFoundOr("property", err)
		}
		if property.AgencyID != agencyID {
			return nil, fmt.Errorf("property belongs to another agency: %w", ErrInvalidInput)
		}
		viewing.PropertyID = &property.ID
		viewing.Property = property
	}

	if err := s.viewingRepo.Create(ctx, viewing); err != nil {
		return nil, fmt.Errorf("failed to create viewing: %w", err)
	}

	s.logger.Debug("viewing scheduled",
		zap.String("viewing_id", viewing.ID.String()),
		zap.String("agency_id", agencyID.String()),
		zap.Time("scheduled_at", viewing.ScheduledAt),
	)

	dto := mapper.ToViewingDTO(viewing)
	return &dto, nil
}

func (s *ViewingService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ViewingDTO, error) {
	viewing, err := s.viewingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("viewing", err)
	}
	dto := mapper.ToViewingDTO(viewing)
	return &dto, nil
}

func (s *ViewingService) List(ctx context.Context, page, pageSize int, filters *repository.ViewingFilters, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = paginate(page, pageSize)

	viewings, total, err := s.viewingRepo.List(ctx, page, pageSize, filters, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list viewings: %w", err)
	}

	dtos := make([]domain.ViewingDTO, len(viewings))
	for i := range viewings {
		dtos[i] = mapper.ToViewingDTO(&viewings[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}
