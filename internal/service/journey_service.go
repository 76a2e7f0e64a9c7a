package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/auth"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"github.com/meridian-realty/dashboard-api/internal/mapper"
	"github.com/meridian-realty/dashboard-api/internal/repository"
	"go.uber.org/zap"
)

type JourneyService struct {
	journeyRepo    *repository.JourneyRepository
	transitionRepo *repository.StageTransitionRepository
	leadRepo       *repository.LeadRepository
	propertyRepo   *repository.PropertyRepository
	now            Clock
	logger         *zap.Logger
}

func NewJourneyService(
	journeyRepo *repository.JourneyRepository,
	transitionRepo *repository.StageTransitionRepository,
	leadRepo *repository.LeadRepository,
	propertyRepo *repository.PropertyRepository,
	logger *zap.Logger,
) *JourneyService {
	return &JourneyService{
		journeyRepo:    journeyRepo,
		transitionRepo: transitionRepo,
		leadRepo:       leadRepo,
		propertyRepo:   propertyRepo,
		now:            SystemClock,
		logger:         logger,
	}
}

// WithClock replaces the time source
func (s *JourneyService) WithClock(clock Clock) *JourneyService {
	s.now = clock
	return s
}

// Create opens a deal journey. The stage defaults to discovery and the stage
// clock starts now.
func (s *JourneyService) Create(ctx context.Context, req *domain.CreateJourneyRequest) (*domain.JourneyDTO, error) {
	agencyID, err := resolveAgency(ctx, req.AgencyID)
	if err != nil {
		return nil, err
	}

	stage := domain.DealStage(strings.TrimSpace(string(req.Stage)))
	if stage == "" {
		stage = domain.DealStageDiscovery
	}

	now := s.now()
	journey := &domain.DealJourney{
		AgencyID:       agencyID,
		CurrentStage:   stage,
		StageEnteredAt: now.UTC(),
		IsStalling:     req.IsStalling,
	}

	if req.LeadID != nil {
		lead, err := s.leadRepo.GetByID(ctx, *req.LeadID)
		if err != nil {
			return nil, notFoundOr("lead", err)
		}
		if lead.AgencyID != agencyID {
			return nil, fmt.Errorf("lead belongs to another agency: %w", ErrInvalidInput)
		}
		journey.LeadID = &lead.ID
	}
	if req.PropertyID != nil {
		property, err := s.propertyRepo.GetByID(ctx, *req.PropertyID)
		if err != nil {
			return nil, notFoundOr("property", err)
		}
		if property.AgencyID != agencyID {
			return nil, fmt.Errorf("property belongs to another agency: %w", ErrInvalidInput)
		}
		journey.PropertyID = &property.ID
	}

	if err := s.journeyRepo.Create(ctx, journey); err != nil {
		return nil, fmt.Errorf("failed to create journey: %w", err)
	}

	dto := mapper.ToJourneyDTO(journey, now)
	return &dto, nil
}

func (s *JourneyService) List(ctx context.Context, page, pageSize int, filters *repository.JourneyFilters, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = paginate(page, pageSize)

	journeys, total, err := s.journeyRepo.List(ctx, page, pageSize, filters, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list journeys: %w", err)
	}

	now := s.now()
	dtos := make([]domain.JourneyDTO, len(journeys))
	for i := range journeys {
		dtos[i] = mapper.ToJourneyDTO(&journeys[i], now)
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}

// AdvanceStage moves a journey to a new stage and records who moved it.
// Moving a journey to the stage it is already in is rejected.
func (s *JourneyService) AdvanceStage(ctx context.Context, id uuid.UUID, req *domain.UpdateJourneyStageRequest) (*domain.JourneyDTO, error) {
	stage := domain.DealStage(strings.TrimSpace(string(req.Stage)))
	if stage == "" {
		return nil, fmt.Errorf("stage is required: %w", ErrInvalidInput)
	}

	journey, err := s.journeyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("journey", err)
	}
	if journey.CurrentStage == stage {
		return nil, fmt.Errorf("journey is already in stage %q: %w", stage, ErrInvalidInput)
	}

	change := repository.StageChange{
		ToStage:   stage,
		Notes:     req.Notes,
		ChangedAt: s.now().UTC(),
	}
	if user, ok := auth.FromContext(ctx); ok {
		change.ChangedByID = user.UserID.String()
		change.ChangedByName = user.DisplayName
	}

	fromStage := journey.CurrentStage
	if _, err := s.journeyRepo.UpdateStage(ctx, journey, change); err != nil {
		return nil, fmt.Errorf("failed to update journey stage: %w", err)
	}

	s.logger.Info("journey stage changed",
		zap.String("journey_id", journey.ID.String()),
		zap.String("from_stage", string(fromStage)),
		zap.String("to_stage", string(stage)),
		zap.String("changed_by", change.ChangedByID),
	)

	dto := mapper.ToJourneyDTO(journey, change.ChangedAt)
	return &dto, nil
}

// ListTransitions returns the stage history of a journey visible to the caller
func (s *JourneyService) ListTransitions(ctx context.Context, id uuid.UUID) ([]domain.StageTransitionDTO, error) {
	if _, err := s.journeyRepo.GetByID(ctx, id); err != nil {
		return nil, notFoundOr("journey", err)
	}

	transitions, err := s.transitionRepo.ListByJourney(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list stage transitions: %w", err)
	}

	dtos := make([]domain.StageTransitionDTO, len(transitions))
	for i := range transitions {
		dtos[i] = mapper.ToStageTransitionDTO(&transitions[i])
	}
	return dtos, nil
}
