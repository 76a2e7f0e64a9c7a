package service

import (
	"context"
	"fmt"

	"github.com/meridian-realty/dashboard-api/internal/domain"
	"github.com/meridian-realty/dashboard-api/internal/mapper"
	"github.com/meridian-realty/dashboard-api/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DealRecordService manages the negotiations and contracts attached to deal journeys
type DealRecordService struct {
	negotiationRepo *repository.NegotiationRepository
	contractRepo    *repository.ContractRepository
	journeyRepo     *repository.JourneyRepository
	now             Clock
	logger          *zap.Logger
}

func NewDealRecordService(
	negotiationRepo *repository.NegotiationRepository,
	contractRepo *repository.ContractRepository,
	journeyRepo *repository.JourneyRepository,
	logger *zap.Logger,
) *DealRecordService {
	return &DealRecordService{
		negotiationRepo: negotiationRepo,
		contractRepo:    contractRepo,
		journeyRepo:     journeyRepo,
		now:             SystemClock,
		logger:          logger,
	}
}

// WithClock replaces the time source
func (s *DealRecordService) WithClock(clock Clock) *DealRecordService {
	s.now = clock
	return s
}

func (s *DealRecordService) CreateNegotiation(ctx context.Context, req *domain.CreateNegotiationRequest) (*domain.NegotiationDTO, error) {
	agencyID, err := resolveAgency(ctx, req.AgencyID)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.NegotiationStatusActive
	}

	negotiation := &domain.Negotiation{
		AgencyID:     agencyID,
		AskingPrice:  decimal.NewFromFloat(req.AskingPrice).Round(2),
		CurrentPrice: decimal.NewFromFloat(req.CurrentPrice).Round(2),
		Status:       status,
	}
	if len(req.Insights) > 0 {
		negotiation.Insights = append([]string(nil), req.Insights...)
	}

	if req.JourneyID != nil {
		journey, err := s.journeyRepo.GetByID(ctx, *req.JourneyID)
		if err != nil {
			return nil, notFoundOr("journey", err)
		}
		if journey.AgencyID != agencyID {
			return nil, fmt.Errorf("journey belongs to another agency: %w", ErrInvalidInput)
		}
		negotiation.JourneyID = &journey.ID
		negotiation.Journey = journey
	}

	if err := s.negotiationRepo.Create(ctx, negotiation); err != nil {
		return nil, fmt.Errorf("failed to create negotiation: %w", err)
	}

	dto := mapper.ToNegotiationDTO(negotiation)
	return &dto, nil
}

func (s *DealRecordService) ListNegotiations(ctx context.Context, page, pageSize int, status *domain.NegotiationStatus) (*domain.PaginatedResponse, error) {
	page, pageSize = paginate(page, pageSize)

	negotiations, total, err := s.negotiationRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list negotiations: %w", err)
	}

	dtos := make([]domain.NegotiationDTO, len(negotiations))
	for i := range negotiations {
		dtos[i] = mapper.ToNegotiationDTO(&negotiations[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}

// CreateContract records a contract. A contract created as signed without a
// signing time is stamped with the current time.
func (s *DealRecordService) CreateContract(ctx context.Context, req *domain.CreateContractRequest) (*domain.ContractDTO, error) {
	agencyID, err := resolveAgency(ctx, req.AgencyID)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.ContractStatusDraft
	}

	contract := &domain.Contract{AgencyID: agencyID, Status: status}
	switch {
	case req.SignedAt != nil:
		signedAt := req.SignedAt.UTC()
		contract.SignedAt = &signedAt
	case status == domain.ContractStatusSigned:
		signedAt := s.now().UTC()
		contract.SignedAt = &signedAt
	}

	if req.JourneyID != nil {
		journey, err := s.journeyRepo.GetByID(ctx, *req.JourneyID)
		if err != nil {
			return nil, notFoundOr("journey", err)
		}
		if journey.AgencyID != agencyID {
			return nil, fmt.Errorf("journey belongs to another agency: %w", ErrInvalidInput)
		}
		contract.JourneyID = &journey.ID
	}

	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	dto := mapper.ToContractDTO(contract)
	return &dto, nil
}

func (s *DealRecordService) ListContracts(ctx context.Context, page, pageSize int, status *domain.ContractStatus) (*domain.PaginatedResponse, error) {
	page, pageSize = paginate(page, pageSize)

	contracts, total, err := s.contractRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}

	dtos := make([]domain.ContractDTO, len(contracts))
	for i := range contracts {
		dtos[i] = mapper.ToContractDTO(&contracts[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}
