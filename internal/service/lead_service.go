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

type LeadService struct {
	leadRepo     *repository.LeadRepository
	propertyRepo *repository.PropertyRepository
	logger       *zap.Logger
}

func NewLeadService(leadRepo *repository.LeadRepository, propertyRepo *repository.PropertyRepository, logger *zap.Logger) *LeadService {
	return &LeadService{leadRepo: leadRepo, propertyRepo: propertyRepo, logger: logger}
}

func (s *LeadService) CreateLead(ctx context.Context, req *domain.CreateLeadRequest) (*domain.LeadDTO, error) {
	agencyID, err := resolveAgency(ctx, req.AgencyID)
	if err != nil {
		return nil, err
	}

	lead := &domain.Lead{
		AgencyID:     agencyID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		IntentScore:  req.IntentScore,
		QualityScore: req.QualityScore,
	}
	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

func (s *LeadService) ListLeads(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	page, pageSize = paginate(page, pageSize)

	leads, total, err := s.leadRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	dtos := make([]domain.LeadDTO, len(leads))
	for i := range leads {
		dtos[i] = mapper.ToLeadDTO(&leads[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}

func (s *LeadService) CreateProperty(ctx context.Context, req *domain.CreatePropertyRequest) (*domain.PropertyDTO, error) {
	agencyID, err := resolveAgency(ctx, req.AgencyID)
	if err != nil {
		return nil, err
	}

	property := &domain.Property{
		AgencyID:  agencyID,
		Title:     req.Title,
		Address:   req.Address,
		City:      req.City,
		ListPrice: decimal.NewFromFloat(req.ListPrice).Round(2),
	}
	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	dto := mapper.ToPropertyDTO(property)
	return &dto, nil
}

func (s *LeadService) ListProperties(ctx context.Context, page, pageSize int, city string) (*domain.PaginatedResponse, error) {
	page, pageSize = paginate(page, pageSize)

	properties, total, err := s.propertyRepo.List(ctx, page, pageSize, city)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	dtos := make([]domain.PropertyDTO, len(properties))
	for i := range properties {
		dtos[i] = mapper.ToPropertyDTO(&properties[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}
