package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/meridian-realty/dashboard-api/internal/domain"
	"github.com/meridian-realty/dashboard-api/internal/mapper"
	"github.com/meridian-realty/dashboard-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AgencyService struct {
	agencyRepo *repository.AgencyRepository
	logger     *zap.Logger
}

func NewAgencyService(agencyRepo *repository.AgencyRepository, logger *zap.Logger) *AgencyService {
	return &AgencyService{agencyRepo: agencyRepo, logger: logger}
}

func (s *AgencyService) Create(ctx context.Context, req *domain.CreateAgencyRequest) (*domain.AgencyDTO, error) {
	agency := &domain.Agency{Name: req.Name, Slug: req.Slug, IsActive: true}

	if err := s.agencyRepo.Create(ctx, agency); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("agency slug %q already exists: %w", req.Slug, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create agency: %w", err)
	}

	s.logger.Info("agency created", zap.String("agency_id", agency.ID.String()), zap.String("slug", agency.Slug))
	dto := mapper.ToAgencyDTO(agency)
	return &dto, nil
}

func (s *AgencyService) List(ctx context.Context, page, pageSize int) (*domain.PaginatedResponse, error) {
	page, pageSize = paginate(page, pageSize)

	agencies, total, err := s.agencyRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list agencies: %w", err)
	}

	dtos := make([]domain.AgencyDTO, len(agencies))
	for i := range agencies {
		dtos[i] = mapper.ToAgencyDTO(&agencies[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}
