package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NegotiationRepository struct {
	db *gorm.DB
}

func NewNegotiationRepository(db *gorm.DB) *NegotiationRepository {
	return &NegotiationRepository{db: db}
}

func (r *NegotiationRepository) Create(ctx context.Context, negotiation *domain.Negotiation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(negotiation).Error
}

func (r *NegotiationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Negotiation, error) {
	var negotiation domain.Negotiation
	query := r.db.WithContext(ctx).Preload("Journey").Where("id = ?", id)
	query = ApplyAgencyFilter(ctx, query)
	if err := query.First(&negotiation).Error; err != nil {
		return nil, err
	}
	return &negotiation, nil
}

// List returns negotiations newest first, optionally restricted to a status
func (r *NegotiationRepository) List(ctx context.Context, page, pageSize int, status *domain.NegotiationStatus) ([]domain.Negotiation, int64, error) {
	var negotiations []domain.Negotiation
	var total int64

	if err := r.scoped(ctx, status).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.scoped(ctx, status).
		Preload("Journey").
		Order("created_at DESC").
		Offset(offset(page, pageSize)).
		Limit(pageSize).
		Find(&negotiations).Error
	return negotiations, total, err
}

// ListAll returns every negotiation visible in ctx with its journey loaded
func (r *NegotiationRepository) ListAll(ctx context.Context) ([]domain.Negotiation, error) {
	var negotiations []domain.Negotiation
	err := r.scoped(ctx, nil).
		Preload("Journey").
		Order("created_at ASC").
		Find(&negotiations).Error
	return negotiations, err
}

func (r *NegotiationRepository) scoped(ctx context.Context, status *domain.NegotiationStatus) *gorm.DB {
	query := ApplyAgencyFilter(ctx, r.db.WithContext(ctx).Model(&domain.Negotiation{}))
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return query
}
