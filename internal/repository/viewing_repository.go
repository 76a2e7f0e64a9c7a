package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ViewingFilters contains the filter options for listing viewings.
// Time bounds are inclusive.
type ViewingFilters struct {
	Status         *domain.ViewingStatus
	ScheduledAfter *time.Time
	ScheduledUntil *time.Time
	LeadID         *uuid.UUID
	PropertyID     *uuid.UUID
}

var viewingSortFields = map[string]string{
	"scheduledAt": "scheduled_at",
	"createdAt":   "created_at",
	"status":      "status",
}

type ViewingRepository struct {
	db *gorm.DB
}

func NewViewingRepository(db *gorm.DB) *ViewingRepository {
	return &ViewingRepository{db: db}
}

func (r *ViewingRepository) Create(ctx context.Context, viewing *domain.Viewing) error {
	// Omit associations to avoid GORM upserting the preloaded lead or property
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(viewing).Error
}

func (r *ViewingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Viewing, error) {
	var viewing domain.Viewing
	query := r.db.WithContext(ctx).
		Preload("Lead").
		Preload("Property").
		Where("id = ?", id)
	query = ApplyAgencyFilter(ctx, query)
	if err := query.First(&viewing).Error; err != nil {
		return nil, err
	}
	return &viewing, nil
}

func (r *ViewingRepository) List(ctx context.Context, page, pageSize int, filters *ViewingFilters, sort SortConfig) ([]domain.Viewing, int64, error) {
	var viewings []domain.Viewing
	var total int64

	if err := r.scoped(ctx, filters).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.scoped(ctx, filters).
		Preload("Lead").
		Preload("Property").
		Order(BuildOrderClause(sort, viewingSortFields, "scheduled_at")).
		Offset(offset(page, pageSize)).
		Limit(pageSize).
		Find(&viewings).Error
	return viewings, total, err
}

// ListForAnalytics returns every matching viewing with lead and property loaded
func (r *ViewingRepository) ListForAnalytics(ctx context.Context, filters *ViewingFilters) ([]domain.Viewing, error) {
	var viewings []domain.Viewing
	err := r.scoped(ctx, filters).
		Preload("Lead").
		Preload("Property").
		Order("scheduled_at ASC").
		Find(&viewings).Error
	return viewings, err
}

func (r *ViewingRepository) scoped(ctx context.Context, filters *ViewingFilters) *gorm.DB {
	query := ApplyAgencyFilter(ctx, r.db.WithContext(ctx).Model(&domain.Viewing{}))
	if filters == nil {
		return query
	}

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	// bounds are compared in UTC; sqlite stores timestamps as text
	if filters.ScheduledAfter != nil {
		query = query.Where("scheduled_at >= ?", filters.ScheduledAfter.UTC())
	}
	if filters.ScheduledUntil != nil {
		query = query.Where("scheduled_at <= ?", filters.ScheduledUntil.UTC())
	}
	if filters.LeadID != nil {
		query = query.Where("lead_id = ?", *filters.LeadID)
	}
	if filters.PropertyID != nil {
		query = query.Where("property_id = ?", *filters.PropertyID)
	}
	return query
}
