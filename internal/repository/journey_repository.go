package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JourneyFilters contains the filter options for listing deal journeys
type JourneyFilters struct {
	Stage      *domain.DealStage
	IsStalling *bool
	LeadID     *uuid.UUID
	PropertyID *uuid.UUID
}

var journeySortFields = map[string]string{
	"stageEnteredAt": "stage_entered_at",
	"currentStage":   "current_stage",
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
}

// StageChange describes a move of a journey to a new stage
type StageChange struct {
	ToStage       domain.DealStage
	ChangedByID   string
	ChangedByName string
	Notes         string
	ChangedAt     time.Time
}

type JourneyRepository struct {
	db *gorm.DB
}

func NewJourneyRepository(db *gorm.DB) *JourneyRepository {
	return &JourneyRepository{db: db}
}

func (r *JourneyRepository) Create(ctx context.Context, journey *domain.DealJourney) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(journey).Error
}

func (r *JourneyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DealJourney, error) {
	var journey domain.DealJourney
	query := r.db.WithContext(ctx).
		Preload("Lead").
		Preload("Property").
		Where("id = ?", id)
	query = ApplyAgencyFilter(ctx, query)
	if err := query.First(&journey).Error; err != nil {
		return nil, err
	}
	return &journey, nil
}

func (r *JourneyRepository) List(ctx context.Context, page, pageSize int, filters *JourneyFilters, sort SortConfig) ([]domain.DealJourney, int64, error) {
	var journeys []domain.DealJourney
	var total int64

	if err := r.scoped(ctx, filters).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.scoped(ctx, filters).
		Preload("Lead").
		Preload("Property").
		Order(BuildOrderClause(sort, journeySortFields, "updated_at")).
		Offset(offset(page, pageSize)).
		Limit(pageSize).
		Find(&journeys).Error
	return journeys, total, err
}

// ListAll returns every journey visible in ctx, oldest stage entry first
func (r *JourneyRepository) ListAll(ctx context.Context) ([]domain.DealJourney, error) {
	var journeys []domain.DealJourney
	err := r.scoped(ctx, nil).
		Order("stage_entered_at ASC").
		Find(&journeys).Error
	return journeys, err
}

// UpdateStage moves a journey to a new stage, resets its stage clock and
// stalling flag and records the transition, all in one transaction.
// The journey is updated in place.
func (r *JourneyRepository) UpdateStage(ctx context.Context, journey *domain.DealJourney, change StageChange) (*domain.StageTransition, error) {
	fromStage := journey.CurrentStage
	transition := &domain.StageTransition{
		JourneyID:     journey.ID,
		FromStage:     &fromStage,
		ToStage:       change.ToStage,
		ChangedByID:   change.ChangedByID,
		ChangedByName: change.ChangedByName,
		Notes:         change.Notes,
		ChangedAt:     change.ChangedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.DealJourney{}).
			Where("id = ?", journey.ID).
			Updates(map[string]interface{}{
				"current_stage":    change.ToStage,
				"stage_entered_at": change.ChangedAt,
				"is_stalling":      false,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(transition).Error
	})
	if err != nil {
		return nil, err
	}

	journey.CurrentStage = change.ToStage
	journey.StageEnteredAt = change.ChangedAt
	journey.IsStalling = false
	return transition, nil
}

// MarkStalling sets the stalling flag on the given journeys
func (r *JourneyRepository) MarkStalling(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&domain.DealJourney{}).
		Where("id IN ? AND is_stalling = ?", ids, false).
		Update("is_stalling", true)
	return result.RowsAffected, result.Error
}

func (r *JourneyRepository) scoped(ctx context.Context, filters *JourneyFilters) *gorm.DB {
	query := ApplyAgencyFilter(ctx, r.db.WithContext(ctx).Model(&domain.DealJourney{}))
	if filters == nil {
		return query
	}

	if filters.Stage != nil {
		query = query.Where("current_stage = ?", *filters.Stage)
	}
	if filters.IsStalling != nil {
		query = query.Where("is_stalling = ?", *filters.IsStalling)
	}
	if filters.LeadID != nil {
		query = query.Where("lead_id = ?", *filters.LeadID)
	}
	if filters.PropertyID != nil {
		query = query.Where("property_id = ?", *filters.PropertyID)
	}
	return query
}
