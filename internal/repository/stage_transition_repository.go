package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"gorm.io/gorm"
)

type StageTransitionRepository struct {
	db *gorm.DB
}

func NewStageTransitionRepository(db *gorm.DB) *StageTransitionRepository {
	return &StageTransitionRepository{db: db}
}

// ListByJourney returns the stage history of a journey, most recent first.
// Visibility of the journey itself is checked by the caller.
func (r *StageTransitionRepository) ListByJourney(ctx context.Context, journeyID uuid.UUID) ([]domain.StageTransition, error) {
	var transitions []domain.StageTransition
	err := r.db.WithContext(ctx).
		Where("journey_id = ?", journeyID).
		Order("changed_at DESC").
		Find(&transitions).Error
	return transitions, err
}
