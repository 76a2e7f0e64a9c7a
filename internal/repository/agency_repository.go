package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"gorm.io/gorm"
)

type AgencyRepository struct {
	db *gorm.DB
}

func NewAgencyRepository(db *gorm.DB) *AgencyRepository {
	return &AgencyRepository{db: db}
}

func (r *AgencyRepository) Create(ctx context.Context, agency *domain.Agency) error {
	return r.db.WithContext(ctx).Create(agency).Error
}

// GetByID returns an agency if it is visible to the caller
func (r *AgencyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agency, error) {
	var agency domain.Agency
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyAgencyFilterWithColumn(ctx, query, "id")
	if err := query.First(&agency).Error; err != nil {
		return nil, err
	}
	return &agency, nil
}

// ListActive returns every active agency ordered by name. It is not scoped
// and is meant for background jobs.
func (r *AgencyRepository) ListActive(ctx context.Context) ([]domain.Agency, error) {
	var agencies []domain.Agency
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name").
		Find(&agencies).Error
	return agencies, err
}

func (r *AgencyRepository) List(ctx context.Context, page, pageSize int) ([]domain.Agency, int64, error) {
	var agencies []domain.Agency
	var total int64

	base := func() *gorm.DB {
		return ApplyAgencyFilterWithColumn(ctx, r.db.WithContext(ctx).Model(&domain.Agency{}), "id")
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base().
		Order("name").
		Offset(offset(page, pageSize)).
		Limit(pageSize).
		Find(&agencies).Error
	return agencies, total, err
}
