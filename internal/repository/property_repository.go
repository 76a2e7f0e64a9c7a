package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"gorm.io/gorm"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	var property domain.Property
	query := ApplyAgencyFilter(ctx, r.db.WithContext(ctx).Where("id = ?", id))
	if err := query.First(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

// List returns properties, optionally restricted to one city
func (r *PropertyRepository) List(ctx context.Context, page, pageSize int, city string) ([]domain.Property, int64, error) {
	var properties []domain.Property
	var total int64

	base := func() *gorm.DB {
		query := ApplyAgencyFilter(ctx, r.db.WithContext(ctx).Model(&domain.Property{}))
		if city != "" {
			query = query.Where("city = ?", city)
		}
		return query
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base().
		Order("created_at DESC").
		Offset(offset(page, pageSize)).
		Limit(pageSize).
		Find(&properties).Error
	return properties, total, err
}
