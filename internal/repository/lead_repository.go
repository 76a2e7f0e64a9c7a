package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"gorm.io/gorm"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	query := ApplyAgencyFilter(ctx, r.db.WithContext(ctx).Where("id = ?", id))
	if err := query.First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// List returns leads ordered by name. search matches name or email.
func (r *LeadRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.Lead, int64, error) {
	var leads []domain.Lead
	var total int64

	base := func() *gorm.DB {
		query := ApplyAgencyFilter(ctx, r.db.WithContext(ctx).Model(&domain.Lead{}))
		if search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
		}
		return query
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base().
		Order("name").
		Offset(offset(page, pageSize)).
		Limit(pageSize).
		Find(&leads).Error
	return leads, total, err
}
