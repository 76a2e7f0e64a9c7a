package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(contract).Error
}

func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	var contract domain.Contract
	query := ApplyAgencyFilter(ctx, r.db.WithContext(ctx).Where("id = ?", id))
	if err := query.First(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) List(ctx context.Context, page, pageSize int, status *domain.ContractStatus) ([]domain.Contract, int64, error) {
	var contracts []domain.Contract
	var total int64

	if err := r.scoped(ctx, status).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.scoped(ctx, status).
		Order("created_at DESC").
		Offset(offset(page, pageSize)).
		Limit(pageSize).
		Find(&contracts).Error
	return contracts, total, err
}

// ListAll returns every contract visible in ctx
func (r *ContractRepository) ListAll(ctx context.Context) ([]domain.Contract, error) {
	var contracts []domain.Contract
	err := r.scoped(ctx, nil).Order("created_at ASC").Find(&contracts).Error
	return contracts, err
}

func (r *ContractRepository) scoped(ctx context.Context, status *domain.ContractStatus) *gorm.DB {
	query := ApplyAgencyFilter(ctx, r.db.WithContext(ctx).Model(&domain.Contract{}))
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return query
}
