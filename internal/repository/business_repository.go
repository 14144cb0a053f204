package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
)

type BusinessFilter struct {
	Category string
	OwnerID  uint
}

type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) error
	FindByID(ctx context.Context, id uint) (*domain.Business, error)
	ListPaged(ctx context.Context, filter BusinessFilter, req PageRequest) (PageResult[domain.Business], error)
	Update(ctx context.Context, id uint, updates map[string]any) error
	// DeleteByID removes the business and all of its reviews atomically.
	DeleteByID(ctx context.Context, id uint) error
}

type GormBusinessRepository struct{ db *gorm.DB }

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &GormBusinessRepository{db: db}
}

func (r *GormBusinessRepository) Create(ctx context.Context, business *domain.Business) error {
	if err := r.db.WithContext(ctx).Create(business).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "business", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "business", "create", "success")
	return nil
}

func (r *GormBusinessRepository) FindByID(ctx context.Context, id uint) (*domain.Business, error) {
	var business domain.Business
	if err := r.db.WithContext(ctx).First(&business, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "business", "find_by_id", "not_found")
			return nil, ErrBusinessNotFound
		}
		observability.RecordRepositoryOperation(ctx, "business", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "business", "find_by_id", "success")
	return &business, nil
}

func (r *GormBusinessRepository) ListPaged(ctx context.Context, filter BusinessFilter, req PageRequest) (PageResult[domain.Business], error) {
	query := r.db.Model(&domain.Business{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	result, err := findPage[domain.Business](ctx, query, req)
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "business", "list_paged", "error")
		return result, err
	}
	observability.RecordRepositoryOperation(ctx, "business", "list_paged", "success")
	return result, nil
}

func (r *GormBusinessRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.Business{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "business", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "business", "update", "not_found")
		return ErrBusinessNotFound
	}
	observability.RecordRepositoryOperation(ctx, "business", "update", "success")
	return nil
}

func (r *GormBusinessRepository) DeleteByID(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ?", id).Delete(&domain.Review{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Business{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBusinessNotFound
		}
		return nil
	})
	switch {
	case err == nil:
		observability.RecordRepositoryOperation(ctx, "business", "delete_by_id", "success")
	case errors.Is(err, ErrBusinessNotFound):
		observability.RecordRepositoryOperation(ctx, "business", "delete_by_id", "not_found")
	default:
		observability.RecordRepositoryOperation(ctx, "business", "delete_by_id", "error")
	}
	return err
}
