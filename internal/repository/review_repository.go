package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
)

type RatingSummary struct {
	Average float64
	Count   int64
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	FindByID(ctx context.Context, id uint) (*domain.Review, error)
	ListByBusiness(ctx context.Context, businessID uint, req PageRequest) (PageResult[domain.Review], error)
	ListByUser(ctx context.Context, userID uint, req PageRequest) (PageResult[domain.Review], error)
	Update(ctx context.Context, id uint, updates map[string]any) error
	DeleteByID(ctx context.Context, id uint) error
	RatingSummary(ctx context.Context, businessID uint) (RatingSummary, error)
}

type GormReviewRepository struct{ db *gorm.DB }

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "review", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "review", "create", "success")
	return nil
}

func (r *GormReviewRepository) FindByID(ctx context.Context, id uint) (*domain.Review, error) {
	var review domain.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "review", "find_by_id", "not_found")
			return nil, ErrReviewNotFound
		}
		observability.RecordRepositoryOperation(ctx, "review", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "review", "find_by_id", "success")
	return &review, nil
}

func (r *GormReviewRepository) ListByBusiness(ctx context.Context, businessID uint, req PageRequest) (PageResult[domain.Review], error) {
	return r.listWhere(ctx, "list_by_business", "business_id = ?", businessID, req)
}

func (r *GormReviewRepository) ListByUser(ctx context.Context, userID uint, req PageRequest) (PageResult[domain.Review], error) {
	return r.listWhere(ctx, "list_by_user", "user_id = ?", userID, req)
}

func (r *GormReviewRepository) listWhere(ctx context.Context, op, cond string, arg uint, req PageRequest) (PageResult[domain.Review], error) {
	result, err := findPage[domain.Review](ctx, r.db.Model(&domain.Review{}).Where(cond, arg), req)
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "review", op, "error")
		return result, err
	}
	observability.RecordRepositoryOperation(ctx, "review", op, "success")
	return result, nil
}

func (r *GormReviewRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.Review{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "review", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "review", "update", "not_found")
		return ErrReviewNotFound
	}
	observability.RecordRepositoryOperation(ctx, "review", "update", "success")
	return nil
}

func (r *GormReviewRepository) DeleteByID(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Review{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "review", "delete_by_id", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "review", "delete_by_id", "not_found")
		return ErrReviewNotFound
	}
	observability.RecordRepositoryOperation(ctx, "review", "delete_by_id", "success")
	return nil
}

// RatingSummary returns a zero average when the business has no reviews.
func (r *GormReviewRepository) RatingSummary(ctx context.Context, businessID uint) (RatingSummary, error) {
	var row struct {
		Average float64
		Count   int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("business_id = ?", businessID).
		Scan(&row).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "review", "rating_summary", "error")
		return RatingSummary{}, err
	}
	observability.RecordRepositoryOperation(ctx, "review", "rating_summary", "success")
	return RatingSummary{Average: row.Average, Count: row.Count}, nil
}
