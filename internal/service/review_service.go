package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
	"github.com/lcolonia21/BizGuide-Final-System/internal/repository"
)

var (
	ErrInvalidRating   = fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidReviewInput, domain.MinReviewRating, domain.MaxReviewRating)
	ErrNoReviewUpdates = fmt.Errorf("%w: no updates provided", ErrInvalidReviewInput)
)

const maxReviewCommentLength = 4000

type CreateReviewInput struct {
	BusinessID uint
	Rating     int
	Comment    string
}

// UpdateReviewInput carries the mutable review fields. The author and the
// business a review belongs to never change.
type UpdateReviewInput struct {
	Rating  *int
	Comment *string
}

type RatingResult struct {
	BusinessID    uint    `json:"business_id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

type ReviewService struct {
	reviews    repository.ReviewRepository
	businesses repository.BusinessRepository
	guard      *OwnershipGuard
	cache      *ListingCache
}

func NewReviewService(reviews repository.ReviewRepository, businesses repository.BusinessRepository, guard *OwnershipGuard, cache *ListingCache) *ReviewService {
	if guard == nil {
		guard = NewOwnershipGuard()
	}
	return &ReviewService{reviews: reviews, businesses: businesses, guard: guard, cache: cache}
}

func (s *ReviewService) Create(ctx context.Context, author *domain.User, in CreateReviewInput) (*domain.Review, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordReviewOperation(ctx, "create", outcome, time.Since(start)) }()

	if author == nil {
		outcome = "unauthenticated"
		return nil, ErrUnauthenticated
	}
	comment := strings.TrimSpace(in.Comment)
	if err := validateReview(in.Rating, comment); err != nil {
		outcome = "bad_request"
		return nil, err
	}
	if err := s.requireBusiness(ctx, in.BusinessID); err != nil {
		outcome = reviewOutcome(err)
		return nil, err
	}

	review := &domain.Review{Rating: in.Rating, Comment: comment, UserID: author.ID, BusinessID: in.BusinessID}
	if err := s.reviews.Create(ctx, review); err != nil {
		outcome = "error"
		return nil, fmt.Errorf("create review: %w", err)
	}
	s.cache.Invalidate(ctx, ListingNamespaceReviews)
	return review, nil
}

func (s *ReviewService) GetByID(ctx context.Context, id uint) (*domain.Review, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordReviewOperation(ctx, "get", outcome, time.Since(start)) }()

	review, err := s.load(ctx, id)
	if err != nil {
		outcome = reviewOutcome(err)
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListByBusiness(ctx context.Context, businessID uint, req repository.PageRequest) (repository.PageResult[domain.Review], error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordReviewOperation(ctx, "list_by_business", outcome, time.Since(start)) }()

	key := fmt.Sprintf("business=%d|page=%d|size=%d", businessID, req.Page, req.PageSize)
	res, err := readThrough(ctx, s.cache, ListingNamespaceReviews, key, func(ctx context.Context) (repository.PageResult[domain.Review], error) {
		return s.reviews.ListByBusiness(ctx, businessID, req)
	})
	if err != nil {
		outcome = "error"
		return repository.PageResult[domain.Review]{}, fmt.Errorf("list business reviews: %w", err)
	}
	return res, nil
}

func (s *ReviewService) ListByUser(ctx context.Context, userID uint, req repository.PageRequest) (repository.PageResult[domain.Review], error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordReviewOperation(ctx, "list_by_user", outcome, time.Since(start)) }()

	key := fmt.Sprintf("user=%d|page=%d|size=%d", userID, req.Page, req.PageSize)
	res, err := readThrough(ctx, s.cache, ListingNamespaceReviews, key, func(ctx context.Context) (repository.PageResult[domain.Review], error) {
		return s.reviews.ListByUser(ctx, userID, req)
	})
	if err != nil {
		outcome = "error"
		return repository.PageResult[domain.Review]{}, fmt.Errorf("list user reviews: %w", err)
	}
	return res, nil
}

func (s *ReviewService) Update(ctx context.Context, actor *domain.User, id uint, in UpdateReviewInput) (*domain.Review, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordReviewOperation(ctx, "update", outcome, time.Since(start)) }()

	review, err := s.load(ctx, id)
	if err != nil {
		outcome = reviewOutcome(err)
		return nil, err
	}
	if err := s.guard.Require(ctx, "review", actor, review.UserID); err != nil {
		outcome = "forbidden"
		return nil, err
	}

	updates := map[string]any{}
	rating, comment := review.Rating, review.Comment
	if in.Rating != nil {
		rating = *in.Rating
		updates["rating"] = rating
	}
	if in.Comment != nil {
		comment = strings.TrimSpace(*in.Comment)
		updates["comment"] = comment
	}
	if len(updates) == 0 {
		outcome = "bad_request"
		return nil, ErrNoReviewUpdates
	}
	if err := validateReview(rating, comment); err != nil {
		outcome = "bad_request"
		return nil, err
	}
	if err := s.reviews.Update(ctx, id, updates); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			outcome = "not_found"
			return nil, ErrReviewNotFound
		}
		outcome = "error"
		return nil, fmt.Errorf("update review: %w", err)
	}
	s.cache.Invalidate(ctx, ListingNamespaceReviews)

	updated, err := s.load(ctx, id)
	if err != nil {
		outcome = reviewOutcome(err)
		return nil, err
	}
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor *domain.User, id uint) error {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordReviewOperation(ctx, "delete", outcome, time.Since(start)) }()

	review, err := s.load(ctx, id)
	if err != nil {
		outcome = reviewOutcome(err)
		return err
	}
	if err := s.guard.Require(ctx, "review", actor, review.UserID); err != nil {
		outcome = "forbidden"
		return err
	}
	if err := s.reviews.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			outcome = "not_found"
			return ErrReviewNotFound
		}
		outcome = "error"
		return fmt.Errorf("delete review: %w", err)
	}
	s.cache.Invalidate(ctx, ListingNamespaceReviews)
	return nil
}

// AverageRating is the arithmetic mean of the business's ratings, or zero
// when it has none.
func (s *ReviewService) AverageRating(ctx context.Context, businessID uint) (*RatingResult, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordReviewOperation(ctx, "average_rating", outcome, time.Since(start)) }()

	if err := s.requireBusiness(ctx, businessID); err != nil {
		outcome = reviewOutcome(err)
		return nil, err
	}
	key := fmt.Sprintf("rating=%d", businessID)
	summary, err := readThrough(ctx, s.cache, ListingNamespaceReviews, key, func(ctx context.Context) (repository.RatingSummary, error) {
		return s.reviews.RatingSummary(ctx, businessID)
	})
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("rating summary: %w", err)
	}
	return &RatingResult{
		BusinessID:    businessID,
		AverageRating: summary.Average,
		ReviewCount:   summary.Count,
	}, nil
}

func (s *ReviewService) load(ctx context.Context, id uint) (*domain.Review, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return review, nil
}

func (s *ReviewService) requireBusiness(ctx context.Context, businessID uint) error {
	if _, err := s.businesses.FindByID(ctx, businessID); err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return ErrBusinessNotFound
		}
		return fmt.Errorf("find business: %w", err)
	}
	return nil
}

func reviewOutcome(err error) string {
	if errors.Is(err, ErrReviewNotFound) || errors.Is(err, ErrBusinessNotFound) {
		return "not_found"
	}
	return "error"
}

func validateReview(rating int, comment string) error {
	if !domain.ValidRating(rating) {
		return ErrInvalidRating
	}
	if len(comment) > maxReviewCommentLength {
		return fmt.Errorf("%w: comment must be <= %d characters", ErrInvalidReviewInput, maxReviewCommentLength)
	}
	return nil
}
