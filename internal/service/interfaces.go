package service

import (
	"context"
	"io"

	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	"github.com/lcolonia21/BizGuide-Final-System/internal/repository"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*TokenResult, error)
	ResolveCurrentIdentity(ctx context.Context, token string) (*domain.User, error)
}

// IdentityResolver turns a bearer token into the calling user.
type IdentityResolver interface {
	ResolveCurrentIdentity(ctx context.Context, token string) (*domain.User, error)
}

type BusinessServiceInterface interface {
	Create(ctx context.Context, owner *domain.User, in CreateBusinessInput) (*domain.Business, error)
	GetByID(ctx context.Context, id uint) (*domain.Business, error)
	List(ctx context.Context, q BusinessListQuery) (repository.PageResult[domain.Business], error)
	Update(ctx context.Context, actor *domain.User, id uint, in UpdateBusinessInput) (*domain.Business, error)
	Delete(ctx context.Context, actor *domain.User, id uint) error
}

type ReviewServiceInterface interface {
	Create(ctx context.Context, author *domain.User, in CreateReviewInput) (*domain.Review, error)
	GetByID(ctx context.Context, id uint) (*domain.Review, error)
	ListByBusiness(ctx context.Context, businessID uint, req repository.PageRequest) (repository.PageResult[domain.Review], error)
	ListByUser(ctx context.Context, userID uint, req repository.PageRequest) (repository.PageResult[domain.Review], error)
	Update(ctx context.Context, actor *domain.User, id uint, in UpdateReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, actor *domain.User, id uint) error
	AverageRating(ctx context.Context, businessID uint) (*RatingResult, error)
}

type LogoServiceInterface interface {
	Upload(ctx context.Context, actor *domain.User, businessID uint, file io.Reader, size int64) (*LogoResult, error)
	URL(ctx context.Context, businessID uint) (*LogoResult, error)
	Delete(ctx context.Context, actor *domain.User, businessID uint) error
}
