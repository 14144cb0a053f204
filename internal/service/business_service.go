package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
	"github.com/lcolonia21/BizGuide-Final-System/internal/repository"
)

var ErrNoBusinessUpdates = fmt.Errorf("%w: no updates provided", ErrInvalidBusinessInput)

type CreateBusinessInput struct {
	Name        string
	Description string
	Address     string
	Phone       string
	Email       string
	Website     *string
	Category    string
}

// UpdateBusinessInput lists the mutable business fields. A nil field is left
// unchanged.
type UpdateBusinessInput struct {
	Name        *string
	Description *string
	Address     *string
	Phone       *string
	Email       *string
	Website     *string
	Category    *string
}

type BusinessListQuery struct {
	Category string
	OwnerID  uint
	Page     repository.PageRequest
}

// LogoObjectRemover deletes stored logo objects once their business is gone.
type LogoObjectRemover interface {
	Remove(ctx context.Context, objectKey string) error
}

type BusinessService struct {
	businesses repository.BusinessRepository
	guard      *OwnershipGuard
	cache      *ListingCache
	logos      LogoObjectRemover
}

func NewBusinessService(businesses repository.BusinessRepository, guard *OwnershipGuard, cache *ListingCache, logos LogoObjectRemover) *BusinessService {
	if guard == nil {
		guard = NewOwnershipGuard()
	}
	return &BusinessService{businesses: businesses, guard: guard, cache: cache, logos: logos}
}

func (s *BusinessService) Create(ctx context.Context, owner *domain.User, in CreateBusinessInput) (*domain.Business, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordBusinessOperation(ctx, "create", outcome, time.Since(start)) }()

	if owner == nil {
		outcome = "unauthenticated"
		return nil, ErrUnauthenticated
	}
	business := &domain.Business{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Address:     strings.TrimSpace(in.Address),
		Phone:       strings.TrimSpace(in.Phone),
		Email:       strings.TrimSpace(in.Email),
		Website:     trimOptional(in.Website),
		Category:    strings.TrimSpace(in.Category),
		OwnerID:     owner.ID,
	}
	if err := validateBusiness(business); err != nil {
		outcome = "bad_request"
		return nil, err
	}
	if err := s.businesses.Create(ctx, business); err != nil {
		outcome = "error"
		return nil, fmt.Errorf("create business: %w", err)
	}
	s.cache.Invalidate(ctx, ListingNamespaceBusinesses)
	return business, nil
}

func (s *BusinessService) GetByID(ctx context.Context, id uint) (*domain.Business, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordBusinessOperation(ctx, "get", outcome, time.Since(start)) }()

	business, err := s.load(ctx, id)
	if err != nil {
		outcome = businessOutcome(err)
		return nil, err
	}
	return business, nil
}

func (s *BusinessService) List(ctx context.Context, q BusinessListQuery) (repository.PageResult[domain.Business], error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordBusinessOperation(ctx, "list", outcome, time.Since(start)) }()

	filter := repository.BusinessFilter{Category: strings.TrimSpace(q.Category), OwnerID: q.OwnerID}
	key := fmt.Sprintf("category=%s|owner=%d|page=%d|size=%d", filter.Category, filter.OwnerID, q.Page.Page, q.Page.PageSize)
	res, err := readThrough(ctx, s.cache, ListingNamespaceBusinesses, key, func(ctx context.Context) (repository.PageResult[domain.Business], error) {
		return s.businesses.ListPaged(ctx, filter, q.Page)
	})
	if err != nil {
		outcome = "error"
		return repository.PageResult[domain.Business]{}, fmt.Errorf("list businesses: %w", err)
	}
	return res, nil
}

// Update loads the business, checks ownership, then applies the non-nil
// fields. Unknown ids are reported before ownership.
func (s *BusinessService) Update(ctx context.Context, actor *domain.User, id uint, in UpdateBusinessInput) (*domain.Business, error) {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordBusinessOperation(ctx, "update", outcome, time.Since(start)) }()

	business, err := s.load(ctx, id)
	if err != nil {
		outcome = businessOutcome(err)
		return nil, err
	}
	if err := s.guard.Require(ctx, "business", actor, business.OwnerID); err != nil {
		outcome = "forbidden"
		return nil, err
	}

	updates := businessUpdates(in)
	if len(updates) == 0 {
		outcome = "bad_request"
		return nil, ErrNoBusinessUpdates
	}
	applyBusinessUpdates(business, updates)
	if err := validateBusiness(business); err != nil {
		outcome = "bad_request"
		return nil, err
	}
	if err := s.businesses.Update(ctx, id, updates); err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			outcome = "not_found"
			return nil, ErrBusinessNotFound
		}
		outcome = "error"
		return nil, fmt.Errorf("update business: %w", err)
	}
	s.cache.Invalidate(ctx, ListingNamespaceBusinesses)

	updated, err := s.load(ctx, id)
	if err != nil {
		outcome = businessOutcome(err)
		return nil, err
	}
	return updated, nil
}

// Delete removes the business together with its reviews. A stored logo is
// removed afterwards on a best-effort basis.
func (s *BusinessService) Delete(ctx context.Context, actor *domain.User, id uint) error {
	start := time.Now()
	outcome := "success"
	defer func() { observability.RecordBusinessOperation(ctx, "delete", outcome, time.Since(start)) }()

	business, err := s.load(ctx, id)
	if err != nil {
		outcome = businessOutcome(err)
		return err
	}
	if err := s.guard.Require(ctx, "business", actor, business.OwnerID); err != nil {
		outcome = "forbidden"
		return err
	}
	if err := s.businesses.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			outcome = "not_found"
			return ErrBusinessNotFound
		}
		outcome = "error"
		return fmt.Errorf("delete business: %w", err)
	}
	s.cache.Invalidate(ctx, ListingNamespaceBusinesses, ListingNamespaceReviews)

	if s.logos != nil && business.LogoObjectKey != nil {
		if err := s.logos.Remove(ctx, *business.LogoObjectKey); err != nil {
			observability.RecordLogoStorageOperation(ctx, "remove_orphan", "error")
		}
	}
	return nil
}

func (s *BusinessService) load(ctx context.Context, id uint) (*domain.Business, error) {
	business, err := s.businesses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("find business: %w", err)
	}
	return business, nil
}

func businessOutcome(err error) string {
	if errors.Is(err, ErrBusinessNotFound) {
		return "not_found"
	}
	return "error"
}

func businessUpdates(in UpdateBusinessInput) map[string]any {
	updates := map[string]any{}
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = strings.TrimSpace(*v)
		}
	}
	set("name", in.Name)
	set("description", in.Description)
	set("address", in.Address)
	set("phone", in.Phone)
	set("email", in.Email)
	set("category", in.Category)
	if in.Website != nil {
		updates["website"] = trimOptional(in.Website)
	}
	return updates
}

func applyBusinessUpdates(b *domain.Business, updates map[string]any) {
	for column, value := range updates {
		switch column {
		case "name":
			b.Name = value.(string)
		case "description":
			b.Description = value.(string)
		case "address":
			b.Address = value.(string)
		case "phone":
			b.Phone = value.(string)
		case "email":
			b.Email = value.(string)
		case "category":
			b.Category = value.(string)
		case "website":
			b.Website = value.(*string)
		}
	}
}

func validateBusiness(b *domain.Business) error {
	if b.Name == "" || len(b.Name) > 200 {
		return fmt.Errorf("%w: name must be between 1 and 200 characters", ErrInvalidBusinessInput)
	}
	if b.Category == "" || len(b.Category) > 120 {
		return fmt.Errorf("%w: category must be between 1 and 120 characters", ErrInvalidBusinessInput)
	}
	if len(b.Description) > 2000 {
		return fmt.Errorf("%w: description must be <= 2000 characters", ErrInvalidBusinessInput)
	}
	if b.Email != "" {
		if addr, err := mail.ParseAddress(b.Email); err != nil || addr.Address != b.Email {
			return fmt.Errorf("%w: invalid email", ErrInvalidBusinessInput)
		}
	}
	return nil
}

// trimOptional maps a blank value to nil so the column is cleared.
func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
