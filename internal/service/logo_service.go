package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lcolonia21/BizGuide-Final-System/internal/config"
	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	"github.com/lcolonia21/BizGuide-Final-System/internal/repository"
)

var (
	ErrLogoTooLarge           = errors.New("logo exceeds the upload size limit")
	ErrInvalidLogoType        = errors.New("logo must be a JPEG or PNG image")
	ErrLogoNotFound           = errors.New("business has no logo")
	ErrLogoStorageDisabled    = errors.New("logo storage is not configured")
	ErrLogoStorageUnavailable = errors.New("logo storage unavailable")
)

var logoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

type LogoResult struct {
	BusinessID uint      `json:"business_id"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type LogoService struct {
	businesses repository.BusinessRepository
	objects    LogoObjectStore
	guard      *OwnershipGuard
	cache      *ListingCache
	maxBytes   int64
	urlTTL     time.Duration
	now        func() time.Time
}

// NewLogoService accepts a nil store; every operation then fails with
// ErrLogoStorageDisabled.
func NewLogoService(cfg *config.Config, businesses repository.BusinessRepository, objects LogoObjectStore, guard *OwnershipGuard, cache *ListingCache) *LogoService {
	if guard == nil {
		guard = NewOwnershipGuard()
	}
	return &LogoService{
		businesses: businesses,
		objects:    objects,
		guard:      guard,
		cache:      cache,
		maxBytes:   cfg.LogoMaxUploadBytes,
		urlTTL:     cfg.LogoURLTTL,
		now:        time.Now,
	}
}

// Upload stores a new logo for the business and replaces any previous one.
// The content type is sniffed from the bytes, never taken from the client.
func (s *LogoService) Upload(ctx context.Context, actor *domain.User, businessID uint, file io.Reader, size int64) (*LogoResult, error) {
	if s.objects == nil {
		return nil, ErrLogoStorageDisabled
	}
	business, err := s.loadBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Require(ctx, "business_logo", actor, business.OwnerID); err != nil {
		return nil, err
	}
	if size <= 0 || (s.maxBytes > 0 && size > s.maxBytes) {
		return nil, ErrLogoTooLarge
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	ext, ok := logoExtensions[contentType]
	if !ok {
		return nil, ErrInvalidLogoType
	}

	objectKey := fmt.Sprintf("businesses/%d/%s%s", businessID, uuid.NewString(), ext)
	if err := s.objects.Put(ctx, objectKey, io.MultiReader(bytes.NewReader(head), file), size, contentType); err != nil {
		return nil, err
	}
	if err := s.businesses.Update(ctx, businessID, map[string]any{"logo_object_key": objectKey}); err != nil {
		_ = s.objects.Remove(ctx, objectKey)
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("store logo key: %w", err)
	}
	if business.LogoObjectKey != nil && *business.LogoObjectKey != objectKey {
		_ = s.objects.Remove(ctx, *business.LogoObjectKey)
	}
	s.cache.Invalidate(ctx, ListingNamespaceBusinesses)
	return s.presign(ctx, businessID, objectKey)
}

func (s *LogoService) URL(ctx context.Context, businessID uint) (*LogoResult, error) {
	if s.objects == nil {
		return nil, ErrLogoStorageDisabled
	}
	business, err := s.loadBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if business.LogoObjectKey == nil {
		return nil, ErrLogoNotFound
	}
	return s.presign(ctx, businessID, *business.LogoObjectKey)
}

func (s *LogoService) Delete(ctx context.Context, actor *domain.User, businessID uint) error {
	if s.objects == nil {
		return ErrLogoStorageDisabled
	}
	business, err := s.loadBusiness(ctx, businessID)
	if err != nil {
		return err
	}
	if err := s.guard.Require(ctx, "business_logo", actor, business.OwnerID); err != nil {
		return err
	}
	if business.LogoObjectKey == nil {
		return ErrLogoNotFound
	}
	if err := s.objects.Remove(ctx, *business.LogoObjectKey); err != nil {
		return err
	}
	if err := s.businesses.Update(ctx, businessID, map[string]any{"logo_object_key": nil}); err != nil {
		return fmt.Errorf("clear logo key: %w", err)
	}
	s.cache.Invalidate(ctx, ListingNamespaceBusinesses)
	return nil
}

func (s *LogoService) presign(ctx context.Context, businessID uint, objectKey string) (*LogoResult, error) {
	expiresAt := s.now().Add(s.urlTTL)
	url, err := s.objects.PresignedURL(ctx, objectKey, s.urlTTL)
	if err != nil {
		return nil, err
	}
	return &LogoResult{BusinessID: businessID, URL: url, ExpiresAt: expiresAt}, nil
}

func (s *LogoService) loadBusiness(ctx context.Context, id uint) (*domain.Business, error) {
	business, err := s.businesses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("find business: %w", err)
	}
	return business, nil
}
