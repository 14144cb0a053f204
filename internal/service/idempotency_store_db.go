package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
	"github.com/lcolonia21/BizGuide-Final-System/internal/repository"
)

const maxIdempotencyBeginAttempts = 3

var errIdempotencyRace = errors.New("idempotency record created concurrently")

type DBIdempotencyStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDBIdempotencyStore(db *gorm.DB) *DBIdempotencyStore {
	return &DBIdempotencyStore{db: db, now: time.Now}
}

func (s *DBIdempotencyStore) CleanupExpired(ctx context.Context, now time.Time, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	scoped := s.db.WithContext(ctx)
	sub := scoped.Model(&domain.IdempotencyRecord{}).
		Select("id").
		Where("expires_at <= ?", now.UTC()).
		Order("id ASC").
		Limit(batchSize)
	res := scoped.Where("id IN (?)", sub).Delete(&domain.IdempotencyRecord{})
	if res.Error != nil {
		observability.RecordIdempotencyCleanupRun(ctx, "error")
		return 0, res.Error
	}
	observability.RecordIdempotencyCleanupRun(ctx, "success")
	observability.RecordIdempotencyCleanupDeletedRows(ctx, res.RowsAffected)
	return res.RowsAffected, nil
}

// RunCleanupLoop deletes expired records every interval until ctx is done.
func (s *DBIdempotencyStore) RunCleanupLoop(ctx context.Context, interval time.Duration, batchSize int, logger *slog.Logger) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.CleanupExpired(ctx, s.now(), batchSize)
			if err != nil {
				logger.Warn("idempotency cleanup failed", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("idempotency cleanup removed expired records", "deleted", deleted)
			}
		}
	}
}

func (s *DBIdempotencyStore) Begin(ctx context.Context, scope, key, fingerprint string, ttl time.Duration) (IdempotencyBeginResult, error) {
	var lastErr error
	for attempt := 0; attempt < maxIdempotencyBeginAttempts; attempt++ {
		result, err := s.begin(ctx, scope, key, fingerprint, ttl)
		if !errors.Is(err, errIdempotencyRace) {
			return result, err
		}
		lastErr = err
	}
	return IdempotencyBeginResult{}, lastErr
}

func (s *DBIdempotencyStore) begin(ctx context.Context, scope, key, fingerprint string, ttl time.Duration) (IdempotencyBeginResult, error) {
	now := s.now().UTC()
	var result IdempotencyBeginResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() != "sqlite" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var rec domain.IdempotencyRecord
		err := q.Where("scope = ? AND idempotency_key = ?", scope, key).First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			create := domain.IdempotencyRecord{
				Scope:              scope,
				IdempotencyKey:     key,
				RequestFingerprint: fingerprint,
				State:              string(IdempotencyStateInProgress),
				ExpiresAt:          now.Add(ttl),
			}
			if err := tx.Create(&create).Error; err != nil {
				if repository.IsUniqueViolation(err) {
					return errIdempotencyRace
				}
				return err
			}
			result.State = IdempotencyStateNew
			return nil
		}
		if err != nil {
			return err
		}

		if !rec.ExpiresAt.After(now) {
			rec.RequestFingerprint = fingerprint
			rec.State = string(IdempotencyStateInProgress)
			rec.ResponseStatus = 0
			rec.ResponseBody = nil
			rec.ResponseCType = ""
			rec.ExpiresAt = now.Add(ttl)
			if err := tx.Save(&rec).Error; err != nil {
				return err
			}
			result.State = IdempotencyStateNew
			return nil
		}

		switch {
		case rec.RequestFingerprint != fingerprint:
			result.State = IdempotencyStateConflict
		case rec.State == idempotencyRecordCompleted:
			result.State = IdempotencyStateReplay
			result.Cached = &CachedHTTPResponse{
				StatusCode:  rec.ResponseStatus,
				ContentType: rec.ResponseCType,
				Body:        append([]byte(nil), rec.ResponseBody...),
			}
		default:
			result.State = IdempotencyStateInProgress
		}
		return nil
	})
	if err != nil {
		return IdempotencyBeginResult{}, err
	}
	return result, nil
}

func (s *DBIdempotencyStore) Complete(ctx context.Context, scope, key, fingerprint string, response CachedHTTPResponse, ttl time.Duration) error {
	return s.db.WithContext(ctx).Model(&domain.IdempotencyRecord{}).
		Where("scope = ? AND idempotency_key = ? AND request_fingerprint = ?", scope, key, fingerprint).
		Where("state <> ?", idempotencyRecordCompleted).
		Updates(map[string]any{
			"state":                 idempotencyRecordCompleted,
			"response_status":       response.StatusCode,
			"response_body":         response.Body,
			"response_content_type": response.ContentType,
			"expires_at":            s.now().UTC().Add(ttl),
		}).Error
}

func (s *DBIdempotencyStore) Release(ctx context.Context, scope, key, fingerprint string) error {
	return s.db.WithContext(ctx).
		Where("scope = ? AND idempotency_key = ? AND request_fingerprint = ?", scope, key, fingerprint).
		Where("state <> ?", idempotencyRecordCompleted).
		Delete(&domain.IdempotencyRecord{}).Error
}
