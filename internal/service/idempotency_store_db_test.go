package service

import (
	"context"
	"testing"
	"time"

	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
)

func TestDBIdempotencyStoreLifecycle(t *testing.T) {
	db := newServiceDBForTest(t)
	store := NewDBIdempotencyStore(db)
	clock := &steppingClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	store.now = clock.Now
	ctx := context.Background()

	first, err := store.Begin(ctx, "businesses.create", "k1", "fp1", time.Hour)
	if err != nil || first.State != IdempotencyStateNew {
		t.Fatalf("expected new, got %+v err=%v", first, err)
	}
	again, err := store.Begin(ctx, "businesses.create", "k1", "fp1", time.Hour)
	if err != nil || again.State != IdempotencyStateInProgress {
		t.Fatalf("expected in_progress, got %+v err=%v", again, err)
	}
	conflict, err := store.Begin(ctx, "businesses.create", "k1", "fp2", time.Hour)
	if err != nil || conflict.State != IdempotencyStateConflict {
		t.Fatalf("expected conflict, got %+v err=%v", conflict, err)
	}

	resp := CachedHTTPResponse{StatusCode: 201, ContentType: "application/json", Body: []byte(`{"id":1}`)}
	if err := store.Complete(ctx, "businesses.create", "k1", "fp1", resp, time.Hour); err != nil {
		t.Fatalf("complete: %v", err)
	}
	replay, err := store.Begin(ctx, "businesses.create", "k1", "fp1", time.Hour)
	if err != nil || replay.State != IdempotencyStateReplay || replay.Cached == nil {
		t.Fatalf("expected replay, got %+v err=%v", replay, err)
	}
	if replay.Cached.StatusCode != 201 || string(replay.Cached.Body) != `{"id":1}` || replay.Cached.ContentType != "application/json" {
		t.Fatalf("unexpected cached response %+v", replay.Cached)
	}

	other, err := store.Begin(ctx, "reviews.create", "k1", "fp1", time.Hour)
	if err != nil || other.State != IdempotencyStateNew {
		t.Fatalf("expected scopes to be independent, got %+v err=%v", other, err)
	}
}

func TestDBIdempotencyStoreExpiredRecordStartsOver(t *testing.T) {
	db := newServiceDBForTest(t)
	store := NewDBIdempotencyStore(db)
	clock := &steppingClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	store.now = clock.Now
	ctx := context.Background()

	if _, err := store.Begin(ctx, "s", "k", "fp1", time.Minute); err != nil {
		t.Fatalf("begin: %v", err)
	}
	clock.Advance(2 * time.Minute)
	res, err := store.Begin(ctx, "s", "k", "fp2", time.Minute)
	if err != nil || res.State != IdempotencyStateNew {
		t.Fatalf("expected expired record to restart, got %+v err=%v", res, err)
	}
}

func TestDBIdempotencyStoreCleanupExpired(t *testing.T) {
	db := newServiceDBForTest(t)
	store := NewDBIdempotencyStore(db)
	clock := &steppingClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	store.now = clock.Now
	ctx := context.Background()

	_, _ = store.Begin(ctx, "s", "old", "fp", time.Minute)
	_, _ = store.Begin(ctx, "s", "fresh", "fp", time.Hour)

	deleted, err := store.CleanupExpired(ctx, clock.Now().Add(10*time.Minute), 100)
	if err != nil || deleted != 1 {
		t.Fatalf("expected one deleted row, got %d err=%v", deleted, err)
	}
	var remaining int64
	db.Model(&domain.IdempotencyRecord{}).Count(&remaining)
	if remaining != 1 {
		t.Fatalf("expected one remaining record, got %d", remaining)
	}
}

func TestDBIdempotencyStoreReleaseAllowsRetry(t *testing.T) {
	db := newServiceDBForTest(t)
	store := NewDBIdempotencyStore(db)
	ctx := context.Background()

	if _, err := store.Begin(ctx, "s", "k", "fp", time.Hour); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := store.Release(ctx, "s", "k", "fp"); err != nil {
		t.Fatalf("release: %v", err)
	}
	res, err := store.Begin(ctx, "s", "k", "fp", time.Hour)
	if err != nil || res.State != IdempotencyStateNew {
		t.Fatalf("expected released key to start over, got %+v err=%v", res, err)
	}

	if err := store.Complete(ctx, "s", "k", "fp", CachedHTTPResponse{StatusCode: 201}, time.Hour); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := store.Release(ctx, "s", "k", "fp"); err != nil {
		t.Fatalf("release completed: %v", err)
	}
	replay, err := store.Begin(ctx, "s", "k", "fp", time.Hour)
	if err != nil || replay.State != IdempotencyStateReplay {
		t.Fatalf("expected completed record to survive release, got %+v err=%v", replay, err)
	}
}
