package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/lcolonia21/BizGuide-Final-System/internal/config"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type memoryLogoObjects struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemoryLogoObjects() *memoryLogoObjects {
	return &memoryLogoObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryLogoObjects) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = b
	m.types[key] = contentType
	return nil
}

func (m *memoryLogoObjects) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if _, ok := m.objects[key]; !ok {
		return "", errors.New("no such object")
	}
	return "http://objects.local/" + key, nil
}

func (m *memoryLogoObjects) Remove(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func newLogoServiceForTest(t *testing.T) (*LogoService, *repoFixture, *memoryLogoObjects) {
	t.Helper()
	repos := newRepoFixture(t)
	objects := newMemoryLogoObjects()
	cfg := &config.Config{LogoMaxUploadBytes: 1024, LogoURLTTL: 15 * time.Minute}
	return NewLogoService(cfg, repos.businesses, objects, NewOwnershipGuard(), nil), repos, objects
}

func TestLogoServiceUploadReplacesPreviousObject(t *testing.T) {
	svc, repos, objects := newLogoServiceForTest(t)
	ctx := context.Background()
	alice := repos.seedUser(t, "alice@example.com")
	b := repos.seedBusiness(t, alice, "Cafe")

	first, err := svc.Upload(ctx, alice, b.ID, bytes.NewReader(pngHeader), int64(len(pngHeader)))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(first.URL, "http://objects.local/businesses/") || !strings.HasSuffix(first.URL, ".png") {
		t.Fatalf("unexpected url %q", first.URL)
	}
	if _, err := svc.Upload(ctx, alice, b.ID, bytes.NewReader(pngHeader), int64(len(pngHeader))); err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if len(objects.objects) != 1 {
		t.Fatalf("expected previous logo removed, have %d objects", len(objects.objects))
	}
	for key, body := range objects.objects {
		if objects.types[key] != "image/png" || !bytes.Equal(body, pngHeader) {
			t.Fatalf("unexpected stored object %s type=%s", key, objects.types[key])
		}
	}

	got, err := svc.URL(ctx, b.ID)
	if err != nil || got.BusinessID != b.ID {
		t.Fatalf("url: %+v err=%v", got, err)
	}
}

func TestLogoServiceRejections(t *testing.T) {
	svc, repos, _ := newLogoServiceForTest(t)
	ctx := context.Background()
	alice := repos.seedUser(t, "alice@example.com")
	bob := repos.seedUser(t, "bob@example.com")
	b := repos.seedBusiness(t, alice, "Cafe")

	if _, err := svc.Upload(ctx, bob, b.ID, bytes.NewReader(pngHeader), int64(len(pngHeader))); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Upload(ctx, bob, 999, bytes.NewReader(pngHeader), int64(len(pngHeader))); !errors.Is(err, ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}
	if _, err := svc.Upload(ctx, alice, b.ID, strings.NewReader("plain text"), 10); !errors.Is(err, ErrInvalidLogoType) {
		t.Fatalf("expected ErrInvalidLogoType, got %v", err)
	}
	if _, err := svc.Upload(ctx, alice, b.ID, bytes.NewReader(pngHeader), 4096); !errors.Is(err, ErrLogoTooLarge) {
		t.Fatalf("expected ErrLogoTooLarge, got %v", err)
	}
	if _, err := svc.URL(ctx, b.ID); !errors.Is(err, ErrLogoNotFound) {
		t.Fatalf("expected ErrLogoNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, alice, b.ID); !errors.Is(err, ErrLogoNotFound) {
		t.Fatalf("expected ErrLogoNotFound on delete, got %v", err)
	}
}

func TestLogoServiceDeleteClearsKey(t *testing.T) {
	svc, repos, objects := newLogoServiceForTest(t)
	ctx := context.Background()
	alice := repos.seedUser(t, "alice@example.com")
	bob := repos.seedUser(t, "bob@example.com")
	b := repos.seedBusiness(t, alice, "Cafe")
	if _, err := svc.Upload(ctx, alice, b.ID, bytes.NewReader(pngHeader), int64(len(pngHeader))); err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(ctx, bob, b.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, alice, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(objects.objects) != 0 {
		t.Fatal("expected object removed")
	}
	stored, _ := repos.businessStore.FindByID(ctx, b.ID)
	if stored.LogoObjectKey != nil {
		t.Fatalf("expected logo key cleared, got %v", *stored.LogoObjectKey)
	}
}

func TestLogoServiceDisabledStorage(t *testing.T) {
	repos := newRepoFixture(t)
	svc := NewLogoService(&config.Config{}, repos.businesses, nil, nil, nil)
	if _, err := svc.URL(context.Background(), 1); !errors.Is(err, ErrLogoStorageDisabled) {
		t.Fatalf("expected ErrLogoStorageDisabled, got %v", err)
	}
}
