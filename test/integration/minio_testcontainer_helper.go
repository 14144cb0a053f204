package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lcolonia21/BizGuide-Final-System/internal/service"
)

const (
	minioImage     = "docker.io/minio/minio:RELEASE.2025-09-07T16-13-09Z"
	minioAPIPort   = "9000/tcp"
	minioAccessKey = "bizguide"
	minioSecretKey = "bizguide-secret"
)

// minioIntegrationEnv is a throwaway MinIO server plus a raw client used
// to inspect what the logo store wrote.
type minioIntegrationEnv struct {
	bucket string
	store  *service.MinIOLogoStore
	client *minio.Client
}

// newMinIOIntegrationEnv starts MinIO in a container. MINIO_TEST_IMAGE
// overrides the image; tests are skipped under -short.
func newMinIOIntegrationEnv(t *testing.T) *minioIntegrationEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("minio container tests skipped in short mode")
	}
	image := minioImage
	if v := os.Getenv("MINIO_TEST_IMAGE"); v != "" {
		image = v
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{minioAPIPort},
			Cmd:          []string{"server", "/data"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     minioAccessKey,
				"MINIO_ROOT_PASSWORD": minioSecretKey,
			},
			WaitingFor: wait.ForHTTP("/minio/health/ready").
				WithPort(minioAPIPort).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("start minio container: %v", err)
	}

	endpoint, err := container.PortEndpoint(ctx, minioAPIPort, "")
	if err != nil {
		t.Fatalf("resolve minio endpoint: %v", err)
	}
	bucket := fmt.Sprintf("logos-it-%d", time.Now().UnixNano())

	store, err := service.NewMinIOLogoStore(endpoint, minioAccessKey, minioSecretKey, bucket, false)
	if err != nil {
		t.Fatalf("create logo store: %v", err)
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewStaticV4(minioAccessKey, minioSecretKey, ""),
	})
	if err != nil {
		t.Fatalf("create minio client: %v", err)
	}
	return &minioIntegrationEnv{bucket: bucket, store: store, client: client}
}

// stat reports the object's metadata and whether it exists. Any error other
// than a missing key or bucket fails the test.
func (e *minioIntegrationEnv) stat(t *testing.T, key string) (minio.ObjectInfo, bool) {
	t.Helper()
	info, err := e.client.StatObject(context.Background(), e.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return info, true
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return minio.ObjectInfo{}, false
	}
	t.Fatalf("stat object %q: %v", key, err)
	return minio.ObjectInfo{}, false
}

func (e *minioIntegrationEnv) exists(t *testing.T, key string) bool {
	t.Helper()
	_, ok := e.stat(t, key)
	return ok
}
