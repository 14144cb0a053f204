package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func staticCheck(name string, err error) *Check {
	return &Check{Name: name, Probe: func(context.Context) error { return err }}
}

func TestProbeRunnerReadyKeepsOrder(t *testing.T) {
	runner := NewProbeRunner(200*time.Millisecond, 0, staticCheck("db", nil), staticCheck("redis", nil))
	ready, results := runner.Ready(context.Background())
	if !ready {
		t.Fatal("expected ready")
	}
	if len(results) != 2 || results[0].Name != "db" || results[1].Name != "redis" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestProbeRunnerUnready(t *testing.T) {
	runner := NewProbeRunner(200*time.Millisecond, 0, staticCheck("db", nil), staticCheck("redis", errors.New("down")))
	ready, results := runner.Ready(context.Background())
	if ready {
		t.Fatal("expected unready")
	}
	if results[1].Healthy || results[1].Error != "down" {
		t.Fatalf("expected redis failure, got %+v", results[1])
	}
}

func TestProbeRunnerAppliesTimeout(t *testing.T) {
	slow := &Check{Name: "logo_storage", Probe: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	runner := NewProbeRunner(20*time.Millisecond, 0, slow)

	ready, results := runner.Ready(context.Background())
	if ready || results[0].Error != context.DeadlineExceeded.Error() {
		t.Fatalf("expected deadline failure, got ready=%v %+v", ready, results)
	}
}

func TestProbeRunnerStartupGrace(t *testing.T) {
	runner := NewProbeRunner(200*time.Millisecond, 2*time.Second, staticCheck("db", nil))
	ready, results := runner.Ready(context.Background())
	if ready {
		t.Fatal("expected unready during grace period")
	}
	if len(results) != 1 || results[0].Name != "startup_grace" {
		t.Fatalf("unexpected grace results: %+v", results)
	}
}

func TestProbeRunnerSkipsNilChecksAndLeavesGrace(t *testing.T) {
	runner := NewProbeRunner(200*time.Millisecond, time.Minute,
		Database(nil),
		Redis(nil),
		ObjectStore("logo_storage", nil),
		staticCheck("db", nil),
	)
	runner.now = func() time.Time { return runner.startedAt.Add(2 * time.Minute) }

	ready, results := runner.Ready(context.Background())
	if !ready {
		t.Fatalf("expected ready after grace, got %+v", results)
	}
	if len(results) != 1 {
		t.Fatalf("expected nil checks to be skipped, got %+v", results)
	}
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestObjectStoreCheck(t *testing.T) {
	runner := NewProbeRunner(time.Second, 0,
		ObjectStore("logo_storage", pingerFunc(func(context.Context) error { return errors.New("bucket unreachable") })),
	)
	_, results := runner.Ready(context.Background())
	if results[0].Name != "logo_storage" || results[0].Healthy || results[0].Error != "bucket unreachable" {
		t.Fatalf("unexpected result: %+v", results[0])
	}
}

func TestRedisCheckAgainstMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	check := Redis(client)
	if err := check.Probe(context.Background()); err != nil {
		t.Fatalf("expected healthy redis, got %v", err)
	}

	mr.Close()
	if err := check.Probe(context.Background()); err == nil {
		t.Fatal("expected unhealthy redis after shutdown")
	}
}
