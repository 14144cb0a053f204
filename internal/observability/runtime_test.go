package observability

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/lcolonia21/BizGuide-Final-System/internal/config"
)

func TestInitRuntimeWithSignalsDisabled(t *testing.T) {
	cfg := &config.Config{OTELServiceName: "bizguide-test"}
	rt, err := InitRuntime(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("init runtime: %v", err)
	}
	if rt.LoggerProvider != nil {
		t.Fatal("expected no logger provider with otel logs disabled")
	}
	if rt.MeterProvider == nil || rt.TracerProvider == nil {
		t.Fatal("expected local meter and tracer providers even when export is disabled")
	}
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNilRuntimeShutdown(t *testing.T) {
	var rt *Runtime
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil runtime shutdown to succeed, got %v", err)
	}
}

func TestTraceSampler(t *testing.T) {
	cases := []struct {
		cfg  config.Config
		want string
	}{
		{cfg: config.Config{OTELTracingEnabled: false, OTELTraceSamplingRatio: 1}, want: "AlwaysOffSampler"},
		{cfg: config.Config{OTELTracingEnabled: true, OTELTraceSamplingRatio: 1}, want: "ParentBased{root:AlwaysOnSampler"},
		{cfg: config.Config{OTELTracingEnabled: true, OTELTraceSamplingRatio: 0}, want: "ParentBased{root:AlwaysOffSampler"},
		{cfg: config.Config{OTELTracingEnabled: true, OTELTraceSamplingRatio: 0.25}, want: "ParentBased{root:TraceIDRatioBased{0.25}"},
	}
	for _, tc := range cases {
		if got := traceSampler(&tc.cfg).Description(); !strings.HasPrefix(got, tc.want) {
			t.Fatalf("sampler for %+v: got %q, want prefix %q", tc.cfg, got, tc.want)
		}
	}
}
