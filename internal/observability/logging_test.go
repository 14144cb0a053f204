package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestTraceContextHandlerAddsIDsOnlyForValidSpans(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(spanHandler{slog.NewJSONHandler(&buf, nil)})

	logger.InfoContext(context.Background(), "no span")
	var plain map[string]any
	if err := json.Unmarshal(buf.Bytes(), &plain); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if _, ok := plain["trace_id"]; ok {
		t.Fatalf("expected no trace_id without span, got %v", plain)
	}

	buf.Reset()
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1, 2, 3},
		SpanID:     trace.SpanID{4, 5, 6},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	logger.InfoContext(ctx, "with span")
	var traced map[string]any
	if err := json.Unmarshal(buf.Bytes(), &traced); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if traced["trace_id"] != sc.TraceID().String() || traced["span_id"] != sc.SpanID().String() {
		t.Fatalf("expected trace ids in log, got %v", traced)
	}
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := fanoutHandler{slog.NewJSONHandler(&a, nil), slog.NewJSONHandler(&b, nil)}
	slog.New(h).With("component", "test").Info("hello")
	if a.Len() == 0 || b.Len() == 0 {
		t.Fatalf("expected both handlers to receive the record")
	}
	if !bytes.Contains(a.Bytes(), []byte(`"component":"test"`)) {
		t.Fatalf("expected attrs carried through WithAttrs, got %s", a.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{"debug": slog.LevelDebug, "WARN": slog.LevelWarn, " error ": slog.LevelError, "other": slog.LevelInfo, "": slog.LevelInfo}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFanoutHandlerSkipsSinksBelowLevel(t *testing.T) {
	var info, errOnly bytes.Buffer
	h := fanoutHandler{
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errOnly, &slog.HandlerOptions{Level: slog.LevelError}),
	}
	slog.New(h).Info("listing created")
	if info.Len() == 0 {
		t.Fatal("expected info sink to receive the record")
	}
	if errOnly.Len() != 0 {
		t.Fatalf("expected error sink to skip info record, got %s", errOnly.String())
	}
}
