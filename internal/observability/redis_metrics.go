package observability

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var redisInstrumentationOnce sync.Once

// InstrumentRedisClient installs command and pool metrics on client. Only
// the first client in the process is instrumented.
func InstrumentRedisClient(client redis.UniversalClient, logger *slog.Logger) {
	if client == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	redisInstrumentationOnce.Do(func() {
		hook, err := newRedisMetricsHook(otel.Meter(meterName), client.PoolStats)
		if err != nil {
			logger.Warn("redis metrics disabled", "error", err)
			return
		}
		client.AddHook(hook)
	})
}

// redisMetricsHook labels commands with the key namespace, the text before
// the first ':'. Under the default prefixes that names the owning feature.
type redisMetricsHook struct {
	commands metric.Int64Counter
	latency  metric.Float64Histogram
	lookups  metric.Int64Counter
}

func newRedisMetricsHook(meter metric.Meter, poolStats func() *redis.PoolStats) (*redisMetricsHook, error) {
	var (
		h   redisMetricsHook
		err error
	)
	if h.commands, err = meter.Int64Counter("redis.command.total", metric.WithDescription("Redis commands by command, namespace and status")); err != nil {
		return nil, err
	}
	if h.latency, err = meter.Float64Histogram("redis.command.duration", metric.WithUnit("s"), metric.WithDescription("Redis command latency in seconds")); err != nil {
		return nil, err
	}
	if h.lookups, err = meter.Int64Counter("redis.keyspace.lookups", metric.WithDescription("GET lookups by namespace and result")); err != nil {
		return nil, err
	}
	saturation, err := meter.Float64ObservableGauge("redis.pool.saturation", metric.WithUnit("1"), metric.WithDescription("Used connections over total connections"))
	if err != nil {
		return nil, err
	}
	if _, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		if s := poolStats(); s != nil && s.TotalConns > 0 {
			o.ObserveFloat64(saturation, float64(s.TotalConns-s.IdleConns)/float64(s.TotalConns))
		}
		return nil
	}, saturation); err != nil {
		return nil, err
	}
	return &h, nil
}

func (h *redisMetricsHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *redisMetricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		// cmd.Err() is not populated yet for redis.Nil; classify from next's result.
		err := next(ctx, cmd)
		h.record(ctx, cmd, err, time.Since(start))
		return err
	}
}

func (h *redisMetricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		// Pipelined commands share one round trip; split the latency evenly.
		per := time.Since(start)
		if len(cmds) > 0 {
			per /= time.Duration(len(cmds))
		}
		for _, cmd := range cmds {
			h.record(ctx, cmd, cmd.Err(), per)
		}
		return err
	}
}

func (h *redisMetricsHook) record(ctx context.Context, cmd redis.Cmder, err error, elapsed time.Duration) {
	name := strings.ToLower(cmd.Name())
	ns := redisKeyNamespace(cmd)
	attrs := metric.WithAttributes(
		attribute.String("command", name),
		attribute.String("namespace", ns),
		attribute.String("status", redisCommandStatus(err)),
	)
	h.commands.Add(ctx, 1, attrs)
	h.latency.Record(ctx, elapsed.Seconds(), attrs)

	if name != "get" {
		return
	}
	result := "hit"
	switch {
	case errors.Is(err, redis.Nil):
		result = "miss"
	case err != nil:
		return
	}
	h.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("namespace", ns),
		attribute.String("result", result),
	))
}

func redisKeyNamespace(cmd redis.Cmder) string {
	args := cmd.Args()
	if strings.EqualFold(cmd.Name(), "evalsha") || strings.EqualFold(cmd.Name(), "eval") {
		// EVAL script numkeys key...
		if len(args) < 4 {
			return "none"
		}
		args = args[2:]
	}
	if len(args) < 2 {
		return "none"
	}
	key, ok := args[1].(string)
	if !ok || key == "" {
		return "none"
	}
	ns, _, found := strings.Cut(key, ":")
	if !found {
		return "other"
	}
	return ns
}

func redisCommandStatus(err error) string {
	var netErr net.Error
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, redis.Nil):
		return "miss"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	default:
		return "error"
	}
}
