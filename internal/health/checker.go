package health

import (
	"context"
	"sync"
	"time"

	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
)

type CheckResult struct {
	Name      string `json:"name"`
	Healthy   bool   `json:"healthy"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// Check probes a single dependency. A nil Probe error means healthy.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// ProbeRunner evaluates readiness checks concurrently, each bounded by its
// own timeout. It reports unready until the startup grace period elapses.
type ProbeRunner struct {
	checks      []Check
	timeout     time.Duration
	gracePeriod time.Duration
	startedAt   time.Time
	now         func() time.Time
}

// NewProbeRunner drops nil checks so optional dependencies can be passed
// straight from their constructors.
func NewProbeRunner(timeout, gracePeriod time.Duration, checks ...*Check) *ProbeRunner {
	if timeout <= 0 {
		timeout = time.Second
	}
	active := make([]Check, 0, len(checks))
	for _, c := range checks {
		if c != nil && c.Probe != nil {
			active = append(active, *c)
		}
	}
	return &ProbeRunner{
		checks:      active,
		timeout:     timeout,
		gracePeriod: gracePeriod,
		startedAt:   time.Now(),
		now:         time.Now,
	}
}

// Ready runs every check and returns results in registration order.
func (r *ProbeRunner) Ready(ctx context.Context) (bool, []CheckResult) {
	if r == nil {
		return true, nil
	}
	if r.gracePeriod > 0 && r.now().Sub(r.startedAt) < r.gracePeriod {
		return false, []CheckResult{{Name: "startup_grace", Error: "startup grace period active"}}
	}

	results := make([]CheckResult, len(r.checks))
	var wg sync.WaitGroup
	for i, c := range r.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.run(ctx, c)
		}()
	}
	wg.Wait()

	ready := true
	for _, res := range results {
		ready = ready && res.Healthy
	}
	return ready, results
}

func (r *ProbeRunner) run(ctx context.Context, c Check) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	err := c.Probe(checkCtx)
	elapsed := time.Since(start)

	res := CheckResult{Name: c.Name, Healthy: err == nil, LatencyMS: elapsed.Milliseconds()}
	outcome := "healthy"
	if err != nil {
		res.Error = err.Error()
		outcome = "unhealthy"
	}
	observability.RecordHealthCheckDuration(ctx, c.Name, elapsed)
	observability.RecordHealthCheckResult(ctx, c.Name, outcome)
	return res
}
