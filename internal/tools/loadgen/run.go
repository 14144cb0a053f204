package loadgen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
)

type Config struct {
	BaseURL     string
	Profile     string
	Duration    time.Duration
	RPS         int
	Concurrency int
	Seed        int64
}

type Result struct {
	TotalRequests int64
	Failures      int64
	Status2xx     int64
	Status4xx     int64
	Status5xx     int64
}

// FailureRate is the share of attempts that got no HTTP response.
// TotalRequests only counts answered requests.
func (r Result) FailureRate() float64 {
	attempts := r.TotalRequests + r.Failures
	if attempts == 0 {
		return 0
	}
	return float64(r.Failures) / float64(attempts)
}

func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Duration <= 0 {
		cfg.Duration = 10 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 15
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	profile := strings.ToLower(cfg.Profile)
	if profile == "" {
		profile = "mixed"
	}

	endpoints := endpointsForProfile(profile)
	if len(endpoints) == 0 {
		return Result{}, fmt.Errorf("unknown profile: %s", cfg.Profile)
	}
	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)>>1|1))
	rng.Shuffle(len(endpoints), func(i, j int) { endpoints[i], endpoints[j] = endpoints[j], endpoints[i] })

	client := &http.Client{Timeout: 5 * time.Second}
	base := strings.TrimRight(cfg.BaseURL, "/")

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	var total, failures, s2xx, s4xx, s5xx int64
	jobs := make(chan string, cfg.Concurrency*2)
	wg := sync.WaitGroup{}

	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
				if err != nil {
					atomic.AddInt64(&failures, 1)
					continue
				}
				resp, err := client.Do(req)
				if err != nil {
					if ctx.Err() == nil {
						atomic.AddInt64(&failures, 1)
						observability.RecordLoadgenRequest(context.Background(), "error", profile)
					}
					continue
				}
				_ = resp.Body.Close()
				atomic.AddInt64(&total, 1)
				class := statusClass(resp.StatusCode)
				switch class {
				case "2xx":
					atomic.AddInt64(&s2xx, 1)
				case "4xx":
					atomic.AddInt64(&s4xx, 1)
				case "5xx":
					atomic.AddInt64(&s5xx, 1)
				}
				observability.RecordLoadgenRequest(context.Background(), class, profile)
			}
		}()
	}

	ticker := time.NewTicker(time.Second / time.Duration(cfg.RPS))
	defer ticker.Stop()
	i := 0
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			select {
			case jobs <- endpoints[i%len(endpoints)]:
				i++
			case <-ctx.Done():
				break loop
			}
		}
	}
	close(jobs)
	wg.Wait()
	return Result{
		TotalRequests: atomic.LoadInt64(&total),
		Failures:      atomic.LoadInt64(&failures),
		Status2xx:     atomic.LoadInt64(&s2xx),
		Status4xx:     atomic.LoadInt64(&s4xx),
		Status5xx:     atomic.LoadInt64(&s5xx),
	}, nil
}

func statusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "other"
	}
}

// endpointsForProfile returns a fresh slice so callers may reorder it.
func endpointsForProfile(profile string) []string {
	browse := []string{
		"/api/v1/businesses",
		"/api/v1/businesses?page=2&page_size=10",
		"/api/v1/businesses?category=cafe",
		"/api/v1/businesses/1",
		"/api/v1/reviews/business/1",
		"/api/v1/reviews/business/1/rating",
	}
	errorHeavy := []string{
		"/api/v1/businesses/999999",
		"/api/v1/businesses/abc",
		"/api/v1/businesses?page_size=1000",
		"/api/v1/reviews/abc",
		"/api/v1/me",
	}
	switch profile {
	case "browse":
		return browse
	case "mixed":
		return append(append(browse, "/health/ready"), errorHeavy[:2]...)
	case "error-heavy":
		return errorHeavy
	default:
		return nil
	}
}
