package loadgen

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lcolonia21/BizGuide-Final-System/internal/tools/common"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "loadgen",
		Short:         "Generate listing and review traffic against a running API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand())
	return root
}

func newRunCommand() *cobra.Command {
	var (
		cfg            Config
		ci             bool
		maxFailureRate float64
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send read traffic for a fixed duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := common.RunOptions{Tool: "loadgen", Command: "run", CI: ci, Timeout: cfg.Duration + 15*time.Second}
			_, err := common.Run(cmd.Context(), opts, func(ctx context.Context) ([]string, error) {
				res, err := Run(ctx, cfg)
				if err != nil {
					return nil, err
				}
				lines := resultLines(res)
				if rate := res.FailureRate(); maxFailureRate >= 0 && rate > maxFailureRate {
					return lines, fmt.Errorf("failure rate %.3f above threshold %.3f", rate, maxFailureRate)
				}
				return lines, nil
			})
			return common.WithExitCode(4, err)
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "base-url", "http://localhost:8080", "API base URL")
	f.StringVar(&cfg.Profile, "profile", "mixed", "traffic profile: browse|mixed|error-heavy")
	f.DurationVar(&cfg.Duration, "duration", 15*time.Second, "traffic duration")
	f.IntVar(&cfg.RPS, "rps", 20, "requests per second")
	f.IntVar(&cfg.Concurrency, "concurrency", 6, "concurrent workers")
	f.Int64Var(&cfg.Seed, "seed", 42, "random seed for endpoint order")
	f.BoolVar(&ci, "ci", false, "non-interactive machine-readable output")
	f.Float64Var(&maxFailureRate, "max-failure-rate", -1, "fail when transport failures exceed this fraction of requests (negative disables)")
	return cmd
}

func resultLines(res Result) []string {
	return []string{
		fmt.Sprintf("requests: %d", res.TotalRequests),
		fmt.Sprintf("2xx/4xx/5xx: %d/%d/%d", res.Status2xx, res.Status4xx, res.Status5xx),
		fmt.Sprintf("transport failures: %d (%.1f%%)", res.Failures, res.FailureRate()*100),
	}
}
