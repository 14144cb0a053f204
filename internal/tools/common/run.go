package common

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
	"github.com/lcolonia21/BizGuide-Final-System/internal/tools/ui"
)

// Action is a tool command body returning human readable detail lines.
type Action func(context.Context) ([]string, error)

// RunOptions selects how a tool command is presented. Output defaults to
// stdout and is only used in CI mode.
type RunOptions struct {
	Tool    string
	Command string
	CI      bool
	Timeout time.Duration
	Output  io.Writer
}

// Run executes fn either headless (CI) or behind the terminal UI and records
// the command outcome. In CI mode the result is printed as JSON.
func Run(ctx context.Context, opts RunOptions, fn Action) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	var (
		details []string
		err     error
	)
	if opts.CI {
		runCtx := ctx
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}
		details, err = fn(runCtx)
	} else {
		details, err = ui.Run(ctx, opts.Tool+" "+opts.Command, opts.Timeout, fn)
	}
	elapsed := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	observability.RecordToolCommandRun(ctx, opts.Tool, opts.Command, outcome)
	observability.RecordToolCommandDuration(ctx, opts.Tool, opts.Command, outcome, elapsed)

	if opts.CI {
		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		_ = WriteCIResult(out, NewCIResult(opts.Tool, opts.Command, elapsed, details, err))
	}
	return details, err
}
