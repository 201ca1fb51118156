package capture

import (
	"context"
	"log/slog"
	"time"

	"panelshot/config"
)

// Runner processes targets one at a time, each in its own browser session.
type Runner struct {
	cfg      *config.Config
	launch   Launcher
	logger   *slog.Logger
	recorder Recorder
	results  []Result
}

// NewRunner creates a Runner. recorder may be nil.
func NewRunner(cfg *config.Config, launch Launcher, logger *slog.Logger, recorder Recorder) *Runner {
	return &Runner{
		cfg:      cfg,
		launch:   launch,
		logger:   logger,
		recorder: recorder,
	}
}

// Results returns every result recorded so far, in order.
func (r *Runner) Results() []Result {
	out := make([]Result, len(r.results))
	copy(out, r.results)
	return out
}

func (r *Runner) record(ctx context.Context, res Result) {
	r.results = append(r.results, res)
	if r.recorder != nil {
		r.recorder.Record(ctx, res)
	}
}

// step runs fn and records its outcome.
func (r *Runner) step(ctx context.Context, target string, step Step, file string, logger *slog.Logger, fn func() (Status, error)) {
	start := time.Now()
	status, err := fn()
	res := Result{Target: target, Step: step, Status: status, Err: err, Elapsed: time.Since(start)}
	if status == StatusOK || status == StatusFallback {
		res.File = file
		logger.Info("screenshot saved", "step", step, "file", file, "status", status)
	} else {
		logger.Error("capture step failed", "step", step, "status", status, "error", err)
	}
	r.record(ctx, res)
}

// waitIdle waits for network idle; a timeout is logged and otherwise ignored.
func waitIdle(p Page, timeout time.Duration, logger *slog.Logger) {
	if err := p.WaitNetworkIdle(timeout); err != nil {
		logger.Warn("network did not go idle", "timeout", timeout, "error", err)
	}
}
