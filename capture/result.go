package capture

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotVisible means an element did not become visible within its timeout.
	ErrNotVisible = errors.New("element not visible")
	// ErrLoginTimeout means the post-login page was not reached in time.
	ErrLoginTimeout = errors.New("login did not complete")
)

// Step names a capture step within a target.
type Step string

const (
	StepLogin      Step = "login"
	StepDashboard  Step = "dashboard"
	StepHealth     Step = "health"
	StepStatusPane Step = "status_pane"
	StepPanel      Step = "panel"
	StepTarget     Step = "target"
)

// Status is the outcome of a step.
type Status string

const (
	StatusOK       Status = "ok"
	StatusFallback Status = "fallback"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// Result records one step of a run.
type Result struct {
	Target  string
	Step    Step
	Status  Status
	File    string
	Err     error
	Elapsed time.Duration
}

// Recorder receives every result as it is produced.
type Recorder interface {
	Record(ctx context.Context, res Result)
}
