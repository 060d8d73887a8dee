package skills

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/chimera-agent/chimera/pkg/logger"
	"github.com/chimera-agent/chimera/pkg/telemetry"
	skilltypes "github.com/chimera-agent/chimera/pkg/types/skills"
)

// DefaultTimeout bounds executions when neither the caller nor the runner
// configuration supplies one.
const DefaultTimeout = 60 * time.Second

// Execution statuses, in transition order. An execution moves
// pending -> running -> succeeded | failed | timed_out and never back.
const (
	statusPending   = "pending"
	statusRunning   = "running"
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
	statusTimedOut  = "timed_out"
)

var tracer = telemetry.Tracer("chimera.skills")

// Runner resolves skills from a registry, validates their input and invokes
// them under a timeout. Pre-execution problems (unknown skill, invalid
// input) are returned as errors; once a skill is running every outcome,
// panics and timeouts included, is folded into a failed Output instead.
type Runner struct {
	registry *Registry
	timeout  time.Duration
	slots    chan struct{} // nil when concurrency is uncapped
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDefaultTimeout overrides the timeout applied when a call supplies
// none. Non-positive values are ignored.
func WithDefaultTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithMaxConcurrent caps the number of executions running at once. Calls
// beyond the cap wait for a slot, still under their own deadline.
func WithMaxConcurrent(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.slots = make(chan struct{}, n)
		}
	}
}

// NewRunner returns a runner bound to registry.
func NewRunner(registry *Registry, opts ...RunnerOption) *Runner {
	r := &Runner{registry: registry, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the named skill under the runner's default timeout.
func (r *Runner) Run(ctx context.Context, name string, raw map[string]any) (skilltypes.Output, error) {
	return r.RunWithTimeout(ctx, name, raw, 0)
}

// RunWithTimeout executes the named skill against raw input. A non-positive
// timeout selects the runner default.
//
// The returned error is non-nil only for pre-execution failures: a
// *NotFoundError for an unregistered name or a *ValidationError for input
// that breaks the skill's schema, both before any skill code runs. From
// the moment the skill starts executing the call always returns a
// normalized Output, so callers check Success rather than the error.
func (r *Runner) RunWithTimeout(ctx context.Context, name string, raw map[string]any, timeout time.Duration) (skilltypes.Output, error) {
	skill, err := r.registry.Lookup(name)
	if err != nil {
		return skilltypes.Output{}, err
	}

	validated, err := skill.InputSchema().Validate(raw)
	if err != nil {
		return skilltypes.Output{}, err
	}

	if timeout <= 0 {
		timeout = r.timeout
	}

	exec := &execution{
		id:     uuid.NewString(),
		status: statusPending,
	}

	ctx, span := tracer.Start(ctx, fmt.Sprintf("skills.run.%s", name),
		trace.WithAttributes(
			attribute.String("skill.name", name),
			attribute.String("skill.execution_id", exec.id),
			attribute.String("skill.timeout", timeout.String()),
		))
	defer span.End()

	log := logger.G(ctx).WithFields(logrus.Fields{
		"skill":        name,
		"execution_id": exec.id,
	})

	out := r.execute(ctx, log, exec, skill, skilltypes.NewInput(validated), timeout)

	span.SetAttributes(attribute.String("skill.status", exec.status))
	if out.Success {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, out.Error)
		span.RecordError(errors.New(out.Error))
	}

	return out, nil
}

// execution tracks one invocation through its state machine.
type execution struct {
	id      string
	status  string
	started time.Time
}

func (r *Runner) execute(ctx context.Context, log *logrus.Entry, exec *execution, skill skilltypes.Skill, input skilltypes.Input, timeout time.Duration) skilltypes.Output {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if r.slots != nil {
		select {
		case r.slots <- struct{}{}:
			defer func() { <-r.slots }()
		case <-ctx.Done():
			exec.status = statusTimedOut
			log.WithField("timeout", timeout).Warn("skill execution timed out waiting for a slot")
			return skilltypes.Fail("skill execution timed out after %s", timeout)
		}
	}

	exec.status = statusRunning
	exec.started = time.Now()
	log.Debug("skill execution started")

	// Buffered so a result arriving after the deadline is dropped instead
	// of blocking the skill's goroutine forever.
	done := make(chan skilltypes.Output, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- skilltypes.Fail("skill panicked: %v", p)
			}
		}()
		done <- skill.Execute(ctx, input)
	}()

	select {
	case out := <-done:
		out = out.Normalize()
		duration := time.Since(exec.started)
		if out.Success {
			exec.status = statusSucceeded
			log.WithField("duration", duration).Debug("skill execution succeeded")
		} else {
			exec.status = statusFailed
			log.WithFields(logrus.Fields{"duration": duration, "error": out.Error}).Warn("skill execution failed")
		}
		return out
	case <-ctx.Done():
		// Cancellation has been signalled through ctx. A skill that does
		// not observe it keeps its goroutine until it returns on its own;
		// the runner stops waiting either way.
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			exec.status = statusTimedOut
			log.WithField("timeout", timeout).Warn("skill execution timed out")
			return skilltypes.Fail("skill execution timed out after %s", timeout)
		}
		exec.status = statusFailed
		log.Warn("skill execution canceled")
		return skilltypes.Fail("skill execution canceled")
	}
}
