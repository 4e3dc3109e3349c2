package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sweetpotato0/uidraft/action"
	"github.com/sweetpotato0/uidraft/designer"
	"github.com/sweetpotato0/uidraft/tree"
)

// Runner executes designer requests under a concurrency bound
type Runner interface {
	// Expand collects the expanded text for brief
	Expand(ctx context.Context, brief string) (string, error)

	// Build streams actions for brief and applies them to a fresh tree
	Build(ctx context.Context, brief string) (*Build, error)
}

// Build is the outcome of one action-generation request.
type Build struct {
	Brief string
	// Narration is any text the model wrote between calls.
	Narration  string
	Actions    []designer.Fragment
	Tree       *tree.Tree
	Violations []*tree.ApplyError
}

// Applied reports how many actions reached the tree.
func (b *Build) Applied() int {
	return len(b.Actions) - len(b.Violations)
}

// Option configures a runner.
type Option func(*runner)

// WithStrict makes the first applicability violation fail the build.
func WithStrict(strict bool) Option {
	return func(r *runner) {
		r.strict = strict
	}
}

// WithSemaphore bounds the runner by a semaphore shared with other runners.
// Its capacity replaces maxConcurrency.
func WithSemaphore(sem chan struct{}) Option {
	return func(r *runner) {
		if cap(sem) > 0 {
			r.semaphore = sem
			r.maxConcurrency = cap(sem)
		}
	}
}

// runner is the default implementation of Runner
type runner struct {
	designer       *designer.Designer
	maxConcurrency int
	semaphore      chan struct{}
	strict         bool
}

// New creates a new runner
func New(d *designer.Designer, maxConcurrency int, opts ...Option) Runner {
	if maxConcurrency <= 0 {
		maxConcurrency = 10 // Default concurrency
	}
	r := &runner{
		designer:       d,
		maxConcurrency: maxConcurrency,
		semaphore:      make(chan struct{}, maxConcurrency),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *runner) acquire(ctx context.Context) (func(), error) {
	select {
	case r.semaphore <- struct{}{}:
		return func() { <-r.semaphore }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Expand collects the expanded text for brief
func (r *runner) Expand(ctx context.Context, brief string) (string, error) {
	release, err := r.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	var sb strings.Builder
	err = r.designer.ExpandPrompt(ctx, brief, func(s string) error {
		sb.WriteString(s)
		return nil
	})
	return sb.String(), err
}

// Build streams actions and applies each one as it arrives
func (r *runner) Build(ctx context.Context, brief string) (*Build, error) {
	release, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	b := &Build{Brief: brief, Tree: tree.New()}
	var narration strings.Builder
	err = r.designer.GenerateInitialActions(ctx, brief, func(f designer.Fragment) error {
		if f.Kind == designer.FragmentText {
			narration.WriteString(f.Text)
			return nil
		}
		b.Actions = append(b.Actions, f)
		if _, err := b.Tree.Apply(f.Op); err != nil {
			var ae *tree.ApplyError
			if !errors.As(err, &ae) {
				return err
			}
			if r.strict {
				return fmt.Errorf("action %d: %w", len(b.Actions)-1, err)
			}
			b.Violations = append(b.Violations, ae)
		}
		return nil
	})
	b.Narration = narration.String()
	return b, err
}

// Draft expands brief and builds from the expanded text.
func Draft(ctx context.Context, r Runner, brief string) (*Build, error) {
	expanded, err := r.Expand(ctx, brief)
	if err != nil {
		return nil, fmt.Errorf("expand: %w", err)
	}
	return r.Build(ctx, expanded)
}

// Ops returns the operations of b's actions in order.
func (b *Build) Ops() []action.Op {
	ops := make([]action.Op, 0, len(b.Actions))
	for _, f := range b.Actions {
		ops = append(ops, f.Op)
	}
	return ops
}

// ParallelRunner executes several briefs in parallel
type ParallelRunner struct {
	runner Runner
}

// NewParallelRunner creates a new parallel runner
func NewParallelRunner(d *designer.Designer, maxConcurrency int, opts ...Option) *ParallelRunner {
	return &ParallelRunner{
		runner: New(d, maxConcurrency, opts...),
	}
}

// Mode selects the request a task runs.
type Mode int

const (
	ModeBuild Mode = iota
	ModeExpand
	ModeDraft
)

// Task represents a task to be executed
type Task struct {
	ID    string
	Brief string
	Mode  Mode
}

// Result represents the result of a task execution
type Result struct {
	TaskID string
	// Output holds the expanded text for ModeExpand.
	Output string
	Build  *Build
	Error  error
}

// RunParallel executes multiple tasks in parallel
func (pr *ParallelRunner) RunParallel(ctx context.Context, tasks []*Task) []*Result {
	results := make([]*Result, len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func(index int, t *Task) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[index] = &Result{
						TaskID: t.ID,
						Error:  fmt.Errorf("panic in task %s: %v", t.ID, r),
					}
				}
			}()

			res := &Result{TaskID: t.ID}
			switch t.Mode {
			case ModeExpand:
				res.Output, res.Error = pr.runner.Expand(ctx, t.Brief)
			case ModeDraft:
				res.Build, res.Error = Draft(ctx, pr.runner, t.Brief)
			default:
				res.Build, res.Error = pr.runner.Build(ctx, t.Brief)
			}
			results[index] = res
		}(i, task)
	}

	wg.Wait()
	return results
}
