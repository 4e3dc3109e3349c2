package runner

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sweetpotato0/uidraft/designer"
	uerrors "github.com/sweetpotato0/uidraft/errors"
	"github.com/sweetpotato0/uidraft/message"
	"github.com/sweetpotato0/uidraft/tree"
)

// scriptLLM answers expand requests with text and action requests with calls.
type scriptLLM struct {
	text     []string
	calls    []message.ToolCall
	delay    time.Duration
	inflight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
	briefs   []string
}

func (s *scriptLLM) GenerateStream(ctx context.Context, req *designer.GenerateRequest) iter.Seq2[*designer.GenerateResponse, error] {
	return func(yield func(*designer.GenerateResponse, error) bool) {
		n := s.inflight.Add(1)
		defer s.inflight.Add(-1)
		for {
			p := s.peak.Load()
			if n <= p || s.peak.CompareAndSwap(p, n) {
				break
			}
		}
		s.mu.Lock()
		s.briefs = append(s.briefs, req.Messages[len(req.Messages)-1].Content)
		s.mu.Unlock()

		if s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				yield(nil, ctx.Err())
				return
			}
		}

		final := message.NewMessage(message.RoleAssistant, "")
		for _, t := range s.text {
			final.AppendText(t)
			if !yield(&designer.GenerateResponse{Message: message.NewMessage(message.RoleAssistant, t)}, nil) {
				return
			}
		}
		if len(req.Tools) > 0 {
			for _, c := range s.calls {
				final.ToolCalls = append(final.ToolCalls, c)
				if !yield(&designer.GenerateResponse{Message: message.NewToolCallMessage(c)}, nil) {
					return
				}
			}
		}
		final.Completed = true
		yield(&designer.GenerateResponse{Message: final}, nil)
	}
}

// calls builds tool calls from id and "name args" pairs.
func calls(pairs ...string) []message.ToolCall {
	out := make([]message.ToolCall, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		name, args, _ := strings.Cut(pairs[i+1], " ")
		out = append(out, message.ToolCall{ID: pairs[i], Name: name, Arguments: args})
	}
	return out
}

var cardCalls = calls(
	"c1", `addChild {"target":[],"element":"text"}`,
	"c2", `setText {"target":[0],"text":"Welcome"}`,
	"c3", `setText {"target":[],"text":"oops"}`,
	"c4", `setPadding {"target":[],"side":"all","padding":"16"}`,
)

func TestNewRunner(t *testing.T) {
	if New(designer.New(), 5) == nil {
		t.Errorf("New returned nil")
	}
	r := New(designer.New(), 0).(*runner)
	if r.maxConcurrency != 10 {
		t.Errorf("expected default concurrency 10, got %d", r.maxConcurrency)
	}
}

func TestExpand(t *testing.T) {
	llm := &scriptLLM{text: []string{"A calm ", "welcome card."}}
	r := New(designer.New(designer.WithProvider(llm)), 2)

	out, err := r.Expand(context.Background(), "welcome card")
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if out != "A calm welcome card." {
		t.Errorf("unexpected expansion %q", out)
	}
}

func TestBuildCollectsViolations(t *testing.T) {
	llm := &scriptLLM{text: []string{"Laying out."}, calls: cardCalls}
	r := New(designer.New(designer.WithProvider(llm)), 2)

	b, err := r.Build(context.Background(), "welcome card")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(b.Actions) != 4 || b.Applied() != 3 {
		t.Fatalf("expected 4 actions with 3 applied, got %d/%d", len(b.Actions), b.Applied())
	}
	if len(b.Violations) != 1 || !errors.Is(b.Violations[0], uerrors.ErrNotApplicable) {
		t.Fatalf("unexpected violations %v", b.Violations)
	}
	if b.Narration != "Laying out." {
		t.Errorf("unexpected narration %q", b.Narration)
	}
	if b.Tree.Len() != 2 {
		t.Errorf("expected 2 elements, got %d", b.Tree.Len())
	}
	child, err := b.Tree.Get([]int{0})
	if err != nil || child.Text != "Welcome" {
		t.Errorf("unexpected child %+v %v", child, err)
	}
	if len(b.Ops()) != 4 {
		t.Errorf("expected 4 ops, got %d", len(b.Ops()))
	}
}

func TestBuildStrict(t *testing.T) {
	llm := &scriptLLM{calls: cardCalls}
	r := New(designer.New(designer.WithProvider(llm)), 2, WithStrict(true))

	b, err := r.Build(context.Background(), "welcome card")
	var ae *tree.ApplyError
	if !errors.Is(err, uerrors.ErrNotApplicable) || !errors.As(err, &ae) {
		t.Fatalf("expected applicability error, got %v", err)
	}
	if len(b.Actions) != 3 {
		t.Errorf("expected the build to stop at the third action, got %d", len(b.Actions))
	}
}

func TestDraft(t *testing.T) {
	llm := &scriptLLM{text: []string{"expanded brief"}, calls: cardCalls[:2]}
	r := New(designer.New(designer.WithProvider(llm)), 1)

	b, err := Draft(context.Background(), r, "card")
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}
	if b.Brief != "expanded brief" || b.Applied() != 2 {
		t.Errorf("unexpected build %+v", b)
	}
	if len(llm.briefs) != 2 || llm.briefs[1] != "expanded brief" {
		t.Errorf("build must receive the expanded text, got %q", llm.briefs)
	}
}

func TestNewParallelRunner(t *testing.T) {
	if NewParallelRunner(designer.New(), 5) == nil {
		t.Errorf("NewParallelRunner returned nil")
	}
}

func TestRunParallel(t *testing.T) {
	llm := &scriptLLM{text: []string{"ok"}, calls: cardCalls[:1]}
	pr := NewParallelRunner(designer.New(designer.WithProvider(llm)), 10)

	tasks := []*Task{
		{ID: "task1", Brief: "a", Mode: ModeBuild},
		{ID: "task2", Brief: "b", Mode: ModeExpand},
		{ID: "task3", Brief: "c", Mode: ModeDraft},
	}
	results := pr.RunParallel(context.Background(), tasks)

	if len(results) != len(tasks) {
		t.Fatalf("Expected %d results, got %d", len(tasks), len(results))
	}
	for i, result := range results {
		if result.TaskID != tasks[i].ID {
			t.Errorf("Result %d: expected TaskID %s, got %s", i, tasks[i].ID, result.TaskID)
		}
		if result.Error != nil {
			t.Errorf("Result %d: unexpected error %v", i, result.Error)
		}
	}
	if results[0].Build == nil || results[0].Build.Applied() != 1 {
		t.Errorf("unexpected build result %+v", results[0])
	}
	if results[1].Output != "ok" {
		t.Errorf("unexpected expand output %q", results[1].Output)
	}
	if results[2].Build == nil {
		t.Errorf("draft result missing build")
	}
}

func TestRunParallelWithEmptyTasks(t *testing.T) {
	pr := NewParallelRunner(designer.New(), 10)
	if results := pr.RunParallel(context.Background(), nil); len(results) != 0 {
		t.Errorf("Expected 0 results for nil tasks, got %d", len(results))
	}
	if results := pr.RunParallel(context.Background(), []*Task{}); len(results) != 0 {
		t.Errorf("Expected 0 results for empty tasks, got %d", len(results))
	}
}

func TestRunParallelMissingProvider(t *testing.T) {
	pr := NewParallelRunner(designer.New(), 2)
	results := pr.RunParallel(context.Background(), []*Task{{ID: "t", Brief: "x"}})
	if !errors.Is(results[0].Error, uerrors.ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", results[0].Error)
	}
}

func TestRunParallelConcurrencyLimit(t *testing.T) {
	llm := &scriptLLM{text: []string{"x"}, delay: 20 * time.Millisecond}
	pr := NewParallelRunner(designer.New(designer.WithProvider(llm)), 2)

	tasks := make([]*Task, 6)
	for i := range tasks {
		tasks[i] = &Task{ID: string(rune('a' + i)), Brief: "b", Mode: ModeExpand}
	}
	pr.RunParallel(context.Background(), tasks)

	if peak := llm.peak.Load(); peak > 2 {
		t.Errorf("expected at most 2 concurrent requests, saw %d", peak)
	}
}

func TestSharedSemaphore(t *testing.T) {
	llm := &scriptLLM{text: []string{"x"}, calls: cardCalls[:1], delay: 20 * time.Millisecond}
	d := designer.New(designer.WithProvider(llm))
	sem := make(chan struct{}, 2)
	lenient := New(d, 8, WithSemaphore(sem))
	strict := New(d, 8, WithSemaphore(sem), WithStrict(true))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := lenient.Expand(context.Background(), "b"); err != nil {
				t.Errorf("Expand: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := strict.Build(context.Background(), "b"); err != nil {
				t.Errorf("Build: %v", err)
			}
		}()
	}
	wg.Wait()

	if peak := llm.peak.Load(); peak > 2 {
		t.Errorf("expected at most 2 concurrent requests across runners, saw %d", peak)
	}
}

func TestRunParallelWithTimeout(t *testing.T) {
	llm := &scriptLLM{text: []string{"x"}, delay: time.Second}
	r := New(designer.New(designer.WithProvider(llm)), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := r.Expand(ctx, "b"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
