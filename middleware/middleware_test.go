package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/sweetpotato0/uidraft/message"
)

func TestMiddlewareChain(t *testing.T) {
	t.Run("empty chain executes final handler", func(t *testing.T) {
		chain := NewChain()
		executed := false

		err := chain.Execute(&Context{}, func(ctx *Context) error {
			executed = true
			return nil
		})

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !executed {
			t.Error("final handler was not executed")
		}
	})

	t.Run("nil chain executes final handler", func(t *testing.T) {
		var chain *MiddlewareChain
		executed := false
		if err := chain.Execute(&Context{}, func(*Context) error { executed = true; return nil }); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !executed || chain.Len() != 0 {
			t.Error("nil chain should behave as empty")
		}
	})

	t.Run("middleware chain executes in order", func(t *testing.T) {
		order := []string{}

		m1 := &TestMiddleware{name: "m1", order: &order}
		m2 := &TestMiddleware{name: "m2", order: &order}

		chain := NewChain(m1).Add(m2)

		chain.Execute(&Context{}, func(c *Context) error {
			order = append(order, "final")
			return nil
		})

		expected := []string{"m1", "m2", "final"}
		if len(order) != len(expected) {
			t.Fatalf("expected %d steps, got %d", len(expected), len(order))
		}
		for i, e := range expected {
			if order[i] != e {
				t.Errorf("expected step %d to be %s, got %s", i, e, order[i])
			}
		}
	})

	t.Run("error stops chain execution", func(t *testing.T) {
		order := []string{}
		m1 := &TestMiddleware{name: "m1", err: errors.New("test error"), order: &order}
		m2 := &TestMiddleware{name: "m2", order: &order}

		chain := NewChain(m1, m2)

		finalCalled := false
		err := chain.Execute(&Context{}, func(c *Context) error {
			finalCalled = true
			return nil
		})

		if err == nil {
			t.Error("expected error from middleware")
		}
		if finalCalled {
			t.Error("final handler should not be called after middleware error")
		}
		if len(order) != 1 {
			t.Errorf("m2 should not run, order=%v", order)
		}
	})

	t.Run("post-processing sees the response", func(t *testing.T) {
		var seen string
		chain := NewChain(NewFunc("capture", func(ctx *Context, next Handler) error {
			err := next(ctx)
			seen = ctx.Response.Text()
			return err
		}))

		err := chain.Execute(&Context{}, func(c *Context) error {
			c.Response = message.NewMessage(message.RoleAssistant, "done")
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen != "done" {
			t.Errorf("expected response text, got %q", seen)
		}
	})
}

func TestContext(t *testing.T) {
	t.Run("new context has empty metadata", func(t *testing.T) {
		ctx := NewContext(context.Background(), FlowExpand, "brief")
		if ctx.Metadata == nil {
			t.Error("metadata should not be nil")
		}
		if len(ctx.Metadata) != 0 {
			t.Error("metadata should be empty")
		}
		if ctx.Flow != FlowExpand || ctx.Input != "brief" {
			t.Errorf("unexpected context %+v", ctx)
		}
	})

	t.Run("context preserves underlying context", func(t *testing.T) {
		baseCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ctx := NewContext(baseCtx, FlowActions, "")
		if ctx.Context() != baseCtx {
			t.Error("underlying context not preserved")
		}
	})

	t.Run("zero context falls back to background", func(t *testing.T) {
		if (&Context{}).Context() == nil {
			t.Error("expected non-nil context")
		}
	})
}

// Helper test middleware
type TestMiddleware struct {
	name  string
	order *[]string
	err   error
}

func (m *TestMiddleware) Name() string {
	return m.name
}

func (m *TestMiddleware) Execute(ctx *Context, next Handler) error {
	*m.order = append(*m.order, m.name)
	if m.err != nil {
		return m.err
	}
	return next(ctx)
}
