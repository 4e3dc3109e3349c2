// Package designer issues the two streaming design requests: expanding a
// brief into richer prose and translating a brief into UI tree actions.
package designer

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sweetpotato0/uidraft/action"
	uerrors "github.com/sweetpotato0/uidraft/errors"
	"github.com/sweetpotato0/uidraft/message"
	"github.com/sweetpotato0/uidraft/middleware"
	"github.com/sweetpotato0/uidraft/pkg/logging"
	"github.com/sweetpotato0/uidraft/pkg/telemetry"
	"github.com/sweetpotato0/uidraft/prompt"
	"github.com/sweetpotato0/uidraft/tool"
)

// Designer sends design requests to a streaming provider. It holds no
// per-call state and is safe for concurrent use once configured.
type Designer struct {
	llm         StreamLLMClient
	prompts     *prompt.Manager
	middlewares *middleware.MiddlewareChain
	logger      *slog.Logger
	tracer      trace.Tracer
}

// Option is a function that configures a Designer
type Option func(*Designer)

// WithProvider sets the LLM provider
func WithProvider(provider StreamLLMClient) Option {
	return func(d *Designer) {
		d.llm = provider
	}
}

// WithPrompts replaces the system prompt templates
func WithPrompts(m *prompt.Manager) Option {
	return func(d *Designer) {
		if m != nil {
			d.prompts = m
		}
	}
}

// WithMiddleware adds a middleware to the designer
func WithMiddleware(m middleware.Middleware) Option {
	return func(d *Designer) {
		d.middlewares.Add(m)
	}
}

// WithMiddlewares sets the middleware chain
func WithMiddlewares(middlewares ...middleware.Middleware) Option {
	return func(d *Designer) {
		d.middlewares = middleware.NewChain(middlewares...)
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(d *Designer) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithTracer sets the tracer used for request spans
func WithTracer(t trace.Tracer) Option {
	return func(d *Designer) {
		if t != nil {
			d.tracer = t
		}
	}
}

// New creates a Designer
func New(opts ...Option) *Designer {
	d := &Designer{
		prompts:     prompt.NewManager(),
		middlewares: middleware.NewChain(),
		logger:      logging.WithComponent("designer"),
		tracer:      telemetry.Tracer(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ExpandPrompt streams an expanded version of original, calling onFragment
// once per text fragment in arrival order. An error returned by onFragment
// stops the stream and is returned unchanged.
func (d *Designer) ExpandPrompt(ctx context.Context, original string, onFragment func(string) error) error {
	for f, err := range d.ExpandPromptSeq(ctx, original) {
		if err != nil {
			return err
		}
		if err := onFragment(f.Text); err != nil {
			return err
		}
	}
	return nil
}

// GenerateInitialActions streams the initial UI-construction actions for
// brief, calling onFragment once per text or action fragment in arrival
// order. An error returned by onFragment stops the stream and is returned
// unchanged.
func (d *Designer) GenerateInitialActions(ctx context.Context, brief string, onFragment func(Fragment) error) error {
	for f, err := range d.InitialActionsSeq(ctx, brief) {
		if err != nil {
			return err
		}
		if err := onFragment(f); err != nil {
			return err
		}
	}
	return nil
}

// ExpandPromptSeq is the pull form of ExpandPrompt. Only text fragments are
// produced.
func (d *Designer) ExpandPromptSeq(ctx context.Context, original string) iter.Seq2[Fragment, error] {
	return d.stream(ctx, middleware.FlowExpand, prompt.ExpandSystem, nil, original)
}

// InitialActionsSeq is the pull form of GenerateInitialActions.
func (d *Designer) InitialActionsSeq(ctx context.Context, brief string) iter.Seq2[Fragment, error] {
	return d.stream(ctx, middleware.FlowActions, prompt.ActionsSystem, action.Tools(), brief)
}

// stream runs one request with the given system prompt and tool catalog
// through the middleware chain and yields fragments as they arrive.
func (d *Designer) stream(ctx context.Context, flow middleware.Flow, systemPrompt string, tools []*tool.Tool, input string) iter.Seq2[Fragment, error] {
	return func(yield func(Fragment, error) bool) {
		if d.llm == nil {
			yield(Fragment{}, fmt.Errorf("%w: no provider configured", uerrors.ErrInvalidInput))
			return
		}
		system, err := d.prompts.Render(systemPrompt, nil)
		if err != nil {
			yield(Fragment{}, fmt.Errorf("%w: %v", uerrors.ErrInvalidInput, err))
			return
		}

		ctx, span := d.tracer.Start(ctx, "designer."+string(flow), trace.WithAttributes(
			attribute.String("uidraft.flow", string(flow)),
			attribute.Int("uidraft.tools", len(tools)),
		))

		mctx := middleware.NewContext(ctx, flow, input)
		mctx.Messages = []*message.Message{
			message.NewMessage(message.RoleSystem, system),
			message.NewMessage(message.RoleUser, input),
		}

		stopped := false
		emit := func(c *middleware.Context, f Fragment) bool {
			c.Fragments++
			if !yield(f, nil) {
				stopped = true
				return false
			}
			return true
		}

		err = d.middlewares.Execute(mctx, func(c *middleware.Context) error {
			return d.relay(c, tools, emit)
		})
		mctx.Error = err

		span.SetAttributes(
			attribute.Int("uidraft.fragments", mctx.Fragments),
			attribute.Bool("uidraft.stopped", stopped),
		)
		telemetry.End(span, err)

		if err != nil {
			d.logger.Warn("design request failed", "flow", flow, "fragments", mctx.Fragments, "error", err)
			if !stopped {
				yield(Fragment{}, err)
			}
			return
		}
		d.logger.Debug("design request finished", "flow", flow, "fragments", mctx.Fragments, "stopped", stopped)
	}
}

// relay drains the provider stream into emit. It returns nil without a
// response when emit asks to stop.
func (d *Designer) relay(c *middleware.Context, tools []*tool.Tool, emit func(*middleware.Context, Fragment) bool) error {
	ctx := c.Context()
	seq := d.llm.GenerateStream(ctx, &GenerateRequest{Messages: c.Messages, Tools: tools})
	if seq == nil {
		return fmt.Errorf("%w: provider returned empty stream", uerrors.ErrProvider)
	}

	var final *message.Message
	for resp, err := range seq {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return providerError(err)
		}
		if resp == nil || resp.Message == nil {
			continue
		}
		msg := resp.Message
		if msg.Completed {
			final = msg
			continue
		}
		if msg.Content != "" {
			if !emit(c, TextFragment(msg.Content)) {
				return nil
			}
		}
		for _, call := range msg.ToolCalls {
			op, err := parseCall(tools, call)
			if err != nil {
				return err
			}
			d.logger.Debug("action received", "action", op.Name(), "target", op.Path().String(), "call_id", call.ID)
			if !emit(c, ActionFragment(call.ID, op)) {
				return nil
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if final == nil {
		return uerrors.ErrStreamIncomplete
	}
	c.Response = final
	return nil
}

func parseCall(tools []*tool.Tool, call message.ToolCall) (action.Op, error) {
	if len(tools) == 0 {
		return nil, fmt.Errorf("%w: tool call %q on a request without tools", uerrors.ErrSchemaViolation, call.Name)
	}
	return action.ParseCall(call.Name, call.Arguments)
}

func providerError(err error) error {
	if errors.Is(err, uerrors.ErrProvider) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", uerrors.ErrProvider, err)
}
