package middleware

import (
	"context"

	"github.com/sweetpotato0/uidraft/message"
)

// Flow names the request helper a middleware is wrapping.
type Flow string

const (
	FlowExpand  Flow = "expand"
	FlowActions Flow = "actions"
)

// Context represents the middleware execution context of one request.
type Context struct {
	// Flow is the request helper being executed
	Flow Flow

	// Original user input
	Input string

	// Messages sent to the provider
	Messages []*message.Message

	// Response is the final accumulated provider message
	Response *message.Message

	// Fragments counts the fragments delivered to the caller
	Fragments int

	// Error from execution
	Error error

	// Metadata for passing data between middlewares
	Metadata map[string]any

	// Internal state
	context context.Context
}

// NewContext creates a new middleware context
func NewContext(ctx context.Context, flow Flow, input string) *Context {
	return &Context{
		Flow:     flow,
		Input:    input,
		Metadata: make(map[string]any),
		context:  ctx,
	}
}

// Context returns the underlying context.Context
func (c *Context) Context() context.Context {
	if c.context == nil {
		return context.Background()
	}
	return c.context
}

// Middleware defines the interface for middleware components
// Middlewares wrap a whole streaming request: code before next runs ahead of
// the provider call, code after it runs once the stream is drained
type Middleware interface {
	// Name returns the name of the middleware for logging and debugging
	Name() string

	// Execute runs the middleware logic
	// It receives the current context and a next handler to continue the chain
	// Returning error will stop the middleware chain
	Execute(ctx *Context, next Handler) error
}

// Handler is the function called to pass control to the next middleware
type Handler func(*Context) error

// MiddlewareChain represents a sequence of middleware to be executed
type MiddlewareChain struct {
	middlewares []Middleware
}

// NewChain creates a new middleware chain
func NewChain(middlewares ...Middleware) *MiddlewareChain {
	return &MiddlewareChain{
		middlewares: middlewares,
	}
}

// Add appends a middleware to the chain
func (c *MiddlewareChain) Add(m Middleware) *MiddlewareChain {
	c.middlewares = append(c.middlewares, m)
	return c
}

// Len returns the number of middlewares in the chain
func (c *MiddlewareChain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.middlewares)
}

// Execute runs all middlewares in the chain
func (c *MiddlewareChain) Execute(ctx *Context, finalHandler Handler) error {
	if c == nil {
		return finalHandler(ctx)
	}
	return c.executeMiddleware(ctx, 0, finalHandler)
}

// executeMiddleware recursively executes middlewares in sequence
func (c *MiddlewareChain) executeMiddleware(ctx *Context, index int, finalHandler Handler) error {
	if index >= len(c.middlewares) {
		// All middlewares executed, call the final handler
		return finalHandler(ctx)
	}

	nextHandler := func(ctx *Context) error {
		return c.executeMiddleware(ctx, index+1, finalHandler)
	}

	return c.middlewares[index].Execute(ctx, nextHandler)
}

// Func adapts a function into a named Middleware.
type Func struct {
	name string
	fn   func(*Context, Handler) error
}

// NewFunc creates a middleware from fn
func NewFunc(name string, fn func(*Context, Handler) error) *Func {
	return &Func{name: name, fn: fn}
}

// Name returns the middleware name
func (m *Func) Name() string {
	return m.name
}

// Execute calls the wrapped function
func (m *Func) Execute(ctx *Context, next Handler) error {
	return m.fn(ctx, next)
}
