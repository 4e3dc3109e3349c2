// Package mcp exposes the designer flows as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sweetpotato0/uidraft/action"
	"github.com/sweetpotato0/uidraft/designer"
	"github.com/sweetpotato0/uidraft/pkg/logging"
	"github.com/sweetpotato0/uidraft/runner"
	"github.com/sweetpotato0/uidraft/tree"
)

// Tool names registered on the server.
const (
	ToolExpand   = "expand_prompt"
	ToolGenerate = "generate_ui"
	ToolCatalog  = "list_actions"
)

// Option configures optional server behaviour.
type Option func(*serverConfig)

type serverConfig struct {
	implementation sdkmcp.Implementation
	logger         *slog.Logger
	maxConcurrency int
}

// WithServerInfo sets the metadata advertised to MCP clients.
func WithServerInfo(name, version string) Option {
	return func(cfg *serverConfig) {
		if name != "" {
			cfg.implementation.Name = name
		}
		if version != "" {
			cfg.implementation.Version = version
		}
	}
}

// WithLogger sets the logger for tool calls.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serverConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMaxConcurrency bounds concurrent tool calls that reach the provider.
func WithMaxConcurrency(n int) Option {
	return func(cfg *serverConfig) {
		if n > 0 {
			cfg.maxConcurrency = n
		}
	}
}

func defaultConfig() serverConfig {
	return serverConfig{
		implementation: sdkmcp.Implementation{
			Name:    "uidraft",
			Title:   "uidraft UI drafting tools",
			Version: "0.1.0",
		},
		logger:         logging.WithComponent("mcp"),
		maxConcurrency: 4,
	}
}

type expandArgs struct {
	Brief string `json:"brief" jsonschema:"Short description of the UI to expand"`
}

type generateArgs struct {
	Brief  string `json:"brief" jsonschema:"Description of the UI to build"`
	Expand bool   `json:"expand,omitempty" jsonschema:"Expand the brief before generating actions"`
	Strict bool   `json:"strict,omitempty" jsonschema:"Fail on the first action the tree rejects"`
}

// BuildResult is the JSON body returned by generate_ui.
type BuildResult struct {
	Tree       *tree.Element   `json:"tree"`
	Actions    []action.Action `json:"actions"`
	Violations []string        `json:"violations,omitempty"`
}

// NewServer registers the designer tools on a new MCP server.
func NewServer(d *designer.Designer, opts ...Option) *sdkmcp.Server {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	impl := cfg.implementation
	server := sdkmcp.NewServer(&impl, nil)

	sem := make(chan struct{}, cfg.maxConcurrency)
	lenient := runner.New(d, cfg.maxConcurrency, runner.WithSemaphore(sem))
	strict := runner.New(d, cfg.maxConcurrency, runner.WithSemaphore(sem), runner.WithStrict(true))
	logger := cfg.logger

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        ToolExpand,
		Description: "Expand a short UI brief into a detailed description of layout and content",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, a expandArgs) (*sdkmcp.CallToolResult, any, error) {
		logger.InfoContext(ctx, "tool call", "tool", ToolExpand, "brief_len", len(a.Brief))
		text, err := lenient.Expand(ctx, a.Brief)
		if err != nil {
			return nil, nil, err
		}
		return textResult(text), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        ToolGenerate,
		Description: "Build a UI tree for a brief and return the tree with the actions that produced it",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, a generateArgs) (*sdkmcp.CallToolResult, any, error) {
		logger.InfoContext(ctx, "tool call", "tool", ToolGenerate, "brief_len", len(a.Brief), "expand", a.Expand, "strict", a.Strict)
		r := lenient
		if a.Strict {
			r = strict
		}
		var (
			b   *runner.Build
			err error
		)
		if a.Expand {
			b, err = runner.Draft(ctx, r, a.Brief)
		} else {
			b, err = r.Build(ctx, a.Brief)
		}
		if err != nil {
			return nil, nil, err
		}
		res, err := buildResult(b)
		if err != nil {
			return nil, nil, err
		}
		data, err := json.Marshal(res)
		if err != nil {
			return nil, nil, err
		}
		return textResult(string(data)), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        ToolCatalog,
		Description: "List the UI actions the generator can emit, with their parameter schemas",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ struct{}) (*sdkmcp.CallToolResult, any, error) {
		data, err := json.Marshal(action.Catalog())
		if err != nil {
			return nil, nil, err
		}
		return textResult(string(data)), nil, nil
	})

	return server
}

// Serve runs server over stdin and stdout until ctx ends or the client leaves.
func Serve(ctx context.Context, server *sdkmcp.Server) error {
	if server == nil {
		return errors.New("mcp: server is nil")
	}
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp: serve: %w", err)
	}
	return nil
}

func buildResult(b *runner.Build) (*BuildResult, error) {
	res := &BuildResult{Tree: b.Tree.Snapshot(), Actions: make([]action.Action, 0, len(b.Actions))}
	for _, f := range b.Actions {
		a, err := action.Encode(f.Op)
		if err != nil {
			return nil, err
		}
		res.Actions = append(res.Actions, a)
	}
	for _, v := range b.Violations {
		res.Violations = append(res.Violations, v.Error())
	}
	return res, nil
}

func textResult(text string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: strings.TrimSpace(text)}},
	}
}
