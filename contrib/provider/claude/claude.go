package claude

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/sweetpotato0/uidraft/designer"
	"github.com/sweetpotato0/uidraft/message"
	"github.com/sweetpotato0/uidraft/tool"
)

const defaultModel = "claude-sonnet-4-5-20250929"

var _ designer.StreamLLMClient = (*Provider)(nil)

// Config holds Claude provider configuration
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int64
	Temperature float64
	Options     []option.RequestOption
}

// DefaultConfig returns default Claude configuration
func DefaultConfig(apiKey, baseURL string) *Config {
	return &Config{
		APIKey:      apiKey,
		BaseURL:     baseURL,
		Model:       defaultModel,
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// Provider streams messages from the Anthropic API
type Provider struct {
	config *Config
	client anthropic.Client
}

// New creates a new Claude provider using official SDK
func New(config *Config) *Provider {
	if config == nil {
		config = DefaultConfig("", "")
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 4096
	}

	options := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithAuthToken(""),
	}
	if config.BaseURL != "" {
		options = append(options, option.WithBaseURL(config.BaseURL))
	}
	options = append(options, config.Options...)

	return &Provider{
		config: config,
		client: anthropic.NewClient(options...),
	}
}

// Model returns the configured model id
func (p *Provider) Model() string {
	return p.config.Model
}

// GenerateStream implements designer.StreamLLMClient
func (p *Provider) GenerateStream(ctx context.Context, req *designer.GenerateRequest) iter.Seq2[*designer.GenerateResponse, error] {
	return func(yield func(*designer.GenerateResponse, error) bool) {
		if req == nil {
			yield(nil, fmt.Errorf("stream request cannot be nil"))
			return
		}
		params, err := p.buildParams(req)
		if err != nil {
			yield(nil, err)
			return
		}

		stream := p.client.Messages.NewStreaming(ctx, params)
		defer stream.Close()

		if err := (&puller{}).pull(stream, yield); err != nil {
			yield(nil, fmt.Errorf("Claude streaming error: %w", err))
		}
	}
}

func (p *Provider) buildParams(req *designer.GenerateRequest) (anthropic.MessageNewParams, error) {
	var system []string
	msgs := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case message.RoleSystem:
			system = append(system, msg.Text())
		case message.RoleUser:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Text())))
		case message.RoleAssistant:
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Text())))
		default:
			return anthropic.MessageNewParams{}, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.config.Model),
		Messages:  msgs,
		MaxTokens: p.config.MaxTokens,
	}
	if len(system) > 0 {
		params.System = []anthropic.TextBlockParam{{Text: strings.Join(system, "\n")}}
	}
	if p.config.Temperature > 0 {
		params.Temperature = param.NewOpt(p.config.Temperature)
	}

	for _, t := range req.Tools {
		def, err := convTool(t)
		if err != nil {
			return anthropic.MessageNewParams{}, err
		}
		params.Tools = append(params.Tools, def)
	}
	return params, nil
}

func convTool(t *tool.Tool) (anthropic.ToolUnionParam, error) {
	schema, err := t.ParametersMap()
	if err != nil {
		return anthropic.ToolUnionParam{}, fmt.Errorf("convert tool %s: %w", t.Name, err)
	}
	input := anthropic.ToolInputSchemaParam{Properties: schema["properties"]}
	if req, ok := schema["required"].([]any); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				input.Required = append(input.Required, s)
			}
		}
	}
	return anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: input,
		},
	}, nil
}

// eventSource is the part of the SDK stream the puller reads.
type eventSource interface {
	Next() bool
	Current() anthropic.MessageStreamEventUnion
	Err() error
}

// puller assembles tool_use blocks from input_json_delta fragments and yields
// each one when its content block stops.
type puller struct {
	running *message.ToolCall
	args    strings.Builder
	final   *message.Message
	stopped bool
}

func (p *puller) emit(yield func(*designer.GenerateResponse, error) bool, msg *message.Message) bool {
	if p.stopped {
		return false
	}
	if !yield(&designer.GenerateResponse{Message: msg}, nil) {
		p.stopped = true
		return false
	}
	return true
}

func (p *puller) commit(yield func(*designer.GenerateResponse, error) bool) bool {
	if p.running == nil {
		return true
	}
	call := *p.running
	call.Arguments = p.args.String()
	if call.Arguments == "" {
		call.Arguments = "{}"
	}
	p.running = nil
	p.args.Reset()
	p.final.ToolCalls = append(p.final.ToolCalls, call)
	return p.emit(yield, message.NewToolCallMessage(call))
}

func (p *puller) pull(stream eventSource, yield func(*designer.GenerateResponse, error) bool) error {
	p.final = message.NewMessage(message.RoleAssistant, "")

	for stream.Next() {
		event := stream.Current()
		switch event.Type {
		case "content_block_start":
			block := event.AsContentBlockStart().ContentBlock
			if block.Type == "tool_use" {
				if !p.commit(yield) {
					return nil
				}
				p.running = &message.ToolCall{ID: block.ID, Name: block.Name}
			}
		case "content_block_delta":
			delta := event.AsContentBlockDelta().Delta
			switch delta.Type {
			case "text_delta":
				if delta.Text == "" {
					continue
				}
				p.final.AppendText(delta.Text)
				if !p.emit(yield, message.NewMessage(message.RoleAssistant, delta.Text)) {
					return nil
				}
			case "input_json_delta":
				if p.running != nil {
					p.args.WriteString(delta.PartialJSON)
				}
			}
		case "content_block_stop":
			if !p.commit(yield) {
				return nil
			}
		case "message_delta":
			switch reason := string(event.AsMessageDelta().Delta.StopReason); reason {
			case "max_tokens":
				p.final.Metadata["truncated"] = true
			case "refusal":
				return fmt.Errorf("model refused the request")
			}
		case "message_stop":
			if !p.commit(yield) {
				return nil
			}
			p.final.Completed = true
			p.emit(yield, p.final)
			return nil
		}
	}
	if err := stream.Err(); err != nil {
		return err
	}
	if !p.commit(yield) {
		return nil
	}
	p.final.Completed = true
	p.emit(yield, p.final)
	return nil
}
