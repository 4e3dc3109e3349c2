package openai

import (
	"context"
	"fmt"
	"iter"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/packages/ssestream"

	"github.com/sweetpotato0/uidraft/designer"
	"github.com/sweetpotato0/uidraft/message"
	"github.com/sweetpotato0/uidraft/tool"
)

const (
	finishReasonStop          = "stop"
	finishReasonToolCalls     = "tool_calls"
	finishReasonFunctionCall  = "function_call"
	finishReasonLength        = "length"
	finishReasonContentFilter = "content_filter"
)

var _ designer.StreamLLMClient = (*Provider)(nil)

// Config holds OpenAI provider configuration
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
	// Options are appended to the client options, mainly for tests
	Options []option.RequestOption
}

// WithBaseURL set BaseURL.
func (cfg *Config) WithBaseURL(url string) *Config {
	cfg.BaseURL = url
	return cfg
}

// WithAPIKey set api key.
func (cfg *Config) WithAPIKey(apiKey string) *Config {
	cfg.APIKey = apiKey
	return cfg
}

// WithModel set model.
func (cfg *Config) WithModel(model string) *Config {
	cfg.Model = model
	return cfg
}

// DefaultConfig returns default OpenAI configuration
func DefaultConfig() *Config {
	return &Config{
		Model:       string(openai.ChatModelGPT4o),
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// Provider streams chat completions from OpenAI or any compatible endpoint
type Provider struct {
	config *Config
	client openai.Client
}

// New creates a new OpenAI provider using official SDK
func New(config *Config) *Provider {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Model == "" {
		config.Model = string(openai.ChatModelGPT4o)
	}

	options := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		options = append(options, option.WithBaseURL(config.BaseURL))
	}
	options = append(options, config.Options...)

	return &Provider{
		config: config,
		client: openai.NewClient(options...),
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

		stream := p.client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		if err := (&puller{}).pull(stream, yield); err != nil {
			yield(nil, fmt.Errorf("OpenAI streaming error: %w", err))
		}
	}
}

func (p *Provider) buildParams(req *designer.GenerateRequest) (openai.ChatCompletionNewParams, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case message.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(msg.Text()))
		case message.RoleUser:
			msgs = append(msgs, openai.UserMessage(msg.Text()))
		case message.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(msg.Text()))
		default:
			return openai.ChatCompletionNewParams{}, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}

	params := openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    openai.ChatModel(p.config.Model),
	}
	if p.config.Temperature > 0 {
		params.Temperature = param.NewOpt(p.config.Temperature)
	}
	if p.config.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(p.config.MaxTokens)
	}

	for _, t := range req.Tools {
		def, err := convTool(t)
		if err != nil {
			return openai.ChatCompletionNewParams{}, err
		}
		params.Tools = append(params.Tools, def)
	}
	return params, nil
}

func convTool(t *tool.Tool) (openai.ChatCompletionToolParam, error) {
	schema, err := t.ParametersMap()
	if err != nil {
		return openai.ChatCompletionToolParam{}, fmt.Errorf("convert tool %s: %w", t.Name, err)
	}
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        t.Name,
			Description: param.NewOpt(t.Description),
			Parameters:  openai.FunctionParameters(schema),
		},
	}, nil
}

// puller turns chat completion chunks into designer responses. Tool calls
// arrive as argument fragments and are yielded once complete: when a new call
// starts or the choice finishes.
type puller struct {
	running *message.ToolCall
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
	p.running = nil
	p.final.ToolCalls = append(p.final.ToolCalls, call)
	return p.emit(yield, message.NewToolCallMessage(call))
}

func (p *puller) finish(yield func(*designer.GenerateResponse, error) bool) {
	if !p.commit(yield) {
		return
	}
	p.final.Completed = true
	p.emit(yield, p.final)
}

// pull drains stream into yield. It returns only stream errors; a stopped
// consumer ends the pull quietly.
func (p *puller) pull(stream *ssestream.Stream[openai.ChatCompletionChunk], yield func(*designer.GenerateResponse, error) bool) error {
	p.final = message.NewMessage(message.RoleAssistant, "")
	var (
		index    int64
		selected bool
	)

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		var sel *openai.ChatCompletionChunkChoice
		if !selected {
			selected = true
			index = chunk.Choices[0].Index
			sel = &chunk.Choices[0]
		} else {
			for i := range chunk.Choices {
				if chunk.Choices[i].Index == index {
					sel = &chunk.Choices[i]
					break
				}
			}
			if sel == nil {
				continue
			}
		}

		if s := sel.Delta.Content; s != "" {
			p.final.AppendText(s)
			if !p.emit(yield, message.NewMessage(message.RoleAssistant, s)) {
				return nil
			}
		}

		for _, t := range sel.Delta.ToolCalls {
			switch {
			case p.running != nil && (t.ID == "" || t.ID == p.running.ID):
				p.running.Name += t.Function.Name
				p.running.Arguments += t.Function.Arguments
			case t.ID != "":
				if !p.commit(yield) {
					return nil
				}
				p.running = &message.ToolCall{ID: t.ID, Name: t.Function.Name, Arguments: t.Function.Arguments}
			}
		}

		switch sel.FinishReason {
		case finishReasonStop, finishReasonToolCalls, finishReasonFunctionCall:
			p.finish(yield)
			return nil
		case finishReasonLength:
			p.final.Metadata["truncated"] = true
			p.finish(yield)
			return nil
		case finishReasonContentFilter:
			return fmt.Errorf("response blocked by content filter")
		}
		if s := sel.Delta.Refusal; s != "" {
			return fmt.Errorf("model refused: %s", s)
		}
	}
	if err := stream.Err(); err != nil {
		return err
	}
	p.finish(yield)
	return nil
}
