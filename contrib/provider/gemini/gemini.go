package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"

	"github.com/sweetpotato0/uidraft/designer"
	"github.com/sweetpotato0/uidraft/message"
	"github.com/sweetpotato0/uidraft/tool"
)

const defaultModel = "gemini-2.5-flash"

var _ designer.StreamLLMClient = (*Provider)(nil)

// Config holds Gemini provider configuration
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int32
	Temperature float32
}

// DefaultConfig returns default Gemini configuration
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:      apiKey,
		Model:       defaultModel,
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// Provider streams content from the Gemini API
type Provider struct {
	config *Config
	client *genai.Client
}

// New creates a Gemini provider. The model must not start with "models/".
func New(ctx context.Context, config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig("")
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	cc := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		cc.HTTPOptions.BaseURL = config.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Provider{config: config, client: client}, nil
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
		cfg, contents, err := p.convRequest(req)
		if err != nil {
			yield(nil, err)
			return
		}
		if err := pull(p.client.Models.GenerateContentStream(ctx, p.config.Model, contents, cfg), yield); err != nil {
			yield(nil, fmt.Errorf("Gemini streaming error: %w", err))
		}
	}
}

func (p *Provider) convRequest(req *designer.GenerateRequest) (*genai.GenerateContentConfig, []*genai.Content, error) {
	cfg := &genai.GenerateContentConfig{}
	if p.config.MaxTokens > 0 {
		cfg.MaxOutputTokens = p.config.MaxTokens
	}
	if p.config.Temperature > 0 {
		cfg.Temperature = genai.Ptr(p.config.Temperature)
	}

	var (
		system   []*genai.Part
		contents []*genai.Content
	)
	for _, msg := range req.Messages {
		var role genai.Role
		switch msg.Role {
		case message.RoleSystem:
			system = append(system, genai.NewPartFromText(msg.Text()))
			continue
		case message.RoleUser:
			role = genai.RoleUser
		case message.RoleAssistant:
			role = genai.RoleModel
		default:
			return nil, nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
		if n := len(contents); n > 0 && contents[n-1].Role == string(role) {
			contents[n-1].Parts = append(contents[n-1].Parts, genai.NewPartFromText(msg.Text()))
			continue
		}
		contents = append(contents, genai.NewContentFromText(msg.Text(), role))
	}
	if len(contents) == 0 {
		return nil, nil, errors.New("no contents")
	}
	if len(system) > 0 {
		cfg.SystemInstruction = &genai.Content{Parts: system}
	}

	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
		for _, t := range req.Tools {
			decls = append(decls, convTool(t))
		}
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	return cfg, contents, nil
}

func convTool(t *tool.Tool) *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  convSchema(t.Parameters),
	}
}

func convSchema(schema *jsonschema.Schema) *genai.Schema {
	if schema == nil {
		return nil
	}

	gs := genai.Schema{
		Description: schema.Description,
		Pattern:     schema.Pattern,
		Minimum:     schema.Minimum,
		Items:       convSchema(schema.Items),
		Required:    schema.Required,
	}
	for _, v := range schema.Enum {
		gs.Enum = append(gs.Enum, fmt.Sprintf("%v", v))
	}
	if n := len(schema.Properties); n > 0 {
		gs.Properties = make(map[string]*genai.Schema, n)
		for k, prop := range schema.Properties {
			gs.Properties[k] = convSchema(prop)
		}
	}
	switch schema.Type {
	case "object":
		gs.Type = genai.TypeObject
	case "array":
		gs.Type = genai.TypeArray
	case "string":
		gs.Type = genai.TypeString
	case "number":
		gs.Type = genai.TypeNumber
	case "integer":
		gs.Type = genai.TypeInteger
	case "boolean":
		gs.Type = genai.TypeBoolean
	}
	return &gs
}

// pull relays the first candidate of each chunk. Gemini sends function calls
// whole, so each one is yielded as soon as it appears.
func pull(itr iter.Seq2[*genai.GenerateContentResponse, error], yield func(*designer.GenerateResponse, error) bool) error {
	final := message.NewMessage(message.RoleAssistant, "")
	emit := func(msg *message.Message) bool {
		return yield(&designer.GenerateResponse{Message: msg}, nil)
	}
	done := func() error {
		final.Completed = true
		emit(final)
		return nil
	}

	var (
		selIdx   int32
		selected bool
	)
	for chunk, err := range itr {
		if err != nil {
			return err
		}
		if len(chunk.Candidates) == 0 {
			continue
		}
		var sel *genai.Candidate
		if !selected {
			selected = true
			selIdx = chunk.Candidates[0].Index
			sel = chunk.Candidates[0]
		} else {
			for _, c := range chunk.Candidates {
				if c.Index == selIdx {
					sel = c
					break
				}
			}
			if sel == nil {
				continue
			}
		}

		if sel.Content != nil {
			var sb strings.Builder
			for _, part := range sel.Content.Parts {
				switch {
				case part.Text != "":
					sb.WriteString(part.Text)
				case part.FunctionCall != nil:
					if sb.Len() > 0 {
						final.AppendText(sb.String())
						if !emit(message.NewMessage(message.RoleAssistant, sb.String())) {
							return nil
						}
						sb.Reset()
					}
					call, err := convCall(part.FunctionCall, len(final.ToolCalls))
					if err != nil {
						return err
					}
					final.ToolCalls = append(final.ToolCalls, call)
					if !emit(message.NewToolCallMessage(call)) {
						return nil
					}
				}
			}
			if sb.Len() > 0 {
				final.AppendText(sb.String())
				if !emit(message.NewMessage(message.RoleAssistant, sb.String())) {
					return nil
				}
			}
		}

		switch sel.FinishReason {
		case genai.FinishReasonUnspecified, "":
		case genai.FinishReasonStop:
			return done()
		case genai.FinishReasonMaxTokens:
			final.Metadata["truncated"] = true
			return done()
		case genai.FinishReasonSafety:
			var cats []string
			for _, sr := range sel.SafetyRatings {
				if sr.Blocked {
					cats = append(cats, string(sr.Category))
				}
			}
			return fmt.Errorf("blocked by %s", strings.Join(cats, ", "))
		default:
			return fmt.Errorf("unexpected finish reason: %s", sel.FinishReason)
		}
	}
	return errors.New("unexpected end of stream: no finish reason")
}

func convCall(fc *genai.FunctionCall, n int) (message.ToolCall, error) {
	args := fc.Args
	if args == nil {
		args = map[string]any{}
	}
	b, err := json.Marshal(args)
	if err != nil {
		return message.ToolCall{}, fmt.Errorf("encode %s arguments: %w", fc.Name, err)
	}
	id := fc.ID
	if id == "" {
		id = fmt.Sprintf("%s-%d", fc.Name, n)
	}
	return message.ToolCall{ID: id, Name: fc.Name, Arguments: string(b)}, nil
}
