package tool

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

// Tool describes an operation the model may invoke. Tools are never executed
// locally; their invocations are relayed to the caller.
type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`

	resolveOnce sync.Once
	resolved    *jsonschema.Resolved
	resolveErr  error
}

// New creates a tool with an object argument schema.
func New(name, description string, params *jsonschema.Schema) *Tool {
	return &Tool{
		Name:        name,
		Description: description,
		Parameters:  params,
	}
}

func (t *Tool) resolve() (*jsonschema.Resolved, error) {
	t.resolveOnce.Do(func() {
		if t.Parameters == nil {
			t.resolveErr = fmt.Errorf("tool %s has no parameter schema", t.Name)
			return
		}
		t.resolved, t.resolveErr = t.Parameters.Resolve(nil)
	})
	return t.resolved, t.resolveErr
}

// ParseArgs decodes a raw JSON argument object, repairing malformed JSON when
// possible, and validates it against the parameter schema. It returns the
// normalized JSON encoding of the arguments.
func (t *Tool) ParseArgs(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "{}"
	}
	var args map[string]any
	if err := unmarshalJSON([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("tool %s: decode arguments: %w", t.Name, err)
	}
	if args == nil {
		return nil, fmt.Errorf("tool %s: arguments must be a JSON object", t.Name)
	}
	if err := t.ValidateArgs(args); err != nil {
		return nil, err
	}
	return json.Marshal(args)
}

// ValidateArgs validates decoded arguments against the tool's schema.
func (t *Tool) ValidateArgs(args map[string]any) error {
	rs, err := t.resolve()
	if err != nil {
		return err
	}
	if err := rs.Validate(args); err != nil {
		return fmt.Errorf("tool %s: %w", t.Name, err)
	}
	return nil
}

// ParametersMap returns the parameter schema as a generic JSON object, the
// form most provider SDKs accept.
func (t *Tool) ParametersMap() (map[string]any, error) {
	if t.Parameters == nil {
		return map[string]any{"type": "object"}, nil
	}
	b, err := json.Marshal(t.Parameters)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ToJSONSchema returns the tool definition in JSON schema format for LLM
func (t *Tool) ToJSONSchema() map[string]any {
	params, err := t.ParametersMap()
	if err != nil {
		params = map[string]any{"type": "object"}
	}
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"parameters":  params,
		},
	}
}

// Registry manages an ordered collection of tools
// All operations are thread-safe using RWMutex protection
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]*Tool
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*Tool),
	}
}

// Register adds a tool to the registry
func (r *Registry) Register(tool *Tool) error {
	if tool == nil || tool.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %s already registered", tool.Name)
	}
	r.tools[tool.Name] = tool
	r.order = append(r.order, tool.Name)
	return nil
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (*Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool %s not found", name)
	}
	return tool, nil
}

// List returns all registered tools in registration order
func (r *Registry) List() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// ToJSONSchemas returns all tools in JSON schema format
func (r *Registry) ToJSONSchemas() []map[string]any {
	tools := r.List()
	schemas := make([]map[string]any, 0, len(tools))
	for _, tool := range tools {
		schemas = append(schemas, tool.ToJSONSchema())
	}
	return schemas
}

// MarshalJSON customizes JSON marshaling for Registry
func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToJSONSchemas())
}

// unmarshalJSON unmarshals JSON data into v, attempting to repair malformed JSON.
func unmarshalJSON(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	if _, ok := err.(*json.SyntaxError); ok {
		fixed, rerr := jsonrepair.JSONRepair(string(data))
		if rerr != nil {
			return err
		}
		return json.Unmarshal([]byte(fixed), v)
	}
	return err
}
