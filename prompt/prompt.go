package prompt

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"text/template"
)

// Names of the built-in system prompts.
const (
	ExpandSystem  = "expand.system"
	ActionsSystem = "actions.system"
)

const expandSystem = `You are a professional UI designer tasked with extending the given prompt to create a high-quality draft for a UI design. Your goal is to provide a creative, visually appealing, and user-friendly design foundation that serves as an excellent starting point for a human designer to refine.

Focus on the following principles:
- **Clarity and Usability**: Ensure the design is intuitive and easy to navigate for users.
- **Visual Appeal**: Use appropriate colors, spacing, and alignment to create an aesthetically pleasing layout.
- **Responsiveness**: Assume the design should work seamlessly on both mobile and desktop platforms unless otherwise specified.`

const actionsSystem = `You are a professional UI designer tasked with creating a UI design based on the given prompt.

Rules for available actions:
1. The design is represented as a tree structure where the root element is the starting point.
2. Use the target path to specify the position of each element in the hierarchy:
   - [] refers to the root element
   - [0] refers to the first child of the root element
   - [1, 2] refers to the third child of the second child of the root element
3. Always create parent elements before adding child elements
4. Element types:
   - Branch elements (empty, box) can have children and decoration
   - Leaf elements (text, image, icon) present content without children
5. Think about the design hierarchy and create a logical structure

Follow these steps:
1. Understand the design requirements from the prompt
2. Start building from the root element and add necessary children
3. Set appropriate properties for each element
4. Ensure the design is visually appealing and user-friendly`

// Template represents a prompt template with variables
type Template struct {
	Name     string
	Content  string
	template *template.Template
}

// NewTemplate creates a new prompt template
func NewTemplate(name, content string) (*Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Template{
		Name:     name,
		Content:  content,
		template: tmpl,
	}, nil
}

// Render renders the template with given variables
func (t *Template) Render(vars map[string]any) (string, error) {
	var buf strings.Builder
	if err := t.template.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", t.Name, err)
	}
	return buf.String(), nil
}

// Manager manages prompt templates
// All operations are thread-safe using RWMutex protection
type Manager struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewManager creates a prompt manager preloaded with the built-in system prompts
func NewManager() *Manager {
	m := &Manager{templates: make(map[string]*Template)}
	for name, content := range map[string]string{
		ExpandSystem:  expandSystem,
		ActionsSystem: actionsSystem,
	} {
		if err := m.Set(name, content); err != nil {
			panic(err)
		}
	}
	return m
}

// Set registers or replaces a template from string content
func (m *Manager) Set(name, content string) error {
	if name == "" {
		return fmt.Errorf("template name cannot be empty")
	}
	tmpl, err := NewTemplate(name, content)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[name] = tmpl
	return nil
}

// Get retrieves a template by name
func (m *Manager) Get(name string) (*Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tmpl, ok := m.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %s not found", name)
	}
	return tmpl, nil
}

// Render renders a template by name with given variables
func (m *Manager) Render(name string, vars map[string]any) (string, error) {
	tmpl, err := m.Get(name)
	if err != nil {
		return "", err
	}
	return tmpl.Render(vars)
}

// List returns all registered template names, sorted
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.templates))
	for name := range m.templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
