package prompt

import (
	"strings"
	"testing"
)

func TestBuiltinPrompts(t *testing.T) {
	m := NewManager()

	expand, err := m.Render(ExpandSystem, nil)
	if err != nil {
		t.Fatalf("render expand: %v", err)
	}
	for _, want := range []string{"Clarity and Usability", "Visual Appeal", "Responsiveness"} {
		if !strings.Contains(expand, want) {
			t.Errorf("expand prompt missing %q", want)
		}
	}

	actions, err := m.Render(ActionsSystem, nil)
	if err != nil {
		t.Fatalf("render actions: %v", err)
	}
	if !strings.Contains(actions, "[] refers to the root element") || !strings.Contains(actions, "Always create parent elements before adding child elements") {
		t.Errorf("actions prompt missing tree rules:\n%s", actions)
	}

	if got := m.List(); len(got) != 2 || got[0] != ActionsSystem || got[1] != ExpandSystem {
		t.Errorf("unexpected names %v", got)
	}
}

func TestManagerOverride(t *testing.T) {
	m := NewManager()
	if err := m.Set(ExpandSystem, "Design for {{.Platform}}."); err != nil {
		t.Fatalf("Set: %v", err)
	}
	out, err := m.Render(ExpandSystem, map[string]any{"Platform": "watchOS"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "Design for watchOS." {
		t.Errorf("unexpected render %q", out)
	}
	if _, err := m.Render(ExpandSystem, map[string]any{}); err == nil {
		t.Error("expected missing key error")
	}
}

func TestManagerErrors(t *testing.T) {
	m := NewManager()
	if err := m.Set("", "x"); err == nil {
		t.Error("expected empty name error")
	}
	if err := m.Set("broken", "{{ .Open"); err == nil {
		t.Error("expected parse error")
	}
	if _, err := m.Get("missing"); err == nil {
		t.Error("expected not found error")
	}
}
