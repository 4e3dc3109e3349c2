package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sweetpotato0/uidraft/action"
	"github.com/sweetpotato0/uidraft/designer"
	"github.com/sweetpotato0/uidraft/tree"
)

type theme struct {
	Action lipgloss.Style
	Path   lipgloss.Style
	Kind   lipgloss.Style
	Dim    lipgloss.Style
	Warn   lipgloss.Style
}

var styles = theme{
	Action: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f")),
	Path:   lipgloss.NewStyle().Foreground(lipgloss.Color("#58a6ff")),
	Kind:   lipgloss.NewStyle().Bold(true),
	Dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681")),
	Warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ff7b72")),
}

// textWriter prints narration as it streams and each action on its own line.
type textWriter struct {
	w       io.Writer
	midLine bool
}

func (t *textWriter) write(f designer.Fragment) error {
	if f.Kind == designer.FragmentText {
		if f.Text == "" {
			return nil
		}
		t.midLine = !strings.HasSuffix(f.Text, "\n")
		_, err := io.WriteString(t.w, styles.Dim.Render(f.Text))
		return err
	}
	if err := t.close(); err != nil {
		return err
	}
	line, err := formatAction(f.Op)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(t.w, line)
	return err
}

// close ends a pending narration line.
func (t *textWriter) close() error {
	if !t.midLine {
		return nil
	}
	t.midLine = false
	_, err := fmt.Fprintln(t.w)
	return err
}

func formatAction(op action.Op) (string, error) {
	args, err := action.Args(op)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(styles.Action.Render(op.Name()))
	sb.WriteString(" ")
	sb.WriteString(styles.Path.Render(op.Path().String()))
	for _, name := range names {
		fmt.Fprintf(&sb, " %s=%s", styles.Dim.Render(name), args[name])
	}
	return sb.String(), nil
}

// writeTree prints an indented outline of el.
func writeTree(w io.Writer, el *tree.Element) {
	el.Walk(func(path action.Path, e *tree.Element) bool {
		indent := strings.Repeat("  ", len(path))
		fmt.Fprintf(w, "%s%s %s%s\n", indent, styles.Kind.Render(string(e.Kind)), styles.Path.Render(path.String()), describe(e))
		return true
	})
}

func describe(e *tree.Element) string {
	var parts []string
	if e.Layout != nil {
		parts = append(parts, string(e.Layout.Direction))
	}
	if e.Alignment != "" {
		parts = append(parts, "align="+string(e.Alignment))
	}
	if e.Text != "" {
		parts = append(parts, fmt.Sprintf("%q", e.Text))
	}
	if e.Image != nil {
		parts = append(parts, "image="+e.Image.Path)
	}
	if e.Icon != nil {
		parts = append(parts, "icon="+e.Icon.Codepoint)
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + styles.Dim.Render(strings.Join(parts, " "))
}
