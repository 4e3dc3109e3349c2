package action

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	uerrors "github.com/sweetpotato0/uidraft/errors"
)

// Argument is one named string argument of an Action.
type Argument struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Action is the flat wire form of an operation. Nested arguments such as
// border and radius are flattened to dotted names ("border.side").
type Action struct {
	Target    Path       `json:"target"`
	Action    string     `json:"action"`
	Arguments []Argument `json:"arguments"`
}

// Arg returns the value of the named argument.
func (a Action) Arg(name string) (string, bool) {
	for _, arg := range a.Arguments {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return "", false
}

// Encode converts a typed operation into its wire form. Arguments are sorted
// by name so that equal operations encode identically.
func Encode(op Op) (Action, error) {
	args, err := Args(op)
	if err != nil {
		return Action{}, err
	}
	out := Action{
		Target:    append(Path{}, op.Path()...),
		Action:    op.Name(),
		Arguments: make([]Argument, 0, len(args)),
	}
	for name, value := range args {
		out.Arguments = append(out.Arguments, Argument{Name: name, Value: value})
	}
	slices.SortFunc(out.Arguments, func(a, b Argument) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// Args returns the flattened string arguments of op, excluding the target.
func Args(op Op) (map[string]string, error) {
	b, err := json.Marshal(op)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", op.Name(), err)
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("encode %s: %w", op.Name(), err)
	}
	delete(fields, "target")
	out := make(map[string]string, len(fields))
	flatten("", fields, out)
	return out, nil
}

func flatten(prefix string, fields map[string]any, out map[string]string) {
	for k, v := range fields {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		switch v := v.(type) {
		case map[string]any:
			flatten(name, v, out)
		case string:
			out[name] = v
		default:
			out[name] = fmt.Sprint(v)
		}
	}
}

// Decode converts a wire action back into its typed operation and validates it.
func Decode(a Action) (Op, error) {
	op, ok := newOp(a.Action)
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", uerrors.ErrSchemaViolation, a.Action)
	}
	fields := map[string]any{"target": a.Target}
	for _, arg := range a.Arguments {
		if err := setDotted(fields, arg.Name, arg.Value); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", uerrors.ErrSchemaViolation, a.Action, err)
		}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(op); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", uerrors.ErrSchemaViolation, a.Action, err)
	}
	if err := op.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", uerrors.ErrSchemaViolation, a.Action, err)
	}
	return op, nil
}

func setDotted(fields map[string]any, name, value string) error {
	parts := strings.Split(name, ".")
	m := fields
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p]
		if !ok {
			child := map[string]any{}
			m[p] = child
			m = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("argument %q conflicts with %q", name, p)
		}
		m = child
	}
	last := parts[len(parts)-1]
	if _, dup := m[last]; dup {
		return fmt.Errorf("duplicate argument %q", name)
	}
	m[last] = value
	return nil
}
