// Package tree replays UI-construction actions against an element tree and
// enforces which operations apply to which elements.
package tree

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/sweetpotato0/uidraft/action"
	uerrors "github.com/sweetpotato0/uidraft/errors"
)

// ApplyError reports an operation that could not be applied.
type ApplyError struct {
	Op     string
	Target action.Path
	Err    error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%s at %s: %v", e.Op, e.Target, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Tree is a UI element tree rooted at a branch. It is not safe for
// concurrent use.
type Tree struct {
	root *Element
}

// New creates a tree holding only the root branch.
func New() *Tree {
	return &Tree{root: &Element{Kind: action.KindBranch}}
}

// Root returns the root element. Callers must not modify it.
func (t *Tree) Root() *Element {
	return t.root
}

// Get returns a copy of the element at path.
func (t *Tree) Get(path action.Path) (*Element, error) {
	el, err := t.lookup(path)
	if err != nil {
		return nil, err
	}
	return el.Clone(), nil
}

// Snapshot returns a deep copy of the whole tree.
func (t *Tree) Snapshot() *Element {
	return t.root.Clone()
}

// Len returns the number of elements, root included.
func (t *Tree) Len() int {
	n := 0
	t.root.Walk(func(action.Path, *Element) bool {
		n++
		return true
	})
	return n
}

func (t *Tree) lookup(path action.Path) (*Element, error) {
	el := t.root
	for depth, idx := range path {
		if idx < 0 || idx >= len(el.Children) {
			return nil, fmt.Errorf("%w: no element at %s", uerrors.ErrUnknownTarget, path[:depth+1])
		}
		el = el.Children[idx]
	}
	return el, nil
}

// Apply validates op and applies it. For addChild the returned path is the
// path of the new child, otherwise it is the target.
func (t *Tree) Apply(op action.Op) (action.Path, error) {
	fail := func(err error) (action.Path, error) {
		return nil, &ApplyError{Op: op.Name(), Target: op.Path(), Err: err}
	}
	if err := op.Validate(); err != nil {
		return fail(fmt.Errorf("%w: %v", uerrors.ErrInvalidArgument, err))
	}
	el, err := t.lookup(op.Path())
	if err != nil {
		return fail(err)
	}

	switch o := op.(type) {
	case *action.AddChild:
		if err := requireBranch(el); err != nil {
			return fail(err)
		}
		el.Children = append(el.Children, &Element{Kind: o.Element})
		if len(el.Children) == 2 {
			el.Alignment = ""
			el.Layout = &Layout{Direction: o.Direction.Axis()}
		}
		return o.Target.Child(len(el.Children) - 1), nil

	case *action.SetSize:
		if o.Target.IsRoot() {
			return fail(fmt.Errorf("%w: root size is fixed", uerrors.ErrNotApplicable))
		}
		size := &Size{Type: o.SizeType, Value: o.Value, Min: o.Min, Max: o.Max, Flex: o.Flex}
		if o.Dimension == action.DimensionWidth {
			el.Width = size
		} else {
			el.Height = size
		}

	case *action.SetDecoration:
		if err := requireBranch(el); err != nil {
			return fail(err)
		}
		if el.Decoration == nil {
			el.Decoration = &Decoration{}
		}
		d := el.Decoration
		if o.BackgroundColor != "" {
			d.BackgroundColor = o.BackgroundColor
		}
		if o.Border != nil {
			if d.Borders == nil {
				d.Borders = make(map[action.Side]Stroke)
			}
			for _, side := range sidesOf(o.Border.Side) {
				d.Borders[side] = Stroke{Width: o.Border.Width, Color: o.Border.Color}
			}
		}
		if o.Radius != nil {
			if d.Radii == nil {
				d.Radii = make(map[action.Corner]string)
			}
			for _, corner := range cornersOf(o.Radius.Corner) {
				d.Radii[corner] = o.Radius.Value
			}
		}

	case *action.SetPadding:
		if err := requireChildren(el, 1, -1); err != nil {
			return fail(err)
		}
		if el.Padding == nil {
			el.Padding = make(map[action.Side]string)
		}
		for _, side := range sidesOf(o.Side) {
			el.Padding[side] = o.Padding
		}

	case *action.SetSingleChildAlignment:
		if err := requireChildren(el, 1, 1); err != nil {
			return fail(err)
		}
		el.Alignment = o.Alignment

	case *action.SetMultiChildProps:
		if err := requireChildren(el, 2, -1); err != nil {
			return fail(err)
		}
		if el.Layout == nil {
			el.Layout = &Layout{}
		}
		el.Layout.Direction = o.Direction
		if o.Gap != "" {
			el.Layout.Gap = o.Gap
		}
		if o.JustifyContent != "" {
			el.Layout.JustifyContent = o.JustifyContent
		}
		if o.AlignItems != "" {
			el.Layout.AlignItems = o.AlignItems
		}

	case *action.SetText:
		if err := requireKind(el, action.KindText); err != nil {
			return fail(err)
		}
		el.Text = o.Text

	case *action.SetTextStyle:
		if err := requireKind(el, action.KindText); err != nil {
			return fail(err)
		}
		el.TextStyle = &TextStyle{FontSize: o.FontSize, FontWeight: o.FontWeight, Color: o.Color}

	case *action.SetImageProps:
		if err := requireKind(el, action.KindImage); err != nil {
			return fail(err)
		}
		el.Image = &Image{Path: o.ImagePath, Source: o.Source, Fit: o.Fit}

	case *action.SetIcon:
		if err := requireKind(el, action.KindIcon); err != nil {
			return fail(err)
		}
		el.Icon = &Icon{Codepoint: o.Icon, Color: o.Color}

	default:
		return fail(fmt.Errorf("%w: unsupported operation %T", uerrors.ErrInvalidArgument, op))
	}
	return op.Path(), nil
}

// Replay applies ops in order and stops at the first failure. It returns the
// number of operations applied.
func (t *Tree) Replay(ops []action.Op) (int, error) {
	for i, op := range ops {
		if _, err := t.Apply(op); err != nil {
			return i, err
		}
	}
	return len(ops), nil
}

// Remove deletes the element at path with its subtree. Dropping a branch to
// one child discards its multi-child layout; dropping it to none discards
// its single-child alignment.
func (t *Tree) Remove(path action.Path) error {
	parentPath, idx, ok := path.Parent()
	if !ok {
		return &ApplyError{Op: "remove", Target: path, Err: fmt.Errorf("%w: root cannot be removed", uerrors.ErrNotApplicable)}
	}
	parent, err := t.lookup(parentPath)
	if err == nil && (idx < 0 || idx >= len(parent.Children)) {
		err = fmt.Errorf("%w: no element at %s", uerrors.ErrUnknownTarget, path)
	}
	if err != nil {
		return &ApplyError{Op: "remove", Target: path, Err: err}
	}
	parent.Children = slices.Delete(parent.Children, idx, idx+1)
	switch len(parent.Children) {
	case 1:
		parent.Layout = nil
	case 0:
		parent.Alignment = ""
		parent.Children = nil
	}
	return nil
}

// YAML renders the tree as YAML.
func (t *Tree) YAML() ([]byte, error) {
	return yaml.Marshal(t.root)
}

// JSON renders the tree as indented JSON.
func (t *Tree) JSON() ([]byte, error) {
	return json.MarshalIndent(t.root, "", "  ")
}

func requireBranch(el *Element) error {
	if el.Kind != action.KindBranch {
		return fmt.Errorf("%w: %s element is not a branch", uerrors.ErrNotApplicable, el.Kind)
	}
	return nil
}

func requireKind(el *Element, kind action.Kind) error {
	if el.Kind != kind {
		return fmt.Errorf("%w: expected %s element, got %s", uerrors.ErrNotApplicable, kind, el.Kind)
	}
	return nil
}

// requireChildren checks that el is a branch with at least lo children and,
// when hi >= 0, at most hi.
func requireChildren(el *Element, lo, hi int) error {
	if err := requireBranch(el); err != nil {
		return err
	}
	n := len(el.Children)
	if n < lo || (hi >= 0 && n > hi) {
		return fmt.Errorf("%w: branch has %d children", uerrors.ErrNotApplicable, n)
	}
	return nil
}
