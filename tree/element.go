package tree

import (
	"maps"
	"slices"

	"github.com/sweetpotato0/uidraft/action"
)

// Size is one dimension descriptor of an element.
type Size struct {
	Type  action.SizeType `json:"type" yaml:"type"`
	Value string          `json:"value,omitempty" yaml:"value,omitempty"`
	Min   string          `json:"min,omitempty" yaml:"min,omitempty"`
	Max   string          `json:"max,omitempty" yaml:"max,omitempty"`
	Flex  string          `json:"flex,omitempty" yaml:"flex,omitempty"`
}

// Stroke is the border of one side.
type Stroke struct {
	Width string `json:"width" yaml:"width"`
	Color string `json:"color" yaml:"color"`
}

// Decoration holds the visual properties of a branch. Borders, radii and
// padding are keyed per side or corner; "all" is expanded on write.
type Decoration struct {
	BackgroundColor string                   `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	Borders         map[action.Side]Stroke   `json:"borders,omitempty" yaml:"borders,omitempty"`
	Radii           map[action.Corner]string `json:"radii,omitempty" yaml:"radii,omitempty"`
}

// Layout is the multi-child arrangement of a branch.
type Layout struct {
	Direction      action.LayoutDirection `json:"direction" yaml:"direction"`
	Gap            string                 `json:"gap,omitempty" yaml:"gap,omitempty"`
	JustifyContent action.Justify         `json:"justifyContent,omitempty" yaml:"justifyContent,omitempty"`
	AlignItems     action.AlignItems      `json:"alignItems,omitempty" yaml:"alignItems,omitempty"`
}

type TextStyle struct {
	FontSize   string            `json:"fontSize" yaml:"fontSize"`
	FontWeight action.FontWeight `json:"fontWeight" yaml:"fontWeight"`
	Color      string            `json:"color" yaml:"color"`
}

type Image struct {
	Path   string             `json:"path" yaml:"path"`
	Source action.ImageSource `json:"source" yaml:"source"`
	Fit    action.ImageFit    `json:"fit" yaml:"fit"`
}

type Icon struct {
	Codepoint string `json:"codepoint" yaml:"codepoint"`
	Color     string `json:"color" yaml:"color"`
}

// Element is one node of the UI tree.
type Element struct {
	Kind   action.Kind `json:"kind" yaml:"kind"`
	Width  *Size       `json:"width,omitempty" yaml:"width,omitempty"`
	Height *Size       `json:"height,omitempty" yaml:"height,omitempty"`

	// branch only
	Decoration *Decoration            `json:"decoration,omitempty" yaml:"decoration,omitempty"`
	Padding    map[action.Side]string `json:"padding,omitempty" yaml:"padding,omitempty"`
	Alignment  action.Alignment       `json:"alignment,omitempty" yaml:"alignment,omitempty"`
	Layout     *Layout                `json:"layout,omitempty" yaml:"layout,omitempty"`
	Children   []*Element             `json:"children,omitempty" yaml:"children,omitempty"`

	// leaf content
	Text      string     `json:"text,omitempty" yaml:"text,omitempty"`
	TextStyle *TextStyle `json:"textStyle,omitempty" yaml:"textStyle,omitempty"`
	Image     *Image     `json:"image,omitempty" yaml:"image,omitempty"`
	Icon      *Icon      `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Clone returns a deep copy of e and its subtree.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	c := *e
	c.Width = clonePtr(e.Width)
	c.Height = clonePtr(e.Height)
	if e.Decoration != nil {
		d := *e.Decoration
		d.Borders = maps.Clone(e.Decoration.Borders)
		d.Radii = maps.Clone(e.Decoration.Radii)
		c.Decoration = &d
	}
	c.Padding = maps.Clone(e.Padding)
	c.Layout = clonePtr(e.Layout)
	c.TextStyle = clonePtr(e.TextStyle)
	c.Image = clonePtr(e.Image)
	c.Icon = clonePtr(e.Icon)
	if e.Children != nil {
		c.Children = make([]*Element, len(e.Children))
		for i, child := range e.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Walk visits e and its descendants depth-first, parents before children.
// It stops when fn returns false.
func (e *Element) Walk(fn func(path action.Path, el *Element) bool) {
	e.walk(action.Path{}, fn)
}

func (e *Element) walk(path action.Path, fn func(action.Path, *Element) bool) bool {
	if !fn(path, e) {
		return false
	}
	for i, child := range e.Children {
		if !child.walk(path.Child(i), fn) {
			return false
		}
	}
	return true
}

func sidesOf(s action.Side) []action.Side {
	if s == action.SideAll {
		return []action.Side{action.SideTop, action.SideBottom, action.SideLeft, action.SideRight}
	}
	return []action.Side{s}
}

func cornersOf(c action.Corner) []action.Corner {
	if c == action.CornerAll {
		return slices.Clone(action.Corners[:4])
	}
	return []action.Corner{c}
}
