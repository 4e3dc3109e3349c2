package action

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Operation names as presented to the model.
const (
	OpAddChild                = "addChild"
	OpSetSize                 = "setSize"
	OpSetDecoration           = "setDecoration"
	OpSetPadding              = "setPadding"
	OpSetSingleChildAlignment = "setSingleChildAlignment"
	OpSetMultiChildProps      = "setMultiChildProps"
	OpSetText                 = "setText"
	OpSetTextStyle            = "setTextStyle"
	OpSetImageProps           = "setImageProps"
	OpSetIcon                 = "setIcon"
)

// Names lists every operation in catalog order.
var Names = []string{
	OpAddChild, OpSetSize, OpSetDecoration, OpSetPadding, OpSetSingleChildAlignment,
	OpSetMultiChildProps, OpSetText, OpSetTextStyle, OpSetImageProps, OpSetIcon,
}

// Op is one typed mutation of a UI tree. The set of implementations is closed.
type Op interface {
	// Name returns the operation name.
	Name() string
	// Path returns the target element path.
	Path() Path
	// Validate checks argument shapes without looking at any tree.
	Validate() error

	isOp()
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{8}$`)

// AddChild appends a new element to a branch.
type AddChild struct {
	Target    Path      `json:"target"`
	Element   Kind      `json:"element"`
	Direction Direction `json:"direction,omitempty"`
}

// SetSize sets one dimension of a non-root element.
type SetSize struct {
	Target    Path      `json:"target"`
	Dimension Dimension `json:"dimension"`
	SizeType  SizeType  `json:"sizeType"`
	Value     string    `json:"value,omitempty"`
	Min       string    `json:"min,omitempty"`
	Max       string    `json:"max,omitempty"`
	Flex      string    `json:"flex,omitempty"`
}

// Border describes one border side.
type Border struct {
	Side  Side   `json:"side"`
	Width string `json:"width"`
	Color string `json:"color"`
}

// Radius describes one rounded corner.
type Radius struct {
	Corner Corner `json:"corner"`
	Value  string `json:"value"`
}

// SetDecoration sets background, border or corner radius of a branch.
type SetDecoration struct {
	Target          Path    `json:"target"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	Border          *Border `json:"border,omitempty"`
	Radius          *Radius `json:"radius,omitempty"`
}

type SetPadding struct {
	Target  Path   `json:"target"`
	Side    Side   `json:"side"`
	Padding string `json:"padding"`
}

type SetSingleChildAlignment struct {
	Target    Path      `json:"target"`
	Alignment Alignment `json:"alignment"`
}

type SetMultiChildProps struct {
	Target         Path            `json:"target"`
	Direction      LayoutDirection `json:"direction"`
	Gap            string          `json:"gap,omitempty"`
	JustifyContent Justify         `json:"justifyContent,omitempty"`
	AlignItems     AlignItems      `json:"alignItems,omitempty"`
}

type SetText struct {
	Target Path   `json:"target"`
	Text   string `json:"text"`
}

type SetTextStyle struct {
	Target     Path       `json:"target"`
	FontSize   string     `json:"fontSize"`
	FontWeight FontWeight `json:"fontWeight"`
	Color      string     `json:"color"`
}

type SetImageProps struct {
	Target    Path        `json:"target"`
	ImagePath string      `json:"path"`
	Source    ImageSource `json:"source"`
	Fit       ImageFit    `json:"fit"`
}

// SetIcon selects an icon glyph by codepoint.
type SetIcon struct {
	Target Path   `json:"target"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`
}

func (*AddChild) Name() string                { return OpAddChild }
func (*SetSize) Name() string                 { return OpSetSize }
func (*SetDecoration) Name() string           { return OpSetDecoration }
func (*SetPadding) Name() string              { return OpSetPadding }
func (*SetSingleChildAlignment) Name() string { return OpSetSingleChildAlignment }
func (*SetMultiChildProps) Name() string      { return OpSetMultiChildProps }
func (*SetText) Name() string                 { return OpSetText }
func (*SetTextStyle) Name() string            { return OpSetTextStyle }
func (*SetImageProps) Name() string           { return OpSetImageProps }
func (*SetIcon) Name() string                 { return OpSetIcon }

func (o *AddChild) Path() Path                { return o.Target }
func (o *SetSize) Path() Path                 { return o.Target }
func (o *SetDecoration) Path() Path           { return o.Target }
func (o *SetPadding) Path() Path              { return o.Target }
func (o *SetSingleChildAlignment) Path() Path { return o.Target }
func (o *SetMultiChildProps) Path() Path      { return o.Target }
func (o *SetText) Path() Path                 { return o.Target }
func (o *SetTextStyle) Path() Path            { return o.Target }
func (o *SetImageProps) Path() Path           { return o.Target }
func (o *SetIcon) Path() Path                 { return o.Target }

func (*AddChild) isOp()                {}
func (*SetSize) isOp()                 {}
func (*SetDecoration) isOp()           {}
func (*SetPadding) isOp()              {}
func (*SetSingleChildAlignment) isOp() {}
func (*SetMultiChildProps) isOp()      {}
func (*SetText) isOp()                 {}
func (*SetTextStyle) isOp()            {}
func (*SetImageProps) isOp()           {}
func (*SetIcon) isOp()                 {}

// newOp returns a zero value for the named operation.
func newOp(name string) (Op, bool) {
	switch name {
	case OpAddChild:
		return &AddChild{}, true
	case OpSetSize:
		return &SetSize{}, true
	case OpSetDecoration:
		return &SetDecoration{}, true
	case OpSetPadding:
		return &SetPadding{}, true
	case OpSetSingleChildAlignment:
		return &SetSingleChildAlignment{}, true
	case OpSetMultiChildProps:
		return &SetMultiChildProps{}, true
	case OpSetText:
		return &SetText{}, true
	case OpSetTextStyle:
		return &SetTextStyle{}, true
	case OpSetImageProps:
		return &SetImageProps{}, true
	case OpSetIcon:
		return &SetIcon{}, true
	}
	return nil, false
}

func (o *AddChild) Validate() error {
	if err := o.Target.Validate(); err != nil {
		return err
	}
	if !oneOf(o.Element, Kinds) {
		return fmt.Errorf("element: unknown kind %q", o.Element)
	}
	if o.Direction != "" && !oneOf(o.Direction, Directions) {
		return fmt.Errorf("direction: unknown value %q", o.Direction)
	}
	return nil
}

func (o *SetSize) Validate() error {
	if err := o.Target.Validate(); err != nil {
		return err
	}
	if !oneOf(o.Dimension, Dimensions) {
		return fmt.Errorf("dimension: unknown value %q", o.Dimension)
	}
	if !oneOf(o.SizeType, SizeTypes) {
		return fmt.Errorf("sizeType: unknown value %q", o.SizeType)
	}
	for _, f := range []struct{ name, v string }{
		{"value", o.Value}, {"min", o.Min}, {"max", o.Max}, {"flex", o.Flex},
	} {
		if f.v == "" {
			continue
		}
		if _, err := parseNumber(f.name, f.v); err != nil {
			return err
		}
	}
	switch o.SizeType {
	case SizeControlled:
		if o.Value == "" {
			return fmt.Errorf("value: required for controlled size")
		}
		if o.Min != "" || o.Max != "" || o.Flex != "" {
			return fmt.Errorf("controlled size accepts only value")
		}
	case SizeHug:
		if o.Value != "" || o.Flex != "" {
			return fmt.Errorf("hug size accepts only min and max")
		}
	case SizeExpand:
		if o.Value != "" {
			return fmt.Errorf("expand size does not accept value")
		}
		if o.Flex != "" {
			if f, _ := parseNumber("flex", o.Flex); f == 0 {
				return fmt.Errorf("flex: must be positive")
			}
		}
	}
	if o.Min != "" && o.Max != "" {
		lo, _ := parseNumber("min", o.Min)
		hi, _ := parseNumber("max", o.Max)
		if lo > hi {
			return fmt.Errorf("min %s exceeds max %s", o.Min, o.Max)
		}
	}
	return nil
}

func (o *SetDecoration) Validate() error {
	if err := o.Target.Validate(); err != nil {
		return err
	}
	if o.BackgroundColor != "" {
		if err := checkColor("backgroundColor", o.BackgroundColor); err != nil {
			return err
		}
	}
	if b := o.Border; b != nil {
		if !oneOf(b.Side, Sides) {
			return fmt.Errorf("border.side: unknown value %q", b.Side)
		}
		if _, err := parseNumber("border.width", b.Width); err != nil {
			return err
		}
		if err := checkColor("border.color", b.Color); err != nil {
			return err
		}
	}
	if r := o.Radius; r != nil {
		if !oneOf(r.Corner, Corners) {
			return fmt.Errorf("radius.corner: unknown value %q", r.Corner)
		}
		if _, err := parseNumber("radius.value", r.Value); err != nil {
			return err
		}
	}
	return nil
}

func (o *SetPadding) Validate() error {
	if err := o.Target.Validate(); err != nil {
		return err
	}
	if !oneOf(o.Side, Sides) {
		return fmt.Errorf("side: unknown value %q", o.Side)
	}
	_, err := parseNumber("padding", o.Padding)
	return err
}

func (o *SetSingleChildAlignment) Validate() error {
	if err := o.Target.Validate(); err != nil {
		return err
	}
	if !oneOf(o.Alignment, Alignments) {
		return fmt.Errorf("alignment: unknown value %q", o.Alignment)
	}
	return nil
}

func (o *SetMultiChildProps) Validate() error {
	if err := o.Target.Validate(); err != nil {
		return err
	}
	if !oneOf(o.Direction, LayoutDirections) {
		return fmt.Errorf("direction: unknown value %q", o.Direction)
	}
	if o.Gap != "" {
		if _, err := parseNumber("gap", o.Gap); err != nil {
			return err
		}
	}
	if o.JustifyContent != "" && !oneOf(o.JustifyContent, Justifies) {
		return fmt.Errorf("justifyContent: unknown value %q", o.JustifyContent)
	}
	if o.AlignItems != "" && !oneOf(o.AlignItems, AlignItemsValues) {
		return fmt.Errorf("alignItems: unknown value %q", o.AlignItems)
	}
	return nil
}

func (o *SetText) Validate() error {
	return o.Target.Validate()
}

func (o *SetTextStyle) Validate() error {
	if err := o.Target.Validate(); err != nil {
		return err
	}
	size, err := parseNumber("fontSize", o.FontSize)
	if err != nil {
		return err
	}
	if size == 0 {
		return fmt.Errorf("fontSize: must be positive")
	}
	if !oneOf(o.FontWeight, FontWeights) {
		return fmt.Errorf("fontWeight: unknown value %q", o.FontWeight)
	}
	return checkColor("color", o.Color)
}

func (o *SetImageProps) Validate() error {
	if err := o.Target.Validate(); err != nil {
		return err
	}
	if o.ImagePath == "" {
		return fmt.Errorf("path: required")
	}
	if !oneOf(o.Source, ImageSources) {
		return fmt.Errorf("source: unknown value %q", o.Source)
	}
	if !oneOf(o.Fit, ImageFits) {
		return fmt.Errorf("fit: unknown value %q", o.Fit)
	}
	return nil
}

func (o *SetIcon) Validate() error {
	if err := o.Target.Validate(); err != nil {
		return err
	}
	cp, err := strconv.Atoi(o.Icon)
	if err != nil {
		return fmt.Errorf("icon: %q is not a codepoint", o.Icon)
	}
	if cp < IconCodepointMin || cp > IconCodepointMax {
		return fmt.Errorf("icon: codepoint %d outside %d-%d", cp, IconCodepointMin, IconCodepointMax)
	}
	return checkColor("color", o.Color)
}

// parseNumber parses a non-negative finite number carried as a string.
func parseNumber(field, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s: %q is not a number", field, v)
	}
	if f < 0 {
		return 0, fmt.Errorf("%s: must not be negative, got %s", field, v)
	}
	return f, nil
}

func checkColor(field, v string) error {
	if !colorPattern.MatchString(v) {
		return fmt.Errorf("%s: %q is not a #RRGGBBAA color", field, v)
	}
	return nil
}
