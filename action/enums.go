package action

import "slices"

// Kind is the element kind, fixed at creation.
type Kind string

const (
	KindBranch Kind = "branch"
	KindText   Kind = "text"
	KindImage  Kind = "image"
	KindIcon   Kind = "icon"
)

// Kinds lists every element kind.
var Kinds = []Kind{KindBranch, KindText, KindImage, KindIcon}

// IsLeaf reports whether k never carries children.
func (k Kind) IsLeaf() bool {
	return k != KindBranch
}

// Direction is the addChild placement hint.
type Direction string

const (
	DirectionTop    Direction = "top"
	DirectionBottom Direction = "bottom"
	DirectionLeft   Direction = "left"
	DirectionRight  Direction = "right"
)

var Directions = []Direction{DirectionTop, DirectionBottom, DirectionLeft, DirectionRight}

// Axis returns the multi-child layout direction implied by the hint.
func (d Direction) Axis() LayoutDirection {
	switch d {
	case DirectionLeft, DirectionRight:
		return LayoutHorizontal
	default:
		return LayoutVertical
	}
}

type Dimension string

const (
	DimensionWidth  Dimension = "width"
	DimensionHeight Dimension = "height"
)

var Dimensions = []Dimension{DimensionWidth, DimensionHeight}

type SizeType string

const (
	SizeExpand     SizeType = "expand"
	SizeHug        SizeType = "hug"
	SizeControlled SizeType = "controlled"
)

var SizeTypes = []SizeType{SizeExpand, SizeHug, SizeControlled}

type Side string

const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideAll    Side = "all"
)

var Sides = []Side{SideTop, SideBottom, SideLeft, SideRight, SideAll}

type Corner string

const (
	CornerTopLeft     Corner = "topLeft"
	CornerTopRight    Corner = "topRight"
	CornerBottomLeft  Corner = "bottomLeft"
	CornerBottomRight Corner = "bottomRight"
	CornerAll         Corner = "all"
)

var Corners = []Corner{CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight, CornerAll}

// Alignment positions the only child of a branch on a 3x3 grid.
type Alignment string

const (
	AlignTopLeft      Alignment = "topLeft"
	AlignTopCenter    Alignment = "topCenter"
	AlignTopRight     Alignment = "topRight"
	AlignCenterLeft   Alignment = "centerLeft"
	AlignCenter       Alignment = "center"
	AlignCenterRight  Alignment = "centerRight"
	AlignBottomLeft   Alignment = "bottomLeft"
	AlignBottomCenter Alignment = "bottomCenter"
	AlignBottomRight  Alignment = "bottomRight"
)

var Alignments = []Alignment{
	AlignTopLeft, AlignTopCenter, AlignTopRight,
	AlignCenterLeft, AlignCenter, AlignCenterRight,
	AlignBottomLeft, AlignBottomCenter, AlignBottomRight,
}

type LayoutDirection string

const (
	LayoutVertical   LayoutDirection = "vertical"
	LayoutHorizontal LayoutDirection = "horizontal"
)

var LayoutDirections = []LayoutDirection{LayoutVertical, LayoutHorizontal}

// Justify distributes children along the main axis.
type Justify string

const (
	JustifyStart        Justify = "start"
	JustifyEnd          Justify = "end"
	JustifyCenter       Justify = "center"
	JustifySpaceBetween Justify = "spaceBetween"
	JustifySpaceAround  Justify = "spaceAround"
	JustifySpaceEvenly  Justify = "spaceEvenly"
)

var Justifies = []Justify{JustifyStart, JustifyEnd, JustifyCenter, JustifySpaceBetween, JustifySpaceAround, JustifySpaceEvenly}

// AlignItems positions children on the cross axis.
type AlignItems string

const (
	ItemsStart    AlignItems = "start"
	ItemsEnd      AlignItems = "end"
	ItemsCenter   AlignItems = "center"
	ItemsStretch  AlignItems = "stretch"
	ItemsBaseline AlignItems = "baseline"
)

var AlignItemsValues = []AlignItems{ItemsStart, ItemsEnd, ItemsCenter, ItemsStretch, ItemsBaseline}

type FontWeight string

const (
	WeightThin       FontWeight = "thin"
	WeightExtraLight FontWeight = "extralight"
	WeightLight      FontWeight = "light"
	WeightRegular    FontWeight = "regular"
	WeightMedium     FontWeight = "medium"
	WeightSemiBold   FontWeight = "semibold"
	WeightBold       FontWeight = "bold"
	WeightExtraBold  FontWeight = "extrabold"
	WeightBlack      FontWeight = "black"
)

var FontWeights = []FontWeight{
	WeightThin, WeightExtraLight, WeightLight, WeightRegular, WeightMedium,
	WeightSemiBold, WeightBold, WeightExtraBold, WeightBlack,
}

type ImageSource string

const (
	SourceURL   ImageSource = "url"
	SourceAsset ImageSource = "asset"
)

var ImageSources = []ImageSource{SourceURL, SourceAsset}

type ImageFit string

const (
	FitContain   ImageFit = "contain"
	FitCover     ImageFit = "cover"
	FitFill      ImageFit = "fill"
	FitWidth     ImageFit = "fitWidth"
	FitHeight    ImageFit = "fitHeight"
	FitScaleDown ImageFit = "scaleDown"
	FitNone      ImageFit = "none"
)

var ImageFits = []ImageFit{FitContain, FitCover, FitFill, FitWidth, FitHeight, FitScaleDown, FitNone}

// Icon codepoints come from the Lucide font registry.
const (
	IconCodepointMin = 57400
	IconCodepointMax = 58960
)

func oneOf[T ~string](v T, allowed []T) bool {
	return slices.Contains(allowed, v)
}

func enumValues[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
