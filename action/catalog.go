package action

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	uerrors "github.com/sweetpotato0/uidraft/errors"
	"github.com/sweetpotato0/uidraft/tool"
)

const (
	colorRegexp  = `^#[0-9A-Fa-f]{8}$`
	numberRegexp = `^[0-9]+(\.[0-9]+)?$`
	// 57400-58960
	iconRegexp = `^(57[4-9][0-9]{2}|58[0-8][0-9]{2}|589[0-5][0-9]|58960)$`
)

func str(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func number(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc, Pattern: numberRegexp}
}

func color(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc, Pattern: colorRegexp}
}

func enum[T ~string](desc string, values []T) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc, Enum: enumValues(values)}
}

func target() *jsonschema.Schema {
	zero := 0.0
	return &jsonschema.Schema{
		Type:        "array",
		Description: "Path to target element. Empty array [] for root element.",
		Items:       &jsonschema.Schema{Type: "integer", Minimum: &zero},
	}
}

func object(required []string, props map[string]*jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", Properties: props, Required: required}
}

func params(required []string, props map[string]*jsonschema.Schema) *jsonschema.Schema {
	props["target"] = target()
	return object(append([]string{"target"}, required...), props)
}

func buildCatalog() *tool.Registry {
	reg := tool.NewRegistry()
	tools := []*tool.Tool{
		tool.New(OpAddChild, "Add a new child to the target element.", params(
			[]string{"element"},
			map[string]*jsonschema.Schema{
				"element":   enum("Type of element to add", Kinds),
				"direction": enum("Direction to add the element. Up/down creates vertical flex; left/right creates horizontal flex. Has effect only when adding second child to a branch element.", Directions),
			})),
		tool.New(OpSetSize, "Set the size of an element (width or height). Not available for the root element.", params(
			[]string{"dimension", "sizeType"},
			map[string]*jsonschema.Schema{
				"dimension": enum("Which dimension to set.", Dimensions),
				"sizeType":  enum("Type of sizing to use.", SizeTypes),
				"value":     number("Value for controlled size"),
				"min":       number("Minimum size for expand or hug."),
				"max":       number("Maximum size for expand or hug."),
				"flex":      number("Flex value for expand (how much space to take relative to siblings)."),
			})),
		tool.New(OpSetDecoration, "Set visual decoration properties for an element. Available only for branch elements.", params(
			nil,
			map[string]*jsonschema.Schema{
				"backgroundColor": color("Background color in #RRGGBBAA format."),
				"border": object([]string{"side", "width", "color"}, map[string]*jsonschema.Schema{
					"side":  enum("Which border side to set.", Sides),
					"width": number("Border width as string number."),
					"color": color("Border color in #RRGGBBAA format."),
				}),
				"radius": object([]string{"corner", "value"}, map[string]*jsonschema.Schema{
					"corner": enum("Which corner to set the radius for.", Corners),
					"value":  number("Radius value as string number."),
				}),
			})),
		tool.New(OpSetPadding, "Set the padding of the element. Available only for branch elements with children.", params(
			[]string{"side", "padding"},
			map[string]*jsonschema.Schema{
				"side":    enum("Which side to set padding for.", Sides),
				"padding": number("Padding value as string number."),
			})),
		tool.New(OpSetSingleChildAlignment, "Set alignment for single child content. Available only for branch elements with exactly one child.", params(
			[]string{"alignment"},
			map[string]*jsonschema.Schema{
				"alignment": enum("Alignment value.", Alignments),
			})),
		tool.New(OpSetMultiChildProps, "Set properties for elements with multiple children. Available only for branch elements with more than one child.", params(
			[]string{"direction"},
			map[string]*jsonschema.Schema{
				"direction":      enum("Direction for layout.", LayoutDirections),
				"gap":            number("Gap between children as string number."),
				"justifyContent": enum("How to distribute space between children.", Justifies),
				"alignItems":     enum("How to align children in the cross axis.", AlignItemsValues),
			})),
		tool.New(OpSetText, "Set the text content for a text element. Available only for text elements.", params(
			[]string{"text"},
			map[string]*jsonschema.Schema{
				"text": str("Text content."),
			})),
		tool.New(OpSetTextStyle, "Set the style for a text element. Available only for text elements.", params(
			[]string{"fontSize", "fontWeight", "color"},
			map[string]*jsonschema.Schema{
				"fontSize":   number("Font size value as string number."),
				"fontWeight": enum("Font weight value.", FontWeights),
				"color":      color("Text color in #RRGGBBAA format."),
			})),
		tool.New(OpSetImageProps, "Set properties for an image element. Available only for image elements.", params(
			[]string{"path", "source", "fit"},
			map[string]*jsonschema.Schema{
				"path":   str("Image path or URL."),
				"source": enum("Image source type.", ImageSources),
				"fit":    enum("How the image should be fitted in its space.", ImageFits),
			})),
		tool.New(OpSetIcon, "Set properties for an icon element. Available only for icon elements.", params(
			[]string{"icon", "color"},
			map[string]*jsonschema.Schema{
				"icon":  {Type: "string", Description: "Icon codepoint from Lucide family (57400-58960).", Pattern: iconRegexp},
				"color": color("Icon color in #RRGGBBAA format."),
			})),
	}
	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			panic(err)
		}
	}
	return reg
}

var catalog = sync.OnceValue(buildCatalog)

// Catalog returns the action tool catalog in presentation order. The registry
// is shared and must not be modified.
func Catalog() *tool.Registry {
	return catalog()
}

// Tools returns the catalog entries as a slice.
func Tools() []*tool.Tool {
	return catalog().List()
}

// ParseCall turns a tool invocation produced by the model into a typed
// operation. Every failure wraps errors.ErrSchemaViolation.
func ParseCall(name, rawArgs string) (Op, error) {
	t, err := catalog().Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", uerrors.ErrSchemaViolation, err)
	}
	args, err := t.ParseArgs(rawArgs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", uerrors.ErrSchemaViolation, err)
	}
	op, _ := newOp(name)
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(op); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", uerrors.ErrSchemaViolation, name, err)
	}
	if err := op.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", uerrors.ErrSchemaViolation, name, err)
	}
	return op, nil
}
