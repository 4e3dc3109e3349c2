package designer

import (
	"encoding/json"
	"fmt"

	"github.com/sweetpotato0/uidraft/action"
)

// FragmentKind distinguishes text from action fragments.
type FragmentKind int

const (
	FragmentText FragmentKind = iota + 1
	FragmentAction
)

func (k FragmentKind) String() string {
	switch k {
	case FragmentText:
		return "text"
	case FragmentAction:
		return "action"
	default:
		return "unknown"
	}
}

// Fragment is one unit of streamed model output: either a text delta or a
// single typed action invocation.
type Fragment struct {
	Kind   FragmentKind
	Text   string
	CallID string
	Op     action.Op
}

// TextFragment creates a text fragment.
func TextFragment(text string) Fragment {
	return Fragment{Kind: FragmentText, Text: text}
}

// ActionFragment creates an action fragment.
func ActionFragment(callID string, op action.Op) Fragment {
	return Fragment{Kind: FragmentAction, CallID: callID, Op: op}
}

func (f Fragment) String() string {
	if f.Kind == FragmentAction && f.Op != nil {
		return fmt.Sprintf("%s %s", f.Op.Name(), f.Op.Path())
	}
	return f.Text
}

type fragmentJSON struct {
	Type   string         `json:"type"`
	Text   string         `json:"text,omitempty"`
	ID     string         `json:"id,omitempty"`
	Action *action.Action `json:"action,omitempty"`
}

// MarshalJSON encodes action fragments in the flat action wire format.
func (f Fragment) MarshalJSON() ([]byte, error) {
	out := fragmentJSON{Type: f.Kind.String(), Text: f.Text, ID: f.CallID}
	if f.Op != nil {
		wire, err := action.Encode(f.Op)
		if err != nil {
			return nil, err
		}
		out.Action = &wire
	}
	return json.Marshal(out)
}
