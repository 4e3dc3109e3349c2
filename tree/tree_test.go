package tree

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/sweetpotato0/uidraft/action"
	uerrors "github.com/sweetpotato0/uidraft/errors"
)

// opFor returns a valid operation of the given name targeting path.
func opFor(name string, path action.Path) action.Op {
	switch name {
	case action.OpAddChild:
		return &action.AddChild{Target: path, Element: action.KindText}
	case action.OpSetSize:
		return &action.SetSize{Target: path, Dimension: action.DimensionWidth, SizeType: action.SizeHug}
	case action.OpSetDecoration:
		return &action.SetDecoration{Target: path, BackgroundColor: "#FFFFFFFF"}
	case action.OpSetPadding:
		return &action.SetPadding{Target: path, Side: action.SideAll, Padding: "8"}
	case action.OpSetSingleChildAlignment:
		return &action.SetSingleChildAlignment{Target: path, Alignment: action.AlignCenter}
	case action.OpSetMultiChildProps:
		return &action.SetMultiChildProps{Target: path, Direction: action.LayoutVertical}
	case action.OpSetText:
		return &action.SetText{Target: path, Text: "hello"}
	case action.OpSetTextStyle:
		return &action.SetTextStyle{Target: path, FontSize: "14", FontWeight: action.WeightRegular, Color: "#000000FF"}
	case action.OpSetImageProps:
		return &action.SetImageProps{Target: path, ImagePath: "logo.png", Source: action.SourceAsset, Fit: action.FitCover}
	case action.OpSetIcon:
		return &action.SetIcon{Target: path, Icon: "57500", Color: "#000000FF"}
	}
	panic("unknown op " + name)
}

func mustApply(t *testing.T, tr *Tree, op action.Op) action.Path {
	t.Helper()
	p, err := tr.Apply(op)
	if err != nil {
		t.Fatalf("apply %s: %v", op.Name(), err)
	}
	return p
}

// fixture builds a root with children: [0] branch with one child, [1] text,
// [2] image, [3] icon, [4] branch with two children, [5] empty branch.
func fixture(t *testing.T) *Tree {
	tr := New()
	for _, k := range []action.Kind{action.KindBranch, action.KindText, action.KindImage, action.KindIcon, action.KindBranch, action.KindBranch} {
		mustApply(t, tr, &action.AddChild{Target: action.Path{}, Element: k})
	}
	mustApply(t, tr, &action.AddChild{Target: action.Path{0}, Element: action.KindText})
	mustApply(t, tr, &action.AddChild{Target: action.Path{4}, Element: action.KindText})
	mustApply(t, tr, &action.AddChild{Target: action.Path{4}, Element: action.KindIcon})
	return tr
}

func TestApplicabilityMatrix(t *testing.T) {
	targets := map[string]action.Path{
		"root":          {},
		"single branch": {0},
		"text":          {1},
		"image":         {2},
		"icon":          {3},
		"multi branch":  {4},
		"empty branch":  {5},
	}
	allowed := map[string][]string{
		action.OpAddChild:                {"root", "single branch", "multi branch", "empty branch"},
		action.OpSetSize:                 {"single branch", "text", "image", "icon", "multi branch", "empty branch"},
		action.OpSetDecoration:           {"root", "single branch", "multi branch", "empty branch"},
		action.OpSetPadding:              {"root", "single branch", "multi branch"},
		action.OpSetSingleChildAlignment: {"single branch"},
		action.OpSetMultiChildProps:      {"root", "multi branch"},
		action.OpSetText:                 {"text"},
		action.OpSetTextStyle:            {"text"},
		action.OpSetImageProps:           {"image"},
		action.OpSetIcon:                 {"icon"},
	}

	for _, name := range action.Names {
		for label, path := range targets {
			want := false
			for _, a := range allowed[name] {
				want = want || a == label
			}
			t.Run(name+"/"+label, func(t *testing.T) {
				tr := fixture(t)
				_, err := tr.Apply(opFor(name, path))
				if want && err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				if !want {
					var ae *ApplyError
					if !errors.As(err, &ae) || !errors.Is(err, uerrors.ErrNotApplicable) {
						t.Fatalf("expected not-applicable ApplyError, got %v", err)
					}
					if ae.Op != name || !ae.Target.Equal(path) {
						t.Fatalf("unexpected error fields %+v", ae)
					}
				}
			})
		}
	}
}

func TestRootSizeRejected(t *testing.T) {
	tr := New()
	_, err := tr.Apply(&action.SetSize{Target: action.Path{}, Dimension: action.DimensionHeight, SizeType: action.SizeExpand})
	if !errors.Is(err, uerrors.ErrNotApplicable) {
		t.Fatalf("expected not applicable, got %v", err)
	}
	if !strings.Contains(err.Error(), "setSize at []") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestForwardReferenceRejected(t *testing.T) {
	tr := New()
	for _, op := range []action.Op{
		&action.AddChild{Target: action.Path{0}, Element: action.KindText},
		&action.SetText{Target: action.Path{0, 0}, Text: "x"},
	} {
		if _, err := tr.Apply(op); !errors.Is(err, uerrors.ErrUnknownTarget) {
			t.Fatalf("%s: expected unknown target, got %v", op.Name(), err)
		}
	}
	if tr.Len() != 1 {
		t.Fatalf("failed ops must not change the tree, len=%d", tr.Len())
	}
}

func TestInvalidArgumentRejected(t *testing.T) {
	tr := fixture(t)
	_, err := tr.Apply(&action.SetIcon{Target: action.Path{3}, Icon: "100", Color: "#000000FF"})
	if !errors.Is(err, uerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestChildCountExclusivity(t *testing.T) {
	tr := New()
	mustApply(t, tr, &action.AddChild{Target: action.Path{}, Element: action.KindText})
	mustApply(t, tr, &action.SetSingleChildAlignment{Target: action.Path{}, Alignment: action.AlignBottomRight})
	if _, err := tr.Apply(opFor(action.OpSetMultiChildProps, action.Path{})); !errors.Is(err, uerrors.ErrNotApplicable) {
		t.Fatalf("multi-child props on single child: %v", err)
	}

	mustApply(t, tr, &action.AddChild{Target: action.Path{}, Element: action.KindImage, Direction: action.DirectionRight})
	root := tr.Root()
	if root.Alignment != "" {
		t.Fatalf("alignment should be cleared on second child, got %q", root.Alignment)
	}
	if root.Layout == nil || root.Layout.Direction != action.LayoutHorizontal {
		t.Fatalf("expected horizontal layout from direction hint, got %+v", root.Layout)
	}
	if _, err := tr.Apply(opFor(action.OpSetSingleChildAlignment, action.Path{})); !errors.Is(err, uerrors.ErrNotApplicable) {
		t.Fatalf("alignment on multi child: %v", err)
	}
	mustApply(t, tr, &action.SetMultiChildProps{Target: action.Path{}, Direction: action.LayoutVertical, Gap: "4"})

	if err := tr.Remove(action.Path{1}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if root.Layout != nil {
		t.Fatalf("layout should be cleared after removal to one child, got %+v", root.Layout)
	}
	if _, err := tr.Apply(opFor(action.OpSetMultiChildProps, action.Path{})); !errors.Is(err, uerrors.ErrNotApplicable) {
		t.Fatalf("multi-child props after removal: %v", err)
	}
	mustApply(t, tr, opFor(action.OpSetSingleChildAlignment, action.Path{}))
}

func TestDirectionHintOnlyOnSecondChild(t *testing.T) {
	tr := New()
	mustApply(t, tr, &action.AddChild{Target: action.Path{}, Element: action.KindText, Direction: action.DirectionLeft})
	if tr.Root().Layout != nil {
		t.Fatal("first child must not create a layout")
	}
	mustApply(t, tr, &action.AddChild{Target: action.Path{}, Element: action.KindText})
	if tr.Root().Layout.Direction != action.LayoutVertical {
		t.Fatalf("default direction should be vertical, got %s", tr.Root().Layout.Direction)
	}
	mustApply(t, tr, &action.AddChild{Target: action.Path{}, Element: action.KindText, Direction: action.DirectionLeft})
	if tr.Root().Layout.Direction != action.LayoutVertical {
		t.Fatal("third child must not change the layout")
	}
}

func TestRemove(t *testing.T) {
	tr := fixture(t)
	if err := tr.Remove(action.Path{}); !errors.Is(err, uerrors.ErrNotApplicable) {
		t.Fatalf("removing root: %v", err)
	}
	if err := tr.Remove(action.Path{9}); !errors.Is(err, uerrors.ErrUnknownTarget) {
		t.Fatalf("removing missing child: %v", err)
	}
	if err := tr.Remove(action.Path{-1}); !errors.Is(err, uerrors.ErrUnknownTarget) {
		t.Fatalf("removing negative index: %v", err)
	}
	if err := tr.Remove(action.Path{0, -1}); !errors.Is(err, uerrors.ErrUnknownTarget) {
		t.Fatalf("removing negative nested index: %v", err)
	}
	if err := tr.Remove(action.Path{0, 0}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	el, _ := tr.Get(action.Path{0})
	if len(el.Children) != 0 {
		t.Fatalf("expected empty branch, got %d children", len(el.Children))
	}
	if _, err := tr.Apply(opFor(action.OpSetPadding, action.Path{0})); !errors.Is(err, uerrors.ErrNotApplicable) {
		t.Fatalf("padding on empty branch: %v", err)
	}
}

func TestLoginScreen(t *testing.T) {
	ops := []action.Op{
		&action.AddChild{Target: action.Path{}, Element: action.KindBranch},
		&action.SetDecoration{Target: action.Path{0}, BackgroundColor: "#FFFFFFFF", Radius: &action.Radius{Corner: action.CornerAll, Value: "12"}},
		&action.AddChild{Target: action.Path{0}, Element: action.KindText},
		&action.AddChild{Target: action.Path{0}, Element: action.KindBranch, Direction: action.DirectionBottom},
		&action.AddChild{Target: action.Path{0}, Element: action.KindBranch},
		&action.AddChild{Target: action.Path{0}, Element: action.KindBranch},
		&action.SetText{Target: action.Path{0, 0}, Text: "Welcome back"},
		&action.SetTextStyle{Target: action.Path{0, 0}, FontSize: "24", FontWeight: action.WeightBold, Color: "#111111FF"},
		&action.AddChild{Target: action.Path{0, 1}, Element: action.KindText},
		&action.AddChild{Target: action.Path{0, 2}, Element: action.KindText},
		&action.AddChild{Target: action.Path{0, 3}, Element: action.KindText},
		&action.SetText{Target: action.Path{0, 3, 0}, Text: "Sign in"},
		&action.SetDecoration{Target: action.Path{0, 3}, BackgroundColor: "#2563EBFF", Border: &action.Border{Side: action.SideAll, Width: "1", Color: "#1D4ED8FF"}},
		&action.SetSingleChildAlignment{Target: action.Path{0, 3}, Alignment: action.AlignCenter},
		&action.SetPadding{Target: action.Path{0}, Side: action.SideAll, Padding: "24"},
		&action.SetMultiChildProps{Target: action.Path{0}, Direction: action.LayoutVertical, Gap: "16", AlignItems: action.ItemsStretch},
		&action.SetSize{Target: action.Path{0}, Dimension: action.DimensionWidth, SizeType: action.SizeControlled, Value: "360"},
	}
	tr := New()
	n, err := tr.Replay(ops)
	if err != nil {
		t.Fatalf("Replay stopped at %d: %v", n, err)
	}
	if tr.Len() != 9 {
		t.Fatalf("expected 9 elements, got %d", tr.Len())
	}
	card, _ := tr.Get(action.Path{0})
	if card.Layout.Gap != "16" || card.Padding[action.SideLeft] != "24" || card.Decoration.Radii[action.CornerBottomRight] != "12" {
		t.Fatalf("unexpected card %+v", card)
	}
	button, _ := tr.Get(action.Path{0, 3})
	if button.Decoration.Borders[action.SideTop].Color != "#1D4ED8FF" {
		t.Fatalf("border all should expand, got %+v", button.Decoration.Borders)
	}

	n, err = tr.Replay([]action.Op{
		&action.SetText{Target: action.Path{0, 0}, Text: "ok"},
		&action.SetText{Target: action.Path{0, 1}, Text: "not a text"},
		&action.SetText{Target: action.Path{0, 0}, Text: "never"},
	})
	if n != 1 || !errors.Is(err, uerrors.ErrNotApplicable) {
		t.Fatalf("Replay should stop at first violation, n=%d err=%v", n, err)
	}
}

// TestRandomSequencesKeepParentsFirst builds random valid sequences and
// checks that every target was created before it is referenced.
func TestRandomSequencesKeepParentsFirst(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for round := 0; round < 50; round++ {
		tr := New()
		branches := []action.Path{{}}
		created := map[string]bool{"[]": true}
		for step := 0; step < 40; step++ {
			parent := branches[rng.IntN(len(branches))]
			kind := action.Kinds[rng.IntN(len(action.Kinds))]
			dir := action.Directions[rng.IntN(len(action.Directions))]
			child, err := tr.Apply(&action.AddChild{Target: parent, Element: kind, Direction: dir})
			if err != nil {
				t.Fatalf("round %d step %d: %v", round, step, err)
			}
			up, _, _ := child.Parent()
			if !created[up.String()] {
				t.Fatalf("child %s created before parent", child)
			}
			created[child.String()] = true
			if kind == action.KindBranch {
				branches = append(branches, child)
			}
		}
		tr.Root().Walk(func(p action.Path, el *Element) bool {
			if !created[p.String()] {
				t.Fatalf("unexpected element at %s", p)
			}
			n := len(el.Children)
			if n <= 1 && el.Layout != nil {
				t.Fatalf("%s has layout with %d children", p, n)
			}
			if n > 1 && el.Alignment != "" {
				t.Fatalf("%s has alignment with %d children", p, n)
			}
			return true
		})
		if tr.Len() != 41 {
			t.Fatalf("expected 41 elements, got %d", tr.Len())
		}
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	tr := fixture(t)
	snap := tr.Snapshot()
	snap.Children[0].Kind = action.KindIcon
	snap.Children = nil
	if tr.Root().Children[0].Kind != action.KindBranch {
		t.Fatal("snapshot must not alias the tree")
	}
}

func TestRender(t *testing.T) {
	tr := New()
	mustApply(t, tr, &action.AddChild{Target: action.Path{}, Element: action.KindText})
	mustApply(t, tr, &action.SetText{Target: action.Path{0}, Text: "Hi"})

	b, err := tr.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var fromJSON Element
	if err := json.Unmarshal(b, &fromJSON); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if fromJSON.Children[0].Text != "Hi" {
		t.Fatalf("unexpected json %s", b)
	}

	y, err := tr.YAML()
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	var fromYAML Element
	if err := yaml.Unmarshal(y, &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if fromYAML.Kind != action.KindBranch || fromYAML.Children[0].Text != "Hi" {
		t.Fatalf("unexpected yaml %s", y)
	}
}
