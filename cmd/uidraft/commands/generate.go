package commands

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/sweetpotato0/uidraft/action"
	"github.com/sweetpotato0/uidraft/designer"
	"github.com/sweetpotato0/uidraft/runner"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type generateFlags struct {
	apply  bool
	strict bool
	expand bool
	format string
}

func newGenerateCmd(a *app) *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate [brief|-]",
		Short: "Stream UI actions for a brief",
		Long: `Stream the actions that build the UI described by brief.

Without --apply every action is printed as it arrives: styled lines for
text, one JSON object per line for json, or a single YAML list at the end.
With --apply the actions are applied to a tree and the tree is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch f.format {
			case formatText, formatJSON, formatYAML:
			default:
				return fmt.Errorf("unknown format %q", f.format)
			}
			brief, err := readBrief(cmd, args)
			if err != nil {
				return err
			}
			d, err := a.designer(cmd.Context())
			if err != nil {
				return err
			}
			r := runner.New(d, a.cfg.MaxConcurrent, runner.WithStrict(f.strict))
			if f.apply {
				return applyBrief(cmd, r, brief, f)
			}
			if f.expand {
				if brief, err = r.Expand(cmd.Context(), brief); err != nil {
					return fmt.Errorf("expand: %w", err)
				}
			}
			return streamActions(cmd, d, brief, f.format)
		},
	}
	cmd.Flags().BoolVar(&f.apply, "apply", false, "apply actions to a tree and print it")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail on the first action the tree rejects")
	cmd.Flags().BoolVar(&f.expand, "expand", false, "expand the brief before generating")
	cmd.Flags().StringVarP(&f.format, "format", "o", formatText, "output format: text, json or yaml")
	return cmd
}

func streamActions(cmd *cobra.Command, d *designer.Designer, brief, format string) error {
	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	tw := &textWriter{w: out}
	var collected []action.Action

	err := d.GenerateInitialActions(cmd.Context(), brief, func(f designer.Fragment) error {
		switch format {
		case formatJSON:
			return enc.Encode(f)
		case formatYAML:
			if f.Kind == designer.FragmentAction {
				a, err := action.Encode(f.Op)
				if err != nil {
					return err
				}
				collected = append(collected, a)
			}
			return nil
		default:
			return tw.write(f)
		}
	})
	if err != nil {
		return err
	}
	if format == formatText {
		return tw.close()
	}
	if format == formatYAML {
		b, err := yaml.Marshal(collected)
		if err != nil {
			return err
		}
		_, err = out.Write(b)
		return err
	}
	return nil
}

func applyBrief(cmd *cobra.Command, r runner.Runner, brief string, f generateFlags) error {
	ctx := cmd.Context()
	var (
		b   *runner.Build
		err error
	)
	if f.expand {
		b, err = runner.Draft(ctx, r, brief)
	} else {
		b, err = r.Build(ctx, brief)
	}
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	for _, v := range b.Violations {
		fmt.Fprintln(errOut, styles.Warn.Render("skipped: "+v.Error()))
	}

	out := cmd.OutOrStdout()
	switch f.format {
	case formatJSON:
		data, err := b.Tree.JSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case formatYAML:
		data, err := b.Tree.YAML()
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	default:
		writeTree(out, b.Tree.Root())
		_, err := fmt.Fprintln(out, styles.Dim.Render(fmt.Sprintf("%d applied, %d skipped", b.Applied(), len(b.Violations))))
		return err
	}
}
