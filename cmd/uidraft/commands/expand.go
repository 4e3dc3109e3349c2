package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newExpandCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "expand [brief|-]",
		Short: "Stream a richer description of a UI brief",
		RunE: func(cmd *cobra.Command, args []string) error {
			brief, err := readBrief(cmd, args)
			if err != nil {
				return err
			}
			d, err := a.designer(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := d.ExpandPrompt(cmd.Context(), brief, func(s string) error {
				_, err := io.WriteString(out, s)
				return err
			}); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out)
			return err
		},
	}
}
