package commands

import (
	"github.com/spf13/cobra"

	"github.com/sweetpotato0/uidraft/mcp"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve expand_prompt, generate_ui and list_actions over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.designer(cmd.Context())
			if err != nil {
				return err
			}
			server := mcp.NewServer(d,
				mcp.WithServerInfo("uidraft", Version),
				mcp.WithMaxConcurrency(a.cfg.MaxConcurrent),
			)
			return mcp.Serve(cmd.Context(), server)
		},
	}
}
