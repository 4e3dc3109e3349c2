// Command uidraft drafts UI trees from short briefs.
//
// Usage:
//
//	uidraft [flags] <command> [brief]
//
// Commands:
//
//	expand   - stream a richer description of the brief
//	generate - stream UI actions, optionally applied to a tree
//	catalog  - print the action catalog offered to the model
//	mcp      - serve the flows as MCP tools over stdio
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sweetpotato0/uidraft/cmd/uidraft/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
