package commands

import (
	"context"
	"flag"
	"io"

	"taskhub/internal/exitcode"
	"taskhub/internal/output"
)

func init() {
	Register(&WorkspacesCmd{})
}

// WorkspacesCmd implements the workspaces command.
type WorkspacesCmd struct{}

func (c *WorkspacesCmd) Name() string      { return "workspaces" }
func (c *WorkspacesCmd) Aliases() []string { return []string{"ws"} }
func (c *WorkspacesCmd) Synopsis() string  { return "List workspaces" }
func (c *WorkspacesCmd) Usage() string     { return "taskhub workspaces [common flags]" }
func (c *WorkspacesCmd) NeedsAuth() bool   { return true }

func (c *WorkspacesCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WorkspacesCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	a := newApp(env, out, errOut)
	ws, err := a.load.Workspaces(ctx)
	if err != nil {
		return a.remoteFailure(err, "Could not load workspaces.")
	}
	for i, w := range ws {
		letter := letterFor(i)
		if letter == 0 {
			break
		}
		output.FormatWorkspace(out, letter, w)
	}
	return exitcode.Success
}
