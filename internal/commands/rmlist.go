package commands

import (
	"context"
	"flag"
	"io"
	"strings"
)

func init() {
	Register(&RmwsCmd{})
}

// RmwsCmd implements the rmws command.
type RmwsCmd struct{}

func (c *RmwsCmd) Name() string      { return "rmws" }
func (c *RmwsCmd) Aliases() []string { return nil }
func (c *RmwsCmd) Synopsis() string  { return "Delete a workspace and its tasks" }
func (c *RmwsCmd) Usage() string     { return "taskhub rmws <workspace>" }
func (c *RmwsCmd) NeedsAuth() bool   { return true }

func (c *RmwsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmwsCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref := strings.TrimSpace(strings.Join(args, " "))
	if ref == "" {
		return userError(errOut, "workspace required")
	}
	a := newApp(env, out, errOut)
	ws, err := a.resolveWorkspace(ctx, ref)
	if err != nil {
		return a.lookupFailed(errOut, err, "Could not load workspaces.")
	}

	err = a.mut.DeleteWorkspace(ctx, ws.ID).Wait()
	a.settle()
	if err == nil {
		ok(env, out)
	}
	return finish(errOut, err)
}
