package commands

import (
	"context"
	"flag"
	"io"
	"strings"
)

func init() {
	Register(&MkwsCmd{})
}

// MkwsCmd implements the mkws command.
type MkwsCmd struct{}

func (c *MkwsCmd) Name() string      { return "mkws" }
func (c *MkwsCmd) Aliases() []string { return []string{"createws"} }
func (c *MkwsCmd) Synopsis() string  { return "Create a workspace" }
func (c *MkwsCmd) Usage() string     { return "taskhub mkws <name...>" }
func (c *MkwsCmd) NeedsAuth() bool   { return true }

func (c *MkwsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MkwsCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return userError(errOut, "workspace name required")
	}
	a := newApp(env, out, errOut)
	_, err := a.mut.CreateWorkspace(ctx, name)
	return finish(errOut, err)
}
