package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskhub/internal/exitcode"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It toggles: a DONE task goes back
// to TODO.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task between done and to-do" }
func (c *DoneCmd) Usage() string     { return "taskhub done <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, valid := parseRef(args, errOut)
	if !valid {
		return exitcode.UserError
	}

	a := newApp(env, out, errOut)
	task, err := a.resolveTask(ctx, ref)
	if err != nil {
		return a.lookupFailed(errOut, err, "Could not load tasks.")
	}

	next, op, err := a.mut.ToggleTaskStatus(ctx, task.ID)
	if err != nil {
		return finish(errOut, err)
	}
	if !env.Config.Quiet {
		fmt.Fprintf(out, "%s %s\n", ref, next)
	}
	err = op.Wait()
	a.settle()
	return finish(errOut, err)
}
