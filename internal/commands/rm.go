package commands

import (
	"context"
	"flag"
	"io"

	"taskhub/internal/exitcode"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskhub rm <ref>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, valid := parseRef(args, errOut)
	if !valid {
		return exitcode.UserError
	}

	a := newApp(env, out, errOut)
	task, err := a.resolveTask(ctx, ref)
	if err != nil {
		return a.lookupFailed(errOut, err, "Could not load tasks.")
	}

	err = a.mut.DeleteTask(ctx, task.ID).Wait()
	a.settle()
	return finish(errOut, err)
}
