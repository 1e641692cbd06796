package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"taskhub/internal/exitcode"
	"taskhub/internal/output"
)

func init() {
	Register(&CheckCmd{})
	Register(&TickCmd{})
}

// CheckCmd appends a checklist item to a task.
type CheckCmd struct{}

func (c *CheckCmd) Name() string      { return "check" }
func (c *CheckCmd) Aliases() []string { return nil }
func (c *CheckCmd) Synopsis() string  { return "Add a checklist item" }
func (c *CheckCmd) Usage() string     { return "taskhub check <ref> <title...>" }
func (c *CheckCmd) NeedsAuth() bool   { return true }

func (c *CheckCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CheckCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, valid := parseRef(args, errOut)
	if !valid {
		return exitcode.UserError
	}
	title := strings.TrimSpace(strings.Join(args[ref.Args:], " "))
	if title == "" {
		return userError(errOut, "item title required")
	}

	a := newApp(env, out, errOut)
	if code, opened := a.openTask(ctx, ref, errOut); !opened {
		return code
	}
	_, err := a.view.AddChecklistItem(ctx, title)
	a.settle()
	if err != nil {
		return finish(errOut, err)
	}

	if !env.Config.Quiet {
		d, _ := a.view.Detail()
		for i, item := range d.Checklists {
			output.FormatChecklistItem(out, i+1, item)
		}
	}
	return exitcode.Success
}

// TickCmd toggles a checklist item.
type TickCmd struct{}

func (c *TickCmd) Name() string      { return "tick" }
func (c *TickCmd) Aliases() []string { return []string{"untick"} }
func (c *TickCmd) Synopsis() string  { return "Toggle a checklist item" }
func (c *TickCmd) Usage() string     { return "taskhub tick <ref> <item#>" }
func (c *TickCmd) NeedsAuth() bool   { return true }

func (c *TickCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TickCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, valid := parseRef(args, errOut)
	if !valid {
		return exitcode.UserError
	}

	a := newApp(env, out, errOut)
	if code, opened := a.openTask(ctx, ref, errOut); !opened {
		return code
	}
	d, _ := a.view.Detail()
	i, item, err := checklistItem(d, args[ref.Args:])
	if err != nil {
		a.settle()
		return finish(errOut, err)
	}

	done, err := a.view.ToggleChecklistItem(ctx, item.ID)
	if err != nil {
		a.settle()
		return finish(errOut, err)
	}
	item.IsCompleted = done
	if !env.Config.Quiet {
		output.FormatChecklistItem(out, i+1, item)
	}

	a.settle()
	return a.lastFailure()
}
