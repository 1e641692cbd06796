package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskhub/internal/exitcode"
	"taskhub/internal/output"
)

func init() {
	Register(&DashboardCmd{})
	Register(&TasksCmd{})
}

// DashboardCmd implements the dashboard command, the default when no
// command is given.
type DashboardCmd struct{}

func (c *DashboardCmd) Name() string      { return "dashboard" }
func (c *DashboardCmd) Aliases() []string { return []string{"home"} }
func (c *DashboardCmd) Synopsis() string  { return "Show stats, priorities and recent tasks" }
func (c *DashboardCmd) Usage() string     { return "taskhub [dashboard]" }
func (c *DashboardCmd) NeedsAuth() bool   { return true }

func (c *DashboardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DashboardCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	a := newApp(env, out, errOut)
	d, err := a.load.Dashboard(ctx)
	if err != nil {
		return a.remoteFailure(err, "Could not load workspaces.")
	}
	output.FormatDashboard(out, d)
	return exitcode.Success
}

// TasksCmd implements the tasks command.
// Handles both `taskhub tasks` (every workspace) and `taskhub tasks <workspace>`.
type TasksCmd struct{}

func (c *TasksCmd) Name() string      { return "tasks" }
func (c *TasksCmd) Aliases() []string { return []string{"ls"} }
func (c *TasksCmd) Synopsis() string  { return "List tasks" }
func (c *TasksCmd) Usage() string     { return "taskhub tasks [<workspace>]" }
func (c *TasksCmd) NeedsAuth() bool   { return true }

func (c *TasksCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TasksCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	a := newApp(env, out, errOut)
	if len(args) == 0 {
		return c.listAll(ctx, a, env, out)
	}
	return c.listOne(ctx, a, strings.Join(args, " "), out, errOut)
}

// listAll prints every workspace's tasks, skipping empty workspaces.
func (c *TasksCmd) listAll(ctx context.Context, a *app, env *Env, out io.Writer) int {
	d, err := a.load.Dashboard(ctx)
	if err != nil {
		return a.remoteFailure(err, "Could not load workspaces.")
	}

	hasAnyTasks := false
	for i, ws := range d.Workspaces {
		letter := letterFor(i)
		if letter == 0 {
			break
		}
		tasks := a.cache.TasksOf(ws.ID)
		if len(tasks) == 0 {
			continue
		}
		output.FormatWorkspaceHeader(out, letter, ws)
		for n, t := range tasks {
			output.FormatTaskWithLetter(out, letter, n+1, t)
		}
		hasAnyTasks = true
	}

	if !hasAnyTasks && !env.Config.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}

// listOne prints one workspace's tasks and members, even when empty.
func (c *TasksCmd) listOne(ctx context.Context, a *app, ref string, out, errOut io.Writer) int {
	ws, err := a.resolveWorkspace(ctx, ref)
	if err != nil {
		return a.lookupFailed(errOut, err, "Could not load workspaces.")
	}
	if err := a.load.Workspace(ctx, ws.ID); err != nil {
		return a.remoteFailure(err, "Could not load tasks.")
	}

	letter := 'a'
	for i, w := range a.cache.Workspaces() {
		if w.ID == ws.ID {
			letter = letterFor(i)
		}
	}
	output.FormatWorkspaceHeader(out, letter, ws)
	for n, t := range a.cache.TasksOf(ws.ID) {
		output.FormatTaskWithLetter(out, letter, n+1, t)
	}
	if members := a.cache.Members(ws.ID); len(members) > 0 {
		fmt.Fprintf(out, "%d members\n", len(members))
	}
	return exitcode.Success
}
