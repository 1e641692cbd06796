package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskhub/internal/exitcode"
	"taskhub/internal/output"
	"taskhub/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	workspace   string
	priority    string
	description string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskhub add [--ws <workspace>] [--priority low|medium|high] [--desc <text>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.workspace, "ws", "", "")
	fs.StringVar(&c.workspace, "w", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return userError(errOut, "title required")
	}

	var priority service.Priority
	if c.priority != "" {
		p, known := service.ParsePriority(c.priority)
		if !known {
			return userError(errOut, "invalid priority: %s", c.priority)
		}
		priority = p
	}

	a := newApp(env, out, errOut)
	var ws service.Workspace
	if c.workspace != "" {
		var err error
		ws, err = a.resolveWorkspace(ctx, c.workspace)
		if err != nil {
			return a.lookupFailed(errOut, err, "Could not load workspaces.")
		}
	} else {
		all, err := a.load.Workspaces(ctx)
		if err != nil {
			return a.remoteFailure(err, "Could not load workspaces.")
		}
		if len(all) == 0 {
			return finish(errOut, fmt.Errorf("%w (run: taskhub mkws <name>)", errNoWorkspaces))
		}
		ws = all[0]
	}

	t, err := a.mut.CreateTask(ctx, service.NewTask{
		Title:       title,
		Description: strings.TrimSpace(c.description),
		Priority:    priority,
		WorkspaceID: ws.ID,
	})
	if err != nil {
		return finish(errOut, err)
	}

	// The new task opens in the detail view.
	if _, err := a.view.Open(ctx, t.ID); err != nil {
		return finish(errOut, err)
	}
	a.settle()
	if !env.Config.Quiet {
		if d, loaded := a.view.Detail(); loaded {
			output.FormatDetail(out, d)
		}
	}
	return exitcode.Success
}
