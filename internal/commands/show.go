package commands

import (
	"context"
	"flag"
	"io"
	"strconv"

	"taskhub/internal/exitcode"
	"taskhub/internal/output"
	"taskhub/internal/service"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd prints a task with its checklist, attachments and activity.
type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return []string{"open"} }
func (c *ShowCmd) Synopsis() string  { return "Show a task in detail" }
func (c *ShowCmd) Usage() string     { return "taskhub show <ref>" }
func (c *ShowCmd) NeedsAuth() bool   { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, valid := parseRef(args, errOut)
	if !valid {
		return exitcode.UserError
	}
	a := newApp(env, out, errOut)
	if code, opened := a.openTask(ctx, ref, errOut); !opened {
		return code
	}
	a.settle()

	d, _ := a.view.Detail()
	output.FormatDetail(out, d)
	output.FormatActivity(out, a.view.Logs())
	return exitcode.Success
}

// openTask resolves ref and opens it in the detail view.
func (a *app) openTask(ctx context.Context, ref TaskRef, errOut io.Writer) (int, bool) {
	id, err := a.taskID(ctx, ref)
	if err != nil {
		return a.lookupFailed(errOut, err, "Could not load tasks."), false
	}
	if _, err := a.view.Open(ctx, id); err != nil {
		return finish(errOut, err), false
	}
	return exitcode.Success, true
}

// itemArg parses a 1-based position into a list of n entries.
func itemArg(args []string, n int, what string) (int, error) {
	if len(args) == 0 {
		return 0, errArgRequired(what + " number required")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 1 || i > n {
		return 0, errArgRequired(what + " number out of range: " + args[0])
	}
	return i - 1, nil
}

type errArgRequired string

func (e errArgRequired) Error() string { return string(e) }

func checklistItem(d service.TaskDetail, args []string) (int, service.ChecklistItem, error) {
	i, err := itemArg(args, len(d.Checklists), "item")
	if err != nil {
		return 0, service.ChecklistItem{}, err
	}
	return i, d.Checklists[i], nil
}

func attachment(d service.TaskDetail, args []string) (service.Attachment, error) {
	i, err := itemArg(args, len(d.Attachments), "attachment")
	if err != nil {
		return service.Attachment{}, err
	}
	return d.Attachments[i], nil
}
