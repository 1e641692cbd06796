package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"taskhub/internal/service"
)

var (
	errNoWorkspaces    = errors.New("no workspaces")
	errTaskOutOfRange  = errors.New("task number out of range")
	errWorkspaceLetter = errors.New("workspace letter not found")
)

// resolveWorkspace finds a workspace by letter (a, b, ...), id, or
// case-insensitive name.
func (a *app) resolveWorkspace(ctx context.Context, ref string) (service.Workspace, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return service.Workspace{}, errors.New("workspace required")
	}
	ws, err := a.load.Workspaces(ctx)
	if err != nil {
		return service.Workspace{}, err
	}

	if len(ref) == 1 && isLetter(rune(ref[0])) {
		i := int(ref[0] - 'a')
		if i < len(ws) {
			return ws[i], nil
		}
	}
	for _, w := range ws {
		if w.ID == ref {
			return w, nil
		}
	}

	var matches []service.Workspace
	for _, w := range ws {
		if strings.EqualFold(strings.TrimSpace(w.Name), ref) {
			matches = append(matches, w)
		}
	}
	switch len(matches) {
	case 0:
		return service.Workspace{}, fmt.Errorf("workspace not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return service.Workspace{}, fmt.Errorf("ambiguous workspace name: %s", ref)
	}
}

// resolveTask finds the task a reference points at and loads it into the
// cache. Positional references read the numbered workspace's task list; a
// raw id loads the whole dashboard first.
func (a *app) resolveTask(ctx context.Context, ref TaskRef) (service.Task, error) {
	if ref.ID != "" {
		if _, err := a.load.Dashboard(ctx); err != nil {
			return service.Task{}, err
		}
		t, ok := a.cache.Task(ref.ID)
		if !ok {
			return service.Task{}, fmt.Errorf("task not found: %s", ref.ID)
		}
		return t, nil
	}

	ws, err := a.load.Workspaces(ctx)
	if err != nil {
		return service.Task{}, err
	}
	if len(ws) == 0 {
		return service.Task{}, errNoWorkspaces
	}
	i := 0
	if ref.HasLetter {
		i = int(ref.Letter - 'a')
		if i >= len(ws) {
			return service.Task{}, fmt.Errorf("%w: %c", errWorkspaceLetter, ref.Letter)
		}
	}

	tasks, err := a.load.Tasks(ctx, ws[i].ID)
	if err != nil {
		return service.Task{}, err
	}
	if ref.TaskNum < 1 || ref.TaskNum > len(tasks) {
		return service.Task{}, fmt.Errorf("%w: %s", errTaskOutOfRange, ref)
	}
	return tasks[ref.TaskNum-1], nil
}

// taskID turns a reference into a task id. Raw ids are used as given.
func (a *app) taskID(ctx context.Context, ref TaskRef) (string, error) {
	if ref.ID != "" {
		return ref.ID, nil
	}
	t, err := a.resolveTask(ctx, ref)
	if err != nil {
		return "", err
	}
	return t.ID, nil
}

// parseRef parses a task reference and prints usage problems.
func parseRef(args []string, errOut io.Writer) (TaskRef, bool) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		userError(errOut, "%v", err)
		return TaskRef{}, false
	}
	return ref, true
}

// lookupFailed reports an error from resolving a reference. Remote errors
// are announced through the notifier with fallback.
func (a *app) lookupFailed(errOut io.Writer, err error, fallback string) int {
	if service.KindOf(err) != 0 {
		return a.remoteFailure(err, fallback)
	}
	return finish(errOut, err)
}
