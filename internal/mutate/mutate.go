// Package mutate applies user actions to the cache and the remote service.
//
// Status toggles, checklist toggles and deletes are optimistic: the cache
// changes before the call is issued and the call runs in the background.
// A failed toggle is not rolled back and a delete is never reverted; the
// user gets a failure notice and the local state stands. Everything else
// waits for the server before touching the cache.
package mutate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"taskhub/internal/cache"
	"taskhub/internal/loader"
	"taskhub/internal/notify"
	"taskhub/internal/service"
)

// ErrNotCached is returned when an optimistic action targets an entity the
// cache does not hold.
var ErrNotCached = errors.New("not loaded")

// ErrBlank is returned when a required text field is empty.
var ErrBlank = errors.New("required field is empty")

// Notice texts.
const (
	MsgTaskCreated      = "Task created!"
	MsgTaskDeleted      = "Task deleted."
	MsgWorkspaceCreated = "Workspace created successfully"
	MsgWorkspaceDelete  = "Error deleting. You might not be the owner."
	MsgMemberRemoved    = "Member removed successfully."
	MsgProfileUpdated   = "Profile updated successfully!"
)

// Engine applies mutations.
type Engine struct {
	svc      service.Service
	cache    *cache.Cache
	notifier notify.Notifier
	loader   *loader.Loader
	logger   *log.Logger

	wg sync.WaitGroup
}

// New creates an engine. notifier and logger may be nil.
func New(svc service.Service, c *cache.Cache, notifier notify.Notifier, logger *log.Logger) *Engine {
	if notifier == nil {
		notifier = notify.Discard
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{
		svc:      svc,
		cache:    c,
		notifier: notifier,
		loader:   loader.New(svc, c, logger),
		logger:   logger,
	}
}

// Wait blocks until every background call has finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// background runs fn detached from ctx's cancellation.
func (e *Engine) background(ctx context.Context, fn func(ctx context.Context) error) *Op {
	op := newOp()
	ctx = context.WithoutCancel(ctx)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		op.finish(fn(ctx))
	}()
	return op
}

func (e *Engine) fail(err error, fallback string) {
	e.notifier.Notify(notify.Error(err, fallback))
}

// ToggleTaskStatus flips a task between DONE and TODO. The cache, including
// an open detail view of the task, reflects the new status before this
// returns.
func (e *Engine) ToggleTaskStatus(ctx context.Context, id string) (service.Status, *Op, error) {
	current, ok := e.cache.Task(id)
	if !ok {
		d, open := e.cache.Detail()
		if !open || d.ID != id {
			return "", nil, fmt.Errorf("task %s: %w", id, ErrNotCached)
		}
		current = d.Task
	}
	next := current.Status.Toggled()

	e.cache.UpdateTask(id, func(t *service.Task) { t.Status = next })
	e.cache.UpdateDetail(id, func(d *service.TaskDetail) { d.Status = next })

	op := e.background(ctx, func(ctx context.Context) error {
		updated, err := e.svc.UpdateTask(ctx, id, service.TaskPatch{Status: &next})
		if err != nil {
			e.logger.Printf("toggle task %s: %v", id, err)
			e.fail(err, "Could not update the task.")
			return err
		}
		if updated != nil {
			e.cache.UpdateTask(id, func(t *service.Task) { fillTask(t, *updated) })
			e.cache.UpdateDetail(id, func(d *service.TaskDetail) { fillTask(&d.Task, *updated) })
		}
		return nil
	})
	return next, op, nil
}

// fillTask copies server fields that the local copy lacks. Status belongs to
// the optimistic write and is never overwritten.
func fillTask(local *service.Task, remote service.Task) {
	if local.Title == "" {
		local.Title = remote.Title
	}
	if local.Description == "" {
		local.Description = remote.Description
	}
	if local.Priority == "" {
		local.Priority = remote.Priority
	}
	if local.WorkspaceID == "" {
		local.WorkspaceID = remote.WorkspaceID
	}
	if local.CreatedAt.IsZero() {
		local.CreatedAt = remote.CreatedAt
	}
	if local.DueDate == nil && remote.DueDate != nil {
		due := *remote.DueDate
		local.DueDate = &due
	}
}

// DeleteTask evicts a task and deletes it remotely. The eviction stands
// whatever the server answers.
func (e *Engine) DeleteTask(ctx context.Context, id string) *Op {
	e.cache.RemoveTask(id)
	return e.background(ctx, func(ctx context.Context) error {
		if err := e.svc.DeleteTask(ctx, id); err != nil {
			e.logger.Printf("delete task %s: %v", id, err)
			e.fail(err, "Could not delete the task.")
			return err
		}
		e.notifier.Notify(notify.Ok(MsgTaskDeleted))
		return nil
	})
}

// DeleteWorkspace evicts a workspace with its tasks and members and deletes
// it remotely. On failure the workspace list is fetched again.
func (e *Engine) DeleteWorkspace(ctx context.Context, id string) *Op {
	e.cache.EvictWorkspace(id)
	return e.background(ctx, func(ctx context.Context) error {
		err := e.svc.DeleteWorkspace(ctx, id)
		if err == nil {
			return nil
		}
		e.logger.Printf("delete workspace %s: %v", id, err)
		if service.IsRejected(err) {
			e.notifier.Notify(notify.Notice{Level: notify.Failure, Kind: service.Rejected, Message: MsgWorkspaceDelete})
		} else {
			e.fail(err, MsgWorkspaceDelete)
		}

		ws, lerr := e.loader.Workspaces(ctx)
		if lerr != nil {
			e.logger.Printf("reload workspaces: %v", lerr)
			return err
		}
		for _, w := range ws {
			if w.ID == id {
				if lerr := e.loader.Workspace(ctx, id); lerr != nil {
					e.logger.Printf("reload workspace %s: %v", id, lerr)
				}
			}
		}
		return err
	})
}

// ToggleChecklistItem flips a checklist item in the open detail view of
// taskID. The returned value is the item's new state.
func (e *Engine) ToggleChecklistItem(ctx context.Context, taskID, itemID string) (bool, *Op, error) {
	d, ok := e.cache.Detail()
	if !ok || d.ID != taskID {
		return false, nil, fmt.Errorf("task %s: %w", taskID, ErrNotCached)
	}
	idx := -1
	for i, item := range d.Checklists {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil, fmt.Errorf("checklist item %s: %w", itemID, ErrNotCached)
	}
	next := !d.Checklists[idx].IsCompleted

	e.cache.UpdateDetail(taskID, func(d *service.TaskDetail) {
		setItem(d, itemID, func(item *service.ChecklistItem) { item.IsCompleted = next })
	})

	op := e.background(ctx, func(ctx context.Context) error {
		updated, err := e.svc.SetChecklistItem(ctx, itemID, next)
		if err != nil {
			e.logger.Printf("toggle checklist item %s: %v", itemID, err)
			e.fail(err, "Could not update the checklist.")
			return err
		}
		if updated != nil && updated.Title != "" {
			e.cache.UpdateDetail(taskID, func(d *service.TaskDetail) {
				setItem(d, itemID, func(item *service.ChecklistItem) {
					if item.Title == "" {
						item.Title = updated.Title
					}
				})
			})
		}
		return nil
	})
	return next, op, nil
}

func setItem(d *service.TaskDetail, itemID string, fn func(*service.ChecklistItem)) {
	for i := range d.Checklists {
		if d.Checklists[i].ID == itemID {
			fn(&d.Checklists[i])
			return
		}
	}
}

// CreateWorkspace creates a workspace and adds it to the cached list.
func (e *Engine) CreateWorkspace(ctx context.Context, name string) (service.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return service.Workspace{}, fmt.Errorf("workspace name: %w", ErrBlank)
	}
	w, err := e.svc.CreateWorkspace(ctx, name)
	if err != nil {
		e.fail(err, "Could not create the workspace.")
		return service.Workspace{}, err
	}
	if w.Name == "" {
		w.Name = name
	}
	e.cache.AddWorkspace(w)
	e.cache.ReplaceTasks(w.ID, nil)
	e.notifier.Notify(notify.Ok(MsgWorkspaceCreated))
	return w, nil
}

// CreateTask creates a task and adds it to the front of its workspace's
// cached list. An empty priority means MEDIUM.
func (e *Engine) CreateTask(ctx context.Context, nt service.NewTask) (service.Task, error) {
	nt.Title = strings.TrimSpace(nt.Title)
	if nt.Title == "" {
		return service.Task{}, fmt.Errorf("task title: %w", ErrBlank)
	}
	if nt.Priority == "" {
		nt.Priority = service.PriorityMedium
	}
	t, err := e.svc.CreateTask(ctx, nt)
	if err != nil {
		e.fail(err, "Could not create the task.")
		return service.Task{}, err
	}
	if t.Title == "" {
		t.Title = nt.Title
	}
	if t.Status == "" {
		t.Status = service.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = nt.Priority
	}
	e.cache.AddTask(t)
	e.notifier.Notify(notify.Ok(MsgTaskCreated))
	return t, nil
}

// InviteMember invites email into a workspace and refreshes its members.
func (e *Engine) InviteMember(ctx context.Context, workspaceID, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email: %w", ErrBlank)
	}
	if err := e.svc.InviteMember(ctx, workspaceID, email); err != nil {
		e.fail(err, "Could not send the invitation.")
		return err
	}
	e.notifier.Notify(notify.Ok(fmt.Sprintf("Invitation sent to %s!", email)))
	if _, err := e.loader.Members(ctx, workspaceID); err != nil {
		e.logger.Printf("reload members of %s: %v", workspaceID, err)
	}
	return nil
}

// RemoveMember removes a member and evicts it from the cached list.
func (e *Engine) RemoveMember(ctx context.Context, workspaceID, memberID string) error {
	if err := e.svc.RemoveMember(ctx, workspaceID, memberID); err != nil {
		e.fail(err, fmt.Sprintf("Error %d: Could not remove.", service.StatusOf(err)))
		return err
	}
	e.cache.RemoveMember(workspaceID, memberID)
	e.notifier.Notify(notify.Ok(MsgMemberRemoved))
	return nil
}

// UpdateProfile changes the display name and, when given, the password.
func (e *Engine) UpdateProfile(ctx context.Context, u service.ProfileUpdate) error {
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		return fmt.Errorf("name: %w", ErrBlank)
	}
	if err := e.svc.UpdateProfile(ctx, u); err != nil {
		e.fail(err, "Could not update the profile.")
		return err
	}
	if p, ok := e.cache.Profile(); ok {
		p.Name = u.Name
		e.cache.SetProfile(p)
	}
	e.notifier.Notify(notify.Ok(MsgProfileUpdated))
	return nil
}
