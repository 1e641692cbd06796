// Package loader fetches remote collections and installs them in the cache.
package loader

import (
	"context"
	"io"
	"log"

	"golang.org/x/sync/errgroup"

	"taskhub/internal/aggregate"
	"taskhub/internal/cache"
	"taskhub/internal/service"
)

// maxConcurrentFetches bounds the per-workspace fan-out.
const maxConcurrentFetches = 8

// Loader reads from the service into the cache.
type Loader struct {
	svc    service.Service
	cache  *cache.Cache
	logger *log.Logger
}

// New creates a loader. logger may be nil.
func New(svc service.Service, c *cache.Cache, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Loader{svc: svc, cache: c, logger: logger}
}

// Profile fetches and caches the signed-in user.
func (l *Loader) Profile(ctx context.Context) (service.User, error) {
	u, err := l.svc.Profile(ctx)
	if err != nil {
		return service.User{}, err
	}
	l.cache.SetProfile(u)
	return u, nil
}

// Workspaces fetches and caches the workspace list.
func (l *Loader) Workspaces(ctx context.Context) ([]service.Workspace, error) {
	ws, err := l.svc.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	l.cache.ReplaceWorkspaces(ws)
	return ws, nil
}

// Dashboard loads the profile, the workspace list, and then every
// workspace's tasks in parallel, and summarizes the result.
//
// Only a failed workspace list fails the load. A failed profile is logged.
// A failed task list is logged and the workspace keeps whatever tasks were
// cached before, or none.
func (l *Loader) Dashboard(ctx context.Context) (aggregate.Dashboard, error) {
	if _, err := l.Profile(ctx); err != nil {
		l.logger.Printf("profile: %v", err)
	}

	ws, err := l.Workspaces(ctx)
	if err != nil {
		return aggregate.Dashboard{}, err
	}

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	for _, w := range ws {
		w := w
		g.Go(func() error {
			l.tasks(ctx, w.ID)
			return nil
		})
	}
	_ = g.Wait()

	return aggregate.FromCache(l.cache), nil
}

// tasks refreshes one workspace's task list, tolerating failure.
func (l *Loader) tasks(ctx context.Context, workspaceID string) {
	tasks, err := l.svc.ListTasks(ctx, workspaceID)
	if err != nil {
		l.logger.Printf("tasks of workspace %s: %v", workspaceID, err)
		if !l.cache.HasTasks(workspaceID) {
			l.cache.ReplaceTasks(workspaceID, nil)
		}
		return
	}
	l.cache.ReplaceTasks(workspaceID, tasks)
}

// Workspace loads one workspace's tasks and members concurrently. A failed
// task list is returned; a failed member list is only logged.
func (l *Loader) Workspace(ctx context.Context, workspaceID string) error {
	var g errgroup.Group
	g.Go(func() error {
		tasks, err := l.svc.ListTasks(ctx, workspaceID)
		if err != nil {
			return err
		}
		l.cache.ReplaceTasks(workspaceID, tasks)
		return nil
	})
	g.Go(func() error {
		members, err := l.svc.ListMembers(ctx, workspaceID)
		if err != nil {
			l.logger.Printf("members of workspace %s: %v", workspaceID, err)
			return nil
		}
		l.cache.ReplaceMembers(workspaceID, members)
		return nil
	})
	return g.Wait()
}

// Members loads one workspace's member list.
func (l *Loader) Members(ctx context.Context, workspaceID string) ([]service.Member, error) {
	members, err := l.svc.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	l.cache.ReplaceMembers(workspaceID, members)
	return members, nil
}

// Tasks loads one workspace's task list.
func (l *Loader) Tasks(ctx context.Context, workspaceID string) ([]service.Task, error) {
	tasks, err := l.svc.ListTasks(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	l.cache.ReplaceTasks(workspaceID, tasks)
	return l.cache.TasksOf(workspaceID), nil
}
