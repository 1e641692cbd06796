package aggregate

import (
	"sync"

	"taskhub/internal/cache"
	"taskhub/internal/service"
)

// Dashboard is everything the overview screen shows.
type Dashboard struct {
	Profile    service.User
	Stats      Stats
	Workspaces []service.Workspace
	Priorities []service.Task
	Recent     []service.Task
}

// Summarize builds a dashboard from a workspace set and the tasks of those
// workspaces.
func Summarize(workspaces []service.Workspace, tasks []service.Task) Dashboard {
	stats := ComputeStats(tasks)
	stats.TotalWorkspaces = len(workspaces)
	return Dashboard{
		Stats:      stats,
		Workspaces: append([]service.Workspace{}, workspaces...),
		Priorities: ComputePriorities(tasks),
		Recent:     ComputeRecentFeed(tasks),
	}
}

// FromCache summarizes the current cache contents.
func FromCache(c *cache.Cache) Dashboard {
	d := Summarize(c.Workspaces(), c.Tasks())
	d.Profile, _ = c.Profile()
	return d
}

// Tracker keeps a dashboard current by recomputing it on every cache write.
type Tracker struct {
	cache *cache.Cache

	mu   sync.RWMutex
	rev  uint64
	dash Dashboard
}

// Track starts tracking c.
func Track(c *cache.Cache) *Tracker {
	t := &Tracker{cache: c}
	t.refresh(c.Revision())
	c.Watch(t.refresh)
	return t
}

func (t *Tracker) refresh(rev uint64) {
	d := FromCache(t.cache)
	t.mu.Lock()
	defer t.mu.Unlock()
	// Watchers of concurrent writes may finish out of order.
	if rev < t.rev {
		return
	}
	t.rev = rev
	t.dash = d
}

// Current returns the latest dashboard.
func (t *Tracker) Current() Dashboard {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dash
}
