// Package aggregate derives dashboard summaries from cached tasks and
// workspaces. Every function here is pure: it copies its input, never
// mutates it, and never touches the network.
package aggregate

import (
	"math"
	"sort"

	"taskhub/internal/service"
)

const (
	// MaxPriorities caps the priority list.
	MaxPriorities = 5

	// MaxRecent caps the recent activity feed.
	MaxRecent = 10

	// PlaceholderWorkspace labels a task whose workspace is not cached.
	PlaceholderWorkspace = "Workspace"
)

// Stats is the dashboard summary.
type Stats struct {
	TotalWorkspaces int
	TotalTasks      int
	PendingTasks    int
	CompletedTasks  int
	Productivity    int // percent, 0..100
}

// ComputeStats counts tasks. Anything not DONE is pending, including unknown
// statuses.
func ComputeStats(tasks []service.Task) Stats {
	var s Stats
	s.TotalTasks = len(tasks)
	for _, t := range tasks {
		if t.Status == service.StatusDone {
			s.CompletedTasks++
		}
	}
	s.PendingTasks = s.TotalTasks - s.CompletedTasks
	if s.TotalTasks > 0 {
		s.Productivity = int(math.Round(100 * float64(s.CompletedTasks) / float64(s.TotalTasks)))
	}
	return s
}

func priorityRank(p service.Priority) int {
	switch p {
	case service.PriorityHigh:
		return 0
	case service.PriorityMedium:
		return 1
	default:
		return 2
	}
}

// ComputePriorities returns open HIGH and MEDIUM tasks, HIGH first, keeping
// input order within a priority, capped at MaxPriorities.
func ComputePriorities(tasks []service.Task) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == service.StatusDone {
			continue
		}
		if t.Priority != service.PriorityHigh && t.Priority != service.PriorityMedium {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank(out[i].Priority) < priorityRank(out[j].Priority)
	})
	if len(out) > MaxPriorities {
		out = out[:MaxPriorities]
	}
	return out
}

// ComputeRecentFeed returns the newest tasks first, capped at MaxRecent.
// Tasks with equal timestamps keep their input order.
func ComputeRecentFeed(tasks []service.Task) []service.Task {
	out := append([]service.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > MaxRecent {
		out = out[:MaxRecent]
	}
	if out == nil {
		out = []service.Task{}
	}
	return out
}

// WorkspaceName resolves a workspace label, falling back to
// PlaceholderWorkspace when the id is unknown or the name is blank.
func WorkspaceName(workspaces []service.Workspace, id string) string {
	for _, w := range workspaces {
		if w.ID == id {
			if w.Name == "" {
				return PlaceholderWorkspace
			}
			return w.Name
		}
	}
	return PlaceholderWorkspace
}
