package cache

import (
	"taskhub/internal/service"
)

// ReplaceWorkspaces installs a fresh workspace list. Tasks and members of
// workspaces missing from the new list are evicted.
func (c *Cache) ReplaceWorkspaces(ws []service.Workspace) {
	c.write(func() {
		keep := make(map[string]bool, len(ws))
		ids := make([]string, 0, len(ws))
		for _, w := range ws {
			keep[w.ID] = true
			ids = append(ids, w.ID)
			c.put(KindWorkspace, w.ID, w)
		}
		for _, old := range c.ids(SlotWorkspaces) {
			if !keep[old] {
				c.evictWorkspace(old)
			}
		}
		c.views[SlotWorkspaces] = ids
	})
}

// AddWorkspace appends a workspace to the list.
func (c *Cache) AddWorkspace(w service.Workspace) {
	c.write(func() {
		c.put(KindWorkspace, w.ID, w)
		c.views[SlotWorkspaces] = append(without(c.ids(SlotWorkspaces), w.ID), w.ID)
	})
}

// EvictWorkspace removes a workspace together with its tasks and members.
func (c *Cache) EvictWorkspace(id string) {
	c.write(func() { c.evictWorkspace(id) })
}

func (c *Cache) evictWorkspace(id string) {
	for _, tid := range c.ids(TasksSlot(id)) {
		delete(c.entities[KindTask], tid)
	}
	for _, key := range c.ids(MembersSlot(id)) {
		delete(c.entities[KindMember], key)
	}
	delete(c.views, TasksSlot(id))
	delete(c.views, MembersSlot(id))
	delete(c.entities[KindWorkspace], id)
	c.views[SlotWorkspaces] = without(c.ids(SlotWorkspaces), id)
}

// Workspaces returns the cached workspaces in list order.
func (c *Cache) Workspaces() []service.Workspace {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := c.ids(SlotWorkspaces)
	out := make([]service.Workspace, 0, len(ids))
	for _, id := range ids {
		if w, ok := c.entities[KindWorkspace][id].(service.Workspace); ok {
			out = append(out, w)
		}
	}
	return out
}

// Workspace returns one cached workspace.
func (c *Cache) Workspace(id string) (service.Workspace, bool) {
	v, ok := c.Get(KindWorkspace, id)
	if !ok {
		return service.Workspace{}, false
	}
	w, ok := v.(service.Workspace)
	return w, ok
}

// ReplaceTasks installs the task list of one workspace in server order.
func (c *Cache) ReplaceTasks(workspaceID string, tasks []service.Task) {
	c.write(func() {
		for _, old := range c.ids(TasksSlot(workspaceID)) {
			delete(c.entities[KindTask], old)
		}
		ids := make([]string, 0, len(tasks))
		for _, t := range tasks {
			if t.WorkspaceID == "" {
				t.WorkspaceID = workspaceID
			}
			ids = append(ids, t.ID)
			c.put(KindTask, t.ID, t)
		}
		c.views[TasksSlot(workspaceID)] = ids
	})
}

// AddTask prepends a task to its workspace list.
func (c *Cache) AddTask(t service.Task) {
	c.write(func() {
		slot := TasksSlot(t.WorkspaceID)
		ids := without(c.ids(slot), t.ID)
		c.views[slot] = append([]string{t.ID}, ids...)
		c.put(KindTask, t.ID, t)
	})
}

// UpdateTask applies fn to a cached task. It reports false when the task is
// not cached.
func (c *Cache) UpdateTask(id string, fn func(*service.Task)) bool {
	found := false
	c.write(func() {
		t, ok := c.entities[KindTask][id].(service.Task)
		if !ok {
			return
		}
		fn(&t)
		c.entities[KindTask][id] = t
		found = true
	})
	return found
}

// RemoveTask evicts a task from the entity store and its workspace list.
func (c *Cache) RemoveTask(id string) {
	c.write(func() {
		t, ok := c.entities[KindTask][id].(service.Task)
		delete(c.entities[KindTask], id)
		if ok {
			slot := TasksSlot(t.WorkspaceID)
			if _, has := c.views[slot]; has {
				c.views[slot] = without(c.ids(slot), id)
			}
			return
		}
		for slot := range c.views {
			if ids, isList := c.views[slot].([]string); isList && contains(ids, id) {
				c.views[slot] = without(ids, id)
			}
		}
	})
}

// Task returns one cached task.
func (c *Cache) Task(id string) (service.Task, bool) {
	v, ok := c.Get(KindTask, id)
	if !ok {
		return service.Task{}, false
	}
	t, ok := v.(service.Task)
	return t, ok
}

// TasksOf returns the cached tasks of one workspace in server order.
func (c *Cache) TasksOf(workspaceID string) []service.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tasksOf(workspaceID)
}

// HasTasks reports whether the task list of a workspace has been loaded.
func (c *Cache) HasTasks(workspaceID string) bool {
	_, ok := c.View(TasksSlot(workspaceID))
	return ok
}

func (c *Cache) tasksOf(workspaceID string) []service.Task {
	ids := c.ids(TasksSlot(workspaceID))
	out := make([]service.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := c.entities[KindTask][id].(service.Task); ok {
			out = append(out, t)
		}
	}
	return out
}

// Tasks returns the tasks of every cached workspace: workspace list order
// first, then server order within a workspace.
func (c *Cache) Tasks() []service.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []service.Task
	for _, ws := range c.ids(SlotWorkspaces) {
		out = append(out, c.tasksOf(ws)...)
	}
	return out
}

func memberKey(workspaceID, memberID string) string {
	return workspaceID + "/" + memberID
}

// ReplaceMembers installs the member list of one workspace.
func (c *Cache) ReplaceMembers(workspaceID string, members []service.Member) {
	c.write(func() {
		for _, old := range c.ids(MembersSlot(workspaceID)) {
			delete(c.entities[KindMember], old)
		}
		keys := make([]string, 0, len(members))
		for _, m := range members {
			key := memberKey(workspaceID, m.ID)
			keys = append(keys, key)
			c.put(KindMember, key, m)
		}
		c.views[MembersSlot(workspaceID)] = keys
	})
}

// RemoveMember evicts one membership.
func (c *Cache) RemoveMember(workspaceID, memberID string) {
	c.write(func() {
		key := memberKey(workspaceID, memberID)
		delete(c.entities[KindMember], key)
		slot := MembersSlot(workspaceID)
		if _, ok := c.views[slot]; ok {
			c.views[slot] = without(c.ids(slot), key)
		}
	})
}

// Members returns the cached members of one workspace.
func (c *Cache) Members(workspaceID string) []service.Member {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := c.ids(MembersSlot(workspaceID))
	out := make([]service.Member, 0, len(keys))
	for _, k := range keys {
		if m, ok := c.entities[KindMember][k].(service.Member); ok {
			out = append(out, m)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// without returns a copy of ids lacking id.
func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
