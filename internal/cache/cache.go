// Package cache holds the last known state of every entity the client has
// fetched. It is the single source of truth for rendering.
//
// The cache stores entities by kind and id plus a few named view slots. It
// enforces no cross-entity invariants: a task may reference a workspace that
// is no longer cached, and readers must cope with that.
package cache

import (
	"sync"

	"taskhub/internal/service"
)

// Kind names an entity collection.
type Kind string

const (
	KindWorkspace Kind = "workspace"
	KindTask      Kind = "task"
	KindMember    Kind = "member"
)

// Slot names a view.
type Slot string

const (
	SlotWorkspaces Slot = "workspaces"
	SlotProfile    Slot = "profile"
	SlotDetail     Slot = "detail"
	SlotLogs       Slot = "logs"
)

// TasksSlot is the ordered task id list of one workspace.
func TasksSlot(workspaceID string) Slot { return Slot("tasks:" + workspaceID) }

// MembersSlot is the ordered member key list of one workspace.
func MembersSlot(workspaceID string) Slot { return Slot("members:" + workspaceID) }

// Cache is safe for concurrent use. Updates become visible in the order they
// are applied, which is response-arrival order for remote results.
type Cache struct {
	mu       sync.RWMutex
	entities map[Kind]map[string]any
	views    map[Slot]any
	rev      uint64

	wmu      sync.Mutex
	watchers []func(rev uint64)
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entities: make(map[Kind]map[string]any),
		views:    make(map[Slot]any),
	}
}

// Get returns the entity stored under kind and id.
func (c *Cache) Get(kind Kind, id string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entities[kind][id]
	return v, ok
}

// Put stores an entity.
func (c *Cache) Put(kind Kind, id string, entity any) {
	c.write(func() { c.put(kind, id, entity) })
}

// Remove deletes an entity. Removing a missing entity is a no-op.
func (c *Cache) Remove(kind Kind, id string) {
	c.write(func() { delete(c.entities[kind], id) })
}

// ReplaceView sets a view slot. A nil value clears it.
func (c *Cache) ReplaceView(slot Slot, value any) {
	c.write(func() { c.setView(slot, value) })
}

// View returns the value of a view slot.
func (c *Cache) View(slot Slot) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.views[slot]
	return v, ok
}

// Revision increases on every write.
func (c *Cache) Revision() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rev
}

// Watch registers fn to run after every write, outside the cache lock.
func (c *Cache) Watch(fn func(rev uint64)) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	c.watchers = append(c.watchers, fn)
}

// write applies fn under the lock, bumps the revision, then notifies
// watchers.
func (c *Cache) write(fn func()) {
	c.mu.Lock()
	fn()
	c.rev++
	rev := c.rev
	c.mu.Unlock()

	c.wmu.Lock()
	watchers := append([]func(uint64){}, c.watchers...)
	c.wmu.Unlock()
	for _, w := range watchers {
		w(rev)
	}
}

func (c *Cache) put(kind Kind, id string, entity any) {
	m, ok := c.entities[kind]
	if !ok {
		m = make(map[string]any)
		c.entities[kind] = m
	}
	m[id] = entity
}

func (c *Cache) setView(slot Slot, value any) {
	if value == nil {
		delete(c.views, slot)
		return
	}
	c.views[slot] = value
}

func (c *Cache) ids(slot Slot) []string {
	ids, _ := c.views[slot].([]string)
	return ids
}

// SetProfile stores the signed-in user's profile.
func (c *Cache) SetProfile(u service.User) {
	c.ReplaceView(SlotProfile, u)
}

// Profile returns the cached profile.
func (c *Cache) Profile() (service.User, bool) {
	v, ok := c.View(SlotProfile)
	if !ok {
		return service.User{}, false
	}
	u, ok := v.(service.User)
	return u, ok
}
