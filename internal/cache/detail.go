package cache

import (
	"taskhub/internal/service"
)

// SetDetail fills the task detail slot. The slot owns its own copy of the
// checklist and attachment arrays.
func (c *Cache) SetDetail(d service.TaskDetail) {
	c.ReplaceView(SlotDetail, d.Clone())
}

// Detail returns a copy of the task detail slot.
func (c *Cache) Detail() (service.TaskDetail, bool) {
	v, ok := c.View(SlotDetail)
	if !ok {
		return service.TaskDetail{}, false
	}
	d, ok := v.(service.TaskDetail)
	if !ok {
		return service.TaskDetail{}, false
	}
	return d.Clone(), true
}

// UpdateDetail applies fn to the detail slot if it currently shows taskID.
// It reports whether fn ran.
func (c *Cache) UpdateDetail(taskID string, fn func(*service.TaskDetail)) bool {
	applied := false
	c.write(func() {
		d, ok := c.views[SlotDetail].(service.TaskDetail)
		if !ok || d.ID != taskID {
			return
		}
		d = d.Clone()
		fn(&d)
		c.views[SlotDetail] = d
		applied = true
	})
	return applied
}

// TaskLogs is the activity log slot, tagged with its task.
type TaskLogs struct {
	TaskID string
	Logs   []service.ActivityLog
}

// SetLogs fills the activity log slot for taskID.
func (c *Cache) SetLogs(taskID string, logs []service.ActivityLog) {
	c.ReplaceView(SlotLogs, TaskLogs{TaskID: taskID, Logs: append([]service.ActivityLog{}, logs...)})
}

// Logs returns the activity log slot if it belongs to taskID.
func (c *Cache) Logs(taskID string) ([]service.ActivityLog, bool) {
	v, ok := c.View(SlotLogs)
	if !ok {
		return nil, false
	}
	tl, ok := v.(TaskLogs)
	if !ok || tl.TaskID != taskID {
		return nil, false
	}
	return append([]service.ActivityLog{}, tl.Logs...), true
}

// ClearDetail empties both the detail and activity log slots.
func (c *Cache) ClearDetail() {
	c.write(func() {
		delete(c.views, SlotDetail)
		delete(c.views, SlotLogs)
	})
}
