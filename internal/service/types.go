// Package service defines the backend-agnostic interface for workspace and task operations.
package service

import (
	"strings"
	"time"
)

// Status is a task's workflow state. Values outside the known set are kept
// verbatim so they can be rendered defensively.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Known reports whether s is one of the closed set of statuses.
func (s Status) Known() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Toggled returns the status a quick toggle moves to: DONE goes back to TODO,
// everything else (including unknown values) becomes DONE.
func (s Status) Toggled() Status {
	if s == StatusDone {
		return StatusTodo
	}
	return StatusDone
}

// Priority is a task's urgency.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Known reports whether p is one of the closed set of priorities.
func (p Priority) Known() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority parses a case-insensitive priority name.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	return p, p.Known()
}

// User is the authenticated account's profile.
type User struct {
	ID    string
	Name  string
	Email string
}

// Workspace is a named collaboration space.
type Workspace struct {
	ID        string
	Name      string
	Role      string
	OwnerID   string
	CreatedAt time.Time
}

// Task is a unit of work scoped to one workspace.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      Status
	Priority    Priority
	WorkspaceID string
	CreatedAt   time.Time
	DueDate     *time.Time
}

// ChecklistItem is a sub-step owned by one task detail.
type ChecklistItem struct {
	ID          string
	Title       string
	IsCompleted bool
}

// Attachment is a file reference owned by one task detail.
type Attachment struct {
	ID       string
	FileName string
	FilePath string
}

// TaskDetail is a task plus its checklist and attachments.
type TaskDetail struct {
	Task
	Checklists  []ChecklistItem
	Attachments []Attachment
}

// Clone returns a copy that shares no slices with d.
func (d TaskDetail) Clone() TaskDetail {
	out := d
	out.Checklists = append([]ChecklistItem(nil), d.Checklists...)
	out.Attachments = append([]Attachment(nil), d.Attachments...)
	if d.DueDate != nil {
		due := *d.DueDate
		out.DueDate = &due
	}
	return out
}

// Member is a user's membership in a workspace.
type Member struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// ActivityLog is one audit trail entry for a task.
type ActivityLog struct {
	ID        string
	Action    string
	Details   string
	CreatedAt time.Time
	UserName  string
}

// NewTask holds the fields sent when creating a task.
type NewTask struct {
	Title       string
	Description string
	Priority    Priority
	WorkspaceID string
}

// TaskPatch holds the fields to change on a task. Nil fields are left untouched.
type TaskPatch struct {
	Status *Status
}

// Registration holds the fields for creating an account.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// ProfileUpdate holds profile changes. An empty Password leaves it unchanged.
type ProfileUpdate struct {
	Name     string
	Password string
}
