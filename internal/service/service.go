// Package service defines the backend-agnostic interface for workspace and task operations.
package service

import (
	"context"
	"io"
)

// Service defines the interface for remote operations.
// All API calls go through this interface; the engine packages never
// build HTTP requests themselves.
//
// Failed calls return a *Error.
type Service interface {
	// Login exchanges credentials for a bearer access token.
	Login(ctx context.Context, email, password string) (string, error)

	// Register creates an account.
	Register(ctx context.Context, r Registration) error

	// Profile returns the authenticated user.
	Profile(ctx context.Context) (User, error)

	// UpdateProfile changes the authenticated user's name and optionally password.
	UpdateProfile(ctx context.Context, u ProfileUpdate) error

	// ListWorkspaces returns the workspaces visible to the user in API order.
	ListWorkspaces(ctx context.Context) ([]Workspace, error)

	// CreateWorkspace creates a workspace owned by the user.
	CreateWorkspace(ctx context.Context, name string) (Workspace, error)

	// DeleteWorkspace deletes a workspace and, server-side, all its tasks.
	DeleteWorkspace(ctx context.Context, id string) error

	// ListMembers returns a workspace's members.
	ListMembers(ctx context.Context, workspaceID string) ([]Member, error)

	// InviteMember adds the user with the given email to a workspace.
	InviteMember(ctx context.Context, workspaceID, email string) error

	// RemoveMember removes a member from a workspace.
	RemoveMember(ctx context.Context, workspaceID, memberID string) error

	// ListTasks returns a workspace's tasks in API order.
	ListTasks(ctx context.Context, workspaceID string) ([]Task, error)

	// CreateTask creates a task.
	CreateTask(ctx context.Context, t NewTask) (Task, error)

	// UpdateTask patches a task. The returned task is nil when the server
	// answered without a body.
	UpdateTask(ctx context.Context, id string, p TaskPatch) (*Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id string) error

	// TaskDetail returns a task with its checklist and attachments.
	TaskDetail(ctx context.Context, id string) (TaskDetail, error)

	// AddChecklistItem appends a checklist item to a task.
	AddChecklistItem(ctx context.Context, taskID, title string) (ChecklistItem, error)

	// SetChecklistItem sets an item's completion. The returned item is nil
	// when the server answered without a body.
	SetChecklistItem(ctx context.Context, itemID string, completed bool) (*ChecklistItem, error)

	// UploadAttachment uploads a file to a task.
	UploadAttachment(ctx context.Context, taskID, fileName string, content io.Reader) (Attachment, error)

	// DownloadAttachment returns an attachment's content.
	DownloadAttachment(ctx context.Context, id string) ([]byte, error)

	// DeleteAttachment deletes an attachment.
	DeleteAttachment(ctx context.Context, id string) error

	// TaskLogs returns a task's activity log.
	TaskLogs(ctx context.Context, taskID string) ([]ActivityLog, error)
}
