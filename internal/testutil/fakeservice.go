// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskhub/internal/service"
)

// Rejection builds the error a server refusal produces.
func Rejection(status int, message string) error {
	return &service.Error{Kind: service.Rejected, Op: "fake", Status: status, Message: message}
}

// ErrOffline is the error an unreachable server produces.
var ErrOffline = &service.Error{Kind: service.NetworkFailure, Op: "fake", Err: errors.New("connection refused")}

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = Rejection(http.StatusNotFound, "Not Found")

// FakeService is an in-memory implementation of service.Service for testing.
// It records activity log entries the way the server does, as a side
// effect of checklist, attachment and status changes.
type FakeService struct {
	mu sync.RWMutex

	profile    service.User
	passwords  map[string]string // email -> password
	workspaces []service.Workspace
	tasks      map[string][]service.Task // workspaceID -> tasks
	members    map[string][]service.Member
	checklists map[string][]service.ChecklistItem // taskID -> items
	files      map[string][]service.Attachment    // taskID -> attachments
	blobs      map[string][]byte                  // attachmentID -> content
	logs       map[string][]service.ActivityLog   // taskID -> newest first
	now        time.Time
	calls      []string

	// Before, if set, runs at the start of every call with the operation
	// name and its primary id. Tests block in it to hold a call in flight.
	Before func(op, id string)

	// Error injection for testing
	LoginErr            error
	RegisterErr         error
	ProfileErr          error
	UpdateProfileErr    error
	ListWorkspacesErr   error
	CreateWorkspaceErr  error
	DeleteWorkspaceErr  error
	ListMembersErr      error
	InviteMemberErr     error
	RemoveMemberErr     error
	ListTasksErr        map[string]error // workspaceID -> error
	CreateTaskErr       error
	UpdateTaskErr       error
	DeleteTaskErr       error
	TaskDetailErr       error
	AddChecklistItemErr error
	SetChecklistItemErr error
	UploadErr           error
	DownloadErr         error
	DeleteAttachmentErr error
	TaskLogsErr         error

	// EmptyUpdateReply makes UpdateTask and SetChecklistItem answer with no
	// body, as some server versions do.
	EmptyUpdateReply bool
}

// NewFakeService creates an empty FakeService signed in as a default user.
func NewFakeService() *FakeService {
	return &FakeService{
		profile:      service.User{ID: "u1", Name: "Test User", Email: "test@example.com"},
		passwords:    map[string]string{"test@example.com": "secret"},
		tasks:        make(map[string][]service.Task),
		members:      make(map[string][]service.Member),
		checklists:   make(map[string][]service.ChecklistItem),
		files:        make(map[string][]service.Attachment),
		blobs:        make(map[string][]byte),
		logs:         make(map[string][]service.ActivityLog),
		ListTasksErr: make(map[string]error),
		now:          time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func newID() string { return uuid.NewString() }

// tick advances the fake clock so every record has a distinct timestamp.
func (f *FakeService) tick() time.Time {
	f.now = f.now.Add(time.Minute)
	return f.now
}

func (f *FakeService) enter(op, id string) {
	f.mu.Lock()
	f.calls = append(f.calls, op+" "+id)
	f.mu.Unlock()
	if f.Before != nil {
		f.Before(op, id)
	}
}

// Calls returns the operations invoked so far, as "op id".
func (f *FakeService) Calls() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.calls...)
}

// CallCount counts invocations of op.
func (f *FakeService) CallCount(op string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, c := range f.calls {
		if len(c) >= len(op) && c[:len(op)] == op && (len(c) == len(op) || c[len(op)] == ' ') {
			n++
		}
	}
	return n
}

// AddWorkspace seeds a workspace.
func (f *FakeService) AddWorkspace(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workspaces = append(f.workspaces, service.Workspace{
		ID: id, Name: name, Role: "OWNER", OwnerID: f.profile.ID, CreatedAt: f.tick(),
	})
	f.members[id] = append(f.members[id], service.Member{
		ID: f.profile.ID, Name: f.profile.Name, Email: f.profile.Email, Role: "OWNER",
	})
	if _, ok := f.tasks[id]; !ok {
		f.tasks[id] = []service.Task{}
	}
}

// AddTask seeds a task and returns it.
func (f *FakeService) AddTask(workspaceID, id, title string, status service.Status, priority service.Priority) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{
		ID: id, Title: title, Status: status, Priority: priority,
		WorkspaceID: workspaceID, CreatedAt: f.tick(),
	}
	f.tasks[workspaceID] = append(f.tasks[workspaceID], t)
	return t
}

// AddMember seeds a workspace member.
func (f *FakeService) AddMember(workspaceID string, m service.Member) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[workspaceID] = append(f.members[workspaceID], m)
}

// AddChecklist seeds a checklist item.
func (f *FakeService) AddChecklist(taskID string, item service.ChecklistItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checklists[taskID] = append(f.checklists[taskID], item)
}

// AddAttachment seeds an attachment with content.
func (f *FakeService) AddAttachment(taskID string, a service.Attachment, content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[taskID] = append(f.files[taskID], a)
	f.blobs[a.ID] = append([]byte(nil), content...)
}

// StoredTask returns the server-side copy of a task.
func (f *FakeService) StoredTask(id string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ws, i := f.findTask(id)
	if i < 0 {
		return service.Task{}, false
	}
	return f.tasks[ws][i], true
}

// Checklist returns the server-side checklist of a task.
func (f *FakeService) Checklist(taskID string) []service.ChecklistItem {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.ChecklistItem(nil), f.checklists[taskID]...)
}

// Invited reports whether email is a member of the workspace.
func (f *FakeService) Invited(workspaceID, email string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, m := range f.members[workspaceID] {
		if m.Email == email {
			return true
		}
	}
	return false
}

func (f *FakeService) findTask(id string) (string, int) {
	for ws, tasks := range f.tasks {
		for i, t := range tasks {
			if t.ID == id {
				return ws, i
			}
		}
	}
	return "", -1
}

func (f *FakeService) record(taskID, action, details string) {
	entry := service.ActivityLog{
		ID: newID(), Action: action, Details: details,
		CreatedAt: f.tick(), UserName: f.profile.Name,
	}
	f.logs[taskID] = append([]service.ActivityLog{entry}, f.logs[taskID]...)
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, email, password string) (string, error) {
	f.enter("Login", email)
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if pw, ok := f.passwords[email]; !ok || pw != password {
		return "", Rejection(http.StatusUnauthorized, "Invalid credentials")
	}
	return "token-" + email, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, r service.Registration) error {
	f.enter("Register", r.Email)
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.passwords[r.Email]; exists {
		return Rejection(http.StatusConflict, "Email already registered")
	}
	f.passwords[r.Email] = r.Password
	return nil
}

// Profile implements service.Service.
func (f *FakeService) Profile(ctx context.Context) (service.User, error) {
	f.enter("Profile", "")
	if f.ProfileErr != nil {
		return service.User{}, f.ProfileErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.profile, nil
}

// UpdateProfile implements service.Service.
func (f *FakeService) UpdateProfile(ctx context.Context, u service.ProfileUpdate) error {
	f.enter("UpdateProfile", "")
	if f.UpdateProfileErr != nil {
		return f.UpdateProfileErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile.Name = u.Name
	if u.Password != "" {
		f.passwords[f.profile.Email] = u.Password
	}
	return nil
}

// ListWorkspaces implements service.Service.
func (f *FakeService) ListWorkspaces(ctx context.Context) ([]service.Workspace, error) {
	f.enter("ListWorkspaces", "")
	if f.ListWorkspacesErr != nil {
		return nil, f.ListWorkspacesErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Workspace{}, f.workspaces...), nil
}

// CreateWorkspace implements service.Service.
func (f *FakeService) CreateWorkspace(ctx context.Context, name string) (service.Workspace, error) {
	f.enter("CreateWorkspace", name)
	if f.CreateWorkspaceErr != nil {
		return service.Workspace{}, f.CreateWorkspaceErr
	}
	id := newID()
	f.AddWorkspace(id, name)
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.workspaces[len(f.workspaces)-1], nil
}

// DeleteWorkspace implements service.Service.
func (f *FakeService) DeleteWorkspace(ctx context.Context, id string) error {
	f.enter("DeleteWorkspace", id)
	if f.DeleteWorkspaceErr != nil {
		return f.DeleteWorkspaceErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.workspaces {
		if w.ID == id {
			f.workspaces = append(f.workspaces[:i:i], f.workspaces[i+1:]...)
			delete(f.tasks, id)
			delete(f.members, id)
			return nil
		}
	}
	return ErrNotFound
}

// ListMembers implements service.Service.
func (f *FakeService) ListMembers(ctx context.Context, workspaceID string) ([]service.Member, error) {
	f.enter("ListMembers", workspaceID)
	if f.ListMembersErr != nil {
		return nil, f.ListMembersErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Member{}, f.members[workspaceID]...), nil
}

// InviteMember implements service.Service.
func (f *FakeService) InviteMember(ctx context.Context, workspaceID, email string) error {
	f.enter("InviteMember", workspaceID)
	if f.InviteMemberErr != nil {
		return f.InviteMemberErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members[workspaceID] {
		if m.Email == email {
			return Rejection(http.StatusConflict, "User is already a member")
		}
	}
	f.members[workspaceID] = append(f.members[workspaceID], service.Member{
		ID: newID(), Name: strings.SplitN(email, "@", 2)[0], Email: email, Role: "MEMBER",
	})
	return nil
}

// RemoveMember implements service.Service.
func (f *FakeService) RemoveMember(ctx context.Context, workspaceID, memberID string) error {
	f.enter("RemoveMember", memberID)
	if f.RemoveMemberErr != nil {
		return f.RemoveMemberErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ms := f.members[workspaceID]
	for i, m := range ms {
		if m.ID == memberID {
			f.members[workspaceID] = append(ms[:i:i], ms[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, workspaceID string) ([]service.Task, error) {
	f.enter("ListTasks", workspaceID)
	f.mu.RLock()
	err := f.ListTasksErr[workspaceID]
	f.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	tasks, ok := f.tasks[workspaceID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]service.Task{}, tasks...), nil
}

// SetListTasksErr injects a failure for one workspace's task list.
func (f *FakeService) SetListTasksErr(workspaceID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListTasksErr[workspaceID] = err
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, nt service.NewTask) (service.Task, error) {
	f.enter("CreateTask", nt.WorkspaceID)
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[nt.WorkspaceID]; !ok {
		return service.Task{}, ErrNotFound
	}
	t := service.Task{
		ID: newID(), Title: nt.Title, Description: nt.Description,
		Status: service.StatusTodo, Priority: nt.Priority,
		WorkspaceID: nt.WorkspaceID, CreatedAt: f.tick(),
	}
	f.tasks[nt.WorkspaceID] = append(f.tasks[nt.WorkspaceID], t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, p service.TaskPatch) (*service.Task, error) {
	f.enter("UpdateTask", id)
	if f.UpdateTaskErr != nil {
		return nil, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ws, i := f.findTask(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	if p.Status != nil {
		f.tasks[ws][i].Status = *p.Status
		f.record(id, "STATUS_CHANGE", "Status changed to "+string(*p.Status))
	}
	if f.EmptyUpdateReply {
		return nil, nil
	}
	t := f.tasks[ws][i]
	return &t, nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.enter("DeleteTask", id)
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ws, i := f.findTask(id)
	if i < 0 {
		return ErrNotFound
	}
	tasks := f.tasks[ws]
	f.tasks[ws] = append(tasks[:i:i], tasks[i+1:]...)
	return nil
}

// TaskDetail implements service.Service.
func (f *FakeService) TaskDetail(ctx context.Context, id string) (service.TaskDetail, error) {
	f.enter("TaskDetail", id)
	if f.TaskDetailErr != nil {
		return service.TaskDetail{}, f.TaskDetailErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	ws, i := f.findTask(id)
	if i < 0 {
		return service.TaskDetail{}, ErrNotFound
	}
	return service.TaskDetail{
		Task:        f.tasks[ws][i],
		Checklists:  append([]service.ChecklistItem{}, f.checklists[id]...),
		Attachments: append([]service.Attachment{}, f.files[id]...),
	}, nil
}

// AddChecklistItem implements service.Service.
func (f *FakeService) AddChecklistItem(ctx context.Context, taskID, title string) (service.ChecklistItem, error) {
	f.enter("AddChecklistItem", taskID)
	if f.AddChecklistItemErr != nil {
		return service.ChecklistItem{}, f.AddChecklistItemErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	item := service.ChecklistItem{ID: newID(), Title: title}
	f.checklists[taskID] = append(f.checklists[taskID], item)
	f.record(taskID, "CHECK_ITEM_ADD", "Added "+title)
	return item, nil
}

// SetChecklistItem implements service.Service.
func (f *FakeService) SetChecklistItem(ctx context.Context, itemID string, completed bool) (*service.ChecklistItem, error) {
	f.enter("SetChecklistItem", itemID)
	if f.SetChecklistItemErr != nil {
		return nil, f.SetChecklistItemErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for taskID, items := range f.checklists {
		for i := range items {
			if items[i].ID != itemID {
				continue
			}
			items[i].IsCompleted = completed
			action := "CHECK_ITEM_UNDONE"
			if completed {
				action = "CHECK_ITEM_DONE"
			}
			f.record(taskID, action, items[i].Title)
			if f.EmptyUpdateReply {
				return nil, nil
			}
			item := items[i]
			return &item, nil
		}
	}
	return nil, ErrNotFound
}

// UploadAttachment implements service.Service.
func (f *FakeService) UploadAttachment(ctx context.Context, taskID, fileName string, content io.Reader) (service.Attachment, error) {
	f.enter("UploadAttachment", taskID)
	if f.UploadErr != nil {
		return service.Attachment{}, f.UploadErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return service.Attachment{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a := service.Attachment{ID: newID(), FileName: fileName, FilePath: "uploads/" + fileName}
	f.files[taskID] = append(f.files[taskID], a)
	f.blobs[a.ID] = data
	f.record(taskID, "ATTACHMENT_UPLOAD", fileName)
	return a, nil
}

// DownloadAttachment implements service.Service.
func (f *FakeService) DownloadAttachment(ctx context.Context, id string) ([]byte, error) {
	f.enter("DownloadAttachment", id)
	if f.DownloadErr != nil {
		return nil, f.DownloadErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	data, ok := f.blobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// DeleteAttachment implements service.Service.
func (f *FakeService) DeleteAttachment(ctx context.Context, id string) error {
	f.enter("DeleteAttachment", id)
	if f.DeleteAttachmentErr != nil {
		return f.DeleteAttachmentErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for taskID, files := range f.files {
		for i, a := range files {
			if a.ID == id {
				f.files[taskID] = append(files[:i:i], files[i+1:]...)
				delete(f.blobs, id)
				f.record(taskID, "ATTACHMENT_REMOVE", a.FileName)
				return nil
			}
		}
	}
	return ErrNotFound
}

// TaskLogs implements service.Service.
func (f *FakeService) TaskLogs(ctx context.Context, taskID string) ([]service.ActivityLog, error) {
	f.enter("TaskLogs", taskID)
	if f.TaskLogsErr != nil {
		return nil, f.TaskLogsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.ActivityLog{}, f.logs[taskID]...), nil
}

var _ service.Service = (*FakeService)(nil)
