package httpapi

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"taskhub/internal/service"
)

// Fallback labels for fields the server may omit.
const (
	unnamedMember = "Unnamed"
	defaultRole   = "Member"
	unknownAuthor = "User"
)

// flexID accepts ids encoded as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// parseTime accepts RFC 3339 timestamps and bare dates. Anything else is the
// zero time.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}

func parseTimePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t := parseTime(*s)
	if t.IsZero() {
		return nil
	}
	return &t
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReply struct {
	AccessToken string `json:"access_token"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}

type wireUser struct {
	ID    flexID `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (w wireUser) toService() service.User {
	return service.User{ID: string(w.ID), Name: w.Name, Email: w.Email}
}

type nameRequest struct {
	Name string `json:"name"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type wireWorkspace struct {
	ID        flexID `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	OwnerID   flexID `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
}

func (w wireWorkspace) toService() service.Workspace {
	role := strings.TrimSpace(w.Role)
	if role == "" {
		role = defaultRole
	}
	return service.Workspace{
		ID:        string(w.ID),
		Name:      w.Name,
		Role:      role,
		OwnerID:   string(w.OwnerID),
		CreatedAt: parseTime(w.CreatedAt),
	}
}

type wireMember struct {
	ID    flexID `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (w wireMember) toService() service.Member {
	m := service.Member{ID: string(w.ID), Name: w.Name, Email: w.Email, Role: w.Role}
	if strings.TrimSpace(m.Name) == "" {
		m.Name = unnamedMember
	}
	if strings.TrimSpace(m.Role) == "" {
		m.Role = defaultRole
	}
	return m
}

type wireTask struct {
	ID          flexID  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	WorkspaceID flexID  `json:"workspaceId"`
	CreatedAt   string  `json:"createdAt"`
	DueDate     *string `json:"dueDate"`
}

func (w wireTask) toService() service.Task {
	t := service.Task{
		ID:          string(w.ID),
		Title:       w.Title,
		Status:      service.Status(w.Status),
		Priority:    service.Priority(w.Priority),
		WorkspaceID: string(w.WorkspaceID),
		CreatedAt:   parseTime(w.CreatedAt),
		DueDate:     parseTimePtr(w.DueDate),
	}
	if w.Description != nil {
		t.Description = *w.Description
	}
	return t
}

type newTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	WorkspaceID string `json:"workspaceId"`
}

type taskPatchRequest struct {
	Status *string `json:"status,omitempty"`
}

type wireChecklistItem struct {
	ID          flexID `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

func (w wireChecklistItem) toService() service.ChecklistItem {
	return service.ChecklistItem{ID: string(w.ID), Title: w.Title, IsCompleted: w.IsCompleted}
}

type wireAttachment struct {
	ID       flexID `json:"id"`
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
}

func (w wireAttachment) toService() service.Attachment {
	return service.Attachment{ID: string(w.ID), FileName: w.FileName, FilePath: w.FilePath}
}

type wireDetail struct {
	wireTask
	Checklists  []wireChecklistItem `json:"checklists"`
	Attachments []wireAttachment    `json:"attachments"`
}

func (w wireDetail) toService() service.TaskDetail {
	d := service.TaskDetail{
		Task:        w.wireTask.toService(),
		Checklists:  make([]service.ChecklistItem, 0, len(w.Checklists)),
		Attachments: make([]service.Attachment, 0, len(w.Attachments)),
	}
	for _, c := range w.Checklists {
		d.Checklists = append(d.Checklists, c.toService())
	}
	for _, a := range w.Attachments {
		d.Attachments = append(d.Attachments, a.toService())
	}
	return d
}

type checklistAddRequest struct {
	Title string `json:"title"`
}

type checklistSetRequest struct {
	IsCompleted bool `json:"isCompleted"`
}

type wireLog struct {
	ID        flexID `json:"id"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	CreatedAt string `json:"createdAt"`
	UserName  string `json:"userName"`
}

func (w wireLog) toService() service.ActivityLog {
	l := service.ActivityLog{
		ID:        string(w.ID),
		Action:    w.Action,
		Details:   w.Details,
		CreatedAt: parseTime(w.CreatedAt),
		UserName:  w.UserName,
	}
	if strings.TrimSpace(l.UserName) == "" {
		l.UserName = unknownAuthor
	}
	return l
}
