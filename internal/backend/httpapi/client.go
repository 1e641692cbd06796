// Package httpapi implements the service.Service interface over the task API's HTTP/JSON contract.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"taskhub/internal/config"
	"taskhub/internal/service"
)

// Client implements service.Service using the task API.
type Client struct {
	gw *Gateway
}

// New creates a client for cfg.APIURL. tokens supplies the bearer credential.
func New(cfg *config.Config, tokens oauth2.TokenSource, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url: %q", cfg.APIURL)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &Client{gw: NewGateway(cfg.APIURL, httpClient, tokens, logger)}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, tokens oauth2.TokenSource) *Client {
	return &Client{gw: NewGateway(baseURL, httpClient, tokens, nil)}
}

func seg(id string) string {
	return url.PathEscape(id)
}

func isEmpty(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var reply loginReply
	const op = "POST /auth/login"
	if err := c.gw.Call(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &reply); err != nil {
		return "", err
	}
	if reply.AccessToken == "" {
		return "", &service.Error{Kind: service.MalformedResponse, Op: op, Err: fmt.Errorf("missing access_token")}
	}
	return reply.AccessToken, nil
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, r service.Registration) error {
	return c.gw.Call(ctx, http.MethodPost, "/users", registerRequest{Name: r.Name, Email: r.Email, Password: r.Password}, nil)
}

// Profile implements service.Service.
func (c *Client) Profile(ctx context.Context) (service.User, error) {
	var w wireUser
	if err := c.gw.Call(ctx, http.MethodGet, "/users/profile", nil, &w); err != nil {
		return service.User{}, err
	}
	return w.toService(), nil
}

// UpdateProfile implements service.Service.
func (c *Client) UpdateProfile(ctx context.Context, u service.ProfileUpdate) error {
	return c.gw.Call(ctx, http.MethodPatch, "/users/me", profileRequest{Name: u.Name, Password: u.Password}, nil)
}

// ListWorkspaces implements service.Service.
func (c *Client) ListWorkspaces(ctx context.Context) ([]service.Workspace, error) {
	var ws []wireWorkspace
	if err := c.gw.Call(ctx, http.MethodGet, "/workspaces", nil, &ws); err != nil {
		return nil, err
	}
	result := make([]service.Workspace, 0, len(ws))
	for _, w := range ws {
		result = append(result, w.toService())
	}
	return result, nil
}

// CreateWorkspace implements service.Service.
func (c *Client) CreateWorkspace(ctx context.Context, name string) (service.Workspace, error) {
	var w wireWorkspace
	if err := c.gw.Call(ctx, http.MethodPost, "/workspaces", nameRequest{Name: name}, &w); err != nil {
		return service.Workspace{}, err
	}
	return w.toService(), nil
}

// DeleteWorkspace implements service.Service.
func (c *Client) DeleteWorkspace(ctx context.Context, id string) error {
	return c.gw.Call(ctx, http.MethodDelete, "/workspaces/"+seg(id), nil, nil)
}

// ListMembers implements service.Service.
func (c *Client) ListMembers(ctx context.Context, workspaceID string) ([]service.Member, error) {
	var ms []wireMember
	if err := c.gw.Call(ctx, http.MethodGet, "/workspaces/"+seg(workspaceID)+"/members", nil, &ms); err != nil {
		return nil, err
	}
	result := make([]service.Member, 0, len(ms))
	for _, m := range ms {
		result = append(result, m.toService())
	}
	return result, nil
}

// InviteMember implements service.Service.
func (c *Client) InviteMember(ctx context.Context, workspaceID, email string) error {
	return c.gw.Call(ctx, http.MethodPost, "/workspaces/"+seg(workspaceID)+"/invite", emailRequest{Email: email}, nil)
}

// RemoveMember implements service.Service.
func (c *Client) RemoveMember(ctx context.Context, workspaceID, memberID string) error {
	return c.gw.Call(ctx, http.MethodDelete, "/workspaces/"+seg(workspaceID)+"/members/"+seg(memberID), nil, nil)
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context, workspaceID string) ([]service.Task, error) {
	var ts []wireTask
	if err := c.gw.Call(ctx, http.MethodGet, "/tasks/workspace/"+seg(workspaceID), nil, &ts); err != nil {
		return nil, err
	}
	result := make([]service.Task, 0, len(ts))
	for _, t := range ts {
		task := t.toService()
		if task.WorkspaceID == "" {
			task.WorkspaceID = workspaceID
		}
		result = append(result, task)
	}
	return result, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, t service.NewTask) (service.Task, error) {
	req := newTaskRequest{
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		WorkspaceID: t.WorkspaceID,
	}
	var w wireTask
	if err := c.gw.Call(ctx, http.MethodPost, "/tasks", req, &w); err != nil {
		return service.Task{}, err
	}
	task := w.toService()
	if task.WorkspaceID == "" {
		task.WorkspaceID = t.WorkspaceID
	}
	return task, nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id string, p service.TaskPatch) (*service.Task, error) {
	var req taskPatchRequest
	if p.Status != nil {
		s := string(*p.Status)
		req.Status = &s
	}

	var raw json.RawMessage
	if err := c.gw.Call(ctx, http.MethodPatch, "/tasks/"+seg(id), req, &raw); err != nil {
		return nil, err
	}
	if isEmpty(raw) {
		return nil, nil
	}
	var w wireTask
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, &service.Error{Kind: service.MalformedResponse, Op: "PATCH /tasks/" + seg(id), Err: err}
	}
	task := w.toService()
	return &task, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.gw.Call(ctx, http.MethodDelete, "/tasks/"+seg(id), nil, nil)
}

// TaskDetail implements service.Service.
func (c *Client) TaskDetail(ctx context.Context, id string) (service.TaskDetail, error) {
	var w wireDetail
	if err := c.gw.Call(ctx, http.MethodGet, "/tasks/"+seg(id)+"/details", nil, &w); err != nil {
		return service.TaskDetail{}, err
	}
	d := w.toService()
	if d.ID == "" {
		d.ID = id
	}
	return d, nil
}

// AddChecklistItem implements service.Service.
func (c *Client) AddChecklistItem(ctx context.Context, taskID, title string) (service.ChecklistItem, error) {
	var w wireChecklistItem
	if err := c.gw.Call(ctx, http.MethodPost, "/tasks/"+seg(taskID)+"/checklist", checklistAddRequest{Title: title}, &w); err != nil {
		return service.ChecklistItem{}, err
	}
	return w.toService(), nil
}

// SetChecklistItem implements service.Service.
func (c *Client) SetChecklistItem(ctx context.Context, itemID string, completed bool) (*service.ChecklistItem, error) {
	var raw json.RawMessage
	path := "/tasks/checklist/" + seg(itemID)
	if err := c.gw.Call(ctx, http.MethodPatch, path, checklistSetRequest{IsCompleted: completed}, &raw); err != nil {
		return nil, err
	}
	if isEmpty(raw) {
		return nil, nil
	}
	var w wireChecklistItem
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, &service.Error{Kind: service.MalformedResponse, Op: "PATCH " + path, Err: err}
	}
	item := w.toService()
	return &item, nil
}

// UploadAttachment implements service.Service.
func (c *Client) UploadAttachment(ctx context.Context, taskID, fileName string, content io.Reader) (service.Attachment, error) {
	var w wireAttachment
	fields := map[string]string{"taskId": taskID}
	if err := c.gw.Upload(ctx, "/attachments/upload", "file", fileName, content, fields, &w); err != nil {
		return service.Attachment{}, err
	}
	a := w.toService()
	if a.FileName == "" {
		a.FileName = fileName
	}
	return a, nil
}

// DownloadAttachment implements service.Service.
func (c *Client) DownloadAttachment(ctx context.Context, id string) ([]byte, error) {
	return c.gw.DownloadBlob(ctx, "/attachments/download/"+seg(id))
}

// DeleteAttachment implements service.Service.
func (c *Client) DeleteAttachment(ctx context.Context, id string) error {
	return c.gw.Call(ctx, http.MethodDelete, "/attachments/"+seg(id), nil, nil)
}

// TaskLogs implements service.Service.
func (c *Client) TaskLogs(ctx context.Context, taskID string) ([]service.ActivityLog, error) {
	var ls []wireLog
	if err := c.gw.Call(ctx, http.MethodGet, "/logs/task/"+seg(taskID), nil, &ls); err != nil {
		return nil, err
	}
	result := make([]service.ActivityLog, 0, len(ls))
	for _, l := range ls {
		result = append(result, l.toService())
	}
	return result, nil
}

var _ service.Service = (*Client)(nil)
