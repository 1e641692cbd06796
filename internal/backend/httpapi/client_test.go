package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskhub/internal/config"
	"taskhub/internal/service"
	"taskhub/internal/session"
)

// newTestClient starts a server running handler and returns a client for it.
func newTestClient(t *testing.T, holder *session.Holder, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	if holder == nil {
		return NewWithHTTPClient(srv.URL, srv.Client(), nil)
	}
	return NewWithHTTPClient(srv.URL, srv.Client(), holder)
}

func TestGateway_AttachesBearerWhenSessionExists(t *testing.T) {
	holder := session.NewHolder()
	holder.Set(session.NewToken("secret"))

	var got string
	c := newTestClient(t, holder, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		io.WriteString(w, `[]`)
	})

	if _, err := c.ListWorkspaces(context.Background()); err != nil {
		t.Fatalf("ListWorkspaces: %v", err)
	}
	if got != "Bearer secret" {
		t.Errorf("expected bearer header, got %q", got)
	}
}

func TestGateway_OmitsHeaderWithoutSession(t *testing.T) {
	var present bool
	c := newTestClient(t, session.NewHolder(), func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["Authorization"]
		io.WriteString(w, `{"access_token":"tok"}`)
	})

	tok, err := c.Login(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok != "tok" {
		t.Errorf("expected tok, got %q", tok)
	}
	if present {
		t.Error("expected no Authorization header without a session")
	}
}

func TestGateway_NilTokenSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected Authorization header")
		}
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := NewWithHTTPClient(srv.URL, srv.Client(), nil)
	if _, err := c.ListWorkspaces(context.Background()); err != nil {
		t.Fatalf("ListWorkspaces: %v", err)
	}
}

func TestGateway_RejectedWithMessage(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"statusCode":409,"message":"User already in workspace","error":"Conflict"}`)
	})

	err := c.InviteMember(context.Background(), "ws1", "x@y.z")
	if !service.IsRejected(err) {
		t.Fatalf("expected rejected error, got %v", err)
	}
	if service.StatusOf(err) != http.StatusConflict {
		t.Errorf("expected status 409, got %d", service.StatusOf(err))
	}
	if msg := service.MessageOf(err); msg != "User already in workspace" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestGateway_RejectedWithMessageList(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"message":["email must be an email","password too short"]}`)
	})

	err := c.Register(context.Background(), service.Registration{Name: "n", Email: "bad", Password: "x"})
	if msg := service.MessageOf(err); msg != "email must be an email; password too short" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestGateway_RejectedWithoutBody(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	err := c.DeleteWorkspace(context.Background(), "ws1")
	if !service.IsRejected(err) {
		t.Fatalf("expected rejected error, got %v", err)
	}
	if service.StatusOf(err) != http.StatusForbidden {
		t.Errorf("expected 403, got %d", service.StatusOf(err))
	}
	if msg := service.MessageOf(err); msg != "" {
		t.Errorf("expected no message, got %q", msg)
	}
}

func TestGateway_RejectedWithGarbageBody(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `<html>oops</html>`)
	})

	err := c.DeleteTask(context.Background(), "t1")
	if !service.IsRejected(err) {
		t.Fatalf("expected rejected error, got %v", err)
	}
	if msg := service.MessageOf(err); msg != "" {
		t.Errorf("expected no message, got %q", msg)
	}
}

func TestGateway_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewWithHTTPClient(url, &http.Client{Timeout: time.Second}, nil)
	_, err := c.ListWorkspaces(context.Background())
	if !service.IsNetwork(err) {
		t.Fatalf("expected network failure, got %v", err)
	}
}

func TestGateway_MalformedResponse(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"not":"a list"}`)
	})

	_, err := c.ListTasks(context.Background(), "ws1")
	if !service.IsMalformed(err) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}

func TestLogin_MissingToken(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})

	_, err := c.Login(context.Background(), "a", "b")
	if !service.IsMalformed(err) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}

func TestListTasks_DecodesAndDefaults(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks/workspace/ws1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `[
			{"id":"t1","title":"Ship","status":"DONE","priority":"HIGH","workspaceId":"ws1","createdAt":"2024-05-01T10:00:00.000Z","dueDate":"2024-06-01"},
			{"id":7,"title":"Odd","status":"BLOCKED","priority":"URGENT","createdAt":"yesterday","description":null}
		]`)
	})

	tasks, err := c.ListTasks(context.Background(), "ws1")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	first := tasks[0]
	if first.Status != service.StatusDone || first.Priority != service.PriorityHigh {
		t.Errorf("unexpected enums: %s %s", first.Status, first.Priority)
	}
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if !first.CreatedAt.Equal(want) {
		t.Errorf("expected createdAt %v, got %v", want, first.CreatedAt)
	}
	if first.DueDate == nil || first.DueDate.Format("2006-01-02") != "2024-06-01" {
		t.Errorf("unexpected due date %v", first.DueDate)
	}

	second := tasks[1]
	if second.ID != "7" {
		t.Errorf("expected numeric id as string, got %q", second.ID)
	}
	if second.WorkspaceID != "ws1" {
		t.Errorf("expected workspace id filled from request, got %q", second.WorkspaceID)
	}
	if second.Status.Known() || second.Priority.Known() {
		t.Errorf("expected unknown enums preserved, got %s %s", second.Status, second.Priority)
	}
	if second.Status != "BLOCKED" {
		t.Errorf("expected raw status kept, got %q", second.Status)
	}
	if !second.CreatedAt.IsZero() {
		t.Errorf("expected zero createdAt for unparsable value, got %v", second.CreatedAt)
	}
}

func TestListMembers_Defaults(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":"m1","email":"a@b.c"},{"id":"m2","name":"Ana","email":"ana@b.c","role":"ADMIN"}]`)
	})

	members, err := c.ListMembers(context.Background(), "ws1")
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if members[0].Name != "Unnamed" || members[0].Role != "Member" {
		t.Errorf("expected defaults, got %+v", members[0])
	}
	if members[1].Name != "Ana" || members[1].Role != "ADMIN" {
		t.Errorf("unexpected member %+v", members[1])
	}
}

func TestTaskDetail_NullCollections(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":"t1","title":"T","status":"TODO","priority":"LOW","checklists":null}`)
	})

	d, err := c.TaskDetail(context.Background(), "t1")
	if err != nil {
		t.Fatalf("TaskDetail: %v", err)
	}
	if d.Checklists == nil || d.Attachments == nil {
		t.Fatal("expected empty, non-nil collections")
	}
	if len(d.Checklists) != 0 || len(d.Attachments) != 0 {
		t.Errorf("expected empty collections, got %+v", d)
	}
}

func TestUpdateTask_EmptyAndFullReply(t *testing.T) {
	reply := ""
	var body string
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		io.WriteString(w, reply)
	})

	done := service.StatusDone
	got, err := c.UpdateTask(context.Background(), "t1", service.TaskPatch{Status: &done})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil task for empty reply, got %+v", got)
	}
	if body != `{"status":"DONE"}` {
		t.Errorf("unexpected request body %s", body)
	}

	reply = `{"id":"t1","title":"T","status":"DONE","description":"from server"}`
	got, err = c.UpdateTask(context.Background(), "t1", service.TaskPatch{Status: &done})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got == nil || got.Description != "from server" {
		t.Errorf("expected decoded task, got %+v", got)
	}
}

func TestUploadAttachment_Multipart(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("taskId"); got != "t1" {
			t.Errorf("expected taskId t1, got %q", got)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "notes.txt" || string(data) != "hello" {
			t.Errorf("unexpected file %s %q", hdr.Filename, data)
		}
		io.WriteString(w, `{"id":"a1","fileName":"notes.txt","filePath":"uploads/notes.txt"}`)
	})

	a, err := c.UploadAttachment(context.Background(), "t1", "notes.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("UploadAttachment: %v", err)
	}
	if a.ID != "a1" || a.FilePath != "uploads/notes.txt" {
		t.Errorf("unexpected attachment %+v", a)
	}
}

func TestDownloadAttachment_Binary(t *testing.T) {
	payload := []byte{0x00, 0x01, 0xfe, 0xff}
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/attachments/download/a1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(payload)
	})

	got, err := c.DownloadAttachment(context.Background(), "a1")
	if err != nil {
		t.Fatalf("DownloadAttachment: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("unexpected payload %v", got)
	}
}

func TestTaskLogs_DefaultAuthor(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":"l1","action":"CHECK_ITEM_ADD","details":"Added","createdAt":"2024-01-01T00:00:00Z"}]`)
	})

	logs, err := c.TaskLogs(context.Background(), "t1")
	if err != nil {
		t.Fatalf("TaskLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].UserName != "User" {
		t.Errorf("expected default author, got %+v", logs)
	}
}

func TestPathSegmentsAreEscaped(t *testing.T) {
	var gotPath string
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
	})

	if err := c.DeleteAttachment(context.Background(), "a/b"); err != nil {
		t.Fatalf("DeleteAttachment: %v", err)
	}
	if gotPath != "/attachments/a%2Fb" {
		t.Errorf("expected escaped path, got %q", gotPath)
	}
}

func TestNew_RejectsBadURL(t *testing.T) {
	if _, err := New(&config.Config{APIURL: "ftp://example.com"}, nil, nil); err == nil {
		t.Fatal("expected error for non-http url")
	}
	if _, err := New(&config.Config{APIURL: "http://localhost:3000"}, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
