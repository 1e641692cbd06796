package cache_test

import (
	"sync"
	"testing"

	"taskhub/internal/cache"
	"taskhub/internal/service"
)

func workspaces(ids ...string) []service.Workspace {
	out := make([]service.Workspace, 0, len(ids))
	for _, id := range ids {
		out = append(out, service.Workspace{ID: id, Name: "ws " + id})
	}
	return out
}

func TestGenericEntityStore(t *testing.T) {
	c := cache.New()

	if _, ok := c.Get(cache.KindTask, "t1"); ok {
		t.Fatal("expected empty cache")
	}

	c.Put(cache.KindTask, "t1", service.Task{ID: "t1", Title: "one"})
	v, ok := c.Get(cache.KindTask, "t1")
	if !ok || v.(service.Task).Title != "one" {
		t.Fatalf("unexpected entity %v", v)
	}

	c.Remove(cache.KindTask, "t1")
	c.Remove(cache.KindTask, "t1")
	if _, ok := c.Get(cache.KindTask, "t1"); ok {
		t.Error("expected entity removed")
	}
}

func TestReplaceView_NilClears(t *testing.T) {
	c := cache.New()
	c.ReplaceView(cache.SlotProfile, service.User{Name: "Ana"})
	if u, ok := c.Profile(); !ok || u.Name != "Ana" {
		t.Fatalf("unexpected profile %+v", u)
	}
	c.ReplaceView(cache.SlotProfile, nil)
	if _, ok := c.View(cache.SlotProfile); ok {
		t.Error("expected slot cleared")
	}
}

func TestTasks_WorkspaceThenServerOrder(t *testing.T) {
	c := cache.New()
	c.ReplaceWorkspaces(workspaces("w2", "w1"))
	c.ReplaceTasks("w1", []service.Task{{ID: "a"}, {ID: "b"}})
	c.ReplaceTasks("w2", []service.Task{{ID: "c"}})

	var got []string
	for _, task := range c.Tasks() {
		got = append(got, task.ID)
	}
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if task, _ := c.Task("a"); task.WorkspaceID != "w1" {
		t.Errorf("expected workspace id filled in, got %q", task.WorkspaceID)
	}
}

func TestReplaceTasks_DropsPreviousEntries(t *testing.T) {
	c := cache.New()
	c.ReplaceWorkspaces(workspaces("w1"))
	c.ReplaceTasks("w1", []service.Task{{ID: "a"}, {ID: "b"}})
	c.ReplaceTasks("w1", []service.Task{{ID: "b"}})

	if _, ok := c.Task("a"); ok {
		t.Error("expected stale task evicted")
	}
	if n := len(c.TasksOf("w1")); n != 1 {
		t.Errorf("expected 1 task, got %d", n)
	}
}

func TestReplaceWorkspaces_EvictsDependents(t *testing.T) {
	c := cache.New()
	c.ReplaceWorkspaces(workspaces("w1", "w2"))
	c.ReplaceTasks("w1", []service.Task{{ID: "a"}})
	c.ReplaceTasks("w2", []service.Task{{ID: "b"}})
	c.ReplaceMembers("w1", []service.Member{{ID: "m1"}})

	c.ReplaceWorkspaces(workspaces("w2"))

	if _, ok := c.Task("a"); ok {
		t.Error("expected task of vanished workspace evicted")
	}
	if len(c.Members("w1")) != 0 {
		t.Error("expected members of vanished workspace evicted")
	}
	if c.HasTasks("w1") {
		t.Error("expected task list of vanished workspace dropped")
	}
	if _, ok := c.Task("b"); !ok {
		t.Error("expected task of surviving workspace kept")
	}
}

func TestEvictWorkspace(t *testing.T) {
	c := cache.New()
	c.ReplaceWorkspaces(workspaces("w1", "w2"))
	c.ReplaceTasks("w1", []service.Task{{ID: "a"}})

	c.EvictWorkspace("w1")

	ws := c.Workspaces()
	if len(ws) != 1 || ws[0].ID != "w2" {
		t.Errorf("unexpected workspaces %+v", ws)
	}
	if _, ok := c.Task("a"); ok {
		t.Error("expected cascade eviction of tasks")
	}
	if len(c.Tasks()) != 0 {
		t.Error("expected no tasks")
	}
}

func TestAddWorkspaceAndTask(t *testing.T) {
	c := cache.New()
	c.ReplaceWorkspaces(workspaces("w1"))
	c.AddWorkspace(service.Workspace{ID: "w2"})
	c.AddWorkspace(service.Workspace{ID: "w2", Name: "renamed"})

	ws := c.Workspaces()
	if len(ws) != 2 || ws[1].Name != "renamed" {
		t.Fatalf("unexpected workspaces %+v", ws)
	}

	c.ReplaceTasks("w2", []service.Task{{ID: "old"}})
	c.AddTask(service.Task{ID: "new", WorkspaceID: "w2"})
	tasks := c.TasksOf("w2")
	if len(tasks) != 2 || tasks[0].ID != "new" {
		t.Errorf("expected new task first, got %+v", tasks)
	}
}

func TestUpdateTask(t *testing.T) {
	c := cache.New()
	c.ReplaceWorkspaces(workspaces("w1"))
	c.ReplaceTasks("w1", []service.Task{{ID: "a", Status: service.StatusTodo}})

	ok := c.UpdateTask("a", func(t *service.Task) { t.Status = service.StatusDone })
	if !ok {
		t.Fatal("expected update applied")
	}
	if task, _ := c.Task("a"); task.Status != service.StatusDone {
		t.Errorf("expected DONE, got %s", task.Status)
	}
	if c.UpdateTask("missing", func(*service.Task) {}) {
		t.Error("expected false for uncached task")
	}
}

func TestRemoveTask(t *testing.T) {
	c := cache.New()
	c.ReplaceWorkspaces(workspaces("w1"))
	c.ReplaceTasks("w1", []service.Task{{ID: "a"}, {ID: "b"}})

	c.RemoveTask("a")
	c.RemoveTask("missing")

	tasks := c.TasksOf("w1")
	if len(tasks) != 1 || tasks[0].ID != "b" {
		t.Errorf("unexpected tasks %+v", tasks)
	}
}

func TestMembers(t *testing.T) {
	c := cache.New()
	c.ReplaceMembers("w1", []service.Member{{ID: "m1", Role: "OWNER"}, {ID: "m2"}})
	c.ReplaceMembers("w2", []service.Member{{ID: "m1", Role: "MEMBER"}})

	c.RemoveMember("w1", "m1")

	if got := c.Members("w1"); len(got) != 1 || got[0].ID != "m2" {
		t.Errorf("unexpected w1 members %+v", got)
	}
	if got := c.Members("w2"); len(got) != 1 || got[0].Role != "MEMBER" {
		t.Errorf("expected w2 membership untouched, got %+v", got)
	}
}

func TestDetailSlot(t *testing.T) {
	c := cache.New()
	d := service.TaskDetail{
		Task:       service.Task{ID: "t1"},
		Checklists: []service.ChecklistItem{{ID: "c1"}},
	}
	c.SetDetail(d)

	d.Checklists[0].Title = "mutated by caller"
	got, ok := c.Detail()
	if !ok || got.Checklists[0].Title != "" {
		t.Fatalf("expected slot isolated from caller, got %+v", got)
	}

	got.Checklists[0].Title = "mutated by reader"
	again, _ := c.Detail()
	if again.Checklists[0].Title != "" {
		t.Error("expected slot isolated from readers")
	}

	if c.UpdateDetail("other", func(*service.TaskDetail) { t.Error("fn ran for wrong task") }) {
		t.Error("expected no update for a different task")
	}
	if !c.UpdateDetail("t1", func(d *service.TaskDetail) { d.Checklists[0].IsCompleted = true }) {
		t.Fatal("expected update applied")
	}
	again, _ = c.Detail()
	if !again.Checklists[0].IsCompleted {
		t.Error("expected checklist item completed")
	}
}

func TestLogsSlotIsTaskScoped(t *testing.T) {
	c := cache.New()
	c.SetLogs("t1", []service.ActivityLog{{ID: "l1"}})

	if _, ok := c.Logs("t2"); ok {
		t.Error("expected no logs for another task")
	}
	logs, ok := c.Logs("t1")
	if !ok || len(logs) != 1 {
		t.Fatalf("unexpected logs %+v", logs)
	}

	c.SetDetail(service.TaskDetail{Task: service.Task{ID: "t1"}})
	c.ClearDetail()
	if _, ok := c.Detail(); ok {
		t.Error("expected detail cleared")
	}
	if _, ok := c.Logs("t1"); ok {
		t.Error("expected logs cleared")
	}
}

func TestWatchRunsAfterEveryWrite(t *testing.T) {
	c := cache.New()

	var mu sync.Mutex
	var revs []uint64
	c.Watch(func(rev uint64) {
		// Reading inside a watcher must not deadlock.
		_ = c.Workspaces()
		mu.Lock()
		revs = append(revs, rev)
		mu.Unlock()
	})

	c.ReplaceWorkspaces(workspaces("w1"))
	c.ReplaceTasks("w1", nil)

	mu.Lock()
	defer mu.Unlock()
	if len(revs) != 2 || revs[0] != 1 || revs[1] != 2 {
		t.Errorf("unexpected revisions %v", revs)
	}
	if c.Revision() != 2 {
		t.Errorf("expected revision 2, got %d", c.Revision())
	}
}

func TestConcurrentWriters(t *testing.T) {
	c := cache.New()
	c.ReplaceWorkspaces(workspaces("w1"))
	c.ReplaceTasks("w1", []service.Task{{ID: "a"}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.UpdateTask("a", func(t *service.Task) { t.Status = t.Status.Toggled() })
		}()
		go func() {
			defer wg.Done()
			_ = c.Tasks()
		}()
	}
	wg.Wait()

	if task, _ := c.Task("a"); task.Status != service.StatusTodo && task.Status != service.StatusDone {
		t.Errorf("unexpected status %q", task.Status)
	}
}
