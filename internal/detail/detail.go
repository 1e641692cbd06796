// Package detail owns the lifecycle of the open task view: the task with
// its checklist and attachments, plus its activity log.
//
// A view moves Closed -> Loading -> Ready and back to Closed when it is
// dismissed or its load fails. Every Open starts a new generation; results
// that arrive for an older generation are dropped, so a slow fetch for one
// task never lands in the view of another.
package detail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"taskhub/internal/cache"
	"taskhub/internal/mutate"
	"taskhub/internal/notify"
	"taskhub/internal/service"
)

// State of the view.
type State int

const (
	Closed State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "closed"
	}
}

var (
	// ErrSuperseded is returned by Open when another Open or a Close
	// happened before its detail arrived.
	ErrSuperseded = errors.New("task view superseded")

	// ErrNotReady is returned by sub-mutations while no task is loaded.
	ErrNotReady = errors.New("no task open")
)

// Notice texts.
const (
	MsgAttached = "File attached!"
	MsgRemoved  = "File removed."
)

// Settler waits out the server's audit recording lag before the activity
// log is read again.
type Settler interface {
	Delay(d time.Duration)
}

// SleepSettler waits by sleeping.
type SleepSettler struct{}

// Delay implements Settler.
func (SleepSettler) Delay(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// Options configure a Synchronizer.
type Options struct {
	// SettleDelay is passed to Settler after a checklist toggle.
	SettleDelay time.Duration

	// Settler defaults to SleepSettler.
	Settler Settler

	Notifier notify.Notifier
	Logger   *log.Logger
}

// Synchronizer keeps the detail and log view slots of the cache in step
// with the open task.
type Synchronizer struct {
	svc       service.Service
	cache     *cache.Cache
	mutations *mutate.Engine
	notifier  notify.Notifier
	logger    *log.Logger
	settler   Settler
	settle    time.Duration

	mu     sync.Mutex
	state  State
	taskID string
	gen    uint64

	wg sync.WaitGroup
}

// New creates a closed synchronizer.
func New(svc service.Service, c *cache.Cache, mutations *mutate.Engine, opts Options) *Synchronizer {
	s := &Synchronizer{
		svc:       svc,
		cache:     c,
		mutations: mutations,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		settler:   opts.Settler,
		settle:    opts.SettleDelay,
	}
	if s.notifier == nil {
		s.notifier = notify.Discard
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	if s.settler == nil {
		s.settler = SleepSettler{}
	}
	return s
}

// State returns the current state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TaskID returns the task the view is showing or loading.
func (s *Synchronizer) TaskID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taskID
}

// Detail returns the loaded task detail.
func (s *Synchronizer) Detail() (service.TaskDetail, bool) {
	id, _, err := s.current()
	if err != nil {
		return service.TaskDetail{}, false
	}
	d, ok := s.cache.Detail()
	if !ok || d.ID != id {
		return service.TaskDetail{}, false
	}
	return d, true
}

// Logs returns the activity log of the open task, newest first. It is empty
// until the first log fetch succeeds.
func (s *Synchronizer) Logs() []service.ActivityLog {
	logs, _ := s.cache.Logs(s.TaskID())
	return logs
}

// Wait blocks until every background log refresh has finished.
func (s *Synchronizer) Wait() {
	s.wg.Wait()
}

// Open loads a task into the view. The previous task's detail and log are
// cleared at once. The log is fetched in the background after the detail
// arrives.
func (s *Synchronizer) Open(ctx context.Context, taskID string) (service.TaskDetail, error) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.state = Loading
	s.taskID = taskID
	s.cache.ClearDetail()
	s.mu.Unlock()

	d, err := s.svc.TaskDetail(ctx, taskID)

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		s.logger.Printf("drop detail of task %s: superseded", taskID)
		return service.TaskDetail{}, ErrSuperseded
	}
	if err != nil {
		s.state = Closed
		s.taskID = ""
		s.mu.Unlock()
		s.notifier.Notify(notify.Error(err, "Could not load the task."))
		return service.TaskDetail{}, err
	}
	if d.ID == "" {
		d.ID = taskID
	}
	s.cache.SetDetail(d)
	s.state = Ready
	s.mu.Unlock()

	s.refreshLater(ctx, taskID, gen, nil, 0)
	return d, nil
}

// Close dismisses the view. Results still in flight are dropped.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state = Closed
	s.taskID = ""
	s.cache.ClearDetail()
}

// current returns the ready task and its generation.
func (s *Synchronizer) current() (string, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		return "", 0, ErrNotReady
	}
	return s.taskID, s.gen, nil
}

// apply runs fn on the detail slot if gen is still the open session.
func (s *Synchronizer) apply(taskID string, gen uint64, fn func(*service.TaskDetail)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	return s.cache.UpdateDetail(taskID, fn)
}

// refreshLater re-reads the activity log in the background, once after
// (optionally) waiting for done and then for delay.
func (s *Synchronizer) refreshLater(ctx context.Context, taskID string, gen uint64, done <-chan struct{}, delay time.Duration) {
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if done != nil {
			<-done
		}
		if delay > 0 {
			s.settler.Delay(delay)
		}
		s.refresh(ctx, taskID, gen)
	}()
}

func (s *Synchronizer) refresh(ctx context.Context, taskID string, gen uint64) {
	logs, err := s.svc.TaskLogs(ctx, taskID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		s.logger.Printf("drop logs of task %s: superseded", taskID)
		return
	}
	if err != nil {
		s.logger.Printf("logs of task %s: %v", taskID, err)
		return
	}
	s.cache.SetLogs(taskID, logs)
}

// RefreshLogs re-reads the activity log of the open task and waits for it.
func (s *Synchronizer) RefreshLogs(ctx context.Context) error {
	id, gen, err := s.current()
	if err != nil {
		return err
	}
	s.refresh(ctx, id, gen)
	return nil
}

// AddChecklistItem appends an item to the open task's checklist.
func (s *Synchronizer) AddChecklistItem(ctx context.Context, title string) (service.ChecklistItem, error) {
	id, gen, err := s.current()
	if err != nil {
		return service.ChecklistItem{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return service.ChecklistItem{}, fmt.Errorf("checklist title: %w", mutate.ErrBlank)
	}

	item, err := s.svc.AddChecklistItem(ctx, id, title)
	if err != nil {
		s.notifier.Notify(notify.Error(err, "Could not add the item."))
		return service.ChecklistItem{}, err
	}
	if item.Title == "" {
		item.Title = title
	}
	s.apply(id, gen, func(d *service.TaskDetail) {
		d.Checklists = append(d.Checklists, item)
	})
	s.refreshLater(ctx, id, gen, nil, 0)
	return item, nil
}

// ToggleChecklistItem flips a checklist item optimistically. The activity
// log is re-read once the remote call returns and the settle delay passes.
func (s *Synchronizer) ToggleChecklistItem(ctx context.Context, itemID string) (bool, error) {
	id, gen, err := s.current()
	if err != nil {
		return false, err
	}
	next, op, err := s.mutations.ToggleChecklistItem(ctx, id, itemID)
	if err != nil {
		return false, err
	}
	s.refreshLater(ctx, id, gen, op.Done(), s.settle)
	return next, nil
}

// UploadAttachment attaches a file to the open task.
func (s *Synchronizer) UploadAttachment(ctx context.Context, fileName string, content io.Reader) (service.Attachment, error) {
	id, gen, err := s.current()
	if err != nil {
		return service.Attachment{}, err
	}

	a, err := s.svc.UploadAttachment(ctx, id, fileName, content)
	if err != nil {
		s.notifier.Notify(notify.Error(err, "Upload failed."))
		return service.Attachment{}, err
	}
	s.apply(id, gen, func(d *service.TaskDetail) {
		d.Attachments = append(d.Attachments, a)
	})
	s.notifier.Notify(notify.Ok(MsgAttached))
	s.refreshLater(ctx, id, gen, nil, 0)
	return a, nil
}

// DeleteAttachment removes a file from the open task.
func (s *Synchronizer) DeleteAttachment(ctx context.Context, attachmentID string) error {
	id, gen, err := s.current()
	if err != nil {
		return err
	}

	if err := s.svc.DeleteAttachment(ctx, attachmentID); err != nil {
		s.notifier.Notify(notify.Error(err, "Could not remove the file."))
		return err
	}
	s.apply(id, gen, func(d *service.TaskDetail) {
		kept := d.Attachments[:0]
		for _, a := range d.Attachments {
			if a.ID != attachmentID {
				kept = append(kept, a)
			}
		}
		d.Attachments = kept
	})
	s.notifier.Notify(notify.Ok(MsgRemoved))
	s.refreshLater(ctx, id, gen, nil, 0)
	return nil
}

// DownloadAttachment fetches a file's content. Nothing is cached.
func (s *Synchronizer) DownloadAttachment(ctx context.Context, attachmentID string) ([]byte, error) {
	data, err := s.svc.DownloadAttachment(ctx, attachmentID)
	if err != nil {
		s.notifier.Notify(notify.Error(err, "Download failed."))
		return nil, err
	}
	return data, nil
}
