package testutil

import (
	"sync"
	"time"

	"taskhub/internal/notify"
)

// Recorder is a notify.Notifier that keeps every notice.
type Recorder struct {
	mu      sync.Mutex
	notices []notify.Notice
}

// Notify implements notify.Notifier.
func (r *Recorder) Notify(n notify.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns the notices received so far.
func (r *Recorder) Notices() []notify.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notice(nil), r.notices...)
}

// Last returns the most recent notice.
func (r *Recorder) Last() (notify.Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return notify.Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Settler is a detail settle strategy that records each requested delay
// without sleeping.
type Settler struct {
	mu     sync.Mutex
	delays []time.Duration
}

// Delay records d and returns immediately.
func (s *Settler) Delay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
}

// Delays returns the recorded delays.
func (s *Settler) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

// Gate holds calls until released. Use Hold as a FakeService.Before hook.
// Each gated key blocks only its first call.
type Gate struct {
	mu    sync.Mutex
	gates map[string]*gate
}

type gate struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

// NewGate creates a gate that blocks the given "op id" keys.
func NewGate(keys ...string) *Gate {
	g := &Gate{gates: make(map[string]*gate)}
	for _, k := range keys {
		g.gates[k] = &gate{entered: make(chan struct{}), release: make(chan struct{})}
	}
	return g
}

func (g *Gate) get(op, id string) *gate {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gates[op+" "+id]
}

// Hold blocks a gated call until Release.
func (g *Gate) Hold(op, id string) {
	gt := g.get(op, id)
	if gt == nil {
		return
	}
	first := false
	gt.once.Do(func() {
		first = true
		close(gt.entered)
	})
	if first {
		<-gt.release
	}
}

// Entered returns a channel closed once the gated call has started.
func (g *Gate) Entered(op, id string) <-chan struct{} {
	return g.get(op, id).entered
}

// Release lets the gated call continue.
func (g *Gate) Release(op, id string) {
	close(g.get(op, id).release)
}
