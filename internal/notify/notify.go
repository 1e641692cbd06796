// Package notify carries transient user-visible notices out of the engine.
package notify

import (
	"fmt"
	"io"
	"sync"

	"taskhub/internal/service"
)

// Level is the severity of a notice.
type Level int

const (
	Success Level = iota
	Failure
)

func (l Level) String() string {
	if l == Failure {
		return "error"
	}
	return "ok"
}

// Fixed notice texts.
const (
	MsgConnection = "Connection error."
	MsgMalformed  = "Unexpected response from server."
)

// Notice is one transient message.
type Notice struct {
	Level   Level
	Kind    service.ErrorKind // zero for successes
	Message string
}

// Notifier receives notices. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(Notice)
}

// Func adapts a function to Notifier.
type Func func(Notice)

// Notify implements Notifier.
func (f Func) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = Func(func(Notice) {})

// Ok builds a success notice.
func Ok(msg string) Notice {
	return Notice{Level: Success, Message: msg}
}

// Error builds a failure notice for err. Network failures and malformed
// responses get fixed texts; rejections use the server's message when it
// sent one and fallback otherwise.
func Error(err error, fallback string) Notice {
	n := Notice{Level: Failure, Kind: service.KindOf(err)}
	switch n.Kind {
	case service.NetworkFailure:
		n.Message = MsgConnection
	case service.MalformedResponse:
		n.Message = MsgMalformed
	case service.Rejected:
		n.Message = service.MessageOf(err)
		if n.Message == "" {
			n.Message = fallback
		}
	default:
		n.Message = fallback
	}
	if n.Message == "" && err != nil {
		n.Message = err.Error()
	}
	return n
}

// Writer prints notices as "ok: ..." and "error: ..." lines. Success lines
// are suppressed when Quiet is set.
type Writer struct {
	mu     sync.Mutex
	Out    io.Writer
	ErrOut io.Writer
	Quiet  bool
}

// Notify implements Notifier.
func (w *Writer) Notify(n Notice) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if n.Level == Failure {
		fmt.Fprintf(w.ErrOut, "error: %s\n", n.Message)
		return
	}
	if w.Quiet {
		return
	}
	fmt.Fprintf(w.Out, "ok: %s\n", n.Message)
}
