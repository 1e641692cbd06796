package commands

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	"taskhub/internal/cache"
	"taskhub/internal/detail"
	"taskhub/internal/exitcode"
	"taskhub/internal/loader"
	"taskhub/internal/mutate"
	"taskhub/internal/notify"
	"taskhub/internal/service"
)

// app is the engine stack one command invocation works with.
type app struct {
	cache *cache.Cache
	load  *loader.Loader
	mut   *mutate.Engine
	view  *detail.Synchronizer
	notes *notify.Writer

	mu     sync.Mutex
	failed notify.Notice
}

func newApp(env *Env, out, errOut io.Writer) *app {
	c := cache.New()
	a := &app{
		cache: c,
		load:  loader.New(env.Service, c, env.Logger),
		notes: &notify.Writer{Out: out, ErrOut: errOut, Quiet: env.Config.Quiet},
	}
	a.mut = mutate.New(env.Service, c, a, env.Logger)
	a.view = detail.New(env.Service, c, a.mut, detail.Options{
		SettleDelay: env.Config.SettleDelay,
		Notifier:    a,
		Logger:      env.Logger,
	})
	return a
}

// Notify prints n and remembers the last failure.
func (a *app) Notify(n notify.Notice) {
	if n.Level == notify.Failure {
		a.mu.Lock()
		a.failed = n
		a.mu.Unlock()
	}
	a.notes.Notify(n)
}

// lastFailure returns the exit code for the last failure announced in the
// background, or Success.
func (a *app) lastFailure() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case a.failed.Level != notify.Failure:
		return exitcode.Success
	case a.failed.Kind == service.Rejected:
		return exitcode.UserError
	default:
		return exitcode.BackendError
	}
}

// settle waits for every background call and log refresh.
func (a *app) settle() {
	a.mut.Wait()
	a.view.Wait()
}

// codeFor maps an error to the process exit code.
func codeFor(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case service.StatusOf(err) == http.StatusUnauthorized:
		return exitcode.AuthError
	case service.IsRejected(err) && service.StatusOf(err) < http.StatusInternalServerError:
		return exitcode.UserError
	case service.KindOf(err) != 0:
		return exitcode.BackendError
	default:
		return exitcode.UserError
	}
}

// finish reports err and returns its exit code. Remote failures coming out
// of the mutation engine or the detail view were already announced by the
// notifier; anything else is printed here.
func finish(errOut io.Writer, err error) int {
	if err == nil {
		return exitcode.Success
	}
	if service.KindOf(err) == 0 {
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return codeFor(err)
}

// remoteFailure announces a failed load and returns its exit code.
func (a *app) remoteFailure(err error, fallback string) int {
	a.Notify(notify.Error(err, fallback))
	return codeFor(err)
}

// userError prints a usage problem.
func userError(errOut io.Writer, format string, args ...any) int {
	fmt.Fprintf(errOut, "error: "+format+"\n", args...)
	return exitcode.UserError
}

// ok prints the bare acknowledgement unless quiet.
func ok(env *Env, out io.Writer) {
	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
}
