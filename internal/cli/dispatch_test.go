package cli_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"taskhub/internal/cli"
	"taskhub/internal/commands"
	"taskhub/internal/config"
	"taskhub/internal/exitcode"
	"taskhub/internal/service"
	"taskhub/internal/session"
	"taskhub/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, tokens oauth2.TokenSource) (service.Service, error) {
		return svc, nil
	}
}

// newDispatcher builds a dispatcher whose session lives in a temp dir.
// A non-empty token is stored before the run.
func newDispatcher(t *testing.T, factory cli.ServiceFactory, token string) (*cli.Dispatcher, *session.FileStore) {
	t.Helper()
	store := session.NewFileStore(filepath.Join(t.TempDir(), "token.json"))
	if token != "" {
		if err := store.Save(context.Background(), session.NewToken(token)); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}
	d := cli.NewDispatcher(commands.DefaultRegistry, factory)
	d.SetStoreOpener(func(cfg *config.Config) (session.Store, error) { return store, nil })
	return d, store
}

func run(d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, _ := newDispatcher(t, testFactory(testutil.NewFakeService()), "")

	_, stderr, code := run(d, "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	d, _ := newDispatcher(t, testFactory(testutil.NewFakeService()), "")

	_, stderr, code := run(d, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	d, _ := newDispatcher(t, testFactory(testutil.NewFakeService()), "")

	stdout, stderr, code := run(d, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	d, _ := newDispatcher(t, testFactory(testutil.NewFakeService()), "")

	stdout, stderr, code := run(d, "VERSION")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskhub 0.1.0\n" {
		t.Errorf("expected 'taskhub 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	d, _ := newDispatcher(t, testFactory(testutil.NewFakeService()), "")

	_, stderr, code := run(d, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	d, _ := newDispatcher(t, testFactory(testutil.NewFakeService()), "")

	_, stderr, code := run(d, "login", "--email")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -email\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NotLoggedIn(t *testing.T) {
	svc := testutil.NewFakeService()
	d, _ := newDispatcher(t, testFactory(svc), "")

	_, stderr, code := run(d, "tasks")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: not logged in (run: taskhub login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if n := len(svc.Calls()); n != 0 {
		t.Errorf("expected no API calls, got %d", n)
	}
}

func TestDispatcher_NoArgsShowsDashboard(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddWorkspace("w1", "Alpha")
	svc.AddTask("w1", "t1", "Ship it", service.StatusTodo, service.PriorityHigh)
	d, _ := newDispatcher(t, testFactory(svc), "tok")

	stdout, stderr, code := run(d)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if !strings.HasPrefix(stdout, "Hello, Test User\n") {
		t.Errorf("expected greeting, got %q", stdout)
	}
	if !strings.Contains(stdout, "Ship it (Alpha)") {
		t.Errorf("expected priority line, got %q", stdout)
	}
}

func TestDispatcher_FactoryGetsSessionToken(t *testing.T) {
	svc := testutil.NewFakeService()
	var got *oauth2.Token
	factory := func(ctx context.Context, cfg *config.Config, tokens oauth2.TokenSource) (service.Service, error) {
		tok, err := tokens.Token()
		if err != nil {
			return nil, err
		}
		got = tok
		return svc, nil
	}
	d, _ := newDispatcher(t, factory, "stored-token")

	if _, stderr, code := run(d, "workspaces"); code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr %q)", code, stderr)
	}
	if got == nil || got.AccessToken != "stored-token" {
		t.Errorf("expected stored token, got %+v", got)
	}
}

func TestDispatcher_APIOverride(t *testing.T) {
	svc := testutil.NewFakeService()
	var apiURL string
	factory := func(ctx context.Context, cfg *config.Config, tokens oauth2.TokenSource) (service.Service, error) {
		apiURL = cfg.APIURL
		return svc, nil
	}
	d, _ := newDispatcher(t, factory, "tok")

	run(d, "workspaces", "--api", "http://example.test/")

	if apiURL != "http://example.test" {
		t.Errorf("expected overridden API URL, got %q", apiURL)
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config, tokens oauth2.TokenSource) (service.Service, error) {
		return nil, errors.New("bad url")
	}
	d, _ := newDispatcher(t, factory, "tok")

	_, stderr, code := run(d, "workspaces")

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: bad url\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_LoginThenLogout(t *testing.T) {
	svc := testutil.NewFakeService()
	d, store := newDispatcher(t, testFactory(svc), "")

	stdout, stderr, code := run(d, "login", "--email", "test@example.com", "--password", "secret")
	if code != exitcode.Success {
		t.Fatalf("login: expected success, got %d (stderr %q)", code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("login: expected ok, got %q", stdout)
	}
	tok, err := store.Load(context.Background())
	if err != nil || tok.AccessToken != "token-test@example.com" {
		t.Fatalf("expected stored token, got %+v, %v", tok, err)
	}

	if _, stderr, code := run(d, "workspaces"); code != exitcode.Success {
		t.Fatalf("expected authenticated command to run, got %d (stderr %q)", code, stderr)
	}

	if stdout, _, code := run(d, "logout"); code != exitcode.Success || stdout != "ok\n" {
		t.Fatalf("logout: got %d %q", code, stdout)
	}
	if _, err := store.Load(context.Background()); !errors.Is(err, session.ErrNoSession) {
		t.Errorf("expected session cleared, got %v", err)
	}

	if _, _, code := run(d, "workspaces"); code != exitcode.AuthError {
		t.Errorf("expected auth error after logout, got %d", code)
	}
}

func TestDispatcher_QuietSuppressesAcknowledgement(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddWorkspace("w1", "Alpha")
	d, _ := newDispatcher(t, testFactory(svc), "tok")

	stdout, stderr, code := run(d, "add", "--quiet", "Write", "report")

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr %q)", code, stderr)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}
