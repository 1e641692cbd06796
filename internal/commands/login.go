package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskhub/internal/exitcode"
	"taskhub/internal/notify"
	"taskhub/internal/service"
)

func init() {
	Register(&LoginCmd{})
	Register(&RegisterCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in and store the session" }
func (c *LoginCmd) Usage() string     { return "taskhub login --email <email> --password <password>" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	email := strings.TrimSpace(c.email)
	if email == "" && len(args) > 0 {
		email = strings.TrimSpace(args[0])
	}
	if email == "" || c.password == "" {
		return userError(errOut, "email and password required")
	}

	notes := &notify.Writer{Out: out, ErrOut: errOut, Quiet: env.Config.Quiet}
	token, err := env.Service.Login(ctx, email, c.password)
	if err != nil {
		env.Logger.Printf("login %s: %v", email, err)
		notes.Notify(notify.Error(err, "Login failed."))
		if service.IsRejected(err) {
			return exitcode.AuthError
		}
		return codeFor(err)
	}

	if err := env.Config.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := env.Session.Begin(ctx, token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save session: %v\n", err)
		return exitcode.AuthError
	}

	ok(env, out)
	return exitcode.Success
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	name     string
	email    string
	password string
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "taskhub register --name <name> --email <email> --password <password>"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	r := service.Registration{
		Name:     strings.TrimSpace(c.name),
		Email:    strings.TrimSpace(c.email),
		Password: c.password,
	}
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return userError(errOut, "name, email and password required")
	}

	notes := &notify.Writer{Out: out, ErrOut: errOut, Quiet: env.Config.Quiet}
	if err := env.Service.Register(ctx, r); err != nil {
		env.Logger.Printf("register %s: %v", r.Email, err)
		notes.Notify(notify.Error(err, "Registration failed."))
		return codeFor(err)
	}
	notes.Notify(notify.Ok("Account created. You can log in now."))
	return exitcode.Success
}
