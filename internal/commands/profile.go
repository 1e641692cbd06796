package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskhub/internal/exitcode"
	"taskhub/internal/service"
)

func init() {
	Register(&WhoamiCmd{})
	Register(&ProfileCmd{})
}

// WhoamiCmd prints the signed-in user.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Show the signed-in user" }
func (c *WhoamiCmd) Usage() string     { return "taskhub whoami" }
func (c *WhoamiCmd) NeedsAuth() bool   { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	a := newApp(env, out, errOut)
	u, err := a.load.Profile(ctx)
	if err != nil {
		return a.remoteFailure(err, "Could not load the profile.")
	}
	fmt.Fprintf(out, "%s <%s>\n", u.Name, u.Email)
	return exitcode.Success
}

// ProfileCmd changes the display name and password.
type ProfileCmd struct {
	name     string
	password string
}

func (c *ProfileCmd) Name() string      { return "profile" }
func (c *ProfileCmd) Aliases() []string { return nil }
func (c *ProfileCmd) Synopsis() string  { return "Update name and password" }
func (c *ProfileCmd) Usage() string     { return "taskhub profile --name <name> [--password <password>]" }
func (c *ProfileCmd) NeedsAuth() bool   { return true }

func (c *ProfileCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *ProfileCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	a := newApp(env, out, errOut)
	err := a.mut.UpdateProfile(ctx, service.ProfileUpdate{Name: c.name, Password: c.password})
	return finish(errOut, err)
}
