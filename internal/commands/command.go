// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"
	"log"

	"taskhub/internal/config"
	"taskhub/internal/service"
	"taskhub/internal/session"
)

// Env is what the dispatcher hands to a command.
type Env struct {
	// Config is always provided (config dir, API URL, settle delay).
	Config *config.Config

	// Service talks to the API. Calls carry the session's bearer
	// credential when one is held.
	Service service.Service

	// Session stores and holds the credential.
	Session *session.Manager

	// Logger writes debug output; it discards unless --debug is set.
	Logger *log.Logger
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a stored session.
	// Commands like help, version, login, register, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with the positional arguments left after
	// flag parsing and returns the exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}
