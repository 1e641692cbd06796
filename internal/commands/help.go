package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskhub/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskhub help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskhub                                      Show the dashboard
  taskhub dashboard                            Same as no command
  taskhub tasks [<workspace>]                  List tasks
  taskhub add [--ws <workspace>] [--priority <p>] [--desc <text>] <title...>
  taskhub done <ref>                           Toggle done / to-do
  taskhub rm <ref>
  taskhub show <ref>
  taskhub check <ref> <title...>               Add a checklist item
  taskhub tick <ref> <item#>                   Toggle a checklist item
  taskhub attach <ref> <file>
  taskhub detach <ref> <attachment#>
  taskhub download [--out <path>] <ref> <attachment#>
  taskhub workspaces
  taskhub mkws <name...>
  taskhub rmws <workspace>
  taskhub members <workspace>
  taskhub invite <workspace> <email>
  taskhub kick <workspace> <member#>
  taskhub whoami
  taskhub profile --name <name> [--password <password>]
  taskhub register --name <name> --email <email> --password <password>
  taskhub login --email <email> --password <password>
  taskhub logout
  taskhub help
  taskhub version

References:
  <ref>        3, a3, "a 3", a task id or #<id>
  <workspace>  a letter, an id or a name

Common flags:
  --config <dir>   Override config directory
  --api <url>      Override the API base URL
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
