package commands

import (
	"context"
	"flag"
	"io"
	"strconv"
	"strings"

	"taskhub/internal/exitcode"
	"taskhub/internal/output"
	"taskhub/internal/service"
)

func init() {
	Register(&MembersCmd{})
	Register(&InviteCmd{})
	Register(&KickCmd{})
}

// MembersCmd lists a workspace's members.
type MembersCmd struct{}

func (c *MembersCmd) Name() string      { return "members" }
func (c *MembersCmd) Aliases() []string { return nil }
func (c *MembersCmd) Synopsis() string  { return "List workspace members" }
func (c *MembersCmd) Usage() string     { return "taskhub members <workspace>" }
func (c *MembersCmd) NeedsAuth() bool   { return true }

func (c *MembersCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MembersCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return userError(errOut, "workspace required")
	}
	a := newApp(env, out, errOut)
	ws, err := a.resolveWorkspace(ctx, strings.Join(args, " "))
	if err != nil {
		return a.lookupFailed(errOut, err, "Could not load workspaces.")
	}
	members, err := a.load.Members(ctx, ws.ID)
	if err != nil {
		return a.remoteFailure(err, "Could not load members.")
	}
	for i, m := range members {
		output.FormatMember(out, i+1, m)
	}
	return exitcode.Success
}

// InviteCmd adds a user to a workspace by email.
type InviteCmd struct{}

func (c *InviteCmd) Name() string      { return "invite" }
func (c *InviteCmd) Aliases() []string { return nil }
func (c *InviteCmd) Synopsis() string  { return "Invite a user into a workspace" }
func (c *InviteCmd) Usage() string     { return "taskhub invite <workspace> <email>" }
func (c *InviteCmd) NeedsAuth() bool   { return true }

func (c *InviteCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *InviteCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		return userError(errOut, "usage: %s", c.Usage())
	}
	a := newApp(env, out, errOut)
	ws, err := a.resolveWorkspace(ctx, args[0])
	if err != nil {
		return a.lookupFailed(errOut, err, "Could not load workspaces.")
	}
	return finish(errOut, a.mut.InviteMember(ctx, ws.ID, args[1]))
}

// KickCmd removes a member from a workspace.
type KickCmd struct{}

func (c *KickCmd) Name() string      { return "kick" }
func (c *KickCmd) Aliases() []string { return nil }
func (c *KickCmd) Synopsis() string  { return "Remove a member from a workspace" }
func (c *KickCmd) Usage() string     { return "taskhub kick <workspace> <member# | member-id>" }
func (c *KickCmd) NeedsAuth() bool   { return true }

func (c *KickCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *KickCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		return userError(errOut, "usage: %s", c.Usage())
	}
	a := newApp(env, out, errOut)
	ws, err := a.resolveWorkspace(ctx, args[0])
	if err != nil {
		return a.lookupFailed(errOut, err, "Could not load workspaces.")
	}

	memberID := args[1]
	if isAllDigits(memberID) {
		members, err := a.load.Members(ctx, ws.ID)
		if err != nil {
			return a.remoteFailure(err, "Could not load members.")
		}
		m, err := pickMember(members, memberID)
		if err != nil {
			return finish(errOut, err)
		}
		memberID = m.ID
	}
	return finish(errOut, a.mut.RemoveMember(ctx, ws.ID, memberID))
}

func pickMember(members []service.Member, num string) (service.Member, error) {
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 || n > len(members) {
		return service.Member{}, errMemberOutOfRange(num)
	}
	return members[n-1], nil
}

type errMemberOutOfRange string

func (e errMemberOutOfRange) Error() string { return "member number out of range: " + string(e) }
