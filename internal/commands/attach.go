package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"taskhub/internal/exitcode"
)

func init() {
	Register(&AttachCmd{})
	Register(&DetachCmd{})
	Register(&DownloadCmd{})
}

// AttachCmd uploads a file to a task.
type AttachCmd struct{}

func (c *AttachCmd) Name() string      { return "attach" }
func (c *AttachCmd) Aliases() []string { return nil }
func (c *AttachCmd) Synopsis() string  { return "Attach a file to a task" }
func (c *AttachCmd) Usage() string     { return "taskhub attach <ref> <file>" }
func (c *AttachCmd) NeedsAuth() bool   { return true }

func (c *AttachCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AttachCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, valid := parseRef(args, errOut)
	if !valid {
		return exitcode.UserError
	}
	if len(args) <= ref.Args {
		return userError(errOut, "file required")
	}
	path := args[ref.Args]
	f, err := os.Open(path)
	if err != nil {
		return userError(errOut, "%v", err)
	}
	defer f.Close()

	a := newApp(env, out, errOut)
	if code, opened := a.openTask(ctx, ref, errOut); !opened {
		return code
	}
	_, err = a.view.UploadAttachment(ctx, filepath.Base(path), f)
	a.settle()
	return finish(errOut, err)
}

// DetachCmd removes an attachment from a task.
type DetachCmd struct{}

func (c *DetachCmd) Name() string      { return "detach" }
func (c *DetachCmd) Aliases() []string { return nil }
func (c *DetachCmd) Synopsis() string  { return "Remove an attachment" }
func (c *DetachCmd) Usage() string     { return "taskhub detach <ref> <attachment#>" }
func (c *DetachCmd) NeedsAuth() bool   { return true }

func (c *DetachCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DetachCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, valid := parseRef(args, errOut)
	if !valid {
		return exitcode.UserError
	}

	a := newApp(env, out, errOut)
	if code, opened := a.openTask(ctx, ref, errOut); !opened {
		return code
	}
	d, _ := a.view.Detail()
	att, err := attachment(d, args[ref.Args:])
	if err == nil {
		err = a.view.DeleteAttachment(ctx, att.ID)
	}
	a.settle()
	return finish(errOut, err)
}

// DownloadCmd saves an attachment's content.
type DownloadCmd struct {
	outPath string
}

func (c *DownloadCmd) Name() string      { return "download" }
func (c *DownloadCmd) Aliases() []string { return []string{"get"} }
func (c *DownloadCmd) Synopsis() string  { return "Download an attachment" }
func (c *DownloadCmd) Usage() string {
	return "taskhub download [--out <path> | --out -] <ref> <attachment#>"
}
func (c *DownloadCmd) NeedsAuth() bool { return true }

func (c *DownloadCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.outPath, "out", "", "")
	fs.StringVar(&c.outPath, "o", "", "")
}

func (c *DownloadCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, valid := parseRef(args, errOut)
	if !valid {
		return exitcode.UserError
	}

	a := newApp(env, out, errOut)
	if code, opened := a.openTask(ctx, ref, errOut); !opened {
		return code
	}
	a.settle()
	d, _ := a.view.Detail()
	att, err := attachment(d, args[ref.Args:])
	if err != nil {
		return finish(errOut, err)
	}
	data, err := a.view.DownloadAttachment(ctx, att.ID)
	if err != nil {
		return finish(errOut, err)
	}

	if c.outPath == "-" {
		_, err := out.Write(data)
		return finish(errOut, err)
	}
	path := c.outPath
	if path == "" {
		path = filepath.Base(att.FileName)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return finish(errOut, err)
	}
	if !env.Config.Quiet {
		fmt.Fprintf(out, "saved %s (%d bytes)\n", path, len(data))
	}
	return exitcode.Success
}
