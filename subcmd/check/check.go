// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package check provides check subcommand.
package check

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/wrapgen/o11y/clog"
	"go.chromium.org/infra/build/wrapgen/toolsupport/makeutil"
	"go.chromium.org/infra/build/wrapgen/ui"
	"go.chromium.org/infra/build/wrapgen/wrapconfig"
	"go.chromium.org/infra/build/wrapgen/wrapper"
)

const usage = `check wrapper headers are up to date

 $ wrapgen check [-config <config>] [-o <dir>] [-depfile] <base>

It derives wrapper headers in the same way as "wrapgen gen",
and compares them with the files in <dir>.
It exits with 1 if any wrapper header is missing or stale.
`

// ErrStale is returned when some wrapper headers are not up to date.
var ErrStale = errors.New("stale wrapper headers")

// Cmd returns the Command for the `check` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "check [-config <config>] [-o <dir>] <base>",
		ShortDesc: "check wrapper headers are up to date",
		LongDesc:  usage,
		CommandRun: func() subcommands.CommandRun {
			c := &run{}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase

	config  string
	outDir  string
	depfile bool
}

func (c *run) init() {
	c.Flags.StringVar(&c.config, "config", wrapconfig.DefaultConfig, "wrapper config file. @builtin//<name> for builtin config")
	c.Flags.StringVar(&c.outDir, "o", ".", "directory of wrapper headers")
	c.Flags.BoolVar(&c.depfile, "depfile", false, "also check <wrapper>.d depfile for each wrapper header")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	err := c.run(ctx, args)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fmt.Fprintf(os.Stderr, "%v\n%s\n", err, usage)
			return 2
		case errors.Is(err, ErrStale):
			ui.Default.Errorf("%v. run `wrapgen gen` to update", err)
		case ui.IsTerminal():
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.SGR(ui.BackgroundRed, "Error:"), err)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (c *run) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("want <base> dir, got %q: %w", args, flag.ErrHelp)
	}
	base := args[0]
	plan, err := wrapconfig.Load(ctx, c.config, base)
	if err != nil {
		return err
	}
	var stale []string
	for _, spec := range plan.Wrappers {
		wctx := clog.NewSpan(ctx, map[string]string{"wrapper": spec.Output})
		fname := filepath.Join(c.outDir, spec.Output)
		diff, err := Check(wctx, base, fname, spec, c.depfile)
		if err != nil {
			return err
		}
		if diff != "" {
			ui.Default.Warningf("%s %s -want +got:\n%s", ui.SGR(ui.Red, "stale"), ui.SGR(ui.Bold, fname), diff)
			stale = append(stale, fname)
			continue
		}
		ui.Default.Infof("%s %s", ui.SGR(ui.Green, "ok"), fname)
	}
	if len(stale) > 0 {
		return fmt.Errorf("%w: %s", ErrStale, strings.Join(stale, " "))
	}
	return nil
}

// Check checks wrapper header fname is generated for spec.
// It returns a diff if fname is stale, or empty string if up to date.
// If depfile is true, fname.d is also checked.
func Check(ctx context.Context, base, fname string, spec wrapper.Spec, depfile bool) (string, error) {
	r, err := wrapper.Build(ctx, base, spec)
	if err != nil {
		return "", err
	}
	want := wrapper.Format(r.Headers)
	buf, err := os.ReadFile(fname)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Sprintf("missing %s\n", fname), nil
	}
	if err != nil {
		return "", &wrapper.IOError{Op: "read", Path: fname, Err: err}
	}
	if !bytes.Equal(want, buf) {
		// line diff is only for display.
		if diff := cmp.Diff(splitLines(want), splitLines(buf)); diff != "" {
			return diff, nil
		}
		return fmt.Sprintf("final newline differs in %s\n", fname), nil
	}
	if !depfile {
		return "", nil
	}
	depsname := filepath.Base(fname) + ".d"
	inputs, err := makeutil.ParseDepsFile(ctx, os.DirFS(filepath.Dir(fname)), depsname)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Sprintf("missing %s.d\n", fname), nil
	}
	if err != nil {
		return "", &wrapper.IOError{Op: "read", Path: fname + ".d", Err: err}
	}
	return cmp.Diff(r.Inputs, inputs), nil
}

func splitLines(buf []byte) []string {
	s := strings.TrimSuffix(string(buf), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
