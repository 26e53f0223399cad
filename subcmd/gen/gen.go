// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package gen provides gen subcommand.
package gen

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/wrapgen/o11y/clog"
	"go.chromium.org/infra/build/wrapgen/toolsupport/makeutil"
	"go.chromium.org/infra/build/wrapgen/ui"
	"go.chromium.org/infra/build/wrapgen/wrapconfig"
	"go.chromium.org/infra/build/wrapgen/wrapper"
)

const usage = `generate wrapper headers

 $ wrapgen gen [-config <config>] [-o <dir>] [-depfile] <base>

<base> is a directory that has include dirs of the SDK,
e.g. max-sdk-base/c74support.

The default config @builtin//max.star generates wrapper-max.h
from max-includes and wrapper-jitter.h from jit-includes.
Existing wrapper headers are overwritten.
`

// Cmd returns the Command for the `gen` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "gen [-config <config>] [-o <dir>] <base>",
		ShortDesc: "generate wrapper headers",
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
	c.Flags.StringVar(&c.outDir, "o", ".", "directory to write wrapper headers")
	c.Flags.BoolVar(&c.depfile, "depfile", false, "write <wrapper>.d depfile for each wrapper header")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	err := c.run(ctx, args)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fmt.Fprintf(os.Stderr, "%v\n%s\n", err, usage)
			return 2
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
	started := time.Now()
	logger := clog.FromContext(ctx)
	defer logger.Close()
	plan, err := wrapconfig.Load(ctx, c.config, base)
	if err != nil {
		return err
	}
	for _, spec := range plan.Wrappers {
		wctx := clog.NewSpan(ctx, map[string]string{"wrapper": spec.Output})
		fname, n, err := generate(wctx, base, c.outDir, spec, c.depfile)
		if err != nil {
			clog.Errorf(wctx, "failed to generate: %v", err)
			return err
		}
		ui.Default.Infof("%s %s: %d headers", ui.SGR(ui.Green, "generated"), ui.SGR(ui.Bold, fname), n)
	}
	ui.Default.Infof("generated %d wrappers in %s", len(plan.Wrappers), ui.FormatDuration(time.Since(started)))
	return nil
}

func generate(ctx context.Context, base, outDir string, spec wrapper.Spec, depfile bool) (string, int, error) {
	r, err := wrapper.Build(ctx, base, spec)
	if err != nil {
		return "", 0, err
	}
	fname := filepath.Join(outDir, spec.Output)
	err = os.MkdirAll(filepath.Dir(fname), 0755)
	if err != nil {
		return "", 0, &wrapper.IOError{Op: "mkdir", Path: filepath.Dir(fname), Err: err}
	}
	err = wrapper.Write(fname, r.Headers)
	if err != nil {
		return "", 0, err
	}
	clog.Infof(ctx, "wrote %s: %d headers", fname, len(r.Headers))
	if depfile {
		err = makeutil.WriteDepsFile(ctx, fname+".d", fname, r.Inputs)
		if err != nil {
			return "", 0, &wrapper.IOError{Op: "write depfile", Path: fname + ".d", Err: err}
		}
	}
	return fname, len(r.Headers), nil
}
