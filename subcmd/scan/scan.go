// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package scan is scan subcommand for debugging wrapper headers.
package scan

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	luciflag "go.chromium.org/luci/common/flag"

	"go.chromium.org/infra/build/wrapgen/wrapper"
)

const usage = `scan an include dir

 $ wrapgen scan -common <header> [-force_first <a.h,b.h>] <dir>

prints headers of wrapper header for <dir> to stdout,
without writing wrapper header.
`

// Cmd returns the Command for the `scan` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "scan -common <header> <dir>",
		ShortDesc: "scan an include dir",
		LongDesc:  usage,
		Advanced:  true,
		CommandRun: func() subcommands.CommandRun {
			c := &run{}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase

	common     string
	forceFirst []string
	include    bool
}

func (c *run) init() {
	c.Flags.StringVar(&c.common, "common", "", "common header in the dir")
	c.Flags.Var(luciflag.CommaList(&c.forceFirst), "force_first", "comma separated headers to put first")
	c.Flags.BoolVar(&c.include, "include", false, "print in #include lines")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	err := c.run(ctx, os.Stdout, args)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fmt.Fprintf(os.Stderr, "%v\n%s\n", err, usage)
			return 2
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (c *run) run(ctx context.Context, w io.Writer, args []string) error {
	if c.common == "" {
		return fmt.Errorf("missing -common: %w", flag.ErrHelp)
	}
	if len(args) != 1 {
		return fmt.Errorf("want <dir>, got %q: %w", args, flag.ErrHelp)
	}
	dir := args[0]
	headers, err := wrapper.Derive(ctx, dir, c.common)
	if err != nil {
		return err
	}
	headers = wrapper.ForceFirst(headers, c.forceFirst)
	log.Infof("%s: %d headers", dir, len(headers))
	if c.include {
		_, err = w.Write(wrapper.Format(headers))
		return err
	}
	for _, h := range headers {
		fmt.Fprintln(w, h)
	}
	return nil
}
