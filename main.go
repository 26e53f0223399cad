// Copyright 2026 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// wrapgen generates wrapper headers for include dirs of a SDK.
//
//	$ wrapgen gen path/to/c74support
//
// writes wrapper-max.h and wrapper-jitter.h to the current directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	log "github.com/golang/glog"
	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/wrapgen/o11y/clog"
	"go.chromium.org/infra/build/wrapgen/subcmd/check"
	"go.chromium.org/infra/build/wrapgen/subcmd/gen"
	"go.chromium.org/infra/build/wrapgen/subcmd/help"
	"go.chromium.org/infra/build/wrapgen/subcmd/scan"
	"go.chromium.org/infra/build/wrapgen/subcmd/version"
	"go.chromium.org/infra/build/wrapgen/ui"
)

const wrapgenVersion = "v0.1.0"

func getApplication() *cli.Application {
	return &cli.Application{
		Name:  "wrapgen",
		Title: "wrapper header generator",
		Context: func(ctx context.Context) context.Context {
			return clog.NewContext(ctx, clog.New(ctx))
		},
		Commands: []*subcommands.Command{
			gen.Cmd(),
			check.Cmd(),
			scan.Cmd(),

			help.Cmd(),
			version.Cmd(wrapgenVersion),
		},
	}
}

func main() {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(out, "  %s [global flags] <command> [command flags] <args>\n", os.Args[0])
		fmt.Fprintf(out, "global flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(out, "run `%s help` for commands.\n", os.Args[0])
	}
	flag.Parse()
	os.Exit(wrapgenMain(flag.Args()))
}

func wrapgenMain(args []string) int {
	ui.Init()
	defer ui.Restore()

	// Flush the log on exit to not lose any messages.
	defer log.Flush()

	// Print a stack trace when a panic occurs.
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			log.Fatalf("panic: %v\n%s", r, buf)
		}
	}()

	// Print build information to the log.
	buildinfo, ok := debug.ReadBuildInfo()
	if ok {
		log.Infof("main module: %s %s", moduleInfo(&buildinfo.Main), vcsInfo(buildinfo))
		if log.V(1) {
			for _, m := range buildinfo.Deps {
				log.Infof("deps module: %s", moduleInfo(m))
			}
		}
	}
	log.Infof("args: %q", args)
	return subcommands.Run(getApplication(), args)
}

func moduleInfo(m *debug.Module) string {
	if m == nil {
		return "<nil>"
	}
	return fmt.Sprintf("path:%s version:%s sum:%s replace:%s", m.Path, m.Version, m.Sum, moduleInfo(m.Replace))
}

func vcsInfo(buildinfo *debug.BuildInfo) string {
	m := make(map[string]string)
	for _, bs := range buildinfo.Settings {
		if strings.HasPrefix(bs.Key, "vcs.") {
			m[bs.Key] = bs.Value
		}
	}
	return fmt.Sprintf("vcs[revision=%s time=%s modified=%s]", m["vcs.revision"], m["vcs.time"], m["vcs.modified"])
}
