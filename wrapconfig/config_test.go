// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wrapconfig

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/wrapgen/wrapper"
)

func TestDefaultConfig(t *testing.T) {
	ctx := context.Background()
	cfg, err := New(ctx, DefaultConfig, nil)
	if err != nil {
		t.Fatalf("New(ctx, %q, nil)=%v; want nil err", DefaultConfig, err)
	}
	got, err := cfg.Init(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("Init(ctx, base)=%v; want nil err", err)
	}
	want := &Plan{
		RequiredDirs: []string{"max-includes", "msp-includes", "jit-includes"},
		Wrappers: []wrapper.Spec{
			{
				Output:     "wrapper-max.h",
				Dir:        "max-includes",
				Common:     "ext.h",
				ForceFirst: []string{"ext.h", "jgraphics.h"},
			},
			{
				Output: "wrapper-jitter.h",
				Dir:    "jit-includes",
				Common: "jit.common.h",
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Init(ctx, base) diff -want +got:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"max-includes", "msp-includes", "jit-includes"}, got.Dirs()); diff != "" {
		t.Errorf("Dirs() diff -want +got:\n%s", diff)
	}
}

func TestConfig(t *testing.T) {
	ctx := context.Background()
	cfgrepos := map[string]fs.FS{
		"config": os.DirFS("./testdata"),
	}
	cfg, err := New(ctx, "@config//main.star", cfgrepos)
	if err != nil {
		t.Fatalf(`New(ctx, "@config//main.star", repos)=_, %v; want nil error`, err)
	}

	maxSpec := wrapper.Spec{
		Output:     "wrapper-max.h",
		Dir:        "max-includes",
		Common:     "ext.h",
		ForceFirst: []string{"ext.h", "jgraphics.h"},
	}
	jitSpec := wrapper.Spec{
		Output: "wrapper-jitter.h",
		Dir:    "jit-includes",
		Common: "jit.common.h",
	}

	for _, tc := range []struct {
		name string
		dirs []string
		want *Plan
	}{
		{
			name: "no-jitter",
			dirs: []string{"max-includes", "msp-includes"},
			want: &Plan{
				RequiredDirs: []string{"max-includes", "msp-includes"},
				Wrappers:     []wrapper.Spec{maxSpec},
			},
		},
		{
			name: "jitter",
			dirs: []string{"max-includes", "msp-includes", "jit-includes"},
			want: &Plan{
				RequiredDirs: []string{"max-includes", "msp-includes"},
				Wrappers:     []wrapper.Spec{maxSpec, jitSpec},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			base := t.TempDir()
			for _, d := range tc.dirs {
				err := os.Mkdir(filepath.Join(base, d), 0755)
				if err != nil {
					t.Fatal(err)
				}
			}
			got, err := cfg.Init(ctx, base)
			if err != nil {
				t.Fatalf("Init(ctx, %q)=%v; want nil err", base, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Init(ctx, %q) diff -want +got:\n%s", base, diff)
			}
		})
	}
}

func TestConfig_LocalFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fname := filepath.Join(dir, "wrap.star")
	err := os.WriteFile(fname, []byte(`
load("@builtin//max.star", max_init = "init")

def init(ctx):
    return max_init(ctx)
`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := New(ctx, fname, nil)
	if err != nil {
		t.Fatalf("New(ctx, %q, nil)=%v; want nil err", fname, err)
	}
	plan, err := cfg.Init(ctx, dir)
	if err != nil {
		t.Fatalf("Init(ctx, %q)=%v; want nil err", dir, err)
	}
	if len(plan.Wrappers) != 2 {
		t.Errorf("Init(ctx, %q).Wrappers=%v; want 2 wrappers", dir, plan.Wrappers)
	}
}

func TestConfig_Errors(t *testing.T) {
	ctx := context.Background()
	cfgrepos := map[string]fs.FS{
		"config": os.DirFS("./testdata"),
	}

	for _, fname := range []string{
		"@config//nonexistent.star",
		"@config//noinit.star",
		"@unknown//main.star",
	} {
		_, err := New(ctx, fname, cfgrepos)
		if err == nil {
			t.Errorf("New(ctx, %q, repos)=nil; want err", fname)
		}
	}

	for _, fname := range []string{
		"@config//nocommon.star",
		"@config//dup.star",
		"@config//emptyforce.star",
		"@config//fail.star",
	} {
		cfg, err := New(ctx, fname, cfgrepos)
		if err != nil {
			t.Errorf("New(ctx, %q, repos)=%v; want nil err", fname, err)
			continue
		}
		_, err = cfg.Init(ctx, t.TempDir())
		if err == nil {
			t.Errorf("Init(ctx, base) for %s=nil; want err", fname)
		}
	}

	cfg, err := New(ctx, "@config//fail.star", cfgrepos)
	if err != nil {
		t.Fatal(err)
	}
	_, err = cfg.Init(ctx, "sdk")
	var ierr InitError
	if !errors.As(err, &ierr) {
		t.Errorf("Init(ctx, sdk) for fail.star=%v; want InitError", err)
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	for _, d := range []string{"max-includes", "msp-includes"} {
		err := os.Mkdir(filepath.Join(base, d), 0755)
		if err != nil {
			t.Fatal(err)
		}
	}
	_, err := Load(ctx, DefaultConfig, base)
	var cerr *wrapper.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("Load(ctx, %q, %q)=%v; want ConfigError", DefaultConfig, base, err)
	}
	if want := filepath.Join(base, "jit-includes"); cerr.Path != want {
		t.Errorf("Load(ctx, %q, %q).Path=%q; want %q", DefaultConfig, base, cerr.Path, want)
	}

	_, err = Load(ctx, DefaultConfig, filepath.Join(base, "nonexistent"))
	if !errors.As(err, &cerr) {
		t.Errorf("Load(ctx, %q, nonexistent)=%v; want ConfigError", DefaultConfig, err)
	}

	err = os.Mkdir(filepath.Join(base, "jit-includes"), 0755)
	if err != nil {
		t.Fatal(err)
	}
	plan, err := Load(ctx, DefaultConfig, base)
	if err != nil {
		t.Fatalf("Load(ctx, %q, %q)=%v; want nil err", DefaultConfig, base, err)
	}
	if len(plan.Wrappers) != 2 {
		t.Errorf("Load(ctx, %q, %q).Wrappers=%v; want 2 wrappers", DefaultConfig, base, plan.Wrappers)
	}
}
