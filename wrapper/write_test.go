// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wrapper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "wrapper-max.h")
	err := os.WriteFile(fname, []byte("#include <stale.h>\n#include <old.h>\n#include <more.h>\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	err = Write(fname, []string{"ext.h", "jgraphics.h", "z_dsp.h"})
	if err != nil {
		t.Fatalf("Write(%q, ...)=%v; want nil", fname, err)
	}
	got, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	want := "#include <ext.h>\n#include <jgraphics.h>\n#include <z_dsp.h>\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("Write(%q, ...) content diff -want +got:\n%s", fname, diff)
	}

	err = Write(filepath.Join(dir, "nonexistent", "wrapper.h"), []string{"ext.h"})
	var ioerr *IOError
	if !errors.As(err, &ioerr) {
		t.Errorf("Write to nonexistent dir=%v; want IOError", err)
	}
}

func TestWrite_OnlyCommon(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	setupFiles(t, dir, map[string]string{
		"src/jit.common.h": "",
	})
	headers, err := Derive(ctx, filepath.Join(dir, "src"), "jit.common.h")
	if err != nil {
		t.Fatal(err)
	}
	fname := filepath.Join(dir, "wrapper-jitter.h")
	err = Write(fname, headers)
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if want := "#include <jit.common.h>\n"; string(got) != want {
		t.Errorf("content=%q; want %q", got, want)
	}
}

func TestWrite_Reproducible(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	setupFiles(t, dir, map[string]string{
		"src/ext.h":      "#include <ext_obex.h>\n",
		"src/ext_obex.h": "",
		"src/z_dsp.h":    "",
		"src/buffer.h":   "",
	})
	var outs [][]byte
	for i := 0; i < 2; i++ {
		headers, err := Derive(ctx, filepath.Join(dir, "src"), "ext.h")
		if err != nil {
			t.Fatal(err)
		}
		fname := filepath.Join(dir, "wrapper.h")
		err = Write(fname, headers)
		if err != nil {
			t.Fatal(err)
		}
		buf, err := os.ReadFile(fname)
		if err != nil {
			t.Fatal(err)
		}
		outs = append(outs, buf)
	}
	if diff := cmp.Diff(string(outs[0]), string(outs[1])); diff != "" {
		t.Errorf("output differs between runs -first +second:\n%s", diff)
	}
}
