// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package scan

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"ext.h":        "#include \"ext_prefix.h\"\n",
		"ext_prefix.h": "",
		"jgraphics.h":  "",
		"ext_obex.h":   "",
	} {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		if err != nil {
			t.Fatal(err)
		}
	}

	for _, tc := range []struct {
		name string
		c    *run
		want string
	}{
		{
			name: "names",
			c:    &run{common: "ext.h"},
			want: "ext.h\next_obex.h\njgraphics.h\n",
		},
		{
			name: "force_first",
			c:    &run{common: "ext.h", forceFirst: []string{"ext.h", "jgraphics.h"}},
			want: "ext.h\njgraphics.h\next_obex.h\n",
		},
		{
			name: "include",
			c:    &run{common: "ext.h", include: true},
			want: "#include <ext.h>\n#include <ext_obex.h>\n#include <jgraphics.h>\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := tc.c.run(ctx, &buf, []string{dir})
			if err != nil {
				t.Fatalf("run(ctx, w, %q)=%v; want nil err", dir, err)
			}
			if diff := cmp.Diff(tc.want, buf.String()); diff != "" {
				t.Errorf("run(ctx, w, %q) output -want +got:\n%s", dir, diff)
			}
		})
	}

	c := &run{}
	err := c.run(ctx, &bytes.Buffer{}, []string{dir})
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("run without -common=%v; want flag.ErrHelp", err)
	}
}
