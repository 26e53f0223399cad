// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wrapper

import (
	"bufio"
	"context"
	"io"
	"os"
	"regexp"

	log "github.com/golang/glog"

	"go.chromium.org/infra/build/wrapgen/o11y/clog"
)

// includeRE matches `#include "foo.h"` or `#include <foo.h>` at the start of line.
var includeRE = regexp.MustCompile(`^\s*#include\s*(?:"([^"]+)"|<([^>]+)>)`)

// maxLineSize is max size of a line in header.
const maxLineSize = 1 << 20

// ParseIncludes returns names included by `#include` lines in r, in
// the order they appear.
// Names are returned as written between the delimiters.
func ParseIncludes(r io.Reader) ([]string, error) {
	var includes []string
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for s.Scan() {
		name, ok := matchInclude(s.Text())
		if !ok {
			continue
		}
		includes = append(includes, name)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return includes, nil
}

func matchInclude(line string) (string, bool) {
	m := includeRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

// readIncludes reads includes of the common header fname.
func readIncludes(ctx context.Context, fname string) ([]string, error) {
	f, err := os.Open(fname)
	if err != nil {
		clog.Warningf(ctx, "common header %s: %v", fname, err)
		return nil, &IOError{Op: "open", Path: fname, Err: err}
	}
	defer f.Close()
	includes, err := ParseIncludes(f)
	if err != nil {
		return nil, &IOError{Op: "read", Path: fname, Err: err}
	}
	if log.V(1) {
		clog.Infof(ctx, "includes in %s: %q", fname, includes)
	}
	return includes, nil
}
