// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package makeutil provides utilities for make style depfiles.
package makeutil

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"strings"

	log "github.com/golang/glog"

	"go.chromium.org/infra/build/wrapgen/o11y/clog"
)

// ParseDepsFile parses *.d file in fname on fsys.
func ParseDepsFile(ctx context.Context, fsys fs.FS, fname string) ([]string, error) {
	if fname == "" {
		return nil, nil
	}
	b, err := fs.ReadFile(fsys, fname)
	if err != nil {
		return nil, err
	}
	deps := ParseDeps(b)
	if log.V(1) {
		clog.Infof(ctx, "deps %s => %s", fname, deps)
	}
	return deps, nil
}

// ParseDeps parses deps and returns a list of inputs.
func ParseDeps(b []byte) []string {
	// deps contents
	// <output>: <input> ...
	// <input> is space separated
	// '\'+newline is space
	// '\'+space is escaped space (not separator)
	// '\'+'#', '\'+tab and '$$' are escaped too.
	// ':' is a separator only if followed by a space, so drive
	// letters such as 'C:\' stay in the output.
	var token string
	i := depsSeparator(b)
	if i < 0 {
		return nil
	}
	// collect inputs
	var inputs []string
	for s := b[i+1:]; len(s) > 0; {
		token, s = nextToken(s)
		if token != "" {
			inputs = append(inputs, token)
		}
	}
	return inputs
}

func depsSeparator(b []byte) int {
	for i := 0; i < len(b); i++ {
		switch b[i] {
		case '\\':
			i++
		case ':':
			if i+1 == len(b) {
				return i
			}
			switch b[i+1] {
			case ' ', '\t', '\n', '\r':
				return i
			}
		}
	}
	return -1
}

func nextToken(s []byte) (string, []byte) {
	var sb strings.Builder
	// skip spaces
skipSpaces:
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '\n' {
			i++
			continue
		}
		if s[i] == '\\' && i+2 < len(s) && s[i+1] == '\r' && s[i+2] == '\n' {
			i += 2
			continue
		}
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			s = s[i:]
			break skipSpaces
		}
	}
	// extract next space not escaped
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case ' ', '\t', '#':
				sb.WriteByte(s[i])
			case '\r', '\n':
				// '\'+newline is space
				return sb.String(), s[i+1:]
			default:
				sb.WriteByte('\\')
				sb.WriteByte(s[i])
			}
			continue
		}
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			return sb.String(), s[i+1:]
		case '$':
			if i+1 < len(s) && s[i+1] == '$' {
				i++
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String(), nil
}

// FormatDeps formats depfile content for output that depends on inputs.
// Spaces, tabs and '#' in paths are escaped by '\\', and '$' by '$$'.
// Colons are kept as is.
func FormatDeps(output string, inputs []string) []byte {
	var buf bytes.Buffer
	buf.WriteString(escapePath(output))
	buf.WriteString(":")
	for _, in := range inputs {
		buf.WriteString(" ")
		buf.WriteString(escapePath(in))
	}
	buf.WriteString("\n")
	return buf.Bytes()
}

var pathEscaper = strings.NewReplacer(
	" ", `\ `,
	"\t", "\\\t",
	"#", `\#`,
	"$", "$$",
)

func escapePath(p string) string {
	return pathEscaper.Replace(p)
}

// WriteDepsFile writes depfile fname for output that depends on inputs.
func WriteDepsFile(ctx context.Context, fname, output string, inputs []string) error {
	if log.V(1) {
		clog.Infof(ctx, "write deps %s => %s", fname, inputs)
	}
	return os.WriteFile(fname, FormatDeps(output, inputs), 0644)
}
