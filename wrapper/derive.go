// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wrapper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	log "github.com/golang/glog"

	"go.chromium.org/infra/build/wrapgen/o11y/clog"
)

// HeaderExt is the extension of header files collected in include directory.
const HeaderExt = ".h"

// Spec specifies a wrapper header to generate.
type Spec struct {
	// Output is a filename of the wrapper header.
	Output string

	// Dir is an include directory, relative to base directory.
	Dir string

	// Common is a common header in Dir.
	// Headers included by Common are not listed in the wrapper.
	Common string

	// ForceFirst is a list of headers to put at the beginning of
	// the wrapper, in this order.
	ForceFirst []string
}

// Result is a result of Build.
type Result struct {
	Spec Spec

	// Headers is a list of header names in the wrapper.
	Headers []string

	// Inputs are paths of the common header and headers found in the dir.
	Inputs []string
}

// CheckDirs checks base and dirs under base are directories.
func CheckDirs(base string, dirs []string) error {
	if err := checkDir(base); err != nil {
		return err
	}
	for _, d := range dirs {
		if err := checkDir(filepath.Join(base, d)); err != nil {
			return err
		}
	}
	return nil
}

func checkDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return &ConfigError{Path: dir, Err: err}
	}
	if !fi.IsDir() {
		return &ConfigError{Path: dir, Err: errors.New("not a directory")}
	}
	return nil
}

// Derive derives a list of headers for the wrapper of dir.
// The common header comes first, followed by headers in dir that
// are not included by the common header, in sorted order.
func Derive(ctx context.Context, dir, common string) ([]string, error) {
	headers, _, err := derive(ctx, dir, common)
	return headers, err
}

func derive(ctx context.Context, dir, common string) ([]string, []string, error) {
	if err := checkDir(dir); err != nil {
		return nil, nil, err
	}
	covered, err := readIncludes(ctx, filepath.Join(dir, common))
	if err != nil {
		return nil, nil, err
	}
	candidates, err := listHeaders(dir)
	if err != nil {
		return nil, nil, err
	}
	headers := Order(candidates, covered, common)
	if log.V(1) {
		clog.Infof(ctx, "derive %s common=%s: %d candidates %d covered -> %d headers", dir, common, len(candidates), len(covered), len(headers))
	}
	return headers, candidates, nil
}

// listHeaders returns names of header files in dir.
// It doesn't descend into subdirectories.
func listHeaders(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, &IOError{Op: "read dir", Path: dir, Err: err}
	}
	var names []string
	for _, ent := range ents {
		name := ent.Name()
		if ent.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if filepath.Ext(name) != HeaderExt {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Order returns candidates not in covered, sorted, with common at front.
// common is always in the result, even if it is not in candidates.
func Order(candidates, covered []string, common string) []string {
	skip := make(map[string]bool, len(covered)+1)
	for _, c := range covered {
		skip[c] = true
	}
	skip[common] = true
	headers := make([]string, 0, len(candidates)+1)
	for _, c := range candidates {
		if skip[c] {
			continue
		}
		headers = append(headers, c)
	}
	slices.Sort(headers)
	headers = slices.Compact(headers)
	return slices.Insert(headers, 0, common)
}

// ForceFirst moves names to the front of headers, in the order of names.
// Names not in headers are added. Other headers keep their relative order.
func ForceFirst(headers, names []string) []string {
	headers = slices.Clone(headers)
	for i := len(names) - 1; i >= 0; i-- {
		name := names[i]
		if j := slices.Index(headers, name); j >= 0 {
			headers = slices.Delete(headers, j, j+1)
		}
		headers = slices.Insert(headers, 0, name)
	}
	return headers
}

// Build derives headers for spec's dir under base.
func Build(ctx context.Context, base string, spec Spec) (*Result, error) {
	dir := filepath.Join(base, spec.Dir)
	headers, candidates, err := derive(ctx, dir, spec.Common)
	if err != nil {
		return nil, fmt.Errorf("wrapper %s: %w", spec.Output, err)
	}
	headers = ForceFirst(headers, spec.ForceFirst)
	if logger := clog.FromContext(ctx); logger.V(1) {
		logger.Infof("wrapper %s: %q", spec.Output, headers)
	}
	inputs := make([]string, 0, len(candidates)+1)
	inputs = append(inputs, filepath.Join(dir, spec.Common))
	for _, c := range candidates {
		if c == spec.Common {
			continue
		}
		inputs = append(inputs, filepath.Join(dir, c))
	}
	return &Result{
		Spec:    spec,
		Headers: headers,
		Inputs:  inputs,
	}, nil
}
