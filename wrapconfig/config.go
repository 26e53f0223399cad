// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package wrapconfig provides wrapper config for `wrapgen`.
//
// Config is a Starlark file that defines `init(ctx)`, which returns
// a module with
//
//	required_dirs: list of dirs that must exist under base dir.
//	wrappers: list of struct(output, dir, common, force_first).
//
// ctx has
//
//	base: base dir given in command line.
//	fs: exists(fname), is_dir(fname) for files under base.
package wrapconfig

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/charmbracelet/log"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"go.chromium.org/infra/build/wrapgen/wrapper"
)

// DefaultConfig is the config used when no config is specified.
const DefaultConfig = "@builtin//max.star"

const configEntryPoint = "init"

// Config is a wrapper config.
type Config struct {
	fname string

	// global variables loaded by the config.
	globals starlark.StringDict
}

// Plan is a plan of wrapper generation.
type Plan struct {
	// RequiredDirs are dirs that must exist under base dir.
	RequiredDirs []string

	// Wrappers are wrapper headers to generate, in order.
	Wrappers []wrapper.Spec
}

// Dirs returns required dirs and wrapper dirs, without duplicates.
func (p *Plan) Dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(d string) {
		if seen[d] {
			return
		}
		seen[d] = true
		dirs = append(dirs, d)
	}
	for _, d := range p.RequiredDirs {
		add(d)
	}
	for _, w := range p.Wrappers {
		add(w.Dir)
	}
	return dirs
}

// New returns new wrapper config loaded from fname.
// fname may be `@<repo>//path`, where repo is in repos or "builtin".
func New(ctx context.Context, fname string, repos map[string]fs.FS) (*Config, error) {
	allRepos := map[string]fs.FS{
		builtinRepo: builtinStar,
	}
	for k, v := range repos {
		allRepos[k] = v
	}
	loader := &repoLoader{
		repos:       allRepos,
		predeclared: builtinModule(),
	}
	thread := &starlark.Thread{
		Name: "load",
		Print: func(thread *starlark.Thread, msg string) {
			log.Infof("thread:%s %s", thread.Name, msg)
		},
		Load: loader.Load,
	}
	globals, err := loader.Load(thread, fname)
	if err != nil {
		log.Warnf("thread:%s failed to exec file %s: %v", thread.Name, fname, err)
		var eerr *starlark.EvalError
		if errors.As(err, &eerr) {
			log.Warnf("stacktrace:\n%s", eerr.Backtrace())
		}
		return nil, err
	}
	v, ok := globals[configEntryPoint]
	if !ok {
		return nil, fmt.Errorf("%s is not defined in %s", configEntryPoint, fname)
	}
	if _, ok := v.(starlark.Callable); !ok {
		return nil, fmt.Errorf("%s %s is not callable in %s", configEntryPoint, v.Type(), fname)
	}
	return &Config{
		fname:   fname,
		globals: globals,
	}, nil
}

// InitError is error of `init`.
type InitError struct {
	fname string
	fn    starlark.Value
	err   *starlark.EvalError
}

func (e InitError) Error() string {
	if fn, ok := e.fn.(*starlark.Function); ok {
		return fmt.Sprintf("failed to run %s[%s:%s]: %v", e.fname, fn.Position(), fn.Name(), e.err)
	}
	return fmt.Sprintf("failed to run %s[%s]: %v", e.fname, e.fn, e.err)
}

func (e InitError) Backtrace() string {
	return e.err.CallStack.String()
}

func (e InitError) Unwrap() error {
	return e.err
}

// Init runs `init` for base dir, and returns the plan.
func (cfg *Config) Init(ctx context.Context, base string) (*Plan, error) {
	fun := cfg.globals[configEntryPoint]
	thread := &starlark.Thread{
		Name: configEntryPoint,
		Print: func(thread *starlark.Thread, msg string) {
			log.Infof("thread:%s %s", thread.Name, msg)
		},
		Load: func(*starlark.Thread, string) (starlark.StringDict, error) {
			return nil, fmt.Errorf("load is not allowed in init")
		},
	}
	ictx := starlarkstruct.FromStringDict(starlark.String("ctx"), map[string]starlark.Value{
		"base": starlark.String(base),
		"fs":   starFS(base),
	})
	ret, err := starlark.Call(thread, fun, starlark.Tuple{ictx}, nil)
	if err != nil {
		log.Warnf("thread:%s failed to run %s: %v", thread.Name, configEntryPoint, err)
		var eerr *starlark.EvalError
		if errors.As(err, &eerr) {
			log.Warnf("stacktrace:\n%s", eerr.Backtrace())
			return nil, InitError{fname: cfg.fname, fn: fun, err: eerr}
		}
		return nil, fmt.Errorf("failed to run %s: %w", configEntryPoint, err)
	}
	m, ok := ret.(starlark.HasAttrs)
	if !ok {
		return nil, fmt.Errorf("%s returned %s, want module", configEntryPoint, ret.Type())
	}
	plan := &Plan{}
	v, err := attr(m, "required_dirs")
	if err != nil {
		return nil, err
	}
	if v != nil {
		plan.RequiredDirs, err = unpackList(v)
		if err != nil {
			return nil, fmt.Errorf("bad required_dirs: %w", err)
		}
	}
	v, err = attr(m, "wrappers")
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("no wrappers in %v", ret)
	}
	plan.Wrappers, err = unpackWrappers(v)
	if err != nil {
		return nil, fmt.Errorf("bad wrappers: %w", err)
	}
	log.Debugf("plan: %#v", plan)
	return plan, nil
}

// attr returns attribute name of v, or nil if it is not set or None.
func attr(v starlark.HasAttrs, name string) (starlark.Value, error) {
	a, err := v.Attr(name)
	if err != nil {
		var nerr starlark.NoSuchAttrError
		if errors.As(err, &nerr) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", name, err)
	}
	if a == nil || a == starlark.None {
		return nil, nil
	}
	return a, nil
}

func stringAttr(v starlark.HasAttrs, name string) (string, error) {
	a, err := attr(v, name)
	if err != nil {
		return "", err
	}
	if a == nil {
		return "", fmt.Errorf("missing %s", name)
	}
	s, ok := starlark.AsString(a)
	if !ok {
		return "", fmt.Errorf("%s: got %s; want string", name, a.Type())
	}
	if s == "" {
		return "", fmt.Errorf("empty %s", name)
	}
	return s, nil
}

func unpackWrappers(v starlark.Value) ([]wrapper.Spec, error) {
	iter := starlark.Iterate(v)
	if iter == nil {
		return nil, fmt.Errorf("got %s; want list", v.Type())
	}
	defer iter.Done()
	outputs := make(map[string]bool)
	var specs []wrapper.Spec
	var elem starlark.Value
	for i := 0; iter.Next(&elem); i++ {
		w, ok := elem.(starlark.HasAttrs)
		if !ok {
			return nil, fmt.Errorf("wrappers[%d]: got %s; want struct", i, elem.Type())
		}
		var spec wrapper.Spec
		var err error
		spec.Output, err = stringAttr(w, "output")
		if err != nil {
			return nil, fmt.Errorf("wrappers[%d]: %w", i, err)
		}
		spec.Dir, err = stringAttr(w, "dir")
		if err != nil {
			return nil, fmt.Errorf("wrappers[%d] %s: %w", i, spec.Output, err)
		}
		spec.Common, err = stringAttr(w, "common")
		if err != nil {
			return nil, fmt.Errorf("wrappers[%d] %s: %w", i, spec.Output, err)
		}
		ff, err := attr(w, "force_first")
		if err != nil {
			return nil, fmt.Errorf("wrappers[%d] %s: %w", i, spec.Output, err)
		}
		if ff != nil {
			spec.ForceFirst, err = unpackList(ff)
			if err != nil {
				return nil, fmt.Errorf("wrappers[%d] %s: bad force_first: %w", i, spec.Output, err)
			}
		}
		if outputs[spec.Output] {
			return nil, fmt.Errorf("wrappers[%d]: duplicate output %s", i, spec.Output)
		}
		outputs[spec.Output] = true
		specs = append(specs, spec)
	}
	return specs, nil
}

func unpackList(v starlark.Value) ([]string, error) {
	iterator := starlark.Iterate(v)
	if iterator == nil {
		return nil, fmt.Errorf("got %v; want iterator", v.Type())
	}
	defer iterator.Done()
	var elem starlark.Value
	var list []string
	for iterator.Next(&elem) {
		s, ok := starlark.AsString(elem)
		if !ok {
			return nil, fmt.Errorf("got %v in %v; want string", elem.Type(), v.Type())
		}
		if s == "" {
			return nil, fmt.Errorf("empty string in %v", v.Type())
		}
		list = append(list, s)
	}
	return list, nil
}

// Load loads config fname and runs `init` for base dir.
// It checks base dir, and all dirs needed by the plan exist
// before returning the plan.
func Load(ctx context.Context, fname string, base string) (*Plan, error) {
	err := wrapper.CheckDirs(base, nil)
	if err != nil {
		return nil, err
	}
	cfg, err := New(ctx, fname, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", fname, err)
	}
	plan, err := cfg.Init(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to init config %s: %w", fname, err)
	}
	err = wrapper.CheckDirs(base, plan.Dirs())
	if err != nil {
		return nil, err
	}
	log.Infof("config %s: required_dirs=%q wrappers=%d", fname, plan.RequiredDirs, len(plan.Wrappers))
	return plan, nil
}
