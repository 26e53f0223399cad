// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wrapconfig

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"go.starlark.net/starlark"
)

const builtinRepo = "builtin"

// repoLoader is a Starlark repository loader.
type repoLoader struct {
	repos       map[string]fs.FS
	predeclared starlark.StringDict

	// cache of loaded modules by fullname.
	cache map[string]starlark.StringDict
}

// Load loads a Starlark module.
// A module may be `@<repo>//` prefix to select repository.
// Otherwise, it is loaded from local disk relative to the current module.
func (r *repoLoader) Load(thread *starlark.Thread, module string) (starlark.StringDict, error) {
	curname, _ := thread.Local("modulename").(string)
	log.Debugf("load %s from %s", module, curname)
	var curModule string
	if m, n, ok := strings.Cut(curname, "//"); ok && strings.HasPrefix(m, "@") {
		curModule = m[1:]
		curname = n
	}
	curdir := path.Dir(curname)
	var moduleName string
	var fname string
	var fullname string
	if !strings.HasPrefix(module, "@") {
		fname = module
		if curname != "" && !path.IsAbs(fname) {
			fname = path.Join(curdir, module)
		}
		moduleName = curModule
	} else {
		m, n, ok := strings.Cut(module, "//")
		if !ok {
			return nil, fmt.Errorf("failed to parse module: %q", module)
		}
		moduleName = m[1:]
		fname = n
	}
	if moduleName != "" {
		fullname = fmt.Sprintf("@%s//%s", moduleName, fname)
	} else {
		fullname = fname
	}
	if globals, ok := r.cache[fullname]; ok {
		return globals, nil
	}
	log.Debugf("module=%q fname=%q fullname=%q", moduleName, fname, fullname)
	var buf []byte
	var err error
	if moduleName != "" {
		moduleFS, ok := r.repos[moduleName]
		if !ok {
			return nil, fmt.Errorf("no such module defined %q", moduleName)
		}
		buf, err = fs.ReadFile(moduleFS, fname)
	} else {
		buf, err = os.ReadFile(fname)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", fullname, err)
	}
	t := &starlark.Thread{
		Name: "module " + module + "(fullname: " + fullname + ")",
		Print: func(thread *starlark.Thread, msg string) {
			log.Infof("thread:%s %s", thread.Name, msg)
		},
		Load: r.Load,
	}
	t.SetLocal("modulename", fullname)
	globals, err := starlark.ExecFile(t, fullname, buf, r.predeclared)
	if err != nil {
		return nil, err
	}
	if r.cache == nil {
		r.cache = make(map[string]starlark.StringDict)
	}
	r.cache[fullname] = globals
	return globals, nil
}
