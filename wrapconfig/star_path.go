// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wrapconfig

import (
	"fmt"
	"path/filepath"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// starPath returns path module.
//
//	base(fname)
//	dir(fname)
//	join(...)
func starPath() starlark.Value {
	pathModule := &starlarkstruct.Module{
		Name: "path",
		Members: map[string]starlark.Value{
			"base": starlark.NewBuiltin("base", starPathBase),
			"dir":  starlark.NewBuiltin("dir", starPathDir),
			"join": starlark.NewBuiltin("join", starPathJoin),
		},
	}
	pathModule.Freeze()
	return pathModule
}

// Starlark function `path.base(fname)` to return base name of fname.
func starPathBase(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var fname string
	err := starlark.UnpackArgs("base", args, kwargs, "fname", &fname)
	if err != nil {
		return starlark.None, err
	}
	return starlark.String(filepath.Base(fname)), nil
}

// Starlark function `path.dir(fname)` to return dir name of fname.
func starPathDir(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var fname string
	err := starlark.UnpackArgs("dir", args, kwargs, "fname", &fname)
	if err != nil {
		return starlark.None, err
	}
	return starlark.String(filepath.ToSlash(filepath.Dir(fname))), nil
}

// Starlark function `path.join(...)` to return joined path name.
func starPathJoin(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var elems []string
	for _, v := range args {
		s, ok := starlark.AsString(v)
		if !ok {
			return starlark.None, fmt.Errorf("join: for parameter elems: got %s, want string", v.Type())
		}
		elems = append(elems, s)
	}
	return starlark.String(filepath.ToSlash(filepath.Join(elems...))), nil
}
