// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wrapconfig

import (
	"os"
	"path/filepath"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// starFS returns fs module to access files under base.
//
//	exists(fname)
//	is_dir(fname)
func starFS(base string) starlark.Value {
	return starlarkstruct.FromStringDict(starlark.String("fs"), map[string]starlark.Value{
		"exists": starlark.NewBuiltin("exists", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var fname string
			err := starlark.UnpackArgs("exists", args, kwargs, "fname", &fname)
			if err != nil {
				return starlark.None, err
			}
			_, err = os.Stat(filepath.Join(base, fname))
			return starlark.Bool(err == nil), nil
		}),
		"is_dir": starlark.NewBuiltin("is_dir", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var fname string
			err := starlark.UnpackArgs("is_dir", args, kwargs, "fname", &fname)
			if err != nil {
				return starlark.None, err
			}
			fi, err := os.Stat(filepath.Join(base, fname))
			return starlark.Bool(err == nil && fi.IsDir()), nil
		}),
	})
}
