// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package wrapper generates aggregate wrapper headers for a SDK include
// directory.
//
// For a directory and its common header, it collects every *.h file in
// the directory, drops the ones the common header already includes,
// sorts the rest and emits
//
//	#include <common.h>
//	#include <a.h>
//	#include <b.h>
//	...
//
// The common header is scanned only for the following single-line forms
//
//	#include "foo.h"
//	#include <foo.h>
//
// It doesn't follow the includes of included headers, nor evaluate
// `#if` or macros. The output is a flat re-export list, and it is
// byte-identical for identical input.
package wrapper
