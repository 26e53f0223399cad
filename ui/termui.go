// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"fmt"
	"os"
)

// TermUI is a terminal-based UI.
type TermUI struct{}

// Infof reports to stdout.
func (TermUI) Infof(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}

// Warningf reports to stderr with yellow label.
func (TermUI) Warningf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", SGR(Yellow, "WARNING"), fmt.Sprintf(format, args...))
}

// Errorf reports to stderr with red label.
func (TermUI) Errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", SGR(Red, "ERROR"), fmt.Sprintf(format, args...))
}
