// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wrapper

import (
	"bytes"
	"fmt"
	"os"
)

// Format formats headers as `#include <name>` lines.
func Format(headers []string) []byte {
	var buf bytes.Buffer
	for _, h := range headers {
		fmt.Fprintf(&buf, "#include <%s>\n", h)
	}
	return buf.Bytes()
}

// Write writes headers to fname, replacing its content.
func Write(fname string, headers []string) (err error) {
	f, err := os.Create(fname)
	if err != nil {
		return &IOError{Op: "create", Path: fname, Err: err}
	}
	defer func() {
		cerr := f.Close()
		if err == nil && cerr != nil {
			err = &IOError{Op: "close", Path: fname, Err: cerr}
		}
	}()
	_, err = f.Write(Format(headers))
	if err != nil {
		return &IOError{Op: "write", Path: fname, Err: err}
	}
	return nil
}
