// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wrapper

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseIncludes(t *testing.T) {
	for _, tc := range []struct {
		name string
		buf  string
		want []string
	}{
		{
			name: "ext",
			buf: `
#ifndef _EXT_H_
#define _EXT_H_

#include "ext_prefix.h"
#include "ext_mess.h"
  #include	<stdio.h>
#include<string.h>

#endif // _EXT_H_
`,
			want: []string{
				"ext_prefix.h",
				"ext_mess.h",
				"stdio.h",
				"string.h",
			},
		},
		{
			name: "no-includes",
			buf:  "int main(void);\n",
			want: nil,
		},
		{
			name: "path-kept",
			buf:  `#include "../common/commonsyms.h"` + "\n" + `#include <sys/types.h>`,
			want: []string{
				"../common/commonsyms.h",
				"sys/types.h",
			},
		},
		{
			name: "not-include",
			buf: `
#include_next <limits.h>
#import <Foundation/Foundation.h>
// #include "commented.h"
#include MACRO_H
#include "unclosed.h
#include <mismatch.h"
#include ""
`,
			want: nil,
		},
		{
			name: "crlf",
			buf:  "#include \"a.h\"\r\n#include <b.h>\r\n",
			want: []string{"a.h", "b.h"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseIncludes(strings.NewReader(tc.buf))
			if err != nil {
				t.Fatalf("ParseIncludes(%q)=%q, %v; want nil err", tc.buf, got, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseIncludes(%q) diff -want +got:\n%s", tc.buf, diff)
			}
		})
	}
}
