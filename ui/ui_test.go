// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui_test

import (
	"testing"

	"go.chromium.org/infra/build/wrapgen/ui"
)

func TestStripANSIEscapeCodes(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{
			in:   "foo\033",
			want: "foo",
		},
		{
			in:   "foo\033[",
			want: "foo",
		},
		{
			in:   "\033[1maffixmgr.cxx:286:15: \033[0m\033[0;1;35mwarning: \033[0m\033[1musing the result... [-Wparentheses]\033[0m",
			want: "affixmgr.cxx:286:15: warning: using the result... [-Wparentheses]",
		},
	} {
		got := ui.StripANSIEscapeCodes(tc.in)
		if got != tc.want {
			t.Errorf("ui.StripANSIEscapeCodes(%q)=%q; want=%q", tc.in, got, tc.want)
		}
	}
}

func TestSGR(t *testing.T) {
	got := ui.SGR(ui.Red, "stale")
	if want := "\033[31;1mstale\033[0m"; got != want {
		t.Errorf("ui.SGR(ui.Red, %q)=%q; want=%q", "stale", got, want)
	}
	if got := ui.StripANSIEscapeCodes(got); got != "stale" {
		t.Errorf("ui.StripANSIEscapeCodes(ui.SGR(ui.Red, %q))=%q; want=%q", "stale", got, "stale")
	}
}

func TestIsTerminal(t *testing.T) {
	orig := ui.Default
	t.Cleanup(func() {
		ui.Default = orig
	})

	ui.Default = &ui.TermUI{}
	if !ui.IsTerminal() {
		t.Errorf("IsTerminal()=false for TermUI; want true")
	}
	ui.Default = &ui.LogUI{}
	if ui.IsTerminal() {
		t.Errorf("IsTerminal()=true for LogUI; want false")
	}
}

func TestSGR_Strip(t *testing.T) {
	for _, code := range []ui.SGRCode{ui.Bold, ui.Red, ui.Green, ui.Yellow, ui.BackgroundRed} {
		got := ui.StripANSIEscapeCodes(ui.SGR(code, "wrapper-max.h"))
		if got != "wrapper-max.h" {
			t.Errorf("StripANSIEscapeCodes(SGR(%d, ...))=%q; want %q", code, got, "wrapper-max.h")
		}
	}
}
