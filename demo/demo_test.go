// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package demo

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/melon-lang/mel/config"
	"github.com/melon-lang/mel/exec"
)

func TestSteps(t *testing.T) {
	got := Steps("a;\nb;\n\n\n// job w\nc;\n  \nd;")
	want := []Step{
		{Src: "a;\nb;\n"},
		{Job: "w", Src: "// job w\nc;\n"},
		{Src: "d;\n"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("steps (-want +got):\n%s", diff)
	}
}

func newEngine(out *strings.Builder) *exec.Engine {
	conf := new(config.Config)
	conf.SetOutput(out)
	conf.SetErrOutput(out)
	return exec.NewEngine(conf)
}

func TestDemo(t *testing.T) {
	var out strings.Builder
	e := newEngine(&out)
	defer e.Close()
	if err := Run(nil, Evaluator(e), &out); err != nil {
		t.Fatal(err)
	}
	result := out.String()
	for _, want := range []string{
		"hello, world\n",
		"\n42\n",
		"[6765, 2, 1]\n",
		"Point{x: 3, y: 4} 25\n",
		"demo:2: arithmetic error: division by zero\n",
		"sent 10\nconsumer total 55\n",
		"\n4\n",
		"1970-01-01\n",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("demo output lacks %q:\n%s", want, result)
		}
	}
	if e.Live() != 0 {
		t.Errorf("%d jobs still live", e.Live())
	}
}

func TestUserInput(t *testing.T) {
	var out strings.Builder
	e := newEngine(&out)
	defer e.Close()
	in := strings.NewReader("1 + 1;\n(\n\nquit\n\n")
	if err := Run(in, Evaluator(e), &out); err != nil {
		t.Fatal(err)
	}
	steps := Steps(Text())
	want := steps[0].Src + "2\n"
	result := out.String()
	if !strings.HasPrefix(result, want) {
		t.Fatalf("got %q; want prefix %q", result, want)
	}
	rest := result[len(want):]
	if !strings.HasPrefix(rest, "demo:") || !strings.Contains(rest, "syntax error") {
		t.Errorf("no syntax error reported in %q", rest)
	}
	if !strings.HasSuffix(rest, steps[1].Src+"hello, world\n") {
		t.Errorf("second step did not run: %q", rest)
	}
}
