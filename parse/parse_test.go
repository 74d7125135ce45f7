// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/melon-lang/mel/syntax"
)

var parseTests = []struct {
	input string
	tree  string
}{
	{"x = 1 + 2 * 3;", "{(<var x> = (<int 1> + (<int 2> * <int 3>)))}"},
	{"a - b - c;", "{((<var a> - <var b>) - <var c>)}"},
	{"a = b = 2;", "{(<var a> = (<var b> = <int 2>))}"},
	{"a += 0x10;", "{(<var a> += <int 16>)}"},
	{"a && b || c;", "{((<var a> && <var b>) || <var c>)}"},
	{"a | b == c < d << e;", "{(<var a> | (<var b> == (<var c> < (<var d> << <var e>))))}"},
	{"-a.b(1)[2];", "{(-<var a>.b(<int 1>)[<int 2>])}"},
	{"!f();", "{(!<var f>())}"},
	{"i++;", "{(<var i>++)}"},
	{"--i;", "{(--<var i>)}"},
	{"$P.x;", "{($P).x}"},
	{"[1, 'k': 2];", `{[<int 1>, <string "k">: <int 2>]}`},
	{"a, b;", "{<<var a>, <var b>>}"},
	{"(a + b) * c;", "{((<var a> + <var b>) * <var c>)}"},
	{"1.5; 'q'; nil; true;", `{<real 1.5>; <string "q">; nil; true}`},
	{"@f(a, &b) { return a; }", "{<@f(a, &b) {<return <var a>>}>}"},
	{"f = @(x) { };", "{(<var f> = <@(x) {}>)}"},
	{"P { x; @m() { } }", "{<set P x <@m() {}>>}"},
	{"if (a) b; else { c; }", "{<if <var a> <var b> else {<var c>}>}"},
	{"while (1) { break; continue; }", "{<while <int 1> {<break>; <continue>}>}"},
	{"for (i = 0; i < 3; i++) ;", "{<for (<var i> = <int 0>); (<var i> < <int 3>); (<var i>++) <empty>>}"},
	{"for (;;) return;", "{<for ; ;  <return>>}"},
	{"switch (x) { case 1: a; default: b; }", "{<switch <var x> case <int 1>: {<var a>} default: {<var b>}>}"},
	{"while (a) if (b) c;", "{<while <var a> {<if <var b> <var c>>}>}"},
}

func TestParse(t *testing.T) {
	for _, test := range parseTests {
		prog, err := Parse("test", test.input)
		if err != nil {
			t.Errorf("%q: %v", test.input, err)
			continue
		}
		if got := syntax.Dump(prog); got != test.tree {
			t.Errorf("%q:\n\tgot  %s\n\twant %s", test.input, got, test.tree)
		}
	}
}

func TestEmpty(t *testing.T) {
	prog, err := Parse("test", "  // nothing\n")
	if err != nil || prog != nil {
		t.Errorf("empty program: got %v, %v", prog, err)
	}
}

func TestParseErrors(t *testing.T) {
	var tests = []struct {
		input string
		error string
	}{
		{"1 = 2;", "cannot assign"},
		{"f() = 2;", "cannot assign"},
		{"a = ;", "unexpected"},
		{"if a) b;", "expected LeftParen"},
		{"f(x;", "expected Comma"},
		{"a = 1", "expected Semicolon"},
		{"@f(a, a) {}", "duplicate argument"},
		{"switch (x) { default: ; default: ; }", "multiple defaults"},
		{"x = 'abc", "unterminated string"},
		{"}", "unexpected"},
		{"99999999999999999999;", "bad integer"},
	}
	for _, test := range tests {
		_, err := Parse("test", test.input)
		if err == nil || !strings.Contains(err.Error(), test.error) {
			t.Errorf("%q: expected error containing %q; got %v", test.input, test.error, err)
		}
	}
}

func TestErrorPosition(t *testing.T) {
	_, err := Parse("prog.mel", "a;\n\nb = ;\n")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("got %v; want *Error", err)
	}
	if perr.Line != 3 || perr.Name != "prog.mel" {
		t.Errorf("error at %s:%d; want prog.mel:3", perr.Name, perr.Line)
	}
	if !strings.HasPrefix(err.Error(), "prog.mel:3: ") {
		t.Errorf("error text %q", err)
	}
}

func TestChildren(t *testing.T) {
	prog, err := Parse("test", "if (a) b = 1; else c;")
	if err != nil {
		t.Fatal(err)
	}
	n := prog.Body.(*syntax.If)
	kids := n.Children()
	if len(kids) != 3 {
		t.Fatalf("if has %d children; want 3", len(kids))
	}
	want := []syntax.Kind{syntax.ExpKind, syntax.BlockKind, syntax.BlockKind}
	for i, k := range kids {
		if k.Kind() != want[i] {
			t.Errorf("child %d is %s; want %s", i, k.Kind(), want[i])
		}
	}
	if len(prog.Children()) != 1 {
		t.Errorf("single statement has %d children", len(prog.Children()))
	}
}
