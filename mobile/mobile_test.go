// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mobile

import (
	"io"
	"strings"
	"testing"
)

// We know mel works. These just test that the wrapper works.

func TestEval(t *testing.T) {
	var tests = []struct {
		input  string
		output string
	}{
		{"", ""},
		{"23;", "23\n"},
		{`print("a"); 1.5;`, "a\n1.500000\n"},
		{`x = nil;`, ""},
	}
	for _, test := range tests {
		Reset()
		out, err := Eval(test.input)
		if err != nil {
			t.Errorf("evaluating %q: %v", test.input, err)
			continue
		}
		if out != test.output {
			t.Errorf("%q: expected %q; got %q", test.input, test.output, out)
		}
	}
}

func TestEvalError(t *testing.T) {
	var tests = []struct {
		input string
		error string
	}{
		{`"x`, "unterminated string"},
		{"1 / 0;", "division by zero"},
		{"@f() { return g(); } f();", "\t•> f() line 1"},
	}
	for _, test := range tests {
		Reset()
		_, err := Eval(test.input)
		if err == nil {
			t.Errorf("evaluating %q: expected %q; got nothing", test.input, test.error)
			continue
		}
		if !strings.Contains(err.Error(), test.error) {
			t.Errorf("%q: expected %q; got %q", test.input, test.error, err)
		}
	}
}

// Waiting jobs outlive the step that started them.
func TestWaitingJob(t *testing.T) {
	d := NewDemo("// job listener\nmsg_open(\"in\"); print(\"got\", msg_recv(\"in\"));\n\njob_send(\"listener\", \"in\", 7);\n")
	if out, err := d.Next(); out != "" || err != nil {
		t.Fatalf("listener: %q %v", out, err)
	}
	out, err := d.Next()
	if err != nil {
		t.Fatal(err)
	}
	if out != "got 7\ntrue\n" {
		t.Errorf("got %q", out)
	}
}

const demoText = `// This is a demo.
23;

1 / 0; // Cause an error.

// Keep going.
[1, 2, 3];
`

const demoOut = `23
[1, 2, 3]
`

const demoErr = "demo:1: arithmetic error: division by zero\n"

func TestDemo(t *testing.T) {
	demo := NewDemo(demoText)
	results := make([]byte, 0, 100)
	errors := make([]byte, 0, 100)
	for {
		result, err := demo.Next()
		if err == io.EOF {
			break
		}
		results = append(results, result...)
		if err != nil {
			errors = append(errors, err.Error()...)
		}
	}
	if demoOut != string(results) {
		t.Fatalf("expected %q; got %q", demoOut, results)
	}
	if demoErr != string(errors) {
		t.Fatalf("expected errors %q; got %q", demoErr, errors)
	}
}

func TestText(t *testing.T) {
	if !strings.HasPrefix(Text(), "// Welcome") {
		t.Errorf("bad demo text %q", Text())
	}
}
