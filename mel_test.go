// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/melon-lang/mel/config"
	"github.com/melon-lang/mel/run"
)

const verbose = false

// TestAll runs the examples in testdata. Each is a paragraph of input,
// indented with spaces if at all, followed by its expected output,
// indented by a tab. In files whose names end _fail.mel, every example
// must fail.
func TestAll(t *testing.T) {
	names, err := filepath.Glob(filepath.Join("testdata", "*.mel"))
	if err != nil {
		t.Fatal(err)
	}
	if len(names) == 0 {
		t.Fatal("no tests")
	}
	for _, path := range names {
		t.Log(path)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(string(data), "\n")
		// Will have a trailing empty string.
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		lineNum := 1
		errCount := 0
		for len(lines) > 0 {
			input, output, length := getText(lines)
			if input == nil {
				break
			}
			if verbose {
				fmt.Printf("%s:%d: %s\n", path, lineNum, input)
			}
			if !runTest(t, path, lineNum, input, output) {
				errCount++
				if errCount > 3 {
					t.Fatal("too many errors")
				}
			}
			lines = lines[length:]
			lineNum += length
		}
	}
}

func runTest(t *testing.T, name string, lineNum int, input, output []string) bool {
	shouldFail := strings.HasSuffix(name, "_fail.mel")
	in := strings.Join(input, "\n")
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	conf := new(config.Config)
	conf.SetOutput(stdout)
	conf.SetErrOutput(stderr)
	j, err := run.Source(context.Background(), conf, filepath.Base(name), in)
	if err != nil {
		fmt.Fprintln(stderr, err)
	} else {
		run.Report(conf, j, true)
	}
	if shouldFail {
		if stderr.Len() == 0 {
			t.Errorf("\nexpected execution failure at %s:%d:\n%s", name, lineNum, in)
			return false
		}
		return true
	}
	if stderr.Len() != 0 {
		t.Errorf("\nexecution failure (%s) at %s:%d:\n%s", stderr, name, lineNum, in)
		return false
	}
	result := strings.Split(stdout.String(), "\n")
	if !equal(result, output) {
		t.Errorf("\n%s:%d:\n\t%s\ngot:\n\t%s\nwant:\n\t%s",
			name, lineNum,
			strings.Join(input, "\n\t"),
			strings.Join(result, "\n\t"),
			strings.Join(output, "\n\t"))
		return false
	}
	return true
}

func equal(a, b []string) bool {
	// Split leaves an empty trailing line.
	if len(a) > 0 && a[len(a)-1] == "" {
		a = a[:len(a)-1]
	}
	if len(a) != len(b) {
		return false
	}
	for i, s := range a {
		if strings.TrimSpace(s) != strings.TrimSpace(b[i]) {
			return false
		}
	}
	return true
}

// getText returns the next example in lines and how many lines it and
// the blank and comment lines before it took.
func getText(lines []string) (input, output []string, length int) {
	// Skip blank and initial comment lines.
	for _, line := range lines {
		if len(line) > 0 && !strings.HasPrefix(line, "#") {
			break
		}
		length++
	}

	// Input ends at a tab-indented or blank line.
	for _, line := range lines[length:] {
		line = strings.TrimRight(line, " \t")
		if line == "" || strings.HasPrefix(line, "\t") {
			break
		}
		input = append(input, line)
		length++
	}

	// Output ends at a non-blank, non-tab-indented line.
	// Indented "#" is expected blank line in output.
	for _, line := range lines[length:] {
		line = strings.TrimRight(line, " \t")
		if line != "" && !strings.HasPrefix(line, "\t") {
			break
		}
		output = append(output, strings.TrimPrefix(line, "\t"))
		length++
	}
	for len(output) > 0 && output[len(output)-1] == "" {
		output = output[:len(output)-1]
	}
	for i, line := range output {
		if line == "#" {
			output[i] = ""
		}
	}

	return // Will return nil if no more tests exist.
}

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestEvalFlag(t *testing.T) {
	out, _, err := execute(t, "", "-e", `print("hi"); 6 * 7;`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "hi\n42\n" {
		t.Errorf("got %q", out)
	}
	_, errOut, err := execute(t, "", "-e", `1 / 0;`)
	if err != errFailed {
		t.Errorf("got error %v; want %v", err, errFailed)
	}
	if errOut != "mel:1: arithmetic error: division by zero\n" {
		t.Errorf("got %q", errOut)
	}
}

func TestStdinProgram(t *testing.T) {
	out, _, err := execute(t, `print(1 + 1); 5;`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "2\n" {
		t.Errorf("got %q", out)
	}
}

func TestFilesAndFeed(t *testing.T) {
	dir := t.TempDir()
	upper := filepath.Join(dir, "upper.mel")
	sum := filepath.Join(dir, "sum.mel")
	os.WriteFile(upper, []byte(`
		msg_open("stdin");
		n = 0;
		while ((line = msg_recv("stdin")) != nil) {
			n++;
			while (!job_send("sum", "in", len(line)))
				yield();
		}
		while (!job_send("sum", "in", nil))
			yield();
		print("lines", n);`), 0o644)
	os.WriteFile(sum, []byte(`
		msg_open("in");
		total = 0;
		while ((v = msg_recv("in")) != nil)
			total += v;
		print("chars", total);`), 0o644)
	out, errOut, err := execute(t, "ab\ncde\n\nf\n", "--feed", "upper", "--stats", "--heartbeat", "1ms", upper, sum)
	if err != nil {
		t.Fatalf("%v: %s", err, errOut)
	}
	lines := strings.Split(out, "\n")
	if len(lines) < 5 || lines[0] != "lines 4" || lines[1] != "chars 6" {
		t.Fatalf("got %q", out)
	}
	if !strings.HasPrefix(lines[2], "JOB") || !strings.HasPrefix(lines[3], "upper  ") || !strings.HasPrefix(lines[4], "sum    ") {
		t.Errorf("bad stats table:\n%s", out)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mel.yaml")
	os.WriteFile(path, []byte("max_frames: 50\n"), 0o644)
	_, errOut, _ := execute(t, "", "-c", path, "-e", `@f() { return f(); } f();`)
	if !strings.Contains(errOut, "more than 50 frames") {
		t.Errorf("config file ignored: %q", errOut)
	}
	_, errOut, _ = execute(t, "", "-c", path, "--max-frames", "60", "-e", `@f() { return f(); } f();`)
	if !strings.Contains(errOut, "more than 60 frames") {
		t.Errorf("flag did not override file: %q", errOut)
	}
}

func TestBadUsage(t *testing.T) {
	if _, _, err := execute(t, "", "-e", "1;", "x.mel"); err == nil {
		t.Error("-e with files: no error")
	}
	if _, _, err := execute(t, "", "--debug", "bogus", "-e", "1;"); err == nil {
		t.Error("unknown debug flag: no error")
	}
	if _, _, err := execute(t, "", "--feed", "x"); err == nil {
		t.Error("--feed without files: no error")
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	if err != nil || out != "mel version "+version+"\n" {
		t.Errorf("got %q, %v", out, err)
	}
}

func TestDemoCommand(t *testing.T) {
	out, _, err := execute(t, "\nquit\n", "demo")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "hello, world\n") {
		t.Errorf("demo did not run its first steps: %q", out)
	}
}
