// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package run

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/melon-lang/mel/config"
	"github.com/melon-lang/mel/exec"
)

func testConfig(out *strings.Builder) *config.Config {
	conf := new(config.Config)
	conf.SetOutput(out)
	conf.SetErrOutput(out)
	conf.SetHeartbeat(time.Millisecond)
	return conf
}

func TestSource(t *testing.T) {
	var out strings.Builder
	conf := testConfig(&out)
	j, err := Source(context.Background(), conf, "t", `print("hi"); 6 * 7;`)
	if err != nil {
		t.Fatal(err)
	}
	if !Report(conf, j, true) {
		t.Fatal("job failed")
	}
	if got := out.String(); got != "hi\n42\n" {
		t.Errorf("got %q", got)
	}
	if _, err := Source(context.Background(), conf, "t", `(`); err == nil {
		t.Error("no syntax error")
	}
}

func TestReport(t *testing.T) {
	var out strings.Builder
	conf := testConfig(&out)
	j, err := Source(context.Background(), conf, "t", `@f(x) { return x / 0; } f(3);`)
	if err != nil {
		t.Fatal(err)
	}
	if Report(conf, j, true) {
		t.Fatal("job succeeded")
	}
	want := "t:1: arithmetic error: division by zero\n\t•> f(3) line 1\n\t\tx = 3\n"
	if got := out.String(); got != want {
		t.Errorf("got %q; want %q", got, want)
	}
}

func write(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	counter := write(t, dir, "counter.mel", `
		msg_open("stdin");
		n = 0;
		while (msg_recv("stdin") != nil)
			n++;
		print("lines", n);`)
	greet := write(t, dir, "greet.mel", `print("hello");`)
	var out strings.Builder
	e := exec.NewEngine(testConfig(&out))
	jobs, err := Files(context.Background(), e, []string{counter, greet}, strings.NewReader("a\nb\nc\n"), "counter")
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 2 || jobs[0].Name() != "counter" || jobs[1].Name() != "greet" {
		t.Fatalf("bad jobs %v", jobs)
	}
	for _, j := range jobs {
		if j.Err() != nil {
			t.Errorf("%s: %v", j.Name(), j.Err())
		}
	}
	if got := out.String(); got != "hello\nlines 3\n" {
		t.Errorf("got %q", got)
	}
}

func TestFilesErrors(t *testing.T) {
	dir := t.TempDir()
	e := exec.NewEngine(nil)
	if _, err := Files(context.Background(), e, []string{filepath.Join(dir, "none.mel")}, nil, ""); err == nil {
		t.Error("missing file: no error")
	}
	bad := write(t, dir, "bad.mel", `x = ;`)
	if _, err := Files(context.Background(), e, []string{bad}, nil, ""); err == nil {
		t.Error("syntax error: no error")
	}
	ok := write(t, dir, "ok.mel", `1;`)
	if _, err := Files(context.Background(), e, []string{ok}, strings.NewReader(""), "nobody"); err == nil {
		t.Error("unknown feed job: no error")
	}
}

func TestJobName(t *testing.T) {
	if got := JobName("a/b/worker.mel"); got != "worker" {
		t.Errorf("got %q", got)
	}
}

func TestStep(t *testing.T) {
	var out strings.Builder
	e := exec.NewEngine(testConfig(&out))
	defer e.Close()
	w, err := Step(e, "w", `msg_open("m"); msg_recv("m") * 2;`)
	if err != nil {
		t.Fatal(err)
	}
	if w.State() != exec.Waiting || out.Len() != 0 {
		t.Fatalf("waiting job: state %s, output %q", w.State(), out.String())
	}
	if _, err := Step(e, "s", `job_send("w", "m", 21);`); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "true\n" {
		t.Errorf("got %q", got)
	}
	if w.Result() != int64(42) {
		t.Errorf("waiting job: got %v, %v", w.Result(), w.Err())
	}
	if _, err := Step(e, "bad", `)`); err == nil {
		t.Error("no syntax error")
	}
}
