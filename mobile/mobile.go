// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The mobile package provides a very narrow interface to mel,
// suitable for wrapping in a UI for mobile applications.
// It is designed to work well with the gomobile tool by exposing
// only primitive types. It's also handy for testing.
//
// The package holds one engine, so only one execution stream
// (Eval or Demo) can be active at a time. Jobs left waiting by one
// Eval, such as those blocked on a mailbox, stay until Reset.
package mobile

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/melon-lang/mel/config"
	"github.com/melon-lang/mel/demo"
	"github.com/melon-lang/mel/exec"
)

var (
	conf   *config.Config
	engine *exec.Engine
	stdout bytes.Buffer
	stderr bytes.Buffer
)

func init() {
	Reset()
}

// Eval runs the input string as a job and returns its output followed
// by its result. If the job failed, the error and the calls active at
// the time are returned in the error value.
func Eval(expr string) (result string, errors error) {
	return eval(demo.Step{Src: expr})
}

func eval(step demo.Step) (string, error) {
	stdout.Reset()
	stderr.Reset()
	if err := demo.Evaluator(engine)(step); err != nil {
		return "", err
	}
	var err error
	if stderr.Len() > 0 {
		err = fmt.Errorf("%s", stderr.String())
	}
	return stdout.String(), err
}

// Demo represents a running step-by-step demonstration.
type Demo struct {
	steps []demo.Step
}

// NewDemo returns a new Demo that will run the input text paragraph
// by paragraph. It resets the package state.
func NewDemo(input string) *Demo {
	Reset()
	return &Demo{
		steps: demo.Steps(input),
	}
}

// Next returns the result (and error) produced by the next paragraph of
// input. It returns ("", io.EOF) at EOF.
func (d *Demo) Next() (result string, err error) {
	if len(d.steps) == 0 {
		return "", io.EOF
	}
	s := d.steps[0]
	d.steps = d.steps[1:]
	return eval(s)
}

// Reset clears all state to the initial value.
func Reset() {
	if engine != nil {
		engine.Close()
	}
	conf = new(config.Config)
	conf.SetOutput(&stdout)
	conf.SetErrOutput(&stderr)
	engine = exec.NewEngine(conf)
}

// Text returns the standard demo script.
func Text() string {
	return strings.TrimSpace(demo.Text())
}
