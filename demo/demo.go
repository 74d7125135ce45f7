// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package demo implements the I/O for running the mel demo. The script
// for the demo is in demo.mel in this directory. Its content is embedded
// in this source file.
package demo

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	_ "embed"

	"github.com/melon-lang/mel/exec"
	"github.com/melon-lang/mel/run"
)

//go:embed demo.mel
var demoText string

// Text returns the input text for the standard demo.
func Text() string {
	return demoText
}

// A Step is one paragraph of the demo. A paragraph whose first line is
// "// job NAME" starts a job by that name in the background.
type Step struct {
	Job string
	Src string
}

// Steps splits text into its paragraphs.
func Steps(text string) []Step {
	var steps []Step
	var para []string
	flush := func() {
		if len(para) == 0 {
			return
		}
		s := Step{Src: strings.Join(para, "\n") + "\n"}
		if name, ok := strings.CutPrefix(para[0], "// job "); ok {
			s.Job = strings.TrimSpace(name)
		}
		steps = append(steps, s)
		para = nil
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		para = append(para, line)
	}
	flush()
	return steps
}

// Run runs the demo. The arguments are the user's input, the function
// that runs each step, and a Writer for the output, to which each step is
// printed before it runs. When the user hits a blank line, the next step
// of the script is run. If the user's input line has text, that is run
// instead and the script does not advance; "quit" ends the demo. A nil
// userInput ignores the user and just runs the script. An error from
// eval is printed and the demo goes on.
func Run(userInput io.Reader, eval func(Step) error, output io.Writer) error {
	steps := Steps(demoText)
	var scan *bufio.Scanner
	if userInput != nil {
		scan = bufio.NewScanner(userInput)
	}
	do := func(s Step) {
		if err := eval(s); err != nil {
			fmt.Fprintln(output, err)
		}
	}
	next := func() bool {
		if len(steps) == 0 {
			return false
		}
		s := steps[0]
		steps = steps[1:]
		fmt.Fprint(output, s.Src)
		do(s)
		return true
	}
	// Show the first step, with instructions, before accepting user input.
	next()
	for userInput == nil || scan.Scan() {
		if userInput != nil && len(scan.Bytes()) > 0 {
			line := strings.TrimSpace(scan.Text())
			if line == "quit" {
				break
			}
			do(Step{Src: line})
			continue
		}
		if !next() {
			break
		}
	}
	if scan == nil {
		return nil
	}
	return scan.Err()
}

// Evaluator returns a function that runs demo steps in e, each as a job
// named for its step or else demo; see run.Step. Background jobs are left
// waiting for the steps that follow.
func Evaluator(e *exec.Engine) func(Step) error {
	return func(s Step) error {
		name := s.Job
		if name == "" {
			name = "demo"
		}
		_, err := run.Step(e, name, s.Src)
		return err
	}
}
