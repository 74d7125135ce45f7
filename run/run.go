// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package run provides the execution control for mel.
// It is factored out of main so it can be used for tests.
// This layout also helps out mel/mobile.
package run // import "github.com/melon-lang/mel/run"

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/melon-lang/mel/config"
	"github.com/melon-lang/mel/exec"
)

// Source runs src as a single job in a new engine governed by conf and
// returns the finished job. A syntax error is returned with a nil job.
func Source(ctx context.Context, conf *config.Config, name, src string) (*exec.Job, error) {
	e := exec.NewEngine(conf)
	defer e.Close()
	j, err := e.NewJob(name, src, nil, nil)
	if err != nil {
		return nil, err
	}
	return j, e.Run(ctx)
}

// Step starts src as a job named name in e and runs the engine until no
// job can proceed. If the job finished, what it produced is printed as
// by Report. Jobs left waiting, the new one included, stay in e for
// later steps to wake.
func Step(e *exec.Engine, name, src string) (*exec.Job, error) {
	j, err := e.NewJob(name, src, nil, nil)
	if err != nil {
		return nil, err
	}
	for e.Tick() {
	}
	if j.State() == exec.Done {
		Report(e.Config(), j, true)
	}
	return j, nil
}

// JobName returns the name a job running the named file is given: the
// base name without the .mel suffix, so scripts can address each other
// with job_send.
func JobName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".mel")
}

// Files starts a job for each file in e and runs the engine until they
// all finish or ctx is done. If in is not nil, its lines are fed to the
// "stdin" mailbox of the job named feed; see Feed. The jobs are returned
// in the order of the files, even if some fail.
func Files(ctx context.Context, e *exec.Engine, paths []string, in io.Reader, feed string) ([]*exec.Job, error) {
	var jobs []*exec.Job
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return jobs, err
		}
		j, err := e.NewJob(JobName(path), string(src), path, nil)
		if err != nil {
			return jobs, err
		}
		jobs = append(jobs, j)
	}
	var target *exec.Job
	if in != nil {
		j, ok := e.Job(feed)
		if !ok {
			return jobs, fmt.Errorf("no job %s to feed", feed)
		}
		target = j
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The feeder stops when the jobs do.
		defer cancel()
		return e.Run(ctx)
	})
	if target != nil {
		g.Go(func() error {
			return Feed(ctx, e, target, "stdin", in)
		})
	}
	return jobs, g.Wait()
}

// Feed sends each line of r, without its newline, as a string to the
// named mailbox of j, and a nil once r is exhausted. A line that does
// not fit, because the mailbox is full or not open yet, is sent again
// each heartbeat. Feed runs on its own goroutine and reaches the engine
// only through Post. It returns when r is exhausted, when the job ends,
// or, with no error, when ctx is done.
func Feed(ctx context.Context, e *exec.Engine, j *exec.Job, box string, r io.Reader) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scan := bufio.NewScanner(r)
		for scan.Scan() {
			select {
			case lines <- scan.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scan.Err()
	}()
	send := func(x any) error {
		for ctx.Err() == nil {
			res := make(chan error, 1)
			if err := e.Post(func() { res <- e.Send(j, box, x) }); err != nil {
				return err
			}
			var err error
			select {
			case err = <-res:
			case <-ctx.Done():
				continue
			}
			if err != exec.ErrMailboxFull && err != exec.ErrNoMailbox {
				return err
			}
			select {
			case <-time.After(e.Config().Heartbeat()):
			case <-ctx.Done():
			}
		}
		return nil
	}
	for line := range lines {
		if err := send(line); err != nil {
			return done(err)
		}
	}
	select {
	case err := <-errc:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return nil
	}
	return done(send(nil))
}

// done treats the end of the receiving job as a normal end of feeding.
func done(err error) error {
	if err == exec.ErrJobDone || err == exec.ErrEngineClosed {
		return nil
	}
	return err
}

// Report prints what a finished job produced: for a failure, the error
// and the calls active when it happened to the error output; otherwise,
// if result is set, the job's result, unless it is nil, to the output.
// It reports whether the job succeeded.
func Report(conf *config.Config, j *exec.Job, result bool) bool {
	if err := j.Err(); err != nil {
		w := conf.ErrOutput()
		fmt.Fprintln(w, err)
		for _, frame := range j.Trace() {
			fmt.Fprintf(w, "\t•> %s\n", strings.ReplaceAll(frame, "\n", "\n\t"))
		}
		return false
	}
	if result && j.Result() != nil {
		fmt.Fprintln(conf.Output(), j.ResultString())
	}
	return true
}
