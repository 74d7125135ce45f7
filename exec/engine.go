// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package exec runs mel programs. An Engine multiplexes many jobs on one
// goroutine: each tick executes one step of the job at the head of the
// run queue, and a job that uses up its step budget goes to the back.
// Jobs blocked on a mailbox or suspended by the host wait in a separate
// queue until they are woken.
package exec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/melon-lang/mel/config"
	"github.com/melon-lang/mel/parse"
	"github.com/melon-lang/mel/syntax"
	"github.com/melon-lang/mel/value"
)

var (
	ErrJobDone        = errors.New("job is done")
	ErrJobStarted     = errors.New("job has started")
	ErrKilled         = errors.New("job killed")
	ErrNoMailbox      = errors.New("no such mailbox")
	ErrMailboxFull    = errors.New("mailbox is full")
	ErrResourceExists = errors.New("resource already registered")
	ErrNoResource     = errors.New("no such resource")
	ErrEngineClosed   = errors.New("engine is closed")
)

// jobQueue is a FIFO of jobs linked through the jobs themselves. A job
// is in at most one queue.
type jobQueue struct {
	head, tail *Job
	n          int
}

func (q *jobQueue) push(j *Job) {
	j.prev, j.next, j.queue = q.tail, nil, q
	if q.tail == nil {
		q.head = j
	} else {
		q.tail.next = j
	}
	q.tail = j
	q.n++
}

func (q *jobQueue) remove(j *Job) {
	if j.prev == nil {
		q.head = j.next
	} else {
		j.prev.next = j.next
	}
	if j.next == nil {
		q.tail = j.prev
	} else {
		j.next.prev = j.prev
	}
	j.prev, j.next, j.queue = nil, nil, nil
	q.n--
}

// Engine schedules jobs. Except for Post, its methods must be called
// from the goroutine running the engine, which for callbacks from other
// goroutines means from a function passed to Post.
type Engine struct {
	conf      *config.Config
	log       *slog.Logger
	run, wait jobQueue
	jobs      map[string]*Job // live jobs by name
	live      int
	nextID    int
	cache     *astCache
	resources resources
	post      chan func()
	done      chan struct{}
	closed    bool
}

// NewEngine returns an engine governed by conf. A nil conf means the
// defaults.
func NewEngine(conf *config.Config) *Engine {
	if conf == nil {
		conf = new(config.Config)
	}
	return &Engine{
		conf:  conf,
		log:   conf.Logger(),
		jobs:  make(map[string]*Job),
		cache: newCache(conf),
		post:  make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

func (e *Engine) Config() *config.Config {
	return e.conf
}

// debug logs a scheduler event, at Info level if the sched debug flag is
// set.
func (e *Engine) debug(msg string, j *Job, args ...any) {
	level := slog.LevelDebug
	if e.conf.Debug("sched") {
		level = slog.LevelInfo
	}
	if j != nil {
		args = append([]any{"job", j.name}, args...)
	}
	e.log.Log(context.Background(), level, msg, args...)
}

// NewJob parses src and starts a job running it. The data is returned by
// the job's Data method, and done, if not nil, is called when the job
// ends. A syntax error is returned as an error wrapping a value.Error of
// kind SyntaxError; no job is created.
func (e *Engine) NewJob(name, src string, data any, done func(*Job)) (*Job, error) {
	if e.closed {
		return nil, ErrEngineClosed
	}
	tree, cached, err := e.cache.get(name, src)
	if err != nil {
		var pe *parse.Error
		if errors.As(err, &pe) {
			return nil, fmt.Errorf("%s:%d: %w", pe.Name, pe.Line, value.Errorf(value.SyntaxError, "%s", pe.Msg))
		}
		return nil, err
	}
	if e.conf.Debug("parse") && tree != nil {
		fmt.Fprintln(e.conf.Output(), syntax.Dump(tree))
	}
	j := newJob(e, name, src, tree)
	j.cached = cached
	j.data = data
	j.done = done
	e.nextID++
	j.id = e.nextID
	e.jobs[name] = j
	e.live++
	e.run.push(j)
	e.debug("job start", j, "id", j.id)
	return j, nil
}

// Job returns the live job with the given name, if any. If several live
// jobs share the name, it is the most recently started.
func (e *Engine) Job(name string) (*Job, bool) {
	j, ok := e.jobs[name]
	return j, ok
}

// Live returns the number of jobs that have not finished.
func (e *Engine) Live() int { return e.live }

// Runnable and Waiting return the lengths of the run and wait queues.
func (e *Engine) Runnable() int { return e.run.n }
func (e *Engine) Waiting() int  { return e.wait.n }

// Tick executes one step of the job at the head of the run queue. It
// reports whether there was a job to run.
func (e *Engine) Tick() bool {
	if e.run.head == nil {
		return false
	}
	e.slice(1)
	return true
}

// slice runs the head job for up to max steps, and then requeues it:
// at the back if its budget is spent, in the wait queue if it blocked.
func (e *Engine) slice(max int) {
	j := e.run.head
	if j.budget <= 0 {
		j.budget = e.conf.StepBudget()
	}
	j.budget -= j.exec(min(max, j.budget))
	if j.yielded {
		j.yielded = false
		j.budget = 0
	}
	switch {
	case j.state == Done:
	case !j.runnable():
		e.park(j)
	case j.budget <= 0:
		e.run.remove(j)
		e.run.push(j)
		e.debug("job yield", j, "steps", j.steps)
	}
}

// park moves j to the wait queue.
func (e *Engine) park(j *Job) {
	if j.queue == &e.wait {
		return
	}
	e.run.remove(j)
	e.wait.push(j)
	j.state = Waiting
	e.debug("job wait", j, "mailbox", j.blocked, "hold", j.hold)
}

// wake moves j back to the run queue if nothing holds it.
func (e *Engine) wake(j *Job) {
	if j.queue != &e.wait || !j.runnable() {
		return
	}
	e.wait.remove(j)
	e.run.push(j)
	j.state = Runnable
	e.debug("job wake", j)
}

// retire removes a finished job from the engine.
func (e *Engine) retire(j *Job) {
	if j.queue != nil {
		j.queue.remove(j)
	}
	if e.jobs[j.name] == j {
		delete(e.jobs, j.name)
	}
	e.live--
	e.debug("job done", j, "steps", j.steps, "err", j.err)
}

// Run runs jobs until none remain or ctx is done. Between steps it runs
// the functions given to Post. When every job is waiting it sleeps until
// something is posted, waking each heartbeat.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.conf.Heartbeat())
	defer ticker.Stop()
	for {
		e.drain()
		if e.live == 0 {
			return nil
		}
		if e.run.head != nil {
			e.slice(e.conf.StepBudget())
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-e.post:
			fn()
		case <-ticker.C:
			e.debug("heartbeat", nil, "waiting", e.wait.n)
		}
	}
}

// drain runs the posted functions that are ready.
func (e *Engine) drain() {
	for {
		select {
		case fn := <-e.post:
			fn()
		default:
			return
		}
	}
}

// Post arranges for fn to run on the engine's goroutine between steps.
// It is safe to call from any goroutine.
func (e *Engine) Post(fn func()) error {
	select {
	case <-e.done:
		return ErrEngineClosed
	default:
	}
	select {
	case e.post <- fn:
		return nil
	case <-e.done:
		return ErrEngineClosed
	}
}

// Kill ends j, releasing everything it owns. Its error is ErrKilled.
func (e *Engine) Kill(j *Job) error {
	if j.state == Done {
		return ErrJobDone
	}
	j.terminate(ErrKilled)
	return nil
}

// Suspend stops j from running until Continue is called.
func (e *Engine) Suspend(j *Job) error {
	if j.state == Done {
		return ErrJobDone
	}
	j.hold = true
	if j.queue == &e.run {
		e.park(j)
	}
	return nil
}

// Continue undoes Suspend, or the script's own call of suspend.
func (e *Engine) Continue(j *Job) error {
	if j.state == Done {
		return ErrJobDone
	}
	j.hold = false
	e.wake(j)
	return nil
}

// Close kills every live job, frees the engine's resources and stops
// further posts.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	close(e.done)
	for _, q := range []*jobQueue{&e.run, &e.wait} {
		for q.head != nil {
			q.head.terminate(ErrEngineClosed)
		}
	}
	e.resources.freeAll()
	e.debug("engine closed", nil)
}
