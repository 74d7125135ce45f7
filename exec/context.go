// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec // import "github.com/melon-lang/mel/exec"

import (
	"fmt"
	"time"

	"github.com/melon-lang/mel/config"
	"github.com/melon-lang/mel/syntax"
	"github.com/melon-lang/mel/value"
)

// State is the scheduling state of a job.
type State int

const (
	Runnable State = iota
	Waiting
	Done
)

func (s State) String() string {
	switch s {
	case Runnable:
		return "runnable"
	case Waiting:
		return "waiting"
	}
	return "done"
}

// Job is one running script: its heap, its frame stack, its scopes and
// symbols, and its mailboxes. It is the only implementation of
// ../value/Context, but since it references the value package, there
// would be a cycle if that package depended on this type definition.
//
// A job is owned by its engine and must only be touched from the
// engine's goroutine.
type Job struct {
	engine *Engine
	conf   *config.Config
	id     int
	name   string
	src    string
	cached bool
	data   any
	done   func(*Job)

	heap    *value.Heap
	frames  *arena[frame]
	scopes  *arena[scope]
	symbols *arena[symbol]
	index   map[string]int // name to innermost symbol
	top     int            // top frame
	scope   int            // innermost scope
	line    int            // line of the frame being stepped

	state   State
	budget  int    // steps left in this turn
	steps   int64  // steps executed
	blocked string // mailbox the job waits on
	hold    bool   // suspended until continued
	yielded bool   // gave up the rest of its turn

	mailboxes map[string]*mailbox
	resources resources

	result     any
	resultText string
	err        error
	trace      []string
	started    time.Time
	finished   time.Time

	prev, next *Job
	queue      *jobQueue
}

func (j *Job) Config() *config.Config {
	return j.conf
}

func (j *Job) Heap() *value.Heap {
	return j.heap
}

func (j *Job) Engine() *Engine { return j.engine }
func (j *Job) ID() int         { return j.id }
func (j *Job) Name() string    { return j.name }
func (j *Job) Data() any       { return j.data }
func (j *Job) State() State    { return j.state }
func (j *Job) Steps() int64    { return j.steps }

// Err returns the error that ended the job, if any.
func (j *Job) Err() error {
	return j.err
}

// Result returns the job's result as a Go value: the returned value, or
// the value of the last statement executed at the top level.
func (j *Job) Result() any {
	return j.result
}

// ResultString returns the printed form of the result; empty if the
// job produced no value.
func (j *Job) ResultString() string {
	return j.resultText
}

// Trace returns the calls that were active when the job failed,
// innermost last.
func (j *Job) Trace() []string {
	return j.trace
}

// Started and Finished return when the job was created and ended.
func (j *Job) Started() time.Time  { return j.started }
func (j *Job) Finished() time.Time { return j.finished }

// Stats counts what the job has live.
type Stats struct {
	value.HeapStats
	Frames  int
	Scopes  int
	Symbols int
}

func (j *Job) Stats() Stats {
	return Stats{
		HeapStats: j.heap.Stats(),
		Frames:    j.frames.live(),
		Scopes:    j.scopes.live(),
		Symbols:   j.symbols.live(),
	}
}

func newJob(e *Engine, name, src string, tree *syntax.Stm) *Job {
	conf := e.conf
	j := &Job{
		engine:    e,
		conf:      conf,
		name:      name,
		src:       src,
		heap:      value.NewHeap(conf),
		frames:    newArena[frame](0),
		scopes:    newArena[scope](conf.PoolScopes()),
		symbols:   newArena[symbol](conf.PoolSymbols()),
		index:     make(map[string]int, conf.SymbolHint()),
		top:       none,
		scope:     none,
		mailboxes: make(map[string]*mailbox),
		started:   time.Now(),
	}
	j.enterScope(globalScope, name)
	for _, n := range natives {
		fn := &value.Func{Name: n.name, Native: n.fn}
		j.bind(n.name, j.heap.NewVar(n.name, j.heap.NewFunc(fn)), nil)
	}
	if tree != nil {
		j.push(tree)
	}
	return j
}

// SetGlobal binds name in the job's global scope to the conversion of
// x (see value.Heap.FromGo). It must be called before the job runs.
func (j *Job) SetGlobal(name string, x any) error {
	if j.state == Done {
		return ErrJobDone
	}
	if j.steps > 0 {
		return ErrJobStarted
	}
	v, err := j.heap.FromGo(x)
	if err != nil {
		return err
	}
	if v.Kind() == value.FuncKind && v.Func().Name == "" {
		v.Func().Name = name
	}
	j.bind(name, j.heap.NewVar(name, v), nil)
	return nil
}

// runnable reports whether nothing is holding the job back.
func (j *Job) runnable() bool {
	return j.blocked == "" && !j.hold
}

// exec executes up to n steps. A panic in a step ends the job with an
// error. It returns the number of steps taken.
func (j *Job) exec(n int) (ran int) {
	defer func() {
		if j.conf.Debug("panic") {
			return
		}
		if r := recover(); r != nil {
			ran++
			j.steps++
			j.fail(r)
		}
	}()
	for ran < n && j.state != Done && j.runnable() && !j.yielded {
		if j.top == none {
			j.complete(nil)
			break
		}
		if j.heap.NeedCollect() {
			j.collect()
		}
		j.step()
		ran++
		j.steps++
	}
	return ran
}

// collect frees unreachable composites, returning how many.
func (j *Job) collect() int {
	vars, vals := j.frameRoots(nil, nil)
	for _, sym := range j.symbols.items {
		vars = append(vars, sym.v)
	}
	for _, mb := range j.mailboxes {
		vals = append(vals, mb.script, mb.native)
	}
	freed := j.heap.Collect(vars, vals)
	st := j.heap.Stats()
	j.engine.debug("gc", j, "freed", freed, "objects", st.Objects, "arrays", st.Arrays)
	return freed
}

// complete ends the job successfully with result v.
func (j *Job) complete(v *value.Var) {
	if v != nil {
		j.result = value.ToGo(v.Value())
		j.resultText = v.Value().String()
		j.heap.ReleaseVar(v)
	}
	j.terminate(nil)
}

// fail ends the job with the error r raised by a step.
func (j *Job) fail(r any) {
	err, ok := r.(value.Error)
	if !ok {
		err = value.Errorf(value.InternalError, "%v", r)
	}
	j.trace = j.stackTrace()
	j.terminate(fmt.Errorf("%s:%d: %w", j.name, j.line, err))
}

// terminate releases everything the job owns and retires it.
func (j *Job) terminate(err error) {
	if j.state == Done {
		return
	}
	for j.top != none {
		j.pop()
	}
	for j.scope != none {
		j.exitScope()
	}
	for name := range j.mailboxes {
		j.closeMailbox(name)
	}
	j.resources.freeAll()
	j.heap.Collect(nil, nil)
	if j.cached {
		j.engine.cache.release(j.src)
		j.cached = false
	}
	j.err = err
	j.blocked, j.hold = "", false
	j.state = Done
	j.finished = time.Now()
	j.engine.retire(j)
	if j.done != nil {
		j.done(j)
	}
}
