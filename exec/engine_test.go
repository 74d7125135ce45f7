// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/melon-lang/mel/value"
)

func TestShadowing(t *testing.T) {
	e := NewEngine(nil)
	j, err := e.NewJob("scopes", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	h := j.heap
	outer := j.bind("x", h.NewVar("x", h.NewInt(1)), nil)
	j.enterScope(funcScope, "f")
	if j.resolve("x", true) != nil {
		t.Error("outer x visible locally")
	}
	if j.resolve("x", false) != outer {
		t.Error("outer x not visible")
	}
	inner := j.bind("x", h.NewVar("x", h.NewInt(2)), nil)
	j.bind("y", h.NewVar("y", h.NewInt(3)), nil)
	if got := j.resolve("x", false); got != inner {
		t.Error("inner x does not shadow outer")
	}
	if layer := j.resolve("x", false).layer; layer != 1 {
		t.Errorf("inner layer %d; want 1", layer)
	}
	j.exitScope()
	if got := j.resolve("x", false); got != outer {
		t.Error("outer x not restored")
	}
	if got := outer.v.Value().Int(); got != 1 {
		t.Errorf("outer x is %d; want 1", got)
	}
	if j.resolve("y", false) != nil {
		t.Error("y resolvable after its scope exited")
	}
	if err := e.Kill(j); err != nil {
		t.Fatal(err)
	}
	checkClean(t, j)
}

func TestRebind(t *testing.T) {
	e := NewEngine(nil)
	j, _ := e.NewJob("rebind", "", nil, nil)
	h := j.heap
	before := j.Stats().Symbols
	a := j.bind("x", h.NewVar("x", h.NewInt(1)), nil)
	b := j.bind("x", h.NewVar("x", h.NewInt(2)), nil)
	if a != b {
		t.Error("rebinding in the same scope made a new symbol")
	}
	if got := j.resolve("x", false).v.Value().Int(); got != 2 {
		t.Errorf("x is %d; want 2", got)
	}
	if got := j.Stats().Symbols; got != before+1 {
		t.Errorf("%d symbols; want %d", got, before+1)
	}
	e.Kill(j)
	checkClean(t, j)
}

func TestNestedScopes(t *testing.T) {
	e := NewEngine(nil)
	j, _ := e.NewJob("nest", "", nil, nil)
	h := j.heap
	base := j.Stats()
	const depth = 50
	for i := range depth {
		j.enterScope(funcScope, fmt.Sprint("f", i))
		j.bind(fmt.Sprint("v", i), h.NewVar("", h.NewInt(int64(i))), nil)
		j.bind("x", h.NewVar("x", h.NewInt(int64(i))), nil)
	}
	if got := j.resolve("x", false).v.Value().Int(); got != depth-1 {
		t.Errorf("x is %d; want %d", got, depth-1)
	}
	for i := depth - 1; i >= 0; i-- {
		j.exitScope()
		for k := i; k < depth; k++ {
			if j.resolve(fmt.Sprint("v", k), false) != nil {
				t.Fatalf("v%d visible after exiting scope %d", k, i)
			}
		}
	}
	if got := j.Stats(); got != base {
		t.Errorf("stats %+v; want %+v", got, base)
	}
	e.Kill(j)
}

func TestFairness(t *testing.T) {
	e := NewEngine(nil)
	e.Config().SetStepBudget(1)
	a, _ := e.NewJob("a", `while (true) {}`, nil, nil)
	b, _ := e.NewJob("b", `while (true) {}`, nil, nil)
	for range 10 {
		if !e.Tick() {
			t.Fatal("no job to run")
		}
	}
	for _, j := range []*Job{a, b} {
		if j.State() != Runnable {
			t.Errorf("%s is %s", j.Name(), j.State())
		}
		if j.Steps() != 5 {
			t.Errorf("%s ran %d steps; want 5", j.Name(), j.Steps())
		}
	}
	e.Close()
	for _, j := range []*Job{a, b} {
		if !errors.Is(j.Err(), ErrEngineClosed) {
			t.Errorf("%s: got %v; want %v", j.Name(), j.Err(), ErrEngineClosed)
		}
		checkClean(t, j)
	}
}

func TestBudget(t *testing.T) {
	const (
		budget = 7
		n      = 3
		rounds = 4
	)
	e := NewEngine(nil)
	e.Config().SetStepBudget(budget)
	var jobs []*Job
	for i := range n {
		j, _ := e.NewJob(fmt.Sprint("j", i), `x = 0; while (true) { x++; }`, nil, nil)
		jobs = append(jobs, j)
	}
	for range budget * n * rounds {
		e.Tick()
	}
	for _, j := range jobs {
		if j.Steps() != budget*rounds {
			t.Errorf("%s ran %d steps; want %d", j.Name(), j.Steps(), budget*rounds)
		}
	}
	e.Close()
}

func TestRunCompletes(t *testing.T) {
	var out strings.Builder
	e := newTestEngine(&out)
	e.Config().SetStepBudget(3)
	var done []string
	finish := func(j *Job) { done = append(done, j.Name()) }
	e.NewJob("long", `s = 0; for (i = 0; i < 100; i++) s += i; s;`, nil, finish)
	e.NewJob("short", `1;`, nil, finish)
	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(done) != 2 || done[0] != "short" || done[1] != "long" {
		t.Errorf("completion order %v; want [short long]", done)
	}
	if e.Live() != 0 {
		t.Errorf("%d live jobs", e.Live())
	}
}

func TestKill(t *testing.T) {
	e := NewEngine(nil)
	j, _ := e.NewJob("loop", `while (true) { a = [1, 2]; a[2] = a; }`, "data", nil)
	for range 100 {
		e.Tick()
	}
	if err := e.Kill(j); err != nil {
		t.Fatal(err)
	}
	if j.State() != Done || !errors.Is(j.Err(), ErrKilled) {
		t.Errorf("after kill: %s, %v", j.State(), j.Err())
	}
	if j.Data() != "data" {
		t.Errorf("data %v", j.Data())
	}
	checkClean(t, j)
	if err := e.Kill(j); err != ErrJobDone {
		t.Errorf("second kill: %v", err)
	}
	if e.Tick() {
		t.Error("killed job still scheduled")
	}
}

func TestSuspend(t *testing.T) {
	e := NewEngine(nil)
	j, _ := e.NewJob("loop", `while (true) {}`, nil, nil)
	e.Tick()
	if err := e.Suspend(j); err != nil {
		t.Fatal(err)
	}
	if j.State() != Waiting || e.Waiting() != 1 || e.Runnable() != 0 {
		t.Fatalf("after suspend: %s, %d waiting, %d runnable", j.State(), e.Waiting(), e.Runnable())
	}
	if e.Tick() {
		t.Fatal("suspended job ran")
	}
	steps := j.Steps()
	e.Continue(j)
	if !e.Tick() || j.Steps() != steps+1 {
		t.Error("continued job did not run")
	}
	e.Close()
}

func TestScriptSuspend(t *testing.T) {
	e := NewEngine(nil)
	j, _ := e.NewJob("self", `x = 1; suspend(); x + 1;`, nil, nil)
	for e.Tick() {
	}
	if j.State() != Waiting {
		t.Fatalf("job is %s; want waiting", j.State())
	}
	e.Continue(j)
	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if j.ResultString() != "2" {
		t.Errorf("result %q; want 2", j.ResultString())
	}
}

func TestSetGlobal(t *testing.T) {
	e := NewEngine(nil)
	j, _ := e.NewJob("globals", `cfg["n"] * 10 + twice(1);`, nil, nil)
	if err := j.SetGlobal("cfg", map[string]any{"n": 2}); err != nil {
		t.Fatal(err)
	}
	twice := value.Native(func(c value.Context, args []*value.Value) *value.Value {
		return c.Heap().NewInt(2 * args[0].ToInt())
	})
	if err := j.SetGlobal("twice", twice); err != nil {
		t.Fatal(err)
	}
	if err := j.SetGlobal("bad", struct{}{}); err == nil {
		t.Error("converted a struct")
	}
	e.Tick()
	if err := j.SetGlobal("late", 1); err != ErrJobStarted {
		t.Errorf("got %v; want %v", err, ErrJobStarted)
	}
	e.Run(context.Background())
	if j.Err() != nil || j.Result() != int64(22) {
		t.Errorf("got %v, %v; want 22", j.Result(), j.Err())
	}
	if err := j.SetGlobal("done", 1); err != ErrJobDone {
		t.Errorf("got %v; want %v", err, ErrJobDone)
	}
}

func TestResources(t *testing.T) {
	e := NewEngine(nil)
	var freed []any
	free := func(x any) { freed = append(freed, x) }
	if err := e.Register("db", 42, free); err != nil {
		t.Fatal(err)
	}
	if err := e.Register("db", 43, free); err != ErrResourceExists {
		t.Errorf("got %v; want %v", err, ErrResourceExists)
	}
	j, _ := e.NewJob("res", `fetch("db") + fetch("conn") + fetch("none");`, nil, nil)
	j.Register("conn", "c", free)
	j.SetGlobal("fetch", value.Native(func(c value.Context, args []*value.Value) *value.Value {
		data, ok := c.(*Job).Resource(args[0].Str())
		if !ok {
			return nil
		}
		v, err := c.Heap().FromGo(data)
		if err != nil {
			panic(value.Errorf(value.TypeError, "%v", err))
		}
		return v
	}))
	e.Run(context.Background())
	if j.ResultString() != "42cnil" {
		t.Errorf("result %q, %v; want 42cnil", j.ResultString(), j.Err())
	}
	if len(freed) != 1 || freed[0] != "c" {
		t.Errorf("freed %v after job; want [c]", freed)
	}
	if err := e.Cancel("nope"); err != ErrNoResource {
		t.Errorf("got %v; want %v", err, ErrNoResource)
	}
	e.Close()
	if len(freed) != 2 || freed[1] != 42 {
		t.Errorf("freed %v after close; want [c 42]", freed)
	}
	if err := e.Register("late", 1, nil); err != ErrEngineClosed {
		t.Errorf("got %v; want %v", err, ErrEngineClosed)
	}
}

func TestCache(t *testing.T) {
	e := NewEngine(nil)
	e.Config().SetCacheSize(1)
	start := func(src string) {
		t.Helper()
		if _, err := e.NewJob("c", src, nil, nil); err != nil {
			t.Fatal(err)
		}
	}
	start("1;")
	start("1;")
	if s := e.CacheStats(); s.Hits != 1 || s.Misses != 1 || s.Entries != 1 || s.Idle != 0 {
		t.Errorf("shared: %+v", s)
	}
	e.Run(context.Background())
	if s := e.CacheStats(); s.Idle != 1 {
		t.Errorf("after run: %+v", s)
	}
	start("2;")
	e.Run(context.Background())
	if s := e.CacheStats(); s.Entries != 1 || s.Evictions != 1 {
		t.Errorf("after eviction: %+v", s)
	}
	start("1;")
	if s := e.CacheStats(); s.Misses != 3 {
		t.Errorf("evicted entry reused: %+v", s)
	}
	e.Close()

	e = NewEngine(nil)
	e.Config().SetCache(false)
	start("1;")
	if s := e.CacheStats(); s != (CacheStats{}) {
		t.Errorf("disabled cache: %+v", s)
	}
	e.Close()
}

func TestPost(t *testing.T) {
	e := NewEngine(nil)
	j, _ := e.NewJob("posted", `msg_open("m"); msg_recv("m") * 2;`, nil, nil)
	go func() {
		time.Sleep(10 * time.Millisecond)
		e.Post(func() {
			if err := e.Send(j, "m", 21); err != nil {
				t.Error(err)
			}
		})
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if j.Result() != int64(42) {
		t.Errorf("got %v, %v; want 42", j.Result(), j.Err())
	}
	e.Close()
	if err := e.Post(func() {}); err != ErrEngineClosed {
		t.Errorf("got %v; want %v", err, ErrEngineClosed)
	}
}

func TestRunCancel(t *testing.T) {
	e := NewEngine(nil)
	e.NewJob("wait", `msg_open("m"); msg_recv("m");`, nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := e.Run(ctx); err != context.DeadlineExceeded {
		t.Errorf("got %v; want %v", err, context.DeadlineExceeded)
	}
	e.Close()
}

func TestYield(t *testing.T) {
	var out strings.Builder
	e := newTestEngine(&out)
	for _, name := range []string{"a", "b"} {
		e.NewJob(name, `for (i = 0; i < 3; i++) { print("`+name+`", i); yield(); }`, nil, nil)
	}
	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := "a 0\nb 0\na 1\nb 1\na 2\nb 2\n"
	if out.String() != want {
		t.Errorf("got %q; want %q", out.String(), want)
	}
}
