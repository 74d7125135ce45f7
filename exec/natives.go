// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import (
	"fmt"
	"strings"
	"time"

	"github.com/itchyny/timefmt-go"
	"github.com/melon-lang/mel/value"
)

type native struct {
	name string
	fn   value.Native
}

// The natives every job starts with, bound in its global scope.
var natives = []native{
	{"print", nativePrint},
	{"len", nativeLen},
	{"typeof", nativeTypeof},
	{"gc", nativeGC},
	{"time_format", nativeTimeFormat},
	{"msg_open", nativeMsgOpen},
	{"msg_close", nativeMsgClose},
	{"msg_send", nativeMsgSend},
	{"msg_recv", nativeMsgRecv},
	{"job_send", nativeJobSend},
	{"suspend", nativeSuspend},
	{"yield", nativeYield},
}

// nargs checks the argument count of a native.
func nargs(name string, args []*value.Value, min, max int) {
	if len(args) < min || len(args) > max {
		if min == max {
			panic(value.Errorf(value.TypeError, "%s: want %d arguments, have %d", name, min, len(args)))
		}
		panic(value.Errorf(value.TypeError, "%s: want %d to %d arguments, have %d", name, min, max, len(args)))
	}
}

func str(name string, v *value.Value) string {
	if v.Kind() != value.StringKind {
		panic(value.Errorf(value.TypeError, "%s: want string, have %s", name, v.Kind()))
	}
	return v.Str()
}

func nativePrint(c value.Context, args []*value.Value) *value.Value {
	s := make([]string, len(args))
	for i, a := range args {
		s[i] = a.String()
	}
	fmt.Fprintln(c.Config().Output(), strings.Join(s, " "))
	return nil
}

func nativeLen(c value.Context, args []*value.Value) *value.Value {
	nargs("len", args, 1, 1)
	var n int
	switch a := args[0]; a.Kind() {
	case value.StringKind:
		n = len(a.Str())
	case value.ArrayKind:
		n = a.Array().Len()
	case value.ObjectKind:
		n = a.Object().Len()
	default:
		panic(value.Errorf(value.TypeError, "len: invalid argument %s", a.Kind()))
	}
	return c.Heap().NewInt(int64(n))
}

func nativeTypeof(c value.Context, args []*value.Value) *value.Value {
	nargs("typeof", args, 1, 1)
	if a := args[0]; a.Kind() == value.ObjectKind {
		return c.Heap().NewString(a.Object().SetName())
	}
	return c.Heap().NewString(args[0].Kind().String())
}

func nativeGC(c value.Context, args []*value.Value) *value.Value {
	nargs("gc", args, 0, 0)
	return c.Heap().NewInt(int64(c.(*Job).collect()))
}

// nativeTimeFormat formats the current time, or the given Unix time in
// seconds, with a strftime layout.
func nativeTimeFormat(c value.Context, args []*value.Value) *value.Value {
	nargs("time_format", args, 1, 2)
	t := time.Now()
	if len(args) == 2 {
		t = time.Unix(args[1].ToInt(), 0).UTC()
	}
	return c.Heap().NewString(timefmt.Format(t, str("time_format", args[0])))
}

func nativeMsgOpen(c value.Context, args []*value.Value) *value.Value {
	nargs("msg_open", args, 1, 1)
	c.(*Job).openMailbox(str("msg_open", args[0]))
	return nil
}

func nativeMsgClose(c value.Context, args []*value.Value) *value.Value {
	nargs("msg_close", args, 1, 1)
	return c.Heap().NewBool(c.(*Job).closeMailbox(str("msg_close", args[0])))
}

func nativeMsgSend(c value.Context, args []*value.Value) *value.Value {
	nargs("msg_send", args, 2, 2)
	return c.Heap().NewBool(c.(*Job).sendScript(str("msg_send", args[0]), args[1]))
}

// nativeMsgRecv receives from a mailbox, by default waiting for a value
// to arrive.
func nativeMsgRecv(c value.Context, args []*value.Value) *value.Value {
	nargs("msg_recv", args, 1, 2)
	block := len(args) < 2 || args[1].Truth()
	return c.(*Job).recvScript(str("msg_recv", args[0]), block)
}

// nativeJobSend copies a value into another job's mailbox as its native
// side. It reports whether the value was delivered or queued.
func nativeJobSend(c value.Context, args []*value.Value) *value.Value {
	nargs("job_send", args, 3, 3)
	j := c.(*Job)
	h := j.heap
	peer, ok := j.engine.Job(str("job_send", args[0]))
	if !ok {
		return h.NewBool(false)
	}
	v, err := value.Copy(peer.heap, args[2])
	if err != nil {
		panic(value.Errorf(value.TypeError, "job_send: %v", err))
	}
	return h.NewBool(peer.deliver(str("job_send", args[1]), v) == nil)
}

// nativeSuspend suspends the job until the host continues it.
func nativeSuspend(c value.Context, args []*value.Value) *value.Value {
	nargs("suspend", args, 0, 0)
	c.(*Job).hold = true
	return nil
}

// nativeYield ends the job's turn, sending it to the back of the run
// queue.
func nativeYield(c value.Context, args []*value.Value) *value.Value {
	nargs("yield", args, 0, 0)
	c.(*Job).yielded = true
	return nil
}
