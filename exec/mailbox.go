// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import "github.com/melon-lang/mel/value"

// A mailbox is a named channel between a job's script and the native
// side: the host, or another job. Each direction holds at most one
// unread value.
type mailbox struct {
	name    string
	script  *value.Value // sent by the script, unread by the native side
	native  *value.Value // sent by the native side, unread by the script
	handler func(any)    // receives script sends instead of the slot
}

// openMailbox returns the named mailbox, creating it if needed.
func (j *Job) openMailbox(name string) *mailbox {
	mb, ok := j.mailboxes[name]
	if !ok {
		mb = &mailbox{name: name}
		j.mailboxes[name] = mb
	}
	return mb
}

// closeMailbox releases any unread values and removes the mailbox.
func (j *Job) closeMailbox(name string) bool {
	mb, ok := j.mailboxes[name]
	if !ok {
		return false
	}
	j.heap.ReleaseValue(mb.script)
	j.heap.ReleaseValue(mb.native)
	delete(j.mailboxes, name)
	return true
}

func (j *Job) box(name string) *mailbox {
	mb, ok := j.mailboxes[name]
	if !ok {
		panic(value.Errorf(value.UndefinedSymbol, "no mailbox %s", name))
	}
	return mb
}

// sendScript sends v from the script to the native side. A registered
// handler receives it at once; otherwise it waits in the slot. It
// reports false if the slot is still full.
func (j *Job) sendScript(name string, v *value.Value) bool {
	mb := j.box(name)
	if mb.handler != nil {
		mb.handler(value.ToGo(v))
		return true
	}
	if mb.script != nil {
		return false
	}
	mb.script = j.heap.Dup(v)
	return true
}

// recvScript takes the value the native side sent. If there is none and
// block is set, the job waits until one is delivered and recvScript
// returns nil; otherwise it returns a nil value.
func (j *Job) recvScript(name string, block bool) *value.Value {
	mb := j.box(name)
	if v := mb.native; v != nil {
		mb.native = nil
		return v
	}
	if block {
		j.blocked = name
		return nil
	}
	return j.heap.NewNil()
}

// deliver sends v, which must belong to j's heap, from the native side.
// A job blocked on the mailbox receives it directly and is woken.
// deliver takes over the reference to v.
func (j *Job) deliver(name string, v *value.Value) error {
	mb, ok := j.mailboxes[name]
	if !ok {
		j.heap.ReleaseValue(v)
		return ErrNoMailbox
	}
	if j.blocked == name {
		f := j.frames.at(j.top)
		j.heap.ReleaseVar(f.ret)
		f.ret = j.heap.NewVar("", v)
		j.blocked = ""
		j.engine.wake(j)
		return nil
	}
	if mb.native != nil {
		j.heap.ReleaseValue(v)
		return ErrMailboxFull
	}
	mb.native = v
	return nil
}

// Send delivers the conversion of x (see value.Heap.FromGo) to j's named
// mailbox. If the job is blocked receiving from it, the job wakes with
// the value. Otherwise the value waits for the next receive; if a value
// is already waiting Send fails with ErrMailboxFull.
func (e *Engine) Send(j *Job, name string, x any) error {
	if j.state == Done {
		return ErrJobDone
	}
	v, err := j.heap.FromGo(x)
	if err != nil {
		return err
	}
	return j.deliver(name, v)
}

// Recv takes the value j's script sent to the named mailbox. The boolean
// is false if no value is waiting.
func (e *Engine) Recv(j *Job, name string) (any, bool, error) {
	if j.state == Done {
		return nil, false, ErrJobDone
	}
	mb, ok := j.mailboxes[name]
	if !ok {
		return nil, false, ErrNoMailbox
	}
	if mb.script == nil {
		return nil, false, nil
	}
	x := value.ToGo(mb.script)
	j.heap.ReleaseValue(mb.script)
	mb.script = nil
	return x, true, nil
}

// Handle installs fn to receive, synchronously, every value j's script
// sends to the named mailbox. A nil fn restores queuing.
func (e *Engine) Handle(j *Job, name string, fn func(any)) error {
	if j.state == Done {
		return ErrJobDone
	}
	mb, ok := j.mailboxes[name]
	if !ok {
		return ErrNoMailbox
	}
	mb.handler = fn
	return nil
}
