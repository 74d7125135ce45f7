// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// VarKind distinguishes a variable that owns its value from one that
// aliases another variable's storage.
type VarKind int

const (
	Normal VarKind = iota
	Reference
)

// A Var is a named or anonymous slot holding a Value. It owns one
// reference to its value.
//
// A Normal var is a binding's own storage: Set replaces its value with a
// copy. A Reference var shares the value of some other var (a symbol, an
// object member, an array element or a by-reference argument), and Set
// overwrites that shared value in place, so every holder sees the change.
type Var struct {
	kind VarKind
	name string
	val  *Value
	ref  int
}

func (v *Var) Kind() VarKind { return v.kind }
func (v *Var) Name() string  { return v.name }
func (v *Var) Value() *Value { return v.val }
func (v *Var) Refs() int     { return v.ref }

// Retain adds a reference to v and returns it.
func (v *Var) Retain() *Var {
	v.ref++
	return v
}

// Set stores src into v according to v's kind. It does not consume src.
func (v *Var) Set(h *Heap, src *Value) {
	if v.val == src {
		return
	}
	if v.val.notModify {
		panic(Errorf(TypeError, "cannot modify constant %s", v.val))
	}
	if v.kind == Reference {
		v.val.overwrite(src)
		return
	}
	old := v.val
	v.val = h.Dup(src)
	h.ReleaseValue(old)
}

// overwrite replaces v's payload with a shallow copy of src's, retaining
// any composite src holds and releasing the one v held.
func (v *Value) overwrite(src *Value) {
	oldObj, oldArr, oldCall := v.obj, v.arr, v.call
	v.kind = src.kind
	v.i, v.b, v.r, v.s = src.i, src.b, src.r, src.s
	v.obj, v.arr, v.fn, v.call = src.obj, src.arr, src.fn, nil
	if v.obj != nil {
		v.obj.ref++
	}
	if v.arr != nil {
		v.arr.ref++
	}
	if src.call != nil {
		v.call = src.call.clone()
	}
	if oldObj != nil {
		oldObj.release()
	}
	if oldArr != nil {
		oldArr.release()
	}
	if oldCall != nil {
		oldCall.release()
	}
}
