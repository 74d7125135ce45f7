// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"fmt"
	"sort"
	"strconv"
)

// FromGo converts a Go value into a new value: nil, booleans, integers,
// floats, strings, Natives, and slices and string-keyed maps of those.
func (h *Heap) FromGo(x any) (*Value, error) {
	switch x := x.(type) {
	case nil:
		return h.NewNil(), nil
	case bool:
		return h.NewBool(x), nil
	case int:
		return h.NewInt(int64(x)), nil
	case int32:
		return h.NewInt(int64(x)), nil
	case int64:
		return h.NewInt(x), nil
	case uint32:
		return h.NewInt(int64(x)), nil
	case float32:
		return h.NewReal(float64(x)), nil
	case float64:
		return h.NewReal(x), nil
	case string:
		return h.NewString(x), nil
	case Native:
		return h.NewFunc(&Func{Native: x}), nil
	case func(Context, []*Value) *Value:
		return h.NewFunc(&Func{Native: x}), nil
	case []any:
		arr := h.NewArray()
		for _, e := range x {
			v, err := h.FromGo(e)
			if err != nil {
				h.ReleaseValue(arr)
				return nil, err
			}
			arr.arr.Append(v)
			h.ReleaseValue(v)
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		arr := h.NewArray()
		for _, k := range keys {
			v, err := h.FromGo(x[k])
			if err != nil {
				h.ReleaseValue(arr)
				return nil, err
			}
			key := h.NewString(k)
			arr.arr.Get(key, true).Set(h, v)
			h.ReleaseValue(key)
			h.ReleaseValue(v)
		}
		return arr, nil
	}
	return nil, fmt.Errorf("cannot convert %T to a value", x)
}

// ToGo converts v to a Go value. Arrays with keyed elements become
// map[string]any, other arrays []any; objects become map[string]any of
// their non-function members. Functions and calls become nil, as does a
// composite met again while converting itself.
func ToGo(v *Value) any {
	return toGo(v, make(map[any]bool))
}

func toGo(v *Value, seen map[any]bool) any {
	switch v.kind {
	case IntKind:
		return v.i
	case BoolKind:
		return v.b
	case RealKind:
		return v.r
	case StringKind:
		return v.s
	case ObjectKind:
		if seen[v.obj] {
			return nil
		}
		seen[v.obj] = true
		defer delete(seen, v.obj)
		m := make(map[string]any)
		for name, mv := range v.obj.members.All() {
			if mv.val.kind != FuncKind {
				m[name] = toGo(mv.val, seen)
			}
		}
		return m
	case ArrayKind:
		if seen[v.arr] {
			return nil
		}
		seen[v.arr] = true
		defer delete(seen, v.arr)
		keyed := false
		for _, e := range v.arr.elems {
			if e.key != nil {
				keyed = true
				break
			}
		}
		if !keyed {
			s := make([]any, len(v.arr.elems))
			for i, e := range v.arr.elems {
				s[i] = toGo(e.val.val, seen)
			}
			return s
		}
		m := make(map[string]any)
		for _, e := range v.arr.elems {
			k := strconv.FormatInt(e.index, 10)
			if e.key != nil {
				k = e.key.String()
			}
			m[k] = toGo(e.val.val, seen)
		}
		return m
	}
	return nil
}

// Copy returns a deep copy of v allocated from dst, which may belong to
// another job. Objects, functions and calls cannot be copied.
func Copy(dst *Heap, v *Value) (*Value, error) {
	return copyValue(dst, v, make(map[*Array]bool))
}

func copyValue(dst *Heap, v *Value, seen map[*Array]bool) (*Value, error) {
	switch v.kind {
	case NilKind:
		return dst.NewNil(), nil
	case IntKind:
		return dst.NewInt(v.i), nil
	case BoolKind:
		return dst.NewBool(v.b), nil
	case RealKind:
		return dst.NewReal(v.r), nil
	case StringKind:
		return dst.NewString(v.s), nil
	case ArrayKind:
		if seen[v.arr] {
			return nil, fmt.Errorf("cannot copy cyclic array")
		}
		seen[v.arr] = true
		defer delete(seen, v.arr)
		out := dst.NewArray()
		for _, e := range v.arr.elems {
			val, err := copyValue(dst, e.val.val, seen)
			if err != nil {
				dst.ReleaseValue(out)
				return nil, err
			}
			var key *Value
			if e.key != nil {
				key, err = copyValue(dst, e.key, seen)
				if err != nil {
					dst.ReleaseValue(val)
					dst.ReleaseValue(out)
					return nil, err
				}
			}
			elem := out.arr.add(e.index, key)
			elem.Set(dst, val)
			dst.ReleaseValue(val)
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot copy %s between jobs", v.kind)
}
