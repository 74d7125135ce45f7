// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import (
	"fmt"
	"slices"
	"strings"
)

// stackTrace describes the calls active in the job, innermost last: for
// each, the function and its arguments, then the other variables of its
// scope.
func (j *Job) stackTrace() []string {
	const max = 25
	var lines []string
	n := 0
	for i := j.top; i != none; i = j.frames.at(i).parent {
		f := j.frames.at(i)
		if f.kind != funcCall || f.ret2 == nil {
			continue
		}
		n++
		if n > max {
			continue
		}
		call := f.ret2.Value().Call()
		args := make([]string, len(call.Args))
		for k, a := range call.Args {
			args[k] = short(a.Value().String())
		}
		frame := fmt.Sprintf("%s(%s) line %d", call.Name, strings.Join(args, ", "), f.line)
		if f.scope != none {
			frame += j.localPrint(f.scope)
		}
		lines = append(lines, frame)
	}
	if n > max {
		lines = append(lines, fmt.Sprintf("stack truncated: %d calls total; showing innermost", n))
	}
	slices.Reverse(lines)
	return lines
}

// localPrint prints the variables bound in a scope.
func (j *Job) localPrint(scope int) string {
	var b strings.Builder
	for _, i := range j.scopes.at(scope).syms {
		sym := j.symbols.at(i)
		if sym.v == nil {
			continue
		}
		fmt.Fprintf(&b, "\n\t%s = %s", sym.name, short(sym.v.Value().String()))
	}
	return b.String()
}

// short returns its argument, truncating if it's too long.
func short(s string) string {
	if len(s) > 50 {
		s = s[:50] + "..."
	}
	return s
}
