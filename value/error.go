// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"errors"
	"fmt"
)

// ErrorKind classifies script errors.
type ErrorKind int

const (
	InternalError ErrorKind = iota
	OutOfMemory
	TypeError
	UndefinedSymbol
	ArithmeticError
	SyntaxError
)

var errorKindNames = [...]string{
	InternalError:   "internal error",
	OutOfMemory:     "out of memory",
	TypeError:       "type error",
	UndefinedSymbol: "undefined symbol",
	ArithmeticError: "arithmetic error",
	SyntaxError:     "syntax error",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(errorKindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return errorKindNames[k]
}

// Error is the type raised, by panicking, when evaluation fails.
// The job that was running recovers it and terminates.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (err Error) Error() string {
	return err.Kind.String() + ": " + err.Msg
}

// Errorf returns an Error of the given kind. Callers panic with it.
func Errorf(kind ErrorKind, format string, args ...interface{}) Error {
	return Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is, or wraps, an Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e Error
	return errors.As(err, &e) && e.Kind == kind
}
