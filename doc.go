// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Mel runs programs written in a small C-like scripting language. Each
program runs as a job, and any number of jobs share one engine, which
runs a few thousand steps of one job before moving on to the next. Jobs
share nothing; they talk through mailboxes.

Usage:

	mel [flags] [file.mel ...]
	mel -e 'source'
	mel demo
	mel version

Each named file runs as a job named for the file without its .mel
suffix. With -e, the source runs as a job named mel and its result is
printed. With no files, mel reads a program from standard input or, on
a terminal, runs an interactive session in which each complete line,
or group of lines with balanced braces, runs as its own job. Jobs left
waiting stay, so later lines can send to them.

The --feed flag names a job that receives standard input: each line is
sent as a string to its mailbox named stdin, followed by nil at end of
file. The --stats flag prints a table of the jobs when they are done.
Settings may be read from a YAML file given by --config; flags given
explicitly override it.

	step: 20000          # steps a job runs before yielding
	heartbeat: 50ms      # wakeup interval while every job waits
	cache: true          # cache parsed programs by source text
	cache_size: 200      # unused parsed programs to keep
	max_frames: 1048576  # evaluation frames a job may use
	max_values: 0        # live values a job may hold; 0 is no limit
	gc_threshold: 1024   # composites allocated between collections
	pool_vars: 127       # released variables kept for reuse
	pool_values: 255     # released values; pool_symbols and pool_scopes likewise
	prompt: "mel> "
	debug: [sched]       # frames, panic, parse, sched

The language

Statements end with semicolons. Blocks are enclosed in braces. The
control statements are those of C: if, else, while, for, switch with
case and default (cases fall through unless they break), break, continue
and return.

	s = 0;
	for (i = 0; i < 10; i++) {
		if (i % 2) continue;
		s += i;
	}

Names are declared by use. A name is looked up from the innermost
active scope outward, through the scopes of the calling functions, to
the job's global scope; an unknown name is declared, as nil, in the
current scope.

Values are nil, true and false, integers (decimal, 0x hex, 0 octal),
reals, strings in single or double quotes, arrays, objects and
functions. Arithmetic on an integer and a real yields a real; adding
anything to a string concatenates its printed form. The operators, from
lowest precedence to highest:

	,                     sequence; the value is the last
	= += -= *= /= %= <<= >>= &= |= ^=
	|| &&                 yield true or false
	| & ^
	== !=
	< <= > >=
	<< >>
	+ -
	* / %
	x++ x--
	-x ~x !x ++x --x
	a[i] a.name f(args)

Arrays map positions and keys to values:

	a = [1, 2, "name": "mel"];
	a[3] = a[0] + a[1];

Functions are introduced by @. An argument marked & is passed by
reference; others are copied. A function without a name is a value.

	@swap(&a, &b) { t = a; a = b; b = t; }
	twice = @(x) { return 2 * x; };

A set is a template for objects, and $ makes a fresh object from one.
Within a method, this is the object the method was called on.

	Point {
		x;
		y;
		@sum() { return this.x + this.y; }
	}
	p = $Point;

Unreachable objects and arrays, cycles included, are collected.

Built-in functions

	print(v, ...)          print the values, separated by spaces
	len(v)                 length of a string, array or object
	typeof(v)              name of the value's kind, or of an object's set
	gc()                   collect now; returns the number of composites freed
	time_format(f[, t])    format the time, or Unix time t, as strftime does
	msg_open(name)         open a mailbox
	msg_close(name)        close a mailbox, dropping what it holds
	msg_send(name, v)      send v to the host; false if the last is unread
	msg_recv(name[, wait]) receive from the host, by default waiting
	job_send(job, name, v) copy v into another job's mailbox
	suspend()              wait until the host continues the job
	yield()                let other jobs run

Errors end the job. The report names the job and line and lists the
active calls with their variables:

	t:1: arithmetic error: division by zero
		•> f(3) line 1
			x = 3
*/
package main
