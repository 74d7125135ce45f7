// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import "testing"

type node struct {
	name  string
	edges []*node
	freed int
}

func (n *node) Walk(visit func(Item)) {
	for _, e := range n.edges {
		visit(e)
	}
}

func (n *node) Free() {
	n.freed++
}

func TestCollectCycle(t *testing.T) {
	c := New()
	a, b, d := &node{name: "a"}, &node{name: "b"}, &node{name: "d"}
	a.edges = []*node{b}
	b.edges = []*node{a}
	d.edges = []*node{d}
	for _, n := range []*node{a, b, d} {
		c.Register(n)
	}
	if c.Len() != 3 || c.Pending() != 3 {
		t.Fatalf("Len %d Pending %d; want 3 3", c.Len(), c.Pending())
	}
	if n := c.Collect([]Item{a}); n != 1 {
		t.Errorf("freed %d; want 1", n)
	}
	if d.freed != 1 || a.freed != 0 || b.freed != 0 {
		t.Errorf("freed counts a=%d b=%d d=%d", a.freed, b.freed, d.freed)
	}
	if c.Len() != 2 || c.Pending() != 0 {
		t.Errorf("after collect Len %d Pending %d", c.Len(), c.Pending())
	}
	if n := c.Collect(nil); n != 2 {
		t.Errorf("freed %d; want 2", n)
	}
	if c.Runs() != 2 || c.Freed() != 3 {
		t.Errorf("Runs %d Freed %d", c.Runs(), c.Freed())
	}
}

func TestUnregister(t *testing.T) {
	c := New()
	a := &node{name: "a"}
	c.Register(a)
	c.Register(a)
	if c.Len() != 1 {
		t.Fatalf("double register: Len %d", c.Len())
	}
	c.Unregister(a)
	if n := c.Collect(nil); n != 0 || a.freed != 0 {
		t.Errorf("unregistered item collected: n=%d freed=%d", n, a.freed)
	}
}

func TestDeepChain(t *testing.T) {
	c := New()
	var head *node
	for i := 0; i < 100000; i++ {
		n := &node{edges: []*node{head}}
		if head == nil {
			n.edges = nil
		}
		c.Register(n)
		head = n
	}
	if n := c.Collect([]Item{head}); n != 0 {
		t.Errorf("freed %d reachable items", n)
	}
}
