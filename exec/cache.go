// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import (
	"container/list"
	"log/slog"

	"github.com/melon-lang/mel/config"
	"github.com/melon-lang/mel/parse"
	"github.com/melon-lang/mel/syntax"
)

// astCache shares parsed trees between jobs running the same source.
// Entries are counted by the jobs using them; once unused they sit in an
// idle list, most recently used first, and the oldest are evicted when
// there are more than the configured number.
type astCache struct {
	conf    *config.Config
	log     *slog.Logger
	entries map[string]*cacheEntry
	idle    *list.List
	stats   CacheStats
}

type cacheEntry struct {
	src  string
	tree *syntax.Stm
	refs int
	elem *list.Element // in idle, when refs is zero
}

// CacheStats describes the syntax tree cache.
type CacheStats struct {
	Entries   int
	Idle      int
	Hits      int
	Misses    int
	Evictions int
}

func newCache(conf *config.Config) *astCache {
	return &astCache{
		conf:    conf,
		log:     conf.Logger(),
		entries: make(map[string]*cacheEntry),
		idle:    list.New(),
	}
}

// get returns the tree for src, parsing it if it is not cached. The
// boolean reports whether the tree is held in the cache, in which case
// the caller must release it.
func (c *astCache) get(name, src string) (*syntax.Stm, bool, error) {
	if !c.conf.Cache() {
		tree, err := parse.Parse(name, src)
		return tree, false, err
	}
	if e, ok := c.entries[src]; ok {
		c.stats.Hits++
		if e.elem != nil {
			c.idle.Remove(e.elem)
			e.elem = nil
		}
		e.refs++
		return e.tree, true, nil
	}
	c.stats.Misses++
	tree, err := parse.Parse(name, src)
	if err != nil {
		return nil, false, err
	}
	c.entries[src] = &cacheEntry{src: src, tree: tree, refs: 1}
	return tree, true, nil
}

// release drops a job's hold on the tree for src.
func (c *astCache) release(src string) {
	e, ok := c.entries[src]
	if !ok {
		return
	}
	e.refs--
	if e.refs > 0 {
		return
	}
	e.elem = c.idle.PushFront(e)
	for c.idle.Len() > c.conf.CacheSize() {
		old := c.idle.Remove(c.idle.Back()).(*cacheEntry)
		delete(c.entries, old.src)
		c.stats.Evictions++
		c.log.Debug("cache evict", "bytes", len(old.src), "entries", len(c.entries))
	}
}

// CacheStats returns statistics for the engine's syntax tree cache.
func (e *Engine) CacheStats() CacheStats {
	s := e.cache.stats
	s.Entries = len(e.cache.entries)
	s.Idle = e.cache.idle.Len()
	return s
}
