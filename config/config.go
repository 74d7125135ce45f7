// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the settings shared by an engine and its jobs.
// The zero value is usable; every getter substitutes the default for an
// unset field.
package config // import "github.com/melon-lang/mel/config"

import (
	"io"
	"log/slog"
	"os"
	"sort"
	"time"
)

// Defaults.
const (
	DefaultStepBudget  = 20000
	DefaultHeartbeat   = 50 * time.Millisecond
	DefaultCacheSize   = 200
	DefaultSymbolHint  = 371
	DefaultMaxFrames   = 1 << 20
	DefaultGCThreshold = 1024
)

// Default free-list caps, one per recycled kind.
const (
	DefaultPoolVars    = 127
	DefaultPoolValues  = 255
	DefaultPoolSymbols = 255
	DefaultPoolScopes  = 255
)

// DebugFlags lists the names accepted by SetDebug.
var DebugFlags = []string{
	"frames", // Log every executed frame step.
	"panic",  // Let internal panics escape instead of failing the job.
	"parse",  // Dump the syntax tree of every new job.
	"sched",  // Log scheduler transitions at Info rather than Debug.
}

type Config struct {
	prompt      string
	stepBudget  int
	heartbeat   time.Duration
	noCache     bool
	cacheSize   int
	symbolHint  int
	maxFrames   int
	maxValues   int
	gcThreshold int
	poolVars    int
	poolValues  int
	poolSymbols int
	poolScopes  int
	debug       map[string]bool
	output      io.Writer
	errOutput   io.Writer
	logger      *slog.Logger
}

// StepBudget returns the number of frame steps a job may execute
// before it is forced to yield.
func (c *Config) StepBudget() int {
	if c.stepBudget <= 0 {
		return DefaultStepBudget
	}
	return c.stepBudget
}

func (c *Config) SetStepBudget(n int) {
	c.stepBudget = n
}

// Heartbeat returns the interval at which an idle engine wakes.
func (c *Config) Heartbeat() time.Duration {
	if c.heartbeat <= 0 {
		return DefaultHeartbeat
	}
	return c.heartbeat
}

func (c *Config) SetHeartbeat(d time.Duration) {
	c.heartbeat = d
}

// Cache reports whether parsed trees are cached by source text.
func (c *Config) Cache() bool {
	return !c.noCache
}

func (c *Config) SetCache(on bool) {
	c.noCache = !on
}

// CacheSize returns the number of unreferenced trees the cache may hold.
func (c *Config) CacheSize() int {
	if c.cacheSize <= 0 {
		return DefaultCacheSize
	}
	return c.cacheSize
}

func (c *Config) SetCacheSize(n int) {
	c.cacheSize = n
}

// SymbolHint returns the initial capacity of a job's symbol index.
func (c *Config) SymbolHint() int {
	if c.symbolHint <= 0 {
		return DefaultSymbolHint
	}
	return c.symbolHint
}

func (c *Config) SetSymbolHint(n int) {
	c.symbolHint = n
}

// MaxFrames returns the deepest evaluation stack a job may build.
func (c *Config) MaxFrames() int {
	if c.maxFrames <= 0 {
		return DefaultMaxFrames
	}
	return c.maxFrames
}

func (c *Config) SetMaxFrames(n int) {
	c.maxFrames = n
}

// MaxValues returns the limit on live values per job; zero means no limit.
func (c *Config) MaxValues() int {
	return c.maxValues
}

func (c *Config) SetMaxValues(n int) {
	c.maxValues = n
}

// GCThreshold returns how many composites may be registered with a job's
// collector between collections.
func (c *Config) GCThreshold() int {
	if c.gcThreshold <= 0 {
		return DefaultGCThreshold
	}
	return c.gcThreshold
}

func (c *Config) SetGCThreshold(n int) {
	c.gcThreshold = n
}

// PoolVars, PoolValues, PoolSymbols and PoolScopes return how many
// released items of each kind a job keeps for reuse.
func (c *Config) PoolVars() int    { return orDefault(c.poolVars, DefaultPoolVars) }
func (c *Config) PoolValues() int  { return orDefault(c.poolValues, DefaultPoolValues) }
func (c *Config) PoolSymbols() int { return orDefault(c.poolSymbols, DefaultPoolSymbols) }
func (c *Config) PoolScopes() int  { return orDefault(c.poolScopes, DefaultPoolScopes) }

func (c *Config) SetPoolVars(n int)    { c.poolVars = n }
func (c *Config) SetPoolValues(n int)  { c.poolValues = n }
func (c *Config) SetPoolSymbols(n int) { c.poolSymbols = n }
func (c *Config) SetPoolScopes(n int)  { c.poolScopes = n }

func orDefault(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

func (c *Config) Prompt() string {
	return c.prompt
}

func (c *Config) SetPrompt(prompt string) {
	c.prompt = prompt
}

func (c *Config) Debug(s string) bool {
	return c.debug[s]
}

func (c *Config) SetDebug(s string, state bool) {
	if c.debug == nil {
		c.debug = make(map[string]bool)
	}
	c.debug[s] = state
	c.logger = nil
}

// Debugs returns the names of the debug flags that are set, sorted.
func (c *Config) Debugs() []string {
	var names []string
	for name, on := range c.debug {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Output returns the writer used by print and the REPL.
func (c *Config) Output() io.Writer {
	if c.output == nil {
		return os.Stdout
	}
	return c.output
}

func (c *Config) SetOutput(w io.Writer) {
	c.output = w
}

// ErrOutput returns the writer for error reports and logs.
func (c *Config) ErrOutput() io.Writer {
	if c.errOutput == nil {
		return os.Stderr
	}
	return c.errOutput
}

func (c *Config) SetErrOutput(w io.Writer) {
	c.errOutput = w
	c.logger = nil
}

// Logger returns the structured logger for engine events. Unless a debug
// flag is set only warnings and errors are written.
func (c *Config) Logger() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	level := slog.LevelWarn
	if len(c.Debugs()) > 0 {
		level = slog.LevelDebug
	}
	c.logger = slog.New(slog.NewTextHandler(c.ErrOutput(), &slog.HandlerOptions{Level: level}))
	return c.logger
}

// SetLogger installs a logger, overriding the default.
func (c *Config) SetLogger(l *slog.Logger) {
	c.logger = l
}
