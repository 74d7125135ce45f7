// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaults(t *testing.T) {
	var c Config
	if got := c.StepBudget(); got != DefaultStepBudget {
		t.Errorf("StepBudget = %d; want %d", got, DefaultStepBudget)
	}
	if got := c.Heartbeat(); got != DefaultHeartbeat {
		t.Errorf("Heartbeat = %v; want %v", got, DefaultHeartbeat)
	}
	if !c.Cache() {
		t.Error("cache disabled by default")
	}
	if got := c.CacheSize(); got != DefaultCacheSize {
		t.Errorf("CacheSize = %d; want %d", got, DefaultCacheSize)
	}
	if got := c.MaxValues(); got != 0 {
		t.Errorf("MaxValues = %d; want 0", got)
	}
	pools := []int{c.PoolVars(), c.PoolValues(), c.PoolSymbols(), c.PoolScopes()}
	if diff := cmp.Diff([]int{127, 255, 255, 255}, pools); diff != "" {
		t.Errorf("pool caps (-want +got):\n%s", diff)
	}
}

func TestPools(t *testing.T) {
	var c Config
	if err := c.Parse([]byte("pool_vars: 1\npool_values: 2\npool_symbols: 3\npool_scopes: 4\n")); err != nil {
		t.Fatal(err)
	}
	pools := []int{c.PoolVars(), c.PoolValues(), c.PoolSymbols(), c.PoolScopes()}
	if diff := cmp.Diff([]int{1, 2, 3, 4}, pools); diff != "" {
		t.Errorf("pool caps (-want +got):\n%s", diff)
	}
	c.SetPoolVars(0)
	if c.PoolVars() != DefaultPoolVars {
		t.Errorf("PoolVars = %d after reset; want %d", c.PoolVars(), DefaultPoolVars)
	}
}

func TestParse(t *testing.T) {
	const text = `
step: 7
heartbeat: 10ms
cache: false
cache_size: 3
max_frames: 100
gc_threshold: 5
prompt: "mel> "
debug: [sched, parse]
`
	var c Config
	if err := c.Parse([]byte(text)); err != nil {
		t.Fatal(err)
	}
	type snapshot struct {
		Step, CacheSize, MaxFrames, GC int
		Heartbeat                      time.Duration
		Cache                          bool
		Prompt                         string
		Debug                          []string
	}
	got := snapshot{c.StepBudget(), c.CacheSize(), c.MaxFrames(), c.GCThreshold(), c.Heartbeat(), c.Cache(), c.Prompt(), c.Debugs()}
	want := snapshot{7, 3, 100, 5, 10 * time.Millisecond, false, "mel> ", []string{"parse", "sched"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	var tests = []struct {
		text  string
		error string
	}{
		{"heartbeat: soon", "heartbeat"},
		{"debug: [bogus]", "unknown debug flag"},
		{"step: [1", "yaml"},
	}
	for _, test := range tests {
		var c Config
		err := c.Parse([]byte(test.text))
		if err == nil || !strings.Contains(err.Error(), test.error) {
			t.Errorf("%q: expected error containing %q; got %v", test.text, test.error, err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mel.yaml")
	if err := os.WriteFile(path, []byte("step: 1\n"), 0o666); err != nil {
		t.Fatal(err)
	}
	var c Config
	if err := c.Load(path); err != nil {
		t.Fatal(err)
	}
	if c.StepBudget() != 1 {
		t.Errorf("StepBudget = %d; want 1", c.StepBudget())
	}
	if err := c.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("loading a missing file succeeded")
	}
}
