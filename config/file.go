// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// file is the YAML form of a Config. Pointer fields distinguish
// "absent" from an explicit zero.
type file struct {
	Step        *int     `yaml:"step"`
	Heartbeat   string   `yaml:"heartbeat"`
	Cache       *bool    `yaml:"cache"`
	CacheSize   *int     `yaml:"cache_size"`
	SymbolHint  *int     `yaml:"symbols"`
	MaxFrames   *int     `yaml:"max_frames"`
	MaxValues   *int     `yaml:"max_values"`
	GCThreshold *int     `yaml:"gc_threshold"`
	PoolVars    *int     `yaml:"pool_vars"`
	PoolValues  *int     `yaml:"pool_values"`
	PoolSymbols *int     `yaml:"pool_symbols"`
	PoolScopes  *int     `yaml:"pool_scopes"`
	Prompt      *string  `yaml:"prompt"`
	Debug       []string `yaml:"debug"`
}

// Load reads the YAML configuration file at path into c.
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := c.Parse(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Parse applies YAML configuration text to c. Keys not present
// leave the current setting alone.
func (c *Config) Parse(data []byte) error {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}
	if f.Step != nil {
		c.SetStepBudget(*f.Step)
	}
	if f.Heartbeat != "" {
		d, err := time.ParseDuration(f.Heartbeat)
		if err != nil {
			return fmt.Errorf("heartbeat: %w", err)
		}
		c.SetHeartbeat(d)
	}
	if f.Cache != nil {
		c.SetCache(*f.Cache)
	}
	if f.CacheSize != nil {
		c.SetCacheSize(*f.CacheSize)
	}
	if f.SymbolHint != nil {
		c.SetSymbolHint(*f.SymbolHint)
	}
	if f.MaxFrames != nil {
		c.SetMaxFrames(*f.MaxFrames)
	}
	if f.MaxValues != nil {
		c.SetMaxValues(*f.MaxValues)
	}
	if f.GCThreshold != nil {
		c.SetGCThreshold(*f.GCThreshold)
	}
	if f.PoolVars != nil {
		c.SetPoolVars(*f.PoolVars)
	}
	if f.PoolValues != nil {
		c.SetPoolValues(*f.PoolValues)
	}
	if f.PoolSymbols != nil {
		c.SetPoolSymbols(*f.PoolSymbols)
	}
	if f.PoolScopes != nil {
		c.SetPoolScopes(*f.PoolScopes)
	}
	if f.Prompt != nil {
		c.SetPrompt(*f.Prompt)
	}
	for _, name := range f.Debug {
		if !slices.Contains(DebugFlags, name) {
			return fmt.Errorf("unknown debug flag %q", name)
		}
		c.SetDebug(name, true)
	}
	return nil
}
