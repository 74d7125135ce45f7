// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "github.com/melon-lang/mel/config"

// Context is the execution context for evaluation.
// The only implementation is ../exec/Job, but the interface
// is defined separately, here, because of the import cycle
// that would otherwise result.
type Context interface {
	// Config returns the configuration state for evaluation.
	Config() *config.Config

	// Heap returns the allocator for the running job.
	Heap() *Heap
}
