// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

// A resource is a named host object made available to natives. Its
// free function, if any, is called when the resource is cancelled or
// its owner, a job or the engine, goes away.
type resource struct {
	data any
	free func(any)
}

type resources map[string]*resource

func (r *resources) register(name string, data any, free func(any)) error {
	if *r == nil {
		*r = make(resources)
	}
	if _, ok := (*r)[name]; ok {
		return ErrResourceExists
	}
	(*r)[name] = &resource{data: data, free: free}
	return nil
}

func (r resources) cancel(name string) error {
	res, ok := r[name]
	if !ok {
		return ErrNoResource
	}
	delete(r, name)
	if res.free != nil {
		res.free(res.data)
	}
	return nil
}

func (r resources) get(name string) (any, bool) {
	res, ok := r[name]
	if !ok {
		return nil, false
	}
	return res.data, true
}

func (r resources) freeAll() {
	for name := range r {
		r.cancel(name)
	}
}

// Register makes data available to every job under name.
func (e *Engine) Register(name string, data any, free func(any)) error {
	if e.closed {
		return ErrEngineClosed
	}
	return e.resources.register(name, data, free)
}

// Cancel removes the named engine resource, calling its free function.
func (e *Engine) Cancel(name string) error {
	return e.resources.cancel(name)
}

func (e *Engine) Resource(name string) (any, bool) {
	return e.resources.get(name)
}

// Register makes data available to the job under name. It is freed when
// the job ends.
func (j *Job) Register(name string, data any, free func(any)) error {
	if j.state == Done {
		return ErrJobDone
	}
	return j.resources.register(name, data, free)
}

func (j *Job) Cancel(name string) error {
	return j.resources.cancel(name)
}

// Resource returns the named resource of the job, or failing that of
// the engine.
func (j *Job) Resource(name string) (any, bool) {
	if data, ok := j.resources.get(name); ok {
		return data, true
	}
	return j.engine.resources.get(name)
}
