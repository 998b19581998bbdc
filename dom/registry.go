// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"fmt"
	"strings"

	"github.com/sceneml/sceneml/base/errors"
	"github.com/sceneml/sceneml/base/task"
)

// Registry is the custom-element registry: it tracks which custom tags
// have been defined (upgraded) and releases deferred continuations
// when a definition resolves. It is an explicit collaborator injected
// through the [Document], not process-global state.
type Registry struct {
	tasks   *task.Queue
	defined map[string]bool
	waiters map[string][]func()
}

// NewRegistry returns a new [Registry] delivering continuations
// through the given task queue.
func NewRegistry(tasks *task.Queue) *Registry {
	return &Registry{
		tasks:   tasks,
		defined: map[string]bool{},
		waiters: map[string][]func(){},
	}
}

// IsCustomTag returns whether the given tag denotes a custom element
// (one containing a dash). Non-custom tags are always defined.
func IsCustomTag(tag string) bool {
	return strings.Contains(tag, "-")
}

// IsDefined returns whether elements with the given tag are defined:
// either the tag is not custom, or it has been defined here.
func (r *Registry) IsDefined(tag string) bool {
	return !IsCustomTag(tag) || r.defined[tag]
}

// Define marks the given custom tag as defined, releasing any
// [Registry.WhenDefined] waiters for it in registration order on the
// current tick. It returns an error if the tag is not a custom tag
// or is already defined.
func (r *Registry) Define(tag string) error {
	if !IsCustomTag(tag) {
		return errors.Log(fmt.Errorf("dom: tag %q is not a custom tag; custom tags must contain a dash", tag))
	}
	if r.defined[tag] {
		return errors.Log(fmt.Errorf("dom: tag %q is already defined", tag))
	}
	r.defined[tag] = true
	waiters := r.waiters[tag]
	delete(r.waiters, tag)
	for _, fun := range waiters {
		r.tasks.Post(fun)
	}
	return nil
}

// WhenDefined calls the given function once the given tag is defined.
// If it is already defined, the function is posted to the current
// tick; otherwise it runs on the tick in which [Registry.Define]
// resolves the tag. Callers that need cancellation should check their
// own validity state inside the function.
func (r *Registry) WhenDefined(tag string, fun func()) {
	if r.IsDefined(tag) {
		r.tasks.Post(fun)
		return
	}
	r.waiters[tag] = append(r.waiters[tag], fun)
}
