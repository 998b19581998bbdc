// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dom provides the host element tree that the composition core
// observes: elements, shadow roots, slot assignment, batched mutation
// observation, and the custom-element registry. It implements enough of
// shadow-tree semantics for composed-tree tracking to be exercised
// realistically, without any rendering or markup parsing.
package dom

import (
	"strconv"

	"github.com/sceneml/sceneml/base/errors"
	"github.com/sceneml/sceneml/base/task"
	"github.com/sceneml/sceneml/tree"
)

// Document is the shared context for a tree of elements: it owns the
// task queue modeling the host event loop tick, the custom-element
// registry, and the observer bookkeeping. All elements of one logical
// scene belong to one Document. It is not safe for concurrent use.
type Document struct {

	// tasks is the single-threaded task queue that batches mutation
	// delivery (Normal tier) and slot-distribution notification
	// (Final tier).
	tasks *task.Queue

	// registry is the custom-element registry for this document.
	registry *Registry

	// observers is the set of connected mutation observers.
	observers []*MutationObserver

	// shadowListeners are called when a shadow root is attached
	// to any element of this document.
	shadowListeners []func(host *Element, root *ShadowRoot)

	// slotObservers is the per-slot set of slotchange observers.
	slotObservers map[*Element][]*SlotObserver

	// numElements is the number of elements ever created, used for
	// automatic unique element naming.
	numElements uint64
}

// NewDocument returns a new empty [Document].
func NewDocument() *Document {
	d := &Document{
		tasks:         task.NewQueue(),
		slotObservers: map[*Element][]*SlotObserver{},
	}
	d.registry = NewRegistry(d.tasks)
	return d
}

// Tasks returns the document's task queue.
func (d *Document) Tasks() *task.Queue {
	return d.tasks
}

// Registry returns the document's custom-element registry.
func (d *Document) Registry() *Registry {
	return d.registry
}

// Flush runs one tick of the document's task queue, delivering all
// pending mutation and slotchange notifications. Tests use this to
// drive observation deterministically.
func (d *Document) Flush() {
	d.tasks.Flush()
}

// CreateElement returns a new element with the given tag, belonging
// to this document. The element starts detached; use the child-adding
// methods on [Element] and [ShadowRoot] to place it.
func (d *Document) CreateElement(tag string) *Element {
	e := tree.New[*Element]()
	e.Tag = tag
	e.doc = d
	e.SetName(tag + "-" + strconv.FormatUint(d.numElements, 10))
	d.numElements++
	return e
}

// CreateScene returns a new scene-root element with the given tag.
// Its shadow tree is owned by the rendering implementation: it is
// created here with a single default slot, and [Element.AttachShadow]
// rejects scene roots, so all structural children of the scene
// distribute through that reserved slot.
func (d *Document) CreateScene(tag string) *Element {
	e := d.CreateElement(tag)
	e.IsScene = true
	sr := errors.Ignore1(e.attachShadow())
	sr.AppendChild(d.CreateSlot(""))
	return e
}

// CreateSlot returns a new slot element with the given slot name.
// An empty name makes it the default slot.
func (d *Document) CreateSlot(name string) *Element {
	s := d.CreateElement(SlotTag)
	if name != "" {
		s.SetAttribute("name", name)
	}
	return s
}

// AddShadowListener adds a function called whenever a shadow root is
// attached to an element of this document, after the structural
// mutations of the same tick.
func (d *Document) AddShadowListener(fun func(host *Element, root *ShadowRoot)) {
	d.shadowListeners = append(d.shadowListeners, fun)
}
