// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"github.com/sceneml/sceneml/base/slicesx"
	"github.com/sceneml/sceneml/tree"
)

// MutationRecord reports one structural child-list mutation: the
// container it occurred in and the elements added and removed.
type MutationRecord struct {

	// Target is the container in which the mutation occurred:
	// an [Element] or a [ShadowRoot].
	Target tree.Node

	// Added are the elements added to the target, in mutation order.
	Added []*Element

	// Removed are the elements removed from the target,
	// in mutation order.
	Removed []*Element
}

// MutationObserver batches child-list mutation records for one
// container and delivers them asynchronously on the next tick, in the
// order the structural changes were recorded. Create one with
// [Document.Observe].
type MutationObserver struct {
	doc       *Document
	target    tree.Node
	deep      bool
	fun       func(recs []MutationRecord)
	records   []MutationRecord
	scheduled bool
	connected bool
}

// Observe registers the given function to receive batched mutation
// records for the given container. With deep, mutations anywhere in
// the container's subtree are reported, not just direct children;
// the shadow-root case uses deep observation because initial upgrade
// timing may insert indirectly. Observation never crosses shadow
// boundaries: a nested shadow tree is a separate subtree.
func (d *Document) Observe(target tree.Node, deep bool, fun func(recs []MutationRecord)) *MutationObserver {
	o := &MutationObserver{
		doc:       d,
		target:    target.AsTree().This,
		deep:      deep,
		fun:       fun,
		connected: true,
	}
	d.observers = append(d.observers, o)
	return o
}

// Disconnect stops the observer and drops any queued records, so no
// callback can act on stale state after disconnecting.
func (o *MutationObserver) Disconnect() {
	if !o.connected {
		return
	}
	o.connected = false
	o.records = nil
	o.doc.observers, _ = slicesx.Remove(o.doc.observers, o)
}

// matches returns whether a mutation in the given container is
// within this observer's scope.
func (o *MutationObserver) matches(container tree.Node) bool {
	if container == o.target {
		return true
	}
	if !o.deep {
		return false
	}
	within := false
	container.AsTree().WalkUp(func(n tree.Node) bool {
		if n == o.target {
			within = true
			return tree.Break
		}
		return tree.Continue
	})
	return within
}

func (o *MutationObserver) record(rec MutationRecord) {
	o.records = append(o.records, rec)
	if o.scheduled {
		return
	}
	o.scheduled = true
	o.doc.tasks.Post(func() {
		o.scheduled = false
		if !o.connected || len(o.records) == 0 {
			return
		}
		recs := o.records
		o.records = nil
		o.fun(recs)
	})
}

// childMutated routes a structural child-list mutation to the matching
// observers and synchronously recomputes the slot assignment of any
// affected host, queuing slotchange notifications for the Final tier
// of the same tick.
func (d *Document) childMutated(container tree.Node, added, removed []*Element) {
	rec := MutationRecord{Target: container, Added: added, Removed: removed}
	for _, o := range d.observers {
		if o.matches(container) {
			o.record(rec)
		}
	}
	// reassignment: light children of a shadow host changed, or the
	// slot population of a shadow tree changed
	if el, ok := container.(*Element); ok {
		if el.shadow != nil {
			d.assign(el)
		}
		if sr := el.ContainingShadowRoot(); sr != nil {
			d.assign(sr.Host())
		}
		return
	}
	if sr, ok := container.(*ShadowRoot); ok {
		d.assign(sr.Host())
	}
}
