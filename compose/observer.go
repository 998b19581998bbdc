// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compose

import (
	"github.com/sceneml/sceneml/dom"
	"github.com/sceneml/sceneml/tree"
)

// childObserver wraps a [dom.MutationObserver] and reports the net
// effect of each delivered batch as individual added / removed events:
// an element added and removed within one batch (in the same container)
// produces no events at all, so transient membership never reaches the
// composition state machine.
type childObserver struct {
	obs *dom.MutationObserver
}

// observeChildren observes child-list mutations of the given container
// (deeply, if deep is set) and calls added / removed with the net
// effect of each batch, in mutation order.
func observeChildren(doc *dom.Document, container tree.Node, deep bool, added, removed func(el *dom.Element, container tree.Node)) *childObserver {
	co := &childObserver{}
	co.obs = doc.Observe(container, deep, func(recs []dom.MutationRecord) {
		deliverNet(recs, added, removed)
	})
	return co
}

// Disconnect stops the observer, dropping any queued batch.
func (co *childObserver) Disconnect() {
	co.obs.Disconnect()
}

type childEvent struct {
	el     *dom.Element
	target tree.Node
	added  bool
}

type childKey struct {
	el     *dom.Element
	target tree.Node
}

// deliverNet flattens a batch of mutation records into events and
// fires only the ones that survive cancellation: for each (element,
// container) pair the last event counts, and it fires only when it
// agrees with the first, since a pair whose first and last events
// disagree (add then remove, or remove then re-add) has no net effect
// on membership.
func deliverNet(recs []dom.MutationRecord, added, removed func(el *dom.Element, container tree.Node)) {
	var events []childEvent
	firstAdd := map[childKey]bool{}
	last := map[childKey]int{}
	note := func(ev childEvent) {
		k := childKey{ev.el, ev.target}
		if _, seen := last[k]; !seen {
			firstAdd[k] = ev.added
		}
		events = append(events, ev)
		last[k] = len(events) - 1
	}
	for _, r := range recs {
		for _, a := range r.Added {
			note(childEvent{a, r.Target, true})
		}
		for _, rm := range r.Removed {
			note(childEvent{rm, r.Target, false})
		}
	}
	for i, ev := range events {
		k := childKey{ev.el, ev.target}
		if last[k] != i || firstAdd[k] != ev.added {
			continue
		}
		if ev.added {
			added(ev.el, ev.target)
		} else {
			removed(ev.el, ev.target)
		}
	}
}
