// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compose

import (
	"fmt"
	"slices"

	"github.com/sceneml/sceneml/base/errors"
	"github.com/sceneml/sceneml/base/keylist"
	"github.com/sceneml/sceneml/base/slicesx"
	"github.com/sceneml/sceneml/dom"
	"github.com/sceneml/sceneml/tree"
)

// Tracker drives composed-tree tracking for one element: it observes
// the element's light children, its shadow tree if it has one, and the
// slots inside that shadow tree, and delivers ChildComposed /
// ChildUncomposed notifications to its receivers. Create one with
// [Composer.Track].
type Tracker struct {
	comp *Composer

	// el is the tracked element.
	el *dom.Element

	// receivers get the composed / uncomposed notifications,
	// in registration order.
	receivers []Receiver

	// lightObs observes the element's direct structural children.
	lightObs *childObserver

	// shadowObs deeply observes the shadow tree, once attached, for
	// root-child composition and slot discovery.
	shadowObs *childObserver

	// slotObs is the per-slot slotchange subscription for slots in
	// the shadow tree.
	slotObs map[*dom.Element]*dom.SlotObserver

	// snapshots records, per slot, the previous distribution
	// resolution, for diffing on slotchange. Order is slot discovery
	// order, keeping resolution deterministic.
	snapshots keylist.List[*dom.Element, []*dom.Element]

	active bool
}

// Track starts composed-tree tracking for the given element and
// registers the given receiver (which may be nil). If the element is
// already tracked, the existing tracker gains the receiver instead.
// Children already present are reported as composed on the next
// [dom.Document.Flush], through the same delivery path as later
// mutations.
func (c *Composer) Track(el *dom.Element, recv Receiver) *Tracker {
	if t := c.trackers[el]; t != nil {
		t.AddReceiver(recv)
		return t
	}
	t := &Tracker{comp: c, el: el, active: true, slotObs: map[*dom.Element]*dom.SlotObserver{}}
	t.AddReceiver(recv)
	c.trackers[el] = t
	doc := el.Document()
	t.lightObs = observeChildren(doc, el, false, t.lightAdded, t.lightRemoved)
	doc.Tasks().Post(func() {
		if !t.active {
			return
		}
		for _, ch := range el.ChildElements() {
			t.lightAdded(ch, el.This)
		}
	})
	if sr := el.Shadow(); sr != nil {
		t.adoptShadow(sr)
	}
	return t
}

// Untrack stops tracking the given element: all observation is
// disconnected and queued notifications are dropped. It does not fire
// teardown callbacks; receivers that need a final sweep should consult
// [Composer.ComposedChildren] before untracking.
func (c *Composer) Untrack(el *dom.Element) {
	t := c.trackers[el]
	if t == nil {
		return
	}
	t.active = false
	t.lightObs.Disconnect()
	if t.shadowObs != nil {
		t.shadowObs.Disconnect()
	}
	for s, o := range t.slotObs {
		o.Disconnect()
		delete(t.slotObs, s)
	}
	delete(c.trackers, el)
}

// Element returns the tracked element.
func (t *Tracker) Element() *dom.Element {
	return t.el
}

// AddReceiver adds the given receiver to this tracker.
// A nil receiver is ignored.
func (t *Tracker) AddReceiver(recv Receiver) {
	if recv != nil {
		t.receivers = append(t.receivers, recv)
	}
}

func (t *Tracker) notifyComposed(ch *dom.Element, conn Connection) {
	for _, r := range t.receivers {
		r.ChildComposed(ch, conn)
	}
}

func (t *Tracker) notifyUncomposed(ch *dom.Element, conn Connection) {
	for _, r := range t.receivers {
		r.ChildUncomposed(ch, conn)
	}
}

// Light children:

func (t *Tracker) lightAdded(ch *dom.Element, _ tree.Node) {
	if !t.active {
		return
	}
	st := t.comp.stateFor(ch)
	if t.el.Shadow() != nil {
		// distribution candidate: composition waits for slot
		// resolution later this tick
		if st.mode == unattached {
			st.mode = pendingDistribution
		}
		return
	}
	if st.mode == structuralChild {
		return
	}
	st.mode = structuralChild
	st.shadowParent = nil
	t.compose(ch, Actual)
}

func (t *Tracker) lightRemoved(ch *dom.Element, _ tree.Node) {
	if !t.active {
		return
	}
	st := t.comp.stateIfAny(ch)
	if st == nil {
		return
	}
	switch st.mode {
	case structuralChild:
		st.mode = unattached
		t.uncompose(ch, Actual)
	case distributedChild:
		// structural detach dissolves the distribution edge now;
		// the slot's own diff later this tick finds it already gone
		t.teardownDistributed(ch)
	case pendingDistribution:
		st.mode = unattached
	}
}

// Shadow tree:

// adoptShadow switches the tracker into boundary mode for the given
// root: light children stop composing structurally and await
// distribution, the shadow tree is observed deeply, and its existing
// slots are watched and resolved.
func (t *Tracker) adoptShadow(sr *dom.ShadowRoot) {
	if t.shadowObs != nil {
		return
	}
	for _, ch := range t.el.ChildElements() {
		st := t.comp.stateFor(ch)
		if st.mode == structuralChild {
			t.uncompose(ch, Actual)
			st.mode = pendingDistribution
		}
	}
	doc := t.el.Document()
	t.shadowObs = observeChildren(doc, sr, true, t.shadowAdded, t.shadowRemoved)
	doc.Tasks().Post(func() {
		if !t.active {
			return
		}
		for _, ch := range sr.ChildElements() {
			t.shadowAdded(ch, sr.This)
		}
	})
	for _, s := range collectSlots(sr) {
		t.watchSlot(s)
	}
}

func (t *Tracker) shadowAdded(ch *dom.Element, container tree.Node) {
	if !t.active {
		return
	}
	if sr := t.el.Shadow(); sr != nil && container == sr.This {
		st := t.comp.stateFor(ch)
		if st.mode != shadowRootChild {
			if st.distributedParent != nil {
				t.teardownDistributed(ch)
			}
			st.mode = shadowRootChild
			st.shadowParent = t.el
			st.distributedParent = nil
			t.compose(ch, Root)
		}
	}
	for _, s := range collectSlots(ch) {
		t.watchSlot(s)
	}
}

func (t *Tracker) shadowRemoved(ch *dom.Element, container tree.Node) {
	if !t.active {
		return
	}
	st := t.comp.stateIfAny(ch)
	if st != nil && st.mode == shadowRootChild && st.shadowParent == t.el {
		sr := t.el.Shadow()
		if sr == nil || container == sr.This {
			st.mode = unattached
			st.shadowParent = nil
			t.uncompose(ch, Root)
		}
	}
	for _, s := range collectSlots(ch) {
		t.unwatchSlot(s)
	}
}

// collectSlots returns the slot elements in the given subtree, in tree
// order, including the root element itself if it is a slot.
func collectSlots(n tree.Node) []*dom.Element {
	var out []*dom.Element
	n.AsTree().WalkDown(func(k tree.Node) bool {
		if el, ok := k.(*dom.Element); ok && el.IsSlot() {
			out = append(out, el)
		}
		return tree.Continue
	})
	return out
}

// Slot distribution:

// watchSlot subscribes to slotchange for the given slot and schedules
// its initial resolution for the Final tier, after the structural
// mutations of the current tick have been observed.
func (t *Tracker) watchSlot(s *dom.Element) {
	if _, has := t.slotObs[s]; has {
		return
	}
	doc := t.el.Document()
	t.slotObs[s] = doc.ObserveSlotChange(s, t.resolveSlot)
	doc.Tasks().PostFinal(func() {
		if t.active && t.slotObs[s] != nil {
			t.resolveSlot(s)
		}
	})
}

// unwatchSlot drops the subscription and snapshot for a slot that left
// the shadow tree, tearing down the distribution edges it established.
func (t *Tracker) unwatchSlot(s *dom.Element) {
	o := t.slotObs[s]
	if o == nil {
		return
	}
	o.Disconnect()
	delete(t.slotObs, s)
	prev, _ := t.snapshots.AtTry(s)
	t.snapshots.DeleteByKey(s)
	for _, r := range prev {
		if st := t.comp.stateIfAny(r); st != nil && st.distributedSlot == s {
			t.teardownDistributed(r)
		}
	}
}

// resolveSlot recomputes the given slot's distribution and applies the
// diff against its previous snapshot: net-removed elements get their
// distribution edge torn down, net-added elements get one established.
// The snapshot updates before callbacks run, so reentrant queries see
// consistent state.
func (t *Tracker) resolveSlot(s *dom.Element) {
	if !t.active {
		return
	}
	cur := resolveAssigned(s, t.el.IsScene)
	prev, _ := t.snapshots.AtTry(s)
	t.snapshots.Set(s, slices.Clone(cur))
	removed, added := diffAssigned(prev, cur)
	owner := t.effectiveOwner(s)
	for _, r := range removed {
		if st := t.comp.stateIfAny(r); st != nil && st.distributedSlot == s {
			t.teardownDistributed(r)
		}
	}
	for _, a := range added {
		t.establishDistributed(a, owner, s)
	}
}

// effectiveOwner returns the element the given slot composes its
// distributed elements into: the slot's structural parent element, or
// the host when the slot is a direct shadow-root child.
func (t *Tracker) effectiveOwner(s *dom.Element) *dom.Element {
	if p := s.ParentElement(); p != nil {
		return p
	}
	if sr := s.ParentShadowRoot(); sr != nil {
		return sr.Host()
	}
	return t.el
}

// establishDistributed records a distribution edge from the given
// element to the given owner and fires the composed callback. An
// existing edge elsewhere is torn down first, so re-slotting delivers
// uncomposed before composed, exactly once each.
func (t *Tracker) establishDistributed(a *dom.Element, owner, s *dom.Element) {
	st := t.comp.stateFor(a)
	if st.distributedParent == owner && st.distributedSlot == s {
		return
	}
	if st.distributedParent != nil {
		t.teardownDistributed(a)
	}
	ost := t.comp.stateFor(owner)
	if slices.Contains(ost.distributedChildren, a) {
		err := fmt.Errorf("compose: double distribution of %v into %v via slot %v", a, owner, s)
		if Debug {
			panic(err)
		}
		errors.Log(err)
	} else {
		ost.distributedChildren = append(ost.distributedChildren, a)
	}
	st.distributedParent = owner
	st.distributedSlot = s
	st.shadowParent = nil
	st.mode = distributedChild
	t.compose(a, Slot)
}

// teardownDistributed dissolves the element's current distribution
// edge, wherever it points, and fires the uncomposed callback through
// the tracker that delivered the composed one.
func (t *Tracker) teardownDistributed(a *dom.Element) {
	st := t.comp.stateIfAny(a)
	if st == nil || st.distributedParent == nil {
		return
	}
	if ost := t.comp.stateIfAny(st.distributedParent); ost != nil {
		ost.distributedChildren, _ = slicesx.Remove(ost.distributedChildren, a)
	}
	st.distributedParent = nil
	st.distributedSlot = nil
	if p := a.ParentElement(); p != nil && p.Shadow() != nil {
		st.mode = pendingDistribution
	} else {
		st.mode = unattached
	}
	t.uncompose(a, Slot)
}

// Delivery:

// compose delivers ChildComposed for the given child, immediately if
// its definition is resolved, and otherwise deferred until it is. A
// prior pending delivery for the child is cancelled first, so the
// callback fires at most once per composition.
func (t *Tracker) compose(ch *dom.Element, conn Connection) {
	st := t.comp.stateFor(ch)
	if st.pending != nil {
		st.pending.cancelled = true
		st.pending = nil
	}
	if ch.Defined() {
		t.deliver(ch, st, conn)
		return
	}
	d := &deferred{conn: conn}
	st.pending = d
	t.el.Document().Registry().WhenDefined(ch.Tag, func() {
		if d.cancelled || !t.active || st.pending != d {
			return
		}
		st.pending = nil
		// the relationship may have changed while waiting
		if !t.stillValid(ch, st, conn) {
			return
		}
		t.deliver(ch, st, conn)
	})
}

func (t *Tracker) deliver(ch *dom.Element, st *state, conn Connection) {
	st.delivered = true
	st.deliveredConn = conn
	st.deliveredBy = t
	t.notifyComposed(ch, conn)
}

// stillValid re-checks, at deferred-delivery time, that the child is
// still composed into this tracker's element with the same connection.
func (t *Tracker) stillValid(ch *dom.Element, st *state, conn Connection) bool {
	switch conn {
	case Actual:
		return st.mode == structuralChild && ch.ParentElement() == t.el
	case Root:
		return st.mode == shadowRootChild && st.shadowParent == t.el
	case Slot:
		return st.mode == distributedChild && st.distributedParent != nil
	}
	return false
}

// uncompose balances a prior compose for the given child: a pending
// deferred delivery is cancelled silently (the composed callback never
// fired, so no uncomposed fires either), and a delivered one fires
// ChildUncomposed through the tracker that delivered it.
func (t *Tracker) uncompose(ch *dom.Element, conn Connection) {
	st := t.comp.stateIfAny(ch)
	if st == nil {
		return
	}
	if st.pending != nil && st.pending.conn == conn {
		st.pending.cancelled = true
		st.pending = nil
		return
	}
	if !st.delivered || st.deliveredConn != conn {
		return
	}
	st.delivered = false
	tr := st.deliveredBy
	st.deliveredBy = nil
	if tr == nil {
		tr = t
	}
	tr.notifyUncomposed(ch, conn)
}
