// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compose implements composed-tree tracking over the [dom]
// element tree: it observes structural mutations and slot-distribution
// changes on composition boundaries and translates them into ordered
// composed / uncomposed child notifications, while maintaining the
// state needed to answer flat-tree queries ([Composer.ComposedParent],
// [Composer.ComposedChildren]).
//
// All of this runs on the document's single-threaded tick model:
// mutations made between flushes are batched, net-effect filtered, and
// delivered during [dom.Document.Flush], with slot distribution
// resolving after structural mutation within the same tick.
package compose

import "github.com/sceneml/sceneml/dom"

// Receiver receives composed-tree change notifications for children of
// one tracked element. See [Composer.Track].
type Receiver interface {

	// ChildComposed is called when the given child becomes composed
	// into the tracked element, with the given connection type.
	ChildComposed(child *dom.Element, conn Connection)

	// ChildUncomposed is called when the given child ceases to be
	// composed into the tracked element. The connection type is the
	// one the matching ChildComposed was delivered with.
	ChildUncomposed(child *dom.Element, conn Connection)
}

// ReceiverFuncs adapts plain functions to the [Receiver] interface.
// Nil functions are skipped.
type ReceiverFuncs struct {
	Composed   func(child *dom.Element, conn Connection)
	Uncomposed func(child *dom.Element, conn Connection)
}

func (r ReceiverFuncs) ChildComposed(child *dom.Element, conn Connection) {
	if r.Composed != nil {
		r.Composed(child, conn)
	}
}

func (r ReceiverFuncs) ChildUncomposed(child *dom.Element, conn Connection) {
	if r.Uncomposed != nil {
		r.Uncomposed(child, conn)
	}
}

// mode is the composition lifecycle state of one element, as seen from
// the trackers observing it.
type mode int32

const (
	// unattached: not composed anywhere.
	unattached mode = iota

	// pendingDistribution: structural child of a tracked composition
	// boundary, awaiting slot distribution. No callbacks have fired.
	pendingDistribution

	// structuralChild: composed into its structural parent
	// (connection [Actual]).
	structuralChild

	// shadowRootChild: composed into a boundary's shadow root
	// (connection [Root]).
	shadowRootChild

	// distributedChild: distributed to a slot and composed into the
	// slot's owner (connection [Slot]).
	distributedChild
)

func (m mode) String() string {
	switch m {
	case unattached:
		return "unattached"
	case pendingDistribution:
		return "pendingDistribution"
	case structuralChild:
		return "structuralChild"
	case shadowRootChild:
		return "shadowRootChild"
	case distributedChild:
		return "distributedChild"
	}
	return "invalid"
}

// state is the per-element composition record. States live in the
// [Composer] arena, not on the elements, so the dom layer stays free
// of composition concerns.
type state struct {
	mode mode

	// distributedParent is the element this one is distributed into
	// via a slot, or nil. Mutually exclusive with shadowParent.
	distributedParent *dom.Element

	// distributedSlot is the slot whose resolution established the
	// current distribution edge.
	distributedSlot *dom.Element

	// shadowParent is the host whose shadow root this element is a
	// direct child of, or nil.
	shadowParent *dom.Element

	// distributedChildren is the reverse side of distributedParent:
	// the elements distributed into this one, in distribution order.
	distributedChildren []*dom.Element

	// delivered is whether a ChildComposed callback has fired and not
	// yet been balanced by ChildUncomposed.
	delivered bool

	// deliveredConn is the connection the delivery happened with.
	deliveredConn Connection

	// deliveredBy is the tracker that delivered, so the balancing
	// ChildUncomposed goes to the same receivers.
	deliveredBy *Tracker

	// pending is the in-flight deferred delivery for an element whose
	// definition has not resolved yet, or nil.
	pending *deferred
}

// deferred is a composed-callback delivery waiting on a custom-element
// definition. Invalidation sets cancelled instead of removing the
// registry waiter, and validity is re-checked when the waiter runs.
type deferred struct {
	conn      Connection
	cancelled bool
}

// Composer tracks composed-tree state for one document. Create one
// with [New] and register elements of interest with [Composer.Track].
// Like the document it observes, it is not safe for concurrent use.
type Composer struct {
	doc      *dom.Document
	states   map[*dom.Element]*state
	trackers map[*dom.Element]*Tracker
}

// New returns a [Composer] for the given document. It registers for
// shadow-attach notification so trackers adopt shadow roots attached
// after tracking begins.
func New(doc *dom.Document) *Composer {
	c := &Composer{
		doc:      doc,
		states:   map[*dom.Element]*state{},
		trackers: map[*dom.Element]*Tracker{},
	}
	doc.AddShadowListener(c.shadowAttached)
	return c
}

// Document returns the document this composer tracks.
func (c *Composer) Document() *dom.Document {
	return c.doc
}

func (c *Composer) shadowAttached(host *dom.Element, root *dom.ShadowRoot) {
	if t := c.trackers[host]; t != nil && t.active {
		t.adoptShadow(root)
	}
}

// stateFor returns the state record for the given element,
// creating it if needed.
func (c *Composer) stateFor(el *dom.Element) *state {
	st := c.states[el]
	if st == nil {
		st = &state{}
		c.states[el] = st
	}
	return st
}

// stateIfAny returns the state record for the given element,
// or nil if none exists.
func (c *Composer) stateIfAny(el *dom.Element) *state {
	return c.states[el]
}

// TrackerFor returns the tracker for the given element,
// or nil if it is not tracked.
func (c *Composer) TrackerFor(el *dom.Element) *Tracker {
	return c.trackers[el]
}
