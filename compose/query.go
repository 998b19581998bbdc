// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compose

import "github.com/sceneml/sceneml/dom"

// ComposedParent returns the element's parent in the flat tree, based
// on the current tracked state, or nil if it has none. A distribution
// edge wins over shadow-root parentage, which wins over structural
// derivation. Reading is side-effect free and idempotent.
func (c *Composer) ComposedParent(el *dom.Element) *dom.Element {
	if st := c.stateIfAny(el); st != nil {
		if st.distributedParent != nil {
			return st.distributedParent
		}
		if st.shadowParent != nil {
			return st.shadowParent
		}
	}
	switch p := el.Parent.(type) {
	case *dom.Element:
		if p.IsSlot() {
			// default content: composes through the slot's own
			// composed parent, but only while nothing is assigned
			if len(p.AssignedElements(false)) > 0 {
				return nil
			}
			return c.ComposedParent(p)
		}
		if p.Shadow() != nil {
			// light child of a boundary: composed only via
			// distribution, which the state above would have shown
			return nil
		}
		if p.IsNode || p.IsScene {
			return p
		}
		return nil
	case *dom.ShadowRoot:
		return p.Host()
	}
	return nil
}

// ComposedChildren returns the element's children in the flat tree, in
// composition order: distributed children first, then the shadow
// tree's or light tree's contribution. Only elements participating in
// composed-tree queries (IsNode) are reported. Reading is
// side-effect free and idempotent.
func (c *Composer) ComposedChildren(el *dom.Element) []*dom.Element {
	st := c.stateIfAny(el)
	var out []*dom.Element
	if st != nil {
		out = append(out, st.distributedChildren...)
	}
	if sr := el.Shadow(); sr != nil && !el.IsScene {
		// a boundary's flat-tree children come from its shadow tree;
		// light children appear only via the distribution edges above
		for _, ch := range sr.ChildElements() {
			if ch.IsNode {
				out = append(out, ch)
			}
		}
		return out
	}
	if el.IsSlot() && len(el.AssignedElements(false)) > 0 {
		// assigned content suppresses default content
		return out
	}
	for _, ch := range el.ChildElements() {
		if !ch.IsNode {
			continue
		}
		if cst := c.stateIfAny(ch); cst != nil && (cst.distributedParent != nil || cst.shadowParent != nil) {
			continue
		}
		out = append(out, ch)
	}
	return out
}
