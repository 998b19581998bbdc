// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import "github.com/sceneml/sceneml/tree"

// ShadowRoot is a separate tree hanging off a host element. It is not
// a child of its host: shadow-root children have the root itself as
// their structural parent, and tree walking never crosses from the
// light tree into a shadow tree. Create one with [Element.AttachShadow].
type ShadowRoot struct {
	tree.NodeBase

	// host is the element owning this shadow root.
	host *Element

	// doc is the owning document.
	doc *Document
}

// Host returns the element owning this shadow root.
func (r *ShadowRoot) Host() *Element {
	return r.host
}

// Document returns the shadow root's owning document.
func (r *ShadowRoot) Document() *Document {
	return r.doc
}

// ChildElements returns the direct children that are elements.
func (r *ShadowRoot) ChildElements() []*Element {
	return childElements(r.Children)
}

// AppendChild adds the given element at the end of the children list.
// If the element is currently placed elsewhere, it is removed from
// there first.
func (r *ShadowRoot) AppendChild(c *Element) {
	r.InsertChildAt(c, len(r.Children))
}

// InsertChildAt adds the given element at the given position in the
// children list. If the element is currently placed elsewhere, it is
// removed from there first.
func (r *ShadowRoot) InsertChildAt(c *Element, i int) {
	c.Detach()
	r.NodeBase.InsertChild(c, i)
	r.doc.childMutated(r.This, []*Element{c}, nil)
}

// RemoveChild removes the given element from the children list without
// destroying it. It returns false if it is not a child of this root.
func (r *ShadowRoot) RemoveChild(c *Element) bool {
	if !r.NodeBase.RemoveChild(c) {
		return false
	}
	r.doc.childMutated(r.This, nil, []*Element{c})
	return true
}
