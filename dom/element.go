// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"fmt"

	"github.com/sceneml/sceneml/base/errors"
	"github.com/sceneml/sceneml/tree"
)

// SlotTag is the tag of slot elements.
const SlotTag = "slot"

// Element is a node in the host tree. Elements are created with
// [Document.CreateElement] and placed with the child methods here and
// on [ShadowRoot]. An element can own at most one shadow root, making
// it a composition boundary: its structural children then become
// candidates for distribution into slots inside that shadow root.
type Element struct {
	tree.NodeBase

	// Tag is the element tag. Tags containing a dash denote custom
	// elements, which are subject to upgrade through the [Registry].
	Tag string `copier:"-"`

	// IsScene marks a scene root: its shadow root is reserved for the
	// rendering implementation and excluded from user-facing
	// distribution tracking.
	IsScene bool

	// IsNode marks the element as a participant in composed-tree
	// queries. Elements without it (plain containers, slots) are
	// not reported as composed children.
	IsNode bool

	// doc is the owning document.
	doc *Document

	// shadow is the shadow root owned by this element, if any.
	shadow *ShadowRoot

	// assignedSlot is the slot this element is currently assigned to.
	assignedSlot *Element

	// assigned is, for slot elements, the list of directly assigned
	// elements, in slot-assignment (host light tree) order.
	assigned []*Element
}

// Document returns the element's owning document.
func (e *Element) Document() *Document {
	return e.doc
}

// Attributes:

// SetAttribute sets the given attribute. The "slot" attribute selects
// which slot this element is assigned to under a shadow-host parent;
// the "name" attribute names a slot element. Both trigger
// reassignment of the affected host.
func (e *Element) SetAttribute(key, value string) {
	e.SetProperty(key, value)
	switch key {
	case "slot":
		if p := e.ParentElement(); p != nil && p.shadow != nil {
			e.doc.assign(p)
		}
	case "name":
		if e.IsSlot() {
			if sr := e.ContainingShadowRoot(); sr != nil {
				e.doc.assign(sr.Host())
			}
		}
	}
}

// Attribute returns the value of the given attribute,
// or "" if it is not set.
func (e *Element) Attribute(key string) string {
	v, _ := e.Property(key).(string)
	return v
}

// Relationships:

// ParentElement returns the structural parent if it is an element,
// and nil otherwise (detached, or a direct child of a shadow root).
func (e *Element) ParentElement() *Element {
	p, _ := e.Parent.(*Element)
	return p
}

// ParentShadowRoot returns the structural parent if it is a shadow
// root, and nil otherwise.
func (e *Element) ParentShadowRoot() *ShadowRoot {
	p, _ := e.Parent.(*ShadowRoot)
	return p
}

// ContainingShadowRoot returns the shadow root whose subtree contains
// this element, or nil if the element is not inside a shadow tree.
// It does not cross shadow boundaries: only the nearest root counts.
func (e *Element) ContainingShadowRoot() *ShadowRoot {
	var sr *ShadowRoot
	e.WalkUp(func(n tree.Node) bool {
		if r, ok := n.(*ShadowRoot); ok {
			sr = r
			return tree.Break
		}
		return tree.Continue
	})
	return sr
}

// ChildElements returns the structural children that are elements.
func (e *Element) ChildElements() []*Element {
	return childElements(e.Children)
}

func childElements(kids []tree.Node) []*Element {
	els := make([]*Element, 0, len(kids))
	for _, k := range kids {
		if el, ok := k.(*Element); ok {
			els = append(els, el)
		}
	}
	return els
}

// Shadow root:

// Shadow returns the shadow root owned by this element, or nil.
func (e *Element) Shadow() *ShadowRoot {
	return e.shadow
}

// AttachShadow creates and returns a shadow root owned by this
// element, making it a composition boundary. It returns an error if
// the element already has one, or if it is a scene root, whose shadow
// tree is reserved for the rendering implementation (see
// [Document.CreateScene]). Existing light children become candidates
// for distribution into slots inside the new root.
// Shadow-attach listeners are notified on the next tick.
func (e *Element) AttachShadow() (*ShadowRoot, error) {
	if e.IsScene {
		return nil, errors.Log(fmt.Errorf("dom: scene root %q owns its shadow tree; it cannot be replaced", e.Name))
	}
	return e.attachShadow()
}

func (e *Element) attachShadow() (*ShadowRoot, error) {
	if e.shadow != nil {
		return nil, errors.Log(fmt.Errorf("dom: element %q already has a shadow root", e.Name))
	}
	sr := tree.New[*ShadowRoot]()
	sr.SetName(e.Name + ".shadow")
	sr.host = e
	sr.doc = e.doc
	e.shadow = sr
	e.doc.assign(e)
	e.doc.tasks.Post(func() {
		for _, fun := range e.doc.shadowListeners {
			fun(e, sr)
		}
	})
	return sr, nil
}

// Custom elements:

// IsCustom returns whether this element has a custom tag
// (one containing a dash).
func (e *Element) IsCustom() bool {
	return IsCustomTag(e.Tag)
}

// Defined returns whether this element's definition is resolved:
// either it is not a custom element, or its tag has been defined
// in the document's registry.
func (e *Element) Defined() bool {
	return e.doc.registry.IsDefined(e.Tag)
}

// Structural mutation:

// AppendChild adds the given element at the end of the children list.
// If the element is currently placed elsewhere, it is removed from
// there first.
func (e *Element) AppendChild(c *Element) {
	e.InsertChildAt(c, len(e.Children))
}

// InsertChildAt adds the given element at the given position in the
// children list. If the element is currently placed elsewhere, it is
// removed from there first.
func (e *Element) InsertChildAt(c *Element, i int) {
	c.Detach()
	e.NodeBase.InsertChild(c, i)
	e.doc.childMutated(e.This, []*Element{c}, nil)
}

// RemoveChild removes the given element from the children list without
// destroying it. It returns false if it is not a child of this element.
func (e *Element) RemoveChild(c *Element) bool {
	if !e.NodeBase.RemoveChild(c) {
		return false
	}
	e.doc.childMutated(e.This, nil, []*Element{c})
	return true
}

// Detach removes this element from its structural container, if any.
func (e *Element) Detach() {
	switch p := e.Parent.(type) {
	case *Element:
		p.RemoveChild(e)
	case *ShadowRoot:
		p.RemoveChild(e)
	}
}

// Slots:

// IsSlot returns whether this element is a slot element.
func (e *Element) IsSlot() bool {
	return e.Tag == SlotTag
}

// SlotName returns, for slot elements, the name of the slot
// (the "name" attribute; "" for the default slot).
func (e *Element) SlotName() string {
	return e.Attribute("name")
}

// AssignedSlot returns the slot this element is currently assigned
// to, or nil if it is not assigned anywhere.
func (e *Element) AssignedSlot() *Element {
	return e.assignedSlot
}
