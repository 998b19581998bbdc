// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"slices"

	"github.com/sceneml/sceneml/base/slicesx"
	"github.com/sceneml/sceneml/tree"
)

// AssignedElements returns the elements assigned to this slot, in
// slot-assignment order. With flatten, assigned slots are transitively
// replaced by their own assigned elements, resolving slot chains; the
// default content of nested slots is never included, since default
// content composes through the query layer rather than distribution.
// It returns nil for non-slot elements.
func (e *Element) AssignedElements(flatten bool) []*Element {
	if !e.IsSlot() {
		return nil
	}
	if !flatten {
		return slices.Clone(e.assigned)
	}
	return appendFlattened(e, nil)
}

func appendFlattened(s *Element, out []*Element) []*Element {
	for _, c := range s.assigned {
		if c.IsSlot() {
			out = appendFlattened(c, out)
		} else {
			out = append(out, c)
		}
	}
	return out
}

// slots returns the slot elements in the shadow root's subtree, in
// tree order, without crossing into nested shadow trees (which are
// not structural children and so are never walked into).
func (r *ShadowRoot) slots() []*Element {
	var out []*Element
	r.WalkDown(func(n tree.Node) bool {
		if el, ok := n.(*Element); ok && el.IsSlot() {
			out = append(out, el)
		}
		return tree.Continue
	})
	return out
}

// assign recomputes the slot assignment for the given host: each light
// element child of the host is assigned to the first slot in the
// host's shadow tree whose name matches the child's "slot" attribute.
// Slots whose directly assigned elements changed get a slotchange
// notification, which also propagates up slot chains, because the
// flattened assignment of the outer slot changed with it.
// It is a no-op for hosts without a shadow root.
func (d *Document) assign(host *Element) {
	if host.shadow == nil {
		return
	}
	slots := host.shadow.slots()
	byName := map[string]*Element{}
	inTree := map[*Element]bool{}
	for _, s := range slots {
		inTree[s] = true
		if _, has := byName[s.SlotName()]; !has {
			byName[s.SlotName()] = s
		}
	}
	// slots that left the shadow tree release their assignment
	stale := map[*Element]bool{}
	for _, c := range host.ChildElements() {
		if s := c.assignedSlot; s != nil && !inTree[s] {
			c.assignedSlot = nil
			stale[s] = true
		}
	}
	for s := range stale {
		s.assigned = slices.DeleteFunc(slices.Clone(s.assigned), func(c *Element) bool {
			return c.assignedSlot != s
		})
		d.noteSlotChange(s)
	}
	cur := map[*Element][]*Element{}
	for _, c := range host.ChildElements() {
		if s := byName[c.Attribute("slot")]; s != nil {
			cur[s] = append(cur[s], c)
		}
	}
	for _, s := range slots {
		old := s.assigned
		now := cur[s]
		if slices.Equal(old, now) {
			continue
		}
		for _, c := range old {
			if c.assignedSlot == s {
				c.assignedSlot = nil
			}
		}
		for _, c := range now {
			c.assignedSlot = s
		}
		s.assigned = now
		d.noteSlotChange(s)
	}
}

// noteSlotChange schedules slotchange delivery for the given slot and,
// transitively, for any slot the given slot is itself assigned to,
// whose flattened assignment has therefore also changed.
func (d *Document) noteSlotChange(s *Element) {
	for _, o := range d.slotObservers[s] {
		o.schedule()
	}
	if s.assignedSlot != nil {
		d.noteSlotChange(s.assignedSlot)
	}
}

// SlotObserver delivers slotchange notifications for one slot, after
// the structural mutation callbacks of the same tick. Create one with
// [Document.ObserveSlotChange].
type SlotObserver struct {
	doc       *Document
	slot      *Element
	fun       func(slot *Element)
	pending   bool
	connected bool
}

// ObserveSlotChange registers the given function to be called when the
// given slot's assignment changes (directly, or flattened through a
// slot chain). Delivery happens in the Final tier of the tick, after
// mutation observation.
func (d *Document) ObserveSlotChange(slot *Element, fun func(slot *Element)) *SlotObserver {
	o := &SlotObserver{doc: d, slot: slot, fun: fun, connected: true}
	d.slotObservers[slot] = append(d.slotObservers[slot], o)
	return o
}

// Disconnect stops the observer. Any queued notification is dropped,
// so no callback can act on stale state after disconnecting.
func (o *SlotObserver) Disconnect() {
	if !o.connected {
		return
	}
	o.connected = false
	obs := o.doc.slotObservers
	if list, _ := slicesx.Remove(obs[o.slot], o); len(list) == 0 {
		delete(obs, o.slot)
	} else {
		obs[o.slot] = list
	}
}

func (o *SlotObserver) schedule() {
	if o.pending {
		return
	}
	o.pending = true
	o.doc.tasks.PostFinal(func() {
		o.pending = false
		if o.connected {
			o.fun(o.slot)
		}
	})
}
