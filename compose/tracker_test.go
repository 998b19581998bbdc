// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compose_test

import (
	"testing"

	"github.com/sceneml/sceneml/compose"
	"github.com/sceneml/sceneml/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// events records composed / uncomposed notifications as readable
// strings: "+name:conn" and "-name:conn".
type events struct {
	list []string
}

func (e *events) ChildComposed(ch *dom.Element, conn compose.Connection) {
	e.list = append(e.list, "+"+ch.Name+":"+conn.String())
}

func (e *events) ChildUncomposed(ch *dom.Element, conn compose.Connection) {
	e.list = append(e.list, "-"+ch.Name+":"+conn.String())
}

func (e *events) take() []string {
	l := e.list
	e.list = nil
	return l
}

func newComposer() (*dom.Document, *compose.Composer, *events) {
	doc := dom.NewDocument()
	return doc, compose.New(doc), &events{}
}

func TestStructuralCompose(t *testing.T) {
	doc, comp, rec := newComposer()
	parent := doc.CreateElement("group")
	parent.IsNode = true
	child := doc.CreateElement("box")
	child.IsNode = true
	comp.Track(parent, rec)
	parent.AppendChild(child)
	doc.Flush()
	assert.Equal(t, []string{"+box-1:actual"}, rec.take())
	assert.Equal(t, parent, comp.ComposedParent(child))
	assert.Equal(t, []*dom.Element{child}, comp.ComposedChildren(parent))

	parent.RemoveChild(child)
	doc.Flush()
	assert.Equal(t, []string{"-box-1:actual"}, rec.take())
	assert.Nil(t, comp.ComposedParent(child))
	assert.Empty(t, comp.ComposedChildren(parent))
}

func TestTrackExistingChildren(t *testing.T) {
	doc, comp, rec := newComposer()
	parent := doc.CreateElement("group")
	parent.IsNode = true
	child := doc.CreateElement("box")
	child.IsNode = true
	parent.AppendChild(child)
	doc.Flush()

	comp.Track(parent, rec)
	doc.Flush()
	assert.Equal(t, []string{"+box-1:actual"}, rec.take())
}

func TestUntrackStopsDelivery(t *testing.T) {
	doc, comp, rec := newComposer()
	parent := doc.CreateElement("group")
	parent.IsNode = true
	child := doc.CreateElement("box")
	child.IsNode = true
	comp.Track(parent, rec)
	parent.AppendChild(child)
	comp.Untrack(parent)
	doc.Flush()
	assert.Empty(t, rec.take())
	assert.Nil(t, comp.TrackerFor(parent))
}

func TestNetEffectRemoveAdd(t *testing.T) {
	doc, comp, rec := newComposer()
	parent := doc.CreateElement("group")
	parent.IsNode = true
	child := doc.CreateElement("box")
	child.IsNode = true
	comp.Track(parent, rec)
	parent.AppendChild(child)
	doc.Flush()
	rec.take()

	// removed and re-added within one tick: no net change, no churn
	parent.RemoveChild(child)
	parent.AppendChild(child)
	doc.Flush()
	assert.Empty(t, rec.take())
	assert.Equal(t, []*dom.Element{child}, comp.ComposedChildren(parent))

	// added and removed within one tick: never composed at all
	other := doc.CreateElement("box")
	other.IsNode = true
	parent.AppendChild(other)
	parent.RemoveChild(other)
	doc.Flush()
	assert.Empty(t, rec.take())
}

func TestShadowRootChild(t *testing.T) {
	doc, comp, rec := newComposer()
	host := doc.CreateElement("host")
	host.IsNode = true
	comp.Track(host, rec)
	sr, err := host.AttachShadow()
	require.NoError(t, err)
	inner := doc.CreateElement("box")
	inner.IsNode = true
	sr.AppendChild(inner)
	doc.Flush()
	assert.Equal(t, []string{"+box-1:root"}, rec.take())
	assert.Equal(t, host, comp.ComposedParent(inner))
	assert.Equal(t, []*dom.Element{inner}, comp.ComposedChildren(host))

	sr.RemoveChild(inner)
	doc.Flush()
	assert.Equal(t, []string{"-box-1:root"}, rec.take())
	assert.Nil(t, comp.ComposedParent(inner))
}

func TestSlotDistribution(t *testing.T) {
	doc, comp, rec := newComposer()
	host := doc.CreateElement("host")
	host.IsNode = true
	comp.Track(host, rec)
	sr, err := host.AttachShadow()
	require.NoError(t, err)
	s := doc.CreateSlot("")
	sr.AppendChild(s)
	child := doc.CreateElement("box")
	child.IsNode = true
	host.AppendChild(child)
	doc.Flush()
	assert.Equal(t, []string{"+slot-1:root", "+box-2:slot"}, rec.take())
	assert.Equal(t, s, child.AssignedSlot())
	assert.Equal(t, host, comp.ComposedParent(child))
	assert.Equal(t, []*dom.Element{child}, comp.ComposedChildren(host))

	host.RemoveChild(child)
	doc.Flush()
	assert.Equal(t, []string{"-box-2:slot"}, rec.take())
	assert.Nil(t, comp.ComposedParent(child))
	assert.Empty(t, comp.ComposedChildren(host))
}

func TestReslotExactlyOnce(t *testing.T) {
	doc, comp, rec := newComposer()
	host := doc.CreateElement("host")
	host.IsNode = true
	comp.Track(host, rec)
	sr, err := host.AttachShadow()
	require.NoError(t, err)
	s1 := doc.CreateSlot("")
	s2 := doc.CreateSlot("side")
	sr.AppendChild(s1)
	sr.AppendChild(s2)
	child := doc.CreateElement("box")
	child.IsNode = true
	host.AppendChild(child)
	doc.Flush()
	assert.Equal(t, []string{"+slot-1:root", "+slot-2:root", "+box-3:slot"}, rec.take())

	// moving between slots of the same boundary delivers exactly one
	// uncomposed and one composed, in that order
	child.SetAttribute("slot", "side")
	doc.Flush()
	assert.Equal(t, []string{"-box-3:slot", "+box-3:slot"}, rec.take())
	assert.Equal(t, s2, child.AssignedSlot())
	assert.Equal(t, host, comp.ComposedParent(child))
	assert.Equal(t, []*dom.Element{child}, comp.ComposedChildren(host))
}

func TestReslotBetweenOwners(t *testing.T) {
	doc, comp, rec := newComposer()
	host := doc.CreateElement("host")
	host.IsNode = true
	comp.Track(host, rec)
	sr, err := host.AttachShadow()
	require.NoError(t, err)
	p1 := doc.CreateElement("panel")
	p1.IsNode = true
	sr.AppendChild(p1)
	s1 := doc.CreateSlot("")
	p1.AppendChild(s1)
	p2 := doc.CreateElement("panel")
	p2.IsNode = true
	sr.AppendChild(p2)
	s2 := doc.CreateSlot("side")
	p2.AppendChild(s2)
	child := doc.CreateElement("box")
	child.IsNode = true
	host.AppendChild(child)
	doc.Flush()
	assert.Equal(t, []string{"+panel-1:root", "+panel-3:root", "+box-5:slot"}, rec.take())
	assert.Equal(t, p1, comp.ComposedParent(child))
	assert.Equal(t, []*dom.Element{child}, comp.ComposedChildren(p1))
	assert.Empty(t, comp.ComposedChildren(p2))

	// moving between slots owned by different elements of the same
	// boundary: the old owner loses the child before the new one
	// gains it, never both at once
	child.SetAttribute("slot", "side")
	doc.Flush()
	assert.Equal(t, []string{"-box-5:slot", "+box-5:slot"}, rec.take())
	assert.Equal(t, p2, comp.ComposedParent(child))
	assert.Empty(t, comp.ComposedChildren(p1))
	assert.Equal(t, []*dom.Element{child}, comp.ComposedChildren(p2))
}

func TestBoundaryAttachAfterTrack(t *testing.T) {
	doc, comp, rec := newComposer()
	host := doc.CreateElement("host")
	host.IsNode = true
	child := doc.CreateElement("box")
	child.IsNode = true
	comp.Track(host, rec)
	host.AppendChild(child)
	doc.Flush()
	assert.Equal(t, []string{"+box-1:actual"}, rec.take())

	// attaching a shadow root turns the structural child into a
	// distribution candidate: uncomposed as actual, then composed as
	// slot once distribution resolves
	sr, err := host.AttachShadow()
	require.NoError(t, err)
	s := doc.CreateSlot("")
	sr.AppendChild(s)
	doc.Flush()
	assert.Equal(t, []string{"-box-1:actual", "+slot-2:root", "+box-1:slot"}, rec.take())
	assert.Equal(t, host, comp.ComposedParent(child))
}

func TestDeferredUpgrade(t *testing.T) {
	doc, comp, rec := newComposer()
	parent := doc.CreateElement("group")
	parent.IsNode = true
	child := doc.CreateElement("x-box")
	child.IsNode = true
	comp.Track(parent, rec)
	parent.AppendChild(child)
	doc.Flush()
	assert.Empty(t, rec.take())
	assert.False(t, child.Defined())

	require.NoError(t, doc.Registry().Define("x-box"))
	doc.Flush()
	assert.Equal(t, []string{"+x-box-1:actual"}, rec.take())
	assert.True(t, child.Defined())
}

func TestDeferredCancelOnRemoval(t *testing.T) {
	doc, comp, rec := newComposer()
	parent := doc.CreateElement("group")
	parent.IsNode = true
	child := doc.CreateElement("x-box")
	child.IsNode = true
	comp.Track(parent, rec)
	parent.AppendChild(child)
	doc.Flush()
	assert.Empty(t, rec.take())

	// the child leaves before its definition resolves: the deferred
	// composed callback is cancelled and no uncomposed fires either
	parent.RemoveChild(child)
	doc.Flush()
	require.NoError(t, doc.Registry().Define("x-box"))
	doc.Flush()
	assert.Empty(t, rec.take())
}

func TestDeferredReslot(t *testing.T) {
	doc, comp, rec := newComposer()
	host := doc.CreateElement("host")
	host.IsNode = true
	comp.Track(host, rec)
	sr, err := host.AttachShadow()
	require.NoError(t, err)
	s1 := doc.CreateSlot("")
	s2 := doc.CreateSlot("side")
	sr.AppendChild(s1)
	sr.AppendChild(s2)
	child := doc.CreateElement("x-box")
	child.IsNode = true
	host.AppendChild(child)
	doc.Flush()
	assert.Equal(t, []string{"+slot-1:root", "+slot-2:root"}, rec.take())

	// re-slotting while the definition is pending cancels the first
	// deferral quietly; only the final placement ever delivers
	child.SetAttribute("slot", "side")
	doc.Flush()
	assert.Empty(t, rec.take())

	require.NoError(t, doc.Registry().Define("x-box"))
	doc.Flush()
	assert.Equal(t, []string{"+x-box-3:slot"}, rec.take())
	assert.Equal(t, s2, child.AssignedSlot())
	assert.Equal(t, host, comp.ComposedParent(child))
}

func TestNestedSlotChain(t *testing.T) {
	doc := dom.NewDocument()
	comp := compose.New(doc)
	recO := &events{}
	recI := &events{}
	outer := doc.CreateElement("outer")
	outer.IsNode = true
	child := doc.CreateElement("box")
	child.IsNode = true
	inner := doc.CreateElement("inner")
	inner.IsNode = true

	comp.Track(outer, recO)
	outer.AppendChild(child)
	srO, err := outer.AttachShadow()
	require.NoError(t, err)
	srO.AppendChild(inner)
	srI, err := inner.AttachShadow()
	require.NoError(t, err)
	slotI := doc.CreateSlot("")
	srI.AppendChild(slotI)
	slotO := doc.CreateSlot("")
	inner.AppendChild(slotO)
	comp.Track(inner, recI)
	doc.Flush()

	// the outer slot is itself re-slotted into the inner boundary, so
	// the child's flattened distribution lands on the inner element
	assert.Equal(t, []string{"+inner-2:root"}, recO.take())
	assert.Equal(t, []string{"+slot-3:root", "+box-1:slot"}, recI.take())
	assert.Equal(t, inner, comp.ComposedParent(child))
	assert.Equal(t, []*dom.Element{child}, comp.ComposedChildren(inner))
	assert.Equal(t, outer, comp.ComposedParent(inner))
	assert.Equal(t, []*dom.Element{inner}, comp.ComposedChildren(outer))
	assert.Equal(t, slotO, child.AssignedSlot())
	assert.Equal(t, slotI, slotO.AssignedSlot())
}

func TestSceneDirectAssignment(t *testing.T) {
	doc, comp, rec := newComposer()
	scene := doc.CreateScene("scene")
	comp.Track(scene, rec)
	child := doc.CreateElement("box")
	child.IsNode = true
	scene.AppendChild(child)
	doc.Flush()
	assert.Equal(t, []string{"+slot-1:root", "+box-2:slot"}, rec.take())
	assert.Equal(t, scene, comp.ComposedParent(child))
	assert.Equal(t, []*dom.Element{child}, comp.ComposedChildren(scene))
}

func TestSlotRoundTripNoChurn(t *testing.T) {
	doc, comp, rec := newComposer()
	host := doc.CreateElement("host")
	host.IsNode = true
	comp.Track(host, rec)
	sr, err := host.AttachShadow()
	require.NoError(t, err)
	s := doc.CreateSlot("")
	sr.AppendChild(s)
	child := doc.CreateElement("box")
	child.IsNode = true
	host.AppendChild(child)
	doc.Flush()
	rec.take()

	// detached and re-appended within one tick: the slot resolves to
	// the same distribution, so nothing fires
	host.RemoveChild(child)
	host.AppendChild(child)
	doc.Flush()
	assert.Empty(t, rec.take())
	assert.Equal(t, host, comp.ComposedParent(child))
	assert.Equal(t, []*dom.Element{child}, comp.ComposedChildren(host))
}
