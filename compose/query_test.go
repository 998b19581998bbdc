// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compose_test

import (
	"testing"

	"github.com/sceneml/sceneml/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultContent(t *testing.T) {
	doc, comp, rec := newComposer()
	host := doc.CreateElement("host")
	host.IsNode = true
	comp.Track(host, rec)
	sr, err := host.AttachShadow()
	require.NoError(t, err)
	s := doc.CreateSlot("")
	sr.AppendChild(s)
	def := doc.CreateElement("box")
	def.IsNode = true
	s.AppendChild(def)
	doc.Flush()
	rec.take()

	// nothing assigned: the default content composes through the slot
	assert.Equal(t, host, comp.ComposedParent(def))
	assert.Equal(t, []*dom.Element{def}, comp.ComposedChildren(s))

	// assigned content suppresses the default content
	child := doc.CreateElement("box")
	child.IsNode = true
	host.AppendChild(child)
	doc.Flush()
	assert.Equal(t, []string{"+box-3:slot"}, rec.take())
	assert.Nil(t, comp.ComposedParent(def))
	assert.Empty(t, comp.ComposedChildren(s))
	assert.Equal(t, host, comp.ComposedParent(child))

	// and reactivates when the assignment empties again
	host.RemoveChild(child)
	doc.Flush()
	assert.Equal(t, []string{"-box-3:slot"}, rec.take())
	assert.Equal(t, host, comp.ComposedParent(def))
	assert.Equal(t, []*dom.Element{def}, comp.ComposedChildren(s))
}

func TestComposedChildrenFiltersNonNodes(t *testing.T) {
	doc, comp, rec := newComposer()
	host := doc.CreateElement("host")
	host.IsNode = true
	comp.Track(host, rec)
	sr, err := host.AttachShadow()
	require.NoError(t, err)
	plain := doc.CreateElement("container")
	sr.AppendChild(plain)
	inner := doc.CreateElement("box")
	inner.IsNode = true
	sr.AppendChild(inner)
	doc.Flush()
	assert.Equal(t, []*dom.Element{inner}, comp.ComposedChildren(host))
}

func TestQueriesAreIdempotent(t *testing.T) {
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

	first := comp.ComposedChildren(host)
	second := comp.ComposedChildren(host)
	assert.Equal(t, first, second)
	assert.Equal(t, comp.ComposedParent(child), comp.ComposedParent(child))
	assert.Empty(t, rec.take())
}

func TestNonParticipantParent(t *testing.T) {
	doc, comp, _ := newComposer()
	plain := doc.CreateElement("container")
	child := doc.CreateElement("box")
	child.IsNode = true
	plain.AppendChild(child)
	// a structural parent without the participation marker degrades
	// to no composed parent rather than failing
	assert.Nil(t, comp.ComposedParent(child))
}

func TestComposedParentDetached(t *testing.T) {
	doc, comp, _ := newComposer()
	lone := doc.CreateElement("box")
	lone.IsNode = true
	assert.Nil(t, comp.ComposedParent(lone))
	assert.Empty(t, comp.ComposedChildren(lone))
}
