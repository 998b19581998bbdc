// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"reflect"
	"strconv"
)

// admin.go has infrastructure code outside of the Node interface.

// InitNode initializes the node: it sets the node's [NodeBase.This]
// to the given value and calls [Node.Init] if it has not yet been
// initialized. It is idempotent.
func InitNode(this Node) {
	n := this.AsTree()
	if n.This != this {
		n.This = this
		this.Init()
	}
}

// New returns a new initialized node of the given type. If a parent is
// given, the node is added to it, with automatic unique naming.
func New[T Node](parent ...Node) T {
	n := reflect.New(reflect.TypeFor[T]().Elem()).Interface().(T)
	InitNode(n)
	if len(parent) > 0 && parent[0] != nil {
		parent[0].AsTree().AddChild(n)
	} else {
		nb := n.AsTree()
		nb.SetName(nb.typeName())
	}
	return n
}

// SetParent sets the parent of the given node to the given parent,
// which must be the NodeBase whose Children already contains the node.
// It gives the node an automatic unique name if it has none, and calls
// [Node.OnAdd] on it.
func SetParent(child Node, parent *NodeBase) {
	n := child.AsTree()
	n.Parent = parent.This
	parent.numLifetimeChildren++
	if n.Name == "" {
		n.SetName(n.typeName() + "-" + strconv.FormatUint(parent.numLifetimeChildren-1, 10))
	}
	child.OnAdd()
}

// MoveToParent removes the given node from its current parent
// and adds it as a child of the given new parent.
// The old and new parents can be in different trees (or not).
func MoveToParent(child Node, parent Node) {
	oldParent := child.AsTree().Parent
	if oldParent != nil {
		oldParent.AsTree().RemoveChild(child)
	}
	parent.AsTree().AddChild(child)
}

// IsRoot tests whether the given node is the root node in its tree.
func IsRoot(n *NodeBase) bool {
	return n.This == nil || n.Parent == nil || n.Parent.AsTree().This == nil
}

// Root returns the root node of the given node's tree.
func Root(n Node) Node {
	if IsRoot(n.AsTree()) {
		return n.AsTree().This
	}
	return Root(n.AsTree().Parent)
}
