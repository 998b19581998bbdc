// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tree provides the structural tree system underlying the
// scene element model, centered on the core [Node] interface.
package tree

// Node is an interface that all tree nodes satisfy. The core functionality
// of a tree node is defined on [NodeBase], and all higher-level tree types
// must embed it. This interface only contains the tree functionality that
// higher-level tree types may need to override. You can call [Node.AsTree]
// to get the [NodeBase] of a Node and access the core tree functionality.
// All values that implement [Node] are pointer values.
type Node interface {

	// AsTree returns the [NodeBase] of this Node. Most core
	// tree functionality is implemented on [NodeBase].
	AsTree() *NodeBase

	// Init is called when the node is first initialized.
	// It is called before the node is added to the tree, so it will
	// not have any parents or siblings. It will be called only once
	// in the lifetime of the node. It does nothing by default, but
	// it can be implemented by higher-level types.
	Init()

	// OnAdd is called when the node is added to a parent.
	// It will be called only once in the lifetime of the node,
	// unless the node is moved. It will not be called on root
	// nodes, as they are never added to a parent.
	// It does nothing by default.
	OnAdd()

	// Destroy recursively deletes and destroys the node and all of its
	// children. Node types can implement this to do additional necessary
	// destruction; if they do, they should call [NodeBase.Destroy] at
	// the end of their implementation.
	Destroy()

	// CopyFieldsFrom copies the fields of the node from the given node.
	// By default, it is [NodeBase.CopyFieldsFrom], which automatically
	// does a deep copy of all of the fields of the node that do not have
	// a `copier:"-"` struct tag. Node types should only implement a
	// custom CopyFieldsFrom method when they have fields that need
	// special copying logic.
	CopyFieldsFrom(from Node)
}
