// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/jinzhu/copier"
)

// NodeBase implements the [Node] interface and provides the core tree
// functionality. You must use NodeBase as an embedded struct in all
// higher-level tree types.
//
// All nodes must be properly initialized by using [InitNode], [New],
// or one of the child-adding methods on an initialized parent, which
// ensures that the [NodeBase.This] field is set correctly and the
// [Node.Init] method is called.
type NodeBase struct {

	// Name is the name of this node, which is typically unique relative
	// to other children of the same parent. It can be used for finding
	// nodes by path. If not otherwise set, it defaults to the lowercase
	// type name of the node combined with the total number of children
	// that have ever been added to the node's parent.
	Name string `copier:"-"`

	// This is the value of this Node as its true underlying type. This
	// allows methods defined on base types to call methods defined on
	// higher-level types. It is set to nil when the node is destroyed.
	This Node `copier:"-"`

	// Parent is the parent of this node, which is set automatically when
	// this node is added as a child of a parent. To change the parent of
	// a node, use [MoveToParent]; you should typically not set this field
	// directly. Nodes can only have one parent at a time.
	Parent Node `copier:"-"`

	// Children is the list of children of this node. All of them are set
	// to have this node as their parent. You should typically use the
	// NodeBase child helper functions to modify this list so that
	// everything is updated properly.
	Children []Node `copier:"-"`

	// Properties is a property map for arbitrary key-value properties.
	// The element layer stores attributes here. You should typically use
	// the [NodeBase.SetProperty], [NodeBase.Property], and
	// [NodeBase.DeleteProperty] methods for modifying and accessing
	// properties.
	Properties map[string]any `copier:"-"`

	// numLifetimeChildren is the number of children that have ever been
	// added to this node, which is used for automatic unique naming.
	numLifetimeChildren uint64

	// index is the last value of our index, which is used as a starting
	// point for finding us in our parent next time. It is not guaranteed
	// to be accurate; use the [NodeBase.IndexInParent] method.
	index int
}

// String implements the [fmt.Stringer] interface by returning the path
// of the node.
func (n *NodeBase) String() string {
	if n == nil || n.This == nil {
		return "nil"
	}
	return n.Path()
}

// AsTree returns the [NodeBase] for this Node.
func (n *NodeBase) AsTree() *NodeBase {
	return n
}

// SetName sets the name of this node.
func (n *NodeBase) SetName(name string) {
	n.Name = name
}

// NewInstance returns a new uninitialized instance of this node's
// underlying type.
func (n *NodeBase) NewInstance() Node {
	return reflect.New(reflect.TypeOf(n.This).Elem()).Interface().(Node)
}

// typeName returns the lowercase type name of this node's underlying
// type, used for automatic unique naming.
func (n *NodeBase) typeName() string {
	t := reflect.TypeOf(n.This).Elem().Name()
	return strings.ToLower(t)
}

// Parents:

// IndexInParent returns our index within our parent node. It caches the
// last value and uses that for an optimized search so subsequent calls
// are typically quite fast. Returns -1 if we don't have a parent.
func (n *NodeBase) IndexInParent() int {
	if n.Parent == nil {
		return -1
	}
	idx := IndexOf(n.Parent.AsTree().Children, n.This, n.index)
	n.index = idx
	return idx
}

// ParentByName finds the first parent recursively up the hierarchy that
// matches the given name. It returns nil if none is found.
func (n *NodeBase) ParentByName(name string) Node {
	if IsRoot(n) {
		return nil
	}
	if n.Parent.AsTree().Name == name {
		return n.Parent
	}
	return n.Parent.AsTree().ParentByName(name)
}

// Children:

// HasChildren returns whether this node has any children.
func (n *NodeBase) HasChildren() bool {
	return len(n.Children) > 0
}

// NumChildren returns the number of children this node has.
func (n *NodeBase) NumChildren() int {
	return len(n.Children)
}

// Child returns the child of this node at the given index and returns
// nil if the index is out of range.
func (n *NodeBase) Child(i int) Node {
	if i >= len(n.Children) || i < 0 {
		return nil
	}
	return n.Children[i]
}

// ChildByName returns the first child that has the given name, and nil
// if no such child is found. The optional startIndex allows for an
// optimized bidirectional search if you have an idea where it might be.
func (n *NodeBase) ChildByName(name string, startIndex ...int) Node {
	return n.Child(IndexByName(n.Children, name, startIndex...))
}

// Paths:

// EscapePathName returns a name that replaces any / with \\
func EscapePathName(name string) string {
	return strings.ReplaceAll(name, "/", `\\`)
}

// UnescapePathName returns a name that replaces any \\ with /
func UnescapePathName(name string) string {
	return strings.ReplaceAll(name, `\\`, "/")
}

// Path returns the path to this node from the tree root, using
// [NodeBase.Name]s separated by / delimiters. Any existing /
// characters in names are escaped to \\
func (n *NodeBase) Path() string {
	if n.Parent != nil {
		return n.Parent.AsTree().Path() + "/" + EscapePathName(n.Name)
	}
	return "/" + EscapePathName(n.Name)
}

// PathFrom returns the path to this node from the given parent node,
// excluding the name of the parent and the leading slash; for example,
// in the tree a/b/c/d/e, the result of d.PathFrom(b) would be c/d.
func (n *NodeBase) PathFrom(parent Node) string {
	if n.This == parent {
		return ""
	}
	// critical to get This
	parent = parent.AsTree().This
	if n.Parent == nil || n.Parent == parent {
		return EscapePathName(n.Name)
	}
	return n.Parent.AsTree().PathFrom(parent) + "/" + EscapePathName(n.Name)
}

// FindPath returns the node at the given path from this node.
// FindPath only works correctly when names are unique. The given path
// must be consistent with the format produced by [NodeBase.PathFrom].
// There is also support for index-based access ([0] for the first
// child). It returns nil if no node is found at the given path.
func (n *NodeBase) FindPath(path string) Node {
	cur := n.This
	parts := strings.Split(strings.Trim(strings.TrimSpace(path), "\""), "/")
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		idx := findPathChild(cur, UnescapePathName(p))
		if idx < 0 {
			return nil
		}
		cur = cur.AsTree().Children[idx]
	}
	return cur
}

// findPathChild finds the child with the given string representation
// in [NodeBase.FindPath].
func findPathChild(n Node, child string) int {
	if child[0] == '[' && child[len(child)-1] == ']' {
		idx, err := strconv.Atoi(child[1 : len(child)-1])
		if err != nil {
			return -1
		}
		if idx < 0 { // from end
			idx = len(n.AsTree().Children) + idx
		}
		return idx
	}
	return IndexByName(n.AsTree().Children, child)
}

// Adding and Inserting Children:

// AddChild adds the given child at the end of the children list.
// The child is assumed to not be on another tree (see [MoveToParent])
// and the existing name should be unique among children.
func (n *NodeBase) AddChild(kid Node) {
	InitNode(kid)
	n.Children = append(n.Children, kid)
	SetParent(kid, n)
}

// InsertChild adds the given child at the given position in the
// children list. The child is assumed to not be on another tree
// (see [MoveToParent]).
func (n *NodeBase) InsertChild(kid Node, index int) {
	InitNode(kid)
	n.Children = slices.Insert(n.Children, index, kid)
	SetParent(kid, n)
}

// Removing and Deleting Children:

// RemoveChild removes the given child from the children list without
// destroying it, clearing its parent so that it can be added to
// another tree. It returns false if it cannot find it.
// See [NodeBase.DeleteChild] for a version that also destroys.
func (n *NodeBase) RemoveChild(child Node) bool {
	if child == nil {
		return false
	}
	idx := IndexOf(n.Children, child)
	if idx < 0 {
		return false
	}
	n.Children = slices.Delete(n.Children, idx, idx+1)
	child.AsTree().Parent = nil
	return true
}

// DeleteChildAt deletes the child at the given index and destroys it.
// It returns false if there is no child at the given index.
func (n *NodeBase) DeleteChildAt(index int) bool {
	child := n.Child(index)
	if child == nil {
		return false
	}
	n.Children = slices.Delete(n.Children, index, index+1)
	child.Destroy()
	return true
}

// DeleteChild deletes the given child node and destroys it,
// returning false if it cannot find it.
func (n *NodeBase) DeleteChild(child Node) bool {
	if child == nil {
		return false
	}
	idx := IndexOf(n.Children, child)
	if idx < 0 {
		return false
	}
	return n.DeleteChildAt(idx)
}

// DeleteChildren deletes all children nodes.
func (n *NodeBase) DeleteChildren() {
	kids := n.Children
	n.Children = n.Children[:0] // preserves capacity
	for _, kid := range kids {
		if kid == nil {
			continue
		}
		kid.Destroy()
	}
}

// Delete deletes this node from its parent's children list
// and then destroys itself.
func (n *NodeBase) Delete() {
	if n.Parent == nil {
		n.This.Destroy()
	} else {
		n.Parent.AsTree().DeleteChild(n.This)
	}
}

// Destroy recursively deletes and destroys the node and all of
// its children.
func (n *NodeBase) Destroy() {
	if n.This == nil { // already destroyed
		return
	}
	n.DeleteChildren()
	n.This = nil
}

// Property Storage:

// SetProperty sets the given property to the given value.
func (n *NodeBase) SetProperty(key string, value any) {
	if n.Properties == nil {
		n.Properties = map[string]any{}
	}
	n.Properties[key] = value
}

// Property returns the property value for the given key.
// It returns nil if it doesn't exist.
func (n *NodeBase) Property(key string) any {
	return n.Properties[key]
}

// DeleteProperty deletes the property with the given key.
func (n *NodeBase) DeleteProperty(key string) {
	if n.Properties == nil {
		return
	}
	delete(n.Properties, key)
}

// Tree Walking:

const (
	// Continue = true can be returned from tree iteration functions
	// to continue processing down the tree, as compared to
	// Break = false which stops this branch.
	Continue = true

	// Break = false can be returned from tree iteration functions
	// to stop processing this branch of the tree.
	Break = false
)

// WalkUp calls the given function on the node and all of its parents,
// sequentially in the current goroutine. It stops walking if the
// function returns [Break] and keeps walking if it returns [Continue].
// It returns whether walking was finished (false if it was aborted
// with [Break]).
func (n *NodeBase) WalkUp(fun func(n Node) bool) bool {
	cur := n.This
	for {
		if !fun(cur) {
			return false
		}
		parent := cur.AsTree().Parent
		if parent == nil || parent == cur { // prevent loops
			return true
		}
		cur = parent
	}
}

// WalkUpParent calls the given function on all of the node's parents
// (but not the node itself). It stops walking if the function returns
// [Break]. It returns whether walking was finished.
func (n *NodeBase) WalkUpParent(fun func(n Node) bool) bool {
	if IsRoot(n) {
		return true
	}
	return n.Parent.AsTree().WalkUp(fun)
}

// WalkDown calls the given function on the node and all of its
// children in a depth-first manner, sequentially in the current
// goroutine. It stops walking the current branch of the tree if the
// function returns [Break] and keeps walking if it returns [Continue].
// The function can safely destroy the node it is called on.
func (n *NodeBase) WalkDown(fun func(n Node) bool) {
	if n.This == nil {
		return
	}
	walkDown(n.This, fun)
}

func walkDown(cur Node, fun func(n Node) bool) {
	cb := cur.AsTree()
	// fun can destroy the node, so check This before and after
	if cb.This == nil || !fun(cur) || cb.This == nil {
		return
	}
	// iterate over a snapshot so mutation during the walk is safe
	kids := slices.Clone(cb.Children)
	for _, kid := range kids {
		if kid != nil && kid.AsTree().This != nil {
			walkDown(kid.AsTree().This, fun)
		}
	}
}

// Deep Copy:

// CopyFrom copies the data and children of the given node to this node.
// Only copying to the same type is supported. The struct field tag
// copier:"-" can be added for any fields that should not be copied.
// Also, unexported fields are not copied.
func (n *NodeBase) CopyFrom(from Node) {
	if from == nil {
		slog.Error("tree.NodeBase.CopyFrom: nil source", "destinationNode", n)
		return
	}
	copyFrom(n.This, from)
}

// copyFrom is the implementation of [NodeBase.CopyFrom].
func copyFrom(to, from Node) {
	tot := to.AsTree()
	fromt := from.AsTree()
	tot.This.CopyFieldsFrom(from)
	if fromt.Properties != nil {
		if tot.Properties == nil {
			tot.Properties = map[string]any{}
		}
		maps.Copy(tot.Properties, fromt.Properties)
	}
	tot.DeleteChildren()
	for _, fk := range fromt.Children {
		if fk == nil {
			continue
		}
		fkt := fk.AsTree()
		nk := fkt.NewInstance()
		InitNode(nk)
		nk.AsTree().SetName(fkt.Name)
		tot.AddChild(nk)
		copyFrom(nk, fk)
	}
}

// Clone creates and returns a deep copy of the tree from this node down.
// Any pointers within the cloned tree will correctly point within the
// new cloned tree (see [NodeBase.CopyFrom] for more information).
func (n *NodeBase) Clone() Node {
	nc := n.NewInstance()
	InitNode(nc)
	nc.AsTree().SetName(n.Name)
	nc.AsTree().CopyFrom(n.This)
	return nc
}

// CopyFieldsFrom implements [Node.CopyFieldsFrom] using
// [copier.CopyWithOption] with deep copy, honoring copier:"-" tags.
func (n *NodeBase) CopyFieldsFrom(from Node) {
	err := copier.CopyWithOption(n.This, from.AsTree().This, copier.Option{CaseSensitive: true, DeepCopy: true})
	if err != nil {
		slog.Error("tree.NodeBase.CopyFieldsFrom", "err", err)
	}
}

// Event methods:

// Init is a placeholder implementation of [Node.Init]
// that does nothing.
func (n *NodeBase) Init() {}

// OnAdd is a placeholder implementation of [Node.OnAdd]
// that does nothing.
func (n *NodeBase) OnAdd() {}
