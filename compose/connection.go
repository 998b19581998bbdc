// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compose

// Connection describes how a child is connected to its composed
// parent in the flat tree.
type Connection int32

const (
	// Actual means the composed parent is the structural parent:
	// a plain light-tree child under a non-boundary parent.
	Actual Connection = iota

	// Root means the child is a direct child of its composed
	// parent's shadow root.
	Root

	// Slot means the child is distributed to a slot owned by the
	// composed parent's composition boundary.
	Slot
)

func (c Connection) String() string {
	switch c {
	case Actual:
		return "actual"
	case Root:
		return "root"
	case Slot:
		return "slot"
	}
	return "invalid"
}
