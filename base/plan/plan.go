// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plan provides an efficient mechanism for updating a slice
// to contain a target list of elements, generating minimal edits to
// make the current contents match the target. Elements are identified
// by unique name strings. Renderer collaborators use this to keep a
// display list in lockstep with the composed children of a node.
package plan

import (
	"log/slog"
	"slices"

	"github.com/sceneml/sceneml/base/slicesx"
)

// Namer is an interface that types implement to specify their name
// in a plan context.
type Namer interface {

	// PlanName returns the name of the object in a plan context.
	PlanName() string
}

// Update edits the given slice in place to contain the target list of
// n elements, specified by unique names. name returns the target name
// at each index; new is called to create a missing element for the
// given name and index; destroy, if non-nil, is called on each element
// removed from the slice. It returns whether any changes were made.
func Update[T Namer](s *[]T, n int, name func(i int) string, new func(name string, i int) T, destroy func(e T)) bool {
	names := make([]string, n)
	target := make(map[string]int, n)
	for i := range n {
		nm := name(i)
		names[i] = nm
		if _, has := target[nm]; has {
			slog.Error("plan.Update: duplicate name", "name", nm)
		}
		target[nm] = i
	}
	mods := false
	// remove what is not in the target, recording where survivors are
	where := make(map[string]int, n)
	for i := len(*s) - 1; i >= 0; i-- {
		nm := (*s)[i].PlanName()
		if _, ok := target[nm]; !ok {
			mods = true
			if destroy != nil {
				destroy((*s)[i])
			}
			*s = slices.Delete(*s, i, i+1)
			continue
		}
		where[nm] = i
	}
	// add and move into target order
	for i, nm := range names {
		ci := slicesx.Search(*s, func(e T) bool { return e.PlanName() == nm }, where[nm])
		switch {
		case ci < 0:
			mods = true
			*s = slices.Insert(*s, i, new(nm, i))
		case ci != i:
			mods = true
			*s = slicesx.Move(*s, ci, i)
		}
	}
	return mods
}
