// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compose

import "github.com/sceneml/sceneml/dom"

// resolveAssigned computes the elements currently distributed through
// the given slot, as seen by the tracker of the boundary owning it.
//
// Scene boundaries take the direct assignment: a scene's shadow tree is
// implementation-owned, so its slots never chain into an outer tree and
// re-slotting does not apply. Ordinary boundaries take the flattened
// assignment, resolving nested slot chains to leaf elements; a slot
// that is itself assigned onward to a deeper slot contributes nothing
// here, because the deeper boundary's tracker owns those elements.
func resolveAssigned(s *dom.Element, scene bool) []*dom.Element {
	if scene {
		return s.AssignedElements(false)
	}
	if s.AssignedSlot() != nil {
		return nil
	}
	return s.AssignedElements(true)
}

// diffAssigned compares the previous and current resolution of one
// slot. Removed holds the elements of prev that are absent from cur;
// added holds the elements of cur that are absent from prev, each in
// their respective list order. A nil prev means the slot has no
// snapshot yet, so everything in cur is an addition.
func diffAssigned(prev, cur []*dom.Element) (removed, added []*dom.Element) {
	if prev == nil {
		return nil, cur
	}
	remaining := make([]*dom.Element, len(cur))
	copy(remaining, cur)
	for _, p := range prev {
		found := false
		for i, c := range remaining {
			if c == p {
				remaining[i] = remaining[len(remaining)-1]
				remaining = remaining[:len(remaining)-1]
				found = true
				break
			}
		}
		if !found {
			removed = append(removed, p)
		}
	}
	if len(remaining) == 0 {
		return removed, nil
	}
	// report additions in cur order, not removal-scan order
	left := map[*dom.Element]bool{}
	for _, c := range remaining {
		left[c] = true
	}
	for _, c := range cur {
		if left[c] {
			added = append(added, c)
			left[c] = false
		}
	}
	return removed, added
}
