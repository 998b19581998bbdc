// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type nameObj struct {
	name string
}

func (n *nameObj) PlanName() string {
	return n.name
}

func assertNames(t *testing.T, names []string, items []*nameObj) {
	t.Helper()
	if len(names) != len(items) {
		t.Fatal("lengths of lists are not the same:", len(names), len(items))
	}
	for i, nm := range names {
		inm := items[i].PlanName()
		if nm != inm {
			t.Error("item at index:", i, "name mismatch, should be:", nm, "was:", inm)
		}
	}
}

func TestUpdate(t *testing.T) {
	var s []*nameObj

	update := func(names []string) bool {
		return Update(&s, len(names),
			func(i int) string { return names[i] },
			func(name string, i int) *nameObj { return &nameObj{name: name} }, nil)
	}

	names1 := []string{"a", "b", "c"}
	assert.True(t, update(names1))
	assertNames(t, names1, s)

	names2 := []string{"a", "aa", "b", "c"}
	assert.True(t, update(names2))
	assertNames(t, names2, s)

	names3 := []string{"a", "aa", "bb", "c"}
	assert.True(t, update(names3))
	assertNames(t, names3, s)

	names4 := []string{"aa", "bb", "c"}
	assert.True(t, update(names4))
	assertNames(t, names4, s)

	assert.False(t, update(names4))
	assertNames(t, names4, s)
}

func TestUpdateDestroy(t *testing.T) {
	var s []*nameObj
	var destroyed []string

	update := func(names []string) {
		Update(&s, len(names),
			func(i int) string { return names[i] },
			func(name string, i int) *nameObj { return &nameObj{name: name} },
			func(e *nameObj) { destroyed = append(destroyed, e.name) })
	}

	update([]string{"a", "b", "c"})
	update([]string{"b"})
	assert.ElementsMatch(t, []string{"a", "c"}, destroyed)
	assertNames(t, []string{"b"}, s)
}
