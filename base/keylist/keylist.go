// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keylist implements an ordered list of values with a map
// from a key to the index of the value, supporting fast lookup by
// key while preserving a deterministic iteration order. It is used
// for bookkeeping that must iterate in insertion order, such as the
// per-slot previous-assignment snapshots in the composition tracker.
package keylist

import (
	"fmt"
	"slices"
)

// List is an ordered list of values with a map from a key to the
// index of each value. The zero value is usable without initialization.
type List[K comparable, V any] struct {

	// Keys is the ordered list of keys, in the same order as [List.Values].
	Keys []K

	// Values is the ordered list of values.
	Values []V

	// indexes is the key-to-index map.
	indexes map[K]int
}

// New returns a new [List].
func New[K comparable, V any]() *List[K, V] {
	return &List[K, V]{}
}

func (kl *List[K, V]) reindex() {
	kl.indexes = make(map[K]int, len(kl.Keys))
	for i, k := range kl.Keys {
		kl.indexes[k] = i
	}
}

// Reset removes all entries from the list.
func (kl *List[K, V]) Reset() {
	kl.Keys = nil
	kl.Values = nil
	kl.indexes = nil
}

// Set sets the given key to the given value, appending to the end of
// the list if the key is not already present, and replacing the
// existing value otherwise. This is the same semantics as a Go map.
func (kl *List[K, V]) Set(key K, val V) {
	if kl.indexes == nil {
		kl.reindex()
	}
	if i, ok := kl.indexes[key]; ok {
		kl.Values[i] = val
		return
	}
	kl.indexes[key] = len(kl.Keys)
	kl.Keys = append(kl.Keys, key)
	kl.Values = append(kl.Values, val)
}

// At returns the value for the given key, with a zero value returned
// for a missing key. See [List.AtTry] when the zero value is not
// diagnostic.
func (kl *List[K, V]) At(key K) V {
	if i, ok := kl.indexes[key]; ok {
		return kl.Values[i]
	}
	var zv V
	return zv
}

// AtTry returns the value for the given key, and whether the key
// is present.
func (kl *List[K, V]) AtTry(key K) (V, bool) {
	if i, ok := kl.indexes[key]; ok {
		return kl.Values[i], true
	}
	var zv V
	return zv, false
}

// IndexByKey returns the index of the given key, or -1 if missing.
func (kl *List[K, V]) IndexByKey(key K) int {
	if i, ok := kl.indexes[key]; ok {
		return i
	}
	return -1
}

// Len returns the number of entries in the list.
func (kl *List[K, V]) Len() int {
	if kl == nil {
		return 0
	}
	return len(kl.Values)
}

// DeleteByKey deletes the entry with the given key, returning false
// if it is not present. This regenerates the index map, so it is
// relatively slow; entry counts here are expected to be small.
func (kl *List[K, V]) DeleteByKey(key K) bool {
	i, ok := kl.indexes[key]
	if !ok {
		return false
	}
	kl.Keys = slices.Delete(kl.Keys, i, i+1)
	kl.Values = slices.Delete(kl.Values, i, i+1)
	kl.reindex()
	return true
}

// String returns a string representation of the list.
func (kl *List[K, V]) String() string {
	s := "{"
	for i, v := range kl.Values {
		s += fmt.Sprintf("%v: %v, ", kl.Keys[i], v)
	}
	return s + "}"
}
