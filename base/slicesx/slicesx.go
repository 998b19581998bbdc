// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package slicesx provides additional slice functions
// beyond those in the standard [slices] package.
package slicesx

import "slices"

// Search returns the index of the item in the given slice that matches
// according to the given match function, searching bidirectionally outward
// from the optional starting index. This is much faster than a linear scan
// when you have some idea about where the item might be. If no start index
// is given, it starts in the middle, which is a good default.
// It returns -1 if no matching item is found.
func Search[E any](s []E, match func(e E) bool, startIndex ...int) int {
	n := len(s)
	if n == 0 {
		return -1
	}
	start := n / 2
	if len(startIndex) > 0 && startIndex[0] >= 0 {
		start = min(startIndex[0], n-1)
	}
	for lo, hi := start, start+1; lo >= 0 || hi < n; lo, hi = lo-1, hi+1 {
		if lo >= 0 && match(s[lo]) {
			return lo
		}
		if hi < n && match(s[hi]) {
			return hi
		}
	}
	return -1
}

// Move moves the element in the given slice at the given
// old position to the given new position and returns the
// resulting slice.
func Move[E any](s []E, from, to int) []E {
	e := s[from]
	s = slices.Delete(s, from, from+1)
	s = slices.Insert(s, to, e)
	return s
}

// Swap swaps the elements at the given two indices in the given slice.
func Swap[E any](s []E, i, j int) {
	s[i], s[j] = s[j], s[i]
}

// SetLength sets the length of the given slice, reusing any existing
// capacity and preserving any existing values within the new length.
func SetLength[E any](s []E, n int) []E {
	if n <= cap(s) {
		return s[:n]
	}
	return append(s[:cap(s)], make([]E, n-cap(s))...)
}

// Remove removes the first occurrence of the given element from the
// slice, returning the resulting slice and whether it was found.
func Remove[E comparable](s []E, e E) ([]E, bool) {
	i := slices.Index(s, e)
	if i < 0 {
		return s, false
	}
	return slices.Delete(s, i, i+1), true
}
