// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tiered provides a type for a tiered set of objects,
// splitting a single logical collection into First, Normal, and
// Final tiers that are processed in that order.
package tiered

import "fmt"

// Tiered represents a tiered set of objects of the given type.
// For example, this is used in [base/task.Queue] to hold tiers
// of pending task functions, so that tasks posted to the Final
// tier always run after all Normal tier tasks within a tick.
type Tiered[T any] struct {

	// First is the first tier.
	First T

	// Normal is the normal tier.
	Normal T

	// Final is the final tier.
	Final T
}

// Do calls the given function on each tier, in order.
func (t *Tiered[T]) Do(fun func(tier *T)) {
	fun(&t.First)
	fun(&t.Normal)
	fun(&t.Final)
}

// DoWithName calls the given function on each tier, in order,
// with the name of the tier ("First", "Normal", or "Final").
func (t *Tiered[T]) DoWithName(fun func(tier *T, name string)) {
	fun(&t.First, "First")
	fun(&t.Normal, "Normal")
	fun(&t.Final, "Final")
}

func (t *Tiered[T]) String() string {
	return fmt.Sprintf("First: %v, Normal: %v, Final: %v", t.First, t.Normal, t.Final)
}
