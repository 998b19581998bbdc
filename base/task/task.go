// Copyright (c) 2026, The SceneML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package task provides a single-threaded cooperative task queue
// that models the host event loop's change-notification tick.
//
// Tasks are plain functions, held in a [tiered.Tiered] set of FIFO
// tiers. Within one [Queue.Flush] (one tick), First tier tasks run
// before Normal tier tasks, which run before Final tier tasks; tasks
// posted while flushing run within the same tick, and a Normal task
// posted during Final processing still runs before the remaining
// Final tasks. This gives a defined ordering for deferred work, such
// as slot-distribution continuations that must run after the
// structural mutation callbacks of the same tick.
package task

import "github.com/sceneml/sceneml/base/tiered"

// Queue is a FIFO task queue with three ordered tiers per tick.
// It is not safe for concurrent use; all posting and flushing must
// happen on the same goroutine, matching the single-threaded
// cooperative model of the scene toolkit.
type Queue struct {

	// pending holds the tiers of queued task functions.
	pending tiered.Tiered[[]func()]

	// flushing is whether a Flush is currently running,
	// which prevents reentrant flushes.
	flushing bool
}

// NewQueue returns a new [Queue]. The zero value is also usable.
func NewQueue() *Queue {
	return &Queue{}
}

// PostFirst adds a task to the First tier of the current tick.
func (q *Queue) PostFirst(f func()) {
	q.pending.First = append(q.pending.First, f)
}

// Post adds a task to the Normal tier of the current tick.
// Mutation-observation delivery uses this tier.
func (q *Queue) Post(f func()) {
	q.pending.Normal = append(q.pending.Normal, f)
}

// PostFinal adds a task to the Final tier of the current tick.
// Slot-distribution continuations use this tier so that they run
// after the structural mutation callbacks of the same tick.
func (q *Queue) PostFinal(f func()) {
	q.pending.Final = append(q.pending.Final, f)
}

// Empty returns whether there are no queued tasks in any tier.
func (q *Queue) Empty() bool {
	return len(q.pending.First) == 0 && len(q.pending.Normal) == 0 && len(q.pending.Final) == 0
}

// next removes and returns the next task to run, honoring tier order.
// It returns nil if all tiers are empty.
func (q *Queue) next() func() {
	var f func()
	q.pending.Do(func(tier *[]func()) {
		if f != nil || len(*tier) == 0 {
			return
		}
		f = (*tier)[0]
		*tier = (*tier)[1:]
	})
	return f
}

// Flush runs one tick: it runs queued tasks, including tasks posted
// while flushing, until all tiers are empty. A reentrant Flush call
// from within a task is a no-op; the outer Flush picks up any newly
// posted tasks.
func (q *Queue) Flush() {
	if q.flushing {
		return
	}
	q.flushing = true
	defer func() { q.flushing = false }()
	for {
		f := q.next()
		if f == nil {
			return
		}
		f()
	}
}
