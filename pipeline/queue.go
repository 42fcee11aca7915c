// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

// ring is a bounded FIFO queue. It never grows.
type ring[T any] struct {
	items []T
	head  int
	n     int
}

func newRing[T any](capacity int) ring[T] {
	return ring[T]{items: make([]T, capacity)}
}

// push appends x. It returns ErrQueueFull without modifying the queue if
// the queue is full.
func (q *ring[T]) push(x T) error {
	if q.n == len(q.items) {
		return ErrQueueFull
	}
	q.items[(q.head+q.n)%len(q.items)] = x
	q.n++
	return nil
}

// pull removes the oldest item. It panics if the queue is empty.
func (q *ring[T]) pull() T {
	if q.n == 0 {
		panic("pipeline: pull from empty queue")
	}
	var zero T
	x := q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.n--
	return x
}

func (q *ring[T]) len() int { return q.n }

func (q *ring[T]) cap() int { return len(q.items) }
