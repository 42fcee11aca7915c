// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mem provides the allocator capability used by the dvz engine. All
// working buffers that cross component boundaries are acquired and released
// through an Allocator, so that drained buffers can be recycled instead of
// being left to the garbage collector.
package mem

import (
	"math/bits"
	"sync"
	"sync/atomic"
)

// Allocator acquires and releases byte buffers. Alloc returns a zeroed slice
// of length n. Free hands a buffer back; the caller must not use it
// afterwards.
type Allocator interface {
	Alloc(n int) []byte
	Free(p []byte)
}

// HeapAllocator allocates from the Go heap and ignores Free.
type HeapAllocator struct{}

// Alloc returns make([]byte, n).
func (HeapAllocator) Alloc(n int) []byte { return make([]byte, n) }

// Free does nothing.
func (HeapAllocator) Free(p []byte) {}

const (
	minClassBits = 6
	maxClassBits = 26
)

// PoolAllocator recycles buffers in power-of-two size classes. Buffers
// larger than 64 MiB are not pooled. It is safe for concurrent use.
type PoolAllocator struct {
	pools [maxClassBits - minClassBits + 1]sync.Pool

	allocs atomic.Int64
	reuses atomic.Int64
	frees  atomic.Int64
}

// NewPoolAllocator creates a new pooling allocator.
func NewPoolAllocator() *PoolAllocator {
	return new(PoolAllocator)
}

// class returns the size class for a buffer of n bytes.
func class(n int) int {
	if n <= 1<<minClassBits {
		return 0
	}
	return bits.Len(uint(n-1)) - minClassBits
}

// Alloc returns a zeroed buffer with length n.
func (a *PoolAllocator) Alloc(n int) []byte {
	if n < 0 {
		panic("mem: negative allocation size")
	}
	a.allocs.Add(1)
	c := class(n)
	if c >= len(a.pools) {
		return make([]byte, n)
	}
	if v := a.pools[c].Get(); v != nil {
		a.reuses.Add(1)
		p := (*(v.(*[]byte)))[:n]
		clear(p)
		return p
	}
	return make([]byte, n, 1<<(c+minClassBits))
}

// Free returns p to its size class. Buffers whose capacity is not a size
// class are dropped.
func (a *PoolAllocator) Free(p []byte) {
	n := cap(p)
	if n == 0 {
		return
	}
	a.frees.Add(1)
	c := class(n)
	if c >= len(a.pools) || n != 1<<(c+minClassBits) {
		return
	}
	p = p[:0]
	a.pools[c].Put(&p)
}

// Stats reports the allocator counters.
type Stats struct {
	Allocs int64
	Reuses int64
	Frees  int64
}

// Stats returns a snapshot of the counters.
func (a *PoolAllocator) Stats() Stats {
	return Stats{
		Allocs: a.allocs.Load(),
		Reuses: a.reuses.Load(),
		Frees:  a.frees.Load(),
	}
}
