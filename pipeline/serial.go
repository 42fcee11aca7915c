// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"github.com/ulikunitz/dvz/mem"
	"github.com/ulikunitz/dvz/op"
)

// SerialWorker implements both sides of the pipeline for use on a single
// goroutine. The queues have fixed capacities and never grow.
type SerialWorker struct {
	alloc   mem.Allocator
	data    ring[ThreadData]
	cms     ring[op.ContextMap]
	results ring[CommandResult]
}

var (
	_ MainToWorker = (*SerialWorker)(nil)
	_ WorkerToMain = (*SerialWorker)(nil)
)

// NewSerialWorker creates a serial worker. The allocator provides the
// literal buffers.
func NewSerialWorker(alloc mem.Allocator) *SerialWorker {
	if alloc == nil {
		alloc = mem.HeapAllocator{}
	}
	return &SerialWorker{
		alloc:   alloc,
		data:    newRing[ThreadData](DataQueueCap),
		cms:     newRing[op.ContextMap](ContextMapQueueCap),
		results: newRing[CommandResult](ResultQueueCap),
	}
}

// Push moves the range into the data queue.
func (w *SerialWorker) Push(r Range) error { return w.data.push(Data{r}) }

// PushContextMap adds the context map to its queue.
func (w *SerialWorker) PushContextMap(cm op.ContextMap) error {
	return w.cms.push(cm)
}

// PushEOF adds the end-of-data marker to the data queue.
func (w *SerialWorker) PushEOF() error { return w.data.push(EOF{}) }

// Pull returns the oldest result.
func (w *SerialWorker) Pull() CommandResult { return w.results.pull() }

// ResultsReady returns the number of queued results.
func (w *SerialWorker) ResultsReady() int { return w.results.len() }

// PullData returns the oldest data item.
func (w *SerialWorker) PullData() ThreadData { return w.data.pull() }

// PullContextMap returns the oldest context map.
func (w *SerialWorker) PullContextMap() op.ContextMap { return w.cms.pull() }

// AllocLiteral allocates a literal of n bytes.
func (w *SerialWorker) AllocLiteral(n int) op.Literal {
	return op.Literal{Data: w.alloc.Alloc(n)}
}

// PushCommand adds the result to the result queue.
func (w *SerialWorker) PushCommand(r CommandResult) (op.Status, op.Command) {
	return pushResult(w.results.push, r)
}

// DataReady returns the number of queued data items.
func (w *SerialWorker) DataReady() int { return w.data.len() }

// ContextMapsReady returns the number of queued context maps.
func (w *SerialWorker) ContextMapsReady() int { return w.cms.len() }
