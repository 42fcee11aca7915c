// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"github.com/ulikunitz/dvz/mem"
	"github.com/ulikunitz/dvz/op"
)

// ChannelWorker implements the pipeline queues with buffered channels, so
// that the main side and the worker side can run on different goroutines.
// The operations don't block. A side that cannot make progress waits for
// the channel returned by MainWake or WorkerWake.
type ChannelWorker struct {
	alloc   mem.Allocator
	data    chan ThreadData
	cms     chan op.ContextMap
	results chan CommandResult

	mainWake   chan struct{}
	workerWake chan struct{}
}

var (
	_ MainToWorker = (*ChannelWorker)(nil)
	_ WorkerToMain = (*ChannelWorker)(nil)
)

// NewChannelWorker creates a channel worker with the same queue capacities
// as the serial worker.
func NewChannelWorker(alloc mem.Allocator) *ChannelWorker {
	if alloc == nil {
		alloc = mem.HeapAllocator{}
	}
	return &ChannelWorker{
		alloc:      alloc,
		data:       make(chan ThreadData, DataQueueCap),
		cms:        make(chan op.ContextMap, ContextMapQueueCap),
		results:    make(chan CommandResult, ResultQueueCap),
		mainWake:   make(chan struct{}, 1),
		workerWake: make(chan struct{}, 1),
	}
}

func signal(c chan struct{}) {
	select {
	case c <- struct{}{}:
	default:
	}
}

// MainWake is signaled if the worker pushed a result or pulled data.
func (w *ChannelWorker) MainWake() <-chan struct{} { return w.mainWake }

// WorkerWake is signaled if the main side pushed data or a context map or
// pulled a result.
func (w *ChannelWorker) WorkerWake() <-chan struct{} { return w.workerWake }

func (w *ChannelWorker) pushData(x ThreadData) error {
	select {
	case w.data <- x:
		signal(w.workerWake)
		return nil
	default:
		return ErrQueueFull
	}
}

// Push moves the range into the data queue.
func (w *ChannelWorker) Push(r Range) error { return w.pushData(Data{r}) }

// PushEOF adds the end-of-data marker to the data queue.
func (w *ChannelWorker) PushEOF() error { return w.pushData(EOF{}) }

// PushContextMap adds the context map to its queue.
func (w *ChannelWorker) PushContextMap(cm op.ContextMap) error {
	select {
	case w.cms <- cm:
		signal(w.workerWake)
		return nil
	default:
		return ErrQueueFull
	}
}

// Pull returns the oldest result.
func (w *ChannelWorker) Pull() CommandResult {
	select {
	case r := <-w.results:
		signal(w.workerWake)
		return r
	default:
		panic("pipeline: pull from empty result queue")
	}
}

// ResultsReady returns the number of queued results.
func (w *ChannelWorker) ResultsReady() int { return len(w.results) }

// PullData returns the oldest data item.
func (w *ChannelWorker) PullData() ThreadData {
	select {
	case x := <-w.data:
		signal(w.mainWake)
		return x
	default:
		panic("pipeline: pull from empty data queue")
	}
}

// PullContextMap returns the oldest context map.
func (w *ChannelWorker) PullContextMap() op.ContextMap {
	select {
	case cm := <-w.cms:
		signal(w.mainWake)
		return cm
	default:
		panic("pipeline: pull from empty context map queue")
	}
}

// AllocLiteral allocates a literal of n bytes.
func (w *ChannelWorker) AllocLiteral(n int) op.Literal {
	return op.Literal{Data: w.alloc.Alloc(n)}
}

func (w *ChannelWorker) pushResult(r CommandResult) error {
	select {
	case w.results <- r:
		signal(w.mainWake)
		return nil
	default:
		return ErrQueueFull
	}
}

// PushCommand adds the result to the result queue.
func (w *ChannelWorker) PushCommand(r CommandResult) (op.Status,
	op.Command) {

	return pushResult(w.pushResult, r)
}

// DataReady returns the number of queued data items.
func (w *ChannelWorker) DataReady() int { return len(w.data) }

// ContextMapsReady returns the number of queued context maps.
func (w *ChannelWorker) ContextMapsReady() int { return len(w.cms) }
