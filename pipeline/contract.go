// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"errors"

	"github.com/ulikunitz/dvz/op"
)

// ErrQueueFull is returned by a push into a full queue.
var ErrQueueFull = errors.New("pipeline: queue full")

// Queue capacities
const (
	DataQueueCap       = 2
	ContextMapQueueCap = 2
	ResultQueueCap     = 3
)

// MainToWorker is the interface used by the main side.
type MainToWorker interface {
	// Push moves the range to the worker. It returns ErrQueueFull
	// if the data queue is full; the caller keeps the range then.
	Push(r Range) error
	// PushContextMap provides the context map for the next block.
	PushContextMap(cm op.ContextMap) error
	// PushEOF marks the end of the data.
	PushEOF() error
	// Pull returns the oldest result. It must only be called if
	// ResultsReady returns a positive value.
	Pull() CommandResult
	// ResultsReady returns the number of results in the queue.
	ResultsReady() int
}

// WorkerToMain is the interface used by the worker side.
type WorkerToMain interface {
	// PullData returns the oldest data item. It must only be called
	// if DataReady returns a positive value.
	PullData() ThreadData
	// PullContextMap returns the oldest context map. It must only be
	// called if ContextMapsReady returns a positive value.
	PullContextMap() op.ContextMap
	// AllocLiteral returns a literal with a zeroed buffer of n bytes.
	AllocLiteral(n int) op.Literal
	// PushCommand pushes a result. If the result queue is full
	// NeedsMoreOutput is returned together with the command of a Cmd
	// result, which must be pushed again later.
	PushCommand(r CommandResult) (op.Status, op.Command)
	// DataReady returns the number of data items in the queue.
	DataReady() int
	// ContextMapsReady returns the number of context maps in the
	// queue.
	ContextMapsReady() int
}

// pushResult implements the PushCommand semantics for a push function.
func pushResult(push func(CommandResult) error,
	r CommandResult) (op.Status, op.Command) {

	if err := push(r); err != nil {
		if c, ok := r.(Cmd); ok {
			return op.NeedsMoreOutput, c.Command
		}
		return op.NeedsMoreOutput, nil
	}
	return op.ResultSuccess, nil
}
