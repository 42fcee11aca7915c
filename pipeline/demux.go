// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import "github.com/ulikunitz/dvz/op"

// NumStreams is the number of streams supported by the Demuxer. Only
// stream 0 carries data; stream 1 is always empty.
const NumStreams = 2

// Demuxer presents the data queue of a worker as byte streams. Ranges
// that have been read completely are pushed back to the main side as
// ProcessedData. It forwards the other worker operations.
type Demuxer struct {
	w   WorkerToMain
	cur [NumStreams]Range
	eof bool

	// recycled holds a drained range that couldn't be pushed back
	recycled    Range
	hasRecycled bool
}

// NewDemuxer creates a demuxer for the worker side w.
func NewDemuxer(w WorkerToMain) *Demuxer {
	return &Demuxer{w: w}
}

func checkStream(id int) {
	if !(0 <= id && id < NumStreams) {
		panic("pipeline: stream id out of range")
	}
}

// refill pulls the next data item if the stream is empty and data is
// available.
func (d *Demuxer) refill(id int) {
	if id != 0 || d.eof || d.cur[0].Len() > 0 || d.w.DataReady() == 0 {
		return
	}
	if !d.cur[0].IsZero() {
		if !d.recycle(d.cur[0]) {
			return
		}
		d.cur[0] = Range{}
	}
	switch x := d.w.PullData().(type) {
	case Data:
		d.cur[0] = x.Range
	case EOF:
		d.eof = true
	}
}

// FlushRecycled pushes a held drained range back. It returns false if
// the result queue is still full.
func (d *Demuxer) FlushRecycled() bool {
	if !d.hasRecycled {
		return true
	}
	s, _ := d.w.PushCommand(ProcessedData{d.recycled})
	if s != op.ResultSuccess {
		return false
	}
	d.recycled = Range{}
	d.hasRecycled = false
	return true
}

// recycle pushes r back as ProcessedData or holds it if the result queue
// is full. Only one range can be held; a further drained range is held
// by the stream until FlushRecycled succeeds.
func (d *Demuxer) recycle(r Range) bool {
	if !d.FlushRecycled() {
		return false
	}
	s, _ := d.w.PushCommand(ProcessedData{r})
	if s != op.ResultSuccess {
		d.recycled = r
		d.hasRecycled = true
	}
	return true
}

// Peek returns the buffered bytes of the stream without consuming them.
func (d *Demuxer) Peek(id int) []byte {
	checkStream(id)
	d.refill(id)
	return d.cur[id].Bytes()
}

// Pop moves the range held for the stream to the caller. The caller
// becomes responsible for pushing it back.
func (d *Demuxer) Pop(id int) Range {
	checkStream(id)
	d.refill(id)
	r := d.cur[id]
	d.cur[id] = Range{}
	return r
}

// Consume marks n bytes of the stream as read. A range read completely is
// pushed back as ProcessedData.
func (d *Demuxer) Consume(id int, n int) {
	checkStream(id)
	d.cur[id].Advance(n)
	if d.cur[id].Len() > 0 || d.cur[id].IsZero() {
		return
	}
	if d.recycle(d.cur[id]) {
		d.cur[id] = Range{}
	}
}

// DataReady returns the number of bytes available for the stream.
func (d *Demuxer) DataReady(id int) int {
	checkStream(id)
	d.refill(id)
	return d.cur[id].Len()
}

// EncounteredEOF reports whether the end of the data has been reached and
// all data has been consumed.
func (d *Demuxer) EncounteredEOF() bool {
	return d.eof && d.cur[0].Len() == 0
}

// ReadBuffer returns the buffered bytes of all streams.
func (d *Demuxer) ReadBuffer() [NumStreams][]byte {
	var b [NumStreams][]byte
	for i := range b {
		b[i] = d.cur[i].Bytes()
	}
	return b
}

// Free returns all ranges held by the demuxer. The ranges that could not
// be pushed back are returned to the caller.
func (d *Demuxer) Free() []Range {
	var rs []Range
	if d.hasRecycled {
		if !d.FlushRecycled() {
			rs = append(rs, d.recycled)
			d.recycled = Range{}
			d.hasRecycled = false
		}
	}
	for i, r := range d.cur {
		if r.IsZero() {
			continue
		}
		d.cur[i] = Range{}
		if s, _ := d.w.PushCommand(ProcessedData{r}); s != op.ResultSuccess {
			rs = append(rs, r)
		}
	}
	return rs
}

// PushCommand pushes a held drained range first and then the result.
func (d *Demuxer) PushCommand(r CommandResult) (op.Status, op.Command) {
	if !d.FlushRecycled() {
		if c, ok := r.(Cmd); ok {
			return op.NeedsMoreOutput, c.Command
		}
		return op.NeedsMoreOutput, nil
	}
	return d.w.PushCommand(r)
}

// PullContextMap forwards to the worker.
func (d *Demuxer) PullContextMap() op.ContextMap { return d.w.PullContextMap() }

// ContextMapsReady forwards to the worker.
func (d *Demuxer) ContextMapsReady() int { return d.w.ContextMapsReady() }

// AllocLiteral forwards to the worker.
func (d *Demuxer) AllocLiteral(n int) op.Literal { return d.w.AllocLiteral(n) }
