// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/dvz/op"
)

func TestDemuxerRecycling(t *testing.T) {
	w := NewSerialWorker(nil)
	buf := []byte("hello, world")
	require.NoError(t, w.Push(NewRange(buf, len(buf))))
	d := NewDemuxer(w)
	assert.Equal(t, len(buf), d.DataReady(0))
	assert.Equal(t, buf, d.Peek(0))
	d.Consume(0, 5)
	assert.Equal(t, 0, w.ResultsReady())
	assert.Equal(t, buf[5:], d.Peek(0))
	d.Consume(0, len(buf)-5)
	require.Equal(t, 1, w.ResultsReady())
	p, ok := w.Pull().(ProcessedData)
	require.True(t, ok)
	assert.Same(t, &buf[0], &p.Range.Buffer()[0])
	assert.Len(t, d.Peek(0), 0)
	assert.Equal(t, 0, w.ResultsReady())
}

func TestDemuxerRecyclingFullQueue(t *testing.T) {
	w := NewSerialWorker(nil)
	d := NewDemuxer(w)
	for i := 0; i < ResultQueueCap; i++ {
		s, _ := w.PushCommand(Cmd{op.Nop{}})
		require.Equal(t, op.ResultSuccess, s)
	}
	a := []byte("abc")
	b := []byte("defg")
	require.NoError(t, w.Push(NewRange(a, len(a))))
	require.NoError(t, w.Push(NewRange(b, len(b))))
	d.Consume(0, len(d.Peek(0)))
	assert.Len(t, d.Peek(0), 4, "second range available")

	// the held range must be pushed before the command
	s, c := d.PushCommand(Cmd{op.Nop{}})
	assert.Equal(t, op.NeedsMoreOutput, s)
	assert.Equal(t, op.Command(op.Nop{}), c)

	w.Pull()
	s, _ = d.PushCommand(Cmd{op.BlockSwitch{Type: 1}})
	assert.Equal(t, op.NeedsMoreOutput, s)
	w.Pull()
	w.Pull()
	s, _ = d.PushCommand(Cmd{op.BlockSwitch{Type: 1}})
	require.Equal(t, op.ResultSuccess, s)
	p, ok := w.Pull().(ProcessedData)
	require.True(t, ok)
	assert.Equal(t, a, p.Range.Buffer())
	assert.Equal(t, Cmd{op.BlockSwitch{Type: 1}}, w.Pull())
}

func TestDemuxerEOF(t *testing.T) {
	w := NewSerialWorker(nil)
	d := NewDemuxer(w)
	assert.False(t, d.EncounteredEOF())
	require.NoError(t, w.Push(NewRange([]byte("xy"), 2)))
	require.NoError(t, w.PushEOF())
	assert.Equal(t, 2, d.DataReady(0))
	assert.False(t, d.EncounteredEOF())
	d.Consume(0, 2)
	assert.Equal(t, 0, d.DataReady(0))
	assert.True(t, d.EncounteredEOF())
	assert.Equal(t, 0, d.DataReady(1))
}

func TestDemuxerPop(t *testing.T) {
	w := NewSerialWorker(nil)
	d := NewDemuxer(w)
	require.NoError(t, w.Push(NewRange([]byte("xyz"), 3)))
	r := d.Pop(0)
	assert.Equal(t, []byte("xyz"), r.Bytes())
	assert.True(t, d.Pop(1).IsZero())
	assert.Len(t, d.Peek(0), 0)
	assert.Empty(t, d.Free())
	assert.Equal(t, 0, w.ResultsReady())
	assert.Panics(t, func() { d.Peek(NumStreams) })
}

func TestDemuxerFree(t *testing.T) {
	w := NewSerialWorker(nil)
	d := NewDemuxer(w)
	require.NoError(t, w.Push(NewRange([]byte("xyz"), 3)))
	require.Len(t, d.Peek(0), 3)
	d.Consume(0, 1)
	b := d.ReadBuffer()
	assert.Equal(t, []byte("yz"), b[0])
	assert.Len(t, b[1], 0)
	assert.Empty(t, d.Free())
	_, ok := w.Pull().(ProcessedData)
	assert.True(t, ok)
}
