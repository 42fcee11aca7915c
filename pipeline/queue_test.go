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

func TestRingBackpressure(t *testing.T) {
	q := newRing[int](3)
	for i := 0; i < q.cap(); i++ {
		require.NoError(t, q.push(i))
		assert.Equal(t, i+1, q.len())
	}
	assert.ErrorIs(t, q.push(99), ErrQueueFull)
	assert.Equal(t, 3, q.len())
	for i := 0; i < 3; i++ {
		assert.Equal(t, i, q.pull())
	}
	assert.Panics(t, func() { q.pull() })
}

func TestRingWrapAround(t *testing.T) {
	q := newRing[int](2)
	for i := 0; i < 10; i++ {
		require.NoError(t, q.push(i))
		require.NoError(t, q.push(i+100))
		assert.Equal(t, i, q.pull())
		assert.Equal(t, i+100, q.pull())
	}
}

// queues returns the serial and the channel implementation.
func queues() map[string]interface {
	MainToWorker
	WorkerToMain
} {
	return map[string]interface {
		MainToWorker
		WorkerToMain
	}{
		"serial":  NewSerialWorker(nil),
		"channel": NewChannelWorker(nil),
	}
}

func TestDataBackpressureFIFO(t *testing.T) {
	for name, q := range queues() {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < DataQueueCap; i++ {
				r := NewRange([]byte{byte(i)}, 1)
				require.NoError(t, q.Push(r))
				assert.Equal(t, i+1, q.DataReady())
			}
			err := q.Push(NewRange([]byte{9}, 1))
			assert.ErrorIs(t, err, ErrQueueFull)
			assert.Equal(t, DataQueueCap, q.DataReady())
			assert.ErrorIs(t, q.PushEOF(), ErrQueueFull)
			for i := 0; i < DataQueueCap; i++ {
				d, ok := q.PullData().(Data)
				require.True(t, ok)
				assert.Equal(t, []byte{byte(i)}, d.Range.Bytes())
			}
			assert.Panics(t, func() { q.PullData() })
			require.NoError(t, q.PushEOF())
			assert.Equal(t, EOF{}, q.PullData())
		})
	}
}

func TestContextMapQueue(t *testing.T) {
	for name, q := range queues() {
		t.Run(name, func(t *testing.T) {
			var cms [ContextMapQueueCap]op.ContextMap
			for i := range cms {
				cms[i] = op.DefaultContextMap()
				cms[i].Distance[0] = byte(i + 1)
				require.NoError(t, q.PushContextMap(cms[i]))
			}
			assert.ErrorIs(t, q.PushContextMap(op.ContextMap{}),
				ErrQueueFull)
			assert.Equal(t, ContextMapQueueCap, q.ContextMapsReady())
			for i := range cms {
				assert.Equal(t, cms[i], q.PullContextMap())
			}
			assert.Panics(t, func() { q.PullContextMap() })
		})
	}
}

func TestResultQueue(t *testing.T) {
	for name, q := range queues() {
		t.Run(name, func(t *testing.T) {
			cmds := []op.Command{
				op.Copy{Distance: 1, Length: 2},
				op.Nop{},
				op.BlockSwitch{Type: 1},
			}
			for i, c := range cmds {
				s, rc := q.PushCommand(Cmd{c})
				require.Equal(t, op.ResultSuccess, s)
				assert.Nil(t, rc)
				assert.Equal(t, i+1, q.ResultsReady())
			}
			extra := op.Dict{Offset: 3, Length: 4}
			s, rc := q.PushCommand(Cmd{extra})
			assert.Equal(t, op.NeedsMoreOutput, s)
			assert.Equal(t, op.Command(extra), rc)
			assert.Equal(t, ResultQueueCap, q.ResultsReady())
			s, rc = q.PushCommand(EOF{})
			assert.Equal(t, op.NeedsMoreOutput, s)
			assert.Nil(t, rc)
			for _, c := range cmds {
				assert.Equal(t, Cmd{c}, q.Pull())
			}
			assert.Panics(t, func() { q.Pull() })
		})
	}
}

func TestAllocLiteral(t *testing.T) {
	for name, q := range queues() {
		t.Run(name, func(t *testing.T) {
			l := q.AllocLiteral(17)
			assert.Len(t, l.Data, 17)
			assert.Equal(t, make([]byte, 17), l.Data)
		})
	}
}
