// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"

	"github.com/kr/pretty"
	"github.com/ulikunitz/dvz/mem"
	"github.com/ulikunitz/dvz/op"
	"github.com/ulikunitz/dvz/rc"
	"github.com/ulikunitz/dvz/xlog"
)

// Encoder converts commands into chunks. It never blocks: if the output
// buffer is full the encoded bytes are held until the next call.
type Encoder struct {
	cfg   Config
	alloc mem.Allocator

	m       model
	rc      rc.Encoder
	payload bytes.Buffer

	// open is set if a chunk has been started
	open     bool
	commands int
	raw      int

	// tail is the remainder of a command that has been split
	tail op.Command

	// pending holds encoded bytes that have not been written yet
	pending    []byte
	pendingPos int

	finished bool
	err      error
	stats    Stats
}

// NewEncoder creates a new encoder. The allocator provides the buffers
// for the encoded chunks.
func NewEncoder(alloc mem.Allocator, cfg Config) (*Encoder, error) {
	cfg.SetDefaults()
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	if alloc == nil {
		alloc = mem.HeapAllocator{}
	}
	e := &Encoder{cfg: cfg, alloc: alloc}
	e.m.init(*cfg.ContextMap)
	return e, nil
}

// drain writes pending bytes into out. It returns true if nothing is
// pending anymore.
func (e *Encoder) drain(out []byte, outOffset *int) bool {
	if e.pending == nil {
		return true
	}
	n := copy(out[*outOffset:], e.pending[e.pendingPos:])
	*outOffset += n
	e.pendingPos += n
	if e.pendingPos < len(e.pending) {
		return false
	}
	e.alloc.Free(e.pending)
	e.pending = nil
	e.pendingPos = 0
	return true
}

// encode codes a single command that doesn't exceed maxCommandLen. It
// closes the chunk if one of the chunk limits has been reached.
func (e *Encoder) encode(c op.Command) error {
	if !e.open {
		e.payload.Reset()
		e.rc.Reset(&e.payload)
		e.open = true
	}
	if err := e.m.encode(&e.rc, c); err != nil {
		return err
	}
	e.commands++
	e.raw += c.Len()
	e.stats.count(c)
	if e.raw >= e.cfg.ChunkSize || e.commands >= maxChunkCommands ||
		e.payload.Len() >= maxChunkSize {
		return e.closeChunk()
	}
	return nil
}

// closeChunk completes the open chunk and makes it pending.
func (e *Encoder) closeChunk() error {
	if err := e.rc.Close(); err != nil {
		return err
	}
	p := e.payload.Bytes()
	h := chunkHeader{
		control:     ctrlChunk,
		commands:    e.commands,
		rawSize:     e.raw,
		payloadSize: len(p),
		checksum:    checksum(p),
	}
	e.pending = h.append(e.alloc.Alloc(maxHeaderLen + len(p))[:0])
	hlen := len(e.pending)
	e.pending = append(e.pending, p...)
	e.pendingPos = 0

	e.stats.Chunks++
	e.stats.HeaderBytes += int64(hlen)
	e.stats.PayloadBytes += int64(len(p))
	xlog.Printf(e.cfg.Logger, "codec: closed %v", h)

	e.open = false
	e.commands = 0
	e.raw = 0
	return nil
}

func (e *Encoder) fail(err error) (op.Status, error) {
	e.err = err
	return op.ResultFailure, err
}

// step drains the pending bytes and encodes the split tail. It returns
// false if the output buffer is full.
func (e *Encoder) step(out []byte, outOffset *int) (ok bool, err error) {
	for {
		if !e.drain(out, outOffset) {
			return false, nil
		}
		if e.tail == nil {
			return true, nil
		}
		var c op.Command
		c, e.tail = splitCommand(e.tail, maxCommandLen)
		if err = e.encode(c); err != nil {
			return false, err
		}
	}
}

// EncodeCommands encodes the commands starting at cmds[*cmdOffset]. The
// offsets are advanced for every consumed command and every written byte.
// NeedsMoreInput is returned if all commands have been consumed and all
// bytes produced so far have been written; NeedsMoreOutput if the output
// buffer is full. Commands not consumed must be provided again.
func (e *Encoder) EncodeCommands(cmds []op.Command, cmdOffset *int,
	out []byte, outOffset *int) (op.Status, error) {

	if e.err != nil {
		return op.ResultFailure, e.err
	}
	if e.finished {
		return e.fail(ErrFinished)
	}
	for {
		ok, err := e.step(out, outOffset)
		if err != nil {
			return e.fail(err)
		}
		if !ok {
			return op.NeedsMoreOutput, nil
		}
		if *cmdOffset >= len(cmds) {
			return op.NeedsMoreInput, nil
		}
		e.tail = cmds[*cmdOffset]
		*cmdOffset++
	}
}

// Flush closes the open chunk and writes the end-of-stream marker. It
// returns NeedsMoreOutput as long as not all bytes could be written and
// ResultSuccess afterwards. No commands can be encoded after a flush.
func (e *Encoder) Flush(out []byte, outOffset *int) (op.Status, error) {
	if e.err != nil {
		return op.ResultFailure, e.err
	}
	for {
		ok, err := e.step(out, outOffset)
		if err != nil {
			return e.fail(err)
		}
		if !ok {
			return op.NeedsMoreOutput, nil
		}
		switch {
		case e.open:
			if err = e.closeChunk(); err != nil {
				return e.fail(err)
			}
		case !e.finished:
			e.pending = chunkHeader{control: ctrlEnd}.append(
				e.alloc.Alloc(1)[:0])
			e.stats.HeaderBytes++
			e.finished = true
		default:
			return op.ResultSuccess, nil
		}
	}
}

// Stats returns the counters of the encoder.
func (e *Encoder) Stats() Stats { return e.stats }

// DebugPrint logs the statistics of the encoder together with the number
// of input bytes n.
func (e *Encoder) DebugPrint(n int64) {
	xlog.Printf(e.cfg.Logger, "codec: encoder read %d bytes\n%s",
		n, pretty.Sprint(e.stats))
}

// Free returns the pending buffer to the allocator.
func (e *Encoder) Free() {
	if e.pending != nil {
		e.alloc.Free(e.pending)
		e.pending = nil
	}
}
