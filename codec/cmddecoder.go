// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"fmt"

	"github.com/ulikunitz/dvz/mem"
	"github.com/ulikunitz/dvz/op"
	"github.com/ulikunitz/dvz/rc"
)

// states of the command decoder
const (
	cdHeader = iota
	cdPayload
	cdCommands
	cdEnd
)

// CommandDecoder decodes the chunk stream into commands. Input can be
// provided in pieces of arbitrary size.
type CommandDecoder struct {
	// Alloc provides the buffers for literal commands. It defaults to
	// the Alloc method of the allocator given to NewCommandDecoder.
	Alloc func(n int) []byte

	alloc mem.Allocator
	m     model
	rd    rc.Decoder
	br    bytes.Reader

	state int
	hdr   [maxHeaderLen]byte
	hn    int
	h     chunkHeader

	payload []byte
	pn      int

	cmdsLeft int
	rawLeft  int

	err   error
	stats Stats
}

// NewCommandDecoder creates a new command decoder. The fields WindowSize,
// and ContextMap of the configuration are used.
func NewCommandDecoder(alloc mem.Allocator, cfg Config) (*CommandDecoder,
	error) {

	cfg.SetDefaults()
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	if alloc == nil {
		alloc = mem.HeapAllocator{}
	}
	d := &CommandDecoder{alloc: alloc, Alloc: alloc.Alloc}
	d.m.init(*cfg.ContextMap)
	return d, nil
}

func (d *CommandDecoder) fail(err error) (op.Command, op.Status, error) {
	d.err = err
	return nil, op.ResultFailure, err
}

// Next returns the next command. If the command is nil the status tells
// whether more input is required (NeedsMoreInput) or the end of the stream
// has been reached (ResultSuccess). Errors are terminal.
func (d *CommandDecoder) Next(in []byte, inOffset *int) (op.Command,
	op.Status, error) {

	if d.err != nil {
		return nil, op.ResultFailure, d.err
	}
	for {
		switch d.state {
		case cdHeader:
			n := copy(d.hdr[d.hn:], in[*inOffset:])
			avail := d.hn + n
			h, k, err := parseChunkHeader(d.hdr[:avail])
			if err == errShortHeader {
				if avail == len(d.hdr) {
					return d.fail(newError(
						"malformed chunk header"))
				}
				d.hn = avail
				*inOffset += n
				return nil, op.NeedsMoreInput, nil
			}
			if err != nil {
				return d.fail(err)
			}
			// only the header bytes are consumed
			*inOffset += k - d.hn
			d.hn = 0
			d.stats.HeaderBytes += int64(k)
			if h.control == ctrlEnd {
				d.state = cdEnd
				continue
			}
			d.h = h
			d.payload = d.alloc.Alloc(h.payloadSize)
			d.pn = 0
			d.state = cdPayload
		case cdPayload:
			n := copy(d.payload[d.pn:], in[*inOffset:])
			d.pn += n
			*inOffset += n
			if d.pn < len(d.payload) {
				return nil, op.NeedsMoreInput, nil
			}
			if checksum(d.payload) != d.h.checksum {
				return d.fail(ErrChecksum)
			}
			d.br.Reset(d.payload)
			if err := d.rd.Reset(&d.br); err != nil {
				return d.fail(err)
			}
			d.stats.Chunks++
			d.stats.PayloadBytes += int64(len(d.payload))
			d.cmdsLeft = d.h.commands
			d.rawLeft = d.h.rawSize
			d.state = cdCommands
		case cdCommands:
			if d.cmdsLeft == 0 {
				if d.rawLeft != 0 {
					return d.fail(fmt.Errorf(
						"codec: chunk misses %d raw bytes",
						d.rawLeft))
				}
				d.alloc.Free(d.payload)
				d.payload = nil
				d.state = cdHeader
				continue
			}
			c, err := d.m.decode(&d.rd, d.Alloc, d.rawLeft)
			if err != nil {
				return d.fail(err)
			}
			d.cmdsLeft--
			d.rawLeft -= c.Len()
			d.stats.count(c)
			return c, op.ResultSuccess, nil
		case cdEnd:
			return nil, op.ResultSuccess, nil
		default:
			panic("codec: unexpected command decoder state")
		}
	}
}

// Stats returns the counters of the command decoder.
func (d *CommandDecoder) Stats() Stats { return d.stats }

// Free returns the payload buffer to the allocator.
func (d *CommandDecoder) Free() {
	if d.payload != nil {
		d.alloc.Free(d.payload)
		d.payload = nil
	}
}
