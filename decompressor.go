// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dvz

import (
	"github.com/ulikunitz/dvz/mem"
	"github.com/ulikunitz/dvz/op"
	"github.com/ulikunitz/dvz/xlog"
)

// decompressor states
const (
	awaitingHeader = iota
	decoding
	failed
)

var stateNames = [...]string{"awaitingHeader", "decoding", "failed"}

// Decompressor converts a dvz stream back into raw bytes. It reads the
// header first and creates the entropy decoder for the window size found
// there.
type Decompressor struct {
	cfg    DecompressorConfig
	state  int
	logger xlog.Logger

	// awaitingHeader
	hdr   [HeaderLen]byte
	hn    int
	alloc mem.Allocator

	// decoding
	dec        EntropyDecoder
	windowSize int
	written    int64

	err error
}

// NewDecompressor creates a new decompressor.
func NewDecompressor(cfg DecompressorConfig) (*Decompressor, error) {
	cfg.SetDefaults()
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	d := &Decompressor{
		cfg:    cfg,
		state:  awaitingHeader,
		logger: cfg.Logger,
		alloc:  cfg.Allocator,
	}
	return d, nil
}

func (d *Decompressor) fail(err error) (op.Status, error) {
	d.state = failed
	d.err = err
	return op.ResultFailure, err
}

// Decode decompresses input[*inputOffset:] into output[*outputOffset:].
// The header may be provided over several calls; a call completing the
// header continues with decoding. An invalid header is a terminal
// failure.
func (d *Decompressor) Decode(input []byte, inputOffset *int, output []byte,
	outputOffset *int) (op.Status, error) {

	switch d.state {
	case failed:
		return op.ResultFailure, d.err
	case awaitingHeader:
		k := copy(d.hdr[d.hn:], input[*inputOffset:])
		d.hn += k
		*inputOffset += k
		if d.hn < HeaderLen {
			return op.NeedsMoreInput, nil
		}
		w, err := ParseHeader(d.hdr[:])
		if err != nil {
			return d.fail(err)
		}
		dec, err := d.cfg.NewDecoder(d.alloc, w)
		if err != nil {
			return d.fail(err)
		}
		d.alloc = nil
		d.dec = dec
		d.windowSize = w
		d.state = decoding
	}
	before := *outputOffset
	s, err := d.dec.Decode(input, inputOffset, output, outputOffset)
	d.written += int64(*outputOffset - before)
	if s == op.ResultFailure {
		return d.fail(err)
	}
	return s, nil
}

// Written returns the number of bytes decompressed so far.
func (d *Decompressor) Written() int64 { return d.written }

// WindowSize returns the window size from the header. It is zero as long as
// the header hasn't been parsed.
func (d *Decompressor) WindowSize() int { return d.windowSize }

// Free releases the resources in any state.
func (d *Decompressor) Free() {
	xlog.Printf(d.logger, "dvz: freeing decompressor in state %s",
		stateNames[d.state])
	if d.dec != nil {
		d.dec.DebugPrint(d.written)
		d.dec.Free()
		d.dec = nil
	}
	d.alloc = nil
	if d.state != failed {
		d.fail(newError("decompressor freed"))
	}
}
