// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/kr/pretty"
	"github.com/ulikunitz/dvz/mem"
	"github.com/ulikunitz/dvz/op"
	"github.com/ulikunitz/dvz/xlog"
)

// Decoder converts the chunk stream back into raw bytes. It combines a
// CommandDecoder and a Recoder.
type Decoder struct {
	cd     *CommandDecoder
	rec    *Recoder
	logger xlog.Logger
	eos    bool
	err    error
}

// NewDecoder creates a new decoder. The literal buffers are taken from
// the allocator and returned to it after they have been written.
func NewDecoder(alloc mem.Allocator, cfg Config) (*Decoder, error) {
	cfg.SetDefaults()
	if alloc == nil {
		alloc = mem.HeapAllocator{}
	}
	cd, err := NewCommandDecoder(alloc, cfg)
	if err != nil {
		return nil, err
	}
	rec, err := NewRecoder(alloc, cfg.WindowSize, cfg.Dictionary)
	if err != nil {
		return nil, err
	}
	rec.Release = alloc.Free
	return &Decoder{cd: cd, rec: rec, logger: cfg.Logger}, nil
}

// Decode decodes input into output. It returns NeedsMoreInput if all
// input has been consumed, NeedsMoreOutput if the output buffer is full
// and ResultSuccess after the end of the stream has been written.
func (d *Decoder) Decode(in []byte, inOffset *int, out []byte,
	outOffset *int) (op.Status, error) {

	if d.err != nil {
		return op.ResultFailure, d.err
	}
	for {
		if s := d.rec.Recode(out, outOffset); s != op.ResultSuccess {
			return s, nil
		}
		if d.eos {
			return op.ResultSuccess, nil
		}
		c, s, err := d.cd.Next(in, inOffset)
		switch s {
		case op.ResultFailure:
			d.err = err
			return s, err
		case op.NeedsMoreInput:
			return s, nil
		}
		if c == nil {
			d.eos = true
			continue
		}
		if err = d.rec.Push(c); err != nil {
			d.err = err
			return op.ResultFailure, err
		}
	}
}

// EOS reports whether the end-of-stream marker has been decoded.
func (d *Decoder) EOS() bool { return d.eos }

// Stats returns the counters of the command decoder.
func (d *Decoder) Stats() Stats { return d.cd.Stats() }

// DebugPrint logs the number of written bytes and the decoder statistics.
func (d *Decoder) DebugPrint(written int64) {
	xlog.Printf(d.logger, "codec: decoder wrote %d bytes\n%s",
		written, pretty.Sprint(d.cd.Stats()))
}

// Free returns all buffers to the allocator.
func (d *Decoder) Free() {
	d.cd.Free()
	d.rec.Free()
}
