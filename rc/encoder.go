// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rc

import "io"

// Encoder encodes bits into the byte stream. The low value may overflow
// 32 bits; the cache handles the carry propagation.
type Encoder struct {
	w         io.ByteWriter
	nrange    uint32
	low       uint64
	cacheSize int64
	cache     byte
	n         int64
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.ByteWriter) *Encoder {
	e := new(Encoder)
	e.Reset(w)
	return e
}

// Reset puts the encoder into its initial state writing to w.
func (e *Encoder) Reset(w io.ByteWriter) {
	*e = Encoder{w: w, nrange: 0xffffffff, cacheSize: 1}
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int64 { return e.n }

func (e *Encoder) shiftLow() error {
	if uint32(e.low) < 0xff000000 || (e.low>>32) != 0 {
		tmp := e.cache
		for {
			err := e.w.WriteByte(tmp + byte(e.low>>32))
			if err != nil {
				return err
			}
			e.n++
			tmp = 0xff
			e.cacheSize--
			if e.cacheSize <= 0 {
				if e.cacheSize < 0 {
					panic("rc: negative cacheSize")
				}
				break
			}
		}
		e.cache = byte(uint32(e.low) >> 24)
	}
	e.cacheSize++
	e.low = uint64(uint32(e.low) << 8)
	return nil
}

func (e *Encoder) normalize() error {
	const top = 1 << 24
	if e.nrange >= top {
		return nil
	}
	e.nrange <<= 8
	return e.shiftLow()
}

// EncodeDirect encodes the least-significant bit of b with probability
// 1/2.
func (e *Encoder) EncodeDirect(b uint32) error {
	e.nrange >>= 1
	e.low += uint64(e.nrange) & (0 - (uint64(b) & 1))
	return e.normalize()
}

// Encode encodes the least-significant bit of b and updates the
// probability.
func (e *Encoder) Encode(b uint32, p *Prob) error {
	bound := p.Bound(e.nrange)
	if b&1 == 0 {
		e.nrange = bound
		p.Inc()
	} else {
		e.low += uint64(bound)
		e.nrange -= bound
		p.Dec()
	}
	return e.normalize()
}

// Close writes the remaining bytes of the low value. The encoder must be
// reset before it can be used again.
func (e *Encoder) Close() error {
	for i := 0; i < 5; i++ {
		if err := e.shiftLow(); err != nil {
			return err
		}
	}
	return nil
}
