// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rc

import (
	"errors"
	"io"
)

// Decoder decodes bits produced by the Encoder.
type Decoder struct {
	r      io.ByteReader
	nrange uint32
	code   uint32
}

// NewDecoder creates a decoder reading from r. It reads the first five bytes
// of the stream and therefore may return an error.
func NewDecoder(r io.ByteReader) (*Decoder, error) {
	d := new(Decoder)
	if err := d.Reset(r); err != nil {
		return nil, err
	}
	return d, nil
}

// Reset initializes the decoder for a new stream read from r.
func (d *Decoder) Reset(r io.ByteReader) error {
	*d = Decoder{r: r, nrange: 0xffffffff}

	b, err := d.r.ReadByte()
	if err != nil {
		return err
	}
	if b != 0 {
		return errors.New("rc: first byte not zero")
	}

	for i := 0; i < 4; i++ {
		if err = d.updateCode(); err != nil {
			return err
		}
	}

	if d.code >= d.nrange {
		return errors.New("rc: code out of range")
	}

	return nil
}

// PossiblyAtEnd reports whether the decoder may be at the end of the
// stream.
func (d *Decoder) PossiblyAtEnd() bool {
	return d.code == 0
}

func (d *Decoder) updateCode() error {
	b, err := d.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}
	d.code = (d.code << 8) | uint32(b)
	return nil
}

func (d *Decoder) normalize() error {
	// assume d.code < d.nrange
	const top = 1 << 24
	if d.nrange < top {
		d.nrange <<= 8
		// d.code < d.nrange will be maintained
		if err := d.updateCode(); err != nil {
			return err
		}
	}
	return nil
}

// DecodeDirect decodes a bit with probability 1/2.
func (d *Decoder) DecodeDirect() (b uint32, err error) {
	d.nrange >>= 1
	d.code -= d.nrange
	t := 0 - (d.code >> 31)
	d.code += d.nrange & t

	// d.code will stay less then d.nrange

	if err = d.normalize(); err != nil {
		return 0, err
	}
	return (t + 1) & 1, nil
}

// Decode decodes a single bit and updates the probability.
func (d *Decoder) Decode(p *Prob) (b uint32, err error) {
	bound := p.Bound(d.nrange)
	if d.code < bound {
		d.nrange = bound
		p.Inc()
		b = 0
	} else {
		d.code -= bound
		d.nrange -= bound
		p.Dec()
		b = 1
	}

	// d.code will stay less then d.nrange

	if err = d.normalize(); err != nil {
		return 0, err
	}
	return b, nil
}
