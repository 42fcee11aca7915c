// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rc

// EncodeTree encodes the lower bits of v, most-significant bit first, using
// the probability tree probs. The tree must have at least 1<<bits entries.
func EncodeTree(e *Encoder, probs []Prob, bits int, v uint32) error {
	m := uint32(1)
	for i := bits - 1; i >= 0; i-- {
		b := (v >> uint(i)) & 1
		if err := e.Encode(b, &probs[m]); err != nil {
			return err
		}
		m = (m << 1) | b
	}
	return nil
}

// DecodeTree decodes a value of the given number of bits coded by
// EncodeTree.
func DecodeTree(d *Decoder, probs []Prob, bits int) (v uint32, err error) {
	m := uint32(1)
	for j := 0; j < bits; j++ {
		b, err := d.Decode(&probs[m])
		if err != nil {
			return 0, err
		}
		m = (m << 1) | b
	}
	return m - (1 << uint(bits)), nil
}

// EncodeDirectBits encodes the lower bits of v with probability 1/2,
// most-significant bit first.
func EncodeDirectBits(e *Encoder, bits int, v uint32) error {
	for i := bits - 1; i >= 0; i-- {
		if err := e.EncodeDirect(v >> uint(i)); err != nil {
			return err
		}
	}
	return nil
}

// DecodeDirectBits decodes bits coded by EncodeDirectBits.
func DecodeDirectBits(d *Decoder, bits int) (v uint32, err error) {
	for j := 0; j < bits; j++ {
		b, err := d.DecodeDirect()
		if err != nil {
			return 0, err
		}
		v = (v << 1) | b
	}
	return v, nil
}
