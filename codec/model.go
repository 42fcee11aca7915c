// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"
	"math/bits"

	"github.com/ulikunitz/dvz/op"
	"github.com/ulikunitz/dvz/rc"
)

// uintCoder codes 32-bit values by their bit length followed by the bits
// below the leading one. The three bits following the leading one are coded
// with a probability tree depending on the bit length; the rest are coded
// directly.
type uintCoder struct {
	length [1 << 6]rc.Prob
	high   [33][1 << 3]rc.Prob
}

func (c *uintCoder) init() {
	rc.InitProbs(c.length[:])
	for i := range c.high {
		rc.InitProbs(c.high[i][:])
	}
}

// split returns the number of tree-coded and directly coded bits for a value
// of bit length k.
func split(k int) (t, rest int) {
	nb := k - 1
	t = nb
	if t > 3 {
		t = 3
	}
	return t, nb - t
}

func (c *uintCoder) encode(e *rc.Encoder, v uint32) error {
	k := bits.Len32(v)
	if err := rc.EncodeTree(e, c.length[:], 6, uint32(k)); err != nil {
		return err
	}
	if k <= 1 {
		return nil
	}
	t, rest := split(k)
	h := (v >> uint(rest)) & (1<<uint(t) - 1)
	if err := rc.EncodeTree(e, c.high[k][:], t, h); err != nil {
		return err
	}
	return rc.EncodeDirectBits(e, rest, v&(1<<uint(rest)-1))
}

func (c *uintCoder) decode(d *rc.Decoder) (v uint32, err error) {
	u, err := rc.DecodeTree(d, c.length[:], 6)
	if err != nil {
		return 0, err
	}
	k := int(u)
	if k > 32 {
		return 0, newError("bit length out of range")
	}
	if k <= 1 {
		return uint32(k), nil
	}
	t, rest := split(k)
	h, err := rc.DecodeTree(d, c.high[k][:], t)
	if err != nil {
		return 0, err
	}
	l, err := rc.DecodeDirectBits(d, rest)
	if err != nil {
		return 0, err
	}
	return 1<<uint(k-1) | h<<uint(rest) | l, nil
}

// kindBits is the number of bits required to code a command kind.
const kindBits = 3

// model holds the probabilities and the context state shared by the
// encoder and the decoder. Both sides must apply the same sequence of
// commands to stay in sync.
type model struct {
	kind    [op.NumKinds][1 << kindBits]rc.Prob
	litLen  uintCoder
	lit     [op.NumLiteralModels][1 << 8]rc.Prob
	copyLen uintCoder
	isRep   [op.NumDistanceModels]rc.Prob
	dist    [op.NumDistanceModels]uintCoder
	dictOff uintCoder
	dictLen uintCoder
	block   [1 << 2]rc.Prob

	cm        op.ContextMap
	prevKind  int
	prevLit   byte
	blockType uint8
	lastDist  uint32
}

func (m *model) init(cm op.ContextMap) {
	for i := range m.kind {
		rc.InitProbs(m.kind[i][:])
	}
	m.litLen.init()
	for i := range m.lit {
		rc.InitProbs(m.lit[i][:])
	}
	m.copyLen.init()
	rc.InitProbs(m.isRep[:])
	for i := range m.dist {
		m.dist[i].init()
	}
	m.dictOff.init()
	m.dictLen.init()
	rc.InitProbs(m.block[:])
	m.cm = cm
	m.prevKind = op.KindNop
	m.prevLit = 0
	m.blockType = 0
	m.lastDist = 0
}

func (m *model) encodeKind(e *rc.Encoder, k int) error {
	err := rc.EncodeTree(e, m.kind[m.prevKind][:], kindBits, uint32(k))
	m.prevKind = k
	return err
}

// encode codes a single command. Commands longer than maxCommandLen must
// have been split by the caller.
func (m *model) encode(e *rc.Encoder, c op.Command) error {
	if err := m.encodeKind(e, op.Kind(c)); err != nil {
		return err
	}
	switch c := c.(type) {
	case op.Literal:
		if err := m.litLen.encode(e, uint32(len(c.Data))); err != nil {
			return err
		}
		for _, b := range c.Data {
			i := m.cm.LiteralModel(m.blockType, m.prevLit)
			err := rc.EncodeTree(e, m.lit[i][:], 8, uint32(b))
			if err != nil {
				return err
			}
			m.prevLit = b
		}
		return nil
	case op.Copy:
		if c.Length == 0 || c.Distance == 0 {
			return fmt.Errorf("codec: invalid copy command %v", c)
		}
		if err := m.copyLen.encode(e, c.Length-1); err != nil {
			return err
		}
		dm := m.cm.DistanceModel(c.Length)
		if c.Distance == m.lastDist {
			return e.Encode(1, &m.isRep[dm])
		}
		if err := e.Encode(0, &m.isRep[dm]); err != nil {
			return err
		}
		m.lastDist = c.Distance
		return m.dist[dm].encode(e, c.Distance-1)
	case op.Dict:
		if c.Length == 0 {
			return fmt.Errorf("codec: invalid dictionary command %v", c)
		}
		if err := m.dictOff.encode(e, c.Offset); err != nil {
			return err
		}
		return m.dictLen.encode(e, c.Length-1)
	case op.BlockSwitch:
		if c.Type >= op.NumBlockTypes {
			return fmt.Errorf("codec: block type %d out of range",
				c.Type)
		}
		m.blockType = c.Type
		return rc.EncodeTree(e, m.block[:], 2, uint32(c.Type))
	case op.Nop:
		return nil
	}
	panic("unreachable")
}

// decode decodes a single command. The literal buffer is acquired with
// alloc. The argument limit gives the maximum number of raw bytes the
// command may produce.
func (m *model) decode(d *rc.Decoder, alloc func(n int) []byte,
	limit int) (op.Command, error) {

	u, err := rc.DecodeTree(d, m.kind[m.prevKind][:], kindBits)
	if err != nil {
		return nil, err
	}
	k := int(u)
	if k >= op.NumKinds {
		return nil, newError("invalid command kind")
	}
	m.prevKind = k
	switch k {
	case op.KindLiteral:
		n, err := m.litLen.decode(d)
		if err != nil {
			return nil, err
		}
		if int64(n) > int64(limit) {
			return nil, newError("literal exceeds chunk size")
		}
		p := alloc(int(n))
		for i := range p {
			j := m.cm.LiteralModel(m.blockType, m.prevLit)
			b, err := rc.DecodeTree(d, m.lit[j][:], 8)
			if err != nil {
				return nil, err
			}
			p[i] = byte(b)
			m.prevLit = byte(b)
		}
		return op.Literal{Data: p}, nil
	case op.KindCopy:
		n, err := m.copyLen.decode(d)
		if err != nil {
			return nil, err
		}
		if int64(n)+1 > int64(limit) {
			return nil, newError("copy exceeds chunk size")
		}
		c := op.Copy{Length: n + 1}
		dm := m.cm.DistanceModel(c.Length)
		rep, err := d.Decode(&m.isRep[dm])
		if err != nil {
			return nil, err
		}
		if rep == 1 {
			if m.lastDist == 0 {
				return nil, newError("repeat distance without copy")
			}
			c.Distance = m.lastDist
			return c, nil
		}
		dist, err := m.dist[dm].decode(d)
		if err != nil {
			return nil, err
		}
		if dist == 1<<32-1 {
			return nil, ErrDistance
		}
		c.Distance = dist + 1
		m.lastDist = c.Distance
		return c, nil
	case op.KindDict:
		off, err := m.dictOff.decode(d)
		if err != nil {
			return nil, err
		}
		n, err := m.dictLen.decode(d)
		if err != nil {
			return nil, err
		}
		if int64(n)+1 > int64(limit) {
			return nil, newError("dictionary reference exceeds chunk size")
		}
		return op.Dict{Offset: off, Length: n + 1}, nil
	case op.KindBlockSwitch:
		t, err := rc.DecodeTree(d, m.block[:], 2)
		if err != nil {
			return nil, err
		}
		m.blockType = uint8(t)
		return op.BlockSwitch{Type: uint8(t)}, nil
	default:
		return op.Nop{}, nil
	}
}

// splitCommand splits c into a head not longer than max bytes and a tail.
// The tail is nil if c is short enough.
func splitCommand(c op.Command, max int) (head, tail op.Command) {
	if c.Len() <= max {
		return c, nil
	}
	switch c := c.(type) {
	case op.Literal:
		return op.Literal{Data: c.Data[:max]},
			op.Literal{Data: c.Data[max:]}
	case op.Copy:
		// a copy continued with the same distance repeats the same
		// pattern
		return op.Copy{Distance: c.Distance, Length: uint32(max)},
			op.Copy{Distance: c.Distance, Length: c.Length - uint32(max)}
	case op.Dict:
		return op.Dict{Offset: c.Offset, Length: uint32(max)},
			op.Dict{Offset: c.Offset + uint32(max),
				Length: c.Length - uint32(max)}
	}
	return c, nil
}
