// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"

	"github.com/ulikunitz/dvz/mem"
	"github.com/ulikunitz/dvz/op"
)

// Recoder converts commands into raw bytes. It keeps the last 2^window
// bytes as history for the copy commands. A command may be written in
// parts of a single byte.
type Recoder struct {
	// Release is called with the data of a literal command after it
	// has been completely written. It may be nil.
	Release func(p []byte)

	alloc mem.Allocator
	hist  []byte
	mask  int64
	pos   int64
	dict  []byte

	cur    op.Command
	done   int
	active bool
}

// NewRecoder creates a recoder with a history of 2^windowSize bytes.
// The dictionary is the target of Dict commands.
func NewRecoder(alloc mem.Allocator, windowSize int, dict []byte) (*Recoder,
	error) {

	if !(MinWindowSize <= windowSize && windowSize <= MaxWindowSize) {
		return nil, fmt.Errorf("codec: window size %d out of range",
			windowSize)
	}
	if alloc == nil {
		alloc = mem.HeapAllocator{}
	}
	n := 1 << windowSize
	r := &Recoder{
		alloc: alloc,
		hist:  alloc.Alloc(n),
		mask:  int64(n - 1),
		dict:  dict,
	}
	return r, nil
}

// Pos returns the number of bytes written.
func (r *Recoder) Pos() int64 { return r.pos }

// Idle reports whether a new command can be pushed.
func (r *Recoder) Idle() bool { return !r.active }

// Push provides the next command. The recoder must be idle. Copy commands
// must refer to bytes in the history and Dict commands to bytes inside of
// the dictionary.
func (r *Recoder) Push(c op.Command) error {
	if r.active {
		panic("codec: Push on busy recoder")
	}
	switch c := c.(type) {
	case op.Copy:
		d := int64(c.Distance)
		if d == 0 || d > r.pos || d > int64(len(r.hist)) {
			return ErrDistance
		}
	case op.Dict:
		if int64(c.Offset)+int64(c.Length) > int64(len(r.dict)) {
			return ErrDictionary
		}
	}
	r.cur = c
	r.done = 0
	r.active = true
	return nil
}

// put appends p to the history.
func (r *Recoder) put(p []byte) {
	for len(p) > 0 {
		i := r.pos & r.mask
		n := copy(r.hist[i:], p)
		p = p[n:]
		r.pos += int64(n)
	}
}

// Recode writes the bytes of the current command into out. It returns
// ResultSuccess if the command has been completed or no command is active,
// and NeedsMoreOutput if out is full before.
func (r *Recoder) Recode(out []byte, outOffset *int) op.Status {
	for r.active {
		if r.done >= r.cur.Len() {
			if l, ok := r.cur.(op.Literal); ok && r.Release != nil {
				r.Release(l.Data)
			}
			r.cur = nil
			r.active = false
			break
		}
		if *outOffset >= len(out) {
			return op.NeedsMoreOutput
		}
		p := out[*outOffset:]
		var n int
		switch c := r.cur.(type) {
		case op.Literal:
			n = copy(p, c.Data[r.done:])
			r.put(p[:n])
		case op.Dict:
			i := int(c.Offset) + r.done
			n = copy(p, r.dict[i:int(c.Offset)+int(c.Length)])
			r.put(p[:n])
		case op.Copy:
			k := int(c.Length) - r.done
			if k > len(p) {
				k = len(p)
			}
			d := int64(c.Distance)
			for ; n < k; n++ {
				b := r.hist[(r.pos-d)&r.mask]
				r.hist[r.pos&r.mask] = b
				r.pos++
				p[n] = b
			}
		}
		r.done += n
		*outOffset += n
	}
	return op.ResultSuccess
}

// Free returns the history to the allocator. It releases the data of an
// unfinished literal.
func (r *Recoder) Free() {
	if l, ok := r.cur.(op.Literal); ok && r.Release != nil {
		r.Release(l.Data)
	}
	r.cur = nil
	r.active = false
	if r.hist != nil {
		r.alloc.Free(r.hist)
		r.hist = nil
	}
}
