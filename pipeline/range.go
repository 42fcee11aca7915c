// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

// Range is a byte range owned by one side of the pipeline. It consists of
// the backing buffer and the cursors of the unread bytes. A range is moved
// between the sides and must not be used after it has been pushed.
type Range struct {
	buf   []byte
	start int
	end   int
}

// NewRange creates a range for the first n bytes of buf.
func NewRange(buf []byte, n int) Range {
	if !(0 <= n && n <= len(buf)) {
		panic("pipeline: range length out of bounds")
	}
	return Range{buf: buf, end: n}
}

// Bytes returns the unread bytes.
func (r Range) Bytes() []byte { return r.buf[r.start:r.end] }

// Len returns the number of unread bytes.
func (r Range) Len() int { return r.end - r.start }

// Buffer returns the complete backing buffer.
func (r Range) Buffer() []byte { return r.buf }

// IsZero reports whether the range holds no buffer.
func (r Range) IsZero() bool { return r.buf == nil }

// Advance marks n bytes as read.
func (r *Range) Advance(n int) {
	if !(0 <= n && n <= r.Len()) {
		panic("pipeline: advance beyond end of range")
	}
	r.start += n
}
