// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dvz

import (
	"bytes"
	"fmt"

	"github.com/ulikunitz/dvz/codec"
	"github.com/ulikunitz/dvz/op"
)

// HeaderLen is the length of the stream header.
const HeaderLen = 16

// Limits for the window size stored in the header.
const (
	MinWindowSize     = codec.MinWindowSize
	MaxWindowSize     = codec.MaxWindowSize
	DefaultWindowSize = 22
)

// magic starts every dvz stream.
var magic = []byte{0xff, 0xe5, 0x8c, 0x9f}

// windowSizeOffset is the position of the window size in the header.
const windowSizeOffset = 5

// AppendHeader appends the header for the given window size to p. The
// reserved bytes are zero.
func AppendHeader(p []byte, windowSize int) []byte {
	var h [HeaderLen]byte
	copy(h[:], magic)
	h[windowSizeOffset] = byte(windowSize)
	return append(p, h[:]...)
}

// ParseHeader parses the header and returns the window size. The reserved
// bytes are ignored.
func ParseHeader(h []byte) (windowSize int, err error) {
	if len(h) < HeaderLen {
		return 0, newError("header too short")
	}
	if !bytes.Equal(h[:len(magic)], magic) {
		return 0, ErrMagic
	}
	windowSize = int(h[windowSizeOffset])
	if !(MinWindowSize <= windowSize && windowSize <= MaxWindowSize) {
		return 0, fmt.Errorf("%w: %d", ErrWindowSize, windowSize)
	}
	return windowSize, nil
}

// headerWriter writes the header piecewise into output buffers.
type headerWriter struct {
	buf [HeaderLen]byte
	n   int
}

func (hw *headerWriter) init(windowSize int) {
	AppendHeader(hw.buf[:0], windowSize)
	hw.n = 0
}

// write copies the header bytes not written yet into output. It returns
// NeedsMoreOutput until the header has been written completely.
func (hw *headerWriter) write(output []byte, outputOffset *int) op.Status {
	k := copy(output[*outputOffset:], hw.buf[hw.n:])
	hw.n += k
	*outputOffset += k
	if hw.n < HeaderLen {
		return op.NeedsMoreOutput
	}
	return op.ResultSuccess
}
