// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dvz

import (
	"io"

	"github.com/ulikunitz/dvz/op"
)

// defaultBufSize is the size of the buffers used by Writer and Reader.
const defaultBufSize = 32 << 10

// Writer compresses the data written to it.
type Writer struct {
	w   io.Writer
	c   *Compressor
	buf []byte
	err error
}

// NewWriter creates a writer that writes the compressed stream to w. The
// stream is only complete after Close has been called.
func NewWriter(w io.Writer, cfg CompressorConfig) (*Writer, error) {
	c, err := NewCompressor(cfg)
	if err != nil {
		return nil, err
	}
	return &Writer{w: w, c: c, buf: make([]byte, defaultBufSize)}, nil
}

// writeBuf writes the first n bytes of the buffer to the underlying
// writer.
func (w *Writer) writeBuf(n int) error {
	if n == 0 {
		return nil
	}
	_, err := w.w.Write(w.buf[:n])
	return err
}

// Write compresses p.
func (w *Writer) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	for {
		o := 0
		s, err := w.c.Encode(p, &n, w.buf, &o)
		if err == nil {
			err = w.writeBuf(o)
		}
		if err != nil {
			w.err = err
			return n, err
		}
		if s == op.NeedsMoreInput {
			return n, nil
		}
	}
}

// Close flushes the compressor and writes the end of the stream. It
// doesn't close the underlying writer.
func (w *Writer) Close() error {
	if w.err != nil {
		return w.err
	}
	for {
		o := 0
		s, err := w.c.Flush(w.buf, &o)
		if err == nil {
			err = w.writeBuf(o)
		}
		if err != nil {
			w.err = err
			return err
		}
		if s == op.ResultSuccess {
			break
		}
	}
	w.c.Free()
	w.err = ErrClosed
	return nil
}
