// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dvz

import (
	"io"

	"github.com/ulikunitz/dvz/op"
)

// Reader decompresses a dvz stream.
type Reader struct {
	r     io.Reader
	d     *Decompressor
	buf   []byte
	start int
	end   int
	// srcEOF is set if r returned io.EOF
	srcEOF bool
	err    error
}

// NewReader creates a reader decompressing the stream read from r.
func NewReader(r io.Reader, cfg DecompressorConfig) (*Reader, error) {
	d, err := NewDecompressor(cfg)
	if err != nil {
		return nil, err
	}
	return &Reader{r: r, d: d, buf: make([]byte, defaultBufSize)}, nil
}

// fill reads new data into the buffer.
func (r *Reader) fill() error {
	if r.srcEOF {
		return io.ErrUnexpectedEOF
	}
	n, err := r.r.Read(r.buf)
	r.start, r.end = 0, n
	if err == io.EOF {
		r.srcEOF = true
		err = nil
	}
	return err
}

// Read decompresses data into p. It returns io.EOF after the end of the
// stream has been reached.
func (r *Reader) Read(p []byte) (n int, err error) {
	if r.err != nil {
		return 0, r.err
	}
	if len(p) == 0 {
		return 0, nil
	}
	for {
		s, err := r.d.Decode(r.buf[:r.end], &r.start, p, &n)
		switch s {
		case op.ResultFailure:
			r.err = err
			return n, err
		case op.ResultSuccess:
			r.d.Free()
			r.err = io.EOF
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		case op.NeedsMoreOutput:
			return n, nil
		}
		if n > 0 {
			return n, nil
		}
		if err = r.fill(); err != nil {
			r.err = err
			return 0, err
		}
	}
}

// Written returns the number of decompressed bytes.
func (r *Reader) Written() int64 { return r.d.Written() }
