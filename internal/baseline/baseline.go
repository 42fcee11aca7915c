// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package baseline provides established compression formats to compare
// the dvz compression ratio against.
package baseline

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/dvz"
)

// Codec compresses and decompresses complete buffers.
type Codec interface {
	Name() string
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		e, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false))
		if err != nil {
			panic(fmt.Errorf("zstd.NewWriter error %w", err))
		}
		return e
	},
}

var zstdDecoderPool = sync.Pool{
	New: func() any {
		d, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Errorf("zstd.NewReader error %w", err))
		}
		return d
	},
}

// Zstd uses the Zstandard format at the default level.
type Zstd struct{}

// Name returns "zstd".
func (Zstd) Name() string { return "zstd" }

// Compress compresses data.
func (Zstd) Compress(data []byte) ([]byte, error) {
	e := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(e)
	return e.EncodeAll(data, nil), nil
}

// Decompress decompresses data.
func (Zstd) Decompress(data []byte) ([]byte, error) {
	d := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(d)
	p, err := d.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("baseline: zstd: %w", err)
	}
	return p, nil
}

// S2 uses the S2 block format.
type S2 struct{}

// Name returns "s2".
func (S2) Name() string { return "s2" }

// Compress compresses data.
func (S2) Compress(data []byte) ([]byte, error) {
	return s2.Encode(nil, data), nil
}

// Decompress decompresses data.
func (S2) Decompress(data []byte) ([]byte, error) {
	return s2.Decode(nil, data)
}

var lz4CompressorPool = sync.Pool{
	New: func() any { return new(lz4.Compressor) },
}

// LZ4 uses the LZ4 block format. The block is preceded by the
// uncompressed length as uvarint. Incompressible data is stored after the
// length with the value 0 in the lowest bit.
type LZ4 struct{}

// Name returns "lz4".
func (LZ4) Name() string { return "lz4" }

// Compress compresses data.
func (LZ4) Compress(data []byte) ([]byte, error) {
	dst := make([]byte, binary.MaxVarintLen64+lz4.CompressBlockBound(len(data)))
	c := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(c)
	k := binary.PutUvarint(dst, uint64(len(data))<<1|1)
	n, err := c.CompressBlock(data, dst[k:])
	if err != nil {
		return nil, err
	}
	if n == 0 {
		k = binary.PutUvarint(dst, uint64(len(data))<<1)
		return append(dst[:k], data...), nil
	}
	return dst[:k+n], nil
}

// maxLZ4Size limits the size of a decompressed LZ4 block.
const maxLZ4Size = 1 << 30

// Decompress decompresses data.
func (LZ4) Decompress(data []byte) ([]byte, error) {
	u, k := binary.Uvarint(data)
	size := u >> 1
	if k <= 0 || size > maxLZ4Size {
		return nil, errors.New("baseline: lz4: invalid size prefix")
	}
	if u&1 == 0 {
		if uint64(len(data)-k) != size {
			return nil, errors.New("baseline: lz4: size mismatch")
		}
		return append([]byte{}, data[k:]...), nil
	}
	p := make([]byte, size)
	n, err := lz4.UncompressBlock(data[k:], p)
	if err != nil {
		return nil, fmt.Errorf("baseline: lz4: %w", err)
	}
	if n != len(p) {
		return nil, errors.New("baseline: lz4: size mismatch")
	}
	return p, nil
}

// DVZ adapts the dvz Writer and Reader to the Codec interface.
type DVZ struct {
	WindowSize int
}

// Name returns the name including the window size.
func (c DVZ) Name() string { return fmt.Sprintf("dvz-w%d", c.WindowSize) }

// Compress compresses data.
func (c DVZ) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := dvz.NewWriter(&buf, dvz.CompressorConfig{
		WindowSize: c.WindowSize})
	if err != nil {
		return nil, err
	}
	if _, err = w.Write(data); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress decompresses data.
func (c DVZ) Decompress(data []byte) ([]byte, error) {
	r, err := dvz.NewReader(bytes.NewReader(data), dvz.DecompressorConfig{})
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// Codecs returns dvz with the given window size and the baseline codecs.
func Codecs(windowSize int) []Codec {
	return []Codec{DVZ{WindowSize: windowSize}, Zstd{}, S2{}, LZ4{}}
}

// Result reports the compressed size for a codec.
type Result struct {
	Name  string
	Size  int
	Ratio float64
}

// Compare compresses data with every codec, verifies the round trip and
// reports the sizes.
func Compare(data []byte, codecs []Codec) ([]Result, error) {
	results := make([]Result, 0, len(codecs))
	for _, c := range codecs {
		z, err := c.Compress(data)
		if err != nil {
			return nil, fmt.Errorf("%s: compress error %w", c.Name(), err)
		}
		p, err := c.Decompress(z)
		if err != nil {
			return nil, fmt.Errorf("%s: decompress error %w",
				c.Name(), err)
		}
		if !bytes.Equal(p, data) {
			return nil, fmt.Errorf("%s: round trip mismatch", c.Name())
		}
		r := Result{Name: c.Name(), Size: len(z)}
		if len(data) > 0 {
			r.Ratio = float64(len(z)) / float64(len(data))
		}
		results = append(results, r)
	}
	return results, nil
}
