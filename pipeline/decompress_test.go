// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/dvz"
)

func testData(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	var buf bytes.Buffer
	for buf.Len() < n {
		switch r.Intn(4) {
		case 0:
			fmt.Fprintf(&buf, "%08x", r.Uint32())
		default:
			fmt.Fprintf(&buf, "line %d of the pipeline test\n",
				r.Intn(100))
		}
	}
	return buf.Bytes()[:n]
}

func compress(t *testing.T, data, dict []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := dvz.NewWriter(&buf, dvz.CompressorConfig{
		WindowSize: 16,
		Dictionary: dict,
		ChunkSize:  8 << 10,
	})
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDecompress(t *testing.T) {
	data := testData(300000, 1)
	dict := testData(5000, 2)
	tests := []struct {
		name       string
		dict       []byte
		bufSize    int
		concurrent bool
	}{
		{"serial", nil, 0, false},
		{"serial-small-ranges", nil, 7, false},
		{"serial-dict", dict, 1000, false},
		{"concurrent", nil, 0, true},
		{"concurrent-small-ranges", nil, 13, true},
		{"concurrent-dict", dict, 4096, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			compressed := compress(t, data, tc.dict)
			var out bytes.Buffer
			cfg := Config{
				DecompressorConfig: dvz.DecompressorConfig{
					Dictionary: tc.dict,
				},
				Concurrent: tc.concurrent,
				BufferSize: tc.bufSize,
			}
			n, err := Decompress(&out, bytes.NewReader(compressed),
				cfg)
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), n)
			assert.True(t, bytes.Equal(data, out.Bytes()),
				"decompressed data differs")
		})
	}
}

func TestDecompressMatchesReader(t *testing.T) {
	data := testData(100000, 3)
	compressed := compress(t, data, nil)
	r, err := dvz.NewReader(bytes.NewReader(compressed),
		dvz.DecompressorConfig{})
	require.NoError(t, err)
	want, err := io.ReadAll(r)
	require.NoError(t, err)
	for _, concurrent := range []bool{false, true} {
		var out bytes.Buffer
		_, err := Decompress(&out, bytes.NewReader(compressed),
			Config{Concurrent: concurrent, BufferSize: 100})
		require.NoError(t, err)
		assert.Equal(t, want, out.Bytes())
	}
}

func TestDecompressErrors(t *testing.T) {
	data := testData(20000, 4)
	compressed := compress(t, data, nil)
	for _, concurrent := range []bool{false, true} {
		cfg := Config{Concurrent: concurrent}
		_, err := Decompress(io.Discard,
			bytes.NewReader(compressed[:len(compressed)-1]), cfg)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

		bad := append([]byte{}, compressed...)
		bad[0] = 0
		_, err = Decompress(io.Discard, bytes.NewReader(bad), cfg)
		assert.ErrorIs(t, err, dvz.ErrMagic)

		_, err = Decompress(io.Discard,
			bytes.NewReader(compressed[:5]), cfg)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	}
}
