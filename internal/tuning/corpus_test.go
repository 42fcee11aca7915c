// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tuning

import (
	"bytes"
	"crypto/sha256"
	"io"
	"testing"

	"github.com/ulikunitz/dvz"
	"github.com/ulikunitz/dvz/pipeline"
	"github.com/ulikunitz/zdata"
)

func TestSilesia(t *testing.T) {
	if testing.Short() {
		t.Skip("corpus test skipped in short mode")
	}
	configs := []struct {
		name       string
		cfg        dvz.CompressorConfig
		concurrent bool
	}{
		{"w22-reader", dvz.CompressorConfig{WindowSize: 22}, false},
		{"w16-pipeline", dvz.CompressorConfig{WindowSize: 16}, true},
	}

	files, err := Files(zdata.Silesia)
	if err != nil {
		t.Fatalf("Files(zdata.Silesia) error %s", err)
	}

	for _, c := range configs {
		c := c
		for _, f := range files {
			f := f
			t.Run(c.name+":"+f.Name, func(t *testing.T) {
				s := sha256.Sum256(f.Data)
				hsum := s[:]

				buf := new(bytes.Buffer)
				w, err := dvz.NewWriter(buf, c.cfg)
				if err != nil {
					t.Fatalf("dvz.NewWriter error %s", err)
				}
				_, err = io.Copy(w, bytes.NewReader(f.Data))
				if err != nil {
					t.Fatalf("%s: io.Copy compression error %s",
						f.Name, err)
				}
				if err = w.Close(); err != nil {
					t.Fatalf("%s: w.Close() error %s",
						f.Name, err)
				}

				h := sha256.New()
				if c.concurrent {
					_, err = pipeline.Decompress(h, buf,
						pipeline.Config{Concurrent: true})
				} else {
					var r *dvz.Reader
					r, err = dvz.NewReader(buf,
						dvz.DecompressorConfig{})
					if err != nil {
						t.Fatalf("dvz.NewReader error %s",
							err)
					}
					_, err = io.Copy(h, r)
				}
				if err != nil {
					t.Fatalf("%s: decompression error %s",
						f.Name, err)
				}
				gsum := h.Sum(nil)
				if !bytes.Equal(gsum, hsum) {
					t.Errorf("%s: got %x; want %x",
						f.Name, gsum, hsum)
					return
				}
			})
		}
	}
}

func TestCompressedSize(t *testing.T) {
	files := []File{
		{"a", bytes.Repeat([]byte("abcd"), 1000)},
		{"b", []byte("x")},
	}
	if Size(files) != 4001 {
		t.Fatalf("Size is %d; want 4001", Size(files))
	}
	n, err := CompressedSize(files, dvz.CompressorConfig{WindowSize: 12})
	if err != nil {
		t.Fatalf("CompressedSize error %s", err)
	}
	if !(2*dvz.HeaderLen < n && n < 1000) {
		t.Fatalf("compressed size %d out of expected range", n)
	}
}
