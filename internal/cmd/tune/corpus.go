// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/ulikunitz/dvz"
	"github.com/ulikunitz/dvz/assembler"
	"github.com/ulikunitz/dvz/internal/tuning"
	"github.com/ulikunitz/lz"
	"github.com/ulikunitz/zdata"
)

// setup describes a compressor configuration to measure. The sequencer
// configuration is created anew for every file.
type setup struct {
	WindowSize int
	ChunkSize  int
	LZ         func() lz.SeqConfig
}

func (s setup) String() string {
	name := "default"
	if s.LZ != nil {
		name = fmt.Sprintf("%T", s.LZ())
	}
	return fmt.Sprintf("w%d-c%d-%s", s.WindowSize, s.ChunkSize, name)
}

func (s setup) config() (cfg dvz.CompressorConfig, err error) {
	cfg = dvz.CompressorConfig{
		WindowSize: s.WindowSize,
		ChunkSize:  s.ChunkSize,
	}
	if s.LZ == nil {
		return cfg, nil
	}
	cfg.Assembler, err = assembler.New(assembler.Config{
		WindowSize: s.WindowSize,
		LZ:         s.LZ(),
	})
	return cfg, err
}

type countWriter struct {
	n int64
}

func (w *countWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	w.n += int64(n)
	return n, nil
}

func compress(files []tuning.File, s setup) (compressedSize int64, err error) {
	for _, f := range files {
		cfg, err := s.config()
		if err != nil {
			return compressedSize, err
		}
		cw := &countWriter{}
		w, err := dvz.NewWriter(cw, cfg)
		if err != nil {
			return compressedSize, err
		}
		if _, err = io.Copy(w, bytes.NewReader(f.Data)); err != nil {
			return compressedSize, err
		}
		if err = w.Close(); err != nil {
			return compressedSize, err
		}
		compressedSize += cw.n
	}
	return compressedSize, nil
}

var (
	_silesiaFiles []tuning.File
	silesiaOnce   sync.Once
)

func silesiaFiles() []tuning.File {
	silesiaOnce.Do(func() {
		var err error
		_silesiaFiles, err = tuning.Files(zdata.Silesia)
		if err != nil {
			panic(fmt.Errorf("silesiaFiles() error %w", err))
		}
	})
	return _silesiaFiles
}

func writerBenchmark(s setup) func(b *testing.B) {
	return func(b *testing.B) {
		files := silesiaFiles()
		size := tuning.Size(files)
		b.SetBytes(size)
		var (
			err            error
			compressedSize int64
		)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			compressedSize, err = compress(files, s)
			if err != nil {
				b.Fatalf("compress error %s", err)
			}
		}
		b.StopTimer()
		r := float64(compressedSize) / float64(size)
		b.ReportMetric(r, "c/u")
	}
}
