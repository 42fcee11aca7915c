// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dvz

import (
	"errors"
	"fmt"

	"github.com/ulikunitz/dvz/assembler"
	"github.com/ulikunitz/dvz/codec"
	"github.com/ulikunitz/dvz/mem"
	"github.com/ulikunitz/dvz/op"
	"github.com/ulikunitz/dvz/xlog"
)

// Assembler converts raw bytes into commands. The package assembler
// provides the default implementation.
type Assembler interface {
	Stream(input []byte, offset *int, cmds []op.Command,
		count *int) (op.Status, error)
	Flush(cmds []op.Command, count *int) (op.Status, error)
}

// EntropyEncoder converts commands into the compressed stream. The
// type codec.Encoder is the default implementation.
type EntropyEncoder interface {
	EncodeCommands(cmds []op.Command, cmdOffset *int, out []byte,
		outOffset *int) (op.Status, error)
	Flush(out []byte, outOffset *int) (op.Status, error)
	DebugPrint(n int64)
	Free()
}

// EntropyDecoder converts the compressed stream following the header
// into raw bytes. The type codec.Decoder is the default implementation.
type EntropyDecoder interface {
	Decode(in []byte, inOffset *int, out []byte,
		outOffset *int) (op.Status, error)
	DebugPrint(written int64)
	Free()
}

// CompressorConfig provides the parameters for the compressor.
type CompressorConfig struct {
	// WindowSize is the binary logarithm of the history size. It is
	// clamped to the range [MinWindowSize, MaxWindowSize].
	WindowSize int
	// Dictionary is the preset dictionary. The decompressor must use
	// the same dictionary.
	Dictionary []byte
	// ContextMap selects the literal and distance models.
	ContextMap *op.ContextMap
	// ChunkSize is the number of raw bytes per chunk.
	ChunkSize int
	// Allocator provides the buffers.
	Allocator mem.Allocator
	// Logger receives debug output.
	Logger xlog.Logger

	// Assembler replaces the default assembler if not nil.
	Assembler Assembler
	// Encoder replaces the default entropy encoder if not nil.
	Encoder EntropyEncoder
}

func clampWindowSize(w int) int {
	switch {
	case w < MinWindowSize:
		return MinWindowSize
	case w > MaxWindowSize:
		return MaxWindowSize
	}
	return w
}

// SetDefaults sets the default values for zero fields and clamps the
// window size.
func (cfg *CompressorConfig) SetDefaults() {
	if cfg.WindowSize == 0 {
		cfg.WindowSize = DefaultWindowSize
	}
	cfg.WindowSize = clampWindowSize(cfg.WindowSize)
	if cfg.ContextMap == nil {
		cm := op.DefaultContextMap()
		cfg.ContextMap = &cm
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = codec.DefaultChunkSize
	}
	if cfg.Allocator == nil {
		cfg.Allocator = mem.NewPoolAllocator()
	}
}

// Verify checks the configuration for errors.
func (cfg *CompressorConfig) Verify() error {
	if cfg == nil {
		return errors.New("dvz: CompressorConfig pointer must not be nil")
	}
	if !(MinWindowSize <= cfg.WindowSize &&
		cfg.WindowSize <= MaxWindowSize) {
		return fmt.Errorf("dvz: window size %d out of range",
			cfg.WindowSize)
	}
	if len(cfg.Dictionary) > 1<<cfg.WindowSize {
		return errors.New("dvz: dictionary exceeds window size")
	}
	if cfg.Allocator == nil {
		return errors.New("dvz: Allocator must be set")
	}
	return nil
}

func (cfg *CompressorConfig) codecConfig() codec.Config {
	return codec.Config{
		WindowSize: cfg.WindowSize,
		ChunkSize:  cfg.ChunkSize,
		Dictionary: cfg.Dictionary,
		ContextMap: cfg.ContextMap,
		Logger:     cfg.Logger,
	}
}

// DecompressorConfig provides the parameters for the decompressor.
type DecompressorConfig struct {
	// Dictionary must be the dictionary used by the compressor.
	Dictionary []byte
	// ContextMap must be the context map used by the compressor.
	ContextMap *op.ContextMap
	// Allocator provides the buffers.
	Allocator mem.Allocator
	// Logger receives debug output.
	Logger xlog.Logger

	// NewDecoder creates the entropy decoder after the header has been
	// parsed. The default creates a codec.Decoder.
	NewDecoder func(alloc mem.Allocator,
		windowSize int) (EntropyDecoder, error)
}

// SetDefaults sets the default values for zero fields.
func (cfg *DecompressorConfig) SetDefaults() {
	if cfg.ContextMap == nil {
		cm := op.DefaultContextMap()
		cfg.ContextMap = &cm
	}
	if cfg.Allocator == nil {
		cfg.Allocator = mem.NewPoolAllocator()
	}
	if cfg.NewDecoder == nil {
		cfg.NewDecoder = cfg.newCodecDecoder
	}
}

// CodecConfig returns the codec configuration for the window size.
func (cfg *DecompressorConfig) CodecConfig(windowSize int) codec.Config {
	return codec.Config{
		WindowSize: windowSize,
		Dictionary: cfg.Dictionary,
		ContextMap: cfg.ContextMap,
		Logger:     cfg.Logger,
	}
}

func (cfg *DecompressorConfig) newCodecDecoder(alloc mem.Allocator,
	windowSize int) (EntropyDecoder, error) {

	d, err := codec.NewDecoder(alloc, cfg.CodecConfig(windowSize))
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Verify checks the configuration for errors.
func (cfg *DecompressorConfig) Verify() error {
	if cfg == nil {
		return errors.New(
			"dvz: DecompressorConfig pointer must not be nil")
	}
	if len(cfg.Dictionary) > 1<<MaxWindowSize {
		return errors.New("dvz: dictionary too large")
	}
	if cfg.Allocator == nil {
		return errors.New("dvz: Allocator must be set")
	}
	if cfg.NewDecoder == nil {
		return errors.New("dvz: NewDecoder must be set")
	}
	return nil
}

// newAssembler creates the default assembler.
func newAssembler(cfg *CompressorConfig) (Assembler, error) {
	a, err := assembler.New(assembler.Config{
		WindowSize: cfg.WindowSize,
		Dictionary: cfg.Dictionary,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}
