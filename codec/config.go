// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"errors"
	"fmt"

	"github.com/ulikunitz/dvz/op"
	"github.com/ulikunitz/dvz/xlog"
)

// Limits for the window size. The window size is the binary logarithm of
// the history length.
const (
	MinWindowSize = 10
	MaxWindowSize = 24
)

const (
	// DefaultChunkSize is the number of raw bytes after which the
	// encoder closes a chunk.
	DefaultChunkSize = 1 << 16
	// maxChunkSize limits the configurable chunk size.
	maxChunkSize = 1 << 19
	// maxCommandLen limits the length of a single coded command;
	// longer commands are split by the encoder.
	maxCommandLen = 1 << 16
	// maxChunkRaw is the maximum raw size of a chunk accepted by the
	// decoder.
	maxChunkRaw = maxChunkSize + maxCommandLen
	// maxChunkPayload is the maximum payload size accepted by the
	// decoder.
	maxChunkPayload = 2 * maxChunkRaw
	// maxChunkCommands limits the number of commands in a chunk.
	maxChunkCommands = 1 << 16
)

// Config provides the parameters shared by the encoder and the decoder.
type Config struct {
	// WindowSize is the binary logarithm of the history size.
	WindowSize int
	// ChunkSize gives the number of raw bytes after which a chunk is
	// closed. Only used by the encoder.
	ChunkSize int
	// Dictionary is the preset dictionary for Dict commands.
	Dictionary []byte
	// ContextMap selects the models. Nil selects op.DefaultContextMap.
	ContextMap *op.ContextMap
	// Logger receives debug output. It may be nil.
	Logger xlog.Logger
}

// SetDefaults replaces zero values by defaults.
func (cfg *Config) SetDefaults() {
	if cfg.WindowSize == 0 {
		cfg.WindowSize = 22
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ContextMap == nil {
		cm := op.DefaultContextMap()
		cfg.ContextMap = &cm
	}
}

// Verify checks the configuration for consistency.
func (cfg *Config) Verify() error {
	if cfg == nil {
		return errors.New("codec: Config pointer must not be nil")
	}
	if !(MinWindowSize <= cfg.WindowSize && cfg.WindowSize <= MaxWindowSize) {
		return fmt.Errorf("codec: window size %d out of range [%d,%d]",
			cfg.WindowSize, MinWindowSize, MaxWindowSize)
	}
	if !(0 < cfg.ChunkSize && cfg.ChunkSize <= maxChunkSize) {
		return fmt.Errorf("codec: chunk size %d out of range [1,%d]",
			cfg.ChunkSize, maxChunkSize)
	}
	if cfg.ContextMap == nil {
		return errors.New("codec: ContextMap must be set")
	}
	if len(cfg.Dictionary) > 1<<cfg.WindowSize {
		return fmt.Errorf(
			"codec: dictionary length %d exceeds window of %d bytes",
			len(cfg.Dictionary), 1<<cfg.WindowSize)
	}
	return nil
}
