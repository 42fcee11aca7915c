// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dvz

import (
	"github.com/ulikunitz/dvz/codec"
	"github.com/ulikunitz/dvz/op"
	"github.com/ulikunitz/dvz/xlog"
)

// Compressor converts raw bytes into a dvz stream. Commands produced by
// the assembler that could not be encoded because the output buffer was
// full are retained and encoded by the next call.
type Compressor struct {
	hw         headerWriter
	windowSize int
	asm        Assembler
	enc        EntropyEncoder
	logger     xlog.Logger

	// cmds[start:end] are the commands not yet encoded
	cmds  [op.CommandBufferSize]op.Command
	start int
	end   int
	// busy is set if the encoder holds output not written yet
	busy bool

	// drained is set if Flush converted all buffered input
	drained bool
	read    int64
	err     error
}

// NewCompressor creates a new compressor.
func NewCompressor(cfg CompressorConfig) (*Compressor, error) {
	cfg.SetDefaults()
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	c := &Compressor{
		windowSize: cfg.WindowSize,
		asm:        cfg.Assembler,
		enc:        cfg.Encoder,
		logger:     cfg.Logger,
	}
	c.hw.init(cfg.WindowSize)
	var err error
	if c.asm == nil {
		if c.asm, err = newAssembler(&cfg); err != nil {
			return nil, err
		}
	}
	if c.enc == nil {
		var e *codec.Encoder
		e, err = codec.NewEncoder(cfg.Allocator, cfg.codecConfig())
		if err != nil {
			return nil, err
		}
		c.enc = e
	}
	return c, nil
}

// WindowSize returns the window size written into the header.
func (c *Compressor) WindowSize() int { return c.windowSize }

func (c *Compressor) fail(err error) (op.Status, error) {
	c.err = err
	return op.ResultFailure, err
}

// encodeRetained feeds the retained commands to the encoder. It returns
// ok if all of them have been consumed.
func (c *Compressor) encodeRetained(output []byte,
	outputOffset *int) (s op.Status, ok bool, err error) {

	if c.start < c.end || c.busy {
		s, err = c.enc.EncodeCommands(c.cmds[:c.end], &c.start,
			output, outputOffset)
		if s == op.ResultFailure {
			return s, false, err
		}
		c.busy = s == op.NeedsMoreOutput
		if c.start < c.end || c.busy {
			return op.NeedsMoreOutput, false, nil
		}
	}
	clear(c.cmds[:c.end])
	c.start, c.end = 0, 0
	return op.NeedsMoreInput, true, nil
}

// Encode compresses input[*inputOffset:] into output[*outputOffset:] and
// advances both offsets. It returns NeedsMoreInput if the input has been
// consumed and nothing is pending, NeedsMoreOutput if the output buffer is
// full. A failure is terminal.
func (c *Compressor) Encode(input []byte, inputOffset *int, output []byte,
	outputOffset *int) (op.Status, error) {

	if c.err != nil {
		return op.ResultFailure, c.err
	}
	if s := c.hw.write(output, outputOffset); s != op.ResultSuccess {
		return s, nil
	}
	for {
		s, ok, err := c.encodeRetained(output, outputOffset)
		if !ok {
			if s == op.ResultFailure {
				return c.fail(err)
			}
			return s, nil
		}
		before := *inputOffset
		s, err = c.asm.Stream(input, inputOffset, c.cmds[:], &c.end)
		c.read += int64(*inputOffset - before)
		if s == op.ResultFailure {
			return c.fail(err)
		}
		if c.end == 0 {
			if s == op.NeedsMoreInput {
				return s, nil
			}
			return c.fail(newError("assembler made no progress"))
		}
	}
}

// Flush completes the header, converts all input buffered in the
// assembler and flushes the entropy encoder. The status of the encoder
// flush is returned unchanged. Flush may be called again after
// NeedsMoreOutput.
func (c *Compressor) Flush(output []byte, outputOffset *int) (op.Status,
	error) {

	if c.err != nil {
		return op.ResultFailure, c.err
	}
	if s := c.hw.write(output, outputOffset); s != op.ResultSuccess {
		return s, nil
	}
	for {
		s, ok, err := c.encodeRetained(output, outputOffset)
		if !ok {
			if s == op.ResultFailure {
				return c.fail(err)
			}
			return s, nil
		}
		if c.drained {
			break
		}
		s, err = c.asm.Flush(c.cmds[:], &c.end)
		switch s {
		case op.ResultFailure:
			return c.fail(err)
		case op.ResultSuccess:
			if c.end == 0 {
				c.drained = true
			}
		}
	}
	s, err := c.enc.Flush(output, outputOffset)
	if s == op.ResultFailure {
		return c.fail(err)
	}
	return s, nil
}

// Free releases the resources of the compressor and logs the encoder
// statistics.
func (c *Compressor) Free() {
	clear(c.cmds[:])
	c.start, c.end = 0, 0
	if c.enc != nil {
		c.enc.DebugPrint(c.read)
		c.enc.Free()
		c.enc = nil
	}
	if c.err == nil {
		c.err = newError("compressor freed")
	}
	xlog.Printf(c.logger, "dvz: compressor freed after %d bytes", c.read)
}
