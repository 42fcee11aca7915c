// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assembler converts raw bytes into commands using the sequencers
// of the package github.com/ulikunitz/lz.
//
// Data is written into the window of the sequencer and only sequenced if
// the window is full or Flush is called. The produced commands therefore
// don't depend on how the input is split over the calls of Stream.
package assembler

import (
	"errors"
	"fmt"

	"github.com/ulikunitz/dvz/op"
	"github.com/ulikunitz/lz"
)

// Config defines the parameters for the assembler.
type Config struct {
	// WindowSize is the binary logarithm of the history size.
	WindowSize int
	// Dictionary is used as history before the first byte.
	Dictionary []byte
	// LZ provides the sequencer configuration. The default is a
	// double hash sequencer.
	LZ lz.SeqConfig
}

// fixBufConfig makes the buffer large enough that the whole history
// remains available after shrinking the buffer.
func fixBufConfig(cfg lz.SeqConfig, windowSize int) {
	bc := cfg.BufConfig()
	bc.WindowSize = windowSize
	bc.ShrinkSize = bc.WindowSize
	bc.BufferSize = 2 * bc.WindowSize

	const minBufferSize = 256 << 10
	if bc.BufferSize < minBufferSize {
		bc.BufferSize = minBufferSize
	}
	cfg.SetBufConfig(bc)
}

// SetDefaults sets the sequencer configuration if it is missing and
// adapts its buffer configuration to the window size.
func (cfg *Config) SetDefaults() {
	if cfg.WindowSize == 0 {
		cfg.WindowSize = 22
	}
	if cfg.LZ == nil {
		cfg.LZ = &lz.DHSConfig{WindowSize: 1 << cfg.WindowSize}
	}
	cfg.LZ.SetDefaults()
	fixBufConfig(cfg.LZ, 1<<cfg.WindowSize)
}

// Verify checks the configuration.
func (cfg *Config) Verify() error {
	if cfg == nil {
		return errors.New("assembler: Config pointer must not be nil")
	}
	if !(10 <= cfg.WindowSize && cfg.WindowSize <= 24) {
		return fmt.Errorf("assembler: window size %d out of range",
			cfg.WindowSize)
	}
	if cfg.LZ == nil {
		return errors.New("assembler: LZ configuration must be set")
	}
	if len(cfg.Dictionary) > 1<<cfg.WindowSize {
		return errors.New("assembler: dictionary exceeds window")
	}
	return cfg.LZ.Verify()
}

// Assembler produces commands from raw bytes. The data of literal commands
// refers to the internal block and is valid until the next call of Stream
// or Flush that sequences new data. Callers must have consumed all
// literals before that happens, which is the case if all commands returned
// have been handled before NeedsMoreInput is passed on.
type Assembler struct {
	seq     lz.Sequencer
	window  *lz.Window
	blk     lz.Block
	dictLen int64

	// pos is the number of stream bytes converted into commands
	pos int64

	// progress within blk
	seqIndex int
	litIndex int
	// matchStage is set if the literals of the current sequence have
	// been emitted
	matchStage bool
}

// New creates a new assembler.
func New(cfg Config) (*Assembler, error) {
	cfg.SetDefaults()
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	seq, err := cfg.LZ.NewSequencer()
	if err != nil {
		return nil, err
	}
	a := &Assembler{
		seq:     seq,
		window:  seq.WindowPtr(),
		dictLen: int64(len(cfg.Dictionary)),
	}
	if err = a.window.Reset(cfg.Dictionary); err != nil {
		return nil, err
	}
	return a, nil
}

// Pos returns the number of bytes that have been converted into commands.
func (a *Assembler) Pos() int64 { return a.pos }

// Buffered returns the number of bytes written to the window but not
// yet converted.
func (a *Assembler) Buffered() int { return a.window.Buffered() }

// sequence computes the next block.
func (a *Assembler) sequence() error {
	a.blk.Sequences = a.blk.Sequences[:0]
	a.blk.Literals = a.blk.Literals[:0]
	a.seqIndex, a.litIndex, a.matchStage = 0, 0, false
	_, err := a.seq.Sequence(&a.blk, 0)
	return err
}

func push(cmds []op.Command, count *int, c op.Command) {
	cmds[*count] = c
	*count++
}

// emitMatch converts a match into commands. A match whose source starts
// in the dictionary is converted into a Dict command followed by a Copy
// for the rest.
func (a *Assembler) emitMatch(s lz.Seq, cmds []op.Command, count *int) {
	d, m := int64(s.Offset), int64(s.MatchLen)
	if d <= a.pos {
		push(cmds, count, op.Copy{Distance: uint32(d), Length: uint32(m)})
		a.pos += m
		return
	}
	k := min(m, d-a.pos)
	push(cmds, count, op.Dict{
		Offset: uint32(a.dictLen - (d - a.pos)),
		Length: uint32(k),
	})
	a.pos += k
	if m -= k; m > 0 {
		push(cmds, count, op.Copy{Distance: uint32(d), Length: uint32(m)})
		a.pos += m
	}
}

// emit converts the current block into commands. It returns false if the
// command buffer is full before the block has been completely converted.
func (a *Assembler) emit(cmds []op.Command, count *int) (done bool,
	err error) {

	for a.seqIndex < len(a.blk.Sequences) {
		s := a.blk.Sequences[a.seqIndex]
		if !a.matchStage {
			if s.LitLen > 0 {
				if *count >= len(cmds) {
					return false, nil
				}
				i := a.litIndex
				a.litIndex += int(s.LitLen)
				push(cmds, count,
					op.Literal{Data: a.blk.Literals[i:a.litIndex]})
				a.pos += int64(s.LitLen)
			}
			a.matchStage = true
		}
		d := int64(s.Offset)
		if d == 0 || d > a.pos+a.dictLen {
			return false, fmt.Errorf(
				"assembler: match offset %d out of range", d)
		}
		need := 1
		if d > a.pos && int64(s.MatchLen) > d-a.pos {
			need = 2
		}
		if *count+need > len(cmds) {
			return false, nil
		}
		a.emitMatch(s, cmds, count)
		a.matchStage = false
		a.seqIndex++
	}
	if a.litIndex < len(a.blk.Literals) {
		if *count >= len(cmds) {
			return false, nil
		}
		p := a.blk.Literals[a.litIndex:]
		push(cmds, count, op.Literal{Data: p})
		a.litIndex = len(a.blk.Literals)
		a.pos += int64(len(p))
	}
	return true, nil
}

// Stream writes input from input[*offset:] into the window and appends the
// commands to cmds starting at cmds[*count]. It returns NeedsMoreOutput if
// the command buffer is full and NeedsMoreInput if all input has been
// consumed. Bytes not yet converted into commands remain buffered until
// the window is full or Flush is called.
func (a *Assembler) Stream(input []byte, offset *int, cmds []op.Command,
	count *int) (op.Status, error) {

	for {
		done, err := a.emit(cmds, count)
		if err != nil {
			return op.ResultFailure, err
		}
		if !done {
			return op.NeedsMoreOutput, nil
		}
		if *offset >= len(input) {
			return op.NeedsMoreInput, nil
		}
		n, err := a.window.Write(input[*offset:])
		*offset += n
		if err == nil {
			continue
		}
		if err != lz.ErrFullBuffer {
			return op.ResultFailure, err
		}
		if err = a.sequence(); err != nil {
			if err == lz.ErrEmptyBuffer && n > 0 {
				continue
			}
			return op.ResultFailure, fmt.Errorf(
				"assembler: no progress: %w", err)
		}
	}
}

// Flush converts all buffered bytes into commands. It returns
// NeedsMoreOutput if the command buffer is full and ResultSuccess if
// nothing is buffered anymore.
func (a *Assembler) Flush(cmds []op.Command, count *int) (op.Status,
	error) {

	for {
		done, err := a.emit(cmds, count)
		if err != nil {
			return op.ResultFailure, err
		}
		if !done {
			return op.NeedsMoreOutput, nil
		}
		err = a.sequence()
		if err == lz.ErrEmptyBuffer {
			return op.ResultSuccess, nil
		}
		if err != nil {
			return op.ResultFailure, err
		}
	}
}
