// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kr/pretty"
	"github.com/ulikunitz/dvz"
	"github.com/ulikunitz/dvz/codec"
	"github.com/ulikunitz/dvz/mem"
	"github.com/ulikunitz/dvz/op"
	"github.com/ulikunitz/dvz/xlog"
)

// Config provides the parameters for Decompress.
type Config struct {
	dvz.DecompressorConfig

	// Concurrent selects a ChannelWorker with the worker side running
	// on its own goroutine.
	Concurrent bool

	// BufferSize is the size of the ranges read from the source.
	BufferSize int
}

// SetDefaults sets default values for zero fields.
func (cfg *Config) SetDefaults() {
	cfg.DecompressorConfig.SetDefaults()
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 64 << 10
	}
}

// Verify checks the configuration.
func (cfg *Config) Verify() error {
	if cfg == nil {
		return errors.New("pipeline: Config pointer must not be nil")
	}
	if err := cfg.DecompressorConfig.Verify(); err != nil {
		return err
	}
	if cfg.BufferSize <= 0 {
		return fmt.Errorf("pipeline: BufferSize %d must be positive",
			cfg.BufferSize)
	}
	return nil
}

// decodeStage is the worker side: it decodes the commands from the
// compressed bytes provided by the demuxer.
type decodeStage struct {
	dm    *Demuxer
	cfg   *Config
	alloc mem.Allocator
	w     int
	cd    *codec.CommandDecoder

	// pending is the result that couldn't be pushed
	pending CommandResult
	done    bool
}

// step decodes commands until no further progress is possible.
func (s *decodeStage) step() (progress bool, err error) {
	if s.done {
		return false, nil
	}
	if s.cd == nil {
		if s.dm.ContextMapsReady() == 0 {
			return false, nil
		}
		cm := s.dm.PullContextMap()
		ccfg := s.cfg.CodecConfig(s.w)
		ccfg.ContextMap = &cm
		if s.cd, err = codec.NewCommandDecoder(s.alloc, ccfg); err != nil {
			return false, err
		}
		s.cd.Alloc = func(n int) []byte {
			return s.dm.AllocLiteral(n).Data
		}
		progress = true
	}
	for {
		if s.pending != nil {
			st, _ := s.dm.PushCommand(s.pending)
			if st != op.ResultSuccess {
				return progress, nil
			}
			progress = true
			if _, ok := s.pending.(EOF); ok {
				s.pending = nil
				s.done = true
				return progress, nil
			}
			s.pending = nil
		}
		in := s.dm.Peek(0)
		if len(in) == 0 {
			if s.dm.EncounteredEOF() {
				return progress, io.ErrUnexpectedEOF
			}
			return progress, nil
		}
		offset := 0
		c, st, err := s.cd.Next(in, &offset)
		s.dm.Consume(0, offset)
		if offset > 0 {
			progress = true
		}
		switch st {
		case op.ResultFailure:
			return progress, err
		case op.NeedsMoreInput:
			continue
		}
		if c == nil {
			s.pending = EOF{}
		} else {
			s.pending = Cmd{c}
		}
	}
}

// recodeStage is the main side: it pushes the compressed data and writes
// the bytes of the decoded commands.
type recodeStage struct {
	q       MainToWorker
	src     io.Reader
	dst     io.Writer
	alloc   mem.Allocator
	bufSize int
	rec     *codec.Recoder
	out     []byte
	n       int64

	next      Range
	hasNext   bool
	srcEOF    bool
	eofPushed bool
}

// feed pushes data into the queue until it is full.
func (m *recodeStage) feed() (progress bool, err error) {
	for !m.eofPushed {
		if !m.hasNext {
			if m.srcEOF {
				if m.q.PushEOF() != nil {
					return progress, nil
				}
				m.eofPushed = true
				return true, nil
			}
			buf := m.alloc.Alloc(m.bufSize)
			k, err := m.src.Read(buf)
			if err == io.EOF {
				m.srcEOF = true
			} else if err != nil {
				m.alloc.Free(buf)
				return progress, err
			}
			if k == 0 {
				m.alloc.Free(buf)
				continue
			}
			m.next = NewRange(buf, k)
			m.hasNext = true
		}
		if m.q.Push(m.next) != nil {
			return progress, nil
		}
		m.next = Range{}
		m.hasNext = false
		progress = true
	}
	return progress, nil
}

// handle processes a single result.
func (m *recodeStage) handle(r CommandResult) (eof bool, err error) {
	switch r := r.(type) {
	case Cmd:
		if err = m.rec.Push(r.Command); err != nil {
			return false, err
		}
		for {
			o := 0
			s := m.rec.Recode(m.out, &o)
			k, err := m.dst.Write(m.out[:o])
			m.n += int64(k)
			if err != nil {
				return false, err
			}
			if s == op.ResultSuccess {
				return false, nil
			}
		}
	case ProcessedData:
		m.alloc.Free(r.Range.Buffer())
	case EOF:
		return true, nil
	}
	return false, nil
}

// drain handles all available results.
func (m *recodeStage) drain() (progress, eof bool, err error) {
	for m.q.ResultsReady() > 0 {
		progress = true
		if eof, err = m.handle(m.q.Pull()); eof || err != nil {
			return progress, eof, err
		}
	}
	return progress, false, nil
}

// errStalled indicates that neither side of the pipeline could make
// progress.
var errStalled = errors.New("pipeline: no progress")

func runSerial(m *recodeStage, s *decodeStage) error {
	for {
		p1, err := m.feed()
		if err != nil {
			return err
		}
		p2, err := s.step()
		if err != nil {
			return err
		}
		p3, eof, err := m.drain()
		if err != nil || eof {
			return err
		}
		if !(p1 || p2 || p3) {
			return errStalled
		}
	}
}

func runWorker(ctx context.Context, s *decodeStage, cw *ChannelWorker) error {
	for !s.done {
		p, err := s.step()
		if err != nil {
			return err
		}
		if p {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-cw.WorkerWake():
		}
	}
	return nil
}

func runConcurrent(m *recodeStage, s *decodeStage, cw *ChannelWorker) error {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- runWorker(ctx, s, cw) }()
	defer func() {
		cancel()
		if errCh != nil {
			<-errCh
		}
	}()
	for {
		p1, err := m.feed()
		if err != nil {
			return err
		}
		p2, eof, err := m.drain()
		if err != nil || eof {
			return err
		}
		if p1 || p2 {
			continue
		}
		select {
		case <-cw.MainWake():
		case err = <-errCh:
			errCh = nil
			if err != nil {
				return err
			}
		}
	}
}

// Decompress reads the dvz stream from src and writes the decompressed
// data to dst. The main side and the worker side run on the same
// goroutine unless cfg.Concurrent is set.
func Decompress(dst io.Writer, src io.Reader, cfg Config) (n int64,
	err error) {

	cfg.SetDefaults()
	if err = cfg.Verify(); err != nil {
		return 0, err
	}
	var hdr [dvz.HeaderLen]byte
	if _, err = io.ReadFull(src, hdr[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}
	w, err := dvz.ParseHeader(hdr[:])
	if err != nil {
		return 0, err
	}
	alloc := cfg.Allocator
	rec, err := codec.NewRecoder(alloc, w, cfg.Dictionary)
	if err != nil {
		return 0, err
	}
	defer rec.Free()
	rec.Release = alloc.Free

	var (
		mq     MainToWorker
		worker WorkerToMain
		cw     *ChannelWorker
	)
	if cfg.Concurrent {
		cw = NewChannelWorker(alloc)
		mq, worker = cw, cw
	} else {
		sw := NewSerialWorker(alloc)
		mq, worker = sw, sw
	}
	if err = mq.PushContextMap(*cfg.ContextMap); err != nil {
		return 0, err
	}
	m := &recodeStage{
		q:       mq,
		src:     src,
		dst:     dst,
		alloc:   alloc,
		bufSize: cfg.BufferSize,
		rec:     rec,
		out:     make([]byte, 32<<10),
	}
	s := &decodeStage{
		dm:    NewDemuxer(worker),
		cfg:   &cfg,
		alloc: alloc,
		w:     w,
	}
	if cfg.Concurrent {
		err = runConcurrent(m, s, cw)
	} else {
		err = runSerial(m, s)
	}
	if s.cd != nil {
		xlog.Printf(cfg.Logger, "pipeline: wrote %d bytes\n%s", m.n,
			pretty.Sprint(s.cd.Stats()))
		s.cd.Free()
	}
	return m.n, err
}
