// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import "github.com/ulikunitz/dvz/op"

// Stats collects counters about the coded stream.
type Stats struct {
	Chunks        int64
	Literals      int64
	Copies        int64
	DictRefs      int64
	BlockSwitches int64
	Nops          int64
	RawBytes      int64
	PayloadBytes  int64
	HeaderBytes   int64
}

// count records a single command.
func (s *Stats) count(c op.Command) {
	switch c.(type) {
	case op.Literal:
		s.Literals++
	case op.Copy:
		s.Copies++
	case op.Dict:
		s.DictRefs++
	case op.BlockSwitch:
		s.BlockSwitches++
	case op.Nop:
		s.Nops++
	}
	s.RawBytes += int64(c.Len())
}
