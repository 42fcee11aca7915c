// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package op

import "fmt"

// CommandBufferSize is the capacity of the command buffers exchanged
// between the assembler and the entropy encoder.
const CommandBufferSize = 16

// Command is a unit of the structured stream between raw bytes and the
// entropy coded representation. The implementations are Literal, Copy,
// Dict, BlockSwitch and Nop; the set is closed.
type Command interface {
	// Len returns the number of raw bytes the command produces.
	Len() int
	command()
}

// Literal is a run of bytes copied verbatim into the output.
type Literal struct {
	Data []byte
}

// Len returns the length of the literal run.
func (l Literal) Len() int { return len(l.Data) }

func (Literal) command() {}

// String returns a short representation of the literal.
func (l Literal) String() string {
	if len(l.Data) <= 8 {
		return fmt.Sprintf("lit(%q)", l.Data)
	}
	return fmt.Sprintf("lit(%q...%d)", l.Data[:8], len(l.Data))
}

// Copy repeats Length bytes starting Distance bytes back in the history.
// The regions may overlap.
type Copy struct {
	Distance uint32
	Length   uint32
}

// Len returns the number of bytes copied.
func (c Copy) Len() int { return int(c.Length) }

func (Copy) command() {}

// String returns a representation of the copy command.
func (c Copy) String() string {
	return fmt.Sprintf("copy(%d,%d)", c.Distance, c.Length)
}

// Dict copies Length bytes from the preset dictionary starting at Offset.
type Dict struct {
	Offset uint32
	Length uint32
}

// Len returns the number of bytes taken from the dictionary.
func (d Dict) Len() int { return int(d.Length) }

func (Dict) command() {}

// String returns a representation of the dictionary reference.
func (d Dict) String() string {
	return fmt.Sprintf("dict(%d,%d)", d.Offset, d.Length)
}

// NumBlockTypes gives the number of literal block types.
const NumBlockTypes = 4

// BlockSwitch changes the literal block type used for selecting the literal
// models. It produces no bytes.
type BlockSwitch struct {
	Type uint8
}

// Len returns zero.
func (BlockSwitch) Len() int { return 0 }

func (BlockSwitch) command() {}

// String returns a representation of the block switch.
func (b BlockSwitch) String() string {
	return fmt.Sprintf("switch(%d)", b.Type)
}

// Nop is a command without effect.
type Nop struct{}

// Len returns zero.
func (Nop) Len() int { return 0 }

func (Nop) command() {}

// String returns "nop".
func (Nop) String() string { return "nop" }

// Kind numbers the command variants. It is used by the codec as symbol for
// the command type.
func Kind(c Command) int {
	switch c.(type) {
	case Literal:
		return KindLiteral
	case Copy:
		return KindCopy
	case Dict:
		return KindDict
	case BlockSwitch:
		return KindBlockSwitch
	case Nop:
		return KindNop
	}
	panic(fmt.Errorf("op: unexpected command type %T", c))
}

// Command kinds as returned by Kind.
const (
	KindLiteral = iota
	KindCopy
	KindDict
	KindBlockSwitch
	KindNop
	NumKinds
)
