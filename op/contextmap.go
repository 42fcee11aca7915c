// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package op

// Sizes of the model sets selected by the context map.
const (
	NumLiteralModels  = 8
	NumDistanceModels = 4

	// LiteralClasses is the number of classes of the previous literal
	// byte. The class is the high nibble of the byte.
	LiteralClasses = 16
)

// ContextMap selects the probability models used by the entropy codec. The
// literal map is indexed by block type and the class of the previous
// literal; the distance map by the length class of a copy command. Entries
// are taken modulo the number of models. Encoder and decoder must use the
// same map; it is transferred out-of-band once per logical block.
type ContextMap struct {
	Literal  [NumBlockTypes * LiteralClasses]byte
	Distance [NumDistanceModels]byte
}

// DefaultContextMap returns the map used if none is configured. Each block
// type gets two literal models, one for bytes following ASCII control and
// punctuation characters and one for all others.
func DefaultContextMap() ContextMap {
	var cm ContextMap
	for t := 0; t < NumBlockTypes; t++ {
		for c := 0; c < LiteralClasses; c++ {
			m := 2 * t
			if c >= 4 {
				m++
			}
			cm.Literal[t*LiteralClasses+c] = byte(m)
		}
	}
	for i := range cm.Distance {
		cm.Distance[i] = byte(i)
	}
	return cm
}

// LiteralModel returns the literal model index for the block type and the
// previous literal byte.
func (cm *ContextMap) LiteralModel(blockType uint8, prev byte) int {
	i := int(blockType%NumBlockTypes)*LiteralClasses + int(prev>>4)
	return int(cm.Literal[i]) % NumLiteralModels
}

// DistanceModel returns the distance model for a copy of the given length.
func (cm *ContextMap) DistanceModel(length uint32) int {
	i := length
	if i > NumDistanceModels {
		i = NumDistanceModels
	}
	if i > 0 {
		i--
	}
	return int(cm.Distance[i]) % NumDistanceModels
}
