// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rc implements the binary adaptive range coder used by the dvz
// entropy codec. Bits are coded either with an adaptive probability or
// directly with probability 1/2. Bit trees code fixed-size values.
package rc

// moveBits defines the number of bits used for the updates of probability
// values.
const moveBits = 5

// ProbBits defines the number of bits of a probability value.
const ProbBits = 11

// ProbInit is the initial value for a probability value. It is 0.5.
const ProbInit Prob = 1 << (ProbBits - 1)

// Prob represents the probability of a zero bit.
type Prob uint16

// Dec decreases the probability. The decrease is proportional to the
// probability value.
func (p *Prob) Dec() {
	*p -= *p >> moveBits
}

// Inc increases the probability. The Increase is proportional to the
// difference of 1 and the probability value.
func (p *Prob) Inc() {
	*p += ((1 << ProbBits) - *p) >> moveBits
}

// Bound computes the new bound for a given range using the probability
// value.
func (p Prob) Bound(r uint32) uint32 {
	return (r >> ProbBits) * uint32(p)
}

// InitProbs sets all probabilities to ProbInit.
func InitProbs(probs []Prob) {
	for i := range probs {
		probs[i] = ProbInit
	}
}
