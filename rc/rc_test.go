// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rc

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestBitsRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	bits := make([]uint32, 10000)
	for i := range bits {
		// skewed distribution to exercise adaptation
		if rnd.Intn(10) == 0 {
			bits[i] = 1
		}
	}

	var buf bytes.Buffer
	e := NewEncoder(&buf)
	probs := make([]Prob, 4)
	InitProbs(probs)
	for i, b := range bits {
		var err error
		if i%3 == 0 {
			err = e.EncodeDirect(b)
		} else {
			err = e.Encode(b, &probs[i%4])
		}
		if err != nil {
			t.Fatalf("encode error %s", err)
		}
	}
	if err := e.Close(); err != nil {
		t.Fatalf("e.Close() error %s", err)
	}
	if e.Len() != int64(buf.Len()) {
		t.Fatalf("e.Len() %d; want %d", e.Len(), buf.Len())
	}
	if buf.Len() >= len(bits)/8 {
		t.Errorf("compressed length %d; want less than %d",
			buf.Len(), len(bits)/8)
	}

	d, err := NewDecoder(&buf)
	if err != nil {
		t.Fatalf("NewDecoder error %s", err)
	}
	InitProbs(probs)
	for i, want := range bits {
		var b uint32
		if i%3 == 0 {
			b, err = d.DecodeDirect()
		} else {
			b, err = d.Decode(&probs[i%4])
		}
		if err != nil {
			t.Fatalf("decode error %s at bit %d", err, i)
		}
		if b != want {
			t.Fatalf("bit %d: got %d; want %d", i, b, want)
		}
	}
	if !d.PossiblyAtEnd() {
		t.Errorf("d.PossiblyAtEnd() is false at the end")
	}
}

func TestTreeRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 7, 255, 128, 3, 200, 200, 200}
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	tree := make([]Prob, 1<<8)
	InitProbs(tree)
	for _, v := range values {
		if err := EncodeTree(e, tree, 8, v); err != nil {
			t.Fatalf("EncodeTree error %s", err)
		}
		if err := EncodeDirectBits(e, 13, v*31); err != nil {
			t.Fatalf("EncodeDirectBits error %s", err)
		}
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}

	d, err := NewDecoder(&buf)
	if err != nil {
		t.Fatalf("NewDecoder error %s", err)
	}
	InitProbs(tree)
	for _, want := range values {
		v, err := DecodeTree(d, tree, 8)
		if err != nil {
			t.Fatalf("DecodeTree error %s", err)
		}
		if v != want {
			t.Fatalf("DecodeTree got %d; want %d", v, want)
		}
		w, err := DecodeDirectBits(d, 13)
		if err != nil {
			t.Fatalf("DecodeDirectBits error %s", err)
		}
		if w != want*31 {
			t.Fatalf("DecodeDirectBits got %d; want %d", w, want*31)
		}
	}
}

func TestDecoderFirstByte(t *testing.T) {
	_, err := NewDecoder(bytes.NewReader([]byte{1, 0, 0, 0, 0}))
	if err == nil {
		t.Fatalf("NewDecoder accepted non-zero first byte")
	}
	_, err = NewDecoder(bytes.NewReader([]byte{0, 0}))
	if err == nil {
		t.Fatalf("NewDecoder accepted truncated stream")
	}
}
