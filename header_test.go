// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dvz

import (
	"errors"
	"testing"

	"github.com/ulikunitz/dvz/op"
)

func TestHeaderRoundTrip(t *testing.T) {
	for w := MinWindowSize; w <= MaxWindowSize; w++ {
		for step := 1; step <= HeaderLen; step++ {
			var hw headerWriter
			hw.init(w)
			var h []byte
			for {
				out := make([]byte, step)
				o := 0
				s := hw.write(out, &o)
				h = append(h, out[:o]...)
				if s == op.ResultSuccess {
					break
				}
				if o != step {
					t.Fatalf("w %d step %d: wrote %d bytes",
						w, step, o)
				}
			}
			if len(h) != HeaderLen {
				t.Fatalf("header length %d; want %d", len(h),
					HeaderLen)
			}
			g, err := ParseHeader(h)
			if err != nil {
				t.Fatalf("ParseHeader error %s", err)
			}
			if g != w {
				t.Fatalf("ParseHeader returned window size %d;"+
					" want %d", g, w)
			}
		}
	}
}

func TestHeaderRejection(t *testing.T) {
	h := AppendHeader(nil, 20)
	for i := range magic {
		p := append([]byte{}, h...)
		p[i] ^= 0x01
		if _, err := ParseHeader(p); !errors.Is(err, ErrMagic) {
			t.Errorf("magic byte %d mutated: error %v", i, err)
		}
	}
	for _, w := range []int{0, 9, 25, 26, 255} {
		p := AppendHeader(nil, w)
		if _, err := ParseHeader(p); !errors.Is(err, ErrWindowSize) {
			t.Errorf("window size %d: error %v", w, err)
		}
	}
	if _, err := ParseHeader(h[:HeaderLen-1]); err == nil {
		t.Errorf("short header accepted")
	}
}

func TestHeaderReservedBytes(t *testing.T) {
	h := AppendHeader(nil, 16)
	for i, b := range h {
		if i < len(magic) || i == windowSizeOffset {
			continue
		}
		if b != 0 {
			t.Fatalf("reserved byte %d is %#02x", i, b)
		}
	}
	h[4], h[10] = 1, 2
	if w, err := ParseHeader(h); err != nil || w != 16 {
		t.Fatalf("ParseHeader returned %d, %v", w, err)
	}
}
