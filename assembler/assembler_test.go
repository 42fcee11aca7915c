// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assembler

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/kr/pretty"
	"github.com/ulikunitz/dvz/op"
)

// testData returns text with many repetitions mixed with random bytes.
func testData(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	words := []string{"alpha ", "beta ", "gamma ", "delta ", "epsilon ",
		"the quick brown fox ", "jumps over the lazy dog\n"}
	var buf bytes.Buffer
	for buf.Len() < n {
		if r.Intn(10) == 0 {
			fmt.Fprintf(&buf, "%d", r.Int63())
			continue
		}
		buf.WriteString(words[r.Intn(len(words))])
	}
	return buf.Bytes()[:n]
}

// expander reconstructs the raw data from commands.
type expander struct {
	dict []byte
	data []byte
	cmds []op.Command
}

func (e *expander) add(cmds []op.Command) error {
	for _, c := range cmds {
		switch c := c.(type) {
		case op.Literal:
			p := append([]byte(nil), c.Data...)
			e.data = append(e.data, p...)
			e.cmds = append(e.cmds, op.Literal{Data: p})
			continue
		case op.Copy:
			if int(c.Distance) > len(e.data) || c.Distance == 0 {
				return fmt.Errorf("copy %v out of range", c)
			}
			for i := 0; i < int(c.Length); i++ {
				e.data = append(e.data,
					e.data[len(e.data)-int(c.Distance)])
			}
		case op.Dict:
			if int(c.Offset+c.Length) > len(e.dict) {
				return fmt.Errorf("dict %v out of range", c)
			}
			e.data = append(e.data,
				e.dict[c.Offset:c.Offset+c.Length]...)
		}
		e.cmds = append(e.cmds, c)
	}
	return nil
}

// assemble runs the assembler over data split into pieces of size step.
func assemble(t *testing.T, cfg Config, data []byte, step int) *expander {
	t.Helper()
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New error %s", err)
	}
	e := &expander{dict: cfg.Dictionary}
	var cmds [op.CommandBufferSize]op.Command
	for i := 0; i < len(data); i += step {
		in := data[i:min(i+step, len(data))]
		offset := 0
		for {
			count := 0
			s, err := a.Stream(in, &offset, cmds[:], &count)
			if err = e.add(cmds[:count]); err != nil {
				t.Fatal(err)
			}
			if s == op.NeedsMoreInput {
				break
			}
			if s != op.NeedsMoreOutput {
				t.Fatalf("Stream returned %v error %v", s, err)
			}
		}
		if offset != len(in) {
			t.Fatalf("Stream consumed %d bytes; want %d", offset,
				len(in))
		}
	}
	for {
		count := 0
		s, err := a.Flush(cmds[:], &count)
		if err = e.add(cmds[:count]); err != nil {
			t.Fatal(err)
		}
		if s == op.ResultSuccess {
			break
		}
		if s != op.NeedsMoreOutput {
			t.Fatalf("Flush returned %v error %v", s, err)
		}
	}
	if a.Pos() != int64(len(data)) {
		t.Fatalf("Pos() is %d; want %d", a.Pos(), len(data))
	}
	return e
}

func TestAssemble(t *testing.T) {
	data := testData(600000, 1)
	cfg := Config{WindowSize: 16}
	for _, step := range []int{1 << 20, 100000, 4097} {
		e := assemble(t, cfg, data, step)
		if !bytes.Equal(e.data, data) {
			t.Fatalf("step %d: expanded data differs", step)
		}
	}
}

func TestSplitIndependence(t *testing.T) {
	data := testData(300000, 2)
	cfg := Config{WindowSize: 16}
	a := assemble(t, cfg, data, len(data))
	b := assemble(t, cfg, data, 777)
	if diff := pretty.Diff(a.cmds, b.cmds); len(diff) > 0 {
		t.Fatalf("commands depend on input split: %d differences",
			len(diff))
	}
}

func TestDictionary(t *testing.T) {
	dict := testData(4000, 3)
	data := append(append([]byte{}, dict[1000:3000]...), testData(5000, 4)...)
	cfg := Config{WindowSize: 16, Dictionary: dict}
	e := assemble(t, cfg, data, 1000)
	if !bytes.Equal(e.data, data) {
		t.Fatalf("expanded data differs")
	}
	n := 0
	for _, c := range e.cmds {
		if _, ok := c.(op.Dict); ok {
			n++
		}
	}
	t.Logf("%d dictionary references", n)
}

func TestEmpty(t *testing.T) {
	e := assemble(t, Config{WindowSize: 16}, nil, 1)
	if len(e.cmds) != 0 {
		t.Fatalf("got %d commands for empty input", len(e.cmds))
	}
}

func TestVerify(t *testing.T) {
	cfg := Config{WindowSize: 25}
	if _, err := New(cfg); err == nil {
		t.Fatalf("window size 25 accepted")
	}
	cfg = Config{WindowSize: 10, Dictionary: make([]byte, 2000)}
	if _, err := New(cfg); err == nil {
		t.Fatalf("dictionary larger than window accepted")
	}
}
