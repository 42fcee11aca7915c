// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputPaths(t *testing.T) {
	out, tmp, err := dvzPacker{}.outputPaths("a.txt")
	if err != nil {
		t.Fatalf("outputPaths error %s", err)
	}
	if out != "a.txt.dvz" || tmp != "a.txt.dvz.pack" {
		t.Fatalf("got %q, %q", out, tmp)
	}
	if _, _, err = (dvzPacker{}).outputPaths("a.dvz"); err == nil {
		t.Fatalf("packer accepted file with suffix .dvz")
	}
	out, _, err = dvzUnpacker{}.outputPaths("dir/a.txt.dvz")
	if err != nil {
		t.Fatalf("outputPaths error %s", err)
	}
	if out != "dir/a.txt" {
		t.Fatalf("got %q; want %q", out, "dir/a.txt")
	}
	for _, p := range []string{"a.txt", "dir/.dvz"} {
		if _, _, err = (dvzUnpacker{}).outputPaths(p); err == nil {
			t.Fatalf("unpacker accepted %q", p)
		}
	}
}

func TestPackUnpack(t *testing.T) {
	data := []byte(strings.Repeat("Alle meine Entchen schwimmen auf dem See. ", 100))
	for _, pipeline := range []bool{false, true} {
		opts := &options{window: 16, pipeline: pipeline}
		var z bytes.Buffer
		n, err := dvzPacker{}.pack(&z, bytes.NewReader(data), opts)
		if err != nil {
			t.Fatalf("pack error %s", err)
		}
		if n != int64(len(data)) {
			t.Fatalf("pack returned n=%d; want %d", n, len(data))
		}
		var out bytes.Buffer
		if _, err = (dvzUnpacker{}).pack(&out, &z, opts); err != nil {
			t.Fatalf("unpack error %s", err)
		}
		if !bytes.Equal(out.Bytes(), data) {
			t.Fatalf("pipeline=%t: unpacked data differs", pipeline)
		}
	}
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	data := []byte("hello, hello, hello, world\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile error %s", err)
	}
	processFile(path, &options{window: 16})
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("input file %s not removed", path)
	}
	processFile(path+dvzSuffix, &options{decompress: true, keep: true})
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error %s", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("got %q; want %q", got, data)
	}
	if _, err = os.Stat(path + dvzSuffix); err != nil {
		t.Fatalf("compressed file not kept: %s", err)
	}
}

func TestCompareFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(path, bytes.Repeat([]byte("abcd"), 512), 0644); err != nil {
		t.Fatalf("WriteFile error %s", err)
	}
	var buf bytes.Buffer
	if err := compareFile(&buf, path, 16); err != nil {
		t.Fatalf("compareFile error %s", err)
	}
	for _, name := range []string{"zstd", "s2", "lz4", "dvz-w16"} {
		if !strings.Contains(buf.String(), name) {
			t.Errorf("output misses %s:\n%s", name, buf.String())
		}
	}
}
