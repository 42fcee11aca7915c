// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xlog

import (
	"bytes"
	"log"
	"testing"
)

func TestNilLogger(t *testing.T) {
	var l Logger
	Print(l, "a")
	Printf(l, "%d", 1)
	Println(l, "b")
	if WithPrefix(nil, "x: ") != nil {
		t.Fatalf("WithPrefix(nil) returned non-nil logger")
	}
}

func TestWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := WithPrefix(log.New(&buf, "", 0), "codec: ")
	Printf(l, "chunk %d", 3)
	const want = "codec: chunk 3\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q; want %q", got, want)
	}
}
