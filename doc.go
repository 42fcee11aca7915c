// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dvz implements a resumable streaming compressor and
// decompressor.
//
// A dvz stream consists of a 16-byte header followed by a sequence of
// chunks created by the package codec. The Compressor converts raw bytes
// into commands using the package assembler and entropy codes them; the
// Decompressor reverses the process. Both never block: every call
// consumes as much input and produces as much output as possible and
// reports by its status whether more input or more output space is
// required.
//
// The Writer and Reader types provide the io.Writer and io.Reader
// interfaces on top of the streaming types.
package dvz
