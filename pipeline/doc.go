// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline defines the handoff between a main side providing
// compressed bytes and a worker side decoding them into commands.
//
// The main side pushes byte ranges and context maps into bounded queues
// and pulls command results. The worker side pulls the data and pushes
// commands, the end-of-stream marker and drained ranges back. No
// operation blocks: a push into a full queue fails without changing the
// queue and the caller retries after the other side made progress.
// Pulling from an empty queue is a programming error and panics.
//
// SerialWorker implements the queues for use on a single goroutine,
// ChannelWorker for two goroutines. Decompress drives a complete
// decompression with either of them.
package pipeline
