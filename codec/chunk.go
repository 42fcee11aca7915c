// Copyright 2014-2025 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Control bytes starting a chunk.
const (
	ctrlEnd   byte = 0x00
	ctrlChunk byte = 0x01
)

// maxHeaderLen is the maximum length of an encoded chunk header: control
// byte, three uvarints limited to 32 bit and the checksum.
const maxHeaderLen = 1 + 3*binary.MaxVarintLen32 + 4

// chunkHeader describes a command chunk. The end-of-stream marker consists
// only of the control byte.
type chunkHeader struct {
	control     byte
	commands    int
	rawSize     int
	payloadSize int
	checksum    uint32
}

// String returns a representation of the header for debugging.
func (h chunkHeader) String() string {
	if h.control == ctrlEnd {
		return "chunk{end}"
	}
	return fmt.Sprintf("chunk{cmds:%d raw:%d payload:%d sum:%08x}",
		h.commands, h.rawSize, h.payloadSize, h.checksum)
}

// checksum computes the chunk checksum: the lower 32 bits of the xxhash64
// value of the payload.
func checksum(payload []byte) uint32 {
	return uint32(xxhash.Sum64(payload))
}

// append appends the encoded header to p.
func (h chunkHeader) append(p []byte) []byte {
	p = append(p, h.control)
	if h.control == ctrlEnd {
		return p
	}
	p = binary.AppendUvarint(p, uint64(h.commands))
	p = binary.AppendUvarint(p, uint64(h.rawSize))
	p = binary.AppendUvarint(p, uint64(h.payloadSize))
	return binary.LittleEndian.AppendUint32(p, h.checksum)
}

// errShortHeader indicates that more bytes are required to parse the chunk
// header.
var errShortHeader = errors.New("codec: chunk header incomplete")

// readUvarint reads an uvarint that must not exceed limit.
func readUvarint(p []byte, limit int, name string) (v int, n int, err error) {
	u, n := binary.Uvarint(p)
	if n == 0 {
		if len(p) >= binary.MaxVarintLen32 {
			return 0, 0, newError(name + " uvarint too long")
		}
		return 0, 0, errShortHeader
	}
	if n < 0 || n > binary.MaxVarintLen32 || u > uint64(limit) {
		return 0, 0, fmt.Errorf("codec: %s %d out of range", name, u)
	}
	return int(u), n, nil
}

// parseChunkHeader parses the chunk header at the start of p. It returns
// errShortHeader if p doesn't contain the complete header.
func parseChunkHeader(p []byte) (h chunkHeader, n int, err error) {
	if len(p) == 0 {
		return h, 0, errShortHeader
	}
	h.control = p[0]
	n = 1
	switch h.control {
	case ctrlEnd:
		return h, n, nil
	case ctrlChunk:
	default:
		return h, 0, fmt.Errorf("codec: unknown control byte %#02x",
			h.control)
	}
	fields := []struct {
		v     *int
		limit int
		name  string
	}{
		{&h.commands, maxChunkCommands, "command count"},
		{&h.rawSize, maxChunkRaw, "raw size"},
		{&h.payloadSize, maxChunkPayload, "payload size"},
	}
	for _, f := range fields {
		v, k, err := readUvarint(p[n:], f.limit, f.name)
		if err != nil {
			return h, 0, err
		}
		*f.v = v
		n += k
	}
	if len(p[n:]) < 4 {
		return h, 0, errShortHeader
	}
	h.checksum = binary.LittleEndian.Uint32(p[n:])
	n += 4
	if h.commands == 0 || h.payloadSize < 5 {
		return h, 0, newError("empty command chunk")
	}
	return h, n, nil
}
